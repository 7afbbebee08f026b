package generator

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/money"
)

// UBL 2.1 namespaces.
const (
	nsUBLInvoice    = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	nsUBLCreditNote = "urn:oasis:names:specification:ubl:schema:xsd:CreditNote-2"
	nsCAC           = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	nsCBC           = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// ublGenerator renders the UBL 2.1 syntax. The same builder serves
// XRechnung UBL, PEPPOL BIS, NLCIUS and CIUS-RO; they differ only in
// customization/profile ids and in the validation profile applied upstream.
type ublGenerator struct {
	format          model.OutputFormat
	customizationID string
	profileID       string
}

func (g *ublGenerator) Format() model.OutputFormat { return g.format }
func (g *ublGenerator) FileExtension() string      { return "xml" }
func (g *ublGenerator) MimeType() string           { return "application/xml" }

func (g *ublGenerator) Generate(inv *model.CanonicalInvoice) (*model.GenerationResult, error) {
	if inv.Seller.Name == "" || len(inv.LineItems) == 0 {
		return invalidResult(model.ValidationError{
			Level:    model.LevelError,
			RuleID:   "UBL-PRE-01",
			Location: "seller.name",
			Message:  "seller name and at least one line item are required for UBL generation",
		}), nil
	}

	xml, err := g.buildXML(inv)
	if err != nil {
		return nil, err
	}

	structural := g.Validate([]byte(xml))

	return &model.GenerationResult{
		XMLContent:       xml,
		FileName:         fmt.Sprintf("%s_%s.xml", sanitizeFileName(inv.InvoiceNumber), g.format),
		FileSize:         len(xml),
		MimeType:         g.MimeType(),
		ValidationStatus: model.StatusFrom(structural.Errors, nil),
		ValidationErrors: structural.Errors,
	}, nil
}

func (g *ublGenerator) buildXML(inv *model.CanonicalInvoice) (string, error) {
	issueDate, err := parseDate(g.format, "invoice.invoiceDate", inv.InvoiceDate)
	if err != nil {
		return "", err
	}

	creditNote := inv.IsCreditNote()
	currency := inv.CurrencyCode

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rootName, rootNS := "Invoice", nsUBLInvoice
	if creditNote {
		rootName, rootNS = "CreditNote", nsUBLCreditNote
	}
	root := doc.CreateElement(rootName)
	root.CreateAttr("xmlns", rootNS)
	root.CreateAttr("xmlns:cac", nsCAC)
	root.CreateAttr("xmlns:cbc", nsCBC)

	text(root, "cbc:CustomizationID", g.customizationID)
	text(root, "cbc:ProfileID", g.profileID)
	text(root, "cbc:ID", inv.InvoiceNumber)
	text(root, "cbc:IssueDate", issueDate.Format("2006-01-02"))

	if !creditNote && inv.Payment.DueDate != "" {
		due, err := parseDate(g.format, "payment.dueDate", inv.Payment.DueDate)
		if err != nil {
			return "", err
		}
		text(root, "cbc:DueDate", due.Format("2006-01-02"))
	}

	if creditNote {
		text(root, "cbc:CreditNoteTypeCode", string(inv.DocumentTypeCode))
	} else {
		text(root, "cbc:InvoiceTypeCode", string(inv.DocumentTypeCode))
	}

	if inv.Notes != "" {
		text(root, "cbc:Note", inv.Notes)
	}
	text(root, "cbc:DocumentCurrencyCode", currency)

	// BuyerReference is mandatory in XRechnung; the invoice number is the
	// documented fallback.
	buyerRef := inv.BuyerReference
	if buyerRef == "" {
		buyerRef = inv.InvoiceNumber
	}
	text(root, "cbc:BuyerReference", buyerRef)

	if inv.BillingPeriodStart != "" && inv.BillingPeriodEnd != "" {
		start, err := parseDate(g.format, "invoice.billingPeriodStart", inv.BillingPeriodStart)
		if err != nil {
			return "", err
		}
		end, err := parseDate(g.format, "invoice.billingPeriodEnd", inv.BillingPeriodEnd)
		if err != nil {
			return "", err
		}
		period := root.CreateElement("cac:InvoicePeriod")
		text(period, "cbc:StartDate", start.Format("2006-01-02"))
		text(period, "cbc:EndDate", end.Format("2006-01-02"))
	}

	if creditNote && inv.PrecedingInvoiceReference != "" {
		billingRef := root.CreateElement("cac:BillingReference")
		docRef := billingRef.CreateElement("cac:InvoiceDocumentReference")
		text(docRef, "cbc:ID", inv.PrecedingInvoiceReference)
	}

	g.buildParty(root, "cac:AccountingSupplierParty", &inv.Seller, true)
	g.buildParty(root, "cac:AccountingCustomerParty", &inv.Buyer, false)

	g.buildPaymentMeans(root, inv)

	if inv.Payment.PaymentTerms != "" {
		terms := root.CreateElement("cac:PaymentTerms")
		text(terms, "cbc:Note", inv.Payment.PaymentTerms)
	}

	for _, ac := range inv.AllowanceCharges {
		g.buildAllowanceCharge(root, &ac, currency)
	}

	g.buildTaxTotal(root, inv, currency)
	g.buildMonetaryTotal(root, inv, currency)

	for i, li := range inv.LineItems {
		g.buildLine(root, i, &li, currency, creditNote)
	}

	doc.Indent(2)
	return doc.WriteToString()
}

func (g *ublGenerator) buildParty(root *etree.Element, tag string, p *model.PartyInfo, seller bool) {
	wrapper := root.CreateElement(tag)
	party := wrapper.CreateElement("cac:Party")

	if p.ElectronicAddress != "" {
		endpoint := party.CreateElement("cbc:EndpointID")
		endpoint.CreateAttr("schemeID", p.ElectronicAddressScheme)
		endpoint.SetText(p.ElectronicAddress)
	}

	name := party.CreateElement("cac:PartyName")
	text(name, "cbc:Name", p.Name)

	address := party.CreateElement("cac:PostalAddress")
	if p.Street != "" {
		text(address, "cbc:StreetName", p.Street)
	}
	if p.City != "" {
		text(address, "cbc:CityName", p.City)
	}
	if p.PostalCode != "" {
		text(address, "cbc:PostalZone", p.PostalCode)
	}
	country := address.CreateElement("cac:Country")
	text(country, "cbc:IdentificationCode", p.CountryCode)

	if p.VATID != "" {
		taxScheme := party.CreateElement("cac:PartyTaxScheme")
		text(taxScheme, "cbc:CompanyID", p.VATID)
		scheme := taxScheme.CreateElement("cac:TaxScheme")
		text(scheme, "cbc:ID", "VAT")
	}

	legal := party.CreateElement("cac:PartyLegalEntity")
	text(legal, "cbc:RegistrationName", p.Name)
	if p.TaxNumber != "" {
		text(legal, "cbc:CompanyID", p.TaxNumber)
	}

	// XRechnung mandates the full seller contact block.
	if seller && (p.ContactName != "" || p.Phone != "" || p.Email != "") {
		contact := party.CreateElement("cac:Contact")
		if p.ContactName != "" {
			text(contact, "cbc:Name", p.ContactName)
		}
		if p.Phone != "" {
			text(contact, "cbc:Telephone", p.Phone)
		}
		if p.Email != "" {
			text(contact, "cbc:ElectronicMail", p.Email)
		}
	}
}

func (g *ublGenerator) buildPaymentMeans(root *etree.Element, inv *model.CanonicalInvoice) {
	means := root.CreateElement("cac:PaymentMeans")

	// 58 = SEPA credit transfer when an IBAN is available, 30 otherwise.
	code := "30"
	if inv.Payment.IBAN != "" {
		code = "58"
	}
	text(means, "cbc:PaymentMeansCode", code)

	if inv.Payment.IBAN != "" {
		account := means.CreateElement("cac:PayeeFinancialAccount")
		text(account, "cbc:ID", inv.Payment.IBAN)
		if inv.Payment.BankName != "" {
			text(account, "cbc:Name", inv.Payment.BankName)
		}
		if inv.Payment.BIC != "" {
			branch := account.CreateElement("cac:FinancialInstitutionBranch")
			text(branch, "cbc:ID", inv.Payment.BIC)
		}
	}
}

func (g *ublGenerator) buildAllowanceCharge(root *etree.Element, ac *model.CanonicalAllowanceCharge, currency string) {
	elem := root.CreateElement("cac:AllowanceCharge")
	text(elem, "cbc:ChargeIndicator", fmt.Sprintf("%t", ac.ChargeIndicator))
	if ac.ReasonCode != "" {
		text(elem, "cbc:AllowanceChargeReasonCode", ac.ReasonCode)
	}
	if ac.Reason != "" {
		text(elem, "cbc:AllowanceChargeReason", ac.Reason)
	}
	if !ac.Percentage.IsZero() {
		text(elem, "cbc:MultiplierFactorNumeric", ac.Percentage.String())
	}
	moneyElem(elem, "cbc:Amount", ac.Amount, currency)
	if !ac.BaseAmount.IsZero() {
		moneyElem(elem, "cbc:BaseAmount", ac.BaseAmount, currency)
	}

	category := elem.CreateElement("cac:TaxCategory")
	text(category, "cbc:ID", string(ac.TaxCategoryCode))
	text(category, "cbc:Percent", ac.TaxRate.String())
	scheme := category.CreateElement("cac:TaxScheme")
	text(scheme, "cbc:ID", "VAT")
}

func (g *ublGenerator) buildTaxTotal(root *etree.Element, inv *model.CanonicalInvoice, currency string) {
	taxTotal := root.CreateElement("cac:TaxTotal")
	moneyElem(taxTotal, "cbc:TaxAmount", inv.Totals.TaxAmount, currency)

	for _, group := range taxGroups(inv) {
		sub := taxTotal.CreateElement("cac:TaxSubtotal")
		moneyElem(sub, "cbc:TaxableAmount", group.Base, currency)
		moneyElem(sub, "cbc:TaxAmount", group.Tax, currency)

		category := sub.CreateElement("cac:TaxCategory")
		text(category, "cbc:ID", string(group.Category))
		text(category, "cbc:Percent", group.Rate.String())
		if reason, code := exemptionReason(group.Category); reason != "" {
			text(category, "cbc:TaxExemptionReasonCode", code)
			text(category, "cbc:TaxExemptionReason", reason)
		}
		scheme := category.CreateElement("cac:TaxScheme")
		text(scheme, "cbc:ID", "VAT")
	}
}

func (g *ublGenerator) buildMonetaryTotal(root *etree.Element, inv *model.CanonicalInvoice, currency string) {
	total := root.CreateElement("cac:LegalMonetaryTotal")
	moneyElem(total, "cbc:LineExtensionAmount", money.Round(inv.LineNetSum()), currency)
	moneyElem(total, "cbc:TaxExclusiveAmount", inv.Totals.Subtotal, currency)
	moneyElem(total, "cbc:TaxInclusiveAmount", inv.Totals.TotalAmount, currency)
	if allowances := inv.AllowanceSum(); !allowances.IsZero() {
		moneyElem(total, "cbc:AllowanceTotalAmount", allowances, currency)
	}
	if charges := inv.ChargeSum(); !charges.IsZero() {
		moneyElem(total, "cbc:ChargeTotalAmount", charges, currency)
	}
	payable := inv.Totals.TotalAmount
	if !inv.Payment.PrepaidAmount.IsZero() {
		moneyElem(total, "cbc:PrepaidAmount", inv.Payment.PrepaidAmount, currency)
		payable = money.Round(payable.Sub(inv.Payment.PrepaidAmount))
	}
	moneyElem(total, "cbc:PayableAmount", payable, currency)
}

func (g *ublGenerator) buildLine(root *etree.Element, idx int, li *model.CanonicalLineItem, currency string, creditNote bool) {
	lineTag, qtyTag := "cac:InvoiceLine", "cbc:InvoicedQuantity"
	if creditNote {
		lineTag, qtyTag = "cac:CreditNoteLine", "cbc:CreditedQuantity"
	}

	line := root.CreateElement(lineTag)
	text(line, "cbc:ID", fmt.Sprintf("%d", idx+1))

	qty := line.CreateElement(qtyTag)
	qty.CreateAttr("unitCode", li.UnitCode)
	qty.SetText(li.Quantity.String())

	moneyElem(line, "cbc:LineExtensionAmount", li.TotalPrice, currency)

	item := line.CreateElement("cac:Item")
	text(item, "cbc:Name", li.Description)

	category := item.CreateElement("cac:ClassifiedTaxCategory")
	text(category, "cbc:ID", string(li.TaxCategoryCode))
	text(category, "cbc:Percent", li.TaxRate.String())
	scheme := category.CreateElement("cac:TaxScheme")
	text(scheme, "cbc:ID", "VAT")

	price := line.CreateElement("cac:Price")
	moneyElem(price, "cbc:PriceAmount", li.UnitPrice, currency)
}

// Validate checks the generated UBL for its required elements.
func (g *ublGenerator) Validate(xml []byte) *model.StructuralResult {
	return checkPaths(xml, "UBL-STRUCT", []string{
		"//cbc:CustomizationID",
		"//cbc:ID",
		"//cbc:IssueDate",
		"//cbc:DocumentCurrencyCode",
		"//cbc:BuyerReference",
		"//cac:AccountingSupplierParty/cac:Party/cac:PartyName/cbc:Name",
		"//cac:AccountingCustomerParty/cac:Party/cac:PartyName/cbc:Name",
		"//cac:TaxTotal/cbc:TaxAmount",
		"//cac:LegalMonetaryTotal/cbc:PayableAmount",
	})
}

// text creates a child element with character content.
func text(parent *etree.Element, tag, value string) *etree.Element {
	e := parent.CreateElement(tag)
	e.SetText(value)
	return e
}

// moneyElem creates a monetary child element with the currencyID attribute.
func moneyElem(parent *etree.Element, tag string, d decimal.Decimal, currency string) *etree.Element {
	e := parent.CreateElement(tag)
	e.CreateAttr("currencyID", currency)
	e.SetText(amount(d))
	return e
}
