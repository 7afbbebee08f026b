package generator

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/money"
)

// UN/CEFACT CII namespaces.
const (
	nsRSM = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	nsRAM = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	nsUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
)

// ciiGenerator renders the UN/CEFACT Cross Industry Invoice syntax used by
// XRechnung CII. Factur-X reuses buildCIIXML with its own guideline urn.
type ciiGenerator struct {
	format      model.OutputFormat
	guidelineID string
}

func (g *ciiGenerator) Format() model.OutputFormat { return g.format }
func (g *ciiGenerator) FileExtension() string      { return "xml" }
func (g *ciiGenerator) MimeType() string           { return "application/xml" }

func (g *ciiGenerator) Generate(inv *model.CanonicalInvoice) (*model.GenerationResult, error) {
	if inv.Seller.Name == "" || len(inv.LineItems) == 0 {
		return invalidResult(model.ValidationError{
			Level:    model.LevelError,
			RuleID:   "CII-PRE-01",
			Location: "seller.name",
			Message:  "seller name and at least one line item are required for CII generation",
		}), nil
	}

	xml, err := buildCIIXML(inv, g.format, g.guidelineID)
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

// buildCIIXML serializes the invoice as CrossIndustryInvoice under the given
// guideline urn.
func buildCIIXML(inv *model.CanonicalInvoice, format model.OutputFormat, guidelineID string) (string, error) {
	issueDate, err := parseDate(format, "invoice.invoiceDate", inv.InvoiceDate)
	if err != nil {
		return "", err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", nsRSM)
	root.CreateAttr("xmlns:ram", nsRAM)
	root.CreateAttr("xmlns:udt", nsUDT)

	// Document context
	ctx := root.CreateElement("rsm:ExchangedDocumentContext")
	guideline := ctx.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter")
	text(guideline, "ram:ID", guidelineID)

	// Document header
	docElem := root.CreateElement("rsm:ExchangedDocument")
	text(docElem, "ram:ID", inv.InvoiceNumber)
	text(docElem, "ram:TypeCode", string(inv.DocumentTypeCode))
	issued := docElem.CreateElement("ram:IssueDateTime")
	dateStr := issued.CreateElement("udt:DateTimeString")
	dateStr.CreateAttr("format", "102")
	dateStr.SetText(issueDate.Format("20060102"))
	if inv.Notes != "" {
		note := docElem.CreateElement("ram:IncludedNote")
		text(note, "ram:Content", inv.Notes)
	}

	// Transaction
	tx := root.CreateElement("rsm:SupplyChainTradeTransaction")

	for i, li := range inv.LineItems {
		buildCIILine(tx, i, &li)
	}

	agreement := tx.CreateElement("ram:ApplicableHeaderTradeAgreement")
	buyerRef := inv.BuyerReference
	if buyerRef == "" {
		buyerRef = inv.InvoiceNumber
	}
	text(agreement, "ram:BuyerReference", buyerRef)
	buildCIIParty(agreement, "ram:SellerTradeParty", &inv.Seller, true)
	buildCIIParty(agreement, "ram:BuyerTradeParty", &inv.Buyer, false)

	tx.CreateElement("ram:ApplicableHeaderTradeDelivery")

	settlement := tx.CreateElement("ram:ApplicableHeaderTradeSettlement")
	text(settlement, "ram:InvoiceCurrencyCode", inv.CurrencyCode)

	means := settlement.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
	if inv.Payment.IBAN != "" {
		text(means, "ram:TypeCode", "58")
		account := means.CreateElement("ram:PayeePartyCreditorFinancialAccount")
		text(account, "ram:IBANID", inv.Payment.IBAN)
		if inv.Payment.BIC != "" {
			institution := means.CreateElement("ram:PayeeSpecifiedCreditorFinancialInstitution")
			text(institution, "ram:BICID", inv.Payment.BIC)
		}
	} else {
		text(means, "ram:TypeCode", "30")
	}

	for _, group := range taxGroups(inv) {
		tax := settlement.CreateElement("ram:ApplicableTradeTax")
		text(tax, "ram:CalculatedAmount", amount(group.Tax))
		text(tax, "ram:TypeCode", "VAT")
		if reason, code := exemptionReason(group.Category); reason != "" {
			text(tax, "ram:ExemptionReason", reason)
			text(tax, "ram:ExemptionReasonCode", code)
		}
		text(tax, "ram:BasisAmount", amount(group.Base))
		text(tax, "ram:CategoryCode", string(group.Category))
		text(tax, "ram:RateApplicablePercent", group.Rate.String())
	}

	for _, ac := range inv.AllowanceCharges {
		elem := settlement.CreateElement("ram:SpecifiedTradeAllowanceCharge")
		indicator := elem.CreateElement("ram:ChargeIndicator")
		text(indicator, "udt:Indicator", fmt.Sprintf("%t", ac.ChargeIndicator))
		text(elem, "ram:ActualAmount", amount(ac.Amount))
		if ac.Reason != "" {
			text(elem, "ram:Reason", ac.Reason)
		}
		tax := elem.CreateElement("ram:CategoryTradeTax")
		text(tax, "ram:TypeCode", "VAT")
		text(tax, "ram:CategoryCode", string(ac.TaxCategoryCode))
		text(tax, "ram:RateApplicablePercent", ac.TaxRate.String())
	}

	if inv.Payment.PaymentTerms != "" || inv.Payment.DueDate != "" {
		terms := settlement.CreateElement("ram:SpecifiedTradePaymentTerms")
		if inv.Payment.PaymentTerms != "" {
			text(terms, "ram:Description", inv.Payment.PaymentTerms)
		}
		if inv.Payment.DueDate != "" {
			due, err := parseDate(format, "payment.dueDate", inv.Payment.DueDate)
			if err != nil {
				return "", err
			}
			dueElem := terms.CreateElement("ram:DueDateDateTime")
			dueStr := dueElem.CreateElement("udt:DateTimeString")
			dueStr.CreateAttr("format", "102")
			dueStr.SetText(due.Format("20060102"))
		}
	}

	sum := settlement.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	text(sum, "ram:LineTotalAmount", amount(money.Round(inv.LineNetSum())))
	if allowances := inv.AllowanceSum(); !allowances.IsZero() {
		text(sum, "ram:AllowanceTotalAmount", amount(allowances))
	}
	if charges := inv.ChargeSum(); !charges.IsZero() {
		text(sum, "ram:ChargeTotalAmount", amount(charges))
	}
	text(sum, "ram:TaxBasisTotalAmount", amount(inv.Totals.Subtotal))
	taxTotal := sum.CreateElement("ram:TaxTotalAmount")
	taxTotal.CreateAttr("currencyID", inv.CurrencyCode)
	taxTotal.SetText(amount(inv.Totals.TaxAmount))
	text(sum, "ram:GrandTotalAmount", amount(inv.Totals.TotalAmount))
	payable := inv.Totals.TotalAmount
	if !inv.Payment.PrepaidAmount.IsZero() {
		text(sum, "ram:TotalPrepaidAmount", amount(inv.Payment.PrepaidAmount))
		payable = money.Round(payable.Sub(inv.Payment.PrepaidAmount))
	}
	text(sum, "ram:DuePayableAmount", amount(payable))

	// Corrections and credit notes link back to the original document.
	if inv.PrecedingInvoiceReference != "" {
		ref := settlement.CreateElement("ram:InvoiceReferencedDocument")
		text(ref, "ram:IssuerAssignedID", inv.PrecedingInvoiceReference)
	}

	doc.Indent(2)
	return doc.WriteToString()
}

func buildCIIParty(parent *etree.Element, tag string, p *model.PartyInfo, seller bool) {
	party := parent.CreateElement(tag)
	text(party, "ram:Name", p.Name)

	if seller && (p.ContactName != "" || p.Phone != "" || p.Email != "") {
		contact := party.CreateElement("ram:DefinedTradeContact")
		if p.ContactName != "" {
			text(contact, "ram:PersonName", p.ContactName)
		}
		if p.Phone != "" {
			phone := contact.CreateElement("ram:TelephoneUniversalCommunication")
			text(phone, "ram:CompleteNumber", p.Phone)
		}
		if p.Email != "" {
			email := contact.CreateElement("ram:EmailURIUniversalCommunication")
			text(email, "ram:URIID", p.Email)
		}
	}

	address := party.CreateElement("ram:PostalTradeAddress")
	if p.PostalCode != "" {
		text(address, "ram:PostcodeCode", p.PostalCode)
	}
	if p.Street != "" {
		text(address, "ram:LineOne", p.Street)
	}
	if p.City != "" {
		text(address, "ram:CityName", p.City)
	}
	text(address, "ram:CountryID", p.CountryCode)

	if p.ElectronicAddress != "" {
		uri := party.CreateElement("ram:URIUniversalCommunication")
		uriID := uri.CreateElement("ram:URIID")
		uriID.CreateAttr("schemeID", p.ElectronicAddressScheme)
		uriID.SetText(p.ElectronicAddress)
	}

	if p.VATID != "" {
		reg := party.CreateElement("ram:SpecifiedTaxRegistration")
		id := reg.CreateElement("ram:ID")
		id.CreateAttr("schemeID", "VA")
		id.SetText(p.VATID)
	}
	if p.TaxNumber != "" {
		reg := party.CreateElement("ram:SpecifiedTaxRegistration")
		id := reg.CreateElement("ram:ID")
		id.CreateAttr("schemeID", "FC")
		id.SetText(p.TaxNumber)
	}
}

func buildCIILine(tx *etree.Element, idx int, li *model.CanonicalLineItem) {
	line := tx.CreateElement("ram:IncludedSupplyChainTradeLineItem")

	lineDoc := line.CreateElement("ram:AssociatedDocumentLineDocument")
	text(lineDoc, "ram:LineID", fmt.Sprintf("%d", idx+1))

	product := line.CreateElement("ram:SpecifiedTradeProduct")
	text(product, "ram:Name", li.Description)

	agreement := line.CreateElement("ram:SpecifiedLineTradeAgreement")
	price := agreement.CreateElement("ram:NetPriceProductTradePrice")
	text(price, "ram:ChargeAmount", amount(li.UnitPrice))

	delivery := line.CreateElement("ram:SpecifiedLineTradeDelivery")
	qty := delivery.CreateElement("ram:BilledQuantity")
	qty.CreateAttr("unitCode", li.UnitCode)
	qty.SetText(li.Quantity.String())

	settlement := line.CreateElement("ram:SpecifiedLineTradeSettlement")
	tax := settlement.CreateElement("ram:ApplicableTradeTax")
	text(tax, "ram:TypeCode", "VAT")
	text(tax, "ram:CategoryCode", string(li.TaxCategoryCode))
	text(tax, "ram:RateApplicablePercent", li.TaxRate.String())
	lineSum := settlement.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation")
	text(lineSum, "ram:LineTotalAmount", amount(li.TotalPrice))
}

// ciiRequiredPaths is shared with the Factur-X structural check.
var ciiRequiredPaths = []string{
	"//rsm:ExchangedDocumentContext/ram:GuidelineSpecifiedDocumentContextParameter/ram:ID",
	"//rsm:ExchangedDocument/ram:ID",
	"//rsm:ExchangedDocument/ram:TypeCode",
	"//ram:SellerTradeParty/ram:Name",
	"//ram:BuyerTradeParty/ram:Name",
	"//ram:ApplicableHeaderTradeSettlement/ram:InvoiceCurrencyCode",
	"//ram:SpecifiedTradeSettlementHeaderMonetarySummation/ram:GrandTotalAmount",
	"//ram:IncludedSupplyChainTradeLineItem",
}

// Validate checks the generated CII for its required elements.
func (g *ciiGenerator) Validate(xml []byte) *model.StructuralResult {
	return checkPaths(xml, "CII-STRUCT", ciiRequiredPaths)
}
