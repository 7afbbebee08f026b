package model

import (
	"github.com/shopspring/decimal"
)

// CanonicalInvoice is the shared intermediate representation consumed by the
// validation pipeline and every format generator. It is built once by the
// mapper and treated as read-only afterwards; transformations (gross→net)
// produce a fresh copy.
//
// Dates travel as strings in one of the three accepted grammars
// (2006-01-02, 02.01.2006, 02/01/2006); generators parse them and treat
// anything else as a contract violation.
type CanonicalInvoice struct {
	InvoiceNumber    string           `json:"invoiceNumber"`
	InvoiceDate      string           `json:"invoiceDate"`
	DocumentTypeCode DocumentTypeCode `json:"documentTypeCode"`
	CurrencyCode     string           `json:"currency"`
	BuyerReference   string           `json:"buyerReference,omitempty"`
	Notes            string           `json:"notes,omitempty"`

	// Required when DocumentTypeCode is 381.
	PrecedingInvoiceReference string `json:"precedingInvoiceReference,omitempty"`

	BillingPeriodStart string `json:"billingPeriodStart,omitempty"`
	BillingPeriodEnd   string `json:"billingPeriodEnd,omitempty"`

	Seller PartyInfo `json:"seller"`
	Buyer  PartyInfo `json:"buyer"`

	Payment PaymentInfo `json:"payment"`

	LineItems        []CanonicalLineItem        `json:"lineItems"`
	AllowanceCharges []CanonicalAllowanceCharge `json:"allowanceCharges,omitempty"`

	Totals Totals `json:"totals"`

	OutputFormat OutputFormat `json:"outputFormat"`

	// Single-rate convenience; authoritative rates live on the line items.
	TaxRate decimal.Decimal `json:"taxRate"`

	// Diagnostics from the upstream extraction step, not authoritative.
	Confidence       float64 `json:"confidence,omitempty"`
	ProcessingTimeMs int64   `json:"processingTimeMs,omitempty"`
}

// PartyInfo describes the seller or buyer.
type PartyInfo struct {
	Name        string `json:"name"`
	Street      string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	CountryCode string `json:"countryCode,omitempty"` // ISO 3166-1 alpha-2
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`

	VATID     string `json:"vatId,omitempty"`     // EU VAT id, country-prefixed
	TaxNumber string `json:"taxNumber,omitempty"` // local fiscal code
	TaxID     string `json:"taxId,omitempty"`     // legacy combined field

	ElectronicAddress       string `json:"electronicAddress,omitempty"`
	ElectronicAddressScheme string `json:"electronicAddressScheme,omitempty"`

	ContactName string `json:"contactName,omitempty"`

	// Italian RegimeFiscale (RF01..RF19), FatturaPA only.
	TaxRegime string `json:"taxRegime,omitempty"`
}

// PaymentInfo carries payment instructions.
type PaymentInfo struct {
	IBAN          string          `json:"iban,omitempty"`
	BIC           string          `json:"bic,omitempty"`
	BankName      string          `json:"bankName,omitempty"`
	PaymentTerms  string          `json:"paymentTerms,omitempty"`
	DueDate       string          `json:"dueDate,omitempty"`
	PrepaidAmount decimal.Decimal `json:"prepaidAmount,omitempty"`
}

// CanonicalLineItem is a single invoice line. Prices are NET.
type CanonicalLineItem struct {
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	TaxCategoryCode TaxCategory     `json:"taxCategoryCode,omitempty"`
	UnitCode        string          `json:"unitCode,omitempty"` // UN/ECE rec 20
}

// CanonicalAllowanceCharge is a document-level discount (ChargeIndicator
// false) or surcharge (true). Amount is always positive.
type CanonicalAllowanceCharge struct {
	ChargeIndicator bool            `json:"chargeIndicator"`
	Amount          decimal.Decimal `json:"amount"`
	BaseAmount      decimal.Decimal `json:"baseAmount,omitempty"`
	Percentage      decimal.Decimal `json:"percentage,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	ReasonCode      string          `json:"reasonCode,omitempty"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	TaxCategoryCode TaxCategory     `json:"taxCategoryCode,omitempty"`
}

// Totals are NET-basis except TotalAmount, which is gross.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// IsCreditNote reports whether the document is a credit note (381).
func (inv *CanonicalInvoice) IsCreditNote() bool {
	return inv.DocumentTypeCode == DocTypeCreditNote
}

// LineNetSum returns the exact (unrounded) sum of line totals.
func (inv *CanonicalInvoice) LineNetSum() decimal.Decimal {
	sum := decimal.Zero
	for _, li := range inv.LineItems {
		sum = sum.Add(li.TotalPrice)
	}
	return sum
}

// AllowanceSum returns the sum of document-level discount amounts.
func (inv *CanonicalInvoice) AllowanceSum() decimal.Decimal {
	sum := decimal.Zero
	for _, ac := range inv.AllowanceCharges {
		if !ac.ChargeIndicator {
			sum = sum.Add(ac.Amount)
		}
	}
	return sum
}

// ChargeSum returns the sum of document-level surcharge amounts.
func (inv *CanonicalInvoice) ChargeSum() decimal.Decimal {
	sum := decimal.Zero
	for _, ac := range inv.AllowanceCharges {
		if ac.ChargeIndicator {
			sum = sum.Add(ac.Amount)
		}
	}
	return sum
}

// TaxIdentifier returns the party's best available tax identifier:
// VAT id, then local tax number, then the legacy combined field.
func (p *PartyInfo) TaxIdentifier() string {
	if p.VATID != "" {
		return p.VATID
	}
	if p.TaxNumber != "" {
		return p.TaxNumber
	}
	return p.TaxID
}

// HasTaxIdentifier reports whether any seller/buyer tax identifier is set.
func (p *PartyInfo) HasTaxIdentifier() bool {
	return p.TaxIdentifier() != ""
}

// HasPostalAddress reports whether street, city, postal code and country are
// all present.
func (p *PartyInfo) HasPostalAddress() bool {
	return p.Street != "" && p.City != "" && p.PostalCode != "" && p.CountryCode != ""
}
