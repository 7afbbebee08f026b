package validation

import (
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
)

// validateXRechnung applies the German BR-DE rule set shared by the CII and
// UBL renderings of XRechnung.
func validateXRechnung(inv *model.CanonicalInvoice, r *model.ValidationResult) {
	// Seller postal address
	if inv.Seller.Street == "" {
		r.AddError("BR-DE-19", "seller.street", "seller street is required")
	}
	if inv.Seller.City == "" {
		r.AddError("BR-DE-3", "seller.city", "seller city is required")
	}
	if inv.Seller.PostalCode == "" {
		r.AddError("BR-DE-4", "seller.postalCode", "seller postal code is required")
	}
	if inv.Seller.CountryCode == "" {
		r.AddError("BR-DE-22", "seller.countryCode", "seller country code is required")
	}

	// Seller contact block: name, phone and email are all mandatory.
	if inv.Seller.ContactName == "" {
		r.AddError("BR-DE-5", "seller.contactName", "seller contact name is required")
	}
	if inv.Seller.Phone == "" {
		r.AddError("BR-DE-6", "seller.phone", "seller contact telephone is required")
	}
	if inv.Seller.Email == "" {
		r.AddError("BR-DE-7", "seller.email", "seller contact email is required")
	}

	// Buyer postal address
	if inv.Buyer.Street == "" {
		r.AddError("BR-DE-20", "buyer.street", "buyer street is required")
	}
	if inv.Buyer.City == "" {
		r.AddError("BR-DE-8", "buyer.city", "buyer city is required")
	}
	if inv.Buyer.PostalCode == "" {
		r.AddError("BR-DE-9", "buyer.postalCode", "buyer postal code is required")
	}
	if inv.Buyer.CountryCode == "" {
		r.AddError("BR-DE-23", "buyer.countryCode", "buyer country code is required")
	}

	// Buyer reference: a warning only, the generators fall back to the
	// invoice number (Leitweg-ID placeholders are common in practice).
	if inv.BuyerReference == "" {
		r.Add(model.ValidationError{
			Level:      model.LevelWarning,
			RuleID:     "BR-DE-15",
			Location:   "invoice.buyerReference",
			Message:    "buyer reference (Leitweg-ID) missing",
			Suggestion: "invoice number is used as BuyerReference fallback",
		})
	}

	if !inv.Seller.HasTaxIdentifier() {
		r.AddError("BR-DE-16", "seller.vatId", "seller VAT id or tax number is required")
	}

	if inv.CurrencyCode != "EUR" {
		r.Add(model.ValidationError{
			Level:    model.LevelError,
			RuleID:   "BR-DE-21",
			Location: "invoice.currency",
			Message:  "XRechnung requires EUR as document currency",
			Expected: "EUR",
			Actual:   inv.CurrencyCode,
		})
	}

	// Default payment means is SEPA credit transfer (58), which needs an IBAN.
	if inv.Payment.IBAN == "" {
		r.Add(model.ValidationError{
			Level:      model.LevelError,
			RuleID:     "BR-DE-1",
			Location:   "payment.iban",
			Message:    "IBAN is required for SEPA credit transfer payment means",
			Suggestion: "provide payment.iban or a different payment means",
		})
	}

	if inv.Seller.ElectronicAddress == "" {
		r.AddError("BR-DE-24", "seller.electronicAddress", "seller electronic address is required")
	}
	if inv.Buyer.ElectronicAddress == "" {
		r.AddError("BR-DE-25", "buyer.electronicAddress", "buyer electronic address is required")
	}

	if inv.IsCreditNote() && inv.PrecedingInvoiceReference == "" {
		r.AddError("BR-DE-26", "invoice.precedingInvoiceReference",
			"credit notes must reference the preceding invoice")
	}

	if inv.Payment.PaymentTerms == "" && inv.Payment.DueDate == "" {
		r.AddError("BR-DE-18", "payment.paymentTerms",
			"payment terms or a due date are required")
	}
}
