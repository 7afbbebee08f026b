package validation

import (
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
)

// validateCIUSRO applies the Romanian CIUS-RO constraints on top of the
// EN16931 base: complete party addresses and seller identification, since
// RO e-Factura rejects documents without them.
func validateCIUSRO(inv *model.CanonicalInvoice, r *model.ValidationResult) {
	if !inv.Seller.HasPostalAddress() {
		r.AddError("BR-RO-040", "seller.address", "complete seller postal address is required")
	}
	if !inv.Buyer.HasPostalAddress() {
		r.AddError("BR-RO-060", "buyer.address", "complete buyer postal address is required")
	}
	if !inv.Seller.HasTaxIdentifier() {
		r.AddError("BR-RO-020", "seller.vatId", "seller VAT id (CUI/CIF) is required")
	}

	// RO e-Factura accepts RON and EUR document currencies.
	if inv.CurrencyCode != "RON" && inv.CurrencyCode != "EUR" {
		r.Add(model.ValidationError{
			Level:    model.LevelWarning,
			RuleID:   "BR-RO-070",
			Location: "invoice.currency",
			Message:  "CIUS-RO invoices are normally issued in RON or EUR",
			Actual:   inv.CurrencyCode,
		})
	}

	if inv.IsCreditNote() && inv.PrecedingInvoiceReference == "" {
		r.AddError("BR-RO-100", "invoice.precedingInvoiceReference",
			"credit notes must reference the preceding invoice")
	}
}
