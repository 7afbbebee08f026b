package validation

import (
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
)

// schemaStage checks structural minimums every dialect shares: identity
// fields, party names, a positive grand total and at least one line.
func schemaStage(inv *model.CanonicalInvoice, r *model.ValidationResult) {
	if inv.InvoiceNumber == "" {
		r.AddError("SCHEMA-01", "invoice.invoiceNumber", "invoice number is required")
	}
	if inv.InvoiceDate == "" {
		r.AddError("SCHEMA-02", "invoice.invoiceDate", "invoice date is required")
	}
	if inv.Seller.Name == "" {
		r.AddError("SCHEMA-03", "seller.name", "seller name is required")
	}
	if inv.Buyer.Name == "" {
		r.AddError("SCHEMA-04", "buyer.name", "buyer name is required")
	}

	// Credit notes may carry a zero or negative total; everything else must
	// be positive.
	if !inv.IsCreditNote() && !inv.Totals.TotalAmount.IsPositive() {
		r.Add(model.ValidationError{
			Level:    model.LevelError,
			RuleID:   "SCHEMA-05",
			Location: "totals.totalAmount",
			Message:  "total amount must be greater than zero",
			Actual:   inv.Totals.TotalAmount.String(),
		})
	}

	if len(inv.LineItems) == 0 {
		r.AddError("SCHEMA-06", "invoice.lineItems", "at least one line item is required")
	}
}
