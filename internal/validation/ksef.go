package validation

import (
	"fmt"
	"regexp"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
)

var nipPattern = regexp.MustCompile(`^\d{10}$`)

// Standard Polish VAT rates, including the historical 22%/7% still legal on
// corrections. Other rates are flagged but not blocking.
var standardPolishRates = map[string]bool{
	"23": true, "8": true, "5": true, "22": true, "7": true, "0": true,
}

// digitsOnly strips everything but digits, so "PL 526-10-40-567" and
// "5261040567" normalize to the same NIP.
var nonDigits = regexp.MustCompile(`\D`)

// ExtractNIP pulls a 10-digit Polish NIP out of a tax identifier, tolerating
// the PL prefix and separator characters. Empty result means no NIP found.
func ExtractNIP(id string) string {
	digits := nonDigits.ReplaceAllString(id, "")
	if nipPattern.MatchString(digits) {
		return digits
	}
	return ""
}

// validateKSeF applies the Polish KSeF FA(3) rule set.
func validateKSeF(inv *model.CanonicalInvoice, r *model.ValidationResult) {
	if nip := ExtractNIP(inv.Seller.TaxIdentifier()); nip == "" {
		r.Add(model.ValidationError{
			Level:      model.LevelError,
			RuleID:     "KSEF-01",
			Location:   "seller.taxNumber",
			Message:    "seller NIP (10 digits) is required",
			Actual:     inv.Seller.TaxIdentifier(),
			Suggestion: "provide the seller's 10-digit NIP, with or without PL prefix",
		})
	}

	if ExtractNIP(inv.Buyer.TaxIdentifier()) == "" && inv.Buyer.Name == "" {
		r.AddError("KSEF-02", "buyer.taxNumber", "buyer NIP or buyer name is required")
	}

	if len(inv.InvoiceNumber) > 256 {
		r.Add(model.ValidationError{
			Level:    model.LevelError,
			RuleID:   "KSEF-03",
			Location: "invoice.invoiceNumber",
			Message:  "invoice number exceeds 256 characters",
			Actual:   fmt.Sprintf("%d characters", len(inv.InvoiceNumber)),
		})
	}

	if inv.CurrencyCode == "" {
		r.AddError("KSEF-04", "invoice.currency", "currency code (KodWaluty) is required")
	}

	for i, li := range inv.LineItems {
		loc := fmt.Sprintf("lineItems[%d]", i)
		if li.Description == "" {
			r.AddError("KSEF-05", loc+".description", "line name (P_7) is required")
		}
		if li.Quantity.IsZero() {
			r.AddError("KSEF-05", loc+".quantity", "line quantity (P_8B) is required")
		}

		if !standardPolishRates[li.TaxRate.Round(0).String()] {
			r.Add(model.ValidationError{
				Level:    model.LevelWarning,
				RuleID:   "KSEF-06",
				Location: loc + ".taxRate",
				Message:  "tax rate is not a standard Polish VAT rate",
				Actual:   li.TaxRate.String(),
			})
		}
	}

	if inv.IsCreditNote() && inv.PrecedingInvoiceReference == "" {
		r.AddError("KSEF-07", "invoice.precedingInvoiceReference",
			"correction invoices must reference the corrected invoice (DaneFaKorygowanej)")
	}
}
