package validation

import (
	"fmt"
	"regexp"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
)

var (
	countryCodePattern  = regexp.MustCompile(`^[A-Z]{2}$`)
	currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// validateFacturXEN16931 applies the Factur-X EN16931 profile rules: the
// common set plus the payment terms requirement.
func validateFacturXEN16931(inv *model.CanonicalInvoice, r *model.ValidationResult) {
	facturXCommon(inv, r)

	if inv.Payment.PaymentTerms == "" && inv.Payment.DueDate == "" {
		r.AddError("FX-10", "payment.paymentTerms",
			"EN16931 profile requires payment terms or a due date")
	}
}

// validateFacturXBasic applies the Factur-X BASIC profile: the common set
// only.
func validateFacturXBasic(inv *model.CanonicalInvoice, r *model.ValidationResult) {
	facturXCommon(inv, r)
}

func facturXCommon(inv *model.CanonicalInvoice, r *model.ValidationResult) {
	if !model.ValidDocumentType(inv.DocumentTypeCode) {
		r.Add(model.ValidationError{
			Level:    model.LevelError,
			RuleID:   "FX-01",
			Location: "invoice.documentTypeCode",
			Message:  "document type code must be 380, 381, 384 or 389",
			Actual:   string(inv.DocumentTypeCode),
		})
	}

	if len(inv.LineItems) == 0 {
		r.AddError("FX-02", "invoice.lineItems", "at least one line item is required")
	}

	if inv.Seller.Name == "" {
		r.AddError("FX-03", "seller.name", "seller name is required")
	}
	if !inv.Seller.HasPostalAddress() {
		r.AddError("FX-04", "seller.address", "complete seller postal address is required")
	}
	if inv.Buyer.Name == "" {
		r.AddError("FX-05", "buyer.name", "buyer name is required")
	}

	for _, check := range []struct {
		side string
		code string
	}{
		{"seller", inv.Seller.CountryCode},
		{"buyer", inv.Buyer.CountryCode},
	} {
		if check.code != "" && !countryCodePattern.MatchString(check.code) {
			r.Add(model.ValidationError{
				Level:    model.LevelError,
				RuleID:   "FX-06",
				Location: check.side + ".countryCode",
				Message:  "country code must be ISO 3166-1 alpha-2",
				Actual:   check.code,
			})
		}
	}

	if !currencyCodePattern.MatchString(inv.CurrencyCode) {
		r.Add(model.ValidationError{
			Level:    model.LevelError,
			RuleID:   "FX-07",
			Location: "invoice.currency",
			Message:  "currency must be an ISO 4217 code",
			Actual:   inv.CurrencyCode,
		})
	}

	if !inv.Seller.HasTaxIdentifier() {
		r.AddError("FX-08", "seller.vatId", "seller VAT id or tax number is required")
	}

	if inv.IsCreditNote() && inv.PrecedingInvoiceReference == "" {
		r.AddError("FX-09", "invoice.precedingInvoiceReference",
			"credit notes must reference the preceding invoice")
	}

	for i, li := range inv.LineItems {
		if li.Description == "" {
			r.AddError("FX-02", fmt.Sprintf("lineItems[%d].description", i),
				"line description is required")
		}
	}
}
