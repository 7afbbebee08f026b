package validation

import (
	"fmt"
	"regexp"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
)

// RegimeFiscale: RF01..RF19.
var regimeFiscalePattern = regexp.MustCompile(`^RF(0[1-9]|1[0-9])$`)

// validateFatturaPA applies the Italian FatturaPA rule set.
func validateFatturaPA(inv *model.CanonicalInvoice, r *model.ValidationResult) {
	if inv.Seller.VATID == "" && inv.Seller.TaxID == "" {
		r.AddError("FPA-001", "seller.vatId", "seller VAT id (Partita IVA) is required")
	} else if id := inv.Seller.TaxIdentifier(); len(id) < 4 {
		r.Add(model.ValidationError{
			Level:    model.LevelError,
			RuleID:   "FPA-002",
			Location: "seller.vatId",
			Message:  "seller VAT id is too short to contain country prefix and code",
			Actual:   id,
		})
	}

	if inv.Seller.Street == "" {
		r.AddError("FPA-003", "seller.address", "seller street is required")
	}
	if inv.Seller.City == "" {
		r.AddError("FPA-004", "seller.city", "seller city is required")
	}
	if inv.Seller.PostalCode == "" {
		r.AddError("FPA-005", "seller.postalCode", "seller postal code (CAP) is required")
	}
	if inv.Seller.CountryCode == "" {
		r.AddError("FPA-006", "seller.countryCode", "seller country code is required")
	}

	if !inv.Buyer.HasTaxIdentifier() {
		r.AddError("FPA-007", "buyer.vatId",
			"buyer VAT id or fiscal code (Codice Fiscale) is required")
	}

	// CodiceDestinatario is carried in the buyer electronic address; the SDI
	// routing code is exactly 7 characters ("0000000" with PEC fallback is
	// legal, so this stays a warning).
	if dest := inv.Buyer.ElectronicAddress; dest != "" && len(dest) != 7 {
		r.Add(model.ValidationError{
			Level:      model.LevelWarning,
			RuleID:     "FPA-010",
			Location:   "buyer.electronicAddress",
			Message:    "CodiceDestinatario should be exactly 7 characters",
			Actual:     dest,
			Suggestion: "use the 7-character SDI code or 0000000 with a PEC address",
		})
	}

	for i, li := range inv.LineItems {
		loc := fmt.Sprintf("lineItems[%d]", i)
		if li.Description == "" {
			r.AddError("FPA-011", loc+".description", "line description (Descrizione) is required")
		}
		if li.Quantity.IsZero() {
			r.AddError("FPA-011", loc+".quantity", "line quantity is required")
		}
		if li.UnitPrice.IsZero() && li.TotalPrice.IsZero() {
			r.AddError("FPA-011", loc+".unitPrice", "line unit price (PrezzoUnitario) is required")
		}
		if li.TaxRate.IsNegative() {
			r.AddError("FPA-011", loc+".taxRate", "line tax rate (AliquotaIVA) must not be negative")
		}
		if li.TaxCategoryCode == model.TaxCategoryReverseCharge && !li.TaxRate.IsZero() {
			r.Add(model.ValidationError{
				Level:    model.LevelError,
				RuleID:   "FPA-012",
				Location: loc + ".taxRate",
				Message:  "reverse charge (AE) lines must carry a 0% rate with a Natura code",
				Expected: "0",
				Actual:   li.TaxRate.String(),
			})
		}
	}

	if regime := inv.Seller.TaxRegime; regime != "" && !regimeFiscalePattern.MatchString(regime) {
		r.Add(model.ValidationError{
			Level:    model.LevelError,
			RuleID:   "FPA-020",
			Location: "seller.taxRegime",
			Message:  "RegimeFiscale must match RF01..RF19",
			Actual:   regime,
		})
	}
}
