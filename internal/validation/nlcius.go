package validation

import (
	"regexp"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
)

var (
	btwPattern = regexp.MustCompile(`^NL\d{9}B\d{2}$`)
	oinPattern = regexp.MustCompile(`^\d{20}$`)
	kvkPattern = regexp.MustCompile(`^\d{8}$`)
)

// validateNLCIUS composes the PEPPOL rule set with the Dutch identifier
// format checks (BTW number, OIN under scheme 0190, KVK under scheme 0106).
func validateNLCIUS(inv *model.CanonicalInvoice, r *model.ValidationResult) {
	validatePeppol(inv, r)

	checkDutchParty(r, "seller", &inv.Seller)
	checkDutchParty(r, "buyer", &inv.Buyer)
}

func checkDutchParty(r *model.ValidationResult, side string, p *model.PartyInfo) {
	// Only Dutch parties carry Dutch identifiers.
	if p.CountryCode != "NL" {
		return
	}

	if p.VATID != "" && !btwPattern.MatchString(p.VATID) {
		r.Add(model.ValidationError{
			Level:    model.LevelError,
			RuleID:   "BR-NL-1",
			Location: side + ".vatId",
			Message:  "Dutch BTW number must match NL + 9 digits + B + 2 digits",
			Expected: "NL123456789B01",
			Actual:   p.VATID,
		})
	}

	switch p.ElectronicAddressScheme {
	case "0190": // OIN, Dutch government organizations
		if !oinPattern.MatchString(p.ElectronicAddress) {
			r.Add(model.ValidationError{
				Level:    model.LevelError,
				RuleID:   "BR-NL-2",
				Location: side + ".electronicAddress",
				Message:  "OIN (scheme 0190) must be exactly 20 digits",
				Actual:   p.ElectronicAddress,
			})
		}
	case "0106": // KVK, chamber of commerce
		if !kvkPattern.MatchString(p.ElectronicAddress) {
			r.Add(model.ValidationError{
				Level:    model.LevelError,
				RuleID:   "BR-NL-3",
				Location: side + ".electronicAddress",
				Message:  "KVK number (scheme 0106) must be exactly 8 digits",
				Actual:   p.ElectronicAddress,
			})
		}
	}
}
