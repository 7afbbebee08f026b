package validation

import (
	"fmt"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
)

// validEAS is the subset of the CEF EAS code list accepted for EndpointID
// scheme ids. EM (email) trails the numeric entries.
var validEAS = map[string]bool{
	"0002": true, "0007": true, "0009": true, "0037": true, "0060": true,
	"0088": true, "0096": true, "0097": true, "0106": true, "0130": true,
	"0135": true, "0142": true, "0151": true, "0183": true, "0184": true,
	"0188": true, "0190": true, "0191": true, "0192": true, "0193": true,
	"0195": true, "0196": true, "0198": true, "0199": true, "0200": true,
	"0201": true, "0202": true, "0204": true, "0208": true, "0209": true,
	"0210": true, "0211": true, "0212": true, "0213": true,
	"9901": true, "9906": true, "9907": true, "9910": true, "9913": true,
	"9914": true, "9915": true, "9918": true, "9919": true, "9920": true,
	"9922": true, "9923": true, "9924": true, "9925": true, "9926": true,
	"9927": true, "9928": true, "9929": true, "9930": true, "9931": true,
	"9932": true, "9933": true, "9934": true, "9935": true, "9936": true,
	"9937": true, "9938": true, "9939": true, "9940": true, "9941": true,
	"9942": true, "9943": true, "9944": true, "9945": true, "9946": true,
	"9947": true, "9948": true, "9949": true, "9950": true, "9951": true,
	"9952": true, "9953": true, "9955": true, "9957": true, "9958": true,
	"EM": true,
}

// validatePeppol applies the PEPPOL BIS Billing 3.0 rule set on top of the
// EN16931 base stages.
func validatePeppol(inv *model.CanonicalInvoice, r *model.ValidationResult) {
	checkEndpoint(r, "seller", &inv.Seller, "PEPPOL-EN16931-R020")
	checkEndpoint(r, "buyer", &inv.Buyer, "PEPPOL-EN16931-R010")

	for i, li := range inv.LineItems {
		loc := fmt.Sprintf("lineItems[%d]", i)

		if li.TaxCategoryCode != "" && !model.ValidTaxCategory(li.TaxCategoryCode) {
			r.Add(model.ValidationError{
				Level:    model.LevelError,
				RuleID:   "PEPPOL-EN16931-CL001",
				Location: loc + ".taxCategoryCode",
				Message:  "tax category code is not in the UNCL5305 subset",
				Actual:   string(li.TaxCategoryCode),
			})
		}

		// Reverse charge lines shift the tax burden; both parties must be
		// VAT-identified for that to be expressible.
		if li.TaxCategoryCode == model.TaxCategoryReverseCharge {
			if inv.Seller.VATID == "" || inv.Buyer.VATID == "" {
				r.AddError("PEPPOL-EN16931-R047", loc,
					"reverse charge (AE) lines require VAT identifiers for both seller and buyer")
			}
		}

		if li.TaxCategoryCode == model.TaxCategoryExempt && !li.TaxRate.IsZero() {
			r.Add(model.ValidationError{
				Level:    model.LevelError,
				RuleID:   "PEPPOL-EN16931-R046",
				Location: loc + ".taxRate",
				Message:  "exempt (E) lines must carry a 0% tax rate",
				Expected: "0",
				Actual:   li.TaxRate.String(),
			})
		}
	}

	if inv.IsCreditNote() && inv.PrecedingInvoiceReference == "" {
		r.AddError("PEPPOL-EN16931-R055", "invoice.precedingInvoiceReference",
			"credit notes must reference the preceding invoice")
	}
}

func checkEndpoint(r *model.ValidationResult, side string, p *model.PartyInfo, ruleID string) {
	if p.ElectronicAddress == "" {
		r.AddError(ruleID, side+".electronicAddress", side+" electronic address is required")
		return
	}
	if !validEAS[p.ElectronicAddressScheme] {
		r.Add(model.ValidationError{
			Level:    model.LevelError,
			RuleID:   "PEPPOL-EN16931-CL008",
			Location: side + ".electronicAddressScheme",
			Message:  "electronic address scheme is not a valid EAS code",
			Actual:   p.ElectronicAddressScheme,
		})
	}
}
