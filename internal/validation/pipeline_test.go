package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/money"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/validation"
)

// germanInvoice returns a fully populated invoice that satisfies the
// BR-DE rule set: one 100.00 net line at 19%.
func germanInvoice() *model.CanonicalInvoice {
	return &model.CanonicalInvoice{
		InvoiceNumber:    "RE-2025-0042",
		InvoiceDate:      "2025-06-15",
		DocumentTypeCode: model.DocTypeInvoice,
		CurrencyCode:     "EUR",
		BuyerReference:   "04011000-12345-67",
		Seller: model.PartyInfo{
			Name:                    "Muster GmbH",
			Street:                  "Hauptstraße 1",
			City:                    "Berlin",
			PostalCode:              "10115",
			CountryCode:             "DE",
			Phone:                   "+49 30 1234567",
			Email:                   "rechnung@muster.de",
			VATID:                   "DE123456789",
			ContactName:             "Erika Muster",
			ElectronicAddress:       "rechnung@muster.de",
			ElectronicAddressScheme: "EM",
		},
		Buyer: model.PartyInfo{
			Name:                    "Beispiel AG",
			Street:                  "Nebenweg 2",
			City:                    "Hamburg",
			PostalCode:              "20095",
			CountryCode:             "DE",
			VATID:                   "DE987654321",
			ElectronicAddress:       "einkauf@beispiel.de",
			ElectronicAddressScheme: "EM",
		},
		Payment: model.PaymentInfo{
			IBAN:         "DE89370400440532013000",
			BIC:          "COBADEFFXXX",
			PaymentTerms: "Zahlbar innerhalb von 30 Tagen",
			DueDate:      "2025-07-15",
		},
		LineItems: []model.CanonicalLineItem{
			{
				Description:     "Beratungsleistung",
				Quantity:        money.MustFromString("1"),
				UnitPrice:       money.MustFromString("100"),
				TotalPrice:      money.MustFromString("100"),
				TaxRate:         money.MustFromString("19"),
				TaxCategoryCode: model.TaxCategoryStandard,
				UnitCode:        "C62",
			},
		},
		Totals: model.Totals{
			Subtotal:    money.MustFromString("100"),
			TaxAmount:   money.MustFromString("19"),
			TotalAmount: money.MustFromString("119"),
		},
	}
}

func TestValidate_ScenarioA_XRechnungValid(t *testing.T) {
	r := validation.Validate(germanInvoice(), model.ProfileXRechnungCII)
	assert.True(t, r.Valid, "errors: %+v", r.Errors)
	assert.Empty(t, r.Errors)
}

func TestValidate_NilInvoice(t *testing.T) {
	r := validation.Validate(nil, model.ProfileXRechnungCII)
	require.False(t, r.Valid)
}

func TestValidate_RegistryCoversAllProfiles(t *testing.T) {
	for _, p := range model.AllProfiles {
		assert.True(t, validation.HasProfile(p), "no rule set registered for %s", p)
	}
}

func TestValidate_UnknownProfileFallsBackToBase(t *testing.T) {
	inv := germanInvoice()
	inv.Seller.ContactName = "" // would trip BR-DE-5

	r := validation.Validate(inv, model.ProfileID("made-up"))
	assert.True(t, r.Valid, "base profile has no BR-DE rules, errors: %+v", r.Errors)
	assert.Equal(t, model.ProfileID("made-up"), r.Profile)
}

func TestValidate_SchemaStageAccumulates(t *testing.T) {
	r := validation.Validate(&model.CanonicalInvoice{}, model.ProfileEN16931Base)
	require.False(t, r.Valid)

	// Missing number, date, seller, buyer, positive total, line items:
	// all reported in one pass.
	assert.GreaterOrEqual(t, len(r.Errors), 6)
}

func TestValidate_ScenarioD_CreditNoteMissingReference(t *testing.T) {
	for _, profile := range []model.ProfileID{model.ProfileXRechnungUBL, model.ProfilePeppolBIS} {
		inv := germanInvoice()
		inv.DocumentTypeCode = model.DocTypeCreditNote
		inv.PrecedingInvoiceReference = ""

		r := validation.Validate(inv, profile)
		assert.False(t, r.Valid, "profile %s", profile)

		found := false
		for _, e := range r.Errors {
			if e.Location == "invoice.precedingInvoiceReference" {
				found = true
			}
		}
		assert.True(t, found, "profile %s must flag the missing preceding reference", profile)
	}
}

func TestValidate_BuyerReferenceMissing_IsWarning(t *testing.T) {
	inv := germanInvoice()
	inv.BuyerReference = ""

	r := validation.Validate(inv, model.ProfileXRechnungCII)
	assert.True(t, r.Valid)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, "BR-DE-15", r.Warnings[0].RuleID)
}

func TestValidate_NonEURCurrencyFailsXRechnung(t *testing.T) {
	inv := germanInvoice()
	inv.CurrencyCode = "USD"

	r := validation.Validate(inv, model.ProfileXRechnungUBL)
	assert.False(t, r.Valid)
}

func TestBusinessStage_NetLines_NoGrossErrors(t *testing.T) {
	// Every line satisfies totalPrice == quantity × unitPrice: the semantic
	// check must stay silent.
	inv := germanInvoice()
	inv.LineItems = append(inv.LineItems, model.CanonicalLineItem{
		Description: "Zweite Position",
		Quantity:    money.MustFromString("3"),
		UnitPrice:   money.MustFromString("24.50"),
		TotalPrice:  money.MustFromString("73.50"),
		TaxRate:     money.MustFromString("19"),
	})
	inv.Totals = model.Totals{
		Subtotal:    money.MustFromString("173.50"),
		TaxAmount:   money.MustFromString("32.97"),
		TotalAmount: money.MustFromString("206.47"),
	}

	r := validation.Validate(inv, model.ProfileEN16931Base)
	for _, e := range r.Errors {
		assert.NotEqual(t, "SEM-GROSS-PRICE", e.RuleID)
	}
	assert.True(t, r.Valid, "errors: %+v", r.Errors)
}

func TestBusinessStage_GrossPricedLineDetected(t *testing.T) {
	inv := germanInvoice()
	// 1 × 100.00 net, but the line total carries the gross 119.00.
	inv.LineItems[0].TotalPrice = money.MustFromString("119")

	r := validation.Validate(inv, model.ProfileEN16931Base)
	require.False(t, r.Valid)

	var gross *model.ValidationError
	for i, e := range r.Errors {
		if e.RuleID == "SEM-GROSS-PRICE" {
			gross = &r.Errors[i]
		}
	}
	require.NotNil(t, gross, "expected gross-price finding, errors: %+v", r.Errors)
	assert.Equal(t, "100", gross.Expected)
}

func TestBusinessStage_GenericMismatchIsWarning(t *testing.T) {
	inv := germanInvoice()
	// Off by far more than tolerance but nowhere near the gross value.
	inv.LineItems[0].TotalPrice = money.MustFromString("142.77")
	inv.Totals = model.Totals{
		Subtotal:    money.MustFromString("142.77"),
		TaxAmount:   money.MustFromString("27.13"),
		TotalAmount: money.MustFromString("169.90"),
	}

	r := validation.Validate(inv, model.ProfileEN16931Base)

	found := false
	for _, w := range r.Warnings {
		if w.RuleID == "SEM-LINE-NET" {
			found = true
		}
	}
	assert.True(t, found, "warnings: %+v", r.Warnings)
}

func TestBusinessStage_TaxMismatch(t *testing.T) {
	inv := germanInvoice()
	inv.Totals.TaxAmount = money.MustFromString("25")

	r := validation.Validate(inv, model.ProfileEN16931Base)
	require.False(t, r.Valid)

	ruleIDs := map[string]bool{}
	for _, e := range r.Errors {
		ruleIDs[e.RuleID] = true
	}
	assert.True(t, ruleIDs["BR-CO-14"], "declared 25 vs computed 19 must trip BR-CO-14")
	assert.True(t, ruleIDs["BR-CO-15"], "subtotal+tax no longer equals total")
}

func TestBusinessStage_AllowanceAdjustsTaxBase(t *testing.T) {
	inv := germanInvoice()
	inv.AllowanceCharges = []model.CanonicalAllowanceCharge{
		{ChargeIndicator: false, Amount: money.MustFromString("10"), TaxRate: money.MustFromString("19"), Reason: "Rabatt"},
	}
	inv.Totals = model.Totals{
		Subtotal:    money.MustFromString("90"),
		TaxAmount:   money.MustFromString("17.10"),
		TotalAmount: money.MustFromString("107.10"),
	}

	r := validation.Validate(inv, model.ProfileEN16931Base)
	assert.True(t, r.Valid, "errors: %+v", r.Errors)
}
