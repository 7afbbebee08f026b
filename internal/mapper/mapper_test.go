package mapper_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/mapper"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/money"
)

func TestToCanonical_NilRecord(t *testing.T) {
	_, err := mapper.ToCanonical(nil, model.FormatXRechnungUBL)
	require.Error(t, err)

	var inputErr *model.InputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestToCanonical_NonFiniteAmounts(t *testing.T) {
	cases := map[string]*mapper.RawInvoice{
		"nan total": {
			InvoiceNumber: "RE-2025-002",
			TotalAmount:   math.NaN(),
			LineItems: []mapper.RawLineItem{
				{Description: "Consulting", Quantity: 1, UnitPrice: 100, TaxRate: 19},
			},
		},
		"inf unit price": {
			InvoiceNumber: "RE-2025-003",
			LineItems: []mapper.RawLineItem{
				{Description: "Consulting", Quantity: 1, UnitPrice: math.Inf(1), TaxRate: 19},
			},
		},
		"nan allowance": {
			InvoiceNumber: "RE-2025-004",
			LineItems: []mapper.RawLineItem{
				{Description: "Consulting", Quantity: 1, UnitPrice: 100, TaxRate: 19},
			},
			AllowanceCharges: []mapper.RawAllowanceCharge{
				{Amount: math.NaN(), Reason: "Discount"},
			},
		},
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := mapper.ToCanonical(raw, model.FormatXRechnungUBL)
			require.Error(t, err)

			var inputErr *model.InputError
			assert.ErrorAs(t, err, &inputErr)
		})
	}
}

func TestToCanonical_LegacyItemsField(t *testing.T) {
	raw := &mapper.RawInvoice{
		InvoiceNumber: "RE-2025-001",
		InvoiceDate:   "2025-03-01",
		Items: []mapper.RawLineItem{
			{Name: "Consulting", Quantity: 2, UnitPrice: 100, TaxRate: 19},
		},
	}

	inv, err := mapper.ToCanonical(raw, model.FormatXRechnungUBL)
	require.NoError(t, err)
	require.Len(t, inv.LineItems, 1)

	li := inv.LineItems[0]
	assert.Equal(t, "Consulting", li.Description)
	assert.True(t, li.TotalPrice.Equal(money.MustFromString("200")), "derived total, got %s", li.TotalPrice)
	assert.Equal(t, "C62", li.UnitCode)
	assert.Equal(t, model.TaxCategoryStandard, li.TaxCategoryCode)
}

func TestToCanonical_SplitsCombinedTaxID(t *testing.T) {
	vat := &mapper.RawInvoice{Seller: mapper.RawParty{TaxID: "DE123456789"}}
	inv, err := mapper.ToCanonical(vat, model.FormatXRechnungCII)
	require.NoError(t, err)
	assert.Equal(t, "DE123456789", inv.Seller.VATID)
	assert.Empty(t, inv.Seller.TaxNumber)

	local := &mapper.RawInvoice{Seller: mapper.RawParty{TaxID: "12/345/67890"}}
	inv, err = mapper.ToCanonical(local, model.FormatXRechnungCII)
	require.NoError(t, err)
	assert.Empty(t, inv.Seller.VATID)
	assert.Equal(t, "12/345/67890", inv.Seller.TaxNumber)
}

func TestToCanonical_DerivesElectronicAddress(t *testing.T) {
	raw := &mapper.RawInvoice{
		Buyer: mapper.RawParty{Email: "billing@example.com"},
	}

	inv, err := mapper.ToCanonical(raw, model.FormatPeppolBIS)
	require.NoError(t, err)
	assert.Equal(t, "billing@example.com", inv.Buyer.ElectronicAddress)
	assert.Equal(t, "EM", inv.Buyer.ElectronicAddressScheme)
}

func TestToCanonical_CountryDefaults(t *testing.T) {
	raw := &mapper.RawInvoice{Seller: mapper.RawParty{Name: "ACME GmbH"}}

	inv, err := mapper.ToCanonical(raw, model.FormatXRechnungUBL)
	require.NoError(t, err)
	assert.Equal(t, "DE", inv.Seller.CountryCode, "XRechnung path defaults missing country to DE")

	inv, err = mapper.ToCanonical(raw, model.FormatFatturaPA)
	require.NoError(t, err)
	assert.Empty(t, inv.Seller.CountryCode, "non-German formats must not invent a country")
}

func TestToCanonical_CurrencyDefaults(t *testing.T) {
	inv, err := mapper.ToCanonical(&mapper.RawInvoice{}, model.FormatKSeF)
	require.NoError(t, err)
	assert.Equal(t, "PLN", inv.CurrencyCode)

	inv, err = mapper.ToCanonical(&mapper.RawInvoice{}, model.FormatXRechnungCII)
	require.NoError(t, err)
	assert.Equal(t, "EUR", inv.CurrencyCode)
}

func TestToCanonical_ComputesMissingTotals(t *testing.T) {
	raw := &mapper.RawInvoice{
		LineItems: []mapper.RawLineItem{
			{Description: "A", Quantity: 1, UnitPrice: 100, TotalPrice: 100, TaxRate: 19},
			{Description: "B", Quantity: 1, UnitPrice: 50, TotalPrice: 50, TaxRate: 19},
		},
	}

	inv, err := mapper.ToCanonical(raw, model.FormatXRechnungUBL)
	require.NoError(t, err)
	assert.True(t, inv.Totals.Subtotal.Equal(money.MustFromString("150")), "got %s", inv.Totals.Subtotal)
	assert.True(t, inv.Totals.TaxAmount.Equal(money.MustFromString("28.50")), "got %s", inv.Totals.TaxAmount)
	assert.True(t, inv.Totals.TotalAmount.Equal(money.MustFromString("178.50")), "got %s", inv.Totals.TotalAmount)
}

func TestPreprocessGrossToNet_NetInvoiceUnchanged(t *testing.T) {
	inv := &model.CanonicalInvoice{
		LineItems: []model.CanonicalLineItem{
			{TotalPrice: money.MustFromString("110"), TaxRate: money.MustFromString("19")},
		},
		AllowanceCharges: []model.CanonicalAllowanceCharge{
			{ChargeIndicator: false, Amount: money.MustFromString("10"), TaxRate: money.MustFromString("19")},
		},
		Totals: model.Totals{Subtotal: money.MustFromString("100")},
	}

	got := mapper.PreprocessGrossToNet(inv)
	assert.Same(t, inv, got, "already-reconciled invoice must pass through")
}

func TestPreprocessGrossToNet_NoAllowances_Skipped(t *testing.T) {
	// Gross-looking numbers but no allowances: conversion must not engage.
	inv := &model.CanonicalInvoice{
		LineItems: []model.CanonicalLineItem{
			{TotalPrice: money.MustFromString("119"), TaxRate: money.MustFromString("19")},
		},
		Totals: model.Totals{Subtotal: money.MustFromString("100")},
	}

	got := mapper.PreprocessGrossToNet(inv)
	assert.Same(t, inv, got)
}

func TestPreprocessGrossToNet_DetectsGrossAt19(t *testing.T) {
	// Scenario: one gross line 119.00 at 19%, a gross allowance, declared
	// net subtotal 100.00 after the allowance nets out.
	inv := &model.CanonicalInvoice{
		LineItems: []model.CanonicalLineItem{
			{Description: "Widget", UnitPrice: money.MustFromString("119"), TotalPrice: money.MustFromString("119"), TaxRate: money.MustFromString("19")},
		},
		AllowanceCharges: []model.CanonicalAllowanceCharge{
			{ChargeIndicator: true, Amount: money.MustFromString("0"), TaxRate: money.MustFromString("19")},
		},
		Totals: model.Totals{Subtotal: money.MustFromString("100")},
	}

	got := mapper.PreprocessGrossToNet(inv)
	require.NotSame(t, inv, got)
	assert.True(t, got.LineItems[0].TotalPrice.Equal(money.MustFromString("100")),
		"line rewritten to net, got %s", got.LineItems[0].TotalPrice)
	assert.True(t, got.LineItems[0].UnitPrice.Equal(money.MustFromString("100")))
	// Source invoice untouched.
	assert.True(t, inv.LineItems[0].TotalPrice.Equal(money.MustFromString("119")))
}

func TestPreprocessGrossToNet_ResidualFoldedIntoLargestLine(t *testing.T) {
	// Three gross lines at 19% whose individual net roundings
	// (33.34 + 33.34 + 33.33 = 100.01) overshoot the declared subtotal by
	// a cent.
	inv := &model.CanonicalInvoice{
		LineItems: []model.CanonicalLineItem{
			{Description: "A", TotalPrice: money.MustFromString("39.67"), TaxRate: money.MustFromString("19")},
			{Description: "B", TotalPrice: money.MustFromString("39.67"), TaxRate: money.MustFromString("19")},
			{Description: "C", TotalPrice: money.MustFromString("39.66"), TaxRate: money.MustFromString("19")},
		},
		AllowanceCharges: []model.CanonicalAllowanceCharge{
			{ChargeIndicator: false, Amount: money.MustFromString("0"), TaxRate: money.MustFromString("19")},
		},
		Totals: model.Totals{Subtotal: money.MustFromString("100")},
	}

	got := mapper.PreprocessGrossToNet(inv)
	require.NotSame(t, inv, got)

	reconciled := got.LineNetSum().Sub(got.AllowanceSum()).Add(got.ChargeSum())
	assert.True(t, reconciled.Equal(got.Totals.Subtotal),
		"net sums must reconcile exactly, got %s vs %s", reconciled, got.Totals.Subtotal)
}

func TestPreprocessGrossToNet_UnknownRate_Unchanged(t *testing.T) {
	// Priced gross at 25% (not in the candidate list): silently skipped.
	inv := &model.CanonicalInvoice{
		LineItems: []model.CanonicalLineItem{
			{TotalPrice: money.MustFromString("125"), TaxRate: money.MustFromString("25")},
		},
		AllowanceCharges: []model.CanonicalAllowanceCharge{
			{ChargeIndicator: false, Amount: money.MustFromString("0")},
		},
		Totals: model.Totals{Subtotal: money.MustFromString("100")},
	}

	got := mapper.PreprocessGrossToNet(inv)
	assert.Same(t, inv, got)
}
