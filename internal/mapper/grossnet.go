package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/money"
)

// Candidate VAT rates tried during gross-price detection. Invoices priced
// gross at a rate outside this list skip conversion silently and are left
// for the business-rule stage to flag.
var candidateRates = []int64{19, 7, 20, 21, 10, 5}

var reconcileTolerance = decimal.NewFromFloat(0.05)

// PreprocessGrossToNet detects gross-priced invoices and rewrites their line
// prices and allowance/charge amounts to NET. It only engages when
// allowances or charges are present, since plain net invoices would trigger
// false positives. The input is never mutated; a converted copy is returned
// on detection, the input itself otherwise.
func PreprocessGrossToNet(inv *model.CanonicalInvoice) *model.CanonicalInvoice {
	if inv == nil || len(inv.AllowanceCharges) == 0 || len(inv.LineItems) == 0 {
		return inv
	}

	grossAfter := inv.LineNetSum().Sub(inv.AllowanceSum()).Add(inv.ChargeSum())

	// Already reconciles with the declared subtotal: net-priced.
	if money.Within(grossAfter, inv.Totals.Subtotal, reconcileTolerance) {
		return inv
	}

	for _, rate := range candidateRates {
		divisor := decimal.NewFromInt(100 + rate).Div(decimal.NewFromInt(100))
		if money.Within(grossAfter.Div(divisor), inv.Totals.Subtotal, reconcileTolerance) {
			return convertToNet(inv, decimal.NewFromInt(rate))
		}
	}

	// No candidate reconciles: assume net pricing.
	return inv
}

// convertToNet divides every line price and allowance/charge amount by
// (1 + rate/100), preferring the item's own tax rate over the detected one,
// and folds any residual cents into the largest line so the net sums
// reconcile exactly with the declared subtotal.
func convertToNet(inv *model.CanonicalInvoice, detectedRate decimal.Decimal) *model.CanonicalInvoice {
	out := *inv
	out.LineItems = make([]model.CanonicalLineItem, len(inv.LineItems))
	out.AllowanceCharges = make([]model.CanonicalAllowanceCharge, len(inv.AllowanceCharges))

	largest := 0
	for i, li := range inv.LineItems {
		divisor := netDivisor(li.TaxRate, detectedRate)
		li.UnitPrice = money.Round(li.UnitPrice.Div(divisor))
		li.TotalPrice = money.Round(li.TotalPrice.Div(divisor))
		out.LineItems[i] = li
		if li.TotalPrice.GreaterThan(out.LineItems[largest].TotalPrice) {
			largest = i
		}
	}

	for i, ac := range inv.AllowanceCharges {
		divisor := netDivisor(ac.TaxRate, detectedRate)
		ac.Amount = money.Round(ac.Amount.Div(divisor))
		out.AllowanceCharges[i] = ac
	}

	residual := out.Totals.Subtotal.
		Sub(out.LineNetSum().Sub(out.AllowanceSum()).Add(out.ChargeSum()))
	if !residual.IsZero() && residual.Abs().LessThanOrEqual(reconcileTolerance) {
		li := out.LineItems[largest]
		li.TotalPrice = money.Round(li.TotalPrice.Add(residual))
		out.LineItems[largest] = li
	}

	return &out
}

func netDivisor(itemRate, detectedRate decimal.Decimal) decimal.Decimal {
	rate := detectedRate
	if itemRate.GreaterThan(decimal.Zero) {
		rate = itemRate
	}
	return rate.Div(decimal.NewFromInt(100)).Add(decimal.NewFromInt(1))
}
