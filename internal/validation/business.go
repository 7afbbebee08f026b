package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/money"
)

var (
	lineTolFloor = decimal.NewFromFloat(0.05)
	grossWindow  = decimal.NewFromFloat(0.02)
	aggregateTol = decimal.NewFromFloat(0.05)
	onePercent   = decimal.NewFromFloat(0.01)
)

// businessStage enforces monetary consistency: per-line NET semantics and
// document-level tax/total cross-checks.
func businessStage(inv *model.CanonicalInvoice, r *model.ValidationResult) {
	for i, li := range inv.LineItems {
		checkLineNet(i, li, r)
	}
	checkAggregates(inv, r)
}

// checkLineNet verifies totalPrice ≈ quantity × unitPrice. When the line
// total instead matches the gross value (net × (1+rate)), the finding names
// the expected NET amount so callers can fix pricing rather than guess.
func checkLineNet(idx int, li model.CanonicalLineItem, r *model.ValidationResult) {
	expectedNet := li.Quantity.Mul(li.UnitPrice)
	diff := li.TotalPrice.Sub(expectedNet).Abs()

	tol := expectedNet.Abs().Mul(onePercent)
	if tol.LessThan(lineTolFloor) {
		tol = lineTolFloor
	}
	if diff.LessThanOrEqual(tol) {
		return
	}

	location := fmt.Sprintf("lineItems[%d].totalPrice", idx)
	possibleGross := expectedNet.Mul(li.TaxRate.Div(decimal.NewFromInt(100)).Add(decimal.NewFromInt(1)))
	if money.Within(li.TotalPrice, possibleGross, grossWindow) {
		r.Add(model.ValidationError{
			Level:    model.LevelError,
			RuleID:   "SEM-GROSS-PRICE",
			Location: location,
			Message: fmt.Sprintf("line %d appears GROSS-priced: total %s matches net %s plus %s%% tax",
				idx+1, li.TotalPrice, money.Round(expectedNet), li.TaxRate),
			Expected:   money.Round(expectedNet).String(),
			Actual:     li.TotalPrice.String(),
			Suggestion: "provide NET unit and total prices; tax is added by the target format",
		})
		return
	}

	r.Add(model.ValidationError{
		Level:    model.LevelWarning,
		RuleID:   "SEM-LINE-NET",
		Location: location,
		Message: fmt.Sprintf("line %d total %s does not match quantity × unit price",
			idx+1, li.TotalPrice),
		Expected: money.Round(expectedNet).String(),
		Actual:   li.TotalPrice.String(),
	})
}

// checkAggregates recomputes tax per rate group from net line sums adjusted
// by same-rate allowances/charges, then compares against the declared
// taxAmount and the grand total.
func checkAggregates(inv *model.CanonicalInvoice, r *model.ValidationResult) {
	netByRate := map[string]decimal.Decimal{}
	rates := map[string]decimal.Decimal{}

	for _, li := range inv.LineItems {
		key := li.TaxRate.String()
		netByRate[key] = netByRate[key].Add(li.TotalPrice)
		rates[key] = li.TaxRate
	}
	for _, ac := range inv.AllowanceCharges {
		key := ac.TaxRate.String()
		if _, ok := rates[key]; !ok {
			rates[key] = ac.TaxRate
		}
		if ac.ChargeIndicator {
			netByRate[key] = netByRate[key].Add(ac.Amount)
		} else {
			netByRate[key] = netByRate[key].Sub(ac.Amount)
		}
	}

	expectedTax := decimal.Zero
	for key, net := range netByRate {
		expectedTax = expectedTax.Add(money.Tax(net, rates[key]))
	}
	expectedTax = money.Round(expectedTax)

	if !money.Within(expectedTax, inv.Totals.TaxAmount, aggregateTol) {
		r.Add(model.ValidationError{
			Level:    model.LevelError,
			RuleID:   "BR-CO-14",
			Location: "totals.taxAmount",
			Message:  "declared tax amount does not match tax computed from line items",
			Expected: expectedTax.String(),
			Actual:   inv.Totals.TaxAmount.String(),
		})
	}

	expectedTotal := money.Sum(inv.Totals.Subtotal, inv.Totals.TaxAmount)
	if !money.Within(expectedTotal, inv.Totals.TotalAmount, aggregateTol) {
		r.Add(model.ValidationError{
			Level:    model.LevelError,
			RuleID:   "BR-CO-15",
			Location: "totals.totalAmount",
			Message:  "total amount does not equal subtotal plus tax",
			Expected: expectedTotal.String(),
			Actual:   inv.Totals.TotalAmount.String(),
		})
	}
}
