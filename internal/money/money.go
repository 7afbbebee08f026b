package money

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// Two-decimal currencies (EUR, PLN, RON) throughout; rounding is half away
// from zero, which is what shopspring's Round does. The upstream engine's
// comments claimed banker's rounding but its outputs matched half-away.
const places = 2

// Round rounds a monetary value to 2 decimal places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(places)
}

// FromFloat creates a monetary decimal from a float64, rounded.
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(places)
}

// FromString parses a monetary decimal from a string.
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses a monetary decimal from a string, panics on error.
// Test helper.
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Sum adds all values exactly and rounds the result once, so already-rounded
// inputs cannot accumulate drift.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result.Round(places)
}

// Tax computes net * rate/100, rounded.
func Tax(net, ratePercent decimal.Decimal) decimal.Decimal {
	if ratePercent.IsZero() {
		return Zero
	}
	return net.Mul(ratePercent).Div(decimal.NewFromInt(100)).Round(places)
}

// Mul multiplies two decimals and rounds to 2 places.
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Round(places)
}

// Div divides a by b and rounds to 2 places. Division by zero yields zero.
func Div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return Zero
	}
	return a.Div(b).Round(places)
}

// Within reports whether a and b differ by at most tol.
func Within(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}

// IsPositive returns true if d is greater than zero.
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}
