package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/money"
)

func TestRound(t *testing.T) {
	cases := map[string]string{
		"1.005":   "1.01",
		"1.004":   "1",
		"0.405":   "0.41",
		"-1.005":  "-1.01",
		"19":      "19",
		"19.9999": "20",
	}

	for in, want := range cases {
		got := money.Round(money.MustFromString(in))
		assert.True(t, got.Equal(money.MustFromString(want)),
			"Round(%s) = %s, want %s", in, got, want)
	}
}

func TestRound_Idempotent(t *testing.T) {
	values := []string{"1.005", "0.015", "99.994", "-3.125", "0"}
	for _, v := range values {
		once := money.Round(money.MustFromString(v))
		twice := money.Round(once)
		assert.True(t, once.Equal(twice), "Round not idempotent for %s", v)
	}
}

func TestSum_NoDrift(t *testing.T) {
	// 0.10 x 3 is a classic float drift case; decimals sum exactly.
	values := []decimal.Decimal{
		money.FromFloat(0.10),
		money.FromFloat(0.10),
		money.FromFloat(0.10),
	}
	got := money.Sum(values...)
	assert.True(t, got.Equal(money.MustFromString("0.3")), "got %s", got)
}

func TestTax(t *testing.T) {
	got := money.Tax(money.MustFromString("100"), money.MustFromString("19"))
	assert.True(t, got.Equal(money.MustFromString("19")), "got %s", got)

	got = money.Tax(money.MustFromString("33.33"), money.MustFromString("19"))
	assert.True(t, got.Equal(money.MustFromString("6.33")), "got %s", got)

	got = money.Tax(money.MustFromString("50"), money.Zero)
	assert.True(t, got.IsZero())
}

func TestDiv_ByZero(t *testing.T) {
	got := money.Div(money.MustFromString("10"), money.Zero)
	assert.True(t, got.IsZero())
}

func TestWithin(t *testing.T) {
	tol := money.MustFromString("0.05")
	assert.True(t, money.Within(money.MustFromString("100"), money.MustFromString("100.05"), tol))
	assert.False(t, money.Within(money.MustFromString("100"), money.MustFromString("100.06"), tol))
}

func TestMustFromString_Panics(t *testing.T) {
	require.Panics(t, func() { money.MustFromString("abc") })
}
