package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/config"
	"github.com/osamaaldaas2/Invoice2E-sub003/pkg/einvoice"
)

func TestApplyDefaultsCurrency(t *testing.T) {
	cfg = config.Default()
	cfg.Defaults.Currency = "SEK"

	raw := &einvoice.RawInvoice{}
	applyDefaults(raw)
	assert.Equal(t, "SEK", raw.Currency)

	raw = &einvoice.RawInvoice{Currency: "EUR"}
	applyDefaults(raw)
	assert.Equal(t, "EUR", raw.Currency)
}

func TestApplyDefaultsWithoutConfiguredCurrency(t *testing.T) {
	cfg = config.Default()

	raw := &einvoice.RawInvoice{}
	applyDefaults(raw)

	// Left empty so the mapper applies the format-specific default.
	assert.Empty(t, raw.Currency)
}

func TestResolveFormatFallsBackToConfig(t *testing.T) {
	cfg = config.Default()
	targetFormat = ""

	format, err := resolveFormat()
	require.NoError(t, err)
	assert.Equal(t, einvoice.FormatXRechnungUBL, format)

	targetFormat = "ksef"
	defer func() { targetFormat = "" }()

	format, err = resolveFormat()
	require.NoError(t, err)
	assert.Equal(t, einvoice.FormatKSeF, format)
}
