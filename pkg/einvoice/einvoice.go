// Package einvoice provides the public API for converting raw invoice
// records into European structured e-invoice formats.
//
// Example usage:
//
//	conv := einvoice.NewConverter()
//	result, err := conv.Convert(raw, einvoice.FormatXRechnungUBL)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(result.Generation.FileName, []byte(result.Generation.XMLContent), 0o644)
package einvoice

import "github.com/osamaaldaas2/Invoice2E-sub003/internal/model"

// Re-export core types for public API
type (
	CanonicalInvoice = model.CanonicalInvoice
	PartyInfo        = model.PartyInfo
	PaymentInfo      = model.PaymentInfo
	LineItem         = model.CanonicalLineItem
	AllowanceCharge  = model.CanonicalAllowanceCharge
	Totals           = model.Totals
	OutputFormat     = model.OutputFormat
	ProfileID        = model.ProfileID
	ValidationResult = model.ValidationResult
	ValidationIssue  = model.ValidationError
	GenerationResult = model.GenerationResult
	ValidationStatus = model.ValidationStatus
)

// Re-export output formats
const (
	FormatXRechnungCII   = model.FormatXRechnungCII
	FormatXRechnungUBL   = model.FormatXRechnungUBL
	FormatPeppolBIS      = model.FormatPeppolBIS
	FormatFacturXEN16931 = model.FormatFacturXEN16931
	FormatFacturXBasic   = model.FormatFacturXBasic
	FormatFatturaPA      = model.FormatFatturaPA
	FormatKSeF           = model.FormatKSeF
	FormatNLCIUS         = model.FormatNLCIUS
	FormatCIUSRO         = model.FormatCIUSRO
)

// Re-export generation statuses
const (
	StatusValid    = model.StatusValid
	StatusInvalid  = model.StatusInvalid
	StatusWarnings = model.StatusWarnings
)

// Re-export error types
type (
	GenerationError        = model.GenerationError
	InputError             = model.InputError
	UnsupportedFormatError = model.UnsupportedFormatError
)

// ParseFormat resolves a format identifier string.
func ParseFormat(s string) (OutputFormat, error) {
	format, ok := model.ParseOutputFormat(s)
	if !ok {
		return "", &model.UnsupportedFormatError{Format: s}
	}
	return format, nil
}

// Formats lists every supported output format.
func Formats() []OutputFormat {
	return model.AllFormats
}
