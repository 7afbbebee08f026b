package einvoice

import (
	"github.com/google/uuid"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/generator"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/mapper"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/validation"
)

// Re-export the raw input shapes accepted by Convert.
type (
	RawInvoice         = mapper.RawInvoice
	RawParty           = mapper.RawParty
	RawPayment         = mapper.RawPayment
	RawLineItem        = mapper.RawLineItem
	RawAllowanceCharge = mapper.RawAllowanceCharge
)

// ConversionResult bundles the outcome of a full conversion run.
type ConversionResult struct {
	// Invoice is the normalized intermediate record, after gross-to-net
	// preprocessing.
	Invoice *CanonicalInvoice

	// Validation holds the profile rule findings. Generation is attempted
	// even when it reports errors; Generation.ValidationStatus reflects
	// the combined outcome.
	Validation *ValidationResult

	// Generation is the serialized artifact.
	Generation *GenerationResult
}

// Converter runs the map, validate and generate stages as one pipeline.
type Converter struct{}

// NewConverter creates a converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Convert normalizes raw, validates it against the profile bound to format
// and serializes it. Mapping failures and date contract violations return an
// error; rule findings land in the result.
func (c *Converter) Convert(raw *RawInvoice, format OutputFormat) (*ConversionResult, error) {
	inv, err := mapper.ToCanonical(raw, format)
	if err != nil {
		return nil, err
	}

	gen, ok := generator.For(format)
	if !ok {
		return nil, &model.UnsupportedFormatError{Format: string(format)}
	}

	vr := validation.Validate(inv, model.ProfileForFormat(format))

	result, err := gen.Generate(inv)
	if err != nil {
		return nil, err
	}

	result.ConversionID = uuid.NewString()
	result.ValidationErrors = append(result.ValidationErrors, vr.Errors...)
	result.ValidationWarnings = append(result.ValidationWarnings, vr.Warnings...)
	result.ValidationStatus = model.StatusFrom(result.ValidationErrors, result.ValidationWarnings)

	return &ConversionResult{
		Invoice:    inv,
		Validation: vr,
		Generation: result,
	}, nil
}

// ValidateOnly normalizes raw and runs the validation pipeline for the given
// format without generating output.
func (c *Converter) ValidateOnly(raw *RawInvoice, format OutputFormat) (*ValidationResult, error) {
	inv, err := mapper.ToCanonical(raw, format)
	if err != nil {
		return nil, err
	}
	return validation.Validate(inv, model.ProfileForFormat(format)), nil
}
