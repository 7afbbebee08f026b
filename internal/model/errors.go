package model

import "fmt"

// GenerationError represents an internal generator failure, e.g. an invoice
// date outside the accepted grammars. Data-quality findings never use this
// type; they accumulate as ValidationError entries instead.
type GenerationError struct {
	Format  OutputFormat
	Field   string
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Format, e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Format, e.Field, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// NewGenerationError creates a new generation error
func NewGenerationError(format OutputFormat, field, message string, cause error) *GenerationError {
	return &GenerationError{
		Format:  format,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// InputError represents a malformed or unreadable raw invoice record.
type InputError struct {
	Field   string
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("input %s: %s (%v)", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("input %s: %s", e.Field, e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// NewInputError creates a new input error
func NewInputError(field, message string, cause error) *InputError {
	return &InputError{
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// UnsupportedFormatError reports an output format selector outside the
// supported set.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported output format %q", e.Format)
}
