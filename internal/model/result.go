package model

import "time"

// Level classifies a validation finding.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// ValidationError is a single structured finding. RuleID carries the
// published rule identifier (BR-DE-2, PEPPOL-EN16931-R010, FPA-010, ...);
// Location points at the offending field.
type ValidationError struct {
	Level      Level  `json:"level"`
	RuleID     string `json:"ruleId"`
	Location   string `json:"location"`
	Message    string `json:"message"`
	Expected   string `json:"expected,omitempty"`
	Actual     string `json:"actual,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidationResult aggregates every finding from a pipeline run. Valid is
// true only when no error-level findings were collected; warnings and info
// entries never flip it.
type ValidationResult struct {
	Valid     bool              `json:"valid"`
	Profile   ProfileID         `json:"profile"`
	Errors    []ValidationError `json:"errors"`
	Warnings  []ValidationError `json:"warnings"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewValidationResult creates an empty, valid result for the profile.
func NewValidationResult(profile ProfileID) *ValidationResult {
	return &ValidationResult{
		Valid:     true,
		Profile:   profile,
		Errors:    make([]ValidationError, 0),
		Warnings:  make([]ValidationError, 0),
		Timestamp: time.Now().UTC(),
	}
}

// Add routes a finding into Errors or Warnings by level.
func (r *ValidationResult) Add(e ValidationError) {
	if e.Level == LevelError {
		r.Errors = append(r.Errors, e)
		r.Valid = false
		return
	}
	r.Warnings = append(r.Warnings, e)
}

// AddError records an error-level finding.
func (r *ValidationResult) AddError(ruleID, location, message string) {
	r.Add(ValidationError{Level: LevelError, RuleID: ruleID, Location: location, Message: message})
}

// AddWarning records a warning-level finding.
func (r *ValidationResult) AddWarning(ruleID, location, message string) {
	r.Add(ValidationError{Level: LevelWarning, RuleID: ruleID, Location: location, Message: message})
}

// Merge folds another result's findings into r.
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	for _, e := range other.Errors {
		r.Add(e)
	}
	for _, w := range other.Warnings {
		r.Add(w)
	}
}

// ValidationStatus summarizes a generation outcome.
type ValidationStatus string

const (
	StatusValid    ValidationStatus = "valid"
	StatusInvalid  ValidationStatus = "invalid"
	StatusWarnings ValidationStatus = "warnings"
)

// GenerationResult is what a format generator hands back to the caller.
// On an invalid result XMLContent is empty and ValidationErrors explains why.
type GenerationResult struct {
	ConversionID string `json:"conversionId,omitempty"`

	XMLContent string `json:"xmlContent"`
	PDFContent []byte `json:"pdfContent,omitempty"`

	FileName string `json:"fileName"`
	FileSize int    `json:"fileSize"`
	MimeType string `json:"mimeType"`

	ValidationStatus   ValidationStatus  `json:"validationStatus"`
	ValidationErrors   []ValidationError `json:"validationErrors,omitempty"`
	ValidationWarnings []ValidationError `json:"validationWarnings,omitempty"`
}

// StatusFrom derives the generation status from collected findings.
func StatusFrom(errors, warnings []ValidationError) ValidationStatus {
	switch {
	case len(errors) > 0:
		return StatusInvalid
	case len(warnings) > 0:
		return StatusWarnings
	}
	return StatusValid
}

// StructuralResult is the outcome of a post-generation structural check.
type StructuralResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// AddMissing records a missing-element finding on a structural result.
func (s *StructuralResult) AddMissing(ruleID, path string) {
	s.Valid = false
	s.Errors = append(s.Errors, ValidationError{
		Level:    LevelError,
		RuleID:   ruleID,
		Location: path,
		Message:  "required element missing from generated document",
	})
}
