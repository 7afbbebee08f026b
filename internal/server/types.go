package server

import (
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/mapper"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
)

// ConvertRequest is the request body for the convert and validate endpoints.
type ConvertRequest struct {
	Format  string             `json:"format" binding:"required"`
	Invoice *mapper.RawInvoice `json:"invoice" binding:"required"`
}

// ConvertResponse is the response for the convert endpoint.
type ConvertResponse struct {
	ConversionID string `json:"conversionId"`
	Format       string `json:"format"`

	XMLContent string `json:"xmlContent,omitempty"`
	PDFContent []byte `json:"pdfContent,omitempty"`

	FileName string `json:"fileName"`
	FileSize int    `json:"fileSize"`
	MimeType string `json:"mimeType"`

	ValidationStatus model.ValidationStatus  `json:"validationStatus"`
	Errors           []model.ValidationError `json:"errors,omitempty"`
	Warnings         []model.ValidationError `json:"warnings,omitempty"`
}

// ValidationResponse is the response for the validate endpoint.
type ValidationResponse struct {
	Valid    bool                    `json:"valid"`
	Profile  model.ProfileID         `json:"profile"`
	Errors   []model.ValidationError `json:"errors,omitempty"`
	Warnings []model.ValidationError `json:"warnings,omitempty"`
}

// FormatInfo describes one supported output format.
type FormatInfo struct {
	Format        string `json:"format"`
	Profile       string `json:"profile"`
	FileExtension string `json:"fileExtension"`
	MimeType      string `json:"mimeType"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
