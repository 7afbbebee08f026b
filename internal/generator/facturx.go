package generator

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
)

// facturXGenerator produces a Factur-X hybrid invoice: a human-readable PDF
// carrier with the CII XML embedded as the factur-x.xml attachment. The
// EN16931 and BASIC profiles share the renderer and differ in guideline urn.
type facturXGenerator struct {
	format      model.OutputFormat
	guidelineID string
}

func (g *facturXGenerator) Format() model.OutputFormat { return g.format }
func (g *facturXGenerator) FileExtension() string      { return "pdf" }
func (g *facturXGenerator) MimeType() string           { return "application/pdf" }

func (g *facturXGenerator) Generate(inv *model.CanonicalInvoice) (*model.GenerationResult, error) {
	if inv.Seller.Name == "" || len(inv.LineItems) == 0 {
		return invalidResult(model.ValidationError{
			Level:    model.LevelError,
			RuleID:   "FX-PRE-01",
			Location: "seller.name",
			Message:  "seller name and at least one line item are required for Factur-X generation",
		}), nil
	}

	xml, err := buildCIIXML(inv, g.format, g.guidelineID)
	if err != nil {
		return nil, err
	}

	structural := g.Validate([]byte(xml))

	pdfBytes, err := g.renderPDF(inv, []byte(xml))
	if err != nil {
		return nil, model.NewGenerationError(g.format, "pdf", "rendering PDF carrier failed", err)
	}

	return &model.GenerationResult{
		XMLContent:       xml,
		PDFContent:       pdfBytes,
		FileName:         fmt.Sprintf("%s_%s.pdf", sanitizeFileName(inv.InvoiceNumber), g.format),
		FileSize:         len(pdfBytes),
		MimeType:         g.MimeType(),
		ValidationStatus: model.StatusFrom(structural.Errors, nil),
		ValidationErrors: structural.Errors,
	}, nil
}

// renderPDF draws a minimal A4 visualization of the invoice and embeds the
// CII XML as factur-x.xml.
func (g *facturXGenerator) renderPDF(inv *model.CanonicalInvoice, xml []byte) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.InvoiceNumber, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	title := "Invoice"
	if inv.IsCreditNote() {
		title = "Credit Note"
	}
	pdf.Cell(0, 10, fmt.Sprintf("%s %s", title, inv.InvoiceNumber))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	line := func(format string, args ...interface{}) {
		pdf.Cell(0, 6, fmt.Sprintf(format, args...))
		pdf.Ln(6)
	}
	line("Date: %s", inv.InvoiceDate)
	line("Seller: %s", inv.Seller.Name)
	line("Buyer: %s", inv.Buyer.Name)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, li := range inv.LineItems {
		pdf.CellFormat(90, 7, li.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, li.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, amount(li.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, amount(li.TotalPrice), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	line("Net total: %s %s", amount(inv.Totals.Subtotal), inv.CurrencyCode)
	line("VAT: %s %s", amount(inv.Totals.TaxAmount), inv.CurrencyCode)
	line("Gross total: %s %s", amount(inv.Totals.TotalAmount), inv.CurrencyCode)

	pdf.SetAttachments([]gofpdf.Attachment{{
		Content:     xml,
		Filename:    "factur-x.xml",
		Description: "Factur-X invoice data",
	}})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks the embedded CII payload for its required elements.
func (g *facturXGenerator) Validate(xml []byte) *model.StructuralResult {
	return checkPaths(xml, "FX-STRUCT", ciiRequiredPaths)
}
