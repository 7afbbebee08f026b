// Package generator serializes canonical invoices into the supported
// e-invoice dialects. One generator per dialect, selected through a static
// registry; each performs a pre-generation identifier check and a
// post-generation structural self-check.
package generator

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/money"
)

// Generator produces one output dialect from a canonical invoice.
type Generator interface {
	// Format returns the dialect this generator produces.
	Format() model.OutputFormat

	// FileExtension returns the extension for generated files, without dot.
	FileExtension() string

	// MimeType returns the MIME type of the primary artifact.
	MimeType() string

	// Generate serializes the invoice. Data-quality failures yield an
	// invalid result with empty XML; only contract violations (malformed
	// dates) return an error.
	Generate(inv *model.CanonicalInvoice) (*model.GenerationResult, error)

	// Validate performs the post-generation structural check: presence of
	// required elements, not full schema validation.
	Validate(xml []byte) *model.StructuralResult
}

// registry maps every supported format to its generator. Populated once at
// package init, read-only afterwards; registry tests assert it covers
// model.AllFormats.
var registry = map[model.OutputFormat]Generator{
	model.FormatXRechnungUBL: &ublGenerator{
		format:          model.FormatXRechnungUBL,
		customizationID: "urn:cen.eu:en16931:2017#compliant#urn:xeinkauf.de:kosit:xrechnung_3.0",
		profileID:       "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0",
	},
	model.FormatPeppolBIS: &ublGenerator{
		format:          model.FormatPeppolBIS,
		customizationID: "urn:cen.eu:en16931:2017#compliant#urn:fdc:peppol.eu:2017:poacc:billing:3.0",
		profileID:       "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0",
	},
	model.FormatNLCIUS: &ublGenerator{
		format:          model.FormatNLCIUS,
		customizationID: "urn:cen.eu:en16931:2017#compliant#urn:fdc:nen.nl:nlcius:v1.0",
		profileID:       "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0",
	},
	model.FormatCIUSRO: &ublGenerator{
		format:          model.FormatCIUSRO,
		customizationID: "urn:cen.eu:en16931:2017#compliant#urn:efactura.mfinante.ro:CIUS-RO:1.0.1",
		profileID:       "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0",
	},
	model.FormatXRechnungCII: &ciiGenerator{
		format:      model.FormatXRechnungCII,
		guidelineID: "urn:cen.eu:en16931:2017#compliant#urn:xeinkauf.de:kosit:xrechnung_3.0",
	},
	model.FormatFacturXEN16931: &facturXGenerator{
		format:      model.FormatFacturXEN16931,
		guidelineID: "urn:cen.eu:en16931:2017",
	},
	model.FormatFacturXBasic: &facturXGenerator{
		format:      model.FormatFacturXBasic,
		guidelineID: "urn:factur-x.eu:1p0:basic",
	},
	model.FormatFatturaPA: &fatturaPAGenerator{},
	model.FormatKSeF:      &ksefGenerator{},
}

// For returns the generator for a format.
func For(format model.OutputFormat) (Generator, bool) {
	g, ok := registry[format]
	return g, ok
}

// Formats lists every registered output format, sorted for stable output.
func Formats() []model.OutputFormat {
	formats := make([]model.OutputFormat, 0, len(registry))
	for f := range registry {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// The three accepted date grammars. Anything else is a contract violation.
var dateLayouts = []string{"2006-01-02", "02.01.2006", "02/01/2006"}

// parseDate parses an invoice/due date string against the accepted grammars.
func parseDate(format model.OutputFormat, field, s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, model.NewGenerationError(format, field,
		fmt.Sprintf("date %q does not match any accepted format", s), nil)
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeFileName makes an invoice number safe as a file name component.
func sanitizeFileName(s string) string {
	out := unsafeFileChars.ReplaceAllString(s, "_")
	if out == "" {
		return "invoice"
	}
	return out
}

// invalidResult builds the structured failure a generator returns when its
// pre-generation check fails: status invalid, zero XML.
func invalidResult(errs ...model.ValidationError) *model.GenerationResult {
	return &model.GenerationResult{
		ValidationStatus: model.StatusInvalid,
		ValidationErrors: errs,
	}
}

// taxGroup is one VAT breakdown bucket: all lines sharing category and rate,
// with same-rate allowances/charges folded into the base.
type taxGroup struct {
	Category model.TaxCategory
	Rate     decimal.Decimal
	Base     decimal.Decimal
	Tax      decimal.Decimal
}

// taxGroups buckets the invoice by (category, rate), adjusts bases by
// allowances/charges and computes the tax per bucket. Order is rate-descending
// for stable XML output.
func taxGroups(inv *model.CanonicalInvoice) []taxGroup {
	type key struct {
		cat  model.TaxCategory
		rate string
	}
	buckets := map[key]*taxGroup{}

	add := func(cat model.TaxCategory, rate, amount decimal.Decimal) {
		k := key{cat, rate.String()}
		g, ok := buckets[k]
		if !ok {
			g = &taxGroup{Category: cat, Rate: rate}
			buckets[k] = g
		}
		g.Base = g.Base.Add(amount)
	}

	for _, li := range inv.LineItems {
		add(li.TaxCategoryCode, li.TaxRate, li.TotalPrice)
	}
	for _, ac := range inv.AllowanceCharges {
		amount := ac.Amount
		if !ac.ChargeIndicator {
			amount = amount.Neg()
		}
		add(ac.TaxCategoryCode, ac.TaxRate, amount)
	}

	groups := make([]taxGroup, 0, len(buckets))
	for _, g := range buckets {
		g.Base = money.Round(g.Base)
		if g.Category == model.TaxCategoryStandard || g.Category == model.TaxCategoryZero {
			g.Tax = money.Tax(g.Base, g.Rate)
		}
		groups = append(groups, *g)
	}

	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].Rate.Equal(groups[j].Rate) {
			return groups[i].Rate.GreaterThan(groups[j].Rate)
		}
		return groups[i].Category < groups[j].Category
	})
	return groups
}

// exemptionReason returns the human text and UNCL code attached to
// non-taxed categories in the VAT breakdown.
func exemptionReason(cat model.TaxCategory) (reason, code string) {
	switch cat {
	case model.TaxCategoryExempt:
		return "Exempt from VAT", "VATEX-EU-132"
	case model.TaxCategoryReverseCharge:
		return "Reverse charge", "VATEX-EU-AE"
	case model.TaxCategoryIntraCommunity:
		return "Intra-Community supply", "VATEX-EU-IC"
	case model.TaxCategoryExport:
		return "Export outside the EU", "VATEX-EU-G"
	case model.TaxCategoryOutOfScope:
		return "Not subject to VAT", "VATEX-EU-O"
	}
	return "", ""
}

// amount renders a decimal with exactly two fraction digits, the way the
// EN16931 syntaxes expect monetary values.
func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// checkPaths parses the generated XML and verifies every required element
// path resolves. Shared by all structural Validate implementations.
func checkPaths(xml []byte, ruleID string, paths []string) *model.StructuralResult {
	result := &model.StructuralResult{Valid: true}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xml); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, model.ValidationError{
			Level:    model.LevelError,
			RuleID:   ruleID,
			Location: "document",
			Message:  "generated document is not well-formed XML",
			Actual:   err.Error(),
		})
		return result
	}

	for _, path := range paths {
		if doc.FindElement(path) == nil {
			result.AddMissing(ruleID, path)
		}
	}
	return result
}
