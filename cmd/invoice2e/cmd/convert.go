package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/rawsource"
	"github.com/osamaaldaas2/Invoice2E-sub003/pkg/einvoice"
)

var (
	targetFormat string
	outputDir    string
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert an invoice file to a structured e-invoice",
	Long: `Convert a raw invoice record (JSON, CSV or XLSX) into a structured
e-invoice document.

The invoice is normalized, validated against the target profile and
serialized. Rule findings are reported alongside the generated file;
the file is written even when findings exist, so the caller decides
whether to use it.

Examples:
  invoice2e convert invoice.json --to xrechnung-ubl
  invoice2e convert invoice.csv --to ksef -d ./out
  invoice2e convert invoice.xlsx --to facturx-en16931`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&targetFormat, "to", "t", "", "Target format (see 'invoice2e formats')")
	convertCmd.Flags().StringVarP(&outputDir, "output-dir", "d", ".", "Directory for generated files")
}

func runConvert(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat()
	if err != nil {
		return err
	}

	raw, err := rawsource.Load(args[0])
	if err != nil {
		return err
	}
	applyDefaults(raw)
	printVerbose("loaded %s\n", args[0])

	conv := einvoice.NewConverter()
	result, err := conv.Convert(raw, format)
	if err != nil {
		return err
	}

	gen := result.Generation
	if gen.ValidationStatus == einvoice.StatusInvalid && gen.XMLContent == "" && len(gen.PDFContent) == 0 {
		reportFindings(gen.ValidationErrors, gen.ValidationWarnings)
		return fmt.Errorf("conversion produced no document")
	}

	content := []byte(gen.XMLContent)
	if len(gen.PDFContent) > 0 {
		content = gen.PDFContent
	}

	outPath := filepath.Join(outputDir, gen.FileName)
	if err := os.WriteFile(outPath, content, 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]interface{}{
			"conversionId": gen.ConversionID,
			"file":         outPath,
			"status":       gen.ValidationStatus,
			"errors":       gen.ValidationErrors,
			"warnings":     gen.ValidationWarnings,
		})
	}

	fmt.Printf("wrote %s (%s)\n", outPath, gen.ValidationStatus)
	reportFindings(gen.ValidationErrors, gen.ValidationWarnings)
	if gen.ValidationStatus == einvoice.StatusInvalid {
		return fmt.Errorf("document has rule violations")
	}
	return nil
}

func resolveFormat() (einvoice.OutputFormat, error) {
	selector := targetFormat
	if selector == "" {
		selector = cfg.Defaults.Format
	}
	return einvoice.ParseFormat(selector)
}

// applyDefaults fills gaps in a loaded record from the configured
// conversion defaults. A record that names its own currency wins.
func applyDefaults(raw *einvoice.RawInvoice) {
	if raw.Currency == "" && cfg.Defaults.Currency != "" {
		raw.Currency = cfg.Defaults.Currency
	}
}

func reportFindings(errors, warnings []einvoice.ValidationIssue) {
	for _, e := range errors {
		fmt.Printf("  ✗ [%s] %s: %s\n", e.RuleID, e.Location, e.Message)
	}
	for _, w := range warnings {
		fmt.Printf("  ⚠ [%s] %s: %s\n", w.RuleID, w.Location, w.Message)
	}
}
