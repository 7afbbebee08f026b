package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/rawsource"
	"github.com/osamaaldaas2/Invoice2E-sub003/pkg/einvoice"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate invoice files against a target profile",
	Long: `Validate one or more raw invoice files against the rule profile of
the target format, without generating output.

Examples:
  invoice2e validate invoice.json --to xrechnung-ubl
  invoice2e validate a.json b.csv --to peppol-bis --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&targetFormat, "to", "t", "", "Target format (see 'invoice2e formats')")
}

// fileValidation is the per-file outcome reported by the validate command.
type fileValidation struct {
	File     string                     `json:"file"`
	Valid    bool                       `json:"valid"`
	Profile  einvoice.ProfileID         `json:"profile"`
	Errors   []einvoice.ValidationIssue `json:"errors,omitempty"`
	Warnings []einvoice.ValidationIssue `json:"warnings,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat()
	if err != nil {
		return err
	}

	conv := einvoice.NewConverter()
	results := make([]*fileValidation, 0, len(args))
	allValid := true

	for _, file := range args {
		result := &fileValidation{File: file}

		raw, err := rawsource.Load(file)
		if err != nil {
			result.Errors = append(result.Errors, einvoice.ValidationIssue{
				RuleID:  "INPUT",
				Message: err.Error(),
			})
			allValid = false
			results = append(results, result)
			continue
		}
		applyDefaults(raw)

		vr, err := conv.ValidateOnly(raw, format)
		if err != nil {
			result.Errors = append(result.Errors, einvoice.ValidationIssue{
				RuleID:  "INPUT",
				Message: err.Error(),
			})
			allValid = false
			results = append(results, result)
			continue
		}

		result.Valid = vr.Valid
		result.Profile = vr.Profile
		result.Errors = vr.Errors
		result.Warnings = vr.Warnings
		if !vr.Valid {
			allValid = false
		}
		results = append(results, result)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Printf("✓ %s: VALID\n", r.File)
			} else {
				fmt.Printf("✗ %s: INVALID\n", r.File)
			}
			reportFindings(r.Errors, r.Warnings)
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}
	return nil
}
