package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/generator"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported output formats",
	RunE:  runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, args []string) error {
	type formatRow struct {
		Format    string `json:"format"`
		Profile   string `json:"profile"`
		Extension string `json:"extension"`
		MimeType  string `json:"mimeType"`
	}

	rows := make([]formatRow, 0, len(model.AllFormats))
	for _, f := range generator.Formats() {
		gen, _ := generator.For(f)
		rows = append(rows, formatRow{
			Format:    string(f),
			Profile:   string(model.ProfileForFormat(f)),
			Extension: gen.FileExtension(),
			MimeType:  gen.MimeType(),
		})
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FORMAT\tPROFILE\tEXT\tMIME")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Format, r.Profile, r.Extension, r.MimeType)
	}
	return w.Flush()
}
