package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/config"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/logger"
)

var (
	version = "1.0.0"

	// Global flags
	verbose    bool
	configFile string
	jsonOutput bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "invoice2e",
	Short: "Convert invoices to European structured e-invoice formats",
	Long: `Invoice2E converts raw invoice records into compliant European
e-invoice documents, with profile validation built in.

Supported output formats:
  - XRechnung 3.0 (CII and UBL)
  - PEPPOL BIS Billing 3.0
  - Factur-X (EN16931 and BASIC profiles)
  - FatturaPA (Italy)
  - KSeF FA(3) (Poland)
  - NLCIUS (Netherlands), CIUS-RO (Romania)

Examples:
  # Convert a JSON invoice to XRechnung UBL
  invoice2e convert invoice.json --to xrechnung-ubl

  # Validate without generating output
  invoice2e validate invoice.json --to peppol-bis

  # Start the HTTP API
  invoice2e serve --address :8080`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// Optional .env file for local development.
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := logger.Setup(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
