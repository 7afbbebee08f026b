package main

import (
	"fmt"
	"os"

	"github.com/osamaaldaas2/Invoice2E-sub003/cmd/invoice2e/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
