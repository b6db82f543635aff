package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"panelfeat/internal/cli"
	"panelfeat/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "featurize",
		Short:   "Derive legality features from storefront panel scrapes",
		Version: version.String(),
		Long: `featurize turns repeated time-stamped scrapes of online storefront
listings, cross-referenced against an official commercial-license registry,
into a longitudinal feature-annotated dataset plus a per-panel company
clustering of storefronts.`,
	}

	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.VersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
