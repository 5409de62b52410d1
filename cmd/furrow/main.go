// Package main provides the furrow CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	g := &globalOpts{}
	rootCmd := &cobra.Command{
		Use:   "furrow",
		Short: "Garden planning: soil diagnosis, companion planting and succession",
		Long: `Furrow diagnoses soil tests and sizes amendments, scores how well crops
grow together, suggests what to plant when a crop finishes and fills beds
with compatible crops.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to config file (default: search for .furrow/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&g.catalogPath, "catalog", "", "Crop catalog file, YAML or JSON (default: built-in catalog)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(
		newCropsCmd(g),
		newDiagnoseCmd(g),
		newCompanionCmd(g),
		newSuccessionCmd(g),
		newComposeCmd(g),
		newServeCmd(g),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
