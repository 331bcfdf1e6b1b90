package main

import (
	"github.com/spf13/cobra"

	"github.com/artnoricojr/parse-pdfs/version"
)

var (
	cfgFile string
	homeDir string
)

var rootCmd = &cobra.Command{
	Use:   "parse-pdfs",
	Short: "Batch-search document files for regex patterns",
	Long: `parse-pdfs scans a directory of document files, extracts text page by
page, and searches each page against a set of named regular-expression
patterns loaded from a term list.

Matches are reported with surrounding context and full provenance
(file, page, term, position) as JSON, with optional run summary and
CSV export.`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.parse-pdfs/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "parse-pdfs home directory (default: ~/.parse-pdfs)",
	)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(termsCmd)
	rootCmd.AddCommand(versionCmd)
}
