package main

import (
	"codeatlas/internal/version"

	"github.com/spf13/cobra"
)

var (
	// rootFlag is the CLI --root flag value, shared by the analysis commands
	rootFlag string
)

var rootCmd = &cobra.Command{
	Use:   "codeatlas",
	Short: "codeatlas - source code fact extraction",
	Long: `codeatlas parses a source tree, extracts structural facts (classes,
qualified function names, imports, call counts) per file, and renders them
as diagrams, exports, and question prompts.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("codeatlas version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".",
		"Root directory of the source tree to analyze")
}
