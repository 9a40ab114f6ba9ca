package main

import (
	"fmt"

	"codeatlas/internal/aggregate"
	"codeatlas/internal/export"
	"codeatlas/internal/store"

	"github.com/spf13/cobra"
)

var (
	analyzeFormat  string
	analyzeSave    bool
	analyzeWorkers int
)

// AnalyzeResponse is the analyze command's output payload
type AnalyzeResponse struct {
	Root       string                  `json:"root"`
	Files      []export.File           `json:"files"`
	Skipped    []aggregate.SkippedFile `json:"skipped,omitempty"`
	Comparison aggregate.Comparison    `json:"comparison"`
	RunID      string                  `json:"runId,omitempty"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [dir]",
	Short: "Extract structural facts from a source tree",
	Long: `Walks the source tree, parses each recognized file, and reports classes,
qualified function names, imports, and call counts per file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "human", "Output format: json or human")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Persist the run to the fact store")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "Concurrent analysis workers (0 = from config)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	root := resolveRoot(args)

	cfg, logger, err := loadEnvironment(root)
	if err != nil {
		return err
	}

	result, err := runAnalysis(ctx, cfg, logger, root, analyzeWorkers)
	if err != nil {
		return err
	}
	if result.RootMissing {
		return fmt.Errorf("root directory not found: %s", root)
	}

	doc := export.NewExporter(logger).Build(result.Root, result.Set)
	resp := &AnalyzeResponse{
		Root:       result.Root,
		Files:      doc.Files,
		Skipped:    result.Skipped,
		Comparison: result.Comparison,
	}

	if analyzeSave {
		db, openErr := store.Open(root, logger)
		if openErr != nil {
			return openErr
		}
		defer db.Close()

		runID, saveErr := db.SaveRun(ctx, result.Root, result.Set)
		if saveErr != nil {
			return saveErr
		}
		resp.RunID = runID
	}

	out, err := FormatResponse(resp, OutputFormat(analyzeFormat))
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
