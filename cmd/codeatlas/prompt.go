package main

import (
	"context"
	"fmt"
	"path/filepath"

	"codeatlas/internal/aggregate"
	"codeatlas/internal/analyzer"
	"codeatlas/internal/config"
	"codeatlas/internal/logging"
	"codeatlas/internal/qa"
	"codeatlas/internal/store"

	"github.com/spf13/cobra"
)

var (
	promptFresh bool
)

var promptCmd = &cobra.Command{
	Use:   "prompt <question>",
	Short: "Assemble the analysis prompt for a question",
	Long: `Matches the question against analyzed files (by name substring), then
prints the fully assembled prompt: the matched file's classes, functions,
imports, the cross-file function comparison, and the question itself.
Facts come from the latest saved run when one exists, otherwise from a
fresh analysis of the tree.`,
	Args: cobra.ExactArgs(1),
	RunE: runPrompt,
}

func init() {
	promptCmd.Flags().BoolVar(&promptFresh, "fresh", false, "Re-analyze the tree even when a saved run exists")
	rootCmd.AddCommand(promptCmd)
}

func runPrompt(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	question := args[0]

	cfg, logger, err := loadEnvironment(rootFlag)
	if err != nil {
		return err
	}

	set, cmp, err := resolveFactSet(ctx, cfg, logger)
	if err != nil {
		return err
	}

	session := &qa.Session{
		Set:        set,
		Comparison: cmp,
		OutputDir:  filepath.Join(rootFlag, cfg.Output.Dir),
	}

	outcome, err := session.Ask(ctx, question)
	if err != nil {
		return err
	}

	fmt.Println(outcome.Prompt)
	return nil
}

// resolveFactSet produces the fact set the prompt is built from: the
// latest saved run when one exists, otherwise a fresh analysis.
func resolveFactSet(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*analyzer.AnalysisSet, aggregate.Comparison, error) {
	if !promptFresh && store.Exists(rootFlag) {
		set, cmp, ok, err := loadLatestRun(ctx, logger)
		if err != nil {
			return nil, aggregate.Comparison{}, err
		}
		if ok {
			return set, cmp, nil
		}
	}

	result, err := runAnalysis(ctx, cfg, logger, rootFlag, 0)
	if err != nil {
		return nil, aggregate.Comparison{}, err
	}
	if result.RootMissing {
		return nil, aggregate.Comparison{}, fmt.Errorf("root directory not found: %s", rootFlag)
	}
	return result.Set, result.Comparison, nil
}

// loadLatestRun reads the most recent saved run for the root. ok is false
// when the store holds no runs for it.
func loadLatestRun(ctx context.Context, logger *logging.Logger) (*analyzer.AnalysisSet, aggregate.Comparison, bool, error) {
	db, err := store.Open(rootFlag, logger)
	if err != nil {
		return nil, aggregate.Comparison{}, false, err
	}
	defer db.Close()

	run, ok, err := db.LatestRun(ctx, rootFlag)
	if err != nil || !ok {
		return nil, aggregate.Comparison{}, false, err
	}

	set, err := db.LoadRun(ctx, run.ID)
	if err != nil {
		return nil, aggregate.Comparison{}, false, err
	}

	logger.Debug("Reusing saved run", map[string]interface{}{
		"run":   run.ID,
		"files": set.Len(),
	})
	return set, aggregate.CompareFirstTwo(set), true, nil
}
