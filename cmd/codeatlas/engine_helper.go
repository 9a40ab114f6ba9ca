package main

import (
	"context"

	"codeatlas/internal/aggregate"
	"codeatlas/internal/config"
	"codeatlas/internal/logging"
	"codeatlas/internal/project"
	"codeatlas/internal/walker"
)

// resolveRoot picks the analysis root: a positional directory argument
// wins over the --root flag.
func resolveRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return rootFlag
}

// loadEnvironment loads per-repo configuration and builds a logger from it.
// A missing config file yields defaults, so every command works on an
// uninitialized tree.
func loadEnvironment(root string) (*config.Config, *logging.Logger, error) {
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, nil, err
	}

	logger := logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})

	return cfg, logger, nil
}

// buildWalkerOptions derives discovery options from config, then lets an
// ATLAS.toml manifest at the root override extensions and extend ignores.
func buildWalkerOptions(cfg *config.Config, root string) (walker.Options, error) {
	extensions := cfg.Analyzer.Extensions
	ignoreDirs := cfg.Analyzer.IgnoreDirs

	manifest, found, err := project.Load(root)
	if err != nil {
		return walker.Options{}, err
	}
	if found {
		extensions, ignoreDirs = manifest.ApplyTo(extensions, ignoreDirs)
	}

	return walker.Options{
		Extensions:       extensions,
		IgnoreDirs:       ignoreDirs,
		MaxFileSizeBytes: cfg.Analyzer.MaxFileSizeBytes,
	}, nil
}

// runAnalysis walks and analyzes the tree at root
func runAnalysis(ctx context.Context, cfg *config.Config, logger *logging.Logger, root string, workers int) (*aggregate.Result, error) {
	walkerOpts, err := buildWalkerOptions(cfg, root)
	if err != nil {
		return nil, err
	}

	if workers == 0 {
		workers = cfg.Workers
	}

	agg := aggregate.New(aggregate.Options{
		Walker:  walkerOpts,
		Workers: workers,
	}, logger)

	return agg.Run(ctx, root)
}
