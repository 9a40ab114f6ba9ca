// Package aggregate orchestrates source discovery, per-file analysis, and
// reconciliation into a single AnalysisSet per run.
package aggregate

import (
	"context"
	"runtime"
	"sync"

	"codeatlas/internal/analyzer"
	atlaserr "codeatlas/internal/errors"
	"codeatlas/internal/logging"
	"codeatlas/internal/walker"
)

// Options controls an aggregation run
type Options struct {
	// Walker controls source discovery
	Walker walker.Options

	// Workers bounds concurrent per-file analysis; 0 means one per CPU,
	// 1 analyzes files strictly one at a time.
	Workers int
}

// SkippedFile describes a file that failed analysis and was skipped
type SkippedFile struct {
	Path   string             `json:"path"`
	Code   atlaserr.ErrorCode `json:"code"`
	Reason string             `json:"reason"`
}

// Comparison is the common-function intersection between two records.
// Sufficient is false when fewer than two files were analyzed; that is an
// explicit outcome, not an error.
type Comparison struct {
	Sufficient bool     `json:"sufficient"`
	FileA      string   `json:"fileA,omitempty"`
	FileB      string   `json:"fileB,omitempty"`
	Common     []string `json:"common,omitempty"`
}

// Result is the outcome of one aggregation run
type Result struct {
	Root string `json:"root"`

	// Set owns every FactRecord produced by the run
	Set *analyzer.AnalysisSet `json:"-"`

	// Skipped lists files that failed with a recoverable per-file error
	Skipped []SkippedFile `json:"skipped,omitempty"`

	// RootMissing distinguishes "nothing to analyze" from "analyzed,
	// found nothing"
	RootMissing bool `json:"rootMissing,omitempty"`

	// Comparison is derived from the first two records in traversal order
	Comparison Comparison `json:"comparison"`
}

// Aggregator drives walker -> analyzer -> filter for every discovered file
type Aggregator struct {
	opts   Options
	logger *logging.Logger
}

// New creates an aggregator
func New(opts Options, logger *logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Aggregator{opts: opts, logger: logger}
}

// Run analyzes every source file under root and returns the populated
// AnalysisSet. Per-file read and parse failures are logged, recorded in
// Skipped, and do not abort the run. Cancelling the context stops the run
// at the next per-file boundary; records completed by then are kept.
func (g *Aggregator) Run(ctx context.Context, root string) (*Result, error) {
	result := &Result{
		Root: root,
		Set:  analyzer.NewAnalysisSet(),
	}

	w := walker.New(g.opts.Walker, g.logger)
	files, err := w.Walk(root)
	if err != nil {
		if atlaserr.HasCode(err, atlaserr.RootNotFound) {
			g.logger.Warn("Analysis root not found", map[string]interface{}{
				"root": root,
			})
			result.RootMissing = true
			result.Comparison = Comparison{Sufficient: false}
			return result, nil
		}
		return nil, err
	}

	g.logger.Info("Analyzing codebase", map[string]interface{}{
		"root":  root,
		"files": len(files),
	})

	outcomes := g.analyzeAll(ctx, files)

	// Insert in walk order so that parallel analysis keeps the set's
	// insertion-order invariant.
	for i, out := range outcomes {
		switch {
		case out.err != nil:
			g.logger.Warn("Skipping file", map[string]interface{}{
				"path":  files[i],
				"error": out.err.Error(),
			})
			result.Skipped = append(result.Skipped, SkippedFile{
				Path:   files[i],
				Code:   atlaserr.CodeOf(out.err),
				Reason: out.err.Error(),
			})
		case out.rec != nil:
			result.Set.Insert(out.rec)
		}
	}

	result.Comparison = CompareFirstTwo(result.Set)

	g.logger.Info("Analysis completed", map[string]interface{}{
		"analyzed": result.Set.Len(),
		"skipped":  len(result.Skipped),
	})

	return result, nil
}

type outcome struct {
	rec *analyzer.FactRecord
	err error
}

// analyzeAll fans files out to a bounded worker pool. Each worker owns its
// own Analyzer because tree-sitter parsers are not concurrency-safe. The
// returned slice is indexed by walk order; entries never dispatched (after
// cancellation) stay zero.
func (g *Aggregator) analyzeAll(ctx context.Context, files []string) []outcome {
	outcomes := make([]outcome, len(files))
	if len(files) == 0 {
		return outcomes
	}

	workers := g.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a := analyzer.NewAnalyzer(g.logger)
			for i := range jobs {
				rec, err := a.AnalyzeFile(ctx, files[i])
				outcomes[i] = outcome{rec: rec, err: err}
			}
		}()
	}

dispatch:
	for i := range files {
		select {
		case <-ctx.Done():
			g.logger.Warn("Analysis cancelled", map[string]interface{}{
				"dispatched": i,
				"total":      len(files),
			})
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

// CompareFirstTwo derives the common-function intersection between the
// first two records of the set, in traversal order.
func CompareFirstTwo(set *analyzer.AnalysisSet) Comparison {
	paths := set.Paths()
	if len(paths) < 2 {
		return Comparison{Sufficient: false}
	}

	cmp, err := CompareFiles(set, paths[0], paths[1])
	if err != nil {
		// Paths came from the set itself, so a lookup failure is unreachable
		return Comparison{Sufficient: false}
	}
	return cmp
}

// CompareFiles returns the common function names between two analyzed
// files. A path absent from the set yields a KEY_NOT_FOUND error naming
// the failed lookup.
func CompareFiles(set *analyzer.AnalysisSet, pathA, pathB string) (Comparison, error) {
	recA, ok := set.Get(pathA)
	if !ok {
		return Comparison{}, atlaserr.NewKeyNotFound(pathA)
	}
	recB, ok := set.Get(pathB)
	if !ok {
		return Comparison{}, atlaserr.NewKeyNotFound(pathB)
	}

	return Comparison{
		Sufficient: true,
		FileA:      pathA,
		FileB:      pathB,
		Common:     recA.FunctionNames.Intersect(recB.FunctionNames).Sorted(),
	}, nil
}
