// Package export renders an AnalysisSet as a portable JSON or YAML
// document, optionally zstd-compressed.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"codeatlas/internal/analyzer"
	"codeatlas/internal/logging"
	"codeatlas/internal/paths"
)

// Format is the serialization format of an export
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format string
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, Format("yml"):
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// Metadata describes the exported run
type Metadata struct {
	Root      string `json:"root" yaml:"root"`
	Generated string `json:"generated" yaml:"generated"`
	FileCount int    `json:"fileCount" yaml:"fileCount"`
}

// File is one file's facts in export form
type File struct {
	Path           string         `json:"path" yaml:"path"`
	Classes        []string       `json:"classes" yaml:"classes"`
	Functions      []string       `json:"functions" yaml:"functions"`
	Imports        []string       `json:"imports" yaml:"imports"`
	CallCounts     map[string]int `json:"callCounts" yaml:"callCounts"`
	NodeKindCounts map[string]int `json:"nodeKindCounts" yaml:"nodeKindCounts"`
}

// Export is the complete export document
type Export struct {
	Metadata Metadata `json:"metadata" yaml:"metadata"`
	Files    []File   `json:"files" yaml:"files"`
}

// Exporter builds and writes export documents
type Exporter struct {
	logger *logging.Logger
}

// NewExporter creates an exporter
func NewExporter(logger *logging.Logger) *Exporter {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Exporter{logger: logger}
}

// Build converts an AnalysisSet into an export document, in set order.
// File paths are made root-relative; function names are flattened to a
// sorted list.
func (e *Exporter) Build(root string, set *analyzer.AnalysisSet) *Export {
	export := &Export{
		Metadata: Metadata{
			Root:      root,
			Generated: time.Now().UTC().Format(time.RFC3339),
			FileCount: set.Len(),
		},
		Files: make([]File, 0, set.Len()),
	}

	set.Each(func(rec *analyzer.FactRecord) {
		export.Files = append(export.Files, File{
			Path:           paths.Canonicalize(rec.Path, root),
			Classes:        rec.Classes,
			Functions:      rec.FunctionNames.Sorted(),
			Imports:        rec.Imports,
			CallCounts:     rec.CallCounts,
			NodeKindCounts: rec.NodeKindCounts,
		})
	})

	return export
}

// Encode serializes an export document to the given writer
func (e *Exporter) Encode(w io.Writer, export *Export, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(export); err != nil {
			return fmt.Errorf("failed to encode YAML export: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(export); err != nil {
			return fmt.Errorf("failed to encode JSON export: %w", err)
		}
		return nil
	}
}

// Write serializes the export to path. With compress set, the output is
// zstd-compressed and the path gains a .zst suffix. The final path is
// returned.
func (e *Exporter) Write(path string, export *Export, format Format, compress bool) (string, error) {
	if compress && !strings.HasSuffix(path, ".zst") {
		path += ".zst"
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	var zw *zstd.Encoder
	if compress {
		zw, err = zstd.NewWriter(f)
		if err != nil {
			return "", fmt.Errorf("failed to create zstd writer: %w", err)
		}
		w = zw
	}

	if err := e.Encode(w, export, format); err != nil {
		return "", err
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return "", fmt.Errorf("failed to finish compressed export: %w", err)
		}
	}

	e.logger.Info("Wrote export", map[string]interface{}{
		"path":     path,
		"format":   string(format),
		"files":    export.Metadata.FileCount,
		"compress": compress,
	})

	return path, nil
}
