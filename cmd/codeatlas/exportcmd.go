package main

import (
	"fmt"
	"os"

	"codeatlas/internal/export"

	"github.com/spf13/cobra"
)

var (
	exportFormat   string
	exportOutput   string
	exportCompress bool
)

var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Export analysis facts as JSON or YAML",
	Long: `Analyzes the source tree and writes the complete fact set as a portable
document. With --compress the document is zstd-compressed and the output
path gets a .zst suffix.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write the export to a file instead of stdout")
	exportCmd.Flags().BoolVar(&exportCompress, "compress", false, "zstd-compress the written file (requires --output)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	if exportCompress && exportOutput == "" {
		return fmt.Errorf("--compress requires --output")
	}

	root := resolveRoot(args)
	cfg, logger, err := loadEnvironment(root)
	if err != nil {
		return err
	}

	result, err := runAnalysis(ctx, cfg, logger, root, 0)
	if err != nil {
		return err
	}
	if result.RootMissing {
		return fmt.Errorf("root directory not found: %s", root)
	}

	exporter := export.NewExporter(logger)
	doc := exporter.Build(result.Root, result.Set)

	if exportOutput == "" {
		return exporter.Encode(os.Stdout, doc, format)
	}

	path, err := exporter.Write(exportOutput, doc, format, exportCompress)
	if err != nil {
		return err
	}
	logger.Info("Export written", map[string]interface{}{
		"path":   path,
		"format": string(format),
		"files":  len(doc.Files),
	})
	fmt.Printf("Export written to: %s\n", path)
	return nil
}
