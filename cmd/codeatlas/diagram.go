package main

import (
	"fmt"
	"os"

	"codeatlas/internal/diagram"

	"github.com/spf13/cobra"
)

var (
	diagramOutput string
)

var diagramCmd = &cobra.Command{
	Use:   "diagram [dir]",
	Short: "Render a Mermaid class diagram of the source tree",
	Long: `Analyzes the source tree and emits a Mermaid classDiagram: one class block
per discovered class, a synthetic class per file for standalone functions,
containment edges, and import edges.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiagram,
}

func init() {
	diagramCmd.Flags().StringVarP(&diagramOutput, "output", "o", "", "Write the diagram to a file instead of stdout")
	rootCmd.AddCommand(diagramCmd)
}

func runDiagram(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
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

	text := diagram.Generate(result.Set)

	if diagramOutput == "" {
		fmt.Print(text)
		return nil
	}

	if writeErr := os.WriteFile(diagramOutput, []byte(text), 0644); writeErr != nil {
		return fmt.Errorf("failed to write diagram: %w", writeErr)
	}
	logger.Info("Diagram written", map[string]interface{}{
		"path": diagramOutput,
	})
	return nil
}
