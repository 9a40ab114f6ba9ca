package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"codeatlas/internal/config"
	atlaserr "codeatlas/internal/errors"
	"codeatlas/internal/logging"

	"github.com/spf13/cobra"
)

var (
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize codeatlas configuration",
	Long:  "Creates a .codeatlas/ directory with default configuration in the current directory",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Force reinitialization (removes existing .codeatlas directory)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	logger := logging.NewLogger(logging.Config{
		Format: "human",
		Level:  "info",
	})

	cwd, err := os.Getwd()
	if err != nil {
		return atlaserr.New(atlaserr.InternalError, "failed to get current directory", err)
	}

	atlasDir := filepath.Join(cwd, config.ConfigDirName)
	if _, statErr := os.Stat(atlasDir); statErr == nil {
		if !initForce {
			// Idempotent behavior: already initialized is success
			fmt.Println("codeatlas already initialized.")
			fmt.Printf("Configuration at: %s\n", filepath.Join(atlasDir, "config.json"))
			fmt.Println("\nRun 'codeatlas init --force' to reinitialize.")
			return nil
		}
		if removeErr := os.RemoveAll(atlasDir); removeErr != nil {
			return atlaserr.New(atlaserr.InternalError, "failed to remove existing .codeatlas directory", removeErr)
		}
		logger.Info("Removed existing .codeatlas directory", nil)
	}

	if mkdirErr := os.MkdirAll(atlasDir, 0755); mkdirErr != nil {
		return atlaserr.New(atlaserr.InternalError, "failed to create .codeatlas directory", mkdirErr)
	}

	cfg := config.DefaultConfig()

	configPath := filepath.Join(atlasDir, "config.json")
	configData, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return atlaserr.New(atlaserr.InternalError, "failed to marshal config", err)
	}

	if writeErr := os.WriteFile(configPath, configData, 0644); writeErr != nil {
		return atlaserr.New(atlaserr.InternalError, "failed to write config file", writeErr)
	}

	logger.Info("codeatlas initialized", map[string]interface{}{
		"config_path": configPath,
	})

	fmt.Println("codeatlas initialized successfully!")
	fmt.Printf("Configuration written to: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'codeatlas analyze' to extract facts from your sources")
	fmt.Println("  2. Run 'codeatlas diagram' to render a class diagram")

	return nil
}
