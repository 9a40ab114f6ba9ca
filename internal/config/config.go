package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigDirName is the per-repo directory holding config and the fact store
const ConfigDirName = ".codeatlas"

// Config represents the complete codeatlas configuration
type Config struct {
	Version int    `json:"version" mapstructure:"version"`
	Root    string `json:"root" mapstructure:"root"`

	Analyzer AnalyzerConfig `json:"analyzer" mapstructure:"analyzer"`
	Workers  int            `json:"workers" mapstructure:"workers"`
	Output   OutputConfig   `json:"output" mapstructure:"output"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// AnalyzerConfig contains source discovery and analysis configuration
type AnalyzerConfig struct {
	// Extensions are the recognized source-file extensions (with dot)
	Extensions []string `json:"extensions" mapstructure:"extensions"`

	// IgnoreDirs are directory names skipped during traversal
	IgnoreDirs []string `json:"ignoreDirs" mapstructure:"ignoreDirs"`

	// MaxFileSizeBytes skips files larger than this; 0 disables the limit
	MaxFileSizeBytes int64 `json:"maxFileSizeBytes" mapstructure:"maxFileSizeBytes"`
}

// OutputConfig contains output locations
type OutputConfig struct {
	// Dir is where question/answer records and exports are written
	Dir string `json:"dir" mapstructure:"dir"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Root:    ".",
		Analyzer: AnalyzerConfig{
			Extensions:       []string{".py", ".pyw"},
			IgnoreDirs:       []string{".git", "__pycache__", "node_modules", "venv", ".venv", "vendor"},
			MaxFileSizeBytes: 1000000,
		},
		Workers: 0, // 0 means one worker per CPU
		Output: OutputConfig{
			Dir: "output",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <repoRoot>/.codeatlas/config.json.
// A missing file yields the defaults.
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("root", ".")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ConfigDirName))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to <repoRoot>/.codeatlas/config.json
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, ConfigDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if len(c.Analyzer.Extensions) == 0 {
		return &ConfigError{Field: "analyzer.extensions", Message: "at least one source extension is required"}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Message: "workers must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
