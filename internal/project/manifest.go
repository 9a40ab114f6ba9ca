// Package project reads the optional per-codebase ATLAS.toml manifest
// declaring how a source tree should be analyzed.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// ManifestFile is the default manifest filename at the analyzed root
const ManifestFile = "ATLAS.toml"

// Manifest declares analysis preferences for one codebase
type Manifest struct {
	// Name is a human-readable name for the codebase
	Name string `toml:"name"`

	// Extensions overrides the recognized source extensions when set
	Extensions []string `toml:"extensions,omitempty"`

	// IgnoreDirs are extra directory names skipped during traversal
	IgnoreDirs []string `toml:"ignore_dirs,omitempty"`
}

// Load reads the manifest at <root>/ATLAS.toml. A missing file yields
// ok=false and no error; a malformed file is an error.
func Load(root string) (*Manifest, bool, error) {
	path := filepath.Join(root, ManifestFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", ManifestFile, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", ManifestFile, err)
	}

	if m.Name == "" {
		m.Name = filepath.Base(root)
	}

	return &m, true, nil
}

// ApplyTo merges the manifest into extension and ignore lists: extensions
// replace when declared, ignore dirs append without duplicates.
func (m *Manifest) ApplyTo(extensions, ignoreDirs []string) ([]string, []string) {
	if len(m.Extensions) > 0 {
		extensions = m.Extensions
	}

	seen := make(map[string]bool, len(ignoreDirs))
	for _, d := range ignoreDirs {
		seen[d] = true
	}
	for _, d := range m.IgnoreDirs {
		if !seen[d] {
			ignoreDirs = append(ignoreDirs, d)
			seen[d] = true
		}
	}

	return extensions, ignoreDirs
}
