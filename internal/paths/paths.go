// Package paths provides canonical path handling shared by the walker,
// the diagram synthesizer, and question/file matching.
package paths

import (
	"path/filepath"
	"strings"
)

// Canonicalize converts a path to a root-relative forward-slash form.
// Paths outside the root are returned as given, with slashes normalized.
func Canonicalize(path string, root string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// FileIdent derives the identifier used for a file in diagrams and prompts:
// the base name without its extension.
func FileIdent(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// BaseName returns the base name of a path with slashes normalized.
func BaseName(path string) string {
	return filepath.Base(filepath.ToSlash(path))
}

// ReduceImport takes the final dot-separated segment of an import string.
// Reducing an already-reduced name returns it unchanged.
func ReduceImport(imp string) string {
	if i := strings.LastIndex(imp, "."); i >= 0 {
		return imp[i+1:]
	}
	return imp
}
