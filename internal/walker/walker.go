// Package walker enumerates candidate source files under a root directory.
package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	atlaserr "codeatlas/internal/errors"
	"codeatlas/internal/logging"
)

// Options controls source discovery
type Options struct {
	// Extensions are the recognized source-file extensions (with dot)
	Extensions []string

	// IgnoreDirs are directory names skipped entirely
	IgnoreDirs []string

	// MaxFileSizeBytes skips larger files; 0 disables the limit
	MaxFileSizeBytes int64
}

// Walker discovers source files. Enumeration order is the lexical order of
// filepath.WalkDir, so repeated walks of an unchanged tree yield the same
// sequence.
type Walker struct {
	opts   Options
	logger *logging.Logger
}

// New creates a walker with the given options
func New(opts Options, logger *logging.Logger) *Walker {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Walker{opts: opts, logger: logger}
}

// Walk returns the matching file paths under root in discovery order.
// A missing root or a root that is not a directory yields an empty list
// and a ROOT_NOT_FOUND error; the caller decides whether that is fatal.
func (w *Walker) Walk(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, atlaserr.NewRootNotFound(root)
	}

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped silently, like non-matching ones
			w.logger.Debug("Skipping unreadable entry", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && w.ignoreDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !w.matchExtension(d.Name()) {
			return nil
		}

		if w.opts.MaxFileSizeBytes > 0 {
			if fi, err := d.Info(); err == nil && fi.Size() > w.opts.MaxFileSizeBytes {
				w.logger.Debug("Skipping oversized file", map[string]interface{}{
					"path": path,
					"size": fi.Size(),
				})
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return nil, atlaserr.New(atlaserr.InternalError, "directory walk failed", walkErr).WithPath(root)
	}

	return files, nil
}

func (w *Walker) ignoreDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." {
		return true
	}
	for _, ignored := range w.opts.IgnoreDirs {
		if name == ignored {
			return true
		}
	}
	return false
}

func (w *Walker) matchExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range w.opts.Extensions {
		if ext == strings.ToLower(candidate) {
			return true
		}
	}
	return false
}
