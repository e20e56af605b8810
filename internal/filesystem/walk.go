// Package filesystem walks and lists corpus directories through afero so
// callers can run against the OS or an in-memory filesystem.
package filesystem

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// DefaultIgnoreDirs are skipped during traversal
var DefaultIgnoreDirs = []string{".git", ".github", "node_modules", "__pycache__"}

// WalkOptions configures directory traversal behavior
type WalkOptions struct {
	IgnoreDirs    []string // Directories to skip (default: DefaultIgnoreDirs)
	Extensions    []string // Only visit files with these extensions (default: all)
	IncludeHidden bool     // Include hidden files/dirs (default: false)
}

// Walk visits every regular file under root in lexical order.
// Directories are never passed to visitor.
func Walk(fs afero.Fs, root string, opts WalkOptions, visitor func(path string, info os.FileInfo) error) error {
	ignoreDirs := opts.IgnoreDirs
	if len(ignoreDirs) == 0 {
		ignoreDirs = DefaultIgnoreDirs
	}

	return afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if path != root && !opts.IncludeHidden && strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			for _, ignore := range ignoreDirs {
				if info.Name() == ignore && path != root {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if len(opts.Extensions) > 0 && !hasExtension(info.Name(), opts.Extensions) {
			return nil
		}

		return visitor(path, info)
	})
}

// ListDir returns the entries of dir sorted by name.
func ListDir(fs afero.Fs, dir string) ([]os.FileInfo, error) {
	return afero.ReadDir(fs, dir)
}

func hasExtension(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
