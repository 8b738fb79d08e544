package python

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude matches every Python source file.
var DefaultInclude = []string{"**/*.py"}

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"venv": true, ".venv": true, "env": true, "__pycache__": true,
	".pytest_cache": true, ".mypy_cache": true, ".ruff_cache": true,
	"node_modules": true, "site-packages": true, ".tox": true, ".eggs": true,
	"build": true, "dist": true, ".git": true,
}

// SkipDir reports whether a directory with this name is never searched:
// virtualenvs, caches, build output and hidden directories.
func SkipDir(name string) bool {
	return skipDirs[name] || strings.HasPrefix(name, ".")
}

// Discover returns the Python files under root whose root-relative, slash
// separated path matches an include pattern and no exclude pattern.
// If root is a file it is returned as is. Paths are sorted.
func Discover(root string, include, exclude []string) ([]string, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	for _, p := range slices.Concat(include, exclude) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid path pattern %q", p)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != root && SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if matchAny(exclude, rel) || !matchAny(include, rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil && !errors.Is(err, fs.SkipAll) {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	slices.Sort(files)
	return files, nil
}

// DiscoverAll runs Discover on every root and returns the de-duplicated union.
func DiscoverAll(roots, include, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, root := range roots {
		files, err := Discover(root, include, exclude)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
