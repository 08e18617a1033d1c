package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// Recursive descends into subdirectories. Hidden directories are never entered.
	Recursive bool
	// SkipHiddenFiles drops files whose name starts with "."
	SkipHiddenFiles bool
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains the absolute paths of all matched files, sorted
	Files []string
	// Errors contains any errors encountered below the root
	Errors []error
}

// ScanDirectory lists the files below dir. Regular files and symlinks that resolve
// to regular files are reported; symlinked directories are not followed.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	// The trailing separator makes WalkDir follow a symlinked root.
	walkRoot := root
	if !strings.HasSuffix(walkRoot, string(filepath.Separator)) {
		walkRoot += string(filepath.Separator)
	}

	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			return nil // Continue walking
		}
		if path == walkRoot {
			return nil
		}

		hidden := strings.HasPrefix(d.Name(), ".")
		if d.IsDir() {
			if hidden || !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden && opts.SkipHiddenFiles {
			return nil
		}

		ok, err := isRegular(path, d)
		if err != nil {
			result.Errors = append(result.Errors, err)
			return nil
		}
		if ok {
			result.Files = append(result.Files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(result.Files)
	return result, nil
}

// isRegular reports whether d is a regular file or a symlink to one. A symlink
// whose target is missing is an error.
func isRegular(path string, d fs.DirEntry) (bool, error) {
	if d.Type().IsRegular() {
		return true, nil
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false, nil
	}

	target, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("dangling symlink %s: %w", path, err)
	}
	return target.Mode().IsRegular(), nil
}
