package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sys/unix"
)

// ScanExecutables returns the names of the commands found in dir: regular files,
// or symlinks resolving to regular files, that the current user can execute.
// The names are sorted. An unreadable directory is returned as an error; entries
// that cannot be inspected are skipped.
func ScanExecutables(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		abs := filepath.Join(dir, entry.Name())

		// os.Stat follows symlinks, so a link to a binary counts as the binary.
		info, err := os.Stat(abs)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if info.Mode().Perm()&0111 == 0 {
			continue
		}
		if unix.Access(abs, unix.X_OK) != nil {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Strings(names)
	return names, nil
}

// SplitPathList splits a colon-separated directory list, dropping empty entries
// and surrounding whitespace.
func SplitPathList(list string) []string {
	parts := strings.Split(list, ":")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
