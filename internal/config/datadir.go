package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDataDir returns the mii data directory
// Priority order:
//  1. MII_DATADIR environment variable (if set)
//  2. $HOME/.mii
//  3. .mii in the current working directory (no home directory)
//
// The directory is not created; Config.Resolve does that.
func DefaultDataDir() (string, error) {
	if dir := os.Getenv("MII_DATADIR"); dir != "" {
		return expandHome(dir), nil
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".mii"), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return filepath.Join(cwd, ".mii"), nil
}

// DefaultConfigPath returns where the config file lives when --config is not given.
// An explicit data directory takes precedence over the environment.
func DefaultConfigPath(dataDir string) (string, error) {
	if dataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return "", err
		}
		dataDir = dir
	}
	return filepath.Join(dataDir, ConfigFileName), nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
