package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the config file inside the data directory.
const ConfigFileName = "config.yaml"

// IndexFileName is the name of the index snapshot inside the data directory.
const IndexFileName = "index.db"

// ErrNoModulePath is returned by Resolve when no module path was configured anywhere.
var ErrNoModulePath = errors.New("MODULEPATH is not set")

// ConfigError reports configuration that mii cannot run with.
type ConfigError struct {
	Field string
	Err   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config represents mii configuration options
type Config struct {
	// ModulePath is the colon-separated list of module-path roots to index.
	// Empty means $MODULEPATH.
	ModulePath string `yaml:"modulepath"`

	// DataDir holds the index file. Empty means $MII_DATADIR or ~/.mii.
	DataDir string `yaml:"datadir"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// JSON prints search results as JSON instead of text.
	JSON bool `yaml:"json"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		ModulePath: "",
		DataDir:    "",
		LogLevel:   "info",
		JSON:       false,
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if fileCfg.ModulePath != "" {
		cfg.ModulePath = fileCfg.ModulePath
	}
	if fileCfg.DataDir != "" {
		cfg.DataDir = expandHome(fileCfg.DataDir)
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.JSON {
		cfg.JSON = true
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from config.yaml in the specified data directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ConfigFileName))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(modulePath, dataDir, logLevel *string, jsonOutput *bool) {
	if modulePath != nil {
		c.ModulePath = *modulePath
	}
	if dataDir != nil {
		c.DataDir = *dataDir
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if jsonOutput != nil {
		c.JSON = *jsonOutput
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return &ConfigError{
			Field: "log_level",
			Err:   fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel),
		}
	}
	return nil
}

// Resolve fills the environment-derived defaults and creates the data directory.
// It fails with a *ConfigError when no module path is known or the data directory
// cannot be created.
func (c *Config) Resolve() error {
	if c.ModulePath == "" {
		c.ModulePath = os.Getenv("MODULEPATH")
	}
	if c.ModulePath == "" {
		return &ConfigError{Field: "modulepath", Err: ErrNoModulePath}
	}

	if c.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return &ConfigError{Field: "datadir", Err: err}
		}
		c.DataDir = dir
	}

	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return &ConfigError{Field: "datadir", Err: fmt.Errorf("create data directory: %w", err)}
	}
	return nil
}

// IndexPath returns the location of the index snapshot.
func (c *Config) IndexPath() string {
	return filepath.Join(c.DataDir, IndexFileName)
}
