// Package analysis statically determines what a modulefile would expose if it were
// loaded: the commands it puts on PATH and the module-path directories it adds.
//
// Nothing is executed. Lmod (Lua) modulefiles are matched line by line against the
// prepend_path/append_path calls; Tcl modulefiles are walked command by command with
// a private variable table, and values are expanded as shell words with command
// substitution disabled.
package analysis

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/harrison/mii/internal/fileutil"
	"github.com/harrison/mii/internal/logger"
	"github.com/harrison/mii/internal/models"
)

// ErrClosed is returned when an Analyzer is used after Close.
var ErrClosed = errors.New("analyzer is closed")

// Result is what analyzing one modulefile yields.
type Result struct {
	// Commands are the executable names found in the module's PATH entries, in the
	// order they were discovered, without duplicates.
	Commands []string
	// ModulePaths are directories the module would add to MODULEPATH.
	ModulePaths []string
}

// Analyzer inspects a single modulefile.
type Analyzer interface {
	Analyze(path string, dialect models.Dialect) (*Result, error)
}

// AnalysisError reports a modulefile that could not be read or understood.
type AnalysisError struct {
	Path    string
	Dialect models.Dialect
	Err     error
}

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analyze %s module %s: %v", e.Dialect, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// ScanFunc lists the executable names in a directory.
type ScanFunc func(dir string) ([]string, error)

// Option configures a ModuleAnalyzer.
type Option func(*ModuleAnalyzer)

// WithScanner replaces the PATH directory scanner. The default is fileutil.ScanExecutables.
func WithScanner(scan ScanFunc) Option {
	return func(a *ModuleAnalyzer) {
		a.scan = scan
	}
}

// WithLogger sets the logger used for per-line diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(a *ModuleAnalyzer) {
		a.logger = l
	}
}

// WithLookupEnv replaces the process environment used when expanding Tcl values.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(a *ModuleAnalyzer) {
		a.lookupEnv = lookup
	}
}

// ModuleAnalyzer is the Analyzer used by mii. It owns the compiled Lmod patterns;
// create one with New and release it with Close.
type ModuleAnalyzer struct {
	mu        sync.Mutex
	lmod      *lmodMatcher
	scan      ScanFunc
	logger    logger.Logger
	lookupEnv func(string) (string, bool)
}

// New creates a ModuleAnalyzer ready for use.
func New(opts ...Option) (*ModuleAnalyzer, error) {
	lmod, err := newLmodMatcher()
	if err != nil {
		return nil, fmt.Errorf("initialize lmod analysis: %w", err)
	}

	a := &ModuleAnalyzer{
		lmod:      lmod,
		scan:      fileutil.ScanExecutables,
		logger:    logger.NewNoOpLogger(),
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Close releases the analyzer. Further calls to Analyze fail with ErrClosed.
func (a *ModuleAnalyzer) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lmod = nil
	return nil
}

// Analyze dispatches on dialect. Failing to open or read the file is reported as an
// *AnalysisError; lines that cannot be understood are skipped.
func (a *ModuleAnalyzer) Analyze(path string, dialect models.Dialect) (*Result, error) {
	a.mu.Lock()
	lmod := a.lmod
	a.mu.Unlock()

	if lmod == nil {
		return nil, &AnalysisError{Path: path, Dialect: dialect, Err: ErrClosed}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &AnalysisError{Path: path, Dialect: dialect, Err: err}
	}
	defer f.Close()

	c := newCollector(a.scan, a.logger)

	switch dialect {
	case models.DialectLmod:
		err = lmod.analyze(f, c)
	case models.DialectTcl:
		err = newTclState(a.lookupEnv, a.logger).analyze(f, c)
	default:
		err = fmt.Errorf("unsupported dialect %d", int(dialect))
	}
	if err != nil {
		return nil, &AnalysisError{Path: path, Dialect: dialect, Err: err}
	}

	return c.result(), nil
}

// collector accumulates commands and module paths for one analysis.
type collector struct {
	scan        ScanFunc
	logger      logger.Logger
	commands    []string
	seen        map[string]bool
	modulePaths []string
	seenPaths   map[string]bool
}

func newCollector(scan ScanFunc, l logger.Logger) *collector {
	return &collector{
		scan:      scan,
		logger:    l,
		seen:      make(map[string]bool),
		seenPaths: make(map[string]bool),
	}
}

// addBinPath scans every directory of a colon-separated PATH value.
func (c *collector) addBinPath(value string) {
	for _, dir := range fileutil.SplitPathList(value) {
		c.logger.LogDebug(fmt.Sprintf("scanning PATH %s", dir))

		names, err := c.scan(dir)
		if err != nil {
			c.logger.LogDebug(fmt.Sprintf("Failed to open %s, ignoring : %v", dir, err))
			continue
		}
		for _, name := range names {
			if c.seen[name] {
				continue
			}
			c.seen[name] = true
			c.commands = append(c.commands, name)
		}
	}
}

// addModulePath records every directory of a colon-separated MODULEPATH value.
func (c *collector) addModulePath(value string) {
	for _, dir := range fileutil.SplitPathList(value) {
		if c.seenPaths[dir] {
			continue
		}
		c.seenPaths[dir] = true
		c.modulePaths = append(c.modulePaths, dir)
	}
}

func (c *collector) result() *Result {
	commands := c.commands
	if commands == nil {
		commands = []string{}
	}
	return &Result{Commands: commands, ModulePaths: c.modulePaths}
}
