// Package index maintains the persistent modules-to-commands index.
//
// An Index is filled in two phases. Build crawls the module-path roots and creates
// one pending Module per modulefile. Analyze then drains the pending modules through
// an analysis.Analyzer; any module-path directory an analysis reveals is crawled in
// turn, which may create more pending modules, until none are left. Preanalyze can
// run in between to copy results for unchanged modulefiles from a previous snapshot.
//
// Indexes are not safe for concurrent use.
package index

import (
	"time"

	"github.com/harrison/mii/internal/analysis"
	"github.com/harrison/mii/internal/logger"
	"github.com/harrison/mii/internal/models"
)

// NoParent is the Parent value of modules found directly under a module-path root.
const NoParent = -1

// Module is one modulefile in the index.
type Module struct {
	// Path is the absolute path of the modulefile. It is unique within an index.
	Path string
	// Code is the module name as a user would load it, e.g. "gcc/9.2.0".
	Code string
	// Dialect selects the analyzer.
	Dialect models.Dialect
	// Commands is only meaningful when Analyzed is true; it may be empty.
	Commands []string
	// ModulePaths are the directories the module reveals when loaded.
	ModulePaths []string
	// ModTime is the modulefile's modification time when it was crawled.
	ModTime time.Time
	// Analyzed is true once Commands reflects a finished analysis.
	Analyzed bool
	// Parent is the position of the module whose analysis revealed the directory this
	// module was found in, or NoParent. Lineage only.
	Parent int
}

// Info converts the module to the search result shape.
func (m *Module) Info() models.ModuleInfo {
	commands := make([]string, len(m.Commands))
	copy(commands, m.Commands)
	return models.ModuleInfo{
		ModuleCode: m.Code,
		ModulePath: m.Path,
		Dialect:    m.Dialect,
		Commands:   commands,
	}
}

// Index owns every Module, in discovery order, plus a lookup by path.
type Index struct {
	modules    []*Module
	byPath     map[string]int
	crawled    map[string]bool
	pending    int
	modulePath []string
	ready      bool

	analyzer analysis.Analyzer
	logger   logger.Logger
	progress func(done, total int)
}

// Option configures an Index.
type Option func(*Index)

// WithAnalyzer sets the analyzer used by Analyze.
func WithAnalyzer(a analysis.Analyzer) Option {
	return func(ix *Index) {
		ix.analyzer = a
	}
}

// WithLogger sets the logger for warnings about skipped directories and modules.
func WithLogger(l logger.Logger) Option {
	return func(ix *Index) {
		ix.logger = l
	}
}

// WithProgress sets a callback invoked by Analyze after every module. total is
// done plus the modules still pending, so it grows as directories are discovered.
func WithProgress(fn func(done, total int)) Option {
	return func(ix *Index) {
		ix.progress = fn
	}
}

// New creates an empty index.
func New(opts ...Option) *Index {
	ix := &Index{logger: logger.NewNoOpLogger()}
	ix.reset()
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

func (ix *Index) reset() {
	ix.modules = nil
	ix.byPath = make(map[string]int)
	ix.crawled = make(map[string]bool)
	ix.pending = 0
	ix.modulePath = nil
	ix.ready = false
}

// Len returns the number of modules in the index.
func (ix *Index) Len() int {
	return len(ix.modules)
}

// Pending returns the number of modules not analyzed yet.
func (ix *Index) Pending() int {
	return ix.pending
}

// ModulePath returns the roots the index was built from.
func (ix *Index) ModulePath() []string {
	out := make([]string, len(ix.modulePath))
	copy(out, ix.modulePath)
	return out
}

// Modules returns the modules in discovery order. The returned modules belong to
// the index and must not be modified.
func (ix *Index) Modules() []*Module {
	out := make([]*Module, len(ix.modules))
	copy(out, ix.modules)
	return out
}

// Lookup returns the module with the given path.
func (ix *Index) Lookup(path string) (*Module, bool) {
	i, ok := ix.byPath[path]
	if !ok {
		return nil, false
	}
	return ix.modules[i], true
}

// Parent returns the module whose analysis revealed m, if any.
func (ix *Index) Parent(m *Module) (*Module, bool) {
	if m.Parent < 0 || m.Parent >= len(ix.modules) {
		return nil, false
	}
	return ix.modules[m.Parent], true
}

// add appends a pending module. The caller guarantees the path is new.
func (ix *Index) add(m *Module) int {
	i := len(ix.modules)
	ix.modules = append(ix.modules, m)
	ix.byPath[m.Path] = i
	if !m.Analyzed {
		ix.pending++
	}
	return i
}

// complete stores an analysis outcome on a pending module.
func (ix *Index) complete(m *Module, commands, modulePaths []string) {
	if commands == nil {
		commands = []string{}
	}
	m.Commands = commands
	m.ModulePaths = modulePaths
	if !m.Analyzed {
		m.Analyzed = true
		ix.pending--
	}
}
