package index

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harrison/mii/internal/analysis"
	"github.com/harrison/mii/internal/logger"
	"github.com/harrison/mii/internal/models"
	"github.com/stretchr/testify/require"
)

// fakeAnalyzer returns canned results keyed by modulefile path and records calls.
type fakeAnalyzer struct {
	results map[string]*analysis.Result
	fail    map[string]bool
	calls   []string
}

func newFakeAnalyzer() *fakeAnalyzer {
	return &fakeAnalyzer{
		results: make(map[string]*analysis.Result),
		fail:    make(map[string]bool),
	}
}

func (f *fakeAnalyzer) set(path string, commands []string, modulePaths ...string) {
	f.results[path] = &analysis.Result{Commands: commands, ModulePaths: modulePaths}
}

func (f *fakeAnalyzer) Analyze(path string, dialect models.Dialect) (*analysis.Result, error) {
	f.calls = append(f.calls, path)
	if f.fail[path] {
		return nil, &analysis.AnalysisError{Path: path, Dialect: dialect, Err: errors.New("unreadable")}
	}
	if res, ok := f.results[path]; ok {
		return res, nil
	}
	return &analysis.Result{Commands: []string{}}, nil
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestIndex(a analysis.Analyzer) (*Index, *logger.MemoryLogger) {
	log := logger.NewMemoryLogger()
	return New(WithAnalyzer(a), WithLogger(log)), log
}

// contents strips lineage so two indexes can be compared on what they store.
type contents struct {
	Path        string
	Code        string
	Dialect     models.Dialect
	Commands    []string
	ModulePaths []string
	ModTime     int64
	Analyzed    bool
}

func snapshotOf(ix *Index) []contents {
	out := make([]contents, 0, ix.Len())
	for _, m := range ix.Modules() {
		out = append(out, contents{
			Path:        m.Path,
			Code:        m.Code,
			Dialect:     m.Dialect,
			Commands:    m.Commands,
			ModulePaths: m.ModulePaths,
			ModTime:     m.ModTime.UnixNano(),
			Analyzed:    m.Analyzed,
		})
	}
	return out
}

func countPending(ix *Index) int {
	n := 0
	for _, m := range ix.Modules() {
		if !m.Analyzed {
			n++
		}
	}
	return n
}
