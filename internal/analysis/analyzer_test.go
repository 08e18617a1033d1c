package analysis

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harrison/mii/internal/logger"
	"github.com/harrison/mii/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBins maps a directory to the commands it contains.
type fakeBins map[string][]string

func (f fakeBins) scan(dir string) ([]string, error) {
	names, ok := f[dir]
	if !ok {
		return nil, os.ErrNotExist
	}
	return names, nil
}

func writeModule(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "module")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestAnalyzer(t *testing.T, bins fakeBins, env map[string]string) *ModuleAnalyzer {
	t.Helper()
	a, err := New(
		WithScanner(bins.scan),
		WithLogger(logger.NewMemoryLogger()),
		WithLookupEnv(func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAnalyzeLmod(t *testing.T) {
	bins := fakeBins{
		"/opt/gcc/9.2.0/bin":  {"gcc", "g++", "gfortran"},
		"/opt/gcc/9.2.0/sbin": {"gcc", "gcc-ar"},
	}
	a := newTestAnalyzer(t, bins, nil)

	path := writeModule(t, `-- gcc 9.2.0
help([[GNU compilers]])
local root = "/opt/gcc/9.2.0"
prepend_path("PATH", "/opt/gcc/9.2.0/bin")
append_path( 'PATH' , '/opt/gcc/9.2.0/sbin:/does/not/exist' )
prepend_path("LD_LIBRARY_PATH", "/opt/gcc/9.2.0/lib64")
-- prepend_path("PATH", "/commented/out")
prepend_path("MODULEPATH", "/opt/modules/Compiler/gcc/9.2.0")
prepend_path{"MODULEPATH", "/opt/modules/extra:/opt/modules/Compiler/gcc/9.2.0"}
`)

	res, err := a.Analyze(path, models.DialectLmod)
	require.NoError(t, err)
	assert.Equal(t, []string{"gcc", "g++", "gfortran", "gcc-ar"}, res.Commands)
	assert.Equal(t, []string{"/opt/modules/Compiler/gcc/9.2.0", "/opt/modules/extra"}, res.ModulePaths)
}

func TestAnalyzeLmodNoPath(t *testing.T) {
	a := newTestAnalyzer(t, fakeBins{}, nil)

	res, err := a.Analyze(writeModule(t, "whatis(\"nothing here\")\n"), models.DialectLmod)
	require.NoError(t, err)
	assert.NotNil(t, res.Commands)
	assert.Empty(t, res.Commands)
	assert.Empty(t, res.ModulePaths)
}

func TestAnalyzeTcl(t *testing.T) {
	bins := fakeBins{
		"/apps/python/3.8/bin":   {"python3", "pip3"},
		"/home/alice/tools/bin":  {"mytool"},
		"/apps/python/3.8/extra": {"python3", "idle3"},
	}
	env := map[string]string{"HOME": "/home/alice"}
	a := newTestAnalyzer(t, bins, env)

	path := writeModule(t, `#%Module1.0
## python 3.8
set     version   3.8
set     root      /apps/python/$version
setenv  PYTHONHOME $root
prepend-path    PATH    $root/bin
append-path --delim : PATH ${root}/extra
prepend-path PATH $env(HOME)/tools/bin
prepend-path MANPATH $root/share/man
prepend-path MODULEPATH /apps/modules/python/$version
module use --append /apps/modules/site {/apps/modules/$literal}
module load gcc
`)

	res, err := a.Analyze(path, models.DialectTcl)
	require.NoError(t, err)
	assert.Equal(t, []string{"python3", "pip3", "idle3", "mytool"}, res.Commands)
	assert.Equal(t, []string{
		"/apps/modules/python/3.8",
		"/apps/modules/site",
		"/apps/modules/$literal",
	}, res.ModulePaths)
}

func TestAnalyzeTclRejectsCommandSubstitution(t *testing.T) {
	bins := fakeBins{"/safe/bin": {"safe"}}
	a := newTestAnalyzer(t, bins, nil)

	path := writeModule(t, `#%Module
set evil $(rm -rf /tmp/x)
prepend-path PATH `+"`whoami`"+`/bin
prepend-path PATH /safe/bin
`)

	res, err := a.Analyze(path, models.DialectTcl)
	require.NoError(t, err)
	assert.Equal(t, []string{"safe"}, res.Commands)
}

func TestAnalyzeTclVariablesDoNotLeak(t *testing.T) {
	bins := fakeBins{"/x/bin": {"x"}}
	a := newTestAnalyzer(t, bins, nil)

	first := writeModule(t, "#%Module\nset root /x\nprepend-path PATH $root/bin\n")
	second := writeModule(t, "#%Module\nprepend-path PATH $root/bin\n")

	res, err := a.Analyze(first, models.DialectTcl)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, res.Commands)

	res, err = a.Analyze(second, models.DialectTcl)
	require.NoError(t, err)
	assert.Empty(t, res.Commands)
	_, set := os.LookupEnv("root")
	assert.False(t, set, "Tcl variables must not be exported to the process environment")
}

func TestAnalyzeMissingFile(t *testing.T) {
	a := newTestAnalyzer(t, fakeBins{}, nil)
	missing := filepath.Join(t.TempDir(), "gone.lua")

	_, err := a.Analyze(missing, models.DialectLmod)
	require.Error(t, err)

	var aerr *AnalysisError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, missing, aerr.Path)
	assert.Equal(t, models.DialectLmod, aerr.Dialect)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAnalyzeAfterClose(t *testing.T) {
	a, err := New(WithScanner(fakeBins{}.scan))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	_, err = a.Analyze(writeModule(t, ""), models.DialectTcl)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestAnalyzeUnknownDialect(t *testing.T) {
	a := newTestAnalyzer(t, fakeBins{}, nil)

	_, err := a.Analyze(writeModule(t, ""), models.Dialect(9))
	var aerr *AnalysisError
	assert.True(t, errors.As(err, &aerr))
}

func TestAnalyzeScansRealDirectories(t *testing.T) {
	binDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "cmake"), []byte("#!/bin/sh\n"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "notes.txt"), []byte(""), 0644))

	a, err := New()
	require.NoError(t, err)
	defer a.Close()

	res, err := a.Analyze(writeModule(t, `prepend_path("PATH", "`+binDir+`")`+"\n"), models.DialectLmod)
	require.NoError(t, err)
	assert.Equal(t, []string{"cmake"}, res.Commands)
}

func TestSkipOptions(t *testing.T) {
	assert.Equal(t, []string{"PATH", "/x"}, skipOptions([]string{"PATH", "/x"}))
	assert.Equal(t, []string{"PATH", "/x"}, skipOptions([]string{"-d", ":", "PATH", "/x"}))
	assert.Equal(t, []string{"PATH", "/x"}, skipOptions([]string{"--delim=:", "PATH", "/x"}))
	assert.Equal(t, []string{"/dir"}, skipOptions([]string{"-a", "/dir"}))
	assert.Empty(t, skipOptions([]string{"--append"}))
}
