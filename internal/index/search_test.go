package index

import (
	"path/filepath"
	"testing"

	"github.com/harrison/mii/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchIndex(t *testing.T) (*Index, map[string]string) {
	t.Helper()
	root := t.TempDir()
	other := t.TempDir()
	fake := newFakeAnalyzer()

	paths := map[string]string{
		"gcc9":   writeFile(t, filepath.Join(root, "gcc", "9.2.0.lua"), ""),
		"gcc10":  writeFile(t, filepath.Join(root, "gcc", "10.1.0.lua"), ""),
		"python": writeFile(t, filepath.Join(root, "python", "3.8"), "#%Module\n"),
		"empty":  writeFile(t, filepath.Join(root, "empty", "1.0.lua"), ""),
		"dup":    writeFile(t, filepath.Join(other, "python", "3.8"), "#%Module\n"),
	}
	fake.set(paths["gcc9"], []string{"gcc", "g++", "gcc9"})
	fake.set(paths["gcc10"], []string{"gcc", "g++", "gfortran"})
	fake.set(paths["python"], []string{"python3", "Python", "pip3"})
	fake.set(paths["empty"], []string{})
	fake.set(paths["dup"], []string{"python3"})

	ix, _ := newTestIndex(fake)
	require.NoError(t, ix.Build(root+":"+other))
	_, err := ix.Analyze()
	require.NoError(t, err)
	return ix, paths
}

func TestSearchExact(t *testing.T) {
	ix, paths := searchIndex(t)

	tests := []struct {
		name    string
		command string
		want    []models.Match
	}{
		{
			name:    "command in two modules",
			command: "gcc",
			want: []models.Match{
				{Command: "gcc", ModuleCode: "gcc/10.1.0", ModulePath: paths["gcc10"]},
				{Command: "gcc", ModuleCode: "gcc/9.2.0", ModulePath: paths["gcc9"]},
			},
		},
		{
			name:    "case sensitive",
			command: "Python",
			want: []models.Match{
				{Command: "Python", ModuleCode: "python/3.8", ModulePath: paths["python"]},
			},
		},
		{
			name:    "no match",
			command: "gcc1",
			want:    []models.Match{},
		},
		{
			name:    "empty command",
			command: "",
			want:    []models.Match{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ix.SearchExact(tt.command)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchExactSkipsPendingModules(t *testing.T) {
	root := t.TempDir()
	p := writeFile(t, filepath.Join(root, "gcc", "9.lua"), "")
	fake := newFakeAnalyzer()
	fake.set(p, []string{"gcc"})

	ix, _ := newTestIndex(fake)
	require.NoError(t, ix.Build(root))

	got, err := ix.SearchExact("gcc")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ix.Analyze()
	require.NoError(t, err)
	got, err = ix.SearchExact("gcc")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSearchFuzzy(t *testing.T) {
	ix, _ := searchIndex(t)

	got, err := ix.SearchFuzzy("gcc")
	require.NoError(t, err)

	var commands []string
	for i, m := range got {
		commands = append(commands, m.Command)
		assert.LessOrEqual(t, m.Distance, 4)
		if i > 0 {
			assert.LessOrEqual(t, got[i-1].Distance, m.Distance)
		}
	}

	assert.Contains(t, commands, "gcc9")
	assert.Contains(t, commands, "g++")
	assert.NotContains(t, commands, "gfortran")
	assert.Equal(t, "gcc", got[0].Command)
	assert.Zero(t, got[0].Distance)
	assert.Equal(t, "gcc", got[1].Command)
	// Ties keep discovery order.
	assert.Equal(t, "gcc/10.1.0", got[0].ModuleCode)
	assert.Equal(t, "gcc/9.2.0", got[1].ModuleCode)
}

func TestSearchFuzzyIgnoresCase(t *testing.T) {
	ix, _ := searchIndex(t)

	got, err := ix.SearchFuzzy("PYTHON3")
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "python3", got[0].Command)
	assert.Zero(t, got[0].Distance)

	got, err = ix.SearchFuzzy("completely-unrelated-name")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchInfo(t *testing.T) {
	ix, paths := searchIndex(t)

	got, err := ix.SearchInfo("gcc/9.2.0")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.ModuleInfo{
		ModuleCode: "gcc/9.2.0",
		ModulePath: paths["gcc9"],
		Dialect:    models.DialectLmod,
		Commands:   []string{"gcc", "g++", "gcc9"},
	}, got[0])

	got, err = ix.SearchInfo("python/3.8")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, paths["python"], got[0].ModulePath)
	assert.Equal(t, paths["dup"], got[1].ModulePath)
	assert.Equal(t, models.DialectTcl, got[0].Dialect)

	got, err = ix.SearchInfo("empty/1.0")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Commands)

	got, err = ix.SearchInfo("gcc")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchInfoCopiesCommands(t *testing.T) {
	ix, paths := searchIndex(t)

	got, err := ix.SearchInfo("gcc/9.2.0")
	require.NoError(t, err)
	got[0].Commands[0] = "mutated"

	m, _ := ix.Lookup(paths["gcc9"])
	assert.Equal(t, "gcc", m.Commands[0])
}

func TestSearchNotReady(t *testing.T) {
	ix := New()

	_, err := ix.SearchExact("gcc")
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = ix.SearchFuzzy("gcc")
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = ix.SearchInfo("gcc/9")
	assert.ErrorIs(t, err, ErrNotReady)
}
