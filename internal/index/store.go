package index

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/harrison/mii/internal/filelock"
	"github.com/harrison/mii/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const (
	formatName    = "mii-index"
	formatVersion = 1
)

// Export writes a snapshot of the whole index to path. The snapshot is built in a
// temporary file next to path and renamed over it, so readers see either the old or
// the new snapshot and never a partial one. Writers are serialized through
// "<path>.lock"; the last one wins.
func (ix *Index) Export(path string) error {
	err := filelock.LockAndReplace(path, func(tmpPath string) error {
		return ix.writeSnapshot(tmpPath)
	})
	if err != nil {
		return newPersistenceError(KindWrite, path, err)
	}

	ix.logger.LogDebug(fmt.Sprintf("Exported %d modules to %s", len(ix.modules), path))
	return nil
}

func (ix *Index) writeSnapshot(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	commandCount := 0
	for _, m := range ix.modules {
		commandCount += len(m.Commands)
	}

	meta := map[string]string{
		"format":        formatName,
		"version":       strconv.Itoa(formatVersion),
		"modulepath":    strings.Join(ix.modulePath, ":"),
		"module_count":  strconv.Itoa(len(ix.modules)),
		"command_count": strconv.Itoa(commandCount),
		"created_at":    time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("insert meta %s: %w", k, err)
		}
	}

	moduleStmt, err := tx.Prepare(`INSERT INTO modules (id, path, code, dialect, mtime, analyzed, parent)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare module insert: %w", err)
	}
	defer moduleStmt.Close()

	commandStmt, err := tx.Prepare(`INSERT INTO commands (module_id, seq, name) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare command insert: %w", err)
	}
	defer commandStmt.Close()

	pathStmt, err := tx.Prepare(`INSERT INTO module_paths (module_id, seq, dir) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare module path insert: %w", err)
	}
	defer pathStmt.Close()

	for id, m := range ix.modules {
		var parent sql.NullInt64
		if m.Parent != NoParent {
			parent = sql.NullInt64{Int64: int64(m.Parent), Valid: true}
		}

		if _, err := moduleStmt.Exec(id, m.Path, m.Code, m.Dialect.String(), m.ModTime.UnixNano(), m.Analyzed, parent); err != nil {
			return fmt.Errorf("insert module %s: %w", m.Path, err)
		}
		for seq, name := range m.Commands {
			if _, err := commandStmt.Exec(id, seq, name); err != nil {
				return fmt.Errorf("insert command %s of %s: %w", name, m.Path, err)
			}
		}
		for seq, dir := range m.ModulePaths {
			if _, err := pathStmt.Exec(id, seq, dir); err != nil {
				return fmt.Errorf("insert module path %s of %s: %w", dir, m.Path, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	return db.Close()
}

// Import replaces the contents of the index with the snapshot at path. On any
// error the index is left untouched. Errors are *PersistenceError values matching
// ErrIndexNotFound, ErrIndexUnreadable or ErrIndexCorrupt.
func (ix *Index) Import(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newPersistenceError(KindNotFound, path, err)
		}
		return newPersistenceError(KindUnreadable, path, err)
	}
	info, err := f.Stat()
	f.Close()
	if err != nil {
		return newPersistenceError(KindUnreadable, path, err)
	}
	if info.IsDir() {
		return newPersistenceError(KindUnreadable, path, errors.New("is a directory"))
	}

	snap, err := readSnapshot(path)
	if err != nil {
		return newPersistenceError(KindCorrupt, path, err)
	}

	ix.reset()
	ix.modulePath = snap.modulePath
	for _, m := range snap.modules {
		ix.add(m)
	}
	ix.ready = true

	ix.logger.LogDebug(fmt.Sprintf("Imported %d modules from %s", len(ix.modules), path))
	return nil
}

type snapshot struct {
	modulePath []string
	modules    []*Module
}

func readSnapshot(path string) (*snapshot, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dsn := "file:" + (&url.URL{Path: abs}).EscapedPath() + "?mode=ro"

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	meta, err := readMeta(db)
	if err != nil {
		return nil, err
	}
	if meta["format"] != formatName {
		return nil, fmt.Errorf("unexpected format %q", meta["format"])
	}
	if meta["version"] != strconv.Itoa(formatVersion) {
		return nil, fmt.Errorf("unsupported version %q", meta["version"])
	}
	wantModules, err := strconv.Atoi(meta["module_count"])
	if err != nil {
		return nil, fmt.Errorf("bad module_count: %w", err)
	}
	wantCommands, err := strconv.Atoi(meta["command_count"])
	if err != nil {
		return nil, fmt.Errorf("bad command_count: %w", err)
	}

	modules, err := readModules(db)
	if err != nil {
		return nil, err
	}
	if len(modules) != wantModules {
		return nil, fmt.Errorf("expected %d modules, found %d", wantModules, len(modules))
	}

	gotCommands, err := readLists(db, `SELECT module_id, name FROM commands ORDER BY module_id, seq`, modules,
		func(m *Module, v string) { m.Commands = append(m.Commands, v) })
	if err != nil {
		return nil, fmt.Errorf("read commands: %w", err)
	}
	if gotCommands != wantCommands {
		return nil, fmt.Errorf("expected %d commands, found %d", wantCommands, gotCommands)
	}

	if _, err := readLists(db, `SELECT module_id, dir FROM module_paths ORDER BY module_id, seq`, modules,
		func(m *Module, v string) { m.ModulePaths = append(m.ModulePaths, v) }); err != nil {
		return nil, fmt.Errorf("read module paths: %w", err)
	}

	return &snapshot{
		modulePath: splitList(meta["modulepath"]),
		modules:    modules,
	}, nil
}

func readMeta(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM meta`)
	if err != nil {
		return nil, fmt.Errorf("read meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan meta: %w", err)
		}
		meta[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read meta: %w", err)
	}
	return meta, nil
}

func readModules(db *sql.DB) ([]*Module, error) {
	rows, err := db.Query(`SELECT id, path, code, dialect, mtime, analyzed, parent FROM modules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("read modules: %w", err)
	}
	defer rows.Close()

	var modules []*Module
	for rows.Next() {
		var (
			id       int
			m        Module
			dialect  string
			mtime    int64
			analyzed bool
			parent   sql.NullInt64
		)
		if err := rows.Scan(&id, &m.Path, &m.Code, &dialect, &mtime, &analyzed, &parent); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		if id != len(modules) {
			return nil, fmt.Errorf("module ids not contiguous at %d", id)
		}

		m.Dialect, err = models.ParseDialect(dialect)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", m.Path, err)
		}
		m.ModTime = time.Unix(0, mtime)
		m.Analyzed = analyzed
		m.Parent = NoParent
		if parent.Valid {
			if parent.Int64 < 0 || parent.Int64 >= int64(id) {
				return nil, fmt.Errorf("module %s has invalid parent %d", m.Path, parent.Int64)
			}
			m.Parent = int(parent.Int64)
		}
		if analyzed {
			m.Commands = []string{}
		}

		modules = append(modules, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read modules: %w", err)
	}
	return modules, nil
}

// readLists runs query, which yields (module_id, value) rows, and hands every value
// to add. It returns the number of rows read.
func readLists(db *sql.DB, query string, modules []*Module, add func(*Module, string)) (int, error) {
	rows, err := db.Query(query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var id int
		var value string
		if err := rows.Scan(&id, &value); err != nil {
			return n, err
		}
		if id < 0 || id >= len(modules) {
			return n, fmt.Errorf("row references unknown module %d", id)
		}
		add(modules[id], value)
		n++
	}
	return n, rows.Err()
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ":")
}
