// Package modcache persists a Resolver's dependency-ordered import closure
// across invocations, keyed by root path, so a second compile of the same
// root skips re-discovering (though not re-parsing) its imports when none
// of the resolved files have changed on disk.
package modcache

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Cache is a durable cache of resolved import orders, backed by SQLite in
// WAL mode. Grounded on the teacher's store.Open: single-writer pragmas,
// idempotent schema application, no migrations needed yet (schema version 0).
type Cache struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at path and applies the schema.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("modcache: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("modcache: connect %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("modcache: apply schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("modcache: pragma %q: %w", p, err)
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Lookup returns the previously-resolved import order for rootPath, and
// true, only if every cached file still exists with the exact mtime
// recorded at resolution time. Any staleness (a changed file, a missing
// row) is treated as a cache miss rather than an error: the caller always
// has the Resolver to fall back on.
func (c *Cache) Lookup(rootPath string) (order []string, ok bool, err error) {
	rows, err := c.db.Query(
		`SELECT file_path, mtime FROM resolution_files WHERE root_path = ? ORDER BY seq ASC`,
		rootPath,
	)
	if err != nil {
		return nil, false, fmt.Errorf("modcache: lookup %s: %w", rootPath, err)
	}
	defer rows.Close()

	type entry struct {
		path  string
		mtime int64
	}
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.path, &e.mtime); err != nil {
			return nil, false, fmt.Errorf("modcache: scan %s: %w", rootPath, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(entries) == 0 {
		return nil, false, nil
	}

	for _, e := range entries {
		info, statErr := os.Stat(e.path)
		if statErr != nil || info.ModTime().UnixNano() != e.mtime {
			return nil, false, nil // stale or missing: treat as a miss, not a hard error
		}
		order = append(order, e.path)
	}
	return order, true, nil
}

// Store records order (dependency-ordered, deps before dependents) as
// rootPath's resolution, replacing any prior entry. File mtimes are
// captured at the moment of storage so a later Lookup can detect edits.
func (c *Cache) Store(rootPath string, order []string, resolvedAt int64) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("modcache: begin store %s: %w", rootPath, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM resolution_files WHERE root_path = ?`, rootPath); err != nil {
		return fmt.Errorf("modcache: clear %s: %w", rootPath, err)
	}
	if _, err := tx.Exec(
		`INSERT INTO resolutions (root_path, root_mtime, resolved_at) VALUES (?, 0, ?)
		 ON CONFLICT(root_path) DO UPDATE SET resolved_at = excluded.resolved_at`,
		rootPath, resolvedAt,
	); err != nil {
		return fmt.Errorf("modcache: upsert resolution %s: %w", rootPath, err)
	}

	for seq, path := range order {
		info, statErr := os.Stat(path)
		var mtime int64
		if statErr == nil {
			mtime = info.ModTime().UnixNano()
		}
		if _, err := tx.Exec(
			`INSERT INTO resolution_files (root_path, seq, file_path, mtime) VALUES (?, ?, ?, ?)`,
			rootPath, seq, path, mtime,
		); err != nil {
			return fmt.Errorf("modcache: insert file %s: %w", path, err)
		}
	}

	return tx.Commit()
}
