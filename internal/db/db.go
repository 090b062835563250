// Package db stores and reads model bundles: SQLite files holding, per
// product, accuracy metrics, historical observations and fitted model
// parameters.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrSchema is returned when a file opens as SQLite but lacks bundle tables.
var ErrSchema = errors.New("not a model bundle")

// DB wraps the SQL database connection with bundle-specific methods.
type DB struct {
	*sql.DB
	path     string
	readOnly bool
}

// New creates or opens a writable bundle and initializes the schema.
func New(path string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create bundle directory: %w", err)
		}
	}

	db, err := open(path, path, false)
	if err != nil {
		return nil, err
	}

	if err := db.configure(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure bundle: %w", err)
	}

	if err := db.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// OpenReadOnly opens an existing bundle without write access and verifies
// that it carries the bundle schema.
func OpenReadOnly(path string) (*DB, error) {
	db, err := open(path, "file:"+path+"?mode=ro", true)
	if err != nil {
		return nil, err
	}

	if err := db.verifySchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func open(path, dsn string, readOnly bool) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle: %w", err)
	}

	// Test connection
	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to bundle: %w", err)
	}

	return &DB{DB: sqlDB, path: path, readOnly: readOnly}, nil
}

// Path returns the bundle file path.
func (db *DB) Path() string {
	return db.path
}

// ReadOnly reports whether the bundle was opened without write access.
func (db *DB) ReadOnly() bool {
	return db.readOnly
}

// configure sets up pragmas for a write-once artifact. Rollback journaling
// keeps the bundle a single file that read-only openers can use.
func (db *DB) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=DELETE",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

// IsCorrupt reports whether err means the file is not a readable SQLite
// database or is missing the bundle schema.
func IsCorrupt(err error) bool {
	if errors.Is(err, ErrSchema) {
		return true
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
			return true
		}
	}
	return false
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}

// Vacuum compacts a writable bundle after it has been filled.
func (db *DB) Vacuum() error {
	_, err := db.ExecContext(context.Background(), "VACUUM")
	return err
}
