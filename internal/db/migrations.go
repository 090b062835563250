package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// FormatVersion is written to the meta table of new bundles.
const FormatVersion = "1"

var bundleTables = []string{tableMeta, tableProducts, tableObservations, tableModels}

func (db *DB) createSchema() error {
	if err := db.createMetaTable(); err != nil {
		return err
	}
	if err := db.createProductsTable(); err != nil {
		return err
	}
	if err := db.createObservationsTable(); err != nil {
		return err
	}
	if err := db.createModelsTable(); err != nil {
		return err
	}
	return db.SetMeta(metaFormatVersion, FormatVersion)
}

func (db *DB) createMetaTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createProductsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS products (
		key TEXT PRIMARY KEY,
		mape REAL NOT NULL DEFAULT 0,
		mae REAL NOT NULL DEFAULT 0
	);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createObservationsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS observations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_key TEXT NOT NULL REFERENCES products(key) ON DELETE CASCADE,
		document_date TEXT NOT NULL,
		qty_out REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_observations_product ON observations(product_key, document_date);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createModelsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS models (
		product_key TEXT PRIMARY KEY REFERENCES products(key) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		params TEXT NOT NULL
	);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

// verifySchema checks that every bundle table exists.
func (db *DB) verifySchema() error {
	for _, table := range bundleTables {
		var name string
		err := db.QueryRowContext(context.Background(),
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: missing table %s", ErrSchema, table)
		}
		if err != nil {
			return fmt.Errorf("failed to read bundle schema: %w", err)
		}
	}
	return nil
}
