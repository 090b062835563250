package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
)

// ProductRow is one product of a bundle with its stored model.
type ProductRow struct {
	Key     string
	Metrics models.Metrics
	Kind    string
	Params  []byte
}

// SetMeta stores a bundle metadata value.
func (db *DB) SetMeta(key, value string) error {
	query := `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := db.ExecContext(context.Background(), query, key, value); err != nil {
		return fmt.Errorf("failed to set meta %s: %w", key, err)
	}
	return nil
}

// Meta returns a bundle metadata value, or "" if it is not set.
func (db *DB) Meta(key string) (string, error) {
	var value string
	err := db.QueryRowContext(context.Background(), "SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get meta %s: %w", key, err)
	}
	return value, nil
}

// InsertProduct adds or replaces a product and its accuracy metrics.
func (db *DB) InsertProduct(key string, metrics models.Metrics) error {
	query := `
		INSERT INTO products (key, mape, mae) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET mape = excluded.mape, mae = excluded.mae
	`
	if _, err := db.ExecContext(context.Background(), query, key, metrics.MAPE, metrics.MAE); err != nil {
		return fmt.Errorf("failed to insert product %s: %w", key, err)
	}
	return nil
}

// InsertObservations replaces the history of a product in one transaction.
func (db *DB) InsertObservations(key string, obs []models.Observation) error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(context.Background(), "DELETE FROM observations WHERE product_key = ?", key); err != nil {
		return fmt.Errorf("failed to clear observations for %s: %w", key, err)
	}

	stmt, err := tx.PrepareContext(context.Background(),
		"INSERT INTO observations (product_key, document_date, qty_out) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare observation insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, o := range obs {
		if _, err := stmt.ExecContext(context.Background(), key, o.Date.Format(models.DateLayout), o.QtyOut); err != nil {
			return fmt.Errorf("failed to insert observation for %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit observations for %s: %w", key, err)
	}
	return nil
}

// InsertModel stores the fitted model of a product.
func (db *DB) InsertModel(key, kind string, params []byte) error {
	query := `
		INSERT INTO models (product_key, kind, params) VALUES (?, ?, ?)
		ON CONFLICT(product_key) DO UPDATE SET kind = excluded.kind, params = excluded.params
	`
	if _, err := db.ExecContext(context.Background(), query, key, kind, string(params)); err != nil {
		return fmt.Errorf("failed to insert model for %s: %w", key, err)
	}
	return nil
}

// GetProducts returns every product that has a stored model, ordered by key.
// Products without a model are skipped.
func (db *DB) GetProducts() ([]ProductRow, error) {
	query := `
		SELECT p.key, p.mape, p.mae, m.kind, m.params
		FROM products p
		JOIN models m ON m.product_key = p.key
		ORDER BY p.key
	`

	rows, err := db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ProductRow
	for rows.Next() {
		var r ProductRow
		var params string
		if err := rows.Scan(&r.Key, &r.Metrics.MAPE, &r.Metrics.MAE, &r.Kind, &params); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		r.Params = []byte(params)
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return out, nil
}

// GetAllObservations returns the history of every product, keyed by product
// and ordered by document date.
func (db *DB) GetAllObservations() (map[string][]models.Observation, error) {
	query := `
		SELECT product_key, document_date, qty_out
		FROM observations
		ORDER BY product_key, document_date, id
	`

	rows, err := db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string][]models.Observation)
	for rows.Next() {
		var key, date string
		var qty float64
		if err := rows.Scan(&key, &date, &qty); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}

		d, err := time.Parse(models.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("invalid document date %q for %s: %w", date, key, err)
		}
		out[key] = append(out[key], models.Observation{Date: d, QtyOut: qty})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate observations: %w", err)
	}
	return out, nil
}
