// Package options persists named storefront settings values.
package options

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/ziadkadry99/quickview/internal/db"
)

// Well-known option names owned by the storefront.
const (
	AjaxAddToCart = "woocommerce_enable_ajax_add_to_cart"
)

// Store reads and writes options.
type Store struct {
	db *db.DB
}

// NewStore creates an options store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Add stores value under name unless the option already exists. It reports
// whether a row was created.
func (s *Store) Add(ctx context.Context, name, value string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO options (name, value) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
		name, value,
	)
	if err != nil {
		return false, fmt.Errorf("adding option %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("adding option %s: %w", name, err)
	}
	return n > 0, nil
}

// Get returns the value of name and whether it exists.
func (s *Store) Get(ctx context.Context, name string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM options WHERE name = ?`, name).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting option %s: %w", name, err)
	}
	return value, true, nil
}

// Update sets name to value, creating the option if needed, and returns the
// previous value ("" when the option did not exist).
func (s *Store) Update(ctx context.Context, name, value string) (string, error) {
	previous, err := s.UpdateMany(ctx, map[string]string{name: value})
	if err != nil {
		return "", err
	}
	return previous[name], nil
}

// UpdateMany sets every option in values in one transaction and returns the
// previous values by name. Either all values are written or none is.
func (s *Store) UpdateMany(ctx context.Context, values map[string]string) (map[string]string, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning option update: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	previous := make(map[string]string, len(values))
	for _, name := range names {
		var prev string
		err := tx.QueryRowContext(ctx, `SELECT value FROM options WHERE name = ?`, name).Scan(&prev)
		if err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("reading option %s: %w", name, err)
		}
		previous[name] = prev

		_, err = tx.ExecContext(ctx,
			`INSERT INTO options (name, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			name, values[name], now,
		)
		if err != nil {
			return nil, fmt.Errorf("writing option %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing options: %w", err)
	}
	return previous, nil
}

// Enabled reports whether a yes/no option is "yes".
func (s *Store) Enabled(ctx context.Context, name string) (bool, error) {
	v, _, err := s.Get(ctx, name)
	if err != nil {
		return false, err
	}
	return v == "yes", nil
}
