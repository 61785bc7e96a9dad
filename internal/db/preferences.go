package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Preference keys.
const (
	PrefDisplayInCurrency = "display_in_currency"
	PrefPageSize          = "page_size"
)

// GetPreference returns a stored preference and whether it exists.
func (db *DB) GetPreference(key string) (string, bool, error) {
	var value string
	err := db.QueryRowContext(context.Background(),
		"SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, true, nil
}

// SetPreference stores a preference, replacing any previous value.
func (db *DB) SetPreference(key, value string) error {
	query := `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(context.Background(), query,
		key, value, time.Now().Format("2006-01-02 15:04:05")); err != nil {
		return fmt.Errorf("failed to store preference %s: %w", key, err)
	}
	return nil
}

// DisplayInCurrency returns the stored currency preference or def.
func (db *DB) DisplayInCurrency(def bool) bool {
	value, ok, err := db.GetPreference(PrefDisplayInCurrency)
	if err != nil || !ok {
		return def
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return b
}

// SetDisplayInCurrency stores the currency preference.
func (db *DB) SetDisplayInCurrency(v bool) error {
	return db.SetPreference(PrefDisplayInCurrency, strconv.FormatBool(v))
}

// PageSize returns the stored page size or def.
func (db *DB) PageSize(def int) int {
	value, ok, err := db.GetPreference(PrefPageSize)
	if err != nil || !ok {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// SetPageSize stores the page size.
func (db *DB) SetPageSize(n int) error {
	return db.SetPreference(PrefPageSize, strconv.Itoa(n))
}
