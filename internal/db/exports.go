package db

import (
	"context"
	"fmt"
	"time"

	"github.com/j-veylop/token-usage-tui/internal/models"
)

// InsertExport records a written export file.
func (db *DB) InsertExport(rec *models.ExportRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := db.ExecContext(context.Background(),
		"INSERT INTO exports (endpoint, path, row_count, created_at) VALUES (?, ?, ?, ?)",
		rec.Endpoint, rec.Path, rec.Rows, createdAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert export: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		rec.ID = id
	}
	rec.CreatedAt = createdAt.Truncate(time.Second)
	return nil
}

// RecentExports returns the most recent exports, newest first.
func (db *DB) RecentExports(limit int) ([]models.ExportRecord, error) {
	rows, err := db.QueryContext(context.Background(), `
		SELECT id, endpoint, path, row_count, created_at
		FROM exports
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.ExportRecord
	for rows.Next() {
		var rec models.ExportRecord
		var created int64
		if err := rows.Scan(&rec.ID, &rec.Endpoint, &rec.Path, &rec.Rows, &created); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		rec.CreatedAt = time.Unix(created, 0)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PruneExports keeps only the newest keep export records and returns how many
// were removed. The exported files themselves are left alone.
func (db *DB) PruneExports(keep int) (int64, error) {
	result, err := db.ExecContext(context.Background(), `
		DELETE FROM exports
		WHERE id NOT IN (
			SELECT id FROM exports ORDER BY created_at DESC, id DESC LIMIT ?
		)
	`, max(keep, 0))
	if err != nil {
		return 0, fmt.Errorf("failed to prune exports: %w", err)
	}
	return result.RowsAffected()
}
