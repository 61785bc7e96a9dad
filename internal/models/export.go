package models

import "time"

// ExportRecord describes a CSV export written to disk.
type ExportRecord struct {
	CreatedAt time.Time `json:"createdAt"`
	Endpoint  string    `json:"endpoint"`
	Path      string    `json:"path"`
	ID        int64     `json:"id"`
	Rows      int       `json:"rows"`
}
