package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/j-veylop/token-usage-tui/internal/models"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if db.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, db.Path())
	}

	// Verify file exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database with nested path: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("Nested directories were not created")
	}
}

func TestSchema_TablesExist(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	for _, table := range []string{"preferences", "exports"} {
		var name string
		err := db.QueryRowContext(context.Background(), "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s does not exist: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := db.SetPageSize(50); err != nil {
		t.Fatalf("SetPageSize() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	db, err = New(dbPath)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()

	if got := db.PageSize(10); got != 50 {
		t.Errorf("PageSize() after reopen = %d, want 50", got)
	}
}

func TestSchemaVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	v, err := db.SchemaVersion()
	if err != nil || v != len(migrations) {
		t.Errorf("SchemaVersion() = %d, %v, want %d", v, err, len(migrations))
	}
	_ = db.Close()

	// Reopening must not replay migrations.
	db, err = New(dbPath)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()
	if v, _ := db.SchemaVersion(); v != len(migrations) {
		t.Errorf("SchemaVersion() after reopen = %d", v)
	}
}

func TestPruneExports(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	base := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	for i := range 5 {
		rec := &models.ExportRecord{Endpoint: "main", Path: fmt.Sprintf("/tmp/%d.csv", i), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := db.InsertExport(rec); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := db.PruneExports(2)
	if err != nil || removed != 3 {
		t.Fatalf("PruneExports() = %d, %v, want 3", removed, err)
	}

	recs, _ := db.RecentExports(10)
	if len(recs) != 2 || recs[0].Path != "/tmp/4.csv" || recs[1].Path != "/tmp/3.csv" {
		t.Errorf("remaining = %+v", recs)
	}
}

func TestPreferences(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	if _, ok, err := db.GetPreference("missing"); err != nil || ok {
		t.Errorf("GetPreference(missing) = ok %v, err %v", ok, err)
	}

	if got := db.DisplayInCurrency(true); !got {
		t.Error("DisplayInCurrency() should return the default when unset")
	}
	if err := db.SetDisplayInCurrency(false); err != nil {
		t.Fatalf("SetDisplayInCurrency() error = %v", err)
	}
	if got := db.DisplayInCurrency(true); got {
		t.Error("DisplayInCurrency() = true after storing false")
	}

	if err := db.SetDisplayInCurrency(true); err != nil {
		t.Fatalf("SetDisplayInCurrency() error = %v", err)
	}
	if got := db.DisplayInCurrency(false); !got {
		t.Error("DisplayInCurrency() = false after overwriting with true")
	}
}

func TestPreferences_InvalidValues(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	_ = db.SetPreference(PrefDisplayInCurrency, "sometimes")
	_ = db.SetPreference(PrefPageSize, "-3")

	if got := db.DisplayInCurrency(true); !got {
		t.Error("invalid bool should fall back to default")
	}
	if got := db.PageSize(20); got != 20 {
		t.Errorf("PageSize() = %d, want default 20", got)
	}
}

func TestExports(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
	for i, key := range []string{"main", "backup", "main"} {
		rec := &models.ExportRecord{
			Endpoint:  key,
			Path:      filepath.Join("exports", key+".csv"),
			Rows:      i + 1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.InsertExport(rec); err != nil {
			t.Fatalf("InsertExport() error = %v", err)
		}
		if rec.ID == 0 {
			t.Error("InsertExport() did not set ID")
		}
	}

	recent, err := db.RecentExports(2)
	if err != nil {
		t.Fatalf("RecentExports() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("len(RecentExports()) = %d, want 2", len(recent))
	}
	if recent[0].Rows != 3 || recent[1].Endpoint != "backup" {
		t.Errorf("RecentExports() = %+v", recent)
	}
	if !recent[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("CreatedAt = %v", recent[0].CreatedAt)
	}
}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	return db
}
