package logrecord

import (
	"testing"
	"time"

	"github.com/j-veylop/token-usage-tui/internal/models"
)

func sampleRecords() []models.LogRecord {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)
	return []models.LogRecord{
		{CreatedAt: base.Add(2 * time.Hour), ModelName: "gpt-4", Quota: 300, UseTime: 5, Type: 2},
		{CreatedAt: base.Add(1 * time.Hour), ModelName: "claude-2.1", Quota: 100, UseTime: 9, Type: 2},
		{CreatedAt: base, ModelName: "gpt-3.5-turbo", Quota: 200, UseTime: 1, Type: 2},
	}
}

func TestSorted(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		name      string
		field     SortField
		ascending bool
		want      []string
	}{
		{"None", SortNone, true, []string{"gpt-4", "claude-2.1", "gpt-3.5-turbo"}},
		{"CostAsc", SortCost, true, []string{"claude-2.1", "gpt-3.5-turbo", "gpt-4"}},
		{"CostDesc", SortCost, false, []string{"gpt-4", "gpt-3.5-turbo", "claude-2.1"}},
		{"TimeAsc", SortTime, true, []string{"gpt-3.5-turbo", "claude-2.1", "gpt-4"}},
		{"ModelAsc", SortModel, true, []string{"claude-2.1", "gpt-3.5-turbo", "gpt-4"}},
		{"UseTimeDesc", SortUseTime, false, []string{"claude-2.1", "gpt-4", "gpt-3.5-turbo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sorted(records, tt.field, tt.ascending)
			for i, want := range tt.want {
				if got[i].ModelName != want {
					t.Fatalf("Sorted()[%d] = %s, want %s", i, got[i].ModelName, want)
				}
			}
		})
	}

	if records[0].ModelName != "gpt-4" {
		t.Error("Sorted() mutated its input")
	}
}

func TestSortField_Next(t *testing.T) {
	f := SortNone
	seen := map[SortField]bool{}
	for range 8 {
		seen[f] = true
		f = f.Next()
	}
	if f != SortNone || len(seen) != 8 {
		t.Errorf("Next() did not cycle through all fields: end=%v seen=%d", f, len(seen))
	}
	if SortCost.String() != "cost" {
		t.Errorf("SortCost.String() = %q", SortCost.String())
	}
}

func TestPageSizes(t *testing.T) {
	if got := NextPageSize(10); got != 20 {
		t.Errorf("NextPageSize(10) = %d", got)
	}
	if got := NextPageSize(100); got != 10 {
		t.Errorf("NextPageSize(100) = %d", got)
	}
	if got := NextPageSize(7); got != DefaultPageSize {
		t.Errorf("NextPageSize(7) = %d", got)
	}
	if ValidPageSize(30) || !ValidPageSize(50) {
		t.Error("ValidPageSize() mismatch")
	}
}

func TestPage(t *testing.T) {
	records := make([]models.LogRecord, 25)
	for i := range records {
		records[i].Quota = int64(i)
	}

	tests := []struct {
		name      string
		page      int
		size      int
		wantLen   int
		wantFirst int64
	}{
		{"First", 0, 10, 10, 0},
		{"Second", 1, 10, 10, 10},
		{"Partial", 2, 10, 5, 20},
		{"PastEnd", 3, 10, 0, -1},
		{"Negative", -1, 10, 0, -1},
		{"ZeroSize", 0, 0, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Page(records, tt.page, tt.size)
			if len(got) != tt.wantLen {
				t.Fatalf("len(Page()) = %d, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0].Quota != tt.wantFirst {
				t.Errorf("first = %d, want %d", got[0].Quota, tt.wantFirst)
			}
		})
	}
}
