package logrecord

import (
	"testing"
	"time"

	"github.com/j-veylop/token-usage-tui/internal/models"
)

func TestTotalQuota(t *testing.T) {
	records := []models.LogRecord{
		{Type: 2, Quota: 100},
		{Type: 0, Quota: 50},
		{Type: 1, Quota: 999},
	}
	if got := TotalQuota(records); got != 150 {
		t.Errorf("TotalQuota() = %d, want 150", got)
	}
}

func TestDailyCost(t *testing.T) {
	day1 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	day2 := time.Date(2024, 5, 3, 23, 59, 0, 0, time.Local)
	records := []models.LogRecord{
		{CreatedAt: day2, Type: 2, Quota: 10},
		{CreatedAt: day1.Add(time.Hour), Type: 2, Quota: 5},
		{CreatedAt: day1, Type: 2, Quota: 7},
		{CreatedAt: day1, Type: 1, Quota: 1000},
	}

	got := DailyCost(records)
	if len(got) != 2 {
		t.Fatalf("len(DailyCost()) = %d, want 2", len(got))
	}
	if got[0].Day.Day() != 1 || got[0].Quota != 12 || got[0].Calls != 2 {
		t.Errorf("day 1 = %+v", got[0])
	}
	if got[1].Day.Day() != 3 || got[1].Quota != 10 {
		t.Errorf("day 3 = %+v", got[1])
	}
}

func TestModelTotals(t *testing.T) {
	records := []models.LogRecord{
		{ModelName: "gpt-4", Type: 2, Quota: 10, PromptTokens: 1},
		{ModelName: "claude", Type: 2, Quota: 30},
		{ModelName: "gpt-4", Type: 0, Quota: 25, PromptTokens: 2},
		{ModelName: "ignored", Type: 3, Quota: 500},
	}

	got := ModelTotals(records)
	if len(got) != 2 {
		t.Fatalf("len(ModelTotals()) = %d, want 2", len(got))
	}
	if got[0].Model != "gpt-4" || got[0].Quota != 35 || got[0].Calls != 2 || got[0].PromptTokens != 3 {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Model != "claude" {
		t.Errorf("second = %+v", got[1])
	}
}
