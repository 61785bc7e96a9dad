package logrecord

import (
	"sort"
	"time"

	"github.com/j-veylop/token-usage-tui/internal/models"
)

// DayCost is the billable quota spent on one local calendar day.
type DayCost struct {
	Day   time.Time
	Quota int64
	Calls int
}

// ModelTotal is the billable usage attributed to one model.
type ModelTotal struct {
	Model            string
	Quota            int64
	PromptTokens     int64
	CompletionTokens int64
	Calls            int
}

// TotalQuota sums the quota of billable records.
func TotalQuota(records []models.LogRecord) int64 {
	var total int64
	for _, r := range records {
		if r.Billable() {
			total += r.Quota
		}
	}
	return total
}

// DailyCost groups billable quota by local day, oldest first.
func DailyCost(records []models.LogRecord) []DayCost {
	byDay := make(map[time.Time]*DayCost)
	for _, r := range records {
		if !r.Billable() {
			continue
		}
		local := r.CreatedAt.Local()
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
		entry, ok := byDay[day]
		if !ok {
			entry = &DayCost{Day: day}
			byDay[day] = entry
		}
		entry.Quota += r.Quota
		entry.Calls++
	}

	days := make([]DayCost, 0, len(byDay))
	for _, d := range byDay {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day.Before(days[j].Day) })
	return days
}

// ModelTotals groups billable usage by model, highest quota first.
func ModelTotals(records []models.LogRecord) []ModelTotal {
	byModel := make(map[string]*ModelTotal)
	for _, r := range records {
		if !r.Billable() {
			continue
		}
		entry, ok := byModel[r.ModelName]
		if !ok {
			entry = &ModelTotal{Model: r.ModelName}
			byModel[r.ModelName] = entry
		}
		entry.Quota += r.Quota
		entry.PromptTokens += r.PromptTokens
		entry.CompletionTokens += r.CompletionTokens
		entry.Calls++
	}

	totals := make([]ModelTotal, 0, len(byModel))
	for _, m := range byModel {
		totals = append(totals, *m)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Quota != totals[j].Quota {
			return totals[i].Quota > totals[j].Quota
		}
		return totals[i].Model < totals[j].Model
	})
	return totals
}
