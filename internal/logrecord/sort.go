package logrecord

import (
	"sort"
	"strings"

	"github.com/j-veylop/token-usage-tui/internal/models"
)

// SortField names a sortable column.
type SortField int

// Sortable columns.
const (
	SortNone SortField = iota
	SortTime
	SortTokenName
	SortModel
	SortUseTime
	SortPrompt
	SortCompletion
	SortCost
)

var sortFieldNames = map[SortField]string{
	SortNone:       "default",
	SortTime:       "time",
	SortTokenName:  "token",
	SortModel:      "model",
	SortUseTime:    "use time",
	SortPrompt:     "prompt",
	SortCompletion: "completion",
	SortCost:       "cost",
}

// String returns the column name.
func (f SortField) String() string {
	if name, ok := sortFieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// Next cycles to the following sort field.
func (f SortField) Next() SortField {
	if f >= SortCost {
		return SortNone
	}
	return f + 1
}

// Sorted returns an ordered copy of records. SortNone keeps the input order.
func Sorted(records []models.LogRecord, field SortField, ascending bool) []models.LogRecord {
	out := make([]models.LogRecord, len(records))
	copy(out, records)
	if field == SortNone {
		return out
	}

	less := lessFunc(field)
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}

func lessFunc(field SortField) func(a, b models.LogRecord) bool {
	switch field {
	case SortTime:
		return func(a, b models.LogRecord) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortTokenName:
		return func(a, b models.LogRecord) bool { return strings.Compare(a.TokenName, b.TokenName) < 0 }
	case SortModel:
		return func(a, b models.LogRecord) bool { return strings.Compare(a.ModelName, b.ModelName) < 0 }
	case SortUseTime:
		return func(a, b models.LogRecord) bool { return a.UseTime < b.UseTime }
	case SortPrompt:
		return func(a, b models.LogRecord) bool { return a.PromptTokens < b.PromptTokens }
	case SortCompletion:
		return func(a, b models.LogRecord) bool { return a.CompletionTokens < b.CompletionTokens }
	default:
		return func(a, b models.LogRecord) bool { return a.Quota < b.Quota }
	}
}

// PageSizes are the selectable page sizes.
var PageSizes = []int{10, 20, 50, 100}

// DefaultPageSize is used until the user picks another size.
const DefaultPageSize = 10

// NextPageSize cycles through PageSizes.
func NextPageSize(current int) int {
	for i, size := range PageSizes {
		if size == current {
			return PageSizes[(i+1)%len(PageSizes)]
		}
	}
	return DefaultPageSize
}

// ValidPageSize reports whether size is selectable.
func ValidPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// Page returns the records on a zero-based page.
func Page(records []models.LogRecord, page, size int) []models.LogRecord {
	if size <= 0 || page < 0 {
		return nil
	}
	start := page * size
	if start >= len(records) {
		return nil
	}
	end := min(start+size, len(records))
	return records[start:end]
}
