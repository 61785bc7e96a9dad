package logrecord

import (
	"strconv"

	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/pricing"
)

// TimeLayout is the timestamp format used in tables and exports.
const TimeLayout = "2006-01-02 15:04:05"

// UnsupportedPricing is shown when pricing metadata cannot be decoded.
const UnsupportedPricing = "This version does not support displaying calculation details"

// CostDigits is the precision of the cost column.
const CostDigits = 6

// UseTimeLevel grades how long a call took.
type UseTimeLevel int

// Use-time grades.
const (
	UseTimeFast UseTimeLevel = iota
	UseTimeSlow
	UseTimeVerySlow
)

// LevelFor grades a call duration in seconds.
func LevelFor(seconds int64) UseTimeLevel {
	switch {
	case seconds < 101:
		return UseTimeFast
	case seconds < 300:
		return UseTimeSlow
	default:
		return UseTimeVerySlow
	}
}

// Options controls how amounts are rendered.
type Options struct {
	QuotaPerUnit float64
	InCurrency   bool
}

// Row is the display form of a record. Suppressed columns are empty.
type Row struct {
	Time         string
	TokenName    string
	Model        string
	UseTime      string
	Stream       string
	Prompt       string
	Completion   string
	Cost         string
	Detail       string
	Tooltip      string
	UseTimeLevel UseTimeLevel
}

// Columns renders a record for display.
func Columns(r models.LogRecord, opts Options) Row {
	row := Row{
		Time:   r.CreatedAt.Local().Format(TimeLayout),
		Detail: r.Detail,
	}

	billable := r.Billable()
	reserved := r.Reserved()

	if billable {
		row.TokenName = r.TokenName
		row.Model = r.ModelName
		if opts.InCurrency {
			row.Cost = pricing.QuotaToCurrency(r.Quota, opts.QuotaPerUnit, CostDigits)
		} else {
			row.Cost = strconv.FormatInt(r.Quota, 10)
		}
	}

	if !reserved {
		row.UseTime = strconv.FormatInt(r.UseTime, 10) + " s"
		row.UseTimeLevel = LevelFor(r.UseTime)
		if r.IsStream {
			row.Stream = "Stream"
		} else {
			row.Stream = "Not Stream"
		}
		if billable {
			row.Prompt = strconv.FormatInt(r.PromptTokens, 10)
			if r.CompletionTokens > 0 {
				row.Completion = strconv.FormatInt(r.CompletionTokens, 10)
			}
		}
	}

	row.Tooltip = Tooltip(r)
	return row
}

// Tooltip returns the pricing explanation text for the details column.
func Tooltip(r models.LogRecord) string {
	switch r.Pricing.State {
	case models.PricingMalformed:
		return UnsupportedPricing
	case models.PricingPresent:
		explanation, _ := Explain(r)
		return explanation.String()
	default:
		return ""
	}
}
