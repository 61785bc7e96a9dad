// Package logrecord turns raw call-log entries into display-ready records
// and provides the column, ordering and aggregation views built on them.
package logrecord

import (
	"math"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/pricing"
)

// Defaults applied to pricing metadata keys that upstream omits.
const (
	defaultCompletionRatio = 0
	defaultGroupRatio      = 1
)

// Normalize converts a raw log entry into a LogRecord. It never fails; bad
// pricing metadata is recorded as PricingMalformed. Fractional quota is
// rounded to whole units.
func Normalize(raw models.RawLogEntry) models.LogRecord {
	return models.LogRecord{
		CreatedAt:        time.Unix(raw.CreatedAt, 0),
		TokenName:        raw.TokenName,
		ModelName:        raw.ModelName,
		Detail:           raw.Content,
		Pricing:          ParsePricing(string(raw.Other)),
		Type:             raw.Type,
		UseTime:          raw.UseTime,
		PromptTokens:     raw.PromptTokens,
		CompletionTokens: raw.CompletionTokens,
		Quota:            int64(math.Round(raw.Quota)),
		IsStream:         raw.IsStream,
	}
}

// NormalizeAll converts entries and reverses them so the newest comes first.
func NormalizeAll(entries []models.RawLogEntry) []models.LogRecord {
	records := make([]models.LogRecord, len(entries))
	for i, entry := range entries {
		records[len(entries)-1-i] = Normalize(entry)
	}
	return records
}

// ParsePricing decodes the pricing metadata attached to a log entry.
func ParsePricing(text string) models.PricingMeta {
	meta := models.PricingMeta{
		State:           models.PricingAbsent,
		ModelPrice:      pricing.NoModelPrice,
		CompletionRatio: defaultCompletionRatio,
		GroupRatio:      defaultGroupRatio,
	}

	text = strings.TrimSpace(text)
	if text == "" || text == "null" {
		return meta
	}
	if !gjson.Valid(text) {
		meta.State = models.PricingMalformed
		return meta
	}

	doc := gjson.Parse(text)
	if !doc.IsObject() {
		meta.State = models.PricingMalformed
		return meta
	}

	ratio := doc.Get("model_ratio")
	price := doc.Get("model_price")
	if !ratio.Exists() && !price.Exists() {
		return meta
	}

	meta.State = models.PricingPresent
	meta.ModelRatio = numberOr(ratio, 0)
	meta.ModelPrice = numberOr(price, pricing.NoModelPrice)
	meta.CompletionRatio = numberOr(doc.Get("completion_ratio"), defaultCompletionRatio)
	meta.GroupRatio = numberOr(doc.Get("group_ratio"), defaultGroupRatio)
	return meta
}

func numberOr(v gjson.Result, def float64) float64 {
	if v.Type != gjson.Number {
		return def
	}
	return v.Float()
}

// Explain returns the pricing explanation of a record, if it has one.
func Explain(r models.LogRecord) (pricing.Explanation, bool) {
	if r.Pricing.State != models.PricingPresent {
		return pricing.Explanation{}, false
	}
	p := r.Pricing
	return pricing.Breakdown(r.PromptTokens, r.CompletionTokens, p.ModelRatio, p.ModelPrice, p.CompletionRatio, p.GroupRatio), true
}
