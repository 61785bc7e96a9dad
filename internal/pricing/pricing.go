// Package pricing derives cost figures and their textual explanations from
// token counts and pricing ratios.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultQuotaPerUnit is the number of quota units in one currency unit.
const DefaultQuotaPerUnit = 500000

// NoModelPrice marks a per-token priced model.
const NoModelPrice = -1

// DisplayDigits is the precision of a computed total.
const DisplayDigits = 6

var (
	ratioScale = decimal.NewFromInt(2)
	perMillion = decimal.NewFromInt(1000000)
)

// Explanation is a price breakdown for one log entry.
type Explanation struct {
	FlatPrice        decimal.Decimal
	InputRate        decimal.Decimal
	CompletionRate   decimal.Decimal
	Total            decimal.Decimal
	PromptTokens     int64
	CompletionTokens int64
	Flat             bool
}

// Breakdown computes the price of a call. A model price other than -1 is a
// flat per-call charge; otherwise the ratios give per-million-token rates,
// where a ratio of 1 is $2 per million tokens.
func Breakdown(prompt, completion int64, modelRatio, modelPrice, completionRatio, groupRatio float64) Explanation {
	group := decimal.NewFromFloat(groupRatio)

	if modelPrice != NoModelPrice {
		flat := decimal.NewFromFloat(modelPrice).Mul(group)
		return Explanation{
			Flat:             true,
			FlatPrice:        flat,
			Total:            flat,
			PromptTokens:     prompt,
			CompletionTokens: completion,
		}
	}

	ratio := decimal.NewFromFloat(modelRatio)
	inputRate := ratio.Mul(ratioScale).Mul(group)
	completionRate := ratio.Mul(ratioScale).Mul(decimal.NewFromFloat(completionRatio)).Mul(group)

	total := decimal.NewFromInt(prompt).Div(perMillion).Mul(inputRate).
		Add(decimal.NewFromInt(completion).Div(perMillion).Mul(completionRate))

	return Explanation{
		InputRate:        inputRate,
		CompletionRate:   completionRate,
		Total:            total,
		PromptTokens:     prompt,
		CompletionTokens: completion,
	}
}

// TotalText returns the total rounded for display.
func (e Explanation) TotalText() string {
	return e.Total.StringFixed(DisplayDigits)
}

// Lines returns the explanation as display lines.
func (e Explanation) Lines() []string {
	if e.Flat {
		return []string{"Model price: $" + e.FlatPrice.String()}
	}
	return []string{
		"Prompt $" + e.InputRate.String() + " / 1M tokens",
		"Completion $" + e.CompletionRate.String() + " / 1M tokens",
		"",
		"Prompt " + decimal.NewFromInt(e.PromptTokens).String() + " tokens / 1M tokens * $" + e.InputRate.String() +
			" + Completion " + decimal.NewFromInt(e.CompletionTokens).String() + " tokens / 1M tokens * $" +
			e.CompletionRate.String() + " = $" + e.TotalText(),
	}
}

// String implements fmt.Stringer.
func (e Explanation) String() string {
	return strings.Join(e.Lines(), "\n")
}
