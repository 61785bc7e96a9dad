package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func perUnitOrDefault(quotaPerUnit float64) decimal.Decimal {
	if quotaPerUnit <= 0 {
		return decimal.NewFromInt(DefaultQuotaPerUnit)
	}
	return decimal.NewFromFloat(quotaPerUnit)
}

// QuotaToCurrency renders a quota amount as currency with fixed digits.
func QuotaToCurrency(quota int64, quotaPerUnit float64, digits int32) string {
	return "$" + QuotaWithUnit(quota, quotaPerUnit, digits)
}

// QuotaWithUnit converts quota into currency units without a symbol.
func QuotaWithUnit(quota int64, quotaPerUnit float64, digits int32) string {
	return decimal.NewFromInt(quota).Div(perUnitOrDefault(quotaPerUnit)).StringFixed(digits)
}

// DisplayAmount renders a currency amount either as currency or as quota units.
func DisplayAmount(amount float64, inCurrency bool, quotaPerUnit float64, digits int32) string {
	if inCurrency {
		return "$" + decimal.NewFromFloat(amount).StringFixed(digits)
	}
	return decimal.NewFromFloat(amount).Mul(perUnitOrDefault(quotaPerUnit)).Round(0).String()
}

// DisplayQuota renders a quota figure in the configured unit.
func DisplayQuota(quota int64, inCurrency bool, quotaPerUnit float64, digits int32) string {
	if inCurrency {
		return QuotaToCurrency(quota, quotaPerUnit, digits)
	}
	return FormatCompact(quota)
}

// EquivalentAmount annotates a quota figure with its currency value. It is
// empty when amounts are shown in quota units.
func EquivalentAmount(quota int64, quotaPerUnit float64, digits int32, inCurrency bool) string {
	if !inCurrency {
		return ""
	}
	return "(Equivalent amount: " + QuotaToCurrency(quota, quotaPerUnit, digits) + ")"
}

// FormatCompact abbreviates large counts with k, M and B suffixes.
func FormatCompact(n int64) string {
	switch {
	case n >= 1000000000:
		return decimal.NewFromInt(n).Div(decimal.NewFromInt(1000000000)).StringFixed(1) + "B"
	case n >= 1000000:
		return decimal.NewFromInt(n).Div(decimal.NewFromInt(1000000)).StringFixed(1) + "M"
	case n >= 10000:
		return decimal.NewFromInt(n).Div(decimal.NewFromInt(1000)).StringFixed(1) + "k"
	default:
		return fmt.Sprintf("%d", n)
	}
}

// Truncate shortens text to limit runes, ending in an ellipsis.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
