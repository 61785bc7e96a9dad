package pricing

import "testing"

func TestQuotaToCurrency(t *testing.T) {
	tests := []struct {
		name    string
		quota   int64
		perUnit float64
		digits  int32
		want    string
	}{
		{"OneUnit", 500000, 500000, 2, "$1.00"},
		{"SixDigits", 1234, 500000, 6, "$0.002468"},
		{"Zero", 0, 500000, 2, "$0.00"},
		{"DefaultPerUnit", 500000, 0, 2, "$1.00"},
		{"CustomPerUnit", 1000, 1000, 3, "$1.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuotaToCurrency(tt.quota, tt.perUnit, tt.digits); got != tt.want {
				t.Errorf("QuotaToCurrency() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{9999, "9999"},
		{10000, "10.0k"},
		{123456, "123.5k"},
		{2500000, "2.5M"},
		{3000000000, "3.0B"},
	}

	for _, tt := range tests {
		if got := FormatCompact(tt.in); got != tt.want {
			t.Errorf("FormatCompact(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplayHelpers(t *testing.T) {
	if got := DisplayAmount(1.5, true, 500000, 3); got != "$1.500" {
		t.Errorf("DisplayAmount(currency) = %q", got)
	}
	if got := DisplayAmount(1.5, false, 500000, 3); got != "750000" {
		t.Errorf("DisplayAmount(quota) = %q", got)
	}
	if got := DisplayAmount(0, false, 0, 3); got != "0" {
		t.Errorf("DisplayAmount(default unit) = %q", got)
	}
	if got := DisplayQuota(25000, false, 500000, 6); got != "25.0k" {
		t.Errorf("DisplayQuota(quota) = %q", got)
	}
	if got := EquivalentAmount(500000, 500000, 2, true); got != "(Equivalent amount: $1.00)" {
		t.Errorf("EquivalentAmount() = %q", got)
	}
	if got := EquivalentAmount(500000, 500000, 2, false); got != "" {
		t.Errorf("EquivalentAmount(quota mode) = %q, want empty", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		text  string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is far too long", 10, "this is..."},
		{"héllo wörld", 8, "héllo..."},
		{"abcdef", 2, "ab"},
	}

	for _, tt := range tests {
		if got := Truncate(tt.text, tt.limit); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
		}
	}
}
