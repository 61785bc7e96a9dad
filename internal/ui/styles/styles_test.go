package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/token-usage-tui/internal/logrecord"
)

func TestGetBalanceStyle(t *testing.T) {
	tests := []struct {
		percent float64
		want    lipgloss.TerminalColor
	}{
		{100, Success},
		{50.1, Success},
		{50, Warning},
		{20.1, Warning},
		{20, Error},
		{0, Error},
	}

	for _, tt := range tests {
		if got := GetBalanceStyle(tt.percent).GetForeground(); got != tt.want {
			t.Errorf("GetBalanceStyle(%v) foreground = %v, want %v", tt.percent, got, tt.want)
		}
	}
}

func TestGetUseTimeStyle(t *testing.T) {
	tests := []struct {
		level logrecord.UseTimeLevel
		want  lipgloss.TerminalColor
	}{
		{logrecord.UseTimeFast, Success},
		{logrecord.UseTimeSlow, Warning},
		{logrecord.UseTimeVerySlow, Error},
	}

	for _, tt := range tests {
		if got := GetUseTimeStyle(tt.level).GetForeground(); got != tt.want {
			t.Errorf("GetUseTimeStyle(%v) foreground = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestTagStyle(t *testing.T) {
	if got := TagStyle("#123456").GetBackground(); got != lipgloss.Color("#123456") {
		t.Errorf("TagStyle background = %v", got)
	}
}
