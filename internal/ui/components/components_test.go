package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/token-usage-tui/internal/palette"
)

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Loading")
	if s.label != "Loading" {
		t.Error("Spinner label mismatch")
	}
}

func TestSpinner_Methods(t *testing.T) {
	s := NewSpinner("Querying")

	if s.View() == "" {
		t.Error("View returned empty")
	}
	if !strings.Contains(s.ViewWithLabel(), "Querying") {
		t.Error("ViewWithLabel should contain label")
	}

	if s.Init() == nil {
		t.Error("Init should return command")
	}

	s, cmd := s.Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("Update should return command for tick")
	}
	if s.Frame() != 1 {
		t.Errorf("Frame() = %d, want 1 after one tick", s.Frame())
	}

	if s.Tick() == nil {
		t.Error("Tick should return command")
	}
}

func TestSpinner_Elapsed(t *testing.T) {
	s := NewSpinner("Querying")
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	if s.Running() {
		t.Error("spinner should not be running before Start")
	}

	s.Start(start)
	if !s.Running() {
		t.Error("spinner should be running after Start")
	}
	if view := s.ViewElapsed(start.Add(3500 * time.Millisecond)); !strings.Contains(view, "3s") {
		t.Errorf("ViewElapsed() = %q, want elapsed 3s", view)
	}

	s.Stop()
	if s.Running() {
		t.Error("spinner should stop")
	}
}

func TestRenderLineChart(t *testing.T) {
	if s := RenderLineChart([]float64{1, 2, 3, 4}, 20, 5, "Daily cost"); !strings.Contains(s, "Daily cost") {
		t.Error("RenderLineChart should include caption")
	}
	if s := RenderLineChart([]float64{5}, 20, 5, ""); s == "" {
		t.Error("single point chart returned empty")
	}
	if s := RenderLineChart(nil, 20, 5, ""); !strings.Contains(s, "No data") {
		t.Errorf("empty chart = %q", s)
	}
}

func TestRenderBarChart(t *testing.T) {
	bars := []Bar{
		{Label: "gpt-4", Value: 20, Text: "$0.04", Color: lipgloss.Color("#ff0000")},
		{Label: "claude", Value: 10},
	}
	s := RenderBarChart(bars, 60)
	lines := strings.Split(s, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "$0.04") {
		t.Errorf("first line should use Text, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "10.0") {
		t.Errorf("second line should fall back to value, got %q", lines[1])
	}
	if strings.Count(lines[0], "█") <= strings.Count(lines[1], "█") {
		t.Error("larger value should draw a longer bar")
	}

	if RenderBarChart(nil, 60) != "" {
		t.Error("empty bar chart should render nothing")
	}
}

func TestRenderColoredSparkline(t *testing.T) {
	if RenderColoredSparkline([]float64{1, 2, 3}, 10) == "" {
		t.Error("RenderColoredSparkline returned empty")
	}
}

func TestRenderLegend(t *testing.T) {
	items := []LegendItem{{Label: "A", Color: lipgloss.Color("#ffffff")}}
	if !strings.Contains(RenderLegend(items), "A") {
		t.Error("RenderLegend missing label")
	}
}

func TestRenderTags(t *testing.T) {
	if !strings.Contains(RenderTag("gpt-4"), "gpt-4") {
		t.Error("RenderTag missing label")
	}
	if RenderTag("") != "" {
		t.Error("empty tag should render nothing")
	}
	if !strings.Contains(RenderColorTag("Stream", palette.Blue), "Stream") {
		t.Error("RenderColorTag missing label")
	}
}
