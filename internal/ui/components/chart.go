package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
)

// ChartPrimaryColor is the default series color.
var ChartPrimaryColor = lipgloss.Color("#7D56F4")

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	width = max(width, 20)
	height = max(height, 3)

	// A single point cannot be drawn as a line.
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Blue),
		asciigraph.Caption(caption),
	)
}

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Text  string
	Color lipgloss.Color
	Value float64
}

// RenderBarChart creates a horizontal bar chart. Text, when set, replaces the
// numeric value printed after each bar.
func RenderBarChart(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}

	// Find max value for scaling
	maxVal := 0.0
	maxLabelLen := 0
	for _, b := range bars {
		maxVal = max(maxVal, b.Value)
		maxLabelLen = max(maxLabelLen, lipgloss.Width(b.Label))
	}
	if maxVal == 0 {
		maxVal = 1
	}

	barWidth := max(width-maxLabelLen-16, 10)

	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		paddedLabel := strings.Repeat(" ", maxLabelLen-lipgloss.Width(b.Label)) + b.Label

		barLen := max(int((b.Value/maxVal)*float64(barWidth)), 0)

		color := b.Color
		if color == "" {
			color = ChartPrimaryColor
		}
		bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", barLen))

		valueStr := b.Text
		if valueStr == "" {
			valueStr = fmt.Sprintf("%.1f", b.Value)
		}

		lines = append(lines, paddedLabel+" │"+bar+" "+valueStr)
	}

	return strings.Join(lines, "\n")
}

// RenderColoredSparkline creates a sparkline where heavier spend is warmer.
func RenderColoredSparkline(values []float64, width int) string {
	return renderSparkline(values, width, func(share float64, r rune) string {
		return styles.GetBalanceStyle(100 - share*100).Render(string(r))
	})
}

func renderSparkline(values []float64, width int, render func(share float64, r rune) string) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Sample values to fit width
	step := max(float64(len(values))/float64(width), 1)

	var result strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		share := values[int(float64(i)*step)] / maxVal
		idx := min(max(int(share*float64(len(sparkChars)-1)), 0), len(sparkChars)-1)
		result.WriteString(render(share, sparkChars[idx]))
	}

	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}
