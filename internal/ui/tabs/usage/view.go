package usage

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/j-veylop/token-usage-tui/internal/logrecord"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/palette"
	"github.com/j-veylop/token-usage-tui/internal/pricing"
	"github.com/j-veylop/token-usage-tui/internal/ui/components"
	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
)

// maxModelBars caps the per-model chart.
const maxModelBars = 10

// View renders the usage tab.
func (m *Model) View() string {
	records := m.records()
	if len(records) == 0 {
		return m.renderEmpty()
	}

	sections := []string{
		m.renderHeader(),
		m.renderSummary(records),
		m.renderDailyChart(records),
		m.renderModelChart(records),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderEmpty() string {
	hint := "Query a token on the Query tab to see its usage."
	if len(m.state.ActiveSession().Logs) > 0 {
		hint = fmt.Sprintf("No records in the selected range (%s). Press t to widen it.", m.timeRange)
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Usage"),
		"",
		styles.HelpStyle.Render("No usage data available."),
		styles.HelpStyle.Render(hint),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("Usage: " + pricing.Truncate(m.state.ActiveEndpoint(), 40))

	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)

	rangeIndicator := rangeStyle.Render(fmt.Sprintf("[t] %s", m.timeRange.String()))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", rangeIndicator),
		"",
	)
}

// amount converts a quota figure to the chart unit.
func (m *Model) amount(quota int64) float64 {
	if !m.state.Preferences().DisplayInCurrency {
		return float64(quota)
	}
	perUnit := m.state.QuotaPerUnit()
	if perUnit <= 0 {
		return float64(quota)
	}
	return decimal.NewFromInt(quota).Div(decimal.NewFromFloat(perUnit)).InexactFloat64()
}

func (m *Model) display(quota int64) string {
	return pricing.DisplayQuota(quota, m.state.Preferences().DisplayInCurrency, m.state.QuotaPerUnit(), 2)
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderSummary(records []models.LogRecord) string {
	var calls int
	var prompt, completion int64
	for _, r := range records {
		if !r.Billable() {
			continue
		}
		calls++
		prompt += r.PromptTokens
		completion += r.CompletionTokens
	}
	total := logrecord.TotalQuota(records)

	daily := logrecord.DailyCost(records)
	values := make([]float64, len(daily))
	for i, d := range daily {
		values[i] = m.amount(d.Quota)
	}

	stat := func(label, value string, color lipgloss.TerminalColor) string {
		return lipgloss.JoinVertical(lipgloss.Left,
			styles.HelpStyle.Render(label),
			lipgloss.NewStyle().Foreground(color).Bold(true).Render(value),
		)
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Total Cost", m.display(total), styles.Spent), "    ",
		stat("Calls", fmt.Sprintf("%d", calls), styles.Info), "    ",
		stat("Prompt", pricing.FormatCompact(prompt), styles.TextPrimary), "    ",
		stat("Completion", pricing.FormatCompact(completion), styles.TextPrimary),
	)

	rows := []string{styles.CardTitleStyle.Render("Summary"), row}
	if len(values) > 1 {
		rows = append(rows, "", components.RenderColoredSparkline(values, min(len(values)*2, m.cardWidth()-8)))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderDailyChart(records []models.LogRecord) string {
	cardWidth := m.cardWidth()
	rows := []string{styles.CardTitleStyle.Render("Daily Cost")}

	daily := logrecord.DailyCost(records)
	if len(daily) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No billable calls"))
	} else {
		values := make([]float64, len(daily))
		for i, d := range daily {
			values[i] = m.amount(d.Quota)
		}

		caption := fmt.Sprintf("%s · %s → %s", m.rangeLabel(),
			daily[0].Day.Format("Jan 2"), daily[len(daily)-1].Day.Format("Jan 2"))
		chart := components.RenderLineChart(values, max(cardWidth-16, 30), 8, caption)
		for line := range strings.SplitSeq(chart, "\n") {
			rows = append(rows, "  "+line)
		}

		peak := daily[0]
		for _, d := range daily[1:] {
			if d.Quota > peak.Quota {
				peak = d
			}
		}
		rows = append(rows, "", fmt.Sprintf("  Peak: %s (%s, %d calls)",
			lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Render(peak.Day.Format("Mon Jan 2")),
			m.display(peak.Quota),
			peak.Calls,
		))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderModelChart(records []models.LogRecord) string {
	cardWidth := m.cardWidth()
	rows := []string{styles.CardTitleStyle.Render("Cost by Model")}

	totals := logrecord.ModelTotals(records)
	if len(totals) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No billable calls"))
		return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	shown := totals
	if len(shown) > maxModelBars {
		shown = shown[:maxModelBars]
	}

	bars := make([]components.Bar, 0, len(shown))
	legend := make([]components.LegendItem, 0, len(shown))
	for _, t := range shown {
		color := lipgloss.Color(palette.ModelHex(t.Model))
		bars = append(bars, components.Bar{
			Label: pricing.Truncate(t.Model, 24),
			Value: float64(t.Quota),
			Text:  fmt.Sprintf("%s · %d calls", m.display(t.Quota), t.Calls),
			Color: color,
		})
		legend = append(legend, components.LegendItem{Label: t.Model, Color: color})
	}

	chart := components.RenderBarChart(bars, max(cardWidth-8, 30))
	for line := range strings.SplitSeq(chart, "\n") {
		rows = append(rows, "  "+line)
	}
	if hidden := len(totals) - len(shown); hidden > 0 {
		rows = append(rows, styles.HelpStyle.Render(fmt.Sprintf("  … %d more models", hidden)))
	}
	rows = append(rows, "", "  "+components.RenderLegend(legend))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
