package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/j-veylop/token-usage-tui/internal/export"
	"github.com/j-veylop/token-usage-tui/internal/logrecord"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/palette"
	"github.com/j-veylop/token-usage-tui/internal/pricing"
	"github.com/j-veylop/token-usage-tui/internal/ui/components"
	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
)

var nowFunc = time.Now

// Column positions in the log table.
const (
	colTime = iota
	colToken
	colModel
	colUseTime
	colStream
	colPrompt
	colCompletion
	colCost
	colDetail
)

var logHeaders = []string{"Time", "Token", "Model", "Use Time", "Stream", "Prompt", "Completion", "Cost", "Details"}

const detailWidth = 32

// View renders the query tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderInput())

	flags := m.state.Flags()
	session := m.state.ActiveSession()

	if flags.ShowBalance {
		sections = append(sections, m.renderBalance(session))
	}

	if flags.ShowDetail {
		if m.showDetail {
			sections = append(sections, m.renderDetail())
		} else {
			sections = append(sections, m.renderLogs())
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Render(content)
}

func (m *Model) renderTitle() string {
	endpoint := m.state.ActiveEndpoint()
	title := styles.TitleStyle.Render("Token Usage")

	subtitle := fmt.Sprintf("Endpoint %s", endpoint)
	if ep, ok := m.findEndpoint(endpoint); ok {
		subtitle = fmt.Sprintf("Endpoint %s (%s)", ep.Key, ep.BaseURL)
	}
	if updated := m.state.LastUpdated(endpoint); !updated.IsZero() {
		subtitle += " · updated " + updated.Format("15:04:05")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(subtitle))
}

func (m *Model) findEndpoint(key string) (models.Endpoint, bool) {
	for _, ep := range m.state.Endpoints() {
		if ep.Key == key {
			return ep, true
		}
	}
	return models.Endpoint{}, false
}

func (m *Model) renderInput() string {
	style := styles.BlurredBorderStyle
	if m.input.Focused() {
		style = styles.FocusedBorderStyle
	}

	line := m.input.View()
	if m.state.IsQuerying(m.state.ActiveEndpoint()) {
		line = lipgloss.JoinHorizontal(lipgloss.Center, line, "  ", m.spinner.ViewElapsed(nowFunc()))
	}

	hint := "enter to query · esc to leave the field"
	if !m.input.Focused() {
		hint = "/ to edit the token"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		style.Render(line),
		styles.HelpStyle.Render(hint),
		"",
	)
}

func (m *Model) cardWidth() int {
	return max(m.width-8, 60)
}

func (m *Model) renderBalance(s models.EndpointSession) string {
	width := m.cardWidth()
	prefs := m.state.Preferences()
	perUnit := m.state.QuotaPerUnit()

	rows := []string{styles.CardTitleStyle.Render("Balance")}

	if !s.TokenValid {
		if m.state.IsQuerying(m.state.ActiveEndpoint()) {
			rows = append(rows, components.LoadingBar(width-6, m.spinner.Frame()))
			return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
		}
		rows = append(rows, styles.HelpStyle.Render("Enter a token and press enter to query its balance."))
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	amount := func(a models.Amount) string {
		if !a.Known {
			return "Unknown"
		}
		return pricing.DisplayAmount(a.Value, prefs.DisplayInCurrency, perUnit, 3)
	}

	label := lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(16)
	line := func(name, value string, style lipgloss.Style) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, label.Render(name), style.Render(value))
	}
	balanceStyle := lipgloss.NewStyle().Foreground(styles.Balance).Bold(true)
	spentStyle := lipgloss.NewStyle().Foreground(styles.Spent)

	if s.IsUnlimited() {
		rows = append(rows,
			line("Total Amount", "Unlimited", styles.UnlimitedStyle),
			line("Remaining", "Unlimited", styles.UnlimitedStyle),
			line("Used", "Not calculated", styles.HelpStyle),
		)
	} else {
		rows = append(rows,
			line("Total Amount", amount(s.Balance), balanceStyle),
			line("Remaining", amount(s.Remaining()), balanceStyle),
			line("Used", amount(s.Usage), spentStyle),
		)
	}
	rows = append(rows, line("Valid Until", export.ExpiryText(s), styles.InfoTextStyle), "")

	switch {
	case s.IsUnlimited():
		rows = append(rows, m.bar.ViewUnlimited("Remaining", width-6))
	case s.Balance.Known && s.Usage.Known:
		rows = append(rows, m.bar.View(m.bar.Current(), "Remaining", width-6))
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderLogs() string {
	width := m.cardWidth()
	title := styles.CardTitleStyle.Render("Call Details")

	if len(m.logs) == 0 {
		body := lipgloss.JoinVertical(lipgloss.Left,
			title,
			styles.HelpStyle.Render("No call records."),
		)
		return styles.CardStyle.Width(width).Render(body)
	}

	prefs := m.state.Preferences()
	opts := logrecord.Options{QuotaPerUnit: m.state.QuotaPerUnit(), InCurrency: prefs.DisplayInCurrency}

	page := m.pageLogs()
	rows := make([]logrecord.Row, len(page))
	cells := make([][]string, len(page))
	for i, r := range page {
		rows[i] = logrecord.Columns(r, opts)
		cells[i] = rowCells(rows[i])
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Subtle)).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		BorderBottom(false).
		Headers(logHeaders...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHeaderStyle
			}
			base := styles.TableCellStyle
			if row == m.cursor {
				base = styles.TableSelectedStyle
			}
			if row < 0 || row >= len(rows) {
				return base
			}
			return cellStyle(base, rows[row], col)
		})

	footer := fmt.Sprintf("Total %d items · %s · page size %d · sort %s %s",
		len(m.logs), m.paginator.View(), m.paginator.PerPage, m.sortField, direction(m.ascending))

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		t.Render(),
		"",
		styles.HelpStyle.Render(footer),
	)
	return styles.CardStyle.Width(width).Render(body)
}

func rowCells(r logrecord.Row) []string {
	return []string{
		r.Time,
		r.TokenName,
		r.Model,
		r.UseTime,
		r.Stream,
		r.Prompt,
		r.Completion,
		r.Cost,
		pricing.Truncate(strings.ReplaceAll(r.Detail, "\n", " "), detailWidth),
	}
}

// cellStyle colors the token, model, stream and use time cells.
func cellStyle(base lipgloss.Style, r logrecord.Row, col int) lipgloss.Style {
	switch col {
	case colToken:
		return base.Foreground(lipgloss.Color(palette.Grey.Hex()))
	case colModel:
		if r.Model != "" {
			return base.Foreground(lipgloss.Color(palette.ColorFor(r.Model).Hex()))
		}
	case colStream:
		return base.Foreground(lipgloss.Color(streamColor(r.Stream).Hex()))
	case colUseTime:
		if r.UseTime != "" {
			return base.Inherit(styles.GetUseTimeStyle(r.UseTimeLevel))
		}
	case colPrompt, colCompletion, colCost:
		return base.Align(lipgloss.Right)
	}
	return base
}

func streamColor(stream string) palette.Color {
	if stream == "Stream" {
		return palette.Blue
	}
	return palette.Purple
}

func direction(ascending bool) string {
	if ascending {
		return "asc"
	}
	return "desc"
}

func (m *Model) renderDetail() string {
	width := m.cardWidth()
	r, ok := m.Selected()
	if !ok {
		return ""
	}

	prefs := m.state.Preferences()
	perUnit := m.state.QuotaPerUnit()
	row := logrecord.Columns(r, logrecord.Options{QuotaPerUnit: perUnit, InCurrency: prefs.DisplayInCurrency})

	label := lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(14)
	field := func(name, value string) string {
		if value == "" {
			value = "-"
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, label.Render(name), value)
	}

	lines := []string{
		styles.CardTitleStyle.Render("Call Detail"),
		field("Time", row.Time),
		field("Token", components.RenderColorTag(row.TokenName, palette.Grey)),
		field("Model", components.RenderTag(row.Model)),
		field("Use Time", row.UseTime),
		field("Stream", components.RenderColorTag(row.Stream, streamColor(row.Stream))),
		field("Prompt", row.Prompt),
		field("Completion", row.Completion),
		field("Cost", row.Cost),
		"",
		styles.SubTitleStyle.Render("Details"),
		lipgloss.NewStyle().Width(width - 8).Render(orDash(row.Detail)),
	}

	if row.Tooltip != "" {
		lines = append(lines,
			styles.SubTitleStyle.Render("Pricing"),
			lipgloss.NewStyle().Width(width-8).Render(row.Tooltip),
		)
		if eq := pricing.EquivalentAmount(r.Quota, perUnit, logrecord.CostDigits, prefs.DisplayInCurrency); eq != "" && r.Billable() {
			lines = append(lines, styles.HelpStyle.Render(eq))
		}
	}

	lines = append(lines, "", styles.HelpStyle.Render("esc to close · y to copy details"))

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
