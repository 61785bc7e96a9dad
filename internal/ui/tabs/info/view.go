package info

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/token-usage-tui/internal/logrecord"
	"github.com/j-veylop/token-usage-tui/internal/ui/components"
	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
	"github.com/j-veylop/token-usage-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	return styles.DocStyle.Width(m.width).Render(m.viewport.View())
}

func (m *Model) content() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderEndpointsCard(),
		m.renderExportsCard(),
		m.renderAboutCard(),
	)
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return max(min(m.width-6, 90), 50)
}

// renderConfigCard renders the configuration card.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))

	if m.config != nil {
		prefs := m.state.Preferences()
		rows = append(rows, m.renderConfigRow("Database", m.config.DatabasePath))
		rows = append(rows, m.renderConfigRow("Export Dir", m.config.ExportDir))
		rows = append(rows, m.renderConfigRow("Log File", m.config.LogPath))
		rows = append(rows, m.renderConfigRow("Log Level", m.config.LogLevel))
		rows = append(rows, m.renderConfigRow("Quota Per Unit", strconv.FormatFloat(m.config.QuotaPerUnit, 'f', -1, 64)))
		rows = append(rows, m.renderConfigRow("Request Timeout", m.config.RequestTimeout.String()))
		rows = append(rows, m.renderConfigRow("Show Balance", onOff(m.config.ShowBalance)))
		rows = append(rows, m.renderConfigRow("Show Detail", onOff(m.config.ShowDetail)))
		rows = append(rows, m.renderConfigRow("Desktop Notify", onOff(m.config.DesktopNotify)))
		rows = append(rows, m.renderConfigRow("Display Unit", unitName(prefs.DisplayInCurrency)))
		rows = append(rows, m.renderConfigRow("Page Size", strconv.Itoa(prefs.PageSize)))
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func unitName(inCurrency bool) string {
	if inCurrency {
		return "currency"
	}
	return "quota"
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderEndpointsCard() string {
	rows := []string{styles.CardTitleStyle.Render("Endpoints")}

	endpoints := m.state.Endpoints()
	if len(endpoints) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No endpoints configured"))
	}

	active := m.state.ActiveEndpoint()
	for _, ep := range endpoints {
		marker := "  "
		if ep.Key == active {
			marker = styles.SuccessTextStyle.Render("* ")
		}
		session := m.state.Session(ep.Key)
		status := styles.HelpStyle.Render("not queried")
		if session.TokenValid {
			status = styles.SuccessTextStyle.Render(fmt.Sprintf("%d records", len(session.Logs)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			marker,
			components.RenderTag(ep.Key),
			" ",
			lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(ep.BaseURL),
			"  ",
			status,
		))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderExportsCard() string {
	rows := []string{styles.CardTitleStyle.Render("Recent Exports")}

	if len(m.recent) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No exports yet. Press 'e' on the Query tab to export logs."))
	}
	for _, rec := range m.recent {
		rows = append(rows, fmt.Sprintf("%s  %s  %s  %s",
			styles.HelpStyle.Render(rec.CreatedAt.Local().Format(logrecord.TimeLayout)),
			components.RenderTag(rec.Endpoint),
			filepath.Base(rec.Path),
			styles.InfoTextStyle.Render(fmt.Sprintf("%d rows", rec.Rows)),
		))
	}

	rows = append(rows, "", styles.HelpStyle.Render("c copies the latest export path · C the export directory"))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About "+version.Name))

	rows = append(rows, m.renderConfigRow("Version", version.GetVersion()))
	rows = append(rows, m.renderConfigRow("Build Date", version.GetDate()))
	rows = append(rows, m.renderConfigRow("Git Commit", version.GetCommit()))
	rows = append(rows, m.renderConfigRow("Go Version", runtime.Version()))
	rows = append(rows, m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))
	rows = append(rows, m.renderConfigRow("Queries", fmt.Sprintf("%d (%d failed, %d superseded)",
		m.stats.Queries, m.stats.Failures, m.stats.Superseded)))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
