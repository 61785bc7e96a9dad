// Package styles holds the lipgloss theme shared by every tab.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/token-usage-tui/internal/logrecord"
)

// Theme colors, ANSI 256.
var (
	Primary   = lipgloss.Color("205")
	Secondary = lipgloss.Color("63")
	Subtle    = lipgloss.Color("240")

	Balance = lipgloss.Color("39")
	Spent   = lipgloss.Color("208")

	Success = lipgloss.Color("42")
	Error   = lipgloss.Color("196")
	Warning = lipgloss.Color("220")
	Info    = lipgloss.Color("39")

	BgDark   = lipgloss.Color("235")
	BgAccent = lipgloss.Color("236")
	BgLight  = lipgloss.Color("237")

	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")

	onAccent = lipgloss.Color("229")
)

// Layout.
var (
	DocStyle = lipgloss.NewStyle().Margin(1, 2).Padding(0, 1)

	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)
	SubTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Secondary).MarginBottom(1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Subtle).
			Padding(1, 2).
			MarginBottom(1)
	CardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)

	HelpStyle = lipgloss.NewStyle().Foreground(TextMuted)
)

// Overlays: help panel, manual copy box and toasts.
var (
	HelpPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Primary).
			Padding(1, 3).
			Background(BgDark)

	ModalContentStyle = lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(Warning).
				Padding(1, 2).
				Background(BgDark)

	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// Token input.
var (
	FocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Primary).
				Padding(0, 1)

	BlurredBorderStyle = FocusedBorderStyle.BorderForeground(Subtle)
)

// Endpoint switcher in the navbar.
var (
	EndpointActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(onAccent).
				Background(Secondary).
				Padding(0, 1)

	EndpointInactiveStyle = lipgloss.NewStyle().Foreground(TextSecondary).Padding(0, 1)
)

// Call log table.
var (
	TableHeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(Primary).Padding(0, 1)
	TableCellStyle     = lipgloss.NewStyle().Padding(0, 1)
	TableSelectedStyle = TableCellStyle.Background(BgAccent).Foreground(TextPrimary).Bold(true)
)

// Amounts and status text.
var (
	UnlimitedStyle = lipgloss.NewStyle().Foreground(Secondary).Bold(true).Italic(true)

	SuccessTextStyle = lipgloss.NewStyle().Foreground(Success)
	InfoTextStyle    = lipgloss.NewStyle().Foreground(Info)
)

var (
	balanceHigh   = lipgloss.NewStyle().Foreground(Success)
	balanceMedium = lipgloss.NewStyle().Foreground(Warning)
	balanceLow    = lipgloss.NewStyle().Foreground(Error)
)

// GetBalanceStyle returns green above 50% remaining, yellow above 20% and red
// otherwise.
func GetBalanceStyle(percentRemaining float64) lipgloss.Style {
	switch {
	case percentRemaining > 50:
		return balanceHigh
	case percentRemaining > 20:
		return balanceMedium
	default:
		return balanceLow
	}
}

// GetUseTimeStyle colors a response time bucket.
func GetUseTimeStyle(level logrecord.UseTimeLevel) lipgloss.Style {
	switch level {
	case logrecord.UseTimeFast:
		return balanceHigh
	case logrecord.UseTimeSlow:
		return balanceMedium
	case logrecord.UseTimeVerySlow:
		return balanceLow
	default:
		return HelpStyle
	}
}

// TagStyle renders a label chip on the given hex background.
func TagStyle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(hex)).
		Padding(0, 1)
}
