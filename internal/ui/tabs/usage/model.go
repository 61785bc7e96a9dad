// Package usage provides the usage tab: spend over time and per model for the
// active endpoint's call log.
package usage

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/token-usage-tui/internal/app"
	"github.com/j-veylop/token-usage-tui/internal/models"
)

// TimeRange limits which records the charts cover.
type TimeRange int

// Selectable ranges.
const (
	RangeAll TimeRange = iota
	Range7Days
	Range30Days
)

// String returns a display label for the range.
func (r TimeRange) String() string {
	switch r {
	case Range7Days:
		return "7 days"
	case Range30Days:
		return "30 days"
	default:
		return "All"
	}
}

// Next cycles to the following range.
func (r TimeRange) Next() TimeRange {
	return (r + 1) % 3
}

// Days returns the window length, or 0 for no limit.
func (r TimeRange) Days() int {
	switch r {
	case Range7Days:
		return 7
	case Range30Days:
		return 30
	default:
		return 0
	}
}

// Filter keeps the records created inside the range ending at now.
func (r TimeRange) Filter(records []models.LogRecord, now time.Time) []models.LogRecord {
	days := r.Days()
	if days == 0 {
		return records
	}
	cutoff := now.AddDate(0, 0, -days)
	out := make([]models.LogRecord, 0, len(records))
	for _, rec := range records {
		if !rec.CreatedAt.Before(cutoff) {
			out = append(out, rec)
		}
	}
	return out
}

// keyMap defines the key bindings specific to the usage tab.
type keyMap struct {
	ToggleRange key.Binding
	Currency    key.Binding
	Up          key.Binding
	Down        key.Binding
}

// defaultKeyMap returns the default key bindings for the usage tab.
func defaultKeyMap() keyMap {
	return keyMap{
		ToggleRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle time range"),
		),
		Currency: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "currency/quota"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the usage tab state.
type Model struct {
	state     *app.State
	width     int
	height    int
	keys      keyMap
	viewport  viewport.Model
	timeRange TimeRange
	now       func() time.Time
}

// New creates a new usage model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		now:      time.Now,
	}
}

// Init initializes the usage tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the usage tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.SessionChangedMsg, app.EndpointSwitchedMsg:
		m.viewport.GotoTop()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.ToggleRange):
			m.timeRange = m.timeRange.Next()
			m.viewport.GotoTop()

		case key.Matches(msg, m.keys.Currency):
			return m, func() tea.Msg { return app.ToggleCurrencyMsg{} }

		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// records returns the active endpoint's logs inside the selected range.
func (m *Model) records() []models.LogRecord {
	return m.timeRange.Filter(m.state.ActiveSession().Logs, m.now())
}

func (m *Model) rangeLabel() string {
	if days := m.timeRange.Days(); days > 0 {
		return fmt.Sprintf("Last %d days", days)
	}
	return "All records"
}

// SetSize sets the available size for the usage tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.ToggleRange,
		m.keys.Currency,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ToggleRange, m.keys.Currency},
		{m.keys.Up, m.keys.Down},
	}
}
