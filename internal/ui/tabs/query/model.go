// Package query provides the token query tab: token input, balance card and
// the paginated call log.
package query

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"slices"

	"github.com/j-veylop/token-usage-tui/internal/app"
	"github.com/j-veylop/token-usage-tui/internal/export"
	"github.com/j-veylop/token-usage-tui/internal/logrecord"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the query tab.
type keyMap struct {
	Focus     key.Binding
	Submit    key.Binding
	Blur      key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	Detail    key.Binding
	Export    key.Binding
	CopyInfo  key.Binding
	CopyRow   key.Binding
	PageSize  key.Binding
	Sort      key.Binding
	Direction key.Binding
	Currency  key.Binding
}

// defaultKeyMap returns the default key bindings for the query tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Focus: key.NewBinding(
			key.WithKeys("/", "t"),
			key.WithHelp("/", "edit token"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "query"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave input"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "pgup"),
			key.WithHelp("←/h", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "pgdown"),
			key.WithHelp("→/l", "next page"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter", "d"),
			key.WithHelp("enter", "details"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export csv"),
		),
		CopyInfo: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy token info"),
		),
		CopyRow: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy details"),
		),
		PageSize: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "page size"),
		),
		Sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort column"),
		),
		Direction: key.NewBinding(
			key.WithKeys("O", "r"),
			key.WithHelp("r", "reverse sort"),
		),
		Currency: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "currency/quota"),
		),
	}
}

// Model represents the query tab state.
type Model struct {
	state *app.State
	keys  keyMap

	input     textinput.Model
	paginator paginator.Model
	bar       components.BalanceBar
	spinner   components.LoadingSpinner

	// base is the session's newest-first order; logs is base as displayed.
	base      []models.LogRecord
	logs      []models.LogRecord
	sortField logrecord.SortField
	ascending bool
	cursor    int

	showDetail bool

	width  int
	height int
}

// New creates a new query tab model.
func New(state *app.State) *Model {
	input := textinput.New()
	input.Placeholder = "sk-..."
	input.Prompt = "Token: "
	input.CharLimit = 64
	input.Width = 56
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.Focus()

	p := paginator.New()
	p.Type = paginator.Arabic
	p.PerPage = state.Preferences().PageSize

	m := &Model{
		state:     state,
		keys:      defaultKeyMap(),
		input:     input,
		paginator: p,
		bar:       components.NewBalanceBar(),
		spinner:   components.NewSpinner("Querying..."),
	}
	m.reload()
	return m
}

// Init initializes the query tab.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick())
}

// CapturingInput reports whether the token field holds keyboard focus.
func (m *Model) CapturingInput() bool {
	return m.input.Focused()
}

// Token returns the current content of the token field.
func (m *Model) Token() string {
	return m.input.Value()
}

// Update handles messages for the query tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case app.SessionChangedMsg, app.EndpointSwitchedMsg:
		m.cursor = 0
		m.paginator.Page = 0
		m.showDetail = false
		cmds = append(cmds, m.reload())

	case app.QueryResultMsg:
		if !m.state.AnyQuerying() {
			m.spinner.Stop()
		}

	case app.PreferencesChangedMsg:
		m.reload()

	case components.AnimationTickMsg:
		var cmd tea.Cmd
		m.bar, cmd = m.bar.Update(msg)
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		m.bar, cmd = m.bar.Update(msg)
		cmds = append(cmds, cmd)
		if m.input.Focused() {
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.input.Focused() {
		return m.handleInputKey(msg)
	}

	if m.showDetail {
		switch {
		case key.Matches(msg, m.keys.CopyRow):
			return m.copySelected()
		case msg.Type == tea.KeyEsc, key.Matches(msg, m.keys.Detail):
			m.showDetail = false
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Focus):
		m.input.Focus()
		return textinput.Blink

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.PrevPage):
		m.paginator.PrevPage()
		m.cursor = 0

	case key.Matches(msg, m.keys.NextPage):
		m.paginator.NextPage()
		m.cursor = 0

	case key.Matches(msg, m.keys.Detail):
		if _, ok := m.Selected(); ok {
			m.showDetail = true
		}

	case key.Matches(msg, m.keys.Export):
		return func() tea.Msg { return app.ExportRequestMsg{} }

	case key.Matches(msg, m.keys.CopyInfo):
		return m.copyTokenInfo()

	case key.Matches(msg, m.keys.CopyRow):
		return m.copySelected()

	case key.Matches(msg, m.keys.PageSize):
		next := logrecord.NextPageSize(m.state.Preferences().PageSize)
		return func() tea.Msg { return app.SetPageSizeMsg{Size: next} }

	case key.Matches(msg, m.keys.Sort):
		m.sortField = m.sortField.Next()
		m.resort()

	case key.Matches(msg, m.keys.Direction):
		m.ascending = !m.ascending
		m.resort()

	case key.Matches(msg, m.keys.Currency):
		return func() tea.Msg { return app.ToggleCurrencyMsg{} }
	}

	return nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		token := m.input.Value()
		if token != "" {
			m.input.Blur()
		}
		m.spinner.Start(nowFunc())
		return tea.Batch(
			func() tea.Msg { return app.QueryRequestMsg{Token: token} },
			m.spinner.Tick(),
		)

	case key.Matches(msg, m.keys.Blur):
		m.input.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) copyTokenInfo() tea.Cmd {
	s := m.state.ActiveSession()
	if !s.TokenValid {
		return nil
	}
	text := export.TokenInfo(s)
	return func() tea.Msg {
		return app.CopyToClipboardMsg{Label: "token information", Text: text}
	}
}

func (m *Model) copySelected() tea.Cmd {
	r, ok := m.Selected()
	if !ok || r.Detail == "" {
		return nil
	}
	text := r.Detail
	return func() tea.Msg {
		return app.CopyToClipboardMsg{Text: text}
	}
}

// reload pulls the active session from the shared state.
func (m *Model) reload() tea.Cmd {
	s := m.state.ActiveSession()
	m.base = s.Logs
	m.paginator.PerPage = max(m.state.Preferences().PageSize, 1)
	m.resort()

	if percent, ok := remainingPercent(s); ok {
		return m.bar.SetPercent(percent)
	}
	return nil
}

// resort orders base for display. The default order is newest first;
// ascending on the default column shows oldest first.
func (m *Model) resort() {
	m.logs = logrecord.Sorted(m.base, m.sortField, m.ascending)
	if m.sortField == logrecord.SortNone && m.ascending {
		slices.Reverse(m.logs)
	}
	if len(m.logs) == 0 {
		m.paginator.TotalPages = 1
	} else {
		m.paginator.SetTotalPages(len(m.logs))
	}
	if m.paginator.Page >= m.paginator.TotalPages {
		m.paginator.Page = max(m.paginator.TotalPages-1, 0)
	}
	m.clampCursor()
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.pageLogs())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) pageLogs() []models.LogRecord {
	return logrecord.Page(m.logs, m.paginator.Page, m.paginator.PerPage)
}

// Selected returns the record under the cursor.
func (m *Model) Selected() (models.LogRecord, bool) {
	page := m.pageLogs()
	if m.cursor < 0 || m.cursor >= len(page) {
		return models.LogRecord{}, false
	}
	return page[m.cursor], true
}

// remainingPercent returns the remaining share of a finite, known balance.
func remainingPercent(s models.EndpointSession) (float64, bool) {
	if s.IsUnlimited() || !s.Balance.Known || s.Balance.Value <= 0 {
		return 0, false
	}
	r := s.Remaining()
	if !r.Known {
		return 0, false
	}
	return r.Value / s.Balance.Value * 100, true
}

// SetSize sets the available size for the query tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(min(width-20, 56), 20)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.input.Focused() {
		return []key.Binding{m.keys.Submit, m.keys.Blur}
	}
	return []key.Binding{
		m.keys.Focus,
		m.keys.Detail,
		m.keys.Export,
		m.keys.CopyInfo,
		m.keys.CopyRow,
		m.keys.PageSize,
		m.keys.Sort,
		m.keys.Direction,
		m.keys.Currency,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Focus, m.keys.Submit, m.keys.Blur},
		{m.keys.Up, m.keys.Down, m.keys.PrevPage, m.keys.NextPage},
		{m.keys.Detail, m.keys.CopyRow, m.keys.CopyInfo, m.keys.Export},
		{m.keys.PageSize, m.keys.Sort, m.keys.Direction, m.keys.Currency},
	}
}
