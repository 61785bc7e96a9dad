// Package info provides the info tab: configuration, endpoints, recent
// exports and build information.
package info

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/token-usage-tui/internal/app"
	"github.com/j-veylop/token-usage-tui/internal/config"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/services/query"
)

const recentExportLimit = 5

// Backend lists recently written exports and reports query activity.
type Backend interface {
	RecentExports(limit int) []models.ExportRecord
	GetStats() query.Stats
}

type keyMap struct {
	Refresh key.Binding
	Copy    key.Binding
	CopyDir key.Binding
}

// Model is the info tab. Its content is rebuilt whenever something it shows
// changes and scrolled with the viewport's own bindings.
type Model struct {
	state    *app.State
	config   *config.Config
	backend  Backend
	recent   []models.ExportRecord
	stats    query.Stats
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
}

// New creates the info tab. backend may be nil when no services are running.
func New(state *app.State, cfg *config.Config, backend Backend) *Model {
	m := &Model{
		state:   state,
		config:  cfg,
		backend: backend,
		keys: keyMap{
			Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
			Copy:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy export path")),
			CopyDir: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "copy export dir")),
		},
		viewport: viewport.New(0, 0),
	}
	m.loadExports()
	return m
}

// Init implements app.Tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) loadExports() {
	if m.backend != nil {
		m.recent = m.backend.RecentExports(recentExportLimit)
	}
	m.sync()
}

func (m *Model) sync() {
	if m.backend != nil {
		m.stats = m.backend.GetStats()
	}
	m.viewport.SetContent(m.content())
}

// Update implements app.Tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.ExportResultMsg:
		m.loadExports()
		return m, nil

	case app.SessionChangedMsg, app.EndpointSwitchedMsg, app.PreferencesChangedMsg, app.QueryResultMsg:
		m.sync()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Refresh):
			m.loadExports()
			return m, nil
		case key.Matches(msg, m.keys.Copy):
			if len(m.recent) > 0 {
				return m, copyCmd("export path", m.recent[0].Path)
			}
			return m, m.copyExportDir()
		case key.Matches(msg, m.keys.CopyDir):
			return m, m.copyExportDir()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) copyExportDir() tea.Cmd {
	if m.config == nil || m.config.ExportDir == "" {
		return nil
	}
	return copyCmd("export directory", m.config.ExportDir)
}

func copyCmd(label, text string) tea.Cmd {
	return func() tea.Msg {
		return app.CopyToClipboardMsg{Label: label, Text: text}
	}
}

// SetSize implements app.Tab. The document margins take two lines.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-6, 0)
	m.viewport.Height = max(height-2, 0)
	m.sync()
}

// ShortHelp implements app.Tab.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Copy, m.keys.Refresh}
}

// FullHelp implements app.Tab.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Copy, m.keys.CopyDir, m.keys.Refresh},
		{m.viewport.KeyMap.Up, m.viewport.KeyMap.Down, m.viewport.KeyMap.PageUp, m.viewport.KeyMap.PageDown},
	}
}
