// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/token-usage-tui/internal/pricing"
	"github.com/j-veylop/token-usage-tui/internal/services"
	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabQuery is the ID for the token query tab.
	TabQuery TabID = iota
	// TabUsage is the ID for the usage charts tab.
	TabUsage
	// TabInfo is the ID for the info tab.
	TabInfo
)

// String returns the string representation of the TabID.
func (t TabID) String() string {
	switch t {
	case TabQuery:
		return "Query"
	case TabUsage:
		return "Usage"
	case TabInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// InputCapturer is implemented by tabs that can hold keyboard focus in a text
// field. While capturing, single-key global bindings are passed to the tab.
type InputCapturer interface {
	CapturingInput() bool
}

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Tab1         key.Binding
	Tab2         key.Binding
	Tab3         key.Binding
	NextTab      key.Binding
	PrevTab      key.Binding
	NextEndpoint key.Binding
	PrevEndpoint key.Binding
	Help         key.Binding
	Quit         key.Binding
	ForceQuit    key.Binding
	Escape       key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{}
	km = setTabKeys(km)
	km = setActionKeys(km)
	return km
}

func setTabKeys(k KeyMap) KeyMap {
	k.Tab1 = key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "query"))
	k.Tab2 = key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "usage"))
	k.Tab3 = key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "info"))
	k.NextTab = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab"))
	k.PrevTab = key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab"))
	k.NextEndpoint = key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next endpoint"))
	k.PrevEndpoint = key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev endpoint"))
	return k
}

func setActionKeys(k KeyMap) KeyMap {
	k.Help = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help"))
	k.Quit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	k.ForceQuit = key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))
	k.Escape = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close"))
	return k
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Tab3},
		{k.NextTab, k.PrevTab},
		{k.PrevEndpoint, k.NextEndpoint},
		{k.Help, k.Quit},
	}
}

// Styles defines the application styles.
type Styles struct {
	// Tab bar styles
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style

	// Notification styles
	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	// Content styles
	Content lipgloss.Style
	Help    lipgloss.Style
	Spinner lipgloss.Style
	Toast   lipgloss.Style

	// Common styles
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	highlight := lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	success := lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warning := lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FF8C00"}
	errorColor := lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}
	info := lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"}

	s := Styles{}
	s.TabBar = lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(subtle)
	s.ActiveTab = lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 2)
	s.InactiveTab = lipgloss.NewStyle().Foreground(subtle).Padding(0, 2)

	s.NotificationSuccess = lipgloss.NewStyle().Foreground(success).Padding(0, 1)
	s.NotificationError = lipgloss.NewStyle().Foreground(errorColor).Bold(true).Padding(0, 1)
	s.NotificationWarning = lipgloss.NewStyle().Foreground(warning).Padding(0, 1)
	s.NotificationInfo = lipgloss.NewStyle().Foreground(info).Padding(0, 1)

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.Help = lipgloss.NewStyle().Foreground(subtle).Padding(0, 1)
	s.Spinner = lipgloss.NewStyle().Foreground(highlight)
	s.Toast = styles.ToastStyle

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	s.Subtle = lipgloss.NewStyle().Foreground(subtle)
	s.Highlight = lipgloss.NewStyle().Foreground(highlight)
	s.Error = lipgloss.NewStyle().Foreground(errorColor)
	s.Success = lipgloss.NewStyle().Foreground(success)
	s.Warning = lipgloss.NewStyle().Foreground(warning)

	return s
}

// Model is the main application model.
type Model struct {
	// Tab management
	activeTab TabID
	tabs      []Tab
	tabNames  []string

	// Shared state
	state    *State
	services *services.Manager
	keymap   KeyMap
	styles   Styles

	// UI components
	spinner spinner.Model

	// Window dimensions
	width  int
	height int

	// UI state
	showHelp bool
	ready    bool

	// Service subscription
	eventChannel chan services.ServiceEvent
}

// NewModel initializes a new application model.
func NewModel(mgr *services.Manager) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	state := NewState()
	if mgr != nil {
		cfg := mgr.Config()
		state.SetEndpoints(cfg.Endpoints)
		state.SetActiveEndpoint(mgr.Registry().Active())
		state.SetQuotaPerUnit(cfg.QuotaPerUnit)
		state.SetFlags(flagsOf(mgr.QueryFlags()))
		state.SetPreferences(preferencesOf(mgr))
	}

	return &Model{
		activeTab: TabQuery,
		tabNames:  []string{"Query", "Usage", "Info"},
		tabs:      make([]Tab, 3), // Placeholder - tabs will be set externally
		state:     state,
		services:  mgr,
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		spinner:   s,
	}
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetServices returns the service manager.
func (m *Model) GetServices() *services.Manager {
	return m.services
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// IsReady returns true if the model is ready (window size received).
func (m *Model) IsReady() bool {
	return m.ready
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		defaultTickCmd(),
	}

	if m.services != nil {
		cmds = append(cmds, subscribeToServicesCmd(m.services))
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)

	case tea.KeyMsg:
		cmd, consumed := m.handleKeyMsg(msg)
		if consumed {
			return m, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	default:
		cmds = append(cmds, m.handleAppMsg(msg)...)
	}

	if isShared(msg) {
		cmds = append(cmds, m.updateAllTabs(msg)...)
	} else if cmd := m.updateActiveTab(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// isShared reports whether every tab must see msg, not only the active one.
func isShared(msg tea.Msg) bool {
	switch msg.(type) {
	case SessionChangedMsg, EndpointSwitchedMsg, PreferencesChangedMsg, QueryResultMsg, ExportResultMsg:
		return true
	}
	return false
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		return []tea.Cmd{defaultTickCmd()}
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		return []tea.Cmd{waitForServiceEventCmd(m.eventChannel)}
	case ServiceEventMsg:
		return m.handleServiceEventMsg(msg)
	case QueryRequestMsg:
		return m.handleQueryRequest(msg)
	case QueryResultMsg:
		return m.handleQueryResult(msg)
	case SwitchEndpointMsg:
		return m.switchEndpoint(msg.Endpoint)
	case ExportRequestMsg:
		return m.handleExportRequest()
	case ExportResultMsg:
		return m.handleExportResult(msg)
	case CopyToClipboardMsg:
		if m.services == nil {
			m.state.ShowManualCopy(MsgClipboardFailed, msg.Text)
			return nil
		}
		return []tea.Cmd{copyCmd(m.services, msg.Label, msg.Text)}
	case ClipboardResultMsg:
		return m.handleClipboardResult(msg)
	case ToggleCurrencyMsg:
		if m.services != nil {
			return []tea.Cmd{toggleCurrencyCmd(m.services)}
		}
		p := m.state.Preferences()
		p.DisplayInCurrency = !p.DisplayInCurrency
		m.state.SetPreferences(p)
	case SetPageSizeMsg:
		if m.services != nil {
			return []tea.Cmd{setPageSizeCmd(m.services, msg.Size)}
		}
		p := m.state.Preferences()
		p.PageSize = msg.Size
		m.state.SetPreferences(p)
	case PreferencesChangedMsg:
		m.state.SetPreferences(msg.Preferences)
	case AddNotificationMsg:
		return m.handleAddNotification(msg)
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()
	case ErrorMsg:
		text := msg.Error.Error()
		if msg.Context != "" {
			text = fmt.Sprintf("Failed to %s: %v", msg.Context, msg.Error)
		}
		return []tea.Cmd{notifyErrorCmd(text)}
	case TabSwitchMsg:
		m.activeTab = msg.Tab
		m.updateTabSizes()
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return nil
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

func (m *Model) handleServiceEventMsg(msg ServiceEventMsg) []tea.Cmd {
	var cmds []tea.Cmd
	if cmd := m.handleServiceEvent(msg.Event); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.eventChannel != nil {
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	}
	return cmds
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.SessionUpdatedEvent:
		m.state.SetSession(e.Endpoint, e.Session)
		return func() tea.Msg {
			return SessionChangedMsg(e)
		}

	case services.QueryFailedEvent:
		if m.services != nil {
			s, _ := m.services.Registry().Get(e.Endpoint)
			m.state.SetSession(e.Endpoint, s)
			return func() tea.Msg {
				return SessionChangedMsg{Endpoint: e.Endpoint, Session: s}
			}
		}

	case services.PreferencesChangedEvent:
		m.state.SetPreferences(Preferences(e))

	case services.ErrorEvent:
		return notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}

	return nil
}

func (m *Model) handleQueryRequest(msg QueryRequestMsg) []tea.Cmd {
	endpoint := m.state.ActiveEndpoint()
	if m.services == nil || endpoint == "" {
		return nil
	}

	m.state.SetQuerying(endpoint, true)
	m.state.SetLoadingNotification(fmt.Sprintf("%s %s", MsgQueryInProgress, endpoint))
	return []tea.Cmd{queryCmd(m.services, endpoint, msg.Token)}
}

func (m *Model) handleQueryResult(msg QueryResultMsg) []tea.Cmd {
	m.state.SetQuerying(msg.Endpoint, false)
	if !m.state.AnyQuerying() {
		m.state.ClearLoadingNotification()
	}

	cmds := queryFeedback(msg)
	if msg.Outcome != nil && msg.Outcome.Applied {
		m.state.SetSession(msg.Endpoint, msg.Outcome.Session)
		changed := SessionChangedMsg{Endpoint: msg.Endpoint, Session: msg.Outcome.Session}
		cmds = append(cmds, func() tea.Msg { return changed })
	}
	return cmds
}

func (m *Model) switchEndpoint(key string) []tea.Cmd {
	if m.services != nil {
		if err := m.services.Registry().SetActive(key); err != nil {
			return []tea.Cmd{notifyErrorCmd(err.Error())}
		}
	}
	m.state.SetActiveEndpoint(key)
	return []tea.Cmd{func() tea.Msg { return EndpointSwitchedMsg{Endpoint: key} }}
}

func (m *Model) stepEndpoint(delta int) []tea.Cmd {
	endpoints := m.state.Endpoints()
	if len(endpoints) < 2 {
		return nil
	}

	current := m.state.ActiveEndpoint()
	idx := 0
	for i, ep := range endpoints {
		if ep.Key == current {
			idx = i
			break
		}
	}
	next := (idx + delta + len(endpoints)) % len(endpoints)
	return m.switchEndpoint(endpoints[next].Key)
}

func (m *Model) handleExportRequest() []tea.Cmd {
	endpoint := m.state.ActiveEndpoint()
	if len(m.state.Session(endpoint).Logs) == 0 {
		return []tea.Cmd{notifyWarningCmd(MsgNothingToExport)}
	}
	if m.services == nil {
		return nil
	}
	m.state.SetLoadingNotification(MsgExportInProgress)
	return []tea.Cmd{exportCmd(m.services, endpoint)}
}

func (m *Model) handleExportResult(msg ExportResultMsg) []tea.Cmd {
	if !m.state.AnyQuerying() {
		m.state.ClearLoadingNotification()
	}
	if msg.Error == nil {
		return []tea.Cmd{notifySuccessCmd("Exported " + msg.Path)}
	}
	if msg.Text != "" {
		m.state.ShowManualCopy(MsgExportFailed, msg.Text)
	}
	return []tea.Cmd{notifyErrorCmd(MsgExportFailed)}
}

func (m *Model) handleClipboardResult(msg ClipboardResultMsg) []tea.Cmd {
	if msg.Error != nil {
		m.state.ShowManualCopy(MsgClipboardFailed, msg.Text)
		return nil
	}
	label := msg.Label
	if label == "" {
		label = pricing.Truncate(msg.Text, 40)
	}
	return []tea.Cmd{notifySuccessCmd(MsgCopiedPrefix + label)}
}

func (m *Model) handleAddNotification(msg AddNotificationMsg) []tea.Cmd {
	id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
	if msg.Duration > 0 {
		return []tea.Cmd{clearNotificationCmd(id, msg.Duration)}
	}
	return nil
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = m.tabs[m.activeTab].Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateAllTabs(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	for i, tab := range m.tabs {
		if tab == nil {
			continue
		}
		var cmd tea.Cmd
		m.tabs[i], cmd = tab.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func (m *Model) updateTabSizes() {
	contentHeight := max(m.height-5, 0)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

func (m *Model) activeTabCapturesInput() bool {
	if int(m.activeTab) >= len(m.tabs) || m.tabs[m.activeTab] == nil {
		return false
	}
	c, ok := m.tabs[m.activeTab].(InputCapturer)
	return ok && c.CapturingInput()
}

func (m *Model) setActiveTab(id TabID) {
	m.activeTab = id
	m.updateTabSizes()
}

// handleKeyMsg handles global keyboard input. It reports whether the key was
// consumed and must not reach the active tab.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return tea.Quit, true
	}

	// The manual copy overlay is modal.
	if m.state.ManualCopy() != nil {
		if key.Matches(msg, m.keymap.Escape) || msg.Type == tea.KeyEnter {
			m.state.DismissManualCopy()
		}
		return nil, true
	}

	if m.showHelp {
		if key.Matches(msg, m.keymap.Escape) || key.Matches(msg, m.keymap.Help) {
			m.showHelp = false
		}
		return nil, true
	}

	if m.activeTabCapturesInput() {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
		return nil, true

	case key.Matches(msg, m.keymap.Tab1):
		m.setActiveTab(TabQuery)
		return nil, true

	case key.Matches(msg, m.keymap.Tab2):
		m.setActiveTab(TabUsage)
		return nil, true

	case key.Matches(msg, m.keymap.Tab3):
		m.setActiveTab(TabInfo)
		return nil, true

	case key.Matches(msg, m.keymap.NextTab) && len(m.tabs) > 0:
		m.setActiveTab(TabID((int(m.activeTab) + 1) % len(m.tabs)))
		return nil, true

	case key.Matches(msg, m.keymap.PrevTab) && len(m.tabs) > 0:
		m.setActiveTab(TabID((int(m.activeTab) - 1 + len(m.tabs)) % len(m.tabs)))
		return nil, true

	case key.Matches(msg, m.keymap.NextEndpoint):
		return tea.Batch(m.stepEndpoint(1)...), true

	case key.Matches(msg, m.keymap.PrevEndpoint):
		return tea.Batch(m.stepEndpoint(-1)...), true
	}

	// Let the tab handle other keys
	return nil, false
}

// View renders the application UI.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString(m.styles.Content.Render(fmt.Sprintf("%s Loading...", m.spinner.View())))
		return b.String()
	}

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		b.WriteString(m.tabs[m.activeTab].View())
	} else {
		b.WriteString(m.renderPlaceholder())
	}

	mainView := b.String()

	switch {
	case m.state.ManualCopy() != nil:
		mainView = m.overlayCentered(mainView, m.renderManualCopy())
	case m.showHelp:
		mainView = m.overlayCentered(mainView, m.renderHelp())
	}

	if toasts := m.renderNotifications(); len(toasts) > 0 {
		return m.overlayToasts(mainView, toasts)
	}

	return mainView
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := strings.Split(mainView, "\n")
	overlayLines := strings.Split(overlay, "\n")

	overlayWidth := lipgloss.Width(overlay)

	// Calculate center position
	y := max((m.height-len(overlayLines))/2, 0)
	x := max((m.width-overlayWidth)/2, 0)
	mainLines = padLines(mainLines, y+len(overlayLines))

	for i, overlayLine := range overlayLines {
		mainY := y + i
		if mainY >= len(mainLines) {
			break
		}

		mainLine := mainLines[mainY]

		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		// If the line was shorter than the overlay start, pad it
		if w := lipgloss.Width(left); w < x {
			left += strings.Repeat(" ", x-w)
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderNavbar() string {
	var tabs []string

	for i, name := range m.tabNames {
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, name)))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(fmt.Sprintf(" %d  %s", i+1, name)))
		}
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	if endpoints := m.renderEndpointBar(); endpoints != "" {
		gap := max(m.width-lipgloss.Width(tabBar)-lipgloss.Width(endpoints)-4, 1)
		tabBar = lipgloss.JoinHorizontal(lipgloss.Top, tabBar, strings.Repeat(" ", gap), endpoints)
	}

	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

func (m *Model) renderEndpointBar() string {
	endpoints := m.state.Endpoints()
	if len(endpoints) == 0 {
		return ""
	}

	active := m.state.ActiveEndpoint()
	parts := make([]string, 0, len(endpoints)+1)
	for _, ep := range endpoints {
		label := ep.Key
		if m.state.IsQuerying(ep.Key) {
			label += " " + m.spinner.View()
		}
		if ep.Key == active {
			parts = append(parts, styles.EndpointActiveStyle.Render(label))
		} else {
			parts = append(parts, styles.EndpointInactiveStyle.Render(label))
		}
	}
	if len(endpoints) > 1 {
		parts = append(parts, styles.HelpStyle.Render(" [ ]"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	toasts := make([]string, 0, len(notifications))
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style = m.styles.NotificationSuccess
			prefix = "[OK]"
		case NotificationError:
			style = m.styles.NotificationError
			prefix = "[ERR]"
		case NotificationWarning:
			style = m.styles.NotificationWarning
			prefix = "[WARN]"
		case NotificationInfo:
			style = m.styles.NotificationInfo
			prefix = "[INFO]"
		case NotificationLoading:
			style = m.styles.NotificationInfo
			prefix = m.spinner.View()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := strings.Split(mainView, "\n")

	startX := max(m.width-lipgloss.Width(toastStack)-2, 0)
	startY := 2
	mainLines = padLines(mainLines, startY+len(toastLines))

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		if w := lipgloss.Width(mainLine); w < startX {
			mainLines[lineIdx] = mainLine + strings.Repeat(" ", startX-w) + toastLine
		} else {
			mainLines[lineIdx] = ansi.Truncate(mainLine, startX, "") + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

// padLines extends lines with empty rows up to n.
func padLines(lines []string, n int) []string {
	for len(lines) < n {
		lines = append(lines, "")
	}
	return lines
}

// manualCopyLines caps how much of a long export is drawn in the overlay.
const manualCopyLines = 15

func (m *Model) renderManualCopy() string {
	mc := m.state.ManualCopy()
	if mc == nil {
		return ""
	}

	width := max(min(m.width-10, 100), 30)
	lines := strings.Split(mc.Text, "\n")
	hidden := 0
	if len(lines) > manualCopyLines {
		hidden = len(lines) - manualCopyLines
		lines = lines[:manualCopyLines]
	}
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, width-6, "…")
	}

	rows := []string{
		m.styles.Warning.Bold(true).Render(mc.Title),
		"",
		strings.Join(lines, "\n"),
	}
	if hidden > 0 {
		rows = append(rows, m.styles.Subtle.Render(fmt.Sprintf("… %d more lines", hidden)))
	}
	rows = append(rows, "", m.styles.Subtle.Render("Select the text with your terminal. Press Esc or Enter to close"))

	return styles.ModalContentStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderHelp() string {
	var lines []string

	lines = append(lines, m.styles.Title.Render("Keyboard Shortcuts"), "")

	lines = append(lines, m.styles.Highlight.Render("Navigation"))
	lines = append(lines, "  1-3        Switch tabs")
	lines = append(lines, "  Tab        Next tab")
	lines = append(lines, "  Shift+Tab  Previous tab")
	lines = append(lines, "  [ / ]      Previous / next endpoint")
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Actions"))
	lines = append(lines, "  ?          Toggle help")
	lines = append(lines, "  q/Ctrl+C   Quit")
	lines = append(lines, "")

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		tabHelp := m.tabs[m.activeTab].ShortHelp()
		if len(tabHelp) > 0 {
			lines = append(lines, m.styles.Highlight.Render(fmt.Sprintf("%s Tab", m.tabNames[m.activeTab])))
			for _, binding := range tabHelp {
				lines = append(lines, fmt.Sprintf("  %-10s %s", binding.Help().Key, binding.Help().Desc))
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlaceholder() string {
	content := fmt.Sprintf(
		"Tab %d: %s\n\n%s",
		m.activeTab+1,
		m.tabNames[m.activeTab],
		m.styles.Subtle.Render("This tab is not available."),
	)
	return m.styles.Content.Render(content)
}
