// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/token-usage-tui/internal/config"
	"github.com/j-veylop/token-usage-tui/internal/db"
	"github.com/j-veylop/token-usage-tui/internal/export"
	"github.com/j-veylop/token-usage-tui/internal/logger"
	"github.com/j-veylop/token-usage-tui/internal/logrecord"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/registry"
	"github.com/j-veylop/token-usage-tui/internal/services/query"
	"github.com/j-veylop/token-usage-tui/internal/services/upstream"
)

type (
	// QueryStartedEvent is emitted when a query is issued.
	QueryStartedEvent struct {
		Endpoint string
		QueryID  string
	}

	// SessionUpdatedEvent is emitted when a query result is stored.
	SessionUpdatedEvent struct {
		Endpoint string
		Session  models.EndpointSession
	}

	// QueryFailedEvent is emitted when a query reset its endpoint session.
	QueryFailedEvent struct {
		Error    error
		Endpoint string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Error   error
		Service string
	}

	// PreferencesChangedEvent is emitted when a stored preference changes.
	PreferencesChangedEvent struct {
		DisplayInCurrency bool
		PageSize          int
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (QueryStartedEvent) isServiceEvent()       {}
func (SessionUpdatedEvent) isServiceEvent()     {}
func (QueryFailedEvent) isServiceEvent()        {}
func (ErrorEvent) isServiceEvent()              {}
func (PreferencesChangedEvent) isServiceEvent() {}

// Notifier shows a desktop notification.
type Notifier func(title, body string) error

func beeepNotifier(title, body string) error {
	return beeep.Notify(title, body, "")
}

const (
	// lowBalancePercent is the remaining share that triggers a notification.
	lowBalancePercent = 5.0
	// exportHistoryLimit caps the recorded export history.
	exportHistoryLimit = 50
)

// Option customizes a Manager.
type Option func(*managerDeps)

type managerDeps struct {
	billing   query.BillingSource
	logs      query.LogSource
	clipboard export.Clipboard
	notify    Notifier
	now       func() time.Time
}

// WithUpstream replaces the HTTP client used for queries.
func WithUpstream(billing query.BillingSource, logs query.LogSource) Option {
	return func(d *managerDeps) {
		d.billing = billing
		d.logs = logs
	}
}

// WithClipboard replaces the system clipboard.
func WithClipboard(c export.Clipboard) Option {
	return func(d *managerDeps) { d.clipboard = c }
}

// WithNotifier replaces desktop notifications.
func WithNotifier(n Notifier) Option {
	return func(d *managerDeps) { d.notify = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *managerDeps) { d.now = now }
}

// Manager orchestrates services and event routing.
type Manager struct {
	mu                sync.RWMutex
	cfg               *config.Config
	registry          *registry.Registry
	query             *query.Service
	database          *db.DB
	clipboard         export.Clipboard
	notify            Notifier
	now               func() time.Time
	eventChan         chan ServiceEvent
	stopChan          chan struct{}
	subscribers       []chan ServiceEvent
	previousRemaining map[string]float64
	displayInCurrency bool
	pageSize          int
	closed            bool
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	client := upstream.NewClient(cfg.RequestTimeout)
	deps := managerDeps{
		billing:   client,
		logs:      client,
		clipboard: export.SystemClipboard{},
		notify:    beeepNotifier,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	m := &Manager{
		cfg:               cfg,
		registry:          registry.New(cfg.Endpoints),
		clipboard:         deps.clipboard,
		notify:            deps.notify,
		now:               deps.now,
		eventChan:         make(chan ServiceEvent, 100),
		stopChan:          make(chan struct{}),
		previousRemaining: make(map[string]float64),
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.displayInCurrency = m.database.DisplayInCurrency(cfg.DisplayInCurrency)
	m.pageSize = m.database.PageSize(logrecord.DefaultPageSize)
	if !logrecord.ValidPageSize(m.pageSize) {
		m.pageSize = logrecord.DefaultPageSize
	}

	queryConfig := query.DefaultConfig()
	queryConfig.Flags = query.Flags{FetchBalance: cfg.ShowBalance, FetchLogs: cfg.ShowDetail}
	queryConfig.Now = deps.now

	m.query = query.New(deps.billing, deps.logs, m.registry, queryConfig)

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event, ok := <-m.query.Events():
			if !ok {
				return
			}
			m.handleQueryEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleQueryEvent(event query.Event) {
	switch event.Type {
	case query.EventQueryStarted:
		m.broadcast(QueryStartedEvent{Endpoint: event.Endpoint, QueryID: event.QueryID})

	case query.EventQueryCompleted:
		if event.Session == nil {
			return
		}
		m.broadcast(SessionUpdatedEvent{Endpoint: event.Endpoint, Session: *event.Session})
		m.checkNotifications(event.Endpoint, *event.Session)

	case query.EventQueryFailed:
		m.broadcast(QueryFailedEvent{Endpoint: event.Endpoint, Error: event.Error})
		m.desktopNotify(fmt.Sprintf("Query failed: %s", event.Endpoint), "The session for this endpoint was reset.")
	}
}

func (m *Manager) checkNotifications(endpoint string, s models.EndpointSession) {
	if s.IsUnlimited() || !s.Balance.Known || s.Balance.Value <= 0 {
		return
	}
	remaining := s.Remaining()
	if !remaining.Known {
		return
	}

	percent := remaining.Value / s.Balance.Value * 100

	m.mu.Lock()
	previous, seen := m.previousRemaining[endpoint]
	m.previousRemaining[endpoint] = percent
	m.mu.Unlock()

	// Only notify if we crossed the threshold downwards
	if percent < lowBalancePercent && (!seen || previous >= lowBalancePercent) {
		title := fmt.Sprintf("Low balance: %s", endpoint)
		body := fmt.Sprintf("Remaining balance is below 5%% (%.1f%%)", percent)
		m.desktopNotify(title, body)
	}
}

func (m *Manager) desktopNotify(title, body string) {
	if !m.cfg.DesktopNotify || m.notify == nil {
		return
	}
	if err := m.notify(title, body); err != nil {
		logger.Warn("desktop notification failed", "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return
	}

	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Registry returns the session registry.
func (m *Manager) Registry() *registry.Registry {
	return m.registry
}

// Config returns the loaded configuration.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// QueryFlags returns which panels queries fill.
func (m *Manager) QueryFlags() query.Flags {
	return m.query.Flags()
}

// Query runs a query against the active endpoint.
func (m *Manager) Query(ctx context.Context, token string) (*query.Outcome, error) {
	return m.QueryEndpoint(ctx, token, m.registry.Active())
}

// QueryEndpoint runs a query against the endpoint with the given key.
func (m *Manager) QueryEndpoint(ctx context.Context, token, key string) (*query.Outcome, error) {
	ep, ok := m.registry.Endpoint(key)
	if !ok {
		return nil, fmt.Errorf("unknown endpoint %q", key)
	}
	return m.query.Query(ctx, token, ep)
}

// ActiveSession returns the active endpoint key and its session.
func (m *Manager) ActiveSession() (string, models.EndpointSession) {
	key := m.registry.Active()
	s, _ := m.registry.Get(key)
	return key, s
}

// ExportLogs writes the logs of an endpoint to the export directory.
func (m *Manager) ExportLogs(key string) (string, error) {
	s, ok := m.registry.Get(key)
	if !ok {
		return "", fmt.Errorf("unknown endpoint %q: %w", key, models.ErrExportFailure)
	}
	if len(s.Logs) == 0 {
		return "", fmt.Errorf("no logs to export: %w", models.ErrExportFailure)
	}

	now := m.now()
	path, err := export.WriteFile(m.cfg.ExportDir, key, s.Logs, now)
	if err != nil {
		logger.Error("export failed", "endpoint", key, "error", err)
		return "", err
	}

	rec := &models.ExportRecord{Endpoint: key, Path: path, Rows: len(s.Logs), CreatedAt: now}
	if err := m.database.InsertExport(rec); err != nil {
		logger.Warn("failed to record export", "path", path, "error", err)
	} else if pruned, err := m.database.PruneExports(exportHistoryLimit); err == nil && pruned > 0 {
		logger.Debug("pruned export history", "removed", pruned)
	}
	logger.Info("exported logs", "endpoint", key, "path", path, "rows", len(s.Logs))
	return path, nil
}

// ExportText returns the CSV export of an endpoint as text, for manual copying.
func (m *Manager) ExportText(key string) (string, error) {
	s, _ := m.registry.Get(key)
	data, err := export.Serialize(s.Logs)
	if err != nil {
		return "", err
	}
	return string(data[len(export.BOM):]), nil
}

// TokenInfo returns the copyable summary of an endpoint session.
func (m *Manager) TokenInfo(key string) string {
	s, _ := m.registry.Get(key)
	return export.TokenInfo(s)
}

// CopyText writes text to the clipboard.
func (m *Manager) CopyText(text string) error {
	if err := export.Copy(m.clipboard, text); err != nil {
		logger.Warn("clipboard unavailable", "error", err)
		return err
	}
	return nil
}

// RecentExports returns the latest recorded exports.
func (m *Manager) RecentExports(limit int) []models.ExportRecord {
	recs, err := m.database.RecentExports(limit)
	if err != nil {
		logger.Error("failed to load exports", "error", err)
		return nil
	}
	return recs
}

// DisplayInCurrency reports whether amounts are shown as currency.
func (m *Manager) DisplayInCurrency() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.displayInCurrency
}

// ToggleCurrency flips and persists the currency preference.
func (m *Manager) ToggleCurrency() (bool, error) {
	m.mu.Lock()
	m.displayInCurrency = !m.displayInCurrency
	v := m.displayInCurrency
	size := m.pageSize
	m.mu.Unlock()

	if err := m.database.SetDisplayInCurrency(v); err != nil {
		return v, err
	}
	m.broadcast(PreferencesChangedEvent{DisplayInCurrency: v, PageSize: size})
	return v, nil
}

// PageSize returns the log table page size.
func (m *Manager) PageSize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pageSize
}

// SetPageSize changes and persists the page size.
func (m *Manager) SetPageSize(n int) error {
	if !logrecord.ValidPageSize(n) {
		return fmt.Errorf("unsupported page size %d", n)
	}

	m.mu.Lock()
	m.pageSize = n
	currency := m.displayInCurrency
	m.mu.Unlock()

	if err := m.database.SetPageSize(n); err != nil {
		return err
	}
	m.broadcast(PreferencesChangedEvent{DisplayInCurrency: currency, PageSize: n})
	return nil
}

// GetStats returns query statistics.
func (m *Manager) GetStats() query.Stats {
	return m.query.GetStats()
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.stopChan)
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if err := m.query.Close(); err != nil {
		errs = append(errs, err)
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
