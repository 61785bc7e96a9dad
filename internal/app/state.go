// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/token-usage-tui/internal/logrecord"
	"github.com/j-veylop/token-usage-tui/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	CreatedAt time.Time
	ID        string
	Message   string
	Type      NotificationType
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// ManualCopy holds text the clipboard could not take, shown for manual copying.
type ManualCopy struct {
	Title string
	Text  string
}

// Preferences mirrors the persisted display settings.
type Preferences struct {
	DisplayInCurrency bool
	PageSize          int
}

// State is the data shared between the root model and the tabs.
type State struct {
	mu sync.RWMutex

	endpoints []models.Endpoint
	active    string
	sessions  map[string]models.EndpointSession
	querying  map[string]int
	updatedAt map[string]time.Time

	prefs        Preferences
	quotaPerUnit float64
	flags        QueryFlags

	manualCopy *ManualCopy

	notifications []Notification
}

// QueryFlags mirrors which panels a query fills.
type QueryFlags struct {
	ShowBalance bool
	ShowDetail  bool
}

// NewState creates an empty state with default preferences.
func NewState() *State {
	return &State{
		sessions:      make(map[string]models.EndpointSession),
		querying:      make(map[string]int),
		updatedAt:     make(map[string]time.Time),
		prefs:         Preferences{PageSize: logrecord.DefaultPageSize},
		flags:         QueryFlags{ShowBalance: true, ShowDetail: true},
		notifications: make([]Notification, 0),
	}
}

// SetEndpoints installs the endpoint list with default sessions. The first
// endpoint becomes active.
func (s *State) SetEndpoints(endpoints []models.Endpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.endpoints = append([]models.Endpoint(nil), endpoints...)
	s.sessions = make(map[string]models.EndpointSession, len(endpoints))
	for _, ep := range endpoints {
		s.sessions[ep.Key] = models.DefaultSession()
	}
	s.active = ""
	if len(endpoints) > 0 {
		s.active = endpoints[0].Key
	}
}

// Endpoints returns the configured endpoints in order.
func (s *State) Endpoints() []models.Endpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Endpoint(nil), s.endpoints...)
}

// ActiveEndpoint returns the selected endpoint key.
func (s *State) ActiveEndpoint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetActiveEndpoint selects an endpoint.
func (s *State) SetActiveEndpoint(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = key
}

// SetSession stores the session of an endpoint.
func (s *State) SetSession(key string, session models.EndpointSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = session.Clone()
	s.updatedAt[key] = time.Now()
}

// Session returns the session of an endpoint.
func (s *State) Session(key string) models.EndpointSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if session, ok := s.sessions[key]; ok {
		return session.Clone()
	}
	return models.DefaultSession()
}

// ActiveSession returns the session of the selected endpoint.
func (s *State) ActiveSession() models.EndpointSession {
	return s.Session(s.ActiveEndpoint())
}

// LastUpdated returns when an endpoint session was last stored.
func (s *State) LastUpdated(key string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt[key]
}

// SetQuerying records a query starting (true) or finishing (false) on an
// endpoint. Overlapping queries are counted.
func (s *State) SetQuerying(key string, querying bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if querying {
		s.querying[key]++
		return
	}
	if s.querying[key] <= 1 {
		delete(s.querying, key)
		return
	}
	s.querying[key]--
}

// IsQuerying reports whether an endpoint has a query in flight.
func (s *State) IsQuerying(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.querying[key] > 0
}

// AnyQuerying reports whether any query is in flight.
func (s *State) AnyQuerying() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.querying) > 0
}

// SetPreferences replaces the display preferences.
func (s *State) SetPreferences(p Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = p
}

// Preferences returns the display preferences.
func (s *State) Preferences() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// SetQuotaPerUnit sets the quota to currency conversion factor.
func (s *State) SetQuotaPerUnit(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotaPerUnit = v
}

// QuotaPerUnit returns the quota to currency conversion factor.
func (s *State) QuotaPerUnit() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quotaPerUnit
}

// SetFlags sets which panels are shown.
func (s *State) SetFlags(f QueryFlags) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags = f
}

// Flags returns which panels are shown.
func (s *State) Flags() QueryFlags {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags
}

// ShowManualCopy opens the manual copy overlay.
func (s *State) ShowManualCopy(title, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manualCopy = &ManualCopy{Title: title, Text: text}
}

// ManualCopy returns the pending manual copy, if any.
func (s *State) ManualCopy() *ManualCopy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.manualCopy == nil {
		return nil
	}
	mc := *s.manualCopy
	return &mc
}

// DismissManualCopy closes the manual copy overlay.
func (s *State) DismissManualCopy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manualCopy = nil
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	notification := Notification{
		ID:        uuid.NewString(),
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last few notifications
	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return notification.ID
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = activeNotifications(s.notifications)
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeNotifications(s.notifications)
}

func activeNotifications(all []Notification) []Notification {
	active := make([]Notification, 0, len(all))
	for _, n := range all {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}
