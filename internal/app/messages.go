package app

import (
	"time"

	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/services"
	"github.com/j-veylop/token-usage-tui/internal/services/query"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// QueryRequestMsg asks for a query of the active endpoint.
type QueryRequestMsg struct {
	Token string
}

// QueryResultMsg carries the outcome of a query.
type QueryResultMsg struct {
	Error    error
	Outcome  *query.Outcome
	Endpoint string
}

// SessionChangedMsg signals that the session of an endpoint was replaced.
type SessionChangedMsg struct {
	Endpoint string
	Session  models.EndpointSession
}

// EndpointSwitchedMsg signals that the active endpoint changed.
type EndpointSwitchedMsg struct {
	Endpoint string
}

// SwitchEndpointMsg requests selecting an endpoint by key.
type SwitchEndpointMsg struct {
	Endpoint string
}

// ExportRequestMsg asks for the active endpoint's logs to be exported.
type ExportRequestMsg struct{}

// ExportResultMsg contains the result of an export operation. Text holds the
// CSV when writing the file failed.
type ExportResultMsg struct {
	Error error
	Path  string
	Text  string
}

// CopyToClipboardMsg requests copying text to clipboard.
type CopyToClipboardMsg struct {
	Label string
	Text  string
}

// ClipboardResultMsg contains the result of a clipboard operation.
type ClipboardResultMsg struct {
	Error error
	Label string
	Text  string
}

// ToggleCurrencyMsg flips between currency and quota display.
type ToggleCurrencyMsg struct{}

// SetPageSizeMsg changes the log table page size.
type SetPageSizeMsg struct {
	Size int
}

// PreferencesChangedMsg signals new display preferences.
type PreferencesChangedMsg struct {
	Preferences Preferences
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Message  string
	Type     NotificationType
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
