package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/services"
	"github.com/j-veylop/token-usage-tui/internal/services/query"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// User facing messages for query and export outcomes.
const (
	MsgEmptyToken       = "Please enter the token before querying"
	MsgInvalidToken     = "Invalid token format!"
	MsgBalanceFailed    = "Token has been exhausted"
	MsgLogsRejected     = "Failed to query call details, please enter the correct token"
	MsgLogsFailed       = "Query failed, please enter the correct token"
	MsgExportFailed     = "Export failed, please try again later"
	MsgClipboardFailed  = "Could not copy to clipboard, please copy manually"
	MsgCopiedPrefix     = "Copied:"
	MsgNothingToExport  = "No logs to export"
	MsgQueryInProgress  = "Querying..."
	MsgExportInProgress = "Exporting..."
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// queryCmd runs a query against the active endpoint.
func queryCmd(mgr *services.Manager, endpoint, token string) tea.Cmd {
	return func() tea.Msg {
		out, err := mgr.QueryEndpoint(context.Background(), token, endpoint)
		return QueryResultMsg{Endpoint: endpoint, Outcome: out, Error: err}
	}
}

// queryFeedback maps a query result to the toasts the user sees. Results
// superseded by a newer query on the same endpoint stay silent.
func queryFeedback(msg QueryResultMsg) []tea.Cmd {
	var cmds []tea.Cmd

	switch {
	case errors.Is(msg.Error, models.ErrEmptyToken):
		return []tea.Cmd{notifyWarningCmd(MsgEmptyToken)}
	case errors.Is(msg.Error, models.ErrInvalidTokenFormat):
		return []tea.Cmd{notifyErrorCmd(MsgInvalidToken)}
	case msg.Error != nil:
		return []tea.Cmd{notifyErrorCmd(msg.Error.Error())}
	case msg.Outcome == nil, !msg.Outcome.Applied:
		return nil
	}

	out := msg.Outcome
	if out.BalanceErr != nil {
		cmds = append(cmds, notifyErrorCmd(MsgBalanceFailed))
	}
	switch {
	case errors.Is(out.LogsErr, models.ErrLogQueryRejected):
		cmds = append(cmds, notifyErrorCmd(MsgLogsRejected))
	case out.LogsErr != nil:
		cmds = append(cmds, notifyErrorCmd(MsgLogsFailed))
	}
	return cmds
}

// exportCmd writes the endpoint's logs to a CSV file.
func exportCmd(mgr *services.Manager, endpoint string) tea.Cmd {
	return func() tea.Msg {
		path, err := mgr.ExportLogs(endpoint)
		if err == nil {
			return ExportResultMsg{Path: path}
		}
		text, textErr := mgr.ExportText(endpoint)
		if textErr != nil {
			text = ""
		}
		return ExportResultMsg{Error: err, Text: text}
	}
}

// copyCmd writes text to the clipboard.
func copyCmd(mgr *services.Manager, label, text string) tea.Cmd {
	return func() tea.Msg {
		return ClipboardResultMsg{Label: label, Text: text, Error: mgr.CopyText(text)}
	}
}

// toggleCurrencyCmd flips and persists the currency preference.
func toggleCurrencyCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		if _, err := mgr.ToggleCurrency(); err != nil {
			return ErrorMsg{Error: err, Context: "save preference"}
		}
		return PreferencesChangedMsg{Preferences: preferencesOf(mgr)}
	}
}

// setPageSizeCmd persists a new page size.
func setPageSizeCmd(mgr *services.Manager, size int) tea.Cmd {
	return func() tea.Msg {
		if err := mgr.SetPageSize(size); err != nil {
			return ErrorMsg{Error: err, Context: "save preference"}
		}
		return PreferencesChangedMsg{Preferences: preferencesOf(mgr)}
	}
}

func preferencesOf(mgr *services.Manager) Preferences {
	return Preferences{DisplayInCurrency: mgr.DisplayInCurrency(), PageSize: mgr.PageSize()}
}

func flagsOf(f query.Flags) QueryFlags {
	return QueryFlags{ShowBalance: f.FetchBalance, ShowDetail: f.FetchLogs}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: LongNotificationDuration,
		}
	}
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationWarning,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}
