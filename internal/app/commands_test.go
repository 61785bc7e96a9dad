package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/token-usage-tui/internal/config"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/services"
	"github.com/j-veylop/token-usage-tui/internal/services/query"
	"github.com/j-veylop/token-usage-tui/internal/services/upstream"
)

var validToken = "sk-" + strings.Repeat("a", 48)

type fakeUpstream struct {
	billingErr error
	logsErr    error
	logs       []models.RawLogEntry
	limit      float64
	usage      float64
}

func (f *fakeUpstream) FetchSubscription(context.Context, string, string) (*upstream.Subscription, error) {
	if f.billingErr != nil {
		return nil, f.billingErr
	}
	return &upstream.Subscription{HardLimitUSD: f.limit}, nil
}

func (f *fakeUpstream) FetchUsage(context.Context, string, string, time.Time, time.Time) (*upstream.Usage, error) {
	if f.billingErr != nil {
		return nil, f.billingErr
	}
	return &upstream.Usage{TotalUsage: f.usage}, nil
}

func (f *fakeUpstream) FetchLogs(context.Context, string, string) ([]models.RawLogEntry, error) {
	if f.logsErr != nil {
		return nil, f.logsErr
	}
	return f.logs, nil
}

type fakeClipboard struct {
	err  error
	text string
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func sampleLogs() []models.RawLogEntry {
	return []models.RawLogEntry{
		{
			TokenName:        "default",
			ModelName:        "gpt-4",
			Content:          "model ratio 15",
			CreatedAt:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).Unix(),
			Type:             models.LogTypeConsume,
			UseTime:          3,
			PromptTokens:     100,
			CompletionTokens: 50,
			Quota:            2500,
		},
	}
}

func newTestManager(t *testing.T, up *fakeUpstream, clip *fakeClipboard) *services.Manager {
	t.Helper()
	tmpDir := t.TempDir()
	cfg := &config.Config{
		Endpoints:      testEndpoints,
		DatabasePath:   tmpDir + "/test.db",
		ExportDir:      tmpDir + "/exports",
		QuotaPerUnit:   500000,
		RequestTimeout: time.Second,
		ShowBalance:    true,
		ShowDetail:     true,
	}
	if clip == nil {
		clip = &fakeClipboard{}
	}
	mgr, err := services.NewManager(cfg,
		services.WithUpstream(up, up),
		services.WithClipboard(clip),
		services.WithClock(func() time.Time { return time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local) }),
	)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func notificationOf(t *testing.T, cmd tea.Cmd) AddNotificationMsg {
	t.Helper()
	msg, ok := cmd().(AddNotificationMsg)
	if !ok {
		t.Fatalf("expected AddNotificationMsg, got %T", msg)
	}
	return msg
}

func TestTickCmd(t *testing.T) {
	msg := tickCmd(time.Millisecond)()
	if _, ok := msg.(TickMsg); !ok {
		t.Fatalf("expected TickMsg, got %T", msg)
	}
	if defaultTickCmd() == nil {
		t.Error("defaultTickCmd returned nil")
	}
}

func TestNotifyCmds(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(string) tea.Cmd
		want     NotificationType
		duration time.Duration
	}{
		{"Success", notifySuccessCmd, NotificationSuccess, DefaultNotificationDuration},
		{"Error", notifyErrorCmd, NotificationError, LongNotificationDuration},
		{"Warning", notifyWarningCmd, NotificationWarning, DefaultNotificationDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addMsg := notificationOf(t, tt.fn("msg"))
			if addMsg.Type != tt.want {
				t.Errorf("Type = %v, want %v", addMsg.Type, tt.want)
			}
			if addMsg.Message != "msg" {
				t.Errorf("Message = %q, want msg", addMsg.Message)
			}
			if addMsg.Duration != tt.duration {
				t.Errorf("Duration = %v, want %v", addMsg.Duration, tt.duration)
			}
		})
	}
}

func TestClearNotificationCmd(t *testing.T) {
	msg := clearNotificationCmd("id", time.Millisecond)()
	removeMsg, ok := msg.(RemoveNotificationMsg)
	if !ok {
		t.Fatalf("Expected RemoveNotificationMsg, got %T", msg)
	}
	if removeMsg.ID != "id" {
		t.Errorf("ID = %q, want id", removeMsg.ID)
	}
}

func TestQueryFeedback(t *testing.T) {
	tests := []struct {
		name string
		msg  QueryResultMsg
		want []string
		kind NotificationType
	}{
		{
			name: "empty token",
			msg:  QueryResultMsg{Error: models.ErrEmptyToken},
			want: []string{MsgEmptyToken},
			kind: NotificationWarning,
		},
		{
			name: "bad format",
			msg:  QueryResultMsg{Error: models.ValidateToken("nope")},
			want: []string{MsgInvalidToken},
			kind: NotificationError,
		},
		{
			name: "success",
			msg:  QueryResultMsg{Outcome: &query.Outcome{Applied: true}},
		},
		{
			name: "balance failed",
			msg:  QueryResultMsg{Outcome: &query.Outcome{BalanceErr: models.ErrUpstreamUnavailable, Applied: true}},
			want: []string{MsgBalanceFailed},
			kind: NotificationError,
		},
		{
			name: "logs rejected",
			msg:  QueryResultMsg{Outcome: &query.Outcome{LogsErr: models.ErrLogQueryRejected, Applied: true}},
			want: []string{MsgLogsRejected},
			kind: NotificationError,
		},
		{
			name: "both failed",
			msg: QueryResultMsg{Outcome: &query.Outcome{
				BalanceErr: models.ErrUpstreamUnavailable,
				LogsErr:    models.ErrUpstreamUnavailable,
				Applied:    true,
			}},
			want: []string{MsgBalanceFailed, MsgLogsFailed},
			kind: NotificationError,
		},
		{
			name: "superseded failure",
			msg: QueryResultMsg{Outcome: &query.Outcome{
				BalanceErr: models.ErrUpstreamUnavailable,
				LogsErr:    models.ErrUpstreamUnavailable,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := queryFeedback(tt.msg)
			if len(cmds) != len(tt.want) {
				t.Fatalf("got %d toasts, want %d", len(cmds), len(tt.want))
			}
			for i, cmd := range cmds {
				n := notificationOf(t, cmd)
				if n.Message != tt.want[i] {
					t.Errorf("toast %d = %q, want %q", i, n.Message, tt.want[i])
				}
				if n.Type != tt.kind {
					t.Errorf("toast %d type = %v, want %v", i, n.Type, tt.kind)
				}
			}
		})
	}
}

func TestQueryCmd(t *testing.T) {
	mgr := newTestManager(t, &fakeUpstream{limit: 10, usage: 2, logs: sampleLogs()}, nil)

	msg, ok := queryCmd(mgr, "backup", validToken)().(QueryResultMsg)
	if !ok {
		t.Fatal("expected QueryResultMsg")
	}
	if msg.Error != nil {
		t.Fatalf("unexpected error: %v", msg.Error)
	}
	if msg.Endpoint != "backup" || !msg.Outcome.Applied {
		t.Errorf("result = %+v", msg)
	}
	if !msg.Outcome.Session.TokenValid || len(msg.Outcome.Session.Logs) != 1 {
		t.Errorf("session = %+v", msg.Outcome.Session)
	}

	// The active endpoint is untouched.
	if s, _ := mgr.Registry().Get("main"); s.TokenValid {
		t.Error("main should keep its default session")
	}
}

func TestExportCmd(t *testing.T) {
	mgr := newTestManager(t, &fakeUpstream{limit: 10, logs: sampleLogs()}, nil)
	if _, err := mgr.QueryEndpoint(context.Background(), validToken, "main"); err != nil {
		t.Fatal(err)
	}

	msg := exportCmd(mgr, "main")().(ExportResultMsg)
	if msg.Error != nil {
		t.Fatalf("export failed: %v", msg.Error)
	}
	if !strings.HasSuffix(msg.Path, "logs-main-20240305-140709.csv") {
		t.Errorf("Path = %q", msg.Path)
	}

	// Nothing to export falls back to the text export.
	msg = exportCmd(mgr, "backup")().(ExportResultMsg)
	if !errors.Is(msg.Error, models.ErrExportFailure) {
		t.Errorf("Error = %v, want ErrExportFailure", msg.Error)
	}
	if !strings.HasPrefix(msg.Text, "Time,") {
		t.Errorf("fallback text = %q", msg.Text)
	}
}

func TestCopyCmd(t *testing.T) {
	clip := &fakeClipboard{}
	mgr := newTestManager(t, &fakeUpstream{}, clip)

	msg := copyCmd(mgr, "label", "hello")().(ClipboardResultMsg)
	if msg.Error != nil || clip.text != "hello" {
		t.Errorf("copy failed: %+v, clipboard %q", msg, clip.text)
	}

	clip.err = errors.New("no display")
	msg = copyCmd(mgr, "label", "hello")().(ClipboardResultMsg)
	if !errors.Is(msg.Error, models.ErrClipboardUnavailable) {
		t.Errorf("Error = %v, want ErrClipboardUnavailable", msg.Error)
	}
	if msg.Text != "hello" {
		t.Error("failed copies must keep the text for manual copying")
	}
}

func TestPreferenceCmds(t *testing.T) {
	mgr := newTestManager(t, &fakeUpstream{}, nil)
	before := mgr.DisplayInCurrency()

	msg, ok := toggleCurrencyCmd(mgr)().(PreferencesChangedMsg)
	if !ok {
		t.Fatal("expected PreferencesChangedMsg")
	}
	if msg.Preferences.DisplayInCurrency == before {
		t.Error("currency preference should flip")
	}

	msg = setPageSizeCmd(mgr, 50)().(PreferencesChangedMsg)
	if msg.Preferences.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", msg.Preferences.PageSize)
	}

	if _, ok := setPageSizeCmd(mgr, 7)().(ErrorMsg); !ok {
		t.Error("invalid page size should produce an ErrorMsg")
	}
}

func TestFlagsOf(t *testing.T) {
	got := flagsOf(query.Flags{FetchBalance: true})
	if !got.ShowBalance || got.ShowDetail {
		t.Errorf("flagsOf = %+v", got)
	}
}
