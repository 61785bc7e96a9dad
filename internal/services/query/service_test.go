package query

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/registry"
	"github.com/j-veylop/token-usage-tui/internal/services/upstream"
)

var (
	tokenA = "sk-" + strings.Repeat("a", 48)
	tokenB = "sk-" + strings.Repeat("b", 48)
)

var testEndpoint = models.Endpoint{Key: "main", BaseURL: "https://relay.example.com"}

type fakeUpstream struct {
	gates      map[string]chan struct{}
	limits     map[string]float64
	subErr     error
	usageErr   error
	logsErr    error
	logs       []models.RawLogEntry
	usage      float64
	usageStart time.Time
	usageEnd   time.Time
	calls      atomic.Int32
	mu         sync.Mutex
}

func (f *fakeUpstream) FetchSubscription(_ context.Context, _, token string) (*upstream.Subscription, error) {
	f.calls.Add(1)
	if gate, ok := f.gates[token]; ok {
		<-gate
	}
	if f.subErr != nil {
		return nil, f.subErr
	}
	limit := 100.0
	if v, ok := f.limits[token]; ok {
		limit = v
	}
	return &upstream.Subscription{HardLimitUSD: limit}, nil
}

func (f *fakeUpstream) FetchUsage(_ context.Context, _, _ string, start, end time.Time) (*upstream.Usage, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.usageStart, f.usageEnd = start, end
	f.mu.Unlock()
	if f.usageErr != nil {
		return nil, f.usageErr
	}
	return &upstream.Usage{TotalUsage: f.usage}, nil
}

func (f *fakeUpstream) FetchLogs(_ context.Context, _, _ string) ([]models.RawLogEntry, error) {
	f.calls.Add(1)
	if f.logsErr != nil {
		return nil, f.logsErr
	}
	out := make([]models.RawLogEntry, len(f.logs))
	copy(out, f.logs)
	return out, nil
}

func sampleLogs() []models.RawLogEntry {
	return []models.RawLogEntry{
		{CreatedAt: 1700000000, ModelName: "gpt-4", Type: 2, Quota: 100, Other: `{"model_ratio":15}`},
		{CreatedAt: 1700000100, ModelName: "mj_imagine", Type: 2, Quota: 50},
	}
}

func newTestService(f *fakeUpstream, flags Flags) (*Service, *registry.Registry) {
	reg := registry.New([]models.Endpoint{testEndpoint})
	cfg := DefaultConfig()
	cfg.Flags = flags
	return New(f, f, reg, cfg), reg
}

var bothFlags = Flags{FetchBalance: true, FetchLogs: true}

func TestQuery_InvalidToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"Empty", ""},
		{"Short", "sk-abc"},
		{"BadChars", "sk-" + strings.Repeat("-", 48)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeUpstream{}
			svc, reg := newTestService(f, bothFlags)

			out, err := svc.Query(context.Background(), tt.token, testEndpoint)
			if !errors.Is(err, models.ErrInvalidTokenFormat) {
				t.Errorf("Query() error = %v, want ErrInvalidTokenFormat", err)
			}
			if out != nil {
				t.Error("Query() returned an outcome for an invalid token")
			}
			if f.calls.Load() != 0 {
				t.Errorf("made %d upstream calls, want 0", f.calls.Load())
			}
			if s, _ := reg.Get("main"); !reflect.DeepEqual(s, models.DefaultSession()) {
				t.Error("invalid token changed the session")
			}
		})
	}
}

func TestQuery_Success(t *testing.T) {
	f := &fakeUpstream{usage: 2550, logs: sampleLogs()}
	svc, reg := newTestService(f, bothFlags)

	out, err := svc.Query(context.Background(), tokenA, testEndpoint)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if out.Failed() || !out.Applied {
		t.Fatalf("outcome = %+v, want applied success", out)
	}

	s, _ := reg.Get("main")
	if !s.TokenValid {
		t.Error("TokenValid = false after balance success")
	}
	if s.Balance != models.Known(100) || s.Usage != models.Known(25.5) {
		t.Errorf("Balance/Usage = %+v/%+v", s.Balance, s.Usage)
	}
	if !s.NeverExpires() {
		t.Errorf("AccessExpiry = %+v, want known 0", s.AccessExpiry)
	}
	if len(s.Logs) != 2 || s.Logs[0].ModelName != "mj_imagine" {
		t.Errorf("Logs not reversed: %+v", s.Logs)
	}
	if s.Logs[1].Pricing.State != models.PricingPresent {
		t.Error("log pricing not normalized")
	}
}

func TestQuery_UsageAboveBalance(t *testing.T) {
	f := &fakeUpstream{limits: map[string]float64{tokenA: 5}, usage: 900}
	svc, reg := newTestService(f, bothFlags)

	if _, err := svc.Query(context.Background(), tokenA, testEndpoint); err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	s, _ := reg.Get("main")
	if !s.TokenValid || s.Usage.Value != 9 || s.Balance.Value != 5 {
		t.Errorf("session = %+v", s)
	}
	if s.Remaining().Value != -4 {
		t.Errorf("Remaining() = %v, want -4", s.Remaining().Value)
	}
}

func TestQuery_Idempotent(t *testing.T) {
	f := &fakeUpstream{usage: 100, logs: sampleLogs()}
	svc, reg := newTestService(f, bothFlags)

	_, _ = svc.Query(context.Background(), tokenA, testEndpoint)
	first, _ := reg.Get("main")
	_, _ = svc.Query(context.Background(), tokenA, testEndpoint)
	second, _ := reg.Get("main")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("sessions differ:\n%+v\n%+v", first, second)
	}
}

func TestQuery_FailureResetsSession(t *testing.T) {
	tests := []struct {
		name        string
		f           *fakeUpstream
		wantBalance bool
		wantLogs    error
	}{
		{
			name:        "SubscriptionFails",
			f:           &fakeUpstream{subErr: models.ErrUpstreamUnavailable, logs: sampleLogs()},
			wantBalance: true,
		},
		{
			name:        "UsageFails",
			f:           &fakeUpstream{usageErr: models.ErrUpstreamUnavailable, logs: sampleLogs()},
			wantBalance: true,
		},
		{
			name:     "LogsRejected",
			f:        &fakeUpstream{logsErr: fmt.Errorf("%w: bad key", models.ErrLogQueryRejected)},
			wantLogs: models.ErrLogQueryRejected,
		},
		{
			name:     "LogsUnavailable",
			f:        &fakeUpstream{logsErr: models.ErrUpstreamUnavailable},
			wantLogs: models.ErrUpstreamUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, reg := newTestService(tt.f, bothFlags)
			_ = reg.Replace("main", models.EndpointSession{TokenValid: true, Logs: []models.LogRecord{{ModelName: "old"}}})

			out, err := svc.Query(context.Background(), tokenA, testEndpoint)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if !out.Failed() {
				t.Fatal("Failed() = false")
			}
			if (out.BalanceErr != nil) != tt.wantBalance {
				t.Errorf("BalanceErr = %v", out.BalanceErr)
			}
			if tt.wantLogs != nil && !errors.Is(out.LogsErr, tt.wantLogs) {
				t.Errorf("LogsErr = %v, want %v", out.LogsErr, tt.wantLogs)
			}

			s, _ := reg.Get("main")
			if !reflect.DeepEqual(s, models.DefaultSession()) {
				t.Errorf("session = %+v, want default", s)
			}
		})
	}
}

func TestQuery_BalanceDisabled(t *testing.T) {
	f := &fakeUpstream{logs: sampleLogs()}
	svc, reg := newTestService(f, Flags{FetchLogs: true})

	if _, err := svc.Query(context.Background(), tokenA, testEndpoint); err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	s, _ := reg.Get("main")
	if s.Balance.Known || s.Usage.Known || s.TokenValid {
		t.Errorf("balance fields set without a balance fetch: %+v", s)
	}
	if len(s.Logs) != 2 {
		t.Errorf("len(Logs) = %d, want 2", len(s.Logs))
	}
	if f.calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", f.calls.Load())
	}
}

func TestQuery_LogsDisabled(t *testing.T) {
	f := &fakeUpstream{logs: sampleLogs(), logsErr: errors.New("must not be called")}
	svc, reg := newTestService(f, Flags{FetchBalance: true})

	out, err := svc.Query(context.Background(), tokenA, testEndpoint)
	if err != nil || out.Failed() {
		t.Fatalf("Query() = %+v, %v", out, err)
	}

	s, _ := reg.Get("main")
	if !s.TokenValid || len(s.Logs) != 0 {
		t.Errorf("session = %+v", s)
	}
}

func TestQuery_UsageWindow(t *testing.T) {
	f := &fakeUpstream{}
	reg := registry.New([]models.Endpoint{testEndpoint})
	now := time.Date(2024, 4, 10, 15, 0, 0, 0, time.Local)
	svc := New(f, f, reg, Config{Flags: Flags{FetchBalance: true}, Now: func() time.Time { return now }})

	if _, err := svc.Query(context.Background(), tokenA, testEndpoint); err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if !f.usageEnd.Equal(now) {
		t.Errorf("end = %v, want %v", f.usageEnd, now)
	}
	if got := now.Sub(f.usageStart); got != DefaultUsageWindow {
		t.Errorf("window = %v, want %v", got, DefaultUsageWindow)
	}
}

func TestQuery_LatestIssuedWins(t *testing.T) {
	gate := make(chan struct{})
	f := &fakeUpstream{
		gates:  map[string]chan struct{}{tokenA: gate},
		limits: map[string]float64{tokenA: 1, tokenB: 2},
	}
	svc, reg := newTestService(f, Flags{FetchBalance: true})

	done := make(chan *Outcome)
	go func() {
		out, _ := svc.Query(context.Background(), tokenA, testEndpoint)
		done <- out
	}()

	// Wait until A is inside its subscription fetch.
	deadline := time.Now().Add(2 * time.Second)
	for f.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	outB, err := svc.Query(context.Background(), tokenB, testEndpoint)
	if err != nil || !outB.Applied {
		t.Fatalf("query B = %+v, %v", outB, err)
	}

	close(gate)
	outA := <-done
	if outA.Applied {
		t.Error("query A applied after B was issued")
	}

	s, _ := reg.Get("main")
	if s.Balance.Value != 2 {
		t.Errorf("Balance = %v, want B's 2", s.Balance.Value)
	}
	if svc.GetStats().Superseded != 1 {
		t.Errorf("Superseded = %d, want 1", svc.GetStats().Superseded)
	}
}

func TestQuery_UnknownEndpoint(t *testing.T) {
	svc, _ := newTestService(&fakeUpstream{}, bothFlags)
	if _, err := svc.Query(context.Background(), tokenA, models.Endpoint{Key: "nope"}); err == nil {
		t.Error("Query() on unknown endpoint should fail")
	}
}

func TestEvents(t *testing.T) {
	f := &fakeUpstream{subErr: models.ErrUpstreamUnavailable}
	svc, _ := newTestService(f, bothFlags)

	_, _ = svc.Query(context.Background(), tokenA, testEndpoint)

	var types []EventType
	for range 2 {
		select {
		case ev := <-svc.Events():
			types = append(types, ev.Type)
			if ev.Type == EventQueryFailed && !errors.Is(ev.Error, models.ErrUpstreamUnavailable) {
				t.Errorf("failed event error = %v", ev.Error)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for events")
		}
	}

	if !reflect.DeepEqual(types, []EventType{EventQueryStarted, EventQueryFailed}) {
		t.Errorf("events = %v", types)
	}

	if err := svc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	svc.sendEvent(Event{})
}

func TestSendEvent_DropsOldest(t *testing.T) {
	svc, _ := newTestService(&fakeUpstream{}, bothFlags)

	for i := range 150 {
		svc.sendEvent(Event{QueryID: fmt.Sprint(i)})
	}

	first := <-svc.Events()
	if first.QueryID != "50" {
		t.Errorf("oldest retained event = %s, want 50", first.QueryID)
	}
}
