// Package query runs token queries against an endpoint and reconciles the
// billing and call-log results into a single session.
package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/token-usage-tui/internal/logger"
	"github.com/j-veylop/token-usage-tui/internal/logrecord"
	"github.com/j-veylop/token-usage-tui/internal/models"
	"github.com/j-veylop/token-usage-tui/internal/services/upstream"
)

// BillingSource fetches subscription and usage figures.
type BillingSource interface {
	FetchSubscription(ctx context.Context, baseURL, token string) (*upstream.Subscription, error)
	FetchUsage(ctx context.Context, baseURL, token string, start, end time.Time) (*upstream.Usage, error)
}

// LogSource fetches the call log.
type LogSource interface {
	FetchLogs(ctx context.Context, baseURL, token string) ([]models.RawLogEntry, error)
}

// SessionStore receives query results. A result is stored only if no newer
// query for the same endpoint began after it.
type SessionStore interface {
	Begin(key string) (uint64, error)
	Commit(key string, seq uint64, session models.EndpointSession) bool
}

// Event represents a query service event.
type Event struct {
	Error    error
	Session  *models.EndpointSession
	Endpoint string
	QueryID  string
	Type     EventType
}

// EventType defines the type of query event.
type EventType int

const (
	// EventQueryStarted indicates that a query has been issued.
	EventQueryStarted EventType = iota
	// EventQueryCompleted indicates that a query succeeded and was stored.
	EventQueryCompleted
	// EventQueryFailed indicates that a fetch failed and the session was reset.
	EventQueryFailed
	// EventQuerySuperseded indicates that a newer query made this result stale.
	EventQuerySuperseded
)

// Flags selects which halves of a query run.
type Flags struct {
	FetchBalance bool
	FetchLogs    bool
}

// Config holds configuration for the query service.
type Config struct {
	Now         func() time.Time
	Flags       Flags
	UsageWindow time.Duration
}

// DefaultUsageWindow is how far back usage is summed.
const DefaultUsageWindow = 100 * 24 * time.Hour

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Now:         time.Now,
		Flags:       Flags{FetchBalance: true, FetchLogs: true},
		UsageWindow: DefaultUsageWindow,
	}
}

// Outcome is the result of one query.
type Outcome struct {
	BalanceErr error
	LogsErr    error
	QueryID    string
	Endpoint   string
	Session    models.EndpointSession
	Applied    bool
}

// Failed reports whether any attempted fetch failed.
func (o *Outcome) Failed() bool {
	return o.BalanceErr != nil || o.LogsErr != nil
}

// Stats counts queries handled by the service.
type Stats struct {
	Queries    int
	Failures   int
	Superseded int
}

// Service issues queries and stores their results.
type Service struct {
	billing   BillingSource
	logs      LogSource
	store     SessionStore
	eventChan chan Event
	config    Config
	stats     Stats
	closed    bool
	mu        sync.RWMutex
}

// New creates a new query service.
func New(billing BillingSource, logs LogSource, store SessionStore, config Config) *Service {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.UsageWindow <= 0 {
		config.UsageWindow = DefaultUsageWindow
	}

	return &Service{
		billing:   billing,
		logs:      logs,
		store:     store,
		eventChan: make(chan Event, 100),
		config:    config,
	}
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Flags returns the enabled query halves.
func (s *Service) Flags() Flags {
	return s.config.Flags
}

// Query validates token, fetches balance and logs concurrently and stores
// the reconciled session for endpoint. An invalid token is rejected before
// any request is made. Fetch failures are reported in the Outcome; if any
// attempted fetch fails the stored session is the default one.
func (s *Service) Query(ctx context.Context, token string, endpoint models.Endpoint) (*Outcome, error) {
	if err := models.ValidateToken(token); err != nil {
		return nil, err
	}

	seq, err := s.store.Begin(endpoint.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to start query: %w", err)
	}

	out := &Outcome{
		QueryID:  uuid.NewString(),
		Endpoint: endpoint.Key,
	}
	log := logger.With("query", out.QueryID, "endpoint", endpoint.Key)
	log.Info("query started", "balance", s.config.Flags.FetchBalance, "logs", s.config.Flags.FetchLogs)
	s.sendEvent(Event{Type: EventQueryStarted, Endpoint: endpoint.Key, QueryID: out.QueryID})

	var (
		wg      sync.WaitGroup
		balance balanceResult
		records []models.LogRecord
	)

	if s.config.Flags.FetchBalance {
		wg.Add(1)
		go func() {
			defer wg.Done()
			balance, out.BalanceErr = s.fetchBalance(ctx, endpoint.BaseURL, token)
		}()
	}

	if s.config.Flags.FetchLogs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, out.LogsErr = s.fetchLogs(ctx, endpoint.BaseURL, token)
		}()
	}

	wg.Wait()

	out.Session = reconcile(s.config.Flags, balance, records, out.Failed())
	out.Applied = s.store.Commit(endpoint.Key, seq, out.Session)

	s.record(out)

	switch {
	case !out.Applied:
		log.Info("query superseded")
		s.sendEvent(Event{Type: EventQuerySuperseded, Endpoint: endpoint.Key, QueryID: out.QueryID})
	case out.Failed():
		qerr := errors.Join(out.BalanceErr, out.LogsErr)
		log.Warn("query failed", "error", qerr)
		s.sendEvent(Event{Type: EventQueryFailed, Endpoint: endpoint.Key, QueryID: out.QueryID, Error: qerr})
	default:
		log.Info("query completed", "logs", len(out.Session.Logs))
		session := out.Session.Clone()
		s.sendEvent(Event{Type: EventQueryCompleted, Endpoint: endpoint.Key, QueryID: out.QueryID, Session: &session})
	}

	return out, nil
}

type balanceResult struct {
	limit       float64
	usage       float64
	accessUntil int64
}

func (s *Service) fetchBalance(ctx context.Context, baseURL, token string) (balanceResult, error) {
	sub, err := s.billing.FetchSubscription(ctx, baseURL, token)
	if err != nil {
		return balanceResult{}, fmt.Errorf("failed to fetch subscription: %w", err)
	}

	now := s.config.Now()
	usage, err := s.billing.FetchUsage(ctx, baseURL, token, now.Add(-s.config.UsageWindow), now)
	if err != nil {
		return balanceResult{}, fmt.Errorf("failed to fetch usage: %w", err)
	}

	return balanceResult{limit: sub.HardLimitUSD, usage: usage.Amount(), accessUntil: sub.AccessUntil}, nil
}

func (s *Service) fetchLogs(ctx context.Context, baseURL, token string) ([]models.LogRecord, error) {
	raw, err := s.logs.FetchLogs(ctx, baseURL, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logs: %w", err)
	}
	return logrecord.NormalizeAll(raw), nil
}

// reconcile builds the session for a finished query. Halves that were not
// requested stay unknown or empty.
func reconcile(flags Flags, balance balanceResult, records []models.LogRecord, failed bool) models.EndpointSession {
	if failed {
		return models.DefaultSession()
	}

	session := models.DefaultSession()
	session.AccessExpiry = models.Known(float64(balance.accessUntil))

	if flags.FetchBalance {
		session.Balance = models.Known(balance.limit)
		session.Usage = models.Known(balance.usage)
		session.TokenValid = true
	}
	if flags.FetchLogs && records != nil {
		session.Logs = records
	}
	return session
}

func (s *Service) record(out *Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Queries++
	if out.Failed() {
		s.stats.Failures++
	}
	if !out.Applied {
		s.stats.Superseded++
	}
}

// GetStats returns current statistics.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return
	}

	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops event delivery.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.eventChan)
	}
	return nil
}
