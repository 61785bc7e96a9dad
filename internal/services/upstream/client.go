// Package upstream talks to the billing and call-log endpoints of an API
// relay.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/j-veylop/token-usage-tui/internal/logger"
	"github.com/j-veylop/token-usage-tui/internal/models"
)

const (
	subscriptionPath = "/v1/dashboard/billing/subscription"
	usagePath        = "/v1/dashboard/billing/usage"
	logPath          = "/api/log/token"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	// usageCentsPerUnit converts total_usage, reported in cents.
	usageCentsPerUnit = 100
)

// Subscription is the billing subscription response.
type Subscription struct {
	HardLimitUSD float64 `json:"hard_limit_usd"`
	AccessUntil  int64   `json:"access_until,omitempty"`
}

// Usage is the billing usage response.
type Usage struct {
	TotalUsage float64 `json:"total_usage"`
}

// Amount returns the usage in currency units.
func (u Usage) Amount() float64 {
	return u.TotalUsage / usageCentsPerUnit
}

type logResponse struct {
	Message string               `json:"message"`
	Data    []models.RawLogEntry `json:"data"`
	Success bool                 `json:"success"`
}

// Client fetches billing and log data.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// NewClientWithHTTP creates a client around an existing http.Client.
func NewClientWithHTTP(httpClient *http.Client) *Client {
	if httpClient == nil {
		return NewClient(DefaultTimeout)
	}
	return &Client{httpClient: httpClient}
}

// FetchSubscription returns the token's hard limit.
func (c *Client) FetchSubscription(ctx context.Context, baseURL, token string) (*Subscription, error) {
	var sub Subscription
	if err := c.getJSON(ctx, joinURL(baseURL, subscriptionPath, nil), token, "subscription", &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// FetchUsage returns the token's usage between two calendar dates.
func (c *Client) FetchUsage(ctx context.Context, baseURL, token string, start, end time.Time) (*Usage, error) {
	query := url.Values{}
	query.Set("start_date", FormatDate(start))
	query.Set("end_date", FormatDate(end))

	var usage Usage
	if err := c.getJSON(ctx, joinURL(baseURL, usagePath, query), token, "usage", &usage); err != nil {
		return nil, err
	}
	return &usage, nil
}

// FetchLogs returns the token's call log in upstream order.
func (c *Client) FetchLogs(ctx context.Context, baseURL, token string) ([]models.RawLogEntry, error) {
	query := url.Values{}
	query.Set("key", token)

	var resp logResponse
	if err := c.getJSON(ctx, joinURL(baseURL, logPath, query), "", "log", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: %s", models.ErrLogQueryRejected, resp.Message)
	}
	if resp.Data == nil {
		return []models.RawLogEntry{}, nil
	}
	return resp.Data, nil
}

func (c *Client) getJSON(ctx context.Context, target, bearer, name string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w: %w", name, models.ErrUpstreamUnavailable, err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w: %w", name, models.ErrUpstreamUnavailable, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w: %w", name, models.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s request failed (status %d): %w: %s",
			name, resp.StatusCode, models.ErrUpstreamUnavailable, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w: %w", name, models.ErrUpstreamUnavailable, err)
	}
	return nil
}

// FormatDate renders a local calendar date without zero padding, e.g. 2024-3-7.
func FormatDate(t time.Time) string {
	t = t.Local()
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}

func joinURL(baseURL, path string, query url.Values) string {
	u := strings.TrimRight(baseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
