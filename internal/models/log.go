package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Log entry types that carry billing data.
const (
	LogTypeUnknown = 0
	LogTypeConsume = 2
)

// ReservedModelPrefix marks models billed per task instead of per token.
const ReservedModelPrefix = "mj_"

// PricingText holds the raw pricing metadata attached to a log entry.
// Upstream sends it as a JSON-encoded string; an inline object is accepted too.
type PricingText string

// UnmarshalJSON implements json.Unmarshaler.
func (p *PricingText) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*p = PricingText(s)
		return nil
	}
	*p = PricingText(trimmed)
	return nil
}

// RawLogEntry is a call-log entry as returned by the log endpoint.
type RawLogEntry struct {
	TokenName        string      `json:"token_name"`
	ModelName        string      `json:"model_name"`
	Content          string      `json:"content"`
	Other            PricingText `json:"other"`
	CreatedAt        int64       `json:"created_at"`
	Type             int         `json:"type"`
	UseTime          int64       `json:"use_time"`
	PromptTokens     int64       `json:"prompt_tokens"`
	CompletionTokens int64       `json:"completion_tokens"`
	Quota            float64     `json:"quota"`
	IsStream         bool        `json:"is_stream"`
}

// PricingState tells whether pricing metadata could be used.
type PricingState int

// Pricing metadata states.
const (
	PricingAbsent PricingState = iota
	PricingMalformed
	PricingPresent
)

// String returns the state name.
func (s PricingState) String() string {
	switch s {
	case PricingAbsent:
		return "absent"
	case PricingMalformed:
		return "malformed"
	case PricingPresent:
		return "present"
	default:
		return "unknown"
	}
}

// PricingMeta is the decoded pricing metadata of a log entry.
type PricingMeta struct {
	State           PricingState `json:"state"`
	ModelRatio      float64      `json:"modelRatio"`
	ModelPrice      float64      `json:"modelPrice"`
	CompletionRatio float64      `json:"completionRatio"`
	GroupRatio      float64      `json:"groupRatio"`
}

// LogRecord is a normalized call-log entry.
type LogRecord struct {
	CreatedAt        time.Time   `json:"createdAt"`
	TokenName        string      `json:"tokenName"`
	ModelName        string      `json:"modelName"`
	Detail           string      `json:"detail"`
	Pricing          PricingMeta `json:"pricing"`
	Type             int         `json:"type"`
	UseTime          int64       `json:"useTime"`
	PromptTokens     int64       `json:"promptTokens"`
	CompletionTokens int64       `json:"completionTokens"`
	Quota            int64       `json:"quota"`
	IsStream         bool        `json:"isStream"`
}

// Billable reports whether the entry carries token and cost columns.
func (r LogRecord) Billable() bool {
	return r.Type == LogTypeUnknown || r.Type == LogTypeConsume
}

// Reserved reports whether the model is billed per task.
func (r LogRecord) Reserved() bool {
	return strings.HasPrefix(r.ModelName, ReservedModelPrefix)
}
