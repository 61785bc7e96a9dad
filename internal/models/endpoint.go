// Package models defines data structures and domain types.
package models

// Endpoint is a configured upstream service root.
type Endpoint struct {
	Key     string `json:"key"`
	BaseURL string `json:"baseUrl"`
}
