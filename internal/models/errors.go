package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services and UI.
var (
	ErrInvalidTokenFormat   = errors.New("invalid token format")
	ErrUpstreamUnavailable  = errors.New("upstream unavailable")
	ErrLogQueryRejected     = errors.New("log query rejected")
	ErrExportFailure        = errors.New("export failed")
	ErrClipboardUnavailable = errors.New("clipboard unavailable")

	// ErrEmptyToken is a format error the UI reports with its own prompt.
	ErrEmptyToken = fmt.Errorf("token is empty: %w", ErrInvalidTokenFormat)
)
