// Package config contains everything related to configuration
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tidwall/gjson"

	"github.com/j-veylop/token-usage-tui/internal/models"
)

// Config holds the application configuration.
type Config struct {
	Endpoints         []models.Endpoint
	DatabasePath      string
	ExportDir         string
	LogPath           string
	LogLevel          string
	QuotaPerUnit      float64
	RequestTimeout    time.Duration
	ShowBalance       bool
	ShowDetail        bool
	DisplayInCurrency bool
	DesktopNotify     bool
}

// Default values
const (
	defaultQuotaPerUnit   = 500000
	defaultRequestTimeout = 30 * time.Second
	defaultLogLevel       = "info"
	appDirName            = "token-usage-tui"
)

// ErrNoEndpoints is returned when BASE_URL is missing or empty.
var ErrNoEndpoints = errors.New("BASE_URL must define at least one endpoint")

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	endpoints, err := ParseEndpoints(os.Getenv("BASE_URL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Endpoints:         endpoints,
		DatabasePath:      getEnvString("DATABASE_PATH", defaultPath("prefs.db")),
		ExportDir:         getEnvString("EXPORT_DIR", "."),
		LogPath:           getEnvString("LOG_PATH", defaultPath("tut.log")),
		LogLevel:          getEnvString("LOG_LEVEL", defaultLogLevel),
		QuotaPerUnit:      getEnvFloat("QUOTA_PER_UNIT", defaultQuotaPerUnit),
		RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", defaultRequestTimeout),
		ShowBalance:       getEnvBool("SHOW_BALANCE", true),
		ShowDetail:        getEnvBool("SHOW_DETAIL", true),
		DisplayInCurrency: getEnvBool("DISPLAY_IN_CURRENCY", true),
		DesktopNotify:     getEnvBool("DESKTOP_NOTIFY", false),
	}

	if cfg.QuotaPerUnit <= 0 {
		return nil, fmt.Errorf("QUOTA_PER_UNIT must be positive, got %v", cfg.QuotaPerUnit)
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseEndpoints reads a JSON object of endpoint keys to base URLs. Key
// order is kept as written.
func ParseEndpoints(raw string) ([]models.Endpoint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNoEndpoints
	}
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("BASE_URL is not valid JSON")
	}

	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return nil, fmt.Errorf("BASE_URL must be a JSON object of name to URL")
	}

	var (
		endpoints []models.Endpoint
		parseErr  error
		seen      = make(map[string]bool)
	)
	doc.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if value.Type != gjson.String {
			parseErr = fmt.Errorf("BASE_URL entry %q must be a string", name)
			return false
		}
		base := strings.TrimRight(strings.TrimSpace(value.String()), "/")
		u, err := url.Parse(base)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			parseErr = fmt.Errorf("BASE_URL entry %q is not an http(s) URL: %q", name, value.String())
			return false
		}
		if seen[name] {
			return true
		}
		seen[name] = true
		endpoints = append(endpoints, models.Endpoint{Key: name, BaseURL: base})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(endpoints) == 0 {
		return nil, ErrNoEndpoints
	}
	return endpoints, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appDirName, ".env"))
	}

	return paths
}

// defaultPath returns a file path inside the application config directory.
func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".config", appDirName, name)
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool accepts the forms strconv.ParseBool does.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
