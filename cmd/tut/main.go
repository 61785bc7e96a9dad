// Package main is the entry point for the token usage TUI.
// It initializes configuration, logging and services, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/token-usage-tui/internal/app"
	"github.com/j-veylop/token-usage-tui/internal/config"
	"github.com/j-veylop/token-usage-tui/internal/logger"
	"github.com/j-veylop/token-usage-tui/internal/services"
	"github.com/j-veylop/token-usage-tui/internal/ui/tabs/info"
	"github.com/j-veylop/token-usage-tui/internal/ui/tabs/query"
	"github.com/j-veylop/token-usage-tui/internal/ui/tabs/usage"
	"github.com/j-veylop/token-usage-tui/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	// Run the application
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Send logs to a file, the terminal belongs to the UI
	logFile, err := logger.Init(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logFile.Close()

	logger.Info("starting", "version", version.GetVersion(), "endpoints", len(cfg.Endpoints))

	// 3. Initialize the service manager
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Ensure cleanup on exit
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// 4. Create the root Bubble Tea model
	model := app.NewModel(svcManager)

	// 5. Initialize tabs with shared state
	state := model.GetState()
	tabs := []app.Tab{
		query.New(state),                 // Tab 0: Query - token input, balance and call log
		usage.New(state),                 // Tab 1: Usage - spend charts
		info.New(state, cfg, svcManager), // Tab 2: Info - configuration and exports
	}
	model.SetTabs(tabs)

	// 6. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 7. Create and configure the Bubble Tea program
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer (full terminal)
	)

	// 8. Handle signals in a separate goroutine
	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	// 9. Run the TUI program
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	logger.Info("stopped", "queries", svcManager.GetStats().Queries)
	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`token-usage-tui - API token balance and call log viewer

Usage:
  tut [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-3             Switch between tabs (Query, Usage, Info)
  Tab/Shift+Tab   Navigate between tabs
  [ / ]           Previous / next endpoint
  /               Edit the token (Enter queries, Esc leaves the field)
  j/k, h/l        Move in the call log / change page
  Enter           Show call details
  e               Export the call log as CSV
  c / y           Copy token information / call details
  s / o / r       Page size / sort column / sort direction
  u               Toggle currency and quota units
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  BASE_URL             Endpoints as a JSON object, e.g. {"main":"https://api.example.com"} (required)
  SHOW_BALANCE         Query the balance (default: true)
  SHOW_DETAIL          Query the call log (default: true)
  QUOTA_PER_UNIT       Quota per currency unit (default: 500000)
  DISPLAY_IN_CURRENCY  Initial display unit (default: true)
  REQUEST_TIMEOUT      Upstream request timeout (default: 30s)
  DATABASE_PATH        SQLite preference database path
  EXPORT_DIR           Directory for CSV exports (default: current directory)
  LOG_PATH             Log file path
  LOG_LEVEL            debug, info, warn or error (default: info)
  DESKTOP_NOTIFY       Desktop notifications on failures and low balance (default: false)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/token-usage-tui/.env`)
}
