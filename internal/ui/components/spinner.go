package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
)

// LoadingSpinner wraps a bubble spinner with label support. When started it
// also reports how long the current operation has been running.
type LoadingSpinner struct {
	startedAt time.Time
	spinner   spinner.Model
	frame     int
	label     string
	style     lipgloss.Style
}

// NewSpinner creates a new loading spinner with the given label.
func NewSpinner(label string) LoadingSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return LoadingSpinner{
		spinner: s,
		label:   label,
		style:   lipgloss.NewStyle().Foreground(styles.TextSecondary),
	}
}

// Init initializes the spinner model.
func (l LoadingSpinner) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update handles spinner tick messages.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok {
		l.frame++
	}
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// Frame returns the number of ticks seen, for driving companion animations.
func (l LoadingSpinner) Frame() int {
	return l.frame
}

// View renders the spinner without label.
func (l LoadingSpinner) View() string {
	return l.spinner.View()
}

// ViewWithLabel renders the spinner with its label.
func (l LoadingSpinner) ViewWithLabel() string {
	return l.spinner.View() + " " + l.style.Render(l.label)
}

// Start records the beginning of an operation.
func (l *LoadingSpinner) Start(now time.Time) {
	l.startedAt = now
}

// Stop clears the running operation.
func (l *LoadingSpinner) Stop() {
	l.startedAt = time.Time{}
}

// Running reports whether an operation is in progress.
func (l LoadingSpinner) Running() bool {
	return !l.startedAt.IsZero()
}

// ViewElapsed renders the spinner, label and elapsed whole seconds.
func (l LoadingSpinner) ViewElapsed(now time.Time) string {
	if !l.Running() {
		return l.ViewWithLabel()
	}
	elapsed := now.Sub(l.startedAt).Truncate(time.Second)
	return l.ViewWithLabel() + " " + styles.HelpStyle.Render(elapsed.String())
}

// Tick returns the tick command for the spinner.
func (l LoadingSpinner) Tick() tea.Cmd {
	return l.spinner.Tick
}
