// Package components provides reusable UI components.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/token-usage-tui/internal/ui/styles"
)

const (
	gradientLow  = "#ff6b6b"
	gradientHigh = "#51cf66"
)

// AnimationTickMsg advances bar animations.
type AnimationTickMsg time.Time

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		return AnimationTickMsg(t)
	})
}

// BalanceBar renders the remaining share of a balance as a progress bar.
type BalanceBar struct {
	progress       progress.Model
	percent        float64
	isAnimating    bool
	targetPercent  float64
	currentPercent float64
}

// NewBalanceBar creates a new balance bar with gradient colors.
func NewBalanceBar() BalanceBar {
	p := progress.New(
		progress.WithScaledGradient(gradientLow, gradientHigh),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)
	return BalanceBar{progress: p}
}

// Init initializes the progress bar model.
func (b BalanceBar) Init() tea.Cmd {
	return nil
}

// Update eases the displayed percentage toward the target.
func (b BalanceBar) Update(msg tea.Msg) (BalanceBar, tea.Cmd) {
	var cmds []tea.Cmd

	if _, ok := msg.(AnimationTickMsg); ok && b.isAnimating {
		switch {
		case b.currentPercent < b.targetPercent:
			b.currentPercent = min(b.currentPercent+animationStep(b.targetPercent-b.currentPercent), b.targetPercent)
			cmds = append(cmds, animationTick())
		case b.currentPercent > b.targetPercent:
			b.currentPercent = max(b.currentPercent-animationStep(b.currentPercent-b.targetPercent), b.targetPercent)
			cmds = append(cmds, animationTick())
		default:
			b.isAnimating = false
		}
	}

	model, cmd := b.progress.Update(msg)
	if p, ok := model.(progress.Model); ok {
		b.progress = p
	}
	cmds = append(cmds, cmd)

	return b, tea.Batch(cmds...)
}

func animationStep(delta float64) float64 {
	return max(delta/10, 0.5)
}

// SetPercent sets the target percentage and starts animating toward it.
func (b *BalanceBar) SetPercent(percent float64) tea.Cmd {
	percent = clampPercent(percent)
	b.percent = percent
	b.targetPercent = percent

	if !b.isAnimating {
		b.isAnimating = true
		return tea.Batch(b.progress.SetPercent(percent/100), animationTick())
	}
	return b.progress.SetPercent(percent / 100)
}

// Percent returns the target percentage.
func (b BalanceBar) Percent() float64 {
	return b.percent
}

// Current returns the animated percentage.
func (b BalanceBar) Current() float64 {
	return b.currentPercent
}

// SetWidth sets the progress bar width.
func (b *BalanceBar) SetWidth(width int) {
	b.progress.Width = width
}

// View renders the bar with label and remaining percentage.
func (b BalanceBar) View(percent float64, label string, width int) string {
	percent = clampPercent(percent)
	b.progress.Width = max(width-30, 10)

	bar := b.progress.ViewAs(percent / 100)
	percentStr := styles.GetBalanceStyle(percent).
		Width(6).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percent))
	labelStr := lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(15).Render(label)

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, " ", percentStr)
}

// ViewUnlimited renders a full bar marked as unlimited.
func (b BalanceBar) ViewUnlimited(label string, width int) string {
	barWidth := max(width-30, 10)
	labelStr := lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(15).Render(label)
	fullBar := lipgloss.NewStyle().Foreground(styles.Secondary).Render(strings.Repeat("█", barWidth))
	status := styles.UnlimitedStyle.Width(11).Align(lipgloss.Right).Render("UNLIMITED")

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, fullBar, " ", status)
}

func clampPercent(p float64) float64 {
	return max(0, min(p, 100))
}

var loadingDots = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// LoadingBar renders a shimmering placeholder bar shown while a query runs.
func LoadingBar(width, frame int) string {
	const (
		indentWidth  = 4
		percentWidth = 6
		cycle        = 120
	)

	barWidth := max(width-indentWidth-percentWidth-4, 10)

	t := float64(frame%cycle) / float64(cycle)
	p := t * 2
	if t >= 0.5 {
		p = (1 - t) * 2
	}
	eased := p * p * (3 - 2*p)
	shimmerPos := int(eased * float64(barWidth))

	var barChars []string
	for i := range barWidth {
		dist := shimmerPos - i
		if dist < 0 {
			dist = -dist
		}

		var char string
		var style lipgloss.Style
		switch {
		case dist < 3:
			char = "▓"
			style = lipgloss.NewStyle().Foreground(styles.Balance)
		case dist < 5:
			char = "▒"
			style = lipgloss.NewStyle().Foreground(styles.TextSecondary)
		default:
			char = "░"
			style = lipgloss.NewStyle().Foreground(styles.BgLight)
		}
		barChars = append(barChars, style.Render(char))
	}

	dot := lipgloss.NewStyle().
		Width(percentWidth).
		Align(lipgloss.Right).
		Foreground(styles.Balance).
		Render(loadingDots[(frame/2)%len(loadingDots)])

	return lipgloss.JoinHorizontal(lipgloss.Left,
		strings.Repeat(" ", indentWidth),
		strings.Join(barChars, ""),
		" ",
		dot,
	)
}
