package components

import (
	"strings"
	"testing"
)

func TestNewBalanceBar(t *testing.T) {
	bar := NewBalanceBar()
	if bar.Percent() != 0 {
		t.Errorf("percent = %f, want 0.0", bar.Percent())
	}
}

func TestBalanceBar_Setters(t *testing.T) {
	bar := NewBalanceBar()
	if cmd := bar.SetPercent(75.5); cmd == nil {
		t.Error("SetPercent should start an animation")
	}
	if bar.Percent() != 75.5 {
		t.Errorf("percent = %f, want 75.5", bar.Percent())
	}

	bar.SetPercent(150)
	if bar.Percent() != 100 {
		t.Errorf("percent = %f, want clamped 100", bar.Percent())
	}

	bar.SetWidth(20)
}

func TestBalanceBar_Animation(t *testing.T) {
	bar := NewBalanceBar()
	bar.SetPercent(40)

	for range 200 {
		bar, _ = bar.Update(AnimationTickMsg{})
	}
	if bar.Current() != 40 {
		t.Errorf("Current() = %f, want 40 after animation settles", bar.Current())
	}
	if bar.isAnimating {
		t.Error("animation should stop once the target is reached")
	}
}

func TestBalanceBar_View(t *testing.T) {
	bar := NewBalanceBar()
	view := bar.View(50.0, "Remaining", 60)
	if !strings.Contains(view, "50%") {
		t.Errorf("View() should contain percentage, got %q", view)
	}
	if !strings.Contains(view, "Remaining") {
		t.Error("View() should contain label")
	}
}

func TestBalanceBar_ViewUnlimited(t *testing.T) {
	bar := NewBalanceBar()
	view := bar.ViewUnlimited("Remaining", 60)
	if !strings.Contains(view, "UNLIMITED") {
		t.Error("ViewUnlimited() should contain marker")
	}
}

func TestLoadingBar(t *testing.T) {
	for _, frame := range []int{0, 30, 60, 119} {
		if LoadingBar(40, frame) == "" {
			t.Errorf("LoadingBar(frame=%d) returned empty", frame)
		}
	}
}
