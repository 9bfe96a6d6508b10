package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(79, 30) || !IsTooSmall(100, 23) {
		t.Error("expected too small below the minimum")
	}
	if IsTooSmall(80, 24) {
		t.Error("80x24 should fit")
	}
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Quiz", "gemini", 90)
	for _, want := range []string{"FGStudy", "Quiz", "gemini"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
	if lipgloss.Height(h) != 3 {
		t.Errorf("header height = %d, want 3", lipgloss.Height(h))
	}
}

func TestRenderFooter_DropsOverflow(t *testing.T) {
	hints := []KeyHint{
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: strings.Repeat("x", 100)},
	}
	f := RenderFooter(hints, 80)
	if !strings.Contains(f, "Select") {
		t.Error("first hint should fit")
	}
	if strings.Contains(f, "Esc") {
		t.Error("hint wider than the footer should be dropped")
	}
}

func TestRenderFrame_Height(t *testing.T) {
	header := RenderHeader("", "", 80)
	footer := RenderFooter(nil, 80)
	frame := RenderFrame(header, "body", footer, 80, 24)
	if got := lipgloss.Height(frame); got != 24 {
		t.Errorf("frame height = %d, want 24", got)
	}
}
