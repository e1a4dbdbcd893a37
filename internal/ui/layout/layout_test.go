package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{80, 24, false},
		{79, 24, true},
		{120, 23, true},
		{120, 40, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderFrameHeight(t *testing.T) {
	header := RenderHeader("Home", 0, 0, 100)
	footer := RenderFooter(nil, "", 100)
	frame := RenderFrame(header, "body", footer, 100, 30)
	if got := lipgloss.Height(frame); got != 30 {
		t.Errorf("frame height = %d, want 30", got)
	}
}

func TestRenderHeaderCompact(t *testing.T) {
	h := RenderHeader("Home", 42, 7, 80)
	if strings.Contains(h, "42 rep") || !strings.Contains(h, "42") {
		t.Errorf("compact header = %q", h)
	}
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Skill Tree", 42, 7, 100)
	for _, want := range []string{"PhysIQ", "Skill Tree", "42 rep", "7 SP"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestRenderFooterNotice(t *testing.T) {
	hints := []KeyHint{{Key: "Esc", Description: "Back"}}
	f := RenderFooter(hints, "+5 reputation", 100)
	if !strings.Contains(f, "Back") || !strings.Contains(f, "+5 reputation") {
		t.Errorf("footer = %q", f)
	}
	if lipgloss.Height(RenderFooter(hints, "", 100)) != lipgloss.Height(f) {
		t.Error("notice should not change footer height")
	}

	long := RenderFooter(hints, strings.Repeat("x", 200), 100)
	if !strings.Contains(long, "…") {
		t.Error("expected long notice to be cut")
	}
	if lipgloss.Height(long) != lipgloss.Height(f) {
		t.Error("long notice should not wrap")
	}
}
