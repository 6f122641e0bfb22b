package tui

import (
	"strings"
	"testing"

	"github.com/rnakai/typedrill/internal/typing"
)

func TestRenderProgressBar_Proportions(t *testing.T) {
	tests := []struct {
		pct        int
		wantFilled int
	}{
		{0, 0},
		{50, 20},
		{100, 40},
		{-10, 0},
		{150, 40},
	}
	for _, tt := range tests {
		bar := renderProgressBar(tt.pct, 40)
		if got := strings.Count(bar, "█"); got != tt.wantFilled {
			t.Errorf("pct %d: %d filled cells, want %d", tt.pct, got, tt.wantFilled)
		}
		if got := strings.Count(bar, "░"); got != 40-tt.wantFilled {
			t.Errorf("pct %d: %d empty cells, want %d", tt.pct, got, 40-tt.wantFilled)
		}
	}
}

func TestRenderTarget_WhitespaceMarkers(t *testing.T) {
	// Mistyped space shows the visible marker.
	out := renderTarget(typing.Classify("a_", "a b"))
	if !strings.Contains(out, "␣") {
		t.Error("mistyped space not rendered with a marker")
	}

	// Correctly typed space keeps the plain character.
	out = renderTarget(typing.Classify("a b", "a b"))
	if strings.Contains(out, "␣") {
		t.Error("correct space rendered with a marker")
	}
}

func TestRenderTarget_CoversWholeTarget(t *testing.T) {
	target := "abc def"
	out := renderTarget(typing.Classify("abc", target))
	for _, r := range "abcdef" {
		if !strings.Contains(out, string(r)) {
			t.Errorf("rendered target missing %q", r)
		}
	}
}
