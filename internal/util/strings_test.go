package util

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string unchanged", "main", 10, "main"},
		{"exact length unchanged", "hdmi-1", 6, "hdmi-1"},
		{"long string truncated", "Built-in Retina Display", 12, "Built-in ..."},
		{"tiny budget is all ellipsis", "main", 3, "..."},
		{"zero budget is all ellipsis", "main", 0, "..."},
		{"negative budget is all ellipsis", "main", -5, "..."},
		{"empty string unchanged", "", 10, ""},
		{"budget of four keeps one rune", "hello", 4, "h..."},
		{"runes counted not bytes", "日本語テスト", 5, "日本..."},
		{"mixed ascii and wide runes", "hello日本語world", 10, "hello日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestTruncateANSI(t *testing.T) {
	if got := TruncateANSI("terminal - vim", 20); got != "terminal - vim" {
		t.Errorf("string within budget changed: %q", got)
	}
	if got := TruncateANSI("terminal - vim", 8); got != "termi..." {
		t.Errorf("plain truncation = %q, want %q", got, "termi...")
	}
	if got := TruncateANSI("terminal", 2); got != "..." {
		t.Errorf("tiny budget = %q, want ellipsis", got)
	}
	if got := TruncateANSI("", 10); got != "" {
		t.Errorf("empty string changed: %q", got)
	}
}

func TestTruncateANSIStyled(t *testing.T) {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	styled := style.Render("Zo")
	if got := TruncateANSI(styled, 10); got != styled {
		t.Error("styled string within budget should pass through untouched")
	}

	long := style.Render("Zoom Meeting - Weekly Sync")
	for _, width := range []int{8, 12, 20} {
		got := TruncateANSI(long, width)
		if w := lipgloss.Width(got); w > width {
			t.Errorf("truncated width %d exceeds budget %d", w, width)
		}
	}

	wide := "日本語テスト"
	if w := lipgloss.Width(TruncateANSI(wide, 8)); w > 8 {
		t.Errorf("wide characters should be measured by columns, got width %d", w)
	}
}
