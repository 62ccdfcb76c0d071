package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/skilldock/skilldock/internal/core"
	"github.com/skilldock/skilldock/internal/core/target"
)

func TestShortTargetName(t *testing.T) {
	tests := map[string]string{
		"claude-code": "claude",
		"gemini-cli":  "gemini",
		"codex":       "codex",
		"opencode":    "opencode",
	}
	for in, want := range tests {
		if got := shortTargetName(in); got != want {
			t.Errorf("shortTargetName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBadge(t *testing.T) {
	tests := []struct {
		status target.Status
		want   string
	}{
		{target.StatusEnabled, "codex:on"},
		{target.StatusDisabled, "codex:off"},
		{target.StatusNotInstalled, "codex:-"},
		{target.StatusUnsupported, "codex:n/a"},
	}
	for _, tt := range tests {
		got := ansi.Strip(badge(core.TargetState{Target: "codex", Status: tt.status}))
		if got != tt.want {
			t.Errorf("badge(%s) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestRenderSkillRow_FitsWidth(t *testing.T) {
	rec := core.SkillRecord{
		Name:        "code-review",
		Description: strings.Repeat("long description ", 20),
		Targets: []core.TargetState{
			{Target: "claude-code", Status: target.StatusEnabled},
			{Target: "codex", Status: target.StatusNotInstalled},
		},
	}

	row := renderSkillRow(rec, true, 80)
	if w := ansi.StringWidth(row); w > 80 {
		t.Errorf("row width = %d, want <= 80", w)
	}
	plain := ansi.Strip(row)
	if !strings.HasPrefix(plain, "> ") {
		t.Errorf("selected row missing cursor: %q", plain)
	}
	if !strings.Contains(plain, "claude:on") || !strings.Contains(plain, "codex:-") {
		t.Errorf("badges missing from row: %q", plain)
	}
}

func TestRenderSkillRow_NarrowWidthDropsDescription(t *testing.T) {
	rec := core.SkillRecord{
		Name:        "code-review",
		Description: "description",
		Targets:     []core.TargetState{{Target: "codex", Status: target.StatusEnabled}},
	}
	row := ansi.Strip(renderSkillRow(rec, false, 40))
	if strings.Contains(row, "description") {
		t.Errorf("narrow row should drop the description: %q", row)
	}
}
