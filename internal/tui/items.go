package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/skilldock/skilldock/internal/core"
	"github.com/skilldock/skilldock/internal/core/target"
)

// badge renders one per-target status cell, e.g. "claude:on".
func badge(ts core.TargetState) string {
	label := shortTargetName(ts.Target)
	switch ts.Status {
	case target.StatusEnabled:
		return enabledBadgeStyle.Render(label + ":on")
	case target.StatusDisabled:
		return disabledBadgeStyle.Render(label + ":off")
	case target.StatusUnsupported:
		return absentBadgeStyle.Render(label + ":n/a")
	default:
		return absentBadgeStyle.Render(label + ":-")
	}
}

// shortTargetName compacts target ids for badge display.
func shortTargetName(id string) string {
	switch id {
	case "claude-code":
		return "claude"
	case "gemini-cli":
		return "gemini"
	default:
		return id
	}
}

// renderSkillRow renders one row of the skill table. The description is
// truncated so badges always stay visible.
func renderSkillRow(rec core.SkillRecord, selected bool, width int) string {
	cursor := "  "
	nameStyle := normalItemStyle
	if selected {
		cursor = "> "
		nameStyle = selectedItemStyle
	}

	badges := make([]string, 0, len(rec.Targets))
	for _, ts := range rec.Targets {
		badges = append(badges, badge(ts))
	}
	badgeStr := strings.Join(badges, " ")

	name := nameStyle.Render(fmt.Sprintf("%-24s", rec.Name))
	line := cursor + name + " " + badgeStr

	if rec.Description != "" {
		remaining := width - ansi.StringWidth(line) - 2
		if remaining > 8 {
			line += "  " + mutedStyle.Render(ansi.Truncate(rec.Description, remaining, "…"))
		}
	}
	return line
}
