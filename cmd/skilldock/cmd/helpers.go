package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/skilldock/skilldock/internal/core/target"
)

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}

// statusGlyph maps a target status to a compact table cell.
func statusGlyph(s target.Status) string {
	switch s {
	case target.StatusEnabled:
		return "on"
	case target.StatusDisabled:
		return "off"
	case target.StatusUnsupported:
		return "n/a"
	default:
		return "-"
	}
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

// joinStrings concatenates string slices with ", " separator.
func joinStrings(ss []string) string {
	return strings.Join(ss, ", ")
}
