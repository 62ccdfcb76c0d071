// Package target defines the Target abstraction for skilldock.
//
// A Target represents an AI coding tool (Claude Code, Codex, OpenCode,
// Gemini CLI). Each target knows its own skill directories and its own
// enablement convention: a `.disabled` subfolder, a companion symlink
// directory, or a config file with per-path entries. Targets are
// self-contained Go structs built fresh from a settings snapshot — no
// long-lived singletons, so settings changes take effect on the next
// construction.
package target

import (
	"errors"
	"sort"
)

// Status is a skill's enablement state for one target.
type Status string

const (
	StatusEnabled      Status = "enabled"
	StatusDisabled     Status = "disabled"
	StatusNotInstalled Status = "not-installed"
	StatusUnsupported  Status = "unsupported"
)

// ErrNotInstalled is returned by SetEnablement when the skill has no
// physical copy under any of the target's roots.
var ErrNotInstalled = errors.New("skill not installed for this target")

// ErrUnsupported is returned by SetEnablement when the tool has no
// enable/disable mechanism at all.
var ErrUnsupported = errors.New("target does not support enablement")

// Settings carries the user-configurable inputs targets depend on.
// Construct targets from a fresh snapshot whenever settings may have
// changed.
type Settings struct {
	// WorkDir resolves workspace-relative roots. Empty means the
	// process working directory.
	WorkDir string

	// CompanionDirs maps target names to user-configured companion
	// skill directories (used by the symlink convention).
	CompanionDirs map[string]string
}

// Target defines how one AI coding tool integrates with skilldock.
type Target interface {
	// Identity
	Name() string        // machine name: "claude-code", "codex"
	DisplayName() string // human name: "Claude Code", "Codex"
	Priority() int       // lower sorts first

	// SupportsEnablement reports whether the tool can toggle skills
	// at all. False means every installed skill is simply present.
	SupportsEnablement() bool

	// Roots returns the ordered skill directories this tool may read
	// from. Directories need not exist; absence is a normal state.
	Roots() []string

	// IsManagedRoot reports whether root is the directory skilldock
	// itself creates and owns for this tool.
	IsManagedRoot(root string) bool

	// Enablement returns the status of the skill copy at path without
	// mutating any filesystem state.
	Enablement(path string) (Status, error)

	// SetEnablement toggles the skill copy at path. It fails with
	// ErrNotInstalled when path is outside every root and with
	// ErrUnsupported when the tool cannot toggle.
	SetEnablement(path string, enabled bool) error
}

// All returns every supported target, built from the given settings
// snapshot and ordered by priority.
func All(s Settings) []Target {
	targets := []Target{
		NewClaudeCode(s),
		NewCodex(s),
		NewOpenCode(s),
		NewGemini(s),
	}
	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].Priority() < targets[j].Priority()
	})
	return targets
}

// ByName returns the target with the given machine name.
func ByName(targets []Target, name string) (Target, bool) {
	for _, t := range targets {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// ManagedRoot returns the target's managed root directory.
func ManagedRoot(t Target) string {
	for _, r := range t.Roots() {
		if t.IsManagedRoot(r) {
			return r
		}
	}
	return ""
}
