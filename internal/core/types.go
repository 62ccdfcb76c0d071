// Package core provides the business logic for skilldock: settings,
// the skill registry, and the install transaction. It has zero UI
// dependencies and is independently testable.
package core

import "github.com/skilldock/skilldock/internal/core/target"

// Settings is the skilldock configuration stored at
// ~/.skilldock/settings.json.
type Settings struct {
	// ExtraRoots are additional directories to scan for skills. Glob
	// patterns (doublestar syntax) are allowed.
	ExtraRoots []string `json:"extraRoots,omitempty"`

	// DefaultInstallTarget names the target installs go to when the
	// request leaves it unspecified.
	DefaultInstallTarget string `json:"defaultInstallTarget,omitempty"`

	// CompanionDirs maps target names to companion skill directories
	// (used by the symlink enablement convention).
	CompanionDirs map[string]string `json:"companionDirs,omitempty"`
}

// SkillRecord is a logical skill discovered on disk. Records are
// ephemeral read snapshots: every listing fully re-derives them from
// the filesystem, and mutation goes through target adapters, never
// through the record itself.
type SkillRecord struct {
	// ID is the dedup identity: the skill name lower-cased. Skills
	// found in several roots under the same name coalesce into one
	// record.
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// Path is one representative physical location (the first found).
	Path string `json:"path"`

	// SourceRoots lists every root the skill was discovered under.
	SourceRoots []string `json:"sourceRoots"`

	// Token estimates derived from the manifest text.
	MetadataTokens int `json:"metadataTokens"`
	TotalTokens    int `json:"totalTokens"`

	// Targets holds the per-target states, in target priority order.
	Targets []TargetState `json:"targets"`

	// paths are all physical skill directories found for this record.
	paths []string
}

// StateFor returns the record's state for the given target id.
func (r *SkillRecord) StateFor(targetID string) (TargetState, bool) {
	for _, ts := range r.Targets {
		if ts.Target == targetID {
			return ts, true
		}
	}
	return TargetState{}, false
}

// TargetState is one skill's status for one target.
type TargetState struct {
	Target string        `json:"target"`
	Status target.Status `json:"status"`

	// Managed reports whether the copy this target sees lives under a
	// root skilldock itself created, as opposed to a user extra root.
	Managed bool `json:"managed"`

	// Path is the physical copy this target evaluates. The same
	// logical skill may have a different copy per target.
	Path string `json:"path,omitempty"`
}

// TargetInfo describes one target for callers of the registry.
type TargetInfo struct {
	ID                 string `json:"id"`
	Label              string `json:"label"`
	Priority           int    `json:"priority"`
	SupportsEnablement bool   `json:"supportsEnablement"`
	Detected           bool   `json:"detected"` // any of its roots exist on disk
}
