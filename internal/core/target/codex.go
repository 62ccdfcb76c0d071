package target

import (
	"fmt"
	"os"
	"path/filepath"
)

// Codex implements the Target interface for the Codex CLI.
//
// When the user has configured a companion directory, enablement is
// expressed by the presence of a symlink (or copied directory) at the
// parallel location inside it: the managed copy stays put, and the
// companion entry is created on enable and removed on disable. Without
// a companion directory, Codex falls back to the disabled-subfolder
// convention.
type Codex struct {
	base
	companionDir string
}

// NewCodex creates a configured Codex target.
func NewCodex(s Settings) *Codex {
	managed := "~/.codex/skills"
	if os.Getenv("CODEX_HOME") != "" {
		managed = "$CODEX_HOME/skills"
	}
	return &Codex{
		base: base{
			name:        "codex",
			displayName: "Codex",
			priority:    2,
			managedRoot: managed,
			auxRoots:    []string{".agents/skills"},
			workDir:     s.WorkDir,
			toggleable:  true,
		},
		companionDir: expandPath(s.CompanionDirs["codex"]),
	}
}

func (c *Codex) Roots() []string {
	roots := c.base.Roots()
	if c.companionDir != "" {
		roots = append(roots, c.companionDir)
	}
	return roots
}

func (c *Codex) Enablement(path string) (Status, error) {
	if c.companionDir == "" {
		return c.base.Enablement(path)
	}

	if isUnder(c.companionDir, path) {
		return StatusEnabled, nil
	}
	if rootContaining(c.base.Roots(), path) == "" {
		return StatusNotInstalled, nil
	}
	if pathExists(filepath.Join(c.companionDir, filepath.Base(path))) {
		return StatusEnabled, nil
	}
	return StatusDisabled, nil
}

func (c *Codex) SetEnablement(path string, enabled bool) error {
	if c.companionDir == "" {
		return c.base.SetEnablement(path, enabled)
	}

	if rootContaining(c.Roots(), path) == "" {
		return fmt.Errorf("%w: %s", ErrNotInstalled, path)
	}

	link := filepath.Join(c.companionDir, filepath.Base(path))

	if !enabled {
		// Disabling removes only the companion entry; the managed
		// copy is left untouched.
		if isUnder(c.companionDir, path) {
			return os.RemoveAll(path)
		}
		if pathExists(link) {
			return os.RemoveAll(link)
		}
		return nil
	}

	if isUnder(c.companionDir, path) {
		return nil // the companion entry is the enabled marker
	}

	if err := os.MkdirAll(c.companionDir, 0o755); err != nil {
		return fmt.Errorf("creating companion dir: %w", err)
	}

	// Recreate the link so a stale entry never points elsewhere.
	_ = os.RemoveAll(link)

	rel, err := filepath.Rel(c.companionDir, path)
	if err != nil {
		return fmt.Errorf("computing relative path: %w", err)
	}
	if err := os.Symlink(rel, link); err != nil {
		// Fall back to a full copy if symlinks are unavailable.
		if copyErr := copyDirectory(path, link); copyErr != nil {
			return fmt.Errorf("symlink and copy both failed: symlink: %w, copy: %v", err, copyErr)
		}
	}
	return nil
}
