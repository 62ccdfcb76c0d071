package target

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DisabledDirName is the subfolder a root's disabled skills move into.
const DisabledDirName = ".disabled"

// base provides the default implementations shared by all targets.
// The default enablement convention is the disabled-subfolder move;
// targets with other conventions override Enablement/SetEnablement.
type base struct {
	name        string
	displayName string
	priority    int
	managedRoot string   // may contain ~ or $VAR
	auxRoots    []string // workspace-relative convention directories
	workDir     string
	toggleable  bool
}

func (b *base) Name() string             { return b.name }
func (b *base) DisplayName() string      { return b.displayName }
func (b *base) Priority() int            { return b.priority }
func (b *base) SupportsEnablement() bool { return b.toggleable }

func (b *base) Roots() []string {
	roots := []string{expandPath(b.managedRoot)}
	for _, r := range b.auxRoots {
		roots = append(roots, filepath.Join(b.workDir, r))
	}
	return roots
}

func (b *base) IsManagedRoot(root string) bool {
	return filepath.Clean(root) == filepath.Clean(expandPath(b.managedRoot))
}

func (b *base) Enablement(path string) (Status, error) {
	return disabledDirStatus(b.Roots(), path), nil
}

func (b *base) SetEnablement(path string, enabled bool) error {
	if !b.toggleable {
		return fmt.Errorf("%s: %w", b.displayName, ErrUnsupported)
	}
	return moveAcrossDisabledDir(b.Roots(), path, enabled)
}

// disabledDirStatus implements the read side of the disabled-subfolder
// convention: a path under <root>/.disabled/ is disabled, any other
// path under a root is enabled.
func disabledDirStatus(roots []string, path string) Status {
	for _, root := range roots {
		if isUnder(filepath.Join(root, DisabledDirName), path) {
			return StatusDisabled
		}
		if isUnder(root, path) {
			return StatusEnabled
		}
	}
	return StatusNotInstalled
}

// moveAcrossDisabledDir renames a skill directory between a root and
// its .disabled child. The destination parent is created first, and a
// stale empty directory at the destination is removed best-effort
// before the rename; the rename itself is allowed to fail.
func moveAcrossDisabledDir(roots []string, path string, enabled bool) error {
	root := rootContaining(roots, path)
	if root == "" {
		return fmt.Errorf("%w: %s", ErrNotInstalled, path)
	}

	name := filepath.Base(path)
	dest := filepath.Join(root, DisabledDirName, name)
	if enabled {
		dest = filepath.Join(root, name)
	}
	if filepath.Clean(dest) == filepath.Clean(path) {
		return nil // already in the requested state
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	removeIfEmptyDir(dest)

	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("moving skill %s: %w", name, err)
	}
	return nil
}

// rootContaining returns the first root that contains path, or "".
func rootContaining(roots []string, path string) string {
	for _, root := range roots {
		if isUnder(root, path) {
			return root
		}
	}
	return ""
}

// isUnder reports whether child equals parent or lies beneath it.
func isUnder(parent, child string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(child))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// removeIfEmptyDir removes dir when it exists and is empty. The outcome
// is discarded on purpose: a failed cleanup just means the following
// rename reports the conflict instead.
func removeIfEmptyDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	_ = os.Remove(dir)
}

// expandPath expands ~ to the home directory and $VAR / $XDG_CONFIG to
// environment values.
func expandPath(p string) string {
	if strings.Contains(p, "$XDG_CONFIG") {
		xdgConfig := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfig == "" {
			home, _ := os.UserHomeDir()
			xdgConfig = filepath.Join(home, ".config")
		}
		p = strings.ReplaceAll(p, "$XDG_CONFIG", xdgConfig)
	}

	if strings.Contains(p, "$") {
		p = os.Expand(p, func(key string) string {
			if key == "XDG_CONFIG" {
				return ""
			}
			return os.Getenv(key)
		})
	}

	if strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		p = filepath.Join(home, p[2:])
	} else if p == "~" {
		home, _ := os.UserHomeDir()
		p = home
	}

	return p
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// copyDirectory copies the contents of src to dst.
func copyDirectory(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dstPath := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(dstPath, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		return os.WriteFile(dstPath, data, info.Mode())
	})
}

// writeFileAtomic writes content via a temp file and rename so readers
// never observe a partial config.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
