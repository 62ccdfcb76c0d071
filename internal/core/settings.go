package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	settingsDirName  = ".skilldock"
	settingsFileName = "settings.json"
)

// SettingsManager handles reading and writing the skilldock settings.
// The file on disk is the source of truth; callers load a fresh
// snapshot per logical operation.
type SettingsManager struct {
	settingsDir string
	mu          sync.RWMutex
}

// NewSettingsManager creates a SettingsManager using the default
// settings path (~/.skilldock/).
func NewSettingsManager() (*SettingsManager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	return &SettingsManager{
		settingsDir: filepath.Join(home, settingsDirName),
	}, nil
}

// NewSettingsManagerWithDir creates a SettingsManager using a custom
// settings directory. Useful for testing.
func NewSettingsManagerWithDir(dir string) *SettingsManager {
	return &SettingsManager{settingsDir: dir}
}

// SettingsPath returns the full path to the settings file.
func (sm *SettingsManager) SettingsPath() string {
	return filepath.Join(sm.settingsDir, settingsFileName)
}

// Load reads settings from disk. Returns defaults if the file doesn't
// exist.
func (sm *SettingsManager) Load() (*Settings, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	data, err := os.ReadFile(sm.SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	return &s, nil
}

// Save writes settings to disk, creating the directory if needed.
// The write goes through a temp file and rename.
func (sm *SettingsManager) Save(s *Settings) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if err := os.MkdirAll(sm.settingsDir, 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	tmpPath := sm.SettingsPath() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmpPath, sm.SettingsPath()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// AddExtraRoot registers an additional scan directory or glob pattern.
func (sm *SettingsManager) AddExtraRoot(root string) error {
	s, err := sm.Load()
	if err != nil {
		return err
	}
	for _, r := range s.ExtraRoots {
		if r == root {
			return nil // already tracked
		}
	}
	s.ExtraRoots = append(s.ExtraRoots, root)
	return sm.Save(s)
}

// RemoveExtraRoot drops an extra scan directory.
func (sm *SettingsManager) RemoveExtraRoot(root string) error {
	s, err := sm.Load()
	if err != nil {
		return err
	}
	kept := s.ExtraRoots[:0]
	for _, r := range s.ExtraRoots {
		if r != root {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(s.ExtraRoots) {
		return fmt.Errorf("extra root %q is not tracked", root)
	}
	s.ExtraRoots = kept
	return sm.Save(s)
}

// resolveExtraRoots expands each configured extra root to concrete
// directories. Entries containing glob metacharacters are expanded
// with doublestar; plain paths pass through even when absent.
func resolveExtraRoots(s *Settings) []string {
	var roots []string
	for _, raw := range s.ExtraRoots {
		p := expandPath(raw)
		if !strings.ContainsAny(p, "*?[{") {
			roots = append(roots, p)
			continue
		}
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			continue // a bad pattern matches nothing
		}
		for _, m := range matches {
			if dirExists(m) {
				roots = append(roots, m)
			}
		}
	}
	return roots
}
