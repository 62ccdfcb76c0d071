package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSettings_LoadDefaultsWhenMissing(t *testing.T) {
	sm := NewSettingsManagerWithDir(t.TempDir())
	s, err := sm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(s.ExtraRoots) != 0 || s.DefaultInstallTarget != "" {
		t.Errorf("defaults = %+v, want zero value", s)
	}
}

func TestSettings_SaveLoadRoundTrip(t *testing.T) {
	sm := NewSettingsManagerWithDir(t.TempDir())
	in := &Settings{
		ExtraRoots:           []string{"/tmp/skills"},
		DefaultInstallTarget: "codex",
		CompanionDirs:        map[string]string{"codex": "/tmp/active"},
	}
	if err := sm.Save(in); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	out, err := sm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if out.DefaultInstallTarget != "codex" {
		t.Errorf("DefaultInstallTarget = %q", out.DefaultInstallTarget)
	}
	if out.CompanionDirs["codex"] != "/tmp/active" {
		t.Errorf("CompanionDirs = %v", out.CompanionDirs)
	}

	// No temp file left behind from the atomic write.
	if _, err := os.Stat(sm.SettingsPath() + ".tmp"); err == nil {
		t.Error("temp settings file not cleaned up")
	}
}

func TestSettings_LoadRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	sm := NewSettingsManagerWithDir(dir)
	if err := os.WriteFile(sm.SettingsPath(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := sm.Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSettings_AddRemoveExtraRoot(t *testing.T) {
	sm := NewSettingsManagerWithDir(t.TempDir())

	if err := sm.AddExtraRoot("/a"); err != nil {
		t.Fatal(err)
	}
	if err := sm.AddExtraRoot("/a"); err != nil {
		t.Fatal("duplicate add should be a no-op, got error")
	}
	if err := sm.AddExtraRoot("/b"); err != nil {
		t.Fatal(err)
	}

	s, _ := sm.Load()
	if len(s.ExtraRoots) != 2 {
		t.Fatalf("ExtraRoots = %v", s.ExtraRoots)
	}

	if err := sm.RemoveExtraRoot("/a"); err != nil {
		t.Fatal(err)
	}
	if err := sm.RemoveExtraRoot("/a"); err == nil {
		t.Fatal("removing an untracked root should fail")
	}
	s, _ = sm.Load()
	if len(s.ExtraRoots) != 1 || s.ExtraRoots[0] != "/b" {
		t.Errorf("ExtraRoots = %v", s.ExtraRoots)
	}
}

func TestResolveExtraRoots(t *testing.T) {
	base := t.TempDir()
	for _, d := range []string{"one/skills", "two/skills"} {
		if err := os.MkdirAll(filepath.Join(base, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	s := &Settings{ExtraRoots: []string{
		filepath.Join(base, "*", "skills"),
		filepath.Join(base, "missing"), // plain paths pass through even when absent
		filepath.Join(base, "[bad"),    // bad pattern matches nothing
	}}
	roots := resolveExtraRoots(s)
	if len(roots) != 3 {
		t.Fatalf("roots = %v, want 2 glob matches plus the plain path", roots)
	}
}

func TestResolveExtraRoots_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.MkdirAll(filepath.Join(home, "my-skills"), 0o755); err != nil {
		t.Fatal(err)
	}

	s := &Settings{ExtraRoots: []string{"~/my-skills"}}
	roots := resolveExtraRoots(s)
	if len(roots) != 1 || roots[0] != filepath.Join(home, "my-skills") {
		t.Errorf("roots = %v", roots)
	}
}
