package core

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/skilldock/skilldock/internal/core/target"
)

// setHome points HOME (and friends) at a temp dir so adapter roots are
// isolated per test.
func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("CODEX_HOME", "")
	return home
}

// writeSkill creates <dir>/<folder>/SKILL.md with the given manifest name.
func writeSkill(t *testing.T, dir, folder, name string) string {
	t.Helper()
	skillDir := filepath.Join(dir, folder)
	if err := os.MkdirAll(skillDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "---\nname: " + name + "\ndescription: test skill " + name + "\n---\nbody of " + name
	if err := os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return skillDir
}

func newTestRegistry(t *testing.T, s *Settings) *Registry {
	t.Helper()
	sm := NewSettingsManagerWithDir(t.TempDir())
	if s != nil {
		if err := sm.Save(s); err != nil {
			t.Fatal(err)
		}
	}
	return NewRegistry(sm, t.TempDir())
}

func TestRegistry_ListEmpty(t *testing.T) {
	setHome(t)
	r := newTestRegistry(t, nil)

	records, err := r.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no skills, got %d", len(records))
	}
}

func TestRegistry_MergesSameNameAcrossRoots(t *testing.T) {
	home := setHome(t)
	extra := t.TempDir()

	writeSkill(t, filepath.Join(home, ".claude", "skills"), "foo", "Foo")
	writeSkill(t, extra, "foo", "Foo")

	r := newTestRegistry(t, &Settings{ExtraRoots: []string{extra}})
	records, err := r.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 merged record, got %d", len(records))
	}
	rec := records[0]
	if rec.Name != "Foo" || rec.ID != "foo" {
		t.Errorf("record = %q/%q, want Foo/foo", rec.Name, rec.ID)
	}
	if len(rec.SourceRoots) != 2 {
		t.Errorf("SourceRoots = %v, want both roots", rec.SourceRoots)
	}
}

func TestRegistry_SortedAndDeterministic(t *testing.T) {
	home := setHome(t)
	root := filepath.Join(home, ".claude", "skills")
	writeSkill(t, root, "zeta", "zeta")
	writeSkill(t, root, "alpha", "alpha")
	writeSkill(t, root, "Beta", "Beta")

	r := newTestRegistry(t, nil)
	first, err := r.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	var names []string
	for _, rec := range first {
		names = append(names, rec.Name)
	}
	// Case-sensitive lexical order: uppercase sorts before lowercase.
	want := []string{"Beta", "alpha", "zeta"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}

	second, err := r.List()
	if err != nil {
		t.Fatalf("second List() error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("List() is not deterministic for unchanged disk state")
	}
}

func TestRegistry_DisabledSkillsRemainDiscoverable(t *testing.T) {
	home := setHome(t)
	root := filepath.Join(home, ".claude", "skills")
	writeSkill(t, filepath.Join(root, target.DisabledDirName), "hidden", "hidden")

	r := newTestRegistry(t, nil)
	records, err := r.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	st, ok := records[0].StateFor("claude-code")
	if !ok || st.Status != target.StatusDisabled {
		t.Errorf("claude-code state = %+v, want disabled", st)
	}
}

func TestRegistry_PerTargetStatuses(t *testing.T) {
	home := setHome(t)
	writeSkill(t, filepath.Join(home, ".claude", "skills"), "solo", "solo")

	r := newTestRegistry(t, nil)
	records, err := r.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if len(rec.Targets) != 4 {
		t.Fatalf("expected 4 target states, got %d", len(rec.Targets))
	}

	for _, ts := range rec.Targets {
		switch ts.Target {
		case "claude-code":
			if ts.Status != target.StatusEnabled {
				t.Errorf("claude-code = %q, want enabled", ts.Status)
			}
			if !ts.Managed {
				t.Error("claude-code copy should be under the managed root")
			}
		default:
			if ts.Status != target.StatusNotInstalled {
				t.Errorf("%s = %q, want not-installed", ts.Target, ts.Status)
			}
		}
	}
}

func TestRegistry_RootThatIsASingleSkill(t *testing.T) {
	setHome(t)
	extra := t.TempDir()
	// The extra root itself is the skill directory.
	content := "---\nname: root-skill\n---\nbody"
	if err := os.WriteFile(filepath.Join(extra, "SKILL.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newTestRegistry(t, &Settings{ExtraRoots: []string{extra}})
	records, err := r.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 1 || records[0].Name != "root-skill" {
		t.Fatalf("records = %+v, want single root-skill", records)
	}
	if records[0].Path != extra {
		t.Errorf("Path = %q, want the root itself %q", records[0].Path, extra)
	}
}

func TestRegistry_ExtraRootGlob(t *testing.T) {
	setHome(t)
	base := t.TempDir()
	writeSkill(t, filepath.Join(base, "proj-a", "skills"), "one", "one")
	writeSkill(t, filepath.Join(base, "proj-b", "skills"), "two", "two")

	r := newTestRegistry(t, &Settings{ExtraRoots: []string{filepath.Join(base, "*", "skills")}})
	records, err := r.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 skills via glob roots, got %d", len(records))
	}
}

func TestRegistry_NameFallsBackToDirName(t *testing.T) {
	home := setHome(t)
	root := filepath.Join(home, ".claude", "skills")
	dir := filepath.Join(root, "bare-skill")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("no frontmatter"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newTestRegistry(t, nil)
	records, err := r.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 1 || records[0].Name != "bare-skill" {
		t.Fatalf("records = %+v, want name fallback to bare-skill", records)
	}
}

func TestRegistry_Toggle_RoundTrip(t *testing.T) {
	home := setHome(t)
	root := filepath.Join(home, ".claude", "skills")
	orig := writeSkill(t, root, "flip", "flip")

	r := newTestRegistry(t, nil)

	if err := r.Toggle("flip", "claude-code"); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, target.DisabledDirName, "flip")); err != nil {
		t.Fatal("skill not moved into .disabled")
	}

	if err := r.Toggle("flip", "claude-code"); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if _, err := os.Stat(orig); err != nil {
		t.Fatal("skill not restored to its original path")
	}
}

func TestRegistry_Toggle_UsesTargetOwnCopy(t *testing.T) {
	home := setHome(t)
	claudeRoot := filepath.Join(home, ".claude", "skills")
	geminiRoot := filepath.Join(home, ".gemini", "skills")
	claudeCopy := writeSkill(t, claudeRoot, "dual", "dual")
	writeSkill(t, geminiRoot, "dual", "dual")

	r := newTestRegistry(t, nil)
	if err := r.Toggle("dual", "gemini-cli"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if _, err := os.Stat(filepath.Join(geminiRoot, target.DisabledDirName, "dual")); err != nil {
		t.Error("gemini copy was not the one toggled")
	}
	if _, err := os.Stat(claudeCopy); err != nil {
		t.Error("claude copy must stay untouched")
	}
}

func TestRegistry_Toggle_UnknownTarget(t *testing.T) {
	home := setHome(t)
	orig := writeSkill(t, filepath.Join(home, ".claude", "skills"), "safe", "safe")

	r := newTestRegistry(t, nil)
	if err := r.Toggle("safe", "no-such-tool"); err == nil {
		t.Fatal("expected unknown target error")
	}
	if _, err := os.Stat(orig); err != nil {
		t.Error("skill moved despite failed toggle")
	}
}

func TestRegistry_Toggle_UnknownSkill(t *testing.T) {
	setHome(t)
	r := newTestRegistry(t, nil)
	if err := r.Toggle("ghost", "claude-code"); err == nil {
		t.Fatal("expected unknown skill error")
	}
}

func TestRegistry_Toggle_NotInstalledForTarget(t *testing.T) {
	home := setHome(t)
	writeSkill(t, filepath.Join(home, ".claude", "skills"), "claudeonly", "claudeonly")

	r := newTestRegistry(t, nil)
	if err := r.Toggle("claudeonly", "gemini-cli"); err == nil {
		t.Fatal("expected not-installed error")
	}
}

// stubTarget exercises the unsupported status path without a real tool.
type stubTarget struct {
	root string
}

func (s *stubTarget) Name() string                    { return "stub" }
func (s *stubTarget) DisplayName() string             { return "Stub" }
func (s *stubTarget) Priority() int                   { return 99 }
func (s *stubTarget) SupportsEnablement() bool        { return false }
func (s *stubTarget) Roots() []string                 { return []string{s.root} }
func (s *stubTarget) IsManagedRoot(root string) bool  { return root == s.root }
func (s *stubTarget) Enablement(string) (target.Status, error) {
	return target.StatusEnabled, nil
}
func (s *stubTarget) SetEnablement(string, bool) error { return target.ErrUnsupported }

func TestRegistry_UnsupportedTarget(t *testing.T) {
	setHome(t)
	root := t.TempDir()
	writeSkill(t, root, "frozen", "frozen")

	r := newTestRegistry(t, nil)
	r.targetsFor = func(target.Settings) []target.Target {
		return []target.Target{&stubTarget{root: root}}
	}

	records, err := r.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	st, ok := records[0].StateFor("stub")
	if !ok || st.Status != target.StatusUnsupported {
		t.Errorf("stub state = %+v, want unsupported", st)
	}

	if err := r.Toggle("frozen", "stub"); err == nil {
		t.Error("toggle on unsupported target must fail")
	}
}

func TestRegistry_DebugLogsScannedRoots(t *testing.T) {
	home := setHome(t)
	buf := captureLogs(t)
	writeSkill(t, filepath.Join(home, ".claude", "skills"), "traced", "traced")

	r := newTestRegistry(t, nil)
	if _, err := r.List(); err != nil {
		t.Fatalf("List() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "scanned root") || !strings.Contains(out, "count=1") {
		t.Errorf("debug output missing scanned-root entry:\n%s", out)
	}
}

func TestRegistry_Targets(t *testing.T) {
	home := setHome(t)
	if err := os.MkdirAll(filepath.Join(home, ".claude", "skills"), 0o755); err != nil {
		t.Fatal(err)
	}

	r := newTestRegistry(t, nil)
	infos, err := r.Targets()
	if err != nil {
		t.Fatalf("Targets() error: %v", err)
	}
	if len(infos) != 4 {
		t.Fatalf("expected 4 targets, got %d", len(infos))
	}
	if infos[0].ID != "claude-code" || !infos[0].Detected {
		t.Errorf("first target = %+v, want detected claude-code", infos[0])
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].Priority > infos[i].Priority {
			t.Error("targets not in priority order")
		}
	}
}
