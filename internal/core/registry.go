package core

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/skilldock/skilldock/internal/core/manifest"
	"github.com/skilldock/skilldock/internal/core/target"
	"github.com/skilldock/skilldock/internal/logging"
)

// Registry discovers skills across all target roots plus user extra
// roots and reconciles a per-target status for each logical skill.
//
// The registry is stateless between calls: every List fully re-derives
// from disk, so the on-disk state stays the single source of truth.
// Callers must serialize mutating operations themselves.
type Registry struct {
	settings *SettingsManager
	workDir  string
	log      *slog.Logger

	// targetsFor builds adapters from a settings snapshot. Swappable
	// in tests.
	targetsFor func(target.Settings) []target.Target
}

// NewRegistry creates a Registry. workDir resolves workspace-relative
// roots; empty means the process working directory.
func NewRegistry(sm *SettingsManager, workDir string) *Registry {
	if workDir == "" {
		workDir, _ = os.Getwd()
	}
	return &Registry{
		settings:   sm,
		workDir:    workDir,
		log:        logging.Default(),
		targetsFor: target.All,
	}
}

// snapshot loads settings and builds fresh adapters from them. Roots
// may depend on settings that changed, so this happens per call.
func (r *Registry) snapshot() (*Settings, []target.Target, error) {
	cfg, err := r.settings.Load()
	if err != nil {
		return nil, nil, err
	}
	targets := r.targetsFor(target.Settings{
		WorkDir:       r.workDir,
		CompanionDirs: cfg.CompanionDirs,
	})
	return cfg, targets, nil
}

// List returns every discovered skill with its per-target states,
// sorted by name.
func (r *Registry) List() ([]SkillRecord, error) {
	cfg, targets, err := r.snapshot()
	if err != nil {
		return nil, err
	}
	return r.listWith(cfg, targets)
}

func (r *Registry) listWith(cfg *Settings, targets []target.Target) ([]SkillRecord, error) {
	roots := scanRoots(cfg, targets)

	merged := make(map[string]*SkillRecord)
	var order []string

	for _, root := range roots {
		manifests := discoverManifests(root)
		if len(manifests) > 0 {
			r.log.Debug("scanned root", logging.Root(root), logging.Count(len(manifests)))
		}
		for _, manifestPath := range manifests {
			m, err := manifest.Parse(manifestPath)
			if err != nil {
				r.log.Debug("skipping unreadable manifest", logging.Path(manifestPath), logging.Err(err))
				continue
			}
			dir := filepath.Dir(manifestPath)
			key := strings.ToLower(m.Name)

			rec, ok := merged[key]
			if !ok {
				merged[key] = &SkillRecord{
					ID:             key,
					Name:           m.Name,
					Description:    m.Description,
					Path:           dir,
					SourceRoots:    []string{root},
					MetadataTokens: m.MetadataTokens(),
					TotalTokens:    m.TotalTokens(),
					paths:          []string{dir},
				}
				order = append(order, key)
				continue
			}

			// Same logical skill found in another place: coalesce.
			if !containsString(rec.SourceRoots, root) {
				rec.SourceRoots = append(rec.SourceRoots, root)
			}
			if !containsString(rec.paths, dir) {
				rec.paths = append(rec.paths, dir)
			}
			if rec.Description == "" {
				rec.Description = m.Description
			}
		}
	}

	records := make([]SkillRecord, 0, len(order))
	for _, key := range order {
		rec := merged[key]
		rec.Targets = targetStates(rec, targets)
		records = append(records, *rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})

	r.log.Debug("listed skills", logging.Count(len(records)))
	return records, nil
}

// Targets returns the target descriptors in priority order.
func (r *Registry) Targets() ([]TargetInfo, error) {
	_, targets, err := r.snapshot()
	if err != nil {
		return nil, err
	}

	infos := make([]TargetInfo, 0, len(targets))
	for _, t := range targets {
		detected := false
		for _, root := range t.Roots() {
			if dirExists(root) {
				detected = true
				break
			}
		}
		infos = append(infos, TargetInfo{
			ID:                 t.Name(),
			Label:              t.DisplayName(),
			Priority:           t.Priority(),
			SupportsEnablement: t.SupportsEnablement(),
			Detected:           detected,
		})
	}
	return infos, nil
}

// Toggle flips a skill's enablement for one target. The skill's
// physical copy as seen by that specific target is what moves — the
// same logical skill may live elsewhere for other targets.
func (r *Registry) Toggle(skillID, targetID string) error {
	cfg, targets, err := r.snapshot()
	if err != nil {
		return err
	}

	t, ok := target.ByName(targets, targetID)
	if !ok {
		return fmt.Errorf("unknown target %q", targetID)
	}

	records, err := r.listWith(cfg, targets)
	if err != nil {
		return err
	}

	key := strings.ToLower(skillID)
	var rec *SkillRecord
	for i := range records {
		if records[i].ID == key {
			rec = &records[i]
			break
		}
	}
	if rec == nil {
		return fmt.Errorf("skill %q not found", skillID)
	}

	ts, _ := rec.StateFor(targetID)
	switch ts.Status {
	case target.StatusNotInstalled:
		return fmt.Errorf("skill %q is not installed for %s", rec.Name, t.DisplayName())
	case target.StatusUnsupported:
		return fmt.Errorf("%s: %w", t.DisplayName(), target.ErrUnsupported)
	}

	enable := ts.Status != target.StatusEnabled
	r.log.Info("toggling skill", logging.Skill(rec.Name), logging.Target(targetID), slog.Bool("enable", enable))
	return t.SetEnablement(ts.Path, enable)
}

// scanRoots produces the ordered union of every adapter root and the
// resolved extra roots, without duplicates.
func scanRoots(cfg *Settings, targets []target.Target) []string {
	seen := make(map[string]bool)
	var roots []string
	add := func(root string) {
		clean := filepath.Clean(root)
		if !seen[clean] {
			seen[clean] = true
			roots = append(roots, clean)
		}
	}
	for _, t := range targets {
		for _, root := range t.Roots() {
			add(root)
		}
	}
	for _, root := range resolveExtraRoots(cfg) {
		add(root)
	}
	return roots
}

// discoverManifests finds candidate manifest files under one root.
// A root either IS a single skill (manifest directly inside) or
// contains skill subdirectories one level deep; a .disabled child is
// scanned the same way so disabled skills stay discoverable.
func discoverManifests(root string) []string {
	direct := filepath.Join(root, manifest.FileName)
	if fileExists(direct) {
		return []string{direct}
	}

	out := manifestsInChildren(root)
	out = append(out, manifestsInChildren(filepath.Join(root, target.DisabledDirName))...)
	return out
}

// manifestsInChildren returns the manifest paths of dir's immediate
// skill subdirectories. Symlinked directories count: companion roots
// hold symlinks to managed copies.
func manifestsInChildren(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil // absence is a normal state
	}

	var out []string
	for _, entry := range entries {
		if entry.Name() == target.DisabledDirName {
			continue
		}
		child := filepath.Join(dir, entry.Name())
		if !dirExists(child) {
			continue
		}
		if p := filepath.Join(child, manifest.FileName); fileExists(p) {
			out = append(out, p)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// targetStates computes the per-target status for one merged record.
// Each target evaluates its OWN physical copy, found by matching the
// record's discovered paths against that target's roots.
func targetStates(rec *SkillRecord, targets []target.Target) []TargetState {
	states := make([]TargetState, 0, len(targets))
	for _, t := range targets {
		var found, foundRoot string
	search:
		for _, root := range t.Roots() {
			for _, p := range rec.paths {
				if isUnder(root, p) {
					found, foundRoot = p, root
					break search
				}
			}
		}

		if found == "" {
			states = append(states, TargetState{Target: t.Name(), Status: target.StatusNotInstalled})
			continue
		}

		ts := TargetState{
			Target:  t.Name(),
			Path:    found,
			Managed: t.IsManagedRoot(foundRoot),
		}
		if !t.SupportsEnablement() {
			ts.Status = target.StatusUnsupported
		} else if st, err := t.Enablement(found); err != nil {
			// A read failure must not hide the skill; presence under
			// a root means at least installed.
			ts.Status = target.StatusEnabled
		} else {
			ts.Status = st
		}
		states = append(states, ts)
	}
	return states
}
