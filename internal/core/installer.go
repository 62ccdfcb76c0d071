package core

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/skilldock/skilldock/internal/core/manifest"
	"github.com/skilldock/skilldock/internal/core/target"
	"github.com/skilldock/skilldock/internal/logging"
)

// defaultInstallTarget receives installs when neither the request nor
// the settings name a target.
const defaultInstallTarget = "claude-code"

// Stage identifies a step of the install transaction.
type Stage string

const (
	StageStart   Stage = "start"
	StageClone   Stage = "clone"
	StageScan    Stage = "scan"
	StageCopy    Stage = "copy"
	StageCleanup Stage = "cleanup"
	StageDone    Stage = "done"
	StageError   Stage = "error"
)

// ProgressEvent is one observable step of an install. Line carries raw
// subprocess output for live display.
type ProgressEvent struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message,omitempty"`
	Line    string `json:"line,omitempty"`
}

// ProgressFunc receives progress events during an install.
type ProgressFunc func(ProgressEvent)

// Install result statuses.
const (
	InstallStatusDone  = "done"
	InstallStatusError = "error"
)

// InstallRequest describes one install operation.
type InstallRequest struct {
	Source    string // display label for where the request came from
	Repo      string // repository reference (URL or owner/name)
	SkillName string // optional skill-name filter, advisory
	Target    string // optional target id; settings default otherwise
}

// InstallResult is the uniform outcome of an install. Errors are folded
// into it rather than raised, so callers never need error handling
// beyond checking Status.
type InstallResult struct {
	Status    string   `json:"status"` // "done" or "error"
	Message   string   `json:"message"`
	Installed []string `json:"installed,omitempty"`
}

// Installer clones a skill source and copies discovered skills into a
// target's managed root.
type Installer struct {
	settings   *SettingsManager
	workDir    string
	log        *slog.Logger
	targetsFor func(target.Settings) []target.Target
}

// NewInstaller creates an Installer.
func NewInstaller(sm *SettingsManager, workDir string) *Installer {
	if workDir == "" {
		workDir, _ = os.Getwd()
	}
	return &Installer{
		settings:   sm,
		workDir:    workDir,
		log:        logging.Default(),
		targetsFor: target.All,
	}
}

// Install runs the transaction: resolve target, normalize the repo
// reference, shallow-clone to a temp dir, scan for skills, copy the
// selected ones, and clean up the checkout. Already-copied skills stay
// in place when a later one fails; the temp checkout is always removed,
// best-effort.
func (inst *Installer) Install(req InstallRequest, progress ProgressFunc) *InstallResult {
	emit := func(ev ProgressEvent) {
		if progress != nil {
			progress(ev)
		}
	}
	fail := func(format string, args ...any) *InstallResult {
		msg := fmt.Sprintf(format, args...)
		inst.log.Error("install failed", slog.String("reason", msg))
		emit(ProgressEvent{Stage: StageError, Message: msg})
		return &InstallResult{Status: InstallStatusError, Message: msg}
	}

	inst.log.Info("install requested",
		slog.String("source", req.Source),
		slog.String("repo", req.Repo))

	cfg, err := inst.settings.Load()
	if err != nil {
		return fail("loading settings: %v", err)
	}
	targets := inst.targetsFor(target.Settings{
		WorkDir:       inst.workDir,
		CompanionDirs: cfg.CompanionDirs,
	})

	targetID := req.Target
	if targetID == "" {
		targetID = cfg.DefaultInstallTarget
	}
	if targetID == "" {
		targetID = defaultInstallTarget
	}
	t, ok := target.ByName(targets, targetID)
	if !ok {
		return fail("unknown install target %q", targetID)
	}
	destRoot := target.ManagedRoot(t)
	if destRoot == "" {
		return fail("target %q has no managed root", targetID)
	}

	cloneURL, err := NormalizeRepoRef(req.Repo)
	if err != nil {
		return fail("%v", err)
	}

	emit(ProgressEvent{Stage: StageStart, Message: cloneURL})

	tmpDir, err := os.MkdirTemp("", "skilldock-clone-*")
	if err != nil {
		return fail("creating temp dir: %v", err)
	}
	// Best-effort removal of the checkout, on every path. A failed
	// removal is discarded: it never turns a finished install into an
	// error.
	cleanup := func() {
		emit(ProgressEvent{Stage: StageCleanup, Message: tmpDir})
		_ = os.RemoveAll(tmpDir)
	}

	emit(ProgressEvent{Stage: StageClone, Message: cloneURL})
	err = cloneShallow(cloneURL, tmpDir, func(line string) {
		emit(ProgressEvent{Stage: StageClone, Line: line})
	})
	if err != nil {
		cleanup()
		return fail("cloning %s: %v", cloneURL, err)
	}

	emit(ProgressEvent{Stage: StageScan, Message: tmpDir})
	candidates := discoverCandidates(tmpDir)
	if len(candidates) == 0 {
		cleanup()
		return fail("no skills found in %s", cloneURL)
	}
	candidates = filterCandidates(candidates, req.SkillName)

	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		cleanup()
		return fail("creating %s: %v", destRoot, err)
	}

	var installed []string
	for _, cand := range candidates {
		dest := filepath.Join(destRoot, filepath.Base(cand.dir))
		if _, statErr := os.Lstat(dest); statErr == nil {
			cleanup()
			return fail("skill %q: destination already exists: %s", cand.name, dest)
		}
		emit(ProgressEvent{Stage: StageCopy, Message: cand.name})
		if err := copyDirectory(cand.dir, dest); err != nil {
			cleanup()
			return fail("copying skill %q: %v", cand.name, err)
		}
		installed = append(installed, cand.name)
		inst.log.Info("installed skill", logging.Skill(cand.name), logging.Target(targetID), logging.Path(dest))
	}

	cleanup()
	emit(ProgressEvent{Stage: StageDone, Message: fmt.Sprintf("installed %d skill(s)", len(installed))})
	return &InstallResult{
		Status:    InstallStatusDone,
		Message:   fmt.Sprintf("installed %d skill(s) into %s", len(installed), destRoot),
		Installed: installed,
	}
}

// candidate is a skill directory discovered inside a checkout.
type candidate struct {
	name string
	dir  string
}

// discoverCandidates walks a checkout for manifest files, treating each
// containing directory as a skill candidate.
func discoverCandidates(root string) []candidate {
	var out []candidate
	seen := make(map[string]bool)

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() && path != root {
			name := d.Name()
			if strings.HasPrefix(name, ".") && name != ".agents" {
				return filepath.SkipDir
			}
			switch name {
			case "node_modules", "vendor", "__pycache__":
				return filepath.SkipDir
			}
		}
		if d.IsDir() || d.Name() != manifest.FileName {
			return nil
		}

		dir := filepath.Dir(path)
		if seen[dir] {
			return nil
		}
		seen[dir] = true

		m, err := manifest.Parse(path)
		if err != nil {
			return nil
		}
		out = append(out, candidate{name: m.Name, dir: dir})
		return nil
	})
	return out
}

// filterCandidates keeps candidates whose name matches filter
// case-insensitively. The filter is advisory: when it matches nothing,
// all candidates are kept rather than none.
func filterCandidates(candidates []candidate, filter string) []candidate {
	if filter == "" {
		return candidates
	}
	var matched []candidate
	for _, c := range candidates {
		if strings.EqualFold(c.name, filter) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return candidates
	}
	return matched
}
