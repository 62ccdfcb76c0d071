package target

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

const skillsConfigName = "skills.json"

// OpenCode implements the Target interface for OpenCode.
//
// Enablement lives in a skills.json config file next to the managed
// root: a list of {path, enabled} entries. A path with no entry is
// enabled by default; entries with enabled:false mark skills disabled.
// Mutations rewrite the whole file through a temp-file rename. JSONC
// (comments, trailing commas) is tolerated on read.
type OpenCode struct {
	base
	configPath string
}

// NewOpenCode creates a configured OpenCode target.
func NewOpenCode(s Settings) *OpenCode {
	managed := "$XDG_CONFIG/opencode/skills"
	return &OpenCode{
		base: base{
			name:        "opencode",
			displayName: "OpenCode",
			priority:    3,
			managedRoot: managed,
			auxRoots:    []string{".opencode/skills"},
			workDir:     s.WorkDir,
			toggleable:  true,
		},
		configPath: filepath.Join(filepath.Dir(expandPath(managed)), skillsConfigName),
	}
}

// ConfigPath returns the skills config file location.
func (o *OpenCode) ConfigPath() string { return o.configPath }

type skillEntry struct {
	Path    string `json:"path"`
	Enabled bool   `json:"enabled"`
}

type skillsConfig struct {
	Skills []skillEntry `json:"skills"`
}

func (o *OpenCode) Enablement(path string) (Status, error) {
	if rootContaining(o.Roots(), path) == "" {
		return StatusNotInstalled, nil
	}

	// A missing or broken config must never hide a skill, so read
	// failures degrade to the enabled default.
	cfg := o.readConfig()
	norm := normalizePath(path)
	for _, e := range cfg.Skills {
		if normalizePath(e.Path) == norm && !e.Enabled {
			return StatusDisabled, nil
		}
	}
	return StatusEnabled, nil
}

func (o *OpenCode) SetEnablement(path string, enabled bool) error {
	if rootContaining(o.Roots(), path) == "" {
		return fmt.Errorf("%w: %s", ErrNotInstalled, path)
	}

	cfg := o.readConfig()
	norm := normalizePath(path)

	// Drop any existing entry for this path, then append a disabling
	// entry when needed. Enabled skills carry no entry at all.
	kept := cfg.Skills[:0]
	for _, e := range cfg.Skills {
		if normalizePath(e.Path) != norm {
			kept = append(kept, e)
		}
	}
	cfg.Skills = kept
	if !enabled {
		cfg.Skills = append(cfg.Skills, skillEntry{Path: norm, Enabled: false})
	}

	data, err := json.MarshalIndent(&cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling skills config: %w", err)
	}
	data = append(data, '\n')
	return writeFileAtomic(o.configPath, data)
}

// readConfig loads skills.json, returning an empty config when the
// file is missing or unparseable.
func (o *OpenCode) readConfig() skillsConfig {
	var cfg skillsConfig
	data, err := os.ReadFile(o.configPath)
	if err != nil {
		return cfg
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return cfg
	}
	_ = json.Unmarshal(std, &cfg)
	return cfg
}

// normalizePath resolves a path to cleaned absolute form for entry
// comparison.
func normalizePath(p string) string {
	abs, err := filepath.Abs(expandPath(p))
	if err != nil {
		return filepath.Clean(p)
	}
	return filepath.Clean(abs)
}
