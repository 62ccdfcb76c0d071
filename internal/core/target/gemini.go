package target

// Gemini implements the Target interface for the Gemini CLI.
// Earlier releases had no enablement mechanism and always reported
// unsupported; current releases honor the disabled-subfolder
// convention, so Gemini now uses the default base behavior.
type Gemini struct {
	base
}

// NewGemini creates a configured Gemini CLI target.
func NewGemini(s Settings) *Gemini {
	return &Gemini{base{
		name:        "gemini-cli",
		displayName: "Gemini CLI",
		priority:    4,
		managedRoot: "~/.gemini/skills",
		auxRoots:    []string{".gemini/skills"},
		workDir:     s.WorkDir,
		toggleable:  true,
	}}
}
