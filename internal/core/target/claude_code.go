package target

// ClaudeCode implements the Target interface for Claude Code.
// Enablement uses the disabled-subfolder convention: disabled skills
// live under <root>/.disabled/.
type ClaudeCode struct {
	base
}

// NewClaudeCode creates a configured Claude Code target.
func NewClaudeCode(s Settings) *ClaudeCode {
	return &ClaudeCode{base{
		name:        "claude-code",
		displayName: "Claude Code",
		priority:    1,
		managedRoot: "~/.claude/skills",
		auxRoots:    []string{".claude/skills"},
		workDir:     s.WorkDir,
		toggleable:  true,
	}}
}
