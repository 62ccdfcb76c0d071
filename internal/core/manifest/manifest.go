// Package manifest parses SKILL.md files: YAML frontmatter plus a
// free-form markdown body. Parsing is deliberately forgiving — a broken
// or missing frontmatter block degrades to directory-name metadata
// instead of failing, so a malformed skill never disappears from view.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// FileName is the manifest file every skill directory must contain.
const FileName = "SKILL.md"

// tokenCharRatio approximates natural-language tokens from characters.
const tokenCharRatio = 4

const delimiter = "---"

// Manifest is the parsed, immutable view of a SKILL.md file.
type Manifest struct {
	Name        string
	Description string
	Body        string // markdown after the closing frontmatter delimiter
	Raw         string // full file text, untouched
}

// MetadataTokens estimates the token cost of loading just the skill's
// name and description.
func (m *Manifest) MetadataTokens() int {
	var parts []string
	if m.Name != "" {
		parts = append(parts, m.Name)
	}
	if m.Description != "" {
		parts = append(parts, m.Description)
	}
	return EstimateTokens(strings.Join(parts, "\n"))
}

// TotalTokens estimates the token cost of the entire manifest text.
func (m *Manifest) TotalTokens() int {
	return EstimateTokens(m.Raw)
}

// EstimateTokens returns a rough token count for text: the character
// count after trimming, divided by four and rounded up. This is an
// approximation, not a tokenizer. Blank input estimates to zero.
func EstimateTokens(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	n := utf8.RuneCountInString(trimmed)
	return (n + tokenCharRatio - 1) / tokenCharRatio
}

// Parse reads and parses the manifest at path. The only error is a read
// failure; any malformed content still produces a Manifest, with the
// name falling back to the parent directory's base name.
func Parse(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseContent(string(data), filepath.Base(filepath.Dir(path))), nil
}

// ParseContent parses manifest text. fallbackName is used when no name
// can be extracted from the frontmatter. It never fails.
func ParseContent(content, fallbackName string) *Manifest {
	m := &Manifest{Raw: content}

	block, body, ok := splitFrontmatter(content)
	if !ok {
		// No frontmatter (or unterminated): the whole file is body.
		m.Name = fallbackName
		m.Body = strings.TrimSpace(content)
		return m
	}
	m.Body = strings.TrimSpace(body)

	name, desc := parseBlock(block)
	if name == "" {
		name = fallbackName
	}
	m.Name = name
	m.Description = desc
	return m
}

// splitFrontmatter returns the text between the opening and closing
// "---" lines and the remaining body. ok is false when the content does
// not start with a delimiter or the closing delimiter is missing.
func splitFrontmatter(content string) (block, body string, ok bool) {
	trimmed := strings.TrimLeft(content, " \t\r\n")
	lines := strings.Split(trimmed, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != delimiter {
		return "", "", false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == delimiter {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), true
		}
	}
	return "", "", false
}

// parseBlock extracts name and description from a frontmatter block.
// Strict YAML is tried first; on failure it degrades to a line-by-line
// "key: value" scan so that a single bad line can't hide the metadata.
func parseBlock(block string) (name, desc string) {
	var fm struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	}
	if err := yaml.Unmarshal([]byte(block), &fm); err == nil {
		name = cleanValue(fm.Name)
		desc = cleanValue(fm.Description)
		if name != "" || desc != "" {
			return name, desc
		}
	}

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if v, found := strings.CutPrefix(line, "name:"); found && name == "" {
			name = cleanValue(v)
		}
		if v, found := strings.CutPrefix(line, "description:"); found && desc == "" {
			desc = cleanValue(v)
		}
	}
	return name, desc
}

// cleanValue trims whitespace and one matching pair of surrounding quotes.
func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			v = v[1 : len(v)-1]
		}
	}
	return v
}
