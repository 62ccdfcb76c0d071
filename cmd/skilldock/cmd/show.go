package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/skilldock/skilldock/internal/core/manifest"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var showCmd = &cobra.Command{
	Use:   "show <skill>",
	Short: "Show a skill's manifest, rendered",
	Long: `Show a skill's metadata, per-target status, and its rendered
SKILL.md body.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		records, err := d.registry.List()
		if err != nil {
			return fmt.Errorf("listing skills: %w", err)
		}

		skillID := strings.ToLower(args[0])
		for _, rec := range records {
			if rec.ID != skillID {
				continue
			}

			fmt.Fprintf(os.Stdout, "Name: %s\n", rec.Name)
			if rec.Description != "" {
				fmt.Fprintf(os.Stdout, "Description: %s\n", rec.Description)
			}
			fmt.Fprintf(os.Stdout, "Path: %s\n", rec.Path)
			if len(rec.SourceRoots) > 1 {
				fmt.Fprintf(os.Stdout, "Also in: %s\n", joinStrings(rec.SourceRoots[1:]))
			}
			fmt.Fprintf(os.Stdout, "Tokens: %d total, %d metadata\n", rec.TotalTokens, rec.MetadataTokens)
			for _, ts := range rec.Targets {
				fmt.Fprintf(os.Stdout, "  %-12s %s\n", ts.Target, statusGlyph(ts.Status))
			}

			m, err := manifest.Parse(filepath.Join(rec.Path, manifest.FileName))
			if err != nil {
				return fmt.Errorf("reading manifest: %w", err)
			}
			if m.Body == "" {
				return nil
			}
			fmt.Fprintln(os.Stdout)
			fmt.Fprint(os.Stdout, renderMarkdown(m.Body))
			return nil
		}
		return fmt.Errorf("skill %q not found", args[0])
	},
}

// renderMarkdown pretty-prints markdown for the terminal, falling back
// to the raw text when rendering is not possible.
func renderMarkdown(body string) string {
	width := 100
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < width {
		width = w
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return body
	}
	rendered, err := r.Render(body)
	if err != nil {
		return body
	}
	return rendered
}

func init() {
	rootCmd.AddCommand(showCmd)
}
