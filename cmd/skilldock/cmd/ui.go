package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/skilldock/skilldock/internal/tui"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive skill browser",
	Long: `Open an interactive terminal UI showing every skill with its
per-target status. Toggle targets with number keys, preview SKILL.md
bodies, and install from a repository with live progress.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		app := tui.NewApp(d.registry, d.installer)
		p := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running UI: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
