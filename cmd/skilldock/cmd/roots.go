package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "Manage extra skill scan roots",
	Long: `Manage additional directories scanned for skills on top of each
tool's own skill directories. Entries may be plain paths or glob
patterns (e.g. ~/code/*/skills).`,
}

var rootsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured extra roots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		s, err := d.settings.Load()
		if err != nil {
			return err
		}
		if len(s.ExtraRoots) == 0 {
			fmt.Fprintln(os.Stdout, "No extra roots configured.")
			return nil
		}
		for _, r := range s.ExtraRoots {
			fmt.Fprintln(os.Stdout, r)
		}
		return nil
	},
}

var rootsAddCmd = &cobra.Command{
	Use:   "add <path-or-glob>",
	Short: "Add an extra scan root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		if err := d.settings.AddExtraRoot(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Added root: %s\n", args[0])
		return nil
	},
}

var rootsRemoveCmd = &cobra.Command{
	Use:     "remove <path-or-glob>",
	Aliases: []string{"rm"},
	Short:   "Remove an extra scan root",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		if err := d.settings.RemoveExtraRoot(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Removed root: %s\n", args[0])
		return nil
	},
}

func init() {
	rootsCmd.AddCommand(rootsListCmd)
	rootsCmd.AddCommand(rootsAddCmd)
	rootsCmd.AddCommand(rootsRemoveCmd)
	rootCmd.AddCommand(rootsCmd)
}
