package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/skilldock/skilldock/internal/core/target"
	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <skill> <target>",
	Short: "Flip a skill's enablement for one tool",
	Long: `Flip whether a tool sees the given skill. The toggle acts on the
physical copy that specific tool reads, so the same skill can stay
enabled for one tool while disabled for another.

Examples:
  skilldock toggle code-review claude-code
  skilldock toggle go-test codex`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		skillID := strings.ToLower(args[0])
		targetID := args[1]

		if err := d.registry.Toggle(skillID, targetID); err != nil {
			return err
		}

		// Re-read so the confirmation reflects actual on-disk state.
		records, err := d.registry.List()
		if err != nil {
			return fmt.Errorf("listing skills: %w", err)
		}
		for _, rec := range records {
			if rec.ID != skillID {
				continue
			}
			if st, ok := rec.StateFor(targetID); ok {
				fmt.Fprintf(os.Stdout, "%s is now %s for %s\n", rec.Name, st.Status, targetID)
				return nil
			}
		}
		fmt.Fprintf(os.Stdout, "Toggled %s for %s\n", skillID, targetID)
		return nil
	},
}

var enableCmd = &cobra.Command{
	Use:   "enable <skill> <target>",
	Short: "Enable a skill for one tool",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnablement(args[0], args[1], true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <skill> <target>",
	Short: "Disable a skill for one tool",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnablement(args[0], args[1], false)
	},
}

// setEnablement drives the registry toward a desired state, treating an
// already-satisfied request as success.
func setEnablement(skillArg, targetID string, enable bool) error {
	d, err := newDeps()
	if err != nil {
		return err
	}

	skillID := strings.ToLower(skillArg)
	records, err := d.registry.List()
	if err != nil {
		return fmt.Errorf("listing skills: %w", err)
	}

	for _, rec := range records {
		if rec.ID != skillID {
			continue
		}
		st, ok := rec.StateFor(targetID)
		if !ok {
			return fmt.Errorf("unknown target %q", targetID)
		}
		want := target.StatusDisabled
		if enable {
			want = target.StatusEnabled
		}
		if st.Status == want {
			fmt.Fprintf(os.Stdout, "%s is already %s for %s\n", rec.Name, want, targetID)
			return nil
		}
		if err := d.registry.Toggle(skillID, targetID); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s is now %s for %s\n", rec.Name, want, targetID)
		return nil
	}
	return fmt.Errorf("skill %q not found", skillArg)
}

func init() {
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}
