package cmd

import (
	"fmt"
	"os"

	"github.com/skilldock/skilldock/internal/core"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <repo>",
	Short: "Install skill(s) from a git repository",
	Long: `Clone a repository, scan it for skill packages, and copy them into a
tool's managed skills directory.

The repository reference may be a full git URL (https://, git@, ssh://,
file://) or a GitHub "owner/repo" shorthand.

Examples:
  skilldock install anthropics/skills
  skilldock install https://github.com/acme/skills.git
  skilldock install acme/skills --skill code-review --target codex`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		skillName, _ := cmd.Flags().GetString("skill")
		targetID, _ := cmd.Flags().GetString("target")
		quiet, _ := cmd.Flags().GetBool("quiet")

		progress := func(ev core.ProgressEvent) {
			if quiet {
				return
			}
			switch {
			case ev.Line != "":
				fmt.Fprintf(os.Stderr, "  %s\n", ev.Line)
			case ev.Stage == core.StageClone:
				fmt.Fprintf(os.Stderr, "Cloning %s ...\n", ev.Message)
			case ev.Stage == core.StageCopy:
				fmt.Fprintf(os.Stderr, "Installing %s\n", ev.Message)
			}
		}

		result := d.installer.Install(core.InstallRequest{
			Source:    "cli",
			Repo:      args[0],
			SkillName: skillName,
			Target:    targetID,
		}, progress)

		if result.Status != core.InstallStatusDone {
			return fmt.Errorf("%s", result.Message)
		}

		for _, name := range result.Installed {
			fmt.Fprintf(os.Stdout, "Installed: %s\n", name)
		}
		fmt.Fprintln(os.Stdout, result.Message)
		return nil
	},
}

func init() {
	installCmd.Flags().String("skill", "", "Install only the skill with this name (best effort)")
	installCmd.Flags().String("target", "", "Tool to install into (default: settings, then claude-code)")
	installCmd.Flags().Bool("quiet", false, "Suppress progress output")
	rootCmd.AddCommand(installCmd)
}
