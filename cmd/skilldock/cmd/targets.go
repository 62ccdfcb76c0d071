package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List known tools and whether they are present on this machine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		infos, err := d.registry.Targets()
		if err != nil {
			return fmt.Errorf("listing targets: %w", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(infos)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTOGGLE\tDETECTED")
		for _, info := range infos {
			toggle := "yes"
			if !info.SupportsEnablement {
				toggle = "no"
			}
			detected := "no"
			if info.Detected {
				detected = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.ID, info.Label, toggle, detected)
		}
		return w.Flush()
	},
}

func init() {
	targetsCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(targetsCmd)
}
