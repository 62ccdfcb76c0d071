package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List discovered skills and their per-target status",
	Long: `List every skill found across the configured scan roots, with its
enablement status for each known tool.

Status cells: on (enabled), off (disabled), - (not installed),
n/a (the tool has no enablement mechanism).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		records, err := d.registry.List()
		if err != nil {
			return fmt.Errorf("listing skills: %w", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(records)
		}

		if len(records) == 0 {
			fmt.Fprintln(os.Stdout, "No skills found.")
			fmt.Fprintln(os.Stdout, "Install one with: skilldock install <owner/repo>")
			return nil
		}

		targets, err := d.registry.Targets()
		if err != nil {
			return fmt.Errorf("listing targets: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		header := "NAME\tDESCRIPTION\tTOKENS"
		for _, t := range targets {
			header += "\t" + t.ID
		}
		fmt.Fprintln(w, header)

		for _, rec := range records {
			row := fmt.Sprintf("%s\t%s\t%d", rec.Name, truncate(rec.Description, 48), rec.TotalTokens)
			for _, t := range targets {
				cell := "-"
				if st, ok := rec.StateFor(t.ID); ok {
					cell = statusGlyph(st.Status)
				}
				row += "\t" + cell
			}
			fmt.Fprintln(w, row)
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}
