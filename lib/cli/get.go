package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newGetCommand() *cobra.Command {
	var state bool
	cmd := &cobra.Command{
		Use:   "get KEY...",
		Short: "Print effective values",
		Long: `Print the effective value of each KEY after merging all layers.
KEY is Section.Name, or Name for the General section.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.openStore(state)
			out := cmd.OutOrStdout()
			for _, key := range args {
				e, err := lookup(store, key)
				if err != nil {
					return err
				}
				if len(args) == 1 {
					fmt.Fprintln(out, e.Format())
					continue
				}
				fmt.Fprintf(out, "%s=%s\n", key, e.Format())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&state, "state", false, "read the state file instead")
	return cmd
}
