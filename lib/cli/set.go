package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/samber/oops"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sddm/sddm-sub001/lib/confstore"
	"github.com/sddm/sddm-sub001/lib/util/logger"
)

func (a *app) newSetCommand() *cobra.Command {
	var state, dryRun bool
	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one value in the primary file",
		Long: `Parse VALUE for KEY and write it to the primary file, keeping every
other line and comment as it is. Overlay directories are never written.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.openStore(state)
			e, err := lookup(store, args[0])
			if err != nil {
				return err
			}
			if err := e.Parse(args[1]); err != nil {
				return err
			}
			if dryRun {
				return a.preview(cmd, store, e)
			}
			if err := store.SaveEntry(e); err != nil {
				return err
			}
			log.WithFields(logger.Fields{
				"at":    "cli.set",
				"key":   args[0],
				"value": e.Format(),
				"path":  store.Path(),
			}).Debug("value_saved")
			return nil
		},
	}
	cmd.Flags().BoolVar(&state, "state", false, "edit the state file instead")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the change as a diff instead of writing it")
	return cmd
}

func (a *app) newResetCommand() *cobra.Command {
	var state, dryRun bool
	cmd := &cobra.Command{
		Use:   "reset KEY",
		Short: "Restore the default for one value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.openStore(state)
			e, err := lookup(store, args[0])
			if err != nil {
				return err
			}
			e.SetDefault()
			if dryRun {
				return a.preview(cmd, store, e)
			}
			return store.SaveEntry(e)
		},
	}
	cmd.Flags().BoolVar(&state, "state", false, "edit the state file instead")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the change as a diff instead of writing it")
	return cmd
}

// preview prints what saving e would change in the primary file.
func (a *app) preview(cmd *cobra.Command, store *confstore.Store, e confstore.Value) error {
	before, err := afero.ReadFile(a.fs, store.Path())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return oops.Wrapf(err, "reading %s", store.Path())
	}
	after, changed, err := store.Render(confstore.Scope{Entry: e})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !changed {
		fmt.Fprintf(out, "%s is unchanged\n", store.Path())
		return nil
	}
	fmt.Fprintf(out, "--- %s\n+++ %s\n", store.Path(), store.Path())
	fmt.Fprint(out, lineDiff(string(before), string(after)))
	return nil
}
