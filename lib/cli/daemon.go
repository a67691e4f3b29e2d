package cli

import (
	"github.com/spf13/cobra"

	"github.com/sddm/sddm-sub001/lib/config"
	"github.com/sddm/sddm-sub001/lib/daemon"
	"github.com/sddm/sddm-sub001/lib/util/signals"
)

func (a *app) newDaemonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Keep the configuration loaded and reload it on change",
		Long: `Load the configuration and reload it on SIGHUP or when polling finds a
newer file. Warnings about unknown entries are logged after each reload.
SIGINT and SIGTERM flush the state file and exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := daemon.New(
				config.NewMainConfig(config.MainOptions(a.settings.Paths, a.fs)),
				config.NewStateConfig(a.settings.Paths.StateFile, a.fs),
				a.settings.Daemon,
			)
			go signals.Handle()
			defer signals.StopHandle()
			return d.Run(cmd.Context())
		},
	}
}
