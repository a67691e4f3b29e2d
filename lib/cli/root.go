// Package cli implements the sddmconf command: inspect, edit and watch the
// display manager configuration.
package cli

import (
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sddm/sddm-sub001/lib/config"
	"github.com/sddm/sddm-sub001/lib/confstore"
	"github.com/sddm/sddm-sub001/lib/util/logger"
)

var log = logger.GetSddmLogger()

// app carries what every subcommand needs.
type app struct {
	fs       afero.Fs
	settings config.ConfigDefaults
}

// pathFlags maps flag names to the viper keys they override.
var pathFlags = map[string]string{
	"config":     config.KeyConfigFile,
	"user-dir":   config.KeyUserDir,
	"system-dir": config.KeySystemDir,
	"state-file": config.KeyStateFile,
}

// Execute runs the command line against the OS filesystem.
func Execute() error {
	return NewRootCommand(afero.NewOsFs()).Execute()
}

// NewRootCommand builds the command tree operating on fs.
func NewRootCommand(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}
	var verbose bool

	root := &cobra.Command{
		Use:           "sddmconf",
		Short:         "Inspect and edit the display manager configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logger.SetVerbose(true)
			}
			if err := config.InitConfig(); err != nil {
				return err
			}
			for name, key := range pathFlags {
				if err := viper.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
					return oops.Wrapf(err, "binding --%s", name)
				}
			}
			a.settings = config.CurrentConfig()
			return config.Validate(a.settings)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&config.CfgFile, "settings", "", "YAML file with tool settings")
	flags.String("config", "", "primary configuration file (default /etc/sddm.conf)")
	flags.String("user-dir", "", "administrator overlay directory (default /etc/sddm.conf.d)")
	flags.String("system-dir", "", "packaged overlay directory (default /usr/lib/sddm/sddm.conf.d)")
	flags.String("state-file", "", "state file (default /var/lib/sddm/state.conf)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		a.newGetCommand(),
		a.newSetCommand(),
		a.newResetCommand(),
		a.newDumpCommand(),
		a.newCheckCommand(),
		a.newDaemonCommand(),
	)
	return root
}

func (a *app) openMain() *config.MainConfig {
	c := config.NewMainConfig(config.MainOptions(a.settings.Paths, a.fs))
	c.Load()
	return c
}

func (a *app) openState() *config.StateConfig {
	c := config.NewStateConfig(a.settings.Paths.StateFile, a.fs)
	c.Load()
	return c
}

// openStore returns the loaded main store, or the state store when state
// is set.
func (a *app) openStore(state bool) *confstore.Store {
	if state {
		return a.openState().Store
	}
	return a.openMain().Store
}

// lookup resolves "Section.Key", or a bare "Key" in the implicit section.
func lookup(s *confstore.Store, key string) (confstore.Value, error) {
	section, name, found := strings.Cut(key, ".")
	if !found {
		section, name = s.Implicit().Name(), key
	}
	return s.Lookup(section, name)
}
