package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/viper"

	"github.com/sddm/sddm-sub001/lib/util/logger"
)

var (
	// CfgFile optionally names a YAML file with tool settings.
	CfgFile string
	log     = logger.GetSddmLogger()
)

// EnvPrefix prefixes environment overrides, e.g. SDDMCONF_PATHS_CONFIG.
const EnvPrefix = "SDDMCONF"

// Viper keys.
const (
	KeyConfigFile     = "paths.config"
	KeyUserDir        = "paths.user_dir"
	KeySystemDir      = "paths.system_dir"
	KeyStateFile      = "paths.state"
	KeyPollInterval   = "daemon.poll_interval"
	KeyReloadInterval = "daemon.reload_interval"
	KeyReloadBurst    = "daemon.reload_burst"
)

// InitConfig wires defaults, the environment and the optional settings file
// into viper. Flags are bound by the caller.
func InitConfig() error {
	setDefaults()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if CfgFile == "" {
		return nil
	}
	viper.SetConfigFile(CfgFile)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			log.WithField("file", CfgFile).Warn("settings file not found, using defaults")
			return nil
		}
		return oops.Wrapf(err, "reading settings %s", CfgFile)
	}
	log.WithField("file", viper.ConfigFileUsed()).Debug("using settings file")
	return nil
}

func setDefaults() {
	defaults := Defaults()

	viper.SetDefault(KeyConfigFile, defaults.Paths.ConfigFile)
	viper.SetDefault(KeyUserDir, defaults.Paths.UserDir)
	viper.SetDefault(KeySystemDir, defaults.Paths.SystemDir)
	viper.SetDefault(KeyStateFile, defaults.Paths.StateFile)

	viper.SetDefault(KeyPollInterval, defaults.Daemon.PollInterval)
	viper.SetDefault(KeyReloadInterval, defaults.Daemon.ReloadInterval)
	viper.SetDefault(KeyReloadBurst, defaults.Daemon.ReloadBurst)
}

// CurrentConfig reads the effective settings back out of viper.
func CurrentConfig() ConfigDefaults {
	return ConfigDefaults{
		Paths: PathDefaults{
			ConfigFile: viper.GetString(KeyConfigFile),
			UserDir:    viper.GetString(KeyUserDir),
			SystemDir:  viper.GetString(KeySystemDir),
			StateFile:  viper.GetString(KeyStateFile),
		},
		Daemon: DaemonDefaults{
			PollInterval:   viper.GetDuration(KeyPollInterval),
			ReloadInterval: viper.GetDuration(KeyReloadInterval),
			ReloadBurst:    viper.GetInt(KeyReloadBurst),
		},
	}
}
