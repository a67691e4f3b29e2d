package config

import (
	"time"

	"github.com/samber/oops"

	"github.com/sddm/sddm-sub001/lib/util/logger"
)

// ConfigDefaults holds the settings of the tool itself: where the daemon's
// configuration lives and how the daemon command watches it.
type ConfigDefaults struct {
	Paths  PathDefaults
	Daemon DaemonDefaults
}

// PathDefaults locates the configuration layers.
type PathDefaults struct {
	// ConfigFile is the primary file, the only one ever written.
	// Default: /etc/sddm.conf
	ConfigFile string

	// UserDir holds administrator overlay fragments.
	// Default: /etc/sddm.conf.d
	UserDir string

	// SystemDir holds overlay fragments shipped by packages.
	// Default: /usr/lib/sddm/sddm.conf.d
	SystemDir string

	// StateFile records the last user and session.
	// Default: /var/lib/sddm/state.conf
	StateFile string
}

// DaemonDefaults tunes the daemon command.
type DaemonDefaults struct {
	// PollInterval is how often the layers are checked for changes.
	// Default: 5 seconds
	PollInterval time.Duration

	// ReloadInterval is the minimum spacing between reloads triggered by
	// signals or polling.
	// Default: 1 second
	ReloadInterval time.Duration

	// ReloadBurst is how many reloads may happen back to back.
	// Default: 3
	ReloadBurst int
}

// Defaults returns the built-in settings.
func Defaults() ConfigDefaults {
	return ConfigDefaults{
		Paths:  buildPathDefaults(),
		Daemon: buildDaemonDefaults(),
	}
}

func buildPathDefaults() PathDefaults {
	return PathDefaults{
		ConfigFile: "/etc/sddm.conf",
		UserDir:    "/etc/sddm.conf.d",
		SystemDir:  "/usr/lib/sddm/sddm.conf.d",
		StateFile:  "/var/lib/sddm/state.conf",
	}
}

func buildDaemonDefaults() DaemonDefaults {
	return DaemonDefaults{
		PollInterval:   5 * time.Second,
		ReloadInterval: time.Second,
		ReloadBurst:    3,
	}
}

// Validate returns an error describing the first unusable value in cfg.
func Validate(cfg ConfigDefaults) error {
	validators := []func() error{
		func() error { return validatePaths(cfg.Paths) },
		func() error { return validateDaemon(cfg.Daemon) },
	}
	for _, validator := range validators {
		if err := validator(); err != nil {
			log.WithFields(logger.Fields{
				"at": "config.Validate",
			}).WithError(err).Debug("settings rejected")
			return err
		}
	}
	return nil
}

func validatePaths(paths PathDefaults) error {
	if paths.ConfigFile == "" {
		return oops.Errorf("Paths.ConfigFile must not be empty")
	}
	return nil
}

func validateDaemon(daemon DaemonDefaults) error {
	if daemon.PollInterval < 100*time.Millisecond {
		return oops.Errorf("Daemon.PollInterval must be at least 100ms, got %s", daemon.PollInterval)
	}
	if daemon.ReloadInterval < 0 {
		return oops.Errorf("Daemon.ReloadInterval must not be negative, got %s", daemon.ReloadInterval)
	}
	if daemon.ReloadBurst < 1 {
		return oops.Errorf("Daemon.ReloadBurst must be at least 1, got %d", daemon.ReloadBurst)
	}
	return nil
}
