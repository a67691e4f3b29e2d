package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetViper isolates a test from global viper state and CfgFile.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	saved := CfgFile
	CfgFile = ""
	t.Cleanup(func() {
		viper.Reset()
		CfgFile = saved
	})
}

func TestCurrentConfigDefaultsRoundTrip(t *testing.T) {
	resetViper(t)
	require.NoError(t, InitConfig())

	assert.Equal(t, Defaults(), CurrentConfig())
}

func TestEnvironmentOverrides(t *testing.T) {
	resetViper(t)
	t.Setenv("SDDMCONF_PATHS_CONFIG", "/tmp/sddm.conf")
	t.Setenv("SDDMCONF_DAEMON_POLL_INTERVAL", "30s")
	require.NoError(t, InitConfig())

	cfg := CurrentConfig()
	assert.Equal(t, "/tmp/sddm.conf", cfg.Paths.ConfigFile)
	assert.Equal(t, 30*time.Second, cfg.Daemon.PollInterval)
	assert.Equal(t, Defaults().Paths.UserDir, cfg.Paths.UserDir)
}

func TestSettingsFile(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths:\n  state: /run/sddm/state.conf\ndaemon:\n  reload_burst: 7\n"), 0o644))
	CfgFile = path

	require.NoError(t, InitConfig())
	cfg := CurrentConfig()
	assert.Equal(t, "/run/sddm/state.conf", cfg.Paths.StateFile)
	assert.Equal(t, 7, cfg.Daemon.ReloadBurst)
	assert.Equal(t, Defaults().Paths.ConfigFile, cfg.Paths.ConfigFile)
}

func TestSettingsFileMalformed(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths: [unterminated\n"), 0o644))
	CfgFile = path

	assert.Error(t, InitConfig())
}

func TestSettingsFileMissing(t *testing.T) {
	resetViper(t)
	CfgFile = filepath.Join(t.TempDir(), "absent.yaml")

	require.NoError(t, InitConfig())
	assert.Equal(t, Defaults(), CurrentConfig())
}
