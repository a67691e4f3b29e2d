package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sddm/sddm-sub001/lib/confstore"
)

const (
	testConfig    = "/etc/sddm.conf"
	testUserDir   = "/etc/sddm.conf.d"
	testSystemDir = "/usr/lib/sddm/sddm.conf.d"
	testState     = "/var/lib/sddm/state.conf"
)

func run(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := NewRootCommand(fs)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--config", testConfig,
		"--user-dir", testUserDir,
		"--system-dir", testSystemDir,
		"--state-file", testState,
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func write(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func read(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestGet(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, filepath.Join(testUserDir, "theme.conf"), "[Theme]\nCurrent=maui\n")

	out, err := run(t, fs, "get", "Theme.Current")
	require.NoError(t, err)
	assert.Equal(t, "maui\n", out)

	out, err = run(t, fs, "get", "Numlock", "Theme.Current", "XDisplay.ServerPath")
	require.NoError(t, err)
	assert.Equal(t, "Numlock=none\nTheme.Current=maui\nXDisplay.ServerPath=/usr/bin/X\n", out)

	_, err = run(t, fs, "get", "Bogus.Key")
	assert.ErrorIs(t, err, confstore.ErrUnknownSection)

	_, err = run(t, fs, "get", "Theme.Nope")
	assert.ErrorIs(t, err, confstore.ErrUnknownEntry)
}

func TestSet(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, testConfig, "# local changes\n[Theme]\nCurrent=maui # picked by hand\n")

	_, err := run(t, fs, "set", "Theme.Current", "breeze")
	require.NoError(t, err)
	assert.Equal(t, "# local changes\n[Theme]\nCurrent=breeze # picked by hand\n", read(t, fs, testConfig))

	_, err = run(t, fs, "set", "Numlock", "maybe")
	assert.ErrorIs(t, err, confstore.ErrInvalidValue)
	assert.Equal(t, "# local changes\n[Theme]\nCurrent=breeze # picked by hand\n", read(t, fs, testConfig))
}

func TestSetDoesNotCopyOverlayValues(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, filepath.Join(testSystemDir, "distro.conf"), "[Theme]\nCurrent=breeze\n")

	_, err := run(t, fs, "set", "Numlock", "on")
	require.NoError(t, err)
	assert.NotContains(t, read(t, fs, testConfig), "breeze")
	assert.Contains(t, read(t, fs, testConfig), "Numlock=on\n")
}

func TestSetDryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, testConfig, "[Theme]\nCurrent=maui\n")

	out, err := run(t, fs, "set", "--dry-run", "Theme.Current", "breeze")
	require.NoError(t, err)
	assert.Equal(t, "--- /etc/sddm.conf\n+++ /etc/sddm.conf\n [Theme]\n-Current=maui\n+Current=breeze\n", out)
	assert.Equal(t, "[Theme]\nCurrent=maui\n", read(t, fs, testConfig))

	out, err = run(t, fs, "set", "-n", "Theme.Current", "maui")
	require.NoError(t, err)
	assert.Equal(t, "/etc/sddm.conf is unchanged\n", out)
}

func TestReset(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, testConfig, "[Theme]\nCurrent=maui # mine\n")

	_, err := run(t, fs, "reset", "Theme.Current")
	require.NoError(t, err)
	assert.Equal(t, "[Theme]\nCurrent= # mine\n", read(t, fs, testConfig))
}

func TestSetState(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := run(t, fs, "set", "--state", "Last.User", "alice")
	require.NoError(t, err)
	assert.Equal(t, "[Last]\n# Name of the last logged-in user.\n"+
		"# This user will be preselected when the login screen appears\nUser=alice\n\n", read(t, fs, testState))

	out, err := run(t, fs, "get", "--state", "Last.User")
	require.NoError(t, err)
	assert.Equal(t, "alice\n", out)

	exists, err := afero.Exists(fs, testConfig)
	require.NoError(t, err)
	assert.False(t, exists, "the main file is not touched")
}

func TestDumpINI(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, testConfig, "Numlock=on\n[Theme]\nCurrent=maui\n")

	out, err := run(t, fs, "dump")
	require.NoError(t, err)
	assert.Equal(t, "[General]\nNumlock=on\n\n[Theme]\nCurrent=maui\n", out)

	out, err = run(t, fs, "dump", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "# Initial NumLock state. Can be on, off or none.\n")
	assert.Contains(t, out, "[X11]\n")
	assert.Contains(t, out, "ServerPath=/usr/bin/X\n")
}

func TestDumpYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, testConfig, "Numlock=on\n[Users]\nMaximumUid=2000\nHideUsers=guest,nobody\n")

	out, err := run(t, fs, "dump", "--format", "yaml")
	require.NoError(t, err)

	var doc map[string]map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "on", doc["General"]["Numlock"])
	assert.Equal(t, 2000, doc["Users"]["MaximumUid"])
	assert.Equal(t, []any{"guest", "nobody"}, doc["Users"]["HideUsers"])
	assert.NotContains(t, doc, "Theme")

	_, err = run(t, fs, "dump", "--format", "xml")
	assert.Error(t, err)
}

func TestCheckClean(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, testConfig, "[Theme]\nCurrent=maui\n")

	out, err := run(t, fs, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "primary      /etc/sddm.conf (ok)\n")
	assert.Contains(t, out, "user dir     /etc/sddm.conf.d (missing)\n")
	assert.Contains(t, out, "configuration ok\n")
}

func TestCheckReportsUnused(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, testConfig, "[Bogus]\nFoo=1\n[Theme]\nNope=2\n")

	out, err := run(t, fs, "check")
	require.Error(t, err)
	assert.Contains(t, out, "unused: Nope=2\n")
	assert.Contains(t, out, "unused: [Bogus]\n")
	assert.Contains(t, out, "unused: Foo=1\n")
	assert.Equal(t, "[Bogus]\nFoo=1\n[Theme]\nNope=2\n", read(t, fs, testConfig), "check never writes")
}

func TestCheckReportsOverlayUnused(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, filepath.Join(testUserDir, "old.conf"), "[Theme]\nNope=1\n")

	out, err := run(t, fs, "check")
	require.Error(t, err)
	assert.Contains(t, out, "primary      /etc/sddm.conf (missing)\n")
	assert.Contains(t, out, "unused: entries in overlay fragments\n")
}

func TestInvalidSettings(t *testing.T) {
	_, err := run(t, afero.NewMemMapFs(), "--config=", "get", "Numlock")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Paths.ConfigFile")
}

func TestLineDiff(t *testing.T) {
	assert.Equal(t, " a\n-b\n+c\n", lineDiff("a\nb\n", "a\nc\n"))
	assert.Equal(t, "+a\n", lineDiff("", "a\n"))
	assert.Equal(t, " a\n+b\n\\ No newline at end of file\n", lineDiff("a\n", "a\nb"))
}
