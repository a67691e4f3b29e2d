package daemon

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sddm/sddm-sub001/lib/config"
)

var testPaths = config.PathDefaults{
	ConfigFile: "/etc/sddm.conf",
	UserDir:    "/etc/sddm.conf.d",
	SystemDir:  "/usr/lib/sddm/sddm.conf.d",
	StateFile:  "/var/lib/sddm/state.conf",
}

func newTestDaemon(t *testing.T, fs afero.Fs, settings config.DaemonDefaults) *Daemon {
	t.Helper()
	main := config.NewMainConfig(config.MainOptions(testPaths, fs))
	state := config.NewStateConfig(testPaths.StateFile, fs)
	return New(main, state, settings)
}

func writeAt(t *testing.T, fs afero.Fs, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	require.NoError(t, fs.Chtimes(path, mtime, mtime))
}

var base = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func TestReloadPicksUpChanges(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAt(t, fs, testPaths.ConfigFile, "[Theme]\nCurrent=breeze\n", base)
	d := newTestDaemon(t, fs, config.DaemonDefaults{PollInterval: time.Second, ReloadBurst: 1})

	reloads := 0
	d.OnReload = func(*config.MainConfig) { reloads++ }

	require.True(t, d.Reload("test"))
	assert.False(t, d.Reload("test"), "nothing changed")

	writeAt(t, fs, testPaths.ConfigFile, "[Theme]\nCurrent=maui\n", base.Add(time.Minute))
	require.True(t, d.Reload("test"))
	assert.Equal(t, 2, reloads)

	d.Do(func(main *config.MainConfig, _ *config.StateConfig) {
		assert.Equal(t, "maui", main.Theme.Current.Get())
	})
}

func TestReloadThrottled(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAt(t, fs, testPaths.ConfigFile, "[Theme]\nCurrent=breeze\n", base)
	d := newTestDaemon(t, fs, config.DaemonDefaults{
		PollInterval:   time.Second,
		ReloadInterval: time.Hour,
		ReloadBurst:    1,
	})

	require.True(t, d.Reload("first"))
	writeAt(t, fs, testPaths.ConfigFile, "[Theme]\nCurrent=maui\n", base.Add(time.Minute))
	assert.False(t, d.Reload("second"), "burst exhausted")

	d.Do(func(main *config.MainConfig, _ *config.StateConfig) {
		assert.Equal(t, "breeze", main.Theme.Current.Get())
	})
}

func TestTriggerReloadNeverBlocks(t *testing.T) {
	d := newTestDaemon(t, afero.NewMemMapFs(), config.Defaults().Daemon)

	for n := 0; n < 10; n++ {
		d.TriggerReload()
	}
	assert.Len(t, d.trigger, 1)
}

func TestRunReloadsOnTrigger(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAt(t, fs, testPaths.ConfigFile, "[Autologin]\nUser=alice\n", base)
	d := newTestDaemon(t, fs, config.DaemonDefaults{PollInterval: time.Hour, ReloadBurst: 10})

	users := make(chan string, 4)
	d.OnReload = func(main *config.MainConfig) { users <- main.Autologin.User.Get() }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	assert.Equal(t, "alice", receive(t, users))

	writeAt(t, fs, testPaths.ConfigFile, "[Autologin]\nUser=bob\n", base.Add(time.Minute))
	d.TriggerReload()
	assert.Equal(t, "bob", receive(t, users))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunPolls(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeAt(t, fs, testPaths.ConfigFile, "Numlock=on\n", base)
	d := newTestDaemon(t, fs, config.DaemonDefaults{PollInterval: 10 * time.Millisecond, ReloadBurst: 10})

	states := make(chan config.NumState, 4)
	d.OnReload = func(main *config.MainConfig) { states <- main.General.Numlock.Get() }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	assert.Equal(t, config.NumlockOn, receive(t, states))
	writeAt(t, fs, testPaths.ConfigFile, "Numlock=off\n", base.Add(time.Minute))
	assert.Equal(t, config.NumlockOff, receive(t, states))
}

func TestRunFlushesState(t *testing.T) {
	fs := afero.NewMemMapFs()
	d := newTestDaemon(t, fs, config.DaemonDefaults{PollInterval: time.Hour, ReloadBurst: 1})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	d.Do(func(_ *config.MainConfig, state *config.StateConfig) {
		state.Last.User.Set("carol")
	})
	cancel()
	require.NoError(t, <-done)

	data, err := afero.ReadFile(fs, testPaths.StateFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "User=carol\n")
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	var zero T
	return zero
}
