// Package daemon keeps a loaded configuration current while the display
// manager runs. Reloads are triggered by SIGHUP and by polling, and are
// rate limited so a burst of signals costs at most a few rescans.
package daemon

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sddm/sddm-sub001/lib/config"
	"github.com/sddm/sddm-sub001/lib/util/logger"
	"github.com/sddm/sddm-sub001/lib/util/signals"
)

var log = logger.GetSddmLogger()

// Daemon owns the main and state configuration. All access to them after
// Run starts goes through Do so it is serialised with reloads.
type Daemon struct {
	mu    sync.Mutex
	main  *config.MainConfig
	state *config.StateConfig

	poll    time.Duration
	limiter *rate.Limiter
	trigger chan struct{}

	// OnReload runs with the lock held after a reload that reparsed files.
	OnReload func(*config.MainConfig)
}

// New creates a daemon. Neither store is loaded until Run or Reload.
func New(main *config.MainConfig, state *config.StateConfig, settings config.DaemonDefaults) *Daemon {
	return &Daemon{
		main:    main,
		state:   state,
		poll:    settings.PollInterval,
		limiter: rate.NewLimiter(rate.Every(settings.ReloadInterval), settings.ReloadBurst),
		trigger: make(chan struct{}, 1),
	}
}

// Do runs f with exclusive access to the configuration.
func (d *Daemon) Do(f func(main *config.MainConfig, state *config.StateConfig)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f(d.main, d.state)
}

// TriggerReload asks Run to reload soon. It never blocks; triggers that
// arrive while one is pending are merged.
func (d *Daemon) TriggerReload() {
	select {
	case d.trigger <- struct{}{}:
	default:
	}
}

// Reload rescans both stores unless the rate limit is exhausted. It reports
// whether the main configuration was reparsed.
func (d *Daemon) Reload(reason string) bool {
	if !d.limiter.Allow() {
		log.WithFields(logger.Fields{
			"at":     "daemon.Reload",
			"reason": reason,
		}).Debug("reload_throttled")
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.state.Load()
	if !d.main.Load() {
		return false
	}

	fields := logger.Fields{
		"at":     "daemon.Reload",
		"reason": reason,
		"path":   d.main.Path(),
	}
	log.WithFields(fields).Info("configuration reloaded")
	if d.main.HasUnused() {
		log.WithFields(fields).
			WithField("unused_sections", d.main.HasUnusedSections()).
			WithField("unused_variables", d.main.HasUnusedVariables()).
			Warn("configuration contains unknown sections or variables")
	}
	if d.OnReload != nil {
		d.OnReload(d.main)
	}
	return true
}

// Run loads the configuration and keeps it current until ctx is done or an
// interrupt signal arrives. The state file is flushed on the way out.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reloadID := signals.RegisterReloadHandler(d.TriggerReload)
	defer signals.DeregisterReloadHandler(reloadID)
	interruptID := signals.RegisterInterruptHandler(signals.Handler(cancel))
	defer signals.DeregisterInterruptHandler(interruptID)
	flushID := signals.RegisterPreShutdownHandler(d.flushState)
	defer signals.DeregisterPreShutdownHandler(flushID)

	d.Reload("startup")

	ticker := time.NewTicker(d.poll)
	defer ticker.Stop()

	log.WithFields(logger.Fields{
		"at":   "daemon.Run",
		"poll": d.poll,
	}).Debug("daemon_started")

	for {
		select {
		case <-ctx.Done():
			d.flushState()
			log.WithField("at", "daemon.Run").Debug("daemon_stopped")
			return nil
		case <-d.trigger:
			d.Reload("signal")
		case <-ticker.C:
			d.Reload("poll")
		}
	}
}

func (d *Daemon) flushState() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.state.Save(); err != nil {
		log.WithFields(logger.Fields{
			"at":   "daemon.flushState",
			"path": d.state.Path(),
		}).WithError(err).Warn("cannot write state file")
	}
}
