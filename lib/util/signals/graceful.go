package signals

import (
	"sync"
	"time"

	"github.com/sddm/sddm-sub001/lib/util/logger"
)

const defaultGracefulTimeout = 10 * time.Second

var (
	// preShutdownHandlers is guarded by mu like the other registries.
	preShutdownHandlers []registeredHandler

	preShutdownMu   sync.RWMutex
	gracefulTimeout = defaultGracefulTimeout
)

// RegisterPreShutdownHandler registers f to run before the interrupt
// handlers, for work such as flushing state files. Pre-shutdown handlers run
// in registration order and are bounded by the graceful timeout as a group.
// Nil handlers are ignored and get -1.
func RegisterPreShutdownHandler(f Handler) HandlerID {
	return register(&preShutdownHandlers, f)
}

// DeregisterPreShutdownHandler removes a pre-shutdown handler.
func DeregisterPreShutdownHandler(id HandlerID) { deregister(&preShutdownHandlers, id) }

// SetGracefulTimeout bounds the pre-shutdown phase. Non-positive values
// restore the default.
func SetGracefulTimeout(timeout time.Duration) {
	preShutdownMu.Lock()
	defer preShutdownMu.Unlock()
	if timeout <= 0 {
		timeout = defaultGracefulTimeout
	}
	gracefulTimeout = timeout
}

// handlePreShutdown reports whether every handler finished in time. A hung
// handler is abandoned, not killed.
func handlePreShutdown() bool {
	mu.RLock()
	snapshot := make([]registeredHandler, len(preShutdownHandlers))
	copy(snapshot, preShutdownHandlers)
	mu.RUnlock()
	preShutdownMu.RLock()
	timeout := gracefulTimeout
	preShutdownMu.RUnlock()

	if len(snapshot) == 0 {
		return true
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, h := range snapshot {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(logger.Fields{
							"at":      "signals.handlePreShutdown",
							"handler": h.id,
							"panic":   r,
						}).Error("pre-shutdown handler panicked")
					}
				}()
				h.fn()
			}()
		}
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		log.WithFields(logger.Fields{
			"at":      "signals.handlePreShutdown",
			"timeout": timeout,
		}).Warn("pre-shutdown handlers timed out")
		return false
	}
}
