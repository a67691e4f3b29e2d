// Package signals dispatches process signals to registered handlers: SIGHUP
// reloads configuration, SIGINT and SIGTERM shut the process down.
package signals

import (
	"os"
	"os/signal"
	"sync"

	"github.com/sddm/sddm-sub001/lib/util/logger"
)

var log = logger.GetSddmLogger()

// sigChan is buffered so a signal delivered while a handler runs is not lost.
var sigChan = make(chan os.Signal, 1)

// Handler is a function called when a signal is received.
type Handler func()

// HandlerID identifies a registration so it can be removed again.
type HandlerID int

type registeredHandler struct {
	id HandlerID
	fn Handler
}

var (
	mu           sync.RWMutex
	reloaders    []registeredHandler
	interrupters []registeredHandler
	nextID       HandlerID
	stopOnce     sync.Once
)

func register(list *[]registeredHandler, f Handler) HandlerID {
	if f == nil {
		return -1
	}
	mu.Lock()
	defer mu.Unlock()
	id := nextID
	nextID++
	*list = append(*list, registeredHandler{id: id, fn: f})
	return id
}

func deregister(list *[]registeredHandler, id HandlerID) {
	mu.Lock()
	defer mu.Unlock()
	for i, h := range *list {
		if h.id == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

// run calls a snapshot of list in registration order. A panicking handler
// is logged and does not stop the others.
func run(kind string, list *[]registeredHandler) {
	mu.RLock()
	snapshot := make([]registeredHandler, len(*list))
	copy(snapshot, *list)
	mu.RUnlock()

	for _, h := range snapshot {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(logger.Fields{
						"at":      "signals.run",
						"kind":    kind,
						"handler": h.id,
						"panic":   r,
					}).Error("signal handler panicked")
				}
			}()
			h.fn()
		}()
	}
}

// RegisterReloadHandler registers f to run on SIGHUP. Nil handlers are
// ignored and get -1.
func RegisterReloadHandler(f Handler) HandlerID { return register(&reloaders, f) }

// DeregisterReloadHandler removes a reload handler.
func DeregisterReloadHandler(id HandlerID) { deregister(&reloaders, id) }

// RegisterInterruptHandler registers f to run on SIGINT or SIGTERM, after
// the pre-shutdown handlers. Nil handlers are ignored and get -1.
func RegisterInterruptHandler(f Handler) HandlerID { return register(&interrupters, f) }

// DeregisterInterruptHandler removes an interrupt handler.
func DeregisterInterruptHandler(id HandlerID) { deregister(&interrupters, id) }

func handleReload() {
	log.WithField("at", "signals.handleReload").Debug("reload_signal")
	run("reload", &reloaders)
}

func handleInterrupted() {
	log.WithField("at", "signals.handleInterrupted").Debug("interrupt_signal")
	handlePreShutdown()
	run("interrupt", &interrupters)
}

// StopHandle makes Handle return. Safe to call more than once.
func StopHandle() {
	stopOnce.Do(func() {
		signal.Stop(sigChan)
		close(sigChan)
	})
}
