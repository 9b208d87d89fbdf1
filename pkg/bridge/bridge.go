// Package bridge provides notification sink implementations for the
// host-callback boundary.
//
// The store layer calls a bar.Handler after every committed mutation; the
// GUI host supplies its own implementation to drive rendering. This package
// holds the implementations the daemon itself needs: a structured-logging
// sink for standalone runs and a recording sink for tests.
package bridge

import (
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/barline/barline/pkg/bar"
)

// HandlerFunc adapts a function to the bar.Handler interface.
type HandlerFunc func(bar.Event) error

// HandleStateChange implements bar.Handler.
func (f HandlerFunc) HandleStateChange(ev bar.Event) error { return f(ev) }

// NewLogHandler returns a sink that logs every state change. Used when the
// daemon runs standalone, without a GUI host attached.
func NewLogHandler(logger *log.Logger) bar.Handler {
	return HandlerFunc(func(ev bar.Event) error {
		switch ev.Kind {
		case bar.EventNodeRemoved:
			logger.Debug("state change", "event", ev.Kind, "display", ev.Display, "name", ev.Name)
		case bar.EventNodeMoved:
			logger.Debug("state change", "event", ev.Kind, "display", ev.Display,
				"old_display", ev.OldDisplay, "name", ev.Node.Name)
		case bar.EventFullRefresh:
			logger.Debug("state change", "event", ev.Kind, "display", ev.Display, "nodes", len(ev.Nodes))
		default:
			logger.Debug("state change", "event", ev.Kind, "display", ev.Display, "name", ev.Node.Name)
		}
		return nil
	})
}

// Recorder is a bar.Handler that records every event it receives.
// Safe for concurrent use. Intended for tests.
type Recorder struct {
	mu     sync.Mutex
	events []bar.Event

	// Err, when non-nil, is returned from every delivery. The store must
	// treat that as fire-and-forget and keep the mutation committed.
	Err error
}

// HandleStateChange implements bar.Handler.
func (r *Recorder) HandleStateChange(ev bar.Event) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return r.Err
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []bar.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Kinds returns just the event kinds, in delivery order.
func (r *Recorder) Kinds() []bar.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]bar.EventKind, len(r.events))
	for i, ev := range r.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

// Reset discards all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
