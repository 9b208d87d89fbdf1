// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about connection lifecycle, command dispatch, and store
// mutations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetServerHooks(&myServerHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run daemon
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Server().OnConnect(connID)
//	// ... handle connection ...
//	observability.Server().OnDisconnect(connID, duration)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Server Hooks
// =============================================================================

// ServerHooks receives events from the IPC connection server.
type ServerHooks interface {
	// OnConnect records a newly accepted client connection.
	OnConnect(connID string)

	// OnDisconnect records a closed connection and its total lifetime.
	OnDisconnect(connID string, duration time.Duration)

	// OnCommand records a dispatched command and its outcome.
	OnCommand(connID, command string, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from node store mutations.
type StoreHooks interface {
	// OnMutation records a store mutation (add, set, remove, migrate) and
	// its outcome.
	OnMutation(op, name string, err error)

	// OnNotify records a state-change notification handed to the sink.
	OnNotify(event string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnConnect(string)                               {}
func (NoopServerHooks) OnDisconnect(string, time.Duration)             {}
func (NoopServerHooks) OnCommand(string, string, time.Duration, error) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnMutation(string, string, error) {}
func (NoopStoreHooks) OnNotify(string, error)           {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	serverHooks ServerHooks = NoopServerHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	hooksMu     sync.RWMutex
)

// SetServerHooks registers custom server hooks.
// This should be called once at application startup before the server accepts
// connections.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	serverHooks = NoopServerHooks{}
	storeHooks = NoopStoreHooks{}
}
