package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/nk/nuibridge/internal/ctxlog"
)

// Handler consumes the payload of a delivered message.
type Handler func(data json.RawMessage)

// registration is the unit tracked per action. Keeping a distinct value per
// Register call lets a stale unregister func recognise that it has been
// superseded and leave the current handler alone.
type registration struct {
	fn Handler
}

// Registry maps an action name to at most one handler. It is an explicit,
// injectable object rather than process-global state so tests and multiple
// UI surfaces can each own an independent instance.
//
// Registering for an action that already has a handler silently replaces the
// earlier one; the registry serves a single active consumer per action at a
// time (component lifecycle on the UI side).
type Registry struct {
	mu       sync.Mutex
	handlers map[string]*registration
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]*registration)}
}

// Register installs a handler for an action and returns an unregister func.
// The unregister func is idempotent, and becomes a no-op once another
// registration has replaced this one.
func (r *Registry) Register(action string, fn Handler) (unregister func()) {
	if fn == nil {
		panic("bridge: nil handler registered for action " + action)
	}
	reg := &registration{fn: fn}

	r.mu.Lock()
	if _, exists := r.handlers[action]; exists {
		slog.Debug("Replacing UI message handler.", "action", action)
	}
	r.handlers[action] = reg
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if current, ok := r.handlers[action]; ok && current == reg {
			delete(r.handlers, action)
		}
	}
}

// Deliver routes a received message to its registered handler. A message
// whose action has no handler is dropped without error or logging.
func (r *Registry) Deliver(ctx context.Context, msg Message) {
	r.mu.Lock()
	reg, ok := r.handlers[msg.Action]
	r.mu.Unlock()
	if !ok {
		return
	}

	ctxlog.FromContext(ctx).Debug("Delivering UI message.", "action", msg.Action)
	// Invoke outside the lock so handlers may register or unregister.
	reg.fn(msg.Data)
}

// Registered reports whether an action currently has a handler.
func (r *Registry) Registered(action string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handlers[action]
	return ok
}

// Len returns the number of registered actions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}
