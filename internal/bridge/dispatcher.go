package bridge

import (
	"context"

	"github.com/nk/nuibridge/internal/ctxlog"
)

// Transport moves message envelopes from the scripting side to the UI layer.
// Implementations must preserve send order per transport instance.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher pushes named payloads at the UI layer. Delivery is fire and
// forget: there is no acknowledgement, no retry, and no return value for the
// caller. Anything that needs a reply goes through the RequestBridge instead.
type Dispatcher struct {
	transport Transport
}

// NewDispatcher creates a Dispatcher bound to a transport.
func NewDispatcher(t Transport) *Dispatcher {
	if t == nil {
		panic("bridge: dispatcher created with nil transport")
	}
	return &Dispatcher{transport: t}
}

// Send encodes the payload and hands it to the transport. Failures are
// logged and swallowed; the scripting side never observes them.
func (d *Dispatcher) Send(ctx context.Context, action string, data any) {
	logger := ctxlog.FromContext(ctx)

	msg, err := NewMessage(action, data)
	if err != nil {
		logger.Error("Dropping unencodable UI message.", "action", action, "error", err)
		return
	}

	logger.Debug("Dispatching UI message.", "action", action)
	if err := d.transport.Send(ctx, msg); err != nil {
		logger.Error("Failed to send UI message.", "action", action, "error", err)
	}
}
