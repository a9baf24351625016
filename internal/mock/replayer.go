// Package mock replays scripted UI messages through the listener registry
// as if they had arrived from the game client. It exists so the overlay can
// be developed in an ordinary browser context; in the embedded context it
// is a strict no-op.
package mock

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nk/nuibridge/internal/bridge"
	"github.com/nk/nuibridge/internal/ctxlog"
	"github.com/nk/nuibridge/internal/envguard"
)

// DefaultDelay spaces replayed events apart. The small pause emulates
// asynchronous delivery and keeps events from firing before the UI has
// mounted its subscriptions.
const DefaultDelay = 50 * time.Millisecond

// Event is one scripted action/payload pair. A zero Delay uses DefaultDelay.
type Event struct {
	Action string
	Data   json.RawMessage
	Delay  time.Duration
}

// Replayer feeds scripted events into a registry's receipt path.
type Replayer struct {
	env      envguard.Environment
	registry *bridge.Registry
}

// NewReplayer creates a Replayer. The environment is fixed at construction;
// callers decide it once at startup via envguard.Detect.
func NewReplayer(env envguard.Environment, registry *bridge.Registry) *Replayer {
	return &Replayer{env: env, registry: registry}
}

// Replay delivers the events in order, pausing before each one. It returns
// immediately without touching the registry when running embedded; mock
// traffic must never reach a production session.
func (r *Replayer) Replay(ctx context.Context, events []Event) error {
	logger := ctxlog.FromContext(ctx)
	if r.env.IsEmbedded() {
		logger.Debug("Mock replay skipped in embedded context.", "events", len(events))
		return nil
	}

	for _, ev := range events {
		delay := ev.Delay
		if delay <= 0 {
			delay = DefaultDelay
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		logger.Debug("Replaying mock UI message.", "action", ev.Action)
		r.registry.Deliver(ctx, bridge.Message{Action: ev.Action, Data: ev.Data})
	}
	return nil
}
