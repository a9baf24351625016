package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nk/nuibridge/internal/bridge"
	"github.com/nk/nuibridge/internal/ctxlog"
	"github.com/nk/nuibridge/internal/mock"
)

// Run starts the servers, executes the configured client scripts, and then
// blocks until the context is cancelled. Shutdown is graceful: both servers
// drain before Run returns.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.model.DevServer != nil {
		a.devServer.Start(a.model.DevServer.Port)
	}
	if a.model.Callback != nil {
		a.callbackServer.Start(a.model.Callback.Port)
	}

	if err := a.runScripts(ctx); err != nil {
		return err
	}

	a.logger.Info("Bridge is up.",
		"resource", a.model.Resource.Name,
		"environment", a.env.String(),
		"scripts", len(a.model.Scripts),
		"endpoints", a.engine.Endpoints(),
	)

	if a.mockReplay {
		go a.replayMocksLocally(ctx)
	}

	<-ctx.Done()
	a.logger.Info("Shutting down.")

	var firstErr error
	if a.model.Callback != nil {
		if err := a.callbackServer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.model.DevServer != nil {
		if err := a.devServer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.logger.Debug("App.Run method finished.")
	return firstErr
}

// runScripts executes every configured client script in declaration order.
func (a *App) runScripts(ctx context.Context) error {
	for _, s := range a.model.Scripts {
		if err := a.engine.RunFile(ctx, s.Name, s.Path); err != nil {
			return fmt.Errorf("script %q failed: %w", s.Name, err)
		}
	}
	return nil
}

// replayMocksLocally plays the mock scenario against a throwaway registry
// whose handlers just log what the overlay would have received. Useful for
// checking a scenario file without a UI attached.
func (a *App) replayMocksLocally(ctx context.Context) {
	registry := bridge.NewRegistry()
	for _, m := range a.model.Mocks {
		action := m.Action
		registry.Register(action, func(data json.RawMessage) {
			a.logger.Info("Mock event delivered.", "action", action, "data", string(data))
		})
	}
	if err := a.ReplayMocks(ctx, registry); err != nil && ctx.Err() == nil {
		a.logger.Error("Mock replay failed.", "error", err)
	}
}

// ReplayMocks feeds the configured mock events through the given registry.
// It is a no-op in the embedded environment; the replayer enforces that.
func (a *App) ReplayMocks(ctx context.Context, registry *bridge.Registry) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	events := make([]mock.Event, 0, len(a.model.Mocks))
	for _, m := range a.model.Mocks {
		events = append(events, mock.Event{Action: m.Action, Data: m.Data, Delay: m.Delay})
	}
	return mock.NewReplayer(a.env, registry).Replay(ctx, events)
}
