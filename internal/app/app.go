package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nk/nuibridge/internal/bridge"
	"github.com/nk/nuibridge/internal/callback"
	"github.com/nk/nuibridge/internal/config"
	"github.com/nk/nuibridge/internal/convar"
	"github.com/nk/nuibridge/internal/ctxlog"
	"github.com/nk/nuibridge/internal/devserver"
	"github.com/nk/nuibridge/internal/envguard"
	"github.com/nk/nuibridge/internal/script"
)

// App encapsulates the bridge's dependencies, configuration, and lifecycle:
// the scripting host on one side, the dev message channel and callback
// transport on the other.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	ctx    context.Context

	model      *config.Model
	env        envguard.Environment
	convars    *convar.Store
	mockReplay bool

	devServer      *devserver.Server
	callbackServer *callback.Server
	dispatcher     *bridge.Dispatcher
	engine         *script.Engine
}

// NewApp constructs a fully wired App. It panics on configuration errors;
// the CLI entrypoint recovers and turns the panic into a clean exit. The
// environment is detected once here and injected everywhere it matters.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	env := envguard.Detect(nil)
	logger.Info("Environment detected.", "environment", env.String(), "resource", model.Resource.Name)

	convars := convar.NewStore(model.Convars)

	devServer := devserver.NewServer(ctx, uiDir(model))
	dispatcher := bridge.NewDispatcher(devServer)
	engine := script.NewEngine(ctx, dispatcher, convars, model.Resource.Name, outW)
	callbackServer := callback.NewServer(ctx, engine)

	return &App{
		outW:           outW,
		logger:         logger,
		ctx:            ctx,
		model:          model,
		env:            env,
		convars:        convars,
		mockReplay:     appConfig.MockReplay,
		devServer:      devServer,
		callbackServer: callbackServer,
		dispatcher:     dispatcher,
		engine:         engine,
	}
}

func uiDir(model *config.Model) string {
	if model.DevServer == nil {
		return ""
	}
	return model.DevServer.UIDir
}

// Model returns the loaded configuration model. Primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

// Engine returns the scripting host. Primarily for testing.
func (a *App) Engine() *script.Engine {
	return a.engine
}

// Convars returns the convar store. Primarily for testing.
func (a *App) Convars() *convar.Store {
	return a.convars
}

// Environment returns the detected execution environment.
func (a *App) Environment() envguard.Environment {
	return a.env
}
