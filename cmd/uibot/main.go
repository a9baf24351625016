// Command uibot is a headless overlay UI. It connects to a running
// nuibridge dev server, logs every message delivered for the actions it
// watches, and can issue a one-shot callback request. It exists to exercise
// a bridge end to end without a browser.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nk/nuibridge/internal/ctxlog"
	"github.com/nk/nuibridge/internal/envguard"
	"github.com/nk/nuibridge/internal/uiclient"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("uibot", flag.ContinueOnError)
	serverFlag := flagSet.String("server", "http://127.0.0.1:3000", "Dev server URL.")
	callbackFlag := flagSet.String("callback", "", "Callback server URL; empty disables requests.")
	actionsFlag := flagSet.String("actions", "", "Comma-separated action names to watch.")
	requestFlag := flagSet.String("request", "", "Endpoint to call once after connecting.")
	timeoutFlag := flagSet.Duration("request-timeout", 0, "Bound for callback requests; 0 waits indefinitely.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	switch strings.ToLower(*logLevelFlag) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = ctxlog.WithLogger(ctx, logger)

	client, err := uiclient.Connect(ctx, uiclient.Options{
		ServerURL:      *serverFlag,
		CallbackURL:    *callbackFlag,
		RequestTimeout: *timeoutFlag,
		Environment:    envguard.Detect(nil),
	})
	if err != nil {
		return err
	}
	defer client.Close()

	for _, action := range splitActions(*actionsFlag) {
		action := action
		client.Registry().Register(action, func(data json.RawMessage) {
			logger.Info("Message received.", "action", action, "data", string(data))
		})
		logger.Debug("Watching action.", "action", action)
	}

	if *requestFlag != "" {
		resp, err := client.Request(ctx, *requestFlag, nil)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		logger.Info("Request resolved.", "endpoint", *requestFlag, "response", string(resp))
	}

	logger.Info("uibot connected; waiting for messages. Ctrl-C to exit.")
	<-ctx.Done()

	// Give in-flight deliveries a moment before the socket drops.
	time.Sleep(100 * time.Millisecond)
	return nil
}

func splitActions(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
