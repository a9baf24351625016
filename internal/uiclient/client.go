// Package uiclient is a headless stand-in for the browser overlay. It
// subscribes to the dev server's message channel, delivers envelopes into
// its own listener registry, and issues callback requests over HTTP. The
// uibot command and the integration tests are its consumers.
package uiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/nk/nuibridge/internal/bridge"
	"github.com/nk/nuibridge/internal/ctxlog"
	"github.com/nk/nuibridge/internal/envguard"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// MessageEvent must match the dev server's emit event name.
const MessageEvent = "ui:message"

// DefaultConnectTimeout bounds the initial connection handshake.
const DefaultConnectTimeout = 10 * time.Second

// Client is one overlay UI session: a socket.io subscription feeding a
// listener registry, plus a request bridge for callback calls.
type Client struct {
	registry *bridge.Registry
	requests *bridge.RequestBridge
	env      envguard.Environment
	manager  *socket.Manager
	io       *socket.Socket
	baseCtx  context.Context
}

// Options configures a Client.
type Options struct {
	// ServerURL is the dev server address, e.g. "http://127.0.0.1:3000".
	ServerURL string
	// CallbackURL is the callback server address. Empty disables requests.
	CallbackURL string
	// RequestTimeout bounds callback requests; zero waits indefinitely.
	RequestTimeout time.Duration
	// ConnectTimeout bounds the socket handshake; zero uses the default.
	ConnectTimeout time.Duration
	// Environment gates mock behaviour for consumers of this client.
	Environment envguard.Environment
}

// Connect dials the dev server and returns a Client once the socket is
// established. The context carries the logger and cancels the handshake.
func Connect(ctx context.Context, opts Options) (*Client, error) {
	logger := ctxlog.FromContext(ctx)

	parsedURL, err := url.Parse(opts.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server URL: %w", err)
	}
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)

	sockOpts := socket.DefaultOptions()
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	c := &Client{
		registry: bridge.NewRegistry(),
		env:      opts.Environment,
		baseCtx:  ctx,
	}
	if opts.CallbackURL != "" {
		var bridgeOpts []bridge.Option
		if opts.RequestTimeout > 0 {
			bridgeOpts = append(bridgeOpts, bridge.WithTimeout(opts.RequestTimeout))
		}
		c.requests = bridge.NewRequestBridge(NewHTTPCaller(opts.CallbackURL), bridgeOpts...)
	}

	connected := make(chan error, 1)
	c.manager = socket.NewManager(baseURL, sockOpts)
	c.io = c.manager.Socket("/", sockOpts)

	c.io.On(types.EventName("connect"), func(...any) {
		logger.Info("Connected to dev server.", "sid", c.io.Id())
		connected <- nil
	})
	c.io.On(types.EventName("connect_error"), func(errs ...any) {
		if err, ok := errs[0].(error); ok {
			connected <- err
			return
		}
		connected <- fmt.Errorf("connect error: %v", errs[0])
	})
	c.io.On(types.EventName(MessageEvent), func(data ...any) {
		if len(data) == 0 {
			return
		}
		c.deliver(data[0])
	})

	connectTimeout := opts.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	c.io.Connect()
	select {
	case <-dialCtx.Done():
		c.Close()
		return nil, fmt.Errorf("timed out while waiting for initial connection: %w", dialCtx.Err())
	case err := <-connected:
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to connect to dev server: %w", err)
		}
	}
	return c, nil
}

// deliver decodes one wire payload into a Message and routes it through the
// registry. Anything undecodable is logged and dropped.
func (c *Client) deliver(raw any) {
	logger := ctxlog.FromContext(c.baseCtx)

	encoded, err := json.Marshal(raw)
	if err != nil {
		logger.Error("Dropping undecodable UI message.", "error", err)
		return
	}
	var msg bridge.Message
	if err := json.Unmarshal(encoded, &msg); err != nil || msg.Action == "" {
		logger.Error("Dropping malformed UI message.", "error", err)
		return
	}
	c.registry.Deliver(c.baseCtx, msg)
}

// Registry exposes the client's listener registry.
func (c *Client) Registry() *bridge.Registry {
	return c.registry
}

// Environment reports the context the client was constructed for.
func (c *Client) Environment() envguard.Environment {
	return c.env
}

// Request issues a callback request and resolves with the raw response.
func (c *Client) Request(ctx context.Context, endpoint string, data any) (json.RawMessage, error) {
	if c.requests == nil {
		return nil, &bridge.RequestError{Endpoint: endpoint, Err: fmt.Errorf("client has no callback transport configured")}
	}
	return c.requests.Request(ctx, endpoint, data)
}

// Close tears the socket down.
func (c *Client) Close() {
	ctxlog.FromContext(c.baseCtx).Debug("Disconnecting socket client.")
	if c.io != nil {
		c.io.Disconnect()
	}
}
