package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nk/nuibridge/internal/ctxlog"
)

// emptyBody is what a request carries when the caller supplies no payload.
var emptyBody = []byte("{}")

// Caller issues a single endpoint call over the host's request transport and
// returns the raw response body.
type Caller interface {
	Call(ctx context.Context, endpoint string, body []byte) ([]byte, error)
}

// RequestError reports a callback request that did not complete. It carries
// the endpoint name and the underlying transport failure.
type RequestError struct {
	Endpoint string
	Err      error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("request to %q failed: %v", e.Endpoint, e.Err)
}

// Unwrap exposes the underlying failure for errors.Is / errors.As.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// RequestBridge issues named requests into the scripting side and awaits
// exactly one response per request.
//
// By default a request that never receives a response stays pending until
// the caller's context is cancelled, matching the host runtime's behaviour
// of unbounded waiting. An optional bridge-wide timeout can be configured;
// when it fires the caller sees a RequestError wrapping the deadline error.
type RequestBridge struct {
	caller  Caller
	timeout time.Duration
}

// Option configures a RequestBridge.
type Option func(*RequestBridge)

// WithTimeout bounds every request issued through the bridge. A zero
// duration keeps the default unbounded wait.
func WithTimeout(d time.Duration) Option {
	return func(b *RequestBridge) { b.timeout = d }
}

// NewRequestBridge creates a RequestBridge on top of a caller.
func NewRequestBridge(c Caller, opts ...Option) *RequestBridge {
	if c == nil {
		panic("bridge: request bridge created with nil caller")
	}
	b := &RequestBridge{caller: c}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Request issues a call to the endpoint and resolves with the raw response
// body. A nil payload is sent as an empty object. Any failure surfaces as a
// *RequestError; there is no automatic retry.
func (b *RequestBridge) Request(ctx context.Context, endpoint string, data any) (json.RawMessage, error) {
	logger := ctxlog.FromContext(ctx)

	body := emptyBody
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, &RequestError{Endpoint: endpoint, Err: fmt.Errorf("failed to encode request payload: %w", err)}
		}
		body = encoded
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	promise := NewPromise[json.RawMessage]()
	go func() {
		resp, err := b.caller.Call(ctx, endpoint, body)
		if err != nil {
			promise.Reject(&RequestError{Endpoint: endpoint, Err: err})
			return
		}
		promise.Resolve(json.RawMessage(resp))
	}()

	logger.Debug("Issued callback request.", "endpoint", endpoint)
	resp, err := promise.Await(ctx)
	if err != nil {
		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			err = &RequestError{Endpoint: endpoint, Err: err}
		}
		logger.Debug("Callback request failed.", "endpoint", endpoint, "error", err)
		return nil, err
	}
	return resp, nil
}

// RequestAs issues a request and decodes the response body into T.
func RequestAs[T any](ctx context.Context, b *RequestBridge, endpoint string, data any) (T, error) {
	var out T
	resp, err := b.Request(ctx, endpoint, data)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(resp, &out); err != nil {
		return out, &RequestError{Endpoint: endpoint, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return out, nil
}
