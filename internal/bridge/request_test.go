package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// callerFunc adapts a function to the Caller interface.
type callerFunc func(ctx context.Context, endpoint string, body []byte) ([]byte, error)

func (f callerFunc) Call(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	return f(ctx, endpoint, body)
}

func TestRequestBridge_ResolvesWithCallbackValue(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	caller := callerFunc(func(_ context.Context, endpoint string, body []byte) ([]byte, error) {
		require.Equal(t, "getClientData", endpoint)
		require.JSONEq(t, "{}", string(body), "a nil payload must be sent as an empty object")
		return []byte(`{"name":"John Doe","health":100}`), nil
	})
	b := NewRequestBridge(caller)

	// --- Act ---
	type clientData struct {
		Name   string `json:"name"`
		Health int    `json:"health"`
	}
	got, err := RequestAs[clientData](context.Background(), b, "getClientData", nil)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, clientData{Name: "John Doe", Health: 100}, got)
}

func TestRequestBridge_PayloadIsForwarded(t *testing.T) {
	t.Parallel()

	var gotBody []byte
	caller := callerFunc(func(_ context.Context, _ string, body []byte) ([]byte, error) {
		gotBody = body
		return []byte(`null`), nil
	})
	b := NewRequestBridge(caller)

	_, err := b.Request(context.Background(), "save", map[string]any{"slot": 2})
	require.NoError(t, err)
	require.JSONEq(t, `{"slot":2}`, string(gotBody))
}

func TestRequestBridge_TransportFailureBecomesRequestError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	caller := callerFunc(func(context.Context, string, []byte) ([]byte, error) {
		return nil, cause
	})
	b := NewRequestBridge(caller)

	_, err := b.Request(context.Background(), "getClientData", nil)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, "getClientData", reqErr.Endpoint)
	require.ErrorIs(t, err, cause, "RequestError must carry the underlying failure")
}

func TestRequestBridge_NoTimeoutByDefault(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A caller that never answers on its own; only context cancellation
	// unblocks the request. This pins the documented unbounded-wait
	// behaviour of the default bridge.
	release := make(chan struct{})
	caller := callerFunc(func(ctx context.Context, _ string, _ []byte) ([]byte, error) {
		select {
		case <-release:
			return []byte(`true`), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	b := NewRequestBridge(caller)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := b.Request(ctx, "hang", nil)
		done <- err
	}()

	// --- Act ---
	select {
	case err := <-done:
		t.Fatalf("request completed without a response: %v", err)
	case <-time.After(50 * time.Millisecond):
		// still pending
	}
	cancel()

	// --- Assert ---
	var reqErr *RequestError
	err := <-done
	require.ErrorAs(t, err, &reqErr)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRequestBridge_ConfiguredTimeoutFires(t *testing.T) {
	t.Parallel()

	caller := callerFunc(func(ctx context.Context, _ string, _ []byte) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	b := NewRequestBridge(caller, WithTimeout(20*time.Millisecond))

	_, err := b.Request(context.Background(), "slow", nil)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, "slow", reqErr.Endpoint)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRequestAs_DecodeFailureBecomesRequestError(t *testing.T) {
	t.Parallel()

	caller := callerFunc(func(context.Context, string, []byte) ([]byte, error) {
		return []byte(`not json`), nil
	})
	b := NewRequestBridge(caller)

	_, err := RequestAs[map[string]any](context.Background(), b, "broken", nil)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, "broken", reqErr.Endpoint)
}

func TestRequestBridge_RawResponsePassesThrough(t *testing.T) {
	t.Parallel()

	caller := callerFunc(func(context.Context, string, []byte) ([]byte, error) {
		return []byte(`{"ok":true}`), nil
	})
	b := NewRequestBridge(caller)

	got, err := b.Request(context.Background(), "status", nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":true}`, string(json.RawMessage(got)))
}
