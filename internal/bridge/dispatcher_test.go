package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingTransport struct {
	sent []Message
	err  error
}

func (r *recordingTransport) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func TestDispatcher_SendPreservesOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	transport := &recordingTransport{}
	d := NewDispatcher(transport)

	// --- Act ---
	d.Send(context.Background(), "setVisible", true)
	d.Send(context.Background(), "updateHealth", map[string]int{"health": 80})
	d.Send(context.Background(), "setVisible", false)

	// --- Assert ---
	require.Len(t, transport.sent, 3)
	require.Equal(t, "setVisible", transport.sent[0].Action)
	require.Equal(t, "updateHealth", transport.sent[1].Action)
	require.JSONEq(t, `{"health":80}`, string(transport.sent[1].Data))
	require.JSONEq(t, "false", string(transport.sent[2].Data))
}

func TestDispatcher_UnencodablePayloadIsDropped(t *testing.T) {
	t.Parallel()

	transport := &recordingTransport{}
	d := NewDispatcher(transport)

	// A channel cannot be encoded as JSON; the message must never reach
	// the transport and Send must not panic.
	d.Send(context.Background(), "bad", make(chan int))

	require.Empty(t, transport.sent)
}

func TestDispatcher_TransportFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	transport := &recordingTransport{err: errors.New("socket closed")}
	d := NewDispatcher(transport)

	// Fire and forget: the caller never observes transport errors.
	d.Send(context.Background(), "setVisible", true)

	require.Len(t, transport.sent, 1)
}

func TestNewDispatcher_NilTransportPanics(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { NewDispatcher(nil) })
}
