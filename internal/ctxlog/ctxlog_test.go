package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContext_ReturnsStoredLogger(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))
	ctx := WithLogger(context.Background(), logger)

	FromContext(ctx).Info("stored logger used")
	require.Contains(t, buf.String(), "stored logger used")
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	t.Parallel()

	// A bare context must still yield a usable logger.
	require.NotNil(t, FromContext(context.Background()))
}

func TestWith_AppendsAttributes(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(buf, nil)))
	ctx = With(ctx, "component", "bridge")

	FromContext(ctx).Info("attributed")
	require.Contains(t, buf.String(), "component=bridge")
}
