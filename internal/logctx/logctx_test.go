package logctx_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/cheesypeas/stemfetch/internal/logctx"
	"github.com/stretchr/testify/assert"
)

func TestWithLogger_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := logctx.WithLogger(context.Background(), logger)

	logctx.LoggerFromContext(ctx).Info("hello")

	assert.Contains(t, buf.String(), "msg=hello")
}

func TestLoggerFromContext_FallsBackToDefault(t *testing.T) {
	logger := logctx.LoggerFromContext(context.Background())

	assert.Equal(t, slog.Default(), logger)
}

func TestWith_AttachesAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := logctx.WithLogger(context.Background(), logger)
	ctx = logctx.With(ctx, "dataset", "musdb18")

	logctx.LoggerFromContext(ctx).Info("selected files", "count", 2)

	out := buf.String()
	assert.Contains(t, out, "dataset=musdb18")
	assert.Contains(t, out, "count=2")
}

func TestWith_DoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	parent := logctx.WithLogger(context.Background(), logger)
	_ = logctx.With(parent, "dataset", "medleydb")

	logctx.LoggerFromContext(parent).Info("listing record")

	assert.NotContains(t, buf.String(), "dataset=medleydb")
}
