package logger

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Configure(&buf, false)
	t.Cleanup(func() { Configure(os.Stdout, false) })
	return &buf
}

func TestSetServiceReplacesTag(t *testing.T) {
	buf := capture(t)

	SetService("product")
	SetService("order")
	Info("ready")

	line := buf.String()
	assert.Equal(t, 1, strings.Count(line, "service="), line)
	assert.Contains(t, line, "service=order")
}

func TestWithCtxFallsBackToBase(t *testing.T) {
	buf := capture(t)
	SetService("user")

	WithCtx(context.Background()).Warn("no request logger")
	assert.Contains(t, buf.String(), "service=user")

	buf.Reset()
	ctx := InjectLogger(context.Background(), L.With("request_id", "abc"))
	WithCtx(ctx).Info("handled")
	assert.Contains(t, buf.String(), "request_id=abc")
}
