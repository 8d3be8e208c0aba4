package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(t *testing.T, level LogLevel) (*Logger, *bytes.Buffer) {
	t.Helper()
	l, err := New(Config{Level: level, Format: "json"})
	require.NoError(t, err)
	var buf bytes.Buffer
	l.SetOutput(&buf)
	return l, &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestFieldsDoNotLeak(t *testing.T) {
	t.Parallel()
	l, buf := jsonLogger(t, InfoLevel)

	child := l.WithField("query_id", 3).WithError(errors.New("boom"))
	child.Info("child")
	entry := decode(t, buf)
	assert.Equal(t, "child", entry["msg"])
	assert.Equal(t, float64(3), entry["query_id"])
	assert.Equal(t, "boom", entry["error"])

	buf.Reset()
	l.Info("parent")
	entry = decode(t, buf)
	assert.NotContains(t, entry, "query_id")
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	l, buf := jsonLogger(t, WarnLevel)

	l.Info("hidden")
	assert.Zero(t, buf.Len())
	l.Warn("shown")
	assert.NotZero(t, buf.Len())
}

func TestRequestIDFromContext(t *testing.T) {
	t.Parallel()
	l, buf := jsonLogger(t, InfoLevel)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))

	l.WithContext(ctx).Info("with id")
	assert.Equal(t, "req-1", decode(t, buf)["request_id"])
}

func TestLogAPIRequestLevels(t *testing.T) {
	t.Parallel()
	l, buf := jsonLogger(t, InfoLevel)

	l.LogAPIRequest("GET", "/api/v1/kpis", 503, 12*time.Millisecond, "10.0.0.1")
	entry := decode(t, buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, float64(503), entry["status_code"])
	assert.Equal(t, float64(12), entry["duration_ms"])
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()
	l, buf := jsonLogger(t, LogLevel("verbose"))

	l.Debug("hidden")
	assert.Zero(t, buf.Len())
	l.Info("shown")
	assert.NotZero(t, buf.Len())
}

// lockedBuffer is written by the pipe's reader goroutine while the test reads it
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWriterLogsEachLine(t *testing.T) {
	t.Parallel()
	l, err := New(Config{Level: InfoLevel, Format: "json"})
	require.NoError(t, err)
	var out lockedBuffer
	l.SetOutput(&out)

	w := l.WithField("component", "http").Writer(WarnLevel)
	_, err = w.Write([]byte("http: TLS handshake error from 10.0.0.1\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "TLS handshake error")
	}, time.Second, 10*time.Millisecond)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out.String()), &entry))
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "http", entry["component"])
}
