// Package testsupport holds helpers shared by tests across packages.
package testsupport

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
)

// ChannelName returns a channel name unique to this test run, so parallel
// tests and leftover segments from crashed runs never collide.
func ChannelName(t testing.TB) string {
	t.Helper()
	return "test-" + uuid.NewString()
}

// Context returns a context that expires well before the test timeout, so
// a wedged channel wait fails the test instead of hanging the run.
func Context(t testing.TB) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// Logger returns a slog.Logger that routes through t.Log, keeping node
// output attached to the test that produced it.
func Logger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
