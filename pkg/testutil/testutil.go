// Package testutil provides shared testing helpers for Explorer.
package testutil

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/edpop/explorer/pkg/clients"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// HTTPClient creates an HTTP client with default settings whose
// lifetime is bound to the test.
func HTTPClient(t *testing.T) *clients.HTTPClient {
	t.Helper()
	hc := clients.NewHTTPClient(clients.DefaultHTTPConfig(), TestLogger(t))
	t.Cleanup(func() { _ = hc.Close() })
	return hc
}
