// Package testutil provides shared test helpers for the converter packages.
package testutil

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/logger"
)

// TestLogger creates a logger that writes to the test output. The logger is
// automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// CaptureLogs routes the converter's global logger to the test output for the
// duration of the test, so builder warnings show up next to failures.
func CaptureLogs(t *testing.T) {
	t.Helper()
	previous := logger.Get()
	logger.SetLogger(zaptest.NewLogger(t))
	t.Cleanup(func() { logger.SetLogger(previous) })
}
