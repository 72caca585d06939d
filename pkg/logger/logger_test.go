package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func captureLogger(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	previous := Get()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(previous) })
	return logs
}

func TestWithContextAddsConverterFields(t *testing.T) {
	logs := captureLogger(t)

	ctx := context.WithValue(context.Background(), CaseKey, "my_case")
	ctx = context.WithValue(ctx, PhaseKey, "regions")
	ctx = context.WithValue(ctx, DatasetKey, "hierarchy")
	WithContext(ctx).Info("build phase complete")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "my_case", fields["case"])
	assert.Equal(t, "regions", fields["phase"])
	assert.Equal(t, "hierarchy", fields["dataset"])
}

func TestWithContextIgnoresMissingValues(t *testing.T) {
	logs := captureLogger(t)

	WithContext(context.Background()).Info("plain")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Context)
}

func TestInitRejectsBadLevel(t *testing.T) {
	err := Init(Config{Level: "chatty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
