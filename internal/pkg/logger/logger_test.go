package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGet_FallsBackToDefault(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetDefault(zap.New(core))
	t.Cleanup(func() { SetDefault(zap.NewNop()) })

	Info(context.Background(), "hello")
	assert.Equal(t, 1, logs.Len())
}

func TestWithFields_AttachesFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := WithLogger(context.Background(), zap.New(core))
	ctx = WithFields(ctx, zap.String("request_id", "r1"))

	Warn(ctx, "careful")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "r1", entries[0].ContextMap()["request_id"])
		assert.Equal(t, zap.WarnLevel, entries[0].Level)
	}
}
