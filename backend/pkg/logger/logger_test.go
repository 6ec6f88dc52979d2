package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_ProductionIsInfoLevel(t *testing.T) {
	l, err := New("production")
	require.NoError(t, err)

	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestNew_DevelopmentIsDebugLevel(t *testing.T) {
	l, err := New("development")
	require.NoError(t, err)

	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestGet_FallsBackWhenUninitialized(t *testing.T) {
	saved := Logger
	Logger = nil
	defer func() { Logger = saved }()

	assert.NotNil(t, Get())
	assert.NotNil(t, Named("ollama"))
}

func TestInit_SetsGlobal(t *testing.T) {
	saved := Logger
	defer func() { Logger = saved }()

	require.NoError(t, Init("production"))
	assert.Same(t, Logger, Get())
	Sync()
}
