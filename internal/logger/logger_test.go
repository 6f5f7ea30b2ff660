package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	l, err := NewLogger(&LoggerConfig{Debug: false})
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = NewLogger(&LoggerConfig{Debug: true})
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = NewLogger(nil)
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zapcore.InfoLevel))
}
