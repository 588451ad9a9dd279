package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewAppliesLevel(t *testing.T) {
	t.Parallel()

	logger, err := New("WARN", false)
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zap.InfoLevel))
	require.True(t, logger.Core().Enabled(zap.WarnLevel))

	devLogger, err := New("debug", true)
	require.NoError(t, err)
	require.True(t, devLogger.Core().Enabled(zap.DebugLevel))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New("chatty", false)
	require.Error(t, err)
}
