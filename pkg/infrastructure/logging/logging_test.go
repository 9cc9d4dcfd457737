package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/vsinha/mrpplan/pkg/infrastructure/config"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		logger, err := New(config.LogConfig{Level: "warn", Format: format})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud", Format: "json"})
	assert.ErrorContains(t, err, "invalid log level")
}
