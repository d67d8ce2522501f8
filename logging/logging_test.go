package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuildsLoggerForEveryLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "unknown", ""} {
		logger, err := New(level, "json", "acti_analyze")
		require.NoError(t, err, "level %q", level)
		assert.NotNil(t, logger)
	}
}

func TestNewConsoleFormat(t *testing.T) {
	logger, err := New("debug", "console", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewNop(t *testing.T) {
	assert.NotNil(t, NewNop())
}
