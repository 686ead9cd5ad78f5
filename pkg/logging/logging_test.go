package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wardrobe-project/wardrobe/pkg/logging"
)

func TestInit(t *testing.T) {
	require.NoError(t, logging.Init("debug", "console"))
	l := logging.L()
	require.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	require.NoError(t, logging.Init("error", "json"))
	l = logging.L()
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.ErrorLevel))
}

func TestInitUnknownLevelMeansInfo(t *testing.T) {
	require.NoError(t, logging.Init("chatty", "console"))
	l := logging.L()
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
	assert.True(t, l.Core().Enabled(zap.InfoLevel))
}

func TestLWithoutInit(t *testing.T) {
	prev := logging.SetLogger(nil)
	defer logging.SetLogger(prev)

	l := logging.L()
	require.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zap.InfoLevel))
}

func TestNamed(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := logging.SetLogger(zap.New(core))
	defer logging.SetLogger(prev)

	logging.Named("runner").Info("starting")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "runner", entries[0].LoggerName)
	assert.Equal(t, "starting", entries[0].Message)
}
