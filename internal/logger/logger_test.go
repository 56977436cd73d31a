package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Domenick1991/flightledger/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_StdoutOnly(t *testing.T) {
	log, err := New(config.LogConfig{}, "app")
	require.NoError(t, err)
	assert.NotNil(t, log)
	assert.False(t, log.Core().Enabled(-1), "debug must be off by default")
}

func TestNew_WithFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	log, err := New(config.LogConfig{Path: dir, Debug: true, MaxSizeMB: 1}, "worker")
	require.NoError(t, err)

	log.Info("hello")
	_ = log.Sync()

	_, err = os.Stat(filepath.Join(dir, "worker.log"))
	assert.NoError(t, err)
	assert.True(t, log.Core().Enabled(-1))
}
