package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "app.log")

	log, cleanup, err := New("debug", file)
	require.NoError(t, err)
	log.Debug("catalog loaded")
	log.Info("lesson saved")
	cleanup()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"catalog loaded"`)
	assert.Contains(t, string(data), `"msg":"lesson saved"`)
}

func TestNew_LevelFilters(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")

	log, cleanup, err := New("warn", file)
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown")
	cleanup()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNew_Disabled(t *testing.T) {
	log, cleanup, err := New("info", "")
	require.NoError(t, err)
	log.Info("dropped")
	cleanup()
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New("loud", filepath.Join(t.TempDir(), "x.log"))
	assert.Error(t, err)
}
