package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetState() {
	CloseAll()
	logsDir = ""
	debugMode = false
}

func TestInitialize_DebugDisabledIsNoOp(t *testing.T) {
	defer resetState()

	dir := t.TempDir()
	require.NoError(t, Initialize(dir, false))

	// No directory is created and loggers are inert.
	_, err := os.Stat(filepath.Join(dir, ".conjecturer"))
	assert.True(t, os.IsNotExist(err))

	assert.NotPanics(t, func() {
		Engine("must not write anywhere: %d", 42)
		Get(CategoryFetch).Warn("still inert")
	})
}

func TestInitialize_RequiresWorkspace(t *testing.T) {
	defer resetState()
	assert.Error(t, Initialize("", true))
}

func TestGet_WritesCategoryFile(t *testing.T) {
	defer resetState()

	dir := t.TempDir()
	require.NoError(t, Initialize(dir, true))

	Get(CategoryEngine).Info("verified polynomial for %s", "A000290")
	CloseAll()

	matches, err := filepath.Glob(filepath.Join(dir, ".conjecturer", "logs", "*_engine.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] verified polynomial for A000290")
}

func TestGet_ReusesLogger(t *testing.T) {
	defer resetState()

	dir := t.TempDir()
	require.NoError(t, Initialize(dir, true))

	first := Get(CategoryStore)
	second := Get(CategoryStore)
	assert.Same(t, first, second)
}

func TestTimer(t *testing.T) {
	defer resetState()

	timer := StartTimer(CategoryEngine, "fit")
	elapsed := timer.Stop()
	assert.GreaterOrEqual(t, elapsed.Nanoseconds(), int64(0))
}
