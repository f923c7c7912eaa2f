package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LarsCG/spwn-core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLimits(t *testing.T) {
	lim := config.DefaultLimits()
	assert.Equal(t, 100, lim.ContextMax)
	assert.Equal(t, uint16(10000), lim.LifetimeCap)
	assert.Equal(t, 100000, lim.MaxBumpVisits)
}

func TestLoadLimitsMissingFileFallsBackToDefaults(t *testing.T) {
	lim, err := config.LoadLimits(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLimits(), lim)
}

func TestLoadLimitsOverlaysOnlySetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	require.NoError(t, os.WriteFile(path, []byte("context_max: 50\n"), 0o644))

	lim, err := config.LoadLimits(path)
	require.NoError(t, err)
	assert.Equal(t, 50, lim.ContextMax)
	assert.Equal(t, config.DefaultLimits().LifetimeCap, lim.LifetimeCap)
	assert.Equal(t, config.DefaultLimits().MaxBumpVisits, lim.MaxBumpVisits)
}

func TestLoadLimitsInvalidYAMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid: yaml"), 0o644))

	_, err := config.LoadLimits(path)
	require.Error(t, err)
}
