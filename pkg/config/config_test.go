package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/grit/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	err := config.SaveTo(path, config.Config{DataDir: "/home/me/tracker"})
	require.NoError(t, err)

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "/home/me/tracker", cfg.DataDir)
}

func TestLoadFrom_FirstRun(t *testing.T) {
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadFrom_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: [not a string"), 0644))

	_, err := config.LoadFrom(path)
	assert.Error(t, err)
}
