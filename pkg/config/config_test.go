package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zsthin/pkg/thinning"
)

func TestDefaultConfigMatchesDefaultParams(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	params, err := cfg.ThinningParams()
	require.NoError(t, err)

	def := thinning.DefaultParams()
	assert.Equal(t, def.ConnectivitySet, params.ConnectivitySet)
	assert.Equal(t, def.MinNeighbors, params.MinNeighbors)
	assert.Equal(t, def.MaxNeighbors, params.MaxNeighbors)
	assert.Equal(t, def.StepOneChecks, params.StepOneChecks)
	assert.Equal(t, def.StepTwoChecks, params.StepTwoChecks)
	assert.Equal(t, 128, cfg.Input.Threshold)
	assert.Equal(t, 1, cfg.Output.OverlayScale)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "zsthin.yaml")

	cfg := DefaultConfig()
	cfg.Thinning.NumWorkers = 3
	cfg.Input.Threshold = 90
	cfg.Input.Invert = true
	cfg.Output.Overlay = "overlay.png"
	cfg.Output.OverlayScale = 4
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigPartialOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("input:\n  threshold: 200\noutput:\n  verbose: true\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Input.Threshold)
	assert.True(t, cfg.Output.Verbose)
	assert.Equal(t, []int{0, 2, 4, 6}, cfg.Thinning.ConnectivitySet)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":          "thinning: [",
		"threshold range":   "input:\n  threshold: 300\n",
		"scale":             "output:\n  overlayScale: 0\n",
		"short triple":      "thinning:\n  stepOneChecks: [[0, 4], [2, 4, 6]]\n",
		"connectivity":      "thinning:\n  connectivitySet: [0, 8]\n",
		"inverted neighbor": "thinning:\n  minNeighbors: 7\n  maxNeighbors: 3\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.yaml")
	require.NoError(t, CreateDefaultConfigFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "connectivitySet")
	assert.Contains(t, string(data), "stepTwoChecks")
}
