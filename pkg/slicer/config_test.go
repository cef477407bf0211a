package slicer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, SliceRelative, cfg.SliceType)
	assert.False(t, cfg.Fill)
	assert.False(t, cfg.Force)
	assert.False(t, cfg.ResetOrigins)
	assert.Equal(t, [3]bool{true, true, true}, cfg.Axes.Array())
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "unknown slice type",
			mutate: func(c *Config) { c.SliceType = "diagonal" },
			field:  "slice_type",
		},
		{
			name: "non-positive cell size",
			mutate: func(c *Config) {
				c.SliceType = SliceFixed
				c.CellSize = 0
			},
			field: "cell_size",
		},
		{
			name:   "zero slice quantity",
			mutate: func(c *Config) { c.SliceQuantity.Y = 0 },
			field:  "slice_quantity",
		},
		{
			name:   "negative cleanup threshold",
			mutate: func(c *Config) { c.CleanupThreshold = -0.1 },
			field:  "cleanup_threshold",
		},
		{
			name:   "all axes disabled",
			mutate: func(c *Config) { c.Axes = AxisToggle{} },
			field:  "axes",
		},
		{
			name: "negative weld distance",
			mutate: func(c *Config) {
				c.RemoveDoubles = true
				c.WeldDistance = -1
			},
			field: "weld_distance",
		},
		{
			name:   "negative workers",
			mutate: func(c *Config) { c.Workers = -2 },
			field:  "workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var ice *InvalidConfigError
			require.ErrorAs(t, err, &ice)
			assert.Equal(t, tt.field, ice.Field)
		})
	}
}

func TestZeroQuantityOnDisabledAxisIsFine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Axes = AxisToggle{X: true, Y: false, Z: true}
	cfg.SliceQuantity = AxisTriple{X: 3, Y: 0, Z: 3}

	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slice.yaml")
	data := []byte("slice_type: fixed\ncell_size: 1.5\nfill: true\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, SliceFixed, cfg.SliceType)
	assert.Equal(t, 1.5, cfg.CellSize)
	assert.True(t, cfg.Fill)
	// Untouched keys keep their defaults.
	assert.Equal(t, 0.005, cfg.CleanupThreshold)
	assert.Equal(t, [3]bool{true, true, true}, cfg.Axes.Array())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
