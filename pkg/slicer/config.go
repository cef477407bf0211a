package slicer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SliceType selects how the grid is derived from the source bounds.
type SliceType string

const (
	// SliceFixed derives per-axis counts from a world-unit cell size.
	SliceFixed SliceType = "fixed"
	// SliceRelative uses the configured per-axis slice quantities.
	SliceRelative SliceType = "relative"
)

// AxisTriple is a per-axis integer setting.
type AxisTriple struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

// Array returns the triple in canonical axis order.
func (t AxisTriple) Array() [3]int {
	return [3]int{t.X, t.Y, t.Z}
}

// AxisToggle enables or disables slicing per axis.
type AxisToggle struct {
	X bool `yaml:"x"`
	Y bool `yaml:"y"`
	Z bool `yaml:"z"`
}

// Array returns the toggles in canonical axis order.
func (t AxisToggle) Array() [3]bool {
	return [3]bool{t.X, t.Y, t.Z}
}

func (t AxisToggle) none() bool {
	return !t.X && !t.Y && !t.Z
}

// Config is the configuration surface of a single slice invocation.
type Config struct {
	SliceType     SliceType  `yaml:"slice_type"`
	CellSize      float64    `yaml:"cell_size"`      // used when slice_type=fixed
	SliceQuantity AxisTriple `yaml:"slice_quantity"` // used when slice_type=relative

	// CleanupThreshold deletes chunks whose extent falls under it on two
	// or more axes. Zero disables the cleanup pass entirely.
	CleanupThreshold float64 `yaml:"cleanup_threshold"`

	ResetOrigins bool `yaml:"reset_origins"`
	Fill         bool `yaml:"fill"`
	Force        bool `yaml:"force"`

	// Axes selects which axes to slice on; a disabled axis behaves as a
	// single slice spanning the whole bounds.
	Axes AxisToggle `yaml:"axes"`

	// RemoveDoubles welds near-duplicate vertices in each chunk after
	// slicing, at WeldDistance.
	RemoveDoubles bool    `yaml:"remove_doubles"`
	WeldDistance  float64 `yaml:"weld_distance"`

	// Workers bounds post-processing parallelism; 0 means one worker
	// per CPU. Results are merged in cell-address order either way.
	Workers int `yaml:"workers"`
}

// DefaultConfig mirrors the defaults of the interactive operator this
// library grew out of, except that fill, force and reset_origins start
// off as the conservative choice.
func DefaultConfig() Config {
	return Config{
		SliceType:        SliceRelative,
		CellSize:         0.3,
		SliceQuantity:    AxisTriple{X: 2, Y: 2, Z: 2},
		CleanupThreshold: 0.005,
		Axes:             AxisToggle{X: true, Y: true, Z: true},
		WeldDistance:     0.002,
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("slicer: reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("slicer: parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate surfaces configuration errors before any geometric work.
func (c Config) Validate() error {
	switch c.SliceType {
	case SliceFixed:
		if c.CellSize <= 0 {
			return &InvalidConfigError{Field: "cell_size", Reason: fmt.Sprintf("must be positive, got %g", c.CellSize)}
		}
	case SliceRelative:
		for i, q := range c.SliceQuantity.Array() {
			if c.Axes.Array()[i] && q < 1 {
				return &InvalidConfigError{Field: "slice_quantity", Reason: fmt.Sprintf("axis %d quantity must be at least 1, got %d", i, q)}
			}
		}
	default:
		return &InvalidConfigError{Field: "slice_type", Reason: fmt.Sprintf("must be %q or %q, got %q", SliceFixed, SliceRelative, c.SliceType)}
	}
	if c.CleanupThreshold < 0 {
		return &InvalidConfigError{Field: "cleanup_threshold", Reason: "must not be negative"}
	}
	if c.Axes.none() {
		return &InvalidConfigError{Field: "axes", Reason: "at least one slice axis must be enabled"}
	}
	if c.RemoveDoubles && c.WeldDistance < 0 {
		return &InvalidConfigError{Field: "weld_distance", Reason: "must not be negative"}
	}
	if c.Workers < 0 {
		return &InvalidConfigError{Field: "workers", Reason: "must not be negative"}
	}
	return nil
}
