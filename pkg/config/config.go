// Package config provides configuration loading and management for zsthin.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"zsthin/pkg/thinning"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Thinning parameters
	Thinning struct {
		// NumWorkers specifies how many goroutines sweep the image during a pass
		NumWorkers int `yaml:"numWorkers"`

		// ConnectivitySet lists the neighbor positions summed into the connectivity number
		ConnectivitySet []int `yaml:"connectivitySet"`

		// MinNeighbors and MaxNeighbors bound the white neighbor count of a deletable pixel
		MinNeighbors int `yaml:"minNeighbors"`
		MaxNeighbors int `yaml:"maxNeighbors"`

		// StepOneChecks and StepTwoChecks are the neighbor triples tested in each sub-iteration
		StepOneChecks [][]int `yaml:"stepOneChecks"`
		StepTwoChecks [][]int `yaml:"stepTwoChecks"`
	} `yaml:"thinning"`

	// Input binarization parameters
	Input struct {
		// Threshold is the minimum luma (0-255) considered foreground
		Threshold int `yaml:"threshold"`

		// Invert treats dark pixels as foreground
		Invert bool `yaml:"invert"`
	} `yaml:"input"`

	// Output parameters
	Output struct {
		// Overlay is the path of an optional skeleton-over-source rendering
		Overlay string `yaml:"overlay"`

		// OverlayScale enlarges the overlay by an integer factor
		OverlayScale int `yaml:"overlayScale"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Published Zhang-Suen constants
	params := thinning.DefaultParams()
	cfg.Thinning.NumWorkers = runtime.NumCPU()
	cfg.Thinning.ConnectivitySet = append([]int(nil), params.ConnectivitySet...)
	cfg.Thinning.MinNeighbors = params.MinNeighbors
	cfg.Thinning.MaxNeighbors = params.MaxNeighbors
	cfg.Thinning.StepOneChecks = triplesToSlices(params.StepOneChecks)
	cfg.Thinning.StepTwoChecks = triplesToSlices(params.StepTwoChecks)

	cfg.Input.Threshold = 128
	cfg.Input.Invert = false

	cfg.Output.Overlay = ""
	cfg.Output.OverlayScale = 1
	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// Validate checks value ranges that YAML decoding cannot enforce.
func (c *Config) Validate() error {
	if c.Input.Threshold < 0 || c.Input.Threshold > 255 {
		return fmt.Errorf("input.threshold %d out of range 0..255", c.Input.Threshold)
	}
	if c.Output.OverlayScale < 1 {
		return fmt.Errorf("output.overlayScale must be at least 1, got %d", c.Output.OverlayScale)
	}
	params, err := c.ThinningParams()
	if err != nil {
		return err
	}
	return params.Validate()
}

// ThinningParams converts the thinning section into thinning.Params.
func (c *Config) ThinningParams() (*thinning.Params, error) {
	params := thinning.DefaultParams()
	params.NumWorkers = c.Thinning.NumWorkers
	params.ConnectivitySet = append([]int(nil), c.Thinning.ConnectivitySet...)
	params.MinNeighbors = c.Thinning.MinNeighbors
	params.MaxNeighbors = c.Thinning.MaxNeighbors

	var err error
	if params.StepOneChecks, err = slicesToTriples("stepOneChecks", c.Thinning.StepOneChecks); err != nil {
		return nil, err
	}
	if params.StepTwoChecks, err = slicesToTriples("stepTwoChecks", c.Thinning.StepTwoChecks); err != nil {
		return nil, err
	}
	return params, nil
}

func triplesToSlices(ts [2]thinning.Triple) [][]int {
	out := make([][]int, len(ts))
	for i, t := range ts {
		out[i] = []int{t[0], t[1], t[2]}
	}
	return out
}

func slicesToTriples(name string, s [][]int) ([2]thinning.Triple, error) {
	var out [2]thinning.Triple
	if len(s) != 2 {
		return out, fmt.Errorf("thinning.%s must contain 2 triples, got %d", name, len(s))
	}
	for i, t := range s {
		if len(t) != 3 {
			return out, fmt.Errorf("thinning.%s[%d] must contain 3 indices, got %d", name, i, len(t))
		}
		out[i] = thinning.Triple{t[0], t[1], t[2]}
	}
	return out, nil
}
