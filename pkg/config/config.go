// Package config provides configuration loading and management for anchorvoxel.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"anchorvoxel/pkg/kernel"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores to use for parallel processing
		NumCores int `yaml:"numCores"`

		// Threshold is the normalised intensity (0-1) at or above which a pixel is on
		Threshold float64 `yaml:"threshold"`

		// MinObjectVoxels drops connected components smaller than this
		MinObjectVoxels int `yaml:"minObjectVoxels"`

		// UseZ connects voxels across slices and enables 3D kernels
		UseZ bool `yaml:"useZ"`
	} `yaml:"processing"`

	// Kernel parameters
	Kernel struct {
		// OutsidePolicy is how neighbours outside the scene are treated: on, off or ignore
		OutsidePolicy string `yaml:"outsidePolicy"`

		// BigNeighborhood dilates with diagonals (8/26 neighbours) instead of faces only
		BigNeighborhood bool `yaml:"bigNeighborhood"`
	} `yaml:"kernel"`

	// Outline parameters
	Outline struct {
		// NumberErosions is the outline thickness in voxels
		NumberErosions int `yaml:"numberErosions"`

		// Force2D computes outlines plane by plane even for 3D objects
		Force2D bool `yaml:"force2D"`

		// OutlineAtBoundary counts voxels on the scene edge as outline
		OutlineAtBoundary bool `yaml:"outlineAtBoundary"`
	} `yaml:"outline"`

	// Cluster parameters
	Cluster struct {
		// DilationDistance grows each object before grouping objects that touch
		DilationDistance int `yaml:"dilationDistance"`
	} `yaml:"cluster"`

	// Index parameters
	Index struct {
		// MinChildren and MaxChildren bound the fan-out of R-tree nodes
		MinChildren int `yaml:"minChildren"`
		MaxChildren int `yaml:"maxChildren"`
	} `yaml:"index"`

	// Output parameters
	Output struct {
		// SaveIntermediaryResults determines whether to save intermediary processing results
		SaveIntermediaryResults bool `yaml:"saveIntermediaryResults"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.NumCores = runtime.NumCPU()
	cfg.Processing.Threshold = 0.5
	cfg.Processing.MinObjectVoxels = 1
	cfg.Processing.UseZ = true

	cfg.Kernel.OutsidePolicy = kernel.AsOff.String()
	cfg.Kernel.BigNeighborhood = true

	cfg.Outline.NumberErosions = 1
	cfg.Outline.Force2D = false
	cfg.Outline.OutlineAtBoundary = true

	cfg.Cluster.DilationDistance = 1

	cfg.Index.MinChildren = 3
	cfg.Index.MaxChildren = 10

	cfg.Output.SaveIntermediaryResults = false
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
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

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Processing.NumCores < 1 {
		errs = append(errs, fmt.Errorf("processing.numCores must be at least 1, got %d", c.Processing.NumCores))
	}
	if c.Processing.Threshold < 0 || c.Processing.Threshold > 1 {
		errs = append(errs, fmt.Errorf("processing.threshold must be within [0, 1], got %g", c.Processing.Threshold))
	}
	if c.Processing.MinObjectVoxels < 1 {
		errs = append(errs, fmt.Errorf("processing.minObjectVoxels must be at least 1, got %d", c.Processing.MinObjectVoxels))
	}
	if _, err := kernel.ParsePolicy(c.Kernel.OutsidePolicy); err != nil {
		errs = append(errs, fmt.Errorf("kernel.outsidePolicy: %w", err))
	}
	if c.Outline.NumberErosions < 1 {
		errs = append(errs, fmt.Errorf("outline.numberErosions must be at least 1, got %d", c.Outline.NumberErosions))
	}
	if c.Cluster.DilationDistance < 0 {
		errs = append(errs, fmt.Errorf("cluster.dilationDistance must not be negative, got %d", c.Cluster.DilationDistance))
	}
	if c.Index.MinChildren < 1 || c.Index.MaxChildren < 2*c.Index.MinChildren {
		errs = append(errs, fmt.Errorf("index: need 1 <= minChildren and maxChildren >= 2*minChildren, got %d/%d",
			c.Index.MinChildren, c.Index.MaxChildren))
	}
	return errors.Join(errs...)
}

// OutsidePolicy returns the parsed kernel outside policy.
func (c *Config) OutsidePolicy() (kernel.OutsideKernelPolicy, error) {
	return kernel.ParsePolicy(c.Kernel.OutsidePolicy)
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
