// Package config provides configuration loading and management for gridgrad.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// Workers bounds how many axis gradients are computed at once
		Workers int `yaml:"workers"`

		// ValueBits is the float width (32 or 64) used when formatting output values
		ValueBits int `yaml:"valueBits"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Files names the gradient file written for each axis
		Files struct {
			X string `yaml:"x"`
			Y string `yaml:"y"`
			Z string `yaml:"z"`
		} `yaml:"files"`

		// Plot enables rendering gradient slices as PNG heat maps
		Plot bool `yaml:"plot"`

		// PlotDir is the directory heat maps are written to, relative to the output directory
		PlotDir string `yaml:"plotDir"`

		// Verbose enables debug logging
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.Workers = 3
	cfg.Processing.ValueBits = 32

	cfg.Output.Files.X = "dfx_out.txt"
	cfg.Output.Files.Y = "dfy_out.txt"
	cfg.Output.Files.Z = "dfz_out.txt"
	cfg.Output.Plot = false
	cfg.Output.PlotDir = "plots"
	cfg.Output.Verbose = false

	return cfg
}

// Validate checks the values that the pipeline depends on
func (c *Config) Validate() error {
	if c.Processing.ValueBits != 32 && c.Processing.ValueBits != 64 {
		return fmt.Errorf("processing.valueBits must be 32 or 64, got %d", c.Processing.ValueBits)
	}
	if c.Output.Files.X == "" || c.Output.Files.Y == "" || c.Output.Files.Z == "" {
		return fmt.Errorf("output.files must name a file for every axis")
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
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
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
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
