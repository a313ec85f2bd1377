// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package config handles testgen configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// Defaults applied to unset fields.
const (
	DefaultOutput  = "testdata/generated"
	DefaultEmitter = "json"
	DefaultRoot    = "Environment"
	DefaultWorkers = 1
)

// Config represents the testgen.yaml configuration file.
type Config struct {
	Version int `yaml:"version"`

	// Model is the path to a JSON or YAML meta-model. The built-in model is used when empty.
	Model string `yaml:"model,omitempty"`

	// Root is the root class of a custom model.
	Root string `yaml:"root,omitempty"`

	Output   string   `yaml:"output,omitempty"`
	Emitters []string `yaml:"emitters,omitempty"`

	// Classes are doublestar globs over class names. All classes are generated when empty.
	Classes []string `yaml:"classes,omitempty"`

	Workers int    `yaml:"workers,omitempty"`
	Metrics string `yaml:"metrics,omitempty"`
}

// Default returns the configuration used without a config file.
func Default() *Config {
	cfg := &Config{Version: CurrentConfigVersion}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads a Config from a file path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(c)
}

// ApplyDefaults fills the unset fields.
func (c *Config) ApplyDefaults() {
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if len(c.Emitters) == 0 {
		c.Emitters = []string{DefaultEmitter}
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	if c.Version != CurrentConfigVersion {
		return errors.New("unsupported config version")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	for i, name := range c.Emitters {
		if name == "" {
			return fmt.Errorf("emitters[%d] is empty", i)
		}
	}
	for _, pattern := range c.Classes {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid class pattern %q", pattern)
		}
	}
	return nil
}

// MatchClass reports whether the class is selected by the class patterns.
func (c *Config) MatchClass(name string) bool {
	if len(c.Classes) == 0 {
		return true
	}
	for _, pattern := range c.Classes {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
