// Copyright (C) 2026 Ashlen
//
// This file is part of relaypick – https://github.com/anthesis/relaypick
//
// SPDX-License-Identifier: ISC

// Package config provides configuration loading and validation for relaypick.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	// Pick defaults
	DefaultSampleCount = 5

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	// Serve defaults
	DefaultServeAddress = "127.0.0.1:8080"
)

// Config is the root configuration structure for relaypick. All of it is
// optional; CLI flags override anything set here.
type Config struct {
	Pick    PickConfig    `yaml:"pick"`
	GeoIP   GeoIPConfig   `yaml:"geoip"`
	Serve   ServeConfig   `yaml:"serve"`
	Logging LoggingConfig `yaml:"logging"`
}

// PickConfig holds default selection criteria.
type PickConfig struct {
	// Count is the number of relays to sample.
	Count int `yaml:"count"`

	// ActiveOnly keeps only relays marked active.
	ActiveOnly bool `yaml:"active_only"`

	// OwnedOnly keeps only relays owned by the operator.
	OwnedOnly bool `yaml:"owned_only"`

	// Location is a prefix-anchored pattern against the relay location.
	Location string `yaml:"location"`

	// Provider is a prefix-anchored pattern against the relay provider.
	Provider string `yaml:"provider"`

	// CIDRs restricts relays to these IPv4 blocks.
	CIDRs []string `yaml:"cidrs"`

	// Country restricts relays to this ISO country code (requires a
	// GeoIP database).
	Country string `yaml:"country"`
}

// GeoIPConfig points at a local GeoIP2 country database.
type GeoIPConfig struct {
	Database string `yaml:"database"`
}

// ServeConfig defines the HTTP sample service settings.
type ServeConfig struct {
	Address string `yaml:"address"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// Load reads and parses a configuration file from the given path.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied, for runs
// without a config file.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// applyDefaults fills in unset fields.
func applyDefaults(cfg *Config) {
	if cfg.Pick.Count == 0 {
		cfg.Pick.Count = DefaultSampleCount
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Serve.Address == "" {
		cfg.Serve.Address = DefaultServeAddress
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Pick.Count < 0 {
		return &ValidationError{
			Field:   "pick.count",
			Value:   c.Pick.Count,
			Message: "must be a positive integer",
		}
	}
	if c.Pick.Country != "" && len(c.Pick.Country) != 2 {
		return &ValidationError{
			Field:   "pick.country",
			Value:   c.Pick.Country,
			Message: "must be a two-letter ISO country code",
		}
	}
	return nil
}
