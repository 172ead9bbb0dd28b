// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config holds the run configuration for a batch invocation.
// The configuration is assembled once by the CLI layer and passed by value
// into every component; nothing in this package is mutable at run time.
package config

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

const (
	// DefaultOutputDir is the base directory for working copies and the summary file.
	DefaultOutputDir = "./results"
	// DefaultDockerImage is the published engine image.
	DefaultDockerImage = "kswami235/addbio"
	// DefaultEngineScript is the engine entry point, relative to the engine checkout.
	DefaultEngineScript = "engine/src/engine.py"
	// DefaultMaxJobs bounds the worker pool in parallel mode.
	DefaultMaxJobs = 4
)

var (
	// ErrReadConfigFile is returned when the configuration file cannot be read.
	ErrReadConfigFile = errors.New("failed to read config file")
	// ErrParseConfigFile is returned when the configuration file cannot be parsed.
	ErrParseConfigFile = errors.New("failed to parse config file")
	// ErrInvalidMaxJobs is returned when the concurrency bound is less than one.
	ErrInvalidMaxJobs = errors.New("max-jobs must be at least 1")
	// ErrEmptyOutputDir is returned when no output directory is configured.
	ErrEmptyOutputDir = errors.New("output directory must not be empty")
	// ErrEmptyEngineScript is returned when no engine script is configured.
	ErrEmptyEngineScript = errors.New("engine script must not be empty")
)

// Config is the immutable run configuration.
type Config struct {
	Parallel        bool
	Docker          bool
	DryRun          bool
	ContinueOnError bool
	OutputDir       string
	DockerImage     string
	EngineScript    string
	MaxJobs         int
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		OutputDir:    DefaultOutputDir,
		DockerImage:  DefaultDockerImage,
		EngineScript: DefaultEngineScript,
		MaxJobs:      DefaultMaxJobs,
	}
}

// fileConfig mirrors Config with pointer fields so that absent YAML keys
// can be distinguished from zero values.
type fileConfig struct {
	Parallel        *bool   `yaml:"parallel"`
	Docker          *bool   `yaml:"docker"`
	DryRun          *bool   `yaml:"dry_run"`
	ContinueOnError *bool   `yaml:"continue_on_error"`
	OutputDir       *string `yaml:"output_dir"`
	DockerImage     *string `yaml:"docker_image"`
	EngineScript    *string `yaml:"engine_script"`
	MaxJobs         *int    `yaml:"max_jobs"`
}

// ApplyFile overlays values from a YAML file onto c. Keys absent from the
// file leave the corresponding field untouched.
func ApplyFile(fsys afero.Fs, path string, c *Config) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrReadConfigFile, path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrParseConfigFile, path, err)
	}

	if fc.Parallel != nil {
		c.Parallel = *fc.Parallel
	}

	if fc.Docker != nil {
		c.Docker = *fc.Docker
	}

	if fc.DryRun != nil {
		c.DryRun = *fc.DryRun
	}

	if fc.ContinueOnError != nil {
		c.ContinueOnError = *fc.ContinueOnError
	}

	if fc.OutputDir != nil {
		c.OutputDir = *fc.OutputDir
	}

	if fc.DockerImage != nil {
		c.DockerImage = *fc.DockerImage
	}

	if fc.EngineScript != nil {
		c.EngineScript = *fc.EngineScript
	}

	if fc.MaxJobs != nil {
		c.MaxJobs = *fc.MaxJobs
	}

	return nil
}

// Validate checks the configuration for values no run can proceed with.
func (c Config) Validate() error {
	if c.MaxJobs < 1 {
		return ErrInvalidMaxJobs
	}

	if c.OutputDir == "" {
		return ErrEmptyOutputDir
	}

	if c.EngineScript == "" {
		return ErrEmptyEngineScript
	}

	return nil
}
