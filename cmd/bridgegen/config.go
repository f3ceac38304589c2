// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fsbondtec/bridgegen/services/bridgegen"
	"github.com/fsbondtec/bridgegen/services/bridgegen/telemetry"
)

const (
	defaultConfigPath = "config.yaml"
	defaultServerAddr = ":8636"
)

// Config is the bridgegen configuration file schema.
type Config struct {
	// LogLevel sets the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// LogJSON switches stderr logging to JSON format.
	LogJSON bool `yaml:"log_json"`

	// LogDir enables file logging to the given directory.
	LogDir string `yaml:"log_dir"`

	// MaxFileSize is the largest header the parser will accept, in bytes.
	MaxFileSize int64 `yaml:"max_file_size"`

	// Workers bounds discovery parallelism.
	Workers int `yaml:"workers"`

	// IgnorePatterns lists directory names and globs skipped during
	// discovery and watching.
	IgnorePatterns []string `yaml:"ignore_patterns"`

	// Telemetry configures tracing and metrics export.
	Telemetry telemetry.Config `yaml:"telemetry"`

	// Server configures the HTTP service.
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8636".
	Addr string `yaml:"addr"`
}

// defaultCLIConfig returns the configuration used when no file exists.
func defaultCLIConfig() Config {
	return Config{
		LogLevel:  "info",
		Telemetry: telemetry.DefaultConfig(),
		Server:    ServerConfig{Addr: defaultServerAddr},
	}
}

// loadConfig reads a YAML config file over the defaults. On a read
// error the defaults are returned together with the error so the
// caller can decide whether a missing file matters.
func loadConfig(path string) (Config, error) {
	cfg := defaultCLIConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// serviceFromConfig builds the extraction service from the loaded
// configuration, with the output directories supplied per command.
func serviceFromConfig(cppDir, tsDir string) *bridgegen.Service {
	svc, err := bridgegen.NewService(bridgegen.ServiceConfig{
		MaxFileSize:    config.MaxFileSize,
		OutputDirCpp:   cppDir,
		OutputDirTS:    tsDir,
		Workers:        config.Workers,
		IgnorePatterns: config.IgnorePatterns,
	})
	if err != nil {
		log.Fatalf("Failed to initialize the extraction service: %v", err)
	}
	return svc
}
