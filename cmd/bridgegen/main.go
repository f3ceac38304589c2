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

	"github.com/spf13/cobra"

	"github.com/fsbondtec/bridgegen/pkg/logging"
)

// Populated at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var config Config

func main() {
	// Execute the root command. Cobra handles parsing the arguments.
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		initConfig()
		setupLogging()
	}
}

// initConfig loads the YAML configuration and applies flag overrides.
// A missing file at the default path is fine; an explicitly named file
// that cannot be read is fatal.
func initConfig() {
	loaded, err := loadConfig(configPath)
	if err != nil {
		if !os.IsNotExist(err) || configPath != defaultConfigPath {
			log.Fatalf("Error reading %s: %v", configPath, err)
		}
	}
	config = loaded

	flags := rootCmd.PersistentFlags()
	if flags.Changed("log-level") {
		config.LogLevel = logLevelFlag
	}
	if flags.Changed("log-json") {
		config.LogJSON = logJSONFlag
	}
}

// setupLogging installs the process-wide logger. Logs go to stderr so
// command output on stdout stays consumable by build systems.
func setupLogging() {
	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using info\n", err)
	}

	logger := logging.New(logging.Config{
		Level:   level,
		LogDir:  config.LogDir,
		Service: "bridgegen",
		JSON:    config.LogJSON,
		Quiet:   quiet,
	})
	logger.SetAsDefault()
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Printf("bridgegen %s\n", version)
	fmt.Printf("  commit: %s\n", commit)
	fmt.Printf("  built:  %s\n", date)
}
