// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath   string
	logLevelFlag string
	logJSONFlag  bool
	quiet        bool

	className string
	cppOut    string
	tsOut     string
	reportOut string
	serveAddr string

	rootCmd = &cobra.Command{
		Use:   "bridgegen",
		Short: "Build-time binding generator for webbridge components",
		Long: `bridgegen extracts the public surface of C++ classes deriving from
				webbridge::object and generates the registration headers and
				TypeScript type definitions the web layer consumes.`,
	}

	// --- Generation ---
	generateCmd = &cobra.Command{
		Use:   "generate [header]",
		Short: "Generate registration and TypeScript artifacts for a bridge class",
		Args:  cobra.ExactArgs(1),
		Run:   runGenerate, // Defined in cmd_generate.go
	}

	// --- Discovery ---
	discoverCmd = &cobra.Command{
		Use:   "discover [root...]",
		Short: "Scan source trees for classes deriving from webbridge::object",
		Long: `discover prints one "path|class" line per bridge class found, the
				format build integrations consume. The exit code is 1 when no
				class is found.`,
		Args: cobra.MinimumNArgs(1),
		Run:  runDiscover, // Defined in cmd_discover.go
	}

	// --- Reporting ---
	reportCmd = &cobra.Command{
		Use:   "report [header]",
		Short: "Print a structure report for a bridge class",
		Args:  cobra.ExactArgs(1),
		Run:   runReport, // Defined in cmd_report.go
	}

	// --- Watch Mode ---
	watchCmd = &cobra.Command{
		Use:   "watch [root...]",
		Short: "Watch source trees and regenerate artifacts on header changes",
		Args:  cobra.MinimumNArgs(1),
		Run:   runWatch, // Defined in cmd_watch.go
	}

	// --- HTTP Service ---
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the extraction HTTP service",
		Run:   runServe, // Defined in cmd_serve.go
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run:   runVersion, // Defined in main.go
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath,
		"Path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level override: debug, info, warn, or error")
	rootCmd.PersistentFlags().BoolVar(&logJSONFlag, "log-json", false,
		"Emit stderr logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false,
		"Suppress log output on stderr (command output is unaffected)")

	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&className, "class-name", "", "Name of the class to process")
	generateCmd.Flags().StringVar(&cppOut, "cpp-out", "", "Output directory for the C++ registration header")
	generateCmd.Flags().StringVar(&tsOut, "ts-out", "", "Output directory for TypeScript type definitions")
	generateCmd.MarkFlagRequired("class-name")

	rootCmd.AddCommand(discoverCmd)

	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&className, "class-name", "", "Name of the class to report on")
	reportCmd.Flags().StringVarP(&reportOut, "output", "o", "", "Write the report to a file instead of stdout")
	reportCmd.MarkFlagRequired("class-name")

	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&className, "class-name", "", "Only regenerate this class (default: all discovered)")
	watchCmd.Flags().StringVar(&cppOut, "cpp-out", "", "Output directory for C++ registration headers")
	watchCmd.Flags().StringVar(&tsOut, "ts-out", "", "Output directory for TypeScript type definitions")

	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, \":8636\")")

	rootCmd.AddCommand(versionCmd)
}
