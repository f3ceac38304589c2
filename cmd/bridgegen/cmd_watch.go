// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fsbondtec/bridgegen/services/bridgegen"
	"github.com/fsbondtec/bridgegen/services/bridgegen/telemetry"
)

func runWatch(cmd *cobra.Command, args []string) {
	if cppOut == "" && tsOut == "" {
		fmt.Fprintln(os.Stderr, "Error: at least one of --cpp-out or --ts-out is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := serviceFromConfig(cppOut, tsOut)

	// Full pass up front so artifacts exist before the first change.
	regenerateAll(ctx, svc, args)

	opts := bridgegen.DefaultFileWatcherOptions()
	if len(config.IgnorePatterns) > 0 {
		opts.IgnorePatterns = config.IgnorePatterns
	}

	handler := func(changes []bridgegen.FileChange) {
		for _, change := range changes {
			if change.Op == bridgegen.FileOpRemove || change.Op == bridgegen.FileOpRename {
				continue
			}
			regenerateHeader(ctx, svc, change.Path)
		}
	}

	var watchers []*bridgegen.FileWatcher
	defer func() {
		for _, watcher := range watchers {
			watcher.Stop()
		}
	}()

	for _, root := range args {
		watcher, err := bridgegen.NewFileWatcher(root, handler, &opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		watchers = append(watchers, watcher)
		if err := watcher.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: watching %s: %v\n", root, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Watching %d root(s) for header changes. Press Ctrl+C to stop.\n", len(args))
	<-ctx.Done()
	fmt.Println("Shutting down.")
}

// regenerateAll discovers every bridge class under the roots and
// generates its artifacts once.
func regenerateAll(ctx context.Context, svc *bridgegen.Service, roots []string) {
	matches, err := svc.Discover(ctx, roots)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, match := range matches {
		if className != "" && match.Class != className {
			continue
		}
		generateOne(ctx, svc, match.Path, match.Class)
	}
}

// regenerateHeader rescans a single changed header and regenerates the
// artifacts of every bridge class it declares. Failures are logged and
// the watch loop continues.
func regenerateHeader(ctx context.Context, svc *bridgegen.Service, headerPath string) {
	matches, err := svc.Discover(ctx, []string{headerPath})
	if err != nil {
		slog.Warn("Rescan failed", "header", headerPath, "error", err)
		return
	}
	for _, match := range matches {
		if className != "" && match.Class != className {
			continue
		}
		generateOne(ctx, svc, match.Path, match.Class)
	}
}

func generateOne(ctx context.Context, svc *bridgegen.Service, headerPath, class string) {
	result, err := svc.Generate(ctx, headerPath, class, cppOut != "", tsOut != "")
	if err != nil {
		slog.Error("Regeneration failed", "header", headerPath, "class", class, "error", err)
		return
	}

	logger := telemetry.LoggerWithHeader(ctx, slog.Default(), headerPath)
	logger.Info("Regenerated bindings",
		"class", class,
		"members", result.Members,
		"duration_ms", result.DurationMs)

	if result.RegistrationPath != "" {
		fmt.Printf("  [OK] generated: %s\n", result.RegistrationPath)
	}
	if result.TypeScriptPath != "" {
		fmt.Printf("  [OK] generated: %s\n", result.TypeScriptPath)
	}
}
