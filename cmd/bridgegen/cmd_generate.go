// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fsbondtec/bridgegen/services/bridgegen/ast"
)

func runGenerate(cmd *cobra.Command, args []string) {
	headerPath := args[0]

	if cppOut == "" && tsOut == "" {
		fmt.Fprintln(os.Stderr, "Error: at least one of --cpp-out or --ts-out is required")
		os.Exit(1)
	}
	if _, err := os.Stat(headerPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: file not found: %s\n", headerPath)
		os.Exit(1)
	}

	svc := serviceFromConfig(cppOut, tsOut)

	fmt.Printf("Parsing: %s -> %s\n", headerPath, className)

	result, err := svc.Generate(context.Background(), headerPath, className, cppOut != "", tsOut != "")
	if err != nil {
		if errors.Is(err, ast.ErrClassNotFound) {
			fmt.Fprintf(os.Stderr, "Error: class %q not found\n", className)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	printClassSummary(result.Class)

	if result.RegistrationPath != "" {
		fmt.Printf("  [OK] generated: %s\n", result.RegistrationPath)
	}
	if result.TypeScriptPath != "" {
		fmt.Printf("  [OK] generated: %s\n", result.TypeScriptPath)
	}
}

func printClassSummary(cls *ast.ClassInfo) {
	fmt.Printf("[OK] class found: %s\n", cls.Name)
	fmt.Printf("  - Properties: %d %v\n", len(cls.Properties), propertyNames(cls.Properties))
	fmt.Printf("  - Events: %d %v\n", len(cls.Events), eventNames(cls.Events))
	fmt.Printf("  - Sync Methods: %d %v\n", len(cls.SyncMethods), methodNames(cls.SyncMethods))
	fmt.Printf("  - Async Methods: %d %v\n", len(cls.AsyncMethods), methodNames(cls.AsyncMethods))
}

func propertyNames(properties []ast.Property) []string {
	names := make([]string, 0, len(properties))
	for _, p := range properties {
		names = append(names, p.Name)
	}
	return names
}

func eventNames(events []ast.Event) []string {
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.Name)
	}
	return names
}

func methodNames(methods []ast.Method) []string {
	names := make([]string, 0, len(methods))
	for _, m := range methods {
		names = append(names, m.Name)
	}
	return names
}
