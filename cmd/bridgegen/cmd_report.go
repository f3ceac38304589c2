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

func runReport(cmd *cobra.Command, args []string) {
	headerPath := args[0]
	svc := serviceFromConfig("", "")

	report, err := svc.Report(context.Background(), headerPath, className)
	if err != nil && !errors.Is(err, ast.ErrClassNotFound) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if reportOut != "" {
		if writeErr := os.WriteFile(reportOut, []byte(report), 0o644); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Error: writing %s: %v\n", reportOut, writeErr)
			os.Exit(1)
		}
	} else {
		fmt.Print(report)
	}

	// A report for a class that was not found is still printed, but the
	// exit code tells scripts the difference.
	if err != nil {
		os.Exit(1)
	}
}
