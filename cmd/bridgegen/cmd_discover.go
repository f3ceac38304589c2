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
	"os"

	"github.com/spf13/cobra"
)

func runDiscover(cmd *cobra.Command, args []string) {
	svc := serviceFromConfig("", "")

	matches, err := svc.Discover(context.Background(), args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, match := range matches {
		fmt.Println(match.String())
	}

	// Build integrations treat an empty scan as failure.
	if len(matches) == 0 {
		os.Exit(1)
	}
}
