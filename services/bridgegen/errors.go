// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bridgegen

import "errors"

// Sentinel errors for the bridgegen service.
var (
	// ErrExtractionInProgress is returned when an extraction for the same
	// header and class is already running.
	ErrExtractionInProgress = errors.New("extraction already in progress")

	// ErrNoOutputs is returned by Generate when neither the registration
	// header nor the TypeScript declaration output was requested.
	ErrNoOutputs = errors.New("no outputs requested")
)
