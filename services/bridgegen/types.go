// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bridgegen

import (
	"github.com/fsbondtec/bridgegen/services/bridgegen/ast"
	"github.com/fsbondtec/bridgegen/services/bridgegen/discover"
)

// ExtractRequest is the request body for POST /api/v1/extract.
type ExtractRequest struct {
	// FilePath is the path to the C++ header to parse.
	FilePath string `json:"file_path" binding:"required"`

	// ClassName is the unqualified name of the bridge class.
	ClassName string `json:"class_name" binding:"required"`
}

// GenerateRequest is the request body for POST /api/v1/generate.
//
// Output directories are server configuration; the flags only select
// which artifacts to write.
type GenerateRequest struct {
	// FilePath is the path to the C++ header to parse.
	FilePath string `json:"file_path" binding:"required"`

	// ClassName is the unqualified name of the bridge class.
	ClassName string `json:"class_name" binding:"required"`

	// CppOut requests the C++ registration header.
	CppOut bool `json:"cpp_out"`

	// TSOut requests the TypeScript declaration file.
	TSOut bool `json:"ts_out"`
}

// GenerateResult describes the artifacts written by a Generate call.
type GenerateResult struct {
	// Class is the extracted class the artifacts were generated from.
	Class *ast.ClassInfo `json:"class"`

	// Members is the total number of extracted members.
	Members int `json:"members"`

	// RegistrationPath is the written registration header, if requested.
	RegistrationPath string `json:"registration_path,omitempty"`

	// TypeScriptPath is the written declaration file, if requested.
	TypeScriptPath string `json:"typescript_path,omitempty"`

	// DurationMs is the total extraction and generation time.
	DurationMs int64 `json:"duration_ms"`
}

// DiscoverRequest is the request body for POST /api/v1/discover.
type DiscoverRequest struct {
	// Roots are the source tree roots to walk.
	Roots []string `json:"roots" binding:"required"`
}

// DiscoverResponse lists the bridge classes found under the requested roots.
type DiscoverResponse struct {
	// Matches are the discovered classes, sorted by path and line.
	Matches []discover.Match `json:"matches"`

	// Count is len(Matches), for quick inspection.
	Count int `json:"count"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`

	// Code is a machine-readable error code.
	Code string `json:"code"`
}
