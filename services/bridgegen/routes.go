// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bridgegen

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all bridgegen routes with the router.
//
// Description:
//
//	Registers the extraction, generation, discovery, and report
//	endpoints with the given Gin router group. The group should already
//	have any required middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /api/v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST /api/v1/extract - Extract a bridge class from a header
//	POST /api/v1/generate - Extract and write artifacts
//	POST /api/v1/discover - Find bridge classes in source trees
//	GET  /api/v1/report - Render the detailed class report
//	GET  /api/v1/health - Health check
//
// Example:
//
//	service, err := bridgegen.NewService(bridgegen.DefaultServiceConfig())
//	if err != nil {
//	    return err
//	}
//	handlers := bridgegen.NewHandlers(service)
//
//	v1 := router.Group("/api/v1")
//	bridgegen.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	// Extraction and generation
	rg.POST("/extract", handlers.HandleExtract)
	rg.POST("/generate", handlers.HandleGenerate)

	// Source tree discovery
	rg.POST("/discover", handlers.HandleDiscover)

	// Diagnostics
	rg.GET("/report", handlers.HandleReport)
	rg.GET("/health", handlers.HandleHealth)
}
