// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bridgegen

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fsbondtec/bridgegen/services/bridgegen/ast"
)

// ServiceVersion is the bridgegen service version.
const ServiceVersion = "0.1.0"

// Handlers contains the HTTP handlers for bridgegen.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleExtract handles POST /api/v1/extract.
//
// Description:
//
//	Extracts the public surface of a bridge class from a C++ header
//	and returns it as JSON.
//
// Request Body:
//
//	ExtractRequest
//
// Response:
//
//	200 OK: ast.ClassInfo
//	400 Bad Request: Invalid body or class name
//	404 Not Found: Header file or class not found
//	409 Conflict: Extraction already in progress
//	413 Request Entity Too Large: Header exceeds the size limit
//	422 Unprocessable Entity: Header could not be parsed
//	500 Internal Server Error: Processing error
func (h *Handlers) HandleExtract(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleExtract")

	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body: file_path and class_name are required",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	logger.Info("Extracting class", "file_path", req.FilePath, "class_name", req.ClassName)

	cls, err := h.svc.ExtractFromFile(c.Request.Context(), req.FilePath, req.ClassName)
	if err != nil {
		statusCode, errCode := statusForError(err)
		logger.Error("Extraction failed", "error", err)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Class extracted",
		"qualified_name", cls.QualifiedName(),
		"members", cls.MemberCount())

	c.JSON(http.StatusOK, cls)
}

// HandleGenerate handles POST /api/v1/generate.
//
// Description:
//
//	Extracts a bridge class and writes the requested artifacts into the
//	configured output directories.
//
// Request Body:
//
//	GenerateRequest
//
// Response:
//
//	200 OK: GenerateResult
//	400 Bad Request: Invalid body or no outputs requested
//	404 Not Found: Header file or class not found
//	409 Conflict: Extraction already in progress
//	413 Request Entity Too Large: Header exceeds the size limit
//	422 Unprocessable Entity: Header could not be parsed
//	500 Internal Server Error: Processing or write error
func (h *Handlers) HandleGenerate(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleGenerate")

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body: file_path and class_name are required",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	logger.Info("Generating artifacts",
		"file_path", req.FilePath,
		"class_name", req.ClassName,
		"cpp_out", req.CppOut,
		"ts_out", req.TSOut)

	result, err := h.svc.Generate(c.Request.Context(), req.FilePath, req.ClassName, req.CppOut, req.TSOut)
	if err != nil {
		statusCode, errCode := statusForError(err)
		logger.Error("Generation failed", "error", err)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Artifacts generated",
		"registration_path", result.RegistrationPath,
		"typescript_path", result.TypeScriptPath,
		"duration_ms", result.DurationMs)

	c.JSON(http.StatusOK, result)
}

// HandleDiscover handles POST /api/v1/discover.
//
// Description:
//
//	Walks the requested source tree roots and returns every class that
//	derives from webbridge::Object.
//
// Request Body:
//
//	DiscoverRequest
//
// Response:
//
//	200 OK: DiscoverResponse (matches may be empty)
//	400 Bad Request: Invalid body
//	404 Not Found: A root does not exist
//	500 Internal Server Error: Walk error
func (h *Handlers) HandleDiscover(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDiscover")

	var req DiscoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body: roots is required",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	logger.Info("Discovering bridge classes", "roots", req.Roots)

	matches, err := h.svc.Discover(c.Request.Context(), req.Roots)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "DISCOVER_FAILED"
		if errors.Is(err, fs.ErrNotExist) {
			statusCode = http.StatusNotFound
			errCode = "ROOT_NOT_FOUND"
		}

		logger.Error("Discovery failed", "error", err)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Discovery complete", "count", len(matches))

	c.JSON(http.StatusOK, DiscoverResponse{
		Matches: matches,
		Count:   len(matches),
	})
}

// HandleReport handles GET /api/v1/report.
//
// Description:
//
//	Renders the detailed textual report for a class. The report is
//	returned even when the class is not found in the header, in which
//	case it describes the probable causes.
//
// Query Parameters:
//
//	file: Path to the C++ header (required)
//	class: Unqualified class name (required)
//
// Response:
//
//	200 OK: text/plain report
//	400 Bad Request: Missing parameters
//	404 Not Found: Header file not found
//	500 Internal Server Error: Processing error
func (h *Handlers) HandleReport(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleReport")

	headerPath := c.Query("file")
	className := c.Query("class")
	if headerPath == "" || className == "" {
		logger.Warn("Missing query parameters")
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "file and class query parameters are required",
			Code:  "MISSING_PARAMETER",
		})
		return
	}

	report, err := h.svc.Report(c.Request.Context(), headerPath, className)
	if err != nil && !errors.Is(err, ast.ErrClassNotFound) {
		statusCode, errCode := statusForError(err)
		logger.Error("Report failed", "error", err)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	logger.Info("Report rendered", "file", headerPath, "class", className, "found", err == nil)

	c.String(http.StatusOK, report)
}

// HandleHealth handles GET /health.
//
// Description:
//
//	Returns the health status of the service. Always returns 200 if running.
//
// Response:
//
//	200 OK: HealthResponse
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: "bridgegen",
		Version: ServiceVersion,
	})
}

// statusForError maps service errors to an HTTP status and error code.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, ast.ErrClassNotFound):
		return http.StatusNotFound, "CLASS_NOT_FOUND"
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound, "HEADER_NOT_FOUND"
	case errors.Is(err, ast.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"
	case errors.Is(err, ast.ErrInvalidClassName):
		return http.StatusBadRequest, "INVALID_CLASS_NAME"
	case errors.Is(err, ErrNoOutputs):
		return http.StatusBadRequest, "NO_OUTPUTS"
	case errors.Is(err, ast.ErrParseFailed):
		return http.StatusUnprocessableEntity, "PARSE_FAILED"
	case errors.Is(err, ast.ErrInvalidContent):
		return http.StatusUnprocessableEntity, "INVALID_CONTENT"
	case errors.Is(err, ast.ErrUnsupportedLanguage):
		return http.StatusUnprocessableEntity, "UNSUPPORTED_LANGUAGE"
	case errors.Is(err, ErrExtractionInProgress):
		return http.StatusConflict, "EXTRACTION_IN_PROGRESS"
	case errors.Is(err, ast.ErrContextCanceled):
		return http.StatusGatewayTimeout, "EXTRACTION_CANCELED"
	default:
		return http.StatusInternalServerError, "EXTRACT_FAILED"
	}
}

// getOrCreateRequestID gets or creates a request ID.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
