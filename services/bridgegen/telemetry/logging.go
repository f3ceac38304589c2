// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package telemetry

import (
	"context"
	"log/slog"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// LoggerWithTrace returns a logger annotated with the trace and span IDs
// from the context, enabling log/trace correlation in aggregators.
//
// Description:
//
//	Extracts the active span context and attaches trace_id and span_id
//	attributes to the logger. If the context carries no valid span, the
//	logger is returned unchanged.
//
// Inputs:
//
//	ctx - Context that may carry an active span. May be nil.
//	logger - Base logger. If nil, slog.Default() is used.
//
// Outputs:
//
//	*slog.Logger - Logger with trace correlation attributes when available.
//
// Thread Safety: Safe for concurrent use.
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if ctx == nil {
		return logger
	}

	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return logger
	}

	return logger.With(
		"trace_id", spanCtx.TraceID().String(),
		"span_id", spanCtx.SpanID().String(),
	)
}

// LoggerWithClass returns a trace-correlated logger annotated with the
// bridge class currently being processed.
func LoggerWithClass(ctx context.Context, logger *slog.Logger, className string) *slog.Logger {
	return LoggerWithTrace(ctx, logger).With("class", className)
}

// LoggerWithHeader returns a trace-correlated logger annotated with the
// header file currently being processed.
func LoggerWithHeader(ctx context.Context, logger *slog.Logger, headerPath string) *slog.Logger {
	return LoggerWithTrace(ctx, logger).With("header", headerPath)
}
