// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ast

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for header extraction.
var (
	tracer = otel.Tracer("bridgegen.ast")
	meter  = otel.Meter("bridgegen.ast")
)

// Metrics for extraction operations.
var (
	extractLatency   metric.Float64Histogram
	extractTotal     metric.Int64Counter
	membersExtracted metric.Int64Histogram
	extractErrors    metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		extractLatency, err = meter.Float64Histogram(
			"ast_extract_duration_seconds",
			metric.WithDescription("Duration of class extraction operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		extractTotal, err = meter.Int64Counter(
			"ast_extract_total",
			metric.WithDescription("Total number of class extraction operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		membersExtracted, err = meter.Int64Histogram(
			"ast_members_extracted",
			metric.WithDescription("Number of public members extracted per class"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		extractErrors, err = meter.Int64Counter(
			"ast_extract_errors_total",
			metric.WithDescription("Total number of failed extraction operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordExtractMetrics records metrics for an extraction operation.
//
// Parameters:
//   - ctx: Context for metric recording
//   - language: Language being parsed (e.g., "cpp")
//   - duration: How long the extraction took
//   - memberCount: Number of public members extracted
//   - success: Whether the extraction produced a class
func recordExtractMetrics(ctx context.Context, language string, duration time.Duration, memberCount int, success bool) {
	if err := initMetrics(); err != nil {
		return // Silently skip if metrics init failed
	}

	attrs := metric.WithAttributes(
		attribute.String("language", language),
		attribute.Bool("success", success),
	)

	extractLatency.Record(ctx, duration.Seconds(), attrs)
	extractTotal.Add(ctx, 1, attrs)

	if success {
		membersExtracted.Record(ctx, int64(memberCount),
			metric.WithAttributes(attribute.String("language", language)),
		)
	} else {
		extractErrors.Add(ctx, 1,
			metric.WithAttributes(attribute.String("language", language)),
		)
	}
}

// startExtractSpan creates a span for a class extraction operation.
//
// Parameters:
//   - ctx: Parent context
//   - language: Language being parsed
//   - filePath: Path to the file being parsed
//   - contentSize: Size of the content in bytes
//
// Returns:
//   - ctx: Context with span
//   - span: The created span (caller must call span.End())
func startExtractSpan(ctx context.Context, language, filePath string, contentSize int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Parser.ExtractClass",
		trace.WithAttributes(
			attribute.String("ast.language", language),
			attribute.String("ast.file", filePath),
			attribute.Int("ast.content_size", contentSize),
		),
	)
}

// setExtractSpanResult sets the result attributes on an extraction span.
func setExtractSpanResult(span trace.Span, qualifiedName string, memberCount int) {
	span.SetAttributes(
		attribute.String("ast.class", qualifiedName),
		attribute.Int("ast.member_count", memberCount),
	)
}

// startScanSpan creates a span for a bridge class scan operation.
func startScanSpan(ctx context.Context, language, filePath string, contentSize int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Parser.ScanClasses",
		trace.WithAttributes(
			attribute.String("ast.language", language),
			attribute.String("ast.file", filePath),
			attribute.Int("ast.content_size", contentSize),
		),
	)
}

// setScanSpanResult sets the result attributes on a scan span.
func setScanSpanResult(span trace.Span, matchCount int) {
	span.SetAttributes(
		attribute.Int("ast.match_count", matchCount),
	)
}
