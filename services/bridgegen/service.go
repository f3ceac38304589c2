// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package bridgegen provides the bridgegen build-time reflection service.
//
// The service exposes operations for:
//   - Extracting the public surface of webbridge classes from C++ headers
//   - Generating registration headers and TypeScript declarations
//   - Discovering bridge classes in source trees
//   - Rendering detailed textual reports
package bridgegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fsbondtec/bridgegen/services/bridgegen/ast"
	"github.com/fsbondtec/bridgegen/services/bridgegen/discover"
	"github.com/fsbondtec/bridgegen/services/bridgegen/gen"
	"github.com/fsbondtec/bridgegen/services/bridgegen/telemetry"
)

var tracer = otel.Tracer("bridgegen.service")

// ServiceConfig configures the bridgegen service.
type ServiceConfig struct {
	// MaxFileSize is the maximum header size in bytes.
	// Default: 10MB
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// OutputDirCpp is the directory for generated registration headers.
	// Default: "generated"
	OutputDirCpp string `json:"output_dir_cpp" yaml:"output_dir_cpp"`

	// OutputDirTS is the directory for generated TypeScript declarations.
	// Default: "types"
	OutputDirTS string `json:"output_dir_ts" yaml:"output_dir_ts"`

	// Workers is the number of concurrent scanners used by Discover.
	// Default: 0 (one per CPU, capped)
	Workers int `json:"workers" yaml:"workers"`

	// IgnorePatterns are directory basenames skipped during discovery.
	// Default: build, .git, node_modules, third_party
	IgnorePatterns []string `json:"ignore_patterns" yaml:"ignore_patterns"`
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxFileSize:  ast.DefaultMaxFileSize,
		OutputDirCpp: "generated",
		OutputDirTS:  "types",
	}
}

// Service is the bridgegen service.
//
// Thread Safety:
//
//	Service is safe for concurrent use. Multiple goroutines can call
//	any combination of methods simultaneously; concurrent extraction
//	of the same header and class is rejected with
//	ErrExtractionInProgress.
type Service struct {
	config       ServiceConfig
	registry     *ast.ParserRegistry
	generator    *gen.Generator
	discoverer   *discover.Discoverer
	logger       *slog.Logger
	extractLocks sync.Map // headerPath|className -> *sync.Mutex
}

// NewService creates a new bridgegen service.
//
// Description:
//
//	Creates a service with the given configuration. Zero-value fields
//	fall back to the DefaultServiceConfig values. The parser registry
//	is seeded with a C++ parser bound to the configured size limit.
//
// Inputs:
//
//	config - Service configuration
//
// Outputs:
//
//	*Service - The configured service
//	error - Non-nil if the code generator cannot be constructed
func NewService(config ServiceConfig) (*Service, error) {
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = ast.DefaultMaxFileSize
	}
	if config.OutputDirCpp == "" {
		config.OutputDirCpp = "generated"
	}
	if config.OutputDirTS == "" {
		config.OutputDirTS = "types"
	}

	registry := ast.NewParserRegistry()
	registry.Register(ast.NewCppParser(ast.WithCppMaxFileSize(config.MaxFileSize)))

	generator, err := gen.NewGenerator()
	if err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}

	// Scan every extension a registered parser accepts, so discovery
	// and watch mode agree on what counts as a header.
	discoverer := discover.NewDiscoverer(
		discover.WithRegistry(registry),
		discover.WithExtensions(registry.Extensions()),
		discover.WithWorkers(config.Workers),
		discover.WithIgnorePatterns(config.IgnorePatterns),
	)

	return &Service{
		config:     config,
		registry:   registry,
		generator:  generator,
		discoverer: discoverer,
		logger:     slog.Default(),
	}, nil
}

// SetLogger replaces the service logger. Nil loggers are ignored.
func (s *Service) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// ExtractFromFile extracts the public surface of a bridge class from a
// C++ header on disk.
//
// Description:
//
//	Reads the header, selects a parser by file extension, and extracts
//	the named class. Concurrent extraction of the same header and class
//	is rejected so repeated build hooks cannot pile up on one file.
//
// Inputs:
//
//	ctx - Context for cancellation
//	headerPath - Path to the C++ header
//	className - Unqualified name of the class to extract
//
// Outputs:
//
//	*ast.ClassInfo - The extracted class surface
//	error - Non-nil if validation, I/O, or extraction fails
//
// Errors:
//
//	ast.ErrNilContext - ctx is nil
//	ast.ErrFileTooLarge - Header exceeds the configured size limit
//	ast.ErrUnsupportedLanguage - No parser registered for the extension
//	ast.ErrClassNotFound - Class missing from the header
//	ErrExtractionInProgress - Another extraction holds the same key
func (s *Service) ExtractFromFile(ctx context.Context, headerPath, className string) (*ast.ClassInfo, error) {
	if ctx == nil {
		return nil, ast.ErrNilContext
	}

	ctx, span := tracer.Start(ctx, "Service.ExtractFromFile")
	defer span.End()
	span.SetAttributes(
		attribute.String("extract.header", headerPath),
		attribute.String("extract.class", className),
	)

	info, err := os.Stat(headerPath)
	if err != nil {
		return nil, fmt.Errorf("header file %q: %w", headerPath, err)
	}
	if info.Size() > s.config.MaxFileSize {
		return nil, fmt.Errorf("header file %q is %d bytes: %w", headerPath, info.Size(), ast.ErrFileTooLarge)
	}

	parser, ok := s.registry.GetForFile(headerPath)
	if !ok {
		return nil, fmt.Errorf("%w: no parser registered for %q", ast.ErrUnsupportedLanguage, filepath.Ext(headerPath))
	}

	// Reject concurrent extraction of the same header and class
	lock := s.extractionLock(headerPath, className)
	if !lock.TryLock() {
		return nil, ErrExtractionInProgress
	}
	defer lock.Unlock()

	content, err := os.ReadFile(headerPath)
	if err != nil {
		return nil, fmt.Errorf("read header file %q: %w", headerPath, err)
	}

	logger := telemetry.LoggerWithClass(ctx, s.logger, className)

	cls, err := parser.ExtractClass(ctx, content, headerPath, className)
	if err != nil {
		logger.Warn("Extraction failed", "header", headerPath, "error", err)
		return nil, err
	}

	logger.Info("Class extracted",
		"header", headerPath,
		"qualified_name", cls.QualifiedName(),
		"members", cls.MemberCount())

	return cls, nil
}

// Generate extracts a class and writes the requested artifacts.
//
// Description:
//
//	Runs ExtractFromFile, then renders the registration header and the
//	TypeScript declaration file into the configured output directories.
//	At least one artifact must be requested.
//
// Inputs:
//
//	ctx - Context for cancellation
//	headerPath - Path to the C++ header
//	className - Unqualified name of the class to extract
//	wantCpp - Write the C++ registration header
//	wantTS - Write the TypeScript declaration file
//
// Outputs:
//
//	*GenerateResult - Written artifact paths and the class surface
//	error - ErrNoOutputs if neither artifact was requested, otherwise
//	        any extraction or write failure
func (s *Service) Generate(ctx context.Context, headerPath, className string, wantCpp, wantTS bool) (*GenerateResult, error) {
	if ctx == nil {
		return nil, ast.ErrNilContext
	}
	if !wantCpp && !wantTS {
		return nil, ErrNoOutputs
	}

	ctx, span := tracer.Start(ctx, "Service.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("generate.header", headerPath),
		attribute.String("generate.class", className),
		attribute.Bool("generate.cpp", wantCpp),
		attribute.Bool("generate.ts", wantTS),
	)

	start := time.Now()

	cls, err := s.ExtractFromFile(ctx, headerPath, className)
	if err != nil {
		return nil, err
	}

	logger := telemetry.LoggerWithClass(ctx, s.logger, className)
	result := &GenerateResult{
		Class:   cls,
		Members: cls.MemberCount(),
	}

	if wantCpp {
		path, err := s.generator.WriteRegistration(cls, headerPath, s.config.OutputDirCpp)
		if err != nil {
			return nil, fmt.Errorf("write registration header: %w", err)
		}
		result.RegistrationPath = path
		logger.Info("Registration header written", "path", path)
	}

	if wantTS {
		path, err := s.generator.WriteTypeScript(cls, headerPath, s.config.OutputDirTS)
		if err != nil {
			return nil, fmt.Errorf("write typescript declarations: %w", err)
		}
		result.TypeScriptPath = path
		logger.Info("TypeScript declarations written", "path", path)
	}

	result.DurationMs = time.Since(start).Milliseconds()
	return result, nil
}

// Discover walks the given roots and returns every bridge class found.
//
// Description:
//
//	Runs the discoverer over each root in turn. Results are merged,
//	deduplicated, and sorted by path and line.
//
// Inputs:
//
//	ctx - Context for cancellation
//	roots - Source tree roots to walk
//
// Outputs:
//
//	[]discover.Match - Discovered classes. Empty, never nil, when the
//	                   trees contain none.
//	error - Non-nil if no roots were given, a root is inaccessible, or
//	        ctx is canceled
func (s *Service) Discover(ctx context.Context, roots []string) ([]discover.Match, error) {
	if ctx == nil {
		return nil, ast.ErrNilContext
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("discover requires at least one root")
	}

	matches := make([]discover.Match, 0)
	seen := make(map[discover.Match]struct{})

	for _, root := range roots {
		found, err := s.discoverer.Discover(ctx, root)
		if err != nil {
			return nil, err
		}
		for _, m := range found {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			matches = append(matches, m)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Path != matches[j].Path {
			return matches[i].Path < matches[j].Path
		}
		return matches[i].Line < matches[j].Line
	})

	return matches, nil
}

// Report renders the detailed textual report for a class.
//
// Description:
//
//	Extracts the class and formats the member listing. When the class
//	is missing from the header the miss report is still returned,
//	together with ast.ErrClassNotFound, so callers can branch on
//	found-ness while keeping the diagnostic text.
//
// Inputs:
//
//	ctx - Context for cancellation
//	headerPath - Path to the C++ header
//	className - Unqualified name of the class to report on
//
// Outputs:
//
//	string - The formatted report. Non-empty whenever the header could
//	         be parsed, even if the class was not found.
//	error - ast.ErrClassNotFound when the class is missing, or any
//	        other extraction failure
func (s *Service) Report(ctx context.Context, headerPath, className string) (string, error) {
	cls, err := s.ExtractFromFile(ctx, headerPath, className)
	if err != nil {
		if errors.Is(err, ast.ErrClassNotFound) {
			return s.generator.Report(nil, headerPath), err
		}
		return "", err
	}

	return s.generator.Report(cls, headerPath), nil
}

// extractionLock returns the in-progress lock for a header and class.
func (s *Service) extractionLock(headerPath, className string) *sync.Mutex {
	key := headerPath + "|" + className
	lock, _ := s.extractLocks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
