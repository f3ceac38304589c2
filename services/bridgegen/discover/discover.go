// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package discover walks source trees for headers that declare bridge
// classes.
//
// A bridge class is any class deriving from webbridge::Object. The
// walk skips common build and VCS directories, reads candidate headers
// concurrently and tolerates unreadable or unparseable files: those
// are logged and skipped so a single broken header never aborts a
// whole tree scan.
package discover

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/fsbondtec/bridgegen/services/bridgegen/ast"
)

var tracer = otel.Tracer("bridgegen.discover")

// defaultMaxWorkers caps the scan parallelism on large machines.
// Header scanning is I/O bound; more workers than this just thrash.
const defaultMaxWorkers = 8

var (
	// defaultExtensions are the header extensions scanned when no
	// explicit set is configured.
	defaultExtensions = []string{".h", ".hpp"}

	// defaultIgnoreDirs are directory names skipped during the walk.
	defaultIgnoreDirs = []string{"build", ".git", "node_modules", "third_party"}
)

// Match is one bridge class found during discovery.
type Match struct {
	// Path is the header file the class was declared in.
	Path string `json:"path"`

	// Class is the declared class name.
	Class string `json:"class"`

	// Line is the 1-based line of the class declaration.
	Line int `json:"line"`
}

// String renders the match in the "path|class" form consumed by
// build scripts.
func (m Match) String() string {
	return m.Path + "|" + m.Class
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithWorkers sets the number of concurrent file scanners.
// Values below 1 keep the default.
func WithWorkers(n int) Option {
	return func(d *Discoverer) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithExtensions replaces the header extensions considered during the
// walk. Extensions are matched case-insensitively and may be given
// with or without the leading dot.
func WithExtensions(exts []string) Option {
	return func(d *Discoverer) {
		normalized := make([]string, 0, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			normalized = append(normalized, ext)
		}
		if len(normalized) > 0 {
			d.extensions = normalized
		}
	}
}

// WithIgnorePatterns replaces the directory names skipped during the
// walk. Patterns match directory basenames and may use glob syntax.
func WithIgnorePatterns(patterns []string) Option {
	return func(d *Discoverer) {
		if len(patterns) > 0 {
			d.ignore = patterns
		}
	}
}

// WithRegistry replaces the parser registry used to scan headers.
func WithRegistry(registry *ast.ParserRegistry) Option {
	return func(d *Discoverer) {
		if registry != nil {
			d.parsers = registry
		}
	}
}

// Discoverer finds bridge classes in a source tree.
//
// # Description
//
// The walk phase collects candidate header paths, honoring the ignore
// list. The scan phase parses candidates concurrently and keeps every
// class that derives from webbridge::Object.
//
// # Thread Safety
//
// Safe for concurrent use. All configuration is fixed at construction.
type Discoverer struct {
	parsers    *ast.ParserRegistry
	workers    int
	extensions []string
	ignore     []string
}

// NewDiscoverer creates a Discoverer with the given options.
func NewDiscoverer(opts ...Option) *Discoverer {
	d := &Discoverer{
		parsers:    ast.NewDefaultRegistry(),
		workers:    min(runtime.NumCPU(), defaultMaxWorkers),
		extensions: defaultExtensions,
		ignore:     defaultIgnoreDirs,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover walks root and returns every bridge class found, sorted by
// path and line.
//
// # Inputs
//
//   - ctx: Context for cancellation. Cancellation aborts the scan.
//   - root: Directory to walk.
//
// # Outputs
//
//   - []Match: All discovered bridge classes. Empty, never nil, when
//     the tree contains none.
//   - error: Non-nil if the root is inaccessible or ctx is canceled.
//     Unreadable or unparseable individual files are logged and
//     skipped, never returned as errors.
func (d *Discoverer) Discover(ctx context.Context, root string) ([]Match, error) {
	if ctx == nil {
		return nil, ast.ErrNilContext
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discovery canceled before start: %w", err)
	}

	ctx, span := tracer.Start(ctx, "Discoverer.Discover")
	defer span.End()
	span.SetAttributes(attribute.String("discover.root", root))

	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("discovery root %q: %w", root, err)
	}

	candidates, err := d.collectCandidates(root)
	if err != nil {
		return nil, fmt.Errorf("walking %q: %w", root, err)
	}
	span.SetAttributes(attribute.Int("discover.candidates", len(candidates)))

	var mu sync.Mutex
	matches := make([]Match, 0)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for _, path := range candidates {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			found := d.scanFile(gCtx, path)
			if len(found) == 0 {
				return nil
			}

			mu.Lock()
			matches = append(matches, found...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Path != matches[j].Path {
			return matches[i].Path < matches[j].Path
		}
		return matches[i].Line < matches[j].Line
	})

	span.SetAttributes(attribute.Int("discover.matches", len(matches)))
	return matches, nil
}

// collectCandidates walks root and returns the header files to scan.
func (d *Discoverer) collectCandidates(root string) ([]string, error) {
	var candidates []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			slog.Warn("skipping unreadable path", "path", path, "error", err)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if path != root && d.shouldIgnore(entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.hasScanExtension(path) {
			candidates = append(candidates, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return candidates, nil
}

// shouldIgnore reports whether a directory basename matches the
// ignore list.
func (d *Discoverer) shouldIgnore(name string) bool {
	for _, pattern := range d.ignore {
		if name == pattern {
			return true
		}
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// hasScanExtension reports whether the file extension is in scope.
func (d *Discoverer) hasScanExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range d.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// scanFile parses one header and returns its bridge classes. Errors
// are logged and swallowed so one bad file cannot fail the tree scan.
func (d *Discoverer) scanFile(ctx context.Context, path string) []Match {
	parser, ok := d.parsers.GetForFile(path)
	if !ok {
		slog.Debug("no parser registered for file", "path", path)
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("skipping unreadable file", "path", path, "error", err)
		return nil
	}

	classMatches, err := parser.ScanClasses(ctx, content, path)
	if err != nil {
		slog.Warn("skipping unscannable file", "path", path, "error", err)
		return nil
	}

	matches := make([]Match, 0, len(classMatches))
	for _, cm := range classMatches {
		matches = append(matches, Match{Path: path, Class: cm.Name, Line: cm.Line})
	}
	return matches
}
