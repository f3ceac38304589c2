// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bridgegen

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileChange represents a header file change event.
type FileChange struct {
	// Path is the path to the changed header.
	Path string

	// Op is the type of change.
	Op FileOp

	// Time is when the change was detected.
	Time time.Time
}

// FileOp represents the type of file operation.
type FileOp int

const (
	// FileOpCreate indicates a file was created.
	FileOpCreate FileOp = iota

	// FileOpWrite indicates a file was modified.
	FileOpWrite

	// FileOpRemove indicates a file was deleted.
	FileOpRemove

	// FileOpRename indicates a file was renamed.
	FileOpRename
)

// String returns the string representation of the operation.
func (op FileOp) String() string {
	switch op {
	case FileOpCreate:
		return "create"
	case FileOpWrite:
		return "write"
	case FileOpRemove:
		return "remove"
	case FileOpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// FileChangeHandler is called when debounced changes are ready.
type FileChangeHandler func(changes []FileChange)

// FileWatcher watches a source tree for header changes with debouncing.
//
// # Description
//
// Watches a directory tree and batches header changes using a debounce
// window, so a save storm from an editor or a build step triggers one
// regeneration pass instead of one per write.
//
// # Debouncing
//
// Changes are collected into a buffer. When the debounce period expires
// without new changes, the batch is deduplicated (newest change per
// path wins) and delivered to the handler.
//
// # Thread Safety
//
// Safe for concurrent use. The handler is called from a single goroutine.
type FileWatcher struct {
	root       string
	watcher    *fsnotify.Watcher
	handler    FileChangeHandler
	debounce   time.Duration
	extensions []string
	ignore     []string

	changes  chan FileChange
	done     chan struct{}
	stopOnce sync.Once

	mu       sync.RWMutex
	watching bool
}

// FileWatcherOptions configures the FileWatcher.
type FileWatcherOptions struct {
	// DebounceWindow is how long to wait for more changes before triggering.
	// Default: 300ms
	DebounceWindow time.Duration

	// Extensions are the file extensions forwarded to the handler.
	// Default: [".h", ".hpp", ".hh", ".hxx"]
	Extensions []string

	// IgnorePatterns are basename patterns for directories and files to
	// skip. Directory patterns match path segments, so "build" skips
	// build/ trees without skipping "build-notes.h".
	// Default: ["build", ".git", "node_modules", "third_party", "*.swp", "*.tmp"]
	IgnorePatterns []string

	// BufferSize is the size of the change buffer channel.
	// Default: 256
	BufferSize int
}

// DefaultFileWatcherOptions returns sensible defaults.
func DefaultFileWatcherOptions() FileWatcherOptions {
	return FileWatcherOptions{
		DebounceWindow: 300 * time.Millisecond,
		Extensions:     []string{".h", ".hpp", ".hh", ".hxx"},
		IgnorePatterns: []string{"build", ".git", "node_modules", "third_party", "*.swp", "*.tmp"},
		BufferSize:     256,
	}
}

// NewFileWatcher creates a watcher for the given source tree root.
//
// # Inputs
//
//   - root: Path to the directory tree to watch.
//   - handler: Function called with batched header changes after debounce.
//   - opts: Optional configuration. Nil or zero-value fields use defaults.
//
// # Outputs
//
//   - *FileWatcher: Ready-to-use watcher (call Start to begin watching).
//   - error: Non-nil if the underlying watcher could not be created.
//
// # Example
//
//	watcher, err := bridgegen.NewFileWatcher(srcRoot, func(changes []bridgegen.FileChange) {
//	    for _, change := range changes {
//	        regenerate(change.Path)
//	    }
//	}, nil)
//	if err != nil {
//	    return err
//	}
//	defer watcher.Stop()
//	if err := watcher.Start(ctx); err != nil {
//	    return err
//	}
func NewFileWatcher(root string, handler FileChangeHandler, opts *FileWatcherOptions) (*FileWatcher, error) {
	defaults := DefaultFileWatcherOptions()
	if opts == nil {
		opts = &defaults
	}
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = defaults.DebounceWindow
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = defaults.Extensions
	}
	if len(opts.IgnorePatterns) == 0 {
		opts.IgnorePatterns = defaults.IgnorePatterns
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = defaults.BufferSize
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		root:       root,
		watcher:    watcher,
		handler:    handler,
		debounce:   opts.DebounceWindow,
		extensions: opts.Extensions,
		ignore:     opts.IgnorePatterns,
		changes:    make(chan FileChange, opts.BufferSize),
		done:       make(chan struct{}),
	}, nil
}

// Start begins watching for header changes.
//
// # Description
//
// Recursively watches the root directory and all subdirectories not
// matched by the ignore patterns. Changes are debounced and sent to
// the handler in batches.
//
// # Inputs
//
//   - ctx: Context for cancellation. When canceled, watching stops.
//
// # Outputs
//
//   - error: Non-nil if the watch list could not be built.
func (w *FileWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	if err := w.addRecursive(w.root); err != nil {
		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
		return err
	}

	go w.processEvents(ctx)
	go w.debounceLoop(ctx)

	return nil
}

// Stop stops the file watcher.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

// IsWatching returns true if the watcher is currently active.
func (w *FileWatcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.watching
}

// addRecursive adds a directory and all subdirectories to the watch
// list. An unreadable subdirectory is skipped; an unreadable root is
// an error.
func (w *FileWatcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.matchesIgnore(filepath.Base(path)) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// matchesIgnore checks a single path segment against the ignore patterns.
func (w *FileWatcher) matchesIgnore(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, pattern := range w.ignore {
		if name == pattern {
			return true
		}
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// shouldIgnorePath checks every segment of a path against the ignore
// patterns, so events under an ignored directory never surface.
func (w *FileWatcher) shouldIgnorePath(path string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if segment == "" {
			continue
		}
		if w.matchesIgnore(segment) {
			return true
		}
	}
	return false
}

// isWatchedFile reports whether a path has a watched header extension.
func (w *FileWatcher) isWatchedFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range w.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// processEvents converts fsnotify events to FileChange and feeds the
// debouncer. New directories are added to the watch list as they appear.
func (w *FileWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if w.shouldIgnorePath(event.Name) {
				continue
			}

			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := w.addRecursive(event.Name); err != nil {
					slog.Warn("Failed to watch new directory", "path", event.Name, "error", err)
				}
				continue
			}

			if !w.isWatchedFile(event.Name) {
				continue
			}

			change := FileChange{
				Path: event.Name,
				Time: time.Now(),
				Op:   convertOp(event.Op),
			}

			select {
			case w.changes <- change:
			default:
				slog.Warn("Change buffer full, dropping event", "path", event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", "error", err)
		}
	}
}

// isDir returns true if path exists and is a directory.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// convertOp converts fsnotify.Op to FileOp.
func convertOp(op fsnotify.Op) FileOp {
	switch {
	case op.Has(fsnotify.Create):
		return FileOpCreate
	case op.Has(fsnotify.Write):
		return FileOpWrite
	case op.Has(fsnotify.Remove):
		return FileOpRemove
	case op.Has(fsnotify.Rename):
		return FileOpRename
	default:
		return FileOpWrite
	}
}

// debounceLoop batches changes and calls the handler after the debounce
// window expires.
func (w *FileWatcher) debounceLoop(ctx context.Context) {
	var batch []FileChange
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) > 0 {
			deduped := deduplicateChanges(batch)

			w.mu.RLock()
			handler := w.handler
			w.mu.RUnlock()

			if len(deduped) > 0 && handler != nil {
				handler(deduped)
			}
			batch = batch[:0]
		}
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-w.done:
			flush()
			return
		case change := <-w.changes:
			batch = append(batch, change)

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			flush()
		}
	}
}

// deduplicateChanges removes duplicate changes for the same path,
// keeping the most recent one.
func deduplicateChanges(changes []FileChange) []FileChange {
	seen := make(map[string]int)
	result := make([]FileChange, 0, len(changes))

	for _, change := range changes {
		if idx, exists := seen[change.Path]; exists {
			result[idx] = change
		} else {
			seen[change.Path] = len(result)
			result = append(result, change)
		}
	}

	return result
}

// AddIgnorePattern adds an ignore pattern at runtime.
func (w *FileWatcher) AddIgnorePattern(pattern string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ignore = append(w.ignore, pattern)
}

// SetHandler changes the change handler.
func (w *FileWatcher) SetHandler(handler FileChangeHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handler = handler
}
