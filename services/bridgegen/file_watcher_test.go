// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bridgegen

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

// startTestWatcher creates and starts a watcher over root with a short
// debounce window, delivering batches to the returned channel.
func startTestWatcher(t *testing.T, root string) (*FileWatcher, chan []FileChange) {
	t.Helper()

	batches := make(chan []FileChange, 16)
	opts := DefaultFileWatcherOptions()
	opts.DebounceWindow = 100 * time.Millisecond

	watcher, err := NewFileWatcher(root, func(changes []FileChange) {
		batches <- changes
	}, &opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	t.Cleanup(watcher.Stop)

	require.NoError(t, watcher.Start(ctx))
	return watcher, batches
}

// waitForBatch blocks until a batch arrives or the timeout expires.
func waitForBatch(t *testing.T, batches chan []FileChange) []FileChange {
	t.Helper()

	select {
	case batch := <-batches:
		return batch
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change batch")
		return nil
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// =============================================================================
// FileOp Tests
// =============================================================================

func TestFileOp_String(t *testing.T) {
	assert.Equal(t, "create", FileOpCreate.String())
	assert.Equal(t, "write", FileOpWrite.String())
	assert.Equal(t, "remove", FileOpRemove.String())
	assert.Equal(t, "rename", FileOpRename.String())
	assert.Equal(t, "unknown", FileOp(99).String())
}

// =============================================================================
// Options Tests
// =============================================================================

func TestDefaultFileWatcherOptions(t *testing.T) {
	opts := DefaultFileWatcherOptions()

	assert.Equal(t, 300*time.Millisecond, opts.DebounceWindow)
	assert.Equal(t, []string{".h", ".hpp", ".hh", ".hxx"}, opts.Extensions)
	assert.Contains(t, opts.IgnorePatterns, "build")
	assert.Contains(t, opts.IgnorePatterns, ".git")
	assert.Contains(t, opts.IgnorePatterns, "third_party")
	assert.Equal(t, 256, opts.BufferSize)
}

func TestNewFileWatcher_NilOptionsUseDefaults(t *testing.T) {
	watcher, err := NewFileWatcher(t.TempDir(), nil, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.Equal(t, 300*time.Millisecond, watcher.debounce)
	assert.Equal(t, []string{".h", ".hpp", ".hh", ".hxx"}, watcher.extensions)
	assert.False(t, watcher.IsWatching())
}

func TestNewFileWatcher_PartialOptionsFilled(t *testing.T) {
	opts := FileWatcherOptions{DebounceWindow: 50 * time.Millisecond}
	watcher, err := NewFileWatcher(t.TempDir(), nil, &opts)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.Equal(t, 50*time.Millisecond, watcher.debounce)
	assert.NotEmpty(t, watcher.extensions)
	assert.NotEmpty(t, watcher.ignore)
}

// =============================================================================
// Path Filtering Tests
// =============================================================================

func TestFileWatcher_IsWatchedFile(t *testing.T) {
	watcher, err := NewFileWatcher(t.TempDir(), nil, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	tests := []struct {
		path string
		want bool
	}{
		{"src/MediaPlayer.h", true},
		{"src/MediaPlayer.hpp", true},
		{"src/MediaPlayer.HH", true},
		{"src/MediaPlayer.hxx", true},
		{"src/MediaPlayer.cpp", false},
		{"notes.txt", false},
		{"Makefile", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, watcher.isWatchedFile(tt.path), tt.path)
	}
}

func TestFileWatcher_ShouldIgnorePath(t *testing.T) {
	watcher, err := NewFileWatcher(t.TempDir(), nil, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	tests := []struct {
		path string
		want bool
	}{
		{"proj/build/gen.h", true},
		{"proj/.git/config", true},
		{"proj/third_party/lib.hpp", true},
		{"proj/src/editor.swp", true},
		{"proj/src/MediaPlayer.h", false},
		{"proj/builder/MediaPlayer.h", false},
		{"proj/src/build-notes.h", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, watcher.shouldIgnorePath(tt.path), tt.path)
	}
}

func TestFileWatcher_AddIgnorePattern(t *testing.T) {
	watcher, err := NewFileWatcher(t.TempDir(), nil, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.False(t, watcher.matchesIgnore("generated"))
	watcher.AddIgnorePattern("generated")
	assert.True(t, watcher.matchesIgnore("generated"))
}

// =============================================================================
// Deduplication Tests
// =============================================================================

func TestDeduplicateChanges_KeepsNewestPerPath(t *testing.T) {
	base := time.Now()
	changes := []FileChange{
		{Path: "a.h", Op: FileOpCreate, Time: base},
		{Path: "b.h", Op: FileOpWrite, Time: base.Add(time.Millisecond)},
		{Path: "a.h", Op: FileOpWrite, Time: base.Add(2 * time.Millisecond)},
	}

	deduped := deduplicateChanges(changes)

	require.Len(t, deduped, 2)
	assert.Equal(t, "a.h", deduped[0].Path)
	assert.Equal(t, FileOpWrite, deduped[0].Op)
	assert.Equal(t, "b.h", deduped[1].Path)
}

func TestDeduplicateChanges_Empty(t *testing.T) {
	assert.Empty(t, deduplicateChanges(nil))
}

// =============================================================================
// Watch Integration Tests
// =============================================================================

func TestFileWatcher_DetectsHeaderWrite(t *testing.T) {
	root := t.TempDir()
	_, batches := startTestWatcher(t, root)

	writeFile(t, filepath.Join(root, "MediaPlayer.h"), "class MediaPlayer {};\n")

	batch := waitForBatch(t, batches)
	require.NotEmpty(t, batch)
	assert.Equal(t, filepath.Join(root, "MediaPlayer.h"), batch[0].Path)
}

func TestFileWatcher_FiltersNonHeaderFiles(t *testing.T) {
	root := t.TempDir()
	_, batches := startTestWatcher(t, root)

	writeFile(t, filepath.Join(root, "notes.txt"), "not a header\n")
	writeFile(t, filepath.Join(root, "Widget.h"), "class Widget {};\n")

	batch := waitForBatch(t, batches)
	for _, change := range batch {
		assert.Equal(t, ".h", filepath.Ext(change.Path))
	}
}

func TestFileWatcher_IgnoresBuildDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "build"), 0o755))

	_, batches := startTestWatcher(t, root)

	writeFile(t, filepath.Join(root, "build", "generated.h"), "// generated\n")
	writeFile(t, filepath.Join(root, "Keep.h"), "class Keep {};\n")

	batch := waitForBatch(t, batches)
	for _, change := range batch {
		assert.Equal(t, filepath.Join(root, "Keep.h"), change.Path)
	}
}

func TestFileWatcher_WatchesNewSubdirectories(t *testing.T) {
	root := t.TempDir()
	_, batches := startTestWatcher(t, root)

	subdir := filepath.Join(root, "widgets")
	require.NoError(t, os.MkdirAll(subdir, 0o755))

	// Give the watcher time to pick up the new directory before writing
	// into it.
	time.Sleep(500 * time.Millisecond)

	writeFile(t, filepath.Join(subdir, "Button.h"), "class Button {};\n")

	batch := waitForBatch(t, batches)
	require.NotEmpty(t, batch)
	assert.Equal(t, filepath.Join(subdir, "Button.h"), batch[0].Path)
}

func TestFileWatcher_DeduplicatesRapidWrites(t *testing.T) {
	root := t.TempDir()
	_, batches := startTestWatcher(t, root)

	path := filepath.Join(root, "Volatile.h")
	for i := 0; i < 3; i++ {
		writeFile(t, path, "class Volatile {};\n")
	}

	batch := waitForBatch(t, batches)
	count := 0
	for _, change := range batch {
		if change.Path == path {
			count++
		}
	}
	assert.Equal(t, 1, count, "rapid writes should collapse to one change")
}

func TestFileWatcher_SetHandler(t *testing.T) {
	root := t.TempDir()

	opts := DefaultFileWatcherOptions()
	opts.DebounceWindow = 100 * time.Millisecond
	watcher, err := NewFileWatcher(root, nil, &opts)
	require.NoError(t, err)
	defer watcher.Stop()

	batches := make(chan []FileChange, 16)
	watcher.SetHandler(func(changes []FileChange) {
		batches <- changes
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	writeFile(t, filepath.Join(root, "Late.h"), "class Late {};\n")

	batch := waitForBatch(t, batches)
	require.NotEmpty(t, batch)
}

// =============================================================================
// Lifecycle Tests
// =============================================================================

func TestFileWatcher_StartStop(t *testing.T) {
	watcher, err := NewFileWatcher(t.TempDir(), nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, watcher.Start(ctx))
	assert.True(t, watcher.IsWatching())

	// Start is idempotent while running.
	require.NoError(t, watcher.Start(ctx))

	watcher.Stop()
	assert.False(t, watcher.IsWatching())

	// Stop is idempotent.
	watcher.Stop()
}

func TestFileWatcher_StartFailsOnMissingRoot(t *testing.T) {
	watcher, err := NewFileWatcher(filepath.Join(t.TempDir(), "does-not-exist"), nil, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	err = watcher.Start(context.Background())
	require.Error(t, err)
	assert.False(t, watcher.IsWatching())
}
