// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package notebooks

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var batches [][]string
	w, err := NewWatcher(dir, "", 50*time.Millisecond, func(_ context.Context, paths []string) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, paths)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	writeFile(t, dir, "b.ipynb", cleanNotebook)
	writeFile(t, dir, "a.ipynb", cleanNotebook)
	writeFile(t, dir, "a.ipynb", cleanNotebook)
	writeFile(t, dir, "ignored.txt", "x")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) > 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{filepath.Join(dir, "a.ipynb"), filepath.Join(dir, "b.ipynb")}, batches[0])
}

func TestWatcher_MissingDir(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), "", 0, func(context.Context, []string) {})
	require.NoError(t, err)
	assert.Error(t, w.Run(context.Background()))
}

func TestNewWatcher_Validation(t *testing.T) {
	_, err := NewWatcher(t.TempDir(), "[", 0, func(context.Context, []string) {})
	assert.Error(t, err)

	_, err = NewWatcher(t.TempDir(), "", 0, nil)
	assert.Error(t, err)

	w, err := NewWatcher(t.TempDir(), "", 0, func(context.Context, []string) {})
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.Equal(t, DefaultPattern, w.pattern)
}
