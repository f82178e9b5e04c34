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
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/AleutianAI/synthlab/pkg/logging"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the Watcher waits after the last write before
// re-running notebooks. Editors often save in several steps.
const DefaultDebounce = 500 * time.Millisecond

// ChangeHandler receives the notebooks written during one debounce window,
// sorted by path.
type ChangeHandler func(ctx context.Context, paths []string)

// Watcher re-runs notebooks in a directory when they are saved.
//
// # Description
//
// The directory is watched non-recursively. Create, write, and rename-into
// events for files matching the pattern are batched; once no event has
// arrived for the debounce window, the handler is called with the distinct
// paths. The handler runs on the watch goroutine, so a save that lands
// while notebooks are executing is picked up by the next batch.
//
// # Example
//
//	runner := notebooks.NewRunner(exec, opts)
//	w, err := notebooks.NewWatcher(runner.Dir(), runner.Pattern(), 0,
//	    func(ctx context.Context, paths []string) { runner.RunPaths(ctx, paths) })
//	if err != nil {
//	    return err
//	}
//	return w.Run(ctx)
type Watcher struct {
	dir      string
	pattern  string
	debounce time.Duration
	handler  ChangeHandler
	logger   *logging.Logger
}

// NewWatcher creates a Watcher. An empty pattern means DefaultPattern; a
// non-positive debounce means DefaultDebounce.
func NewWatcher(dir, pattern string, debounce time.Duration, handler ChangeHandler) (*Watcher, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if handler == nil {
		return nil, fmt.Errorf("nil change handler")
	}
	return &Watcher{
		dir:      dir,
		pattern:  pattern,
		debounce: debounce,
		handler:  handler,
		logger:   logging.Discard(),
	}, nil
}

// SetLogger sets the logger used for watch errors and batches.
func (w *Watcher) SetLogger(l *logging.Logger) {
	if l != nil {
		w.logger = l
	}
}

// Run watches until ctx is cancelled. It returns nil on cancellation and an
// error if the directory cannot be watched.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching notebooks", "dir", w.dir, "pattern", w.pattern)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "dir", w.dir, "error", err)

		case <-timerC:
			timer, timerC = nil, nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			sort.Strings(paths)
			w.logger.Info("notebooks changed", "paths", paths)
			w.handler(ctx, paths)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	ok, _ := filepath.Match(w.pattern, filepath.Base(event.Name))
	return ok
}
