// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package notebooks executes a directory of Jupyter notebooks end to end
// and reports which ones failed.
//
// A Runner discovers notebooks, hands each to an Executor (normally
// JupyterExecutor, which shells out to nbconvert) under a per-notebook
// timeout, and returns a *FailureSummary when any notebook raised:
//
//	runner := notebooks.NewRunner(notebooks.NewJupyterExecutor(), notebooks.Options{
//	    Dir: "./notebooks",
//	    Out: os.Stdout,
//	})
//	if _, err := runner.Run(ctx); err != nil {
//	    // errors.Is(err, notebooks.ErrNotebooksFailed)
//	}
//
// A Watcher re-runs notebooks as they are saved.
package notebooks
