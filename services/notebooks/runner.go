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
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/AleutianAI/synthlab/pkg/logging"
	"github.com/AleutianAI/synthlab/services/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "synthlab/notebooks"

// Defaults for Options.
const (
	DefaultDir             = "./notebooks"
	DefaultNotebookTimeout = 30 * time.Minute
)

// Options configures a Runner.
type Options struct {
	// Dir is searched for notebooks. Default "./notebooks".
	Dir string

	// Pattern selects notebooks within Dir. Default "*.ipynb".
	Pattern string

	// NotebookTimeout bounds a whole notebook. Zero uses the default;
	// negative disables the bound.
	NotebookTimeout time.Duration

	// Parallel is the number of notebooks executed at once. Values below 1
	// mean 1.
	Parallel int

	// Out receives the human-readable progress and failure report. Nil
	// discards it.
	Out io.Writer

	// Logger receives structured events. Nil discards them.
	Logger *logging.Logger

	// Metrics, if set, records one observation per notebook.
	Metrics *telemetry.Metrics
}

// Result is the outcome of one notebook.
type Result struct {
	Path     string        `json:"path"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// OK reports whether the notebook ran cleanly.
func (r Result) OK() bool { return r.Err == nil }

// Report is the outcome of a run, in discovery order.
type Report struct {
	RunID    string        `json:"run_id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Results  []Result      `json:"results"`
}

// Failed returns the results with errors.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Runner executes every notebook in a directory and reports failures.
//
// # Description
//
// Run discovers notebooks, executes each through the Executor, and collects
// every failure keyed by path. Failures never stop the run; the remaining
// notebooks still execute. When any notebook failed, Run returns a
// *FailureSummary naming them.
//
// # Output
//
// For each notebook, "Running <path>" is written to Out before execution
// and "Error in <path>" after a failure. Once all notebooks finish, each
// failure is printed as its path followed by its error, then the summary.
//
// # Thread Safety
//
// A Runner may be used by one Run (or RunPaths) at a time.
type Runner struct {
	exec    Executor
	opts    Options
	logger  *logging.Logger
	outMu   sync.Mutex
	newUUID func() string
}

// NewRunner creates a Runner. exec must not be nil.
func NewRunner(exec Executor, opts Options) *Runner {
	if opts.Dir == "" {
		opts.Dir = DefaultDir
	}
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	if opts.NotebookTimeout == 0 {
		opts.NotebookTimeout = DefaultNotebookTimeout
	}
	if opts.Parallel < 1 {
		opts.Parallel = 1
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{
		exec:    exec,
		opts:    opts,
		logger:  logger,
		newUUID: uuid.NewString,
	}
}

// Dir returns the directory the Runner searches.
func (r *Runner) Dir() string { return r.opts.Dir }

// Pattern returns the notebook glob.
func (r *Runner) Pattern() string { return r.opts.Pattern }

// Run executes every notebook found in Options.Dir.
//
// # Outputs
//
//   - *Report: per-notebook results, even when notebooks failed.
//   - error: *FailureSummary (wrapping ErrNotebooksFailed) if any notebook
//     failed; a discovery error; or ctx.Err() if the run was cancelled.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	paths, err := Discover(r.opts.Dir, r.opts.Pattern)
	if err != nil {
		return nil, fmt.Errorf("discover notebooks in %s: %w", r.opts.Dir, err)
	}
	if len(paths) == 0 {
		r.logger.Warn("no notebooks found", "dir", r.opts.Dir, "pattern", r.opts.Pattern)
	}
	return r.RunPaths(ctx, paths)
}

// RunPaths executes the given notebooks. Results keep the order of paths.
func (r *Runner) RunPaths(ctx context.Context, paths []string) (report *Report, err error) {
	report = &Report{
		RunID:   r.newUUID(),
		Started: time.Now(),
		Results: make([]Result, len(paths)),
	}
	logger := r.logger.With("run_id", report.RunID)

	ctx, span := telemetry.StartSpan(ctx, tracerName, "Runner.Run",
		trace.WithAttributes(
			attribute.String("run_id", report.RunID),
			attribute.Int("notebooks", len(paths)),
			attribute.Int("parallel", r.opts.Parallel),
		),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	logger.InfoContext(ctx, "notebook run started", "notebooks", len(paths), "parallel", r.opts.Parallel)

	for i, path := range paths {
		report.Results[i].Path = path
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Parallel)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report.Results[i] = r.runOne(gctx, logger, path)
			return nil
		})
	}
	waitErr := g.Wait()
	report.Duration = time.Since(report.Started)
	if waitErr == nil {
		waitErr = ctx.Err()
	}
	if waitErr != nil {
		logger.WarnContext(ctx, "notebook run cancelled", "error", waitErr)
		return report, waitErr
	}

	var failures []Failure
	for _, res := range report.Results {
		if res.Err != nil {
			failures = append(failures, Failure{Path: res.Path, Err: res.Err})
		}
	}

	for _, f := range failures {
		r.printf("%s\n%v\n", f.Path, f.Err)
	}

	logger.InfoContext(ctx, "notebook run finished",
		"notebooks", len(paths),
		"failed", len(failures),
		"duration_ms", report.Duration.Milliseconds(),
	)

	if len(failures) > 0 {
		summary := &FailureSummary{RunID: report.RunID, Failures: failures}
		r.printf("%s\n", summary.Error())
		return report, summary
	}
	return report, nil
}

func (r *Runner) runOne(ctx context.Context, logger *logging.Logger, path string) Result {
	r.printf("Running %s\n", path)

	ctx, span := telemetry.StartSpan(ctx, tracerName, "Runner.Execute",
		trace.WithAttributes(attribute.String("notebook", path)),
	)

	parent := ctx
	if r.opts.NotebookTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.NotebookTimeout)
		defer cancel()
	}

	start := time.Now()
	err := r.exec.Execute(ctx, path)
	elapsed := time.Since(start)

	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		err = fmt.Errorf("%w after %s: %w", ErrNotebookTimeout, r.opts.NotebookTimeout, err)
	}

	telemetry.EndSpan(span, err)
	r.opts.Metrics.RecordNotebook(ctx, elapsed, err)

	if err != nil {
		r.printf("Error in %s\n", path)
		logger.WarnContext(ctx, "notebook failed", "path", path, "duration_ms", elapsed.Milliseconds(), "error", err)
	} else {
		logger.InfoContext(ctx, "notebook passed", "path", path, "duration_ms", elapsed.Milliseconds())
	}
	return Result{Path: path, Duration: elapsed, Err: err}
}

func (r *Runner) printf(format string, args ...any) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	fmt.Fprintf(r.opts.Out, format, args...)
}
