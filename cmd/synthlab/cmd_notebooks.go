// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AleutianAI/synthlab/pkg/ux"
	"github.com/AleutianAI/synthlab/services/notebooks"
	"github.com/AleutianAI/synthlab/services/telemetry"
	"github.com/spf13/cobra"
)

type notebooksRunFlags struct {
	dir         string
	pattern     string
	parallel    int
	kernel      string
	jupyter     string
	cellTimeout time.Duration
	timeout     time.Duration
	watch       bool
	metricsFile string
}

func newNotebooksRunCmd(a *app) *cobra.Command {
	var flags notebooksRunFlags
	cmd := &cobra.Command{
		Use:   "run [notebook...]",
		Short: "Execute notebooks and fail if any cell raises",
		Long: `Executes every notebook matching --pattern in --dir (or the notebooks
given as arguments) with jupyter nbconvert. Each notebook is bounded by
--timeout and each cell by --cell-timeout. Failures are collected rather
than stopping the run, and the command exits 1 with a summary naming the
failing notebooks.

With --watch, notebooks are re-run whenever they are saved.`,
		Example: `  synthlab notebooks run
  synthlab notebooks run --dir docs/examples --parallel 4 --timeout 10m
  synthlab notebooks run --metrics-file /var/lib/node_exporter/synthlab.prom`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runNotebooks(cmd, args, flags)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.dir, "dir", "", "notebook directory (default from config)")
	f.StringVar(&flags.pattern, "pattern", "", "notebook glob within --dir (default from config)")
	f.IntVarP(&flags.parallel, "parallel", "j", 0, "notebooks executed at once (default from config)")
	f.StringVar(&flags.kernel, "kernel", "", "kernel name (default from config)")
	f.StringVar(&flags.jupyter, "jupyter", "", "jupyter executable (default from config)")
	f.DurationVar(&flags.cellTimeout, "cell-timeout", 0, "per-cell timeout; negative disables (default from config)")
	f.DurationVar(&flags.timeout, "timeout", 0, "per-notebook timeout; negative disables (default from config)")
	f.BoolVarP(&flags.watch, "watch", "w", false, "re-run notebooks when they are saved")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus text metrics to this file after the run")
	return cmd
}

// options merges flags over the notebooks config section.
func (f notebooksRunFlags) options(cmd *cobra.Command, a *app) (*notebooks.JupyterExecutor, notebooks.Options) {
	nc := a.cfg.Notebooks
	changed := cmd.Flags().Changed

	exec := notebooks.NewJupyterExecutor()
	if nc.Jupyter != "" {
		exec.Binary = nc.Jupyter
	}
	if nc.Kernel != "" {
		exec.Kernel = nc.Kernel
	}
	if nc.CellTimeout != 0 {
		exec.CellTimeout = nc.CellTimeout
	}
	if f.jupyter != "" {
		exec.Binary = f.jupyter
	}
	if f.kernel != "" {
		exec.Kernel = f.kernel
	}
	if changed("cell-timeout") {
		exec.CellTimeout = f.cellTimeout
	}

	opts := notebooks.Options{
		Dir:             nc.Dir,
		Pattern:         nc.Pattern,
		NotebookTimeout: nc.NotebookTimeout,
		Parallel:        nc.Parallel,
		Out:             a.stdout,
		Logger:          a.logger,
		Metrics:         a.metrics,
	}
	if f.dir != "" {
		opts.Dir = f.dir
	}
	if f.pattern != "" {
		opts.Pattern = f.pattern
	}
	if changed("parallel") {
		opts.Parallel = f.parallel
	}
	if changed("timeout") {
		opts.NotebookTimeout = f.timeout
	}
	return exec, opts
}

func (a *app) runNotebooks(cmd *cobra.Command, args []string, flags notebooksRunFlags) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exporter := ""
	if flags.metricsFile != "" {
		exporter = telemetry.ExporterTextfile
	}
	if err := a.startTelemetry(ctx, exporter); err != nil {
		return err
	}

	exec, opts := flags.options(cmd, a)
	return a.runNotebooksWith(ctx, exec, opts, args, flags)
}

// runNotebooksWith runs the suite through exec. Split from runNotebooks so
// tests can substitute the executor.
func (a *app) runNotebooksWith(ctx context.Context, exec notebooks.Executor, opts notebooks.Options, args []string, flags notebooksRunFlags) error {
	runner := notebooks.NewRunner(exec, opts)

	var (
		report *notebooks.Report
		err    error
	)
	if len(args) > 0 {
		report, err = runner.RunPaths(ctx, args)
	} else {
		report, err = runner.Run(ctx)
	}

	if report != nil {
		failed := len(report.Failed())
		total := len(report.Results)
		ux.NewPrinter(a.stdout).Summary(total-failed, failed, total)
	}

	if flags.metricsFile != "" {
		if werr := telemetry.WriteTextfile(flags.metricsFile); werr != nil {
			a.logger.Warn("failed to write metrics file", "path", flags.metricsFile, "error", werr)
		}
	}

	if !flags.watch || (err != nil && !errors.Is(err, notebooks.ErrNotebooksFailed)) {
		return err
	}

	w, werr := notebooks.NewWatcher(runner.Dir(), runner.Pattern(), notebooks.DefaultDebounce,
		func(ctx context.Context, paths []string) {
			if _, err := runner.RunPaths(ctx, paths); err != nil && !errors.Is(err, notebooks.ErrNotebooksFailed) {
				a.logger.Warn("notebook re-run failed", "error", err)
			}
			if flags.metricsFile != "" {
				if err := telemetry.WriteTextfile(flags.metricsFile); err != nil {
					a.logger.Warn("failed to write metrics file", "path", flags.metricsFile, "error", err)
				}
			}
		})
	if werr != nil {
		return fmt.Errorf("watch notebooks: %w", werr)
	}
	w.SetLogger(a.logger)
	fmt.Fprintf(a.stdout, "Watching %s for changes (Ctrl+C to stop)\n", runner.Dir())
	return w.Run(ctx)
}
