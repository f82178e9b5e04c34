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
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Executor runs a single notebook to completion.
//
// Execute returns nil if every cell ran without error, a
// *CellExecutionError if a cell raised, or another error if the notebook
// could not be executed at all. Implementations must honor ctx cancellation.
type Executor interface {
	Execute(ctx context.Context, path string) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, path string) error

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, path string) error {
	return f(ctx, path)
}

// Defaults for JupyterExecutor.
const (
	DefaultJupyterBinary = "jupyter"
	DefaultKernel        = "python3"
	DefaultCellTimeout   = 600 * time.Second
)

// JupyterExecutor executes notebooks with `jupyter nbconvert --execute`.
//
// # Description
//
// The notebook runs with its own directory as the working directory so
// relative data paths resolve the way they do interactively. The executed
// copy is written to a scratch directory (the source file is never
// modified) and inspected for error outputs. nbconvert is invoked with
// --allow-errors so a raising cell yields a structured CellExecutionError
// rather than only a process exit status.
//
// # Thread Safety
//
// Safe for concurrent use; each call uses its own scratch directory.
type JupyterExecutor struct {
	// Binary is the jupyter executable. Default "jupyter".
	Binary string

	// Kernel is the kernel name. Default "python3".
	Kernel string

	// CellTimeout bounds each cell. Default 600s; negative disables.
	CellTimeout time.Duration

	// ScratchDir is the parent for per-run scratch directories. Default
	// os.TempDir().
	ScratchDir string
}

// NewJupyterExecutor returns an executor with default settings.
func NewJupyterExecutor() *JupyterExecutor {
	return &JupyterExecutor{
		Binary:      DefaultJupyterBinary,
		Kernel:      DefaultKernel,
		CellTimeout: DefaultCellTimeout,
	}
}

// Args returns the nbconvert argument list for path with output written to
// outDir.
func (e *JupyterExecutor) Args(path, outDir string) []string {
	kernel := e.Kernel
	if kernel == "" {
		kernel = DefaultKernel
	}
	timeout := e.CellTimeout
	if timeout == 0 {
		timeout = DefaultCellTimeout
	}
	secs := -1
	if timeout > 0 {
		secs = int(timeout / time.Second)
		if secs == 0 {
			secs = 1
		}
	}
	return []string{
		"nbconvert",
		"--to", "notebook",
		"--execute",
		"--allow-errors",
		"--ExecutePreprocessor.timeout=" + strconv.Itoa(secs),
		"--ExecutePreprocessor.kernel_name=" + kernel,
		"--output-dir", outDir,
		"--output", filepath.Base(path),
		filepath.Base(path),
	}
}

// Execute implements Executor.
func (e *JupyterExecutor) Execute(ctx context.Context, path string) error {
	binary := e.Binary
	if binary == "" {
		binary = DefaultJupyterBinary
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	scratch, err := os.MkdirTemp(e.ScratchDir, "synthlab-nb-")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	args := e.Args(abs, scratch)
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = filepath.Dir(abs)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return NewCommandError(binary+" "+strings.Join(args, " "), exitCode, stderr.String(), err)
	}

	executed, err := Read(filepath.Join(scratch, filepath.Base(abs)))
	if err != nil {
		return fmt.Errorf("read executed notebook: %w", err)
	}
	if cellErr := executed.FirstError(path); cellErr != nil {
		return cellErr
	}
	return nil
}
