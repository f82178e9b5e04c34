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
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrNotebooksFailed is wrapped by FailureSummary when at least one
	// notebook in a run failed.
	ErrNotebooksFailed = errors.New("notebooks failed")

	// ErrInvalidNotebook is returned by Read for files that are not
	// nbformat 4 JSON.
	ErrInvalidNotebook = errors.New("invalid notebook")

	// ErrNotebookTimeout is returned when a notebook exceeds the
	// per-notebook timeout.
	ErrNotebookTimeout = errors.New("notebook timed out")
)

// CommandError describes a failed executor subprocess.
type CommandError struct {
	// Command is the command line that was executed.
	Command string

	// ExitCode is the process exit code (-1 if the process never exited).
	ExitCode int

	// Stderr is the trimmed standard error output.
	Stderr string

	// Wrapped is the underlying error.
	Wrapped error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s (exit %d): %s", e.Command, e.ExitCode, lastLines(e.Stderr, 20))
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("%s (exit %d): %v", e.Command, e.ExitCode, e.Wrapped)
	}
	return fmt.Sprintf("%s (exit %d)", e.Command, e.ExitCode)
}

// Unwrap returns the underlying error for errors.Is and errors.As.
func (e *CommandError) Unwrap() error {
	return e.Wrapped
}

// NewCommandError creates a CommandError with trimmed stderr.
func NewCommandError(cmd string, exitCode int, stderr string, wrapped error) *CommandError {
	return &CommandError{
		Command:  cmd,
		ExitCode: exitCode,
		Stderr:   strings.TrimSpace(stderr),
		Wrapped:  wrapped,
	}
}

// CellExecutionError reports the first cell of a notebook that produced an
// error output.
type CellExecutionError struct {
	// Notebook is the path of the source notebook.
	Notebook string

	// Cell is the zero-based index of the failing cell.
	Cell int

	// EName is the exception class name, e.g. "ZeroDivisionError".
	EName string

	// EValue is the exception message.
	EValue string

	// Traceback holds the kernel's traceback lines, ANSI escapes removed.
	Traceback []string
}

// Error implements the error interface.
func (e *CellExecutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cell %d: %s: %s", e.Cell, e.EName, e.EValue)
	if len(e.Traceback) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(e.Traceback, "\n"))
	}
	return b.String()
}

// Failure pairs a notebook path with the error it produced.
type Failure struct {
	Path string
	Err  error
}

// FailureSummary is returned by Runner.Run when any notebook failed. Its
// message lists the failing notebooks by file name in discovery order.
type FailureSummary struct {
	RunID    string
	Failures []Failure
}

// Error implements the error interface.
func (s *FailureSummary) Error() string {
	names := make([]string, len(s.Failures))
	for i, f := range s.Failures {
		names[i] = filepath.Base(f.Path)
	}
	return "Some notebooks errored: " + strings.Join(names, ", ")
}

// Unwrap exposes ErrNotebooksFailed and every per-notebook error.
func (s *FailureSummary) Unwrap() []error {
	errs := make([]error, 0, len(s.Failures)+1)
	errs = append(errs, ErrNotebooksFailed)
	for _, f := range s.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Paths returns the failing notebook paths.
func (s *FailureSummary) Paths() []string {
	out := make([]string, len(s.Failures))
	for i, f := range s.Failures {
		out[i] = f.Path
	}
	return out
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
