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
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJupyterExecutor_Args(t *testing.T) {
	e := NewJupyterExecutor()
	args := e.Args("/data/notebooks/demo.ipynb", "/tmp/out")

	assert.Equal(t, []string{
		"nbconvert",
		"--to", "notebook",
		"--execute",
		"--allow-errors",
		"--ExecutePreprocessor.timeout=600",
		"--ExecutePreprocessor.kernel_name=python3",
		"--output-dir", "/tmp/out",
		"--output", "demo.ipynb",
		"demo.ipynb",
	}, args)
}

func TestJupyterExecutor_ArgsTimeouts(t *testing.T) {
	tests := []struct {
		timeout time.Duration
		want    string
	}{
		{0, "--ExecutePreprocessor.timeout=600"},
		{-1, "--ExecutePreprocessor.timeout=-1"},
		{90 * time.Second, "--ExecutePreprocessor.timeout=90"},
		{time.Millisecond, "--ExecutePreprocessor.timeout=1"},
	}
	for _, tt := range tests {
		e := &JupyterExecutor{CellTimeout: tt.timeout, Kernel: "ir"}
		args := e.Args("x.ipynb", "out")
		assert.Contains(t, args, tt.want)
		assert.Contains(t, args, "--ExecutePreprocessor.kernel_name=ir")
	}
}

// fakeJupyter writes a shell script standing in for jupyter. It copies the
// notebook named by its last argument into --output-dir, optionally
// replacing it with replacement, then exits with code.
func fakeJupyter(t *testing.T, replacement string, code int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	dir := t.TempDir()
	if replacement != "" {
		writeFile(t, dir, "replacement.ipynb", replacement)
	}
	script := `#!/bin/sh
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "--output-dir" ]; then out="$a"; fi
  prev="$a"
  last="$a"
done
echo "executing $last in $(pwd)" >&2
if [ -f "` + filepath.Join(dir, "replacement.ipynb") + `" ]; then
  cp "` + filepath.Join(dir, "replacement.ipynb") + `" "$out/$last"
else
  cp "$last" "$out/$last"
fi
exit ` + string(rune('0'+code)) + `
`
	path := filepath.Join(dir, "jupyter")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestJupyterExecutor_Clean(t *testing.T) {
	nbDir := t.TempDir()
	path := writeFile(t, nbDir, "clean.ipynb", cleanNotebook)

	e := &JupyterExecutor{Binary: fakeJupyter(t, "", 0), ScratchDir: t.TempDir()}
	assert.NoError(t, e.Execute(context.Background(), path))
}

func TestJupyterExecutor_CellError(t *testing.T) {
	nbDir := t.TempDir()
	path := writeFile(t, nbDir, "fail.ipynb", cleanNotebook)

	e := &JupyterExecutor{Binary: fakeJupyter(t, failingNotebook, 0), ScratchDir: t.TempDir()}
	err := e.Execute(context.Background(), path)

	var cellErr *CellExecutionError
	require.ErrorAs(t, err, &cellErr)
	assert.Equal(t, path, cellErr.Notebook)
	assert.Equal(t, "ZeroDivisionError", cellErr.EName)
}

func TestJupyterExecutor_ProcessFailure(t *testing.T) {
	nbDir := t.TempDir()
	path := writeFile(t, nbDir, "x.ipynb", cleanNotebook)

	e := &JupyterExecutor{Binary: fakeJupyter(t, "", 3), ScratchDir: t.TempDir()}
	err := e.Execute(context.Background(), path)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 3, cmdErr.ExitCode)
	// The stand-in reports its working directory; it must be the notebook's.
	resolved, _ := filepath.EvalSymlinks(nbDir)
	assert.Contains(t, cmdErr.Stderr, "executing x.ipynb in ")
	assert.True(t, cmdErr.Stderr == "executing x.ipynb in "+nbDir || cmdErr.Stderr == "executing x.ipynb in "+resolved,
		"stderr = %q", cmdErr.Stderr)
}

func TestJupyterExecutor_MissingBinary(t *testing.T) {
	path := writeFile(t, t.TempDir(), "x.ipynb", cleanNotebook)
	e := &JupyterExecutor{Binary: filepath.Join(t.TempDir(), "no-such-jupyter")}

	err := e.Execute(context.Background(), path)
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, -1, cmdErr.ExitCode)
}

func TestJupyterExecutor_Cancelled(t *testing.T) {
	path := writeFile(t, t.TempDir(), "x.ipynb", cleanNotebook)
	e := &JupyterExecutor{Binary: fakeJupyter(t, "", 0)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := e.Execute(ctx, path)
	assert.True(t, errors.Is(err, context.Canceled), "err = %v", err)
}

func TestJupyterExecutor_SourceUntouched(t *testing.T) {
	nbDir := t.TempDir()
	path := writeFile(t, nbDir, "keep.ipynb", cleanNotebook)

	e := &JupyterExecutor{Binary: fakeJupyter(t, failingNotebook, 0)}
	_ = e.Execute(context.Background(), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cleanNotebook, string(data))
}
