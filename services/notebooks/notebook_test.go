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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanNotebook = `{
 "nbformat": 4,
 "nbformat_minor": 5,
 "metadata": {"kernelspec": {"name": "python3"}},
 "cells": [
  {"cell_type": "markdown", "source": ["# Title\n", "text"]},
  {"cell_type": "code", "source": "x = 1", "outputs": [
    {"output_type": "stream", "name": "stdout", "text": ["1\n"]}
  ]}
 ]
}`

const failingNotebook = `{
 "nbformat": 4,
 "nbformat_minor": 5,
 "metadata": {},
 "cells": [
  {"cell_type": "code", "source": "import synth", "outputs": []},
  {"cell_type": "code", "source": ["1/0"], "outputs": [
    {"output_type": "error", "ename": "ZeroDivisionError", "evalue": "division by zero",
     "traceback": ["\u001b[0;31mZeroDivisionError\u001b[0m: division by zero"]}
  ]}
 ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse_Clean(t *testing.T) {
	nb, err := Parse(strings.NewReader(cleanNotebook))
	require.NoError(t, err)

	assert.Equal(t, 4, nb.NBFormat)
	require.Len(t, nb.Cells, 2)
	assert.Equal(t, "# Title\ntext", string(nb.Cells[0].Source))
	assert.Equal(t, "x = 1", string(nb.Cells[1].Source))
	assert.Equal(t, 1, nb.CodeCells())
	assert.Nil(t, nb.FirstError("clean.ipynb"))
}

func TestParse_FirstError(t *testing.T) {
	nb, err := Parse(strings.NewReader(failingNotebook))
	require.NoError(t, err)

	cellErr := nb.FirstError("nb/fail.ipynb")
	require.NotNil(t, cellErr)
	assert.Equal(t, "nb/fail.ipynb", cellErr.Notebook)
	assert.Equal(t, 1, cellErr.Cell)
	assert.Equal(t, "ZeroDivisionError", cellErr.EName)
	assert.Equal(t, "division by zero", cellErr.EValue)
	assert.Equal(t, []string{"ZeroDivisionError: division by zero"}, cellErr.Traceback)
	assert.Contains(t, cellErr.Error(), "cell 1: ZeroDivisionError: division by zero")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", "nope"},
		{"nbformat 3", `{"nbformat": 3, "worksheets": []}`},
		{"missing nbformat", `{"cells": []}`},
		{"bad source", `{"nbformat": 4, "cells": [{"cell_type": "code", "source": 5}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in))
			assert.ErrorIs(t, err, ErrInvalidNotebook)
		})
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.ipynb", cleanNotebook)

	nb, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, nb.Cells, 2)

	_, err = Read(filepath.Join(dir, "missing.ipynb"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := writeFile(t, dir, "bad.ipynb", "{")
	_, err = Read(bad)
	assert.ErrorIs(t, err, ErrInvalidNotebook)
	assert.Contains(t, err.Error(), bad)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.ipynb", cleanNotebook)
	writeFile(t, dir, "a.ipynb", cleanNotebook)
	writeFile(t, dir, "notes.txt", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, checkpointDir), 0o755))
	writeFile(t, filepath.Join(dir, checkpointDir), "a-checkpoint.ipynb", cleanNotebook)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.ipynb"), 0o755))

	paths, err := Discover(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.ipynb"), filepath.Join(dir, "b.ipynb")}, paths)

	paths, err = Discover(dir, "b*.ipynb")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.ipynb")}, paths)
}

func TestDiscover_Errors(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Discover(t.TempDir(), "[")
	assert.Error(t, err)
}
