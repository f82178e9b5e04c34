// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectMode_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, ModeMachine, DetectMode(&buf))
	assert.False(t, IsTerminal(&buf))

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err == nil {
		defer f.Close()
		assert.False(t, IsTerminal(f))
	}
}

func TestDetectMode_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, ModeMachine, DetectMode(os.Stdout))
}

func TestPrinter_MachineLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterMode(&buf, ModeMachine)

	p.Title("ignored")
	p.Success("done")
	p.Warning("careful")
	p.Error("broken")
	p.FileStatus("a.ipynb", IconError, "cell 3")
	p.Summary(2, 1, 3)

	assert.Equal(t, strings.Join([]string{
		"OK: done",
		"WARN: careful",
		"ERROR: broken",
		"✗\ta.ipynb\tcell 3",
		"SUMMARY: passed=2 failed=1 total=3",
		"",
	}, "\n"), buf.String())
}

func TestPrinter_MachineTable(t *testing.T) {
	var buf bytes.Buffer
	NewPrinterMode(&buf, ModeMachine).Table([]string{"A", "B"}, [][]string{{"1", "2"}, {"3", "4"}})
	assert.Equal(t, "A\tB\n1\t2\n3\t4\n", buf.String())
}

func TestPrinter_KeyValues(t *testing.T) {
	var buf bytes.Buffer
	vals := map[string]string{"MPLCONFIGDIR": "/home/a/.mpl", "NUMBA_CACHE_DIR": "/home/a/.numba"}
	NewPrinterMode(&buf, ModeMachine).KeyValues([]string{"MPLCONFIGDIR", "NUMBA_CACHE_DIR"}, vals)
	assert.Equal(t, "MPLCONFIGDIR=/home/a/.mpl\nNUMBA_CACHE_DIR=/home/a/.numba\n", buf.String())

	buf.Reset()
	NewPrinterMode(&buf, ModeRich).KeyValues([]string{"MPLCONFIGDIR", "NUMBA_CACHE_DIR"}, vals)
	assert.Contains(t, buf.String(), "/home/a/.numba")
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"SiO2", "Ni"}, [][]string{{"51.20", "1.75"}})
	assert.Contains(t, out, "SiO2")
	assert.Contains(t, out, "51.20")
	assert.Contains(t, out, "╭")
}

func TestPrinter_RichTable(t *testing.T) {
	var buf bytes.Buffer
	NewPrinterMode(&buf, ModeRich).Table([]string{"X"}, [][]string{{"1"}})
	assert.Contains(t, buf.String(), "X")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestIcon_Render(t *testing.T) {
	for _, icon := range []Icon{IconSuccess, IconWarning, IconError, IconPending, Icon("?")} {
		assert.Contains(t, icon.Render(), string(icon))
	}
}
