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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DefaultPattern matches Jupyter notebooks.
const DefaultPattern = "*.ipynb"

// checkpointDir is where Jupyter keeps autosave copies; never executed.
const checkpointDir = ".ipynb_checkpoints"

// Notebook is the subset of nbformat 4 the harness reads.
type Notebook struct {
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
	Metadata      map[string]any `json:"metadata"`
	Cells         []Cell         `json:"cells"`
}

// Cell is a notebook cell.
type Cell struct {
	CellType string    `json:"cell_type"`
	Source   multiline `json:"source"`
	Outputs  []Output  `json:"outputs,omitempty"`
}

// Output is one code cell output.
type Output struct {
	OutputType string    `json:"output_type"`
	Name       string    `json:"name,omitempty"`
	Text       multiline `json:"text,omitempty"`
	EName      string    `json:"ename,omitempty"`
	EValue     string    `json:"evalue,omitempty"`
	Traceback  []string  `json:"traceback,omitempty"`
}

// multiline decodes nbformat's "string or list of strings" fields.
type multiline string

func (m *multiline) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = multiline(s)
		return nil
	}
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*m = multiline(strings.Join(parts, ""))
	return nil
}

// Parse decodes a notebook from r. Notebooks older than nbformat 4 are
// rejected with ErrInvalidNotebook.
func Parse(r io.Reader) (*Notebook, error) {
	var nb Notebook
	if err := json.NewDecoder(r).Decode(&nb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNotebook, err)
	}
	if nb.NBFormat < 4 {
		return nil, fmt.Errorf("%w: nbformat %d, need 4 or later", ErrInvalidNotebook, nb.NBFormat)
	}
	return &nb, nil
}

// Read parses the notebook at path.
func Read(path string) (*Notebook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	nb, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// FirstError returns a CellExecutionError for the first cell with an
// "error" output, or nil if the notebook ran cleanly. path is recorded as
// the notebook name.
func (nb *Notebook) FirstError(path string) *CellExecutionError {
	for i, cell := range nb.Cells {
		for _, out := range cell.Outputs {
			if out.OutputType != "error" {
				continue
			}
			tb := make([]string, len(out.Traceback))
			for j, line := range out.Traceback {
				tb[j] = ansiEscape.ReplaceAllString(line, "")
			}
			return &CellExecutionError{
				Notebook:  path,
				Cell:      i,
				EName:     out.EName,
				EValue:    out.EValue,
				Traceback: tb,
			}
		}
	}
	return nil
}

// CodeCells returns the number of code cells.
func (nb *Notebook) CodeCells() int {
	n := 0
	for _, c := range nb.Cells {
		if c.CellType == "code" {
			n++
		}
	}
	return n
}

// Discover lists files in dir matching pattern (DefaultPattern if empty),
// sorted by name. Subdirectories, including Jupyter checkpoints, are not
// searched.
func Discover(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == checkpointDir {
			continue
		}
		if ok, _ := filepath.Match(pattern, e.Name()); ok {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
