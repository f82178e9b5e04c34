// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package synth

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// Table is an in-memory, row-major table of named float64 columns.
//
// # Description
//
// Every generator returns a fresh Table; nothing is cached or shared between
// calls. Rows always have exactly len(Columns) values.
//
// # Thread Safety
//
// A Table is a plain value with no internal locking. Share it read-only or
// copy it with Clone.
type Table struct {
	// Columns holds the column names in output order.
	Columns []string `json:"columns"`

	// Rows holds one slice of len(Columns) values per sample.
	Rows [][]float64 `json:"rows"`
}

// newTable allocates a table with n zeroed rows.
func newTable(columns []string, n int) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	backing := make([]float64, n*len(cols))
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = backing[i*len(cols) : (i+1)*len(cols) : (i+1)*len(cols)]
	}
	return &Table{Columns: cols, Rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.Columns) }

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the values of column name.
func (t *Table) Column(name string) ([]float64, bool) {
	j := t.Index(name)
	if j < 0 {
		return nil, false
	}
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[j]
	}
	return out, true
}

// Row returns row i. The slice aliases the table.
func (t *Table) Row(i int) []float64 { return t.Rows[i] }

// RowSums returns the sum of each row.
func (t *Table) RowSums() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = floats.Sum(r)
	}
	return out
}

// ColumnMeans returns the mean of each column, in column order.
func (t *Table) ColumnMeans() []float64 {
	out := make([]float64, len(t.Columns))
	if len(t.Rows) == 0 {
		return out
	}
	for _, r := range t.Rows {
		floats.Add(out, r)
	}
	floats.Scale(1/float64(len(t.Rows)), out)
	return out
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	c := newTable(t.Columns, len(t.Rows))
	for i, r := range t.Rows {
		copy(c.Rows[i], r)
	}
	return c
}

// Equal reports whether t and o have the same columns and bit-identical
// values.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.Columns) != len(o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for i := range t.Rows {
		if !floats.Same(t.Rows[i], o.Rows[i]) {
			return false
		}
	}
	return true
}

// WriteCSV writes a header line followed by one line per row. Values use
// the shortest representation that round-trips.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for i, r := range t.Rows {
		for j, v := range r {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the table as {"columns": [...], "rows": [[...], ...]}.
func (t *Table) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// Records returns the rows formatted with the given precision, for
// rendering.
func (t *Table) Records(prec int) [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rec := make([]string, len(r))
		for j, v := range r {
			rec[j] = strconv.FormatFloat(v, 'f', prec, 64)
		}
		out[i] = rec
	}
	return out
}
