// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package elements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTraceElement(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Ni", true},
		{"Ti", true},
		{"La", true},
		{"Lu", true},
		{"Te", true},
		{" Sr ", true},
		{"Og", true},
		{"CaO", false},
		{"SiO2", false},
		{"Na2O", false},
		{"FeO", false},
		{"Sr87/Sr86", false},
		{"87Sr", false},
		{"ni", false},
		{"CO", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTraceElement(tt.name))
		})
	}
}

func TestSymbols_Complete(t *testing.T) {
	syms := Symbols()
	require.Len(t, syms, 118)
	assert.Equal(t, "H", syms[0])
	assert.Equal(t, "Og", syms[117])

	seen := make(map[string]bool, len(syms))
	for _, s := range syms {
		assert.False(t, seen[s], "duplicate symbol %q", s)
		seen[s] = true
	}

	// Mutating the copy must not leak into the table.
	syms[0] = "X"
	assert.True(t, IsTraceElement("H"))
}

func TestAtomicNumber(t *testing.T) {
	z, ok := AtomicNumber("Fe")
	require.True(t, ok)
	assert.Equal(t, 26, z)

	z, ok = AtomicNumber("U")
	require.True(t, ok)
	assert.Equal(t, 92, z)

	_, ok = AtomicNumber("FeO")
	assert.False(t, ok)
}

func TestFilter(t *testing.T) {
	cols := []string{"CaO", "MgO", "SiO2", "FeO", "Na2O", "Ni", "Ti", "La", "Lu", "Te"}
	assert.Equal(t, []string{"Ni", "Ti", "La", "Lu", "Te"}, Filter(cols))
	assert.Nil(t, Filter([]string{"SiO2"}))
}
