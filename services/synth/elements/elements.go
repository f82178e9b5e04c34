// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package elements classifies column names against the periodic table.
//
// Synthetic geochemical tables mix major-element oxides reported in wt%
// (SiO2, MgO, ...) with trace elements reported in ppm (Ni, La, ...).
// IsTraceElement is the single place that decides which side of that split a
// column name falls on. Matching is exact and case-sensitive, so "Co" is
// cobalt and "CO" is not an element.
package elements

import "strings"

// symbols lists every element in atomic number order (index 0 is Z=1).
var symbols = [...]string{
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba",
	"La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra",
	"Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No", "Lr",
	"Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn",
	"Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

// byName maps symbol -> atomic number.
var byName = func() map[string]int {
	m := make(map[string]int, len(symbols))
	for i, s := range symbols {
		m[s] = i + 1
	}
	return m
}()

// IsTraceElement reports whether name is a bare element symbol.
//
// # Description
//
// Surrounding whitespace is ignored. Oxides ("SiO2"), isotopes ("87Sr"),
// ratios ("Sr87/Sr86") and lowercase spellings ("ni") are not elements.
//
// # Example
//
//	elements.IsTraceElement("La")   // true
//	elements.IsTraceElement("CaO")  // false
func IsTraceElement(name string) bool {
	_, ok := byName[strings.TrimSpace(name)]
	return ok
}

// AtomicNumber returns the atomic number for symbol, or false if symbol is
// not an element.
func AtomicNumber(symbol string) (int, bool) {
	z, ok := byName[strings.TrimSpace(symbol)]
	return z, ok
}

// Symbols returns a copy of the element symbols in atomic number order.
func Symbols() []string {
	out := make([]string, len(symbols))
	copy(out, symbols[:])
	return out
}

// Filter returns the subset of names that are element symbols, preserving
// order.
func Filter(names []string) []string {
	var out []string
	for _, n := range names {
		if IsTraceElement(n) {
			out = append(out, n)
		}
	}
	return out
}
