// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation checks user-supplied names before they reach
// generated tables, file headers, or subprocess arguments.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ColumnTag is the struct tag name registered by RegisterColumnValidation.
const ColumnTag = "column"

// columnPattern matches component and channel names such as "SiO2",
// "Na2O", "18O", "La", or "Sr87/Sr86". It excludes separators that would
// corrupt CSV headers and anything that could be read as a flag.
var columnPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_./+\-]{0,31}$`)

// ValidateColumnName validates one column name.
//
// Valid names:
//   - 1-32 characters
//   - start with a letter or digit
//   - then letters, digits, '_', '.', '/', '+', '-'
func ValidateColumnName(name string) error {
	if name == "" {
		return fmt.Errorf("column name cannot be empty")
	}
	if !columnPattern.MatchString(name) {
		return fmt.Errorf("invalid column name %q (1-32 letters, digits, or _./+- starting alphanumeric)", name)
	}
	return nil
}

// ValidateColumnNames validates every name and reports all invalid ones.
func ValidateColumnNames(names []string) error {
	var invalid []string
	for _, n := range names {
		if err := ValidateColumnName(n); err != nil {
			invalid = append(invalid, n)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid column names: %q", invalid)
	}
	return nil
}

// ParseColumnList splits a comma-separated flag value into trimmed,
// validated names. Empty entries are dropped.
//
//	cols, err := validation.ParseColumnList("SiO2, MgO,Ni")
//	// cols == []string{"SiO2", "MgO", "Ni"}
func ParseColumnList(s string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	if err := ValidateColumnNames(out); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterColumnValidation adds the "column" tag to v. It applies to string
// fields, and to slices of strings with "dive".
func RegisterColumnValidation(v *validator.Validate) error {
	return v.RegisterValidation(ColumnTag, func(fl validator.FieldLevel) bool {
		return ValidateColumnName(fl.Field().String()) == nil
	})
}
