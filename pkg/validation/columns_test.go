// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validation

import (
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestValidateColumnName(t *testing.T) {
	tests := []struct {
		name    string
		column  string
		wantErr bool
	}{
		// Valid names
		{"oxide", "SiO2", false},
		{"element", "La", false},
		{"leading digit", "18O", false},
		{"isotope ratio", "Sr87/Sr86", false},
		{"underscore", "Fe_total", false},
		{"max length", "ABCDEFGHIJKLMNOPQRSTUVWXYZ012345", false},

		// Invalid names
		{"empty", "", true},
		{"comma", "Si,O2", true},
		{"quote", `Si"O2`, true},
		{"newline", "SiO2\nMgO", true},
		{"space", "Si O2", true},
		{"flag-like", "-rf", true},
		{"too long", "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456", true},
		{"unicode", "SiO₂", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumnName(tt.column)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColumnName(%q) error = %v, wantErr %v", tt.column, err, tt.wantErr)
			}
		})
	}
}

func TestValidateColumnNames(t *testing.T) {
	if err := ValidateColumnNames([]string{"CaO", "Ni"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateColumnNames([]string{"CaO", "bad name", ""}); err == nil {
		t.Error("expected error for invalid names")
	}
}

func TestParseColumnList(t *testing.T) {
	got, err := ParseColumnList(" SiO2, MgO,,Ni ")
	if err != nil {
		t.Fatalf("ParseColumnList() error = %v", err)
	}
	want := []string{"SiO2", "MgO", "Ni"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseColumnList() = %v, want %v", got, want)
	}

	if _, err := ParseColumnList("SiO2,Mg O"); err == nil {
		t.Error("expected error for name with space")
	}

	got, err = ParseColumnList("")
	if err != nil || len(got) != 0 {
		t.Errorf("ParseColumnList(\"\") = %v, %v; want empty, nil", got, err)
	}
}

func TestRegisterColumnValidation(t *testing.T) {
	v := validator.New()
	if err := RegisterColumnValidation(v); err != nil {
		t.Fatal(err)
	}

	type cfg struct {
		Columns []string `validate:"dive,column"`
	}
	if err := v.Struct(cfg{Columns: []string{"SiO2", "18O"}}); err != nil {
		t.Errorf("valid columns rejected: %v", err)
	}
	if err := v.Struct(cfg{Columns: []string{"SiO2", "a,b"}}); err == nil {
		t.Error("invalid column accepted")
	}
}
