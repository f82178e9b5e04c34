// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/AleutianAI/synthlab/pkg/validation"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	// Global is a singleton instance
	Global SynthlabConfig
	once   sync.Once
)

// DefaultPath returns ~/.synthlab/synthlab.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".synthlab", "synthlab.yaml"), nil
}

// Load ensures the config at path (DefaultPath when empty) is loaded into
// the Global variable. Only the first call reads the file.
func Load(path string) error {
	var err error
	once.Do(func() {
		Global, err = LoadFile(path)
	})
	return err
}

// LoadFile reads and validates a config file, creating it with defaults on
// first run. Keys missing from the file keep their default values.
func LoadFile(path string) (SynthlabConfig, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return SynthlabConfig{}, err
		}
		path = p
	}
	// create it if it doesn't exist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "First run detected, creating the config at %s\n", path)
		if err := createDefault(path); err != nil {
			return SynthlabConfig{}, err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return SynthlabConfig{}, fmt.Errorf("failed to read the config file %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SynthlabConfig{}, fmt.Errorf("failed to parse the config %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return SynthlabConfig{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the struct tags of cfg.
func Validate(cfg SynthlabConfig) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := validation.RegisterColumnValidation(v); err != nil {
		return err
	}
	return v.Struct(cfg)
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create the config directory %w", err)
	}
	defaultCfg := DefaultConfig()
	data, err := yaml.Marshal(defaultCfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
