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
	"time"

	"github.com/AleutianAI/synthlab/services/hubenv"
	"github.com/AleutianAI/synthlab/services/notebooks"
	"github.com/AleutianAI/synthlab/services/synth"
	"github.com/AleutianAI/synthlab/services/telemetry"
)

// CurrentConfigVersion is written to new config files.
const CurrentConfigVersion = "1"

type SynthlabConfig struct {
	// Meta: file format version
	Meta MetaConfig `yaml:"meta"`

	// Logging: console level and optional log directory
	Logging LoggingConfig `yaml:"logging"`

	// Telemetry: trace and metric exporters
	Telemetry telemetry.Config `yaml:"telemetry"`

	// Generate: defaults for `synthlab generate`
	Generate GenerateConfig `yaml:"generate"`

	// Notebooks: the execution harness
	Notebooks NotebooksConfig `yaml:"notebooks"`

	// HubEnv: per-user cache directories for the spawner hook
	HubEnv HubEnvConfig `yaml:"hubenv"`

	// Serve: the HTTP API
	Serve ServeConfig `yaml:"serve"`
}

type MetaConfig struct {
	Version string `yaml:"version"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Dir   string `yaml:"dir,omitempty"` // e.g. ~/.synthlab/logs
	JSON  bool   `yaml:"json"`
}

type GenerateConfig struct {
	Composition CompositionConfig `yaml:"composition"`
	Counts      CountsConfig      `yaml:"counts"`
}

type CompositionConfig struct {
	Columns []string `yaml:"columns" validate:"omitempty,dive,column"`
	Size    int      `yaml:"size" validate:"gte=0"`
	Seed    *uint64  `yaml:"seed,omitempty"`
}

type CountsConfig struct {
	Columns  []string `yaml:"columns" validate:"omitempty,min=2,dive,column"`
	Size     int      `yaml:"size" validate:"gte=0"`
	Strength float64  `yaml:"strength" validate:"gte=0"`
	Seed     *uint64  `yaml:"seed,omitempty"`
}

type NotebooksConfig struct {
	Dir             string        `yaml:"dir"`
	Pattern         string        `yaml:"pattern"`
	Jupyter         string        `yaml:"jupyter"`
	Kernel          string        `yaml:"kernel"`
	CellTimeout     time.Duration `yaml:"cell_timeout"`
	NotebookTimeout time.Duration `yaml:"notebook_timeout"`
	Parallel        int           `yaml:"parallel" validate:"gte=0,lte=64"`
}

type HubEnvConfig struct {
	// HomeRoot, when set, resolves homes as <HomeRoot>/<user> instead of
	// the system user database.
	HomeRoot  string            `yaml:"home_root,omitempty"`
	CacheDirs []hubenv.CacheDir `yaml:"cache_dirs" validate:"dive"`
}

type ServeConfig struct {
	Addr      string  `yaml:"addr" validate:"required"`
	RateLimit float64 `yaml:"rate_limit" validate:"gte=0"` // requests per second, 0 disables
	Burst     int     `yaml:"burst" validate:"gte=0"`
}

func DefaultConfig() SynthlabConfig {
	return SynthlabConfig{
		Meta: MetaConfig{Version: CurrentConfigVersion},
		Logging: LoggingConfig{
			Level: "info",
		},
		Telemetry: telemetry.DefaultConfig(),
		Generate: GenerateConfig{
			Composition: CompositionConfig{
				Columns: synth.DefaultCompositionColumns(),
				Size:    synth.DefaultCompositionSize,
				Seed:    synth.Seed(synth.DefaultCompositionSeed),
			},
			Counts: CountsConfig{
				Columns:  synth.DefaultCountColumns(),
				Size:     synth.DefaultCountSize,
				Strength: synth.DefaultStrength,
				Seed:     synth.Seed(synth.DefaultCountSeed),
			},
		},
		Notebooks: NotebooksConfig{
			Dir:             notebooks.DefaultDir,
			Pattern:         notebooks.DefaultPattern,
			Jupyter:         notebooks.DefaultJupyterBinary,
			Kernel:          notebooks.DefaultKernel,
			CellTimeout:     notebooks.DefaultCellTimeout,
			NotebookTimeout: notebooks.DefaultNotebookTimeout,
			Parallel:        1,
		},
		HubEnv: HubEnvConfig{
			CacheDirs: hubenv.DefaultCacheDirs(),
		},
		Serve: ServeConfig{
			Addr:      ":8090",
			RateLimit: 50,
			Burst:     100,
		},
	}
}
