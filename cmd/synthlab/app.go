// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/AleutianAI/synthlab/cmd/synthlab/config"
	"github.com/AleutianAI/synthlab/pkg/logging"
	"github.com/AleutianAI/synthlab/services/telemetry"
	"go.opentelemetry.io/otel"
)

const meterName = "synthlab"

// app carries the state shared by every command of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	// flags
	configPath string
	logLevel   string

	cfg     config.SynthlabConfig
	logger  *logging.Logger
	metrics *telemetry.Metrics

	shutdownTelemetry func(context.Context) error
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		cfg:    config.DefaultConfig(),
		logger: logging.Discard(),
	}
}

// setup loads the config file and builds the logger.
func (a *app) setup() error {
	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	levelName := cfg.Logging.Level
	if a.logLevel != "" {
		levelName = a.logLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	a.logger = logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.Dir,
		Service: "synthlab",
		JSON:    cfg.Logging.JSON,
		Output:  a.stderr,
	})
	return nil
}

// startTelemetry installs the configured exporters. metricExporter, when
// set, overrides the config file.
func (a *app) startTelemetry(ctx context.Context, metricExporter string) error {
	tcfg := a.cfg.Telemetry
	if metricExporter != "" {
		tcfg.MetricExporter = metricExporter
	}
	shutdown, err := telemetry.Init(ctx, tcfg)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	a.shutdownTelemetry = shutdown

	m, err := telemetry.NewMetrics(otel.Meter(meterName))
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}
	a.metrics = m
	a.logger.Debug("telemetry started",
		"trace_exporter", tcfg.TraceExporter,
		"metric_exporter", tcfg.MetricExporter,
	)
	return nil
}

// close flushes telemetry and the log file.
func (a *app) close() {
	if a.shutdownTelemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdownTelemetry(ctx); err != nil {
			a.logger.Warn("telemetry shutdown failed", "error", err)
		}
		a.shutdownTelemetry = nil
	}
	if err := a.logger.Close(); err != nil {
		fmt.Fprintf(a.stderr, "close log: %v\n", err)
	}
}
