// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the synthlab instruments. All names carry the "synthlab_"
// prefix.
//
// Thread Safety: Safe for concurrent use after creation.
type Metrics struct {
	// GenerationsTotal counts generator calls by generator and status.
	GenerationsTotal metric.Int64Counter

	// GeneratedRowsTotal counts rows produced by generator.
	GeneratedRowsTotal metric.Int64Counter

	// GenerationDuration records generator wall time in seconds.
	GenerationDuration metric.Float64Histogram

	// NotebookRunsTotal counts executed notebooks by status.
	NotebookRunsTotal metric.Int64Counter

	// NotebookDuration records per-notebook execution time in seconds.
	NotebookDuration metric.Float64Histogram

	// HubEnvLookupsTotal counts cache-environment lookups by status.
	HubEnvLookupsTotal metric.Int64Counter
}

// NewMetrics registers every instrument with meter.
//
// Example:
//
//	m, err := telemetry.NewMetrics(otel.Meter("synthlab"))
//	if err != nil {
//	    return fmt.Errorf("create metrics: %w", err)
//	}
//	m.RecordGeneration(ctx, "composition", tbl.Len(), time.Since(start), nil)
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.GenerationsTotal, err = meter.Int64Counter(
		"synthlab_generations_total",
		metric.WithDescription("Total generator calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create generations_total: %w", err)
	}

	m.GeneratedRowsTotal, err = meter.Int64Counter(
		"synthlab_generated_rows_total",
		metric.WithDescription("Total rows produced by generators"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create generated_rows_total: %w", err)
	}

	m.GenerationDuration, err = meter.Float64Histogram(
		"synthlab_generation_duration_seconds",
		metric.WithDescription("Generator call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("create generation_duration_seconds: %w", err)
	}

	m.NotebookRunsTotal, err = meter.Int64Counter(
		"synthlab_notebook_runs_total",
		metric.WithDescription("Total notebooks executed"),
		metric.WithUnit("{notebook}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create notebook_runs_total: %w", err)
	}

	m.NotebookDuration, err = meter.Float64Histogram(
		"synthlab_notebook_duration_seconds",
		metric.WithDescription("Notebook execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 30, 60, 120, 300, 600, 1200),
	)
	if err != nil {
		return nil, fmt.Errorf("create notebook_duration_seconds: %w", err)
	}

	m.HubEnvLookupsTotal, err = meter.Int64Counter(
		"synthlab_hubenv_lookups_total",
		metric.WithDescription("Total per-user cache environment lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create hubenv_lookups_total: %w", err)
	}

	return m, nil
}

// RecordGeneration records one generator call. A nil receiver is a no-op so
// callers can hold an optional *Metrics.
func (m *Metrics) RecordGeneration(ctx context.Context, generator string, rows int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := statusOf(err)
	attrs := metric.WithAttributes(
		attribute.String("generator", generator),
		attribute.String("status", status),
	)
	m.GenerationsTotal.Add(ctx, 1, attrs)
	m.GenerationDuration.Record(ctx, elapsed.Seconds(), attrs)
	if err == nil {
		m.GeneratedRowsTotal.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("generator", generator)))
	}
}

// RecordNotebook records one executed notebook.
func (m *Metrics) RecordNotebook(ctx context.Context, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", statusOf(err)))
	m.NotebookRunsTotal.Add(ctx, 1, attrs)
	m.NotebookDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordHubEnvLookup records one cache environment lookup.
func (m *Metrics) RecordHubEnvLookup(ctx context.Context, err error) {
	if m == nil {
		return
	}
	m.HubEnvLookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", statusOf(err))))
}

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}
