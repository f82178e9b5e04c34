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
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "")
	t.Setenv("OTEL_METRICS_EXPORTER", "")
	cfg := DefaultConfig()

	if cfg.ServiceName != "synthlab" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "synthlab")
	}
	if cfg.TraceExporter != ExporterNone {
		t.Errorf("TraceExporter = %q, want %q", cfg.TraceExporter, ExporterNone)
	}
	if cfg.MetricExporter != ExporterPrometheus {
		t.Errorf("MetricExporter = %q, want %q", cfg.MetricExporter, ExporterPrometheus)
	}
}

func TestDefaultConfig_EnvOverride(t *testing.T) {
	t.Setenv("OTEL_METRICS_EXPORTER", "textfile")
	if got := DefaultConfig().MetricExporter; got != ExporterTextfile {
		t.Errorf("MetricExporter = %q, want %q", got, ExporterTextfile)
	}
}

func TestInit_NilContext(t *testing.T) {
	cfg := DefaultConfig()
	//nolint:staticcheck // nil context is the case under test
	_, err := Init(nil, cfg)
	if !errors.Is(err, ErrNilContext) {
		t.Errorf("Init(nil, cfg) error = %v, want %v", err, ErrNilContext)
	}
}

func TestInit_NoopExporters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceExporter = ExporterNone
	cfg.MetricExporter = ExporterNone

	shutdown, err := Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}

func TestInit_UnknownExporter(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(c *Config)
	}{
		{"trace", func(c *Config) { c.TraceExporter = "zipkin" }},
		{"metric", func(c *Config) { c.TraceExporter = ExporterNone; c.MetricExporter = "statsd" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.cfg(&cfg)

			_, err := Init(context.Background(), cfg)
			if err == nil {
				t.Fatal("Init() with unknown exporter should fail")
			}
			if !errors.Is(err, ErrUnknownExporter) {
				t.Errorf("error = %v, want ErrUnknownExporter", err)
			}
			if !strings.Contains(err.Error(), "unknown exporter type") {
				t.Errorf("error = %v, want to contain 'unknown exporter type'", err)
			}
		})
	}
}

func TestInit_PrometheusHandler(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceExporter = ExporterNone
	cfg.MetricExporter = ExporterPrometheus

	shutdown, err := Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer shutdown(context.Background())

	m, err := NewMetrics(otel.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	m.RecordGeneration(context.Background(), "counts", 25, time.Millisecond, nil)

	handler := MetricsHandler()
	if handler == nil {
		t.Fatal("MetricsHandler() = nil with prometheus exporter")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "synthlab_generations") {
		t.Errorf("scrape output missing synthlab_generations:\n%s", body)
	}
}

func TestWriteTextfile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceExporter = ExporterNone
	cfg.MetricExporter = ExporterTextfile

	shutdown, err := Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer shutdown(context.Background())

	m, err := NewMetrics(otel.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	m.RecordNotebook(context.Background(), 3*time.Second, errors.New("boom"))

	path := filepath.Join(t.TempDir(), "synthlab.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "synthlab_notebook_runs") {
		t.Errorf("textfile missing synthlab_notebook_runs:\n%s", data)
	}
}

func TestMetrics_RecordGeneration(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	ctx := context.Background()
	m.RecordGeneration(ctx, "composition", 10, time.Millisecond, nil)
	m.RecordGeneration(ctx, "composition", 10, time.Millisecond, nil)
	m.RecordGeneration(ctx, "composition", 0, time.Millisecond, errors.New("bad"))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatal(err)
	}

	rows := findSum(t, rm, "synthlab_generated_rows_total")
	if rows != 20 {
		t.Errorf("generated rows = %d, want 20", rows)
	}
	calls := findSum(t, rm, "synthlab_generations_total")
	if calls != 3 {
		t.Errorf("generations = %d, want 3", calls)
	}
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	m.RecordGeneration(context.Background(), "counts", 1, time.Second, nil)
	m.RecordNotebook(context.Background(), time.Second, nil)
	m.RecordHubEnvLookup(context.Background(), nil)
}

func TestEndSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	_, okSpan := tp.Tracer("test").Start(context.Background(), "ok")
	EndSpan(okSpan, nil)
	_, badSpan := tp.Tracer("test").Start(context.Background(), "bad")
	EndSpan(badSpan, errors.New("cell failed"))

	ended := sr.Ended()
	if len(ended) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(ended))
	}
	if ended[0].Status().Code != codes.Ok {
		t.Errorf("ok span status = %v, want Ok", ended[0].Status().Code)
	}
	if ended[1].Status().Code != codes.Error {
		t.Errorf("bad span status = %v, want Error", ended[1].Status().Code)
	}
	if len(ended[1].Events()) == 0 {
		t.Error("bad span has no recorded error event")
	}
}

func TestRecordError_Nil(t *testing.T) {
	RecordError(nil, errors.New("x"))
	SetSpanOK(nil)
	EndSpan(nil, nil)
}

func findSum(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != name {
				continue
			}
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s has data type %T", name, md.Data)
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
