// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry wires OpenTelemetry tracing and metrics for synthlab.
//
// Init installs global providers. Traces export over OTLP/gRPC or to stderr.
// Metrics export through a Prometheus registry, either scraped from
// MetricsHandler (long-running `synthlab serve`) or dumped with
// WriteTextfile at the end of a batch run (`synthlab notebooks run
// --metrics-file`), or printed to stderr.
//
// Instruments are created once with NewMetrics and passed to the
// components that record into them.
package telemetry
