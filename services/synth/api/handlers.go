// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package api exposes the synthetic data generators over HTTP.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/AleutianAI/synthlab/pkg/logging"
	"github.com/AleutianAI/synthlab/services/synth"
	"github.com/AleutianAI/synthlab/services/synth/elements"
	"github.com/AleutianAI/synthlab/services/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ServiceVersion is reported by the health endpoint.
const ServiceVersion = "0.1.0"

const tracerName = "synthlab/api"

// Handlers serves the synth endpoints.
//
// Thread Safety: Safe for concurrent use.
type Handlers struct {
	logger  *logging.Logger
	metrics *telemetry.Metrics
}

// NewHandlers creates Handlers. A nil logger discards logs; a nil metrics
// records nothing.
func NewHandlers(logger *logging.Logger, metrics *telemetry.Metrics) *Handlers {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handlers{logger: logger, metrics: metrics}
}

// HandleComposition handles POST /v1/synth/composition.
//
// Description:
//
//	Draws a composition table. Append ?format=csv for a CSV body.
//
// Response:
//
//	200 OK: TableResponse (or text/csv)
//	400 Bad Request: malformed body or invalid parameters
//	500 Internal Server Error: numeric failure
func (h *Handlers) HandleComposition(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.logger.With("request_id", requestID, "handler", "HandleComposition")

	var req CompositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    CodeInvalidRequest,
			Details: err.Error(),
		})
		return
	}

	params := synth.CompositionParams{
		Columns: req.Columns,
		Size:    req.Size,
		Seed:    req.Seed,
		Mean:    req.Mean,
		Cov:     req.Cov,
	}
	if len(params.Columns) == 0 {
		params.Columns = synth.DefaultCompositionColumns()
	}
	if params.Size == 0 {
		params.Size = synth.DefaultCompositionSize
	}

	ctx, span := telemetry.StartSpan(c.Request.Context(), tracerName, "GenerateComposition",
		trace.WithAttributes(
			attribute.Int("columns", len(params.Columns)),
			attribute.Int("size", params.Size),
		),
	)
	start := time.Now()
	tbl, err := synth.GenerateComposition(params)
	telemetry.EndSpan(span, err)
	rows := 0
	if tbl != nil {
		rows = tbl.Len()
	}
	h.metrics.RecordGeneration(ctx, "composition", rows, time.Since(start), err)

	if err != nil {
		h.writeGenerateError(c, logger, err)
		return
	}
	logger.Info("composition generated", "rows", tbl.Len(), "columns", tbl.Width())
	writeTable(c, requestID, "composition", tbl)
}

// HandleCounts handles POST /v1/synth/counts.
//
// Response:
//
//	200 OK: TableResponse (or text/csv)
//	400 Bad Request: malformed body or invalid parameters
//	422 Unprocessable Entity: an interval drew no counts
func (h *Handlers) HandleCounts(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.logger.With("request_id", requestID, "handler", "HandleCounts")

	var req CountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    CodeInvalidRequest,
			Details: err.Error(),
		})
		return
	}

	params := synth.CountParams{
		Columns:  req.Columns,
		Size:     req.Size,
		Bias:     req.Bias,
		Strength: synth.DefaultStrength,
		Seed:     req.Seed,
	}
	if len(params.Columns) == 0 {
		params.Columns = synth.DefaultCountColumns()
	}
	if params.Size == 0 {
		params.Size = synth.DefaultCountSize
	}
	if req.Strength != nil {
		params.Strength = *req.Strength
	}

	ctx, span := telemetry.StartSpan(c.Request.Context(), tracerName, "GenerateCounts",
		trace.WithAttributes(
			attribute.Int("channels", len(params.Columns)),
			attribute.Int("size", params.Size),
			attribute.Float64("strength", params.Strength),
		),
	)
	start := time.Now()
	tbl, err := synth.GenerateCounts(params)
	telemetry.EndSpan(span, err)
	rows := 0
	if tbl != nil {
		rows = tbl.Len()
	}
	h.metrics.RecordGeneration(ctx, "counts", rows, time.Since(start), err)

	if err != nil {
		h.writeGenerateError(c, logger, err)
		return
	}
	logger.Info("counts generated", "rows", tbl.Len(), "channels", tbl.Width())
	writeTable(c, requestID, "counts", tbl)
}

// HandleListElements handles GET /v1/synth/elements.
func (h *Handlers) HandleListElements(c *gin.Context) {
	getOrCreateRequestID(c)
	c.JSON(http.StatusOK, ElementsResponse{Symbols: elements.Symbols()})
}

// HandleElement handles GET /v1/synth/elements/:name.
//
// Response:
//
//	200 OK: ElementResponse
//	404 Not Found: name is not an element symbol
func (h *Handlers) HandleElement(c *gin.Context) {
	getOrCreateRequestID(c)
	name := c.Param("name")

	z, ok := elements.AtomicNumber(name)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "not an element symbol: " + name,
			Code:  CodeUnknownElement,
		})
		return
	}
	c.JSON(http.StatusOK, ElementResponse{
		Symbol:       name,
		AtomicNumber: z,
		Trace:        elements.IsTraceElement(name),
	})
}

// HandleHealth handles GET /v1/synth/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Version: ServiceVersion})
}

func (h *Handlers) writeGenerateError(c *gin.Context, logger *logging.Logger, err error) {
	status := http.StatusInternalServerError
	code := CodeGenerationFailed

	switch {
	case errors.Is(err, synth.ErrInvalidParameter):
		status = http.StatusBadRequest
		code = CodeInvalidParameter
	case errors.Is(err, synth.ErrDegenerateInterval):
		status = http.StatusUnprocessableEntity
		code = CodeDegenerateInterval
	}

	if status >= http.StatusInternalServerError {
		logger.Error("generation failed", "error", err)
	} else {
		logger.Warn("generation rejected", "error", err, "code", code)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func writeTable(c *gin.Context, requestID, generator string, tbl *synth.Table) {
	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if err := tbl.WriteCSV(c.Writer); err != nil {
			_ = c.Error(err)
		}
		return
	}
	c.JSON(http.StatusOK, TableResponse{
		RequestID: requestID,
		Generator: generator,
		Columns:   tbl.Columns,
		Rows:      tbl.Rows,
	})
}

// getOrCreateRequestID returns the X-Request-ID header, generating one if
// absent, and echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
