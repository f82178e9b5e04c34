// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package api

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidParameter   = "INVALID_PARAMETER"
	CodeDegenerateInterval = "DEGENERATE_INTERVAL"
	CodeGenerationFailed   = "GENERATION_FAILED"
	CodeUnknownElement     = "UNKNOWN_ELEMENT"
	CodeRateLimited        = "RATE_LIMITED"
)

// CompositionRequest is the body of POST /v1/synth/composition.
//
// Omitted columns and size take the generator defaults. An omitted seed
// gives a non-reproducible draw.
type CompositionRequest struct {
	Columns []string    `json:"columns" binding:"omitempty,max=256,dive,required"`
	Size    int         `json:"size" binding:"omitempty,min=1,max=100000"`
	Seed    *uint64     `json:"seed"`
	Mean    []float64   `json:"mean"`
	Cov     [][]float64 `json:"cov"`
}

// CountsRequest is the body of POST /v1/synth/counts.
//
// Omitted columns, size, bias, and strength take the generator defaults. An
// omitted seed gives a non-reproducible draw.
type CountsRequest struct {
	Columns  []string  `json:"columns" binding:"omitempty,min=2,max=256,dive,required"`
	Size     int       `json:"size" binding:"omitempty,min=1,max=100000"`
	Bias     []float64 `json:"bias"`
	Strength *float64  `json:"strength"`
	Seed     *uint64   `json:"seed"`
}

// TableResponse carries a generated table.
type TableResponse struct {
	RequestID string      `json:"request_id"`
	Generator string      `json:"generator"`
	Columns   []string    `json:"columns"`
	Rows      [][]float64 `json:"rows"`
}

// ElementResponse describes one element symbol.
type ElementResponse struct {
	Symbol       string `json:"symbol"`
	AtomicNumber int    `json:"atomic_number"`
	Trace        bool   `json:"trace"`
}

// ElementsResponse lists every recognized element symbol in Z order.
type ElementsResponse struct {
	Symbols []string `json:"symbols"`
}

// HealthResponse is returned by GET /v1/synth/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is a stable machine-readable code.
	Code string `json:"code,omitempty"`

	// Details provides additional context (optional).
	Details string `json:"details,omitempty"`
}
