// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package synth

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/AleutianAI/synthlab/services/synth/compositional"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultCountSize is the default number of counting intervals.
	DefaultCountSize = 25

	// DefaultStrength is the default integrated signal per counting
	// interval.
	DefaultStrength = 10e6

	// DefaultCountSeed is the seed DefaultCountParams uses.
	DefaultCountSeed = 14
)

// DefaultCountColumns returns the default oxygen isotope channels.
func DefaultCountColumns() []string {
	return []string{"18O", "17O", "16O"}
}

// CountParams configures GenerateCounts.
type CountParams struct {
	// Columns are the signal channel names. At least two, unique. The last
	// channel is the log-ratio reference.
	Columns []string `json:"columns"`

	// Size is the number of counting intervals. Must be positive.
	Size int `json:"size"`

	// Bias holds log(channel_i / channel_last) for every channel but the
	// last. nil means all zeros, i.e. equal channel proportions.
	Bias []float64 `json:"bias,omitempty"`

	// Strength is the total signal per interval. Must be positive.
	Strength float64 `json:"strength"`

	// Seed makes the call reproducible. Ignored when Source is set.
	Seed *uint64 `json:"seed,omitempty"`

	// Source is an optional caller-owned random source.
	Source rand.Source `json:"-"`
}

// DefaultCountParams returns the default channels, size, bias, strength and
// seed.
func DefaultCountParams() CountParams {
	cols := DefaultCountColumns()
	return CountParams{
		Columns:  cols,
		Size:     DefaultCountSize,
		Bias:     make([]float64, len(cols)-1),
		Strength: DefaultStrength,
		Seed:     Seed(DefaultCountSeed),
	}
}

// GenerateCounts simulates Poisson-distributed signals around a constant
// channel ratio.
//
// # Description
//
// The bias vector is read as additive log-ratios against the last channel
// and inverted to channel proportions, which are scaled by Strength to give
// the expected signal per channel. Each of Size intervals then draws every
// channel independently from a Poisson distribution with that mean, and the
// row is rescaled so its channels sum to Strength.
//
// # Inputs
//
//   - params: See CountParams.
//
// # Outputs
//
//   - *Table: Size rows, one column per channel, each row summing to
//     Strength up to floating-point rounding.
//   - error: Wraps ErrInvalidParameter for malformed params, or
//     ErrDegenerateInterval if an interval drew zero counts on every channel.
//
// # Example
//
//	tbl, err := synth.GenerateCounts(synth.DefaultCountParams())
//
// # Limitations
//
//   - An all-zero interval has probability exp(-Strength). It is reported
//     as an error rather than redrawn, so the row count never silently
//     depends on rejection sampling.
func GenerateCounts(params CountParams) (*Table, error) {
	if err := validateColumns(params.Columns, 2); err != nil {
		return nil, err
	}
	d := len(params.Columns)

	size := params.Size
	if size <= 0 {
		return nil, invalidf("size must be positive, got %d", size)
	}
	strength := params.Strength
	if !(strength > 0) || math.IsInf(strength, 1) {
		return nil, invalidf("strength must be positive and finite, got %v", strength)
	}

	bias := params.Bias
	if bias == nil {
		bias = make([]float64, d-1)
	}
	if len(bias) != d-1 {
		return nil, invalidf("bias has %d values, want len(columns)-1 = %d", len(bias), d-1)
	}
	for i, b := range bias {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, invalidf("bias[%d] is %v", i, b)
		}
	}

	levels := compositional.InverseALR(bias)
	floats.Scale(strength, levels)

	src := newSourcer(params.Source, params.Seed).next()
	channels := make([]distuv.Poisson, d)
	for j, lambda := range levels {
		channels[j] = distuv.Poisson{Lambda: lambda, Src: src}
	}

	tbl := newTable(params.Columns, size)
	for i, row := range tbl.Rows {
		for j := range channels {
			row[j] = drawPoisson(channels[j])
		}
		total := floats.Sum(row)
		if total == 0 {
			return nil, fmt.Errorf("%w: interval %d", ErrDegenerateInterval, i)
		}
		floats.Scale(strength/total, row)
	}
	return tbl, nil
}

// drawPoisson returns a Poisson draw, treating a zero rate as a point mass at
// zero. A channel can underflow to a zero rate when its bias is extreme.
func drawPoisson(p distuv.Poisson) float64 {
	if p.Lambda <= 0 {
		return 0
	}
	return p.Rand()
}
