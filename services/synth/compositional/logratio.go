// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package compositional implements log-ratio transforms for compositional
// data.
//
// A composition with D parts lives on the simplex (positive parts summing to
// a constant). The additive log-ratio (ALR) transform maps it to R^(D-1)
// using the last part as the reference; the centred log-ratio (CLR)
// transform maps it to a D-dimensional zero-sum subspace. Both have exact
// inverses back to the closed simplex.
//
// All functions allocate their result and never modify their input.
package compositional

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrEmpty is returned when a transform receives no parts.
	ErrEmpty = errors.New("composition has no parts")

	// ErrNonPositive is returned when a part is zero, negative or NaN.
	ErrNonPositive = errors.New("composition parts must be positive")
)

// Close rescales parts so they sum to 1.
//
// # Inputs
//
//   - parts: Positive, finite values.
//
// # Outputs
//
//   - []float64: Proportions summing to 1.
//   - error: ErrEmpty or ErrNonPositive.
func Close(parts []float64) ([]float64, error) {
	if err := checkParts(parts); err != nil {
		return nil, err
	}
	out := make([]float64, len(parts))
	copy(out, parts)
	floats.Scale(1/floats.Sum(out), out)
	return out, nil
}

// ALR returns log(x_i / x_D) for i < D.
//
// A single-part composition maps to an empty vector.
func ALR(parts []float64) ([]float64, error) {
	if err := checkParts(parts); err != nil {
		return nil, err
	}
	d := len(parts) - 1
	ref := math.Log(parts[d])
	out := make([]float64, d)
	for i := 0; i < d; i++ {
		out[i] = math.Log(parts[i]) - ref
	}
	return out, nil
}

// InverseALR maps ALR coordinates back to a closed composition of
// len(coords)+1 parts. An empty coordinate vector yields [1].
func InverseALR(coords []float64) []float64 {
	// The reference part has an implicit coordinate of 0.
	out := make([]float64, len(coords)+1)
	copy(out, coords)
	softmax(out)
	return out
}

// CLR returns log(x_i / g(x)) where g is the geometric mean of the parts.
func CLR(parts []float64) ([]float64, error) {
	if err := checkParts(parts); err != nil {
		return nil, err
	}
	out := make([]float64, len(parts))
	for i, p := range parts {
		out[i] = math.Log(p)
	}
	mean := floats.Sum(out) / float64(len(out))
	floats.AddConst(-mean, out)
	return out, nil
}

// InverseCLR maps CLR coordinates back to a closed composition.
func InverseCLR(coords []float64) ([]float64, error) {
	if len(coords) == 0 {
		return nil, ErrEmpty
	}
	out := make([]float64, len(coords))
	copy(out, coords)
	softmax(out)
	return out, nil
}

// softmax exponentiates v in place and closes it. The maximum is subtracted
// first so large coordinates do not overflow.
func softmax(v []float64) {
	m := floats.Max(v)
	for i := range v {
		v[i] = math.Exp(v[i] - m)
	}
	floats.Scale(1/floats.Sum(v), v)
}

func checkParts(parts []float64) error {
	if len(parts) == 0 {
		return ErrEmpty
	}
	for i, p := range parts {
		if !(p > 0) || math.IsInf(p, 1) {
			return fmt.Errorf("%w: part %d is %v", ErrNonPositive, i, p)
		}
	}
	return nil
}
