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
	"math"
	"math/rand/v2"
	"strings"

	"github.com/AleutianAI/synthlab/services/synth/compositional"
	"github.com/AleutianAI/synthlab/services/synth/elements"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// IsotopeColumn is the name of the simulated isotope-ratio column
	// appended to every composition table.
	IsotopeColumn = "Sr87/Sr86"

	// IsotopeRatio is the centre of the simulated isotope ratio.
	IsotopeRatio = 0.0700 / 0.0986

	// IsotopeNoise is the standard deviation of the isotope-ratio noise.
	IsotopeNoise = 0.0001

	// PercentScale converts closed proportions to wt%-style units.
	PercentScale = 100.0

	// TraceScale is applied on top of PercentScale to element columns so
	// they sit at ppm-like magnitudes next to the major oxides.
	TraceScale = 10.0

	// DefaultCompositionSize is the default number of rows.
	DefaultCompositionSize = 10

	// DefaultCompositionSeed is the seed DefaultCompositionParams uses.
	DefaultCompositionSeed = 24
)

// Bounds for eigenvalues of a randomly generated ALR covariance.
const (
	minCovEigen = 0.01
	maxCovEigen = 0.1
)

// DefaultCompositionColumns returns the default major-oxide and trace-element
// column set.
func DefaultCompositionColumns() []string {
	return []string{"CaO", "MgO", "SiO2", "FeO", "Na2O", "Ni", "Ti", "La", "Lu", "Te"}
}

// CompositionParams configures GenerateComposition.
type CompositionParams struct {
	// Columns are the component names, in output order. Required, unique.
	Columns []string `json:"columns"`

	// Size is the number of rows to draw. Must be positive.
	Size int `json:"size"`

	// Mean is an optional centre composition with one positive value per
	// column. It need not be closed. When nil a mean is drawn at random.
	Mean []float64 `json:"mean,omitempty"`

	// Cov is an optional (D-1)x(D-1) covariance matrix in ALR coordinates.
	// When nil a random positive definite covariance is drawn.
	Cov [][]float64 `json:"cov,omitempty"`

	// Seed makes the call reproducible. Ignored when Source is set.
	Seed *uint64 `json:"seed,omitempty"`

	// Source is an optional caller-owned random source. Every draw of the
	// call consumes it in order. It is not safe to share one Source between
	// concurrent calls.
	Source rand.Source `json:"-"`
}

// DefaultCompositionParams returns the default columns and seed.
func DefaultCompositionParams() CompositionParams {
	return CompositionParams{
		Columns: DefaultCompositionColumns(),
		Size:    DefaultCompositionSize,
		Seed:    Seed(DefaultCompositionSeed),
	}
}

// GenerateComposition draws a synthetic geochemical composition table.
//
// # Description
//
// Samples are drawn from a multivariate normal distribution in additive
// log-ratio space over the requested components, mapped back to the simplex
// and scaled by PercentScale. Columns that are bare element symbols are
// further scaled by TraceScale. Finally an IsotopeColumn is appended holding
// IsotopeRatio plus Gaussian noise with standard deviation IsotopeNoise.
// With a Seed the noise comes from its own stream, independent of the
// composition draws.
//
// # Inputs
//
//   - params: See CompositionParams. Columns must be non-empty.
//
// # Outputs
//
//   - *Table: Size rows; the requested columns followed by IsotopeColumn.
//   - error: Wraps ErrInvalidParameter for malformed params.
//
// # Example
//
//	tbl, err := synth.GenerateComposition(synth.CompositionParams{
//	    Columns: []string{"SiO2", "MgO", "Ni"},
//	    Size:    100,
//	    Seed:    synth.Seed(7),
//	})
//
// # Thread Safety
//
// Safe for concurrent use as long as callers do not share a Source.
func GenerateComposition(params CompositionParams) (*Table, error) {
	if err := validateColumns(params.Columns, 1); err != nil {
		return nil, err
	}
	for _, c := range params.Columns {
		if c == IsotopeColumn {
			return nil, invalidf("column %q is reserved for the isotope ratio", IsotopeColumn)
		}
	}
	size := params.Size
	if size <= 0 {
		return nil, invalidf("size must be positive, got %d", size)
	}

	srcs := newSourcer(params.Source, params.Seed)
	d := len(params.Columns)

	proportions, err := drawProportions(params, size, srcs.next())
	if err != nil {
		return nil, err
	}

	traceCols := make([]bool, d)
	for j, c := range params.Columns {
		traceCols[j] = elements.IsTraceElement(c)
	}

	columns := append(append([]string(nil), params.Columns...), IsotopeColumn)
	tbl := newTable(columns, size)
	for i, p := range proportions {
		row := tbl.Rows[i]
		for j, v := range p {
			v *= PercentScale
			if traceCols[j] {
				v *= TraceScale
			}
			row[j] = v
		}
	}

	noise := distuv.Normal{Mu: IsotopeRatio, Sigma: IsotopeNoise, Src: srcs.next()}
	for _, row := range tbl.Rows {
		row[d] = noise.Rand()
	}
	return tbl, nil
}

// drawProportions returns size closed compositions of len(params.Columns)
// parts.
func drawProportions(params CompositionParams, size int, src rand.Source) ([][]float64, error) {
	d := len(params.Columns)
	k := d - 1

	out := make([][]float64, size)
	if k == 0 {
		// A one-part composition is always [1].
		for i := range out {
			out[i] = []float64{1}
		}
		return out, nil
	}

	mu, err := alrMean(params.Mean, d, src)
	if err != nil {
		return nil, err
	}
	sigma, err := alrCov(params.Cov, k, src)
	if err != nil {
		return nil, err
	}
	mvn, ok := distmv.NewNormal(mu, sigma, src)
	if !ok {
		return nil, invalidf("covariance is not positive definite")
	}
	x := make([]float64, k)
	for i := range out {
		mvn.Rand(x)
		out[i] = compositional.InverseALR(x)
	}
	return out, nil
}

// alrMean returns the ALR-space mean, drawing one from N(0, 1) per coordinate
// when mean is nil.
func alrMean(mean []float64, d int, src rand.Source) ([]float64, error) {
	if mean == nil {
		std := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
		mu := make([]float64, d-1)
		for i := range mu {
			mu[i] = std.Rand()
		}
		return mu, nil
	}
	if len(mean) != d {
		return nil, invalidf("mean has %d values for %d columns", len(mean), d)
	}
	mu, err := compositional.ALR(mean)
	if err != nil {
		return nil, invalidf("mean: %v", err)
	}
	return mu, nil
}

// alrCov converts a caller covariance to a SymDense, or draws a random one
// as Q·diag(e)·Qᵀ with Q a random orthogonal basis and e uniform in
// [minCovEigen, maxCovEigen).
func alrCov(cov [][]float64, k int, src rand.Source) (*mat.SymDense, error) {
	if cov != nil {
		return symFromRows(cov, k)
	}

	std := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	a := mat.NewDense(k, k, nil)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			a.Set(i, j, std.Rand())
		}
	}
	var qr mat.QR
	qr.Factorize(a)
	var q mat.Dense
	qr.QTo(&q)

	eig := distuv.Uniform{Min: minCovEigen, Max: maxCovEigen, Src: src}
	e := make([]float64, k)
	for i := range e {
		e[i] = eig.Rand()
	}

	sym := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			var s float64
			for l := 0; l < k; l++ {
				s += q.At(i, l) * e[l] * q.At(j, l)
			}
			sym.SetSym(i, j, s)
		}
	}
	return sym, nil
}

func symFromRows(cov [][]float64, k int) (*mat.SymDense, error) {
	if len(cov) != k {
		return nil, invalidf("covariance must be %dx%d, got %d rows", k, k, len(cov))
	}
	for i, row := range cov {
		if len(row) != k {
			return nil, invalidf("covariance must be %dx%d, row %d has %d values", k, k, i, len(row))
		}
	}
	sym := mat.NewSymDense(k, nil)
	for i, row := range cov {
		for j := i; j < k; j++ {
			a, b := row[j], cov[j][i]
			if math.IsNaN(a) || math.IsInf(a, 0) {
				return nil, invalidf("covariance[%d][%d] is %v", i, j, a)
			}
			if math.Abs(a-b) > 1e-9*math.Max(1, math.Abs(a)) {
				return nil, invalidf("covariance is not symmetric at [%d][%d]", i, j)
			}
			sym.SetSym(i, j, a)
		}
	}
	return sym, nil
}

// validateColumns checks that there are at least minCols columns and that
// names are non-blank and unique.
func validateColumns(columns []string, minCols int) error {
	if len(columns) < minCols {
		if len(columns) == 0 {
			return invalidf("columns must not be empty")
		}
		return invalidf("need at least %d columns, got %d", minCols, len(columns))
	}
	seen := make(map[string]struct{}, len(columns))
	for i, c := range columns {
		if strings.TrimSpace(c) == "" {
			return invalidf("column %d has a blank name", i)
		}
		if _, dup := seen[c]; dup {
			return invalidf("duplicate column %q", c)
		}
		seen[c] = struct{}{}
	}
	return nil
}
