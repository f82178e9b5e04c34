// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package synth generates synthetic geochemical datasets.
//
// Two generators are provided:
//
//   - GenerateComposition draws major-oxide / trace-element compositions
//     from a multivariate normal in log-ratio space and appends a simulated
//     Sr87/Sr86 isotope ratio.
//   - GenerateCounts simulates Poisson counting statistics for a set of
//     isotope channels held at a constant log-ratio bias.
//
// # Randomness
//
// Neither generator touches process-wide random state. Each call takes
// either a Seed (fully reproducible), a caller-owned Source handle, or
// neither (fresh entropy on every call):
//
//	a, _ := synth.GenerateCounts(synth.DefaultCountParams())
//	b, _ := synth.GenerateCounts(synth.DefaultCountParams())
//	a.Equal(b) // true: DefaultCountParams carries seed 14
//
// # Errors
//
// Malformed inputs return an error wrapping ErrInvalidParameter. Failures
// from the numeric libraries are returned unchanged.
//
// # Thread Safety
//
// All functions are safe for concurrent use provided callers do not share a
// Source between concurrent calls.
package synth
