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

import "math/rand/v2"

// seedStream is mixed into the second PCG word so a seed of 0 still yields a
// well-spread stream.
const seedStream = 0x9e3779b97f4a7c15

// NewSource returns a deterministic random source for seed.
//
// Two sources built from the same seed produce the same sequence, which is
// what makes seeded generator calls reproducible.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^seedStream)
}

// Seed returns a pointer to seed, for filling the optional Seed fields of
// generator params.
func Seed(seed uint64) *uint64 {
	return &seed
}

// stageStride separates the PCG streams of successive seeded stages.
const stageStride = 0xbf58476d1ce4e5b9

// sourcer hands out the random sources for one generator call.
//
// Resolution order:
//  1. A caller-supplied Source is shared by every stage, in draw order.
//  2. A Seed gives each stage its own stream built from that seed. The first
//     stage matches NewSource(seed); later stages use distinct streams so
//     their draws never replay an earlier stage.
//  3. Otherwise each stage gets a source seeded from the runtime's
//     goroutine-safe entropy.
type sourcer struct {
	src   rand.Source
	seed  *uint64
	stage uint64
}

func newSourcer(src rand.Source, seed *uint64) *sourcer {
	return &sourcer{src: src, seed: seed}
}

func (s *sourcer) next() rand.Source {
	switch {
	case s.src != nil:
		return s.src
	case s.seed != nil:
		stage := s.stage
		s.stage++
		return rand.NewPCG(*s.seed, (*s.seed^seedStream)+stage*stageStride)
	default:
		return rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
}
