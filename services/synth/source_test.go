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
	"testing"

	"github.com/stretchr/testify/assert"
)

func draws(src interface{ Uint64() uint64 }, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = src.Uint64()
	}
	return out
}

func TestSourcer_SeededStagesAreDistinct(t *testing.T) {
	s := newSourcer(nil, Seed(5))
	first := draws(s.next(), 8)
	second := draws(s.next(), 8)

	assert.Equal(t, draws(NewSource(5), 8), first)
	assert.NotEqual(t, first, second)

	again := newSourcer(nil, Seed(5))
	again.next()
	assert.Equal(t, second, draws(again.next(), 8))
}

func TestSourcer_SharedSource(t *testing.T) {
	src := NewSource(1)
	s := newSourcer(src, Seed(5))
	assert.Same(t, src, s.next())
	assert.Same(t, src, s.next())
}
