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
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is returned when generator inputs have the wrong
	// shape, length, sign or value. Use errors.Is to test for it.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDegenerateInterval is returned by GenerateCounts when every channel
	// of a counting interval drew zero counts, leaving nothing to normalise.
	ErrDegenerateInterval = errors.New("counting interval has zero total signal")
)

// invalidf wraps ErrInvalidParameter with a formatted reason.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}
