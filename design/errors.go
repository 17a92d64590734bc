// SPDX-License-Identifier: MIT
// Package design: sentinel error set shared by every compilation stage.
// Callers branch on these with errors.Is; context is attached by wrapping
// with fmt.Errorf("ctx: %w", ErrX).

package design

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStudyDesign marks malformed or incomplete input: empty factor
	// or category lists, a missing covariance for a declared dimension, a
	// non-square covariance blob, a missing required matrix.
	ErrInvalidStudyDesign = errors.New("design: invalid study design")

	// ErrUnsupportedHypothesis marks a hypothesis/trend combination with no
	// implemented rule, including a trend degree the factor cannot provide.
	ErrUnsupportedHypothesis = errors.New("design: unsupported hypothesis")

	// ErrShapeMismatch marks dimension conflicts between blocks, or between
	// the compiled matrices after every expansion.
	ErrShapeMismatch = errors.New("design: shape mismatch")
)

// Errorf wraps a sentinel with a formatted context message, keeping the
// sentinel reachable through errors.Is.
func Errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}
