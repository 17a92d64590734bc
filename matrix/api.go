// SPDX-License-Identifier: MIT
// Package matrix: public constructors for structured matrices.
//
// Purpose:
//   - Provide thin, intention-revealing entry points for the constant and
//     identity matrices that contrast and covariance builders compose.
//   - Avoid any logic duplication; each facade delegates to NewDense/Set.
//
// Determinism & Policy:
//   - Fixed loop orders; every constructor validates its shape first.

package matrix

import "fmt"

const opFilled = "NewFilled"

// NewZeros returns a new zero-initialized *Dense of size rows×cols.
// It is a thin alias of NewDense with an intention-revealing name.
//
// Note: Returns (*Dense, error) to surface ErrInvalidDimensions.
func NewZeros(rows, cols int) (*Dense, error) {
	// Delegate directly to the strict constructor (single allocation).
	return NewDense(rows, cols)
}

// NewIdentity returns I_n (n×n identity; ones on the diagonal, zeros elsewhere).
// Determinism: fixed i-loop; single write per diagonal cell.
// Complexity: O(n^2) zeroing (constructor) + O(n) writes on the diagonal.
func NewIdentity(n int) (*Dense, error) {
	I, err := NewDense(n, n)
	if err != nil {
		return nil, err // propagate constructor error unchanged
	}
	for i := 0; i < n; i++ {
		I.data[i*n+i] = 1.0
	}

	return I, nil
}

// NewFilled returns a rows×cols matrix with every entry equal to v.
// Errors: ErrInvalidDimensions, ErrNaNInf (non-finite v).
// Complexity: O(rows*cols).
func NewFilled(rows, cols int, v float64) (*Dense, error) {
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	if err = m.Apply(func(_, _ int, _ float64) float64 { return v }); err != nil {
		return nil, fmt.Errorf("%s: %w", opFilled, err)
	}

	return m, nil
}

// OnesRow returns the 1×n row of ones.
func OnesRow(n int) (*Dense, error) { return NewFilled(1, n, 1) }

// OnesColumn returns the n×1 column of ones.
func OnesColumn(n int) (*Dense, error) { return NewFilled(n, 1, 1) }

// AveragingRow returns the 1×n row filled with 1/n.
// Multiplying a cell vector by it averages over the n levels.
func AveragingRow(n int) (*Dense, error) {
	if n <= 0 {
		return nil, ErrInvalidDimensions
	}

	return NewFilled(1, n, 1/float64(n))
}

// AveragingColumn returns the n×1 column filled with 1/n.
func AveragingColumn(n int) (*Dense, error) {
	if n <= 0 {
		return nil, ErrInvalidDimensions
	}

	return NewFilled(n, 1, 1/float64(n))
}
