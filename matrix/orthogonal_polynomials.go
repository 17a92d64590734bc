// SPDX-License-Identifier: MIT

// Package matrix - orthogonal polynomial contrasts at arbitrary spacing.
//
// Purpose:
//   - Produce trend contrasts (linear, quadratic, cubic) for equally or
//     unequally spaced levels.
//
// Implementation:
//   - Stage 1: validate points (≥2, finite, distinct) and cap the degree at
//     min(maxDegree, MaxPolynomialDegree, n-1).
//   - Stage 2: build the centered Vandermonde matrix [1, x, x², …, x^d].
//   - Stage 3: Householder QR (gonum); columns 1..d of Q are the orthonormal
//     polynomials. Column p is flipped when R[p,p] < 0, which is exactly the
//     Gram–Schmidt sign convention (positive leading coefficient).
//
// Every returned column is orthogonal to the constant column, so it sums to
// zero across levels, and has unit Euclidean norm.

package matrix

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// MaxPolynomialDegree is the highest trend degree produced (cubic).
const MaxPolynomialDegree = 3

const opOrthoPoly = "OrthogonalPolynomialCoefficients"

// OrthogonalPolynomialCoefficients returns an n×d matrix whose column p-1
// holds the degree-p orthonormal polynomial contrast evaluated at spacing,
// with d = min(maxDegree, MaxPolynomialDegree, n-1).
//
// Errors:
//   - ErrInvalidDimensions when n < 2 or maxDegree < 1.
//   - ErrInvalidSpacing when values repeat or are not finite.
//
// Complexity:
//   - Time O(n·d²) for the QR, Space O(n²) for the explicit Q.
func OrthogonalPolynomialCoefficients(spacing []float64, maxDegree int) (*Dense, error) {
	n := len(spacing)
	if n < 2 || maxDegree < 1 {
		return nil, matrixErrorf(opOrthoPoly, ErrInvalidDimensions)
	}
	if err := validateSpacing(spacing); err != nil {
		return nil, matrixErrorf(opOrthoPoly, err)
	}

	d := maxDegree
	if d > MaxPolynomialDegree {
		d = MaxPolynomialDegree
	}
	if d > n-1 {
		d = n - 1
	}

	// Centered points keep the Vandermonde columns well conditioned.
	var mean float64
	for _, x := range spacing {
		mean += x
	}
	mean /= float64(n)

	vander := mat.NewDense(n, d+1, nil)
	var i, p int
	var xc, pow float64
	for i = 0; i < n; i++ {
		xc = spacing[i] - mean
		pow = 1
		for p = 0; p <= d; p++ {
			vander.Set(i, p, pow)
			pow *= xc
		}
	}

	var qr mat.QR
	qr.Factorize(vander)
	var q, r mat.Dense
	qr.QTo(&q)
	qr.RTo(&r)

	res, err := NewDense(n, d)
	if err != nil {
		return nil, matrixErrorf(opOrthoPoly, err)
	}
	var sign, rpp float64
	for p = 1; p <= d; p++ {
		rpp = r.At(p, p)
		if math.Abs(rpp) <= DefaultEpsilon {
			return nil, matrixErrorf(opOrthoPoly, fmt.Errorf("degree %d is rank deficient: %w", p, ErrInvalidSpacing))
		}
		sign = 1
		if rpp < 0 {
			sign = -1
		}
		for i = 0; i < n; i++ {
			res.data[i*d+(p-1)] = sign * q.At(i, p)
		}
	}

	return res, nil
}

// validateSpacing rejects non-finite or repeated evaluation points.
func validateSpacing(spacing []float64) error {
	sorted := make([]float64, len(spacing))
	copy(sorted, spacing)
	sort.Float64s(sorted)
	for i, v := range sorted {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidSpacing
		}
		if i > 0 && v == sorted[i-1] {
			return ErrInvalidSpacing
		}
	}

	return nil
}
