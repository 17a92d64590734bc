// SPDX-License-Identifier: MIT

// Package covariance - correlation models.
//
// Purpose:
//   - CompoundSymmetric: exchangeable correlation, used for every cluster level.
//   - DistanceDecayCorrelation: the Lear model for unequally spaced repeated
//     measurements, rho(i,j) = base^(minGap + decay·(|s_i−s_j| − minGap)/range).

package covariance

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/glmmc/matrix"
)

const (
	opCompoundSymmetric = "CompoundSymmetric"
	opDistanceDecay     = "DistanceDecayCorrelation"
	opDistanceDecayMat  = "DistanceDecayMatrix"
)

// CompoundSymmetric returns the n×n matrix with 1 on the diagonal and rho
// everywhere else. rho is not range checked here; study-design validation
// and FromDescriptor reject values outside [-1, 1].
//
// Errors: matrix.ErrInvalidDimensions when n < 1, matrix.ErrNaNInf for a
// non-finite rho.
func CompoundSymmetric(n int, rho float64) (*matrix.Dense, error) {
	m, err := matrix.NewFilled(n, n, rho)
	if err != nil {
		return nil, covErrorf(opCompoundSymmetric, err)
	}
	for i := 0; i < n; i++ {
		if err = m.Set(i, i, 1); err != nil {
			return nil, covErrorf(opCompoundSymmetric, err)
		}
	}

	return m, nil
}

// DistanceDecayCorrelation returns the Lear correlation between levels i
// and j of spacing.
//
// minGap is the smallest gap between consecutive sorted spacing values and
// maxGap is |spacing[last] − spacing[0]|. Their difference is the range,
// taken as 1 when it is 0 (two points). The diagonal is always 1.
//
// Errors: ErrInvalidArgument when len(spacing) < 2, i or j is out of range,
// base ∉ [−1, 1] or decay < 0.
func DistanceDecayCorrelation(spacing []float64, i, j int, base, decay float64) (float64, error) {
	n := len(spacing)
	if n < 2 {
		return 0, covErrorf(opDistanceDecay, fmt.Errorf("need at least 2 spacing values, got %d: %w", n, ErrInvalidArgument))
	}
	if i < 0 || i >= n || j < 0 || j >= n {
		return 0, covErrorf(opDistanceDecay, fmt.Errorf("index (%d,%d) outside %d levels: %w", i, j, n, ErrInvalidArgument))
	}
	if base < -1 || base > 1 || math.IsNaN(base) {
		return 0, covErrorf(opDistanceDecay, fmt.Errorf("base correlation %g: %w", base, ErrInvalidArgument))
	}
	if decay < 0 || math.IsNaN(decay) || math.IsInf(decay, 0) {
		return 0, covErrorf(opDistanceDecay, fmt.Errorf("decay rate %g: %w", decay, ErrInvalidArgument))
	}
	if i == j {
		return 1, nil
	}

	minGap, rng := learGaps(spacing)
	distance := math.Abs(spacing[i] - spacing[j])
	exponent := minGap + decay*(distance-minGap)/rng

	return math.Pow(base, exponent), nil
}

// learGaps returns minGap and the range maxGap − minGap (1 when zero).
func learGaps(spacing []float64) (minGap, rng float64) {
	sorted := make([]float64, len(spacing))
	copy(sorted, spacing)
	sort.Float64s(sorted)

	minGap = math.Inf(1)
	for k := 1; k < len(sorted); k++ {
		if gap := sorted[k] - sorted[k-1]; gap < minGap {
			minGap = gap
		}
	}
	maxGap := math.Abs(spacing[len(spacing)-1] - spacing[0])
	rng = maxGap - minGap
	if rng == 0 {
		rng = 1
	}

	return minGap, rng
}

// DistanceDecayMatrix returns the full n×n Lear correlation matrix.
//
// Errors: as DistanceDecayCorrelation; ErrInvalidArgument as well when a
// negative base meets a fractional exponent and the correlation is not real.
func DistanceDecayMatrix(spacing []float64, base, decay float64) (*matrix.Dense, error) {
	n := len(spacing)
	if n < 2 {
		return nil, covErrorf(opDistanceDecayMat, fmt.Errorf("need at least 2 spacing values, got %d: %w", n, ErrInvalidArgument))
	}
	m, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, covErrorf(opDistanceDecayMat, err)
	}

	var i, j int
	var rho float64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if rho, err = DistanceDecayCorrelation(spacing, i, j, base, decay); err != nil {
				return nil, covErrorf(opDistanceDecayMat, err)
			}
			if math.IsNaN(rho) {
				return nil, covErrorf(opDistanceDecayMat, fmt.Errorf("correlation (%d,%d) is not real: %w", i, j, ErrInvalidArgument))
			}
			if err = m.Set(i, j, rho); err != nil {
				return nil, covErrorf(opDistanceDecayMat, err)
			}
		}
	}

	return m, nil
}
