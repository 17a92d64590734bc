// SPDX-License-Identifier: MIT

package covariance

import (
	"fmt"

	"github.com/katalvlaran/glmmc/design"
	"github.com/katalvlaran/glmmc/matrix"
)

const opFromDescriptor = "FromDescriptor"

// FromDescriptor builds the size×size covariance block a descriptor
// describes. spacing gives the level positions for DISTANCE_DECAY; nil
// means equal spacing 0..size-1.
//
// Kinds:
//   - COMPOUND_SYMMETRIC: sd²·CompoundSymmetric(size, rho).
//   - DISTANCE_DECAY: sd²·DistanceDecayMatrix(spacing, base, decay). A
//     single level yields [sd²].
//   - STRUCTURED: diagonal sd_i², off-diagonal sd_i²·sd_j².
//   - UNSTRUCTURED: a copy of the blob.
//
// sd is StandardDeviations[0] (1 when absent) for the first two kinds.
//
// Errors:
//   - design.ErrShapeMismatch when the declared Size, the spacing length,
//     the per-level deviation count or the blob dimension differs from size.
//   - design.ErrInvalidStudyDesign for a missing parameter or blob, a
//     non-square blob, or correlation parameters outside their domain
//     (a compound-symmetric rho must lie in [-1, 1]).
func FromDescriptor(desc design.CovarianceDescriptor, size int, spacing []float64) (*matrix.Dense, error) {
	if size < 1 {
		return nil, covErrorf(opFromDescriptor, fmt.Errorf("dimension size %d: %w", size, design.ErrInvalidStudyDesign))
	}
	if desc.Size != 0 && desc.Size != size {
		return nil, covErrorf(opFromDescriptor, fmt.Errorf("declared size %d, dimension has %d levels: %w", desc.Size, size, design.ErrShapeMismatch))
	}

	switch desc.Kind {
	case design.CovarianceCompoundSymmetric:
		return compoundSymmetricCovariance(desc, size)
	case design.CovarianceDistanceDecay:
		return distanceDecayCovariance(desc, size, spacing)
	case design.CovarianceStructured:
		return structuredCovariance(desc, size)
	case design.CovarianceUnstructured:
		return unstructuredCovariance(desc, size)
	default:
		return nil, covErrorf(opFromDescriptor, fmt.Errorf("kind %q: %w", desc.Kind, design.ErrInvalidStudyDesign))
	}
}

// sharedVariance is StandardDeviations[0]², or 1 when no deviation is given.
func sharedVariance(desc design.CovarianceDescriptor) float64 {
	if len(desc.StandardDeviations) == 0 {
		return 1
	}
	sd := desc.StandardDeviations[0]

	return sd * sd
}

func compoundSymmetricCovariance(desc design.CovarianceDescriptor, size int) (*matrix.Dense, error) {
	if len(desc.CorrelationParams) < 1 {
		return nil, covErrorf(opFromDescriptor, fmt.Errorf("compound symmetric needs a correlation: %w", design.ErrInvalidStudyDesign))
	}
	rho := desc.CorrelationParams[0]
	if !(rho >= -1 && rho <= 1) {
		return nil, covErrorf(opFromDescriptor, fmt.Errorf("compound symmetric correlation %g outside [-1, 1]: %w", rho, design.ErrInvalidStudyDesign))
	}
	cs, err := CompoundSymmetric(size, rho)
	if err != nil {
		return nil, covErrorf(opFromDescriptor, fmt.Errorf("%w: %w", design.ErrInvalidStudyDesign, err))
	}

	return scaleDense(cs, sharedVariance(desc))
}

func distanceDecayCovariance(desc design.CovarianceDescriptor, size int, spacing []float64) (*matrix.Dense, error) {
	if len(desc.CorrelationParams) < 2 {
		return nil, covErrorf(opFromDescriptor, fmt.Errorf("distance decay needs base and decay: %w", design.ErrInvalidStudyDesign))
	}
	if spacing == nil {
		spacing = make([]float64, size)
		for i := range spacing {
			spacing[i] = float64(i)
		}
	}
	if len(spacing) != size {
		return nil, covErrorf(opFromDescriptor, fmt.Errorf("%d spacing values for %d levels: %w", len(spacing), size, design.ErrShapeMismatch))
	}
	variance := sharedVariance(desc)
	if size == 1 {
		return matrix.NewFilled(1, 1, variance)
	}

	corr, err := DistanceDecayMatrix(spacing, desc.CorrelationParams[0], desc.CorrelationParams[1])
	if err != nil {
		return nil, covErrorf(opFromDescriptor, fmt.Errorf("%w: %w", design.ErrInvalidStudyDesign, err))
	}

	return scaleDense(corr, variance)
}

// structuredCovariance squares each deviation and takes the outer product
// of the squared vector with itself, then restores sd_i² on the diagonal.
// The off-diagonal product of variances is kept as is.
func structuredCovariance(desc design.CovarianceDescriptor, size int) (*matrix.Dense, error) {
	sds := desc.StandardDeviations
	if len(sds) != size {
		return nil, covErrorf(opFromDescriptor, fmt.Errorf("%d standard deviations for %d levels: %w", len(sds), size, design.ErrShapeMismatch))
	}
	variances := make([]float64, size)
	for i, sd := range sds {
		variances[i] = sd * sd
	}
	col, err := matrix.NewDenseFrom(size, 1, variances)
	if err != nil {
		return nil, covErrorf(opFromDescriptor, fmt.Errorf("%w: %w", design.ErrInvalidStudyDesign, err))
	}
	row, err := matrix.NewDenseFrom(1, size, variances)
	if err != nil {
		return nil, covErrorf(opFromDescriptor, fmt.Errorf("%w: %w", design.ErrInvalidStudyDesign, err))
	}
	outer, err := matrix.Mul(col, row)
	if err != nil {
		return nil, covErrorf(opFromDescriptor, err)
	}
	for i, v := range variances {
		if err = outer.Set(i, i, v); err != nil {
			return nil, covErrorf(opFromDescriptor, err)
		}
	}

	return outer.(*matrix.Dense), nil
}

func unstructuredCovariance(desc design.CovarianceDescriptor, size int) (*matrix.Dense, error) {
	if desc.Blob == nil {
		return nil, covErrorf(opFromDescriptor, fmt.Errorf("unstructured covariance has no blob: %w", design.ErrInvalidStudyDesign))
	}
	if err := matrix.ValidateSquare(desc.Blob); err != nil {
		return nil, covErrorf(opFromDescriptor, fmt.Errorf("blob is %dx%d: %w", desc.Blob.Rows(), desc.Blob.Cols(), design.ErrInvalidStudyDesign))
	}
	if desc.Blob.Rows() != size {
		return nil, covErrorf(opFromDescriptor, fmt.Errorf("blob is %dx%d, dimension has %d levels: %w", desc.Blob.Rows(), desc.Blob.Cols(), size, design.ErrShapeMismatch))
	}

	return desc.Blob.Clone().(*matrix.Dense), nil
}

func scaleDense(m *matrix.Dense, alpha float64) (*matrix.Dense, error) {
	if alpha == 1 {
		return m, nil
	}
	scaled, err := matrix.Scale(m, alpha)
	if err != nil {
		return nil, covErrorf(opFromDescriptor, fmt.Errorf("%w: %w", design.ErrInvalidStudyDesign, err))
	}

	return scaled.(*matrix.Dense), nil
}
