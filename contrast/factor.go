// SPDX-License-Identifier: MIT

package contrast

import (
	"fmt"

	"github.com/katalvlaran/glmmc/design"
	"github.com/katalvlaran/glmmc/matrix"
)

// Factor is one axis of the cell layout. Its level count is len(Spacing);
// Spacing also positions the levels for trend contrasts.
type Factor struct {
	Name    string
	Spacing []float64
}

// Levels returns the number of levels of f.
func (f Factor) Levels() int { return len(f.Spacing) }

// BetweenFactors maps between-participant factors to equally spaced
// Factors (0, 1, …, k−1), in design order.
func BetweenFactors(fs []design.BetweenParticipantFactor) []Factor {
	out := make([]Factor, len(fs))
	for i, f := range fs {
		spacing := make([]float64, len(f.Categories))
		for k := range spacing {
			spacing[k] = float64(k)
		}
		out[i] = Factor{Name: f.Name, Spacing: spacing}
	}

	return out
}

// WithinFactors maps repeated-measures dimensions to Factors that keep each
// dimension's own level spacing, in tree order.
func WithinFactors(rms []design.RepeatedMeasuresNode) []Factor {
	out := make([]Factor, len(rms))
	for i, rm := range rms {
		spacing := make([]float64, len(rm.LevelSpacing))
		copy(spacing, rm.LevelSpacing)
		out[i] = Factor{Name: rm.DimensionName, Spacing: spacing}
	}

	return out
}

// indexOf returns the position of the named factor.
func indexOf(name string, factors []Factor) (int, error) {
	for i, f := range factors {
		if f.Name == name {
			return i, nil
		}
	}

	return -1, design.Errorf(design.ErrInvalidStudyDesign, "unknown factor %q", name)
}

func validateFactors(factors []Factor) error {
	if len(factors) == 0 {
		return design.Errorf(design.ErrInvalidStudyDesign, "empty factor list")
	}
	for _, f := range factors {
		if f.Levels() == 0 {
			return design.Errorf(design.ErrInvalidStudyDesign, "factor %q has no levels", f.Name)
		}
	}

	return nil
}

// deviationContrast returns [1_df | −I_df], df = k−1, comparing the first
// level against each other level.
func deviationContrast(k int) (*matrix.Dense, error) {
	df := k - 1
	m, err := matrix.NewDense(df, k)
	if err != nil {
		return nil, fmt.Errorf("deviation contrast for %d levels: %w", k, err)
	}
	for i := 0; i < df; i++ {
		if err = m.Set(i, 0, 1); err != nil {
			return nil, err
		}
		if err = m.Set(i, i+1, -1); err != nil {
			return nil, err
		}
	}

	return m, nil
}
