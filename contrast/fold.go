// SPDX-License-Identifier: MIT

// Package contrast - the left-to-right factor fold.
//
// Every contrast is assembled in row form: one operand per factor, in cell
// order, combined left to right. The factor under test contributes its
// effect/trend rows; every other factor contributes a 1×m averaging row and
// is marginalized out. Operands with equal row counts are combined with the
// row-wise direct product. When one side has a single row the direct
// product is taken against that row broadcast to every row of the other
// side, which is exactly the Kronecker product of the two.

package contrast

import (
	"fmt"

	"github.com/katalvlaran/glmmc/design"
	"github.com/katalvlaran/glmmc/matrix"
)

// fold combines the per-factor operands, using effect at position focus.
func fold(factors []Factor, focus int, effect matrix.Matrix) (*matrix.Dense, error) {
	var acc *matrix.Dense
	var op matrix.Matrix
	var err error
	for i, f := range factors {
		if i == focus {
			op = effect
		} else if op, err = matrix.AveragingRow(f.Levels()); err != nil {
			return nil, fmt.Errorf("factor %q: %w", f.Name, err)
		}
		if acc, err = combine(acc, op); err != nil {
			return nil, fmt.Errorf("factor %q: %w", f.Name, err)
		}
	}

	return acc, nil
}

// combine folds op into acc; a nil acc starts the fold with a copy of op.
func combine(acc *matrix.Dense, op matrix.Matrix) (*matrix.Dense, error) {
	if acc == nil {
		return matrix.KroneckerAll(op)
	}
	switch {
	case acc.Rows() == op.Rows():
		return matrix.DirectProduct(acc, op)
	case acc.Rows() == 1 || op.Rows() == 1:
		return matrix.Kronecker(acc, op)
	default:
		return nil, design.Errorf(design.ErrShapeMismatch, "cannot fold %d contrast rows with %d", acc.Rows(), op.Rows())
	}
}

// trendRows returns the row-form contrast a trend selects for f.
// TrendNone is handled by the callers through the main-effect path.
func trendRows(f Factor, trend design.TrendType) (*matrix.Dense, error) {
	k := f.Levels()

	switch trend {
	case design.TrendChangeFromBaseline:
		// k×1 column, −1 at the first and the last level, as a row.
		row, err := matrix.NewDense(1, k)
		if err != nil {
			return nil, err
		}
		if err = row.Set(0, 0, -1); err != nil {
			return nil, err
		}
		if err = row.Set(0, k-1, -1); err != nil {
			return nil, err
		}
		return row, nil

	case design.TrendAllPolynomial, design.TrendLinear, design.TrendQuadratic, design.TrendCubic:
		if k < 2 {
			return nil, design.Errorf(design.ErrUnsupportedHypothesis, "trend %s needs at least 2 levels of %q", trend, f.Name)
		}
		maxDegree := k - 1
		if maxDegree > matrix.MaxPolynomialDegree {
			maxDegree = matrix.MaxPolynomialDegree
		}
		all, err := matrix.OrthogonalPolynomialCoefficients(f.Spacing, maxDegree)
		if err != nil {
			return nil, fmt.Errorf("factor %q: %w: %w", f.Name, design.ErrInvalidStudyDesign, err)
		}
		selected := all
		if trend != design.TrendAllPolynomial {
			degree := trendDegree(trend)
			if degree > all.Cols() {
				return nil, design.Errorf(design.ErrUnsupportedHypothesis, "trend %s unavailable for %d levels of %q", trend, k, f.Name)
			}
			if selected, err = all.Column(degree - 1); err != nil {
				return nil, err
			}
		}
		rows, err := matrix.Transpose(selected)
		if err != nil {
			return nil, err
		}
		return rows.(*matrix.Dense), nil

	default:
		return nil, design.Errorf(design.ErrUnsupportedHypothesis, "trend %q", trend)
	}
}

func trendDegree(trend design.TrendType) int {
	switch trend {
	case design.TrendLinear:
		return 1
	case design.TrendQuadratic:
		return 2
	default:
		return 3
	}
}
