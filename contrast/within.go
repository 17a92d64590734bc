// SPDX-License-Identifier: MIT

package contrast

import (
	"github.com/katalvlaran/glmmc/design"
	"github.com/katalvlaran/glmmc/matrix"
)

// The within-participant builders produce U in column form: the row-form
// fold over the repeated-measures dimensions is transposed and then
// Kronecker'd with I_p, so rows run dimension-major, response-minor, the
// same order as the repeated ⊗ response part of Σ.

// GrandMeanWithin averages over every repeated-measures cell, per response.
// With no repeated-measures dimensions it is I_p.
func GrandMeanWithin(factors []Factor, responses int) (*matrix.Dense, error) {
	if len(factors) == 0 {
		one, err := matrix.NewIdentity(1)
		if err != nil {
			return nil, err
		}
		return withinColumns(one, responses)
	}
	if err := validateFactors(factors); err != nil {
		return nil, err
	}
	if err := validateResponses(responses); err != nil {
		return nil, err
	}
	n := 1
	for _, f := range factors {
		n *= f.Levels()
	}
	col, err := matrix.AveragingColumn(n)
	if err != nil {
		return nil, err
	}
	id, err := matrix.NewIdentity(responses)
	if err != nil {
		return nil, err
	}

	return matrix.Kronecker(col, id)
}

// MainEffectWithin is the column-form main-effect contrast over the named
// repeated-measures dimension.
func MainEffectWithin(name string, factors []Factor, responses int) (*matrix.Dense, error) {
	if err := validateResponses(responses); err != nil {
		return nil, err
	}
	row, err := MainEffectBetween(name, factors)
	if err != nil {
		return nil, err
	}

	return withinColumns(row, responses)
}

// TrendWithin is the column-form trend contrast over the named dimension,
// evaluated at the dimension's own level spacing.
func TrendWithin(name string, factors []Factor, trend design.TrendType, responses int) (*matrix.Dense, error) {
	if err := validateResponses(responses); err != nil {
		return nil, err
	}
	row, err := TrendBetween(name, factors, trend)
	if err != nil {
		return nil, err
	}

	return withinColumns(row, responses)
}

// InteractionWithin mirrors InteractionBetween for repeated measures.
func InteractionWithin(names []string, factors []Factor, responses int, grandMeanFallback bool) (*matrix.Dense, error) {
	for _, n := range names {
		if _, err := indexOf(n, factors); err != nil {
			return nil, err
		}
	}
	if !grandMeanFallback {
		return nil, design.Errorf(design.ErrUnsupportedHypothesis, "within-participant interaction of %v", names)
	}

	return GrandMeanWithin(factors, responses)
}

func validateResponses(responses int) error {
	if responses < 1 {
		return design.Errorf(design.ErrInvalidStudyDesign, "%d responses", responses)
	}

	return nil
}

// withinColumns transposes a row-form contrast and replicates it per response.
func withinColumns(rowForm matrix.Matrix, responses int) (*matrix.Dense, error) {
	if err := validateResponses(responses); err != nil {
		return nil, err
	}
	cols, err := matrix.Transpose(rowForm)
	if err != nil {
		return nil, err
	}
	id, err := matrix.NewIdentity(responses)
	if err != nil {
		return nil, err
	}

	return matrix.Kronecker(cols, id)
}
