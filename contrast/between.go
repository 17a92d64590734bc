// SPDX-License-Identifier: MIT

package contrast

import (
	"fmt"

	"github.com/katalvlaran/glmmc/design"
	"github.com/katalvlaran/glmmc/matrix"
)

// GrandMeanBetween returns the 1×Π row filled with 1/Π, Π being the
// product of level counts. It averages over every cell.
func GrandMeanBetween(factors []Factor) (*matrix.Dense, error) {
	if err := validateFactors(factors); err != nil {
		return nil, err
	}
	n := 1
	for _, f := range factors {
		n *= f.Levels()
	}

	return matrix.AveragingRow(n)
}

// MainEffectBetween returns the C contrast testing the main effect of the
// named factor: the deviation contrast [1 | −I] at that factor, averaging
// rows elsewhere. A single-level factor has nothing to test and yields the
// grand mean.
//
// Example: one factor with 3 levels gives [[1,−1,0],[1,0,−1]].
func MainEffectBetween(name string, factors []Factor) (*matrix.Dense, error) {
	if err := validateFactors(factors); err != nil {
		return nil, err
	}
	focus, err := indexOf(name, factors)
	if err != nil {
		return nil, err
	}
	k := factors[focus].Levels()
	if k == 1 {
		return GrandMeanBetween(factors)
	}

	effect, err := deviationContrast(k)
	if err != nil {
		return nil, err
	}
	c, err := fold(factors, focus, effect)
	if err != nil {
		return nil, fmt.Errorf("main effect %q: %w", name, err)
	}

	return c, nil
}

// TrendBetween returns the C contrast testing a trend across the levels of
// the named factor. NONE falls back to the main-effect contrast; every
// other trend is folded with the remaining factors the same way.
//
// Errors: design.ErrUnsupportedHypothesis when the requested polynomial
// degree exceeds what the factor's level count provides.
func TrendBetween(name string, factors []Factor, trend design.TrendType) (*matrix.Dense, error) {
	if trend == design.TrendNone || trend == "" {
		return MainEffectBetween(name, factors)
	}
	if err := validateFactors(factors); err != nil {
		return nil, err
	}
	focus, err := indexOf(name, factors)
	if err != nil {
		return nil, err
	}

	rows, err := trendRows(factors[focus], trend)
	if err != nil {
		return nil, err
	}
	c, err := fold(factors, focus, rows)
	if err != nil {
		return nil, fmt.Errorf("trend %s of %q: %w", trend, name, err)
	}

	return c, nil
}

// InteractionBetween is the between-participant interaction contrast.
// There is no general construction for it: without grandMeanFallback it
// fails with design.ErrUnsupportedHypothesis, with it the grand mean is
// returned.
func InteractionBetween(names []string, factors []Factor, grandMeanFallback bool) (*matrix.Dense, error) {
	for _, n := range names {
		if _, err := indexOf(n, factors); err != nil {
			return nil, err
		}
	}
	if !grandMeanFallback {
		return nil, design.Errorf(design.ErrUnsupportedHypothesis, "between-participant interaction of %v", names)
	}

	return GrandMeanBetween(factors)
}
