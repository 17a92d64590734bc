// SPDX-License-Identifier: MIT

package compiler

import (
	"github.com/katalvlaran/glmmc/contrast"
	"github.com/katalvlaran/glmmc/design"
	"github.com/katalvlaran/glmmc/matrix"
)

// checkHypothesis rejects combinations no contrast rule covers. MAIN_EFFECT
// and TREND test at most one factor or dimension; with none mapped both C
// and U fall back to the grand mean. INTERACTION is only answered when the
// grand-mean fallback is enabled.
func checkHypothesis(h *design.Hypothesis, o Options) error {
	if h == nil {
		return nil
	}
	mapped := len(h.BetweenMappings) + len(h.WithinMappings)

	switch h.Type {
	case design.HypothesisMainEffect, design.HypothesisTrend:
		if mapped > 1 {
			return design.Errorf(design.ErrUnsupportedHypothesis, "%s tests one factor, got %d", h.Type, mapped)
		}
		return nil
	case design.HypothesisInteraction:
		if !o.InteractionGrandMean {
			return design.Errorf(design.ErrUnsupportedHypothesis, "interaction contrasts are not derived; enable the grand-mean fallback")
		}
		return nil
	default:
		return design.Errorf(design.ErrUnsupportedHypothesis, "hypothesis type %q", h.Type)
	}
}

// betweenContrast builds C. Without a between mapping the hypothesis is
// about the within side only and C is the grand mean.
func betweenContrast(h *design.Hypothesis, factors []contrast.Factor, o Options) (*matrix.Dense, error) {
	if h == nil || len(h.BetweenMappings) == 0 {
		return contrast.GrandMeanBetween(factors)
	}

	switch h.Type {
	case design.HypothesisMainEffect:
		return contrast.MainEffectBetween(h.BetweenMappings[0].Name, factors)
	case design.HypothesisTrend:
		return contrast.TrendBetween(h.BetweenMappings[0].Name, factors, h.TrendOrNone())
	case design.HypothesisInteraction:
		return contrast.InteractionBetween(mappingNames(h.BetweenMappings), factors, o.InteractionGrandMean)
	default:
		return nil, design.Errorf(design.ErrUnsupportedHypothesis, "hypothesis type %q", h.Type)
	}
}

// withinContrast builds U before cluster expansion. Without a within
// mapping U is the grand mean over the repeated measures.
func withinContrast(h *design.Hypothesis, factors []contrast.Factor, responses int, o Options) (*matrix.Dense, error) {
	if h == nil || len(h.WithinMappings) == 0 {
		return contrast.GrandMeanWithin(factors, responses)
	}

	switch h.Type {
	case design.HypothesisMainEffect:
		return contrast.MainEffectWithin(h.WithinMappings[0].Name, factors, responses)
	case design.HypothesisTrend:
		return contrast.TrendWithin(h.WithinMappings[0].Name, factors, h.TrendOrNone(), responses)
	case design.HypothesisInteraction:
		return contrast.InteractionWithin(mappingNames(h.WithinMappings), factors, responses, o.InteractionGrandMean)
	default:
		return nil, design.Errorf(design.ErrUnsupportedHypothesis, "hypothesis type %q", h.Type)
	}
}

func mappingNames(ms []design.FactorMapping) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}

	return out
}
