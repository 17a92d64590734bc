// SPDX-License-Identifier: MIT

// Package compiler - GUIDED mode derivation.
//
// Row/column order everywhere is cluster-outer:
//
//	cluster member ⊗ repeated-measures cell ⊗ response
//
// which is the Kronecker order of Σ. B's columns, U's rows and the
// outcome×covariate cross term are all expanded to match it.

package compiler

import (
	"fmt"

	"github.com/katalvlaran/glmmc/contrast"
	"github.com/katalvlaran/glmmc/covariance"
	"github.com/katalvlaran/glmmc/design"
	"github.com/katalvlaran/glmmc/matrix"
)

func guided(d *design.StudyDesign, o Options) (*compiled, error) {
	if err := checkHypothesis(d.Hypothesis, o); err != nil {
		return nil, err
	}

	var (
		between   = contrast.BetweenFactors(d.BetweenFactors)
		within    = contrast.WithinFactors(d.RepeatedMeasures)
		responses = d.ResponseCount()
		nc        = d.TotalClusterSize()
		out       = &compiled{}
		err       error
	)

	// X: cell-means coding, no intercept.
	if out.x, err = matrix.NewIdentity(d.CellCount()); err != nil {
		return nil, fmt.Errorf("design: %w", err)
	}

	// B: caller-supplied coefficients, replicated per cluster member.
	if out.beta, err = expandedBeta(d, design.MatrixBeta, nc); err != nil {
		return nil, err
	}

	// C
	if out.c, err = betweenContrast(d.Hypothesis, between, o); err != nil {
		return nil, fmt.Errorf("between-subject contrast: %w", err)
	}

	// U
	u, err := withinContrast(d.Hypothesis, within, responses, o)
	if err != nil {
		return nil, fmt.Errorf("within-subject contrast: %w", err)
	}
	if out.u, err = contrast.ExpandWithinForClusters(u, nc); err != nil {
		return nil, fmt.Errorf("within-subject contrast: %w", err)
	}

	// Θ
	if out.theta, err = thetaOrZero(d, out.c, out.u); err != nil {
		return nil, err
	}

	// Σ
	sigma, err := errorCovariance(d)
	if err != nil {
		return nil, err
	}
	if !d.GaussianCovariate {
		out.sigmaError = sigma
		return out, nil
	}
	out.sigmaOutcome = sigma

	if out.betaRandom, err = expandedBeta(d, design.MatrixBetaRandom, nc); err != nil {
		return nil, err
	}
	// One random column per covariate, contributing nothing to the contrast.
	if out.cRandom, err = matrix.NewZeros(out.c.Rows(), out.betaRandom.Rows()); err != nil {
		return nil, err
	}
	if out.sigmaGaussianRandom, err = covariateVariance(d); err != nil {
		return nil, err
	}
	if out.sigmaOutcomeGaussianRandom, err = outcomeCovariateCovariance(d, nc); err != nil {
		return nil, err
	}

	return out, nil
}

func expandedBeta(d *design.StudyDesign, name string, nc int) (*matrix.Dense, error) {
	b, err := requireMatrix(d, name)
	if err != nil {
		return nil, err
	}
	expanded, err := contrast.ExpandColumnsForClusters(b, nc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return expanded, nil
}

// errorCovariance composes cluster ⊗ repeated ⊗ response. Every declared
// repeated-measures dimension and the response block need a descriptor.
func errorCovariance(d *design.StudyDesign) (*matrix.Dense, error) {
	clusters, err := covariance.ClusterBlocks(d.Clusters)
	if err != nil {
		return nil, err
	}

	repeated := make([]matrix.Matrix, 0, len(d.RepeatedMeasures))
	for _, rm := range d.RepeatedMeasures {
		desc, ok := d.Covariance(rm.DimensionName)
		if !ok {
			return nil, design.Errorf(design.ErrInvalidStudyDesign, "no covariance for dimension %q", rm.DimensionName)
		}
		block, err := covariance.FromDescriptor(desc, rm.Levels(), rm.LevelSpacing)
		if err != nil {
			return nil, fmt.Errorf("dimension %q: %w", rm.DimensionName, err)
		}
		repeated = append(repeated, block)
	}

	desc, ok := d.Covariance(design.ResponseCovarianceLabel)
	if !ok {
		return nil, design.Errorf(design.ErrInvalidStudyDesign, "no response covariance")
	}
	response, err := covariance.FromDescriptor(desc, d.ResponseCount(), nil)
	if err != nil {
		return nil, fmt.Errorf("response covariance: %w", err)
	}

	return covariance.AssembleErrorCovariance(clusters, repeated, response)
}

// covariateVariance is the 1×1 variance of the Gaussian covariate.
func covariateVariance(d *design.StudyDesign) (*matrix.Dense, error) {
	desc, ok := d.Covariance(design.CovariateCovarianceLabel)
	if !ok {
		return nil, design.Errorf(design.ErrInvalidStudyDesign, "no covariate variance")
	}
	v, err := covariance.FromDescriptor(desc, 1, nil)
	if err != nil {
		return nil, fmt.Errorf("covariate variance: %w", err)
	}

	return v, nil
}

// outcomeCovariateCovariance takes the caller's outcome×covariate
// covariance, given either per response (p rows) or per repeated cell and
// response (ΠRM·p rows). A per-response column is replicated across the
// repeated-measures cells; the result is then row-expanded per cluster
// member.
func outcomeCovariateCovariance(d *design.StudyDesign, nc int) (*matrix.Dense, error) {
	m, err := requireMatrix(d, design.MatrixSigmaOutcomeGaussianRandom)
	if err != nil {
		return nil, err
	}

	p, levels := d.ResponseCount(), d.RepeatedLevelCount()
	switch m.Rows() {
	case levels * p:
	case p:
		ones, err := matrix.OnesColumn(levels)
		if err != nil {
			return nil, err
		}
		if m, err = matrix.Kronecker(ones, m); err != nil {
			return nil, err
		}
	default:
		return nil, design.Errorf(design.ErrShapeMismatch, "%s has %d rows, want %d or %d",
			design.MatrixSigmaOutcomeGaussianRandom, m.Rows(), p, levels*p)
	}

	expanded, err := contrast.ExpandWithinForClusters(m, nc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", design.MatrixSigmaOutcomeGaussianRandom, err)
	}

	return expanded, nil
}
