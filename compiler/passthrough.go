// SPDX-License-Identifier: MIT

package compiler

import "github.com/katalvlaran/glmmc/design"

// passthrough takes every matrix from the design's table as is. Only Θ has
// a default; nothing is expanded.
func passthrough(d *design.StudyDesign) (*compiled, error) {
	out := &compiled{}
	var err error

	if out.x, err = requireMatrix(d, design.MatrixDesign); err != nil {
		return nil, err
	}
	if out.beta, err = requireMatrix(d, design.MatrixBeta); err != nil {
		return nil, err
	}
	if out.c, err = requireMatrix(d, design.MatrixBetweenSubjectContrast); err != nil {
		return nil, err
	}
	if out.u, err = requireMatrix(d, design.MatrixWithinSubjectContrast); err != nil {
		return nil, err
	}
	if out.theta, err = thetaOrZero(d, out.c, out.u); err != nil {
		return nil, err
	}

	if !d.GaussianCovariate {
		if out.sigmaError, err = requireMatrix(d, design.MatrixSigmaError); err != nil {
			return nil, err
		}
		return out, nil
	}

	if out.betaRandom, err = requireMatrix(d, design.MatrixBetaRandom); err != nil {
		return nil, err
	}
	if out.cRandom, err = requireMatrix(d, design.MatrixBetweenSubjectContrastRandom); err != nil {
		return nil, err
	}
	if out.sigmaOutcome, err = requireMatrix(d, design.MatrixSigmaOutcome); err != nil {
		return nil, err
	}
	if out.sigmaGaussianRandom, err = requireMatrix(d, design.MatrixSigmaGaussianRandom); err != nil {
		return nil, err
	}
	if out.sigmaOutcomeGaussianRandom, err = requireMatrix(d, design.MatrixSigmaOutcomeGaussianRandom); err != nil {
		return nil, err
	}

	return out, nil
}
