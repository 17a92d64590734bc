// SPDX-License-Identifier: MIT

package compiler

import (
	"github.com/katalvlaran/glmmc/design"
	"github.com/katalvlaran/glmmc/matrix"
)

// shapeRule is one cross-matrix relation checked after every expansion.
type shapeRule struct {
	what      string
	got, want int
}

// audit checks the relations the solver relies on:
//
//	cols(X) = rows(B), cols(C) = rows(B), cols(B) = rows(U),
//	Θ = rows(C)×cols(U), Σ square with rows(Σ) = rows(U).
//
// With a covariate it also checks the random B and C, the 1×1-or-square
// covariate variance and the outcome×covariate cross term.
func (out *compiled) audit(covariate bool) error {
	sigma := out.sigmaError
	if covariate {
		sigma = out.sigmaOutcome
	}

	rules := []shapeRule{
		{"cols(design) vs rows(beta)", out.x.Cols(), out.beta.Rows()},
		{"cols(betweenSubjectContrast) vs rows(beta)", out.c.Cols(), out.beta.Rows()},
		{"cols(beta) vs rows(withinSubjectContrast)", out.beta.Cols(), out.u.Rows()},
		{"rows(thetaNull) vs rows(betweenSubjectContrast)", out.theta.Rows(), out.c.Rows()},
		{"cols(thetaNull) vs cols(withinSubjectContrast)", out.theta.Cols(), out.u.Cols()},
		{"cols(sigma) vs rows(sigma)", sigma.Cols(), sigma.Rows()},
		{"rows(sigma) vs rows(withinSubjectContrast)", sigma.Rows(), out.u.Rows()},
	}
	if covariate {
		rules = append(rules,
			shapeRule{"cols(betaRandom) vs cols(beta)", out.betaRandom.Cols(), out.beta.Cols()},
			shapeRule{"rows(betweenSubjectContrastRandom) vs rows(betweenSubjectContrast)", out.cRandom.Rows(), out.c.Rows()},
			shapeRule{"cols(betweenSubjectContrastRandom) vs rows(betaRandom)", out.cRandom.Cols(), out.betaRandom.Rows()},
			shapeRule{"cols(sigmaGaussianRandom) vs rows(sigmaGaussianRandom)", out.sigmaGaussianRandom.Cols(), out.sigmaGaussianRandom.Rows()},
			shapeRule{"rows(sigmaOutcomeGaussianRandom) vs rows(sigmaOutcome)", out.sigmaOutcomeGaussianRandom.Rows(), sigma.Rows()},
			shapeRule{"cols(sigmaOutcomeGaussianRandom) vs rows(sigmaGaussianRandom)", out.sigmaOutcomeGaussianRandom.Cols(), out.sigmaGaussianRandom.Rows()},
		)
	}

	for _, r := range rules {
		if r.got != r.want {
			return design.Errorf(design.ErrShapeMismatch, "%s: %d != %d", r.what, r.got, r.want)
		}
	}

	return nil
}

// requireMatrix fetches a caller-supplied matrix that must be present.
func requireMatrix(d *design.StudyDesign, name string) (*matrix.Dense, error) {
	m, ok := d.Matrix(name)
	if !ok {
		return nil, design.Errorf(design.ErrInvalidStudyDesign, "missing matrix %q", name)
	}

	return m.Clone().(*matrix.Dense), nil
}
