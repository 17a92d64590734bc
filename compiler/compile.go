// SPDX-License-Identifier: MIT

// Package compiler - Compile, the study-design-to-matrix entry point.
//
// Implementation:
//   - Stage 1: apply options, validate the design.
//   - Stage 2: MATRIX → passthrough; GUIDED → derive X, B, C, U, Θ, Σ.
//   - Stage 3: audit every cross-matrix shape relation.
//   - Stage 4: freeze the matrices into an ordered MatrixSet.
//
// Determinism:
//   - No randomness and no shared state; compiling the same design twice
//     yields bit-identical sets.

package compiler

import (
	"fmt"

	"github.com/katalvlaran/glmmc/design"
	"github.com/katalvlaran/glmmc/matrix"
	"github.com/sirupsen/logrus"
)

const opCompile = "Compile"

func compilerErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// compiled holds the matrices of one compilation before they are frozen.
// The random/covariate fields stay nil without a Gaussian covariate, and
// sigmaError stays nil with one.
type compiled struct {
	x, beta, betaRandom *matrix.Dense
	c, cRandom          *matrix.Dense
	u, theta            *matrix.Dense

	sigmaError                 *matrix.Dense
	sigmaOutcome               *matrix.Dense
	sigmaGaussianRandom        *matrix.Dense
	sigmaOutcomeGaussianRandom *matrix.Dense
}

// Compile turns a study design into the matrix set a GLMM power solver
// consumes.
//
// Errors (match with errors.Is):
//   - design.ErrInvalidStudyDesign: malformed input, missing covariance or
//     required matrix.
//   - design.ErrUnsupportedHypothesis: no rule for the hypothesis/trend.
//   - design.ErrShapeMismatch: incompatible shapes after expansion.
//
// Compile never mutates d and is safe for concurrent use.
func Compile(d *design.StudyDesign, opts ...Option) (*MatrixSet, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	set, err := compile(d, o)
	if err != nil {
		o.Logger.WithError(err).Debug("study design rejected")
		return nil, compilerErrorf(opCompile, err)
	}

	o.Logger.WithFields(logrus.Fields{
		"view_mode": d.ViewMode,
		"covariate": d.GaussianCovariate,
		"matrices":  set.Len(),
	}).Debug("study design compiled")

	return set, nil
}

func compile(d *design.StudyDesign, o Options) (*MatrixSet, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var (
		out *compiled
		err error
	)
	switch d.ViewMode {
	case design.ViewModeMatrix:
		out, err = passthrough(d)
	case design.ViewModeGuided:
		out, err = guided(d, o)
	default:
		err = design.Errorf(design.ErrInvalidStudyDesign, "view mode %q", d.ViewMode)
	}
	if err != nil {
		return nil, err
	}
	if err = out.audit(d.GaussianCovariate); err != nil {
		return nil, err
	}

	return out.freeze(d.GaussianCovariate), nil
}

// thetaOrZero returns the supplied Θ, or zeros rows(C)×cols(U).
func thetaOrZero(d *design.StudyDesign, c, u *matrix.Dense) (*matrix.Dense, error) {
	if theta, ok := d.Matrix(design.MatrixThetaNull); ok {
		return theta.Clone().(*matrix.Dense), nil
	}

	return matrix.NewZeros(c.Rows(), u.Cols())
}

func (out *compiled) freeze(covariate bool) *MatrixSet {
	set := &MatrixSet{covariate: covariate}
	add := func(name string, m *matrix.Dense) {
		set.entries = append(set.entries, newNamedMatrix(name, m))
	}

	add(design.MatrixDesign, out.x)
	add(design.MatrixBeta, out.beta)
	if covariate {
		add(design.MatrixBetaRandom, out.betaRandom)
	}
	add(design.MatrixBetweenSubjectContrast, out.c)
	if covariate {
		add(design.MatrixBetweenSubjectContrastRandom, out.cRandom)
	}
	add(design.MatrixWithinSubjectContrast, out.u)
	add(design.MatrixThetaNull, out.theta)
	if covariate {
		add(design.MatrixSigmaOutcome, out.sigmaOutcome)
		add(design.MatrixSigmaGaussianRandom, out.sigmaGaussianRandom)
		add(design.MatrixSigmaOutcomeGaussianRandom, out.sigmaOutcomeGaussianRandom)
	} else {
		add(design.MatrixSigmaError, out.sigmaError)
	}

	return set
}
