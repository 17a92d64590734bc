// SPDX-License-Identifier: MIT

package compiler

import (
	"github.com/katalvlaran/glmmc/design"
	"github.com/katalvlaran/glmmc/matrix"
	"gonum.org/v1/gonum/mat"
)

// NamedMatrix is one compiled matrix. Its data is private; every accessor
// hands out a copy.
type NamedMatrix struct {
	name string
	m    *matrix.Dense
}

func newNamedMatrix(name string, m *matrix.Dense) NamedMatrix {
	return NamedMatrix{name: name, m: m.Clone().(*matrix.Dense)}
}

// Name returns the canonical matrix name.
func (n NamedMatrix) Name() string { return n.name }

// Rows returns the row count.
func (n NamedMatrix) Rows() int { return n.m.Rows() }

// Cols returns the column count.
func (n NamedMatrix) Cols() int { return n.m.Cols() }

// Data returns a copy of the row-major values.
func (n NamedMatrix) Data() []float64 { return n.m.RawRowMajor() }

// Dense returns the matrix as a fresh *matrix.Dense.
func (n NamedMatrix) Dense() *matrix.Dense { return n.m.Clone().(*matrix.Dense) }

// MatrixSet is the ordered output of Compile:
//
//	design, beta, [betaRandom], betweenSubjectContrast,
//	[betweenSubjectContrastRandom], withinSubjectContrast, thetaNull,
//	sigmaError | sigmaOutcome, sigmaGaussianRandom, sigmaOutcomeGaussianRandom
//
// Bracketed entries and the second covariance form appear only when a
// Gaussian covariate is modeled. A set is never modified after Compile
// returns it.
type MatrixSet struct {
	entries   []NamedMatrix
	covariate bool
}

// Len returns the number of matrices.
func (s *MatrixSet) Len() int { return len(s.entries) }

// HasCovariate reports whether the set carries the covariate matrices.
func (s *MatrixSet) HasCovariate() bool { return s.covariate }

// Names returns the matrix names in output order.
func (s *MatrixSet) Names() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.name
	}

	return out
}

// Matrices returns the entries in output order.
func (s *MatrixSet) Matrices() []NamedMatrix {
	out := make([]NamedMatrix, len(s.entries))
	copy(out, s.entries)

	return out
}

// Get looks a matrix up by canonical name.
func (s *MatrixSet) Get(name string) (NamedMatrix, bool) {
	for _, e := range s.entries {
		if e.name == name {
			return e, true
		}
	}

	return NamedMatrix{}, false
}

// Dense returns a copy of the named matrix.
func (s *MatrixSet) Dense(name string) (*matrix.Dense, bool) {
	e, ok := s.Get(name)
	if !ok {
		return nil, false
	}

	return e.Dense(), true
}

// Gonum returns a gonum copy of the named matrix for solvers written
// against gonum.
func (s *MatrixSet) Gonum(name string) (*mat.Dense, bool) {
	e, ok := s.Get(name)
	if !ok {
		return nil, false
	}

	return mat.NewDense(e.Rows(), e.Cols(), e.Data()), true
}

// Sigma returns the covariance the within contrast is applied to:
// sigmaOutcome with a covariate, sigmaError otherwise.
func (s *MatrixSet) Sigma() (NamedMatrix, bool) {
	if s.covariate {
		return s.Get(design.MatrixSigmaOutcome)
	}

	return s.Get(design.MatrixSigmaError)
}
