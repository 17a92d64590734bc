// SPDX-License-Identifier: MIT

package compiler_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/glmmc/compiler"
	"github.com/katalvlaran/glmmc/covariance"
	"github.com/katalvlaran/glmmc/design"
	"github.com/katalvlaran/glmmc/matrix"
)

const tol = 1e-12

// CompileSuite groups the end-to-end compilation scenarios.
type CompileSuite struct {
	suite.Suite
}

func TestCompileSuite(t *testing.T) {
	suite.Run(t, new(CompileSuite))
}

func (s *CompileSuite) dense(rows [][]float64) *matrix.Dense {
	m, err := matrix.NewDenseFromRows(rows)
	require.NoError(s.T(), err)

	return m
}

func (s *CompileSuite) rows(set *compiler.MatrixSet, name string) [][]float64 {
	nm, ok := set.Get(name)
	require.True(s.T(), ok, "matrix %q missing", name)
	data := nm.Data()
	out := make([][]float64, nm.Rows())
	for i := range out {
		out[i] = data[i*nm.Cols() : (i+1)*nm.Cols()]
	}

	return out
}

func (s *CompileSuite) assertMatrix(set *compiler.MatrixSet, name string, want [][]float64) {
	got := s.rows(set, name)
	require.Len(s.T(), got, len(want), "%s rows", name)
	for i := range want {
		require.Len(s.T(), got[i], len(want[i]), "%s cols", name)
		for j := range want[i] {
			s.InDelta(want[i][j], got[i][j], tol, "%s (%d,%d)", name, i, j)
		}
	}
}

func treatment(levels ...string) design.BetweenParticipantFactor {
	f := design.BetweenParticipantFactor{Name: "treatment"}
	for _, l := range levels {
		f.Categories = append(f.Categories, design.Category{Name: l})
	}

	return f
}

// oneFactor is the guided three-arm design without repeated measures,
// clusters or covariate.
func (s *CompileSuite) oneFactor() *design.StudyDesign {
	return &design.StudyDesign{
		ViewMode:       design.ViewModeGuided,
		BetweenFactors: []design.BetweenParticipantFactor{treatment("placebo", "low", "high")},
		Responses:      []design.Response{{Name: "bp"}},
		Covariances: map[string]design.CovarianceDescriptor{
			design.ResponseCovarianceLabel: {Kind: design.CovarianceUnstructured, Blob: s.dense([][]float64{{1}})},
		},
		Hypothesis: &design.Hypothesis{
			Type:            design.HypothesisMainEffect,
			BetweenMappings: []design.FactorMapping{{Name: "treatment"}},
		},
		Matrices: map[string]*matrix.Dense{
			design.MatrixBeta: s.dense([][]float64{{1}, {2}, {3}}),
		},
	}
}

func (s *CompileSuite) TestOneFactorGuided() {
	set, err := compiler.Compile(s.oneFactor())
	s.Require().NoError(err)

	s.Equal([]string{
		design.MatrixDesign,
		design.MatrixBeta,
		design.MatrixBetweenSubjectContrast,
		design.MatrixWithinSubjectContrast,
		design.MatrixThetaNull,
		design.MatrixSigmaError,
	}, set.Names())
	s.False(set.HasCovariate())

	s.assertMatrix(set, design.MatrixDesign, [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	s.assertMatrix(set, design.MatrixBetweenSubjectContrast, [][]float64{{1, -1, 0}, {1, 0, -1}})
	s.assertMatrix(set, design.MatrixWithinSubjectContrast, [][]float64{{1}})
	s.assertMatrix(set, design.MatrixThetaNull, [][]float64{{0}, {0}})
	s.assertMatrix(set, design.MatrixSigmaError, [][]float64{{1}})
}

func (s *CompileSuite) TestTwoLevelClustering() {
	d := s.oneFactor()
	d.Clusters = []design.ClusterNode{
		{Name: "clinic", GroupSize: 2, IntraClusterCorrelation: 0.1},
		{Name: "ward", GroupSize: 3, IntraClusterCorrelation: 0.2},
	}

	set, err := compiler.Compile(d)
	s.Require().NoError(err)

	sigma, ok := set.Sigma()
	s.Require().True(ok)
	s.Equal(design.MatrixSigmaError, sigma.Name())
	s.Equal(6, sigma.Rows())
	s.Equal(6, sigma.Cols())

	cs2, err := covariance.CompoundSymmetric(2, 0.1)
	s.Require().NoError(err)
	cs3, err := covariance.CompoundSymmetric(3, 0.2)
	s.Require().NoError(err)
	want, err := matrix.KroneckerAll(cs2, cs3, d.Covariances[design.ResponseCovarianceLabel].Blob)
	s.Require().NoError(err)
	s.InDeltaSlice(want.RawRowMajor(), sigma.Data(), tol)
	s.InDelta(0.1, sigma.Data()[3], tol, "same ward position, other clinic")
	s.InDelta(0.02, sigma.Data()[4], tol, "other ward, other clinic")
	s.InDelta(0.2, sigma.Data()[1], tol, "same clinic, other ward")

	// B columns and U rows follow the same six cluster members.
	s.assertMatrix(set, design.MatrixBeta, [][]float64{
		{1, 1, 1, 1, 1, 1},
		{2, 2, 2, 2, 2, 2},
		{3, 3, 3, 3, 3, 3},
	})
	s.assertMatrix(set, design.MatrixWithinSubjectContrast, [][]float64{{1}, {1}, {1}, {1}, {1}, {1}})
	s.assertMatrix(set, design.MatrixThetaNull, [][]float64{{0}, {0}})
}

// TestRepeatedMeasuresTrend mixes a repeated-measures trend with two
// responses and clustering, and checks the Σ row count identity.
func (s *CompileSuite) TestRepeatedMeasuresTrend() {
	d := &design.StudyDesign{
		ViewMode:       design.ViewModeGuided,
		BetweenFactors: []design.BetweenParticipantFactor{treatment("placebo", "active")},
		Responses:      []design.Response{{Name: "sbp"}, {Name: "dbp"}},
		RepeatedMeasures: []design.RepeatedMeasuresNode{
			{DimensionName: "week", LevelSpacing: []float64{0, 2, 5}},
		},
		Clusters: []design.ClusterNode{{Name: "clinic", GroupSize: 2, IntraClusterCorrelation: 0.05}},
		Covariances: map[string]design.CovarianceDescriptor{
			"week": {Kind: design.CovarianceDistanceDecay, StandardDeviations: []float64{1}, CorrelationParams: []float64{0.6, 1}},
			design.ResponseCovarianceLabel: {
				Kind: design.CovarianceUnstructured,
				Blob: s.dense([][]float64{{4, 1}, {1, 9}}),
			},
		},
		Hypothesis: &design.Hypothesis{
			Type:           design.HypothesisTrend,
			WithinMappings: []design.FactorMapping{{Name: "week"}},
			Trend:          design.TrendLinear,
		},
		Matrices: map[string]*matrix.Dense{
			design.MatrixBeta: s.dense([][]float64{
				{120, 80, 121, 81, 122, 82},
				{118, 79, 117, 78, 115, 76},
			}),
		},
	}

	set, err := compiler.Compile(d)
	s.Require().NoError(err)

	wantRows := d.TotalClusterSize() * d.RepeatedLevelCount() * d.ResponseCount()
	sigma, _ := set.Sigma()
	s.Equal(12, wantRows)
	s.Equal(wantRows, sigma.Rows())

	u, _ := set.Get(design.MatrixWithinSubjectContrast)
	s.Equal(wantRows, u.Rows())
	s.Equal(2, u.Cols())

	beta, _ := set.Get(design.MatrixBeta)
	s.Equal(wantRows, beta.Cols())

	s.assertMatrix(set, design.MatrixBetweenSubjectContrast, [][]float64{{0.5, 0.5}})
	s.assertMatrix(set, design.MatrixThetaNull, [][]float64{{0, 0}})

	// the lower block of U repeats the upper block for the second member
	rows := s.rows(set, design.MatrixWithinSubjectContrast)
	for i := 0; i < 6; i++ {
		s.Equal(rows[i], rows[i+6])
	}
}

func (s *CompileSuite) TestIdempotent() {
	d := s.oneFactor()
	d.Clusters = []design.ClusterNode{{GroupSize: 3, IntraClusterCorrelation: 0.3}}

	first, err := compiler.Compile(d)
	s.Require().NoError(err)
	second, err := compiler.Compile(d)
	s.Require().NoError(err)

	s.Equal(first.Names(), second.Names())
	for _, a := range first.Matrices() {
		b, ok := second.Get(a.Name())
		s.Require().True(ok)
		s.Equal(a.Rows(), b.Rows())
		s.Equal(a.Cols(), b.Cols())
		s.Equal(a.Data(), b.Data(), a.Name())
	}
}

func (s *CompileSuite) TestOutputIsIsolated() {
	d := s.oneFactor()
	set, err := compiler.Compile(d)
	s.Require().NoError(err)

	s.Require().NoError(d.Matrices[design.MatrixBeta].Set(0, 0, 99))
	beta, _ := set.Get(design.MatrixBeta)
	s.Equal(1.0, beta.Data()[0], "input changes do not reach the set")

	data := beta.Data()
	data[0] = 42
	s.Equal(1.0, beta.Data()[0], "Data returns a copy")

	dense, ok := set.Dense(design.MatrixBeta)
	s.Require().True(ok)
	s.Require().NoError(dense.Set(0, 0, 7))
	s.Equal(1.0, beta.Data()[0], "Dense returns a copy")

	g, ok := set.Gonum(design.MatrixDesign)
	s.Require().True(ok)
	r, c := g.Dims()
	s.Equal(3, r)
	s.Equal(3, c)
	_, ok = set.Gonum(design.MatrixSigmaOutcome)
	s.False(ok)
}

func (s *CompileSuite) TestGaussianCovariate() {
	d := s.oneFactor()
	d.GaussianCovariate = true
	d.Clusters = []design.ClusterNode{{GroupSize: 2, IntraClusterCorrelation: 0.1}}
	d.Covariances[design.CovariateCovarianceLabel] = design.CovarianceDescriptor{
		Kind:               design.CovarianceCompoundSymmetric,
		StandardDeviations: []float64{2},
		CorrelationParams:  []float64{0},
	}
	d.Matrices[design.MatrixBetaRandom] = s.dense([][]float64{{0.5}})
	d.Matrices[design.MatrixSigmaOutcomeGaussianRandom] = s.dense([][]float64{{0.3}})

	set, err := compiler.Compile(d)
	s.Require().NoError(err)
	s.True(set.HasCovariate())

	s.Equal([]string{
		design.MatrixDesign,
		design.MatrixBeta,
		design.MatrixBetaRandom,
		design.MatrixBetweenSubjectContrast,
		design.MatrixBetweenSubjectContrastRandom,
		design.MatrixWithinSubjectContrast,
		design.MatrixThetaNull,
		design.MatrixSigmaOutcome,
		design.MatrixSigmaGaussianRandom,
		design.MatrixSigmaOutcomeGaussianRandom,
	}, set.Names())

	s.assertMatrix(set, design.MatrixBetaRandom, [][]float64{{0.5, 0.5}})
	s.assertMatrix(set, design.MatrixBetweenSubjectContrastRandom, [][]float64{{0}, {0}})
	s.assertMatrix(set, design.MatrixSigmaGaussianRandom, [][]float64{{4}})
	s.assertMatrix(set, design.MatrixSigmaOutcomeGaussianRandom, [][]float64{{0.3}, {0.3}})
	s.assertMatrix(set, design.MatrixSigmaOutcome, [][]float64{{1, 0.1}, {0.1, 1}})
	_, ok := set.Get(design.MatrixSigmaError)
	s.False(ok)
}

func (s *CompileSuite) TestGaussianCovariate_ReplicatesAcrossRepeatedMeasures() {
	d := s.oneFactor()
	d.GaussianCovariate = true
	d.RepeatedMeasures = []design.RepeatedMeasuresNode{{DimensionName: "visit", LevelSpacing: []float64{1, 2}}}
	d.Covariances["visit"] = design.CovarianceDescriptor{Kind: design.CovarianceCompoundSymmetric, CorrelationParams: []float64{0.4}}
	d.Covariances[design.CovariateCovarianceLabel] = design.CovarianceDescriptor{
		Kind: design.CovarianceUnstructured, Blob: s.dense([][]float64{{1}}),
	}
	d.Matrices[design.MatrixBeta] = s.dense([][]float64{{1, 1}, {2, 2}, {3, 3}})
	d.Matrices[design.MatrixBetaRandom] = s.dense([][]float64{{0.1, 0.1}})
	d.Matrices[design.MatrixSigmaOutcomeGaussianRandom] = s.dense([][]float64{{0.2}})

	set, err := compiler.Compile(d)
	s.Require().NoError(err)
	s.assertMatrix(set, design.MatrixSigmaOutcomeGaussianRandom, [][]float64{{0.2}, {0.2}})
	s.assertMatrix(set, design.MatrixWithinSubjectContrast, [][]float64{{0.5}, {0.5}})

	d.Matrices[design.MatrixSigmaOutcomeGaussianRandom] = s.dense([][]float64{{0.2}, {0.1}, {0}})
	_, err = compiler.Compile(d)
	s.ErrorIs(err, design.ErrShapeMismatch)
}

func (s *CompileSuite) TestMatrixModePassthrough() {
	d := &design.StudyDesign{
		ViewMode: design.ViewModeMatrix,
		Matrices: map[string]*matrix.Dense{
			design.MatrixDesign:                 s.dense([][]float64{{1, 0}, {0, 1}}),
			design.MatrixBeta:                   s.dense([][]float64{{1, 2}, {3, 4}}),
			design.MatrixBetweenSubjectContrast: s.dense([][]float64{{1, -1}}),
			design.MatrixWithinSubjectContrast:  s.dense([][]float64{{1}, {-1}}),
			design.MatrixSigmaError:             s.dense([][]float64{{2, 0.5}, {0.5, 2}}),
		},
	}

	set, err := compiler.Compile(d)
	s.Require().NoError(err)
	s.assertMatrix(set, design.MatrixBeta, [][]float64{{1, 2}, {3, 4}})
	s.assertMatrix(set, design.MatrixThetaNull, [][]float64{{0}})
	s.assertMatrix(set, design.MatrixSigmaError, [][]float64{{2, 0.5}, {0.5, 2}})

	d.Matrices[design.MatrixThetaNull] = s.dense([][]float64{{0.25}})
	set, err = compiler.Compile(d)
	s.Require().NoError(err)
	s.assertMatrix(set, design.MatrixThetaNull, [][]float64{{0.25}})

	d.Matrices[design.MatrixThetaNull] = s.dense([][]float64{{0, 0}})
	_, err = compiler.Compile(d)
	s.ErrorIs(err, design.ErrShapeMismatch)

	delete(d.Matrices, design.MatrixThetaNull)
	d.Matrices[design.MatrixBetweenSubjectContrast] = s.dense([][]float64{{1, -1, 0}})
	_, err = compiler.Compile(d)
	s.ErrorIs(err, design.ErrShapeMismatch)

	delete(d.Matrices, design.MatrixSigmaError)
	_, err = compiler.Compile(d)
	s.ErrorIs(err, design.ErrInvalidStudyDesign)
}

func (s *CompileSuite) TestErrors() {
	tests := []struct {
		name    string
		mutate  func(d *design.StudyDesign)
		wantErr error
	}{
		{"nil categories", func(d *design.StudyDesign) { d.BetweenFactors[0].Categories = nil }, design.ErrInvalidStudyDesign},
		{"no response covariance", func(d *design.StudyDesign) {
			delete(d.Covariances, design.ResponseCovarianceLabel)
		}, design.ErrInvalidStudyDesign},
		{"no repeated-measures covariance", func(d *design.StudyDesign) {
			d.RepeatedMeasures = []design.RepeatedMeasuresNode{{DimensionName: "week", LevelSpacing: []float64{0, 1}}}
			d.Matrices[design.MatrixBeta] = s.dense([][]float64{{1, 1}, {2, 2}, {3, 3}})
		}, design.ErrInvalidStudyDesign},
		{"non-square response blob", func(d *design.StudyDesign) {
			d.Covariances[design.ResponseCovarianceLabel] = design.CovarianceDescriptor{
				Kind: design.CovarianceUnstructured, Blob: s.dense([][]float64{{1, 0}}),
			}
		}, design.ErrInvalidStudyDesign},
		{"declared size disagrees", func(d *design.StudyDesign) {
			desc := d.Covariances[design.ResponseCovarianceLabel]
			desc.Size = 2
			d.Covariances[design.ResponseCovarianceLabel] = desc
		}, design.ErrShapeMismatch},
		{"intra-cluster correlation above one", func(d *design.StudyDesign) {
			d.Clusters = []design.ClusterNode{{Name: "clinic", GroupSize: 2, IntraClusterCorrelation: 5}}
		}, design.ErrInvalidStudyDesign},
		{"compound symmetric rho above one", func(d *design.StudyDesign) {
			d.Covariances[design.ResponseCovarianceLabel] = design.CovarianceDescriptor{
				Kind: design.CovarianceCompoundSymmetric, CorrelationParams: []float64{1.2},
			}
		}, design.ErrInvalidStudyDesign},
		{"missing beta", func(d *design.StudyDesign) { delete(d.Matrices, design.MatrixBeta) }, design.ErrInvalidStudyDesign},
		{"beta rows disagree with cells", func(d *design.StudyDesign) {
			d.Matrices[design.MatrixBeta] = s.dense([][]float64{{1}, {2}})
		}, design.ErrShapeMismatch},
		{"beta columns disagree with U", func(d *design.StudyDesign) {
			d.Matrices[design.MatrixBeta] = s.dense([][]float64{{1, 1}, {2, 2}, {3, 3}})
		}, design.ErrShapeMismatch},
		{"interaction without fallback", func(d *design.StudyDesign) {
			d.Hypothesis.Type = design.HypothesisInteraction
		}, design.ErrUnsupportedHypothesis},
		{"main effect with two mappings", func(d *design.StudyDesign) {
			d.BetweenFactors = append(d.BetweenFactors, design.BetweenParticipantFactor{
				Name: "sex", Categories: []design.Category{{Name: "f"}, {Name: "m"}},
			})
			d.Hypothesis.BetweenMappings = append(d.Hypothesis.BetweenMappings, design.FactorMapping{Name: "sex"})
		}, design.ErrUnsupportedHypothesis},
		{"cubic trend on three levels", func(d *design.StudyDesign) {
			d.Hypothesis.Type = design.HypothesisTrend
			d.Hypothesis.Trend = design.TrendCubic
		}, design.ErrUnsupportedHypothesis},
		{"unknown trend", func(d *design.StudyDesign) {
			d.Hypothesis.Type = design.HypothesisTrend
			d.Hypothesis.Trend = "EXPONENTIAL"
		}, design.ErrUnsupportedHypothesis},
		{"covariate without variance", func(d *design.StudyDesign) {
			d.GaussianCovariate = true
			d.Matrices[design.MatrixBetaRandom] = s.dense([][]float64{{1}})
			d.Matrices[design.MatrixSigmaOutcomeGaussianRandom] = s.dense([][]float64{{1}})
		}, design.ErrInvalidStudyDesign},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			d := s.oneFactor()
			tc.mutate(d)
			_, err := compiler.Compile(d)
			s.ErrorIs(err, tc.wantErr)
		})
	}
}

func (s *CompileSuite) TestInteractionGrandMeanFallback() {
	d := s.oneFactor()
	d.Hypothesis.Type = design.HypothesisInteraction

	set, err := compiler.Compile(d, compiler.WithInteractionGrandMean(true))
	s.Require().NoError(err)
	third := 1.0 / 3
	s.assertMatrix(set, design.MatrixBetweenSubjectContrast, [][]float64{{third, third, third}})
}

func (s *CompileSuite) TestUnmappedHypothesisIsGrandMean() {
	for _, typ := range []design.HypothesisType{design.HypothesisMainEffect, design.HypothesisTrend} {
		s.Run(string(typ), func() {
			d := s.oneFactor()
			d.Hypothesis = &design.Hypothesis{Type: typ, Trend: design.TrendLinear}

			set, err := compiler.Compile(d)
			s.Require().NoError(err)
			third := 1.0 / 3
			s.assertMatrix(set, design.MatrixBetweenSubjectContrast, [][]float64{{third, third, third}})
			s.assertMatrix(set, design.MatrixWithinSubjectContrast, [][]float64{{1}})
			s.assertMatrix(set, design.MatrixThetaNull, [][]float64{{0}})
		})
	}
}

func (s *CompileSuite) TestNoHypothesisIsGrandMean() {
	d := s.oneFactor()
	d.Hypothesis = nil

	set, err := compiler.Compile(d)
	s.Require().NoError(err)
	third := 1.0 / 3
	s.assertMatrix(set, design.MatrixBetweenSubjectContrast, [][]float64{{third, third, third}})
	s.assertMatrix(set, design.MatrixThetaNull, [][]float64{{0}})
}

func (s *CompileSuite) TestLogging() {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	_, err := compiler.Compile(s.oneFactor(), compiler.WithLogger(logger))
	s.Require().NoError(err)
	entry := hook.LastEntry()
	s.Require().NotNil(entry)
	s.Equal("study design compiled", entry.Message)
	s.Equal(design.ViewModeGuided, entry.Data["view_mode"])
	s.Equal(6, entry.Data["matrices"])

	hook.Reset()
	d := s.oneFactor()
	d.Responses = nil
	_, err = compiler.Compile(d, compiler.WithLogger(logger))
	s.Require().Error(err)
	s.Require().NotNil(hook.LastEntry())
	s.Equal("study design rejected", hook.LastEntry().Message)
}

func (s *CompileSuite) TestWithNilLoggerPanics() {
	s.PanicsWithValue(compiler.ErrNilLogger.Error(), func() {
		_, _ = compiler.Compile(s.oneFactor(), compiler.WithLogger(nil))
	})
}
