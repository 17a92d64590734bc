// SPDX-License-Identifier: MIT

// Package design - the study-design data model.
//
// Cross references (hypothesis → factor, covariance → dimension) are plain
// string keys resolved through the StudyDesign accessors, never pointers.

package design

import "github.com/katalvlaran/glmmc/matrix"

// ViewMode selects how matrices are obtained.
type ViewMode string

const (
	// ViewModeMatrix passes caller-supplied matrices through unchanged.
	ViewModeMatrix ViewMode = "MATRIX"
	// ViewModeGuided derives matrices from factors, clusters and hypothesis.
	ViewModeGuided ViewMode = "GUIDED"
)

// HypothesisType names the tested hypothesis family.
type HypothesisType string

const (
	HypothesisMainEffect  HypothesisType = "MAIN_EFFECT"
	HypothesisInteraction HypothesisType = "INTERACTION"
	HypothesisTrend       HypothesisType = "TREND"
)

// TrendType selects the contrast used by a TREND hypothesis.
type TrendType string

const (
	TrendNone               TrendType = "NONE"
	TrendChangeFromBaseline TrendType = "CHANGE_FROM_BASELINE"
	TrendAllPolynomial      TrendType = "ALL_POLYNOMIAL"
	TrendLinear             TrendType = "LINEAR"
	TrendQuadratic          TrendType = "QUADRATIC"
	TrendCubic              TrendType = "CUBIC"
)

// CovarianceKind selects how a CovarianceDescriptor becomes a matrix.
type CovarianceKind string

const (
	CovarianceCompoundSymmetric CovarianceKind = "COMPOUND_SYMMETRIC"
	CovarianceDistanceDecay     CovarianceKind = "DISTANCE_DECAY"
	CovarianceStructured        CovarianceKind = "STRUCTURED"
	CovarianceUnstructured      CovarianceKind = "UNSTRUCTURED"
)

// Reserved covariance labels. Every other label names a repeated-measures
// dimension.
const (
	ResponseCovarianceLabel  = "__RESPONSE_COVARIANCE__"
	CovariateCovarianceLabel = "__COVARIATE_COVARIANCE__"
)

// Canonical matrix names, shared by the input matrix table and the output set.
const (
	MatrixDesign                       = "design"
	MatrixBeta                         = "beta"
	MatrixBetaRandom                   = "betaRandom"
	MatrixWithinSubjectContrast        = "withinSubjectContrast"
	MatrixBetweenSubjectContrast       = "betweenSubjectContrast"
	MatrixBetweenSubjectContrastRandom = "betweenSubjectContrastRandom"
	MatrixThetaNull                    = "thetaNull"
	MatrixSigmaError                   = "sigmaError"
	MatrixSigmaGaussianRandom          = "sigmaGaussianRandom"
	MatrixSigmaOutcome                 = "sigmaOutcome"
	MatrixSigmaOutcomeGaussianRandom   = "sigmaOutcomeGaussianRandom"
)

// Category is one level of a between-participant factor.
type Category struct {
	Name string
}

// BetweenParticipantFactor contributes len(Categories) cell-means columns.
type BetweenParticipantFactor struct {
	Name       string
	Categories []Category
}

// Response is one outcome variable of the multivariate response.
type Response struct {
	Name string
}

// RepeatedMeasuresNode is one within-participant dimension; its level count
// is len(LevelSpacing).
type RepeatedMeasuresNode struct {
	DimensionName string
	LevelSpacing  []float64
}

// Levels returns the number of measurements along the dimension.
func (n RepeatedMeasuresNode) Levels() int { return len(n.LevelSpacing) }

// ClusterNode is one nesting level; its covariance is compound symmetric
// with IntraClusterCorrelation off the diagonal.
type ClusterNode struct {
	Name                    string
	GroupSize               int
	IntraClusterCorrelation float64
}

// CovarianceDescriptor describes one covariance block.
//
//   - COMPOUND_SYMMETRIC: StandardDeviations[0] (default 1), CorrelationParams[0] = rho.
//   - DISTANCE_DECAY: StandardDeviations[0] (default 1), CorrelationParams = [base, decay].
//   - STRUCTURED: one standard deviation per level.
//   - UNSTRUCTURED: Blob used as is.
//
// Size, when non-zero, is the declared dimension and must agree with the
// owning dimension's level count.
type CovarianceDescriptor struct {
	Kind               CovarianceKind
	StandardDeviations []float64
	CorrelationParams  []float64
	Blob               *matrix.Dense
	Size               int
}

// FactorMapping references a between factor or a repeated-measures
// dimension by name.
type FactorMapping struct {
	Name string
}

// Hypothesis is the stated test. Trend is only read for TREND hypotheses.
type Hypothesis struct {
	Type            HypothesisType
	BetweenMappings []FactorMapping
	WithinMappings  []FactorMapping
	Trend           TrendType
}

// StudyDesign is the whole compiler input. The compiler only reads it.
type StudyDesign struct {
	ViewMode          ViewMode
	GaussianCovariate bool
	BetweenFactors    []BetweenParticipantFactor
	Responses         []Response
	RepeatedMeasures  []RepeatedMeasuresNode
	Clusters          []ClusterNode
	Covariances       map[string]CovarianceDescriptor
	Hypothesis        *Hypothesis
	Matrices          map[string]*matrix.Dense
}
