// SPDX-License-Identifier: MIT

package design

import (
	"math"

	"github.com/katalvlaran/glmmc/matrix"
)

// Factor looks up a between-participant factor by name.
func (d *StudyDesign) Factor(name string) (BetweenParticipantFactor, bool) {
	for _, f := range d.BetweenFactors {
		if f.Name == name {
			return f, true
		}
	}

	return BetweenParticipantFactor{}, false
}

// Dimension looks up a repeated-measures dimension by name.
func (d *StudyDesign) Dimension(name string) (RepeatedMeasuresNode, bool) {
	for _, n := range d.RepeatedMeasures {
		if n.DimensionName == name {
			return n, true
		}
	}

	return RepeatedMeasuresNode{}, false
}

// Covariance looks up a covariance descriptor by dimension label.
func (d *StudyDesign) Covariance(label string) (CovarianceDescriptor, bool) {
	desc, ok := d.Covariances[label]

	return desc, ok
}

// Matrix looks up a caller-supplied matrix by canonical name.
// A present key holding a nil matrix is reported as absent.
func (d *StudyDesign) Matrix(name string) (*matrix.Dense, bool) {
	m, ok := d.Matrices[name]
	if !ok || m == nil {
		return nil, false
	}

	return m, true
}

// CellCount is the number of cell-means columns: the product of category
// counts over all between factors. An empty factor list yields 1.
func (d *StudyDesign) CellCount() int {
	n := 1
	for _, f := range d.BetweenFactors {
		n *= len(f.Categories)
	}

	return n
}

// RepeatedLevelCount is the product of level counts over all
// repeated-measures dimensions. No dimensions yields 1.
func (d *StudyDesign) RepeatedLevelCount() int {
	n := 1
	for _, rm := range d.RepeatedMeasures {
		n *= rm.Levels()
	}

	return n
}

// TotalClusterSize is the product of group sizes over all cluster levels.
// No clustering yields 1.
func (d *StudyDesign) TotalClusterSize() int {
	n := 1
	for _, c := range d.Clusters {
		n *= c.GroupSize
	}

	return n
}

// ResponseCount is the number of response variables.
func (d *StudyDesign) ResponseCount() int { return len(d.Responses) }

// TrendOrNone returns the hypothesis trend, treating an empty value as NONE.
func (h *Hypothesis) TrendOrNone() TrendType {
	if h.Trend == "" {
		return TrendNone
	}

	return h.Trend
}

// Validate checks the structural invariants every compilation relies on.
// It does not check matrix shapes; that happens after expansion.
//
// Errors:
//   - ErrInvalidStudyDesign for malformed lists, unknown references or kinds.
//   - ErrUnsupportedHypothesis for unknown hypothesis or trend values.
func (d *StudyDesign) Validate() error {
	if d == nil {
		return Errorf(ErrInvalidStudyDesign, "nil study design")
	}
	switch d.ViewMode {
	case ViewModeMatrix, ViewModeGuided:
	default:
		return Errorf(ErrInvalidStudyDesign, "view mode %q", d.ViewMode)
	}

	if d.ViewMode == ViewModeGuided {
		if len(d.BetweenFactors) == 0 {
			return Errorf(ErrInvalidStudyDesign, "guided design needs at least one between-participant factor")
		}
		if len(d.Responses) == 0 {
			return Errorf(ErrInvalidStudyDesign, "guided design needs at least one response")
		}
	}

	seen := make(map[string]struct{}, len(d.BetweenFactors)+len(d.RepeatedMeasures))
	for i, f := range d.BetweenFactors {
		if f.Name == "" {
			return Errorf(ErrInvalidStudyDesign, "between factor %d has no name", i)
		}
		if _, dup := seen[f.Name]; dup {
			return Errorf(ErrInvalidStudyDesign, "duplicate factor %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		if len(f.Categories) == 0 {
			return Errorf(ErrInvalidStudyDesign, "factor %q has no categories", f.Name)
		}
	}
	for i, rm := range d.RepeatedMeasures {
		if rm.DimensionName == "" {
			return Errorf(ErrInvalidStudyDesign, "repeated-measures dimension %d has no name", i)
		}
		if _, dup := seen[rm.DimensionName]; dup {
			return Errorf(ErrInvalidStudyDesign, "duplicate dimension %q", rm.DimensionName)
		}
		seen[rm.DimensionName] = struct{}{}
		if rm.Levels() == 0 {
			return Errorf(ErrInvalidStudyDesign, "dimension %q has no levels", rm.DimensionName)
		}
		for _, v := range rm.LevelSpacing {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Errorf(ErrInvalidStudyDesign, "dimension %q has non-finite spacing", rm.DimensionName)
			}
		}
	}
	for i, c := range d.Clusters {
		if c.GroupSize < 1 {
			return Errorf(ErrInvalidStudyDesign, "cluster %d has group size %d", i, c.GroupSize)
		}
		if !isCorrelation(c.IntraClusterCorrelation) {
			return Errorf(ErrInvalidStudyDesign, "cluster %d has intra-cluster correlation %g", i, c.IntraClusterCorrelation)
		}
	}
	for label, desc := range d.Covariances {
		switch desc.Kind {
		case CovarianceCompoundSymmetric, CovarianceDistanceDecay, CovarianceStructured, CovarianceUnstructured:
		default:
			return Errorf(ErrInvalidStudyDesign, "covariance %q has kind %q", label, desc.Kind)
		}
	}
	for name, m := range d.Matrices {
		if m == nil {
			return Errorf(ErrInvalidStudyDesign, "matrix %q is nil", name)
		}
	}

	return d.validateHypothesis()
}

// isCorrelation reports whether rho lies in [-1, 1]. NaN fails.
func isCorrelation(rho float64) bool {
	return rho >= -1 && rho <= 1
}

func (d *StudyDesign) validateHypothesis() error {
	h := d.Hypothesis
	if h == nil {
		return nil
	}
	switch h.Type {
	case HypothesisMainEffect, HypothesisInteraction, HypothesisTrend:
	default:
		return Errorf(ErrUnsupportedHypothesis, "hypothesis type %q", h.Type)
	}
	switch h.TrendOrNone() {
	case TrendNone, TrendChangeFromBaseline, TrendAllPolynomial, TrendLinear, TrendQuadratic, TrendCubic:
	default:
		return Errorf(ErrUnsupportedHypothesis, "trend %q", h.Trend)
	}
	for _, m := range h.BetweenMappings {
		if _, ok := d.Factor(m.Name); !ok {
			return Errorf(ErrInvalidStudyDesign, "hypothesis references unknown factor %q", m.Name)
		}
	}
	for _, m := range h.WithinMappings {
		if _, ok := d.Dimension(m.Name); !ok {
			return Errorf(ErrInvalidStudyDesign, "hypothesis references unknown dimension %q", m.Name)
		}
	}

	return nil
}
