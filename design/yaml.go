// SPDX-License-Identifier: MIT

package design

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/glmmc/matrix"
	"gopkg.in/yaml.v3"
)

// document is the on-disk YAML shape of a StudyDesign. Matrices are written
// as lists of rows.
type document struct {
	ViewMode          ViewMode                 `yaml:"viewMode"`
	GaussianCovariate bool                     `yaml:"gaussianCovariate"`
	BetweenFactors    []factorDoc              `yaml:"betweenFactors"`
	Responses         []string                 `yaml:"responses"`
	RepeatedMeasures  []repeatedDoc            `yaml:"repeatedMeasures"`
	Clusters          []clusterDoc             `yaml:"clusters"`
	Covariances       map[string]covarianceDoc `yaml:"covariances"`
	Hypothesis        *hypothesisDoc           `yaml:"hypothesis"`
	Matrices          map[string][][]float64   `yaml:"matrices"`
}

type factorDoc struct {
	Name       string   `yaml:"name"`
	Categories []string `yaml:"categories"`
}

type repeatedDoc struct {
	Dimension string    `yaml:"dimension"`
	Spacing   []float64 `yaml:"spacing"`
}

type clusterDoc struct {
	Name                    string  `yaml:"name"`
	GroupSize               int     `yaml:"groupSize"`
	IntraClusterCorrelation float64 `yaml:"intraClusterCorrelation"`
}

type covarianceDoc struct {
	Kind               CovarianceKind `yaml:"kind"`
	StandardDeviations []float64      `yaml:"standardDeviations"`
	CorrelationParams  []float64      `yaml:"correlationParams"`
	Blob               [][]float64    `yaml:"blob"`
	Size               int            `yaml:"size"`
}

type hypothesisDoc struct {
	Type    HypothesisType `yaml:"type"`
	Between []string       `yaml:"between"`
	Within  []string       `yaml:"within"`
	Trend   TrendType      `yaml:"trend"`
}

// LoadFile reads and parses a YAML study design from path.
func LoadFile(path string) (*StudyDesign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read study design: %w", err)
	}

	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return d, nil
}

// Parse decodes a YAML study design. Unknown keys are rejected so a typo in
// a field name never silently drops input. The result is not validated;
// call Validate or compile it.
func Parse(data []byte) (*StudyDesign, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, Errorf(ErrInvalidStudyDesign, "empty document")
		}
		return nil, fmt.Errorf("%w: yaml: %v", ErrInvalidStudyDesign, err)
	}

	return doc.toStudyDesign()
}

func (doc *document) toStudyDesign() (*StudyDesign, error) {
	d := &StudyDesign{
		ViewMode:          doc.ViewMode,
		GaussianCovariate: doc.GaussianCovariate,
	}

	for _, f := range doc.BetweenFactors {
		bf := BetweenParticipantFactor{Name: f.Name, Categories: make([]Category, 0, len(f.Categories))}
		for _, c := range f.Categories {
			bf.Categories = append(bf.Categories, Category{Name: c})
		}
		d.BetweenFactors = append(d.BetweenFactors, bf)
	}
	for _, r := range doc.Responses {
		d.Responses = append(d.Responses, Response{Name: r})
	}
	for _, rm := range doc.RepeatedMeasures {
		d.RepeatedMeasures = append(d.RepeatedMeasures, RepeatedMeasuresNode{
			DimensionName: rm.Dimension,
			LevelSpacing:  rm.Spacing,
		})
	}
	for _, c := range doc.Clusters {
		d.Clusters = append(d.Clusters, ClusterNode(c))
	}

	if len(doc.Covariances) > 0 {
		d.Covariances = make(map[string]CovarianceDescriptor, len(doc.Covariances))
	}
	for label, c := range doc.Covariances {
		desc := CovarianceDescriptor{
			Kind:               c.Kind,
			StandardDeviations: c.StandardDeviations,
			CorrelationParams:  c.CorrelationParams,
			Size:               c.Size,
		}
		if len(c.Blob) > 0 {
			blob, err := matrix.NewDenseFromRows(c.Blob)
			if err != nil {
				return nil, fmt.Errorf("covariance %q blob: %v: %w", label, err, ErrInvalidStudyDesign)
			}
			desc.Blob = blob
		}
		d.Covariances[label] = desc
	}

	if h := doc.Hypothesis; h != nil {
		hyp := &Hypothesis{Type: h.Type, Trend: h.Trend}
		for _, name := range h.Between {
			hyp.BetweenMappings = append(hyp.BetweenMappings, FactorMapping{Name: name})
		}
		for _, name := range h.Within {
			hyp.WithinMappings = append(hyp.WithinMappings, FactorMapping{Name: name})
		}
		d.Hypothesis = hyp
	}

	if len(doc.Matrices) > 0 {
		d.Matrices = make(map[string]*matrix.Dense, len(doc.Matrices))
	}
	for name, rows := range doc.Matrices {
		m, err := matrix.NewDenseFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("matrix %q: %v: %w", name, err, ErrInvalidStudyDesign)
		}
		d.Matrices[name] = m
	}

	return d, nil
}
