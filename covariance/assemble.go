// SPDX-License-Identifier: MIT

package covariance

import (
	"fmt"

	"github.com/katalvlaran/glmmc/design"
	"github.com/katalvlaran/glmmc/matrix"
	"gonum.org/v1/gonum/mat"
)

const (
	opAssemble  = "AssembleErrorCovariance"
	opClusters  = "ClusterBlocks"
	opPosDef    = "IsPositiveDefinite"
	symmetryTol = 1e-9
)

// ClusterBlocks returns one compound-symmetric block per cluster level, in
// tree order (outer to inner).
func ClusterBlocks(clusters []design.ClusterNode) ([]matrix.Matrix, error) {
	blocks := make([]matrix.Matrix, 0, len(clusters))
	for i, c := range clusters {
		cs, err := CompoundSymmetric(c.GroupSize, c.IntraClusterCorrelation)
		if err != nil {
			return nil, covErrorf(opClusters, fmt.Errorf("cluster %d: %w: %w", i, design.ErrInvalidStudyDesign, err))
		}
		blocks = append(blocks, cs)
	}

	return blocks, nil
}

// AssembleErrorCovariance composes
//
//	cluster[0] ⊗ … ⊗ cluster[k-1] ⊗ repeated[0] ⊗ … ⊗ repeated[m-1] ⊗ response
//
// in exactly that order. Either list may be empty; the response block is
// required.
//
// Errors: design.ErrInvalidStudyDesign when any block is nil or not square.
func AssembleErrorCovariance(clusterBlocks, repeatedBlocks []matrix.Matrix, response matrix.Matrix) (*matrix.Dense, error) {
	blocks := make([]matrix.Matrix, 0, len(clusterBlocks)+len(repeatedBlocks)+1)
	blocks = append(blocks, clusterBlocks...)
	blocks = append(blocks, repeatedBlocks...)
	blocks = append(blocks, response)

	for idx, b := range blocks {
		if err := matrix.ValidateSquare(b); err != nil {
			return nil, covErrorf(opAssemble, fmt.Errorf("block %d: %w: %w", idx, design.ErrInvalidStudyDesign, err))
		}
	}

	sigma, err := matrix.KroneckerAll(blocks...)
	if err != nil {
		return nil, covErrorf(opAssemble, err)
	}

	return sigma, nil
}

// IsPositiveDefinite reports whether m is symmetric (within 1e-9) and
// admits a Cholesky factorization.
//
// Errors: matrix.ErrNilMatrix, matrix.ErrDimensionMismatch (not square).
func IsPositiveDefinite(m matrix.Matrix) (bool, error) {
	if err := matrix.ValidateSquare(m); err != nil {
		return false, covErrorf(opPosDef, err)
	}
	g, err := matrix.ToGonum(m)
	if err != nil {
		return false, covErrorf(opPosDef, err)
	}
	if !mat.EqualApprox(g, g.T(), symmetryTol) {
		return false, nil
	}

	n, _ := g.Dims()
	var chol mat.Cholesky

	return chol.Factorize(mat.NewSymDense(n, g.RawMatrix().Data)), nil
}
