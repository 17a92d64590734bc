// SPDX-License-Identifier: MIT

package contrast

import (
	"fmt"

	"github.com/katalvlaran/glmmc/design"
	"github.com/katalvlaran/glmmc/matrix"
)

// Cluster expansion replicates a matrix across the N_c members of the
// clustering tree. The cluster index is always the outermost (slowest)
// position, matching cluster ⊗ repeated ⊗ response in Σ.

// ExpandWithinForClusters repeats the rows of u once per cluster member:
// the result is (N_c·rows(u))×cols(u) with row c·rows(u)+r equal to row r
// of u. It is built as the transpose of DirectProduct(ones(cols(u), N_c), uᵀ).
// N_c == 1 returns a copy.
func ExpandWithinForClusters(u matrix.Matrix, totalClusterSize int) (*matrix.Dense, error) {
	if totalClusterSize < 1 {
		return nil, design.Errorf(design.ErrInvalidStudyDesign, "total cluster size %d", totalClusterSize)
	}
	if totalClusterSize == 1 {
		return matrix.KroneckerAll(u)
	}

	ut, err := matrix.Transpose(u)
	if err != nil {
		return nil, fmt.Errorf("expand rows: %w", err)
	}
	ones, err := matrix.NewFilled(ut.Rows(), totalClusterSize, 1)
	if err != nil {
		return nil, fmt.Errorf("expand rows: %w", err)
	}
	wide, err := matrix.DirectProduct(ones, ut)
	if err != nil {
		return nil, fmt.Errorf("expand rows: %w", err)
	}
	res, err := matrix.Transpose(wide)
	if err != nil {
		return nil, fmt.Errorf("expand rows: %w", err)
	}

	return res.(*matrix.Dense), nil
}

// ExpandColumnsForClusters repeats the columns of b once per cluster
// member: DirectProduct(ones(rows(b), N_c), b), so column c·cols(b)+j
// equals column j of b. N_c == 1 returns a copy.
func ExpandColumnsForClusters(b matrix.Matrix, totalClusterSize int) (*matrix.Dense, error) {
	if totalClusterSize < 1 {
		return nil, design.Errorf(design.ErrInvalidStudyDesign, "total cluster size %d", totalClusterSize)
	}
	if totalClusterSize == 1 {
		return matrix.KroneckerAll(b)
	}
	if err := matrix.ValidateNotNil(b); err != nil {
		return nil, fmt.Errorf("expand columns: %w", err)
	}

	ones, err := matrix.NewFilled(b.Rows(), totalClusterSize, 1)
	if err != nil {
		return nil, fmt.Errorf("expand columns: %w", err)
	}
	res, err := matrix.DirectProduct(ones, b)
	if err != nil {
		return nil, fmt.Errorf("expand columns: %w", err)
	}

	return res, nil
}
