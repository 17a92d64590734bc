// SPDX-License-Identifier: MIT

// Package matrix - structural products used to lay out study-design matrices.
//
// Purpose:
//   - Kronecker: full block product, multiplies both row and column counts.
//   - DirectProduct: row-wise Kronecker, multiplies column counts only.
//   - HorizontalAppend: column concatenation of equal-height operands.
//
// Determinism:
//   - Fixed i→j loop orders; the output layout is fully determined by the
//     operand shapes, which downstream covariance/contrast alignment relies on.

package matrix

import "fmt"

const (
	opKronecker     = "Kronecker"
	opDirectProduct = "DirectProduct"
	opAppend        = "HorizontalAppend"
)

// Kronecker returns A ⊗ B, shape (ra·rb)×(ca·cb).
// Entry ((i·rb)+k, (j·cb)+l) equals A[i,j]·B[k,l].
//
// Errors:
//   - ErrNilMatrix when either operand is nil.
//
// Complexity:
//   - Time O(ra·ca·rb·cb), Space O(ra·ca·rb·cb).
func Kronecker(a, b Matrix) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opKronecker, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opKronecker, err)
	}
	da, err := toDense(a)
	if err != nil {
		return nil, matrixErrorf(opKronecker, err)
	}
	db, err := toDense(b)
	if err != nil {
		return nil, matrixErrorf(opKronecker, err)
	}

	ra, ca, rb, cb := da.r, da.c, db.r, db.c
	res, err := NewDense(ra*rb, ca*cb)
	if err != nil {
		return nil, matrixErrorf(opKronecker, err)
	}
	res.validateNaNInf = da.validateNaNInf

	var i, j, k, l int
	var av float64
	var rowBase int
	for i = 0; i < ra; i++ {
		for j = 0; j < ca; j++ {
			av = da.data[i*ca+j]
			if av == 0 {
				continue // the block stays zero
			}
			for k = 0; k < rb; k++ {
				rowBase = (i*rb + k) * res.c
				for l = 0; l < cb; l++ {
					res.data[rowBase+j*cb+l] = av * db.data[k*cb+l]
				}
			}
		}
	}

	return res, nil
}

// KroneckerAll folds Kronecker left to right: ms[0] ⊗ ms[1] ⊗ … ⊗ ms[n-1].
// A single operand is returned as a Dense copy.
//
// Errors:
//   - ErrInvalidDimensions when ms is empty; ErrNilMatrix when any operand is nil
//     (the wrapped message names the operand position).
//
// Complexity:
//   - Time proportional to the size of the final product.
func KroneckerAll(ms ...Matrix) (*Dense, error) {
	if len(ms) == 0 {
		return nil, matrixErrorf(opKronecker, ErrInvalidDimensions)
	}
	for idx, m := range ms {
		if err := ValidateNotNil(m); err != nil {
			return nil, matrixErrorf(opKronecker, fmt.Errorf("operand %d: %w", idx, err))
		}
	}
	acc, err := toDense(ms[0].Clone())
	if err != nil {
		return nil, matrixErrorf(opKronecker, err)
	}
	for _, m := range ms[1:] {
		if acc, err = Kronecker(acc, m); err != nil {
			return nil, err
		}
	}

	return acc, nil
}

// DirectProduct returns the row-wise Kronecker product of A and B.
// Both operands must have the same row count r; the result is r×(ca·cb) and
// row i is the flattened outer product of row i of A with row i of B:
// res[i, j·cb + l] = A[i,j]·B[i,l].
//
// Unlike Kronecker, the row count is preserved. This is what expands a
// contrast or coefficient matrix across cluster replicates without
// multiplying observations.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (row counts differ).
//
// Complexity:
//   - Time O(r·ca·cb), Space O(r·ca·cb).
func DirectProduct(a, b Matrix) (*Dense, error) {
	if err := ValidateSameRows(a, b); err != nil {
		return nil, matrixErrorf(opDirectProduct, err)
	}
	da, err := toDense(a)
	if err != nil {
		return nil, matrixErrorf(opDirectProduct, err)
	}
	db, err := toDense(b)
	if err != nil {
		return nil, matrixErrorf(opDirectProduct, err)
	}

	r, ca, cb := da.r, da.c, db.c
	res, err := NewDense(r, ca*cb)
	if err != nil {
		return nil, matrixErrorf(opDirectProduct, err)
	}
	res.validateNaNInf = da.validateNaNInf

	var i, j, l int
	var av float64
	var outBase, aBase, bBase int
	for i = 0; i < r; i++ {
		outBase = i * res.c
		aBase = i * ca
		bBase = i * cb
		for j = 0; j < ca; j++ {
			av = da.data[aBase+j]
			for l = 0; l < cb; l++ {
				res.data[outBase+j*cb+l] = av * db.data[bBase+l]
			}
		}
	}

	return res, nil
}

// HorizontalAppend returns [A | B]; both operands must have equal row counts.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r·(ca+cb)), Space O(r·(ca+cb)).
func HorizontalAppend(a, b Matrix) (*Dense, error) {
	if err := ValidateSameRows(a, b); err != nil {
		return nil, matrixErrorf(opAppend, err)
	}
	da, err := toDense(a)
	if err != nil {
		return nil, matrixErrorf(opAppend, err)
	}
	db, err := toDense(b)
	if err != nil {
		return nil, matrixErrorf(opAppend, err)
	}

	r, ca, cb := da.r, da.c, db.c
	res, err := NewDense(r, ca+cb)
	if err != nil {
		return nil, matrixErrorf(opAppend, err)
	}
	res.validateNaNInf = da.validateNaNInf

	for i := 0; i < r; i++ {
		copy(res.data[i*res.c:i*res.c+ca], da.data[i*ca:(i+1)*ca])
		copy(res.data[i*res.c+ca:(i+1)*res.c], db.data[i*cb:(i+1)*cb])
	}

	return res, nil
}
