// SPDX-License-Identifier: MIT

// Package matrix provides converters between Dense and gonum's mat.Dense,
// so compiled matrices can be handed to solvers written against gonum.
package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const (
	opToGonum   = "ToGonum"
	opFromGonum = "FromGonum"
)

// ToGonum returns a gonum copy of m. The copy never shares storage with m.
//
// Time Complexity: O(r*c)
func ToGonum(m Matrix) (*mat.Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opToGonum, err)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opToGonum, err)
	}

	return mat.NewDense(d.r, d.c, d.RawRowMajor()), nil
}

// FromGonum copies any gonum matrix into a Dense, applying the default
// numeric policy to every entry.
//
// Time Complexity: O(r*c)
func FromGonum(g mat.Matrix) (*Dense, error) {
	if g == nil {
		return nil, matrixErrorf(opFromGonum, ErrNilMatrix)
	}
	r, c := g.Dims()
	res, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf(opFromGonum, err)
	}
	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if err = res.Set(i, j, g.At(i, j)); err != nil {
				return nil, matrixErrorf(opFromGonum, fmt.Errorf("entry (%d,%d): %w", i, j, err))
			}
		}
	}

	return res, nil
}
