// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the structural products.
package matrix_test

import (
	"testing"

	"github.com/katalvlaran/glmmc/matrix"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestKronecker_Values(t *testing.T) {
	a := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	b := NewFilledDense(t, 1, 2, []float64{0, 1})

	got, err := matrix.Kronecker(a, b)
	require.NoError(t, err)
	CompareExact(t, NewFilledDense(t, 2, 4, []float64{
		0, 1, 0, 2,
		0, 3, 0, 4,
	}), got)
}

// TestKronecker_MatchesGonum cross-checks the block layout against gonum.
func TestKronecker_MatchesGonum(t *testing.T) {
	a := NewFilledDense(t, 2, 3, []float64{1, -2, 0, 0.5, 3, 7})
	b := NewFilledDense(t, 3, 2, []float64{2, 1, 0, -1, 4, 0.25})

	got, err := matrix.Kronecker(a, hide{b})
	require.NoError(t, err)

	var ref mat.Dense
	ref.Kronecker(mat.NewDense(2, 3, a.RawRowMajor()), mat.NewDense(3, 2, b.RawRowMajor()))
	r, c := ref.Dims()
	require.Equal(t, r, got.Rows())
	require.Equal(t, c, got.Cols())
	require.Equal(t, ref.RawMatrix().Data, got.RawRowMajor())
}

func TestKroneckerAll(t *testing.T) {
	i2, err := matrix.NewIdentity(2)
	require.NoError(t, err)
	ones, err := matrix.OnesColumn(3)
	require.NoError(t, err)

	got, err := matrix.KroneckerAll(i2, ones, i2)
	require.NoError(t, err)
	require.Equal(t, 12, got.Rows())
	require.Equal(t, 4, got.Cols())

	single, err := matrix.KroneckerAll(i2)
	require.NoError(t, err)
	CompareExact(t, i2, single)
	require.NoError(t, single.Set(0, 1, 5))
	require.Equal(t, 0.0, MustAt(t, i2, 0, 1), "single operand must be copied")

	_, err = matrix.KroneckerAll()
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.KroneckerAll(i2, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestDirectProduct(t *testing.T) {
	a := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	b := NewFilledDense(t, 2, 3, []float64{1, 0, 1, 0, 2, 0})

	got, err := matrix.DirectProduct(a, b)
	require.NoError(t, err)
	CompareExact(t, NewFilledDense(t, 2, 6, []float64{
		1, 0, 1, 2, 0, 2,
		0, 6, 0, 0, 8, 0,
	}), got)

	_, err = matrix.DirectProduct(a, MustDense(t, 3, 1))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestDirectProduct_SingleRowIsKronecker pins the equivalence the contrast
// builders rely on: with one row on both sides the two products agree.
func TestDirectProduct_SingleRowIsKronecker(t *testing.T) {
	a := NewFilledDense(t, 1, 3, []float64{1, -1, 2})
	b := NewFilledDense(t, 1, 2, []float64{0.5, 0.5})

	dp, err := matrix.DirectProduct(a, b)
	require.NoError(t, err)
	kr, err := matrix.Kronecker(a, b)
	require.NoError(t, err)
	CompareExact(t, kr, dp)
}

func TestHorizontalAppend(t *testing.T) {
	a := NewFilledDense(t, 2, 1, []float64{1, 2})
	b := NewFilledDense(t, 2, 2, []float64{3, 4, 5, 6})

	got, err := matrix.HorizontalAppend(a, b)
	require.NoError(t, err)
	CompareExact(t, NewFilledDense(t, 2, 3, []float64{1, 3, 4, 2, 5, 6}), got)

	_, err = matrix.HorizontalAppend(a, MustDense(t, 1, 1))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
