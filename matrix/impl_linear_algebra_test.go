// Package matrix_test contains unit tests for universal Matrix (linear algebra) operations.
package matrix_test

import (
	"testing"

	"github.com/katalvlaran/glmmc/matrix"
	"github.com/stretchr/testify/require"
)

func TestMul(t *testing.T) {
	a := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	b := NewFilledDense(t, 3, 2, []float64{7, 8, 9, 10, 11, 12})
	want := NewFilledDense(t, 2, 2, []float64{58, 64, 139, 154})

	t.Run("dense fast path", func(t *testing.T) {
		got, err := matrix.Mul(a, b)
		require.NoError(t, err)
		CompareExact(t, want, got)
	})
	t.Run("interface fallback", func(t *testing.T) {
		got, err := matrix.Mul(hide{a}, hide{b})
		require.NoError(t, err)
		CompareExact(t, want, got)
	})
	t.Run("inner mismatch", func(t *testing.T) {
		_, err := matrix.Mul(a, a)
		require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	})
	t.Run("nil operand", func(t *testing.T) {
		_, err := matrix.Mul(nil, b)
		require.ErrorIs(t, err, matrix.ErrNilMatrix)
	})
}

func TestTranspose(t *testing.T) {
	a := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	want := NewFilledDense(t, 3, 2, []float64{1, 4, 2, 5, 3, 6})

	got, err := matrix.Transpose(a)
	require.NoError(t, err)
	CompareExact(t, want, got)

	got, err = matrix.Transpose(hide{a})
	require.NoError(t, err)
	CompareExact(t, want, got)

	// the input is untouched
	require.Equal(t, []float64{1, 2, 3, 4, 5, 6}, a.RawRowMajor())
}

func TestScale(t *testing.T) {
	a := NewFilledDense(t, 1, 3, []float64{1, -2, 0.5})
	got, err := matrix.Scale(a, 2)
	require.NoError(t, err)
	CompareExact(t, NewFilledDense(t, 1, 3, []float64{2, -4, 1}), got)

	_, err = matrix.Scale(nil, 2)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}
