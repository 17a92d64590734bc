// Package matrix offers the dense linear-algebra primitives the study-design
// compiler is built on.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked At/Set and a
//     finite-only numeric policy.
//   - Mul, Transpose and Scale kernels.
//   - Kronecker and DirectProduct (row-wise Kronecker) for laying out nested
//     and replicated structure, plus HorizontalAppend.
//   - Constant, averaging and identity constructors.
//   - OrthogonalPolynomialCoefficients for trend contrasts at any spacing.
//   - ToGonum/FromGonum for handing results to gonum-based code.
//
// Every function is pure: inputs are never mutated and results are freshly
// allocated, so callers may share inputs across goroutines.
package matrix
