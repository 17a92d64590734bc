// Package compiler turns a design.StudyDesign into the MatrixSet a GLMM
// power/sample-size solver consumes: X, B, C, U, Θ and Σ (or the three
// covariate covariances).
//
// Compile is a pure function of its input. It holds no state, caches
// nothing and may be called from any number of goroutines. Logging goes to
// an explicitly passed logrus.FieldLogger (WithLogger); by default it is
// discarded.
//
// CompileAndSolve connects Compile to a Solver, so invalid designs are
// rejected before any expensive solve begins.
package compiler
