// SPDX-License-Identifier: MIT

package compiler

import (
	"context"

	"github.com/katalvlaran/glmmc/design"
)

const opCompileAndSolve = "CompileAndSolve"

// Solver is the numerical power/sample-size engine. It only sees compiled
// matrix sets.
type Solver[R any] interface {
	Solve(ctx context.Context, set *MatrixSet) (R, error)
}

// SolverFunc adapts a plain function to Solver.
type SolverFunc[R any] func(ctx context.Context, set *MatrixSet) (R, error)

// Solve calls f(ctx, set).
func (f SolverFunc[R]) Solve(ctx context.Context, set *MatrixSet) (R, error) {
	return f(ctx, set)
}

// CompileAndSolve compiles d and hands the set to s. An invalid design is
// rejected before the solver is called, and so is a context that is
// already done once compilation finishes.
func CompileAndSolve[R any](ctx context.Context, d *design.StudyDesign, s Solver[R], opts ...Option) (R, error) {
	var zero R

	set, err := Compile(d, opts...)
	if err != nil {
		return zero, compilerErrorf(opCompileAndSolve, err)
	}
	if err = ctx.Err(); err != nil {
		return zero, compilerErrorf(opCompileAndSolve, err)
	}

	res, err := s.Solve(ctx, set)
	if err != nil {
		return zero, compilerErrorf(opCompileAndSolve, err)
	}

	return res, nil
}
