// Package glmmc compiles a study design into the matrices of a General
// Linear Multivariate Model power analysis.
//
// A design names between-participant factors, responses, repeated-measures
// dimensions, clustering, covariance descriptors and a hypothesis. The
// compiler turns it into the design matrix X, coefficients B, contrasts C
// and U, the null Θ and the error covariance Σ, all with mutually
// consistent shapes.
//
// Layout:
//
//	matrix/     dense row-major matrices, Kronecker and direct products,
//	            orthogonal polynomial contrasts
//	design/     the study-design model, validation and YAML loading
//	covariance/ correlation structures and the Σ assembly
//	contrast/   between (C) and within (U) contrasts, cluster expansion
//	compiler/   Compile, the MatrixSet output and CompileAndSolve
//	cmd/glmmc/  command-line front end
//
// Every operation is a pure function of its inputs. There is no global
// state, so independent designs can be compiled concurrently.
package glmmc
