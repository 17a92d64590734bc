// Package covariance builds covariance blocks and composes them into the
// error covariance Σ.
//
// There is one block per structural dimension: each cluster level
// (compound symmetric), each repeated-measures dimension and the response
// vector (from a design.CovarianceDescriptor). AssembleErrorCovariance
// Kronecker-composes them in the fixed order cluster ⊗ repeated ⊗ response,
// which is the row order the compiler uses for B and U.
package covariance
