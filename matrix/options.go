// SPDX-License-Identifier: MIT

// Package matrix: numeric policy defaults.
//
// Notes:
//   - validateNaNInf controls whether Set()/ingestion rejects NaN/Inf at all.
//     Every constructor in this package starts from DefaultValidateNaNInf and
//     every derived matrix inherits the policy of its first operand.
package matrix

// Numeric policy.
const (
	// DefaultEpsilon defines the non-negative tolerance used by structural checks.
	DefaultEpsilon = 1e-9

	// DefaultValidateNaNInf toggles strict finite-value validation on ingestion and Set.
	DefaultValidateNaNInf = true
)
