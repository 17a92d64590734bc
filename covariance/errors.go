// SPDX-License-Identifier: MIT

package covariance

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks a correlation-model call outside its domain:
// too few spacing points, an index out of range, a base correlation
// outside [-1, 1], a negative decay rate, or a non-real result.
var ErrInvalidArgument = errors.New("covariance: invalid argument")

func covErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
