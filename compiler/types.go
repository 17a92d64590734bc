// SPDX-License-Identifier: MIT

package compiler

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

// ErrNilLogger is the panic value of WithLogger(nil).
var ErrNilLogger = errors.New("compiler: nil logger")

// Options configures a compilation.
//
// Logger               – receives one Debug entry per compilation. Default discards.
// InteractionGrandMean – answer INTERACTION hypotheses with the grand-mean
//
//	contrast instead of failing with design.ErrUnsupportedHypothesis.
//	Default false.
type Options struct {
	Logger               logrus.FieldLogger
	InteractionGrandMean bool
}

// Option represents a functional option for configuring Compile.
type Option func(*Options)

// WithLogger routes compilation logs to l. Passing nil panics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Options) {
		if l == nil {
			panic(ErrNilLogger.Error())
		}
		o.Logger = l
	}
}

// WithInteractionGrandMean enables the grand-mean answer for INTERACTION
// hypotheses. The fallback tests the overall mean, not the interaction, so
// it has to be asked for.
func WithInteractionGrandMean(enabled bool) Option {
	return func(o *Options) {
		o.InteractionGrandMean = enabled
	}
}

// DefaultOptions returns the defaults: a discarding logger and no
// interaction fallback.
func DefaultOptions() Options {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return Options{
		Logger:               l,
		InteractionGrandMean: false,
	}
}
