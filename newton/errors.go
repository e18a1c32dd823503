// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import (
	"github.com/cpmech/gosl/io"
	log "github.com/sirupsen/logrus"
)

// Kind classifies a failure of the solver
type Kind int

// kinds of failure
const (
	NotConverged Kind = iota // max number of iterations reached
	Stalled                  // residual norm stopped decreasing
	LineSearch               // no acceptable step found
	Singular                 // Jacobian cannot be factorised
	Evaluation               // residual cannot be evaluated at the current point
)

var kindNames = []string{"not-converged", "stalled", "line-search", "singular", "evaluation"}

// String returns the name of the kind
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return io.Sf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Error is returned by Solve when the system cannot be converged
type Error struct {
	Kind     Kind    // kind of failure
	Iter     int     // iteration where the failure happened
	Norm     float64 // residual norm at failure
	Worst    string  // name of the largest scaled residual
	WorstVal float64 // value of the largest scaled residual
	Err      error   // underlying error, if any
}

// Error implements error
func (o *Error) Error() string {
	s := io.Sf("newton: %s at iteration %d: |r| = %g; worst residual %s = %g", o.Kind, o.Iter, o.Norm, o.Worst, o.WorstVal)
	if o.Err != nil {
		s += io.Sf("\n%v", o.Err)
	}
	return s
}

// Unwrap returns the underlying error
func (o *Error) Unwrap() error { return o.Err }

// logger receives the warnings of this package
var logger = log.StandardLogger()

// SetLogger sets the logger of this package
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}
