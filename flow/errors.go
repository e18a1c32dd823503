// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"errors"

	"github.com/cpmech/gocycle/mdl/gas"
	"github.com/cpmech/gosl/io"
	log "github.com/sirupsen/logrus"
)

// ErrAnalysis is matched by every analysis error (errors.Is)
var ErrAnalysis = errors.New("analysis error")

// AnalysisError reports a non-physical intermediate state. It can be recovered from by reducing
// the step of the outer solver
type AnalysisError struct {
	Where string // station or element name
	Msg   string // description
	Err   error  // underlying error, if any
}

// analysisErr returns a new AnalysisError
func analysisErr(where string, err error, msg string, prm ...interface{}) *AnalysisError {
	return &AnalysisError{Where: where, Msg: io.Sf(msg, prm...), Err: err}
}

// Error implements error
func (o *AnalysisError) Error() string {
	s := io.Sf("analysis error at %q: %s", o.Where, o.Msg)
	if o.Err != nil {
		s += io.Sf("\n%v", o.Err)
	}
	return s
}

// Is tells whether target is ErrAnalysis
func (o *AnalysisError) Is(target error) bool { return target == ErrAnalysis }

// Unwrap returns the underlying error
func (o *AnalysisError) Unwrap() error { return o.Err }

// Recoverable tells whether err can be recovered from by reducing the step of an outer solver
func Recoverable(err error) bool {
	var eqerr *gas.EquilibriumError
	return errors.Is(err, ErrAnalysis) || errors.As(err, &eqerr)
}

// logger receives the warnings of this package
var logger = log.StandardLogger()

// SetLogger sets the logger of this package
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}
