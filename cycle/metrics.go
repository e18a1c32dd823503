// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cycle

import (
	"errors"
	"time"

	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gocycle/flow"
	"github.com/cpmech/gocycle/mdl/gas"
	"github.com/cpmech/gocycle/newton"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Registry holds the metrics of all models using DefaultMetrics
var Registry = prometheus.NewRegistry()

// DefaultMetrics are the metrics assigned to new models
var DefaultMetrics = NewMetrics(Registry)

// logger receives the warnings of this package
var logger = log.StandardLogger()

// SetLogger sets the logger of this package
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Metrics holds the counters of model solves
type Metrics struct {
	Solves      *prometheus.CounterVec   // solves by mode and status
	Iterations  *prometheus.HistogramVec // Newton iterations per solve by mode
	Evaluations *prometheus.CounterVec   // model evaluations by mode
	Failures    *prometheus.CounterVec   // failed solves by kind of failure
	Duration    *prometheus.HistogramVec // wall time of solves by mode [s]
}

// NewMetrics returns new metrics registered in reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	o := &Metrics{
		Solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gocycle",
			Name:      "solves_total",
			Help:      "Number of model solves.",
		}, []string{"mode", "status"}),
		Iterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gocycle",
			Name:      "newton_iterations",
			Help:      "Newton iterations per solve.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
		}, []string{"mode"}),
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gocycle",
			Name:      "model_evaluations_total",
			Help:      "Number of model evaluations during solves.",
		}, []string{"mode"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gocycle",
			Name:      "failures_total",
			Help:      "Number of failed solves by kind.",
		}, []string{"kind"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gocycle",
			Name:      "solve_duration_seconds",
			Help:      "Wall time of model solves.",
			Buckets:   prometheus.ExponentialBuckets(1e-3, 4, 8),
		}, []string{"mode"}),
	}
	if reg != nil {
		reg.MustRegister(o.Solves, o.Iterations, o.Evaluations, o.Failures, o.Duration)
	}
	return o
}

// record records one solve; nil metrics records nothing
func (o *Metrics) record(mode ele.Mode, res *newton.Result, err error, dur time.Duration) {
	if o == nil {
		return
	}
	m := mode.String()
	status := "converged"
	if err != nil {
		status = "failed"
		o.Failures.WithLabelValues(FailureKind(err)).Inc()
	}
	o.Solves.WithLabelValues(m, status).Inc()
	o.Duration.WithLabelValues(m).Observe(dur.Seconds())
	if res != nil {
		o.Iterations.WithLabelValues(m).Observe(float64(res.Iters))
		o.Evaluations.WithLabelValues(m).Add(float64(res.Evals))
	}
}

// FailureKind classifies an error returned by Solve or Run
//
// newton failures give the kind of the solver failure (e.g. "line-search"); otherwise
// "equilibrium", "analysis" or "setup"
func FailureKind(err error) string {
	var nerr *newton.Error
	if errors.As(err, &nerr) {
		return nerr.Kind.String()
	}
	var eqerr *gas.EquilibriumError
	if errors.As(err, &eqerr) {
		return "equilibrium"
	}
	if errors.Is(err, flow.ErrAnalysis) {
		return "analysis"
	}
	return "setup"
}
