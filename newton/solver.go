// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package newton implements a damped Newton-Raphson solver for small dense nonlinear systems.
// The Jacobian is computed by central finite differences and factorised by LU. Steps are
// controlled by an Armijo-Goldstein backtracking line search that respects bounds.
package newton

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// System defines a nonlinear system r(x) = 0
type System interface {
	Size() int                     // number of unknowns and residuals
	Residual(x, r []float64) error // computes r(x)
}

// Named is implemented by systems that name their unknowns/residuals
type Named interface {
	Names() []string
}

// Bounded is implemented by systems with bounds on the unknowns
type Bounded interface {
	Bounds() (lo, hi []float64)
}

// Freezer is implemented by systems with discrete branches that must be kept fixed while the
// Jacobian is computed
type Freezer interface {
	Freeze(on bool)
}

// Options holds the control parameters of the solver
type Options struct {
	MaxIt            int     // max number of iterations
	Atol             float64 // absolute tolerance on |r|
	Rtol             float64 // tolerance on |r|/|r0|
	ConvIts          int     // number of consecutive converged iterations required
	StallIts         int     // window of the stall detector; 0 disables it
	StallTol         float64 // relative decrease of |r| over the window below which the solver stalls
	LsMaxIt          int     // max number of line-search trials
	LsRho            float64 // step reduction factor of the line search
	LsC              float64 // Armijo constant
	FdStep           float64 // relative finite-difference step
	FdMin            float64 // min magnitude of x used to compute the finite-difference step
	FdCentral        bool    // central differences; forward differences otherwise
	ErrOnNonConverge bool    // return an error (true) or a flagged result (false) when not converged

	// Recoverable tells whether an error from Residual can be handled by reducing the step.
	// nil means every error is recoverable
	Recoverable func(err error) bool
}

// DefaultOptions returns the default control parameters
func DefaultOptions() *Options {
	return &Options{
		MaxIt:            50,
		Atol:             1e-8,
		Rtol:             1e-10,
		ConvIts:          1,
		StallIts:         10,
		StallTol:         1e-3,
		LsMaxIt:          10,
		LsRho:            0.75,
		LsC:              0.1,
		FdStep:           1e-4,
		FdMin:            1e-3,
		FdCentral:        true,
		ErrOnNonConverge: true,
	}
}

// Result holds the outcome of Solve
type Result struct {
	X         []float64 // solution (or best point when not converged)
	Norm      float64   // final residual norm
	Norm0     float64   // initial residual norm
	Iters     int       // number of Newton iterations
	Evals     int       // number of residual evaluations
	Converged bool      // convergence flag
	Worst     string    // name of the largest final residual
	WorstVal  float64   // value of the largest final residual
	History   []float64 // residual norm at every iteration (History[0] = Norm0)
}

// Solver solves nonlinear systems
type Solver struct {
	Opts    Options // control parameters
	Verbose bool    // print iterations
}

// NewSolver returns a new solver; nil opts means default options
func NewSolver(opts *Options) *Solver {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Solver{Opts: *opts}
}

// Solve solves sys starting from x0 (not modified)
func (o *Solver) Solve(sys System, x0 []float64) (res *Result, err error) {

	// input
	n := sys.Size()
	if len(x0) != n {
		return nil, chk.Err("newton: size of x0 (%d) must be equal to system size (%d)", len(x0), n)
	}
	opt := &o.Opts
	if opt.MaxIt < 1 || opt.LsRho <= 0 || opt.LsRho >= 1 || opt.FdStep <= 0 {
		return nil, chk.Err("newton: invalid options: MaxIt=%d LsRho=%g FdStep=%g", opt.MaxIt, opt.LsRho, opt.FdStep)
	}
	convIts := imax(opt.ConvIts, 1)
	names := make([]string, n)
	for i := range names {
		names[i] = io.Sf("r%d", i)
	}
	if nm, ok := sys.(Named); ok {
		if s := nm.Names(); len(s) == n {
			names = s
		}
	}
	var lo, hi []float64
	if bd, ok := sys.(Bounded); ok {
		lo, hi = bd.Bounds()
	}

	// workspace
	x := append([]float64(nil), x0...)
	if n == 0 {
		return &Result{X: x, Converged: true}, nil
	}
	clip(x, lo, hi)
	r := make([]float64, n)
	rt := make([]float64, n)
	xt := make([]float64, n)
	dx := mat.NewVecDense(n, nil)
	J := mat.NewDense(n, n, nil)
	res = &Result{X: x}

	// worst residual
	worst := func(r []float64) (string, float64) {
		i := floats.MaxIdx(absv(r))
		return names[i], r[i]
	}
	fail := func(kind Kind, it int, norm float64, e error) (*Result, error) {
		res.Worst, res.WorstVal = worst(r)
		res.Norm = norm
		return res, &Error{Kind: kind, Iter: it, Norm: norm, Worst: res.Worst, WorstVal: res.WorstVal, Err: e}
	}

	// initial residual
	res.Evals++
	if err = sys.Residual(x, r); err != nil {
		return fail(Evaluation, 0, math.NaN(), err)
	}
	norm := floats.Norm(r, 2)
	if !finite(norm) {
		return fail(Evaluation, 0, norm, chk.Err("residual is not finite"))
	}
	res.Norm0 = norm
	res.History = append(res.History, norm)
	if o.Verbose {
		io.Pf("%4s%23s%13s%13s\n", "it", "|r|", "alpha", "evals")
		io.Pf("%4d%23.15e%13s%13d\n", 0, norm, "", res.Evals)
	}
	converged := func(norm float64) bool {
		return norm <= opt.Atol || norm <= opt.Rtol*res.Norm0
	}
	nconv := 0
	if converged(norm) {
		nconv++
	}

	// iterations
	var it int
	for it = 0; it < opt.MaxIt; it++ {
		if nconv >= convIts {
			break
		}

		// Jacobian
		if err = o.jacobian(sys, x, r, lo, hi, J, xt, rt, res); err != nil {
			return fail(Evaluation, it, norm, err)
		}

		// Newton direction: J dx = -r
		var lu mat.LU
		lu.Factorize(J)
		err = lu.SolveVecTo(dx, false, mat.NewVecDense(n, floats.ScaleTo(rt, -1, r)))
		if !usable(err, dx.RawVector().Data) {
			return fail(Singular, it, norm, chk.Err("cannot solve linear system with Jacobian matrix"))
		}
		d := dx.RawVector().Data

		// bounds
		amax := limitStep(x, d, lo, hi)
		if amax <= 0 {
			return fail(LineSearch, it, norm, chk.Err("step is blocked by bounds"))
		}

		// line search
		alpha, ntrial, ok, e := o.lineSearch(sys, x, d, amax, norm, xt, rt, res)
		if e != nil {
			return fail(Evaluation, it, norm, e)
		}
		if !ok {
			return fail(LineSearch, it, norm, chk.Err("no step reduces the residual after %d trials", opt.LsMaxIt))
		}
		copy(x, xt)
		copy(r, rt)
		norm = ntrial
		res.History = append(res.History, norm)
		if o.Verbose {
			io.Pf("%4d%23.15e%13.6f%13d\n", it+1, norm, alpha, res.Evals)
		}

		// convergence and stall
		if converged(norm) {
			nconv++
		} else {
			nconv = 0
		}
		if opt.StallIts > 0 && nconv == 0 && len(res.History) > opt.StallIts {
			old := res.History[len(res.History)-1-opt.StallIts]
			if norm >= (1-opt.StallTol)*old {
				res.Iters = it + 1
				if opt.ErrOnNonConverge {
					return fail(Stalled, it+1, norm, nil)
				}
				res.Norm = norm
				res.Worst, res.WorstVal = worst(r)
				logger.WithFields(log.Fields{"iter": it + 1, "norm": norm, "worst": res.Worst}).Warn("newton: stalled")
				return res, nil
			}
		}
	}

	// results
	res.Iters = it
	res.Norm = norm
	res.Worst, res.WorstVal = worst(r)
	res.Converged = nconv >= convIts
	if !res.Converged {
		if opt.ErrOnNonConverge {
			return fail(NotConverged, it, norm, nil)
		}
		logger.WithFields(log.Fields{"iter": it, "norm": norm, "worst": res.Worst}).Warn("newton: did not converge")
	}
	return res, nil
}

// jacobian computes J = dr/dx by central differences (forward differences when FdCentral is off,
// at bounds, or when one side fails). The system branches and warm starts are frozen meanwhile
func (o *Solver) jacobian(sys System, x, r, lo, hi []float64, J *mat.Dense, xt, rt []float64, res *Result) (err error) {
	if fr, ok := sys.(Freezer); ok {
		fr.Freeze(true)
		defer fr.Freeze(false)
	}
	n := len(x)
	rm := make([]float64, n)
	eval := func(j int, h float64, out []float64) error {
		copy(xt, x)
		xt[j] = x[j] + h
		res.Evals++
		return sys.Residual(xt, out)
	}
	for j := 0; j < n; j++ {
		h := o.Opts.FdStep * math.Max(math.Abs(x[j]), o.Opts.FdMin)
		upOk := hi == nil || x[j]+h <= hi[j]
		dnOk := lo == nil || x[j]-h >= lo[j]

		// central
		if o.Opts.FdCentral && upOk && dnOk {
			e1 := eval(j, h, rt)
			if e1 != nil && !o.recoverable(e1) {
				return e1
			}
			e2 := eval(j, -h, rm)
			if e2 != nil && !o.recoverable(e2) {
				return e2
			}
			switch {
			case e1 == nil && e2 == nil:
				for i := 0; i < n; i++ {
					J.Set(i, j, (rt[i]-rm[i])/(2*h))
				}
				continue
			case e1 == nil:
				for i := 0; i < n; i++ {
					J.Set(i, j, (rt[i]-r[i])/h)
				}
				continue
			case e2 == nil:
				for i := 0; i < n; i++ {
					J.Set(i, j, (r[i]-rm[i])/h)
				}
				continue
			}
			return chk.Err("cannot compute Jacobian column %d:\n%v", j, e1)
		}

		// one-sided
		if !upOk {
			h = -h
		}
		if err = eval(j, h, rt); err != nil {
			if !o.recoverable(err) {
				return
			}
			h = -h
			if err = eval(j, h, rt); err != nil {
				return chk.Err("cannot compute Jacobian column %d:\n%v", j, err)
			}
		}
		for i := 0; i < n; i++ {
			J.Set(i, j, (rt[i]-r[i])/h)
		}
	}
	return
}

// lineSearch backtracks from the step amax*d until the Armijo condition holds. On return, xt and
// rt hold the accepted point and its residual. fatal is set by non-recoverable evaluation errors
func (o *Solver) lineSearch(sys System, x, d []float64, amax, norm float64, xt, rt []float64, res *Result) (alpha, ntrial float64, ok bool, fatal error) {
	opt := &o.Opts
	nmax := imax(opt.LsMaxIt, 1)
	best, bestNorm := -1.0, norm
	alpha = amax
	for k := 0; k < nmax; k++ {
		floats.AddScaledTo(xt, x, alpha, d)
		res.Evals++
		err := sys.Residual(xt, rt)
		if err != nil {
			if !o.recoverable(err) {
				return 0, 0, false, err
			}
			logger.WithFields(log.Fields{"alpha": alpha, "error": err}).Debug("newton: trial step failed")
			alpha *= opt.LsRho
			continue
		}
		nt := floats.Norm(rt, 2)
		if finite(nt) {
			if nt <= math.Sqrt(math.Max(1-2*opt.LsC*alpha, 0))*norm {
				return alpha, nt, true, nil
			}
			if nt < bestNorm {
				best, bestNorm = alpha, nt
			}
		}
		alpha *= opt.LsRho
	}
	if best < 0 {
		return 0, 0, false, nil
	}
	logger.WithFields(log.Fields{"alpha": best, "norm": bestNorm, "norm0": norm}).Warn("newton: line search exhausted; using best decreasing step")
	floats.AddScaledTo(xt, x, best, d)
	res.Evals++
	if err := sys.Residual(xt, rt); err != nil {
		return 0, 0, false, nil
	}
	return best, floats.Norm(rt, 2), true, nil
}

func (o *Solver) recoverable(err error) bool {
	if o.Opts.Recoverable == nil {
		return true
	}
	return o.Opts.Recoverable(err)
}

// limitStep zeroes the components of d that push x out of a bound it already touches and returns
// the largest alpha in (0, 1] such that x + alpha d is within bounds
func limitStep(x, d, lo, hi []float64) (amax float64) {
	amax = 1
	for i := range x {
		if lo != nil && d[i] < 0 {
			if x[i] <= lo[i] {
				d[i] = 0
				continue
			}
			if x[i]+d[i] < lo[i] {
				amax = math.Min(amax, (lo[i]-x[i])/d[i])
			}
		}
		if hi != nil && d[i] > 0 {
			if x[i] >= hi[i] {
				d[i] = 0
				continue
			}
			if x[i]+d[i] > hi[i] {
				amax = math.Min(amax, (hi[i]-x[i])/d[i])
			}
		}
	}
	if floats.Norm(d, math.Inf(1)) == 0 {
		return 0
	}
	return
}

// clip puts x within [lo, hi]
func clip(x, lo, hi []float64) {
	for i := range x {
		if lo != nil && x[i] < lo[i] {
			x[i] = lo[i]
		}
		if hi != nil && x[i] > hi[i] {
			x[i] = hi[i]
		}
	}
}

func absv(v []float64) []float64 {
	a := make([]float64, len(v))
	for i, x := range v {
		a[i] = math.Abs(x)
	}
	return a
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// usable tells whether the output of a gonum solve can be used
func usable(err error, x []float64) bool {
	if err != nil {
		c, ok := err.(mat.Condition)
		if !ok || math.IsInf(float64(c), 1) {
			return false
		}
	}
	for _, v := range x {
		if !finite(v) {
			return false
		}
	}
	return true
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
