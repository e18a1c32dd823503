// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import (
	"errors"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"
)

func verbose() {
	chk.Verbose = true
}

// testSystem wraps a residual function
type testSystem struct {
	n       int
	fcn     func(x, r []float64) error
	names   []string
	lo, hi  []float64
	freezes int
	frozen  bool
}

func (o *testSystem) Size() int                     { return o.n }
func (o *testSystem) Residual(x, r []float64) error { return o.fcn(x, r) }
func (o *testSystem) Names() []string               { return o.names }
func (o *testSystem) Bounds() (lo, hi []float64)    { return o.lo, o.hi }
func (o *testSystem) Freeze(on bool) {
	if on {
		o.freezes++
	}
	o.frozen = on
}

var errAnalysis = errors.New("analysis failed")

func Test_newton01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("newton01. circle and line")

	sys := &testSystem{n: 2, names: []string{"circle", "line"}}
	sys.fcn = func(x, r []float64) error {
		r[0] = x[0]*x[0] + x[1]*x[1] - 4
		r[1] = x[0] - x[1]
		return nil
	}
	solver := NewSolver(nil)
	solver.Verbose = chk.Verbose
	res, err := solver.Solve(sys, []float64{1, 0.5})
	if err != nil {
		tst.Errorf("Solve failed:\n%v", err)
		return
	}
	io.Pforan("iters = %d  evals = %d  norm = %g\n", res.Iters, res.Evals, res.Norm)
	chk.Array(tst, "x", 1e-8, res.X, []float64{math.Sqrt2, math.Sqrt2})
	if !res.Converged {
		tst.Errorf("result must be flagged as converged")
		return
	}
	chk.Int(tst, "freezes", sys.freezes, res.Iters)
	chk.Int(tst, "history", len(res.History), res.Iters+1)
	if sys.frozen {
		tst.Errorf("system must be unfrozen after Solve")
		return
	}

	// already converged: zero iterations
	res, err = solver.Solve(sys, []float64{math.Sqrt2, math.Sqrt2})
	if err != nil {
		tst.Errorf("Solve failed:\n%v", err)
		return
	}
	chk.Int(tst, "iters", res.Iters, 0)
	chk.Int(tst, "evals", res.Evals, 1)
}

func Test_newton02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("newton02. failed evaluations in line search")

	nfail := 0
	sys := &testSystem{n: 1}
	sys.fcn = func(x, r []float64) error {
		if x[0] > 5 {
			nfail++
			return errAnalysis
		}
		r[0] = x[0]*x[0]*x[0] - 8
		return nil
	}
	solver := NewSolver(nil)
	res, err := solver.Solve(sys, []float64{0.5})
	if err != nil {
		tst.Errorf("Solve failed:\n%v", err)
		return
	}
	chk.Float64(tst, "x", 1e-8, res.X[0], 2)
	if nfail == 0 {
		tst.Errorf("trial steps should have failed")
		return
	}

	// non-recoverable errors stop the solver
	solver.Opts.Recoverable = func(err error) bool { return false }
	_, err = solver.Solve(sys, []float64{0.5})
	var nerr *Error
	if !errors.As(err, &nerr) {
		tst.Errorf("newton.Error expected. got %v", err)
		return
	}
	if nerr.Kind != Evaluation || !errors.Is(err, errAnalysis) {
		tst.Errorf("evaluation error wrapping errAnalysis expected. got %v", err)
		return
	}
}

func Test_newton03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("newton03. bounds")

	sys := &testSystem{n: 1, lo: []float64{0}, hi: []float64{10}}
	sys.fcn = func(x, r []float64) error {
		r[0] = x[0]*x[0] - 4
		return nil
	}
	solver := NewSolver(nil)
	res, err := solver.Solve(sys, []float64{0.1})
	if err != nil {
		tst.Errorf("Solve failed:\n%v", err)
		return
	}
	chk.Float64(tst, "x", 1e-8, res.X[0], 2)

	// root beyond upper bound
	sys.hi = []float64{1}
	_, err = solver.Solve(sys, []float64{0.5})
	var nerr *Error
	if !errors.As(err, &nerr) {
		tst.Errorf("newton.Error expected. got %v", err)
		return
	}
	io.Pforan("%v\n", err)
	if nerr.Kind != LineSearch {
		tst.Errorf("line-search error expected. got %v", nerr.Kind)
		return
	}
}

func Test_newton04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("newton04. failures")

	// singular Jacobian
	sys := &testSystem{n: 2, names: []string{"first", "second"}}
	sys.fcn = func(x, r []float64) error {
		r[0] = x[0] - 1
		r[1] = x[0] - 3
		return nil
	}
	solver := NewSolver(nil)
	_, err := solver.Solve(sys, []float64{0, 0})
	var nerr *Error
	if !errors.As(err, &nerr) {
		tst.Errorf("newton.Error expected. got %v", err)
		return
	}
	if nerr.Kind != Singular {
		tst.Errorf("singular error expected. got %v", nerr.Kind)
		return
	}
	if nerr.Worst != "second" {
		tst.Errorf("worst residual should be 'second'. got %q", nerr.Worst)
		return
	}
	chk.Float64(tst, "worst value", 1e-15, nerr.WorstVal, -3)

	// not converged
	sys.fcn = func(x, r []float64) error {
		r[0] = math.Atan(x[0]) - 0.5
		r[1] = x[1] * x[1] * x[1]
		return nil
	}
	solver.Opts.MaxIt = 2
	_, err = solver.Solve(sys, []float64{3, 1})
	if !errors.As(err, &nerr) {
		tst.Errorf("newton.Error expected. got %v", err)
		return
	}
	if nerr.Kind != NotConverged {
		tst.Errorf("not-converged error expected. got %v", nerr.Kind)
		return
	}
	chk.Int(tst, "iteration", nerr.Iter, 2)

	// best effort
	solver.Opts.ErrOnNonConverge = false
	res, err := solver.Solve(sys, []float64{3, 1})
	if err != nil {
		tst.Errorf("Solve should not fail:\n%v", err)
		return
	}
	if res.Converged {
		tst.Errorf("result must not be flagged as converged")
		return
	}
	if res.Norm >= res.Norm0 {
		tst.Errorf("norm should decrease: %g >= %g", res.Norm, res.Norm0)
		return
	}

	// wrong input
	if _, err = solver.Solve(sys, []float64{1}); err == nil {
		tst.Errorf("wrong size of x0 should cause an error")
		return
	}
}

func Test_root01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("root01. scalar root finder")

	// Newton
	f := func(x float64) (float64, float64, error) { return x*x - 2, 2 * x, nil }
	x, it, err := Root(f, 1, 0, 10, nil)
	if err != nil {
		tst.Errorf("Root failed:\n%v", err)
		return
	}
	io.Pforan("it = %d\n", it)
	chk.Float64(tst, "sqrt(2)", 1e-14, x, math.Sqrt2)

	// secant with bad initial guess
	g := func(x float64) (float64, float64, error) { return math.Tanh(x - 3), math.NaN(), nil }
	x, _, err = Root(g, 9, 0, 10, nil)
	if err != nil {
		tst.Errorf("Root failed:\n%v", err)
		return
	}
	chk.Float64(tst, "tanh root", 1e-10, x, 3)

	// errors
	if _, _, err = Root(f, 1, 2, 1, nil); err == nil {
		tst.Errorf("invalid interval should cause an error")
		return
	}
	h := func(x float64) (float64, float64, error) { return 0, 0, errAnalysis }
	if _, _, err = Root(h, 1, 0, 2, nil); !errors.Is(err, errAnalysis) {
		tst.Errorf("errors from f must be returned. got %v", err)
		return
	}
}

func Test_root02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("root02. no root inside the interval")

	// root at 5 is outside [0, 1]: walks towards x = 1 and stalls
	f := func(x float64) (float64, float64, error) { return x - 5, 1, nil }
	x, _, err := Root(f, 0.2, 0, 1, nil)
	if err == nil {
		tst.Errorf("Root must fail when f does not change sign. got x = %g", x)
		return
	}
	io.Pforan("%v\n", err)

	// positive definite function
	g := func(x float64) (float64, float64, error) { return x*x + 1, 2 * x, nil }
	if _, _, err = Root(g, 1.5, 0, 2, nil); err == nil {
		tst.Errorf("Root must fail for x² + 1")
		return
	}

	// Newton from one side still converges without a bracket
	h := func(x float64) (float64, float64, error) { return math.Exp(x) - 2, math.Exp(x), nil }
	x, _, err = Root(h, 3, 0, 5, nil)
	if err != nil {
		tst.Errorf("Root failed:\n%v", err)
		return
	}
	chk.Float64(tst, "ln(2)", 1e-13, x, math.Ln2)
}

func Test_newton05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("newton05. finite-difference Jacobian")

	unfrozen := 0
	sys := &testSystem{n: 2}
	sys.fcn = func(x, r []float64) error {
		if !sys.frozen {
			unfrozen++
		}
		r[0] = x[0] * x[0] * x[0]
		r[1] = x[0] * x[1]
		return nil
	}
	x := []float64{2, 3}
	r := make([]float64, 2)
	sys.fcn(x, r)
	unfrozen = 0
	J := mat.NewDense(2, 2, nil)
	xt, rt := make([]float64, 2), make([]float64, 2)

	// central
	solver := NewSolver(nil)
	res := &Result{}
	if err := solver.jacobian(sys, x, r, nil, nil, J, xt, rt, res); err != nil {
		tst.Errorf("jacobian failed:\n%v", err)
		return
	}
	h := solver.Opts.FdStep * 2
	io.Pforan("J = %v\n", mat.Formatted(J))
	chk.Float64(tst, "dr0/dx0 (central)", 1e-9, J.At(0, 0), 12+h*h)
	chk.Float64(tst, "dr1/dx0 (central)", 1e-9, J.At(1, 0), 3)
	chk.Float64(tst, "dr1/dx1 (central)", 1e-9, J.At(1, 1), 2)
	chk.Int(tst, "evals (central)", res.Evals, 4)
	chk.Int(tst, "unfrozen evals", unfrozen, 0)

	// forward
	solver.Opts.FdCentral = false
	res = &Result{}
	if err := solver.jacobian(sys, x, r, nil, nil, J, xt, rt, res); err != nil {
		tst.Errorf("jacobian failed:\n%v", err)
		return
	}
	chk.Float64(tst, "dr0/dx0 (forward)", 1e-9, J.At(0, 0), 12+6*h+h*h)
	chk.Int(tst, "evals (forward)", res.Evals, 2)

	// at the upper bound: backward difference
	solver.Opts.FdCentral = true
	res = &Result{}
	if err := solver.jacobian(sys, x, r, []float64{0, 0}, []float64{2, 10}, J, xt, rt, res); err != nil {
		tst.Errorf("jacobian failed:\n%v", err)
		return
	}
	chk.Float64(tst, "dr0/dx0 (backward)", 1e-9, J.At(0, 0), 12-6*h+h*h)
	chk.Float64(tst, "dr1/dx1 (central)", 1e-9, J.At(1, 1), 2)
	chk.Int(tst, "evals (bounds)", res.Evals, 3)

	// failed side: one-sided difference with the other
	sys.fcn = func(x, r []float64) error {
		if x[0] > 2 {
			return errAnalysis
		}
		r[0] = x[0] * x[0] * x[0]
		r[1] = x[0] * x[1]
		return nil
	}
	if err := solver.jacobian(sys, x, r, nil, nil, J, xt, rt, &Result{}); err != nil {
		tst.Errorf("jacobian failed:\n%v", err)
		return
	}
	chk.Float64(tst, "dr0/dx0 (failed side)", 1e-9, J.At(0, 0), 12-6*h+h*h)
}
