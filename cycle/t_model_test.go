// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cycle

import (
	"errors"
	"sync"
	"testing"

	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gocycle/flow"
	"github.com/cpmech/gocycle/mdl/gas"
	"github.com/cpmech/gocycle/newton"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// ductNozzle builds start -> duct -> nozzle with a thrust balance on the mass flow
func ductNozzle(tst *testing.T, model gas.Model, Fg float64) *Model {
	m := NewModel("duct-nozzle", ele.Design, model)
	m.Metrics = nil
	add(tst, m, "flowstart", "start", "", &dbf.P{N: "Tt", V: 1000}, &dbf.P{N: "Pt", V: 30}, &dbf.P{N: "W", V: 10})
	add(tst, m, "duct", "duct", "", &dbf.P{N: "dPqP", V: 0.02}, &dbf.P{N: "Q_dot", V: 500}, &dbf.P{N: "MN", V: 0.3})
	add(tst, m, "nozzle", "nozz", "!type:CV")
	m.Connect("start.Fl_O", "duct.Fl_I")
	m.Connect("duct.Fl_O", "nozz.Fl_I")
	b := NewBalance("start.W", 10)
	b.Lower, b.Upper = 0.1, 1000
	b.Lhs, b.RhsVal, b.Ref = "nozz.Fg", Fg, 100
	m.AddBalance(b)
	return m
}

func Test_model01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("model01. run, balance closure and repeated solves")

	m := ductNozzle(tst, newGas(tst), 2000)
	solve(tst, m)
	chk.Float64(tst, "Fg", 1e-6, value(tst, m, "nozz.Fg"), 2000)
	W := value(tst, m, "start.W")
	chk.Float64(tst, "bal.Val", 1e-15, m.Balances()[0].Val, W)

	// energy conservation in duct
	ht1, ht2 := value(tst, m, "start.Fl_O.ht"), value(tst, m, "duct.Fl_O.ht")
	chk.Float64(tst, "ht2", 1e-5, ht2, ht1+500/W)
	chk.Float64(tst, "Pt2", 1e-12, value(tst, m, "duct.Fl_O.Pt"), 30*0.98)

	// input ports give the upstream station
	if m.Station("nozz.Fl_I") != m.Station("duct.Fl_O") {
		tst.Errorf("input port must give the upstream station\n")
		return
	}
	chk.Strings(tst, "stations", m.Stations(), []string{"start.Fl_O", "duct.Fl_O", "nozz.Fl_O"})

	// warm start: second solve needs no iterations and gives the same answer
	solve(tst, m)
	chk.Int(tst, "iterations", m.Last.Iters, 0)
	chk.Float64(tst, "W again", 1e-12, value(tst, m, "start.W"), W)

	// run without balances
	if err := m.Set("start.W", 2*W); err != nil {
		tst.Errorf("Set failed:\n%v", err)
		return
	}
	if err := m.Run(); err != nil {
		tst.Errorf("Run failed:\n%v", err)
		return
	}
	chk.Float64(tst, "W9", 1e-12, value(tst, m, "nozz.Fl_O.W"), 2*W)
	chk.Float64(tst, "ht2 (2W)", 1e-5, value(tst, m, "duct.Fl_O.ht"), ht1+500/(2*W))

	// same heat over twice the flow: less thrust per unit flow
	Fg := value(tst, m, "nozz.Fg")
	io.Pforan("Fg(2W) = %g\n", Fg)
	if Fg <= 2000 || Fg >= 4000 {
		tst.Errorf("thrust at 2W must be in (2000, 4000). Fg = %g\n", Fg)
		return
	}
	io.Pforan("%s", m.StationsTable())
}

func Test_model02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("model02. setup errors")

	model := newGas(tst)
	check := func(msg string, m *Model) {
		err := m.Setup()
		if err == nil {
			tst.Errorf("%s: Setup should have failed\n", msg)
			return
		}
		io.Pforan("%s: %v\n", msg, err)
	}

	// unconnected input
	m := ductNozzle(tst, model, 1000)
	m.conns = m.conns[:1]
	check("unconnected", m)

	// unknown port
	m = ductNozzle(tst, model, 1000)
	m.Connect("start.Fl_X", "nozz.Fl_I")
	check("unknown port", m)

	// consumer before producer
	m = ductNozzle(tst, model, 1000)
	m.SetOrder("start", "nozz", "duct")
	check("order", m)

	// incomplete order
	m = ductNozzle(tst, model, 1000)
	m.SetOrder("start", "duct")
	check("incomplete order", m)

	// fan-out
	m = ductNozzle(tst, model, 1000)
	add(tst, m, "duct", "duct2", "")
	m.Connect("start.Fl_O", "duct2.Fl_I")
	check("fan-out", m)

	// balance on unknown parameter and on a result
	m = ductNozzle(tst, model, 1000)
	m.AddBalance(NewBalance("duct.dPqQ", 0))
	check("unknown parameter", m)
	m = ductNozzle(tst, model, 1000)
	m.AddBalance(NewBalance("nozz.Fg", 0))
	check("result as target", m)

	// two owners
	m = ductNozzle(tst, model, 1000)
	m.Link("duct.Q_dot", "start.W")
	check("link to balance target", m)

	// link from a result computed later
	m = ductNozzle(tst, model, 1000)
	m.Link("nozz.Fg", "duct.Q_dot")
	check("link order", m)

	// bad lhs
	m = ductNozzle(tst, model, 1000)
	m.Balances()[0].Lhs = "nozz.Fl_O.foo"
	check("bad property", m)

	// duplicated element and dots in names
	m = ductNozzle(tst, model, 1000)
	if _, err := m.Add(&ele.Data{Kind: "duct", Name: "duct"}); err == nil {
		tst.Errorf("Add should have failed on duplicated name\n")
		return
	}
	if _, err := m.Add(&ele.Data{Kind: "duct", Name: "a.b"}); err == nil {
		tst.Errorf("Add should have failed on name with dot\n")
		return
	}

	// composition of a source does not match the gas model
	m = ductNozzle(tst, model, 1000)
	m.nodes["start"].e = shortSource{m.nodes["start"].e}
	check("short composition", m)

	// fuel with elements the gas model does not carry
	air, err := gas.New("cea-air", nil)
	if err != nil {
		tst.Errorf("gas.New failed:\n%v", err)
		return
	}
	m = ductNozzle(tst, air, 1000)
	add(tst, m, "combustor", "burner", "!fuel:Jet-A(g)")
	check("fuel on air model", m)

	// valid model
	m = ductNozzle(tst, model, 1000)
	if err := m.Setup(); err != nil {
		tst.Errorf("Setup failed:\n%v", err)
	}
}

// shortSource drops the last entry of the composition of a source element
type shortSource struct {
	ele.Element
}

func (o shortSource) Composition(calc *flow.Calc) ([]float64, error) {
	b, err := calc.B0("air")
	if err != nil {
		return nil, err
	}
	return b[:len(b)-1], nil
}

func Test_model03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("model03. concurrent operating points")

	targets := []float64{500, 1000, 1500, 2000, 2500, 3000}

	// serial
	serial := make([]float64, len(targets))
	for i, Fg := range targets {
		m := ductNozzle(tst, newGas(tst), Fg)
		solve(tst, m)
		serial[i] = value(tst, m, "start.W")
	}

	// concurrent; one gas model is shared
	model := newGas(tst)
	models := make([]*Model, len(targets))
	for i, Fg := range targets {
		models[i] = ductNozzle(tst, model, Fg)
	}
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i := range models {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = models[i].Solve()
		}(i)
	}
	wg.Wait()
	for i, m := range models {
		if errs[i] != nil {
			tst.Errorf("Solve %d failed:\n%v", i, errs[i])
			return
		}
		W, err := m.Get("start.W")
		if err != nil {
			tst.Errorf("Get failed:\n%v", err)
			return
		}
		chk.Float64(tst, io.Sf("W%d", i), 1e-9, W, serial[i])
	}
}

func Test_model04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("model04. metrics and failures")

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	// converged
	m := ductNozzle(tst, newGas(tst), 1500)
	m.Metrics = metrics
	solve(tst, m)
	chk.Float64(tst, "converged", 1e-15, testutil.ToFloat64(metrics.Solves.WithLabelValues("design", "converged")), 1)
	evals := testutil.ToFloat64(metrics.Evaluations.WithLabelValues("design"))
	if evals < 1 {
		tst.Errorf("evaluations must be counted\n")
		return
	}

	// heat addition limited by the upper bound: the step is blocked
	m = ductNozzle(tst, newGas(tst), 1500)
	m.Metrics = metrics
	m.bals = nil
	b := NewBalance("duct.Q_dot", 10)
	b.Lower, b.Upper = 0, 10
	b.Lhs, b.RhsVal, b.Ref = "duct.Fl_O.Tt", 5000, 1000
	m.AddBalance(b)
	err := m.Solve()
	if err == nil {
		tst.Errorf("Solve should have failed\n")
		return
	}
	var nerr *newton.Error
	if !errors.As(err, &nerr) {
		tst.Errorf("error must be a newton error:\n%v", err)
		return
	}
	chk.String(tst, FailureKind(err), "line-search")
	chk.String(tst, nerr.Worst, "duct.Q_dot")
	chk.Float64(tst, "failed", 1e-15, testutil.ToFloat64(metrics.Solves.WithLabelValues("design", "failed")), 1)
	chk.Float64(tst, "line-search", 1e-15, testutil.ToFloat64(metrics.Failures.WithLabelValues("line-search")), 1)
	chk.Float64(tst, "value kept", 1e-15, b.Val, 10)

	// classification
	eq := &gas.EquilibriumError{Mode: "HP", Msg: "test"}
	chk.String(tst, FailureKind(&flow.AnalysisError{Where: "x", Err: eq}), "equilibrium")
	chk.String(tst, FailureKind(&flow.AnalysisError{Where: "x"}), "analysis")
	chk.String(tst, FailureKind(chk.Err("bad")), "setup")
	if n := testutil.CollectAndCount(reg); n < 3 {
		tst.Errorf("registry must hold the metrics; got %d\n", n)
	}
}
