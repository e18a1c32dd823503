// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cycle

import (
	"math"
	"testing"

	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gocycle/mdl/gas"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	chk.Verbose = true
}

// newGas returns a new equilibrium gas model
func newGas(tst *testing.T) gas.Model {
	model, err := gas.New("cea", nil)
	if err != nil {
		tst.Fatalf("gas.New failed:\n%v", err)
	}
	return model
}

// add adds an element to model
func add(tst *testing.T, m *Model, kind, name, extra string, prms ...*dbf.P) {
	if _, err := m.Add(&ele.Data{Kind: kind, Name: name, Prms: prms, Extra: extra}); err != nil {
		tst.Fatalf("Add failed:\n%v", err)
	}
}

// value returns a model value
func value(tst *testing.T, m *Model, key string) float64 {
	v, err := m.Get(key)
	if err != nil {
		tst.Fatalf("Get failed:\n%v", err)
	}
	return v
}

// turbojet builds a single-spool turbojet
func turbojet(tst *testing.T, mode ele.Mode, model gas.Model) *Model {
	m := NewModel("turbojet", mode, model)
	add(tst, m, "ambient", "fc", "", &dbf.P{N: "alt", V: 0}, &dbf.P{N: "MN", V: 0.000001}, &dbf.P{N: "W", V: 150})
	add(tst, m, "inlet", "inlet", "", &dbf.P{N: "ram_recovery", V: 1})
	add(tst, m, "compressor", "comp", "!map:hpc")
	add(tst, m, "combustor", "burner", "!fuel:JP-7", &dbf.P{N: "dPqP", V: 0.03}, &dbf.P{N: "FAR", V: 0.0175})
	add(tst, m, "turbine", "turb", "!map:lpt", &dbf.P{N: "PR", V: 4})
	add(tst, m, "nozzle", "nozz", "!type:CD", &dbf.P{N: "Cv", V: 0.99})
	add(tst, m, "shaft", "shaft", "!ports:2", &dbf.P{N: "Nmech", V: 8070})
	add(tst, m, "performance", "perf", "")
	if mode == ele.Design {
		for _, p := range []struct {
			key string
			val float64
		}{
			{"inlet.MN", 0.6}, {"comp.MN", 0.02}, {"burner.MN", 0.02}, {"turb.MN", 0.4},
			{"comp.PR", 13.5}, {"comp.eff", 0.83}, {"turb.eff", 0.86},
		} {
			if err := m.Set(p.key, p.val); err != nil {
				tst.Fatalf("Set failed:\n%v", err)
			}
		}
	}

	// flow
	m.Connect("fc.Fl_O", "inlet.Fl_I")
	m.Connect("inlet.Fl_O", "comp.Fl_I")
	m.Connect("comp.Fl_O", "burner.Fl_I")
	m.Connect("burner.Fl_O", "turb.Fl_I")
	m.Connect("turb.Fl_O", "nozz.Fl_I")

	// links
	m.Link("fc.Ps", "nozz.Ps_exhaust")
	m.Link("shaft.Nmech", "comp.Nmech")
	m.Link("shaft.Nmech", "turb.Nmech")
	m.Link("comp.trq", "shaft.trq_0")
	m.Link("turb.trq", "shaft.trq_1")
	m.Link("nozz.Fg", "perf.Fg_0")
	m.Link("inlet.F_ram", "perf.Fram_0")
	m.Link("burner.Wfuel", "perf.Wfuel_0")
	m.Link("inlet.Fl_O.Pt", "perf.Pt2")
	m.Link("comp.Fl_O.Pt", "perf.Pt3")

	// balances
	W := NewBalance("fc.W", 150)
	W.Lower, W.Upper = 1, 1000
	W.Ref = 1000
	FAR := NewBalance("burner.FAR", 0.0175)
	FAR.Lower, FAR.Upper = 0.001, 0.06
	FAR.Lhs, FAR.RhsVal, FAR.Ref = "burner.Fl_O.Tt", 2370, 1000
	PR := NewBalance("turb.PR", 4)
	PR.Lower, PR.Upper = 1.001, 50
	PR.Lhs, PR.RhsVal, PR.Ref = "shaft.pwr_net", 0, 1000
	if mode == ele.Design {
		W.Lhs, W.RhsVal = "perf.Fn", 11800
		m.AddBalance(W)
		m.AddBalance(FAR)
		m.AddBalance(PR)
		return m
	}
	W.Lhs, W.Rhs, W.Ref = "nozz.Ath", "nozz.Ath_des", 100
	N := NewBalance("shaft.Nmech", 8070)
	N.Lower, N.Upper = 500, 20000
	N.Lhs, N.RhsVal, N.Ref = "shaft.pwr_net", 0, 1000
	Rline := NewBalance("comp.RlineMap", 2)
	Rline.Lower, Rline.Upper = 1, 3
	Rline.Lhs, Rline.Rhs, Rline.Ref = "comp.Wc", "comp.WcMap", 100
	PR.Lhs, PR.Rhs, PR.Ref = "turb.Wp", "turb.WpMap", 10
	m.AddBalance(W)
	m.AddBalance(FAR)
	m.AddBalance(N)
	m.AddBalance(Rline)
	m.AddBalance(PR)
	return m
}

// solve solves model
func solve(tst *testing.T, m *Model) {
	if err := m.Solve(); err != nil {
		tst.Fatalf("Solve failed:\n%v", err)
	}
	if chk.Verbose {
		m.Print()
	}
}

func Test_turbojet01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("turbojet01. design point")

	m := turbojet(tst, ele.Design, newGas(tst))
	m.Metrics = nil
	solve(tst, m)
	if !m.Last.Converged {
		tst.Errorf("design point did not converge\n")
		return
	}

	// balances
	chk.Float64(tst, "Fn", 1e-4, value(tst, m, "perf.Fn"), 11800)
	chk.Float64(tst, "T4", 1e-4, value(tst, m, "burner.Fl_O.Tt"), 2370)
	chk.Float64(tst, "pwr_net", 1e-4, value(tst, m, "shaft.pwr_net"), 0)

	// performance
	W := value(tst, m, "inlet.Fl_O.W")
	Wc := W * math.Sqrt(value(tst, m, "inlet.Fl_O.Tt")/518.67) / (value(tst, m, "inlet.Fl_O.Pt") / 14.696)
	TSFC := value(tst, m, "perf.TSFC")
	T3 := value(tst, m, "comp.Fl_O.Tt")
	FAR := value(tst, m, "burner.FAR")
	io.Pforan("Wc = %v  TSFC = %v  T3 = %v  FAR = %v\n", Wc, TSFC, T3, FAR)
	chk.Float64(tst, "T3", 0.001*1190.184, T3, 1190.184)
	chk.Float64(tst, "TSFC", 0.005*0.79381, TSFC, 0.79381)
	chk.Float64(tst, "FAR", 0.005*0.017551, FAR, 0.017551)
	chk.Float64(tst, "Wc", 0.01*148.25, Wc, 148.25)
	chk.Float64(tst, "Wfuel", 1e-6, value(tst, m, "burner.Wfuel"), TSFC*11800/3600)
	chk.Float64(tst, "OPR", 1e-9, value(tst, m, "perf.OPR"), 13.5)

	// conservation
	chk.Float64(tst, "W4", 1e-9*W, value(tst, m, "burner.Fl_O.W"), W+value(tst, m, "burner.Wfuel"))
	chk.Float64(tst, "W9", 1e-9*W, value(tst, m, "nozz.Fl_O.W"), value(tst, m, "burner.Fl_O.W"))
}

func Test_turbojet02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("turbojet02. off-design at the design point and at part power")

	model := newGas(tst)
	des := turbojet(tst, ele.Design, model)
	des.Metrics = nil
	solve(tst, des)

	// off-design at design conditions
	off := turbojet(tst, ele.OffDesign, model)
	off.Metrics = nil
	if err := off.TransferSizing(des); err != nil {
		tst.Errorf("TransferSizing failed:\n%v", err)
		return
	}
	Ath := value(tst, des, "nozz.Ath")
	chk.Float64(tst, "Ath_des", 1e-15, value(tst, off, "nozz.Ath_des"), Ath)
	chk.Float64(tst, "seed W", 1e-15, off.Balances()[0].Val, value(tst, des, "fc.W"))
	chk.Float64(tst, "seed Rline", 1e-15, off.Balances()[3].Val, value(tst, des, "comp.RlineMap"))
	solve(tst, off)
	for _, k := range []string{"fc.W", "shaft.Nmech", "perf.Fn", "perf.TSFC", "comp.Fl_O.Tt", "turb.PR"} {
		vd, vo := value(tst, des, k), value(tst, off, k)
		chk.Float64(tst, k, 1e-5*math.Max(1, math.Abs(vd)), vo, vd)
	}
	chk.Float64(tst, "PR", 1e-5, value(tst, off, "comp.PR"), 13.5)
	chk.Float64(tst, "eff", 1e-5, value(tst, off, "comp.eff"), 0.83)

	// part power
	for _, b := range off.Balances() {
		if b.Target == "burner.FAR" {
			b.RhsVal = 2200
		}
	}
	solve(tst, off)
	io.Pforan("part power: W = %v  Fn = %v  N = %v\n", value(tst, off, "fc.W"), value(tst, off, "perf.Fn"), value(tst, off, "shaft.Nmech"))
	chk.Float64(tst, "T4", 1e-4, value(tst, off, "burner.Fl_O.Tt"), 2200)
	chk.Float64(tst, "Ath", 1e-6*Ath, value(tst, off, "nozz.Ath"), Ath)
	if value(tst, off, "perf.Fn") >= 11800 {
		tst.Errorf("thrust must decrease with burner temperature\n")
		return
	}
	if value(tst, off, "fc.W") >= value(tst, des, "fc.W") {
		tst.Errorf("mass flow must decrease with burner temperature\n")
		return
	}
	if value(tst, off, "shaft.Nmech") >= 8070 {
		tst.Errorf("speed must decrease with burner temperature\n")
		return
	}
}
