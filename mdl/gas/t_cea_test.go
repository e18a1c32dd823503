// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gas

import (
	"errors"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/diff/fd"
)

// mixture returns the composition of air burned with Jet-A at the given fuel-to-air ratio
func mixture(tst *testing.T, elements []string, far float64) []float64 {
	air, err := B0("air", elements)
	if err != nil {
		tst.Fatalf("B0 failed:\n%v", err)
	}
	fuel, err := B0("Jet-A(g)", elements)
	if err != nil {
		tst.Fatalf("B0 failed:\n%v", err)
	}
	b := make([]float64, len(air))
	for i := range b {
		b[i] = (air[i] + far*fuel[i]) / (1 + far)
	}
	return b
}

// newCea allocates the equilibrium model
func newCea(tst *testing.T, prms dbf.Params) Model {
	m, err := New("cea", prms)
	if err != nil {
		tst.Fatalf("New failed:\n%v", err)
	}
	return m
}

func Test_cea01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cea01. air at standard conditions")

	m := newCea(tst, nil)
	b := mixture(tst, m.Elements(), 0)
	chk.Float64(tst, "Σ b・aw", 1e-14, MixtureMass(b, m.Elements()), 1)

	st, err := m.TP(298.15, 1.01325, b, nil)
	if err != nil {
		tst.Errorf("TP failed:\n%v", err)
		return
	}
	io.Pforan("iterations = %d\n", st.Iters)
	chk.Float64(tst, "R", 2e-3, st.R, 287.0508)
	chk.Float64(tst, "Cp", 0.5, st.Cp, 1004.76)
	chk.Float64(tst, "Gamma", 1e-3, st.Gamma, 1.4)
	chk.Float64(tst, "GammaS", 1e-3, st.GammaS, 1.4)
	chk.Float64(tst, "H", 20, st.H, -4334)
	chk.Float64(tst, "Rho", 1e-3, st.Rho, 1.01325e5/(287.0508*298.15))

	// mole fractions
	frac := func(name string) float64 {
		for j, s := range m.Species() {
			if s == name {
				return st.N[j] / st.Ntot
			}
		}
		tst.Fatalf("species %q not found", name)
		return 0
	}
	chk.Float64(tst, "x(N2)", 1e-6, frac("N2"), 0.78084)
	chk.Float64(tst, "x(O2)", 1e-6, frac("O2"), 0.209476)
	chk.Float64(tst, "x(Ar)", 1e-7, frac("Ar"), 0.009365)
	chk.Float64(tst, "x(CO2)", 1e-8, frac("CO2"), 0.000319)
	if frac("H2O") != 0 {
		tst.Errorf("dry air must not have water. x(H2O) = %g", frac("H2O"))
		return
	}
}

func Test_cea02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cea02. TP -> HP and TP -> SP round trips")

	m := newCea(tst, nil)
	for _, far := range []float64{0, 0.015, 0.035} {
		b := mixture(tst, m.Elements(), far)
		for _, T := range []float64{300, 900, 1500, 2400} {
			for _, P := range []float64{0.3, 10, 40} {
				st, err := m.TP(T, P, b, nil)
				if err != nil {
					tst.Errorf("TP failed:\n%v", err)
					return
				}
				hp, err := m.HP(st.H, P, b, nil)
				if err != nil {
					tst.Errorf("HP failed:\n%v", err)
					return
				}
				sp, err := m.SP(st.S, P, b, st)
				if err != nil {
					tst.Errorf("SP failed:\n%v", err)
					return
				}
				msg := io.Sf("far=%g T=%g P=%g", far, T, P)
				chk.Float64(tst, msg+": T(HP)", 1e-6, hp.T, T)
				chk.Float64(tst, msg+": T(SP)", 1e-6, sp.T, T)
				chk.Float64(tst, msg+": Cp(HP)", 1e-5*st.Cp, hp.Cp, st.Cp)
			}
		}
	}
}

func Test_cea03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cea03. analytic derivatives against finite differences")

	m := newCea(tst, nil)
	b := mixture(tst, m.Elements(), 0.03)
	T, P := 2500.0, 5.0
	st, err := m.TP(T, P, b, nil)
	if err != nil {
		tst.Errorf("TP failed:\n%v", err)
		return
	}

	// check helper
	check := func(msg string, ana float64, f func(x float64) float64, x, h float64) {
		num := fd.Derivative(f, x, &fd.Settings{Formula: fd.Central, Step: h})
		chk.Float64(tst, msg, 1e-5*math.Abs(num)+1e-6, ana, num)
	}
	at := func(T, P float64, b []float64) *State {
		s, e := m.TP(T, P, b, st)
		if e != nil {
			tst.Fatalf("TP failed:\n%v", e)
		}
		return s
	}

	// temperature
	h := 1e-3 * T
	check("dH/dT", st.DT.H, func(x float64) float64 { return at(x, P, b).H }, T, h)
	check("dS/dT", st.DT.S, func(x float64) float64 { return at(x, P, b).S }, T, h)
	check("dR/dT", st.DT.R, func(x float64) float64 { return at(x, P, b).R }, T, h)
	check("dRho/dT", st.DT.Rho, func(x float64) float64 { return at(x, P, b).Rho }, T, h)
	chk.Float64(tst, "T dS/dT = Cp", 1e-6*st.Cp, T*st.DT.S, st.Cp)

	// pressure
	h = 1e-3 * P
	check("dH/dP", st.DP.H, func(x float64) float64 { return at(T, x, b).H }, P, h)
	check("dS/dP", st.DP.S, func(x float64) float64 { return at(T, x, b).S }, P, h)
	check("dR/dP", st.DP.R, func(x float64) float64 { return at(T, x, b).R }, P, h)
	check("dRho/dP", st.DP.Rho, func(x float64) float64 { return at(T, x, b).Rho }, P, h)

	// composition
	for k, e := range m.Elements() {
		bk := func(x float64) []float64 {
			c := append([]float64(nil), b...)
			c[k] = x
			return c
		}
		h = 1e-4 * b[k]
		check("dH/db_"+e, st.DB[k].H, func(x float64) float64 { return at(T, P, bk(x)).H }, b[k], h)
		check("dS/db_"+e, st.DB[k].S, func(x float64) float64 { return at(T, P, bk(x)).S }, b[k], h)
		check("dRho/db_"+e, st.DB[k].Rho, func(x float64) float64 { return at(T, P, bk(x)).Rho }, b[k], h)
	}

	// species
	iNO := -1
	for j, s := range m.Species() {
		if s == "NO" {
			iNO = j
		}
	}
	check("dN(NO)/dT", st.DNdT[iNO], func(x float64) float64 { return at(x, P, b).N[iNO] }, T, 1e-3*T)
}

func Test_cea04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cea04. bounds and monotonicity of properties")

	m := newCea(tst, nil)
	for _, far := range []float64{0, 0.03} {
		b := mixture(tst, m.Elements(), far)
		Sprev := math.Inf(-1)
		var guess *State
		for _, T := range utl.LinSpace(250, 3000, 12) {
			st, err := m.TP(T, 2, b, guess)
			if err != nil {
				tst.Errorf("TP failed:\n%v", err)
				return
			}
			if st.Gamma <= 1 || st.Gamma > 1.7 {
				tst.Errorf("gamma = %g is out of (1, 1.7] at T=%g", st.Gamma, T)
				return
			}
			if st.Rho <= 0 {
				tst.Errorf("rho = %g must be positive", st.Rho)
				return
			}
			if st.S <= Sprev {
				tst.Errorf("entropy must increase with temperature: S(%g)=%g ≤ %g", T, st.S, Sprev)
				return
			}
			Sprev = st.S
			guess = st
		}
	}
}

func Test_cea05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cea05. errors")

	m := newCea(tst, nil)
	b := mixture(tst, m.Elements(), 0)
	if _, err := m.TP(1000, 1, b[:3], nil); err == nil {
		tst.Errorf("wrong composition length should cause an error")
		return
	}
	if _, err := m.TP(1000, -1, b, nil); err == nil {
		tst.Errorf("negative pressure should cause an error")
		return
	}
	bad := append([]float64(nil), b...)
	bad[0] = -1e-3
	if _, err := m.TP(1000, 1, bad, nil); err == nil {
		tst.Errorf("negative composition should cause an error")
		return
	}
	if _, err := New("cea", dbf.Params{&dbf.P{N: "unknown", V: 1}}); err == nil {
		tst.Errorf("unknown parameter should cause an error")
		return
	}

	// non-convergence is reported by EquilibriumError
	short := newCea(tst, dbf.Params{&dbf.P{N: "maxit", V: 2}})
	_, err := short.HP(1e6, 1, mixture(tst, m.Elements(), 0.02), nil)
	var eqerr *EquilibriumError
	if !errors.As(err, &eqerr) {
		tst.Errorf("EquilibriumError expected. got %v", err)
		return
	}
	io.Pforan("%v\n", err)
	chk.Int(tst, "iterations", eqerr.Iters, 2)
}

func Test_cea06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cea06. finite-difference fallback of partial derivatives")

	m := newCea(tst, nil)
	b := mixture(tst, m.Elements(), 0)
	st, err := m.TP(1200, 8, b, nil)
	if err != nil {
		tst.Errorf("TP failed:\n%v", err)
		return
	}
	dH := st.DT.H
	if err = FillPartials(m, st); err != nil {
		tst.Errorf("FillPartials failed:\n%v", err)
		return
	}
	if !st.Full {
		tst.Errorf("state should be flagged as full")
		return
	}
	chk.Float64(tst, "analytic values are kept", 1e-15, st.DT.H, dH)

	// dCp/dT by finite differences of the analytic Cp
	hi, _ := m.TP(1201, 8, b, st)
	lo, _ := m.TP(1199, 8, b, st)
	chk.Float64(tst, "dCp/dT", 1e-4, st.DT.Cp, (hi.Cp-lo.Cp)/2)
	chk.Float64(tst, "dGamma/dT", 1e-7, st.DT.Gamma, (hi.Gamma-lo.Gamma)/2)

	// hydrogen is absent from dry air but adding it changes the enthalpy
	iH := -1
	for i, e := range m.Elements() {
		if e == "H" {
			iH = i
		}
	}
	if st.DB[iH].H == 0 || math.IsNaN(st.DB[iH].H) {
		tst.Errorf("derivative w.r.t absent element should be computed. dH/db_H = %g", st.DB[iH].H)
		return
	}
}
