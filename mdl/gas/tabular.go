// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gas

import (
	"math"

	"github.com/cpmech/gocycle/mdl/grid"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/utl"
)

// indices of tabulated outputs
const (
	tabH = iota
	tabS
	tabCp
	tabCv
	tabGammaS
	tabR
	tabNout
)

// Tabular implements a thermodynamic model that interpolates equilibrium properties tabulated
// over (T, ln(P), FAR) for one air/fuel pair. The fuel-to-air ratio of a composition b is found
// from the element with the largest difference between fuel and air contents. Compositions that
// are not air/fuel mixtures of the given pair are not represented. Species data is not available.
type Tabular struct {

	// parameters
	Air    string  // name of air reactant
	Fuel   string  // name of fuel reactant
	Method string  // interpolation method
	NT     int     // number of temperatures
	NP     int     // number of pressures
	NFAR   int     // number of fuel-to-air ratios
	Tmin   float64 // min temperature [K]
	Tmax   float64 // max temperature [K]
	Pmin   float64 // min pressure [bar]
	Pmax   float64 // max pressure [bar]
	FARmax float64 // max fuel-to-air ratio
	MaxIt  int     // max number of iterations for HP and SP
	Tol    float64 // tolerance on relative temperature corrections

	// derived
	base  *Equilibrium // model used to compute the table
	bAir  []float64    // composition of air
	bFuel []float64    // composition of fuel
	ifar  int          // element used to compute FAR
	table *grid.Grid   // tabulated data
}

// add models to factory
func init() {
	SetAllocator("tab", func() Model { return &Tabular{Method: "akima"} })
	SetAllocator("tab-linear", func() Model { return &Tabular{Method: "slinear"} })
}

// Init initialises model and computes the table
func (o *Tabular) Init(prms dbf.Params) (err error) {

	// default values
	o.Air, o.Fuel = "air", "Jet-A(g)"
	if o.Method == "" {
		o.Method = "akima"
	}
	o.NT, o.NP, o.NFAR = 57, 9, 7
	o.Tmin, o.Tmax = 200, 3000
	o.Pmin, o.Pmax = 0.05, 60
	o.FARmax = 0.06
	o.MaxIt, o.Tol = 50, 1e-10

	// parameters
	var eqprms dbf.Params
	for _, p := range prms {
		switch p.N {
		case "nT":
			o.NT = int(p.V)
		case "nP":
			o.NP = int(p.V)
		case "nFAR":
			o.NFAR = int(p.V)
		case "tmin":
			o.Tmin = p.V
		case "tmax":
			o.Tmax = p.V
		case "pmin":
			o.Pmin = p.V
		case "pmax":
			o.Pmax = p.V
		case "farmax":
			o.FARmax = p.V
		case "maxit":
			o.MaxIt = int(p.V)
		case "tol":
			o.Tol = p.V
		default:
			eqprms = append(eqprms, p)
		}
	}
	if o.NT < 2 || o.NP < 2 || o.NFAR < 2 {
		return chk.Err("tab: table must have at least 2 points along each axis. nT=%d nP=%d nFAR=%d", o.NT, o.NP, o.NFAR)
	}
	if o.Pmin <= 0 || o.Pmax <= o.Pmin || o.Tmax <= o.Tmin || o.FARmax <= 0 {
		return chk.Err("tab: invalid ranges: T=[%g,%g] P=[%g,%g] FARmax=%g", o.Tmin, o.Tmax, o.Pmin, o.Pmax, o.FARmax)
	}

	// equilibrium model
	o.base = &Equilibrium{Set: "AIR_FUEL"}
	if err = o.base.Init(eqprms); err != nil {
		return
	}
	if o.bAir, err = B0(o.Air, o.base.elements); err != nil {
		return
	}
	if o.bFuel, err = B0(o.Fuel, o.base.elements); err != nil {
		return
	}
	o.ifar = 0
	for i := range o.bAir {
		if math.Abs(o.bFuel[i]-o.bAir[i]) > math.Abs(o.bFuel[o.ifar]-o.bAir[o.ifar]) {
			o.ifar = i
		}
	}

	// axes
	Ts := utl.LinSpace(o.Tmin, o.Tmax, o.NT)
	lnPs := utl.LinSpace(math.Log(o.Pmin), math.Log(o.Pmax), o.NP)
	fars := utl.LinSpace(0, o.FARmax, o.NFAR)

	// compute table
	npts := o.NT * o.NP * o.NFAR
	vals := make([][]float64, tabNout)
	for k := range vals {
		vals[k] = make([]float64, npts)
	}
	b := make([]float64, len(o.bAir))
	for k, far := range fars {
		for i := range b {
			b[i] = (o.bAir[i] + far*o.bFuel[i]) / (1 + far)
		}
		for j, lnP := range lnPs {
			var guess *State
			for i, T := range Ts {
				st, e := o.base.TP(T, math.Exp(lnP), b, guess)
				if e != nil {
					return chk.Err("tab: cannot compute table at T=%g, P=%g, FAR=%g:\n%v", T, math.Exp(lnP), far, e)
				}
				p := (i*o.NP+j)*o.NFAR + k
				vals[tabH][p] = st.H
				vals[tabS][p] = st.S
				vals[tabCp][p] = st.Cp
				vals[tabCv][p] = st.Cv
				vals[tabGammaS][p] = st.GammaS
				vals[tabR][p] = st.R
				guess = st
			}
		}
	}
	o.table, err = grid.New([][]float64{Ts, lnPs, fars}, vals, o.Method, true)
	return
}

// GetPrms gets (an example) of parameters
func (o Tabular) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "nT", V: 57},
			&dbf.P{N: "nP", V: 9},
			&dbf.P{N: "nFAR", V: 7},
			&dbf.P{N: "tmin", V: 200},
			&dbf.P{N: "tmax", V: 3000},
			&dbf.P{N: "pmin", V: 0.05},
			&dbf.P{N: "pmax", V: 60},
			&dbf.P{N: "farmax", V: 0.06},
		}
	}
	return dbf.Params{
		&dbf.P{N: "nT", V: float64(o.NT)},
		&dbf.P{N: "nP", V: float64(o.NP)},
		&dbf.P{N: "nFAR", V: float64(o.NFAR)},
		&dbf.P{N: "tmin", V: o.Tmin},
		&dbf.P{N: "tmax", V: o.Tmax},
		&dbf.P{N: "pmin", V: o.Pmin},
		&dbf.P{N: "pmax", V: o.Pmax},
		&dbf.P{N: "farmax", V: o.FARmax},
	}
}

// Elements returns the element names
func (o *Tabular) Elements() []string { return o.base.elements }

// Species returns nil because species are not tabulated
func (o *Tabular) Species() []string { return nil }

// FAR computes the fuel-to-air ratio corresponding to composition b, and its derivative w.r.t b[ifar]
func (o *Tabular) FAR(b []float64) (far, dfar float64) {
	i := o.ifar
	den := o.bFuel[i] - b[i]
	far = (b[i] - o.bAir[i]) / den
	dfar = (o.bFuel[i] - o.bAir[i]) / (den * den)
	return
}

// TP computes the state at given temperature and pressure
func (o *Tabular) TP(T, P float64, b []float64, guess *State) (st *State, err error) {
	if err = checkInput(P, b, len(o.bAir)); err != nil {
		return
	}
	if !(T > 0) {
		return nil, chk.Err("temperature must be positive. T = %g is invalid", T)
	}
	far, dfar := o.FAR(b)
	if far < -1e-9 || math.IsInf(far, 0) || math.IsNaN(far) {
		return nil, chk.Err("tab: composition does not correspond to a mixture of %q and %q (FAR=%g)", o.Air, o.Fuel, far)
	}
	v, g, _ := o.table.Eval([]float64{T, math.Log(P), far})

	// properties
	st = &State{T: T, P: P, B: append([]float64(nil), b...), Full: true}
	st.H, st.S, st.Cp, st.Cv = v[tabH], v[tabS], v[tabCp], v[tabCv]
	st.GammaS, st.R = v[tabGammaS], v[tabR]
	st.Gamma = st.Cp / st.Cv
	st.Rho = P * 1e5 / (st.R * T)
	st.Ntot = st.R / Ru

	// derivatives
	props := func(c int, scale float64) Props {
		dCp, dCv := g[tabCp][c]*scale, g[tabCv][c]*scale
		return Props{
			H:     g[tabH][c] * scale,
			S:     g[tabS][c] * scale,
			R:     g[tabR][c] * scale,
			Cp:    dCp,
			Cv:    dCv,
			Gamma: (dCp*st.Cv - st.Cp*dCv) / (st.Cv * st.Cv),
		}
	}
	st.DT = props(0, 1)
	st.DP = props(1, 1/P)
	st.DT.Rho = -st.Rho * (1/T + st.DT.R/st.R)
	st.DP.Rho = st.Rho * (1/P - st.DP.R/st.R)
	st.DlnVdlnT = 1 + T*st.DT.R/st.R
	st.DlnVdlnP = -1 + P*st.DP.R/st.R
	st.DB = make([]Props, len(b))
	st.DB[o.ifar] = props(2, dfar)
	st.DB[o.ifar].Rho = -st.Rho * st.DB[o.ifar].R / st.R
	return
}

// HP computes the state at given enthalpy and pressure
func (o *Tabular) HP(h, P float64, b []float64, guess *State) (*State, error) {
	return o.invert("HP", h, P, b, guess, func(s *State) (float64, float64) { return s.H, s.DT.H })
}

// SP computes the state at given entropy and pressure
func (o *Tabular) SP(s, P float64, b []float64, guess *State) (*State, error) {
	return o.invert("SP", s, P, b, guess, func(s *State) (float64, float64) { return s.S, s.DT.S })
}

// invert finds the temperature such that the property equals target by Newton's method
func (o *Tabular) invert(mode string, target, P float64, b []float64, guess *State, prop func(s *State) (f, dfdT float64)) (st *State, err error) {
	T := 1000.0
	if guess != nil && guess.T > 0 {
		T = guess.T
	}
	for it := 0; it < o.MaxIt; it++ {
		if st, err = o.TP(T, P, b, nil); err != nil {
			return
		}
		f, dfdT := prop(st)
		if dfdT <= 0 {
			return nil, &EquilibriumError{mode, T, P, it, "non-positive derivative w.r.t temperature"}
		}
		ΔT := (target - f) / dfdT
		ΔT = math.Max(math.Min(ΔT, 0.5*T), -0.5*T)
		T += ΔT
		if math.Abs(ΔT) <= o.Tol*T {
			if st, err = o.TP(T, P, b, nil); err != nil {
				return
			}
			st.Iters = it + 1
			return
		}
	}
	return nil, &EquilibriumError{mode, T, P, o.MaxIt, "max number of iterations reached"}
}
