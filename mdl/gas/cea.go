// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gas

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"
)

// damping constants; see [1] page 41
const (
	lnTraceLimit = -18.420681 // ln(1e-8)
	lnTraceJump  = 9.2103404  // -ln(1e-4)
	lnFloor      = -69.077553 // ln(1e-30); lower bound of ln(n_j/n)
)

// solution modes
const (
	modeTP = iota
	modeHP
	modeSP
)

var modeNames = []string{"TP", "HP", "SP"}

// Equilibrium implements a chemical equilibrium model by minimisation of the Gibbs energy
// with the reduced Newton-Raphson iteration over Lagrange multipliers of [1]
type Equilibrium struct {

	// parameters
	MaxIt int     // max number of iterations
	Tol   float64 // tolerance on the relative corrections of moles and temperature
	Trace float64 // mole fraction below which a species is considered trace
	Tmin  float64 // min temperature [K]
	Tmax  float64 // max temperature [K]
	T0    float64 // initial temperature for HP and SP solutions without guess [K]
	Set   string  // name of set of products

	// derived
	elements []string    // element names
	species  []*Species  // species data
	names    []string    // species names
	a        [][]float64 // [nsp][nel] number of atoms of element i in species j
}

// EquilibriumError reports a failure to compute the equilibrium composition
type EquilibriumError struct {
	Mode  string  // "TP", "HP" or "SP"
	T     float64 // last temperature [K]
	P     float64 // pressure [bar]
	Iters int     // number of iterations performed
	Msg   string  // reason
}

func (o *EquilibriumError) Error() string {
	return io.Sf("%s equilibrium failed after %d iterations (T=%g K, P=%g bar): %s", o.Mode, o.Iters, o.T, o.P, o.Msg)
}

// add models to factory
func init() {
	SetAllocator("cea", func() Model { return &Equilibrium{Set: "AIR_FUEL"} })
	SetAllocator("cea-air", func() Model { return &Equilibrium{Set: "AIR"} })
}

// Init initialises model
func (o *Equilibrium) Init(prms dbf.Params) (err error) {

	// default values
	o.MaxIt = 150
	o.Tol = 1e-9
	o.Trace = 1e-10
	o.Tmin = 200
	o.Tmax = 6000
	o.T0 = 3800
	if o.Set == "" {
		o.Set = "AIR_FUEL"
	}

	// parameters
	for _, p := range prms {
		switch p.N {
		case "maxit":
			o.MaxIt = int(p.V)
		case "tol":
			o.Tol = p.V
		case "trace":
			o.Trace = p.V
		case "tmin":
			o.Tmin = p.V
		case "tmax":
			o.Tmax = p.V
		case "T0":
			o.T0 = p.V
		default:
			return chk.Err("cea: parameter named %q is invalid", p.N)
		}
	}
	if o.MaxIt < 1 || o.Tol <= 0 || o.Tmin <= 0 || o.Tmax <= o.Tmin {
		return chk.Err("cea: invalid parameters: maxit=%d tol=%g tmin=%g tmax=%g", o.MaxIt, o.Tol, o.Tmin, o.Tmax)
	}

	// products
	set, err := GetProductSet(o.Set)
	if err != nil {
		return
	}
	o.elements = set.Elements
	o.names = set.Species
	o.species = make([]*Species, len(set.Species))
	o.a = make([][]float64, len(set.Species))
	for j, name := range set.Species {
		if o.species[j], err = GetSpecies(name); err != nil {
			return
		}
		o.a[j] = make([]float64, len(o.elements))
		for i, e := range o.elements {
			o.a[j][i] = o.species[j].Atoms[e]
		}
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Equilibrium) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "maxit", V: 150},
			&dbf.P{N: "tol", V: 1e-9},
			&dbf.P{N: "trace", V: 1e-10},
			&dbf.P{N: "tmin", V: 200},
			&dbf.P{N: "tmax", V: 6000},
			&dbf.P{N: "T0", V: 3800},
		}
	}
	return dbf.Params{
		&dbf.P{N: "maxit", V: float64(o.MaxIt)},
		&dbf.P{N: "tol", V: o.Tol},
		&dbf.P{N: "trace", V: o.Trace},
		&dbf.P{N: "tmin", V: o.Tmin},
		&dbf.P{N: "tmax", V: o.Tmax},
		&dbf.P{N: "T0", V: o.T0},
	}
}

// Elements returns the element names
func (o *Equilibrium) Elements() []string { return o.elements }

// Species returns the species names
func (o *Equilibrium) Species() []string { return o.names }

// TP computes the equilibrium state at given temperature and pressure
func (o *Equilibrium) TP(T, P float64, b []float64, guess *State) (*State, error) {
	if !(T >= o.Tmin && T <= o.Tmax) {
		return nil, chk.Err("temperature T = %g K is outside the range [%g, %g]", T, o.Tmin, o.Tmax)
	}
	return o.solve(modeTP, T, P, 0, b, guess)
}

// HP computes the equilibrium state at given enthalpy and pressure
func (o *Equilibrium) HP(h, P float64, b []float64, guess *State) (*State, error) {
	return o.solve(modeHP, 0, P, h, b, guess)
}

// SP computes the equilibrium state at given entropy and pressure
func (o *Equilibrium) SP(s, P float64, b []float64, guess *State) (*State, error) {
	return o.solve(modeSP, 0, P, s, b, guess)
}

// workspace holds the data of one solution
type workspace struct {
	ea  []int     // active elements
	sa  []int     // active species
	lnN []float64 // ln(n_j) of all species
	lnn float64   // ln(n)
	T   float64   // temperature
	cpr []float64 // Cp/R of species
	hrt []float64 // H/RT of species
	sr  []float64 // S°/R of species
}

// solve runs the Newton-Raphson iterations
func (o *Equilibrium) solve(mode int, T, P, target float64, b0 []float64, guess *State) (st *State, err error) {

	// check
	nel, nsp := len(o.elements), len(o.species)
	if err = checkInput(P, b0, nel); err != nil {
		return
	}

	// active elements and species
	w := &workspace{lnN: make([]float64, nsp), cpr: make([]float64, nsp), hrt: make([]float64, nsp), sr: make([]float64, nsp)}
	bmax := 0.0
	for _, v := range b0 {
		bmax = math.Max(bmax, v)
	}
	active := make([]bool, nel)
	for i, v := range b0 {
		if v > 1e-12*bmax {
			active[i] = true
			w.ea = append(w.ea, i)
		}
	}
	for j := 0; j < nsp; j++ {
		ok := true
		for i := 0; i < nel; i++ {
			if o.a[j][i] > 0 && !active[i] {
				ok = false
				break
			}
		}
		if ok {
			w.sa = append(w.sa, j)
		}
	}
	if len(w.sa) == 0 {
		return nil, chk.Err("there are no species to represent the composition %v", b0)
	}

	// initial values
	w.T = T
	if mode != modeTP {
		w.T = o.T0
	}
	if guess != nil && len(guess.N) == nsp && guess.Ntot > 0 {
		w.lnn = math.Log(guess.Ntot)
		for _, j := range w.sa {
			w.lnN[j] = math.Log(math.Max(guess.N[j], guess.Ntot*1e-12))
		}
		if mode != modeTP {
			w.T = guess.T
		}
	} else {
		w.lnn = math.Log(0.1)
		for _, j := range w.sa {
			w.lnN[j] = math.Log(0.1 / float64(len(w.sa)))
		}
	}
	w.T = math.Min(math.Max(w.T, o.Tmin), o.Tmax)

	// auxiliary
	ne := len(w.ea)
	m := ne + 1
	if mode != modeTP {
		m++
	}
	G := mat.NewDense(m, m, nil)
	r := mat.NewVecDense(m, nil)
	x := mat.NewVecDense(m, nil)
	mu := make([]float64, nsp)
	dlnN := make([]float64, nsp)
	lnP := math.Log(P / Pref)
	var lu mat.LU
	var hitBound int

	// iterations
	for it := 0; it < o.MaxIt; it++ {

		// species properties
		o.speciesProps(w)
		n := math.Exp(w.lnn)
		var sumN, sumH, sumS, sumCp, sumHH, sumHS, sumHmu, sumSmu, sumMu float64
		for _, j := range w.sa {
			nj := math.Exp(w.lnN[j])
			mu[j] = w.hrt[j] - w.sr[j] + w.lnN[j] - w.lnn + lnP
			Sj := w.sr[j] - w.lnN[j] + w.lnn - lnP
			sumN += nj
			sumH += nj * w.hrt[j]
			sumS += nj * Sj
			sumCp += nj * w.cpr[j]
			sumHH += nj * w.hrt[j] * w.hrt[j]
			sumHS += nj * w.hrt[j] * Sj
			sumHmu += nj * w.hrt[j] * mu[j]
			sumSmu += nj * Sj * mu[j]
			sumMu += nj * mu[j]
		}

		// reduced Gibbs matrix
		G.Zero()
		var resB float64
		for kk, k := range w.ea {
			var bk, amu, ah, as float64
			for _, j := range w.sa {
				if o.a[j][k] == 0 {
					continue
				}
				nj := math.Exp(w.lnN[j])
				akn := o.a[j][k] * nj
				for ii, i := range w.ea {
					G.Set(kk, ii, G.At(kk, ii)+akn*o.a[j][i])
				}
				bk += akn
				amu += akn * mu[j]
				ah += akn * w.hrt[j]
				as += akn * (w.sr[j] - w.lnN[j] + w.lnn - lnP)
			}
			G.Set(kk, ne, bk)
			G.Set(ne, kk, bk)
			r.SetVec(kk, b0[k]-bk+amu)
			resB = math.Max(resB, math.Abs(b0[k]-bk))
			switch mode {
			case modeHP:
				G.Set(kk, ne+1, ah)
				G.Set(ne+1, kk, ah)
			case modeSP:
				G.Set(kk, ne+1, ah)
				G.Set(ne+1, kk, as)
			}
		}
		G.Set(ne, ne, sumN-n)
		r.SetVec(ne, n-sumN+sumMu)
		switch mode {
		case modeHP:
			G.Set(ne, ne+1, sumH)
			G.Set(ne+1, ne, sumH)
			G.Set(ne+1, ne+1, sumCp+sumHH)
			r.SetVec(ne+1, target/(Ru*w.T)-sumH+sumHmu)
		case modeSP:
			G.Set(ne, ne+1, sumH)
			G.Set(ne+1, ne, sumS)
			G.Set(ne+1, ne+1, sumCp+sumHS)
			r.SetVec(ne+1, target/Ru-sumS+n-sumN+sumSmu)
		}

		// solve linear system
		lu.Factorize(G)
		if e := lu.SolveVecTo(x, false, r); e != nil {
			if !usable(e, x.RawVector().Data) {
				return nil, &EquilibriumError{modeNames[mode], w.T, P, it, "singular reduced Gibbs matrix"}
			}
		}
		dlnn := x.AtVec(ne)
		dlnT := 0.0
		if mode != modeTP {
			dlnT = x.AtVec(ne + 1)
		}

		// corrections of species
		for _, j := range w.sa {
			dlnN[j] = -mu[j] + dlnn + w.hrt[j]*dlnT
			for ii, i := range w.ea {
				dlnN[j] += o.a[j][i] * x.AtVec(ii)
			}
		}

		// convergence check
		converged := n*math.Abs(dlnn)/sumN <= o.Tol && math.Abs(dlnT) <= o.Tol && resB <= o.Tol*bmax
		if converged {
			for _, j := range w.sa {
				frac := math.Exp(w.lnN[j]) / sumN
				if frac < o.Trace {
					continue
				}
				if frac*math.Abs(dlnN[j]) > o.Tol {
					converged = false
					break
				}
			}
		}

		// damping factor
		d := math.Max(5*math.Abs(dlnT), 5*math.Abs(dlnn))
		λ2 := 1.0
		for _, j := range w.sa {
			lnx := w.lnN[j] - w.lnn
			if lnx > lnTraceLimit {
				if dlnN[j] > 0 {
					d = math.Max(d, dlnN[j])
				}
			} else if dlnN[j] >= 0 {
				den := dlnN[j] - dlnn
				if math.Abs(den) > 1e-300 {
					λ2 = math.Min(λ2, math.Abs((-lnx-lnTraceJump)/den))
				}
			}
		}
		λ := math.Min(1, λ2)
		if d > 2 {
			λ = math.Min(λ, 2/d)
		}

		// update
		w.lnn += λ * dlnn
		for _, j := range w.sa {
			w.lnN[j] = math.Max(w.lnN[j]+λ*dlnN[j], w.lnn+lnFloor)
		}
		if mode != modeTP {
			Tnew := w.T * math.Exp(λ*dlnT)
			if Tnew < o.Tmin || Tnew > o.Tmax {
				hitBound++
				if hitBound > 5 {
					return nil, &EquilibriumError{modeNames[mode], w.T, P, it, io.Sf("temperature outside [%g, %g] K", o.Tmin, o.Tmax)}
				}
			}
			w.T = math.Min(math.Max(Tnew, o.Tmin), o.Tmax)
		}

		// results
		if converged {
			return o.state(w, P, b0, it+1)
		}
	}
	return nil, &EquilibriumError{modeNames[mode], w.T, P, o.MaxIt, "max number of iterations reached"}
}

// speciesProps computes the dimensionless properties of active species at w.T
func (o *Equilibrium) speciesProps(w *workspace) {
	for _, j := range w.sa {
		w.cpr[j], w.hrt[j], w.sr[j] = o.species[j].All(w.T)
	}
}

// usable tells whether the solution of an ill-conditioned linear system can still be used
func usable(err error, x []float64) bool {
	c, ok := err.(mat.Condition)
	if !ok || math.IsInf(float64(c), 1) {
		return false
	}
	return finite(x)
}

// finite checks whether all values are finite
func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
