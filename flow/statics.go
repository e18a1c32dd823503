// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"math"

	"github.com/cpmech/gocycle/ana"
	"github.com/cpmech/gocycle/mdl/gas"
	"github.com/cpmech/gocycle/newton"
	log "github.com/sirupsen/logrus"
)

// branches of the static solution for a given area
const (
	Subsonic   = 0
	Supersonic = 1
)

// constants of static solves
const (
	minMach  = 1e-8 // smallest Mach number for which an area can be computed
	minRatio = 1e-6 // smallest Ps/Pt
)

// rootOpts holds the control parameters of the static solves
var rootOpts = &newton.RootOpts{MaxIt: 50, Xtol: 1e-11, Ftol: 1e-10}

// SetStaticPs computes the static properties of st at static pressure Ps [psia]. The station
// must not have been published yet
func (o *Calc) SetStaticPs(st *Station, Ps float64) error {
	if st.tot == nil {
		return analysisErr(st.Name, nil, "total state is not available")
	}
	if !positive(Ps) {
		return analysisErr(st.Name, nil, "static pressure must be positive. Ps = %g is invalid", Ps)
	}
	gs, V, err := o.static(st, Ps*PsiToBar/st.tot.P)
	if err != nil {
		return err
	}
	if V == 0 && st.W > 0 {
		return analysisErr(st.Name, nil, "velocity is zero with positive mass flow (Ps = Pt = %g)", Ps)
	}
	st.setStatic(gs, V)
	return nil
}

// SetStaticMN computes the static properties of st at Mach number MN. The station must not have
// been published yet
func (o *Calc) SetStaticMN(st *Station, MN float64) error {
	if st.tot == nil {
		return analysisErr(st.Name, nil, "total state is not available")
	}
	if !(MN >= minMach) || math.IsInf(MN, 1) {
		return analysisErr(st.Name, nil, "Mach number must be at least %g. MN = %g is invalid", minMach, MN)
	}
	gs, V, err := o.solveMN(st, MN)
	if err != nil {
		return err
	}
	st.setStatic(gs, V)
	return nil
}

// SetStaticArea computes the static properties of st with flow area A [in²] on the subsonic or
// supersonic branch. The station must not have been published yet
func (o *Calc) SetStaticArea(st *Station, A float64, branch int) error {
	if st.tot == nil {
		return analysisErr(st.Name, nil, "total state is not available")
	}
	if !positive(A) {
		return analysisErr(st.Name, nil, "area must be positive. A = %g is invalid", A)
	}

	// no flow: stagnation
	if st.W == 0 {
		st.setStatic(st.tot, 0)
		st.Area = A
		return nil
	}

	// sonic state
	gsSonic, Vsonic, err := o.solveMN(st, 1)
	if err != nil {
		return err
	}
	W, Am2 := st.W*LbmToKg, A*In2ToM2
	Asonic := W / (gsSonic.Rho * Vsonic)
	xs := gsSonic.P / st.tot.P
	switch {
	case Am2 < Asonic*(1-1e-10):
		return analysisErr(st.Name, nil, "area is below the sonic area: A = %g < A* = %g in²", A, Asonic/In2ToM2)
	case Am2 <= Asonic*(1+1e-10):
		st.setStatic(gsSonic, Vsonic)
		return nil
	}

	// initial guess
	lo, hi := xs, 1.0
	if branch == Supersonic {
		lo, hi = minRatio, xs
	}
	key := st.Name + "/area"
	if branch == Supersonic {
		key += "/sup"
	}
	x0, ok := o.Cache.staticRatio(key, A, st.Pt)
	if !ok {
		ideal := ana.PerfectGas{Gam: st.Gamt}
		x0 = ideal.PsqPt(ideal.MachFromArea(Am2/Asonic, branch == Supersonic))
	}
	x0 = math.Min(math.Max(x0, lo), hi)

	// solve W/(rho V) = A
	f := func(x float64) (fx, dfdx float64, e error) {
		gs, V, e := o.static(st, x)
		if e != nil {
			return
		}
		a := gs.Sonic()
		fx = gs.Rho*V*Am2/W - 1
		if V == 0 {
			return fx, math.NaN(), nil
		}
		M := V / a
		Ppa := gs.P * 1e5
		dfdx = (fx + 1) * Ppa * (M*M - 1) / (gs.Rho * V * V) / x
		return
	}
	x, _, err := newton.Root(f, x0, lo, hi, rootOpts)
	if err != nil {
		return analysisErr(st.Name, err, "cannot find static pressure for area A = %g in²", A)
	}
	gs, V, err := o.static(st, x)
	if err != nil {
		return err
	}
	o.Cache.storeStatic(key, A, st.Pt, x)
	st.setStatic(gs, V)
	return nil
}

// solveMN finds the static state with Mach number MN
func (o *Calc) solveMN(st *Station, MN float64) (gs *gas.State, V float64, err error) {

	// initial guess
	key := st.Name + "/mn"
	x0, ok := o.Cache.staticRatio(key, MN, st.Pt)
	if !ok {
		x0 = ana.PerfectGas{Gam: st.Gamt}.PsqPt(MN)
	}
	a0 := st.tot.Sonic()

	// solve V² = MN² a²
	f := func(x float64) (fx, dfdx float64, e error) {
		gs, V, e := o.static(st, x)
		if e != nil {
			return
		}
		a := gs.Sonic()
		fx = (V*V - MN*MN*a*a) / (a0 * a0)
		Ppa := gs.P * 1e5
		g := gs.GammaS
		dfdx = (-2*Ppa/gs.Rho - MN*MN*a*a*(g-1)/g) / (a0 * a0) / x
		return
	}
	x, _, err := newton.Root(f, x0, minRatio, 1, rootOpts)
	if err != nil {
		return nil, 0, analysisErr(st.Name, err, "cannot find static pressure for MN = %g", MN)
	}
	gs, V, err = o.static(st, x)
	if err != nil {
		return
	}
	o.Cache.storeStatic(key, MN, st.Pt, x)
	return
}

// static computes the static state at Ps = x Pt by isentropic expansion and the velocity [m/s].
// If the static enthalpy exceeds the total enthalpy, the sign under the square root is flipped
func (o *Calc) static(st *Station, x float64) (gs *gas.State, V float64, err error) {
	if !positive(x) {
		return nil, 0, analysisErr(st.Name, nil, "invalid pressure ratio Ps/Pt = %g", x)
	}
	if x == 1 {
		return st.tot, 0, nil
	}
	key := st.Name + "/stat"
	gs, err = o.Gas.SP(st.tot.S, x*st.tot.P, st.B, o.Cache.Guess(key))
	if err != nil {
		return nil, 0, analysisErr(st.Name, err, "cannot compute static state at Ps/Pt = %g", x)
	}
	o.Cache.Store(key, gs)
	if !(gs.Rho > 0) {
		return nil, 0, analysisErr(st.Name, nil, "static density is not positive. rho = %g", gs.Rho)
	}
	v2 := 2 * (st.tot.H - gs.H)
	if v2 < 0 {
		logger.WithFields(log.Fields{"station": st.Name, "ht": st.tot.H, "hs": gs.H}).Warn("flow: static enthalpy exceeds total enthalpy; flipping sign of velocity squared")
		v2 = -v2
	}
	return gs, math.Sqrt(v2), nil
}
