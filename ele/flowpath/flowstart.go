// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package flowpath implements the elements of the gas path without rotating parts: flow sources,
// inlets, ducts, burners, nozzles, splitters, bleeds, mixers and the performance summary
package flowpath

import (
	"math"

	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gocycle/flow"
	"github.com/cpmech/gocycle/mdl/gas"
	"github.com/cpmech/gocycle/newton"
)

// FlowStart creates a flow of air (dry or humid) at given total conditions
type FlowStart struct {
	ele.Base
	reactant string // name of reactant
}

// Ambient creates the free-stream flow at given altitude and Mach number (standard atmosphere)
type Ambient struct {
	FlowStart
}

// rootOpts holds the control parameters of inner scalar solves
var rootOpts = &newton.RootOpts{MaxIt: 50, Xtol: 1e-11, Ftol: 1e-11}

// add elements to factory
func init() {
	ele.SetAllocator("flowstart", func(dat *ele.Data) (ele.Element, error) {
		o := new(FlowStart)
		o.init(dat)
		o.Param("Tt", flow.Tsls)
		o.Param("Pt", flow.Psls)
		o.Param("MN", 0)
		return o, nil
	})
	ele.SetAllocator("ambient", func(dat *ele.Data) (ele.Element, error) {
		o := new(Ambient)
		o.init(dat)
		o.Param("alt", 0)
		o.Param("MN", 0)
		o.Param("dTs", 0)
		o.Result("Ps", "Ts", "V", "Pt", "Tt")
		return o, nil
	})
}

// init initialises the common data
func (o *FlowStart) init(dat *ele.Data) {
	o.Init(dat, nil, []string{"Fl_O"})
	o.reactant = "air"
	if s, found := ele.Keycode(dat.Extra, "composition"); found {
		o.reactant = s
	}
	o.Param("W", 1)
	o.Param("WAR", 0)
}

// Composition returns the composition of the flow
func (o *FlowStart) Composition(calc *flow.Calc) ([]float64, error) {
	if war := o.P("WAR"); war > 0 {
		return gas.WetAir(war).B0(calc.Gas.Elements())
	}
	return calc.B0(o.reactant)
}

// Check checks that the composition can be represented by the gas model
func (o *FlowStart) Check(calc *flow.Calc) error {
	_, err := o.Composition(calc)
	return err
}

// Compute computes the output station
func (o *FlowStart) Compute(ctx *ele.Context) (err error) {
	b, err := o.Composition(ctx.Calc)
	if err != nil {
		return
	}
	st, err := ctx.Calc.TotalTP(o.Port("Fl_O"), o.P("Tt"), o.P("Pt"), b, o.P("W"))
	if err != nil {
		return
	}
	if MN := o.P("MN"); MN > 0 {
		if err = ctx.Calc.SetStaticMN(st, MN); err != nil {
			return
		}
	}
	ctx.Out["Fl_O"] = st
	return
}

// Atmosphere returns the static temperature [degR] and pressure [psia] of the standard atmosphere
// at altitude alt [ft] (troposphere and lower stratosphere)
func Atmosphere(alt float64) (Ts, Ps float64) {
	const tropopause = 36089.24
	if alt <= tropopause {
		Ts = flow.Tsls - 3.56616e-3*alt
		Ps = flow.Psls * math.Pow(Ts/flow.Tsls, 5.2558797)
		return
	}
	Ts = flow.Tsls - 3.56616e-3*tropopause
	Ps = flow.Psls * math.Pow(Ts/flow.Tsls, 5.2558797) * math.Exp(-4.80634e-5*(alt-tropopause))
	return
}

// Compute computes the output station
func (o *Ambient) Compute(ctx *ele.Context) (err error) {
	b, err := o.Composition(ctx.Calc)
	if err != nil {
		return
	}

	// static state
	Ts, Ps := Atmosphere(o.P("alt"))
	Ts += o.P("dTs")
	W, MN := o.P("W"), o.P("MN")
	calc := ctx.Calc
	stat, err := calc.TotalTP(o.Port("amb"), Ts, Ps, b, W)
	if err != nil {
		return
	}
	V := MN * stat.Thermo().Sonic()
	ht := stat.Ht + V*V/2/flow.BtuLbmToJkg

	// total state: isentropic compression from Ps to the total enthalpy
	x := 1.0
	if MN > 0 {
		scale := stat.Cpt * stat.Tt
		f := func(x float64) (fx, dfdx float64, e error) {
			st, e := calc.TotalSP(o.Port("Fl_O"), stat.S, x*Ps, b, W)
			if e != nil {
				return
			}
			dhdx := st.Pt * flow.PsiToPa / st.Thermo().Rho / flow.BtuLbmToJkg / x
			return (st.Ht - ht) / scale, dhdx / scale, nil
		}
		x, _, err = newton.Root(f, math.Pow(1+0.2*MN*MN, 3.5), 1, 100, rootOpts)
		if err != nil {
			return o.Err(err, "cannot compute total state at MN = %g", MN)
		}
	}
	st, err := calc.TotalSP(o.Port("Fl_O"), stat.S, x*Ps, b, W)
	if err != nil {
		return
	}
	if MN > 0 {
		if err = calc.SetStaticPs(st, Ps); err != nil {
			return
		}
	}
	ctx.Out["Fl_O"] = st

	// results
	o.SetRes("Ps", Ps)
	o.SetRes("Ts", Ts)
	o.SetRes("V", V*flow.MToFt)
	o.SetRes("Pt", st.Pt)
	o.SetRes("Tt", st.Tt)
	return
}
