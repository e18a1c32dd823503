// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flowpath

import (
	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gocycle/flow"
	"github.com/cpmech/gocycle/mdl/gas"
	"github.com/cpmech/gosl/chk"
)

// Combustor burns fuel at a given fuel-to-air ratio. The exit composition is the mass-weighted
// mixture of air and fuel and the exit total state is the equilibrium at the mixed enthalpy
type Combustor struct {
	ele.Base
	fuel string // name of fuel reactant
}

// add element to factory
func init() {
	ele.SetAllocator("combustor", func(dat *ele.Data) (ele.Element, error) {
		o := new(Combustor)
		o.Init(dat, []string{"Fl_I"}, []string{"Fl_O"})
		o.fuel = "Jet-A(g)"
		if s, found := ele.Keycode(dat.Extra, "fuel"); found {
			o.fuel = s
		}
		if _, err := gas.GetReactant(o.fuel); err != nil {
			return nil, chk.Err("combustor %q: %v", dat.Name, err)
		}
		o.Param("dPqP", 0.04)
		o.Param("FAR", 0.02)
		o.Param("hfuel", 0) // enthalpy of the injected fuel [Btu/lbm]
		o.AddExitStatic("", 0)
		o.Result("Wfuel")
		return o, nil
	})
}

// Sizing returns the keys of the design area
func (o *Combustor) Sizing() []string { return []string{"area"} }

// Check checks that the fuel can be represented by the gas model
func (o *Combustor) Check(calc *flow.Calc) error {
	_, err := o.Composition(calc)
	return err
}

// Composition returns the composition of the fuel
func (o *Combustor) Composition(calc *flow.Calc) ([]float64, error) {
	return calc.B0(o.fuel)
}

// Compute computes the exit station
func (o *Combustor) Compute(ctx *ele.Context) (err error) {
	in, err := ctx.Input("Fl_I")
	if err != nil {
		return
	}
	FAR, dPqP := o.P("FAR"), o.P("dPqP")
	if FAR < 0 {
		return o.Err(nil, "fuel-to-air ratio must be non-negative. FAR = %g is invalid", FAR)
	}
	if dPqP < 0 || dPqP >= 1 {
		return o.Err(nil, "pressure loss must be in [0,1). dPqP = %g is invalid", dPqP)
	}
	bf, err := o.Composition(ctx.Calc)
	if err != nil {
		return
	}
	Wf := in.W * FAR
	W, b, ht := flow.Mix(in.W, in.B, in.Ht, Wf, bf, o.P("hfuel"))
	st, err := ctx.Calc.TotalHP(o.Port("Fl_O"), ht, in.Pt*(1-dPqP), b, W)
	if err != nil {
		return
	}
	if err = o.ExitStatic(ctx.Calc, st, ""); err != nil {
		return
	}
	ctx.Out["Fl_O"] = st
	o.SetRes("Wfuel", Wf)
	return
}
