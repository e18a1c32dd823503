// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package turbo

import (
	"math"

	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gocycle/flow"
	"github.com/cpmech/gocycle/mdl/maps"
	"github.com/cpmech/gosl/chk"
)

// Turbine implements a turbine with performance map and cooling flow injection. The fraction
// frac_P of each cooling flow enters at the inlet and expands through the turbine; the remainder
// mixes at the exit without doing work
//
//	Design:     PR, eff, Nmech and the flow define the map scalars s_Np, s_Wp, s_PR, s_eff
//	Off-design: the map scalars are fixed; PR is free and Wp = WpMap closes the map
type Turbine struct {
	ele.Base
	tmap   *maps.Map // performance map
	bleeds []string  // names of cooling inlet ports
}

// add element to factory
func init() {
	ele.SetAllocator("turbine", func(dat *ele.Data) (ele.Element, error) {
		o := new(Turbine)
		name := "lpt"
		if s, found := ele.Keycode(dat.Extra, "map"); found {
			name = s
		}
		var err error
		o.tmap, err = getMap(name, maps.Turbine)
		if err != nil {
			return nil, chk.Err("turbine %q: %v", dat.Name, err)
		}
		o.bleeds = ele.KeyList(dat.Extra, "bleeds")
		o.Init(dat, append([]string{"Fl_I"}, o.bleeds...), []string{"Fl_O"})
		o.Param("Nmech", 1000)
		o.Param("alphaMap", 0)
		o.Param("PR", 2)
		if dat.Mode == ele.Design {
			o.Param("eff", 0.9)
			o.Result("s_Np", "s_Wp", "s_PR", "s_eff")
		} else {
			o.Param("s_Np", 1)
			o.Param("s_Wp", 1)
			o.Param("s_PR", 1)
			o.Param("s_eff", 1)
			o.Result("eff")
		}
		for _, b := range o.bleeds {
			o.Param("frac_P_"+b, 1)
		}
		o.AddExitStatic("", 0)
		o.Result("Wp", "WpMap", "Np", "NpMap", "PRmap", "effMap", "pwr", "trq")
		return o, nil
	})
}

// Sizing returns the keys of the design results that size the off-design element
func (o *Turbine) Sizing() []string {
	return []string{"s_Np", "s_Wp", "s_PR", "s_eff", "area"}
}

// Map returns the performance map
func (o *Turbine) Map() *maps.Map { return o.tmap }

// Compute computes the exit station, the power and the map results
func (o *Turbine) Compute(ctx *ele.Context) (err error) {
	in, err := ctx.Input("Fl_I")
	if err != nil {
		return
	}
	calc := ctx.Calc
	N, alpha, PR := o.P("Nmech"), o.P("alphaMap"), o.P("PR")
	if !(PR >= 1) {
		return o.Err(nil, "pressure ratio must be greater than or equal to one. PR = %g is invalid", PR)
	}
	Wp := in.W * math.Sqrt(in.Tt) / in.Pt
	Np := N / math.Sqrt(in.Tt)

	// map
	var eff, NpMap, PRmap float64
	var p maps.Point
	if o.Mode() == ele.Design {
		eff = o.P("eff")
		if !(eff > 0 && eff <= 1) {
			return o.Err(nil, "efficiency must be in (0,1]. eff = %g is invalid", eff)
		}
		p = o.tmap.Design(alpha)
		NpMap, PRmap = o.tmap.SpeedDes, o.tmap.LineDes
		o.SetRes("s_Np", Np/NpMap)
		o.SetRes("s_Wp", Wp/p.Flow)
		o.SetRes("s_PR", (PR-1)/(PRmap-1))
		o.SetRes("s_eff", eff/p.Eff)
	} else {
		NpMap = Np / o.P("s_Np")
		PRmap = (PR-1)/o.P("s_PR") + 1
		p = o.tmap.Eval(alpha, NpMap, PRmap)
		eff = o.P("s_eff") * p.Eff
		if !(eff > 0) {
			return o.Err(nil, "map point (Np = %g, PR = %g) is invalid: eff = %g", NpMap, PRmap, eff)
		}
		o.SetRes("eff", eff)
	}
	WpMap := o.Val("s_Wp") * p.Flow

	// cooling flows: the inlet part expands, the remainder mixes at the exit
	W1, b1, h1 := in.W, in.B, in.Ht
	W2, b2, h2 := 0.0, in.B, 0.0
	for _, b := range o.bleeds {
		cool, e := ctx.Input(b)
		if e != nil {
			return e
		}
		frac := o.P("frac_P_" + b)
		if frac < 0 || frac > 1 {
			return o.Err(nil, "cooling pressure fraction must be in [0,1]. frac_P_%s = %g is invalid", b, frac)
		}
		W1, b1, h1 = flow.Mix(W1, b1, h1, cool.W*frac, cool.B, cool.Ht)
		W2, b2, h2 = flow.Mix(W2, b2, h2, cool.W*(1-frac), cool.B, cool.Ht)
	}
	mixed := in
	if W1 != in.W {
		if mixed, err = calc.TotalHP(o.Port("mix"), h1, in.Pt, b1, W1); err != nil {
			return
		}
	}

	// expansion
	Pt := in.Pt / PR
	ideal, err := calc.TotalSP(o.Port("ideal"), mixed.S, Pt, b1, W1)
	if err != nil {
		return
	}
	ht := h1 - eff*(h1-ideal.Ht)
	pwr := W1 * (h1 - ht)
	W, b, h := flow.Mix(W1, b1, ht, W2, b2, h2)

	// exit
	st, err := calc.TotalHP(o.Port("Fl_O"), h, Pt, b, W)
	if err != nil {
		return
	}
	if err = o.ExitStatic(calc, st, ""); err != nil {
		return
	}
	ctx.Out["Fl_O"] = st
	hp, trq := ele.Power(pwr, N)

	// results
	o.SetRes("Wp", Wp)
	o.SetRes("WpMap", WpMap)
	o.SetRes("Np", Np)
	o.SetRes("NpMap", NpMap)
	o.SetRes("PRmap", PRmap)
	o.SetRes("effMap", p.Eff)
	o.SetRes("pwr", hp)
	o.SetRes("trq", trq)
	return
}
