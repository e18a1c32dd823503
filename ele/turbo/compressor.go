// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package turbo implements the rotating elements: compressors, turbines, shafts and gearboxes,
// and the cooling flow requirement of turbine rows
package turbo

import (
	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gocycle/mdl/maps"
	"github.com/cpmech/gosl/chk"
)

// Compressor implements a compressor with performance map and interstage bleeds
//
//	Design:     PR, eff, Nmech and the flow define the map scalars s_Nc, s_Wc, s_PR, s_eff
//	Off-design: the map scalars are fixed; RlineMap is free and Wc = WcMap closes the map
type Compressor struct {
	ele.Base
	cmap   *maps.Map // performance map
	bleeds []string  // names of bleed ports
}

// add element to factory
func init() {
	ele.SetAllocator("compressor", func(dat *ele.Data) (ele.Element, error) {
		o := new(Compressor)
		name := "hpc"
		if s, found := ele.Keycode(dat.Extra, "map"); found {
			name = s
		}
		var err error
		o.cmap, err = getMap(name, maps.Compressor)
		if err != nil {
			return nil, chk.Err("compressor %q: %v", dat.Name, err)
		}
		o.bleeds = ele.KeyList(dat.Extra, "bleeds")
		o.Init(dat, []string{"Fl_I"}, append([]string{"Fl_O"}, o.bleeds...))
		o.Param("Nmech", 1000)
		o.Param("alphaMap", 0)
		if dat.Mode == ele.Design {
			o.Param("PR", 5)
			o.Param("eff", 0.85)
			o.Result("s_Nc", "s_Wc", "s_PR", "s_eff", "RlineMap")
		} else {
			o.Param("RlineMap", o.cmap.LineDes)
			o.Param("s_Nc", 1)
			o.Param("s_Wc", 1)
			o.Param("s_PR", 1)
			o.Param("s_eff", 1)
			o.Result("PR", "eff")
		}
		for _, b := range o.bleeds {
			o.Param("frac_W_"+b, 0)
			o.Param("frac_P_"+b, 0.5)
			o.Param("frac_work_"+b, 0.5)
		}
		o.AddExitStatic("", 0)
		o.Result("Wc", "WcMap", "Nc", "NcMap", "PRmap", "effMap", "pwr", "trq", "SMN", "SMW")
		return o, nil
	})
}

// getMap returns a map of the given kind
func getMap(name string, kind maps.Kind) (*maps.Map, error) {
	m, err := maps.Get(name)
	if err != nil {
		return nil, err
	}
	if m.Kind != kind {
		return nil, chk.Err("map %q has the wrong kind", name)
	}
	return m, nil
}

// Sizing returns the keys of the design results that size the off-design element
func (o *Compressor) Sizing() []string {
	return []string{"s_Nc", "s_Wc", "s_PR", "s_eff", "area"}
}

// Map returns the performance map
func (o *Compressor) Map() *maps.Map { return o.cmap }

// Compute computes the exit and bleed stations, the power and the map results
func (o *Compressor) Compute(ctx *ele.Context) (err error) {
	in, err := ctx.Input("Fl_I")
	if err != nil {
		return
	}
	calc := ctx.Calc
	N, alpha := o.P("Nmech"), o.P("alphaMap")
	Wc, Nc := ele.Corrected(in.W, N, in.Tt, in.Pt)

	// map
	var PR, eff, NcMap, Rline float64
	var p maps.Point
	if o.Mode() == ele.Design {
		PR, eff = o.P("PR"), o.P("eff")
		if PR < 1 || !(eff > 0 && eff <= 1) {
			return o.Err(nil, "invalid design point: PR = %g, eff = %g", PR, eff)
		}
		p = o.cmap.Design(alpha)
		NcMap, Rline = o.cmap.SpeedDes, o.cmap.LineDes
		o.SetRes("s_Nc", Nc/NcMap)
		o.SetRes("s_Wc", Wc/p.Flow)
		o.SetRes("s_PR", (PR-1)/(p.PR-1))
		o.SetRes("s_eff", eff/p.Eff)
		o.SetRes("RlineMap", Rline)
	} else {
		NcMap, Rline = Nc/o.P("s_Nc"), o.P("RlineMap")
		p = o.cmap.Eval(alpha, NcMap, Rline)
		PR = o.P("s_PR")*(p.PR-1) + 1
		eff = o.P("s_eff") * p.Eff
		if PR <= 0 || !(eff > 0) {
			return o.Err(nil, "map point (Nc = %g, Rline = %g) is invalid: PR = %g, eff = %g", NcMap, Rline, PR, eff)
		}
		o.SetRes("PR", PR)
		o.SetRes("eff", eff)
	}
	sWc, sPR := o.Val("s_Wc"), o.Val("s_PR")
	WcMap := sWc * p.Flow

	// ideal and actual exit
	Pt := in.Pt * PR
	ideal, err := calc.TotalSP(o.Port("ideal"), in.S, Pt, in.B, in.W)
	if err != nil {
		return
	}
	ht := in.Ht + (ideal.Ht-in.Ht)/eff

	// bleeds
	var sum, Wb, pwr float64
	for _, b := range o.bleeds {
		frac := o.P("frac_W_" + b)
		sum += frac
		if frac < 0 || sum >= 1 {
			return o.Err(nil, "bleed fractions must be in [0,1) and sum less than one. frac_W_%s = %g is invalid", b, frac)
		}
		W := in.W * frac
		Ptb := in.Pt + o.P("frac_P_"+b)*(Pt-in.Pt)
		htb := in.Ht + o.P("frac_work_"+b)*(ht-in.Ht)
		st, e := calc.TotalHP(o.Port(b), htb, Ptb, in.B, W)
		if e != nil {
			return e
		}
		ctx.Out[b] = st
		Wb += W
		pwr += W * (in.Ht - htb)
	}

	// exit
	Wout := in.W - Wb
	st, err := calc.TotalHP(o.Port("Fl_O"), ht, Pt, in.B, Wout)
	if err != nil {
		return
	}
	if err = o.ExitStatic(calc, st, ""); err != nil {
		return
	}
	ctx.Out["Fl_O"] = st
	pwr += Wout * (in.Ht - ht)
	hp, trq := ele.Power(pwr, N)

	// stall margins at constant speed
	stall := o.cmap.Eval(alpha, NcMap, o.cmap.RlineStall)
	PRstall := sPR*(stall.PR-1) + 1
	Wstall := sWc * stall.Flow
	SMN, SMW := 0.0, 0.0
	if WcMap > 0 && Wstall > 0 {
		SMN = ((PRstall/Wstall)/(PR/WcMap) - 1) * 100
		SMW = (WcMap/Wstall - 1) * 100
	}

	// results
	o.SetRes("Wc", Wc)
	o.SetRes("WcMap", WcMap)
	o.SetRes("Nc", Nc)
	o.SetRes("NcMap", NcMap)
	o.SetRes("PRmap", p.PR)
	o.SetRes("effMap", p.Eff)
	o.SetRes("pwr", hp)
	o.SetRes("trq", trq)
	o.SetRes("SMN", SMN)
	o.SetRes("SMW", SMW)
	return
}
