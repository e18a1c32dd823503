// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flowpath

import (
	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gosl/chk"
)

// Splitter divides one flow in two streams with the same total state; W1 = W/(1+BPR)
type Splitter struct {
	ele.Base
}

// BleedOut extracts bleed flows from the main stream at the inlet total state
type BleedOut struct {
	ele.Base
	bleeds []string // names of bleed ports
}

// add elements to factory
func init() {
	ele.SetAllocator("splitter", func(dat *ele.Data) (ele.Element, error) {
		o := new(Splitter)
		o.Init(dat, []string{"Fl_I"}, []string{"Fl_O1", "Fl_O2"})
		o.Param("BPR", 1)
		o.AddExitStatic("1", 0)
		o.AddExitStatic("2", 0)
		o.Result("W1", "W2")
		return o, nil
	})
	ele.SetAllocator("bleedout", func(dat *ele.Data) (ele.Element, error) {
		o := new(BleedOut)
		o.bleeds = ele.KeyList(dat.Extra, "bleeds")
		o.Init(dat, []string{"Fl_I"}, append([]string{"Fl_O"}, o.bleeds...))
		for _, b := range o.bleeds {
			if b == "Fl_O" || b == "Fl_I" {
				return nil, chk.Err("bleedout %q: bleed port name %q is reserved", dat.Name, b)
			}
			o.Param("frac_W_"+b, 0)
		}
		o.AddExitStatic("", 0)
		o.Result("W_bleed")
		return o, nil
	})
}

// Sizing returns the keys of the design areas
func (o *Splitter) Sizing() []string { return []string{"area1", "area2"} }

// Compute computes the two exit stations
func (o *Splitter) Compute(ctx *ele.Context) (err error) {
	in, err := ctx.Input("Fl_I")
	if err != nil {
		return
	}
	BPR := o.P("BPR")
	if BPR < 0 {
		return o.Err(nil, "bypass ratio must be non-negative. BPR = %g is invalid", BPR)
	}
	W1 := in.W / (1 + BPR)
	W2 := in.W - W1
	st1 := in.Total(o.Port("Fl_O1"), W1)
	st2 := in.Total(o.Port("Fl_O2"), W2)
	if err = o.ExitStatic(ctx.Calc, st1, "1"); err != nil {
		return
	}
	if err = o.ExitStatic(ctx.Calc, st2, "2"); err != nil {
		return
	}
	ctx.Out["Fl_O1"] = st1
	ctx.Out["Fl_O2"] = st2
	o.SetRes("W1", W1)
	o.SetRes("W2", W2)
	return
}

// Sizing returns the keys of the design area
func (o *BleedOut) Sizing() []string { return []string{"area"} }

// Compute computes the main exit and the bleed stations
func (o *BleedOut) Compute(ctx *ele.Context) (err error) {
	in, err := ctx.Input("Fl_I")
	if err != nil {
		return
	}
	var sum, Wb float64
	for _, b := range o.bleeds {
		frac := o.P("frac_W_" + b)
		if frac < 0 || frac >= 1 {
			return o.Err(nil, "bleed fraction must be in [0,1). frac_W_%s = %g is invalid", b, frac)
		}
		sum += frac
		W := in.W * frac
		Wb += W
		ctx.Out[b] = in.Total(o.Port(b), W)
	}
	if sum >= 1 {
		return o.Err(nil, "sum of bleed fractions must be smaller than one. Σ frac_W = %g is invalid", sum)
	}
	st := in.Total(o.Port("Fl_O"), in.W-Wb)
	if err = o.ExitStatic(ctx.Calc, st, ""); err != nil {
		return
	}
	ctx.Out["Fl_O"] = st
	o.SetRes("W_bleed", Wb)
	return
}
