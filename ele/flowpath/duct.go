// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flowpath

import "github.com/cpmech/gocycle/ele"

// Duct implements a passage with pressure loss and heat addition
type Duct struct {
	ele.Base
}

// add element to factory
func init() {
	ele.SetAllocator("duct", func(dat *ele.Data) (ele.Element, error) {
		o := new(Duct)
		o.Init(dat, []string{"Fl_I"}, []string{"Fl_O"})
		o.Param("dPqP", 0)  // relative pressure loss
		o.Param("Q_dot", 0) // heat addition [Btu/s]
		o.AddExitStatic("", 0)
		return o, nil
	})
}

// Sizing returns the keys of the design area
func (o *Duct) Sizing() []string { return []string{"area"} }

// Compute computes the exit station
func (o *Duct) Compute(ctx *ele.Context) (err error) {
	in, err := ctx.Input("Fl_I")
	if err != nil {
		return
	}
	dPqP := o.P("dPqP")
	if dPqP < 0 || dPqP >= 1 {
		return o.Err(nil, "pressure loss must be in [0,1). dPqP = %g is invalid", dPqP)
	}
	ht := in.Ht
	if q := o.P("Q_dot"); q != 0 {
		if in.W <= 0 {
			return o.Err(nil, "cannot add heat Q_dot = %g to a zero mass flow", q)
		}
		ht += q / in.W
	}
	st, err := ctx.Calc.TotalHP(o.Port("Fl_O"), ht, in.Pt*(1-dPqP), in.B, in.W)
	if err != nil {
		return
	}
	if err = o.ExitStatic(ctx.Calc, st, ""); err != nil {
		return
	}
	ctx.Out["Fl_O"] = st
	return
}
