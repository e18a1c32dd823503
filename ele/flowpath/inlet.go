// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flowpath

import (
	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gocycle/flow"
)

// Inlet implements the engine inlet: total pressure recovery and ram drag
type Inlet struct {
	ele.Base
}

// add element to factory
func init() {
	ele.SetAllocator("inlet", func(dat *ele.Data) (ele.Element, error) {
		o := new(Inlet)
		o.Init(dat, []string{"Fl_I"}, []string{"Fl_O"})
		o.Param("ram_recovery", 1)
		o.AddExitStatic("", 0)
		o.Result("F_ram")
		return o, nil
	})
}

// Sizing returns the keys of the design area
func (o *Inlet) Sizing() []string { return []string{"area"} }

// Compute computes the exit station and the ram drag
func (o *Inlet) Compute(ctx *ele.Context) (err error) {
	in, err := ctx.Input("Fl_I")
	if err != nil {
		return
	}
	rr := o.P("ram_recovery")
	if !(rr > 0 && rr <= 1) {
		return o.Err(nil, "ram recovery must be in (0,1]. ram_recovery = %g is invalid", rr)
	}
	st, err := ctx.Calc.TotalHP(o.Port("Fl_O"), in.Ht, in.Pt*rr, in.B, in.W)
	if err != nil {
		return
	}
	if err = o.ExitStatic(ctx.Calc, st, ""); err != nil {
		return
	}
	ctx.Out["Fl_O"] = st
	o.SetRes("F_ram", in.W*in.V/flow.Gc)
	return
}
