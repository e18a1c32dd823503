// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flowpath

import (
	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gosl/io"
)

// Performance sums the thrust, ram drag and fuel flow of the engine. Its parameters are filled
// by links from nozzles, inlets and burners
type Performance struct {
	ele.Base
	nFg, nFram, nWfuel int // number of gross thrusts, ram drags and fuel flows
}

// add element to factory
func init() {
	ele.SetAllocator("performance", func(dat *ele.Data) (ele.Element, error) {
		o := new(Performance)
		o.Init(dat, nil, nil)
		o.nFg = ele.KeyInt(dat.Extra, "Fg", 1)
		o.nFram = ele.KeyInt(dat.Extra, "Fram", 1)
		o.nWfuel = ele.KeyInt(dat.Extra, "Wfuel", 1)
		for i := 0; i < o.nFg; i++ {
			o.Param(io.Sf("Fg_%d", i), 0)
		}
		for i := 0; i < o.nFram; i++ {
			o.Param(io.Sf("Fram_%d", i), 0)
		}
		for i := 0; i < o.nWfuel; i++ {
			o.Param(io.Sf("Wfuel_%d", i), 0)
		}
		o.Param("Pt2", 1) // compressor face total pressure
		o.Param("Pt3", 1) // compressor exit total pressure
		o.Result("Fn", "Fg", "Fram", "Wfuel", "TSFC", "OPR")
		return o, nil
	})
}

// Compute computes the performance summary
func (o *Performance) Compute(ctx *ele.Context) (err error) {
	sum := func(prefix string, n int) (res float64) {
		for i := 0; i < n; i++ {
			res += o.P(io.Sf("%s_%d", prefix, i))
		}
		return
	}
	Fg := sum("Fg", o.nFg)
	Fram := sum("Fram", o.nFram)
	Wfuel := sum("Wfuel", o.nWfuel)
	Fn := Fg - Fram
	o.SetRes("Fn", Fn)
	o.SetRes("Fg", Fg)
	o.SetRes("Fram", Fram)
	o.SetRes("Wfuel", Wfuel)
	o.SetRes("TSFC", 0)
	if Fn != 0 {
		o.SetRes("TSFC", Wfuel*3600/Fn)
	}
	if Pt2 := o.P("Pt2"); Pt2 > 0 {
		o.SetRes("OPR", o.P("Pt3")/Pt2)
	}
	return
}
