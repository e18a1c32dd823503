// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package turbo

import (
	"math"

	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gocycle/flow"
	"github.com/cpmech/gocycle/newton"
	"github.com/cpmech/gosl/io"
)

// rootOpts holds the control parameters of the row solves
var rootOpts = &newton.RootOpts{MaxIt: 60, Xtol: 1e-11, Ftol: 1e-12}

// TurbineCooling computes the coolant flow required by each blade row of a turbine. The gas
// temperature of row i is taken at the fraction i/nrows of the expansion, after mixing with the
// coolant of the previous rows and the row's own coolant:
//
//	w = Wg x_factor (φ/(1-φ))^exponent,  φ = (Tg - Tm)/(Tg - Tc),  Tm = T_metal - T_safety
type TurbineCooling struct {
	ele.Base
	nrows int // number of blade rows
}

// add element to factory
func init() {
	ele.SetAllocator("cooling", func(dat *ele.Data) (ele.Element, error) {
		o := new(TurbineCooling)
		o.Init(dat, nil, nil)
		o.Probe("Fl_turb_I", "Fl_turb_O", "Fl_cool")
		o.nrows = ele.KeyInt(dat.Extra, "rows", 2)
		o.Param("T_metal", 2460) // [degR]
		o.Param("T_safety", 150) // [degR]
		o.Param("x_factor", 0.022)
		o.Param("exponent", 1.25)
		for i := 0; i < o.nrows; i++ {
			o.Result(io.Sf("W_row_%d", i))
		}
		o.Result("W_cool", "frac_cool")
		return o, nil
	})
}

// Compute computes the coolant flow of each row
func (o *TurbineCooling) Compute(ctx *ele.Context) (err error) {
	gi, err := ctx.Input("Fl_turb_I")
	if err != nil {
		return
	}
	ge, err := ctx.Input("Fl_turb_O")
	if err != nil {
		return
	}
	cool, err := ctx.Input("Fl_cool")
	if err != nil {
		return
	}
	calc := ctx.Calc
	Tm := o.P("T_metal") - o.P("T_safety")
	k, ex := o.P("x_factor"), o.P("exponent")
	if Tm <= cool.Tt {
		return o.Err(nil, "metal temperature %g must be greater than the coolant temperature %g", Tm, cool.Tt)
	}

	// coolant mixed so far
	var Wc float64
	bc := cool.B
	for i := 0; i < o.nrows; i++ {
		s := float64(i) / float64(o.nrows)
		hg := gi.Ht - s*(gi.Ht-ge.Ht)
		Pg := gi.Pt * math.Pow(ge.Pt/gi.Pt, s)
		Wg, bg, hmix := flow.Mix(gi.W, gi.B, hg, Wc, bc, cool.Ht)
		name := o.Port(io.Sf("row%d", i))

		// gas temperature with the row's own coolant
		Tg := func(w float64) (float64, error) {
			W, b, h := flow.Mix(Wg, bg, hmix, w, cool.B, cool.Ht)
			st, e := calc.TotalHP(name, h, Pg, b, W)
			if e != nil {
				return 0, e
			}
			return st.Tt, nil
		}
		demand := func(T float64) float64 {
			if T <= Tm {
				return 0
			}
			phi := (T - Tm) / (T - cool.Tt)
			return Wg * k * math.Pow(phi/(1-phi), ex)
		}
		T0, e := Tg(0)
		if e != nil {
			return e
		}
		w := 0.0
		if T0 > Tm {
			f := func(w float64) (fx, dfdx float64, e error) {
				T, e := Tg(w)
				if e != nil {
					return
				}
				return (w - demand(T)) / Wg, 1 / Wg, nil
			}
			w, _, err = newton.Root(f, demand(T0), 0, Wg, rootOpts)
			if err != nil {
				return o.Err(err, "cannot compute coolant flow of row %d", i)
			}
		}
		o.SetRes(io.Sf("W_row_%d", i), w)
		Wc += w
	}
	o.SetRes("W_cool", Wc)
	o.SetRes("frac_cool", Wc/gi.W)
	return
}
