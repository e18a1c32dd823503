// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flowpath

import (
	"errors"
	"math"

	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gocycle/flow"
	"github.com/cpmech/gocycle/newton"
)

// Mixer combines two streams. The mixed total pressure satisfies the conservation of impulse
// (Ps A + W V/gc) in a constant-area mixing section. Design: inlet 1 is set by its Mach number and
// inlet 2 is sized to the static pressure of inlet 1. Off-design: both inlet areas are fixed
type Mixer struct {
	ele.Base
}

// add element to factory
func init() {
	ele.SetAllocator("mixer", func(dat *ele.Data) (ele.Element, error) {
		o := new(Mixer)
		o.Init(dat, []string{"Fl_I1", "Fl_I2"}, []string{"Fl_O"})
		if dat.Mode == ele.Design {
			o.Param("MN1", 0.3)
			o.Result("area1", "area2")
		} else {
			o.Param("area1", 0)
			o.Param("area2", 0)
		}
		o.Result("area", "impulse", "ER")
		return o, nil
	})
}

// Sizing returns the keys of the design areas
func (o *Mixer) Sizing() []string { return []string{"area1", "area2"} }

// impulse returns the impulse [lbf] of a station with static properties
func impulse(st *flow.Station) float64 {
	return st.Ps*st.Area + st.W*st.V/flow.Gc
}

// dlnImpulse returns dln(I)/dln(Pt) of a perfect gas at fixed mass flow, total temperature and area
func dlnImpulse(M, gam float64) float64 {
	k := (gam - 1) / 2
	dlnF := 1/M - (gam+1)*M/(2*(1+k*M*M))
	dlnG := 2*gam*M/(1+gam*M*M) - gam*M/(1+k*M*M)
	return 1 - dlnG/dlnF
}

// Compute computes the mixed station
func (o *Mixer) Compute(ctx *ele.Context) (err error) {
	in1, err := ctx.Input("Fl_I1")
	if err != nil {
		return
	}
	in2, err := ctx.Input("Fl_I2")
	if err != nil {
		return
	}
	calc := ctx.Calc

	// inlet statics
	s1 := in1.Total(o.Port("I1"), in1.W)
	s2 := in2.Total(o.Port("I2"), in2.W)
	if o.Mode() == ele.Design {
		if err = calc.SetStaticMN(s1, o.P("MN1")); err != nil {
			return
		}
		if err = calc.SetStaticPs(s2, s1.Ps); err != nil {
			return
		}
		o.SetRes("area1", s1.Area)
		o.SetRes("area2", s2.Area)
	} else {
		if err = calc.SetStaticArea(s1, o.P("area1"), flow.Subsonic); err != nil {
			return
		}
		if err = calc.SetStaticArea(s2, o.P("area2"), flow.Subsonic); err != nil {
			return
		}
	}
	A := s1.Area + s2.Area
	Iin := impulse(s1) + impulse(s2)

	// mixed stream
	if s1.W+s2.W <= 0 {
		return o.Err(nil, "cannot mix two streams without mass flow")
	}
	W, b, ht := flow.Mix(s1.W, s1.B, s1.Ht, s2.W, s2.B, s2.Ht)
	mixed := func(Pt float64) (*flow.Station, error) {
		st, e := calc.TotalHP(o.Port("Fl_O"), ht, Pt, b, W)
		if e != nil {
			return nil, e
		}
		if e = calc.SetStaticArea(st, A, flow.Subsonic); e != nil {
			return nil, e
		}
		return st, nil
	}
	f := func(Pt float64) (fx, dfdx float64, e error) {
		st, e := mixed(Pt)
		if e != nil {
			if errors.Is(e, flow.ErrAnalysis) {
				return -1, math.NaN(), nil // choked: impulse too small
			}
			return
		}
		fx = impulse(st)/Iin - 1
		return fx, (fx + 1) * dlnImpulse(st.MN, st.Gams) / Pt, nil
	}
	Pmin, Pmax := math.Min(s1.Pt, s2.Pt), math.Max(s1.Pt, s2.Pt)
	guess := (s1.W*s1.Pt + s2.W*s2.Pt) / W
	Pt, _, err := newton.Root(f, guess, 0.5*Pmin, 1.5*Pmax, rootOpts)
	if err != nil {
		return o.Err(err, "cannot compute mixed total pressure")
	}
	st, err := mixed(Pt)
	if err != nil {
		return
	}
	ctx.Out["Fl_O"] = st
	o.SetRes("area", A)
	o.SetRes("impulse", Iin)
	o.SetRes("ER", s1.Pt/s2.Pt)
	return
}
