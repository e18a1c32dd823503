// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flowpath

import (
	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gocycle/flow"
	"github.com/cpmech/gosl/chk"
)

// nozzle types
const (
	NozzleCV   = "CV"    // convergent
	NozzleCD   = "CD"    // convergent-divergent; always fully expanded
	NozzleCDCV = "CD_CV" // fully expanded thrust with convergent exit geometry
)

// Nozzle expands the flow to the exhaust pressure. The throat is choked if the sonic static
// pressure is above the exhaust pressure; the choked/unchoked branch is stored in the cache so
// that it can be frozen while derivatives are computed
type Nozzle struct {
	ele.Base
	typ string // type of nozzle
}

// add element to factory
func init() {
	ele.SetAllocator("nozzle", func(dat *ele.Data) (ele.Element, error) {
		o := new(Nozzle)
		o.Init(dat, []string{"Fl_I"}, []string{"Fl_O"})
		o.typ = NozzleCV
		if s, found := ele.Keycode(dat.Extra, "type"); found {
			o.typ = s
		}
		switch o.typ {
		case NozzleCV, NozzleCD, NozzleCDCV:
		default:
			return nil, chk.Err("nozzle type %q is invalid. options are %q, %q and %q", o.typ, NozzleCV, NozzleCD, NozzleCDCV)
		}
		o.Param("Ps_exhaust", flow.Psls)
		o.Param("Cv", 1)
		if dat.Mode == ele.OffDesign {
			o.Param("Ath_des", 0) // design throat area [in²]
		}
		o.Result("Fg", "Ath", "Aexit", "Ps_exit", "V_exit", "MN_exit", "choked", "PR")
		return o, nil
	})
}

// Sizing returns the design throat area; off-design receives it as Ath_des
func (o *Nozzle) Sizing() []string { return []string{"Ath"} }

// Type returns the type of nozzle
func (o *Nozzle) Type() string { return o.typ }

// Compute computes the throat, the exit station and the gross thrust
func (o *Nozzle) Compute(ctx *ele.Context) (err error) {
	in, err := ctx.Input("Fl_I")
	if err != nil {
		return
	}
	Pamb, Cv := o.P("Ps_exhaust"), o.P("Cv")
	if !(Pamb > 0) {
		return o.Err(nil, "exhaust pressure must be positive. Ps_exhaust = %g is invalid", Pamb)
	}
	calc := ctx.Calc

	// throat
	th := in.Total(o.Port("throat"), in.W)
	if err = calc.SetStaticMN(th, 1); err != nil {
		return
	}
	choked := 0
	if th.Ps > Pamb {
		choked = 1
	}
	choked = calc.Cache.Branch(o.Port("choked"), choked)

	// exit
	ex := in.Total(o.Port("Fl_O"), in.W)
	var Fg, Ath, Aexit float64
	if o.typ == NozzleCV && choked == 1 {
		ex = th.Copy(o.Port("Fl_O"))
		Fg = Cv * (in.W*th.V/flow.Gc + (th.Ps-Pamb)*th.Area)
		Ath, Aexit = th.Area, th.Area
	} else {
		if err = calc.SetStaticPs(ex, Pamb); err != nil {
			return
		}
		Fg = Cv * in.W * ex.V / flow.Gc
		Ath, Aexit = ex.Area, ex.Area
		if choked == 1 {
			Ath = th.Area
		}
		if o.typ == NozzleCDCV {
			Aexit = Ath
		}
	}
	ctx.Out["Fl_O"] = ex

	// results
	o.SetRes("Fg", Fg)
	o.SetRes("Ath", Ath)
	o.SetRes("Aexit", Aexit)
	o.SetRes("Ps_exit", ex.Ps)
	o.SetRes("V_exit", ex.V)
	o.SetRes("MN_exit", ex.MN)
	o.SetRes("choked", float64(choked))
	o.SetRes("PR", in.Pt/Pamb)
	return
}
