// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maps

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_maps01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("maps01. compressor maps")

	for _, name := range []string{"fan", "lpc", "hpc"} {
		m, err := Get(name)
		if err != nil {
			tst.Errorf("Get failed:\n%v", err)
			return
		}
		des := m.Design(0)
		io.Pforan("%s: WcMap=%g PRmap=%g effMap=%g\n", name, des.Flow, des.PR, des.Eff)
		if des.Out || des.PR <= 1 || des.Eff <= 0 || des.Eff >= 1 {
			tst.Errorf("%s: invalid design point %+v", name, des)
			return
		}

		// along a speed line: flow increases and PR decreases from surge to choke
		prev := m.Eval(0, 1, 1)
		for _, r := range []float64{1.4, 1.8, 2.2, 2.6, 3.0} {
			p := m.Eval(0, 1, r)
			if p.Flow <= prev.Flow || p.PR >= prev.PR {
				tst.Errorf("%s: wrong trend at R=%g: %+v -> %+v", name, r, prev, p)
				return
			}
			prev = p
		}

		// higher speed gives higher flow and PR
		lo, hi := m.Eval(0, 0.9, 2), m.Eval(0, 1.1, 2)
		if hi.Flow <= lo.Flow || hi.PR <= lo.PR {
			tst.Errorf("%s: wrong trend with speed", name)
			return
		}

		// beyond the map
		if p := m.Eval(0, 1.25, 2); !p.Out {
			tst.Errorf("%s: point should be outside map", name)
			return
		}
	}

	// variable geometry
	fan, _ := Get("fan")
	chk.Int(tst, "fan: number of alphas", len(fan.Alphas), 2)
	if fan.Eval(1, 1, 2).Flow <= fan.Eval(0, 1, 2).Flow {
		tst.Errorf("opening the variable geometry should increase flow")
		return
	}
}

func Test_maps02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("maps02. turbine maps")

	for _, name := range []string{"hpt", "lpt"} {
		m, err := Get(name)
		if err != nil {
			tst.Errorf("Get failed:\n%v", err)
			return
		}
		des := m.Design(0)
		chk.Float64(tst, name+": PR", 1e-15, des.PR, m.LineDes)
		prev := m.Eval(0, 1, 1.5)
		for _, pr := range []float64{2, 3, 5, 8} {
			p := m.Eval(0, 1, pr)
			if p.Flow <= prev.Flow {
				tst.Errorf("%s: flow must increase with PR", name)
				return
			}
			prev = p
		}
	}

	if _, err := Get("propeller"); err == nil {
		tst.Errorf("unknown map should cause an error")
		return
	}
	chk.Int(tst, "number of maps", len(Names()), 5)
}
