// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cycle

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_main01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("main01. design and off-design runs from cycle files")

	des, err := NewMain("../inp/data/turbojet.cyc", chk.Verbose)
	if err != nil {
		tst.Errorf("NewMain failed:\n%v", err)
		return
	}
	des.Model.Metrics = nil
	if err = des.Run(); err != nil {
		tst.Errorf("Run failed:\n%v", err)
		return
	}
	chk.Float64(tst, "Fn", 1e-4, value(tst, des.Model, "perf.Fn"), 11800)
	chk.Float64(tst, "OPR", 1e-9, value(tst, des.Model, "perf.OPR"), 13.5)

	// same answer as the model built in code
	m := turbojet(tst, des.Model.Mode, des.Model.Calc.Gas)
	m.Metrics = nil
	solve(tst, m)
	for _, k := range []string{"fc.W", "burner.FAR", "turb.PR", "perf.TSFC"} {
		chk.Float64(tst, k, 1e-5*value(tst, m, k), value(tst, des.Model, k), value(tst, m, k))
	}

	// off-design
	off, err := NewMain("../inp/data/turbojet_off.cyc", chk.Verbose)
	if err != nil {
		tst.Errorf("NewMain failed:\n%v", err)
		return
	}
	off.Model.Metrics = nil
	if err = off.RunOffDesign(des); err != nil {
		tst.Errorf("RunOffDesign failed:\n%v", err)
		return
	}
	io.Pforan("%s", off.Model.BalancesTable())
	chk.Float64(tst, "T4", 1e-4, value(tst, off.Model, "burner.Fl_O.Tt"), 2200)
	if value(tst, off.Model, "perf.Fn") >= 11800 {
		tst.Errorf("thrust must decrease with burner temperature\n")
		return
	}

	// off-design cannot be sized by another off-design
	if err = off.RunOffDesign(off); err == nil {
		tst.Errorf("RunOffDesign should have failed\n")
	}
}
