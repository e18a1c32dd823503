// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	chk.Verbose = true
}

func Test_perfect01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("perfect01. isentropic relations")

	air := PerfectGas{Gam: 1.4}
	chk.Float64(tst, "Tt/Ts(1)", 1e-15, air.TtqTs(1), 1.2)
	chk.Float64(tst, "Ps/Pt(1)", 1e-6, air.PsqPt(1), 0.528282)
	chk.Float64(tst, "A/A*(1)", 1e-15, air.AqAstar(1), 1)
	chk.Float64(tst, "A/A*(2)", 1e-5, air.AqAstar(2), 1.687500)
	chk.Float64(tst, "default gamma", 1e-15, PerfectGas{}.PsqPt(0.5), air.PsqPt(0.5))

	io.Pf("%8s%14s%14s%14s\n", "M", "Ps/Pt", "A/A*", "M(A/A*)")
	for _, M := range []float64{0.1, 0.3, 0.6, 0.9, 1.3, 2.0, 3.5} {
		r := air.PsqPt(M)
		a := air.AqAstar(M)
		Ma := air.MachFromArea(a, M > 1)
		io.Pf("%8.3f%14.8f%14.8f%14.8f\n", M, r, a, Ma)
		chk.Float64(tst, io.Sf("M(Ps/Pt) @ %g", M), 1e-12, air.MachFromPsqPt(r), M)
		chk.Float64(tst, io.Sf("M(A/A*) @ %g", M), 1e-9, Ma, M)
	}
}

func Test_perfect02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("perfect02. compression, expansion and Brayton cycle")

	air := PerfectGas{Gam: 1.4}
	T1, PR := 518.67, 13.5

	// ideal compression and expansion are reversible
	T2 := air.CompressionTt(T1, PR, 1)
	chk.Float64(tst, "T1", 1e-12, air.ExpansionTt(T2, PR, 1), T1)

	// losses raise the compression temperature and the expansion temperature
	if air.CompressionTt(T1, PR, 0.83) <= T2 {
		tst.Errorf("compression losses must increase the exit temperature\n")
		return
	}
	if air.ExpansionTt(2370, 4, 0.86) <= air.ExpansionTt(2370, 4, 1) {
		tst.Errorf("expansion losses must increase the exit temperature\n")
		return
	}

	// Brayton efficiency = 1 - T1/T2
	chk.Float64(tst, "eta", 1e-14, air.BraytonEff(PR), 1-T1/T2)
}
