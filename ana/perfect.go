// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements closed-form solutions used as initial guesses and test references
package ana

import "math"

// PerfectGas implements the isentropic relations of a calorically perfect gas. Gam ≤ 1 means 1.4
//
//	Tt/Ts  = 1 + (γ-1)/2・M²
//	Pt/Ps  = (Tt/Ts)^(γ/(γ-1))
//	A/A*   = (2/(γ+1)・Tt/Ts)^((γ+1)/(2(γ-1))) / M
//
type PerfectGas struct {
	Gam float64 // ratio of specific heats
}

// gam returns the ratio of specific heats
func (o PerfectGas) gam() float64 {
	if o.Gam > 1 {
		return o.Gam
	}
	return 1.4
}

// TtqTs returns Tt/Ts at Mach number M
func (o PerfectGas) TtqTs(M float64) float64 {
	return 1 + (o.gam()-1)/2*M*M
}

// PsqPt returns Ps/Pt at Mach number M
func (o PerfectGas) PsqPt(M float64) float64 {
	g := o.gam()
	return math.Pow(o.TtqTs(M), -g/(g-1))
}

// AqAstar returns A/A* at Mach number M
func (o PerfectGas) AqAstar(M float64) float64 {
	g := o.gam()
	return math.Pow(2/(g+1)*o.TtqTs(M), (g+1)/(2*(g-1))) / M
}

// MachFromPsqPt returns the Mach number corresponding to Ps/Pt
func (o PerfectGas) MachFromPsqPt(ratio float64) float64 {
	g := o.gam()
	return math.Sqrt(2 / (g - 1) * (math.Pow(ratio, -(g-1)/g) - 1))
}

// MachFromArea returns the Mach number corresponding to A/A* on the subsonic or supersonic branch
func (o PerfectGas) MachFromArea(ratio float64, supersonic bool) float64 {
	lo, hi := 1e-6, 1.0
	if supersonic {
		lo, hi = 1.0, 20.0
	}
	for i := 0; i < 60; i++ {
		M := (lo + hi) / 2
		if (o.AqAstar(M) > ratio) != supersonic {
			lo = M
		} else {
			hi = M
		}
	}
	return (lo + hi) / 2
}

// CompressionTt returns the exit total temperature of a compression with pressure ratio PR and
// isentropic efficiency eff
func (o PerfectGas) CompressionTt(Tt, PR, eff float64) float64 {
	g := o.gam()
	return Tt * (1 + (math.Pow(PR, (g-1)/g)-1)/eff)
}

// ExpansionTt returns the exit total temperature of an expansion with pressure ratio PR ≥ 1 and
// isentropic efficiency eff
func (o PerfectGas) ExpansionTt(Tt, PR, eff float64) float64 {
	g := o.gam()
	return Tt * (1 - eff*(1-math.Pow(PR, -(g-1)/g)))
}

// BraytonEff returns the thermal efficiency of the ideal Brayton cycle
func (o PerfectGas) BraytonEff(PR float64) float64 {
	g := o.gam()
	return 1 - math.Pow(PR, -(g-1)/g)
}
