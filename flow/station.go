// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package flow implements one-dimensional flow stations and the thermodynamic calculations on them
//
// Stations use English engineering units: P [psia], T [degR], h [Btu/lbm], S [Btu/(lbm degR)],
// rho [lbm/ft³], V [ft/s], Area [in²], W [lbm/s]. Gas models work in SI; conversions are in
// units.go
package flow

import "github.com/cpmech/gocycle/mdl/gas"

// Station holds the state of a flow cross-section
type Station struct {
	Name string // name of station (element.port)

	// total properties
	Pt   float64 // total pressure [psia]
	Tt   float64 // total temperature [degR]
	Ht   float64 // total enthalpy [Btu/lbm]
	S    float64 // entropy [Btu/(lbm degR)]
	Gamt float64 // isentropic exponent at total state
	Cpt  float64 // specific heat at constant pressure [Btu/(lbm degR)]
	Cvt  float64 // specific heat at constant volume [Btu/(lbm degR)]
	Rhot float64 // density at total state [lbm/ft³]
	R    float64 // gas constant [Btu/(lbm degR)]

	// static properties
	Static bool    // static properties were computed
	Ps     float64 // static pressure [psia]
	Ts     float64 // static temperature [degR]
	Hs     float64 // static enthalpy [Btu/lbm]
	Gams   float64 // isentropic exponent at static state
	Cps    float64 // static specific heat at constant pressure [Btu/(lbm degR)]
	Cvs    float64 // static specific heat at constant volume [Btu/(lbm degR)]
	Rhos   float64 // static density [lbm/ft³]
	MN     float64 // Mach number
	V      float64 // velocity [ft/s]
	Vsonic float64 // speed of sound [ft/s]
	Area   float64 // flow area [in²]

	// flow
	W float64   // mass flow [lbm/s]
	B []float64 // elemental composition [kmol/kg]

	// thermodynamic states
	tot  *gas.State // total state (SI)
	stat *gas.State // static state (SI)
}

// Thermo returns the total thermodynamic state (SI); nil if not computed
func (o *Station) Thermo() *gas.State { return o.tot }

// StaticThermo returns the static thermodynamic state (SI); nil if not computed
func (o *Station) StaticThermo() *gas.State { return o.stat }

// Copy returns a copy of this station with a new name. Thermodynamic states are shared since they
// are never modified after publication
func (o *Station) Copy(name string) *Station {
	c := *o
	c.Name = name
	c.B = append([]float64(nil), o.B...)
	return &c
}

// Total returns a station with the total state of this one, a new name and mass flow W. Static
// properties are not copied
func (o *Station) Total(name string, W float64) *Station {
	return &Station{
		Name: name,
		Pt:   o.Pt,
		Tt:   o.Tt,
		Ht:   o.Ht,
		S:    o.S,
		Gamt: o.Gamt,
		Cpt:  o.Cpt,
		Cvt:  o.Cvt,
		Rhot: o.Rhot,
		R:    o.R,
		W:    W,
		B:    append([]float64(nil), o.B...),
		tot:  o.tot,
	}
}

// setTotal fills the total properties from a gas state
func (o *Station) setTotal(st *gas.State) {
	o.tot = st
	o.Pt = st.P * BarToPsi
	o.Tt = st.T * KtoR
	o.Ht = st.H / BtuLbmToJkg
	o.S = st.S / BtuRToJkgK
	o.Gamt = st.GammaS
	o.Cpt = st.Cp / BtuRToJkgK
	o.Cvt = st.Cv / BtuRToJkgK
	o.Rhot = st.Rho * KgM3ToLbmF3
	o.R = st.R / BtuRToJkgK
}

// setStatic fills the static properties from a gas state and the velocity [m/s]
func (o *Station) setStatic(st *gas.State, V float64) {
	o.stat = st
	o.Static = true
	o.Ps = st.P * BarToPsi
	o.Ts = st.T * KtoR
	o.Hs = st.H / BtuLbmToJkg
	o.Gams = st.GammaS
	o.Cps = st.Cp / BtuRToJkgK
	o.Cvs = st.Cv / BtuRToJkgK
	o.Rhos = st.Rho * KgM3ToLbmF3
	a := st.Sonic()
	o.Vsonic = a * MToFt
	o.V = V * MToFt
	o.MN = V / a
	o.Area = 0
	if V > 0 {
		o.Area = (o.W * LbmToKg) / (st.Rho * V) / In2ToM2
	}
}
