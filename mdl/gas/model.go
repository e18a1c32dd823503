// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package gas implements thermodynamic property models for reacting ideal-gas mixtures
//
//	References:
//	 [1] Gordon S and McBride BJ (1994) Computer program for calculation of complex chemical
//	     equilibrium compositions and applications. I. Analysis. NASA RP-1311
//	 [2] McBride BJ, Zehe MJ and Gordon S (2002) NASA Glenn coefficients for calculating
//	     thermodynamic properties of individual species. NASA/TP-2002-211556
//	Units: T [K], P [bar], H [J/kg], S [J/(kg K)], Rho [kg/m³], b [kmol/kg]
package gas

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// constants
const (
	Ru   = 8314.4598 // universal gas constant [J/(kmol K)]
	Pref = 1.0       // standard-state pressure [bar]
)

// Model implements a thermodynamic property evaluator for a mixture defined by its elemental composition
type Model interface {
	Init(prms dbf.Params) error                                 // initialises model
	GetPrms(example bool) dbf.Params                            // gets (an example) of parameters
	Elements() []string                                         // element names; defines the order of b
	Species() []string                                          // species names; defines the order of State.N (may be nil)
	TP(T, P float64, b []float64, guess *State) (*State, error) // state from temperature and pressure
	HP(h, P float64, b []float64, guess *State) (*State, error) // state from enthalpy and pressure
	SP(s, P float64, b []float64, guess *State) (*State, error) // state from entropy and pressure
}

// Props collects the derivatives of the scalar mixture properties w.r.t. one input
type Props struct {
	H     float64 // dH/dx
	S     float64 // dS/dx
	Rho   float64 // dRho/dx
	R     float64 // dR/dx
	Cp    float64 // dCp/dx (only after FillPartials)
	Cv    float64 // dCv/dx (only after FillPartials)
	Gamma float64 // dGamma/dx (only after FillPartials)
}

// State holds the properties of a mixture at equilibrium (or the tabulated approximation of it)
type State struct {

	// input
	T float64   // temperature [K]
	P float64   // pressure [bar]
	B []float64 // composition [kmol/kg]

	// mixture properties
	H      float64 // enthalpy [J/kg]
	S      float64 // entropy [J/(kg K)]
	Cp     float64 // equilibrium specific heat at constant pressure [J/(kg K)]
	Cv     float64 // equilibrium specific heat at constant volume [J/(kg K)]
	Gamma  float64 // Cp/Cv
	GammaS float64 // isentropic exponent -(∂lnP/∂lnV)_S
	Rho    float64 // density [kg/m³]
	R      float64 // specific gas constant [J/(kg K)]

	// species
	N    []float64 // moles of each species per unit mass [kmol/kg]; nil if not available
	Ntot float64   // total moles per unit mass [kmol/kg]

	// volume derivatives
	DlnVdlnT float64 // (∂lnV/∂lnT)_P
	DlnVdlnP float64 // (∂lnV/∂lnP)_T

	// partial derivatives at fixed composition (T and P) and at fixed (T,P) (B)
	DT   Props     // w.r.t. T
	DP   Props     // w.r.t. P
	DB   []Props   // w.r.t. each b_i
	DNdT []float64 // dN_j/dT [kmol/(kg K)]; nil if not available
	DNdP []float64 // dN_j/dP [kmol/(kg bar)]; nil if not available
	Full bool      // Cp, Cv and Gamma derivatives are filled

	// auxiliary
	Iters int // number of iterations of the last solve
}

// Sonic returns the equilibrium speed of sound [m/s]
func (o *State) Sonic() float64 {
	return math.Sqrt(o.GammaS * o.R * o.T)
}

// Copy returns a deep copy of this state
func (o *State) Copy() *State {
	c := *o
	c.B = append([]float64(nil), o.B...)
	c.N = append([]float64(nil), o.N...)
	c.DB = append([]Props(nil), o.DB...)
	c.DNdT = append([]float64(nil), o.DNdT...)
	c.DNdP = append([]float64(nil), o.DNdP...)
	return &c
}

// New returns a new thermodynamic model, already initialised with prms
func New(name string, prms dbf.Params) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'gas' database", name)
	}
	model = allocator()
	err = model.Init(prms)
	return
}

// SetAllocator sets a new allocator for thermodynamic models
func SetAllocator(name string, fcn func() Model) {
	if _, ok := allocators[name]; ok {
		chk.Panic("cannot set allocator for model %q because it exists already", name)
	}
	allocators[name] = fcn
}

// allocators holds all available models
var allocators = map[string]func() Model{}

// checkInput checks the composition vector and pressure
func checkInput(P float64, b []float64, nel int) error {
	if len(b) != nel {
		return chk.Err("composition vector has %d components but the model has %d elements", len(b), nel)
	}
	if !(P > 0) {
		return chk.Err("pressure must be positive. P = %g is invalid", P)
	}
	var sum float64
	for i, v := range b {
		if v < 0 {
			return chk.Err("composition must be non-negative. b[%d] = %g is invalid", i, v)
		}
		sum += v
	}
	if sum <= 0 {
		return chk.Err("composition vector is empty")
	}
	return nil
}
