// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"math"

	"github.com/cpmech/gocycle/mdl/gas"
	"github.com/cpmech/gosl/chk"
)

// Calc computes stations with one gas model and one cache
type Calc struct {
	Gas   gas.Model // thermodynamic model
	Cache *Cache    // warm starts and branches; may be nil
}

// NewCalc returns a new calculator
func NewCalc(model gas.Model, cache *Cache) *Calc {
	if model == nil {
		chk.Panic("flow: gas model must not be nil")
	}
	return &Calc{Gas: model, Cache: cache}
}

// Nel returns the length of composition vectors
func (o *Calc) Nel() int { return len(o.Gas.Elements()) }

// B0 returns the composition of reactant in the element order of the gas model
func (o *Calc) B0(reactant string) ([]float64, error) {
	return gas.B0(reactant, o.Gas.Elements())
}

// TotalTP computes a station from total temperature [degR] and total pressure [psia]
func (o *Calc) TotalTP(name string, Tt, Pt float64, b []float64, W float64) (*Station, error) {
	if !positive(Tt) || !positive(Pt) {
		return nil, analysisErr(name, nil, "invalid total state: Tt = %g, Pt = %g", Tt, Pt)
	}
	return o.total(name, W, b, func(guess *gas.State) (*gas.State, error) {
		return o.Gas.TP(Tt*RtoK, Pt*PsiToBar, b, guess)
	})
}

// TotalHP computes a station from total enthalpy [Btu/lbm] and total pressure [psia]
func (o *Calc) TotalHP(name string, ht, Pt float64, b []float64, W float64) (*Station, error) {
	if !positive(Pt) || math.IsNaN(ht) || math.IsInf(ht, 0) {
		return nil, analysisErr(name, nil, "invalid total state: ht = %g, Pt = %g", ht, Pt)
	}
	return o.total(name, W, b, func(guess *gas.State) (*gas.State, error) {
		return o.Gas.HP(ht*BtuLbmToJkg, Pt*PsiToBar, b, guess)
	})
}

// TotalSP computes a station from entropy [Btu/(lbm degR)] and total pressure [psia]
func (o *Calc) TotalSP(name string, s, Pt float64, b []float64, W float64) (*Station, error) {
	if !positive(Pt) || math.IsNaN(s) || math.IsInf(s, 0) {
		return nil, analysisErr(name, nil, "invalid total state: S = %g, Pt = %g", s, Pt)
	}
	return o.total(name, W, b, func(guess *gas.State) (*gas.State, error) {
		return o.Gas.SP(s*BtuRToJkgK, Pt*PsiToBar, b, guess)
	})
}

// total runs one solve with warm start and builds the station
func (o *Calc) total(name string, W float64, b []float64, solve func(guess *gas.State) (*gas.State, error)) (*Station, error) {
	if W < 0 || math.IsNaN(W) {
		return nil, analysisErr(name, nil, "mass flow must be non-negative. W = %g is invalid", W)
	}
	key := name + "/tot"
	st, err := solve(o.Cache.Guess(key))
	if err != nil {
		return nil, analysisErr(name, err, "cannot compute total state")
	}
	o.Cache.Store(key, st)
	res := &Station{Name: name, W: W, B: append([]float64(nil), b...)}
	res.setTotal(st)
	return res, nil
}

// Mix returns the mass flow, composition and enthalpy of the adiabatic mixture of two flows.
// Every element is conserved: W b = W1 b1 + W2 b2
func Mix(W1 float64, b1 []float64, h1 float64, W2 float64, b2 []float64, h2 float64) (W float64, b []float64, h float64) {
	if len(b1) != len(b2) {
		chk.Panic("flow: cannot mix compositions of different lengths (%d != %d)", len(b1), len(b2))
	}
	W = W1 + W2
	b = make([]float64, len(b1))
	if W == 0 {
		copy(b, b1)
		return W, b, h1
	}
	for i := range b {
		b[i] = (W1*b1[i] + W2*b2[i]) / W
	}
	h = (W1*h1 + W2*h2) / W
	return
}

// positive tells whether x is positive and finite
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}
