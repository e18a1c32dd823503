// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cycle

import "math"

// Balance holds one implicit unknown of the cycle: the element parameter Target is varied until
//
//	r = (lhs - (Mult*rhs + Add)) / (Ref * norm)
//
// vanishes, where lhs is the value of key Lhs and rhs is the value of key Rhs or RhsVal if Rhs is
// empty. norm is 1 unless Normalize is set; then it is |rhs'| if |rhs'| >= 2 and 0.25 rhs'² + 1
// otherwise, with rhs' = Mult*rhs + Add
type Balance struct {
	Name      string  // name of balance; default is Target
	Target    string  // parameter owned by this balance. ex: "burner.FAR"
	Val       float64 // current value (seed)
	Lower     float64 // lower bound
	Upper     float64 // upper bound
	Lhs       string  // key of left-hand side. ex: "burner.Fl_O.Tt"
	Rhs       string  // key of right-hand side; empty means RhsVal
	RhsVal    float64 // constant right-hand side
	Mult      float64 // multiplier of rhs
	Add       float64 // offset of rhs
	Ref       float64 // reference value scaling the residual
	Normalize bool    // divide by the normalising function of rhs

	// resolved keys
	target, lhs, rhs *key
}

// NewBalance returns a new balance without bounds and with unit multiplier and reference
func NewBalance(target string, val float64) *Balance {
	return &Balance{
		Name:   target,
		Target: target,
		Val:    val,
		Lower:  math.Inf(-1),
		Upper:  math.Inf(1),
		Mult:   1,
		Ref:    1,
	}
}

// residual computes the scaled residual from the left- and right-hand sides
func (o *Balance) residual(lhs, rhs float64) float64 {
	rhs = o.Mult*rhs + o.Add
	norm := 1.0
	if o.Normalize {
		if a := math.Abs(rhs); a >= 2 {
			norm = a
		} else {
			norm = 0.25*rhs*rhs + 1
		}
	}
	return (lhs - rhs) / (o.Ref * norm)
}

// system implements newton.System on the balances of a model
type system struct {
	m *Model
}

// Size returns the number of balances
func (o system) Size() int { return len(o.m.bals) }

// Residual sets the balance targets to x, runs the model and computes the residuals
func (o system) Residual(x, r []float64) error {
	return o.m.residual(x, r)
}

// Names returns the names of the balances
func (o system) Names() (names []string) {
	for _, b := range o.m.bals {
		names = append(names, b.Name)
	}
	return
}

// Bounds returns the bounds of the balances
func (o system) Bounds() (lo, hi []float64) {
	for _, b := range o.m.bals {
		lo = append(lo, b.Lower)
		hi = append(hi, b.Upper)
	}
	return
}

// Freeze freezes the discrete branches of the elements
func (o system) Freeze(on bool) {
	if o.m.Calc.Cache != nil {
		o.m.Calc.Cache.Frozen = on
	}
}
