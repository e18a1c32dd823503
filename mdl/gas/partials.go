// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gas

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

// FillPartials computes the derivatives of Cp, Cv and Gamma w.r.t T, P and b by central differences
// and, for elements absent from the mixture, all derivatives w.r.t b by forward differences.
// This is the finite-difference fallback of the property derivatives; the other derivatives are
// analytic and are not changed.
func FillPartials(m Model, st *State) (err error) {
	if st.Full {
		return
	}

	// perturbed states; the memo shares solutions among the properties
	var memo map[float64]*State
	get := func(solve func(x float64) (*State, error)) func(x float64) *State {
		return func(x float64) *State {
			if s, ok := memo[x]; ok {
				return s
			}
			s, e := solve(x)
			if e != nil {
				err = e
			}
			memo[x] = s
			return s
		}
	}
	prop := func(eval func(x float64) *State, key func(s *State) float64) func(x float64) float64 {
		return func(x float64) float64 {
			s := eval(x)
			if s == nil {
				return math.NaN()
			}
			return key(s)
		}
	}
	cp := func(s *State) float64 { return s.Cp }
	cv := func(s *State) float64 { return s.Cv }
	ga := func(s *State) float64 { return s.Gamma }

	// derivatives of heat capacities
	derivs := func(x0, h float64, formula fd.Formula, solve func(x float64) (*State, error), dst *Props, all bool) {
		memo = map[float64]*State{x0: st}
		eval := get(solve)
		settings := &fd.Settings{Formula: formula, Step: h}
		dst.Cp = fd.Derivative(prop(eval, cp), x0, settings)
		dst.Cv = fd.Derivative(prop(eval, cv), x0, settings)
		dst.Gamma = fd.Derivative(prop(eval, ga), x0, settings)
		if all {
			dst.H = fd.Derivative(prop(eval, func(s *State) float64 { return s.H }), x0, settings)
			dst.S = fd.Derivative(prop(eval, func(s *State) float64 { return s.S }), x0, settings)
			dst.R = fd.Derivative(prop(eval, func(s *State) float64 { return s.R }), x0, settings)
			dst.Rho = fd.Derivative(prop(eval, func(s *State) float64 { return s.Rho }), x0, settings)
		}
	}

	// temperature and pressure
	derivs(st.T, 1e-4*st.T, fd.Central, func(x float64) (*State, error) {
		return m.TP(x, st.P, st.B, st)
	}, &st.DT, false)
	if err != nil {
		return
	}
	derivs(st.P, 1e-4*st.P, fd.Central, func(x float64) (*State, error) {
		return m.TP(st.T, x, st.B, st)
	}, &st.DP, false)
	if err != nil {
		return
	}

	// composition
	var bsum float64
	for _, v := range st.B {
		bsum += v
	}
	b := make([]float64, len(st.B))
	for k := range st.B {
		k := k
		solve := func(x float64) (*State, error) {
			copy(b, st.B)
			b[k] = x
			return m.TP(st.T, st.P, b, st)
		}
		if st.B[k] > 1e-6*bsum {
			derivs(st.B[k], 1e-4*st.B[k], fd.Central, solve, &st.DB[k], false)
		} else {
			derivs(st.B[k], 1e-6*bsum, fd.Forward, solve, &st.DB[k], true)
		}
		if err != nil {
			return
		}
	}
	st.Full = true
	return
}
