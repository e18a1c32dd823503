// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gas

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// state computes the mixture properties and their analytic derivatives at the converged solution.
// The derivatives of ln(n_j) follow from differentiating the equilibrium conditions
//
//	Σ_i a_ij π_i = μ_j/RT   and   Σ_j a_ij n_j = b_i
//
// which gives the linear system (see [1] page 23)
//
//	| Σ_j a_kj a_ij n_j   b_k | | ∂π_i   |   | rhs_k |
//	| b_i                  0  | | ∂ln(n) | = | rhs_N |
//
// with one right-hand side for T, one for P and one for each active element
func (o *Equilibrium) state(w *workspace, P float64, b0 []float64, iters int) (st *State, err error) {

	// species
	o.speciesProps(w)
	nel, nsp := len(o.elements), len(o.species)
	N := make([]float64, nsp)
	var n float64
	for _, j := range w.sa {
		N[j] = math.Exp(w.lnN[j])
		n += N[j]
	}
	lnP := math.Log(P / Pref)
	Sj := make([]float64, nsp)
	var sumH, sumS, sumCp float64
	for _, j := range w.sa {
		Sj[j] = w.sr[j] - math.Log(N[j]/n) - lnP
		sumH += N[j] * w.hrt[j]
		sumS += N[j] * Sj[j]
		sumCp += N[j] * w.cpr[j]
	}

	// system matrix and right-hand sides: columns = [T, P, b_ea[0], b_ea[1], ...]
	ne := len(w.ea)
	M := mat.NewDense(ne+1, ne+1, nil)
	R := mat.NewDense(ne+1, 2+ne, nil)
	for kk, k := range w.ea {
		var bk, ah float64
		for _, j := range w.sa {
			if o.a[j][k] == 0 {
				continue
			}
			akn := o.a[j][k] * N[j]
			for ii, i := range w.ea {
				M.Set(kk, ii, M.At(kk, ii)+akn*o.a[j][i])
			}
			bk += akn
			ah += akn * w.hrt[j]
		}
		M.Set(kk, ne, bk)
		M.Set(ne, kk, bk)
		R.Set(kk, 0, -ah)
		R.Set(kk, 1, bk)
		R.Set(kk, 2+kk, 1)
	}
	R.Set(ne, 0, -sumH)
	R.Set(ne, 1, n)

	// solve
	var lu mat.LU
	var X mat.Dense
	lu.Factorize(M)
	if e := lu.SolveTo(&X, false, R); e != nil {
		if !usable(e, X.RawMatrix().Data) {
			return nil, &EquilibriumError{"derivatives", w.T, P, iters, "singular derivative matrix"}
		}
	}

	// derivatives of ln(n_j) w.r.t ln(T), ln(P) and b
	dlnNdlnT := make([]float64, nsp)
	dlnNdlnP := make([]float64, nsp)
	dlnNdb := make([][]float64, ne)
	for kk := range w.ea {
		dlnNdb[kk] = make([]float64, nsp)
	}
	for _, j := range w.sa {
		dlnNdlnT[j] = X.At(ne, 0) + w.hrt[j]
		dlnNdlnP[j] = X.At(ne, 1) - 1
		for kk := range w.ea {
			dlnNdb[kk][j] = X.At(ne, 2+kk)
		}
		for ii, i := range w.ea {
			aij := o.a[j][i]
			if aij == 0 {
				continue
			}
			dlnNdlnT[j] += aij * X.At(ii, 0)
			dlnNdlnP[j] += aij * X.At(ii, 1)
			for kk := range w.ea {
				dlnNdb[kk][j] += aij * X.At(ii, 2+kk)
			}
		}
	}
	dlnndlnT, dlnndlnP := X.At(ne, 0), X.At(ne, 1)

	// mixture properties
	T := w.T
	st = &State{T: T, P: P, B: append([]float64(nil), b0...), N: N, Ntot: n, Iters: iters}
	st.H = Ru * T * sumH
	st.S = Ru * sumS
	st.R = Ru * n
	st.Rho = P * 1e5 / (st.R * T)
	var sumHdT, sumHdP, sumSdT, sumSdP float64
	for _, j := range w.sa {
		sumHdT += N[j] * w.hrt[j] * dlnNdlnT[j]
		sumHdP += N[j] * w.hrt[j] * dlnNdlnP[j]
		sumSdT += N[j] * (Sj[j]*dlnNdlnT[j] + w.cpr[j])
		sumSdP += N[j] * (Sj[j]*dlnNdlnP[j] - 1)
	}
	st.Cp = Ru * (sumCp + sumHdT)
	st.DlnVdlnT = 1 + dlnndlnT
	st.DlnVdlnP = -1 + dlnndlnP
	st.Cv = st.Cp + st.R*st.DlnVdlnT*st.DlnVdlnT/st.DlnVdlnP
	st.Gamma = st.Cp / st.Cv
	st.GammaS = -st.Gamma / st.DlnVdlnP

	// derivatives w.r.t T and P
	st.DT = Props{
		H:   st.Cp,
		S:   Ru * sumSdT / T,
		R:   st.R * dlnndlnT / T,
		Rho: -st.Rho * st.DlnVdlnT / T,
	}
	st.DP = Props{
		H:   Ru * T * sumHdP / P,
		S:   Ru * sumSdP / P,
		R:   st.R * dlnndlnP / P,
		Rho: -st.Rho * st.DlnVdlnP / P,
	}
	st.DNdT = make([]float64, nsp)
	st.DNdP = make([]float64, nsp)
	for _, j := range w.sa {
		st.DNdT[j] = N[j] * dlnNdlnT[j] / T
		st.DNdP[j] = N[j] * dlnNdlnP[j] / P
	}

	// derivatives w.r.t b. Absent elements are left with zero derivatives (see FillPartials)
	st.DB = make([]Props, nel)
	for kk, k := range w.ea {
		var sh, ss float64
		for _, j := range w.sa {
			sh += N[j] * w.hrt[j] * dlnNdb[kk][j]
			ss += N[j] * Sj[j] * dlnNdb[kk][j]
		}
		dlnn := X.At(ne, 2+kk)
		st.DB[k] = Props{
			H:   Ru * T * sh,
			S:   Ru * ss,
			R:   st.R * dlnn,
			Rho: -st.Rho * dlnn,
		}
	}
	return
}
