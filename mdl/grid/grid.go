// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package grid implements interpolation of tabulated data on structured (tensor-product) grids
package grid

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/interp"
)

// Grid holds values of one or more outputs on a structured grid and interpolates them
// (and their gradients) by successive one-dimensional fits along each axis. Only a local
// stencil of points around the query is used along each axis:
//
//	slinear -- 2 points; piecewise linear
//	pchip   -- 4 points; Fritsch-Butland monotone cubic (equal to the global fit)
//	akima   -- 6 points; Akima spline (equal to the global fit)
//	cubic   -- 4 points; natural cubic spline through the stencil
type Grid struct {
	Axes   [][]float64 // [ndim][npts_d] coordinates along each axis; strictly increasing
	Vals   [][]float64 // [nout][Π npts_d] values; the last axis varies fastest
	Method string      // interpolation method
	Extrap bool        // extrapolate beyond the grid; otherwise inputs are clamped to the grid

	// auxiliary
	strides []int // strides of each axis in Vals
	width   int   // width of stencil
}

// New returns a new grid. The data is not copied
func New(axes [][]float64, vals [][]float64, method string, extrap bool) (o *Grid, err error) {
	o = &Grid{Axes: axes, Vals: vals, Method: method, Extrap: extrap}
	switch method {
	case "slinear":
		o.width = 2
	case "pchip", "cubic":
		o.width = 4
	case "akima":
		o.width = 6
	default:
		return nil, chk.Err("grid: interpolation method %q is not available", method)
	}
	if len(axes) < 1 {
		return nil, chk.Err("grid: at least one axis is required")
	}
	npts := 1
	o.strides = make([]int, len(axes))
	for d := len(axes) - 1; d >= 0; d-- {
		ax := axes[d]
		if len(ax) < 2 {
			return nil, chk.Err("grid: axis %d must have at least 2 points; it has %d", d, len(ax))
		}
		for i := 1; i < len(ax); i++ {
			if ax[i] <= ax[i-1] {
				return nil, chk.Err("grid: coordinates along axis %d must be strictly increasing (x[%d]=%g, x[%d]=%g)", d, i-1, ax[i-1], i, ax[i])
			}
		}
		o.strides[d] = npts
		npts *= len(ax)
	}
	if len(vals) < 1 {
		return nil, chk.Err("grid: at least one output is required")
	}
	for k, v := range vals {
		if len(v) != npts {
			return nil, chk.Err("grid: output %d has %d values; %d are required", k, len(v), npts)
		}
	}
	return
}

// Ndim returns the number of axes
func (o *Grid) Ndim() int { return len(o.Axes) }

// Nout returns the number of outputs
func (o *Grid) Nout() int { return len(o.Vals) }

// Index returns the position in Vals of the grid point with indices idx
func (o *Grid) Index(idx ...int) (p int) {
	for d, i := range idx {
		p += i * o.strides[d]
	}
	return
}

// Eval computes the outputs and their gradients at x
//
//	Output:
//	 v    -- [nout] values
//	 grad -- [nout][ndim] gradients
//	 out  -- x is outside the grid (values were extrapolated or clamped)
//	Note: gradient components along clamped axes are zero
func (o *Grid) Eval(x []float64) (v []float64, grad [][]float64, out bool) {
	if len(x) != len(o.Axes) {
		chk.Panic("grid: point must have %d coordinates; %d given", len(o.Axes), len(x))
	}
	st := make([]stencil, len(x))
	for d, ax := range o.Axes {
		st[d] = o.locate(ax, x[d])
		if st[d].out {
			out = true
		}
	}
	v, grad = o.eval(0, 0, st)
	return
}

// stencil holds the local stencil along one axis
type stencil struct {
	start int     // first point
	width int     // number of points
	x     float64 // query coordinate (clamped if not extrapolating)
	out   bool    // query is outside axis
	lo    bool    // query is below the first point
	hi    bool    // query is above the last point
}

// locate finds the stencil around xq
func (o *Grid) locate(ax []float64, xq float64) (s stencil) {
	n := len(ax)
	s.x = xq
	if xq < ax[0] {
		s.out, s.lo = true, true
	} else if xq > ax[n-1] {
		s.out, s.hi = true, true
	}
	if s.out && !o.Extrap {
		if s.lo {
			s.x = ax[0]
		} else {
			s.x = ax[n-1]
		}
	}
	i := bisect(ax, s.x)
	s.width = o.width
	if s.width > n {
		s.width = n
	}
	s.start = i - (s.width/2 - 1)
	if s.start < 0 {
		s.start = 0
	}
	if s.start+s.width > n {
		s.start = n - s.width
	}
	return
}

// bisect returns i such that ax[i] ≤ x < ax[i+1], limited to [0, n-2]
func bisect(ax []float64, x float64) int {
	lo, hi := 0, len(ax)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x < ax[mid] {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}

// eval recursively interpolates along axis d starting at offset in Vals
func (o *Grid) eval(d, offset int, st []stencil) (v []float64, grad [][]float64) {
	nout, ndim := len(o.Vals), len(o.Axes)
	s := st[d]
	xs := o.Axes[d][s.start : s.start+s.width]
	ys := make([]float64, s.width)
	v = make([]float64, nout)
	grad = make([][]float64, nout)

	// last axis: fit the tabulated values
	if d == ndim-1 {
		for k := 0; k < nout; k++ {
			for i := 0; i < s.width; i++ {
				ys[i] = o.Vals[k][offset+(s.start+i)*o.strides[d]]
			}
			val, der := o.fit(xs, ys, s)
			v[k] = val
			grad[k] = []float64{der}
		}
		return
	}

	// other axes: fit the results of the next axis
	sub := make([][]float64, s.width)
	subg := make([][][]float64, s.width)
	for i := 0; i < s.width; i++ {
		sub[i], subg[i] = o.eval(d+1, offset+(s.start+i)*o.strides[d], st)
	}
	nsub := ndim - d - 1
	for k := 0; k < nout; k++ {
		grad[k] = make([]float64, nsub+1)
		for i := 0; i < s.width; i++ {
			ys[i] = sub[i][k]
		}
		v[k], grad[k][0] = o.fit(xs, ys, s)
		for c := 0; c < nsub; c++ {
			for i := 0; i < s.width; i++ {
				ys[i] = subg[i][k][c]
			}
			grad[k][1+c], _ = o.fit(xs, ys, s)
		}
	}
	return
}

// fit interpolates ys(xs) at the stencil coordinate and returns the value and derivative
func (o *Grid) fit(xs, ys []float64, s stencil) (val, der float64) {

	// edge point for extrapolation
	xq := s.x
	if s.lo {
		xq = xs[0]
	} else if s.hi {
		xq = xs[len(xs)-1]
	}

	// fit
	method := o.Method
	if len(xs) < 3 {
		method = "slinear"
	}
	switch method {
	case "slinear":
		var pl interp.PiecewiseLinear
		if err := pl.Fit(xs, ys); err != nil {
			chk.Panic("grid: %v", err)
		}
		val = pl.Predict(xq)
		i := bisect(xs, xq)
		der = (ys[i+1] - ys[i]) / (xs[i+1] - xs[i])
	default:
		var fp interp.DerivativePredictor
		var err error
		switch method {
		case "akima":
			var ak interp.AkimaSpline
			err = ak.Fit(xs, ys)
			fp = &ak
		case "pchip":
			var fb interp.FritschButland
			err = fb.Fit(xs, ys)
			fp = &fb
		case "cubic":
			var nc interp.NaturalCubic
			err = nc.Fit(xs, ys)
			fp = &nc
		}
		if err != nil {
			chk.Panic("grid: %v", err)
		}
		val = fp.Predict(xq)
		der = fp.PredictDerivative(xq)
	}

	// linear extrapolation
	if s.out {
		if o.Extrap {
			val += der * (s.x - xq)
		} else {
			der = 0
		}
	}
	return
}
