// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// RootOpts holds the control parameters of the scalar root finder
type RootOpts struct {
	MaxIt int     // max number of iterations
	Xtol  float64 // tolerance on relative correction of x
	Ftol  float64 // tolerance on |f(x)|
}

// DefaultRootOpts returns the default control parameters of Root
func DefaultRootOpts() *RootOpts {
	return &RootOpts{MaxIt: 60, Xtol: 1e-12, Ftol: 0}
}

// Root finds x in [lo, hi] such that f(x) = 0 by Newton's method safeguarded by bisection.
// f returns the value and the derivative at x; a NaN derivative requests a secant step. Once a
// change of sign is observed, the root is kept inside the bracket. Errors returned by f stop the
// iterations.
func Root(f func(x float64) (fx, dfdx float64, err error), x0, lo, hi float64, opts *RootOpts) (x float64, it int, err error) {

	// input
	if opts == nil {
		opts = DefaultRootOpts()
	}
	if !(lo < hi) {
		return x0, 0, chk.Err("root: invalid interval [%g, %g]", lo, hi)
	}
	x = math.Min(math.Max(x0, lo), hi)

	// bracket: points with known signs
	var xneg, xpos float64
	var hasNeg, hasPos bool
	var xprev, fprev float64
	hasPrev := false

	for it = 0; it < opts.MaxIt; it++ {

		// evaluate
		fx, dfdx, e := f(x)
		if e != nil {
			return x, it, e
		}
		if math.IsNaN(fx) {
			return x, it, chk.Err("root: function returned NaN at x = %g", x)
		}
		if fx == 0 || math.Abs(fx) < opts.Ftol {
			return x, it + 1, nil
		}
		if fx < 0 {
			xneg, hasNeg = x, true
		} else {
			xpos, hasPos = x, true
		}
		a, b := lo, hi
		if hasNeg && hasPos {
			a, b = math.Min(xneg, xpos), math.Max(xneg, xpos)
		}

		// derivative
		if math.IsNaN(dfdx) {
			if hasPrev && x != xprev {
				dfdx = (fx - fprev) / (x - xprev)
			} else {
				dfdx = 0
			}
		}
		xprev, fprev, hasPrev = x, fx, true

		// Newton step; bisection if outside bracket
		xnew := x - fx/dfdx
		walk := false
		if dfdx == 0 || math.IsNaN(xnew) || math.IsInf(xnew, 0) || xnew <= a || xnew >= b {
			if hasNeg && hasPos {
				xnew = (a + b) / 2
			} else {
				// move halfway towards the bound in the descent direction
				walk = true
				down := (fx > 0) == (dfdx > 0)
				if dfdx == 0 {
					down = x > (lo+hi)/2
				}
				if down {
					xnew = (x + a) / 2
				} else {
					xnew = (x + b) / 2
				}
			}
		}

		// convergence
		Δx := xnew - x
		x = xnew
		if math.Abs(Δx) <= opts.Xtol*math.Max(math.Abs(x), 1e-300) {
			if walk {
				return x, it + 1, chk.Err("root: no change of sign found in [%g, %g]; stalled at x = %g with f = %g", lo, hi, x, fx)
			}
			return x, it + 1, nil
		}
	}
	return x, it, chk.Err("root: did not converge after %d iterations (x = %g)", it, x)
}
