// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package turbo

import (
	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gocycle/flow"
	"github.com/cpmech/gosl/io"
)

// Shaft sums the torques of the connected elements. Positive torques drive the shaft and are
// reduced by the mechanical loss; negative torques absorb power. The horsepower extraction HPX is
// an additional absorbing load
type Shaft struct {
	ele.Base
	nports int // number of torque ports
}

// add element to factory
func init() {
	ele.SetAllocator("shaft", func(dat *ele.Data) (ele.Element, error) {
		o := new(Shaft)
		o.Init(dat, nil, nil)
		o.nports = ele.KeyInt(dat.Extra, "ports", 2)
		o.Param("Nmech", 1000)
		o.Param("HPX", 0)      // power extraction [hp]
		o.Param("fracLoss", 0) // mechanical loss of driving torques
		for i := 0; i < o.nports; i++ {
			o.Param(io.Sf("trq_%d", i), 0)
		}
		o.Result("trq_in", "trq_out", "trq_net", "pwr_in", "pwr_out", "pwr_net")
		return o, nil
	})
}

// Compute computes the net torque and power
func (o *Shaft) Compute(ctx *ele.Context) (err error) {
	N, HPX, loss := o.P("Nmech"), o.P("HPX"), o.P("fracLoss")
	if loss < 0 || loss >= 1 {
		return o.Err(nil, "mechanical loss must be in [0,1). fracLoss = %g is invalid", loss)
	}
	if N <= 0 && HPX != 0 {
		return o.Err(nil, "cannot extract HPX = %g hp at speed N = %g", HPX, N)
	}
	var tin, tout float64
	for i := 0; i < o.nports; i++ {
		t := o.P(io.Sf("trq_%d", i))
		if t > 0 {
			tin += t * (1 - loss)
		} else {
			tout += t
		}
	}
	if HPX != 0 {
		tout -= HPX * flow.HpPerRpm / N
	}
	pwr := func(trq float64) float64 { return trq * N / flow.HpPerRpm }
	o.SetRes("trq_in", tin)
	o.SetRes("trq_out", tout)
	o.SetRes("trq_net", tin+tout)
	o.SetRes("pwr_in", pwr(tin))
	o.SetRes("pwr_out", pwr(tout))
	o.SetRes("pwr_net", pwr(tin+tout))
	return
}
