// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package turbo

import (
	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gocycle/flow"
)

// Gearbox transfers torque between two shafts. The output shaft receives trq_base at speed N_out;
// the input shaft supplies the corresponding power divided by the efficiency
//
//	Design:     N_out is given and gear_ratio = N_in/N_out is computed
//	Off-design: gear_ratio is fixed and N_out = N_in/gear_ratio
type Gearbox struct {
	ele.Base
}

// add element to factory
func init() {
	ele.SetAllocator("gearbox", func(dat *ele.Data) (ele.Element, error) {
		o := new(Gearbox)
		o.Init(dat, nil, nil)
		o.Param("N_in", 1000)
		o.Param("trq_base", 0)
		o.Param("eff", 1)
		if dat.Mode == ele.Design {
			o.Param("N_out", 1000)
			o.Result("gear_ratio")
		} else {
			o.Param("gear_ratio", 1)
			o.Result("N_out")
		}
		o.Result("trq_in", "trq_out", "pwr")
		return o, nil
	})
}

// Sizing returns the key of the design gear ratio
func (o *Gearbox) Sizing() []string { return []string{"gear_ratio"} }

// Compute computes the speed ratio and the torques
func (o *Gearbox) Compute(ctx *ele.Context) (err error) {
	Nin, trq, eff := o.P("N_in"), o.P("trq_base"), o.P("eff")
	if !(Nin > 0) || !(eff > 0 && eff <= 1) {
		return o.Err(nil, "invalid gearbox data: N_in = %g, eff = %g", Nin, eff)
	}
	var Nout float64
	if o.Mode() == ele.Design {
		Nout = o.P("N_out")
		if !(Nout > 0) {
			return o.Err(nil, "output speed must be positive. N_out = %g is invalid", Nout)
		}
		o.SetRes("gear_ratio", Nin/Nout)
	} else {
		gr := o.P("gear_ratio")
		if !(gr > 0) {
			return o.Err(nil, "gear ratio must be positive. gear_ratio = %g is invalid", gr)
		}
		Nout = Nin / gr
		o.SetRes("N_out", Nout)
	}
	o.SetRes("trq_out", trq)
	o.SetRes("trq_in", -(trq*Nout/eff)/Nin)
	o.SetRes("pwr", trq*Nout/flow.HpPerRpm)
	return
}
