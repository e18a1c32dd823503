// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gocycle/newton"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"gopkg.in/ini.v1"
)

// SolverData holds the control parameters of the balance solver and the thermodynamic model
//
//	[newton]
//	maxit = 50
//	atol = 1e-8
//	...
//	[thermo]
//	model = cea
//	maxit = 80
type SolverData struct {
	Opts    newton.Options // Newton solver
	Verbose bool           // show Newton iterations
	Gas     string         // thermodynamic model
	GasPrms dbf.Params     // parameters of thermodynamic model
}

// DefaultSolverData returns the default solver data
func DefaultSolverData() *SolverData {
	return &SolverData{Opts: *newton.DefaultOptions(), Gas: "cea"}
}

// ReadSolver reads solver (.ini) file. Missing keys keep default values
func ReadSolver(inifilepath string) (o *SolverData, err error) {
	f, err := ini.Load(inifilepath)
	if err != nil {
		return nil, chk.Err("cannot read solver file %q:\n%v", inifilepath, err)
	}
	o = DefaultSolverData()

	// newton
	sec := f.Section("newton")
	opt := &o.Opts
	opt.MaxIt = sec.Key("maxit").MustInt(opt.MaxIt)
	opt.Atol = sec.Key("atol").MustFloat64(opt.Atol)
	opt.Rtol = sec.Key("rtol").MustFloat64(opt.Rtol)
	opt.ConvIts = sec.Key("convits").MustInt(opt.ConvIts)
	opt.StallIts = sec.Key("stallits").MustInt(opt.StallIts)
	opt.StallTol = sec.Key("stalltol").MustFloat64(opt.StallTol)
	opt.LsMaxIt = sec.Key("lsmaxit").MustInt(opt.LsMaxIt)
	opt.LsRho = sec.Key("lsrho").MustFloat64(opt.LsRho)
	opt.LsC = sec.Key("lsc").MustFloat64(opt.LsC)
	opt.FdStep = sec.Key("fdstep").MustFloat64(opt.FdStep)
	opt.FdMin = sec.Key("fdmin").MustFloat64(opt.FdMin)
	opt.FdCentral = sec.Key("fdcentral").MustBool(opt.FdCentral)
	opt.ErrOnNonConverge = sec.Key("erronnonconverge").MustBool(opt.ErrOnNonConverge)
	o.Verbose = sec.Key("verbose").MustBool(false)
	if opt.MaxIt < 1 || opt.LsRho <= 0 || opt.LsRho >= 1 || opt.FdStep <= 0 {
		return nil, chk.Err("solver file %q: invalid [newton] data: maxit=%d lsrho=%g fdstep=%g", inifilepath, opt.MaxIt, opt.LsRho, opt.FdStep)
	}

	// thermo
	sec = f.Section("thermo")
	o.Gas = sec.Key("model").MustString(o.Gas)
	for _, k := range sec.Keys() {
		if k.Name() == "model" {
			continue
		}
		v, e := k.Float64()
		if e != nil {
			return nil, chk.Err("solver file %q: [thermo] %s must be a number:\n%v", inifilepath, k.Name(), e)
		}
		o.GasPrms = append(o.GasPrms, &dbf.P{N: k.Name(), V: v})
	}
	return
}
