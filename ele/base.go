// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"math"
	"strings"

	"github.com/cpmech/gocycle/flow"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// Base implements the bookkeeping of names, parameters and results shared by all elements
type Base struct {
	name string             // name of element
	kind string             // kind of element
	mode Mode               // mode
	info Info               // ports and keys
	prms map[string]float64 // parameters
	res  map[string]float64 // results
}

// Init initialises the base
func (o *Base) Init(dat *Data, inputs, outputs []string) {
	o.name, o.kind, o.mode = dat.Name, dat.Kind, dat.Mode
	o.info = Info{Inputs: inputs, Outputs: outputs}
	o.prms = make(map[string]float64)
	o.res = make(map[string]float64)
}

// Probe adds input ports that only read stations
func (o *Base) Probe(ports ...string) {
	o.info.Probes = append(o.info.Probes, ports...)
}

// Param adds a parameter with default value
func (o *Base) Param(key string, def float64) {
	if _, ok := o.prms[key]; ok {
		chk.Panic("element %q: parameter %q is defined twice", o.name, key)
	}
	o.info.Params = append(o.info.Params, key)
	o.prms[key] = def
}

// Result adds results (initially zero)
func (o *Base) Result(keys ...string) {
	for _, key := range keys {
		if _, ok := o.res[key]; ok {
			chk.Panic("element %q: result %q is defined twice", o.name, key)
		}
		o.info.Results = append(o.info.Results, key)
		o.res[key] = 0
	}
}

// Name returns the name of the element
func (o *Base) Name() string { return o.name }

// Kind returns the kind of the element
func (o *Base) Kind() string { return o.kind }

// Mode returns the mode of the element
func (o *Base) Mode() Mode { return o.mode }

// Info returns ports and keys
func (o *Base) Info() *Info { return &o.info }

// Set sets parameter
func (o *Base) Set(key string, val float64) error {
	if _, ok := o.prms[key]; !ok {
		return chk.Err("parameter %q is not available in %s element %q (%s). options are %v", key, o.kind, o.name, o.mode, o.info.Params)
	}
	o.prms[key] = val
	return nil
}

// Get returns result or parameter
func (o *Base) Get(key string) (float64, error) {
	if v, ok := o.res[key]; ok {
		return v, nil
	}
	if v, ok := o.prms[key]; ok {
		return v, nil
	}
	return 0, chk.Err("key %q is not available in %s element %q (%s)", key, o.kind, o.name, o.mode)
}

// GetPrms returns the current parameters
func (o *Base) GetPrms() (prms dbf.Params) {
	for _, key := range o.info.Params {
		prms = append(prms, &dbf.P{N: key, V: o.prms[key]})
	}
	return
}

// P returns parameter; panics if key is not a parameter
func (o *Base) P(key string) float64 {
	v, ok := o.prms[key]
	if !ok {
		chk.Panic("element %q: parameter %q is not defined", o.name, key)
	}
	return v
}

// Val returns result or parameter; panics if key is neither
func (o *Base) Val(key string) float64 {
	v, err := o.Get(key)
	if err != nil {
		chk.Panic("element %q: %v", o.name, err)
	}
	return v
}

// SetRes sets result; panics if key is not a result
func (o *Base) SetRes(key string, val float64) {
	if _, ok := o.res[key]; !ok {
		chk.Panic("element %q: result %q is not defined", o.name, key)
	}
	o.res[key] = val
}

// Res returns result; panics if key is not a result
func (o *Base) Res(key string) float64 {
	v, ok := o.res[key]
	if !ok {
		chk.Panic("element %q: result %q is not defined", o.name, key)
	}
	return v
}

// Port returns the name of the station at port
func (o *Base) Port(port string) string { return o.name + "." + port }

// Err returns an analysis error located at this element
func (o *Base) Err(err error, msg string, prm ...interface{}) error {
	return &flow.AnalysisError{Where: o.name, Msg: io.Sf(msg, prm...), Err: err}
}

// AddExitStatic adds the parameter/result that control the static state of an exit station: the
// Mach number "MN<suffix>" (design) or the area "area<suffix>" (off-design)
func (o *Base) AddExitStatic(suffix string, MN float64) {
	if o.mode == Design {
		o.Param("MN"+suffix, MN)
		o.Result("area" + suffix)
		return
	}
	o.Param("area"+suffix, 0)
}

// ExitStatic computes the static state of an exit station. Nothing is computed if the Mach
// number (design) or the area (off-design) is zero
func (o *Base) ExitStatic(calc *flow.Calc, st *flow.Station, suffix string) error {
	if o.mode == Design {
		MN := o.P("MN" + suffix)
		if MN == 0 {
			o.SetRes("area"+suffix, 0)
			return nil
		}
		if err := calc.SetStaticMN(st, MN); err != nil {
			return err
		}
		o.SetRes("area"+suffix, st.Area)
		return nil
	}
	if A := o.P("area" + suffix); A > 0 {
		return calc.SetStaticArea(st, A, flow.Subsonic)
	}
	return nil
}

// Keycode returns the value of key in extra flags
func Keycode(extra, key string) (string, bool) {
	return io.Keycode(extra, key)
}

// KeyInt returns the integer value of key in extra flags; def if not found
func KeyInt(extra, key string, def int) int {
	if val, found := io.Keycode(extra, key); found {
		return io.Atoi(val)
	}
	return def
}

// KeyList returns the comma-separated list of key in extra flags; nil if not found
func KeyList(extra, key string) (list []string) {
	val, found := io.Keycode(extra, key)
	if !found {
		return
	}
	for _, s := range strings.Split(val, ",") {
		if s = strings.TrimSpace(s); s != "" {
			list = append(list, s)
		}
	}
	return
}

// Power converts a power [Btu/s] to horsepower and torque [ft lbf] at speed N [rpm]
func Power(pwr, N float64) (hp, trq float64) {
	hp = pwr * flow.BtuSToHp
	if N == 0 {
		return hp, 0
	}
	return hp, hp * flow.HpPerRpm / N
}

// Corrected returns the corrected flow and corrected speed (standard day)
func Corrected(W, N, Tt, Pt float64) (Wc, Nc float64) {
	theta := Tt / flow.Tsls
	delta := Pt / flow.Psls
	return W * math.Sqrt(theta) / delta, N / math.Sqrt(theta)
}
