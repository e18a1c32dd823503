// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ele implements the contract of cycle elements (compressors, turbines, burners, ...)
//
// Elements receive flow stations at input ports, compute flow stations at output ports and
// expose named scalar parameters (inputs) and results (outputs). Implementations are in the
// sub-packages and are registered in the factory by their init functions.
package ele

import (
	"github.com/cpmech/gocycle/flow"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Mode selects the design or off-design variant of an element
type Mode int

// modes
const (
	Design    Mode = iota // sizing: maps are scaled and areas are computed
	OffDesign             // rating: scalars and areas are fixed
)

// String returns the name of the mode
func (m Mode) String() string {
	if m == OffDesign {
		return "offdesign"
	}
	return "design"
}

// ParseMode returns the mode with the given name
func ParseMode(name string) (Mode, error) {
	switch name {
	case "", "design":
		return Design, nil
	case "offdesign", "off-design":
		return OffDesign, nil
	}
	return Design, chk.Err("mode %q is invalid. options are \"design\" and \"offdesign\"", name)
}

// Element defines what all elements must implement
type Element interface {

	// information
	Name() string // returns the name of the element
	Kind() string // returns the kind of element; e.g. "compressor"
	Mode() Mode   // returns the mode
	Info() *Info  // returns ports and keys

	// parameters and results
	Set(key string, val float64) error // sets parameter
	Get(key string) (float64, error)   // gets result or parameter
	GetPrms() dbf.Params               // gets current parameters

	// computation
	Compute(ctx *Context) error // computes output stations and results from inputs and parameters
}

// Sizer defines elements whose design results size the off-design variant; e.g. map scalars and areas.
// A key k is copied to the off-design parameter k or, if k is an off-design result, to k_des
type Sizer interface {
	Sizing() []string // keys of design results that are parameters of the off-design element
}

// Checker is implemented by elements that validate their data against the gas model before running
type Checker interface {
	Check(calc *flow.Calc) error
}

// Source is implemented by elements that bring a new composition into the flow path; e.g. flow
// starts and fuel injection
type Source interface {
	Composition(calc *flow.Calc) ([]float64, error)
}

// Context holds the data available to Compute
type Context struct {
	Calc *flow.Calc              // thermodynamic calculator
	In   map[string]*flow.Station // input stations by port
	Out  map[string]*flow.Station // output stations by port; filled by Compute
}

// NewContext returns a new context
func NewContext(calc *flow.Calc) *Context {
	return &Context{Calc: calc, In: make(map[string]*flow.Station), Out: make(map[string]*flow.Station)}
}

// Input returns the station at input port
func (o *Context) Input(port string) (*flow.Station, error) {
	st, ok := o.In[port]
	if !ok || st == nil {
		return nil, chk.Err("input port %q is not connected or was not computed", port)
	}
	return st, nil
}
