// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from (.cyc) cycle files and (.ini) solver files
package inp

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// ElemData holds element data
type ElemData struct {
	Kind  string     `json:"kind"`  // kind of element. ex: compressor, turbine, nozzle
	Name  string     `json:"name"`  // name of element. ex: hpc
	Prms  dbf.Params `json:"prms"`  // parameters; overwrite defaults
	Extra string     `json:"extra"` // extra flags (in keycode format). ex: "!map:hpc !bleeds:cool1"
}

// ConnData holds a flow connection
type ConnData struct {
	From string `json:"from"` // output port. ex: comp.Fl_O
	To   string `json:"to"`   // input port. ex: burner.Fl_I
}

// LinkData holds a scalar link
type LinkData struct {
	Source string `json:"source"` // ex: shaft.Nmech or inlet.Fl_O.Pt
	Target string `json:"target"` // ex: comp.Nmech
}

// BalanceData holds a balance. Nil pointers mean default values
type BalanceData struct {
	Name      string   `json:"name"`      // name of balance; default is target
	Target    string   `json:"target"`    // parameter owned by the balance. ex: burner.FAR
	Val       *float64 `json:"val"`       // seed; default is the current value of target
	Lower     *float64 `json:"lower"`     // lower bound; default is -inf
	Upper     *float64 `json:"upper"`     // upper bound; default is +inf
	Lhs       string   `json:"lhs"`       // left-hand side. ex: burner.Fl_O.Tt
	Rhs       string   `json:"rhs"`       // right-hand side key; empty means rhsval
	RhsVal    float64  `json:"rhsval"`    // constant right-hand side
	Mult      *float64 `json:"mult"`      // multiplier of rhs; default is 1
	Add       float64  `json:"add"`       // offset of rhs
	Ref       *float64 `json:"ref"`       // reference value of residual; default is 1
	Normalize bool     `json:"normalize"` // normalise residual by rhs
}

// Cycle holds all cycle data
type Cycle struct {
	Desc        string         `json:"desc"`        // description of cycle
	Mode        string         `json:"mode"`        // "design" or "offdesign"
	Gas         string         `json:"gas"`         // thermodynamic model; default is from solver file or "cea"
	GasPrms     dbf.Params     `json:"gasprms"`     // parameters of thermodynamic model
	Solver      string         `json:"solver"`      // solver (.ini) file; relative to cycle file
	Elements    []*ElemData    `json:"elements"`    // elements
	Connections []*ConnData    `json:"connections"` // flow connections
	Links       []*LinkData    `json:"links"`       // scalar links
	Balances    []*BalanceData `json:"balances"`    // balances
	Order       []string       `json:"order"`       // execution order; default is the order of elements

	// derived
	Key    string      // cycle key; e.g. turbojet.cyc => turbojet
	DirIn  string      // directory of cycle file
	Newton *SolverData // solver data; default if Solver is empty
}

// ReadCycle reads cycle (.cyc) file and the solver file it refers to
func ReadCycle(cycfilepath string) (o *Cycle, err error) {

	// read file
	b, err := ReadFile(cycfilepath)
	if err != nil {
		return nil, chk.Err("cannot read cycle file %q:\n%v", cycfilepath, err)
	}
	o = new(Cycle)
	if err = json.Unmarshal(b, o); err != nil {
		return nil, chk.Err("cannot unmarshal cycle file %q:\n%v", cycfilepath, err)
	}

	// derived
	o.DirIn = filepath.Dir(cycfilepath)
	o.Key = io.FnKey(filepath.Base(cycfilepath))

	// solver data
	if o.Solver == "" {
		o.Newton = DefaultSolverData()
	} else {
		fn := o.Solver
		if !filepath.IsAbs(fn) {
			fn = filepath.Join(o.DirIn, fn)
		}
		if o.Newton, err = ReadSolver(fn); err != nil {
			return nil, err
		}
	}
	if o.Gas == "" {
		o.Gas = o.Newton.Gas
		if len(o.GasPrms) == 0 {
			o.GasPrms = o.Newton.GasPrms
		}
	}
	return o, o.check()
}

// check checks the data
func (o *Cycle) check() error {
	if len(o.Elements) == 0 {
		return chk.Err("cycle %q has no elements", o.Key)
	}
	names := make(map[string]bool)
	for i, e := range o.Elements {
		if e.Kind == "" || e.Name == "" {
			return chk.Err("element #%d must have kind and name", i)
		}
		if names[e.Name] {
			return chk.Err("element %q is defined twice", e.Name)
		}
		names[e.Name] = true
	}
	for _, c := range o.Connections {
		if !strings.Contains(c.From, ".") || !strings.Contains(c.To, ".") {
			return chk.Err("connection %q -> %q must use element.port", c.From, c.To)
		}
	}
	for _, b := range o.Balances {
		if b.Target == "" || b.Lhs == "" {
			return chk.Err("balance %q must have target and lhs", b.Name)
		}
	}
	return nil
}

// ReadFile reads a file and returns the failure of io.ReadFile as an error
func ReadFile(fn string) (b []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, chk.Err("%v", r)
		}
	}()
	b = io.ReadFile(fn)
	return
}

// Element returns element data by name; nil if not found
func (o *Cycle) Element(name string) *ElemData {
	for _, e := range o.Elements {
		if e.Name == name {
			return e
		}
	}
	return nil
}
