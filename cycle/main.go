// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cycle

import (
	"time"

	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gocycle/inp"
	"github.com/cpmech/gocycle/mdl/gas"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Main holds all data for running one cycle file
type Main struct {
	Cycle   *inp.Cycle // cycle data
	Model   *Model     // cycle model
	ShowMsg bool       // show messages
}

// NewMain returns a new Main structure
//
//	Input:
//	 cycfilepath -- cycle (.cyc) filename including full path
//	 verbose     -- show messages
func NewMain(cycfilepath string, verbose bool) (o *Main, err error) {
	o = new(Main)
	o.ShowMsg = verbose
	if o.Cycle, err = inp.ReadCycle(cycfilepath); err != nil {
		return nil, err
	}
	if o.ShowMsg {
		io.Pf("> Cycle (.cyc) file read\n")
	}
	if o.Model, err = NewModelFromInput(o.Cycle); err != nil {
		return nil, err
	}
	o.Model.ShowMsg = verbose
	if o.ShowMsg {
		io.Pf("> Model %q with %d elements and %d balances allocated\n", o.Model.Name, len(o.Model.elems), len(o.Model.bals))
	}
	return
}

// NewModelFromInput allocates a model from cycle data
func NewModelFromInput(cyc *inp.Cycle) (m *Model, err error) {
	mode, err := ele.ParseMode(cyc.Mode)
	if err != nil {
		return
	}
	model, err := gas.New(cyc.Gas, cyc.GasPrms)
	if err != nil {
		return nil, chk.Err("cannot allocate thermodynamic model %q:\n%v", cyc.Gas, err)
	}
	m = NewModel(cyc.Key, mode, model)
	if cyc.Newton != nil {
		m.Opts = cyc.Newton.Opts
		m.Verbose = cyc.Newton.Verbose
	}

	// elements
	for _, e := range cyc.Elements {
		if _, err = m.Add(&ele.Data{Kind: e.Kind, Name: e.Name, Prms: e.Prms, Extra: e.Extra}); err != nil {
			return nil, err
		}
	}

	// wiring
	for _, c := range cyc.Connections {
		m.Connect(c.From, c.To)
	}
	for _, l := range cyc.Links {
		m.Link(l.Source, l.Target)
	}
	if len(cyc.Order) > 0 {
		m.SetOrder(cyc.Order...)
	}

	// balances
	for _, d := range cyc.Balances {
		b := NewBalance(d.Target, 0)
		if d.Val != nil {
			b.Val = *d.Val
		} else if b.Val, err = m.Get(d.Target); err != nil {
			return nil, chk.Err("balance %q:\n%v", d.Name, err)
		}
		if d.Name != "" {
			b.Name = d.Name
		}
		if d.Lower != nil {
			b.Lower = *d.Lower
		}
		if d.Upper != nil {
			b.Upper = *d.Upper
		}
		if d.Mult != nil {
			b.Mult = *d.Mult
		}
		if d.Ref != nil {
			b.Ref = *d.Ref
		}
		b.Lhs, b.Rhs, b.RhsVal, b.Add, b.Normalize = d.Lhs, d.Rhs, d.RhsVal, d.Add, d.Normalize
		m.AddBalance(b)
	}
	err = m.Setup()
	return
}

// Run solves the model
func (o *Main) Run() (err error) {
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()
	if o.ShowMsg {
		io.Pf("> Solving %s point\n", o.Model.Mode)
	}
	if err = o.Model.Solve(); err != nil {
		return
	}
	if o.ShowMsg {
		o.Model.Print()
	}
	return
}

// RunOffDesign transfers the sizing of the solved design run des and solves this off-design model
func (o *Main) RunOffDesign(des *Main) (err error) {
	if err = o.Model.TransferSizing(des.Model); err != nil {
		return
	}
	if o.ShowMsg {
		io.Pf("> Sizing transferred from %q\n", des.Model.Name)
	}
	return o.Run()
}

// onexit prints final message with cpu time
func (o *Main) onexit(cputime time.Time, prevErr error) (err error) {
	if o.ShowMsg {
		if prevErr == nil {
			io.PfGreen("> Success\n")
			io.Pf("> CPU time = %v\n", time.Now().Sub(cputime))
		} else {
			io.PfRed("> Failed\n")
		}
	}
	return prevErr
}
