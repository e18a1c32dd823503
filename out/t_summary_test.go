// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"testing"

	"github.com/cpmech/gocycle/cycle"
	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gocycle/mdl/gas"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	chk.Verbose = true
}

func Test_summary01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("summary01. save and read results")

	model, err := gas.New("cea", nil)
	if err != nil {
		tst.Errorf("gas.New failed:\n%v", err)
		return
	}
	m := cycle.NewModel("heater", ele.Design, model)
	m.Metrics = nil
	for _, d := range []*ele.Data{
		{Kind: "flowstart", Name: "start", Prms: dbf.Params{&dbf.P{N: "Tt", V: 600}, &dbf.P{N: "Pt", V: 20}, &dbf.P{N: "W", V: 5}}},
		{Kind: "duct", Name: "duct", Prms: dbf.Params{&dbf.P{N: "MN", V: 0.4}, &dbf.P{N: "Q_dot", V: 100}}},
	} {
		if _, err = m.Add(d); err != nil {
			tst.Errorf("Add failed:\n%v", err)
			return
		}
	}
	m.Connect("start.Fl_O", "duct.Fl_I")
	b := cycle.NewBalance("duct.Q_dot", 100)
	b.Lhs, b.RhsVal, b.Ref = "duct.Fl_O.Tt", 700, 100
	m.AddBalance(b)
	if err = m.Solve(); err != nil {
		tst.Errorf("Solve failed:\n%v", err)
		return
	}

	// save and read
	sum, err := NewSummary(m)
	if err != nil {
		tst.Errorf("NewSummary failed:\n%v", err)
		return
	}
	dir := tst.TempDir()
	if err = sum.Save(dir); err != nil {
		tst.Errorf("Save failed:\n%v", err)
		return
	}
	res, err := ReadSummary(dir, "heater")
	if err != nil {
		tst.Errorf("ReadSummary failed:\n%v", err)
		return
	}
	io.Pforan("%d stations, %d balances\n", len(res.Stations), len(res.Balances))
	chk.String(tst, res.Mode, "design")
	chk.Int(tst, "stations", len(res.Stations), 2)
	chk.Int(tst, "balances", len(res.Balances), 1)
	chk.Float64(tst, "Tt", 1e-6, res.Stations[1].Tt, 700)
	chk.Float64(tst, "lhs", 1e-6, res.Balances[0].LhsVal, 700)
	chk.Float64(tst, "Q_dot", 1e-12, res.Balances[0].Val, b.Val)
	chk.Array(tst, "b", 1e-15, res.Stations[1].B, m.Station("duct.Fl_O").B)
	area, err := res.Get("duct", "area")
	if err != nil {
		tst.Errorf("Get failed:\n%v", err)
		return
	}
	chk.Float64(tst, "area", 1e-12, area, m.Station("duct.Fl_O").Area)
	if _, err = res.Get("duct", "foo"); err == nil {
		tst.Errorf("Get should have failed\n")
	}
}
