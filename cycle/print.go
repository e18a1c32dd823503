// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cycle

import (
	"bytes"

	"github.com/cpmech/gosl/io"
)

// StationsTable returns a table with the computed stations
func (o *Model) StationsTable() string {
	var b bytes.Buffer
	io.Ff(&b, "%-22s%12s%12s%12s%12s%12s%10s%12s\n", "station", "W", "Pt", "Tt", "ht", "Ps", "MN", "area")
	for _, name := range o.Stations() {
		st := o.stations[name]
		io.Ff(&b, "%-22s%12.4f%12.4f%12.3f%12.4f", name, st.W, st.Pt, st.Tt, st.Ht)
		if st.Static {
			io.Ff(&b, "%12.4f%10.4f%12.3f\n", st.Ps, st.MN, st.Area)
		} else {
			io.Ff(&b, "%12s%10s%12s\n", "-", "-", "-")
		}
	}
	return b.String()
}

// BalancesTable returns a table with the balances
func (o *Model) BalancesTable() string {
	var b bytes.Buffer
	io.Ff(&b, "%-20s%-22s%16s%-26s%16s\n", "balance", "target", "value", "  lhs", "lhs value")
	for _, bal := range o.bals {
		lhs, err := o.Get(bal.Lhs)
		if err != nil {
			io.Ff(&b, "%-20s%-22s%16.8g  %-24s%16s\n", bal.Name, bal.Target, bal.Val, bal.Lhs, "n/a")
			continue
		}
		io.Ff(&b, "%-20s%-22s%16.8g  %-24s%16.8g\n", bal.Name, bal.Target, bal.Val, bal.Lhs, lhs)
	}
	return b.String()
}

// ElementTable returns a table with the parameters and results of one element
func (o *Model) ElementTable(name string) string {
	e := o.Element(name)
	if e == nil {
		return ""
	}
	var b bytes.Buffer
	io.Ff(&b, "%s element %q (%s)\n", e.Kind(), e.Name(), e.Mode())
	for _, p := range e.GetPrms() {
		io.Ff(&b, "  %-18s = %16.8g\n", p.N, p.V)
	}
	for _, k := range e.Info().Results {
		v, _ := e.Get(k)
		io.Ff(&b, "  %-18s : %16.8g\n", k, v)
	}
	return b.String()
}

// Print prints the balances and the stations
func (o *Model) Print() {
	io.Pf("\nmodel %q (%s)\n", o.Name, o.Mode)
	if len(o.bals) > 0 {
		io.Pf("\n%s", o.BalancesTable())
	}
	io.Pf("\n%s", o.StationsTable())
}
