// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements the output of cycle results
package out

import (
	"encoding/json"
	"path/filepath"

	"github.com/cpmech/gocycle/cycle"
	"github.com/cpmech/gocycle/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// StationData holds the results at one station
type StationData struct {
	Name   string    `json:"name"`
	W      float64   `json:"W"`
	Pt     float64   `json:"Pt"`
	Tt     float64   `json:"Tt"`
	Ht     float64   `json:"ht"`
	S      float64   `json:"S"`
	Static bool      `json:"static"`
	Ps     float64   `json:"Ps,omitempty"`
	Ts     float64   `json:"Ts,omitempty"`
	MN     float64   `json:"MN,omitempty"`
	V      float64   `json:"V,omitempty"`
	Area   float64   `json:"area,omitempty"`
	B      []float64 `json:"b"`
}

// BalanceData holds the solution of one balance
type BalanceData struct {
	Name   string  `json:"name"`
	Target string  `json:"target"`
	Val    float64 `json:"val"`
	Lhs    string  `json:"lhs"`
	LhsVal float64 `json:"lhsval"`
}

// Summary holds the results of one run
type Summary struct {
	Key       string                        `json:"key"`
	Mode      string                        `json:"mode"`
	Converged bool                          `json:"converged"`
	Iters     int                           `json:"iters"`
	Evals     int                           `json:"evals"`
	Norm      float64                       `json:"norm"`
	Balances  []*BalanceData                `json:"balances"`
	Stations  []*StationData                `json:"stations"`
	Elements  map[string]map[string]float64 `json:"elements"` // element => key => parameter or result
}

// NewSummary collects the results of a model
func NewSummary(m *cycle.Model) (o *Summary, err error) {
	o = &Summary{Key: m.Name, Mode: m.Mode.String(), Converged: true, Elements: make(map[string]map[string]float64)}
	if m.Last != nil {
		o.Converged, o.Iters, o.Evals, o.Norm = m.Last.Converged, m.Last.Iters, m.Last.Evals, m.Last.Norm
	}
	for _, b := range m.Balances() {
		lhs, e := m.Get(b.Lhs)
		if e != nil {
			return nil, e
		}
		o.Balances = append(o.Balances, &BalanceData{b.Name, b.Target, b.Val, b.Lhs, lhs})
	}
	for _, name := range m.Stations() {
		st := m.Station(name)
		o.Stations = append(o.Stations, &StationData{
			Name: name, W: st.W, Pt: st.Pt, Tt: st.Tt, Ht: st.Ht, S: st.S,
			Static: st.Static, Ps: st.Ps, Ts: st.Ts, MN: st.MN, V: st.V, Area: st.Area, B: st.B,
		})
	}
	for _, e := range m.Elements() {
		vals := make(map[string]float64)
		for _, p := range e.GetPrms() {
			vals[p.N] = p.V
		}
		for _, k := range e.Info().Results {
			if vals[k], err = e.Get(k); err != nil {
				return
			}
		}
		o.Elements[e.Name()] = vals
	}
	return
}

// Get returns an element value from the summary
func (o *Summary) Get(elem, key string) (float64, error) {
	vals, ok := o.Elements[elem]
	if !ok {
		return 0, chk.Err("element %q is not in summary %q", elem, o.Key)
	}
	v, ok := vals[key]
	if !ok {
		return 0, chk.Err("key %q of element %q is not in summary %q", key, elem, o.Key)
	}
	return v, nil
}

// Save saves summary to <dirout>/<key>.json
func (o *Summary) Save(dirout string) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return chk.Err("cannot encode summary %q:\n%v", o.Key, err)
	}
	io.WriteStringToFileD(dirout, o.Key+".json", string(b))
	return
}

// ReadSummary reads summary from <dirout>/<key>.json
func ReadSummary(dirout, key string) (o *Summary, err error) {
	b, err := inp.ReadFile(filepath.Join(dirout, key+".json"))
	if err != nil {
		return nil, chk.Err("cannot read summary %q:\n%v", key, err)
	}
	o = new(Summary)
	if err = json.Unmarshal(b, o); err != nil {
		return nil, chk.Err("cannot decode summary %q:\n%v", key, err)
	}
	return
}
