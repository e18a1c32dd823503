// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package maps implements performance maps of turbomachinery
//
//	Compressor maps: (alpha, NcMap, RlineMap) -> (WcMap, PRmap, effMap)
//	Turbine maps:    (alpha, NpMap, PRmap)    -> (WpMap, effMap)
//
// The maps are generated from smooth parametric families and are normalised so that the
// design point has unit corrected speed. They are read-only and can be shared by models.
package maps

import (
	"math"
	"sort"

	"github.com/cpmech/gocycle/mdl/grid"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// Kind of map
type Kind int

// kinds of maps
const (
	Compressor Kind = iota
	Turbine
)

// Point holds the result of a map lookup
type Point struct {
	Flow float64 // corrected flow WcMap (compressor) or flow parameter WpMap (turbine)
	PR   float64 // pressure ratio
	Eff  float64 // adiabatic efficiency
	Out  bool    // point is outside the map and was extrapolated
}

// Map holds one performance map
type Map struct {
	Name       string    // name of map
	Kind       Kind      // compressor or turbine
	Alphas     []float64 // variable-geometry settings; a single value means no alpha axis
	Speeds     []float64 // corrected speeds
	Lines      []float64 // R-lines (compressor) or pressure ratios (turbine)
	SpeedDes   float64   // design corrected speed
	LineDes    float64   // design R-line (compressor) or pressure ratio (turbine)
	RlineStall float64   // R-line of surge (compressor)
	table      *grid.Grid
}

// Eval returns the map values at (alpha, speed, line); line is the R-line for compressors and
// the pressure ratio for turbines
func (o *Map) Eval(alpha, speed, line float64) (p Point) {
	x := []float64{speed, line}
	if len(o.Alphas) > 1 {
		x = []float64{alpha, speed, line}
	}
	v, _, out := o.table.Eval(x)
	p.Out = out
	switch o.Kind {
	case Compressor:
		p.Flow, p.PR, p.Eff = v[0], v[1], v[2]
	case Turbine:
		p.Flow, p.PR, p.Eff = v[0], line, v[1]
	}
	return
}

// Design returns the map values at the design point
func (o *Map) Design(alpha float64) Point {
	return o.Eval(alpha, o.SpeedDes, o.LineDes)
}

// Get returns a map from database
func Get(name string) (*Map, error) {
	m, ok := database[name]
	if !ok {
		return nil, chk.Err("map %q is not available in 'maps' database", name)
	}
	return m, nil
}

// Names returns the names of available maps, sorted
func Names() (names []string) {
	for n := range database {
		names = append(names, n)
	}
	sort.Strings(names)
	return
}

// database holds all maps
var database = map[string]*Map{}

// compressor family parameters
type compFamily struct {
	prDes   float64   // pressure ratio at design speed and mid R-line
	effPeak float64   // peak efficiency
	flowExp float64   // exponent of flow with speed
	prExp   float64   // exponent of (PR-1) with speed
	alphas  []float64 // variable-geometry settings
	method  string    // interpolation method
}

// turbine family parameters
type turbFamily struct {
	prDes   float64 // design pressure ratio
	effPeak float64 // peak efficiency
	choke   float64 // rate of approach to choked flow
	method  string  // interpolation method
}

func init() {
	comps := map[string]compFamily{
		"fan": {1.7, 0.89, 1.2, 2.0, []float64{0, 1}, "cubic"},
		"lpc": {2.5, 0.88, 1.3, 2.1, []float64{0}, "pchip"},
		"hpc": {10, 0.86, 1.5, 2.4, []float64{0}, "akima"},
	}
	for name, f := range comps {
		database[name] = newCompressorMap(name, f)
	}
	turbs := map[string]turbFamily{
		"hpt": {4.0, 0.91, 1.1, "akima"},
		"lpt": {5.0, 0.92, 0.8, "slinear"},
	}
	for name, f := range turbs {
		database[name] = newTurbineMap(name, f)
	}
}

// newCompressorMap generates a compressor map. Along each speed line, the R-line goes from
// surge (R=1) to choke (R=3); flow increases and pressure ratio decreases with R
func newCompressorMap(name string, f compFamily) *Map {
	o := &Map{Name: name, Kind: Compressor, Alphas: f.alphas, SpeedDes: 1, LineDes: 2, RlineStall: 1}
	o.Speeds = utl.LinSpace(0.5, 1.2, 15)
	o.Lines = utl.LinSpace(1, 3, 11)
	var wc, pr, eff []float64
	for _, a := range o.Alphas {
		for _, n := range o.Speeds {
			for _, rl := range o.Lines {
				r := (rl - 1) / 2
				wc = append(wc, (1+0.06*a)*math.Pow(n, f.flowExp)*(0.86+0.14*math.Sqrt(r+0.05)))
				pr = append(pr, 1+(f.prDes-1)*(1-0.03*a)*math.Pow(n, f.prExp)*(1.1-0.4*r*r))
				eff = append(eff, f.effPeak*(1-0.02*a)*(1-0.6*(n-0.97)*(n-0.97)-0.3*(r-0.45)*(r-0.45)))
			}
		}
	}
	axes := [][]float64{o.Speeds, o.Lines}
	if len(o.Alphas) > 1 {
		axes = [][]float64{o.Alphas, o.Speeds, o.Lines}
	}
	var err error
	o.table, err = grid.New(axes, [][]float64{wc, pr, eff}, f.method, true)
	if err != nil {
		chk.Panic("cannot generate map %q:\n%v", name, err)
	}
	return o
}

// newTurbineMap generates a turbine map. The flow parameter approaches the choked value as the
// pressure ratio increases
func newTurbineMap(name string, f turbFamily) *Map {
	o := &Map{Name: name, Kind: Turbine, Alphas: []float64{0}, SpeedDes: 1, LineDes: f.prDes}
	o.Speeds = utl.LinSpace(0.5, 1.3, 17)
	o.Lines = utl.LinSpace(1.1, 10, 21)
	var wp, eff []float64
	for _, n := range o.Speeds {
		for _, pr := range o.Lines {
			lr := math.Log(pr / f.prDes)
			wp = append(wp, (1-math.Exp(-f.choke*(pr-1)))*(1+0.05*(1-n)))
			eff = append(eff, f.effPeak*(1-0.35*(n-1)*(n-1)-0.04*lr*lr))
		}
	}
	var err error
	o.table, err = grid.New([][]float64{o.Speeds, o.Lines}, [][]float64{wp, eff}, f.method, true)
	if err != nil {
		chk.Panic("cannot generate map %q:\n%v", name, err)
	}
	return o
}
