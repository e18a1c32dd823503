// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gas

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// AtomicWeights holds the atomic weight of elements [kg/kmol]
var AtomicWeights = map[string]float64{
	"Ar": 39.948,
	"C":  12.0107,
	"H":  1.00794,
	"N":  14.0067,
	"O":  15.9994,
}

// ProductSet defines the elements and the candidate product species of a mixture
type ProductSet struct {
	Elements []string
	Species  []string
}

// productSets holds all available sets of products
var productSets = map[string]*ProductSet{
	"AIR_FUEL": {
		Elements: []string{"Ar", "C", "H", "N", "O"},
		Species:  []string{"Ar", "CO", "CO2", "H", "H2", "H2O", "HO2", "N", "NO", "NO2", "N2", "O", "OH", "O2"},
	},
	"AIR": {
		Elements: []string{"Ar", "C", "N", "O"},
		Species:  []string{"Ar", "CO", "CO2", "N", "NO", "NO2", "N2", "O", "O2"},
	},
}

// GetProductSet returns a set of products by name
func GetProductSet(name string) (*ProductSet, error) {
	s, ok := productSets[name]
	if !ok {
		return nil, chk.Err("product set %q is not available in 'gas' database", name)
	}
	return s, nil
}

// Reactant defines an inlet stream (air or fuel) by its molar recipe
type Reactant struct {
	Name  string             // name; e.g. "air"
	Moles map[string]float64 // moles of each element per "molecule" of recipe (not normalised)
	Hf    float64            // assigned enthalpy of fuels at 298.15 K [J/kg]; zero for air streams
}

// reactants holds all available reactants. Air is defined by mole fractions of N2, O2, Ar and CO2
var reactants = map[string]*Reactant{
	"air":      {Name: "air", Moles: airElements(0)},
	"Jet-A(g)": {Name: "Jet-A(g)", Moles: map[string]float64{"C": 12, "H": 23}, Hf: -1.49217e6},
	"JP-7":     {Name: "JP-7", Moles: map[string]float64{"C": 10, "H": 19.8}, Hf: -1.2886e6},
	"CH4":      {Name: "CH4", Moles: map[string]float64{"C": 1, "H": 4}, Hf: -4.65008e6},
	"H2":       {Name: "H2", Moles: map[string]float64{"H": 2}, Hf: 0},
}

// airElements returns the elements in 100 moles of dry air plus water moles
func airElements(water float64) map[string]float64 {
	const xN2, xO2, xAr, xCO2 = 78.084, 20.9476, 0.9365, 0.0319
	m := map[string]float64{
		"N":  2 * xN2,
		"O":  2*xO2 + 2*xCO2,
		"Ar": xAr,
		"C":  xCO2,
	}
	if water > 0 {
		m["H"] = 2 * water
		m["O"] += water
	}
	return m
}

// WetAir returns a humid-air reactant with the given water-to-dry-air mass ratio
func WetAir(war float64) *Reactant {
	if war < 0 {
		chk.Panic("water-to-air ratio must be non-negative. war = %g is invalid", war)
	}
	dry := airElements(0)
	mwDry := 0.0
	for e, n := range dry {
		mwDry += n * AtomicWeights[e]
	}
	mwH2O := 2*AtomicWeights["H"] + AtomicWeights["O"]
	return &Reactant{Name: "wet-air", Moles: airElements(war * mwDry / mwH2O)}
}

// GetReactant returns a reactant from database
func GetReactant(name string) (*Reactant, error) {
	r, ok := reactants[name]
	if !ok {
		return nil, chk.Err("reactant %q is not available in 'gas' database", name)
	}
	return r, nil
}

// ReactantNames returns the names of all reactants, sorted
func ReactantNames() (names []string) {
	for n := range reactants {
		names = append(names, n)
	}
	sort.Strings(names)
	return
}

// B0 computes the composition vector [kmol/kg] of this reactant in the element order given by elements.
// An error is returned if the reactant has an element not present in elements
func (o *Reactant) B0(elements []string) (b []float64, err error) {
	var mass float64
	for e, n := range o.Moles {
		aw, ok := AtomicWeights[e]
		if !ok {
			return nil, chk.Err("reactant %q has unknown element %q", o.Name, e)
		}
		mass += n * aw
	}
	b = make([]float64, len(elements))
	found := 0
	for i, e := range elements {
		if n, ok := o.Moles[e]; ok {
			b[i] = n / mass
			found++
		}
	}
	if found != len(o.Moles) {
		return nil, chk.Err("reactant %q has elements not available in %v", o.Name, elements)
	}
	return
}

// B0 computes the composition vector of a reactant given by name
func B0(reactant string, elements []string) ([]float64, error) {
	r, err := GetReactant(reactant)
	if err != nil {
		return nil, err
	}
	return r.B0(elements)
}

// MixtureMass computes Σ b_i・aw_i, the mass of the elements in one kilogram of mixture. Thus, it
// returns one for any consistent composition vector
func MixtureMass(b []float64, elements []string) (mass float64) {
	for i, e := range elements {
		mass += b[i] * AtomicWeights[e]
	}
	return
}
