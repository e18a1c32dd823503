// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"math"

	"github.com/cpmech/gocycle/mdl/gas"
)

// staticGuess holds the last converged static solution of one station
type staticGuess struct {
	param float64 // Mach number or area
	Pt    float64 // total pressure
	ratio float64 // Ps/Pt
}

// Cache holds the warm starts of thermodynamic solves and the discrete branches of one model.
// A nil Cache is valid and means "no warm starts". A Cache must not be shared between models
// that run concurrently
type Cache struct {
	Frozen bool // branches and warm starts are frozen while the Jacobian is computed

	states   map[string]*gas.State  // last equilibrium state by key
	statics  map[string]staticGuess // last static solution by station
	branches map[string]int         // active branch by key
}

// NewCache returns a new cache
func NewCache() *Cache {
	return &Cache{
		states:   make(map[string]*gas.State),
		statics:  make(map[string]staticGuess),
		branches: make(map[string]int),
	}
}

// Reset clears all warm starts and branches
func (o *Cache) Reset() {
	if o == nil {
		return
	}
	o.states = make(map[string]*gas.State)
	o.statics = make(map[string]staticGuess)
	o.branches = make(map[string]int)
	o.Frozen = false
}

// Guess returns the last state stored with key; nil if not available
func (o *Cache) Guess(key string) *gas.State {
	if o == nil {
		return nil
	}
	return o.states[key]
}

// Store stores a converged state with key. Nothing is stored while the cache is frozen, so every
// perturbed evaluation starts from the guesses of the base point
func (o *Cache) Store(key string, st *gas.State) {
	if o == nil || st == nil || o.Frozen {
		return
	}
	o.states[key] = st
}

// Branch returns the active branch of key. If the cache is frozen and the branch is known, the
// stored value is returned; otherwise val is stored and returned
func (o *Cache) Branch(key string, val int) int {
	if o == nil {
		return val
	}
	if old, ok := o.branches[key]; ok && o.Frozen {
		return old
	}
	o.branches[key] = val
	return val
}

// Branches returns a copy of the active branches
func (o *Cache) Branches() map[string]int {
	res := make(map[string]int)
	if o == nil {
		return res
	}
	for k, v := range o.branches {
		res[k] = v
	}
	return res
}

// staticRatio returns the stored Ps/Pt of station if the guess parameters moved less than 10%
func (o *Cache) staticRatio(station string, param, Pt float64) (ratio float64, ok bool) {
	if o == nil {
		return
	}
	g, found := o.statics[station]
	if !found {
		return
	}
	near := func(a, b float64) bool { return math.Abs(a-b) <= 0.1*math.Abs(b) }
	if near(param, g.param) && near(Pt, g.Pt) {
		return g.ratio, true
	}
	return
}

// storeStatic stores the converged Ps/Pt of station unless the cache is frozen
func (o *Cache) storeStatic(station string, param, Pt, ratio float64) {
	if o == nil || o.Frozen {
		return
	}
	o.statics[station] = staticGuess{param, Pt, ratio}
}
