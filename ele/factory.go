// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Data holds the data to allocate an element
type Data struct {
	Kind  string     // kind of element. ex: "compressor"
	Name  string     // name of element. ex: "hpc"
	Mode  Mode       // design or off-design
	Prms  dbf.Params // parameters; overwrite defaults
	Extra string     // extra flags (in keycode format). ex: "!map:hpc !bleeds:cool1,cool2"
}

// AllocatorType defines a function that allocates an element. Parameters in Data.Prms are set
// by New after allocation
type AllocatorType func(dat *Data) (Element, error)

// New returns a new element from factory
func New(dat *Data) (ele Element, err error) {
	if dat.Name == "" {
		return nil, chk.Err("element of kind %q must have a name", dat.Kind)
	}
	fcn, ok := allocators[dat.Kind]
	if !ok {
		return nil, chk.Err("cannot get allocator for element {kind=%q, name=%q}", dat.Kind, dat.Name)
	}
	ele, err = fcn(dat)
	if err != nil {
		return nil, chk.Err("cannot allocate element %q:\n%v", dat.Name, err)
	}
	for _, p := range dat.Prms {
		if err = ele.Set(p.N, p.V); err != nil {
			return nil, chk.Err("element %q (%s):\n%v", dat.Name, dat.Kind, err)
		}
	}
	return
}

// SetAllocator sets a new callback function to allocate an element
func SetAllocator(kind string, fcn AllocatorType) {
	if _, ok := allocators[kind]; ok {
		chk.Panic("cannot set allocator function for %q because element kind exists already", kind)
	}
	allocators[kind] = fcn
}

// Kinds returns the kinds of elements in factory, sorted
func Kinds() (kinds []string) {
	for k := range allocators {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return
}

// allocators holds all element allocators
var allocators = make(map[string]AllocatorType)
