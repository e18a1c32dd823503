// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import "github.com/cpmech/gosl/utl"

// Info holds the ports and keys of an element
type Info struct {
	Inputs  []string // flow input ports. ex: "Fl_I"
	Outputs []string // flow output ports. ex: "Fl_O", "cool1"
	Probes  []string // input ports that read a station without consuming its flow. ex: "Fl_cool"
	Params  []string // scalar parameters (inputs). ex: "PR", "eff", "Nmech"
	Results []string // scalar results (outputs). ex: "pwr", "trq"
}

// HasInput tells whether port is an input port
func (o *Info) HasInput(port string) bool { return utl.StrIndexSmall(o.Inputs, port) >= 0 }

// HasOutput tells whether port is an output port
func (o *Info) HasOutput(port string) bool { return utl.StrIndexSmall(o.Outputs, port) >= 0 }

// HasProbe tells whether port is a probe port
func (o *Info) HasProbe(port string) bool { return utl.StrIndexSmall(o.Probes, port) >= 0 }

// HasParam tells whether key is a parameter
func (o *Info) HasParam(key string) bool { return utl.StrIndexSmall(o.Params, key) >= 0 }

// HasResult tells whether key is a result
func (o *Info) HasResult(key string) bool { return utl.StrIndexSmall(o.Results, key) >= 0 }
