// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package cycle assembles elements into a thermodynamic cycle model
//
// Elements are connected by flow connections ("comp.Fl_O" -> "burner.Fl_I") and scalar links
// ("shaft.Nmech" -> "comp.Nmech"). Implicit unknowns are balances owned by element parameters.
// The model is executed in an explicit order that is validated against the connections and
// links when the model is set up.
package cycle

import (
	"strings"
	"time"

	"github.com/cpmech/gocycle/ele"
	"github.com/cpmech/gocycle/flow"
	"github.com/cpmech/gocycle/mdl/gas"
	"github.com/cpmech/gocycle/newton"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	log "github.com/sirupsen/logrus"

	// elements
	_ "github.com/cpmech/gocycle/ele/flowpath"
	_ "github.com/cpmech/gocycle/ele/turbo"
)

// Connection connects an output port to an input (or probe) port. ex: "comp.Fl_O" -> "burner.Fl_I"
type Connection struct {
	From string // element.port of output
	To   string // element.port of input
}

// Link copies a scalar to an element parameter before the element runs
type Link struct {
	Source string // element.key or element.port.property. ex: "shaft.Nmech", "inlet.Fl_O.Pt"
	Target string // element.parameter. ex: "comp.Nmech"
}

// node holds an element and its resolved wiring
type node struct {
	e      ele.Element
	pos    int               // position in execution order
	inputs map[string]string // input port => station name (element.port)
	links  []*resolvedLink   // links targeting this element
}

// resolvedLink holds a link with resolved keys
type resolvedLink struct {
	src *key
	tgt string
}

// Model holds a cycle model: elements, wiring, balances and state
type Model struct {
	Name    string         // name of model
	Mode    ele.Mode       // design or off-design
	Calc    *flow.Calc     // thermodynamic calculator; owns the cache of this model
	Opts    newton.Options // control parameters of the balance solver
	ShowMsg bool           // show messages
	Verbose bool           // show Newton iterations
	Metrics *Metrics       // metrics; nil means no metrics
	Last    *newton.Result // result of the last solve

	// elements and wiring
	elems []ele.Element
	nodes map[string]*node
	conns []Connection
	links []Link
	bals  []*Balance
	order []string
	seq   []*node
	isSet bool

	// state
	stations map[string]*flow.Station // published stations by element.port
}

// NewModel returns a new model using the given gas model
func NewModel(name string, mode ele.Mode, model gas.Model) *Model {
	return &Model{
		Name:     name,
		Mode:     mode,
		Calc:     flow.NewCalc(model, flow.NewCache()),
		Opts:     *newton.DefaultOptions(),
		Metrics:  DefaultMetrics,
		nodes:    make(map[string]*node),
		stations: make(map[string]*flow.Station),
	}
}

// Add allocates an element in the mode of the model and adds it to the model
func (o *Model) Add(dat *ele.Data) (ele.Element, error) {
	d := *dat
	d.Mode = o.Mode
	e, err := ele.New(&d)
	if err != nil {
		return nil, err
	}
	return e, o.AddElement(e)
}

// AddElement adds an allocated element to the model
func (o *Model) AddElement(e ele.Element) error {
	name := e.Name()
	if strings.Contains(name, ".") {
		return chk.Err("element name %q must not contain dots", name)
	}
	if _, ok := o.nodes[name]; ok {
		return chk.Err("element %q is defined twice", name)
	}
	if e.Mode() != o.Mode {
		return chk.Err("element %q is in %s mode but model %q is in %s mode", name, e.Mode(), o.Name, o.Mode)
	}
	o.elems = append(o.elems, e)
	o.nodes[name] = &node{e: e, inputs: make(map[string]string)}
	o.isSet = false
	return nil
}

// Element returns an element by name; nil if not found
func (o *Model) Element(name string) ele.Element {
	if n, ok := o.nodes[name]; ok {
		return n.e
	}
	return nil
}

// Elements returns all elements in the order they were added
func (o *Model) Elements() []ele.Element { return o.elems }

// Connect connects an output port to an input port
func (o *Model) Connect(from, to string) {
	o.conns = append(o.conns, Connection{from, to})
	o.isSet = false
}

// Link links a scalar to an element parameter
func (o *Model) Link(source, target string) {
	o.links = append(o.links, Link{source, target})
	o.isSet = false
}

// AddBalance adds a balance
func (o *Model) AddBalance(b *Balance) {
	if b.Name == "" {
		b.Name = b.Target
	}
	o.bals = append(o.bals, b)
	o.isSet = false
}

// Balances returns the balances
func (o *Model) Balances() []*Balance { return o.bals }

// SetOrder sets the execution order; by default elements run in the order they were added
func (o *Model) SetOrder(names ...string) {
	o.order = append([]string(nil), names...)
	o.isSet = false
}

// Setup validates the model and resolves the wiring. It is called by Run and Solve if needed
func (o *Model) Setup() (err error) {
	o.isSet = false

	// order
	order := o.order
	if len(order) == 0 {
		for _, e := range o.elems {
			order = append(order, e.Name())
		}
	}
	if len(order) != len(o.elems) {
		return chk.Err("order has %d elements but model %q has %d", len(order), o.Name, len(o.elems))
	}
	o.seq = make([]*node, len(order))
	for _, n := range o.nodes {
		n.pos = -1
		n.inputs = make(map[string]string)
		n.links = nil
	}
	for i, name := range order {
		n, ok := o.nodes[name]
		if !ok {
			return chk.Err("element %q in order is not in model %q", name, o.Name)
		}
		if n.pos >= 0 {
			return chk.Err("element %q appears twice in order", name)
		}
		n.pos = i
		o.seq[i] = n
	}

	// elements data
	nel := o.Calc.Nel()
	for _, n := range o.seq {
		if c, ok := n.e.(ele.Checker); ok {
			if err = c.Check(o.Calc); err != nil {
				return chk.Err("element %q: %v", n.e.Name(), err)
			}
		}
		if s, ok := n.e.(ele.Source); ok {
			b, e := s.Composition(o.Calc)
			if e != nil {
				return chk.Err("element %q: %v", n.e.Name(), e)
			}
			if len(b) != nel {
				return chk.Err("element %q: composition has %d entries but the gas model has %d elements", n.e.Name(), len(b), nel)
			}
		}
	}

	// connections
	consumed := make(map[string]string) // output station => consumer
	for _, c := range o.conns {
		src, sport, e := o.port(c.From)
		if e != nil {
			return e
		}
		dst, dport, e := o.port(c.To)
		if e != nil {
			return e
		}
		if !src.e.Info().HasOutput(sport) {
			return chk.Err("connection %s -> %s: %q is not an output port of %q. options are %v", c.From, c.To, sport, src.e.Name(), src.e.Info().Outputs)
		}
		info := dst.e.Info()
		probe := info.HasProbe(dport)
		if !probe && !info.HasInput(dport) {
			return chk.Err("connection %s -> %s: %q is not an input port of %q. options are %v", c.From, c.To, dport, dst.e.Name(), append(info.Inputs, info.Probes...))
		}
		if _, ok := dst.inputs[dport]; ok {
			return chk.Err("connection %s -> %s: input port is connected twice", c.From, c.To)
		}
		if !probe {
			if other, ok := consumed[c.From]; ok {
				return chk.Err("connection %s -> %s: output port feeds %s already; use a splitter", c.From, c.To, other)
			}
			consumed[c.From] = c.To
		}
		if src.pos >= dst.pos {
			return chk.Err("connection %s -> %s: %q must run before %q", c.From, c.To, src.e.Name(), dst.e.Name())
		}
		dst.inputs[dport] = c.From
	}
	for _, n := range o.seq {
		info := n.e.Info()
		for _, port := range append(append([]string(nil), info.Inputs...), info.Probes...) {
			if _, ok := n.inputs[port]; !ok {
				return chk.Err("input port %s.%s is not connected", n.e.Name(), port)
			}
		}
	}

	// balances
	owned := make(map[string]bool)
	for _, b := range o.bals {
		if b.target, err = o.param(b.Target); err != nil {
			return chk.Err("balance %q: %v", b.Name, err)
		}
		if owned[b.Target] {
			return chk.Err("balance %q: parameter %q is owned by another balance", b.Name, b.Target)
		}
		owned[b.Target] = true
		if b.lhs, err = o.key(b.Lhs); err != nil {
			return chk.Err("balance %q: %v", b.Name, err)
		}
		b.rhs = nil
		if b.Rhs != "" {
			if b.rhs, err = o.key(b.Rhs); err != nil {
				return chk.Err("balance %q: %v", b.Name, err)
			}
		}
		if b.Ref == 0 || b.Mult == 0 {
			return chk.Err("balance %q: Ref and Mult must be non-zero", b.Name)
		}
		if !(b.Lower < b.Upper) {
			return chk.Err("balance %q: invalid bounds [%g, %g]", b.Name, b.Lower, b.Upper)
		}
	}

	// links
	for _, l := range o.links {
		tgt, e := o.param(l.Target)
		if e != nil {
			return chk.Err("link %s -> %s: %v", l.Source, l.Target, e)
		}
		if owned[l.Target] {
			return chk.Err("link %s -> %s: parameter is owned by a balance", l.Source, l.Target)
		}
		owned[l.Target] = true
		src, e := o.key(l.Source)
		if e != nil {
			return chk.Err("link %s -> %s: %v", l.Source, l.Target, e)
		}
		if !src.param && src.n.pos >= tgt.n.pos {
			return chk.Err("link %s -> %s: %q must run before %q", l.Source, l.Target, src.n.e.Name(), tgt.n.e.Name())
		}
		tgt.n.links = append(tgt.n.links, &resolvedLink{src, tgt.name})
	}
	o.isSet = true
	return
}

// port splits element.port and returns the node
func (o *Model) port(s string) (n *node, port string, err error) {
	i := strings.Index(s, ".")
	if i < 0 {
		return nil, "", chk.Err("port %q must be given as element.port", s)
	}
	n, ok := o.nodes[s[:i]]
	if !ok {
		return nil, "", chk.Err("element %q of port %q is not in model %q", s[:i], s, o.Name)
	}
	return n, s[i+1:], nil
}

// param resolves an element parameter
func (o *Model) param(s string) (*key, error) {
	k, err := o.key(s)
	if err != nil {
		return nil, err
	}
	if !k.param {
		return nil, chk.Err("%q is not a parameter of %q. options are %v", s, k.n.e.Name(), k.n.e.Info().Params)
	}
	return k, nil
}

// key holds a resolved element key: a parameter or result of an element, or a property of a station
type key struct {
	n      *node  // element
	name   string // parameter or result; empty if station property
	param  bool   // name is a parameter
	port   string // port of station property
	output bool   // port is an output port
	prop   string // station property
}

// key resolves "element.key" or "element.port.property"
func (o *Model) key(s string) (k *key, err error) {
	n, rest, err := o.port(s)
	if err != nil {
		return
	}
	info := n.e.Info()
	if i := strings.Index(rest, "."); i >= 0 {
		port, prop := rest[:i], rest[i+1:]
		output := info.HasOutput(port)
		if !output && !info.HasInput(port) && !info.HasProbe(port) {
			return nil, chk.Err("key %q: %q is not a port of %q", s, port, n.e.Name())
		}
		if _, err = stationProp(&flow.Station{Static: true}, prop); err != nil {
			return nil, chk.Err("key %q: %v", s, err)
		}
		return &key{n: n, port: port, output: output, prop: prop}, nil
	}
	switch {
	case info.HasResult(rest):
		return &key{n: n, name: rest}, nil
	case info.HasParam(rest):
		return &key{n: n, name: rest, param: true}, nil
	}
	return nil, chk.Err("key %q: %q is not a parameter or result of %s element %q. parameters are %v and results are %v", s, rest, n.e.Kind(), n.e.Name(), info.Params, info.Results)
}

// value returns the current value of a key
func (o *Model) value(k *key) (float64, error) {
	if k.name != "" {
		return k.n.e.Get(k.name)
	}
	name := k.n.e.Name() + "." + k.port
	if !k.output {
		name = k.n.inputs[k.port]
	}
	st, ok := o.stations[name]
	if !ok {
		return 0, chk.Err("station %q was not computed", name)
	}
	return stationProp(st, k.prop)
}

// stationProp returns a property of a station
func stationProp(st *flow.Station, prop string) (float64, error) {
	var v float64
	static := false
	switch prop {
	case "Pt":
		v = st.Pt
	case "Tt":
		v = st.Tt
	case "ht", "Ht":
		v = st.Ht
	case "S", "s":
		v = st.S
	case "gamt":
		v = st.Gamt
	case "Cpt":
		v = st.Cpt
	case "rhot":
		v = st.Rhot
	case "W":
		v = st.W
	case "Ps":
		v, static = st.Ps, true
	case "Ts":
		v, static = st.Ts, true
	case "hs":
		v, static = st.Hs, true
	case "gams":
		v, static = st.Gams, true
	case "rhos":
		v, static = st.Rhos, true
	case "MN":
		v, static = st.MN, true
	case "V":
		v, static = st.V, true
	case "Vsonic":
		v, static = st.Vsonic, true
	case "area":
		v, static = st.Area, true
	default:
		return 0, chk.Err("station property %q is invalid. options are Pt, Tt, ht, S, gamt, Cpt, rhot, W, Ps, Ts, hs, gams, rhos, MN, V, Vsonic and area", prop)
	}
	if static && !st.Static {
		return 0, chk.Err("static properties of station %q were not computed", st.Name)
	}
	return v, nil
}

// Run runs all elements once in order with the current parameters
func (o *Model) Run() (err error) {
	if !o.isSet {
		if err = o.Setup(); err != nil {
			return
		}
	}
	o.stations = make(map[string]*flow.Station)
	nel := o.Calc.Nel()
	for _, n := range o.seq {

		// links
		for _, l := range n.links {
			v, e := o.value(l.src)
			if e != nil {
				return chk.Err("element %q: cannot apply link to %q: %v", n.e.Name(), l.tgt, e)
			}
			if e = n.e.Set(l.tgt, v); e != nil {
				return e
			}
		}

		// inputs
		ctx := ele.NewContext(o.Calc)
		for port, name := range n.inputs {
			st, ok := o.stations[name]
			if !ok {
				return chk.Err("element %q: station %q at port %q was not computed", n.e.Name(), name, port)
			}
			if len(st.B) != nel {
				return chk.Err("element %q: composition of station %q has %d entries but the gas model has %d elements", n.e.Name(), name, len(st.B), nel)
			}
			ctx.In[port] = st
		}

		// compute
		if err = n.e.Compute(ctx); err != nil {
			return
		}

		// outputs
		for _, port := range n.e.Info().Outputs {
			st, ok := ctx.Out[port]
			if !ok || st == nil {
				return chk.Err("element %q did not compute output port %q", n.e.Name(), port)
			}
			o.stations[n.e.Name()+"."+port] = st
		}
	}
	return
}

// residual sets the balance targets to x, runs the model and computes the residuals
func (o *Model) residual(x, r []float64) (err error) {
	for i, b := range o.bals {
		if err = b.target.n.e.Set(b.target.name, x[i]); err != nil {
			return
		}
	}
	if err = o.Run(); err != nil {
		return
	}
	for i, b := range o.bals {
		lhs, e := o.value(b.lhs)
		if e != nil {
			return chk.Err("balance %q: %v", b.Name, e)
		}
		rhs := b.RhsVal
		if b.rhs != nil {
			if rhs, e = o.value(b.rhs); e != nil {
				return chk.Err("balance %q: %v", b.Name, e)
			}
		}
		r[i] = b.residual(lhs, rhs)
	}
	return
}

// Solve solves the balances. With no balances, the model is run once. On success, the values of
// the balances are updated and the model state corresponds to the solution
func (o *Model) Solve() (err error) {
	start := time.Now()
	o.Last = nil
	defer func() {
		o.Metrics.record(o.Mode, o.Last, err, time.Since(start))
	}()
	if err = o.Setup(); err != nil {
		return
	}
	if len(o.bals) == 0 {
		return o.Run()
	}

	// solve
	x0 := make([]float64, len(o.bals))
	for i, b := range o.bals {
		x0[i] = b.Val
	}
	opts := o.Opts
	if opts.Recoverable == nil {
		opts.Recoverable = flow.Recoverable
	}
	sol := newton.NewSolver(&opts)
	sol.Verbose = o.Verbose
	res, err := sol.Solve(system{o}, x0)
	system{o}.Freeze(false)
	o.Last = res
	if err != nil {
		logger.WithFields(log.Fields{"model": o.Name, "mode": o.Mode.String()}).Warnf("cycle: cannot solve balances: %v", err)
		return
	}

	// final state
	for i, b := range o.bals {
		b.Val = res.X[i]
	}
	r := make([]float64, len(o.bals))
	if err = o.residual(res.X, r); err != nil {
		return
	}
	if o.ShowMsg {
		io.Pfgreen("model %q (%s): converged=%v after %d iterations (%d evaluations). |r| = %g\n", o.Name, o.Mode, res.Converged, res.Iters, res.Evals, res.Norm)
	}
	return
}

// Get returns a value by key: "element.key" (parameter or result) or "element.port.property"
func (o *Model) Get(s string) (float64, error) {
	k, err := o.key(s)
	if err != nil {
		return 0, err
	}
	return o.value(k)
}

// Set sets a parameter: "element.parameter"
func (o *Model) Set(s string, val float64) error {
	k, err := o.param(s)
	if err != nil {
		return err
	}
	return k.n.e.Set(k.name, val)
}

// Station returns a computed station by port ("element.port"); nil if not available
func (o *Model) Station(name string) *flow.Station {
	if st, ok := o.stations[name]; ok {
		return st
	}
	n, port, err := o.port(name)
	if err != nil {
		return nil
	}
	if src, ok := n.inputs[port]; ok {
		return o.stations[src]
	}
	return nil
}

// Stations returns the names of the computed stations in execution order
func (o *Model) Stations() (names []string) {
	for _, n := range o.seq {
		for _, port := range n.e.Info().Outputs {
			name := n.e.Name() + "." + port
			if _, ok := o.stations[name]; ok {
				names = append(names, name)
			}
		}
	}
	return
}

// TransferSizing copies the sizing results of a solved design model into the parameters of this
// off-design model and seeds the balances with the design values of their targets
func (o *Model) TransferSizing(des *Model) (err error) {
	if o.Mode != ele.OffDesign || des.Mode != ele.Design {
		return chk.Err("sizing must be transferred from a design model to an off-design model")
	}
	for _, e := range o.elems {
		d := des.Element(e.Name())
		if d == nil {
			continue
		}
		sizer, ok := d.(ele.Sizer)
		if !ok {
			continue
		}
		for _, k := range sizer.Sizing() {
			prm := k
			if e.Info().HasResult(k) {
				prm = k + "_des"
			}
			if !e.Info().HasParam(prm) {
				continue
			}
			v, e2 := d.Get(k)
			if e2 != nil {
				return e2
			}
			if err = e.Set(prm, v); err != nil {
				return
			}
		}
	}
	for _, b := range o.bals {
		if v, e := des.Get(b.Target); e == nil {
			b.Val = v
		}
	}
	return
}
