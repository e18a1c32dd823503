// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"net/http"

	"github.com/cpmech/gocycle/cycle"
	"github.com/cpmech/gocycle/out"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v", err)
			io.Pf("See location of error below:\n")
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".cyc", true)
	offpath := io.ArgToString(1, "")
	verbose := io.ArgToBool(2, true)
	dirout := io.ArgToString(3, "")
	metrics := io.ArgToString(4, "")

	// message
	if verbose {
		io.PfWhite("\nGocycle -- steady-state gas-turbine cycles\n")
		io.Pf("Copyright 2016 The Gofem Authors. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n")

		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"design cycle file", "fnamepath", fnamepath,
			"off-design cycle file", "offpath", offpath,
			"show messages", "verbose", verbose,
			"directory for results; empty means none", "dirout", dirout,
			"metrics address; e.g. :9090", "metrics", metrics,
		))
	}

	// logging
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	// metrics
	if metrics != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(cycle.Registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(metrics, mux); err != nil {
				log.WithField("addr", metrics).Errorf("metrics endpoint failed: %v", err)
			}
		}()
	}

	// design
	des, err := cycle.NewMain(fnamepath, verbose)
	if err != nil {
		chk.Panic("cannot allocate design run:\n%v", err)
	}
	if err = des.Run(); err != nil {
		chk.Panic("design run failed:\n%v", err)
	}
	save(des.Model, dirout)

	// off-design
	if offpath != "" {
		off, err := cycle.NewMain(offpath, verbose)
		if err != nil {
			chk.Panic("cannot allocate off-design run:\n%v", err)
		}
		if err = off.RunOffDesign(des); err != nil {
			chk.Panic("off-design run failed:\n%v", err)
		}
		save(off.Model, dirout)
	}

	// keep serving metrics until interrupted
	if metrics != "" {
		io.Pf("> Serving metrics at %s/metrics\n", metrics)
		select {}
	}
}

// save saves the results of model in dirout; nothing is saved if dirout is empty
func save(m *cycle.Model, dirout string) {
	if dirout == "" {
		return
	}
	sum, err := out.NewSummary(m)
	if err != nil {
		chk.Panic("cannot collect results of %q:\n%v", m.Name, err)
	}
	if err = sum.Save(dirout); err != nil {
		chk.Panic("cannot save results of %q:\n%v", m.Name, err)
	}
	io.Pf("> Results saved in %s/%s.json\n", dirout, m.Name)
}
