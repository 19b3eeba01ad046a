// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the active-set finite element solver for quasi-static
// brittle and hydraulic phase-field fracture
package fem

import (
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/minasel/eaglefrac/inp"
)

// DebugKb_t defines a function to debug the global Jacobian matrix
type DebugKb_t func(d *Domain, it int)

// FEsolver implements the actual solver (time loop)
type FEsolver interface {
	Run(tf float64, dtFunc, dtoFunc fun.Func, verbose bool, dbgKb DebugKb_t) (err error)
}

// solverallocators holds all available solvers
var solverallocators = make(map[string]func(doms []*Domain, sum *Summary) FEsolver)

// FEM holds all data for a simulation using the finite element method
type FEM struct {
	Sim     *inp.Simulation // simulation data
	Summary *Summary        // summary structure
	Domains []*Domain       // all domains
	Solver  FEsolver        // finite element method solver
	DebugKb DebugKb_t       // debug Kb callback function
	Nproc   int             // number of processors
	Proc    int             // processor id
	Verbose bool            // show messages
}

// NewFEM returns a new FEM structure
//  Input:
//   simfilepath   -- simulation (.sim) filename including full path
//   alias         -- word to be appended to simulation key; e.g. when running multiple FE solutions
//   erasePrev     -- erase previous results files
//   saveSummary   -- save summary
//   readSummary   -- read summary of previous simulation
//   allowParallel -- allow parallel execution; otherwise, run in serial mode regardless whether MPI is on or not
//   verbose       -- show messages
func NewFEM(simfilepath, alias string, erasePrev, saveSummary, readSummary, allowParallel, verbose bool) (o *FEM) {

	// new FEM object
	o = new(FEM)

	// read input data
	o.Sim = inp.ReadSim(simfilepath, alias, erasePrev, 0)
	if o.Sim == nil {
		chk.Panic("cannot read simulation input data")
	}

	// read summary of previous simulation
	if saveSummary || readSummary {
		o.Summary = new(Summary)
	}
	if readSummary {
		err := o.Summary.Read(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType)
		if err != nil {
			chk.Panic("cannot read summary:\n%v", err)
		}
	}

	// multiprocessing data
	o.Nproc = 1
	distr := false
	if mpi.IsOn() {
		if allowParallel {
			o.Proc = mpi.Rank()
			o.Nproc = mpi.Size()
			distr = o.Nproc > 1
			if distr {
				o.Sim.LinSol.Name = "mumps"
			}
		}
	} else {
		o.Sim.LinSol.Name = "umfpack"
	}
	o.Verbose = verbose && (o.Proc == 0)

	// allocate domains
	o.Domains = NewDomains(o.Sim, o.Proc, o.Nproc, distr)

	// allocate solver
	if alloc, ok := solverallocators[o.Sim.Solver.Type]; ok {
		o.Solver = alloc(o.Domains, o.Summary)
	} else {
		chk.Panic("cannot find solver type named %q", o.Sim.Solver.Type)
	}
	return
}

// Run runs FE simulation
func (o *FEM) Run() (err error) {

	// loop over stages
	cputime := time.Now()
	for stgidx, stg := range o.Sim.Stages {

		// skip stage?
		if stg.Skip {
			continue
		}

		// set stage and initialise solution vectors
		err = o.SetStage(stgidx)
		if err != nil {
			return
		}

		// time loop
		err = o.Solver.Run(stg.Control.Tf, stg.Control.DtFunc, stg.Control.DtoFunc, o.Verbose, o.DebugKb)
		if err != nil {
			return
		}
	}

	// message
	if o.Verbose {
		io.Pf("\n")
		if len(o.Domains) > 0 {
			if o.Domains[0].Sol != nil {
				io.Pf("final time = %v\n", o.Domains[0].Sol.T)
			}
		}
		io.Pflmag("cpu time   = %v\n", time.Now().Sub(cputime))
	}

	// save summary
	if o.Summary != nil {
		err = o.Summary.Save(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType, o.Nproc, o.Proc, o.Verbose)
	}
	return
}

// SetStage sets stage for all domains and initialises the solution vectors
//  Input:
//   stgidx -- stage index (in o.Sim.Stages)
func (o *FEM) SetStage(stgidx int) (err error) {
	for _, d := range o.Domains {
		err = d.Prerefine()
		if err != nil {
			return
		}
		err = d.SetStage(stgidx)
		if err != nil {
			return
		}
		d.SetIniVals()
	}
	return
}

// SolveOneStage solves one stage that was already set
//  Input:
//   stgidx -- stage index (in o.Sim.Stages)
func (o *FEM) SolveOneStage(stgidx int) (err error) {

	// clean memory allocated by domains
	defer func() {
		for _, d := range o.Domains {
			d.Clean()
		}
	}()

	// run
	stg := o.Sim.Stages[stgidx]
	err = o.Solver.Run(stg.Control.Tf, stg.Control.DtFunc, stg.Control.DtoFunc, o.Verbose, o.DebugKb)
	return
}
