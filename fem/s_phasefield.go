// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/mpi"
)

// SolverPhaseField solves the coupled displacement / phase-field problem with
// a primal-dual active set Newton method. Every time step it:
//  1. copies the previous solutions forward (φoldold ← φold ← φ)
//  2. updates the crack fluid pressure from the previous converged phase field
//  3. runs active-set Newton iterations
//  4. on divergence: cuts the time step by dtcut and retries from the previous
//     converged solution; aborts when the step falls below dtmin
//  5. on convergence: refines the mesh where the phase field localised,
//     transfers three solution generations and redoes the step with the
//     transferred solution as the initial guess
type SolverPhaseField struct {
	doms []*Domain // all domains
	sum  *Summary  // summary
}

// set factory
func init() {
	solverallocators["phasefield"] = func(doms []*Domain, sum *Summary) FEsolver {
		solver := new(SolverPhaseField)
		solver.doms = doms
		solver.sum = sum
		return solver
	}
}

// Run solves the time loop of one stage
func (o *SolverPhaseField) Run(tf float64, dtFunc, dtoFunc fun.Func, verbose bool, dbgKb DebugKb_t) (err error) {

	// auxiliary
	md := 1.0    // time step multiplier reduced upon divergence; never recovers
	ndiverg := 0 // number of consecutive diverging attempts

	// control
	if len(o.doms) < 1 {
		return chk.Err("solver does not have domains to solve")
	}
	sv := o.doms[0].Sim.Solver
	t := o.doms[0].Sol.T
	tout := t + dtoFunc.F(t, nil)
	tidx := 0

	// output initial state
	if o.sum != nil {
		o.sum.OutTimes = append(o.sum.OutTimes, t)
	}
	for _, d := range o.doms {
		err = d.Save(tidx, verbose)
		if err != nil {
			return
		}
	}
	tidx += 1

	// time loop
	firstStep := true
	var Δt float64
	var lasttimestep bool
	for t < tf {

		// time increment
		Δt = dtFunc.F(t, nil) * md
		if t+Δt >= tf {
			Δt = tf - t
			lasttimestep = true
		}

		// copy solutions forward and set the step
		for _, d := range o.doms {
			copy(d.Sol.OldOldY, d.Sol.OldY)
			copy(d.Sol.OldY, d.Sol.Y)
			d.Sol.Dt = Δt
			d.Sol.T = t + Δt
			if firstStep || !sv.Extrap {
				d.Sol.UseOldPhi = true
			}
		}

		// attempt the step; redo with a smaller increment upon divergence and
		// with a finer mesh after adaptation
		diverged := false
		for {

			// crack fluid pressure from the previous converged phase field
			for _, d := range o.doms {
				d.SetPressure(t + Δt)
			}

			// message
			if verbose && !sv.ShowR {
				io.PfWhite("%30.15f\r", t+Δt)
			}

			// run iterations for all domains
			diverged = false
			for _, d := range o.doms {
				var converged bool
				converged, err = o.run_iterations(d, verbose, dbgKb)
				if err != nil {
					return
				}
				if !converged {
					diverged = true
					break
				}
			}

			// cut the time step and retry from the previous converged solution
			if diverged {
				ndiverg += 1
				if verbose {
					io.Pfred(". . . diverging: cutting time step (%2d) . . .\n", ndiverg)
				}
				if ndiverg >= sv.NdvgMax {
					return chk.Err("continuous divergence after %d steps reached", ndiverg)
				}
				if Δt/sv.DtCut < sv.DtMin {
					return chk.Err("time step %g fell below the minimum %g", Δt/sv.DtCut, sv.DtMin)
				}
				Δt /= sv.DtCut
				md /= sv.DtCut
				lasttimestep = false
				for _, d := range o.doms {
					copy(d.Sol.Y, d.Sol.OldY) // the previous solution is the new initial guess
					d.ActSet.Clear()
					d.ResizeSystem()
					d.Sol.Dt = Δt
					d.Sol.T = t + Δt
					d.Sol.UseOldPhi = true // extrapolation is meaningless across a cut
				}
				continue
			}

			// refine the mesh where the phase field localised and redo the
			// step with the transferred solution as the initial guess
			refined := false
			for _, d := range o.doms {
				cids := d.RefineCandidates()
				if len(cids) < 1 {
					continue
				}
				if verbose {
					io.Pfcyan(". . . refining %d cells and redoing step . . .\n", len(cids))
				}
				err = d.Adapt(cids)
				if err != nil {
					return chk.Err("mesh adaptation failed:\n%v", err)
				}
				refined = true
			}
			if refined {
				continue
			}

			// step accepted
			break
		}

		// update time and extrapolation data
		t += Δt
		ndiverg = 0
		firstStep = false
		for _, d := range o.doms {
			d.Sol.T = t
			d.Sol.DtOld = Δt
			d.Sol.UseOldPhi = !sv.Extrap
		}

		// perform output
		if t >= tout || lasttimestep {
			if o.sum != nil {
				o.sum.OutTimes = append(o.sum.OutTimes, t)
			}
			for _, d := range o.doms {
				err = d.Save(tidx, verbose)
				if err != nil {
					return
				}
			}
			tidx += 1
			tout += dtoFunc.F(t, nil)
		}
	}

	// success
	return
}

// run_iterations runs the active-set Newton iterations of one time step.
// The solution is converged when the active set did not change between two
// iterations AND the masked residual norm is below fbtol
func (o *SolverPhaseField) run_iterations(d *Domain, verbose bool, dbgKb DebugKb_t) (converged bool, err error) {

	// auxiliary
	sv := d.Sim.Solver

	// zero accumulated increments
	la.VecFill(d.Sol.ΔY, 0)

	// message
	if verbose && sv.ShowR {
		io.Pf("\n%13s%5s%6s%23s\n", "t", "it", "aset", "largFb")
	}

	// iterations
	var it int
	var largFb float64
	for it = 0; it < sv.NmaxIt; it++ {

		// assemble right-hand side vector (fb) with negative of residuals
		neq := d.Neq()
		fb := d.Fb[:neq]
		la.VecFill(d.Fb, 0)
		for _, e := range d.Elems {
			err = e.AddToRhs(fb, d.Sol)
			if err != nil {
				return
			}
		}

		// join all fb
		if d.Distr {
			mpi.AllReduceSum(d.Fb, d.Wb)
		}

		// point natural boundary conditions; e.g. concentrated loads
		d.PtNatBcs.AddToRhs(fb, d.Sol.T)

		// essential boundary conditions; e.g. constraints
		d.EssenBcs.AddToRhs(fb, d.Sol)

		// update the active set from the raw residual; the criterion must not
		// see the constraint reactions, hence it runs before ActSet.AddToRhs
		changed := d.ActSet.Update(d.PhiEqs, d.Sol, fb)

		// find largest absolute component of fb, masking the active equations
		largFb = o.masked_norm(d, fb)

		// save residual
		if o.sum != nil {
			o.sum.Resids.Append(it == 0, largFb)
		}

		// message
		if verbose && sv.ShowR {
			io.Pf("%13.6e%5d%6d%23.15e\n", d.Sol.T, it, d.ActSet.Nact(), largFb)
		}

		// check convergence: both conditions must hold simultaneously
		if it > 0 && !changed {
			if largFb < sv.FbTol || largFb < sv.FbMin {
				converged = true
				break
			}
		}

		// re-dimension the system whenever the active set changed
		if changed {
			d.ResizeSystem()
			neq = d.Neq()
			fb = d.Fb[:neq]
		}

		// crack irreversibility constraints
		d.ActSet.AddToRhs(fb, d.Sol, d.Nlam)

		// assemble Jacobian matrix
		do_asm_fact := it == 0 || changed || !sv.CteTg
		if do_asm_fact {

			// assemble element matrices
			d.Kb.Start()
			for _, e := range d.Elems {
				err = e.AddToKb(d.Kb, d.Sol, it == 0)
				if err != nil {
					return
				}
			}

			// join A and tr(A) matrices into Kb
			if d.Proc == 0 {
				d.Kb.PutMatAndMatT(&d.EssenBcs.A)
				if d.ActSet.Nact() > 0 {
					d.Kb.PutMatAndMatT(&d.ActSet.A)
				}
			}

			// debug
			if dbgKb != nil {
				dbgKb(d, it)
			}

			// initialise linear solver
			if d.InitLSol {
				err = d.LinSol.InitR(d.Kb, d.Sim.LinSol.Symmetric, d.Sim.LinSol.Verbose, d.Sim.LinSol.Timing)
				if err != nil {
					return false, chk.Err("cannot initialise linear solver:\n%v", err)
				}
				d.InitLSol = false
			}

			// perform factorisation
			err = d.LinSol.Fact()
			if err != nil {
				return false, chk.Err("factorisation failed:\n%v", err)
			}
		}

		// solve for wb := δyb
		err = d.LinSol.SolveR(d.Wb[:neq], fb, false)
		if err != nil {
			return false, chk.Err("solve failed:\n%v", err)
		}

		// update primary variables (y)
		for i := 0; i < d.Ny; i++ {
			d.Sol.Y[i] += d.Wb[i]  // y += δy
			d.Sol.ΔY[i] += d.Wb[i] // Δy += δy
		}

		// update Lagrange multipliers (λ)
		for i := 0; i < d.Nlam; i++ {
			d.Sol.L[i] += d.Wb[d.Ny+i] // λ += δλ
		}
		for i := 0; i < d.ActSet.Nact(); i++ {
			d.Sol.La[i] += d.Wb[d.Nyb+i] // λa += δλa
		}
	}

	// check if iterations diverged
	if it == sv.NmaxIt && verbose {
		io.PfMag("max number of iterations reached: it = %d\n", it)
	}
	return
}

// masked_norm returns the largest absolute component of fb over the primary
// equations and the boundary condition rows, skipping the equations held by
// the crack irreversibility constraints
func (o *SolverPhaseField) masked_norm(d *Domain, fb []float64) (largFb float64) {
	for i := 0; i < d.Nyb; i++ {
		if d.ActSet.Contains(i) {
			continue
		}
		if v := math.Abs(fb[i]); v > largFb {
			largFb = v
		}
	}
	return
}
