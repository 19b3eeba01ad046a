// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"sort"

	"github.com/cpmech/gosl/la"
)

// ActiveSet implements the primal-dual active set strategy enforcing the
// irreversibility of the phase field. At every Newton iteration the set of
// phase-field equations violating the crack condition is recomputed; each
// active equation gets a Lagrange multiplier row pinning the phase field to
// its previous converged value:
//
//   φ[eq] = φold[eq]   for all  eq  with  cpen・(φ[eq]-φold[eq]) + fb[eq] > 0
//
// fb holds the negative of the raw residual, hence a positive entry pushes
// the phase field up, i.e. towards healing
type ActiveSet struct {
	Cpen float64      // complementarity constant
	Eqs  []int        // [nact] active equations (sorted)
	A    la.Triplet   // constraint matrix; one unit entry per active equation
	amap map[int]bool // current active equations
}

// Init initialises this structure
func (o *ActiveSet) Init(cpen float64) {
	o.Cpen = cpen
	o.Clear()
}

// Clear empties the active set
func (o *ActiveSet) Clear() {
	o.Eqs = nil
	o.amap = make(map[int]bool)
}

// Nact returns the number of active equations
func (o *ActiveSet) Nact() int { return len(o.Eqs) }

// Contains tells whether an equation is in the active set
func (o *ActiveSet) Contains(eq int) bool { return o.amap[eq] }

// Update recomputes the active set from the current solution and raw residual.
// Returns true if the set changed with respect to the previous iteration
func (o *ActiveSet) Update(phiEqs []int, sol *Solution, fb []float64) (changed bool) {
	newmap := make(map[int]bool)
	for _, eq := range phiEqs {
		if o.Cpen*(sol.Y[eq]-sol.OldY[eq])+fb[eq] > 0 {
			newmap[eq] = true
		}
	}
	changed = len(newmap) != len(o.amap)
	if !changed {
		for eq := range newmap {
			if !o.amap[eq] {
				changed = true
				break
			}
		}
	}
	if !changed {
		return
	}
	o.amap = newmap
	o.Eqs = make([]int, 0, len(newmap))
	for eq := range newmap {
		o.Eqs = append(o.Eqs, eq)
	}
	sort.Ints(o.Eqs)
	return
}

// Build builds the constraint matrix. The rows are appended after the ny primary
// equations and the nλ boundary condition multipliers, therefore the triplet is
// allocated with n = ny + nλ columns
func (o *ActiveSet) Build(ny, nlam int) {
	nact := len(o.Eqs)
	if nact == 0 {
		return
	}
	o.A.Init(nact, ny+nlam, nact)
	for i, eq := range o.Eqs {
		o.A.Put(i, eq, 1)
	}
}

// AddToRhs adds the crack irreversibility constraint terms to the augmented fb vector:
//   fb[eq]    -= λa[i]              (reaction on the phase-field equation)
//   fb[off+i]  = φold[eq] - φ[eq]   (constraint violation)
func (o *ActiveSet) AddToRhs(fb []float64, sol *Solution, nlam int) {
	ny := len(sol.Y)
	off := ny + nlam
	for i, eq := range o.Eqs {
		fb[eq] -= sol.La[i]
		fb[off+i] = sol.OldY[eq] - sol.Y[eq]
	}
}
