// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// EssentialBc holds information about essential boundary conditions such as constrained nodes.
// Lagrange multipliers are used to implement both single- and multi-point constraints.
//  In general, essential bcs / constraints are defined by means of:
//
//      A・y = c
//
//  The resulting Kb matrix will then have the following form:
//      _       _
//     |  K  At  | / δy \   / -R - At*λ \
//     |         | |    | = |           |
//     |_ A   0 _| \ δλ /   \  c - A*y  /
//         Kb       δyb          fb
//
type EssentialBc struct {
	Key   string    // key such as 'ux', 'uy', 'phi' or 'tie'
	Eqs   []int     // equations numbers; more than one for multi-point constraints
	ValsA []float64 // values for matrix A
	Fcn   fun.Func  // function that implements the "c" vector in  A・y = c
}

// EbcArray is an array of EssentialBc's
type EbcArray []*EssentialBc

// EssentialBcs implements a structure to record the definition of essential bcs / constraints.
// Each constraint has a unique Lagrange multiplier index. Hanging vertices produced by mesh
// refinement are tied to their edge endpoints with multi-point constraints.
type EssentialBcs struct {
	Bcs EbcArray     // active essential bcs / constraints
	A   la.Triplet   // matrix of coefficients 'A'
	Am  *la.CCMatrix // compressed form of A matrix
}

// Reset initialises this structure
func (o *EssentialBcs) Reset() {
	o.Bcs = make([]*EssentialBc, 0)
}

// Build builds the structures required for assembling the A matrix
//  nλ   -- is the number of essential bcs / constraints == number of Lagrange multipliers
//  nnzA -- is the number of non-zeros in matrix 'A'
func (o *EssentialBcs) Build(ny int) (nλ, nnzA int) {

	// skip if there are no constraints
	nλ = len(o.Bcs)
	if nλ == 0 {
		return
	}

	// sort bcs to make sure all processors will number Lagrange multipliers in the same order
	sort.Sort(o.Bcs)

	// count number of non-zeros in matrix A
	for _, bc := range o.Bcs {
		nnzA += len(bc.ValsA)
	}

	// set matrix A
	o.A.Init(nλ, ny, nnzA)
	for i, bc := range o.Bcs {
		for j, eq := range bc.Eqs {
			o.A.Put(i, eq, bc.ValsA[j])
		}
	}
	o.Am = o.A.ToMatrix(nil)
	return
}

// AddToRhs adds the essential bcs / constraints terms to the augmented fb vector
func (o *EssentialBcs) AddToRhs(fb []float64, sol *Solution) {

	// skip if there are no constraints
	if len(o.Bcs) == 0 {
		return
	}

	// add -At*λ to fb
	la.SpMatTrVecMulAdd(fb, -1, o.Am, sol.L) // fb += -1 * At * λ

	// assemble -rc = c - A*y into fb
	ny := len(sol.Y)
	for i, bc := range o.Bcs {
		fb[ny+i] = bc.Fcn.F(sol.T, nil)
	}
	la.SpMatVecMulAdd(fb[ny:], -1, o.Am, sol.Y) // fb += -1 * A * y
}

// Set sets a single-point constraint for all given nodes
//  key -- Dof key such as "ux", "uy" or "phi"
func (o *EssentialBcs) Set(key string, nodes []*Node, fcn fun.Func) (err error) {
	chk.IntAssertLessThan(0, len(nodes)) // 0 < len(nodes)
	for _, nod := range nodes {
		if nod == nil {
			continue
		}
		d := nod.GetDof(key)
		if d == nil {
			continue // node doesn't have key
		}
		o.set_eqs(key, []int{d.Eq}, []float64{1}, fcn)
	}
	return
}

// SetTie constrains a hanging vertex to the average of its edge endpoints:
//   y[m] - (y[a] + y[b])/2 = 0
// one tie per DOF key of the hanging node
func (o *EssentialBcs) SetTie(m, a, b *Node) (err error) {
	for _, dof := range m.Dofs {
		da := a.GetDof(dof.Key)
		db := b.GetDof(dof.Key)
		if da == nil || db == nil {
			return chk.Err("hanging vertex %d has key %q but its edge endpoints do not", m.Vert.Id, dof.Key)
		}
		o.set_eqs("tie", []int{dof.Eq, da.Eq, db.Eq}, []float64{1, -0.5, -0.5}, &fun.Zero)
	}
	return
}

// ConstrainedEqs returns a map with all equations that have a constraint row
func (o *EssentialBcs) ConstrainedEqs() map[int]bool {
	res := make(map[int]bool)
	for _, bc := range o.Bcs {
		for _, eq := range bc.Eqs {
			res[eq] = true
		}
	}
	return res
}

// Eq2row returns a map from equation number to Lagrange multiplier index, considering
// single-point constraints only. Must be called after Build
func (o *EssentialBcs) Eq2row() map[int]int {
	res := make(map[int]int)
	for i, bc := range o.Bcs {
		if len(bc.Eqs) == 1 {
			res[bc.Eqs[0]] = i
		}
	}
	return res
}

// List returns a simple list logging bcs at time t
func (o *EssentialBcs) List(t float64) (l string) {
	sort.Sort(o.Bcs)
	for _, bc := range o.Bcs {
		l += io.Sf("%8d%8s%23.13f\n", bc.Eqs[0], bc.Key, bc.Fcn.F(t, nil))
	}
	return
}

// auxiliary /////////////////////////////////////////////////////////////////////////////////////////

// set_eqs sets/replace constraint and equations
func (o *EssentialBcs) set_eqs(key string, eqs []int, valsA []float64, fcn fun.Func) {

	// replace existent
	for _, bc := range o.Bcs {
		if bc.Eqs[0] == eqs[0] {
			bc.Key, bc.Eqs, bc.ValsA, bc.Fcn = key, eqs, valsA, fcn
			return
		}
	}

	// add new
	o.Bcs = append(o.Bcs, &EssentialBc{key, eqs, valsA, fcn})
}

// functions to implement Sort interface
func (o EbcArray) Len() int      { return len(o) }
func (o EbcArray) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o EbcArray) Less(i, j int) bool {
	return o[i].Eqs[0] < o[j].Eqs[0]
}
