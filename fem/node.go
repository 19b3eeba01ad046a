// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/fun"

	"github.com/minasel/eaglefrac/inp"
)

// Dof holds information about one degree-of-freedom == solution variable
type Dof struct {
	Key string // primary variable key; e.g. "ux", "uy", "phi"
	Eq  int    // equation number in the global system
}

// Node holds the solution variables (DOFs) of one vertex
type Node struct {
	Dofs []*Dof    // all DOFs at this node
	Vert *inp.Vert // pointer to vertex
}

// NewNode returns a new node
func NewNode(v *inp.Vert) *Node {
	return &Node{[]*Dof{}, v}
}

// AddDofAndEq adds a new DOF if it does not exist yet and returns the updated
// equation number counter
func (o *Node) AddDofAndEq(key string, eq int) int {
	for _, dof := range o.Dofs {
		if dof.Key == key {
			return eq
		}
	}
	o.Dofs = append(o.Dofs, &Dof{key, eq})
	return eq + 1
}

// GetDof returns the DOF corresponding to given key
//  Note: returns nil if not found
func (o *Node) GetDof(key string) *Dof {
	for _, dof := range o.Dofs {
		if dof.Key == key {
			return dof
		}
	}
	return nil
}

// GetEq returns the equation number of a DOF given its key
//  Note: returns -1 if not found
func (o *Node) GetEq(key string) int {
	d := o.GetDof(key)
	if d == nil {
		return -1
	}
	return d.Eq
}

// PtNaturalBc holds one point natural boundary condition; e.g. a concentrated load
type PtNaturalBc struct {
	Key string   // f-key; e.g. "fx", "fy"
	Eq  int      // equation of the corresponding primary variable
	Fcn fun.Func // function of time
}

// PtNaturalBcs holds all point natural boundary conditions
type PtNaturalBcs struct {
	Bcs []*PtNaturalBc
}

// Reset clears the set of point loads
func (o *PtNaturalBcs) Reset() {
	o.Bcs = make([]*PtNaturalBc, 0)
}

// Set adds a point load given the y-key of the node variable
func (o *PtNaturalBcs) Set(fkey string, nod *Node, ykey string, fcn fun.Func) (ok bool) {
	d := nod.GetDof(ykey)
	if d == nil {
		return
	}
	o.Bcs = append(o.Bcs, &PtNaturalBc{fkey, d.Eq, fcn})
	return true
}

// AddToRhs adds the prescribed point loads to the right-hand side vector
func (o *PtNaturalBcs) AddToRhs(fb []float64, t float64) {
	for _, bc := range o.Bcs {
		fb[bc.Eq] += bc.Fcn.F(t, nil)
	}
}
