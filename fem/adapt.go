// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
)

// solution fields transferred across mesh refinements
var transferKeys = []string{"ux", "uy", "phi"}

// Prerefine refines the configured region before the time stepping starts.
// Each sweep splits the cells whose centre lies inside the box. Cells already
// at the sweep-count level are left alone, hence setting the stage again does
// not refine further
func (o *Domain) Prerefine() (err error) {
	ad := &o.Sim.Adapt
	if ad.NPre < 1 || len(ad.PreBox) != 4 {
		return
	}
	for i := 0; i < ad.NPre; i++ {
		var cids []int
		for _, cid := range o.Msh.CellsInBox(ad.PreBox) {
			if o.Msh.Cells[cid].Level < ad.NPre {
				cids = append(cids, cid)
			}
		}
		if len(cids) < 1 {
			return
		}
		newMsh, err := o.Msh.Refine(cids, o.Sim.GoroutineId)
		if err != nil {
			return chk.Err("cannot prerefine mesh:\n%v", err)
		}
		o.Reg.Msh = newMsh
		o.Msh = newMsh
	}
	return
}

// RefineCandidates returns the cells where the phase field spans the
// refinement threshold, i.e. the crack front. Cells entirely below the
// threshold lie in the wake of the crack and are already resolved; an empty
// result means the mesh resolves the front well enough
func (o *Domain) RefineCandidates() (cids []int) {
	ad := &o.Sim.Adapt
	if ad.MaxLevel < 1 {
		return
	}
	for _, cell := range o.Msh.Cells {
		if cell.Level >= ad.MaxLevel {
			continue
		}
		cracked, intact := false, false
		for _, v := range cell.Verts {
			eq := o.Vid2node[v].GetEq("phi")
			if eq < 0 {
				continue
			}
			if o.Sol.Y[eq] < ad.PhiRef {
				cracked = true
			} else {
				intact = true
			}
		}
		if cracked && intact {
			cids = append(cids, cell.Id)
		}
	}
	return
}

// Adapt refines the given cells, rebuilds the domain on the new mesh and
// transfers three generations of the solution (current, previous and the one
// before) so that both the irreversibility constraint and the phase-field
// extrapolation survive the adaptation. The time stepping state is preserved
func (o *Domain) Adapt(cids []int) (err error) {

	// save time stepping state
	t, dt, dtOld := o.Sol.T, o.Sol.Dt, o.Sol.DtOld
	useOldPhi := o.Sol.UseOldPhi

	// collect the nodal fields of the three generations on the old mesh
	gens := [][]float64{o.Sol.Y, o.Sol.OldY, o.Sol.OldOldY}
	oldFields := make([][][]float64, len(gens))
	for g, y := range gens {
		oldFields[g] = make([][]float64, len(transferKeys))
		for k, key := range transferKeys {
			vals := make([]float64, len(o.Msh.Verts))
			for vid, nod := range o.Vid2node {
				if nod == nil {
					return chk.Err("vertex %d is not active", vid)
				}
				eq := nod.GetEq(key)
				if eq < 0 {
					return chk.Err("vertex %d does not have key %q", vid, key)
				}
				vals[vid] = y[eq]
			}
			oldFields[g][k] = vals
		}
	}

	// refine
	newMsh, err := o.Msh.Refine(cids, o.Sim.GoroutineId)
	if err != nil {
		return chk.Err("cannot refine mesh:\n%v", err)
	}

	// interpolate all generations to the new mesh before touching the domain
	newFields := make([][][]float64, len(gens))
	for g := range gens {
		newFields[g] = make([][]float64, len(transferKeys))
		for k := range transferKeys {
			newFields[g][k], err = newMsh.TransferScalar(oldFields[g][k])
			if err != nil {
				return chk.Err("cannot transfer solution to the refined mesh:\n%v", err)
			}
		}
	}

	// rebuild the domain on the new mesh
	if !o.InitLSol {
		o.LinSol.Clean()
	}
	o.Reg.Msh = newMsh
	o.Msh = newMsh
	err = o.SetStage(o.StgIdx)
	if err != nil {
		return chk.Err("cannot rebuild domain on the refined mesh:\n%v", err)
	}

	// load the transferred generations into the new solution vectors
	gens = [][]float64{o.Sol.Y, o.Sol.OldY, o.Sol.OldOldY}
	for g, y := range gens {
		for k, key := range transferKeys {
			for vid, nod := range o.Vid2node {
				eq := nod.GetEq(key)
				if eq < 0 {
					return chk.Err("vertex %d of the refined mesh does not have key %q", vid, key)
				}
				y[eq] = newFields[g][k][vid]
			}
		}
	}

	// restore time stepping state
	o.Sol.T, o.Sol.Dt, o.Sol.DtOld = t, dt, dtOld
	o.Sol.UseOldPhi = useOldPhi
	return
}
