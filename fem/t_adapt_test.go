// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_adapt01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("adapt01. refinement with three-generation solution transfer")

	// allocate analysis and set stage
	analysis := NewFEM("data/adapt.sim", "", true, false, false, false, chk.Verbose)
	err := analysis.SetStage(0)
	if err != nil {
		tst.Errorf("set stage failed:\n%v", err)
		return
	}
	d := analysis.Domains[0]
	defer d.Clean()

	// 2x2 grid: 9 vertices with {ux, uy, phi} each
	chk.IntAssert(d.Ny, 27)
	chk.IntAssert(d.Nlam, 7) // 3 + 3 prescribed uy, 1 pinned ux
	chk.IntAssert(len(d.PhiEqs), 9)

	// the defect box kills the phase field at the centre vertex
	eqc := d.Vid2node[4].GetEq("phi")
	chk.Scalar(tst, "phi(centre)", 1e-17, d.Sol.Y[eqc], 0)

	// displacement fields, distinct per generation; all of them are captured
	// exactly by the bilinear interpolation, so the transfer must be exact
	fields := map[string][]func(x, y float64) float64{
		"ux": {
			func(x, y float64) float64 { return x + 2.0*y },
			func(x, y float64) float64 { return 2.0*x - y },
			func(x, y float64) float64 { return x * y },
		},
		"uy": {
			func(x, y float64) float64 { return 3.0*x - y },
			func(x, y float64) float64 { return 1.0 - x + y },
			func(x, y float64) float64 { return 2.0 - x*y },
		},
	}
	seed := func() {
		gens := [][]float64{d.Sol.Y, d.Sol.OldY, d.Sol.OldOldY}
		for key, fcns := range fields {
			for g, y := range gens {
				for vid, nod := range d.Vid2node {
					c := d.Msh.Verts[vid].C
					y[nod.GetEq(key)] = fcns[g](c[0], c[1])
				}
			}
		}
	}
	check := func(lbl string) {
		gens := [][]float64{d.Sol.Y, d.Sol.OldY, d.Sol.OldOldY}
		for key, fcns := range fields {
			for g, y := range gens {
				got := make([]float64, len(d.Msh.Verts))
				exp := make([]float64, len(d.Msh.Verts))
				for vid, nod := range d.Vid2node {
					c := d.Msh.Verts[vid].C
					got[vid] = y[nod.GetEq(key)]
					exp[vid] = fcns[g](c[0], c[1])
				}
				chk.Vector(tst, lbl+": "+key, 1e-14, got, exp)
			}
		}
	}
	seed()

	// all four cells touch the centre vertex and must be candidates
	cids := d.RefineCandidates()
	chk.IntAssert(len(cids), 4)

	// a fully cracked region is wake, not front: no candidates there
	for _, nod := range d.Vid2node {
		d.Sol.Y[nod.GetEq("phi")] = 0
	}
	chk.IntAssert(len(d.RefineCandidates()), 0)
	for _, nod := range d.Vid2node {
		d.Sol.Y[nod.GetEq("phi")] = 1
	}
	d.Sol.Y[eqc] = 0

	// time stepping state must survive the adaptation
	d.Sol.T, d.Sol.Dt, d.Sol.DtOld = 0.3, 0.05, 0.1
	d.Sol.UseOldPhi = false

	// first refinement: uniform, hence no hanging vertices
	err = d.Adapt(cids)
	if err != nil {
		tst.Errorf("adaptation failed:\n%v", err)
		return
	}
	chk.IntAssert(len(d.Msh.Cells), 16)
	chk.IntAssert(len(d.Msh.Verts), 25)
	chk.IntAssert(len(d.Msh.Hanging), 0)
	chk.IntAssert(d.Ny, 75)
	chk.IntAssert(d.Nlam, 11) // 5 + 5 prescribed uy, 1 pinned ux
	chk.Scalar(tst, "T", 1e-17, d.Sol.T, 0.3)
	chk.Scalar(tst, "Dt", 1e-17, d.Sol.Dt, 0.05)
	chk.Scalar(tst, "DtOld", 1e-17, d.Sol.DtOld, 0.1)
	if d.Sol.UseOldPhi {
		tst.Errorf("UseOldPhi must survive the adaptation\n")
		return
	}
	check("first refinement")

	// the crack seed survives the transfer
	found := false
	for vid, v := range d.Msh.Verts {
		if v.C[0] == 0.5 && v.C[1] == 0.5 {
			eqc = d.Vid2node[vid].GetEq("phi")
			chk.Scalar(tst, "phi(centre) after transfer", 1e-17, d.Sol.Y[eqc], 0)
			found = true
		}
	}
	if !found {
		tst.Errorf("cannot find centre vertex on the refined mesh\n")
		return
	}

	// second refinement: only the four cells around the centre, leaving eight
	// hanging vertices tied to their edges (3 dof keys each)
	cids = d.Msh.CellsInBox([]float64{0.3, 0.7, 0.3, 0.7})
	chk.IntAssert(len(cids), 4)
	err = d.Adapt(cids)
	if err != nil {
		tst.Errorf("second adaptation failed:\n%v", err)
		return
	}
	chk.IntAssert(len(d.Msh.Cells), 28)
	chk.IntAssert(len(d.Msh.Verts), 41)
	chk.IntAssert(len(d.Msh.Hanging), 8)
	chk.IntAssert(d.Ny, 123)
	chk.IntAssert(d.Nlam, 11+8*3)

	// hanging phase-field equations must not enter the active set candidates
	chk.IntAssert(len(d.PhiEqs), 41-8)

	// the transfer is still exact: hanging vertices sit on straight edges
	check("second refinement")
}

func Test_adapt02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("adapt02. prerefinement of a configured region")

	// allocate analysis and set stage; the bottom-left quadrant is refined
	// before the run: 3 coarse cells plus 4 children, 2 hanging vertices on
	// the interior edges
	analysis := NewFEM("data/prerefine.sim", "", true, false, false, false, chk.Verbose)
	err := analysis.SetStage(0)
	if err != nil {
		tst.Errorf("set stage failed:\n%v", err)
		return
	}
	d := analysis.Domains[0]
	defer d.Clean()
	chk.IntAssert(len(d.Msh.Cells), 7)
	chk.IntAssert(len(d.Msh.Verts), 14)
	chk.IntAssert(len(d.Msh.Hanging), 2)
	chk.IntAssert(d.Ny, 42)
	chk.IntAssert(d.Nlam, 14) // 4 + 3 prescribed uy, 1 pinned ux, 2x3 ties
	chk.IntAssert(len(d.PhiEqs), 12)

	// the crack seed sits on the corner vertex of the prerefined quadrant
	eq := d.Vid2node[0].GetEq("phi")
	chk.Scalar(tst, "phi(origin)", 1e-17, d.Sol.Y[eq], 0)

	// setting the stage again must not refine further
	err = analysis.SetStage(0)
	if err != nil {
		tst.Errorf("second set stage failed:\n%v", err)
		return
	}
	chk.IntAssert(len(analysis.Domains[0].Msh.Cells), 7)
}
