// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_sim01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim01. read simulation file")

	sim := ReadSim("data/frac01.sim", "", false, 0)
	if sim == nil {
		tst.Errorf("cannot read simulation file")
		return
	}

	// global data and defaults
	chk.IntAssert(sim.Ndim, 2)
	chk.IntAssert(sim.Solver.NmaxIt, 50)
	chk.Scalar(tst, "fbtol", 1e-15, sim.Solver.FbTol, 1e-8)
	chk.Scalar(tst, "cpen", 1e-15, sim.Solver.Cpen, 100)
	chk.Scalar(tst, "dtcut", 1e-15, sim.Solver.DtCut, 10)

	// material
	mat := sim.MatParams.Get("rock")
	if mat == nil {
		tst.Errorf("cannot find material")
		return
	}
	if mat.Model != "phasefield" {
		tst.Errorf("wrong model name: %q", mat.Model)
		return
	}
	chk.Scalar(tst, "mu", 1e-15, mat.Prms.Find("mu").V, 1000)

	// mesh was generated
	reg := sim.Regions[0]
	chk.IntAssert(len(reg.Msh.Cells), 16)
	chk.IntAssert(len(reg.Msh.Verts), 25)
	ed := reg.Etag2data(-1)
	if ed == nil {
		tst.Errorf("cannot find element data")
		return
	}
	if ed.Type != "phase" {
		tst.Errorf("wrong element type: %q", ed.Type)
		return
	}

	// stage and time control
	stg := sim.Stages[0]
	chk.Scalar(tst, "tf", 1e-15, stg.Control.Tf, 1.0)
	chk.Scalar(tst, "dt", 1e-15, stg.Control.Dt, 0.1)
	chk.Scalar(tst, "dt(0)", 1e-15, stg.Control.DtFunc.F(0, nil), 0.1)

	// boundary functions
	fb := stg.GetFaceBc(-12)
	if fb == nil {
		tst.Errorf("cannot find face bc")
		return
	}
	fcn, err := sim.Functions.Get(fb.Funcs[0])
	if err != nil {
		tst.Errorf("cannot get function:\n%v", err)
		return
	}
	chk.Scalar(tst, "pull(1)", 1e-15, fcn.F(1, nil), 0.0001)
	nb := stg.GetNodeBc(-100)
	if nb == nil {
		tst.Errorf("cannot find node bc")
		return
	}
	if nb.Keys[0] != "ux" {
		tst.Errorf("wrong node bc key: %q", nb.Keys[0])
	}
}
