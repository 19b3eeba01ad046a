// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_out01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out01. results are written even without a summary")

	// run without a summary structure
	analysis := NewFEM("data/onecell.sim", "out", true, false, false, false, chk.Verbose)
	err := analysis.Run()
	if err != nil {
		tst.Errorf("run failed:\n%v", err)
		return
	}
	d := analysis.Domains[0]
	defer d.Clean()

	// the final solution (tidx 1: initial state is tidx 0) must be on disc
	yfin := make([]float64, d.Ny)
	copy(yfin, d.Sol.Y)
	err = d.ReadSol(analysis.Sim.DirOut, analysis.Sim.Key, analysis.Sim.EncType, 1)
	if err != nil {
		tst.Errorf("cannot read the final solution back:\n%v", err)
		return
	}
	chk.Scalar(tst, "T (read back)", 1e-17, d.Sol.T, 1)
	chk.Vector(tst, "Y (read back)", 1e-17, d.Sol.Y, yfin)

	// a corrupt results file must be reported, not silently accepted
	var junk bytes.Buffer
	junk.WriteString("not a solution file")
	fn := out_nod_path(analysis.Sim.DirOut, analysis.Sim.Key, analysis.Sim.EncType, 99, 0)
	io.WriteFile(fn, &junk)
	err = d.ReadSol(analysis.Sim.DirOut, analysis.Sim.Key, analysis.Sim.EncType, 99)
	if err == nil {
		tst.Errorf("an error is expected when reading a corrupt results file\n")
	}
}
