// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_press01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("press01. fluid pressure on the cells cut by the crack")

	// allocate analysis and set stage
	analysis := NewFEM("data/press.sim", "", true, false, false, false, chk.Verbose)
	err := analysis.SetStage(0)
	if err != nil {
		tst.Errorf("set stage failed:\n%v", err)
		return
	}
	d := analysis.Domains[0]
	defer d.Clean()

	// all four cells can carry pressure; the crack seed at the origin makes the
	// mean phase field of the bottom-left cell (3/4) drop below phicrack (0.9)
	chk.IntAssert(len(d.ElemPress), 4)
	chk.Ints(tst, "crack cells", d.CrackCells(), []int{0})
	d.SetPressure(0.5) // pw(0.5) = 0.5
	for _, e := range d.ElemPress {
		pe := e.(*ElemPhase)
		if pe.Id() == 0 {
			chk.Scalar(tst, "mean phi of cut cell", 1e-15, pe.MeanPhi(d.Sol.Y), 0.75)
			chk.Scalar(tst, "pb of cut cell", 1e-15, pe.Pb, 0.5)
		} else {
			chk.Scalar(tst, io.Sf("pb of cell %d", pe.Id()), 1e-15, pe.Pb, 0)
		}
	}

	// the indicator uses the previous converged phase field: healing the
	// current one must not remove the pressure within the same step
	eq := d.Vid2node[0].GetEq("phi")
	d.Sol.Y[eq] = 1
	d.SetPressure(0.5)
	pe := d.ElemPress[0].(*ElemPhase)
	chk.IntAssert(pe.Id(), 0)
	chk.Scalar(tst, "pb still set", 1e-15, pe.Pb, 0.5)
}
