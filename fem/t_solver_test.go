// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_cut01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cut01. time step cutting down to the minimum")

	// nmaxit = 1 makes every attempt diverge: starting from dt = 0.5 the solver
	// must cut by dtcut = 10 exactly once per failed attempt (0.5, 0.05, 0.005)
	// and give up when the next step would fall below dtmin = 0.001
	analysis := NewFEM("data/cut.sim", "", true, true, false, false, chk.Verbose)
	err := analysis.Run()
	if err == nil {
		tst.Errorf("an error is expected when the time step reaches the minimum\n")
		return
	}
	if !strings.Contains(err.Error(), "minimum") {
		tst.Errorf("wrong error:\n%v", err)
		return
	}
	if chk.Verbose {
		io.Pf("error message is:\n%v\n", err)
	}

	// one residuals sublist per attempt, each holding a single iteration
	sum := analysis.Summary
	chk.IntAssert(len(sum.Resids.Ptrs)-1, 3)
	chk.IntAssert(len(sum.Resids.Vals), 3)
}

func Test_cut02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cut02. abort on continued divergence")

	// ndvgmax = 2 must abort on the second consecutive diverging attempt,
	// long before the time step reaches the minimum
	analysis := NewFEM("data/cutmax.sim", "", true, true, false, false, chk.Verbose)
	err := analysis.Run()
	if err == nil {
		tst.Errorf("an error is expected after ndvgmax diverging attempts\n")
		return
	}
	if !strings.Contains(err.Error(), "divergence") {
		tst.Errorf("wrong error:\n%v", err)
		return
	}
	if chk.Verbose {
		io.Pf("error message is:\n%v\n", err)
	}
	chk.IntAssert(len(analysis.Summary.Resids.Ptrs)-1, 2)
}
