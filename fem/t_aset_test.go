// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_aset01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("aset01. active set update, build and rhs terms")

	// solution with ny = 4; equations 1 and 3 are phase-field equations
	var sol Solution
	sol.Y = []float64{0, 1, 0, 1}
	sol.OldY = []float64{0, 1, 0, 1}
	phiEqs := []int{1, 3}

	// initialised set must be empty
	var as ActiveSet
	as.Init(100)
	chk.IntAssert(as.Nact(), 0)

	// residual pushing equation 1 up (healing) activates it
	fb := []float64{0, 0.5, 0, -0.5}
	changed := as.Update(phiEqs, &sol, fb)
	if !changed {
		tst.Errorf("set must change when equation 1 becomes active\n")
		return
	}
	chk.IntAssert(as.Nact(), 1)
	if !as.Contains(1) || as.Contains(3) {
		tst.Errorf("only equation 1 must be active\n")
		return
	}

	// repeating the update with the same state must not report a change
	changed = as.Update(phiEqs, &sol, fb)
	if changed {
		tst.Errorf("set must not change on a repeated update\n")
		return
	}

	// a decreasing phase field dominates the criterion and releases equation 1
	sol.Y[1] = 0.99 // cpen*(0.99-1.00) + 0.5 = -0.5 < 0
	changed = as.Update(phiEqs, &sol, fb)
	if !changed || as.Nact() != 0 {
		tst.Errorf("equation 1 must be released\n")
		return
	}

	// an increasing phase field activates equation 3 despite fb < 0
	sol.Y[1] = 1
	sol.Y[3] = 1.02 // cpen*(1.02-1.00) - 0.5 = 1.5 > 0
	changed = as.Update(phiEqs, &sol, fb)
	if !changed || as.Nact() != 1 || !as.Contains(3) {
		tst.Errorf("equation 3 must be the only active one\n")
		return
	}

	// constraint rows and reactions: ny = 4, nlam = 2 => row offset = 6
	as.Build(4, 2)
	sol.La = []float64{0.7}
	fbb := make([]float64, 7)
	fbb[3] = -0.5
	as.AddToRhs(fbb, &sol, 2)
	chk.Scalar(tst, "fb[3] = -0.5 - λa", 1e-17, fbb[3], -1.2)
	chk.Scalar(tst, "fb[6] = φold - φ", 1e-17, fbb[6], -0.02)
	chk.Scalar(tst, "fb[1] untouched", 1e-17, fbb[1], 0)

	// clearing empties the set
	as.Clear()
	chk.IntAssert(as.Nact(), 0)
	if as.Contains(3) {
		tst.Errorf("cleared set must not contain equation 3\n")
		return
	}
}
