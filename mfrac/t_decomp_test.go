// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mfrac

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"
)

func Test_decomp01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("decomp01. spectral split of strain")

	// pure tension: ε⁺ must equal ε
	ε := [][]float64{
		{0.001, 0.0},
		{0.0, 0.002},
	}
	εp := la.MatAlloc(2, 2)
	StrainPlus(ε, εp)
	chk.Matrix(tst, "ε⁺ (tension)", 1e-15, εp, ε)

	// pure compression: ε⁺ must vanish
	ε = [][]float64{
		{-0.001, 0.0},
		{0.0, -0.002},
	}
	StrainPlus(ε, εp)
	chk.Matrix(tst, "ε⁺ (compression)", 1e-15, εp, [][]float64{{0, 0}, {0, 0}})

	// pure shear: eigenvalues ±γ; ε⁺ keeps the positive one only
	γ := 0.003
	ε = [][]float64{
		{0.0, γ},
		{γ, 0.0},
	}
	StrainPlus(ε, εp)
	chk.Matrix(tst, "ε⁺ (shear)", 1e-15, εp, [][]float64{{γ / 2.0, γ / 2.0}, {γ / 2.0, γ / 2.0}})
}

func Test_decomp02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("decomp02. stress split additivity")

	var mdl Model
	err := mdl.Init(2, []*fun.Prm{
		&fun.Prm{N: "mu", V: 1000},
		&fun.Prm{N: "lam", V: 1e6},
		&fun.Prm{N: "gc", V: 1},
		&fun.Prm{N: "ell", V: 1e-6},
	})
	if err != nil {
		tst.Errorf("model initialisation failed:\n%v", err)
		return
	}

	σp := la.MatAlloc(2, 2)
	σm := la.MatAlloc(2, 2)
	for _, ε := range [][][]float64{
		{{0.001, 0.0005}, {0.0005, -0.002}},
		{{-0.003, 0.001}, {0.001, 0.002}},
		{{0.0, 0.0}, {0.0, 0.0}},
		{{-0.001, 0.0}, {0.0, -0.001}},
	} {
		mdl.StressDecomp(ε, σp, σm)

		// σ⁺ + σ⁻ must reconstruct the isotropic elastic stress
		trε := ε[0][0] + ε[1][1]
		σ := la.MatAlloc(2, 2)
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				σ[i][j] = 2.0 * mdl.Mu * ε[i][j]
			}
			σ[i][i] += mdl.Lam * trε
		}
		sum := la.MatAlloc(2, 2)
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				sum[i][j] = σp[i][j] + σm[i][j]
			}
		}
		chk.Matrix(tst, "σ⁺+σ⁻ == σ", 1e-9, sum, σ)

		// no volumetric tension term when tr ε ≤ 0
		if trε <= 0 {
			trσp := σp[0][0] + σp[1][1]
			εp := la.MatAlloc(2, 2)
			StrainPlus(ε, εp)
			chk.Scalar(tst, "tr σ⁺ == 2μ tr ε⁺", 1e-9, trσp, 2.0*mdl.Mu*(εp[0][0]+εp[1][1]))
		}
	}
}

func Test_decomp03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("decomp03. tangent consistency: D ε = σ")

	var mdl Model
	err := mdl.Init(2, []*fun.Prm{
		&fun.Prm{N: "E", V: 2600},
		&fun.Prm{N: "nu", V: 0.3},
		&fun.Prm{N: "gc", V: 1},
		&fun.Prm{N: "ell", V: 0.01},
	})
	if err != nil {
		tst.Errorf("model initialisation failed:\n%v", err)
		return
	}

	Dp := la.MatAlloc(3, 3)
	Dm := la.MatAlloc(3, 3)
	σp := la.MatAlloc(2, 2)
	σm := la.MatAlloc(2, 2)
	εv := make([]float64, 3)
	σv := make([]float64, 3)
	for _, ε := range [][][]float64{
		{{0.001, 0.0005}, {0.0005, -0.002}},
		{{0.002, -0.001}, {-0.001, 0.001}},
		{{-0.001, 0.0003}, {0.0003, -0.0005}},
	} {
		mdl.StressDecomp(ε, σp, σm)
		Man2(εv, ε)

		// both the frozen and the full operator reproduce the stress when
		// applied to the strain they were linearised at (homogeneity degree 1)
		for _, full := range []bool{false, true} {
			mdl.TangentDecomp(ε, Dp, Dm, full)

			Man2(σv, σp)
			res := make([]float64, 3)
			la.MatVecMul(res, 1, Dp, εv)
			chk.Vector(tst, "D⁺ ε == σ⁺", 1e-9, res, σv)

			Man2(σv, σm)
			la.MatVecMul(res, 1, Dm, εv)
			chk.Vector(tst, "D⁻ ε == σ⁻", 1e-9, res, σv)
		}
	}
}

func Test_decomp04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("decomp04. degradation factor bounds")

	var mdl Model
	err := mdl.Init(2, mdl.GetPrms())
	if err != nil {
		tst.Errorf("model initialisation failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "g(1)", 1e-15, mdl.Degrade(1), 1.0)
	chk.Scalar(tst, "g(0)", 1e-15, mdl.Degrade(0), mdl.Kappa)
	for _, φ := range utl.LinSpace(0, 1, 11) {
		g := mdl.Degrade(φ)
		if g < mdl.Kappa || g > 1.0 {
			tst.Errorf("degradation factor out of range: g(%g) = %g", φ, g)
			return
		}
	}
}
