// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mfrac implements the anisotropic stress-decomposition constitutive
// model for brittle phase-field fracture. The strain tensor is split into a
// positive-semidefinite part (spectral decomposition keeping non-negative
// eigenvalues) and its complement; only the "plus" stress drives crack growth.
package mfrac

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Model holds the material parameters of the phase-field fracture law
type Model struct {
	Mu    float64 // shear modulus (Lamé)
	Lam   float64 // Lamé's first parameter
	Kappa float64 // small regularization preventing full stiffness loss at φ=0
	Gc    float64 // fracture energy coefficient
	Ell   float64 // length-scale regularization parameter
	Ndim  int     // space dimension
}

// Init initialises the model from a parameters set
func (o *Model) Init(ndim int, prms fun.Prms) (err error) {
	if ndim != 2 {
		return chk.Err("mfrac: model is implemented for 2D (plane strain) only. ndim=%d is invalid", ndim)
	}
	o.Ndim = ndim
	o.Kappa = 1e-12
	for _, p := range prms {
		switch p.N {
		case "mu":
			o.Mu = p.V
		case "lam":
			o.Lam = p.V
		case "kappa":
			o.Kappa = p.V
		case "gc":
			o.Gc = p.V
		case "ell":
			o.Ell = p.V
		case "E", "nu", "rho":
			// alternative elastic constants handled below
		default:
			return chk.Err("mfrac: parameter named %q is incorrect or unavailable", p.N)
		}
	}
	if o.Mu < 1e-14 {
		if pE, pν := prms.Find("E"), prms.Find("nu"); pE != nil && pν != nil {
			E, ν := pE.V, pν.V
			o.Mu = E / (2.0 * (1.0 + ν))
			o.Lam = E * ν / ((1.0 + ν) * (1.0 - 2.0*ν))
		}
	}
	if o.Mu < 1e-14 {
		return chk.Err("mfrac: shear modulus must be positive. mu=%g is invalid", o.Mu)
	}
	if o.Ell < 1e-14 {
		return chk.Err("mfrac: length-scale parameter must be positive. ell=%g is invalid", o.Ell)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Model) GetPrms() fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "mu", V: 1000},
		&fun.Prm{N: "lam", V: 1e6},
		&fun.Prm{N: "kappa", V: 1e-12},
		&fun.Prm{N: "gc", V: 1},
		&fun.Prm{N: "ell", V: 1e-6},
	}
}

// Degrade returns the stiffness degradation factor g(φ) = (1-κ)φ² + κ
func (o Model) Degrade(φ float64) float64 {
	return (1.0-o.Kappa)*φ*φ + o.Kappa
}

// Eigenpairs computes the eigenvalues and eigenvectors of a 2x2 symmetric
// tensor ε = [[a, c], [c, b]]. Closed form; λ[0] ≥ λ[1]; n[i] is the unit
// eigenvector corresponding to λ[i]
func Eigenpairs(ε [][]float64) (λ [2]float64, n [2][2]float64) {
	a, b, c := ε[0][0], ε[1][1], ε[0][1]
	h := (a + b) / 2.0
	r := math.Sqrt((a-b)*(a-b)/4.0 + c*c)
	λ[0], λ[1] = h+r, h-r
	if math.Abs(c) < 1e-15*(1.0+math.Abs(a)+math.Abs(b)) {
		if a >= b {
			n[0] = [2]float64{1, 0}
			n[1] = [2]float64{0, 1}
		} else {
			n[0] = [2]float64{0, 1}
			n[1] = [2]float64{1, 0}
		}
		return
	}
	// eigenvector for λ via (c, λ-a); the second one is its 90° rotation
	v0, v1 := c, λ[0]-a
	den := math.Sqrt(v0*v0 + v1*v1)
	n[0] = [2]float64{v0 / den, v1 / den}
	n[1] = [2]float64{-n[0][1], n[0][0]}
	return
}

// StrainPlus computes the positive-semidefinite part of the strain tensor by
// spectral decomposition with non-negative eigenvalues
func StrainPlus(ε, εplus [][]float64) {
	λ, n := Eigenpairs(ε)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			εplus[i][j] = 0
			for k := 0; k < 2; k++ {
				if λ[k] > 0 {
					εplus[i][j] += λ[k] * n[k][i] * n[k][j]
				}
			}
		}
	}
}

// StressDecomp decomposes the stress corresponding to the strain ε into a
// tension-driving part σ⁺ and the complement σ⁻:
//   σ⁺ = 2μ ε⁺ + λ ⟨tr ε⟩₊ I
//   σ⁻ = 2μ (ε - ε⁺) + λ (tr ε - ⟨tr ε⟩₊) I
// The sum σ⁺ + σ⁻ reconstructs the full linear-elastic stress exactly
func (o Model) StressDecomp(ε, σplus, σminus [][]float64) {
	StrainPlus(ε, σplus) // σplus holds ε⁺ temporarily
	trε := ε[0][0] + ε[1][1]
	trεpos := math.Max(trε, 0.0)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			εp := σplus[i][j]
			σplus[i][j] = 2.0 * o.Mu * εp
			σminus[i][j] = 2.0 * o.Mu * (ε[i][j] - εp)
		}
		σplus[i][i] += o.Lam * trεpos
		σminus[i][i] += o.Lam * (trε - trεpos)
	}
}

// Contract computes the double-dot product a:b of two 2x2 tensors
func Contract(a, b [][]float64) (res float64) {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			res += a[i][j] * b[i][j]
		}
	}
	return
}

// tangent operators //////////////////////////////////////////////////////////////////////////////

// Mandel ordering for 2D symmetric tensors: {t00, t11, √2·t01}
const sq2 = math.Sqrt2

// Man2 converts a 2x2 symmetric tensor into its Mandel vector {t00, t11, √2 t01}
func Man2(v []float64, t [][]float64) {
	v[0], v[1], v[2] = t[0][0], t[1][1], sq2*t[0][1]
}

// TangentDecomp computes the Mandel-basis tangent operators D⁺ = ∂σ⁺/∂ε and
// D⁻ = ∂σ⁻/∂ε at the given strain. With full=false the spectral projection is
// held fixed (frozen/secant variant, robust near the tension/compression
// switch); with full=true the derivative of the eigenvalue split is included
func (o Model) TangentDecomp(ε [][]float64, Dplus, Dminus [][]float64, full bool) {
	λ, n := Eigenpairs(ε)

	// projection P⁺ onto the non-negative eigenspace
	var P [3][3]float64
	for k := 0; k < 2; k++ {
		if λ[k] <= 0 {
			continue
		}
		m := [3]float64{n[k][0] * n[k][0], n[k][1] * n[k][1], sq2 * n[k][0] * n[k][1]}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				P[i][j] += m[i] * m[j]
			}
		}
	}

	// coupling term from the derivative of the eigenvalue split
	if full {
		var θ float64
		if math.Abs(λ[0]-λ[1]) > 1e-12*(1.0+math.Abs(λ[0])+math.Abs(λ[1])) {
			θ = (math.Max(λ[0], 0) - math.Max(λ[1], 0)) / (λ[0] - λ[1])
		} else if λ[0] > 0 {
			θ = 1.0
		}
		if θ > 0 {
			q := [3]float64{
				n[0][0] * n[1][0],
				n[0][1] * n[1][1],
				(n[0][0]*n[1][1] + n[0][1]*n[1][0]) / sq2,
			}
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					P[i][j] += θ * 2.0 * q[i] * q[j]
				}
			}
		}
	}

	// volumetric switch
	trε := ε[0][0] + ε[1][1]
	hvol := 0.0
	if trε > 0 {
		hvol = 1.0
	}

	// D⁺ = 2μ P⁺ + λ H(tr ε) J  and  D⁻ = 2μ (I - P⁺) + λ (1 - H) J
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			id := 0.0
			if i == j {
				id = 1.0
			}
			jj := 0.0
			if i < 2 && j < 2 {
				jj = 1.0
			}
			Dplus[i][j] = 2.0*o.Mu*P[i][j] + o.Lam*hvol*jj
			Dminus[i][j] = 2.0*o.Mu*(id-P[i][j]) + o.Lam*(1.0-hvol)*jj
		}
	}
}
