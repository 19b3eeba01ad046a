// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/minasel/eaglefrac/inp"
	"github.com/minasel/eaglefrac/mfrac"
	"github.com/minasel/eaglefrac/shp"
)

// ElemPhase implements the coupled displacement / phase-field element for
// quasi-static brittle fracture. Unknowns per node: {ux, uy, phi}.
//
// The weak form of the momentum balance reads
//
//   Ru(v) = ∫ [ g(φe) σ⁺:ε(v) + σ⁻:ε(v) - pb ∇・v ] dΩ
//
// with the degradation g(φe) = (1-κ)φe² + κ evaluated at the extrapolated
// phase field φe from the two previous steps, so that Kuφ vanishes and the
// coupled Newton scheme stays robust. The phase-field equation reads
//
//   Rφ(ξ) = ∫ [ (1-κ) φ (σ⁺:ε) ξ + Gc( -(1/ℓ)(1-φ)ξ + ℓ ∇φ・∇ξ ) ] dΩ
//
type ElemPhase struct {

	// basic data
	Cell *inp.Cell    // the cell structure
	X    [][]float64  // [ndim][nnode] matrix of nodal coordinates
	Nu   int          // number of displacement unknowns == ndim * nverts
	Np   int          // number of phase-field unknowns == nverts
	Ndim int          // space dimension
	Mdl  *mfrac.Model // constitutive model

	// integration points
	IpsElem []shp.Ipoint // integration points of element
	IpsFace []shp.Ipoint // integration points corresponding to faces

	// problem variables
	Umap []int // assembly map of displacement equations
	Pmap []int // assembly map of phase-field equations

	// fluid pressure inside the crack (constant per cell during one step)
	Pb float64

	// scheme flags
	FullTg bool // differentiate the spectral split instead of freezing the projections

	// scratchpad. computed @ each ip
	eps  [][]float64 // strain tensor
	sigp [][]float64 // tension-driving stress σ⁺
	sigm [][]float64 // complementary stress σ⁻
	Dp   [][]float64 // Mandel tangent ∂σ⁺/∂ε
	Dm   [][]float64 // Mandel tangent ∂σ⁻/∂ε
	Kuu  [][]float64 // [nu][nu] stiffness block
	Kpu  [][]float64 // [np][nu] coupling block
	Kpp  [][]float64 // [np][np] phase-field block
}

// initialisation ///////////////////////////////////////////////////////////////////////////////////

// register element
func init() {

	// information allocator
	infogetters["phase"] = func(sim *inp.Simulation, cell *inp.Cell, edat *inp.ElemData) *Info {
		var info Info
		nverts := cell.Shp.Nverts
		ykeys := []string{"ux", "uy", "phi"}
		info.Dofs = make([][]string, nverts)
		for m := 0; m < nverts; m++ {
			info.Dofs[m] = ykeys
		}
		info.Y2F = map[string]string{"ux": "fx", "uy": "fy", "phi": "fphi"}
		return &info
	}

	// element allocator
	eallocators["phase"] = func(sim *inp.Simulation, cell *inp.Cell, edat *inp.ElemData, x [][]float64) Elem {

		// basic data
		var o ElemPhase
		o.Cell = cell
		o.X = x
		o.Ndim = sim.Ndim
		nverts := cell.Shp.Nverts
		o.Nu = o.Ndim * nverts
		o.Np = nverts
		o.FullTg = sim.Solver.FullTangent

		// constitutive model
		matdata := sim.MatParams.Get(edat.Mat)
		if matdata == nil {
			chk.Panic("cannot get material data with name %q", edat.Mat)
		}
		o.Mdl = new(mfrac.Model)
		err := o.Mdl.Init(o.Ndim, matdata.Prms)
		if err != nil {
			chk.Panic("cannot initialise model of material %q:\n%v", edat.Mat, err)
		}

		// integration points
		o.IpsElem, o.IpsFace, err = o.Cell.Shp.GetIps(edat.Nip, edat.Nipf)
		if err != nil {
			chk.Panic("cannot allocate integration points of phase element with nip=%d and nipf=%d:\n%v", edat.Nip, edat.Nipf, err)
		}

		// scratchpad. computed @ each ip
		o.eps = la.MatAlloc(2, 2)
		o.sigp = la.MatAlloc(2, 2)
		o.sigm = la.MatAlloc(2, 2)
		o.Dp = la.MatAlloc(3, 3)
		o.Dm = la.MatAlloc(3, 3)
		o.Kuu = la.MatAlloc(o.Nu, o.Nu)
		o.Kpu = la.MatAlloc(o.Np, o.Nu)
		o.Kpp = la.MatAlloc(o.Np, o.Np)

		// return new element
		return &o
	}
}

// implementation ///////////////////////////////////////////////////////////////////////////////////

// Id returns the cell Id
func (o *ElemPhase) Id() int { return o.Cell.Id }

// SetEqs sets equations
func (o *ElemPhase) SetEqs(eqs [][]int) (err error) {
	nverts := o.Cell.Shp.Nverts
	o.Umap = make([]int, o.Nu)
	o.Pmap = make([]int, o.Np)
	for m := 0; m < nverts; m++ {
		for i := 0; i < o.Ndim; i++ {
			o.Umap[i+m*o.Ndim] = eqs[m][i]
		}
		o.Pmap[m] = eqs[m][o.Ndim]
	}
	return
}

// SetPressure sets the cell fluid pressure for the current step
func (o *ElemPhase) SetPressure(pb float64) { o.Pb = pb }

// MeanPhi returns the mean nodal phase-field value of this cell
func (o *ElemPhase) MeanPhi(y []float64) (mφ float64) {
	for _, r := range o.Pmap {
		mφ += y[r]
	}
	return mφ / float64(o.Np)
}

// AddToRhs adds -R to global residual vector fb
func (o *ElemPhase) AddToRhs(fb []float64, sol *Solution) (err error) {

	// auxiliary
	nverts := o.Cell.Shp.Nverts
	gc, ell, kap := o.Mdl.Gc, o.Mdl.Ell, o.Mdl.Kappa

	// for each integration point
	for _, ip := range o.IpsElem {

		// interpolation functions and gradients
		err = o.Cell.Shp.CalcAtIp(o.X, ip, true)
		if err != nil {
			return
		}
		coef := o.Cell.Shp.J * ip[3]
		S := o.Cell.Shp.S
		G := o.Cell.Shp.G

		// strain, phase field and its gradient @ ip
		o.ipvals(S, G, sol)
		φ := o.phi(S, sol.Y)
		var gφx, gφy float64
		for m := 0; m < nverts; m++ {
			gφx += G[m][0] * sol.Y[o.Pmap[m]]
			gφy += G[m][1] * sol.Y[o.Pmap[m]]
		}

		// stress decomposition and degradation
		o.Mdl.StressDecomp(o.eps, o.sigp, o.sigm)
		g := o.Mdl.Degrade(o.phiDeg(S, sol))
		ψ := mfrac.Contract(o.sigp, o.eps)

		// momentum balance: fb -= Ru
		for m := 0; m < nverts; m++ {
			for i := 0; i < o.Ndim; i++ {
				r := o.Umap[i+m*o.Ndim]
				var res float64
				for j := 0; j < o.Ndim; j++ {
					res += (g*o.sigp[i][j] + o.sigm[i][j]) * G[m][j]
				}
				res -= o.Pb * G[m][i]
				fb[r] -= coef * res
			}
		}

		// phase-field equation: fb -= Rφ
		for m := 0; m < nverts; m++ {
			r := o.Pmap[m]
			res := (1.0-kap)*φ*ψ*S[m] + gc*(-(1.0-φ)*S[m]/ell+ell*(gφx*G[m][0]+gφy*G[m][1]))
			fb[r] -= coef * res
		}
	}

	// natural boundary conditions
	return o.add_natbcs_to_rhs(fb, sol)
}

// AddToKb adds element K to global Jacobian matrix Kb
func (o *ElemPhase) AddToKb(Kb *la.Triplet, sol *Solution, firstIt bool) (err error) {

	// auxiliary
	nverts := o.Cell.Shp.Nverts
	gc, ell, kap := o.Mdl.Gc, o.Mdl.Ell, o.Mdl.Kappa

	// zero blocks
	la.MatFill(o.Kuu, 0)
	la.MatFill(o.Kpu, 0)
	la.MatFill(o.Kpp, 0)

	// for each integration point
	for _, ip := range o.IpsElem {

		// interpolation functions and gradients
		err = o.Cell.Shp.CalcAtIp(o.X, ip, true)
		if err != nil {
			return
		}
		coef := o.Cell.Shp.J * ip[3]
		S := o.Cell.Shp.S
		G := o.Cell.Shp.G

		// strain and phase field @ ip
		o.ipvals(S, G, sol)
		φ := o.phi(S, sol.Y)

		// tangents and degradation
		o.Mdl.StressDecomp(o.eps, o.sigp, o.sigm)
		o.Mdl.TangentDecomp(o.eps, o.Dp, o.Dm, o.FullTg)
		g := o.Mdl.Degrade(o.phiDeg(S, sol))
		ψ := mfrac.Contract(o.sigp, o.eps)

		// Kuu += Bᵀ (g D⁺ + D⁻) B with the Mandel basis {εxx, εyy, √2 εxy}
		for m := 0; m < nverts; m++ {
			bm := bmat(G, m)
			for n := 0; n < nverts; n++ {
				bn := bmat(G, n)
				for i := 0; i < 2; i++ {
					for j := 0; j < 2; j++ {
						var v float64
						for a := 0; a < 3; a++ {
							for b := 0; b < 3; b++ {
								v += bm[a][i] * (g*o.Dp[a][b] + o.Dm[a][b]) * bn[b][j]
							}
						}
						o.Kuu[i+m*o.Ndim][j+n*o.Ndim] += coef * v
					}
				}
			}
		}

		// Kφu: ∂ψ/∂ε = 2σ⁺ since σ⁺ is degree-1 homogeneous in ε
		for m := 0; m < nverts; m++ {
			for n := 0; n < nverts; n++ {
				for j := 0; j < 2; j++ {
					dψ := 2.0 * (o.sigp[j][0]*G[n][0] + o.sigp[j][1]*G[n][1])
					o.Kpu[m][j+n*o.Ndim] += coef * (1.0 - kap) * φ * S[m] * dψ
				}
			}
		}

		// Kφφ
		for m := 0; m < nverts; m++ {
			for n := 0; n < nverts; n++ {
				v := (1.0-kap)*ψ*S[m]*S[n] + gc*(S[m]*S[n]/ell+ell*(G[m][0]*G[n][0]+G[m][1]*G[n][1]))
				o.Kpp[m][n] += coef * v
			}
		}
	}

	// add K to sparse matrix Kb
	for i, I := range o.Umap {
		for j, J := range o.Umap {
			Kb.Put(I, J, o.Kuu[i][j])
		}
	}
	for i, I := range o.Pmap {
		for j, J := range o.Umap {
			Kb.Put(I, J, o.Kpu[i][j])
		}
		for j, J := range o.Pmap {
			Kb.Put(I, J, o.Kpp[i][j])
		}
	}
	return
}

// Ipoints returns the real coordinates of integration points [nip][ndim]
func (o *ElemPhase) Ipoints() (coords [][]float64) {
	coords = la.MatAlloc(len(o.IpsElem), o.Ndim)
	for idx, ip := range o.IpsElem {
		coords[idx] = o.Cell.Shp.IpRealCoords(o.X, ip)
	}
	return
}

// OutIpsData returns data from all integration points for output
func (o *ElemPhase) OutIpsData() (data []*OutIpData) {
	for _, ip := range o.IpsElem {
		ipc := ip
		calc := func(sol *Solution) map[string]float64 {
			err := o.Cell.Shp.CalcAtIp(o.X, ipc, true)
			if err != nil {
				return nil
			}
			o.ipvals(o.Cell.Shp.S, o.Cell.Shp.G, sol)
			o.Mdl.StressDecomp(o.eps, o.sigp, o.sigm)
			ψ := mfrac.Contract(o.sigp, o.eps)
			return map[string]float64{
				"exx": o.eps[0][0],
				"eyy": o.eps[1][1],
				"exy": o.eps[0][1],
				"psi": ψ,
				"phi": o.phi(o.Cell.Shp.S, sol.Y),
			}
		}
		x := o.Cell.Shp.IpRealCoords(o.X, ip)
		data = append(data, &OutIpData{o.Id(), x, calc})
	}
	return
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////////

// ipvals computes the strain tensor at the current integration point
func (o *ElemPhase) ipvals(S []float64, G [][]float64, sol *Solution) {
	nverts := o.Cell.Shp.Nverts
	o.eps[0][0], o.eps[1][1], o.eps[0][1] = 0, 0, 0
	for m := 0; m < nverts; m++ {
		ux := sol.Y[o.Umap[0+m*o.Ndim]]
		uy := sol.Y[o.Umap[1+m*o.Ndim]]
		o.eps[0][0] += G[m][0] * ux
		o.eps[1][1] += G[m][1] * uy
		o.eps[0][1] += 0.5 * (G[m][1]*ux + G[m][0]*uy)
	}
	o.eps[1][0] = o.eps[0][1]
}

// phi interpolates the phase field from the given solution vector
func (o *ElemPhase) phi(S []float64, y []float64) (φ float64) {
	for m, r := range o.Pmap {
		φ += S[m] * y[r]
	}
	return
}

// phiDeg returns the phase-field value entering the degradation function: the
// previous converged value, or its linear extrapolation in time
//   φe = φold + (dt/dtOld)(φold - φoldold)
func (o *ElemPhase) phiDeg(S []float64, sol *Solution) (φe float64) {
	φe = o.phi(S, sol.OldY)
	if !sol.UseOldPhi && sol.DtOld > 0 {
		φe += (sol.Dt / sol.DtOld) * (φe - o.phi(S, sol.OldOldY))
	}
	return math.Min(math.Max(φe, 0), 1)
}

// bmat returns the Mandel-basis strain-displacement matrix of one node
func bmat(G [][]float64, m int) [3][2]float64 {
	return [3][2]float64{
		{G[m][0], 0},
		{0, G[m][1]},
		{G[m][1] / math.Sqrt2, G[m][0] / math.Sqrt2},
	}
}

// add_natbcs_to_rhs adds natural boundary conditions (face loads) to fb
func (o *ElemPhase) add_natbcs_to_rhs(fb []float64, sol *Solution) (err error) {
	for _, fc := range o.Cell.FaceBcs {
		if fc.Cond != "qn" {
			continue
		}
		for _, ip := range o.IpsFace {
			err = o.Cell.Shp.CalcAtFaceIp(o.X, ip, fc.FaceId)
			if err != nil {
				return
			}
			coef := ip[3] * fc.Func.F(sol.T, nil)
			nvec := o.Cell.Shp.Fnvec
			Sf := o.Cell.Shp.Sf
			for j, m := range o.Cell.Shp.FaceLocalVerts[fc.FaceId] {
				for i := 0; i < o.Ndim; i++ {
					r := o.Umap[i+m*o.Ndim]
					fb[r] += coef * Sf[j] * nvec[i]
				}
			}
		}
	}
	return
}
