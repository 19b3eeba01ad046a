// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/minasel/eaglefrac/inp"
)

// Solution holds the solution data @ nodes.
//
//        / u \         / u  \
//        |   | => y =  |    |
//  yb =  | φ |         \ φ  / (ny x 1)
//        | λ |
//        \ λa/ (nyb x 1)
//
// λ are the Lagrange multipliers of the essential boundary conditions and
// hanging-vertex ties; λa are the multipliers of the crack irreversibility
// constraints (one per active phase-field equation)
type Solution struct {

	// current state
	T     float64   // current time
	Dt    float64   // current time increment
	DtOld float64   // time increment of previous accepted step
	Y     []float64 // DOFs (solution variables); y = {u, φ}
	L     []float64 // Lagrange multipliers of boundary conditions and ties
	La    []float64 // Lagrange multipliers of the active set

	// previous steps (for extrapolation and irreversibility)
	OldY    []float64 // converged solution of previous step
	OldOldY []float64 // converged solution of the step before the previous one

	// auxiliary
	ΔY        []float64 // total increment (for nonlinear solver)
	UseOldPhi bool      // degrade with the previous converged phase field instead of extrapolating
}

// Domain holds all Nodes and Elements active during a stage in addition to the Solution at nodes.
type Domain struct {

	// init: auxiliary variables
	Distr  bool            // distributed/parallel run
	Proc   int             // this processor number
	Sim    *inp.Simulation // [from FEM] input data
	Reg    *inp.Region     // region data
	Msh    *inp.Mesh       // mesh data
	LinSol la.LinSol       // linear solver

	// stage: nodes and elements in this processor
	Nodes  []*Node // active nodes (for each stage)
	Elems  []Elem  // [procNcells] only elements in this processor (for each stage)
	MyCids []int   // [procNcells] the ids of cells in this processor
	StgIdx int     // current stage index; needed to rebuild the domain upon mesh adaptation

	// stage: auxiliary maps for dofs and equation types
	F2Y   map[string]string // converts f-keys to y-keys; e.g.: "fx" => "ux"
	YandC map[string]bool   // y keys; e.g. "ux", "phi"

	// stage: auxiliary maps for nodes and elements
	Vid2node []*Node // [nverts] VertexId => index in Nodes
	Cid2elem []Elem  // [ncells] CellId => index in Elems. Cells in other processors are 'nil'

	// stage: subsets of elements
	ElemPress []ElemPressurized // elements that can carry a crack fluid pressure

	// stage: constraints and prescribed forces
	EssenBcs EssentialBcs // constraints (Lagrange multipliers)
	PtNatBcs PtNaturalBcs // point loads such as prescribed forces at nodes
	ActSet   ActiveSet    // crack irreversibility constraints

	// stage: phase-field equations subject to the irreversibility constraint
	PhiEqs []int // free phase-field equations (no boundary condition nor tie)

	// stage: dimensions
	NnzKb int // number of nonzeros in Kb matrix
	Ny    int // total number of dofs, except λ
	Nlam  int // total number of Lagrange multipliers of bcs and ties
	NnzA  int // number of nonzeros in A (constraints) matrix
	Nyb   int // number of equations with the empty active set: ny + nλ

	// stage: solution and linear solver
	Sol      *Solution   // solution state
	Kb       *la.Triplet // Jacobian == dRdy
	Fb       []float64   // residual == -fb; allocated for the largest possible active set
	Wb       []float64   // workspace
	InitLSol bool        // flag telling that linear solver needs to be initialised prior to any further call
}

// Clean cleans memory allocated by domain
func (o *Domain) Clean() {
	o.LinSol.Clean()
}

// NewDomains returns domains
func NewDomains(sim *inp.Simulation, proc, nproc int, distr bool) (doms []*Domain) {
	doms = make([]*Domain, len(sim.Regions))
	for i, reg := range sim.Regions {
		doms[i] = new(Domain)
		doms[i].Distr = distr
		doms[i].Proc = proc
		doms[i].Sim = sim
		doms[i].Reg = reg
		doms[i].Msh = reg.Msh
		doms[i].LinSol = la.GetSolver(sim.LinSol.Name)
	}
	return
}

// SetStage sets nodes, equation numbers and auxiliary data for given stage
func (o *Domain) SetStage(stgidx int) (err error) {

	// pointer to stage structure
	stg := o.Sim.Stages[stgidx]
	o.StgIdx = stgidx

	// nodes and elements
	o.Nodes = make([]*Node, 0)
	o.Elems = make([]Elem, 0)
	o.MyCids = make([]int, 0)

	// auxiliary maps for dofs
	o.F2Y = make(map[string]string)
	o.YandC = make(map[string]bool)

	// auxiliary maps for nodes and elements
	o.Vid2node = make([]*Node, len(o.Msh.Verts))
	o.Cid2elem = make([]Elem, len(o.Msh.Cells))

	// subsets of elements
	o.ElemPress = make([]ElemPressurized, 0)

	// allocate nodes and cells ----------------------------------------------------------------------

	// for each cell
	var eq int // current equation number => total number of equations @ end of loop
	o.NnzKb = 0
	for _, cell := range o.Msh.Cells {

		// set cell's face boundary conditions
		err = cell.SetFaceConds(stg, o.Sim.Functions)
		if err != nil {
			return chk.Err("cannot set face boundary conditions:\n%v", err)
		}

		// get element info
		info, err := GetElemInfo(cell, o.Reg, o.Sim)
		if err != nil {
			return chk.Err("get element information failed:\n%v", err)
		}
		chk.IntAssert(len(info.Dofs), len(cell.Verts))

		// store y and f information
		for ykey, fkey := range info.Y2F {
			o.F2Y[fkey] = ykey
			o.YandC[ykey] = true
		}

		// loop over nodes of this element
		var eNdof int // number of DOFs of this element
		for j, v := range cell.Verts {

			// new or existent node
			var nod *Node
			if o.Vid2node[v] == nil {
				nod = NewNode(o.Msh.Verts[v])
				o.Vid2node[v] = nod
				o.Nodes = append(o.Nodes, nod)
			} else {
				nod = o.Vid2node[v]
			}

			// set DOFs and equation numbers
			for _, ukey := range info.Dofs[j] {
				eq = nod.AddDofAndEq(ukey, eq)
				eNdof += 1
			}
		}

		// number of non-zeros
		o.NnzKb += eNdof * eNdof

		// allocate element
		mycell := cell.Part == o.Proc // cell belongs to this processor
		if mycell || !o.Distr {

			// new element
			ele, err := NewElem(cell, o.Reg, o.Sim)
			if err != nil {
				return chk.Err("new element failed:\n%v", err)
			}
			o.Cid2elem[cell.Id] = ele
			o.Elems = append(o.Elems, ele)
			o.MyCids = append(o.MyCids, ele.Id())

			// give equation numbers to new element
			eqs := make([][]int, len(cell.Verts))
			for j, v := range cell.Verts {
				for _, dof := range o.Vid2node[v].Dofs {
					eqs[j] = append(eqs[j], dof.Eq)
				}
			}
			err = ele.SetEqs(eqs)
			if err != nil {
				return chk.Err("cannot set element equations:\n%v", err)
			}

			// subsets of elements
			if e, ok := ele.(ElemPressurized); ok {
				o.ElemPress = append(o.ElemPress, e)
			}
		}
	}

	// essential and natural boundary conditions -----------------------------------------------------

	// (re)set constraints and prescribed forces structures
	o.EssenBcs.Reset()
	o.PtNatBcs.Reset()
	o.ActSet.Init(o.Sim.Solver.Cpen)

	// face boundary conditions
	for _, cellsAndFaces := range o.Msh.FaceTag2cells {
		for _, pair := range cellsAndFaces {
			cell := pair.C
			for _, fc := range cell.FaceBcs {
				var enodes []*Node
				for _, v := range fc.GlobalVerts {
					enodes = append(enodes, o.Vid2node[v])
				}
				if o.YandC[fc.Cond] {
					err = o.EssenBcs.Set(fc.Cond, enodes, fc.Func)
					if err != nil {
						return chk.Err("setting of essential boundary conditions failed:\n%v", err)
					}
				}
			}
		}
	}

	// vertex boundary conditions
	for _, nc := range stg.NodeBcs {
		verts, ok := o.Msh.VertTag2verts[nc.Tag]
		if !ok {
			return chk.Err("cannot find vertices with tag = %d to assign node boundary conditions", nc.Tag)
		}
		for _, v := range verts {
			if o.Vid2node[v.Id] == nil {
				continue
			}
			n := o.Vid2node[v.Id]
			for j, key := range nc.Keys {
				fcn, err := o.Sim.Functions.Get(nc.Funcs[j])
				if err != nil {
					return chk.Err("cannot find function named %q:\n%v", nc.Funcs[j], err)
				}
				if o.YandC[key] {
					o.EssenBcs.Set(key, []*Node{n}, fcn)
				} else {
					o.PtNatBcs.Set(key, n, o.F2Y[key], fcn)
				}
			}
		}
	}

	// hanging vertices from mesh refinement
	for m, ab := range o.Msh.Hanging {
		nm, na, nb := o.Vid2node[m], o.Vid2node[ab[0]], o.Vid2node[ab[1]]
		if nm == nil || na == nil || nb == nil {
			return chk.Err("hanging vertex %d or its edge endpoints are not active", m)
		}
		err = o.EssenBcs.SetTie(nm, na, nb)
		if err != nil {
			return chk.Err("cannot tie hanging vertex:\n%v", err)
		}
	}

	// resize slices ----------------------------------------------------------------------------------

	// size of arrays
	o.Ny = eq
	o.Nlam, o.NnzA = o.EssenBcs.Build(o.Ny)
	o.Nyb = o.Ny + o.Nlam

	// phase-field equations that may enter the active set
	constrained := o.EssenBcs.ConstrainedEqs()
	o.PhiEqs = make([]int, 0)
	for _, nod := range o.Nodes {
		eqφ := nod.GetEq("phi")
		if eqφ >= 0 && !constrained[eqφ] {
			o.PhiEqs = append(o.PhiEqs, eqφ)
		}
	}
	sort.Ints(o.PhiEqs)

	// solution structure and linear system; fb and wb can hold the largest possible active set
	nmax := o.Nyb + len(o.PhiEqs)
	o.Sol = new(Solution)
	o.Kb = new(la.Triplet)
	o.Fb = make([]float64, nmax)
	o.Wb = make([]float64, nmax)
	o.Kb.Init(o.Nyb, o.Nyb, o.NnzKb+2*o.NnzA)
	o.InitLSol = true // tell solver that lis has to be initialised before use

	// allocate arrays
	o.Sol.Y = make([]float64, o.Ny)
	o.Sol.ΔY = make([]float64, o.Ny)
	o.Sol.L = make([]float64, o.Nlam)
	o.Sol.La = make([]float64, 0)
	o.Sol.OldY = make([]float64, o.Ny)
	o.Sol.OldOldY = make([]float64, o.Ny)

	// success
	return
}

// SetIniVals sets initial values: intact material (φ = 1) everywhere except at
// the crack seeds (defects) where φ = 0
func (o *Domain) SetIniVals() {
	la.VecFill(o.Sol.Y, 0)
	for _, eq := range o.phiEqsAll() {
		o.Sol.Y[eq] = 1
	}
	for _, defect := range o.Sim.Defects {
		for _, vid := range o.Msh.VertsInBox(defect.Box) {
			if nod := o.Vid2node[vid]; nod != nil {
				if eq := nod.GetEq("phi"); eq >= 0 {
					o.Sol.Y[eq] = 0
				}
			}
		}
	}
	copy(o.Sol.OldY, o.Sol.Y)
	copy(o.Sol.OldOldY, o.Sol.Y)
	o.Sol.T = 0
	o.Sol.Dt = 0
	o.Sol.DtOld = 0
	o.Sol.UseOldPhi = true
}

// ResizeSystem re-initialises the sparse system after a change of the active
// set; the Lagrange multipliers of the new set start from zero
func (o *Domain) ResizeSystem() {
	nact := o.ActSet.Nact()
	neq := o.Nyb + nact
	if !o.InitLSol {
		o.LinSol.Clean()
	}
	o.InitLSol = true
	o.Kb.Init(neq, neq, o.NnzKb+2*o.NnzA+2*nact)
	o.ActSet.Build(o.Ny, o.Nlam)
	o.Sol.La = make([]float64, nact)
}

// Neq returns the current number of equations, including the active set rows
func (o *Domain) Neq() int {
	return o.Nyb + o.ActSet.Nact()
}

// SetPressure updates the fluid pressure of the cells cut by the crack. The
// crack indicator uses the previous converged phase field, making the
// hydraulic coupling staggered
func (o *Domain) SetPressure(t float64) {
	if o.Sim.Press == nil {
		return
	}
	p := o.Sim.Press.Func.F(t, nil)
	for _, e := range o.ElemPress {
		if e.MeanPhi(o.Sol.OldY) < o.Sim.Press.PhiCrack {
			e.SetPressure(p)
		} else {
			e.SetPressure(0)
		}
	}
}

// CrackCells returns the ids of the cells classified as cut by the crack,
// using the same staggered indicator as SetPressure
func (o *Domain) CrackCells() (cids []int) {
	if o.Sim.Press == nil {
		return
	}
	for _, e := range o.ElemPress {
		if e.MeanPhi(o.Sol.OldY) < o.Sim.Press.PhiCrack {
			cids = append(cids, e.Id())
		}
	}
	return
}

// NodalField collects the values of one DOF key for all vertices of the mesh
func (o *Domain) NodalField(key string) (vals []float64, err error) {
	vals = make([]float64, len(o.Msh.Verts))
	for vid, nod := range o.Vid2node {
		if nod == nil {
			return nil, chk.Err("vertex %d is not active", vid)
		}
		eq := nod.GetEq(key)
		if eq < 0 {
			return nil, chk.Err("vertex %d does not have key %q", vid, key)
		}
		vals[vid] = o.Sol.Y[eq]
	}
	return
}

// auxiliary functions //////////////////////////////////////////////////////////////////////////////

// phiEqsAll returns the equations of ALL phase-field dofs, including constrained ones
func (o *Domain) phiEqsAll() (eqs []int) {
	for _, nod := range o.Nodes {
		if eq := nod.GetEq("phi"); eq >= 0 {
			eqs = append(eqs, eq)
		}
	}
	return
}
