// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON file
package inp

import (
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
)

// Data holds global data for simulations
type Data struct {
	Desc    string `json:"desc"`    // description of simulation
	Matfile string `json:"matfile"` // materials file path
	DirOut  string `json:"dirout"`  // directory for output; e.g. /tmp/eaglefrac
	Encoder string `json:"encoder"` // encoder name; e.g. "gob" or "json"
	Debug   bool   `json:"debug"`   // activate debugging
}

// LinSolData holds data for linear solvers
type LinSolData struct {
	Name      string `json:"name"`      // "mumps" or "umfpack"
	Symmetric bool   `json:"symmetric"` // use symmetric solver
	Verbose   bool   `json:"verbose"`   // verbose?
	Timing    bool   `json:"timing"`    // show timing statistics
	Ordering  string `json:"ordering"`  // ordering scheme
	Scaling   string `json:"scaling"`   // scaling scheme
}

// SolverData holds nonlinear (active set Newton) solver data
type SolverData struct {

	// nonlinear solver
	Type        string  `json:"type"`        // solver type; e.g. "phasefield"
	NmaxIt      int     `json:"nmaxit"`      // max number of Newton iterations per attempt
	Extrap      bool    `json:"extrap"`      // extrapolate the phase field from the two previous steps when degrading the stiffness; otherwise use the previous converged value
	FbTol       float64 `json:"fbtol"`       // tolerance for convergence on fb
	FbMin       float64 `json:"fbmin"`       // minimum value of fb
	Cpen        float64 `json:"cpen"`        // complementarity constant of the active set strategy
	FullTangent bool    `json:"fulltangent"` // differentiate the spectral split in the Jacobian instead of freezing the projections
	CteTg       bool    `json:"ctetg"`       // use constant tangent (modified Newton) during iterations
	ShowR       bool    `json:"showr"`       // show residual

	// time stepping
	DtMin   float64 `json:"dtmin"`   // minimum time step; abort when cutting goes below this
	DtCut   float64 `json:"dtcut"`   // time step reduction factor upon divergence
	NdvgMax int     `json:"ndvgmax"` // max number of consecutive diverging attempts

	// constants
	Eps float64 `json:"eps"` // smallest number satisfying 1.0 + ϵ > 1.0
}

// ElemData holds element data
type ElemData struct {
	Tag   int    `json:"tag"`   // tag of element
	Mat   string `json:"mat"`   // material name
	Type  string `json:"type"`  // type of element; e.g. "phase"
	Nip   int    `json:"nip"`   // number of integration points; 0 => use default
	Nipf  int    `json:"nipf"`  // number of integration points on face; 0 => use default
	Extra string `json:"extra"` // extra flags
}

// GridData holds data for generating a structured rectangular mesh
type GridData struct {
	Lx float64 `json:"lx"` // x-length of domain
	Ly float64 `json:"ly"` // y-length of domain
	Nx int     `json:"nx"` // number of cells along x
	Ny int     `json:"ny"` // number of cells along y
}

// Region holds region data
type Region struct {

	// input data
	Desc      string      `json:"desc"`      // description of region
	Mshfile   string      `json:"mshfile"`   // file path of file with mesh data
	Grid      *GridData   `json:"grid"`      // generate a structured mesh instead of reading one
	ElemsData []*ElemData `json:"elemsdata"` // list of elements data
	AbsPath   bool        `json:"abspath"`   // mesh filename is given in absolute path

	// derived
	Msh      *Mesh       // the mesh
	etag2idx map[int]int // maps element tag to element index in ElemsData slice
}

// AdaptData holds data controlling mesh adaptation
type AdaptData struct {
	PhiRef   float64   `json:"phiref"`   // refine cells where the phase field drops below this value
	MaxLevel int       `json:"maxlevel"` // maximum refinement level
	NPre     int       `json:"npre"`     // number of pre-refinement sweeps before the run
	PreBox   []float64 `json:"prebox"`   // {xmin,xmax,ymin,ymax} region for pre-refinement
}

// PressData holds data for pressurized (hydraulic) fracture runs
type PressData struct {
	Fcn      string  `json:"fcn"`      // name of function giving the fluid pressure p(t)
	PhiCrack float64 `json:"phicrack"` // cells with mean nodal φ below this value are pressurized

	// derived
	Func fun.Func // pressure function
}

// DiagData holds data controlling the scalar diagnostics time series: the
// total boundary load on a tagged face and the crack opening displacement
// along vertical scan lines, one text row per output time
type DiagData struct {
	LoadTag int       `json:"loadtag"` // face tag where the boundary load is summed
	LoadKey string    `json:"loadkey"` // dof key of the load; e.g. "uy"
	Xlines  []float64 `json:"xlines"`  // x coordinates of the crack opening scan lines
}

// DefectData holds an initial crack seed: the phase field is set to zero on
// vertices inside the box
type DefectData struct {
	Box []float64 `json:"box"` // {xmin,xmax,ymin,ymax}
}

// FaceBc holds face boundary condition
type FaceBc struct {
	Tag   int      `json:"tag"`   // tag of face
	Keys  []string `json:"keys"`  // key indicating type of bcs. ex: qn, ux, uy
	Funcs []string `json:"funcs"` // name of function. ex: zero, load, myfunction1
	Extra string   `json:"extra"` // extra information
}

// NodeBc holds node boundary condition
type NodeBc struct {
	Tag   int      `json:"tag"`   // tag of node
	Keys  []string `json:"keys"`  // key indicating type of bcs. ex: ux, uy
	Funcs []string `json:"funcs"` // name of function
	Extra string   `json:"extra"` // extra information
}

// TimeControl holds data for defining the simulation time stepping
type TimeControl struct {
	Tf     float64 `json:"tf"`     // final time
	Dt     float64 `json:"dt"`     // time step size (if constant)
	DtOut  float64 `json:"dtout"`  // time step size for output
	DtFcn  string  `json:"dtfcn"`  // time step size (function name)
	DtoFcn string  `json:"dtofcn"` // time step size for output (function name)

	// derived
	DtFunc  fun.Func // time step function
	DtoFunc fun.Func // output time step function
}

// Stage holds stage data
type Stage struct {

	// main
	Desc string `json:"desc"` // description of simulation stage
	Skip bool   `json:"skip"` // do not run stage

	// conditions
	FaceBcs []*FaceBc `json:"facebcs"` // face boundary conditions
	NodeBcs []*NodeBc `json:"nodebcs"` // node boundary conditions

	// timecontrol
	Control TimeControl `json:"control"` // time control
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data      Data          `json:"data"`      // global simulation data
	Functions FuncsData     `json:"functions"` // all boundary condition functions
	Regions   []*Region     `json:"regions"`   // all regions
	LinSol    LinSolData    `json:"linsol"`    // linear solver data
	Solver    SolverData    `json:"solver"`    // nonlinear solver data
	Adapt     AdaptData     `json:"adapt"`     // mesh adaptation data
	Press     *PressData    `json:"press"`     // pressurized fracture data; nil means no fluid pressure
	Diag      *DiagData     `json:"diag"`      // scalar diagnostics series; nil means no series
	Defects   []*DefectData `json:"defects"`   // initial crack seeds
	Stages    []*Stage      `json:"stages"`    // all stages

	// derived
	GoroutineId int    // id of goroutine to avoid race problems
	DirOut      string // directory to save results
	Key         string // simulation key; e.g. mysim01.sim => mysim01 or mysim01-alias
	EncType     string // encoder type
	MatParams   *MatDb // materials' parameters
	Ndim        int    // space dimension
}

// Simulation //////////////////////////////////////////////////////////////////////////////////////

// ReadSim reads all simulation data from a .sim JSON file
//  Note: panics on errors
func ReadSim(simfilepath, alias string, erasefiles bool, goroutineId int) *Simulation {

	// new sim
	var o Simulation
	o.GoroutineId = goroutineId

	// read file
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		chk.Panic("ReadSim: cannot read simulation file %q", simfilepath)
	}

	// set default values
	o.Solver.SetDefault()
	o.LinSol.SetDefault()
	o.Adapt.SetDefault()

	// decode
	err = json.Unmarshal(b, &o)
	if err != nil {
		chk.Panic("ReadSim: cannot unmarshal simulation file %q", simfilepath)
	}

	// input directory and filename key
	dir := filepath.Dir(simfilepath)
	fn := filepath.Base(simfilepath)
	dir = os.ExpandEnv(dir)
	fnkey := io.FnKey(fn)
	o.Key = fnkey
	if alias != "" {
		o.Key += "-" + alias
	}

	// output directory
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/eaglefrac/" + fnkey
	}

	// encoder type
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		o.EncType = "gob"
	}

	// create directory and erase previous simulation results
	if erasefiles {
		err = os.MkdirAll(o.DirOut, 0777)
		if err != nil {
			chk.Panic("cannot create directory for output results (%s): %v", o.DirOut, err)
		}
		io.RemoveAll(io.Sf("%s/%s*", o.DirOut, fnkey))
	}

	// read materials database
	o.MatParams, err = ReadMat(dir, o.Data.Matfile)
	if err != nil {
		chk.Panic("ReadSim: cannot read materials database:\n%v", err)
	}

	// for all regions
	for i, reg := range o.Regions {

		// read or generate mesh
		if reg.Grid != nil {
			reg.Msh, err = GenQuadMesh(reg.Grid.Lx, reg.Grid.Ly, reg.Grid.Nx, reg.Grid.Ny, goroutineId)
		} else {
			ddir := dir
			if reg.AbsPath {
				ddir = ""
			}
			reg.Msh, err = ReadMsh(ddir, reg.Mshfile, goroutineId)
		}
		if err != nil {
			chk.Panic("ReadSim: cannot set mesh of region %d:\n%v", i, err)
		}

		// pre-refinement sweeps
		if o.Adapt.NPre > 0 && len(o.Adapt.PreBox) == 4 {
			for k := 0; k < o.Adapt.NPre; k++ {
				cids := reg.Msh.CellsInBox(o.Adapt.PreBox)
				if len(cids) < 1 {
					break
				}
				reg.Msh, err = reg.Msh.Refine(cids, goroutineId)
				if err != nil {
					chk.Panic("ReadSim: pre-refinement sweep %d failed:\n%v", k, err)
				}
			}
			reg.Msh.Origins = nil // the pre-refined mesh is the initial one
		}

		// dependent variables
		reg.etag2idx = make(map[int]int)
		for j, ed := range reg.ElemsData {
			reg.etag2idx[ed.Tag] = j
		}

		// ndim
		if i == 0 {
			o.Ndim = reg.Msh.Ndim
		} else if reg.Msh.Ndim != o.Ndim {
			chk.Panic("ReadSim: Ndim value is inconsistent: %d != %d", reg.Msh.Ndim, o.Ndim)
		}
	}

	// pressure function
	if o.Press != nil {
		if o.Press.PhiCrack < 1e-14 {
			o.Press.PhiCrack = 0.9
		}
		o.Press.Func, err = o.Functions.Get(o.Press.Fcn)
		if err != nil {
			chk.Panic("ReadSim: cannot find pressure function named %q:\n%v", o.Press.Fcn, err)
		}
	}

	// for all stages
	var t float64
	for _, stg := range o.Stages {

		// fix Tf
		if stg.Control.Tf < 1e-14 {
			stg.Control.Tf = 1
		}

		// fix Dt
		if stg.Control.DtFcn == "" {
			if stg.Control.Dt < 1e-14 {
				stg.Control.Dt = 1
			}
			stg.Control.DtFunc = &fun.Cte{C: stg.Control.Dt}
		} else {
			stg.Control.DtFunc, err = o.Functions.Get(stg.Control.DtFcn)
			if err != nil {
				chk.Panic("ReadSim: cannot find DtFunc named %q", stg.Control.DtFcn)
			}
			stg.Control.Dt = stg.Control.DtFunc.F(t, nil)
		}

		// fix DtOut
		if stg.Control.DtoFcn == "" {
			if stg.Control.DtOut < 1e-14 {
				stg.Control.DtOut = stg.Control.Dt
				stg.Control.DtoFunc = stg.Control.DtFunc
			} else {
				if stg.Control.DtOut < stg.Control.Dt {
					stg.Control.DtOut = stg.Control.Dt
				}
				stg.Control.DtoFunc = &fun.Cte{C: stg.Control.DtOut}
			}
		} else {
			stg.Control.DtoFunc, err = o.Functions.Get(stg.Control.DtoFcn)
			if err != nil {
				chk.Panic("ReadSim: cannot find DtoFunc named %q", stg.Control.DtoFcn)
			}
			stg.Control.DtOut = stg.Control.DtoFunc.F(t, nil)
		}

		// update time
		t += stg.Control.Tf
	}

	// results
	return &o
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// Etag2data returns the ElemData corresponding to element tag
//  Note: returns nil if not found
func (d *Region) Etag2data(etag int) *ElemData {
	idx, ok := d.etag2idx[etag]
	if !ok {
		return nil
	}
	return d.ElemsData[idx]
}

// GetInfo returns formatted information
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// GetNodeBc returns node boundary condition structure by giving a node tag
//  Note: returns nil if not found
func (o Stage) GetNodeBc(nodetag int) *NodeBc {
	for _, nbc := range o.NodeBcs {
		if nodetag == nbc.Tag {
			return nbc
		}
	}
	return nil
}

// GetFaceBc returns face boundary condition structure by giving a face tag
//  Note: returns nil if not found
func (o Stage) GetFaceBc(facetag int) *FaceBc {
	for _, fbc := range o.FaceBcs {
		if facetag == fbc.Tag {
			return fbc
		}
	}
	return nil
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault sets defaults values
func (o *LinSolData) SetDefault() {
	o.Name = "umfpack"
	o.Ordering = "amf"
	o.Scaling = "rcit"
}

// SetDefault sets defaults values
func (o *SolverData) SetDefault() {

	// nonlinear solver
	o.Type = "phasefield"
	o.NmaxIt = 50
	o.Extrap = true
	o.FbTol = 1e-8
	o.FbMin = 1e-14
	o.Cpen = 100

	// time stepping
	o.DtMin = 1e-9
	o.DtCut = 10
	o.NdvgMax = 20

	// constants
	o.Eps = 1e-16
}

// SetDefault sets defaults values
func (o *AdaptData) SetDefault() {
	o.PhiRef = 0.8
	o.MaxLevel = 0 // adaptation disabled unless a positive level is given
}
