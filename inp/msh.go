// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"path/filepath"
	"sort"

	"github.com/minasel/eaglefrac/shp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Vert holds vertex data
type Vert struct {
	Id  int       // id
	Tag int       // tag
	C   []float64 // coordinates (size==2)
}

// Cell holds cell data
type Cell struct {

	// input data
	Id    int    // id
	Tag   int    // tag
	Type  string // geometry type (string)
	Part  int    // partition id
	Verts []int  // vertices
	FTags []int  // edge tags
	Level int    // refinement level (0 == coarsest)

	// derived
	Shp     *shp.Shape // shape structure
	FaceBcs FaceConds  // face boundary conditions
}

// CellFaceId structure
type CellFaceId struct {
	C   *Cell // cell
	Fid int   // face id
}

// VertOrigin holds the provenance of one vertex of a refined mesh: the
// parent-mesh vertices and weights that interpolate any nodal field to it
type VertOrigin struct {
	Vids []int     // parent vertices
	Wgts []float64 // interpolation weights
}

// Mesh holds a mesh for FE analyses
type Mesh struct {

	// from JSON
	Verts []*Vert // vertices
	Cells []*Cell // cells

	// refinement data
	Hanging map[int][2]int // hanging vertex id => ids of the tied edge endpoints
	Origins []*VertOrigin  // [nverts] provenance w.r.t parent mesh; nil for read/generated meshes

	// derived
	FnamePath  string  // complete filename path
	Ndim       int     // space dimension
	Xmin, Xmax float64 // min and max x-coordinate
	Ymin, Ymax float64 // min and max y-coordinate

	// derived: maps
	VertTag2verts map[int][]*Vert      // vertex tag => set of vertices
	CellTag2cells map[int][]*Cell      // cell tag => set of cells
	FaceTag2cells map[int][]CellFaceId // face tag => set of cells
	FaceTag2verts map[int][]int        // face tag => vertices on tagged face

	// auxiliary: midpoint relations for refinement bookkeeping
	midpoints map[[2]int]int // sorted edge endpoints => midpoint vertex id
}

// ReadMsh reads a mesh for FE analyses from a JSON file
func ReadMsh(dir, fn string, goroutineId int) (o *Mesh, err error) {

	// new mesh
	o = new(Mesh)

	// read file
	o.FnamePath = filepath.Join(dir, fn)
	b, err := io.ReadFile(o.FnamePath)
	if err != nil {
		return nil, err
	}

	// decode
	err = json.Unmarshal(b, o)
	if err != nil {
		return nil, chk.Err("cannot unmarshal mesh file %q:\n%v", o.FnamePath, err)
	}

	// derived data
	err = o.CalcDerived(goroutineId)
	if err != nil {
		return nil, err
	}
	return
}

// GenQuadMesh generates a structured mesh of qua4 cells over the rectangle
// [0,lx] x [0,ly] with nx by ny divisions. Edge tags: bottom=-10, right=-11,
// top=-12, left=-13. Corner vertex tags: -100 (bl), -101 (br), -102 (tr), -103 (tl)
func GenQuadMesh(lx, ly float64, nx, ny int, goroutineId int) (o *Mesh, err error) {

	// check
	if nx < 1 || ny < 1 {
		return nil, chk.Err("mesh generation needs at least 1x1 cells. nx=%d, ny=%d is invalid", nx, ny)
	}

	// vertices (row-major)
	o = new(Mesh)
	dx, dy := lx/float64(nx), ly/float64(ny)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			tag := 0
			switch {
			case i == 0 && j == 0:
				tag = -100
			case i == nx && j == 0:
				tag = -101
			case i == nx && j == ny:
				tag = -102
			case i == 0 && j == ny:
				tag = -103
			}
			o.Verts = append(o.Verts, &Vert{
				Id:  j*(nx+1) + i,
				Tag: tag,
				C:   []float64{float64(i) * dx, float64(j) * dy},
			})
		}
	}

	// cells
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			ftags := make([]int, 4)
			if j == 0 {
				ftags[0] = -10
			}
			if i == nx-1 {
				ftags[1] = -11
			}
			if j == ny-1 {
				ftags[2] = -12
			}
			if i == 0 {
				ftags[3] = -13
			}
			o.Cells = append(o.Cells, &Cell{
				Id:    j*nx + i,
				Tag:   -1,
				Type:  "qua4",
				Verts: []int{j*(nx+1) + i, j*(nx+1) + i + 1, (j+1)*(nx+1) + i + 1, (j+1)*(nx+1) + i},
				FTags: ftags,
			})
		}
	}

	// derived data
	err = o.CalcDerived(goroutineId)
	if err != nil {
		return nil, err
	}
	return
}

// CalcDerived computes dependent data and checks consistency
func (o *Mesh) CalcDerived(goroutineId int) (err error) {

	// check
	if len(o.Verts) < 2 {
		return chk.Err("mesh must have at least 2 vertices. %d is invalid", len(o.Verts))
	}
	if len(o.Cells) < 1 {
		return chk.Err("mesh must have at least 1 cell. %d is invalid", len(o.Cells))
	}

	// vertex related derived data
	o.Ndim = 2
	o.Xmin = o.Verts[0].C[0]
	o.Ymin = o.Verts[0].C[1]
	o.Xmax = o.Xmin
	o.Ymax = o.Ymin
	o.VertTag2verts = make(map[int][]*Vert)
	for i, v := range o.Verts {

		// check vertex id
		if v.Id != i {
			return chk.Err("vertices ids must coincide with order in \"verts\" list. %d != %d is invalid", v.Id, i)
		}
		if len(v.C) != 2 {
			return chk.Err("vertex %d must have 2 coordinates. %d is invalid", v.Id, len(v.C))
		}

		// tags
		if v.Tag < 0 {
			verts := o.VertTag2verts[v.Tag]
			o.VertTag2verts[v.Tag] = append(verts, v)
		}

		// limits
		o.Xmin = utl.Min(o.Xmin, v.C[0])
		o.Xmax = utl.Max(o.Xmax, v.C[0])
		o.Ymin = utl.Min(o.Ymin, v.C[1])
		o.Ymax = utl.Max(o.Ymax, v.C[1])
	}

	// cell related derived data
	o.CellTag2cells = make(map[int][]*Cell)
	o.FaceTag2cells = make(map[int][]CellFaceId)
	o.FaceTag2verts = make(map[int][]int)
	for i, c := range o.Cells {

		// check id and tag
		if c.Id != i {
			return chk.Err("cells ids must coincide with order in \"cells\" list. %d != %d is invalid", c.Id, i)
		}
		if c.Tag >= 0 {
			return chk.Err("cells tags must be negative. %d is invalid", c.Tag)
		}

		// face tags
		cells := o.CellTag2cells[c.Tag]
		o.CellTag2cells[c.Tag] = append(cells, c)
		for j, ftag := range c.FTags {
			if ftag < 0 {
				pairs := o.FaceTag2cells[ftag]
				o.FaceTag2cells[ftag] = append(pairs, CellFaceId{c, j})
				for _, l := range shp.GetFaceLocalVerts(c.Type, j) {
					utl.IntIntsMapAppend(&o.FaceTag2verts, ftag, o.Verts[c.Verts[l]].Id)
				}
			}
		}

		// get shape structure
		c.Shp = shp.Get(c.Type, goroutineId)
		if c.Shp == nil {
			return chk.Err("cannot allocate shape structure for cell type %q", c.Type)
		}
	}

	// remove duplicates
	for ftag, verts := range o.FaceTag2verts {
		o.FaceTag2verts[ftag] = utl.IntUnique(verts)
	}

	// midpoint relations
	if o.midpoints == nil {
		o.midpoints = make(map[[2]int]int)
		for m, ab := range o.Hanging {
			o.midpoints[edgekey(ab[0], ab[1])] = m
		}
	}
	return
}

// CellsInBox returns ids of cells with centroid inside the box {xmin, xmax, ymin, ymax}
func (o *Mesh) CellsInBox(box []float64) (cids []int) {
	for _, c := range o.Cells {
		var xc, yc float64
		for _, v := range c.Verts {
			xc += o.Verts[v].C[0]
			yc += o.Verts[v].C[1]
		}
		n := float64(len(c.Verts))
		xc /= n
		yc /= n
		if xc >= box[0] && xc <= box[1] && yc >= box[2] && yc <= box[3] {
			cids = append(cids, c.Id)
		}
	}
	return
}

// VertsInBox returns ids of vertices inside the box {xmin, xmax, ymin, ymax}
func (o *Mesh) VertsInBox(box []float64) (vids []int) {
	for _, v := range o.Verts {
		if v.C[0] >= box[0] && v.C[0] <= box[1] && v.C[1] >= box[2] && v.C[1] <= box[3] {
			vids = append(vids, v.Id)
		}
	}
	return
}

// refinement //////////////////////////////////////////////////////////////////////////////////////

// edgekey returns the map key of an edge given its two endpoint ids
func edgekey(a, b int) [2]int {
	if a < b {
		return [2]int{a, b}
	}
	return [2]int{b, a}
}

// edges returns the 4 edges of a qua4 cell as pairs of global vertex ids,
// ordered as the local faces: bottom, right, top, left
func (o *Cell) edges() [4][2]int {
	v := o.Verts
	return [4][2]int{
		{v[0], v[1]},
		{v[1], v[2]},
		{v[2], v[3]},
		{v[3], v[0]},
	}
}

// Refine returns a new mesh with the given cells split in four. The refinement
// is kept 1-irregular: neighbouring cells are added to the set whenever the
// level jump across an edge would exceed one. Midside vertices adjacent to an
// unrefined neighbour become hanging and are recorded in Hanging. The new mesh
// carries, in Origins, the interpolation weights from this mesh's vertices so
// nodal fields can be transferred
func (o *Mesh) Refine(cids []int, goroutineId int) (p *Mesh, err error) {

	// check
	if len(cids) < 1 {
		return nil, chk.Err("refinement needs at least one cell")
	}

	// edge => cells map of the current mesh
	edge2cells := make(map[[2]int][]int)
	for _, c := range o.Cells {
		for _, e := range c.edges() {
			k := edgekey(e[0], e[1])
			edge2cells[k] = append(edge2cells[k], c.Id)
		}
	}

	// refinement set with 1-irregular closure
	mark := make(map[int]bool)
	for _, cid := range cids {
		if cid < 0 || cid >= len(o.Cells) {
			return nil, chk.Err("cell id %d is out of range", cid)
		}
		mark[cid] = true
	}
	for changed := true; changed; {
		changed = false
		for cid := range mark {
			c := o.Cells[cid]
			for _, e := range c.edges() {

				// a coarser neighbour exists if one endpoint of this edge is the
				// midpoint of one of the neighbour's full edges
				for _, vid := range e {
					ab, isMid := o.Hanging[vid]
					if !isMid {
						continue
					}
					for _, nid := range edge2cells[edgekey(ab[0], ab[1])] {
						if o.Cells[nid].Level < c.Level && !mark[nid] {
							mark[nid] = true
							changed = true
						}
					}
				}
			}
		}
	}

	// new mesh: copy vertices preserving ids
	p = new(Mesh)
	p.FnamePath = o.FnamePath
	for _, v := range o.Verts {
		p.Verts = append(p.Verts, &Vert{Id: v.Id, Tag: v.Tag, C: []float64{v.C[0], v.C[1]}})
		p.Origins = append(p.Origins, &VertOrigin{Vids: []int{v.Id}, Wgts: []float64{1}})
	}

	// midpoint relations carried over
	p.midpoints = make(map[[2]int]int)
	for k, m := range o.midpoints {
		p.midpoints[k] = m
	}

	// getmid returns (creating if needed) the midpoint vertex of edge (a,b)
	getmid := func(a, b int) int {
		k := edgekey(a, b)
		if m, ok := p.midpoints[k]; ok {
			return m
		}
		va, vb := o.Verts[a], o.Verts[b]
		m := len(p.Verts)
		p.Verts = append(p.Verts, &Vert{
			Id: m,
			C:  []float64{(va.C[0] + vb.C[0]) / 2.0, (va.C[1] + vb.C[1]) / 2.0},
		})
		p.Origins = append(p.Origins, &VertOrigin{Vids: []int{a, b}, Wgts: []float64{0.5, 0.5}})
		p.midpoints[k] = m
		return m
	}

	// new cells
	for _, c := range o.Cells {

		// unrefined: copy with new id
		if !mark[c.Id] {
			p.Cells = append(p.Cells, &Cell{
				Id:    len(p.Cells),
				Tag:   c.Tag,
				Type:  c.Type,
				Part:  c.Part,
				Verts: append([]int{}, c.Verts...),
				FTags: append([]int{}, c.FTags...),
				Level: c.Level,
			})
			continue
		}

		// midside and central vertices
		v := c.Verts
		m01 := getmid(v[0], v[1])
		m12 := getmid(v[1], v[2])
		m23 := getmid(v[2], v[3])
		m30 := getmid(v[3], v[0])
		cc := len(p.Verts)
		p.Verts = append(p.Verts, &Vert{
			Id: cc,
			C: []float64{
				(o.Verts[v[0]].C[0] + o.Verts[v[1]].C[0] + o.Verts[v[2]].C[0] + o.Verts[v[3]].C[0]) / 4.0,
				(o.Verts[v[0]].C[1] + o.Verts[v[1]].C[1] + o.Verts[v[2]].C[1] + o.Verts[v[3]].C[1]) / 4.0,
			},
		})
		p.Origins = append(p.Origins, &VertOrigin{
			Vids: []int{v[0], v[1], v[2], v[3]},
			Wgts: []float64{0.25, 0.25, 0.25, 0.25},
		})

		// children (counter-clockwise, starting at each parent corner)
		f := c.FTags
		kids := [][]int{
			{v[0], m01, cc, m30},
			{m01, v[1], m12, cc},
			{cc, m12, v[2], m23},
			{m30, cc, m23, v[3]},
		}
		ftags := [][]int{
			{f[0], 0, 0, f[3]},
			{f[0], f[1], 0, 0},
			{0, f[1], f[2], 0},
			{0, 0, f[2], f[3]},
		}
		for i := 0; i < 4; i++ {
			p.Cells = append(p.Cells, &Cell{
				Id:    len(p.Cells),
				Tag:   c.Tag,
				Type:  c.Type,
				Part:  c.Part,
				Verts: kids[i],
				FTags: ftags[i],
				Level: c.Level + 1,
			})
		}
	}

	// hanging vertices: a midpoint is hanging if some new cell still carries
	// the full (unsplit) edge
	newedges := make(map[[2]int]bool)
	for _, c := range p.Cells {
		for _, e := range c.edges() {
			newedges[edgekey(e[0], e[1])] = true
		}
	}
	p.Hanging = make(map[int][2]int)
	for k, m := range p.midpoints {
		if newedges[k] {
			p.Hanging[m] = [2]int{k[0], k[1]}
		}
	}

	// derived data
	err = p.CalcDerived(goroutineId)
	if err != nil {
		return nil, err
	}
	return
}

// TransferScalar interpolates nodal values from the parent mesh onto this
// (refined) one using the recorded origins. vold has one value per parent
// vertex; the result has one value per vertex of this mesh
func (o *Mesh) TransferScalar(vold []float64) (vnew []float64, err error) {
	if o.Origins == nil {
		return nil, chk.Err("mesh has no parent: cannot transfer nodal values")
	}
	vnew = make([]float64, len(o.Verts))
	for i, g := range o.Origins {
		for j, vid := range g.Vids {
			if vid >= len(vold) {
				return nil, chk.Err("parent vertex %d is out of range (nold=%d)", vid, len(vold))
			}
			vnew[i] += g.Wgts[j] * vold[vid]
		}
	}
	return
}

// Boundary returns a sorted list of vertices on the tagged edges
func (o *Mesh) Boundary(ftag int) []int {
	verts, ok := o.FaceTag2verts[ftag]
	if !ok {
		return nil
	}
	res := append([]int{}, verts...)
	sort.Ints(res)
	return res
}

// String returns a JSON representation of *Vert
func (o *Vert) String() string {
	l := io.Sf("{\"id\":%4d, \"tag\":%6d, \"c\":[", o.Id, o.Tag)
	for i, x := range o.C {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%23.15e", x)
	}
	l += "] }"
	return l
}

// String returns a JSON representation of *Cell
func (o *Cell) String() string {
	l := io.Sf("{\"id\":%d, \"tag\":%d, \"type\":%q, \"part\":%d, \"level\":%d, \"verts\":[", o.Id, o.Tag, o.Type, o.Part, o.Level)
	for i, x := range o.Verts {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%d", x)
	}
	l += "], \"ftags\":["
	for i, x := range o.FTags {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%d", x)
	}
	l += "] }"
	return l
}

// String returns a JSON representation of *Mesh
func (o Mesh) String() string {
	l := "{\n  \"verts\" : [\n"
	for i, x := range o.Verts {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("    %v", x)
	}
	l += "\n  ],\n  \"cells\" : [\n"
	for i, x := range o.Cells {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("    %v", x)
	}
	l += "\n  ]\n}"
	return l
}
