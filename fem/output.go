// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/minasel/eaglefrac/shp"
)

// SaveVtu writes the mesh and the nodal fields in the VTU (XML / ParaView) format
func (o *Domain) SaveVtu(tidx int, verbose bool) (err error) {

	// skip if not root
	if o.Proc != 0 {
		return
	}

	// nodal fields
	ux, err := o.NodalField("ux")
	if err != nil {
		return
	}
	uy, err := o.NodalField("uy")
	if err != nil {
		return
	}
	φ, err := o.NodalField("phi")
	if err != nil {
		return
	}

	// header
	var buf bytes.Buffer
	nverts := len(o.Msh.Verts)
	ncells := len(o.Msh.Cells)
	buf.WriteString("<?xml version=\"1.0\"?>\n")
	buf.WriteString("<VTKFile type=\"UnstructuredGrid\" version=\"0.1\" byte_order=\"LittleEndian\">\n")
	buf.WriteString("<UnstructuredGrid>\n")
	buf.WriteString(io.Sf("<Piece NumberOfPoints=\"%d\" NumberOfCells=\"%d\">\n", nverts, ncells))

	// points
	buf.WriteString("<Points>\n<DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	for _, v := range o.Msh.Verts {
		buf.WriteString(io.Sf("%g %g 0 ", v.C[0], v.C[1]))
	}
	buf.WriteString("\n</DataArray>\n</Points>\n")

	// cells
	buf.WriteString("<Cells>\n<DataArray type=\"Int32\" Name=\"connectivity\" format=\"ascii\">\n")
	for _, c := range o.Msh.Cells {
		for _, v := range c.Verts {
			buf.WriteString(io.Sf("%d ", v))
		}
	}
	buf.WriteString("\n</DataArray>\n<DataArray type=\"Int32\" Name=\"offsets\" format=\"ascii\">\n")
	offset := 0
	for _, c := range o.Msh.Cells {
		offset += len(c.Verts)
		buf.WriteString(io.Sf("%d ", offset))
	}
	buf.WriteString("\n</DataArray>\n<DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n")
	for _, c := range o.Msh.Cells {
		buf.WriteString(io.Sf("%d ", c.Shp.VtkCode))
	}
	buf.WriteString("\n</DataArray>\n</Cells>\n")

	// point data
	buf.WriteString("<PointData Scalars=\"phi\" Vectors=\"u\">\n")
	buf.WriteString("<DataArray type=\"Float64\" Name=\"phi\" format=\"ascii\">\n")
	for vid := 0; vid < nverts; vid++ {
		buf.WriteString(io.Sf("%g ", φ[vid]))
	}
	buf.WriteString("\n</DataArray>\n")
	buf.WriteString("<DataArray type=\"Float64\" Name=\"u\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	for vid := 0; vid < nverts; vid++ {
		buf.WriteString(io.Sf("%g %g 0 ", ux[vid], uy[vid]))
	}
	buf.WriteString("\n</DataArray>\n</PointData>\n")

	// footer
	buf.WriteString("</Piece>\n</UnstructuredGrid>\n</VTKFile>\n")

	// save file
	fn := out_vtu_path(o.Sim.DirOut, o.Sim.Key, tidx, o.Proc)
	return save_file(fn, &buf, verbose)
}

// SaveDiag appends one row with the time, the boundary load and the crack
// opening at the configured scan lines to the diagnostics text file. The first
// output time (tidx = 0) truncates the file and writes a header
func (o *Domain) SaveDiag(tidx int) (err error) {
	dg := o.Sim.Diag
	if dg == nil || o.Proc != 0 {
		return
	}
	load, err := o.BoundaryReaction(dg.LoadKey, dg.LoadTag)
	if err != nil {
		return chk.Err("cannot compute boundary load for the diagnostics series:\n%v", err)
	}
	var buf bytes.Buffer
	if tidx == 0 {
		buf.WriteString(io.Sf("%23s %23s", "t", "load"))
		for _, x := range dg.Xlines {
			buf.WriteString(io.Sf(" %23s", io.Sf("cod@x=%g", x)))
		}
		buf.WriteString("\n")
	}
	buf.WriteString(io.Sf("%23.15e %23.15e", o.Sol.T, load))
	for _, x := range dg.Xlines {
		buf.WriteString(io.Sf(" %23.15e", o.CrackOpening(x)))
	}
	buf.WriteString("\n")
	fn := out_diag_path(o.Sim.DirOut, o.Sim.Key)
	return append_file(fn, &buf, tidx == 0)
}

// BoundaryReaction sums the Lagrange multipliers of the single-point essential
// boundary conditions with the given key over the vertices of a tagged face.
// The result is the total force the boundary exerts on the body along that key
func (o *Domain) BoundaryReaction(key string, ftag int) (sum float64, err error) {
	vids := o.Msh.Boundary(ftag)
	if vids == nil {
		return 0, chk.Err("cannot find boundary vertices with face tag %d", ftag)
	}
	eq2row := o.EssenBcs.Eq2row()
	for _, vid := range vids {
		nod := o.Vid2node[vid]
		if nod == nil {
			continue
		}
		eq := nod.GetEq(key)
		if eq < 0 {
			continue
		}
		row, ok := eq2row[eq]
		if !ok {
			return 0, chk.Err("vertex %d (%q) on face tag %d is not constrained", vid, key, ftag)
		}
		sum += o.Sol.L[row]
	}
	return
}

// CrackOpening computes the crack opening displacement along the vertical line
// x = xline by integrating u・∇φ over the line:
//
//   cod(x) = -1/2 ∫ u・∇φ dy
//
// The phase field drops from 1 to 0 across the crack, so ∇φ acts as a smeared
// normal and the integral measures the displacement jump
func (o *Domain) CrackOpening(xline float64) (cod float64) {
	for _, e := range o.Elems {
		if pe, ok := e.(*ElemPhase); ok {
			cod += pe.openingOnLine(xline, o.Sol)
		}
	}
	return -0.5 * cod
}

// openingOnLine integrates u・∇φ along the intersection of the vertical line
// x = xline with this (axis-aligned) cell, using 2-point Gauss quadrature
func (o *ElemPhase) openingOnLine(xline float64, sol *Solution) (res float64) {

	// cell bounding box
	x0, x1 := o.X[0][0], o.X[0][0]
	y0, y1 := o.X[1][0], o.X[1][0]
	nverts := o.Cell.Shp.Nverts
	for m := 1; m < nverts; m++ {
		if o.X[0][m] < x0 {
			x0 = o.X[0][m]
		}
		if o.X[0][m] > x1 {
			x1 = o.X[0][m]
		}
		if o.X[1][m] < y0 {
			y0 = o.X[1][m]
		}
		if o.X[1][m] > y1 {
			y1 = o.X[1][m]
		}
	}
	if xline < x0 || xline >= x1 {
		return
	}

	// natural coordinate of the line within the cell
	r := -1.0 + 2.0*(xline-x0)/(x1-x0)
	gp := 1.0 / math.Sqrt(3.0)

	// integrate along the vertical direction
	for _, s := range []float64{-gp, gp} {
		ip := shp.Ipoint{r, s, 0, 1}
		err := o.Cell.Shp.CalcAtIp(o.X, ip, true)
		if err != nil {
			return
		}
		S := o.Cell.Shp.S
		G := o.Cell.Shp.G
		var ux, uy, gφx, gφy float64
		for m := 0; m < nverts; m++ {
			ux += S[m] * sol.Y[o.Umap[0+m*o.Ndim]]
			uy += S[m] * sol.Y[o.Umap[1+m*o.Ndim]]
			gφx += G[m][0] * sol.Y[o.Pmap[m]]
			gφy += G[m][1] * sol.Y[o.Pmap[m]]
		}
		res += (ux*gφx + uy*gφy) * (y1 - y0) / 2.0
	}
	return
}
