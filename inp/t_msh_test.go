// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_msh01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("msh01. structured mesh generation")

	msh, err := GenQuadMesh(2, 1, 4, 2, 0)
	if err != nil {
		tst.Errorf("mesh generation failed:\n%v", err)
		return
	}
	chk.IntAssert(len(msh.Verts), 15)
	chk.IntAssert(len(msh.Cells), 8)
	chk.Scalar(tst, "xmax", 1e-15, msh.Xmax, 2.0)
	chk.Scalar(tst, "ymax", 1e-15, msh.Ymax, 1.0)

	// boundary vertices per tagged edge
	chk.Ints(tst, "bottom verts", msh.Boundary(-10), []int{0, 1, 2, 3, 4})
	chk.Ints(tst, "right verts", msh.Boundary(-11), []int{4, 9, 14})
	chk.Ints(tst, "top verts", msh.Boundary(-12), []int{10, 11, 12, 13, 14})
	chk.Ints(tst, "left verts", msh.Boundary(-13), []int{0, 5, 10})

	// corner tags
	chk.IntAssert(msh.VertTag2verts[-100][0].Id, 0)
	chk.IntAssert(msh.VertTag2verts[-102][0].Id, 14)

	// no hanging vertices on a structured mesh
	chk.IntAssert(len(msh.Hanging), 0)
}

func Test_msh02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("msh02. refinement with hanging vertices")

	msh, err := GenQuadMesh(2, 2, 2, 2, 0)
	if err != nil {
		tst.Errorf("mesh generation failed:\n%v", err)
		return
	}
	chk.IntAssert(len(msh.Verts), 9)
	chk.IntAssert(len(msh.Cells), 4)

	// refine the bottom-left cell only
	ref, err := msh.Refine([]int{0}, 0)
	if err != nil {
		tst.Errorf("refinement failed:\n%v", err)
		return
	}

	// 3 old cells + 4 children; 9 old verts + 4 midside + 1 centre
	chk.IntAssert(len(ref.Cells), 7)
	chk.IntAssert(len(ref.Verts), 14)

	// exactly 2 hanging vertices: the midpoints of the 2 interior edges
	chk.IntAssert(len(ref.Hanging), 2)
	for m, ab := range ref.Hanging {
		xm := ref.Verts[m].C
		xa := ref.Verts[ab[0]].C
		xb := ref.Verts[ab[1]].C
		chk.Scalar(tst, "x mid", 1e-15, xm[0], (xa[0]+xb[0])/2.0)
		chk.Scalar(tst, "y mid", 1e-15, xm[1], (xa[1]+xb[1])/2.0)
	}

	// children keep boundary tags
	chk.IntAssert(len(ref.FaceTag2cells[-10]), 3) // 2 children + 1 old cell
	chk.IntAssert(len(ref.FaceTag2cells[-13]), 3)

	// transfer a linear field: interpolation must be exact
	vold := make([]float64, len(msh.Verts))
	for i, v := range msh.Verts {
		vold[i] = 2.0*v.C[0] - 3.0*v.C[1] + 1.0
	}
	vnew, err := ref.TransferScalar(vold)
	if err != nil {
		tst.Errorf("transfer failed:\n%v", err)
		return
	}
	for i, v := range ref.Verts {
		chk.Scalar(tst, "vnew", 1e-14, vnew[i], 2.0*v.C[0]-3.0*v.C[1]+1.0)
	}
}

func Test_msh03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("msh03. 1-irregular closure over two levels")

	msh, err := GenQuadMesh(4, 4, 2, 2, 0)
	if err != nil {
		tst.Errorf("mesh generation failed:\n%v", err)
		return
	}

	// first refinement: bottom-left cell => level 1 children
	ref1, err := msh.Refine([]int{0}, 0)
	if err != nil {
		tst.Errorf("first refinement failed:\n%v", err)
		return
	}

	// find the level-1 child touching the coarse right neighbour
	target := -1
	for _, c := range ref1.Cells {
		if c.Level != 1 {
			continue
		}
		var xc float64
		for _, v := range c.Verts {
			xc += ref1.Verts[v].C[0]
		}
		if xc/4.0 > 1.0 { // right half of the refined parent
			target = c.Id
			break
		}
	}
	if target < 0 {
		tst.Errorf("cannot find target child cell")
		return
	}

	// second refinement: the closure must also split the coarse neighbour,
	// otherwise the level jump across the shared edge would be 2
	ref2, err := ref1.Refine([]int{target}, 0)
	if err != nil {
		tst.Errorf("second refinement failed:\n%v", err)
		return
	}
	nlev1 := 0
	for _, c := range ref2.Cells {
		if c.Level == 1 {
			nlev1++
		}
		if c.Level > 2 {
			tst.Errorf("unexpected level %d", c.Level)
			return
		}
	}
	// the coarse right neighbour was forced into the set: 3 original level-1
	// children + 4 children of the target + 4 children of the neighbour
	chk.IntAssert(nlev1, 7)
}
