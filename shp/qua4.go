// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import "math"

// shape function and derivatives of a 4-node bilinear quadrilateral
//
//   3 ------- 2
//   |    s    |
//   |    |    |
//   |    +--r |
//   |         |
//   0 ------- 1
//
func init() {
	qua4 := Shape{
		Type:       "qua4",
		FaceType:   "lin2",
		Gndim:      2,
		Nverts:     4,
		VtkCode:    9, // VTK_QUAD
		FaceNverts: 2,
		FaceLocalVerts: [][]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 0},
		},
		NatCoords: [][]float64{
			{-1, 1, 1, -1},
			{-1, -1, 1, 1},
		},
	}

	qua4.Func = func(S []float64, dSdR [][]float64, r []float64, derivs bool, idxface int) {
		s, t := r[0], r[1]
		S[0] = (1.0 - s) * (1.0 - t) / 4.0
		S[1] = (1.0 + s) * (1.0 - t) / 4.0
		S[2] = (1.0 + s) * (1.0 + t) / 4.0
		S[3] = (1.0 - s) * (1.0 + t) / 4.0
		if !derivs {
			return
		}
		dSdR[0][0] = -(1.0 - t) / 4.0
		dSdR[0][1] = -(1.0 - s) / 4.0
		dSdR[1][0] = (1.0 - t) / 4.0
		dSdR[1][1] = -(1.0 + s) / 4.0
		dSdR[2][0] = (1.0 + t) / 4.0
		dSdR[2][1] = (1.0 + s) / 4.0
		dSdR[3][0] = -(1.0 + t) / 4.0
		dSdR[3][1] = (1.0 - s) / 4.0
	}

	qua4.FaceFunc = func(S []float64, dSdR [][]float64, r []float64, derivs bool, idxface int) {
		lin2 := factory["lin2"]
		lin2.Func(S, dSdR, r, derivs, -1)
	}

	qua4.init_scratchpad()
	factory["qua4"] = &qua4

	// integration points
	g := 1.0 / math.Sqrt(3.0)
	ipsfactory["qua4"] = map[int][]Ipoint{
		1: {
			{0, 0, 0, 4},
		},
		4: {
			{-g, -g, 0, 1},
			{g, -g, 0, 1},
			{-g, g, 0, 1},
			{g, g, 0, 1},
		},
	}
	defaultNips["qua4"] = 4
}
