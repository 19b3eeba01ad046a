// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import "math"

// shape function and derivatives of a 2-node line
//
//   0 ----+---- 1  --r
//
func init() {
	lin2 := Shape{
		Type:       "lin2",
		FaceType:   "",
		Gndim:      1,
		Nverts:     2,
		VtkCode:    3, // VTK_LINE
		FaceNverts: 0,
		NatCoords: [][]float64{
			{-1, 1},
		},
	}

	lin2.Func = func(S []float64, dSdR [][]float64, r []float64, derivs bool, idxface int) {
		s := r[0]
		S[0] = (1.0 - s) / 2.0
		S[1] = (1.0 + s) / 2.0
		if !derivs {
			return
		}
		dSdR[0][0] = -0.5
		dSdR[1][0] = 0.5
	}

	lin2.init_scratchpad()
	factory["lin2"] = &lin2

	// integration points
	g := 1.0 / math.Sqrt(3.0)
	ipsfactory["lin2"] = map[int][]Ipoint{
		1: {
			{0, 0, 0, 2},
		},
		2: {
			{-g, 0, 0, 1},
			{g, 0, 0, 1},
		},
	}
	defaultNips["lin2"] = 2
}
