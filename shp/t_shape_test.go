// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_shape01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape01. qua4: partition of unity and nodal values")

	q := Get("qua4", 0)
	if q == nil {
		tst.Errorf("cannot get qua4 shape")
		return
	}
	chk.IntAssert(q.Nverts, 4)
	chk.IntAssert(q.Gndim, 2)

	// shape functions are 1 at their own node, 0 at the others
	for n := 0; n < q.Nverts; n++ {
		r := []float64{q.NatCoords[0][n], q.NatCoords[1][n]}
		q.Func(q.S, q.DSdR, r, true, -1)
		for m := 0; m < q.Nverts; m++ {
			v := 0.0
			if m == n {
				v = 1.0
			}
			chk.Scalar(tst, io.Sf("S%d(node %d)", m, n), 1e-15, q.S[m], v)
		}
	}

	// partition of unity and zero-sum of derivatives at interior points
	for _, r := range [][]float64{{0, 0}, {0.25, -0.5}, {-0.99, 0.99}} {
		q.Func(q.S, q.DSdR, r, true, -1)
		sum := 0.0
		var dsum [2]float64
		for m := 0; m < q.Nverts; m++ {
			sum += q.S[m]
			dsum[0] += q.DSdR[m][0]
			dsum[1] += q.DSdR[m][1]
		}
		chk.Scalar(tst, "Σ S", 1e-15, sum, 1.0)
		chk.Scalar(tst, "Σ dS/dr", 1e-15, dsum[0], 0.0)
		chk.Scalar(tst, "Σ dS/ds", 1e-15, dsum[1], 0.0)
	}
}

func Test_shape02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape02. qua4: Jacobian and quadrature on a stretched cell")

	q := Get("qua4", 1)

	// 2 x 1 rectangle
	x := [][]float64{
		{0, 2, 2, 0},
		{0, 0, 1, 1},
	}

	ips, _, err := q.GetIps(0, 0)
	if err != nil {
		tst.Errorf("cannot get integration points:\n%v", err)
		return
	}
	chk.IntAssert(len(ips), 4)

	// ∫ dΩ == area
	area := 0.0
	for _, ip := range ips {
		err = q.CalcAtIp(x, ip, true)
		if err != nil {
			tst.Errorf("CalcAtIp failed:\n%v", err)
			return
		}
		chk.Scalar(tst, "J", 1e-15, q.J, 0.5)
		area += q.J * ip[3]
	}
	chk.Scalar(tst, "area", 1e-14, area, 2.0)

	// G recovers the gradient of a linear field u(x,y) = 3x - 2y
	u := []float64{0, 6, 4, -2}
	for _, ip := range ips {
		err = q.CalcAtIp(x, ip, true)
		if err != nil {
			tst.Errorf("CalcAtIp failed:\n%v", err)
			return
		}
		var gx, gy float64
		for m := 0; m < q.Nverts; m++ {
			gx += q.G[m][0] * u[m]
			gy += q.G[m][1] * u[m]
		}
		chk.Scalar(tst, "du/dx", 1e-14, gx, 3.0)
		chk.Scalar(tst, "du/dy", 1e-14, gy, -2.0)
	}
}

func Test_shape03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape03. qua4: face normal vectors")

	q := Get("qua4", 1)
	x := [][]float64{
		{0, 2, 2, 0},
		{0, 0, 1, 1},
	}

	// outward normals scaled by the face Jacobian: ∫ n dΓ per face
	correct := [][]float64{
		{0, -2}, // bottom, length 2
		{1, 0},  // right, length 1
		{0, 2},  // top, length 2
		{-1, 0}, // left, length 1
	}
	_, fips, err := q.GetIps(0, 0)
	if err != nil {
		tst.Errorf("cannot get integration points:\n%v", err)
		return
	}
	for iface := 0; iface < 4; iface++ {
		res := make([]float64, 2)
		for _, ipf := range fips {
			err = q.CalcAtFaceIp(x, ipf, iface)
			if err != nil {
				tst.Errorf("CalcAtFaceIp failed:\n%v", err)
				return
			}
			res[0] += q.Fnvec[0] * ipf[3]
			res[1] += q.Fnvec[1] * ipf[3]
		}
		chk.Vector(tst, io.Sf("∫n dΓ (face %d)", iface), 1e-14, res, correct[iface])
	}
}
