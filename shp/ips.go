// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// ipsfactory maps shape type => number of points => integration points set
var ipsfactory = make(map[string]map[int][]Ipoint)

// defaultNips maps shape type => default number of integration points
var defaultNips = make(map[string]int)
