// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"os"
	"path"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Summary records summary of outputs
type Summary struct {
	Nproc    int          // number of processors used in the last run; equal to 1 if not distributed
	OutTimes []float64    // [nOutTimes] output times
	Resids   utl.DblSlist // residuals; one sublist per time step attempt
	Dirout   string       // directory where results are stored
	Fnkey    string       // filename key of simulation
}

// Save saves the summary to disc
func (o *Summary) Save(dirout, fnkey, enctype string, nproc, proc int, verbose bool) (err error) {

	// set data before saving
	o.Nproc = nproc
	o.Dirout = dirout
	o.Fnkey = fnkey

	// skip if not root
	if proc != 0 {
		return
	}

	// buffer and encoder
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)

	// encode summary
	err = enc.Encode(o)
	if err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}

	// save file
	fn := out_sum_path(dirout, fnkey, enctype, proc)
	return save_file(fn, &buf, verbose)
}

// Read reads the summary of a previous simulation
func (o *Summary) Read(dir, fnkey, enctype string) (err error) {

	// open file
	fn := out_sum_path(dir, fnkey, enctype, 0) // reading always from proc # 0
	fil, err := os.Open(fn)
	if err != nil {
		return
	}
	defer func() {
		if cerr := fil.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	// decode summary
	dec := GetDecoder(fil, enctype)
	err = dec.Decode(o)
	if err != nil {
		return chk.Err("cannot decode summary:\n%v", err)
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func out_sum_path(dir, fnkey, enctype string, proc int) string {
	return path.Join(dir, io.Sf("%s_p%d_sum.%s", fnkey, proc, enctype))
}
