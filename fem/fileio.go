// Copyright 2016 The Eaglefrac Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"path"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// SaveSol saves the solution (o.Sol) to a file which name is set with tidx (time output index)
func (o *Domain) SaveSol(tidx int, verbose bool) (err error) {

	// skip if not root
	if o.Proc != 0 {
		return
	}

	// buffer and encoder
	var buf bytes.Buffer
	enc := GetEncoder(&buf, o.Sim.EncType)

	// encode Sol
	err = enc.Encode(o.Sol.T)
	if err != nil {
		return chk.Err("cannot encode Domain.Sol.T\n%v", err)
	}
	err = enc.Encode(o.Sol.Y)
	if err != nil {
		return chk.Err("cannot encode Domain.Sol.Y\n%v", err)
	}
	err = enc.Encode(o.Sol.OldY)
	if err != nil {
		return chk.Err("cannot encode Domain.Sol.OldY\n%v", err)
	}
	err = enc.Encode(o.Sol.OldOldY)
	if err != nil {
		return chk.Err("cannot encode Domain.Sol.OldOldY\n%v", err)
	}

	// save file
	fn := out_nod_path(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType, tidx, o.Proc)
	return save_file(fn, &buf, verbose)
}

// ReadSol reads the solution from a file which name is set with tidx (time output index)
//  Note: the number of DOFs must match; i.e. the mesh must be the one saved alongside
func (o *Domain) ReadSol(dir, fnkey, enctype string, tidx int) (err error) {

	// open file
	fn := out_nod_path(dir, fnkey, enctype, tidx, 0) // 0 => reading always from proc # 0
	fil, err := os.Open(fn)
	if err != nil {
		return
	}
	defer func() {
		if cerr := fil.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	// get decoder
	dec := GetDecoder(fil, enctype)

	// decode Sol
	err = dec.Decode(&o.Sol.T)
	if err != nil {
		return chk.Err("cannot decode Domain.Sol.T\n%v", err)
	}
	err = dec.Decode(&o.Sol.Y)
	if err != nil {
		return chk.Err("cannot decode Domain.Sol.Y\n%v", err)
	}
	err = dec.Decode(&o.Sol.OldY)
	if err != nil {
		return chk.Err("cannot decode Domain.Sol.OldY\n%v", err)
	}
	err = dec.Decode(&o.Sol.OldOldY)
	if err != nil {
		return chk.Err("cannot decode Domain.Sol.OldOldY\n%v", err)
	}
	return
}

// SaveMsh saves the current mesh; the mesh changes across output times when
// adaptation is enabled
func (o *Domain) SaveMsh(tidx int, verbose bool) (err error) {
	if o.Proc != 0 {
		return
	}
	var buf bytes.Buffer
	buf.WriteString(o.Msh.String())
	fn := out_msh_path(o.Sim.DirOut, o.Sim.Key, tidx, o.Proc)
	return save_file(fn, &buf, verbose)
}

// Save performs the output of the solution, the mesh, the VTU file for
// visualisation and the diagnostics series row
func (o *Domain) Save(tidx int, verbose bool) (err error) {
	err = o.SaveSol(tidx, verbose)
	if err != nil {
		return
	}
	err = o.SaveMsh(tidx, verbose)
	if err != nil {
		return
	}
	err = o.SaveVtu(tidx, verbose)
	if err != nil {
		return
	}
	return o.SaveDiag(tidx)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func out_nod_path(dir, fnkey, enctype string, tidx, proc int) string {
	return path.Join(dir, io.Sf("%s_p%d_nod_%010d.%s", fnkey, proc, tidx, enctype))
}

func out_msh_path(dir, fnkey string, tidx, proc int) string {
	return path.Join(dir, io.Sf("%s_p%d_msh_%010d.msh", fnkey, proc, tidx))
}

func out_vtu_path(dir, fnkey string, tidx, proc int) string {
	return path.Join(dir, io.Sf("%s_p%d_%010d.vtu", fnkey, proc, tidx))
}

func out_diag_path(dir, fnkey string) string {
	return path.Join(dir, io.Sf("%s_diag.res", fnkey))
}

func append_file(filename string, buf *bytes.Buffer, truncate bool) (err error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_APPEND
	if truncate {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	fil, err := os.OpenFile(filename, flags, 0644)
	if err != nil {
		return
	}
	defer func() {
		if cerr := fil.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = fil.Write(buf.Bytes())
	return
}

func save_file(filename string, buf *bytes.Buffer, verbose bool) (err error) {
	fil, err := os.Create(filename)
	if err != nil {
		return
	}
	defer func() {
		if cerr := fil.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = fil.Write(buf.Bytes())
	if verbose {
		io.Pfblue2("file <%s> written\n", filename)
	}
	return
}
