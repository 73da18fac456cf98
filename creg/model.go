// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package creg

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Field is a bit range of a register. Mask is register-relative: it is the
// value ANDed with the whole register to extract the field.
type Field struct {
	Name  string `json:"name" cbor:"name"`
	Shift uint32 `json:"shift" cbor:"shift"`
	Mask  uint32 `json:"mask" cbor:"mask"`
}

// Width returns the field width in bits.
func (f Field) Width() int { return bits.OnesCount32(f.Mask) }

// Value returns the field value extracted from the register value r.
func (f Field) Value(r uint32) uint32 { return r & f.Mask >> f.Shift }

type Register struct {
	Name   string  `json:"name" cbor:"name"`
	Offset uint32  `json:"offset" cbor:"offset"`
	Fields []Field `json:"fields" cbor:"fields"`
}

// Peripheral is the register model of one header. Registers and their
// fields are in the order of their first definition in the header.
type Peripheral struct {
	Name      string
	Registers []Register
}

// NumFields returns the total number of fields of all registers.
func (p *Peripheral) NumFields() int {
	n := 0
	for _, r := range p.Registers {
		n += len(r.Fields)
	}
	return n
}

// Manifest returns the serializable form of p.
func (p *Peripheral) Manifest() *Manifest {
	m := &Manifest{Registers: make([]Register, len(p.Registers))}
	for i, r := range p.Registers {
		if r.Fields == nil {
			r.Fields = []Field{}
		}
		m.Registers[i] = r
	}
	return m
}

// Manifest is the document written for a peripheral:
//
//	{"registers":[{"name":"R","offset":0,"fields":[{"name":"F","shift":0,"mask":1}]}]}
type Manifest struct {
	Registers []Register `json:"registers" cbor:"registers"`
}

// Format is a manifest encoding.
type Format uint8

const (
	JSON Format = iota
	CBOR
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case CBOR:
		return "cbor"
	}
	return fmt.Sprintf("Format(%d)", f)
}

// Ext returns the file name extension used for the format.
func (f Format) Ext() string { return "." + f.String() }

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "cbor":
		return CBOR, nil
	}
	return JSON, fmt.Errorf("unknown manifest format %q", s)
}

var cborEnc cbor.EncMode

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// Encode returns m encoded in the format f. JSON output is compact (or
// indented with two spaces if indent is set) and ends with a newline.
func (m *Manifest) Encode(f Format, indent bool) ([]byte, error) {
	switch f {
	case JSON:
		var (
			data []byte
			err  error
		)
		if indent {
			data, err = json.MarshalIndent(m, "", "  ")
		} else {
			data, err = json.Marshal(m)
		}
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case CBOR:
		return cborEnc.Marshal(m)
	}
	return nil, fmt.Errorf("unknown manifest format %v", f)
}

// DecodeManifest decodes a manifest encoded by Encode.
func DecodeManifest(data []byte, f Format) (*Manifest, error) {
	m := new(Manifest)
	var err error
	switch f {
	case JSON:
		err = json.Unmarshal(data, m)
	case CBOR:
		err = cbor.Unmarshal(data, m)
	default:
		err = fmt.Errorf("unknown manifest format %v", f)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// PeripheralName derives the peripheral name from a header path:
// "sdk/include/uart_reg.h" gives "uart".
func PeripheralName(path string) string {
	name := filepath.Base(path)
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	name = strings.TrimSuffix(name, "_reg")
	return strings.ToLower(name)
}
