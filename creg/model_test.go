// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package creg

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldWidthValue(t *testing.T) {
	f := Field{Name: "DIV", Shift: 8, Mask: 0xFF00}
	assert.Equal(t, 8, f.Width())
	assert.Equal(t, uint32(0xAB), f.Value(0x12AB34))
	assert.Equal(t, 32, Field{Mask: 0xFFFFFFFF}.Width())
}

func TestManifestIndent(t *testing.T) {
	p := &Peripheral{Registers: []Register{{Name: "CR", Offset: 0x10}}}
	data, err := p.Manifest().Encode(JSON, true)
	require.NoError(t, err)
	want := `{
  "registers": [
    {
      "name": "CR",
      "offset": 16,
      "fields": []
    }
  ]
}
`
	assert.Equal(t, want, string(data))
	assert.True(t, json.Valid(data))
}

func TestManifestLargeValues(t *testing.T) {
	p := &Peripheral{Registers: []Register{{
		Name:   "R",
		Offset: 0xFFFFFFFC,
		Fields: []Field{{Name: "TOP", Shift: 31, Mask: 0x80000000}},
	}}}
	data, err := p.Manifest().Encode(JSON, false)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"offset":4294967292`)
	assert.Contains(t, string(data), `"mask":2147483648`)
}

func TestManifestCBOR(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "glb_reg.h"))
	require.NoError(t, err)
	p, err := Convert(bytes.NewReader(src), Options{File: "glb_reg.h"})
	require.NoError(t, err)

	data, err := p.Manifest().Encode(CBOR, false)
	require.NoError(t, err)
	again, err := p.Manifest().Encode(CBOR, true)
	require.NoError(t, err)
	assert.Equal(t, data, again, "CBOR encoding must be deterministic")

	m, err := DecodeManifest(data, CBOR)
	require.NoError(t, err)
	assert.Equal(t, p.Manifest(), m)
}

func TestDecodeManifestErrors(t *testing.T) {
	_, err := DecodeManifest([]byte("{"), JSON)
	assert.Error(t, err)
	_, err = DecodeManifest([]byte{0xFF}, CBOR)
	assert.Error(t, err)
	_, err = DecodeManifest(nil, Format(7))
	assert.Error(t, err)
	_, err = (&Manifest{}).Encode(Format(7), false)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CBOR")
	require.NoError(t, err)
	assert.Equal(t, CBOR, f)
	assert.Equal(t, ".cbor", f.Ext())
	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, ".json", f.Ext())
	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestSchemaIsJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(Schema), &v))
	assert.Equal(t, []any{"registers"}, v["required"])
}
