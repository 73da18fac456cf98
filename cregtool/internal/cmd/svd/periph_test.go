// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd

import (
	"bytes"
	"context"
	"encoding/xml"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embeddedgo/cregtool/creg"
	"github.com/embeddedgo/cregtool/svd"
)

const deviceXML = `<device>
  <name>DEV</name>
  <peripherals>
    <peripheral>
      <name>TIM1</name>
      <baseAddress>0x40010000</baseAddress>
      <registers>
        <register>
          <name>CR1</name>
          <addressOffset>0x0</addressOffset>
          <fields>
            <field><name>CEN</name><bitOffset>0</bitOffset><bitWidth>1</bitWidth></field>
            <field><name>CKD</name><lsb>8</lsb><msb>9</msb></field>
            <field><name>BAD</name><bitRange>[1:2]</bitRange></field>
          </fields>
        </register>
        <register>
          <dim>2</dim>
          <dimIncrement>4</dimIncrement>
          <name>CCR%s</name>
          <addressOffset>0x34</addressOffset>
          <fields>
            <field><name>CCR</name><bitRange>[15:0]</bitRange></field>
          </fields>
        </register>
        <register derivedFrom="CR1">
          <name>CR3</name>
          <addressOffset>0x8</addressOffset>
        </register>
        <cluster>
          <dim>2</dim>
          <dimIncrement>0x10</dimIncrement>
          <dimIndex>A,B</dimIndex>
          <name>CH%s</name>
          <addressOffset>0x100</addressOffset>
          <register><name>CFG</name><addressOffset>0x4</addressOffset></register>
          <cluster>
            <name>SUB</name>
            <addressOffset>0x8</addressOffset>
            <register><name>X</name><addressOffset>0x0</addressOffset></register>
          </cluster>
        </cluster>
      </registers>
    </peripheral>
    <peripheral derivedFrom="TIM1">
      <name>TIM8</name>
      <baseAddress>0x40013400</baseAddress>
    </peripheral>
    <peripheral derivedFrom="NOPE">
      <name>TIM9</name>
      <baseAddress>0x40014000</baseAddress>
    </peripheral>
  </peripherals>
</device>`

func decodeDevice(t *testing.T) *svd.Device {
	t.Helper()
	dev := new(svd.Device)
	require.NoError(t, xml.Unmarshal([]byte(deviceXML), dev))
	return dev
}

func TestPeripherals(t *testing.T) {
	var logbuf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logbuf, nil))
	ps := Peripherals(decodeDevice(t), log)
	require.Len(t, ps, 2)

	tim1 := ps[0]
	assert.Equal(t, "tim1", tim1.Name)
	ccr := []creg.Field{{Name: "CCR", Shift: 0, Mask: 0xFFFF}}
	assert.Equal(t, []creg.Register{
		{Name: "CR1", Offset: 0x0, Fields: []creg.Field{
			{Name: "CEN", Shift: 0, Mask: 0x1},
			{Name: "CKD", Shift: 8, Mask: 0x300},
		}},
		{Name: "CCR0", Offset: 0x34, Fields: ccr},
		{Name: "CCR1", Offset: 0x38, Fields: ccr},
		{Name: "CHA_CFG", Offset: 0x104, Fields: []creg.Field{}},
		{Name: "CHA_SUB_X", Offset: 0x108, Fields: []creg.Field{}},
		{Name: "CHB_CFG", Offset: 0x114, Fields: []creg.Field{}},
		{Name: "CHB_SUB_X", Offset: 0x118, Fields: []creg.Field{}},
	}, tim1.Registers)

	tim8 := ps[1]
	assert.Equal(t, "tim8", tim8.Name)
	assert.Equal(t, tim1.Registers, tim8.Registers)

	out := logbuf.String()
	assert.Contains(t, out, "derived registers not supported")
	assert.Contains(t, out, "unknown base peripheral")
	assert.Contains(t, out, "BAD")
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ps := Peripherals(decodeDevice(t), log)
	require.NoError(t, save(context.Background(), log, ps, dir, creg.JSON, false))

	for _, name := range []string{"tim1.json", "tim8.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		m, err := creg.DecodeManifest(data, creg.JSON)
		require.NoError(t, err, name)
		assert.Len(t, m.Registers, 7, name)
	}

	ps = append(ps, &creg.Peripheral{Name: "tim1"})
	err := save(context.Background(), log, ps, dir, creg.JSON, false)
	assert.Error(t, err)
}
