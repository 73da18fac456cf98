// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package creg

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convertStructs(t *testing.T, src string) (*Peripheral, []Diagnostic) {
	t.Helper()
	c := new(Collector)
	p, err := Convert(strings.NewReader(src), Options{Syntax: Structs, File: "uart_reg.h", Diag: c})
	require.NoError(t, err)
	return p, c.Diagnostics()
}

func TestLayoutScanner(t *testing.T) {
	src := `struct uart_reg {
    /* 0x4 : cfg */
    union {
        struct {
            uint32_t en : 1; /* [0], r/w */
            uint32_t reserved_1_3 : 3;
            uint32_t div : 4;
        } BF;
        uint32_t WORD;
    } cfg;
};
`
	s := NewLayoutScanner(strings.NewReader(src), "uart_reg.h", nil)
	var recs []Record
	for s.Scan() {
		recs = append(recs, s.Record())
	}
	require.NoError(t, s.Err())
	assert.Equal(t, []Record{
		{Role: Offset, Name: "cfg", Base: "cfg", Value: 4, Line: 2},
		{Role: Shift, Name: "cfg.en", Base: "cfg.en", Value: 0, Line: 5, Reg: "cfg", Field: "en"},
		{Role: Width, Name: "cfg.en", Base: "cfg.en", Value: 1, Line: 5, Reg: "cfg", Field: "en"},
		{Role: Shift, Name: "cfg.div", Base: "cfg.div", Value: 4, Line: 7, Reg: "cfg", Field: "div"},
		{Role: Width, Name: "cfg.div", Base: "cfg.div", Value: 4, Line: 7, Reg: "cfg", Field: "div"},
	}, recs)
	assert.Equal(t, 11, s.Line())
}

func TestConvertStructsGLB(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "glb_reg.h"))
	require.NoError(t, err)
	c := new(Collector)
	p, err := Convert(bytes.NewReader(src), Options{Syntax: Structs, File: "glb_reg.h", Diag: c})
	require.NoError(t, err)
	assert.Empty(t, c.Diagnostics())
	assert.Equal(t, "glb", p.Name)
	assert.Equal(t, []Register{
		{Name: "clk_cfg0", Offset: 0x0, Fields: []Field{
			{Name: "reg_pll_en", Shift: 0, Mask: 0x1},
			{Name: "reg_fclk_en", Shift: 1, Mask: 0x2},
			{Name: "reg_hclk_div", Shift: 8, Mask: 0xFF00},
		}},
		{Name: "clk_cfg1", Offset: 0x4, Fields: []Field{
			{Name: "qdec_clk_div", Shift: 0, Mask: 0x1F},
			{Name: "ble_clk_sel", Shift: 16, Mask: 0x3F0000},
			{Name: "ble_en", Shift: 24, Mask: 0x1000000},
		}},
		{Name: "gpio_cfgctl0", Offset: 0x80, Fields: []Field{
			{Name: "reg_gpio_0_ie", Shift: 0, Mask: 0x1},
			{Name: "reg_gpio_0_func_sel", Shift: 8, Mask: 0xF00},
			{Name: "reg_gpio_1_ie", Shift: 16, Mask: 0x10000},
		}},
	}, p.Registers)

	// The macros of the same header describe the same layout.
	m, err := Convert(bytes.NewReader(src), Options{File: "glb_reg.h"})
	require.NoError(t, err)
	require.Len(t, m.Registers, len(p.Registers))
	for i, r := range m.Registers {
		s := p.Registers[i]
		assert.Equal(t, r.Offset, s.Offset, r.Name)
		require.Len(t, r.Fields, len(s.Fields), r.Name)
		for j, f := range r.Fields {
			assert.Equal(t, f.Shift, s.Fields[j].Shift, f.Name)
			assert.Equal(t, f.Mask, s.Fields[j].Mask, f.Name)
		}
	}
}

func TestConvertStructsErrors(t *testing.T) {
	src := `struct uart_reg {
    /* 0x0 : cfg */
    union {
        struct {
            uint32_t en : 1;
            uint32_t : 3;
            uint32_t div : 4;
            uint32_t bad field : x;
            uint32_t late : 1;
        } BF;
        uint32_t WORD;
    } cfg;
    union {
        struct {
            uint32_t a : 1;
        } BF;
    } nooff;
    /* 0x8 : sts */
    union {
        struct {
            uint32_t big : 33;
            uint32_t x : 1;
        } BF;
    } sts;
    /* 0xC : anon */
    union {
        struct {
            uint32_t y : 1;
        } BF;
    };
    /* 0xZZ : bad */
    /* 0x10 : wide */
    union {
        struct {
            uint32_t lo : 16;
            uint32_t hi : 20;
        } BF;
    } wide;
`
	p, diags := convertStructs(t, src)
	assert.Equal(t, []Register{
		{Name: "cfg", Offset: 0x0, Fields: []Field{
			{Name: "en", Shift: 0, Mask: 0x1},
			{Name: "div", Shift: 4, Mask: 0xF0},
		}},
		{Name: "sts", Offset: 0x8},
		{Name: "wide", Offset: 0x10, Fields: []Field{
			{Name: "lo", Shift: 0, Mask: 0xFFFF},
		}},
	}, p.Registers)

	assert.Equal(t,
		[]Kind{Layout, Layout, Layout, Layout, MalformedLiteral, Layout, Mismatch},
		kinds(diags),
	)
	var lines []int
	for _, d := range diags {
		lines = append(lines, d.Line)
	}
	assert.Equal(t, []int{8, 13, 21, 25, 31, 1, 36}, lines)
	assert.Equal(t, "wide.hi", diags[6].Name)
	assert.Equal(t, SevWarning, Layout.Severity())
}

func TestConvertStructsSkipsOtherBlocks(t *testing.T) {
	src := `#include <stdint.h>
typedef enum {
    MODE_A,
    MODE_B,
} mode_t;
struct dma_reg {
    /* 0x0 : ctrl */
    struct {
        uint32_t x : 1;
    } nested;
    union {
        uint32_t WORD;
    } noname;
    /* 0x10 : ch */
    union {
        struct {
            unsigned int en : 1;
            volatile uint8_t prio;
        } BF;
        struct {
            uint32_t ignored : 4;
        } ALT;
    } ch;
};
`
	p, diags := convertStructs(t, src)
	assert.Equal(t, []Register{
		{Name: "ch", Offset: 0x10, Fields: []Field{
			{Name: "en", Shift: 0, Mask: 0x1},
			{Name: "prio", Shift: 1, Mask: 0x1FE},
		}},
	}, p.Registers)
	assert.Equal(t, []Kind{Layout}, kinds(diags))
	assert.Equal(t, 11, diags[0].Line)
}

func TestParseBitField(t *testing.T) {
	tests := []struct {
		in    string
		name  string
		width uint32
		ok    bool
	}{
		{"uint32_t en : 1;", "en", 1, true},
		{"uint32_t en:0x3;", "en", 3, true},
		{"uint32_t : 7;", "", 7, true},
		{"unsigned int : 2;", "", 2, true},
		{"volatile uint16_t data;", "data", 16, true},
		{"uint8_t small : 9;", "", 0, false},
		{"uint32_t en : 1", "", 0, false},
		{"mytype_t data;", "", 0, false},
		{"uint8_t RESERVED0x8[120];", "", 0, false},
		{";", "", 0, false},
	}
	for _, tt := range tests {
		name, width, err := parseBitField(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.name, name, tt.in)
		assert.Equal(t, tt.width, width, tt.in)
	}
}
