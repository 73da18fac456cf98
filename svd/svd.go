// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package svd decodes the parts of CMSIS-SVD device descriptions needed to
// build register manifests.
package svd

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Uint uint32

func (u *Uint) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	*u = Uint(v)
	return err
}

type Device struct {
	Name        string        `xml:"name"`
	Peripherals []*Peripheral `xml:"peripherals>peripheral"`
}

// Peripheral holds the register layout of a peripheral. Its address is not
// decoded: manifests use register offsets only.
type Peripheral struct {
	DerivedFrom *string     `xml:"derivedFrom,attr"`
	Name        string      `xml:"name"`
	Registers   []*Register `xml:"registers>register"`
	Clusters    []*Cluster  `xml:"registers>cluster"`
}

type DimElementGroup struct {
	Dim          Uint    `xml:"dim"`
	DimIncrement Uint    `xml:"dimIncrement"`
	DimIndex     *string `xml:"dimIndex"`
}

// Names returns the element names for a name containing %s. It returns
// name itself if the element is not an array or a list.
func (g *DimElementGroup) Names(name string) ([]string, error) {
	if g.Dim == 0 || !strings.Contains(name, "%s") {
		return []string{name}, nil
	}
	idx := make([]string, g.Dim)
	for i := range idx {
		idx[i] = strconv.Itoa(i)
	}
	if g.DimIndex != nil {
		var err error
		if idx, err = dimIndex(*g.DimIndex, int(g.Dim)); err != nil {
			return nil, err
		}
	}
	name = strings.Replace(name, "[%s]", "%s", 1)
	names := make([]string, len(idx))
	for i, s := range idx {
		names[i] = strings.Replace(name, "%s", s, 1)
	}
	return names, nil
}

// dimIndex decodes the "0-3", "A-D" and "A,B,C" dimIndex forms.
func dimIndex(s string, dim int) ([]string, error) {
	var idx []string
	if a, b, ok := strings.Cut(s, "-"); ok {
		if lo, err := strconv.Atoi(a); err == nil {
			hi, err := strconv.Atoi(b)
			if err != nil {
				return nil, fmt.Errorf("bad dimIndex %q", s)
			}
			for i := lo; i <= hi; i++ {
				idx = append(idx, strconv.Itoa(i))
			}
		} else if len(a) == 1 && len(b) == 1 && a[0] <= b[0] {
			for c := a[0]; c <= b[0]; c++ {
				idx = append(idx, string(c))
			}
		}
	} else {
		idx = strings.Split(s, ",")
	}
	if len(idx) != dim {
		return nil, fmt.Errorf("dimIndex %q does not have %d elements", s, dim)
	}
	return idx, nil
}

type Register struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	DimElementGroup
	Name          string   `xml:"name"`
	AddressOffset Uint     `xml:"addressOffset"`
	Fields        []*Field `xml:"fields>field"`
}

type Cluster struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	DimElementGroup
	Name          string      `xml:"name"`
	AddressOffset Uint        `xml:"addressOffset"`
	Registers     []*Register `xml:"register"`
	Clusters      []*Cluster  `xml:"cluster"`
}

type Field struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	Name        string  `xml:"name"`
	*BitRangeOffsetWidth
	*BitRangeLSBMSB
	BitRangePattern *string `xml:"bitRange"`
}

type BitRangeOffsetWidth struct {
	BitOffset Uint  `xml:"bitOffset"`
	BitWidth  *Uint `xml:"bitWidth"`
}

type BitRangeLSBMSB struct {
	LSB Uint `xml:"lsb"`
	MSB Uint `xml:"msb"`
}

// Bits returns the position of the least significant bit of the field and
// its width. All three SVD bit-range forms are supported.
func (f *Field) Bits() (lsb, width uint, err error) {
	switch {
	case f.BitRangeOffsetWidth != nil:
		lsb, width = uint(f.BitOffset), 1
		if f.BitWidth != nil {
			width = uint(*f.BitWidth)
		}
	case f.BitRangeLSBMSB != nil:
		if f.MSB < f.LSB {
			return 0, 0, fmt.Errorf("%s: msb %d < lsb %d", f.Name, f.MSB, f.LSB)
		}
		lsb, width = uint(f.LSB), uint(f.MSB-f.LSB)+1
	case f.BitRangePattern != nil:
		// [msb:lsb]
		s := strings.TrimSpace(*f.BitRangePattern)
		if len(s) < 5 || s[0] != '[' || s[len(s)-1] != ']' {
			return 0, 0, fmt.Errorf("%s: bad bitRange %q", f.Name, s)
		}
		a, b, ok := strings.Cut(s[1:len(s)-1], ":")
		msb, err1 := strconv.ParseUint(a, 10, 8)
		l, err2 := strconv.ParseUint(b, 10, 8)
		if !ok || err1 != nil || err2 != nil || msb < l {
			return 0, 0, fmt.Errorf("%s: bad bitRange %q", f.Name, s)
		}
		lsb, width = uint(l), uint(msb-l)+1
	default:
		return 0, 0, fmt.Errorf("%s: bit range not specified", f.Name)
	}
	if width == 0 || lsb+width > 32 {
		return 0, 0, fmt.Errorf("%s: bits %d+%d do not fit in 32 bits", f.Name, lsb, width)
	}
	return lsb, width, nil
}

// Load decodes the named SVD file.
func Load(name string) (*Device, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	dev := new(Device)
	if err := xml.Unmarshal(data, dev); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return dev, nil
}
