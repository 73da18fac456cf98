// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd

import (
	"log/slog"
	"strings"

	"github.com/embeddedgo/cregtool/creg"
	"github.com/embeddedgo/cregtool/svd"
)

// Peripherals returns the register model of every peripheral of dev in the
// order of the SVD file. Registers of clusters are prefixed with the
// cluster name, register arrays are unrolled. Field masks are
// register-relative as in manifests converted from headers.
func Peripherals(dev *svd.Device, log *slog.Logger) []*creg.Peripheral {
	spmap := make(map[string]*svd.Peripheral, len(dev.Peripherals))
	for _, sp := range dev.Peripherals {
		spmap[sp.Name] = sp
	}
	ps := make([]*creg.Peripheral, 0, len(dev.Peripherals))
	for _, sp := range dev.Peripherals {
		src := sp
		if sp.DerivedFrom != nil && len(sp.Registers) == 0 && len(sp.Clusters) == 0 {
			if src = spmap[*sp.DerivedFrom]; src == nil {
				log.Warn("unknown base peripheral", "peripheral", sp.Name, "derivedFrom", *sp.DerivedFrom)
				continue
			}
		}
		c := &conv{log: log, p: &creg.Peripheral{Name: strings.ToLower(sp.Name)}}
		c.regs("", 0, src.Registers)
		for _, sc := range src.Clusters {
			c.cluster("", 0, sc)
		}
		ps = append(ps, c.p)
	}
	return ps
}

type conv struct {
	log *slog.Logger
	p   *creg.Peripheral
}

func (c *conv) cluster(prefix string, offset uint32, sc *svd.Cluster) {
	if sc.DerivedFrom != nil {
		c.log.Warn("derived clusters not supported", "peripheral", c.p.Name, "cluster", sc.Name)
		return
	}
	names, err := sc.Names(sc.Name)
	if err != nil {
		c.log.Warn(err.Error(), "peripheral", c.p.Name, "cluster", sc.Name)
		return
	}
	for i, name := range names {
		off := offset + uint32(sc.AddressOffset) + uint32(i)*uint32(sc.DimIncrement)
		pre := prefix + name + "_"
		c.regs(pre, off, sc.Registers)
		for _, sub := range sc.Clusters {
			c.cluster(pre, off, sub)
		}
	}
}

func (c *conv) regs(prefix string, offset uint32, srs []*svd.Register) {
	for _, sr := range srs {
		if sr.DerivedFrom != nil {
			c.log.Warn("derived registers not supported", "peripheral", c.p.Name, "register", sr.Name)
			continue
		}
		names, err := sr.Names(sr.Name)
		if err != nil {
			c.log.Warn(err.Error(), "peripheral", c.p.Name, "register", sr.Name)
			continue
		}
		fields := c.fields(sr)
		for i, name := range names {
			c.p.Registers = append(c.p.Registers, creg.Register{
				Name:   prefix + name,
				Offset: offset + uint32(sr.AddressOffset) + uint32(i)*uint32(sr.DimIncrement),
				Fields: fields,
			})
		}
	}
}

func (c *conv) fields(sr *svd.Register) []creg.Field {
	fields := make([]creg.Field, 0, len(sr.Fields))
	for _, sf := range sr.Fields {
		if sf.DerivedFrom != nil {
			c.log.Warn("derived fields not supported", "register", sr.Name, "field", sf.Name)
			continue
		}
		lsb, width, err := sf.Bits()
		if err != nil {
			c.log.Warn(err.Error(), "peripheral", c.p.Name, "register", sr.Name)
			continue
		}
		fields = append(fields, creg.Field{
			Name:  sf.Name,
			Shift: uint32(lsb),
			Mask:  uint32(1<<width-1) << lsb,
		})
	}
	return fields
}
