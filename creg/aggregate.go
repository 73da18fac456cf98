// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package creg

import (
	"errors"
	"fmt"
	"slices"
)

type regDef struct {
	name     string
	line     int // first offset definition
	offset   uint32
	resolved bool
}

type value struct {
	v    uint32
	line int
	set  bool
}

type fieldDef struct {
	base string
	reg  string // explicit owner, see Record.Reg
	name string
	line int // first shift, mask or width definition
	vals [Width + 1]value
}

// Aggregator groups the records of one header into registers and fields.
type Aggregator struct {
	g      *Grammar
	diag   Sink
	file   string
	regs   map[string]*regDef
	rorder []*regDef
	fields map[string]*fieldDef
	forder []*fieldDef
	built  []Register // cached result of build, nil after Add
}

// NewAggregator returns an empty aggregator. The file name is used only in
// diagnostics.
func NewAggregator(file string, g *Grammar, d Sink) *Aggregator {
	if d == nil {
		d = NopSink{}
	}
	return &Aggregator{
		g:      g,
		diag:   d,
		file:   file,
		regs:   make(map[string]*regDef),
		fields: make(map[string]*fieldDef),
	}
}

func (a *Aggregator) report(k Kind, line int, name, f string, args ...any) {
	a.diag.Report(Diagnostic{
		Kind: k,
		File: a.file,
		Line: line,
		Name: name,
		Msg:  fmt.Sprintf(f, args...),
	})
}

// Add adds a record. Offsets define registers, the other roles define
// fields. A redefinition with a different value replaces the previous one
// and is reported.
func (a *Aggregator) Add(rec Record) {
	a.built = nil
	switch rec.Role {
	case Offset:
		r := a.regs[rec.Base]
		if r == nil {
			r = &regDef{name: rec.Base, line: rec.Line}
			a.regs[rec.Base] = r
			a.rorder = append(a.rorder, r)
		}
		if rec.Invalid {
			return
		}
		if r.resolved && r.offset != rec.Value {
			a.report(
				Redefined, rec.Line, rec.Base,
				"%s redefined: offset %#x replaces %#x", rec.Base, rec.Value, r.offset,
			)
		}
		r.offset = rec.Value
		r.resolved = true
	case Shift, Mask, Width:
		if rec.Invalid {
			return
		}
		f := a.fields[rec.Base]
		if f == nil {
			f = &fieldDef{base: rec.Base, reg: rec.Reg, name: rec.Field, line: rec.Line}
			a.fields[rec.Base] = f
			a.forder = append(a.forder, f)
		}
		v := &f.vals[rec.Role]
		if v.set && v.v != rec.Value {
			a.report(
				Redefined, rec.Line, rec.Base,
				"%s redefined: %s %#x replaces %#x", rec.Base, rec.Role, rec.Value, v.v,
			)
		}
		*v = value{rec.Value, rec.Line, true}
	}
}

// Peripheral resolves the field ownership and returns the peripheral model.
// Orphan, incomplete and inconsistent fields are reported and omitted. The
// model is built once: repeated calls without an intervening Add return
// equal models and report nothing new.
func (a *Aggregator) Peripheral(name string) *Peripheral {
	if a.built == nil {
		a.built = a.build()
	}
	p := &Peripheral{Name: name, Registers: make([]Register, len(a.built))}
	for i, r := range a.built {
		r.Fields = slices.Clone(r.Fields)
		p.Registers[i] = r
	}
	return p
}

func (a *Aggregator) build() []Register {
	known := make(map[string]bool, len(a.regs))
	for n := range a.regs {
		known[n] = true
	}
	fields := make(map[*regDef][]Field)
	reported := make(map[*regDef]bool)
	for _, f := range a.forder {
		owner, fname, ok := f.reg, f.name, a.regs[f.reg] != nil
		if f.reg == "" {
			owner, fname, ok = a.g.Owner(f.base, known)
		}
		if !ok {
			a.report(Orphan, f.line, f.base, "%s: no register definition matches this field", f.base)
			continue
		}
		r := a.regs[owner]
		if !r.resolved {
			if !reported[r] {
				reported[r] = true
				a.report(
					Unresolved, r.line, r.name,
					"register %s has fields but no valid offset, omitting it", r.name,
				)
			}
			continue
		}
		field, ok := a.resolve(f)
		if !ok {
			continue
		}
		field.Name = fname
		fields[r] = append(fields[r], field)
	}
	regs := make([]Register, 0, len(a.rorder))
	for _, r := range a.rorder {
		if !r.resolved {
			continue
		}
		regs = append(regs, Register{
			Name:   r.name,
			Offset: r.offset,
			Fields: fields[r],
		})
	}
	return regs
}

func (a *Aggregator) resolve(f *fieldDef) (Field, bool) {
	shift, mask, width := f.vals[Shift], f.vals[Mask], f.vals[Width]
	switch {
	case !shift.set:
		a.report(Incomplete, f.line, f.base, "%s: no shift definition, omitting the field", f.base)
		return Field{}, false
	case !mask.set && !width.set:
		a.report(Incomplete, f.line, f.base, "%s: no mask definition, omitting the field", f.base)
		return Field{}, false
	}
	if width.set {
		if width.v == 0 || width.v > 32 || shift.v >= 32 || shift.v+width.v > 32 {
			a.report(
				Mismatch, width.line, f.base,
				"%s: width %d at shift %d does not fit in a 32-bit register",
				f.base, width.v, shift.v,
			)
			return Field{}, false
		}
		m := uint32(1<<width.v-1) << shift.v
		if mask.set && mask.v != m {
			a.report(
				Mismatch, mask.line, f.base,
				"%s: mask %#x does not match width %d at shift %d",
				f.base, mask.v, width.v, shift.v,
			)
			return Field{}, false
		}
		if !mask.set {
			mask = value{m, width.line, true}
		}
	}
	if err := checkField(shift.v, mask.v); err != nil {
		a.report(Mismatch, mask.line, f.base, "%s: %v", f.base, err)
		return Field{}, false
	}
	return Field{Shift: shift.v, Mask: mask.v}, true
}

// checkField reports whether the register-relative mask is a single
// contiguous run of bits starting at shift.
func checkField(shift, mask uint32) error {
	if shift >= 32 {
		return fmt.Errorf("shift %d out of range", shift)
	}
	if mask == 0 {
		return errors.New("mask is zero")
	}
	m := mask >> shift
	if m<<shift != mask {
		return fmt.Errorf("mask %#x has bits below shift %d", mask, shift)
	}
	if m&(m+1) != 0 {
		return fmt.Errorf("mask %#x is not a contiguous bit range", mask)
	}
	return nil
}
