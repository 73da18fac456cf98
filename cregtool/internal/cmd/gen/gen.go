// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"bytes"
	"fmt"
	"go/token"
	"io"
	"strings"
	"text/tabwriter"
	"unicode"

	"golang.org/x/tools/imports"

	"github.com/embeddedgo/cregtool/creg"
)

// identSet detects name conflicts between the generated declarations.
type identSet map[string]string

func (s identSet) add(name, what string) error {
	if !token.IsIdentifier(name) {
		return fmt.Errorf("%s: %q is not a valid Go identifier", what, name)
	}
	if prev, ok := s[name]; ok {
		return fmt.Errorf("%s: name %s already used by %s", what, name, prev)
	}
	s[name] = what
	return nil
}

// Generate writes Go source with the register offsets and bit fields of p.
// Every register gets a uint32 based type named after it and an offset
// constant REG_OFFSET. Every field gets a constant of the register type
// REG_FIELD holding its mask and an untyped constant REG_FIELDn holding
// its shift.
func Generate(w io.Writer, pkg string, p *creg.Peripheral, sep string) error {
	ids := make(identSet)
	for _, r := range p.Registers {
		if err := ids.add(r.Name, "register "+r.Name); err != nil {
			return err
		}
		if err := ids.add(r.Name+sep+"OFFSET", "offset of "+r.Name); err != nil {
			return err
		}
		for _, f := range r.Fields {
			name := fieldConst(r, f, sep)
			if err := ids.add(name, "field "+name); err != nil {
				return err
			}
			if err := ids.add(name+"n", "shift of "+name); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(w, "// Code generated by cregtool gen; DO NOT EDIT.")
	fmt.Fprintln(w)
	fmt.Fprintln(
		w, "// Package", pkg, "provides the register offsets and bit fields of the",
		strings.ToUpper(p.Name), "peripheral.",
	)
	if len(p.Registers) != 0 {
		fmt.Fprintln(w, "//")
		fmt.Fprintln(w, "// Registers:")
		tw := new(tabwriter.Writer)
		tw.Init(w, 0, 0, 1, ' ', 0)
		for _, r := range p.Registers {
			fmt.Fprintf(tw, "//  0x%03X\t %s\t %d fields\n", r.Offset, r.Name, len(r.Fields))
		}
		tw.Flush()
	}
	fmt.Fprintln(w, "package", pkg)
	if len(p.Registers) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\nconst (")
	for _, r := range p.Registers {
		fmt.Fprintf(w, "\t%s%sOFFSET uintptr = 0x%03X\n", r.Name, sep, r.Offset)
	}
	fmt.Fprintln(w, ")")
	for _, r := range p.Registers {
		fmt.Fprintf(w, "\ntype %s uint32\n", r.Name)
		if len(r.Fields) == 0 {
			continue
		}
		fmt.Fprintln(w, "\nconst (")
		for _, f := range r.Fields {
			fmt.Fprintf(
				w, "\t%s %s = 0x%02X << %d //+\n",
				fieldConst(r, f, sep), r.Name, f.Mask>>f.Shift, f.Shift,
			)
		}
		fmt.Fprintln(w, ")")
		fmt.Fprintln(w, "\nconst (")
		for _, f := range r.Fields {
			fmt.Fprintf(w, "\t%sn = %d\n", fieldConst(r, f, sep), f.Shift)
		}
		fmt.Fprintln(w, ")")
	}
	return nil
}

func fieldConst(r creg.Register, f creg.Field, sep string) string {
	return r.Name + sep + f.Name
}

// Source returns the generated source formatted by goimports. The file
// name is used only in error messages.
func Source(file, pkg string, p *creg.Peripheral, sep string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Generate(&buf, pkg, p, sep); err != nil {
		return nil, err
	}
	src, err := imports.Process(file, buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("goimports %s: %w", file, err)
	}
	return src, nil
}

// PackageName turns a peripheral name into a Go package name.
func PackageName(periph string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(periph) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || !unicode.IsLetter(rune(name[0])) || token.IsKeyword(name) {
		name = "p" + name
	}
	return name
}
