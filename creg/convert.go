// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package creg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	ErrEmptyInput = errors.New("empty input")
	ErrRead       = errors.New("cannot read input")
)

// Syntax selects how a header declares its registers.
type Syntax uint8

const (
	Macros  Syntax = iota // offset, shift and mask macros named by a Grammar
	Structs               // struct of unions with bit fields, see LayoutScanner
)

func (s Syntax) String() string {
	switch s {
	case Macros:
		return "macros"
	case Structs:
		return "structs"
	}
	return fmt.Sprintf("Syntax(%d)", s)
}

// ParseSyntax returns the syntax named by s.
func ParseSyntax(s string) (Syntax, error) {
	switch strings.ToLower(s) {
	case "", "macros":
		return Macros, nil
	case "structs":
		return Structs, nil
	}
	return 0, fmt.Errorf("unknown header syntax %q", s)
}

// Options control a conversion. The zero value reads macros named by
// DefaultGrammar and discards diagnostics.
type Options struct {
	Syntax  Syntax
	Grammar *Grammar // used by Macros
	Diag    Sink
	File    string // input name used in diagnostics
	Name    string // peripheral name, PeripheralName(File) if empty
}

type recordScanner interface {
	Scan() bool
	Record() Record
	Err() error
}

// Convert reads a whole header from r and returns its peripheral model.
// Only a read error or an empty (blank) input is an error. Everything else
// is reported to o.Diag and omitted from the model.
func Convert(r io.Reader, o Options) (*Peripheral, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, o.File, err)
	}
	if len(bytes.TrimSpace(bytes.TrimPrefix(data, []byte(bom)))) == 0 {
		return nil, fmt.Errorf("%s: %w", o.File, ErrEmptyInput)
	}
	g := o.Grammar
	if g == nil {
		g = DefaultGrammar()
	}
	name := o.Name
	if name == "" {
		name = PeripheralName(o.File)
	}
	var sc recordScanner
	switch o.Syntax {
	case Macros:
		sc = NewScanner(bytes.NewReader(data), o.File, g, o.Diag)
	case Structs:
		sc = NewLayoutScanner(bytes.NewReader(data), o.File, o.Diag)
	default:
		return nil, fmt.Errorf("%s: unknown header syntax %v", o.File, o.Syntax)
	}
	agg := NewAggregator(o.File, g, o.Diag)
	for sc.Scan() {
		agg.Add(sc.Record())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return agg.Peripheral(name), nil
}

// ConvertFile converts the named header. The name "-" means standard input.
func ConvertFile(path string, o Options) (*Peripheral, error) {
	if o.File == "" {
		o.File = path
	}
	if path == "-" {
		if o.Name == "" {
			o.Name = "stdin"
		}
		return Convert(os.Stdin, o)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()
	return Convert(f, o)
}
