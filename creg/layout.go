// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package creg

import (
	"fmt"
	"io"
	"strings"
)

// LayoutScanner reads registers declared as a struct of unions, one union
// per register, the way the Bouffalo Lab SDK headers do it:
//
//	struct glb_reg {
//	    /* 0x0 : clk_cfg0 */
//	    union {
//	        struct {
//	            uint32_t reg_pll_en     : 1; /* [0], r/w, 0x1 */
//	            uint32_t reserved_1_31  : 31;
//	        } BF;
//	        uint32_t WORD;
//	    } clk_cfg0;
//	};
//
// The offset is taken from the comment before the union, the register name
// from the union member and the field positions from the bit field widths.
// Fields named reserved* or rsvd* only advance the bit position.
//
// Every register is returned as an Offset record followed by a Shift and a
// Width record for each field. Field records name their owner in Reg and
// Field, so the result does not depend on the grammar.
type LayoutScanner struct {
	lr      *lineReader
	diag    Sink
	file    string
	inBlock bool

	depth  int    // 0: outside, 1: struct, 2: union, 3: bit field struct
	skip   int    // open braces of a nested block that is skipped
	strct  string // name of the current struct
	sline  int
	offset *value // pending offset comment
	reg    *layoutReg

	queue []Record
	rec   Record
	err   error
}

type layoutReg struct {
	offset value
	pos    uint32 // next bit
	bf     bool   // bit field struct seen
	broken bool   // a field could not be parsed, later fields are dropped
	fields []layoutField
}

type layoutField struct {
	name  string
	shift uint32
	width uint32
	line  int
}

// NewLayoutScanner returns a scanner reading from r. The file name is used
// only in diagnostics.
func NewLayoutScanner(r io.Reader, file string, d Sink) *LayoutScanner {
	if d == nil {
		d = NopSink{}
	}
	return &LayoutScanner{lr: newLineReader(r), diag: d, file: file}
}

// Scan advances to the next record. It returns false at the end of input or
// on a read error (see Err).
func (s *LayoutScanner) Scan() bool {
	for len(s.queue) == 0 {
		text, ok := s.lr.next()
		if !ok {
			s.finish()
			return false
		}
		wasBlock := s.inBlock
		var code string
		code, s.inBlock = stripComments(text, s.inBlock)
		code = strings.TrimSpace(code)
		if s.skip > 0 {
			s.skip += strings.Count(code, "{") - strings.Count(code, "}")
			continue
		}
		if code == "" {
			if !wasBlock && s.depth == 1 {
				s.offsetComment(text)
			}
			continue
		}
		if code[0] == '#' {
			continue
		}
		s.line(code)
	}
	s.rec, s.queue = s.queue[0], s.queue[1:]
	return true
}

// Record returns the record found by the last successful Scan.
func (s *LayoutScanner) Record() Record { return s.rec }

// Err returns the first read error.
func (s *LayoutScanner) Err() error { return s.err }

// Line returns the number of lines read so far.
func (s *LayoutScanner) Line() int { return s.lr.n }

func (s *LayoutScanner) finish() {
	if err := s.lr.err; err != nil && s.err == nil {
		s.err = fmt.Errorf("%w: %s: line %d: %w", ErrRead, s.file, s.lr.n+1, err)
		return
	}
	if s.depth > 0 {
		s.report(s.sline, s.strct, "struct %s is not terminated", s.strct)
		s.depth, s.reg = 0, nil
	}
}

func (s *LayoutScanner) line(code string) {
	opens := strings.HasSuffix(code, "{")
	switch s.depth {
	case 0:
		if name, ok := structOpener(code); ok {
			s.depth, s.strct, s.sline = 1, name, s.lr.n
		}
	case 1:
		switch {
		case strings.HasPrefix(code, "}"):
			s.depth, s.offset = 0, nil
		case opens && blockKeyword(code) == "union":
			if s.offset == nil {
				s.report(s.lr.n, s.strct, "union without an offset comment in struct %s", s.strct)
				s.skip = 1
				return
			}
			s.reg = &layoutReg{offset: *s.offset}
			s.depth, s.offset = 2, nil
		case opens:
			s.skip, s.offset = 1, nil
		default:
			s.offset = nil
		}
	case 2:
		switch {
		case strings.HasPrefix(code, "}"):
			s.endRegister(code)
			s.depth = 1
		case opens && blockKeyword(code) == "struct" && !s.reg.bf:
			s.reg.bf = true
			s.depth = 3
		case opens:
			s.skip = 1
		}
	case 3:
		if strings.HasPrefix(code, "}") {
			s.depth = 2
			return
		}
		s.field(code)
	}
}

// offsetComment parses a comment line of the form /* 0x10 : name */.
// Comments that do not start with a hexadecimal number are ignored.
func (s *LayoutScanner) offsetComment(text string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/*") {
		return
	}
	text = strings.TrimPrefix(text, "/*")
	if i := strings.Index(text, "*/"); i >= 0 {
		text = text[:i]
	}
	tok := strings.TrimSpace(text)
	if i := strings.IndexAny(tok, " \t:"); i >= 0 {
		tok = tok[:i]
	}
	if !strings.HasPrefix(tok, "0x") && !strings.HasPrefix(tok, "0X") {
		return
	}
	v, err := ParseLiteral(tok)
	if err != nil {
		s.offset = nil
		s.diag.Report(Diagnostic{
			Kind: MalformedLiteral,
			File: s.file,
			Line: s.lr.n,
			Name: s.strct,
			Msg:  "offset comment: " + err.Error(),
		})
		return
	}
	s.offset = &value{v, s.lr.n, true}
}

func (s *LayoutScanner) field(code string) {
	r := s.reg
	if r.broken {
		return
	}
	name, width, err := parseBitField(code)
	if err != nil {
		r.broken = true
		s.report(s.lr.n, s.strct, "%v, the remaining fields of this register are omitted", err)
		return
	}
	if name != "" && !isReserved(name) {
		r.fields = append(r.fields, layoutField{name, r.pos, width, s.lr.n})
	}
	r.pos += width
}

func (s *LayoutScanner) endRegister(code string) {
	r := s.reg
	s.reg = nil
	name := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(code, "}"), ";"))
	if !isIdent(name) {
		s.report(r.offset.line, s.strct, "register at offset %#x has no member name, omitting it", r.offset.v)
		return
	}
	s.queue = append(s.queue, Record{
		Role:  Offset,
		Name:  name,
		Base:  name,
		Value: r.offset.v,
		Line:  r.offset.line,
	})
	for _, f := range r.fields {
		base := name + "." + f.name
		s.queue = append(s.queue,
			Record{Role: Shift, Name: base, Base: base, Value: f.shift, Line: f.line, Reg: name, Field: f.name},
			Record{Role: Width, Name: base, Base: base, Value: f.width, Line: f.line, Reg: name, Field: f.name},
		)
	}
}

func (s *LayoutScanner) report(line int, name, f string, args ...any) {
	s.diag.Report(Diagnostic{
		Kind: Layout,
		File: s.file,
		Line: line,
		Name: name,
		Msg:  fmt.Sprintf(f, args...),
	})
}

// structOpener recognizes "struct name {" and "typedef struct name {".
func structOpener(code string) (string, bool) {
	code = strings.TrimPrefix(code, "typedef ")
	if blockKeyword(code) != "struct" || !strings.HasSuffix(code, "{") {
		return "", false
	}
	name := strings.TrimSpace(strings.TrimSuffix(code[len("struct"):], "{"))
	if !isIdent(name) {
		return "", false
	}
	return name, true
}

// blockKeyword returns the leading struct or union keyword of code.
func blockKeyword(code string) string {
	for _, kw := range []string{"struct", "union"} {
		if rest, ok := strings.CutPrefix(code, kw); ok {
			if rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '{' {
				return kw
			}
		}
	}
	return ""
}

// parseBitField parses a member declaration of a bit field struct, e.g.
// "uint32_t en : 1;", "uint32_t : 3;" or "uint8_t data;". An unnamed field
// returns an empty name.
func parseBitField(code string) (name string, width uint32, err error) {
	decl, ok := strings.CutSuffix(code, ";")
	if !ok {
		return "", 0, fmt.Errorf("bit field %q: missing semicolon", code)
	}
	decl, bits, hasBits := strings.Cut(decl, ":")
	words := strings.Fields(decl)
	if len(words) == 0 {
		return "", 0, fmt.Errorf("bit field %q: no type", code)
	}
	for _, w := range words[1:] {
		if !isIdent(w) {
			return "", 0, fmt.Errorf("bit field %q: bad declarator %q", code, w)
		}
	}
	n := len(words)
	typ := words[n-1]
	if n > 1 && !isTypeWord(typ) {
		name, typ = typ, words[n-2]
	}
	size, ok := typeBits(typ)
	if !hasBits {
		if !ok {
			return "", 0, fmt.Errorf("bit field %q: unknown size of %s", code, typ)
		}
		return name, size, nil
	}
	width, err = ParseLiteral(bits)
	if err != nil {
		return "", 0, fmt.Errorf("bit field %q: %w", code, err)
	}
	if ok && width > size {
		return "", 0, fmt.Errorf("bit field %q: %d bits do not fit in %s", code, width, typ)
	}
	return name, width, nil
}

func typeBits(typ string) (uint32, bool) {
	switch typ {
	case "uint8_t", "int8_t", "char":
		return 8, true
	case "uint16_t", "int16_t", "short":
		return 16, true
	case "uint32_t", "int32_t", "int", "unsigned", "signed", "long":
		return 32, true
	}
	return 0, false
}

func isTypeWord(w string) bool {
	switch w {
	case "unsigned", "signed", "int", "char", "short", "long", "volatile", "const":
		return true
	}
	return false
}

func isReserved(name string) bool {
	n := strings.ToLower(name)
	return strings.HasPrefix(n, "reserved") || strings.HasPrefix(n, "rsvd")
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentChar(s[i], i == 0) {
			return false
		}
	}
	return true
}
