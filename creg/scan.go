// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package creg

import (
	"fmt"
	"io"
	"strings"
)

// Record is a classified definition line.
type Record struct {
	Role  Role
	Name  string // macro name
	Base  string // macro name without the role suffix
	Value uint32
	Line  int

	// Reg and Field name the owner of a field record explicitly. If Reg is
	// empty the owner is found by the grammar from Base.
	Reg   string
	Field string

	// Invalid is set if the value could not be parsed. Such records are
	// reported when read and only tell the aggregator that the name was
	// defined.
	Invalid bool
}

func (r Record) String() string {
	if r.Invalid {
		return fmt.Sprintf("%d: %s %s=?", r.Line, r.Role, r.Name)
	}
	return fmt.Sprintf("%d: %s %s=%#x", r.Line, r.Role, r.Name, r.Value)
}

// Scanner reads a normalized C header and classifies its definition lines.
// Irrelevant lines are skipped silently. Recognized lines with a bad value
// are reported to the diagnostic sink and returned marked Invalid.
type Scanner struct {
	lr      *lineReader
	g       *Grammar
	diag    Sink
	file    string
	inBlock bool // inside a /* */ comment
	cont    bool // inside a continued (backslash-newline) line
	rec     Record
	err     error
}

// NewScanner returns a scanner reading from r. The file name is used only
// in diagnostics.
func NewScanner(r io.Reader, file string, g *Grammar, d Sink) *Scanner {
	if d == nil {
		d = NopSink{}
	}
	return &Scanner{lr: newLineReader(r), g: g, diag: d, file: file}
}

// Scan advances to the next recognized definition. It returns false at the
// end of input or on a read error (see Err).
func (s *Scanner) Scan() bool {
	for {
		text, ok := s.lr.next()
		if !ok {
			break
		}
		var code string
		code, s.inBlock = stripComments(text, s.inBlock)
		code = strings.TrimSpace(code)
		continued := strings.HasSuffix(code, `\`)
		if s.cont {
			s.cont = continued
			continue
		}
		if continued {
			s.cont = true
			if name, _, ok := s.define(code); ok {
				s.report(Continuation, name, "multi-line macro definitions are not supported, skipping "+name)
			}
			continue
		}
		if s.classify(code) {
			return true
		}
	}
	if err := s.lr.err; err != nil && s.err == nil {
		s.err = fmt.Errorf("%w: %s: line %d: %w", ErrRead, s.file, s.lr.n+1, err)
	}
	return false
}

// Record returns the definition found by the last successful Scan.
func (s *Scanner) Record() Record { return s.rec }

// Err returns the first read error.
func (s *Scanner) Err() error { return s.err }

// Line returns the number of lines read so far.
func (s *Scanner) Line() int { return s.lr.n }

func (s *Scanner) classify(code string) bool {
	name, value, ok := s.define(code)
	if !ok {
		return false
	}
	role, base := s.g.Classify(name)
	if role == Irrelevant {
		return false
	}
	s.rec = Record{Role: role, Name: name, Base: base, Line: s.lr.n}
	v, err := ParseLiteral(value)
	if err != nil {
		s.report(MalformedLiteral, name, name+": "+err.Error())
		s.rec.Invalid = true
		return true
	}
	s.rec.Value = v
	return true
}

// define splits an object-like macro definition into its name and value.
func (s *Scanner) define(code string) (name, value string, ok bool) {
	if !strings.HasPrefix(code, "#") {
		return
	}
	code = strings.TrimLeft(code[1:], " \t")
	if !strings.HasPrefix(code, s.g.Define) {
		return
	}
	code = code[len(s.g.Define):]
	if code == "" || (code[0] != ' ' && code[0] != '\t') {
		return
	}
	code = strings.TrimLeft(code, " \t")
	n := 0
	for n < len(code) && isIdentChar(code[n], n == 0) {
		n++
	}
	if n == 0 || (n < len(code) && code[n] == '(') {
		return // no name or function-like macro
	}
	return code[:n], strings.TrimSpace(code[n:]), true
}

func (s *Scanner) report(k Kind, name, msg string) {
	s.diag.Report(Diagnostic{Kind: k, File: s.file, Line: s.lr.n, Name: name, Msg: msg})
}

func isIdentChar(c byte, first bool) bool {
	switch {
	case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		return true
	case '0' <= c && c <= '9':
		return !first
	}
	return false
}

// stripComments removes // and /* */ comments from line. The inBlock
// argument and result carry the state of an unterminated block comment
// between lines. Comment markers in string and character literals are
// ignored. A quote that is not closed on the same line, or any quote in the
// text of an #error or #warning directive, is an ordinary character.
func stripComments(line string, inBlock bool) (string, bool) {
	if !inBlock && !strings.Contains(line, "/") {
		return line, false
	}
	quotes := !isTextDirective(line)
	var b strings.Builder
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inBlock:
			if c == '*' && i+1 < len(line) && line[i+1] == '/' {
				inBlock = false
				i++
				b.WriteByte(' ')
			}
		case quotes && (c == '"' || c == '\''):
			if j := closeQuote(line, i); j > 0 {
				b.WriteString(line[i : j+1])
				i = j
			} else {
				b.WriteByte(c)
			}
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return b.String(), false
		case c == '/' && i+1 < len(line) && line[i+1] == '*':
			inBlock = true
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), inBlock
}

// closeQuote returns the index of the quote that closes the literal opened
// at line[i], or -1 if the literal is not closed on this line.
func closeQuote(line string, i int) int {
	q := line[i]
	for j := i + 1; j < len(line); j++ {
		switch line[j] {
		case '\\':
			j++
		case q:
			return j
		}
	}
	return -1
}

// isTextDirective reports whether line is an #error or #warning directive.
// Their text is free-form, e.g. "#warning don't use this header".
func isTextDirective(line string) bool {
	s := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(s, "#") {
		return false
	}
	s = strings.TrimLeft(s[1:], " \t")
	return strings.HasPrefix(s, "error") || strings.HasPrefix(s, "warning")
}
