// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package creg

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Kind classifies a diagnostic.
type Kind uint8

const (
	MalformedLiteral Kind = iota // bad integer literal, line skipped
	Continuation                 // multi-line macro, unsupported
	Redefined                    // value redefined, last definition wins
	Orphan                       // field without a matching register
	Incomplete                   // field with shift or mask missing
	Mismatch                     // shift, mask and width disagree
	Unresolved                   // register with fields but no valid offset
	Layout                       // struct layout line not understood
)

var kindNames = [...]string{
	MalformedLiteral: "malformed-literal",
	Continuation:     "continuation",
	Redefined:        "redefined",
	Orphan:           "orphan",
	Incomplete:       "incomplete",
	Mismatch:         "mismatch",
	Unresolved:       "unresolved",
	Layout:           "layout",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Severity reports whether a diagnostic excluded a structural entity from
// the manifest (Error) or only a single line or an incomplete definition
// (Warning). Neither aborts the conversion.
func (k Kind) Severity() Severity {
	switch k {
	case Mismatch, Unresolved:
		return SevError
	}
	return SevWarning
}

type Severity uint8

const (
	SevWarning Severity = iota
	SevError
)

func (s Severity) String() string {
	if s == SevError {
		return "error"
	}
	return "warning"
}

// Diagnostic describes a recoverable problem found in a header.
type Diagnostic struct {
	Kind Kind
	File string // header name, may be empty
	Line int    // 1-based line number, 0 if not tied to a line
	Name string // macro, field or register name, may be empty
	Msg  string
}

func (d Diagnostic) String() string {
	s := d.Kind.Severity().String() + ": " + d.Msg
	if d.Line > 0 {
		s = fmt.Sprintf("%d: %s", d.Line, s)
	}
	if d.File != "" {
		s = d.File + ":" + s
	}
	return s
}

// Sink receives diagnostics. Implementations used by concurrent
// conversions must be safe for concurrent use.
type Sink interface {
	Report(d Diagnostic)
}

// NopSink discards all diagnostics.
type NopSink struct{}

func (NopSink) Report(Diagnostic) {}

// Collector stores reported diagnostics.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.diags = append(c.diags, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of the collected diagnostics in report order.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Diagnostic(nil), c.diags...)
}

// Count returns the number of collected diagnostics of the given severity.
func (c *Collector) Count(sev Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.diags {
		if d.Kind.Severity() == sev {
			n++
		}
	}
	return n
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diags)
}

// SlogSink writes diagnostics to an slog.Logger, warnings at the Warn
// level and errors at the Error level.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Report(d Diagnostic) {
	level := slog.LevelWarn
	if d.Kind.Severity() == SevError {
		level = slog.LevelError
	}
	attrs := make([]slog.Attr, 0, 4)
	if d.File != "" {
		attrs = append(attrs, slog.String("file", d.File))
	}
	if d.Line > 0 {
		attrs = append(attrs, slog.Int("line", d.Line))
	}
	attrs = append(attrs, slog.String("kind", d.Kind.String()))
	if d.Name != "" {
		attrs = append(attrs, slog.String("name", d.Name))
	}
	s.logger.LogAttrs(context.Background(), level, d.Msg, attrs...)
}

// MultiSink reports every diagnostic to all its sinks.
type MultiSink []Sink

func (m MultiSink) Report(d Diagnostic) {
	for _, s := range m {
		s.Report(d)
	}
}

var (
	_ Sink = NopSink{}
	_ Sink = (*Collector)(nil)
	_ Sink = (*SlogSink)(nil)
	_ Sink = MultiSink(nil)
)
