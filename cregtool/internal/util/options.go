// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"flag"
	"io"
	"log/slog"
	"os"

	"github.com/embeddedgo/cregtool/creg"
)

// Options are the options shared by the commands that parse headers.
type Options struct {
	Syntax  string
	Grammar string
	Name    string
	Werror  bool
	Verbose bool
	Quiet   bool
	LogJSON bool
}

// AddFlags defines the shared options in fs.
func (o *Options) AddFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&o.Syntax, "syntax", "macros",
		"how the header declares registers: `macros` (#define) or structs\n"+
			"(struct of unions with bit fields)",
	)
	fs.StringVar(
		&o.Grammar, "grammar", "",
		"YAML `file` describing the macro naming convention\n"+
			"(default: <REG>_OFFSET, <REG>_<FIELD>_SHIFT, <REG>_<FIELD>_MASK)",
	)
	fs.StringVar(
		&o.Name, "name", "",
		"peripheral `name` (default: derived from the header file name)",
	)
	fs.BoolVar(&o.Werror, "werror", false, "exit with an error status if any warning was reported")
	fs.BoolVar(&o.Verbose, "v", false, "print a summary of every converted header")
	fs.BoolVar(&o.Quiet, "q", false, "do not print warnings")
	fs.BoolVar(&o.LogJSON, "log-json", false, "print diagnostics as JSON lines")
}

// Env is the environment of a command run.
type Env struct {
	Syntax  creg.Syntax
	Grammar *creg.Grammar
	Log     *slog.Logger
	Diags   *creg.Collector
	Werror  bool
}

// Env loads the grammar and configures the diagnostic logger writing to w.
func (o *Options) Env(w io.Writer) (*Env, error) {
	syntax, err := creg.ParseSyntax(o.Syntax)
	if err != nil {
		return nil, err
	}
	g := creg.DefaultGrammar()
	if o.Grammar != "" {
		if g, err = creg.LoadGrammar(o.Grammar); err != nil {
			return nil, err
		}
	}
	level := slog.LevelWarn
	switch {
	case o.Verbose:
		level = slog.LevelDebug
	case o.Quiet:
		level = slog.LevelError
	}
	hopts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if o.LogJSON {
		h = slog.NewJSONHandler(w, hopts)
	} else {
		h = slog.NewTextHandler(w, hopts)
	}
	return &Env{
		Syntax:  syntax,
		Grammar: g,
		Log:     slog.New(h),
		Diags:   new(creg.Collector),
		Werror:  o.Werror,
	}, nil
}

// MustEnv is like Env but writes to os.Stderr and exits on error.
func (o *Options) MustEnv() *Env {
	env, err := o.Env(os.Stderr)
	FatalErr("options", err)
	return env
}

// Sink returns the sink that logs and collects diagnostics.
func (e *Env) Sink() creg.Sink {
	return creg.MultiSink{creg.NewSlogSink(e.Log), e.Diags}
}

// Failed reports whether the run should end with an error status: any
// diagnostic with -werror, otherwise only error-severity ones if strict.
func (e *Env) Failed(strict bool) bool {
	if e.Werror {
		return e.Diags.Len() != 0
	}
	return strict && e.Diags.Count(creg.SevError) != 0
}

// Summary logs the per-header summary at the debug level.
func (e *Env) Summary(file string, p *creg.Peripheral) {
	e.Log.Debug(
		"converted",
		slog.String("file", file),
		slog.String("peripheral", p.Name),
		slog.Int("registers", len(p.Registers)),
		slog.Int("fields", p.NumFields()),
	)
}
