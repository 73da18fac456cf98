// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/embeddedgo/cregtool/creg"
	"github.com/embeddedgo/cregtool/cregtool/internal/batch"
	"github.com/embeddedgo/cregtool/cregtool/internal/util"
)

const Descr = "report problems found in register headers without writing anything"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [OPTIONS] HEADER...\nOptions:\n", cmd)
		fs.PrintDefaults()
	}
	var opts util.Options
	opts.AddFlags(fs)
	workers := fs.Int("j", 0, "check up to `N` headers concurrently (default GOMAXPROCS)")
	fs.Parse(args)
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(1)
	}
	env := opts.MustEnv()
	jobs, err := batch.Jobs(fs.Args(), opts.Name, "", "")
	util.FatalErr("", err)
	err = checkAll(context.Background(), os.Stdout, env, jobs, *workers)
	util.FatalErr("", err)
	if env.Failed(true) {
		os.Exit(1)
	}
}

// Summary describes the result of checking one header.
type Summary struct {
	File      string
	Registers int
	Fields    int
	Warnings  int
	Errors    int
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"%s: %d registers, %d fields, %d warnings, %d errors",
		s.File, s.Registers, s.Fields, s.Warnings, s.Errors,
	)
}

// checkAll converts every header and prints their summaries to w in the
// order of jobs.
func checkAll(ctx context.Context, w io.Writer, env *util.Env, jobs []batch.Job, workers int) error {
	sums := make([]Summary, len(jobs))
	err := batch.Run(ctx, jobs, workers, func(_ context.Context, i int, j batch.Job) error {
		diags := new(creg.Collector)
		p, err := creg.ConvertFile(j.In, creg.Options{
			Syntax:  env.Syntax,
			Grammar: env.Grammar,
			Diag:    creg.MultiSink{env.Sink(), diags},
			Name:    j.Name,
		})
		if err != nil {
			return err
		}
		sums[i] = Summary{
			File:      j.In,
			Registers: len(p.Registers),
			Fields:    p.NumFields(),
			Warnings:  diags.Count(creg.SevWarning),
			Errors:    diags.Count(creg.SevError),
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, s := range sums {
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}
