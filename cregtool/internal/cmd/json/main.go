// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

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

const Descr = "convert register headers to JSON manifests"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] [HEADER [JSON]]\n  %s [OPTIONS] -d DIR HEADER...\nOptions:\n",
			cmd, cmd,
		)
		fs.PrintDefaults()
	}
	var opts util.Options
	opts.AddFlags(fs)
	dir := fs.String("d", "", "write `DIR`/<peripheral>.json for every HEADER")
	indent := fs.Bool("indent", false, "indent the JSON output")
	format := fs.String("format", "json", "manifest `format`: json or cbor")
	workers := fs.Int("j", 0, "convert up to `N` headers concurrently (default GOMAXPROCS)")
	fs.Parse(args)
	f, err := creg.ParseFormat(*format)
	util.FatalErr("", err)
	env := opts.MustEnv()

	if *dir == "" {
		if fs.NArg() > 2 {
			fs.Usage()
			os.Exit(1)
		}
		in, out := util.InOut(fs.Arg(0), fs.Arg(1))
		p, err := creg.ConvertFile(in, creg.Options{
			Syntax:  env.Syntax,
			Grammar: env.Grammar,
			Diag:    env.Sink(),
			Name:    opts.Name,
		})
		util.FatalErr("", err)
		env.Summary(in, p)
		util.FatalErr("", write(os.Stdout, out, p, f, *indent))
	} else {
		if fs.NArg() == 0 {
			fs.Usage()
			os.Exit(1)
		}
		util.FatalErr("", os.MkdirAll(*dir, 0o755))
		jobs, err := batch.Jobs(fs.Args(), opts.Name, *dir, f.Ext())
		util.FatalErr("", err)
		err = convertAll(context.Background(), env, jobs, *workers, f, *indent)
		util.FatalErr("", err)
	}
	if env.Failed(false) {
		os.Exit(1)
	}
}

// write writes the manifest of p to the named file or to stdout if the name
// is "-".
func write(stdout io.Writer, name string, p *creg.Peripheral, f creg.Format, indent bool) error {
	if name != "-" {
		return creg.WriteManifest(name, p, f, indent)
	}
	data, err := p.Manifest().Encode(f, indent)
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}

func convertAll(ctx context.Context, env *util.Env, jobs []batch.Job, workers int, f creg.Format, indent bool) error {
	sink := env.Sink()
	return batch.Run(ctx, jobs, workers, func(_ context.Context, _ int, j batch.Job) error {
		p, err := creg.ConvertFile(j.In, creg.Options{
			Syntax:  env.Syntax,
			Grammar: env.Grammar,
			Diag:    sink,
			Name:    j.Name,
		})
		if err != nil {
			return err
		}
		env.Summary(j.In, p)
		return creg.WriteManifest(j.Out, p, f, indent)
	})
}
