// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/embeddedgo/cregtool/creg"
	"github.com/embeddedgo/cregtool/cregtool/internal/batch"
	"github.com/embeddedgo/cregtool/cregtool/internal/util"
	"github.com/embeddedgo/cregtool/svd"
)

const Descr = "convert a CMSIS-SVD file to per-peripheral manifests"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [OPTIONS] SVD_FILE\nOptions:\n", cmd)
		fs.PrintDefaults()
	}
	dir := fs.String("d", ".", "write `DIR`/<peripheral>.json for every peripheral")
	indent := fs.Bool("indent", false, "indent the JSON output")
	format := fs.String("format", "json", "manifest `format`: json or cbor")
	verbose := fs.Bool("v", false, "print a summary of every written manifest")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	f, err := creg.ParseFormat(*format)
	util.FatalErr("", err)
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	dev, err := svd.Load(fs.Arg(0))
	util.FatalErr("svd", err)
	util.FatalErr("", os.MkdirAll(*dir, 0o755))
	err = save(context.Background(), log, Peripherals(dev, log), *dir, f, *indent)
	util.FatalErr("", err)
}

func save(ctx context.Context, log *slog.Logger, ps []*creg.Peripheral, dir string, f creg.Format, indent bool) error {
	jobs := make([]batch.Job, len(ps))
	seen := make(map[string]bool, len(ps))
	for i, p := range ps {
		out := util.OutFile(dir, p.Name, f.Ext())
		if seen[out] {
			return fmt.Errorf("%w %s: peripheral %s", batch.ErrDuplicateOutput, out, p.Name)
		}
		seen[out] = true
		jobs[i] = batch.Job{Out: out, Name: p.Name}
	}
	return batch.Run(ctx, jobs, 0, func(_ context.Context, i int, j batch.Job) error {
		p := ps[i]
		log.Debug(
			"writing", "file", j.Out,
			"registers", len(p.Registers), "fields", p.NumFields(),
		)
		return creg.WriteManifest(j.Out, p, f, indent)
	})
}
