// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"flag"
	"os"
	"path/filepath"

	"golang.org/x/tools/go/packages"

	"github.com/embeddedgo/cregtool/creg"
	"github.com/embeddedgo/cregtool/cregtool/internal/util"
)

const Descr = "generate Go constants for the registers defined in a header"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() { util.Usage(cmd, "header", "go", fs.PrintDefaults) }
	var opts util.Options
	opts.AddFlags(fs)
	pkg := fs.String(
		"pkg", "",
		"Go package `name` (default: the package in the output directory\n"+
			"or the peripheral name)",
	)
	fs.Parse(args)
	if fs.NArg() > 2 {
		fs.Usage()
		os.Exit(1)
	}
	env := opts.MustEnv()
	in, out := util.InOut(fs.Arg(0), fs.Arg(1))
	p, err := creg.ConvertFile(in, creg.Options{
		Syntax:  env.Syntax,
		Grammar: env.Grammar,
		Diag:    env.Sink(),
		Name:    opts.Name,
	})
	util.FatalErr("", err)
	env.Summary(in, p)
	if *pkg == "" {
		*pkg = packageName(out, p.Name)
	}
	file := out
	if file == "-" {
		file = p.Name + ".go"
	}
	src, err := Source(file, *pkg, p, env.Grammar.Separator)
	util.FatalErr("gen", err)
	if out == "-" {
		_, err = os.Stdout.Write(src)
	} else {
		err = creg.WriteFile(out, src)
	}
	util.FatalErr("", err)
	if env.Failed(false) {
		os.Exit(1)
	}
}

// packageName returns the name of the Go package in the directory of the
// output file or, if there is no such package, the name derived from the
// peripheral name.
func packageName(out, periph string) string {
	dir := "."
	if out != "-" {
		dir = filepath.Dir(out)
	}
	cfg := &packages.Config{Mode: packages.NeedName, Dir: dir}
	pkgs, err := packages.Load(cfg, ".")
	if err == nil && len(pkgs) == 1 && len(pkgs[0].Errors) == 0 && pkgs[0].Name != "" {
		return pkgs[0].Name
	}
	return PackageName(periph)
}
