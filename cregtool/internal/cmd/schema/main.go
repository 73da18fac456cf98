// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"flag"
	"fmt"
	"os"

	"github.com/embeddedgo/cregtool/creg"
	"github.com/embeddedgo/cregtool/cregtool/internal/util"
)

const Descr = "print the JSON Schema of the manifest"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [FILE]\n", cmd)
	}
	fs.Parse(args)
	switch fs.NArg() {
	case 0:
		os.Stdout.WriteString(creg.Schema)
	case 1:
		util.FatalErr("", creg.WriteFile(fs.Arg(0), []byte(creg.Schema)))
	default:
		fs.Usage()
		os.Exit(1)
	}
}
