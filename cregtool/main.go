// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Cregtool converts vendor C register headers to register manifests.
package main

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/embeddedgo/cregtool/cregtool/internal/cmd/check"
	"github.com/embeddedgo/cregtool/cregtool/internal/cmd/gen"
	"github.com/embeddedgo/cregtool/cregtool/internal/cmd/json"
	"github.com/embeddedgo/cregtool/cregtool/internal/cmd/schema"
	"github.com/embeddedgo/cregtool/cregtool/internal/cmd/svd"
)

type tool struct {
	descr string
	main  func(cmd string, args []string)
}

var tools = map[string]tool{
	"check":  {check.Descr, check.Main},
	"gen":    {gen.Descr, gen.Main},
	"json":   {json.Descr, json.Main},
	"schema": {schema.Descr, schema.Main},
	"svd":    {svd.Descr, svd.Main},
}

func printToolList() {
	names := slices.Sorted(maps.Keys(tools))
	maxLen := 0
	for _, k := range names {
		if maxLen < len(k) {
			maxLen = len(k)
		}
	}
	uw := os.Stderr
	uw.WriteString("Usage:\n  cregtool COMMAND [ARGUMENTS]\n\n")
	uw.WriteString("Available commands:\n")
	for _, name := range names {
		fmt.Fprintf(uw, "  %-*s  %s\n", maxLen, name, tools[name].descr)
	}
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" {
		printToolList()
		return
	}
	tool, ok := tools[os.Args[1]]
	if !ok {
		printToolList()
		os.Exit(1)
	}
	tool.main(os.Args[1], os.Args[2:])
}
