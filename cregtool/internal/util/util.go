// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FatalErr prints an error description and exits the program if the
// err != nil.
func FatalErr(what string, err error) {
	if err == nil {
		return
	}
	s := err.Error() + "\n"
	if what != "" {
		s = what + ": " + s
	}
	os.Stderr.WriteString(s)
	os.Exit(1)
}

// InOut returns the input and output names given as the optional positional
// arguments. A missing name means "-" (standard input or output).
func InOut(inName, outName string) (string, string) {
	if inName == "" {
		inName = "-"
	}
	if outName == "" {
		outName = "-"
	}
	return inName, outName
}

// OutFile returns the name of the file in dir for the output of the named
// input: the peripheral name followed by ext.
func OutFile(dir, periph, ext string) string {
	return filepath.Join(dir, periph+ext)
}

// Usage prints the usage message of a command taking the optional IN and
// OUT positional arguments.
func Usage(cmd, in, out string, printDefaults func()) {
	fmt.Fprintf(
		os.Stderr,
		"Usage:\n  %s [OPTIONS] [%s [%s]]\nOptions:\n",
		cmd, strings.ToUpper(in), strings.ToUpper(out),
	)
	printDefaults()
}
