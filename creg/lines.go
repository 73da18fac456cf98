// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package creg

import (
	"bufio"
	"io"
	"strings"
)

const bom = "\ufeff"

// lineReader returns the lines of a text without their line terminators
// (\n or \r\n). A byte order mark at the start of the text is removed.
// Lines are not limited in length.
type lineReader struct {
	r   *bufio.Reader
	n   int
	eof bool
	err error
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

func (lr *lineReader) next() (string, bool) {
	if lr.eof || lr.err != nil {
		return "", false
	}
	s, err := lr.r.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			lr.err = err
			return "", false
		}
		lr.eof = true
		if s == "" {
			return "", false
		}
	}
	lr.n++
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	if lr.n == 1 {
		s = strings.TrimPrefix(s, bom)
	}
	return s, true
}
