// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package creg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errEmptyLiteral = errors.New("empty value")

// ParseLiteral parses a C integer constant that fits in 32 bits. Enclosing
// parentheses and the u/l suffixes are accepted, e.g. "(0x40U)". Base is
// selected as in C: 0x hexadecimal, 0b binary, leading 0 octal, otherwise
// decimal.
func ParseLiteral(s string) (uint32, error) {
	lit := strings.TrimSpace(s)
	for len(lit) >= 2 && lit[0] == '(' && lit[len(lit)-1] == ')' {
		lit = strings.TrimSpace(lit[1 : len(lit)-1])
	}
	lit = strings.TrimRight(lit, "uUlL")
	if lit == "" {
		return 0, errEmptyLiteral
	}
	digits, base := lit, 10
	switch {
	case len(lit) > 1 && lit[0] == '0' && (lit[1] == 'x' || lit[1] == 'X'):
		digits, base = lit[2:], 16
	case len(lit) > 1 && lit[0] == '0' && (lit[1] == 'b' || lit[1] == 'B'):
		digits, base = lit[2:], 2
	case len(lit) > 1 && lit[0] == '0':
		digits, base = lit[1:], 8
	}
	if digits == "" {
		return 0, fmt.Errorf("bad integer literal %q: no digits", s)
	}
	u, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("integer literal %q does not fit in 32 bits", s)
		}
		return 0, fmt.Errorf("bad integer literal %q", s)
	}
	return uint32(u), nil
}
