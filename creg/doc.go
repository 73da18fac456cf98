// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package creg converts vendor C register headers into register manifests.
//
// A header is expected to be normalized, one definition per line:
//
//	#define UART_CFG_OFFSET     0x0
//	#define UART_CFG_TXEN_SHIFT 0
//	#define UART_CFG_TXEN_MASK  0x1
//
// The macro name suffix selects the role of a definition and the longest
// register name prefix of a field selects its register (see Grammar). The
// resulting manifest is:
//
//	{"registers":[{"name":"UART_CFG","offset":0,"fields":[{"name":"TXEN","shift":0,"mask":1}]}]}
//
// Field masks are register-relative: Mask>>Shift is a contiguous run of
// ones starting at bit 0 and no bits below Shift are set. Fields that do not
// satisfy this are reported and omitted.
//
// Problems found in a header never stop the conversion. They are reported
// to a Sink as Diagnostics and the affected lines, fields or registers are
// left out. Only unreadable or empty input is an error.
package creg
