// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embeddedgo/cregtool/creg"
	"github.com/embeddedgo/cregtool/cregtool/internal/batch"
	"github.com/embeddedgo/cregtool/cregtool/internal/util"
)

func writeHeaders(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}
	return dir
}

func TestCheckAll(t *testing.T) {
	dir := writeHeaders(t, map[string]string{
		"uart_reg.h": "#define UART_OFFSET 0x0\n#define UART_TXEN_SHIFT 0\n#define UART_TXEN_MASK 0x1\n" +
			"#define UART_RX_SHIFT 1\n#define SPI_EN_SHIFT 0\n#define SPI_EN_MASK 0x1\n",
		"dma_reg.h": "#define DMA_CH_OFFSET BASE\n#define DMA_CH_EN_SHIFT 0\n#define DMA_CH_EN_MASK 0x1\n",
		"inc_reg.h": "#include <stdint.h>\n",
	})
	inputs := []string{
		filepath.Join(dir, "uart_reg.h"),
		filepath.Join(dir, "dma_reg.h"),
		filepath.Join(dir, "inc_reg.h"),
	}
	jobs, err := batch.Jobs(inputs, "", "", "")
	require.NoError(t, err)

	var logbuf, out bytes.Buffer
	env, err := new(util.Options).Env(&logbuf)
	require.NoError(t, err)
	require.NoError(t, checkAll(context.Background(), &out, env, jobs, 2))

	want := Summary{inputs[0], 1, 1, 2, 0}.String() + "\n" +
		Summary{inputs[1], 0, 0, 1, 1}.String() + "\n" +
		Summary{inputs[2], 0, 0, 0, 0}.String() + "\n"
	assert.Equal(t, want, out.String())
	assert.Equal(t, 4, env.Diags.Len())
	assert.True(t, env.Failed(true))
	assert.Contains(t, logbuf.String(), "level=ERROR")
	assert.Contains(t, logbuf.String(), "kind=unresolved")
}

func TestCheckAllReadError(t *testing.T) {
	dir := writeHeaders(t, map[string]string{"empty_reg.h": "\n"})
	jobs, err := batch.Jobs([]string{filepath.Join(dir, "empty_reg.h")}, "", "", "")
	require.NoError(t, err)
	env, err := new(util.Options).Env(new(bytes.Buffer))
	require.NoError(t, err)

	var out bytes.Buffer
	err = checkAll(context.Background(), &out, env, jobs, 0)
	assert.ErrorIs(t, err, creg.ErrEmptyInput)
	assert.Empty(t, out.String())

	jobs[0].In = filepath.Join(dir, "missing_reg.h")
	err = checkAll(context.Background(), &out, env, jobs, 0)
	assert.ErrorIs(t, err, creg.ErrRead)
}

func TestSummaryString(t *testing.T) {
	s := Summary{File: "glb_reg.h", Registers: 3, Fields: 9, Warnings: 2}
	assert.Equal(t, "glb_reg.h: 3 registers, 9 fields, 2 warnings, 0 errors", s.String())
}
