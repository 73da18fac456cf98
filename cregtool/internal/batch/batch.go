// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package batch runs independent per-header conversions concurrently.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/embeddedgo/cregtool/creg"
	"github.com/embeddedgo/cregtool/cregtool/internal/util"
)

var ErrDuplicateOutput = errors.New("duplicate output file")

// Job is the conversion of one input into one output file.
type Job struct {
	In   string // input file name
	Out  string // output file name, empty if the job writes nothing
	Name string // peripheral name
}

// Jobs returns a job for every input. If dir is not empty every job writes
// dir/<peripheral name>+ext. The name is used as the peripheral name if there
// is only one input. Jobs fails with ErrDuplicateOutput if two inputs map
// to the same output file.
func Jobs(inputs []string, name, dir, ext string) ([]Job, error) {
	if name != "" && len(inputs) > 1 {
		return nil, errors.New("peripheral name can be set only for a single input")
	}
	jobs := make([]Job, len(inputs))
	outs := make(map[string]string, len(inputs))
	for i, in := range inputs {
		j := Job{In: in, Name: name}
		switch {
		case j.Name != "":
		case in == "-":
			j.Name = "stdin"
		default:
			j.Name = creg.PeripheralName(in)
		}
		if dir != "" {
			j.Out = util.OutFile(dir, j.Name, ext)
			if prev, ok := outs[j.Out]; ok {
				return nil, fmt.Errorf("%w %s: written for %s and %s", ErrDuplicateOutput, j.Out, prev, in)
			}
			outs[j.Out] = in
		}
		jobs[i] = j
	}
	return jobs, nil
}

// Run calls fn for every job, running at most workers calls concurrently
// (GOMAXPROCS if workers <= 0). After the first error no new jobs are
// started and Run returns this error once the running ones finish.
func Run(ctx context.Context, jobs []Job, workers int, fn func(ctx context.Context, i int, j Job) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			return fn(ctx, i, j)
		})
	}
	return g.Wait()
}
