// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package creg

import (
	"os"
	"path/filepath"
)

// WriteFile atomically replaces the named file with data. The data is
// written to a temporary file in the same directory which is then renamed,
// so readers see either the old content or the complete new one.
func WriteFile(name string, data []byte) (err error) {
	dir, base := filepath.Split(name)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()
	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Chmod(0o644); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, name)
}

// WriteManifest encodes the manifest of p and writes it atomically to the
// named file.
func WriteManifest(name string, p *Peripheral, f Format, indent bool) error {
	data, err := p.Manifest().Encode(f, indent)
	if err != nil {
		return err
	}
	return WriteFile(name, data)
}
