// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package procfs

import (
	"fmt"
	"io"
	"os"

	"github.com/ogletools/procmem/memaccess"
	"github.com/ogletools/procmem/memaddr"
)

// access reads and writes a target's memory through /proc/<pid>/mem.
type access struct {
	mem *os.File
}

func openAccess(pid int) (*access, error) {
	f, err := os.OpenFile(fmt.Sprintf("/proc/%d/mem", pid), os.O_RDWR, 0)
	if err != nil {
		return nil, &memaccess.PlatformError{Op: "open mem file", Err: err}
	}
	return &access{mem: f}, nil
}

func (a *access) Read(offset memaddr.Offset, buffer []byte) error {
	if _, err := a.mem.Seek(int64(offset.Get()), io.SeekStart); err != nil {
		return &memaccess.PlatformError{Op: "seek", Err: err}
	}
	if _, err := io.ReadFull(a.mem, buffer); err != nil {
		return &memaccess.PlatformError{Op: "read", Err: err}
	}
	return nil
}

func (a *access) Write(offset memaddr.Offset, data []byte) error {
	if _, err := a.mem.Seek(int64(offset.Get()), io.SeekStart); err != nil {
		return &memaccess.PlatformError{Op: "seek", Err: err}
	}
	if _, err := a.mem.Write(data); err != nil {
		return &memaccess.PlatformError{Op: "write", Err: err}
	}
	return nil
}

func (a *access) Close() error {
	return a.mem.Close()
}
