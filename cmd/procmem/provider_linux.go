// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"github.com/ogletools/procmem/memprovider"
	"github.com/ogletools/procmem/procfs"
)

func newProvider(pid int) (memprovider.Provider, error) {
	return procfs.New(pid)
}

func processInfoFor(pid int) (memprovider.ProcessInfo, error) {
	return procfs.ProcessInfoFor(pid)
}

func listProcesses() ([]memprovider.ProcessInfo, error) {
	return procfs.ListProcesses()
}
