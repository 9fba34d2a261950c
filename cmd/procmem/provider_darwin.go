// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package main

import (
	"github.com/ogletools/procmem/mach"
	"github.com/ogletools/procmem/memprovider"
)

func newProvider(pid int) (memprovider.Provider, error) {
	return mach.New(pid)
}

func processInfoFor(pid int) (memprovider.ProcessInfo, error) {
	return mach.ProcessInfoFor(pid)
}

func listProcesses() ([]memprovider.ProcessInfo, error) {
	return mach.ListProcesses()
}
