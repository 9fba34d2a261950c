// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package procfs

import (
	"os"
	"strconv"
	"strings"

	"github.com/ogletools/procmem/memprovider"
)

// ListProcesses returns every process visible under /proc, skipping any
// that disappear or become unreadable mid-scan.
func ListProcesses() ([]memprovider.ProcessInfo, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}

	var out []memprovider.ProcessInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		info, err := ProcessInfoFor(pid)
		if err != nil {
			continue
		}
		out = append(out, info)
	}
	return out, nil
}

// ProcessInfoFor reads the name of a single process from /proc/<pid>/comm.
func ProcessInfoFor(pid int) (memprovider.ProcessInfo, error) {
	data, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/comm")
	if err != nil {
		return memprovider.ProcessInfo{}, err
	}
	return memprovider.ProcessInfo{PID: pid, Name: strings.TrimSpace(string(data))}, nil
}
