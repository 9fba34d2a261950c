// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package mach

/*
#include <libproc.h>
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/ogletools/procmem/memprovider"
)

// ListProcesses enumerates every process visible to the caller via
// libproc's proc_listallpids, the same call "ps" and "Activity Monitor"
// are built on.
func ListProcesses() ([]memprovider.ProcessInfo, error) {
	count, errno := C.proc_listallpids(nil, 0)
	if count < 0 {
		return nil, fmt.Errorf("mach: proc_listallpids: %w", errno)
	}
	if count == 0 {
		return nil, nil
	}

	pids := make([]C.int, count)
	n, errno := C.proc_listallpids(unsafe.Pointer(&pids[0]), C.int(len(pids))*C.int(unsafe.Sizeof(pids[0])))
	if n < 0 {
		return nil, fmt.Errorf("mach: proc_listallpids: %w", errno)
	}
	if int(n) < len(pids) {
		pids = pids[:n]
	}

	out := make([]memprovider.ProcessInfo, 0, len(pids))
	for _, pid := range pids {
		info, err := ProcessInfoFor(int(pid))
		if err != nil {
			continue
		}
		out = append(out, info)
	}
	return out, nil
}

// ProcessInfoFor reads the name of a single process via proc_name.
func ProcessInfoFor(pid int) (memprovider.ProcessInfo, error) {
	buf := make([]byte, 32)
	n, errno := C.proc_name(C.int(pid), unsafe.Pointer(&buf[0]), C.uint32_t(len(buf)))
	if n < 0 {
		return memprovider.ProcessInfo{}, fmt.Errorf("mach: proc_name: %w", errno)
	}
	return memprovider.ProcessInfo{PID: pid, Name: strings.TrimRight(string(buf[:n]), "\x00")}, nil
}
