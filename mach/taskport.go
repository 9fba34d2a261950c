// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

// Package mach implements the macOS memory provider on top of the Mach
// VM API: region enumeration, read/write, and a ptrace+exception-port
// lock. No Mach VM call is reachable from the standard library or from
// golang.org/x/sys/unix, so this package crosses into cgo against
// <mach/mach.h> and <mach/mach_vm.h> — the one boundary every real
// macOS process-introspection tool has to cross.
package mach

/*
#include <mach/mach.h>
#include <mach/mach_vm.h>

// task_for_pid requires a privileged caller (root, or the
// com.apple.security.cs.debugger entitlement) on modern macOS.
static kern_return_t mach_task_for_pid(pid_t pid, mach_port_t *task) {
	return task_for_pid(mach_task_self(), pid, task);
}
*/
import "C"

import (
	"fmt"
)

// taskPort is a Mach send right to a target process's task port, the
// handle every other Mach VM call in this package is made against.
type taskPort struct {
	port C.mach_port_t
}

func newTaskPort(pid int) (*taskPort, error) {
	var port C.mach_port_t
	res := C.mach_task_for_pid(C.pid_t(pid), &port)
	if res != C.KERN_SUCCESS {
		return nil, fmt.Errorf("mach: task_for_pid: kern_return_t %d", int(res))
	}
	return &taskPort{port: port}, nil
}

func (t *taskPort) get() C.mach_port_t {
	return t.port
}

func (t *taskPort) close() error {
	res := C.mach_port_deallocate(C.mach_task_self(), t.port)
	if res != C.KERN_SUCCESS {
		return fmt.Errorf("mach: mach_port_deallocate: kern_return_t %d", int(res))
	}
	return nil
}
