// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package mach

/*
#include <mach/mach.h>
#include <mach/mach_vm.h>
*/
import "C"

import (
	"unsafe"

	"github.com/ogletools/procmem/memaccess"
	"github.com/ogletools/procmem/memaddr"
)

// access reads and writes a target's memory through the Mach VM API.
type access struct {
	pid  int
	port *taskPort
}

func openAccess(pid int) (*access, error) {
	port, err := newTaskPort(pid)
	if err != nil {
		return nil, err
	}
	return &access{pid: pid, port: port}, nil
}

func (a *access) Read(offset memaddr.Offset, buffer []byte) error {
	if len(buffer) == 0 {
		return nil
	}

	var readLen C.mach_vm_size_t
	res := C.mach_vm_read_overwrite(
		a.port.get(),
		C.mach_vm_address_t(offset.Get()),
		C.mach_vm_size_t(len(buffer)),
		C.mach_vm_address_t(uintptr(unsafe.Pointer(&buffer[0]))),
		&readLen,
	)
	if res != C.KERN_SUCCESS {
		return &memaccess.PlatformError{Op: "mach_vm_read_overwrite", Err: kernReturnError(res)}
	}
	if int(readLen) != len(buffer) {
		return &memaccess.PlatformError{Op: "mach_vm_read_overwrite", Err: errShortTransfer}
	}
	return nil
}

func (a *access) Write(offset memaddr.Offset, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	res := C.mach_vm_write(
		a.port.get(),
		C.mach_vm_address_t(offset.Get()),
		C.vm_offset_t(uintptr(unsafe.Pointer(&data[0]))),
		C.mach_msg_type_number_t(len(data)),
	)
	if res != C.KERN_SUCCESS {
		return &memaccess.PlatformError{Op: "mach_vm_write", Err: kernReturnError(res)}
	}
	return nil
}

func (a *access) Close() error {
	return a.port.close()
}
