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
	"github.com/ogletools/procmem/memaddr"
)

// readMaps enumerates every mapped region of pid by repeatedly calling
// mach_vm_region starting just past the previously returned region, the
// same walk the kernel itself uses to service "vmmap".
func readMaps(pid int) ([]memaddr.Page, error) {
	port, err := newTaskPort(pid)
	if err != nil {
		return nil, err
	}
	defer port.close()

	var pages []memaddr.Page
	var address C.mach_vm_address_t
	for {
		page, next, ok := enumerateNextPage(port.get(), address)
		if !ok {
			break
		}
		pages = append(pages, page)
		address = next
	}
	return pages, nil
}

// enumerateNextPage fetches the first region at or after address. ok is
// false once mach_vm_region reports there are no more regions.
func enumerateNextPage(port C.mach_port_t, address C.mach_vm_address_t) (memaddr.Page, C.mach_vm_address_t, bool) {
	var size C.mach_vm_size_t
	var info C.vm_region_basic_info_data_64_t
	infoCount := C.mach_msg_type_number_t(C.VM_REGION_BASIC_INFO_COUNT_64)
	var objectName C.mach_port_t

	res := C.mach_vm_region(
		port,
		&address,
		&size,
		C.VM_REGION_BASIC_INFO_64,
		C.vm_region_info_t(&info),
		&infoCount,
		&objectName,
	)

	if objectName != C.MACH_PORT_NULL {
		// The kernel hands back a send right to the backing memory
		// object on every call; nothing in this package needs it.
		C.mach_port_deallocate(C.mach_task_self(), objectName)
	}
	if res != C.KERN_SUCCESS {
		return memaddr.Page{}, 0, false
	}

	start := uint64(address)
	end := start + uint64(size)
	page := memaddr.Page{
		Start:      memaddr.MustOffset(start),
		End:        memaddr.MustOffset(end),
		Perm:       permFromProtection(int32(info.protection), info.shared != 0),
		FileOffset: int64(info.offset),
		// The object_name port does not by itself say whether a region
		// is the main executable, the heap, or a plain file mapping;
		// Mach has no equivalent of /proc/pid/maps's path column.
		Type: memaddr.PageType{Kind: memaddr.Unknown},
	}
	return page, address + C.mach_vm_address_t(size), true
}

func permFromProtection(protection int32, shared bool) memaddr.Perm {
	var p memaddr.Perm
	if protection&C.VM_PROT_READ != 0 {
		p |= memaddr.Read
	}
	if protection&C.VM_PROT_WRITE != 0 {
		p |= memaddr.Write
	}
	if protection&C.VM_PROT_EXECUTE != 0 {
		p |= memaddr.Exec
	}
	if shared {
		p |= memaddr.Shared
	}
	return p
}
