// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package mach

/*
#include <mach/mach.h>
#include <mach/mach_error.h>
*/
import "C"

import "fmt"

// errShortTransfer is returned when a Mach VM call reports success but
// transfers fewer bytes than requested; none of the pack's retrieved
// sources ever observed this in practice, but mach_vm_read_overwrite's
// manual page does not rule it out.
var errShortTransfer = fmt.Errorf("mach: short transfer")

func kernReturnError(res C.kern_return_t) error {
	return fmt.Errorf("mach: kern_return_t %d (%s)", int(res), C.GoString(C.mach_error_string(res)))
}
