// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memprovider ties a platform's Map, Lock and Access
// implementations to a single target process, and enumerates the
// processes a platform can see.
package memprovider

import (
	"github.com/ogletools/procmem/memaccess"
	"github.com/ogletools/procmem/memaddr"
)

// Provider is a live handle on one target process: its current memory map,
// and the means to lock and access its memory.
//
// A Provider's Map is a snapshot; call Refresh to pick up mappings that
// changed since it was last read (the target allocating, freeing, or
// mapping a new library).
type Provider interface {
	// PID returns the target's process ID.
	PID() int

	// Map returns the most recently read memory map.
	Map() *memaddr.Map

	// Refresh re-reads the target's memory map.
	Refresh() error

	// Lock returns the Lock used to freeze and thaw the target.
	Lock() memaccess.Lock

	// Access returns the Access used to read and write the target's
	// memory. Callers must hold the appropriate Lock before using it.
	Access() memaccess.Access

	// Close releases any resources held on the target (detaching ptrace,
	// closing file descriptors). The target is resumed if still locked.
	Close() error
}

// ProcessInfo describes one process visible to a platform's provider.
type ProcessInfo struct {
	PID  int
	Name string
}
