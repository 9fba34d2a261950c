// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memaddr contains the platform-independent address space model:
// offsets, byte-comparable values, memory pages and the memory map.
package memaddr

import "fmt"

// An Offset is a non-zero virtual address in a target process.
//
// Zero is reserved to mean "no such offset", which lets Offset be stored
// compactly (e.g. as the zero value of a struct field) without risking
// that an absent offset is mistaken for a valid address at 0.
type Offset uint64

// New returns the Offset for v, or false if v is zero.
func New(v uint64) (Offset, bool) {
	if v == 0 {
		return 0, false
	}
	return Offset(v), true
}

// MustOffset is like New but panics if v is zero. Intended for constants
// and tests where the value is known to be non-zero.
func MustOffset(v uint64) Offset {
	o, ok := New(v)
	if !ok {
		panic("memaddr: zero is not a valid offset")
	}
	return o
}

// Valid reports whether o is a legal, non-zero offset.
func (o Offset) Valid() bool {
	return o != 0
}

// Get returns the numeric value of o.
func (o Offset) Get() uint64 {
	return uint64(o)
}

// SaturatingAdd returns o+n, clamped to the maximum representable offset
// instead of wrapping around.
func (o Offset) SaturatingAdd(n uint64) Offset {
	sum := uint64(o) + n
	if sum < uint64(o) {
		return Offset(^uint64(0))
	}
	return Offset(sum)
}

// Sub returns o-other as a signed difference.
func (o Offset) Sub(other Offset) int64 {
	return int64(o) - int64(other)
}

func (o Offset) String() string {
	return fmt.Sprintf("%x", uint64(o))
}
