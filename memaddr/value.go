// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memaddr

import (
	"unsafe"
)

// Scalar is the closed set of primitive numeric kinds whose in-memory
// representation contains no padding, and so can be safely reinterpreted
// as a raw byte slice. This mirrors the fixed list of primitive impls the
// original implementation generates one per type for (integers, floats).
type Scalar interface {
	~int8 | ~uint8 | ~int16 | ~uint16 |
		~int32 | ~uint32 | ~int64 | ~uint64 |
		~int | ~uint | ~float32 | ~float64
}

// ByteComparable is a value (or a view of a value) that can be safely
// compared to a target process's raw memory, byte for byte.
//
// The helpers in this file cover only types whose memory image contains no
// padding: scalars, fixed-size slices of scalars and raw string bytes, and
// Value and Slice accept only Scalar element types. ByteComparable itself
// is an ordinary interface: any type with these two methods satisfies it,
// and nothing checks that its bytes come from a padding-free type.
type ByteComparable interface {
	// AsBytes returns the byte-for-byte representation of the value.
	AsBytes() []byte
	// AlignOf returns the alignment requirement of the underlying type,
	// used by aligned scans to reject candidate offsets that could never
	// legally hold a value of this type.
	AlignOf() uintptr
}

// Value wraps a single scalar as a ByteComparable.
type Value[T Scalar] struct {
	v T
}

// NewValue wraps v for use as a scan pattern.
func NewValue[T Scalar](v T) Value[T] {
	return Value[T]{v: v}
}

func (v Value[T]) AsBytes() []byte {
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&v.v)), size)
}

func (v Value[T]) AlignOf() uintptr {
	var zero T
	return unsafe.Alignof(zero)
}

// Slice wraps a fixed slice of scalars as a single ByteComparable value,
// generalizing the original's per-array-length impl: the alignment
// requirement is that of the element type, regardless of how many
// elements are present.
type Slice[T Scalar] struct {
	v []T
}

// NewSlice wraps v for use as a scan pattern. v must not be empty.
func NewSlice[T Scalar](v []T) Slice[T] {
	return Slice[T]{v: v}
}

func (s Slice[T]) AsBytes() []byte {
	if len(s.v) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&s.v[0])), size*uintptr(len(s.v)))
}

func (s Slice[T]) AlignOf() uintptr {
	var zero T
	return unsafe.Alignof(zero)
}

// String wraps the raw bytes of a Go string as a ByteComparable value,
// always alignment 1.
type String string

func (s String) AsBytes() []byte {
	return []byte(s)
}

func (s String) AlignOf() uintptr {
	return 1
}
