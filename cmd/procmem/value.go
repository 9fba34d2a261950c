// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"

	"github.com/ogletools/procmem/memaddr"
)

// rawValue is a pre-encoded scan or write pattern: the bytes to compare
// (or write) and the alignment of the type they were encoded from. It
// exists so a byte-swapped scan can still enforce the original type's
// alignment even though its AsBytes no longer matches any memaddr.Value's
// native in-memory layout.
type rawValue struct {
	bytes []byte
	align uintptr
}

func (r rawValue) AsBytes() []byte { return r.bytes }
func (r rawValue) AlignOf() uintptr { return r.align }

// parseValue encodes valueStr as typ ("i16", "i32", "i64", "f32" or
// "f64"), optionally reversing the byte order. "all" is not a type typ
// accepts; the REPL loop expands it into one call per concrete type.
func parseValue(typ, valueStr string, swap bool) (memaddr.ByteComparable, error) {
	var v memaddr.ByteComparable
	switch typ {
	case "i16":
		n, err := strconv.ParseInt(valueStr, 10, 16)
		if err != nil {
			return nil, err
		}
		v = memaddr.NewValue(int16(n))
	case "i32":
		n, err := strconv.ParseInt(valueStr, 10, 32)
		if err != nil {
			return nil, err
		}
		v = memaddr.NewValue(int32(n))
	case "i64":
		n, err := strconv.ParseInt(valueStr, 10, 64)
		if err != nil {
			return nil, err
		}
		v = memaddr.NewValue(n)
	case "f32":
		f, err := strconv.ParseFloat(valueStr, 32)
		if err != nil {
			return nil, err
		}
		v = memaddr.NewValue(float32(f))
	case "f64":
		f, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return nil, err
		}
		v = memaddr.NewValue(f)
	default:
		return nil, fmt.Errorf("unknown value type %q", typ)
	}

	if !swap {
		return v, nil
	}
	return rawValue{bytes: reversed(v.AsBytes()), align: v.AlignOf()}, nil
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

// scanTypes is the full set `scan all` expands to, in the order the REPL
// runs them.
var scanTypes = []string{"i16", "i32", "i64", "f32", "f64"}
