// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memaddr

import "testing"

func TestOffsetNew(t *testing.T) {
	if _, ok := New(0); ok {
		t.Errorf("New(0) should fail")
	}
	o, ok := New(42)
	if !ok || o.Get() != 42 {
		t.Errorf("New(42) = %v, %v; want 42, true", o, ok)
	}
}

func TestOffsetMustOffsetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("MustOffset(0) did not panic")
		}
	}()
	MustOffset(0)
}

func TestOffsetSaturatingAdd(t *testing.T) {
	o := MustOffset(10)
	if got := o.SaturatingAdd(5); got.Get() != 15 {
		t.Errorf("SaturatingAdd(5) = %v; want 15", got)
	}
	max := Offset(^uint64(0))
	if got := max.SaturatingAdd(1); got != max {
		t.Errorf("SaturatingAdd overflow = %v; want %v", got, max)
	}
}

func TestOffsetSub(t *testing.T) {
	a := MustOffset(100)
	b := MustOffset(40)
	if got := a.Sub(b); got != 60 {
		t.Errorf("Sub = %d; want 60", got)
	}
	if got := b.Sub(a); got != -60 {
		t.Errorf("Sub = %d; want -60", got)
	}
}
