// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scanner

import (
	"testing"

	"github.com/ogletools/procmem/memaddr"
)

func TestValuePredicateStart(t *testing.T) {
	v := memaddr.NewValue(uint16(1))
	data := v.AsBytes()
	p := NewValuePredicate(v, true)

	c, ok := p.TryStartCandidate(off(100), data[0])
	if !ok {
		t.Fatalf("TryStartCandidate should succeed")
	}
	if c.Offset() != off(100) || c.StartOffset() != off(100) || c.Length() != 1 {
		t.Errorf("candidate = %+v", c)
	}
	if c.IsPartial() || c.IsResolved() {
		t.Errorf("fresh multi-byte candidate should be neither partial nor resolved")
	}

	if _, ok := p.TryStartCandidate(off(101), data[0]); ok {
		t.Errorf("unaligned offset should be rejected")
	}
	if _, ok := p.TryStartCandidate(off(100), data[1]); ok {
		t.Errorf("wrong starting byte should be rejected")
	}
}

func TestValuePredicateNormalLength1(t *testing.T) {
	v := memaddr.NewValue(uint8(1))
	p := NewValuePredicate(v, false)

	c, ok := p.TryStartCandidate(off(100), 1)
	if !ok {
		t.Fatalf("TryStartCandidate should succeed")
	}
	if c.Length() != 1 || c.IsPartial() || !c.IsResolved() {
		t.Errorf("single byte candidate should resolve immediately: %+v", c)
	}
}

func TestValuePredicatePartialResolved(t *testing.T) {
	v := memaddr.NewSlice([]uint8{2, 3})
	p := NewValuePredicate(v, false)
	data := []byte{1, 2, 3, 4}

	candidates := p.TryStartPartialCandidates(off(102), data[2])
	if len(candidates) == 0 {
		t.Fatalf("expected at least one partial candidate")
	}
	c := candidates[0]
	if c.Offset() != off(101) || c.StartOffset() != off(102) || c.Length() != 2 {
		t.Errorf("candidate = %+v", c)
	}
	if !c.IsPartial() || !c.IsResolved() {
		t.Errorf("candidate should be partial and resolved: %+v", c)
	}
}

func TestValuePredicateUpdate(t *testing.T) {
	v := memaddr.NewSlice([]uint16{1, 0xFFFF})
	data := v.AsBytes()
	p := NewValuePredicate(v, true)

	c, ok := p.TryStartCandidate(off(100), data[0])
	if !ok || c != NewCandidate(off(100)) {
		t.Fatalf("TryStartCandidate mismatch: %+v, %v", c, ok)
	}

	if got := p.UpdateCandidate(off(101), data[1], c); got != Advance {
		t.Errorf("UpdateCandidate = %v; want Advance", got)
	}
	c.Advance()

	if got := p.UpdateCandidate(off(102), data[2], c); got != Advance {
		t.Errorf("UpdateCandidate = %v; want Advance", got)
	}
	c.Advance()

	if got := p.UpdateCandidate(off(103), data[3], c); got != Resolve {
		t.Errorf("UpdateCandidate = %v; want Resolve", got)
	}

	if got := p.UpdateCandidate(off(103), data[1], c); got != Remove {
		t.Errorf("UpdateCandidate = %v; want Remove", got)
	}
}
