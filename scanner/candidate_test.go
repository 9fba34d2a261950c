// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scanner

import (
	"sort"
	"testing"

	"github.com/ogletools/procmem/memaddr"
)

func off(v uint64) memaddr.Offset {
	return memaddr.MustOffset(v)
}

func TestCandidateConstruction(t *testing.T) {
	c := NewCandidate(off(10))
	if c.offset != off(10) || c.length != 1 || c.resolved || c.partial {
		t.Errorf("NewCandidate = %+v", c)
	}

	c = NewResolvedCandidate(off(20), 12)
	if c.offset != off(20) || c.length != 12 || !c.resolved || c.partial {
		t.Errorf("NewResolvedCandidate = %+v", c)
	}

	c = NewPartialCandidate(off(11), 5)
	if c.offset != off(11) || c.length != 5 || c.resolved || !c.partial || c.startOffset != off(15) {
		t.Errorf("NewPartialCandidate = %+v", c)
	}

	c = NewPartialResolvedCandidate(off(10), 2)
	if c.offset != off(10) || c.length != 2 || !c.resolved || !c.partial || c.startOffset != off(11) {
		t.Errorf("NewPartialResolvedCandidate = %+v", c)
	}
}

func TestCandidateSort(t *testing.T) {
	candidates := []Candidate{
		{offset: off(2), length: 2},
		{offset: off(2), length: 1},
		{offset: off(1), length: 3, partial: true, startOffset: off(1)},
		{offset: off(1), length: 2},
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Less(candidates[j]) })

	want := []Candidate{
		{offset: off(1), length: 2},
		{offset: off(1), length: 3, partial: true, startOffset: off(1)},
		{offset: off(2), length: 1},
		{offset: off(2), length: 2},
	}
	for i := range want {
		if candidates[i] != want[i] {
			t.Errorf("candidates[%d] = %+v; want %+v", i, candidates[i], want[i])
		}
	}
}

func TestCandidateMergeSorted(t *testing.T) {
	values := []Candidate{
		{offset: off(1), length: 2},
		{offset: off(1), length: 3, partial: true, startOffset: off(1)},
		{offset: off(2), length: 1},
		{offset: off(2), length: 2, resolved: true},
	}

	result := MergeSorted(values)

	want := []Candidate{
		{offset: off(1), length: 3},
		{offset: off(2), length: 2, resolved: true},
	}
	if len(result) != len(want) {
		t.Fatalf("MergeSorted produced %d candidates; want %d: %+v", len(result), len(want), result)
	}
	for i := range want {
		if result[i] != want[i] {
			t.Errorf("result[%d] = %+v; want %+v", i, result[i], want[i])
		}
	}
}

func TestCandidateMergeStart(t *testing.T) {
	// 8  9  10  11
	// 1  2   3   4
	// ^------^ left
	//        ^ right
	left := Candidate{offset: off(8), length: 3}
	right := Candidate{offset: off(8), length: 4, partial: true, startOffset: off(10)}

	if _, ok := left.TryMerge(right); !ok {
		t.Fatalf("TryMerge should succeed")
	}
	want := Candidate{offset: off(8), length: 4}
	if left != want {
		t.Errorf("merged = %+v; want %+v", left, want)
	}
}

func TestCandidateMergeMiddle(t *testing.T) {
	left := Candidate{offset: off(8), length: 3, partial: true, startOffset: off(9)}
	right := Candidate{offset: off(8), length: 4, resolved: true, partial: true, startOffset: off(11)}

	if _, ok := left.TryMerge(right); !ok {
		t.Fatalf("TryMerge should succeed")
	}
	want := Candidate{offset: off(8), length: 4, resolved: true, partial: true, startOffset: off(9)}
	if left != want {
		t.Errorf("merged = %+v; want %+v", left, want)
	}
}

func TestCandidateMergeEnd(t *testing.T) {
	left := Candidate{offset: off(8), length: 2, partial: true, startOffset: off(9)}
	right := Candidate{offset: off(8), length: 4, resolved: true, partial: true, startOffset: off(10)}

	if _, ok := left.TryMerge(right); !ok {
		t.Fatalf("TryMerge should succeed")
	}
	want := Candidate{offset: off(8), length: 4, resolved: true, partial: true, startOffset: off(9)}
	if left != want {
		t.Errorf("merged = %+v; want %+v", left, want)
	}
}

func TestCandidateMergeErr(t *testing.T) {
	left := Candidate{offset: off(9), length: 2, partial: true, startOffset: off(10)}
	right := Candidate{offset: off(8), length: 4, resolved: true, partial: true, startOffset: off(12)}
	if _, ok := left.TryMerge(right); ok {
		t.Fatalf("TryMerge should fail: different offsets")
	}
	if left.length != 2 {
		t.Errorf("left.length = %d; want 2 (unchanged)", left.length)
	}

	left = Candidate{offset: off(8), length: 2}
	right = Candidate{offset: off(8), length: 4, resolved: true, partial: true, startOffset: off(12)}
	if _, ok := left.TryMerge(right); ok {
		t.Fatalf("TryMerge should fail: non-intersecting ranges")
	}
	if left.length != 2 {
		t.Errorf("left.length = %d; want 2 (unchanged)", left.length)
	}
}
