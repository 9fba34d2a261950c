// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memaddr

import (
	"reflect"
	"testing"
)

func TestPageTryMerge(t *testing.T) {
	left := Page{
		Start: MustOffset(100), End: MustOffset(200),
		Perm: Read | Write | Shared, FileOffset: 0, Type: PageType{Kind: Anonymous},
	}
	right := Page{
		Start: MustOffset(200), End: MustOffset(300),
		Perm: Read | Exec, FileOffset: 100, Type: PageType{Kind: Heap},
	}
	got, ok := left.TryMerge(right)
	if !ok {
		t.Fatalf("TryMerge should succeed on touching ranges")
	}
	want := Page{
		Start: MustOffset(100), End: MustOffset(300),
		Perm: Read, FileOffset: 0, Type: PageType{Kind: Unknown},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TryMerge = %+v; want %+v", got, want)
	}

	left2 := Page{
		Start: MustOffset(400), End: MustOffset(500),
		Perm: Read | Write | Shared, FileOffset: 400, Type: PageType{Kind: Stack},
	}
	right2 := Page{
		Start: MustOffset(200), End: MustOffset(400),
		Perm: Read | Exec, FileOffset: 200, Type: PageType{Kind: Stack},
	}
	got2, ok2 := left2.TryMerge(right2)
	if !ok2 {
		t.Fatalf("TryMerge should succeed on adjacent ranges")
	}
	want2 := Page{
		Start: MustOffset(200), End: MustOffset(500),
		Perm: Read, FileOffset: 200, Type: PageType{Kind: Stack},
	}
	if !reflect.DeepEqual(got2, want2) {
		t.Errorf("TryMerge = %+v; want %+v", got2, want2)
	}
}

func TestPageTryMergeDisjoint(t *testing.T) {
	left := Page{
		Start: MustOffset(400), End: MustOffset(500),
		Perm: Read | Write | Shared, FileOffset: 400, Type: PageType{Kind: Stack},
	}
	right := Page{
		Start: MustOffset(200), End: MustOffset(300),
		Perm: Read | Exec, FileOffset: 200, Type: PageType{Kind: Stack},
	}
	_, ok := left.TryMerge(right)
	if ok {
		t.Fatalf("TryMerge should fail on disjoint ranges")
	}
}

func TestMergeSorted(t *testing.T) {
	pages := []Page{
		{Start: MustOffset(0x1000), End: MustOffset(0x2000), Perm: Read | Write, Type: PageType{Kind: Heap}},
		{Start: MustOffset(0x2000), End: MustOffset(0x3000), Perm: Read | Write, Type: PageType{Kind: Heap}},
		{Start: MustOffset(0x5000), End: MustOffset(0x6000), Perm: Read, Type: PageType{Kind: Anonymous}},
	}
	got := MergeSorted(pages)
	if len(got) != 2 {
		t.Fatalf("MergeSorted produced %d pages; want 2", len(got))
	}
	if got[0].Start.Get() != 0x1000 || got[0].End.Get() != 0x3000 {
		t.Errorf("first merged page = %+v", got[0])
	}
	if got[1].Start.Get() != 0x5000 || got[1].End.Get() != 0x6000 {
		t.Errorf("second page = %+v", got[1])
	}
}
