// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memaddr

import (
	"fmt"
	"iter"
	"strings"
)

// Perm is the set of permissions a Page allows.
type Perm uint8

const (
	Read Perm = 1 << iota
	Write
	Exec
	Shared
)

func (p Perm) String() string {
	var b strings.Builder
	writeFlag := func(set bool, c byte, not byte) {
		if set {
			b.WriteByte(c)
		} else {
			b.WriteByte(not)
		}
	}
	writeFlag(p&Read != 0, 'r', '-')
	writeFlag(p&Write != 0, 'w', '-')
	writeFlag(p&Exec != 0, 'x', '-')
	writeFlag(p&Shared != 0, 's', 'p')
	return b.String()
}

// PageKind tags the origin of a mapped region.
type PageKind int

const (
	Unknown PageKind = iota
	Stack
	Heap
	Anonymous
	ProcessExecutable
	File
)

func (k PageKind) String() string {
	switch k {
	case Stack:
		return "stack"
	case Heap:
		return "heap"
	case Anonymous:
		return "anon"
	case ProcessExecutable:
		return "exe"
	case File:
		return "file"
	default:
		return "unknown"
	}
}

// PageType is the full page-type tag: a PageKind plus the backing path for
// the two kinds that carry one.
type PageType struct {
	Kind PageKind
	Path string // only meaningful for ProcessExecutable and File
}

func (t PageType) String() string {
	switch t.Kind {
	case ProcessExecutable:
		return fmt.Sprintf("%s (self)", t.Path)
	case File:
		return t.Path
	default:
		return t.Kind.String()
	}
}

// Page is one mapped region of a target's virtual address space, with the
// half-open range [Start, End).
type Page struct {
	Start, End Offset
	Perm       Perm
	// FileOffset is the byte offset within the backing file, 0 when the
	// page is not file-backed.
	FileOffset int64
	Type       PageType
}

// Size returns the number of bytes covered by the page.
func (p Page) Size() uint64 {
	return uint64(p.End.Sub(p.Start))
}

// TryMerge attempts to merge p with other per the spec's page-merge
// operator: the ranges must touch or overlap. On success it returns the
// merged page; on failure it returns other unchanged and ok=false so the
// caller can start a fresh accumulator with it.
func (p Page) TryMerge(other Page) (Page, bool) {
	if p.End.Get() < other.Start.Get() || other.End.Get() < p.Start.Get() {
		return other, false
	}

	merged := p
	if other.Start.Get() < merged.Start.Get() {
		merged.Start = other.Start
	}
	if other.End.Get() > merged.End.Get() {
		merged.End = other.End
	}
	merged.Perm = p.Perm & other.Perm
	if other.FileOffset < merged.FileOffset {
		merged.FileOffset = other.FileOffset
	}
	if p.Type != other.Type {
		merged.Type = PageType{Kind: Unknown}
	}
	return merged, true
}

func (p Page) String() string {
	return fmt.Sprintf("%s-%s %s %d %s", p.Start, p.End, p.Perm, p.FileOffset, p.Type)
}

// MergeSorted folds adjacent, mergeable pages of an already-sorted
// sequence into one another using TryMerge. Behavior on unsorted input is
// best-effort local merging only, not a full sort-then-merge.
func MergeSorted(pages []Page) []Page {
	out := make([]Page, 0, len(pages))
	for p := range MergeSortedSeq(Slices(pages)) {
		out = append(out, p)
	}
	return out
}

// MergeSortedSeq is the lazy, streaming form of MergeSorted: a transformer
// over an already-sorted sequence of pages that collapses adjacent,
// mergeable runs as it is consumed. A page is only yielded once a later
// page fails to merge with it, or the input is exhausted.
func MergeSortedSeq(pages iter.Seq[Page]) iter.Seq[Page] {
	return AccFilterSeq(pages, func(acc *AccState[Page], cur Page) (Page, bool) {
		a, has := acc.Get()
		if !has {
			acc.Replace(cur)
			var zero Page
			return zero, false
		}
		merged, ok := a.TryMerge(cur)
		if ok {
			acc.Replace(merged)
			var zero Page
			return zero, false
		}
		old, _ := acc.Replace(cur)
		return old, true
	})
}

// Slices adapts a plain slice into an iter.Seq.
func Slices[T any](s []T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s {
			if !yield(v) {
				return
			}
		}
	}
}
