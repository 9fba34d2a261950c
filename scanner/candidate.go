// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scanner implements pattern matching over a target process's
// memory: scan predicates, candidate matches and the resumable,
// chunk-at-a-time stream scanner that drives them.
package scanner

import (
	"iter"

	"github.com/ogletools/procmem/memaddr"
)

// Candidate is a single in-progress or completed match of a scan predicate.
//
// A candidate tracks two distinct notions of position: Offset is where the
// logical match starts (for a partial candidate, this is where it *would*
// start, not where matching actually began), and StartOffset is where
// matching is definitely known to have begun. The two differ only for
// partial candidates, which are produced when a chunk boundary cuts a
// would-be match short; StartOffset lets two partial candidates from
// adjacent chunks be merged without re-scanning.
type Candidate struct {
	offset      memaddr.Offset
	length      int // always >= 1
	resolved    bool
	partial     bool
	startOffset memaddr.Offset // meaningful only when partial
}

// NewCandidate starts a fresh, unresolved, single-byte candidate at offset.
func NewCandidate(offset memaddr.Offset) Candidate {
	return Candidate{offset: offset, length: 1}
}

// NewPartialCandidate starts a candidate that a chunk boundary cut short
// before it could be confirmed. length counts the bytes from offset up to
// and including the byte where the (partial) match was found, which
// becomes the start offset.
func NewPartialCandidate(offset memaddr.Offset, length int) Candidate {
	if length < 1 {
		panic("scanner: candidate length must be positive")
	}
	return Candidate{
		offset:      offset,
		length:      length,
		partial:     true,
		startOffset: memaddr.MustOffset(offset.Get() + uint64(length) - 1),
	}
}

// NewResolvedCandidate builds an already-complete candidate. A length of 0
// defaults to 1.
func NewResolvedCandidate(offset memaddr.Offset, length int) Candidate {
	if length == 0 {
		length = 1
	}
	return Candidate{offset: offset, length: length, resolved: true}
}

// NewPartialResolvedCandidate is NewPartialCandidate with the resolved flag
// set, for a partial match that turned out to also be complete.
func NewPartialResolvedCandidate(offset memaddr.Offset, length int) Candidate {
	c := NewPartialCandidate(offset, length)
	c.resolved = true
	return c
}

// IsPartial reports whether the candidate was cut short by a chunk boundary.
func (c Candidate) IsPartial() bool {
	return c.partial
}

// IsResolved reports whether the candidate is a confirmed, complete match.
func (c Candidate) IsResolved() bool {
	return c.resolved
}

// Offset returns the offset where the logical match starts. For partial
// candidates this is where the match should start, not where it was found.
func (c Candidate) Offset() memaddr.Offset {
	return c.offset
}

// Length returns the length of the match since Offset.
func (c Candidate) Length() int {
	return c.length
}

// StartOffset returns the offset at which matching is definitely known to
// have begun. Equal to Offset for anything but a partial candidate.
func (c Candidate) StartOffset() memaddr.Offset {
	if c.partial {
		return c.startOffset
	}
	return c.offset
}

// EndOffset returns the offset just past the matched bytes.
func (c Candidate) EndOffset() memaddr.Offset {
	return c.offset.SaturatingAdd(uint64(c.length))
}

// Advance grows the candidate by one byte. Must not be called on a resolved
// candidate.
func (c *Candidate) Advance() {
	if c.resolved {
		panic("scanner: cannot advance a resolved candidate")
	}
	c.length++
}

// Resolve advances the candidate once more and marks it resolved.
func (c *Candidate) Resolve() {
	c.Advance()
	c.resolved = true
}

// TryMerge attempts to merge c with other in place.
//
// Two candidates can only be merged if they share the same Offset and their
// definitely-matched ranges ([StartOffset, EndOffset)) intersect. This
// cannot, by itself, tell two candidates from different predicates apart;
// callers must only merge candidates known to come from the same predicate.
//
// On failure, other is returned unchanged and ok is false so the caller can
// start a new accumulator with it.
func (c *Candidate) TryMerge(other Candidate) (Candidate, bool) {
	if c.offset != other.offset {
		return other, false
	}
	if c.EndOffset().Get() < other.StartOffset().Get() || other.EndOffset().Get() < c.StartOffset().Get() {
		return other, false
	}

	if other.length > c.length {
		c.length = other.length
	}
	c.resolved = c.resolved || other.resolved

	// start_offset follows Option<T>'s min ordering, where None < Some(_):
	// a candidate known to start exactly at Offset (non-partial) always
	// wins over one that only starts somewhere inside it (partial).
	if c.partial && other.partial {
		if other.startOffset.Get() < c.startOffset.Get() {
			c.startOffset = other.startOffset
		}
	} else {
		c.partial = false
		c.startOffset = 0
	}

	return Candidate{}, true
}

// Less implements the candidate total order: by Offset, then StartOffset
// (non-partial sorts before partial at the same offset, matching the
// original's None < Some(x) ordering for equal x), then Length.
func (c Candidate) Less(other Candidate) bool {
	if c.offset != other.offset {
		return c.offset.Get() < other.offset.Get()
	}
	if c.partial != other.partial {
		return !c.partial
	}
	if c.partial && c.startOffset != other.startOffset {
		return c.startOffset.Get() < other.startOffset.Get()
	}
	return c.length < other.length
}

// MergeSorted folds adjacent, mergeable candidates of an already
// offset-sorted sequence together using TryMerge.
func MergeSorted(candidates []Candidate) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for c := range MergeSortedSeq(memaddr.Slices(candidates)) {
		out = append(out, c)
	}
	return out
}

// MergeSortedSeq is the lazy, streaming form of MergeSorted.
func MergeSortedSeq(candidates iter.Seq[Candidate]) iter.Seq[Candidate] {
	return memaddr.AccFilterSeq(candidates, func(acc *memaddr.AccState[Candidate], cur Candidate) (Candidate, bool) {
		a, has := acc.Get()
		if !has {
			acc.Replace(cur)
			return Candidate{}, false
		}
		merged, ok := a.TryMerge(cur)
		if ok {
			acc.Replace(a)
			return Candidate{}, false
		}
		old, _ := acc.Replace(merged)
		return old, true
	})
}
