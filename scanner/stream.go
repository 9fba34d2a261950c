// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scanner

import (
	"iter"
	"sort"

	"github.com/ogletools/procmem/memaddr"
)

// ScanResult is one confirmed match: the offset it starts at and its length
// in bytes.
type ScanResult struct {
	Offset memaddr.Offset
	Length int
}

// StreamScanner runs a PartialPredicate over a byte stream, tracking
// in-flight candidates across calls so that a target's memory can be
// scanned one page, one region, or one goroutine at a time and still find
// matches that straddle a boundary.
type StreamScanner[P PartialPredicate] struct {
	predicate  P
	candidates []Candidate
}

// NewStreamScanner builds a scanner around predicate.
func NewStreamScanner[P PartialPredicate](predicate P) *StreamScanner[P] {
	return &StreamScanner[P]{predicate: predicate}
}

// Reset discards all in-flight candidates. Calling it between unrelated
// scans of the same StreamScanner avoids cross-contaminating matches.
func (s *StreamScanner[P]) Reset() {
	s.candidates = s.candidates[:0]
}

func (s *StreamScanner[P]) onByte(offset memaddr.Offset, b byte, found *[]ScanResult) {
	i := 0
	for i < len(s.candidates) {
		cur := s.candidates[i]

		if cur.IsResolved() || cur.EndOffset() != offset {
			i++
			continue
		}

		switch s.predicate.UpdateCandidate(offset, b, cur) {
		case Advance:
			s.candidates[i].Advance()
			i++
		case Skip:
			i++
		case Remove:
			s.candidates = append(s.candidates[:i], s.candidates[i+1:]...)
		case Resolve:
			if cur.IsPartial() {
				// a partial candidate reaching its would-be end isn't a
				// confirmed match yet: it still needs merging against an
				// earlier chunk's tail before it can resolve for real.
				i++
				continue
			}
			s.candidates = append(s.candidates[:i], s.candidates[i+1:]...)
			cur.Resolve()
			*found = append(*found, ScanResult{cur.Offset(), cur.Length()})
		}
	}

	if c, ok := s.predicate.TryStartCandidate(offset, b); ok {
		if c.IsResolved() {
			*found = append(*found, ScanResult{c.Offset(), c.Length()})
		} else {
			s.candidates = append(s.candidates, c)
		}
	}
}

func (s *StreamScanner[P]) onStart(offset memaddr.Offset, b byte) {
	s.candidates = append(s.candidates, s.predicate.TryStartPartialCandidates(offset, b)...)
}

// ScanOnce scans stream as a single, self-contained sequence: it resets the
// scanner before and after, and cannot detect a match that straddles the
// end of stream. The returned sequence is lazily pulled; results are
// produced incrementally as stream is consumed.
func (s *StreamScanner[P]) ScanOnce(offset memaddr.Offset, stream iter.Seq[byte]) iter.Seq2[memaddr.Offset, int] {
	return func(yield func(memaddr.Offset, int) bool) {
		s.Reset()
		cur := offset
		var found []ScanResult
		for b := range stream {
			found = found[:0]
			s.onByte(cur, b, &found)
			cur = cur.SaturatingAdd(1)
			for _, f := range found {
				if !yield(f.Offset, f.Length) {
					s.Reset()
					return
				}
			}
		}
		s.Reset()
	}
}

// ScanPartial scans stream without resetting before or after, so that
// candidates left over from a previous chunk (via a prior ScanPartial call
// or MergePartialMut) can continue across the boundary. Call ResolvePartial
// once every chunk has been scanned to collect matches that completed.
func (s *StreamScanner[P]) ScanPartial(offset memaddr.Offset, stream iter.Seq[byte]) iter.Seq2[memaddr.Offset, int] {
	return func(yield func(memaddr.Offset, int) bool) {
		next, stop := iter.Pull(stream)
		defer stop()

		b, ok := next()
		if !ok {
			return
		}

		cur := offset
		var found []ScanResult
		s.onStart(cur, b)
		s.onByte(cur, b, &found)
		cur = cur.SaturatingAdd(1)
		for _, f := range found {
			if !yield(f.Offset, f.Length) {
				return
			}
		}

		for {
			b, ok := next()
			if !ok {
				return
			}
			found = found[:0]
			s.onByte(cur, b, &found)
			cur = cur.SaturatingAdd(1)
			for _, f := range found {
				if !yield(f.Offset, f.Length) {
					return
				}
			}
		}
	}
}

// MergePartialMut absorbs other's in-flight candidates into s, as if the
// chunks scanned into other had instead been scanned (via ScanPartial) into
// s. other is left empty.
func (s *StreamScanner[P]) MergePartialMut(other *StreamScanner[P]) {
	s.candidates = append(s.candidates, other.candidates...)
	other.candidates = nil
}

// ResolvePartial merges and resolves whatever candidates ScanPartial and
// MergePartialMut have accumulated, returning every match that is now
// confirmed complete. Unresolved or still-partial candidates are kept for a
// future call.
func (s *StreamScanner[P]) ResolvePartial() []ScanResult {
	sort.Slice(s.candidates, func(i, j int) bool { return s.candidates[i].Less(s.candidates[j]) })

	var resolved []ScanResult
	s.candidates = memaddr.AccFilterSlice(s.candidates, func(acc *memaddr.AccState[Candidate], cur Candidate) (Candidate, bool) {
		a, has := acc.Get()
		if !has {
			acc.Replace(cur)
			return Candidate{}, false
		}

		merged, ok := a.TryMerge(cur)
		if ok {
			acc.Replace(a)
			if a.IsResolved() && !a.IsPartial() {
				resolved = append(resolved, ScanResult{a.Offset(), a.Length()})
				acc.Take()
			}
			return Candidate{}, false
		}

		old, _ := acc.Replace(merged)
		return old, true
	})

	return resolved
}
