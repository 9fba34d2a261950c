// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scanner

import "github.com/ogletools/procmem/memaddr"

// ValuePredicate matches a single concrete ByteComparable value against
// memory, byte for byte.
type ValuePredicate[T memaddr.ByteComparable] struct {
	value   T
	aligned bool
}

// NewValuePredicate builds a predicate for value. If aligned is true,
// candidates are only started at offsets divisible by value's alignment.
func NewValuePredicate[T memaddr.ByteComparable](value T, aligned bool) ValuePredicate[T] {
	if len(value.AsBytes()) == 0 {
		panic("scanner: value predicate over an empty value")
	}
	return ValuePredicate[T]{value: value, aligned: aligned}
}

func (p ValuePredicate[T]) offsetAligned(offset memaddr.Offset) bool {
	return !p.aligned || offset.Get()%uint64(p.value.AlignOf()) == 0
}

func (p ValuePredicate[T]) TryStartCandidate(offset memaddr.Offset, b byte) (Candidate, bool) {
	bytes := p.value.AsBytes()
	if !p.offsetAligned(offset) {
		return Candidate{}, false
	}
	if bytes[0] != b {
		return Candidate{}, false
	}
	if len(bytes) == 1 {
		return NewResolvedCandidate(offset, 1), true
	}
	return NewCandidate(offset), true
}

func (p ValuePredicate[T]) UpdateCandidate(_ memaddr.Offset, b byte, candidate Candidate) UpdateResult {
	bytes := p.value.AsBytes()
	if bytes[candidate.Length()] != b {
		return Remove
	}
	if candidate.Length() == len(bytes)-1 {
		return Resolve
	}
	return Advance
}

func (p ValuePredicate[T]) TryStartPartialCandidates(offset memaddr.Offset, b byte) []Candidate {
	var candidates []Candidate
	bytes := p.value.AsBytes()

	for i := len(bytes) - 1; i >= 1; i-- {
		if bytes[i] != b {
			continue
		}

		o := offset.Get()
		var potentialStart uint64
		if uint64(i) >= o {
			continue // would start at offset 0 or before, which is invalid
		}
		potentialStart = o - uint64(i)

		start := memaddr.MustOffset(potentialStart)
		if !p.offsetAligned(start) {
			continue
		}

		length := i + 1
		var c Candidate
		if length == len(bytes) {
			c = NewPartialResolvedCandidate(start, length)
		} else {
			c = NewPartialCandidate(start, length)
		}
		candidates = append(candidates, c)
	}

	return candidates
}
