// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scanner

import "github.com/ogletools/procmem/memaddr"

// UpdateResult is the action a Predicate asks the stream scanner to take on
// a candidate that has received one more byte.
type UpdateResult int

const (
	// Advance grows the candidate by one byte and keeps it alive.
	Advance UpdateResult = iota
	// Skip leaves the candidate as-is without growing it.
	Skip
	// Remove discards the candidate; it no longer matches.
	Remove
	// Resolve grows the candidate once more and marks it complete.
	Resolve
)

func (r UpdateResult) String() string {
	switch r {
	case Advance:
		return "advance"
	case Skip:
		return "skip"
	case Remove:
		return "remove"
	case Resolve:
		return "resolve"
	default:
		return "unknown"
	}
}

// Predicate decides, byte by byte, whether a scan candidate should be
// started, continued or abandoned.
type Predicate interface {
	// TryStartCandidate reports whether byte at offset starts a new candidate.
	TryStartCandidate(offset memaddr.Offset, b byte) (Candidate, bool)

	// UpdateCandidate is called with offset == candidate.EndOffset(), and
	// decides the candidate's fate given the next byte.
	UpdateCandidate(offset memaddr.Offset, b byte, candidate Candidate) UpdateResult
}

// PartialPredicate extends Predicate with the ability to recognize matches
// that may have started before the beginning of the current chunk, enabling
// scans of memory split across independently-read regions.
type PartialPredicate interface {
	Predicate

	// TryStartPartialCandidates is called only for the first byte of a
	// scanned chunk, and returns every partial candidate that byte could
	// plausibly complete.
	TryStartPartialCandidates(offset memaddr.Offset, b byte) []Candidate
}
