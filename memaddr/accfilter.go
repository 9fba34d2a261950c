// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memaddr

import "iter"

// AccState is a single optional accumulator slot, threaded through an
// AccFilterFunc the way an `Option<T>` is threaded through the original
// implementation's fold closures.
type AccState[T any] struct {
	v   T
	has bool
}

// Get returns the current accumulator value, if any.
func (s *AccState[T]) Get() (T, bool) {
	return s.v, s.has
}

// Replace installs v as the new accumulator and returns whatever was
// there before.
func (s *AccState[T]) Replace(v T) (T, bool) {
	old, hadOld := s.v, s.has
	s.v, s.has = v, true
	return old, hadOld
}

// Take empties the accumulator and returns what it held.
func (s *AccState[T]) Take() (T, bool) {
	v, has := s.v, s.has
	var zero T
	s.v, s.has = zero, false
	return v, has
}

// AccFilterFunc folds one incoming item into acc, and optionally produces a
// value that should be yielded immediately. Returning ok=false means the
// item was absorbed into acc with no output yet, matching a closure
// returning None in the original fold; ok=true yields the returned value
// while acc keeps whatever state the closure left it in.
type AccFilterFunc[T any] func(acc *AccState[T], cur T) (out T, ok bool)

// AccFilterSeq is a hybrid of filter and fold: each input may or may not
// produce an output, there is an optional accumulator carried across
// iterations, and the leftover accumulator (if any) is yielded once the
// input is exhausted.
func AccFilterSeq[T any](seq iter.Seq[T], fold AccFilterFunc[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		var acc AccState[T]
		for cur := range seq {
			out, ok := fold(&acc, cur)
			if ok {
				if !yield(out) {
					return
				}
			}
		}
		if v, has := acc.Take(); has {
			yield(v)
		}
	}
}

// AccFilterSlice runs AccFilterSeq over a plain slice and collects the
// result, for callers that don't need the lazy form.
func AccFilterSlice[T any](s []T, fold AccFilterFunc[T]) []T {
	out := make([]T, 0, len(s))
	for v := range AccFilterSeq(Slices(s), fold) {
		out = append(out, v)
	}
	return out
}
