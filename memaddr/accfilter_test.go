// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memaddr

import (
	"reflect"
	"testing"
)

func TestAccFilterDedup(t *testing.T) {
	in := []int{1, 1, 1, 2, 3, 3, 4, 4, 4}
	got := AccFilterSlice(in, func(acc *AccState[int], cur int) (int, bool) {
		if v, has := acc.Get(); has && v == cur {
			return 0, false
		}
		return acc.Replace(cur)
	})
	want := []int{1, 2, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AccFilterSlice dedup = %v; want %v", got, want)
	}
}
