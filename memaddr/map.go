// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memaddr

import "fmt"

const pageShift = 12
const pageSize = 1 << pageShift

// We assume every Page starts and ends on a 4K boundary, same as the
// teacher's core-dump mapping table, and divide the remaining 64-12=52 bits
// of an address into five radix levels.
type pageTable0 [1 << 10]*Page
type pageTable1 [1 << 10]*pageTable0
type pageTable2 [1 << 10]*pageTable1
type pageTable3 [1 << 10]*pageTable2
type pageTable4 [1 << 12]*pageTable3

// Map is a snapshot of a target process's full virtual address space: an
// ordered list of Pages plus a radix index for O(1) address lookup.
type Map struct {
	pages     []Page
	pageTable pageTable4
}

// NewMap builds a Map from pages, which must already be sorted by Start and
// non-overlapping. Pages whose range isn't 4K-aligned are rejected.
func NewMap(pages []Page) (*Map, error) {
	m := &Map{pages: pages}
	for i := range pages {
		if err := m.index(&pages[i]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Map) index(p *Page) error {
	if p.Start.Get()%pageSize != 0 {
		return fmt.Errorf("memaddr: mapping start %s isn't a multiple of %#x", p.Start, pageSize)
	}
	if p.End.Get()%pageSize != 0 {
		return fmt.Errorf("memaddr: mapping end %s isn't a multiple of %#x", p.End, pageSize)
	}
	for a := p.Start.Get(); a < p.End.Get(); a += pageSize {
		i3 := a >> 52
		t3 := m.pageTable[i3]
		if t3 == nil {
			t3 = new(pageTable3)
			m.pageTable[i3] = t3
		}
		i2 := a >> 42 % (1 << 10)
		t2 := t3[i2]
		if t2 == nil {
			t2 = new(pageTable2)
			t3[i2] = t2
		}
		i1 := a >> 32 % (1 << 10)
		t1 := t2[i1]
		if t1 == nil {
			t1 = new(pageTable1)
			t2[i1] = t1
		}
		i0 := a >> 22 % (1 << 10)
		t0 := t1[i0]
		if t0 == nil {
			t0 = new(pageTable0)
			t1[i0] = t0
		}
		t0[a>>12%(1<<10)] = p
	}
	return nil
}

// Pages returns the ordered, non-overlapping list of pages in the map.
func (m *Map) Pages() []Page {
	return m.pages
}

// Lookup returns the page containing addr, if any.
func (m *Map) Lookup(addr Offset) (Page, bool) {
	a := addr.Get()
	t3 := m.pageTable[a>>52]
	if t3 == nil {
		return Page{}, false
	}
	t2 := t3[a>>42%(1<<10)]
	if t2 == nil {
		return Page{}, false
	}
	t1 := t2[a>>32%(1<<10)]
	if t1 == nil {
		return Page{}, false
	}
	t0 := t1[a>>22%(1<<10)]
	if t0 == nil {
		return Page{}, false
	}
	p := t0[a>>12%(1<<10)]
	if p == nil {
		return Page{}, false
	}
	return *p, true
}

// Readable returns a new slice of only the pages with the Read permission,
// the common case for scanning.
func (m *Map) Readable() []Page {
	out := make([]Page, 0, len(m.pages))
	for _, p := range m.pages {
		if p.Perm&Read != 0 {
			out = append(out, p)
		}
	}
	return out
}
