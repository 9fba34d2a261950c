// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"sort"

	"github.com/ogletools/procmem/memaddr"
	"github.com/ogletools/procmem/memprovider"
	"github.com/ogletools/procmem/scanner"
)

// App is the REPL's session state: the attached process, its filtered
// scan region, and the matches from the scan in progress.
type App struct {
	provider   memprovider.Provider
	pages      []memaddr.Page
	current    []memaddr.Offset
	userLocked bool
}

// filterPage keeps only the regions a scan should ever consider: readable,
// writable, private, and with a file offset of 0 (a file-backed mapping
// that starts at offset 0 of its file passes too). This mirrors the original REPL's default
// filter, which existed because scanning an entire address space
// (including read-only libraries and shared mappings) is both slow and
// rarely where a game or program keeps live mutable state.
func filterPage(p memaddr.Page) bool {
	return p.Perm&memaddr.Read != 0 &&
		p.Perm&memaddr.Write != 0 &&
		p.Perm&memaddr.Shared == 0 &&
		p.FileOffset == 0
}

// Attach opens a provider for pid and computes its scannable region.
func Attach(pid int) (*App, error) {
	provider, err := newProvider(pid)
	if err != nil {
		return nil, err
	}

	if _, err := provider.Lock().Lock(); err != nil {
		provider.Close()
		return nil, err
	}

	var filtered []memaddr.Page
	for _, p := range provider.Map().Pages() {
		if filterPage(p) {
			filtered = append(filtered, p)
		}
	}
	pages := memaddr.MergeSorted(filtered)

	if _, err := provider.Lock().Unlock(); err != nil {
		provider.Close()
		return nil, err
	}

	return &App{provider: provider, pages: pages}, nil
}

// Close releases the attached process. The App must not be used
// afterward.
func (a *App) Close() error {
	return a.provider.Close()
}

// ProcessInfo reports the attached process's PID and name.
func (a *App) ProcessInfo() (memprovider.ProcessInfo, error) {
	return processInfoFor(a.provider.PID())
}

// PageEntry pairs a mapped region with whether it falls inside the
// scannable region.
type PageEntry struct {
	Selected bool
	Page     memaddr.Page
}

// Pages lists every mapped region, tagging which ones the scanner uses.
func (a *App) Pages() []PageEntry {
	all := a.provider.Map().Pages()
	out := make([]PageEntry, len(all))
	for i, p := range all {
		out[i] = PageEntry{Selected: filterPage(p), Page: p}
	}
	return out
}

// IsLocked reports whether the user has explicitly stopped the process
// with the `stop` command (as opposed to the brief internal locks a scan
// or write takes).
func (a *App) IsLocked() bool {
	return a.userLocked
}

// Lock stops the process until Unlock is called. Idempotent: calling it
// while already user-locked does nothing.
func (a *App) Lock() error {
	if a.userLocked {
		return nil
	}
	if _, err := a.provider.Lock().Lock(); err != nil {
		return err
	}
	a.userLocked = true
	return nil
}

// Unlock resumes the process. Idempotent, mirroring Lock.
func (a *App) Unlock() error {
	if !a.userLocked {
		return nil
	}
	if _, err := a.provider.Lock().Unlock(); err != nil {
		return err
	}
	a.userLocked = false
	return nil
}

// Reset discards the in-progress scan's matches, so the next scan starts
// fresh over the whole scannable region instead of narrowing the previous
// result set.
func (a *App) Reset() {
	a.current = nil
}

// ScanKind classifies a scan's result set by size, the same buckets the
// REPL prints differently for.
type ScanKind int

const (
	ScanZero ScanKind = iota
	ScanOne
	ScanFew
	ScanMany
)

// ScanOutcome is one scan's result: Offsets is populated for ScanOne and
// ScanFew, Count for ScanMany.
type ScanOutcome struct {
	Kind    ScanKind
	Offsets []memaddr.Offset
	Count   int
}

// Scan narrows the in-progress match set to every offset in the scannable
// region whose bytes equal value, additionally requiring the offset to
// already be a candidate from a previous Scan call. When the match set is
// empty (before the first scan, after Reset, or after a scan that found
// nothing) it starts fresh and keeps every matching offset.
func (a *App) Scan(value memaddr.ByteComparable, aligned bool) (ScanOutcome, error) {
	if _, err := a.provider.Lock().Lock(); err != nil {
		return ScanOutcome{}, err
	}
	defer a.provider.Lock().Unlock()

	predicate := scanner.NewValuePredicate(value, aligned)
	sc := scanner.NewStreamScanner(predicate)

	hadPrevious := len(a.current) > 0
	previous := make(map[memaddr.Offset]struct{}, len(a.current))
	for _, o := range a.current {
		previous[o] = struct{}{}
	}

	next := make(map[memaddr.Offset]struct{})
	var buf []byte
	for _, page := range a.pages {
		size := int(page.Size())
		if cap(buf) < size {
			buf = make([]byte, size)
		} else {
			buf = buf[:size]
		}
		if err := a.provider.Access().Read(page.Start, buf); err != nil {
			return ScanOutcome{}, fmt.Errorf("read memory page %s: %w", page.Start, err)
		}

		for offset, _ := range sc.ScanOnce(page.Start, memaddr.Slices(buf)) {
			if !hadPrevious {
				next[offset] = struct{}{}
				continue
			}
			if _, ok := previous[offset]; ok {
				next[offset] = struct{}{}
			}
		}
	}

	a.current = a.current[:0]
	for o := range next {
		a.current = append(a.current, o)
	}
	sort.Slice(a.current, func(i, j int) bool { return a.current[i].Get() < a.current[j].Get() })

	return summarize(a.current), nil
}

func summarize(matches []memaddr.Offset) ScanOutcome {
	switch n := len(matches); {
	case n == 0:
		return ScanOutcome{Kind: ScanZero}
	case n == 1:
		return ScanOutcome{Kind: ScanOne, Offsets: matches}
	case n <= 5:
		return ScanOutcome{Kind: ScanFew, Offsets: matches}
	default:
		return ScanOutcome{Kind: ScanMany, Count: n}
	}
}

// Write overwrites offset with value's bytes.
func (a *App) Write(offset memaddr.Offset, value memaddr.ByteComparable) error {
	if _, err := a.provider.Lock().Lock(); err != nil {
		return err
	}
	defer a.provider.Lock().Unlock()

	if err := a.provider.Access().Write(offset, value.AsBytes()); err != nil {
		return fmt.Errorf("write memory at %s: %w", offset, err)
	}
	return nil
}
