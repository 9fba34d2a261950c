// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package procfs

import (
	"errors"
	"testing"

	"github.com/ogletools/procmem/memaddr"
)

func TestParseMapLineHeap(t *testing.T) {
	line := "1f0-20f rw-p 0000000 00:00 0 [heap]"
	got, err := parseMapLine(line, "")
	if err != nil {
		t.Fatalf("parseMapLine: %v", err)
	}
	want := memaddr.Page{
		Start: memaddr.MustOffset(0x1f0), End: memaddr.MustOffset(0x20f),
		Perm: memaddr.Read | memaddr.Write, FileOffset: 0,
		Type: memaddr.PageType{Kind: memaddr.Heap},
	}
	if got != want {
		t.Errorf("parseMapLine = %+v; want %+v", got, want)
	}
}

func TestParseMapLineExecutable(t *testing.T) {
	line := "400000-452000 r-xp 00000000 08:02 173521 /usr/bin/foo"
	got, err := parseMapLine(line, "/usr/bin/foo")
	if err != nil {
		t.Fatalf("parseMapLine: %v", err)
	}
	if got.Type.Kind != memaddr.ProcessExecutable || got.Type.Path != "/usr/bin/foo" {
		t.Errorf("Type = %+v; want ProcessExecutable(/usr/bin/foo)", got.Type)
	}
	if got.Perm != memaddr.Read|memaddr.Exec {
		t.Errorf("Perm = %v; want r-x", got.Perm)
	}
}

func TestParseMapLineAnonShared(t *testing.T) {
	line := "7f0000-7f1000 rw-s 0 00:00 0 "
	got, err := parseMapLine(line, "")
	if err != nil {
		t.Fatalf("parseMapLine: %v", err)
	}
	if got.Type.Kind != memaddr.Anonymous {
		t.Errorf("Type = %+v; want Anonymous", got.Type)
	}
	if got.Perm&memaddr.Shared == 0 {
		t.Errorf("Perm = %v; want shared", got.Perm)
	}
}

func TestParseMapLineVDSO(t *testing.T) {
	line := "7ffee0000-7ffee1000 r-xp 0 00:00 0 [vdso]"
	got, err := parseMapLine(line, "")
	if err != nil {
		t.Fatalf("parseMapLine: %v", err)
	}
	if got.Type.Kind != memaddr.Unknown {
		t.Errorf("Type = %+v; want Unknown", got.Type)
	}
}

func TestParseMapLineDeleted(t *testing.T) {
	line := "400000-452000 r-xp 0 08:02 173521 /usr/bin/foo (deleted)"
	got, err := parseMapLine(line, "")
	if err != nil {
		t.Fatalf("parseMapLine: %v", err)
	}
	if got.Type.Kind != memaddr.Unknown {
		t.Errorf("Type = %+v; want Unknown", got.Type)
	}
}

func wantParseErrorKind(t *testing.T, err error, kind ParseErrorKind) {
	t.Helper()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v; want *ParseError", err)
	}
	if perr.Kind != kind {
		t.Errorf("Kind = %v; want %v", perr.Kind, kind)
	}
}

func TestParseMapLineInvalidRange(t *testing.T) {
	_, err := parseMapLine("not-a-range rw-p 0 00:00 0", "")
	wantParseErrorKind(t, err, InvalidRange)
}

func TestParseMapLineInvalidPermissions(t *testing.T) {
	_, err := parseMapLine("1f0-20f rw- 0 00:00 0", "")
	wantParseErrorKind(t, err, InvalidPermissions)
}

func TestParseMapLinePermissionChar(t *testing.T) {
	_, err := parseMapLine("1f0-20f zw-p 0 00:00 0", "")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v; want *ParseError", err)
	}
	if perr.Kind != PermissionChar || perr.Which != "read" || perr.Got != 'z' {
		t.Errorf("ParseError = %+v; want {Kind: PermissionChar, Which: read, Got: 'z'}", perr)
	}
}

func TestParseMapLineIntegerParse(t *testing.T) {
	_, err := parseMapLine("1f0-zzzz rw-p 0 00:00 0", "")
	wantParseErrorKind(t, err, IntegerParse)
}

func TestParseMapLineInvalidDevnode(t *testing.T) {
	_, err := parseMapLine("1f0-20f rw-p 0 0002 0", "")
	wantParseErrorKind(t, err, InvalidDevnode)
}

func TestParseMapLineInvalidInode(t *testing.T) {
	_, err := parseMapLine("1f0-20f rw-p 0 00:00 zz", "")
	wantParseErrorKind(t, err, InvalidInode)
}

func TestParseMapLineInvalidEntry(t *testing.T) {
	_, err := parseMapLine("1f0-20f rw-p 0", "")
	wantParseErrorKind(t, err, InvalidEntry)
}
