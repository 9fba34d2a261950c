// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package procfs

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ogletools/procmem/memaddr"
)

// ParseErrorKind classifies why one /proc/<pid>/maps line failed to parse.
type ParseErrorKind int

const (
	InvalidRange ParseErrorKind = iota
	InvalidPermissions
	InvalidOffset
	InvalidDevnode
	InvalidInode
	InvalidEntry
	IntegerParse
	PermissionChar
)

func (k ParseErrorKind) String() string {
	switch k {
	case InvalidRange:
		return "invalid range"
	case InvalidPermissions:
		return "invalid permissions"
	case InvalidOffset:
		return "invalid offset"
	case InvalidDevnode:
		return "invalid devnode"
	case InvalidInode:
		return "invalid inode"
	case InvalidEntry:
		return "invalid entry"
	case IntegerParse:
		return "integer parse"
	case PermissionChar:
		return "invalid permission character"
	default:
		return "unknown"
	}
}

// ParseError reports why parseMapLine rejected one line of
// /proc/<pid>/maps. Which and Got are only set for Kind == PermissionChar,
// naming the field ("read", "write", "exec" or "shared") and the offending
// byte.
type ParseError struct {
	Kind  ParseErrorKind
	Line  string
	Which string
	Got   byte
	Err   error
}

func (e *ParseError) Error() string {
	if e.Kind == PermissionChar {
		return fmt.Sprintf("procfs: invalid maps line %q: invalid %s permission %q", e.Line, e.Which, e.Got)
	}
	if e.Err != nil {
		return fmt.Sprintf("procfs: invalid maps line %q: %s: %s", e.Line, e.Kind, e.Err)
	}
	return fmt.Sprintf("procfs: invalid maps line %q: %s", e.Line, e.Kind)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// readMaps parses /proc/<pid>/maps into the ordered page list memaddr.NewMap
// expects.
func readMaps(pid int) ([]memaddr.Page, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	exePath, _ := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))

	var pages []memaddr.Page
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		p, err := parseMapLine(scanner.Text(), exePath)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pages, nil
}

// parseMapLine parses one line of /proc/<pid>/maps, of the form:
//
//	address           perms offset  dev   inode      pathname
//	00400000-00452000 r-xp  0000000 08:02 173521     /usr/bin/foo
func parseMapLine(line string, exePath string) (memaddr.Page, error) {
	fields := strings.SplitN(line, " ", 6)
	if len(fields) < 5 {
		return memaddr.Page{}, &ParseError{Kind: InvalidEntry, Line: line}
	}

	addrRange := strings.Split(fields[0], "-")
	if len(addrRange) != 2 {
		return memaddr.Page{}, &ParseError{Kind: InvalidRange, Line: line}
	}
	from, err := strconv.ParseUint(addrRange[0], 16, 64)
	if err != nil {
		return memaddr.Page{}, &ParseError{Kind: IntegerParse, Line: line, Err: err}
	}
	to, err := strconv.ParseUint(addrRange[1], 16, 64)
	if err != nil {
		return memaddr.Page{}, &ParseError{Kind: IntegerParse, Line: line, Err: err}
	}

	perm, err := parsePagePermissions(fields[1])
	if err != nil {
		if perr, ok := err.(*ParseError); ok {
			perr.Line = line
			return memaddr.Page{}, perr
		}
		return memaddr.Page{}, &ParseError{Kind: InvalidPermissions, Line: line, Err: err}
	}

	offset, err := strconv.ParseUint(fields[2], 16, 64)
	if err != nil {
		return memaddr.Page{}, &ParseError{Kind: IntegerParse, Line: line, Err: err}
	}

	dev := strings.SplitN(fields[3], ":", 2)
	if len(dev) != 2 {
		return memaddr.Page{}, &ParseError{Kind: InvalidDevnode, Line: line}
	}
	for _, part := range dev {
		if _, err := strconv.ParseUint(part, 16, 64); err != nil {
			return memaddr.Page{}, &ParseError{Kind: InvalidDevnode, Line: line, Err: err}
		}
	}

	if _, err := strconv.ParseUint(fields[4], 10, 64); err != nil {
		return memaddr.Page{}, &ParseError{Kind: InvalidInode, Line: line, Err: err}
	}

	var pathname string
	if len(fields) >= 6 {
		pathname = fields[5]
	}
	pageType := parsePageType(pathname, exePath)

	return memaddr.Page{
		Start:      memaddr.Offset(from),
		End:        memaddr.MustOffset(to),
		Perm:       perm,
		FileOffset: int64(offset),
		Type:       pageType,
	}, nil
}

func parsePagePermissions(s string) (memaddr.Perm, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return 0, &ParseError{Kind: InvalidPermissions}
	}
	var p memaddr.Perm
	switch s[0] {
	case 'r':
		p |= memaddr.Read
	case '-':
	default:
		return 0, &ParseError{Kind: PermissionChar, Which: "read", Got: s[0]}
	}
	switch s[1] {
	case 'w':
		p |= memaddr.Write
	case '-':
	default:
		return 0, &ParseError{Kind: PermissionChar, Which: "write", Got: s[1]}
	}
	switch s[2] {
	case 'x':
		p |= memaddr.Exec
	case '-':
	default:
		return 0, &ParseError{Kind: PermissionChar, Which: "exec", Got: s[2]}
	}
	switch s[3] {
	case 's':
		p |= memaddr.Shared
	case 'p':
	default:
		return 0, &ParseError{Kind: PermissionChar, Which: "shared", Got: s[3]}
	}
	return p, nil
}

func parsePageType(path, exePath string) memaddr.PageType {
	path = strings.TrimSpace(path)
	switch {
	case path == "[stack]":
		return memaddr.PageType{Kind: memaddr.Stack}
	case path == "[heap]":
		return memaddr.PageType{Kind: memaddr.Heap}
	case path == "":
		return memaddr.PageType{Kind: memaddr.Anonymous}
	case strings.HasPrefix(path, "[") && strings.HasSuffix(path, "]"):
		// [vvar], [vdso] and similar: not backed by a readable file.
		return memaddr.PageType{Kind: memaddr.Unknown}
	case strings.HasSuffix(path, "(deleted)"):
		return memaddr.PageType{Kind: memaddr.Unknown}
	case exePath != "" && path == exePath:
		return memaddr.PageType{Kind: memaddr.ProcessExecutable, Path: path}
	default:
		return memaddr.PageType{Kind: memaddr.File, Path: path}
	}
}
