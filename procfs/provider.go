// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package procfs

import (
	"github.com/ogletools/procmem/memaccess"
	"github.com/ogletools/procmem/memaddr"
	"github.com/ogletools/procmem/memprovider"
)

// Provider is the Linux memprovider.Provider, backed by /proc/<pid>.
type Provider struct {
	pid    int
	access *access
	lock   *lock
	m      *memaddr.Map
}

// New opens a provider for pid. It does not attach ptrace; that happens
// lazily on the first Lock call.
func New(pid int) (*Provider, error) {
	a, err := openAccess(pid)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		pid:    pid,
		access: a,
		lock:   newLock(pid),
	}
	if err := p.Refresh(); err != nil {
		a.Close()
		return nil, err
	}
	return p, nil
}

func (p *Provider) PID() int {
	return p.pid
}

func (p *Provider) Map() *memaddr.Map {
	return p.m
}

func (p *Provider) Refresh() error {
	pages, err := readMaps(p.pid)
	if err != nil {
		return &memaccess.PlatformError{Op: "read maps", Err: err}
	}
	m, err := memaddr.NewMap(pages)
	if err != nil {
		return err
	}
	p.m = m
	return nil
}

func (p *Provider) Lock() memaccess.Lock {
	return p.lock
}

func (p *Provider) Access() memaccess.Access {
	return p.access
}

func (p *Provider) Close() error {
	lockErr := p.lock.Close()
	accessErr := p.access.Close()
	if lockErr != nil {
		return lockErr
	}
	return accessErr
}

var _ memprovider.Provider = (*Provider)(nil)
