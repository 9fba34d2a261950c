// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package mach

import (
	"github.com/ogletools/procmem/memaccess"
	"github.com/ogletools/procmem/memaddr"
	"github.com/ogletools/procmem/memprovider"
)

// Provider is the macOS memprovider.Provider, backed by the Mach VM API.
type Provider struct {
	pid    int
	access *access
	lock   *lock
	m      *memaddr.Map
}

// New opens a provider for pid. Both the access and lock task ports are
// acquired eagerly since task_for_pid is the privileged call most likely
// to fail, and failing fast here is more useful than failing on first
// Lock.
func New(pid int) (*Provider, error) {
	a, err := openAccess(pid)
	if err != nil {
		return nil, err
	}
	lockPort, err := newTaskPort(pid)
	if err != nil {
		a.Close()
		return nil, err
	}

	p := &Provider{
		pid:    pid,
		access: a,
		lock:   newLock(pid, lockPort),
	}
	if err := p.Refresh(); err != nil {
		a.Close()
		lockPort.close()
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
