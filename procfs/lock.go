// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package procfs

import "github.com/ogletools/procmem/memaccess"

// lock is the ptrace+SIGSTOP Lock for one target process. All ptrace calls
// run on the runner's dedicated thread.
type lock struct {
	runner *ptraceRunner
	state  memaccess.PtraceState
}

func newLock(pid int) *lock {
	l := &lock{runner: newPtraceRunner()}
	l.state.Attach = func() error { return l.runner.attach(pid) }
	l.state.Stop = func() error { return l.runner.stop(pid) }
	l.state.Cont = func() error { return l.runner.cont(pid) }
	l.state.Detach = func() error { return l.runner.detach(pid) }
	return l
}

func (l *lock) Lock() (bool, error) {
	return l.state.Lock()
}

func (l *lock) LockExclusive() error {
	return l.state.LockExclusive()
}

func (l *lock) Unlock() (bool, error) {
	return l.state.Unlock()
}

// Close detaches from the process and stops the dedicated ptrace thread.
func (l *lock) Close() error {
	err := l.state.Close()
	l.runner.close()
	return err
}
