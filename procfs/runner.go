// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

// Package procfs implements the Linux memory provider: /proc/<pid>/maps
// parsing, /proc/<pid>/mem reads and writes, and a ptrace+SIGSTOP lock.
package procfs

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// ptraceRunner serializes every ptrace call for one target process onto a
// single, dedicated OS thread. ptrace is thread-affine on Linux: only the
// thread that attached to a pid may issue further ptrace requests against
// it, so every call has to be funneled through the same goroutine.
type ptraceRunner struct {
	fc chan func() error
	ec chan error
}

func newPtraceRunner() *ptraceRunner {
	r := &ptraceRunner{
		fc: make(chan func() error),
		ec: make(chan error),
	}
	go r.run()
	return r
}

func (r *ptraceRunner) run() {
	runtime.LockOSThread()
	for f := range r.fc {
		r.ec <- f()
	}
}

func (r *ptraceRunner) do(f func() error) error {
	r.fc <- f
	return <-r.ec
}

// close stops the runner's goroutine. The runner must not be used again
// afterward.
func (r *ptraceRunner) close() {
	close(r.fc)
}

func (r *ptraceRunner) attach(pid int) error {
	return r.do(func() error {
		if err := unix.PtraceAttach(pid); err != nil {
			return err
		}
		var status unix.WaitStatus
		_, err := unix.Wait4(pid, &status, 0, nil)
		return err
	})
}

func (r *ptraceRunner) cont(pid int) error {
	return r.do(func() error { return unix.PtraceCont(pid, 0) })
}

func (r *ptraceRunner) detach(pid int) error {
	return r.do(func() error { return unix.PtraceDetach(pid) })
}

func (r *ptraceRunner) stop(pid int) error {
	return r.do(func() error {
		if err := unix.Kill(pid, unix.SIGSTOP); err != nil {
			return err
		}
		var status unix.WaitStatus
		_, err := unix.Wait4(pid, &status, 0, nil)
		return err
	})
}
