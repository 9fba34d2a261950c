// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package mach

/*
#include <mach/mach.h>

// task_set_exception_ports is declared in <mach/task.h> but, like on
// Linux's ptrace, several of the constants around it aren't exposed to
// cgo as plain ints; restate the one signature this package needs.
kern_return_t task_set_exception_ports(
	task_t task,
	exception_mask_t exception_mask,
	mach_port_t new_port,
	exception_behavior_t behavior,
	thread_state_flavor_t new_flavor
);
*/
import "C"

import (
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/ogletools/procmem/memaccess"
)

// PT_ATTACHEXC and PT_DETACH from <sys/ptrace.h>, and ptrace(2)'s syscall
// number: golang.org/x/sys/unix only exposes the BSD-common ptrace
// request subset on Darwin (PT_TRACE_ME, PT_CONTINUE, ...), not these, so
// they're restated here rather than pulled in through cgo for two
// constants.
//
// ptAttachExc attaches to a process and arranges for its hard stop
// signals to arrive as Mach exception messages instead of BSD signals, so
// a handler can absorb them without the SIGTRAP/SIGSTOP races classic
// PT_ATTACH leaves exposed.
const (
	sysPtrace   = 26
	ptAttachExc = 14
	ptDetach    = 11
)

// lock is the ptrace+exception-port Lock for one target process. Like the
// Linux lock, every ptrace(2) call is funneled through one dedicated OS
// thread: ptrace is thread-affine on Darwin too.
type lock struct {
	pid    int
	runner *ptraceRunner
	port   *taskPort
	state  memaccess.PtraceState
}

func newLock(pid int, port *taskPort) *lock {
	l := &lock{pid: pid, runner: newPtraceRunner(), port: port}
	l.state.Attach = l.attach
	l.state.Stop = l.stop
	l.state.Cont = l.cont
	l.state.Detach = l.detach
	return l
}

func (l *lock) attach() error {
	return l.runner.do(func() error {
		if _, _, errno := unix.Syscall6(sysPtrace, uintptr(ptAttachExc), uintptr(l.pid), 0, 0, 0, 0); errno != 0 {
			return errno
		}
		return l.absorbExceptions()
	})
}

// absorbExceptions sets the target task's exception port for every
// exception type to MACH_PORT_NULL. No exception port is allocated and no
// exception message is received or answered.
func (l *lock) absorbExceptions() error {
	res := C.task_set_exception_ports(
		C.task_t(l.port.get()),
		C.EXC_MASK_ALL,
		C.MACH_PORT_NULL,
		C.EXCEPTION_DEFAULT,
		C.THREAD_STATE_NONE,
	)
	if res != C.KERN_SUCCESS {
		return kernReturnError(res)
	}
	return nil
}

func (l *lock) stop() error {
	return l.runner.do(func() error { return unix.Kill(l.pid, unix.SIGSTOP) })
}

func (l *lock) cont() error {
	return l.runner.do(func() error { return unix.Kill(l.pid, unix.SIGCONT) })
}

func (l *lock) detach() error {
	return l.runner.do(func() error {
		_, _, errno := unix.Syscall6(sysPtrace, uintptr(ptDetach), uintptr(l.pid), 0, 0, 0, 0)
		if errno != 0 {
			return errno
		}
		return nil
	})
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

func (l *lock) Close() error {
	err := l.state.Close()
	l.runner.close()
	return err
}

// ptraceRunner mirrors the procfs runner: one locked OS thread servicing
// every ptrace call for a given lock, since Darwin ptrace is as
// thread-affine as Linux's.
type ptraceRunner struct {
	fc chan func() error
	ec chan error
}

func newPtraceRunner() *ptraceRunner {
	r := &ptraceRunner{fc: make(chan func() error), ec: make(chan error)}
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

func (r *ptraceRunner) close() {
	close(r.fc)
}
