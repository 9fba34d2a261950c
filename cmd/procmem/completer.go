// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"sort"
	"strconv"
	"strings"
)

// staticCommands is every full command line the REPL knows how to
// complete to, independent of any running process.
var staticCommands = []string{
	"reset",
	"detach",
	"attach ",
	"scan i16 ",
	"scan i32 ",
	"scan i64 ",
	"scan f32 ",
	"scan f64 ",
	"scan all ",
	"write i16 ",
	"write i32 ",
	"write i64 ",
	"write f32 ",
	"write f64 ",
	"stop",
	"continue",
	"info",
	"info pages",
	"exit",
}

// replCompleter implements readline.AutoCompleter. "attach " additionally
// completes against the PIDs of processes currently visible on the
// platform (the PID digits only, without the process name); everything
// else completes against the static command list.
type replCompleter struct{}

func (replCompleter) Do(line []rune, pos int) ([][]rune, int) {
	prefix := string(line[:pos])

	if rest, ok := strings.CutPrefix(prefix, "attach "); ok {
		return completeAttach(rest)
	}

	var out [][]rune
	for _, cmd := range staticCommands {
		if strings.HasPrefix(cmd, prefix) {
			out = append(out, []rune(cmd[len(prefix):]))
		}
	}
	return out, len(prefix)
}

// completeAttach lists every PID whose decimal representation starts
// with pidPrefix, offset so the replacement only covers what follows
// "attach ".
func completeAttach(pidPrefix string) ([][]rune, int) {
	procs, err := listProcesses()
	if err != nil {
		return nil, 0
	}
	sort.Slice(procs, func(i, j int) bool { return procs[i].PID < procs[j].PID })

	var out [][]rune
	for _, p := range procs {
		pidStr := strconv.Itoa(p.PID)
		if !strings.HasPrefix(pidStr, pidPrefix) {
			continue
		}
		out = append(out, []rune(pidStr[len(pidPrefix):]))
	}
	return out, len(pidPrefix)
}
