// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/ogletools/procmem/memaddr"
)

// runREPL drives the interactive session: one attached process at a
// time, read from stdin one line at a time until `exit`, EOF or an
// interrupt.
func runREPL() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		AutoComplete:    replCompleter{},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("starting line editor: %w", err)
	}
	defer rl.Close()

	var app *App
	defer func() {
		if app != nil {
			app.Close()
		}
	}()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading line: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		if err := dispatch(rl, &app, line); err != nil {
			fmt.Fprintln(rl.Stderr(), err)
		}
	}
}

func dispatch(rl *readline.Instance, app **App, line string) error {
	out := rl.Stdout()

	switch {
	case strings.HasPrefix(line, "attach "):
		if *app != nil {
			fmt.Fprintln(out, "Already attached, use `detach` first")
			return nil
		}
		pidStr := strings.TrimSpace(strings.TrimPrefix(line, "attach "))
		pid, err := strconv.Atoi(pidStr)
		if err != nil {
			fmt.Fprintln(out, "Invalid PID")
			return nil
		}
		a, err := Attach(pid)
		if err != nil {
			return err
		}
		*app = a
		return nil

	case line == "detach":
		if *app == nil {
			fmt.Fprintln(out, "Not attached, cannot detach")
			return nil
		}
		err := (*app).Close()
		*app = nil
		return err

	case line == "stop":
		return withApp(*app, out, func(a *App) error { return a.Lock() })

	case line == "continue":
		return withApp(*app, out, func(a *App) error { return a.Unlock() })

	case line == "reset":
		return withApp(*app, out, func(a *App) error { a.Reset(); return nil })

	case line == "info":
		return withApp(*app, out, func(a *App) error { return printInfo(out, a) })

	case line == "info pages":
		return withApp(*app, out, func(a *App) error { return printPages(out, a) })

	case strings.HasPrefix(line, "scan "):
		return withApp(*app, out, func(a *App) error { return runScan(out, a, line) })

	case strings.HasPrefix(line, "write "):
		return withApp(*app, out, func(a *App) error { return runWrite(out, a, line) })

	default:
		fmt.Fprintf(out, "Unknown command %q\n", line)
		return nil
	}
}

func withApp(app *App, out io.Writer, f func(*App) error) error {
	if app == nil {
		fmt.Fprintln(out, "Not attached, use `attach PID` first")
		return nil
	}
	return f(app)
}

func printInfo(out io.Writer, a *App) error {
	info, err := a.ProcessInfo()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "PID: %d\n", info.PID)
	fmt.Fprintf(out, "Name: %s\n", info.Name)
	fmt.Fprintln(out, "Pages:")
	for _, e := range a.Pages() {
		if e.Selected {
			fmt.Fprintf(out, "\t%s\n", e.Page)
		}
	}
	fmt.Fprintf(out, "Locked: %t\n", a.IsLocked())
	return nil
}

func printPages(out io.Writer, a *App) error {
	fmt.Fprintln(out, "Pages:")
	for _, e := range a.Pages() {
		mark := " "
		if e.Selected {
			mark = "x"
		}
		fmt.Fprintf(out, "\t[%s] %s\n", mark, e.Page)
	}
	return nil
}

func runScan(out io.Writer, a *App, line string) error {
	args := strings.Fields(line)[1:]
	if len(args) < 2 {
		return errors.New("scan type and value are required")
	}
	typ, valueStr, flags := args[0], args[1], args[2:]

	aligned := true
	swap := false
	for _, f := range flags {
		switch f {
		case "unalign":
			aligned = false
		case "swap":
			swap = true
		default:
			return fmt.Errorf("invalid scan flag %q", f)
		}
	}

	if typ == "all" {
		for _, t := range scanTypes {
			if err := scanOne(out, a, t, valueStr, aligned, swap); err != nil {
				fmt.Fprintf(out, "Skipping scan: %s\n", err)
			}
			a.Reset()
		}
		return nil
	}
	return scanOne(out, a, typ, valueStr, aligned, swap)
}

func scanOne(out io.Writer, a *App, typ, valueStr string, aligned, swap bool) error {
	fmt.Fprintf(out, "Scanning as %s (align: %t, swap: %t)...\n", typ, aligned, swap)

	value, err := parseValue(typ, valueStr, swap)
	if err != nil {
		return err
	}

	result, err := a.Scan(value, aligned)
	if err != nil {
		return err
	}

	switch result.Kind {
	case ScanZero:
		fmt.Fprintln(out, "No matches")
	case ScanOne:
		fmt.Fprintf(out, "One match: 0x%s\n", result.Offsets[0])
	case ScanFew:
		fmt.Fprintf(out, "%d matches: %s\n", len(result.Offsets), formatOffsets(result.Offsets))
	case ScanMany:
		fmt.Fprintf(out, "%d matches\n", result.Count)
	}
	return nil
}

func formatOffsets(offsets []memaddr.Offset) string {
	parts := make([]string, len(offsets))
	for i, o := range offsets {
		parts[i] = "0x" + o.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func runWrite(out io.Writer, a *App, line string) error {
	args := strings.Fields(line)[1:]
	if len(args) < 3 {
		return errors.New("write type, offset and value are required")
	}
	typ, offsetStr, valueStr := args[0], args[1], args[2]

	raw, err := strconv.ParseUint(offsetStr, 16, 64)
	if err != nil {
		return fmt.Errorf("invalid offset %q: %w", offsetStr, err)
	}
	offset, ok := memaddr.New(raw)
	if !ok {
		return errors.New("offset 0 is not a valid address")
	}

	value, err := parseValue(typ, valueStr, false)
	if err != nil {
		return fmt.Errorf("skipping write: %w", err)
	}

	return a.Write(offset, value)
}
