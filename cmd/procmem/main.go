// Copyright 2024 The authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command procmem inspects and mutates the virtual memory of another live
// process: it enumerates mapped regions, freezes the target for
// race-free reads and writes, and scans for byte patterns.
//
// Run with no arguments for the interactive REPL (see repl.go for its
// grammar), or use one of the subcommands below for a single
// non-interactive operation.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ogletools/procmem/memaddr"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "procmem",
		Short: "Inspect and mutate the memory of another live process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL()
		},
	}

	root.AddCommand(newListCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newWriteCmd())

	return root
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List processes visible on this platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			procs, err := listProcesses()
			if err != nil {
				return err
			}
			for _, p := range procs {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", p.PID, p.Name)
			}
			return nil
		},
	}
}

func withAttached(pidArg string, f func(*App) error) error {
	pid, err := strconv.Atoi(pidArg)
	if err != nil {
		return fmt.Errorf("invalid PID %q", pidArg)
	}
	a, err := Attach(pid)
	if err != nil {
		return err
	}
	defer a.Close()
	return f(a)
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info PID",
		Short: "Print a process's scannable memory regions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAttached(args[0], func(a *App) error {
				return printInfo(cmd.OutOrStdout(), a)
			})
		},
	}
}

func newScanCmd() *cobra.Command {
	var unalign, swap bool

	cmd := &cobra.Command{
		Use:   "scan PID {i16|i32|i64|f32|f64} VALUE",
		Short: "Scan a process's memory for a value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAttached(args[0], func(a *App) error {
				return scanOne(cmd.OutOrStdout(), a, args[1], args[2], !unalign, swap)
			})
		},
	}
	cmd.Flags().BoolVar(&unalign, "unalign", false, "allow matches at any offset, not just type-aligned ones")
	cmd.Flags().BoolVar(&swap, "swap", false, "match the reversed byte order of the value")
	return cmd
}

func newWriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write PID {i16|i32|i64|f32|f64} HEX-OFFSET VALUE",
		Short: "Write a value into a process's memory",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAttached(args[0], func(a *App) error {
				raw, err := strconv.ParseUint(strings.TrimPrefix(args[2], "0x"), 16, 64)
				if err != nil {
					return fmt.Errorf("invalid offset %q: %w", args[2], err)
				}
				offset, ok := memaddr.New(raw)
				if !ok {
					return fmt.Errorf("offset 0 is not a valid address")
				}
				value, err := parseValue(args[1], args[3], false)
				if err != nil {
					return err
				}
				return a.Write(offset, value)
			})
		},
	}
}
