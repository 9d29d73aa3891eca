// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Command blink runs concurrent workloads against an in-memory B-link tree
// and reports throughput and latency.
package main

import (
	"log"
	"os"
	"time"

	"github.com/cockroachdb/blink/internal/randvar"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	duration     time.Duration
	numOps       uint64
	fanOut       int
	keys         = randvar.NewFlag("uniform:1-15000")
	scramble     bool
	maxOpsPerSec float64
	verify       bool
	plot         bool
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "blink [command] (flags)",
	Short: "B-link tree benchmarking tool",
	Long: `
Run a workload against an in-memory B-link tree.

The --keys flag takes the specification of a random variable:
[<type>:]<min>[-<max>]. The <type> parameter must be one of "uniform", "zipf"
or "seq". If <type> is omitted, a uniform distribution is used. If <max> is
omitted it is set to the same value as <min>.
`,
	SilenceUsage: true,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		insertCmd,
		mixedCmd,
		syncCmd,
	)

	for _, cmd := range []*cobra.Command{insertCmd, mixedCmd, syncCmd} {
		cmd.Flags().IntVarP(
			&concurrency, "concurrency", "c", 4, "number of concurrent workers")
		cmd.Flags().DurationVarP(
			&duration, "duration", "d", 10*time.Second, "the duration to run (0, run forever)")
		cmd.Flags().Uint64VarP(
			&numOps, "num-ops", "n", 0, "maximum number of operations (0 means unlimited)")
		cmd.Flags().IntVarP(
			&fanOut, "fan-out", "k", 64, "tree fan-out factor; nodes hold at most 2k fields")
		cmd.Flags().Var(
			keys, "keys", "key distribution [{zipf,uniform,seq}:]min[-max]")
		cmd.Flags().BoolVar(
			&scramble, "scramble", false, "hash keys to spread them over the key space")
		cmd.Flags().Float64Var(
			&maxOpsPerSec, "max-ops-per-sec", 0, "rate limit in operations per second (0, unlimited)")
		cmd.Flags().BoolVar(
			&verify, "verify", false, "verify the tree against a shadow key set at the end")
		cmd.Flags().BoolVar(
			&plot, "plot", false, "plot throughput over time at the end")
		cmd.Flags().BoolVarP(
			&verbose, "verbose", "v", false, "enable verbose event logging")
	}

	mixedCmd.Flags().IntVar(
		&mixedReadPercent, "read-percent", 90, "percent (0-100) of operations that are searches")
	mixedCmd.Flags().IntVar(
		&mixedPreload, "preload", 0, "number of keys to insert sequentially before the workers start")

	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(1)
	}
}
