// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"context"
	"time"

	"github.com/cockroachdb/blink/internal/randvar"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	mixedReadPercent int
	mixedPreload     int
)

var mixedCmd = &cobra.Command{
	Use:   "mixed",
	Short: "run a mix of searches and inserts",
	Long: `
Run a mix of searches and inserts from --concurrency workers. The
--read-percent flag sets the share of searches. Searched keys are drawn from
the same distribution as inserted keys, so a search may miss.

With --preload, that many keys are inserted from a single goroutine before
the workers start, so a read-heavy mix searches a populated tree.
`,
	Args: cobra.NoArgs,
	RunE: runMixed,
}

func runMixed(cmd *cobra.Command, args []string) error {
	if mixedReadPercent < 0 || mixedReadPercent > 100 {
		return errors.Newf("--read-percent %d must be in [0, 100]", mixedReadPercent)
	}
	reg := newHistogramRegistry()
	ins := newInserter(reg)
	hits := reg.Register("search")
	misses := reg.Register("miss")
	budget := newOpBudget()

	var t *tree
	return runTest(workload{
		init: func(ctx context.Context, tr *tree, g *errgroup.Group) {
			t = tr
			g.Go(func() error {
				if err := preload(ctx, ins, t, mixedPreload); err != nil {
					return err
				}
				for w := 0; w < concurrency; w++ {
					g.Go(func() error {
						rng := randvar.NewRand()
						for budget.next(ctx) {
							k := nextKey()
							if rng.Intn(100) >= mixedReadPercent {
								if _, err := ins.insert(t, k, k); err != nil {
									return err
								}
								continue
							}
							start := time.Now()
							v, ok := t.Search(k)
							if !ok {
								misses.Record(time.Since(start))
								continue
							}
							hits.Record(time.Since(start))
							if v != k {
								return errors.AssertionFailedf("key %d: found value %d", k, v)
							}
						}
						return nil
					})
				}
				return nil
			})
		},
		tick: reg.printTick,
		done: func(elapsed time.Duration) error {
			return ins.finish(reg, t, elapsed)
		},
	})
}

// preload inserts n keys drawn from --keys, one at a time. Duplicates count
// towards n. It stops early, without error, once ctx is done.
func preload(ctx context.Context, ins *inserter, t *tree, n int) error {
	for i := 0; i < n && ctx.Err() == nil; i++ {
		k := nextKey()
		if _, err := ins.insert(t, k, k); err != nil {
			return err
		}
	}
	return nil
}
