// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "run the insert-then-search benchmark",
	Long: `
Run --concurrency pairs of workers. In each pair the inserter hands every key
it has inserted to its searcher, which must find it: an insert that has
returned is visible to every later search.
`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	reg := newHistogramRegistry()
	ins := newInserter(reg)
	searches := reg.Register("search")
	budget := newOpBudget()

	var t *tree
	return runTest(workload{
		init: func(ctx context.Context, tr *tree, g *errgroup.Group) {
			t = tr
			for w := 0; w < concurrency; w++ {
				handoff := make(chan uint64)
				g.Go(func() error {
					defer close(handoff)
					for budget.next(ctx) {
						k := nextKey()
						ok, err := ins.insert(t, k, k)
						if err != nil {
							return err
						}
						if !ok {
							continue
						}
						select {
						case handoff <- k:
						case <-ctx.Done():
							return nil
						}
					}
					return nil
				})
				g.Go(func() error {
					for k := range handoff {
						start := time.Now()
						v, ok := t.Search(k)
						searches.Record(time.Since(start))
						if !ok || v != k {
							return errors.AssertionFailedf("inserted key %d not found (%d, %t)", k, v, ok)
						}
					}
					return nil
				})
			}
		},
		tick: reg.printTick,
		done: func(elapsed time.Duration) error {
			return ins.finish(reg, t, elapsed)
		},
	})
}
