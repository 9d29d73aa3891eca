// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/blink"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var insertCmd = &cobra.Command{
	Use:   "insert",
	Short: "run the concurrent insert benchmark",
	Long: `
Insert keys drawn from the --keys distribution from --concurrency workers.
Inserts of keys that are already present are counted separately as
duplicates.
`,
	Args: cobra.NoArgs,
	RunE: runInsert,
}

// inserter performs inserts and records their latency, separating accepted
// inserts from duplicates.
type inserter struct {
	inserts    *namedHistogram
	duplicates *namedHistogram
	shadow     *keySet
}

func newInserter(reg *histogramRegistry) *inserter {
	i := &inserter{
		inserts:    reg.Register("insert"),
		duplicates: reg.Register("duplicate"),
	}
	if verify {
		i.shadow = newKeySet()
	}
	return i
}

func (i *inserter) insert(t *tree, key, value uint64) (bool, error) {
	start := time.Now()
	err := t.Insert(key, value)
	switch {
	case err == nil:
		i.inserts.Record(time.Since(start))
		if i.shadow != nil && !i.shadow.add(key, value) {
			return false, errors.AssertionFailedf("key %d accepted twice", key)
		}
		return true, nil
	case errors.Is(err, blink.ErrDuplicateKey):
		i.duplicates.Record(time.Since(start))
		return false, nil
	default:
		return false, err
	}
}

// finish prints the summary of a run and verifies the tree if --verify was
// given.
func (i *inserter) finish(reg *histogramRegistry, t *tree, elapsed time.Duration) error {
	fmt.Println()
	reg.printSummary(elapsed)
	if plot {
		fmt.Printf("\n%s\n", reg.plotThroughput())
	}
	if i.shadow == nil {
		return nil
	}
	return errors.Wrap(verifyTree(t, i.shadow), "verification failed")
}

func runInsert(cmd *cobra.Command, args []string) error {
	reg := newHistogramRegistry()
	ins := newInserter(reg)
	budget := newOpBudget()

	var t *tree
	return runTest(workload{
		init: func(ctx context.Context, tr *tree, g *errgroup.Group) {
			t = tr
			for w := 0; w < concurrency; w++ {
				g.Go(func() error {
					for budget.next(ctx) {
						k := nextKey()
						if _, err := ins.insert(t, k, k); err != nil {
							return err
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
