// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package blink

import (
	"sync/atomic"

	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/redact"
)

// Metrics holds metrics for various subsystems of the tree. It is a point in
// time snapshot; counters are cumulative since the tree was created.
type Metrics struct {
	// Size is the number of keys stored in the tree.
	Size int
	// Height is the number of levels in the tree, including the leaf level.
	Height int
	// Nodes is the number of nodes allocated.
	Nodes int

	Inserts struct {
		// Count is the number of successful inserts.
		Count uint64
		// Duplicates is the number of inserts rejected with ErrDuplicateKey.
		Duplicates uint64
	}
	// Searches is the number of point lookups (Search and HasKey).
	Searches uint64

	Splits struct {
		// Leaf and Internal count node splits by node kind.
		Leaf     uint64
		Internal uint64
		// RootGrowths is the number of times a new root was installed.
		RootGrowths uint64
	}

	// MoveRights is the number of times a traversal followed a right link
	// because a concurrent split moved its key to a new sibling.
	MoveRights uint64
	// LatchWaits is the number of latch operations that had to block.
	LatchWaits uint64
}

func (m *Metrics) String() string {
	return redact.StringWithoutMarkers(m)
}

// SafeFormat implements redact.SafeFormatter.
func (m *Metrics) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("size: %s  height: %d  nodes: %s\n",
		crhumanize.Count(uint64(m.Size), crhumanize.Compact),
		redact.Safe(m.Height),
		crhumanize.Count(uint64(m.Nodes), crhumanize.Compact))
	w.Printf("inserts: %s  duplicates: %s  searches: %s\n",
		crhumanize.Count(m.Inserts.Count, crhumanize.Compact),
		crhumanize.Count(m.Inserts.Duplicates, crhumanize.Compact),
		crhumanize.Count(m.Searches, crhumanize.Compact))
	w.Printf("splits: leaf %s  internal %s  root %s\n",
		crhumanize.Count(m.Splits.Leaf, crhumanize.Compact),
		crhumanize.Count(m.Splits.Internal, crhumanize.Compact),
		crhumanize.Count(m.Splits.RootGrowths, crhumanize.Compact))
	w.Printf("move-rights: %s  latch-waits: %s\n",
		crhumanize.Count(m.MoveRights, crhumanize.Compact),
		crhumanize.Count(m.LatchWaits, crhumanize.Compact))
}

// treeMetrics are the live counters behind Metrics.
type treeMetrics struct {
	inserts     atomic.Uint64
	duplicates  atomic.Uint64
	searches    atomic.Uint64
	leafSplits  atomic.Uint64
	innerSplits atomic.Uint64
	rootGrowths atomic.Uint64
	moveRights  atomic.Uint64
	latchWaits  atomic.Uint64
}
