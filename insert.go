// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package blink

import (
	"github.com/cockroachdb/blink/internal/invariants"
	"github.com/cockroachdb/errors"
)

// Insert adds key with value to the tree. If key is already present the tree
// is left unchanged and ErrDuplicateKey is returned.
//
// The leaf is located without latches, then latched and, if a concurrent
// split moved key's range to the right, abandoned for its right sibling. A
// leaf that overflows is split and the split is propagated upwards, holding
// the latch of the node that split while the parent's latch is acquired. No
// more than two latches are ever held.
//
// Any other error is returned only after key has been stored in its leaf and
// counted by Size: the leaf could not be split, or the split could not be
// recorded in the parent. The key stays reachable through the leaf's right
// link, but the tree may no longer satisfy Check.
func (t *Tree[K, V]) Insert(key K, value V) error {
	var p path[K, V]
	n := t.latchCovering(t.descend(key, &p), key)
	if n.has(t, key) {
		t.release(n)
		t.metrics.duplicates.Add(1)
		t.opts.EventListener.DuplicateKey(DuplicateKeyInfo{Key: key})
		return ErrDuplicateKey
	}
	st, err := n.insertValue(t, key, value)
	if err != nil {
		t.release(n)
		return errors.Wrap(err, "blink: insert")
	}
	t.size.Add(1)
	t.metrics.inserts.Add(1)

	for st == overflow {
		right, err := n.split(t)
		if err != nil {
			t.release(n)
			return errors.Wrapf(err, "blink: splitting L%d node", errors.Safe(n.level))
		}
		if invariants.Enabled && !right.isLinkOf(n) {
			t.release(n)
			return errors.AssertionFailedf("blink: L%d node %d split off node %d without linking it",
				n.level, n.id, right.id)
		}
		isRoot := t.root.Load() == uint32(n.id)
		if n.isLeaf() {
			t.metrics.leafSplits.Add(1)
		} else {
			t.metrics.innerSplits.Add(1)
		}
		t.opts.EventListener.NodeSplit(SplitInfo{
			Level: int(n.level),
			Left:  n.occupancy,
			Right: right.occupancy,
			Root:  isRoot,
		})

		if isRoot {
			// Only the holder of the root's latch can replace the root, so the
			// check above cannot go stale.
			err := t.growRoot(n, right)
			t.release(n)
			return err
		}

		parent, err := t.latchParent(&p, n, right)
		if err != nil {
			t.release(n)
			return err
		}
		st, err = parent.placeSeparator(t, n, right)
		t.release(n)
		if err != nil {
			t.release(parent)
			return err
		}
		n = parent
	}
	t.release(n)
	return nil
}

// growRoot installs a new root above the old root left, which has just split
// off right. The caller holds left's latch.
func (t *Tree[K, V]) growRoot(left, right *node[K, V]) error {
	t.noteLatchWait(t.rootLatch.Acquire())
	defer t.rootLatch.Release()

	if id := nodeRef(t.root.Load()); id != left.id {
		return errors.AssertionFailedf("blink: root is node %d, not L%d node %d", id, left.level, left.id)
	}
	id, r, err := t.nodes.Alloc()
	if err != nil {
		return errors.Wrap(err, "blink: growing root")
	}
	r.id = id
	r.level = left.level + 1
	// r is unreachable until it is stored below, so it is filled in without
	// taking its latch.
	if _, err := r.insertChild(t, left.highKey, left.id); err != nil {
		return err
	}
	if _, err := r.insertChild(t, right.highKey, right.id); err != nil {
		return err
	}
	t.root.Store(uint32(id))
	t.metrics.rootGrowths.Add(1)
	t.opts.EventListener.RootGrowth(RootGrowthInfo{Height: int(r.level) + 1})
	return nil
}
