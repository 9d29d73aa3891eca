// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package blink

import (
	"runtime"

	"github.com/cockroachdb/blink/internal/invariants"
	"github.com/cockroachdb/errors"
)

// pathStep is one edge recorded while descending: the internal node that was
// read and whether the traversal went down to a child or right to a sibling.
type pathStep[K, V any] struct {
	n    *node[K, V]
	step step
}

// path is the sequence of internal nodes visited on the way to a leaf, root
// first. Only stepDescend entries are ancestors; stepMoveRight entries are
// nodes that turned out not to cover the key.
type path[K, V any] struct {
	buf   [8]pathStep[K, V]
	steps []pathStep[K, V]
}

func (p *path[K, V]) reset() {
	p.steps = p.buf[:0]
}

func (p *path[K, V]) push(n *node[K, V], s step) {
	if p.steps == nil {
		p.reset()
	}
	p.steps = append(p.steps, pathStep[K, V]{n: n, step: s})
}

// ancestor returns the node at level that the traversal descended through,
// or nil if the traversal never visited that level (because the tree has
// grown taller since).
func (p *path[K, V]) ancestor(level uint32) *node[K, V] {
	for i := len(p.steps) - 1; i >= 0; i-- {
		s := p.steps[i]
		if s.n.level == level && s.step == stepDescend {
			return s.n
		}
		if s.n.level > level {
			break
		}
	}
	return nil
}

// descend walks from the root down to the leaf that covered key at the time
// it was read, without holding any latch between nodes. If p is non-nil the
// internal nodes visited are appended to it.
func (t *Tree[K, V]) descend(key K, p *path[K, V]) *node[K, V] {
	return t.descendToLevel(key, 0, p)
}

// descendToLevel is like descend but stops at the first node on level. The
// tree must be at least level+1 levels tall.
func (t *Tree[K, V]) descendToLevel(key K, level uint32, p *path[K, V]) *node[K, V] {
	n := t.rootNode()
	for n.level > level {
		var next nodeRef
		var s step
		t.read(n, func() {
			next, s = n.scanChild(t, key)
		})
		if p != nil {
			p.push(n, s)
		}
		if s == stepMoveRight {
			t.metrics.moveRights.Add(1)
		}
		if invariants.Sometimes(5) {
			// Widen the window in which a concurrent split can leave us on a
			// node that no longer covers key.
			runtime.Gosched()
		}
		n = t.node(next)
	}
	return n
}

// latchCovering acquires the latch of the node on n's level that covers key,
// starting at n and following right links. A latch is released before the
// next one on the same level is acquired, so at most one latch is held on a
// level. Returns the latched node.
func (t *Tree[K, V]) latchCovering(n *node[K, V], key K) *node[K, V] {
	t.acquire(n)
	for !n.covers(t, key) {
		next := t.node(n.link)
		t.release(n)
		t.metrics.moveRights.Add(1)
		n = next
		t.acquire(n)
	}
	return n
}

// latchParent acquires the latch of the node one level above left that holds
// the entry for left, which has just split off right. The caller holds the
// latch on left, which keeps right unreachable to everyone else and so keeps
// right.highKey stable.
func (t *Tree[K, V]) latchParent(p *path[K, V], left, right *node[K, V]) (*node[K, V], error) {
	level := left.level + 1
	start := p.ancestor(level)
	if start == nil {
		// The tree grew above the level the traversal started at. Any node on
		// the parent level to the left of the true parent is a valid start.
		start = t.descendToLevel(right.highKey, level, nil)
	}
	parent := t.latchCovering(start, right.highKey)
	if parent.level != level {
		t.release(parent)
		return nil, errors.AssertionFailedf("blink: parent of L%d node %d found on L%d",
			left.level, left.id, parent.level)
	}
	return parent, nil
}
