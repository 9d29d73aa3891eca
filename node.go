// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package blink

import (
	"github.com/cockroachdb/blink/internal/arena"
	"github.com/cockroachdb/blink/internal/invariants"
	"github.com/cockroachdb/blink/internal/latch"
	"github.com/cockroachdb/errors"
)

// nodeRef and fieldRef address nodes and fields in the tree's arenas. The
// zero value is nil.
type (
	nodeRef  = arena.Index
	fieldRef = arena.Index
)

// field is a single slot in a node's chain. Leaf fields carry a value,
// internal fields a child. A field is never modified after it has been
// spliced into a chain, except for next, which only the holder of the owning
// node's latch may write.
type field[K, V any] struct {
	key   K
	child nodeRef
	value V
	next  fieldRef
}

// isLeafField reports whether the field carries a value rather than a child.
func (f *field[K, V]) isLeafField() bool { return f.child == 0 }

// node is a B-link tree node: an ordered chain of fields plus a right link
// to its sibling on the same level.
//
// Every mutable member is protected by latch: it is written only by the
// latch holder, and read either by the latch holder or from inside
// latch.Read.
type node[K, V any] struct {
	latch latch.Latch

	// Immutable once the node is published.
	id    nodeRef
	level uint32

	// highKey bounds the keys reachable through the node if bounded is set.
	// Only the rightmost node of a level is unbounded; its highKey tracks the
	// largest key it has held.
	highKey   K
	bounded   bool
	link      nodeRef
	head      fieldRef
	occupancy int
}

// status is the result of inserting into a node.
type status int8

const (
	safe status = iota
	overflow
)

func (s status) String() string {
	if s == overflow {
		return "overflow"
	}
	return "safe"
}

// step tags the edge a traversal took out of a node.
type step int8

const (
	// stepDescend is a genuine parent->child edge.
	stepDescend step = iota
	// stepMoveRight is a hop along a right link on the same level.
	stepMoveRight
)

func (s step) String() string {
	if s == stepMoveRight {
		return "move-right"
	}
	return "descend"
}

func (n *node[K, V]) isLeaf() bool { return n.level == 0 }

// covers reports whether key falls inside the node's range, i.e. whether a
// traversal for key may stop moving right at this node.
func (n *node[K, V]) covers(t *Tree[K, V], key K) bool {
	return !n.bounded || t.cmp(key, n.highKey) <= 0
}

// isLinkOf returns true if candidate's right link is n.
func (n *node[K, V]) isLinkOf(candidate *node[K, V]) bool {
	return candidate.link == n.id
}

// findSlot returns the first field whose key is >= key, or 0 if there is
// none, along with the field preceding it (0 if slot is the head). When slot
// is 0, prev is the last field of the chain.
func (n *node[K, V]) findSlot(t *Tree[K, V], key K) (prev, slot fieldRef) {
	for slot = n.head; slot != 0; {
		f := t.field(slot)
		if t.cmp(f.key, key) >= 0 {
			return prev, slot
		}
		prev, slot = slot, f.next
	}
	return prev, 0
}

// has returns true if the node holds exactly key.
func (n *node[K, V]) has(t *Tree[K, V], key K) bool {
	_, slot := n.findSlot(t, key)
	return slot != 0 && t.cmp(t.field(slot).key, key) == 0
}

// find returns the value stored under key in a leaf.
func (n *node[K, V]) find(t *Tree[K, V], key K) (V, bool) {
	if _, slot := n.findSlot(t, key); slot != 0 {
		if f := t.field(slot); t.cmp(f.key, key) == 0 {
			return f.value, true
		}
	}
	var zero V
	return zero, false
}

// scanChild picks the next node a traversal for key must visit from an
// internal node: the right sibling if key lies beyond the node's range, the
// covering child otherwise.
func (n *node[K, V]) scanChild(t *Tree[K, V], key K) (nodeRef, step) {
	if !n.covers(t, key) {
		return n.link, stepMoveRight
	}
	prev, slot := n.findSlot(t, key)
	if slot == 0 {
		// Only an unbounded node can hold no separator >= key; its last child
		// is unbounded too.
		slot = prev
	}
	return t.field(slot).child, stepDescend
}

// splice links a new field into the chain after prev (or at the head).
func (n *node[K, V]) splice(t *Tree[K, V], prev, id fieldRef) {
	if prev == 0 {
		n.head = id
	} else {
		t.field(prev).next = id
	}
}

func (n *node[K, V]) grow(t *Tree[K, V], key K) status {
	if n.occupancy == 0 || t.cmp(key, n.highKey) > 0 {
		n.highKey = key
	}
	n.occupancy++
	if invariants.Enabled {
		n.checkOrder(t)
	}
	if n.occupancy > t.maxFields {
		return overflow
	}
	return safe
}

// insertValue adds key/value to a leaf. The caller must hold the latch and
// must have checked that key is absent.
func (n *node[K, V]) insertValue(t *Tree[K, V], key K, value V) (status, error) {
	prev, slot := n.findSlot(t, key)
	id, f, err := t.fields.Alloc()
	if err != nil {
		return safe, err
	}
	f.key, f.value, f.next = key, value, slot
	n.splice(t, prev, id)
	return n.grow(t, key), nil
}

// insertChild adds a separator for child to an internal node. The caller
// must hold the latch, or be the only goroutine that can reach n.
func (n *node[K, V]) insertChild(t *Tree[K, V], key K, child nodeRef) (status, error) {
	prev, slot := n.findSlot(t, key)
	id, f, err := t.fields.Alloc()
	if err != nil {
		return safe, err
	}
	f.key, f.child, f.next = key, child, slot
	n.splice(t, prev, id)
	return n.grow(t, key), nil
}

// split moves the upper half of n's fields to a new right sibling and
// returns it. n keeps floor(occupancy/2) fields and becomes bounded by its
// last retained key; the sibling inherits n's old bound and right link. The
// sibling is only reachable through n.link, so it is safe to publish while n
// stays latched.
func (n *node[K, V]) split(t *Tree[K, V]) (*node[K, V], error) {
	id, r, err := t.nodes.Alloc()
	if err != nil {
		return nil, err
	}
	keep := n.occupancy / 2
	last := n.head
	for i := 1; i < keep; i++ {
		last = t.field(last).next
	}
	lf := t.field(last)

	r.id = id
	r.level = n.level
	r.head = lf.next
	r.occupancy = n.occupancy - keep
	r.highKey, r.bounded, r.link = n.highKey, n.bounded, n.link

	lf.next = 0
	n.occupancy = keep
	n.highKey, n.bounded, n.link = lf.key, true, id
	return r, nil
}

// placeSeparator records in the internal node n that its child left has
// split into left and right. The entry pointing at left is replaced by
// (left.highKey, left) followed by (right.highKey, right). The caller holds
// the latches of n and left; right is not yet reachable from n.
func (n *node[K, V]) placeSeparator(t *Tree[K, V], left, right *node[K, V]) (status, error) {
	var prev fieldRef
	slot := n.head
	for slot != 0 && t.field(slot).child != left.id {
		prev, slot = slot, t.field(slot).next
	}
	if slot == 0 {
		return safe, errors.AssertionFailedf("blink: L%d node %d has no entry for child %d",
			n.level, n.id, left.id)
	}
	old := t.field(slot)

	rid, rf, err := t.fields.Alloc()
	if err != nil {
		return safe, err
	}
	lid, lf, err := t.fields.Alloc()
	if err != nil {
		return safe, err
	}
	rf.key, rf.child, rf.next = right.highKey, right.id, old.next
	lf.key, lf.child, lf.next = left.highKey, left.id, rid
	n.splice(t, prev, lid)
	return n.grow(t, right.highKey), nil
}

// checkOrder panics if the node's fields are not strictly ascending or the
// occupancy is out of sync with the chain.
func (n *node[K, V]) checkOrder(t *Tree[K, V]) {
	var count int
	var prev *field[K, V]
	for s := n.head; s != 0; s = t.field(s).next {
		f := t.field(s)
		if prev != nil && t.cmp(prev.key, f.key) >= 0 {
			panic(errors.AssertionFailedf("blink: L%d node %d fields out of order", n.level, n.id))
		}
		prev = f
		count++
	}
	if count != n.occupancy {
		panic(errors.AssertionFailedf("blink: L%d node %d occupancy %d, chain holds %d",
			n.level, n.id, n.occupancy, count))
	}
}
