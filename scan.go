// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package blink

import "iter"

// Scan calls fn for every key >= start in ascending order, stopping early if
// fn returns false.
//
// Scan copies one leaf at a time and calls fn without holding any latch, so
// fn may call back into the tree. The scan is not a snapshot: keys inserted
// concurrently may or may not be visited, but no key is visited twice and
// every key present for the whole duration of the scan is visited.
func (t *Tree[K, V]) Scan(start K, fn func(key K, value V) bool) {
	t.scan(t.descend(start, nil), &start, fn)
}

// All returns an iterator over all key/value pairs in ascending key order,
// with the same consistency guarantees as Scan.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		t.scan(t.leftmost(0), nil, yield)
	}
}

// scan walks the leaf level from n, visiting keys >= *start (every key if
// start is nil).
func (t *Tree[K, V]) scan(n *node[K, V], start *K, fn func(K, V) bool) {
	var buf []field[K, V]
	var last K
	var emitted bool
	for n != nil {
		var link nodeRef
		buf = buf[:0]
		t.read(n, func() {
			link = n.link
			for s := n.head; s != 0; {
				f := t.field(s)
				s = f.next
				if start != nil && t.cmp(f.key, *start) < 0 {
					continue
				}
				// A concurrent split may have copied keys we already visited
				// into n.
				if emitted && t.cmp(f.key, last) <= 0 {
					continue
				}
				buf = append(buf, field[K, V]{key: f.key, value: f.value})
			}
		})
		for i := range buf {
			if !fn(buf[i].key, buf[i].value) {
				return
			}
			last, emitted = buf[i].key, true
		}
		n = t.node(link)
	}
}

// leftmost returns the first node on level, found by following head fields
// down from the root.
func (t *Tree[K, V]) leftmost(level uint32) *node[K, V] {
	n := t.rootNode()
	for n.level > level {
		var next nodeRef
		t.read(n, func() {
			next = t.field(n.head).child
		})
		n = t.node(next)
	}
	return n
}
