// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package blink

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/blink/internal/base"
)

// String returns a level-by-level dump of the tree, root first. Each node is
// printed as its keys followed by its high key, "+inf" for the rightmost node
// of a level:
//
//	level 1: [3 7 | +inf]
//	level 0: [1 2 3 | 3] [4 5 6 7 | +inf]
//
// The dump is only consistent if no Insert runs concurrently.
func (t *Tree[K, V]) String() string {
	var buf strings.Builder
	root := t.rootNode()
	for level := int(root.level); level >= 0; level-- {
		fmt.Fprintf(&buf, "level %d:", level)
		for n := t.leftmost(uint32(level)); n != nil; n = t.node(n.link) {
			buf.WriteString(" [")
			for s := n.head; s != 0; s = t.field(s).next {
				if s != n.head {
					buf.WriteByte(' ')
				}
				fmt.Fprint(&buf, t.field(s).key)
			}
			if n.bounded {
				fmt.Fprintf(&buf, " | %v]", n.highKey)
			} else {
				buf.WriteString(" | +inf]")
			}
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

// Check verifies the structural invariants of the tree and returns an error
// marked with ErrCorruption describing the first violation found. It must not
// run concurrently with Insert.
//
// The checks are:
//   - fields within a node are strictly ascending, the node's high key is its
//     largest key, and keys ascend across the right links of a level;
//   - every node but the root holds between k and 2k fields;
//   - only the last node of a level is unbounded and has no right link;
//   - the children of a level, in order, are exactly the nodes of the level
//     below, and every bounded child's high key is its separator;
//   - the number of keys in the leaves equals Size.
func (t *Tree[K, V]) Check() error {
	root := t.rootNode()
	if root.bounded || root.link != 0 {
		return base.CorruptionErrorf("blink: root node %d has a right sibling", root.id)
	}
	var children []nodeRef
	var keys int
	for level := int(root.level); level >= 0; level-- {
		var next []nodeRef
		var prevHigh K
		i := 0
		for n := t.leftmost(uint32(level)); n != nil; n = t.node(n.link) {
			if children != nil && (i >= len(children) || children[i] != n.id) {
				return base.CorruptionErrorf("blink: L%d node %d is not the child at position %d of L%d",
					level, n.id, i, level+1)
			}
			if err := t.checkNode(n, root, uint32(level)); err != nil {
				return err
			}
			if i > 0 && n.occupancy > 0 && t.cmp(t.field(n.head).key, prevHigh) <= 0 {
				return base.CorruptionErrorf("blink: L%d node %d starts at %v, below left sibling's high key %v",
					level, n.id, t.field(n.head).key, prevHigh)
			}
			prevHigh = n.highKey
			i++

			for s := n.head; s != 0; s = t.field(s).next {
				f := t.field(s)
				if level == 0 {
					keys++
					continue
				}
				c := t.node(f.child)
				if c == nil || c.level != uint32(level-1) {
					return base.CorruptionErrorf("blink: L%d node %d has a child that is not on L%d",
						level, n.id, level-1)
				}
				if c.bounded && t.cmp(f.key, c.highKey) != 0 {
					return base.CorruptionErrorf("blink: L%d node %d separator %v for node %d with high key %v",
						level, n.id, f.key, c.id, c.highKey)
				}
				if !c.bounded && (f.next != 0 || n.bounded) {
					return base.CorruptionErrorf("blink: unbounded L%d node %d is not the last child of L%d",
						c.level, c.id, level)
				}
				next = append(next, f.child)
			}
		}
		if children != nil && i != len(children) {
			return base.CorruptionErrorf("blink: L%d has %d nodes, L%d has %d children",
				level, i, level+1, len(children))
		}
		children = next
	}
	if size := t.Size(); keys != size {
		return base.CorruptionErrorf("blink: leaves hold %d keys, size is %d", keys, size)
	}
	return nil
}

func (t *Tree[K, V]) checkNode(n, root *node[K, V], level uint32) error {
	if n.level != level {
		return base.CorruptionErrorf("blink: node %d on L%d claims level %d", n.id, level, n.level)
	}
	if n.bounded == (n.link == 0) {
		return base.CorruptionErrorf("blink: L%d node %d bounded=%t with link %d",
			level, n.id, n.bounded, n.link)
	}
	if n.occupancy > t.maxFields {
		return base.CorruptionErrorf("blink: L%d node %d holds %d fields, more than %d",
			level, n.id, n.occupancy, t.maxFields)
	}
	if n != root && n.occupancy < t.opts.FanOut {
		return base.CorruptionErrorf("blink: L%d node %d holds %d fields, fewer than %d",
			level, n.id, n.occupancy, t.opts.FanOut)
	}
	if n != root || level > 0 {
		if n.occupancy < 1 {
			return base.CorruptionErrorf("blink: L%d node %d is empty", level, n.id)
		}
	}
	var count int
	var last *field[K, V]
	for s := n.head; s != 0; s = t.field(s).next {
		f := t.field(s)
		if last != nil && t.cmp(last.key, f.key) >= 0 {
			return base.CorruptionErrorf("blink: L%d node %d key %v follows %v", level, n.id, f.key, last.key)
		}
		if f.isLeafField() != (level == 0) {
			return base.CorruptionErrorf("blink: L%d node %d holds a field of the wrong kind", level, n.id)
		}
		last = f
		count++
	}
	if count != n.occupancy {
		return base.CorruptionErrorf("blink: L%d node %d occupancy %d, chain holds %d",
			level, n.id, n.occupancy, count)
	}
	if last != nil && t.cmp(last.key, n.highKey) != 0 {
		return base.CorruptionErrorf("blink: L%d node %d high key %v, largest key %v",
			level, n.id, n.highKey, last.key)
	}
	return nil
}
