// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package blink

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func nodeKeys(t *Tree[int, int], n *node[int, int]) []int {
	var keys []int
	for s := n.head; s != 0; s = t.field(s).next {
		keys = append(keys, t.field(s).key)
	}
	return keys
}

func newTestNode(t *testing.T, tr *Tree[int, int], level uint32) *node[int, int] {
	id, n, err := tr.nodes.Alloc()
	require.NoError(t, err)
	n.id, n.level = id, level
	return n
}

func TestNodeInsertValue(t *testing.T) {
	tr := newTestTree(t, 2)
	n := newTestNode(t, tr, 0)
	for i, k := range []int{30, 10, 40, 20} {
		st, err := n.insertValue(tr, k, k*10)
		require.NoError(t, err)
		require.Equal(t, safe, st, "insert %d", i)
	}
	require.Equal(t, []int{10, 20, 30, 40}, nodeKeys(tr, n))
	require.Equal(t, 40, n.highKey)
	require.True(t, n.has(tr, 20))
	require.False(t, n.has(tr, 25))
	v, ok := n.find(tr, 30)
	require.True(t, ok)
	require.Equal(t, 300, v)

	st, err := n.insertValue(tr, 25, 250)
	require.NoError(t, err)
	require.Equal(t, overflow, st)
	require.Equal(t, 5, n.occupancy)
	require.Equal(t, "overflow", st.String())
}

func TestNodeSplit(t *testing.T) {
	tr := newTestTree(t, 3)
	n := newTestNode(t, tr, 0)
	for k := 1; k <= 7; k++ {
		_, err := n.insertValue(tr, k, k)
		require.NoError(t, err)
	}
	r, err := n.split(tr)
	require.NoError(t, err)

	require.Equal(t, []int{1, 2, 3}, nodeKeys(tr, n))
	require.Equal(t, 3, n.occupancy)
	require.True(t, n.bounded)
	require.Equal(t, 3, n.highKey)
	require.Equal(t, r.id, n.link)
	require.True(t, r.isLinkOf(n))
	require.False(t, n.isLinkOf(r))

	require.Equal(t, []int{4, 5, 6, 7}, nodeKeys(tr, r))
	require.Equal(t, 4, r.occupancy)
	require.False(t, r.bounded)
	require.Equal(t, 7, r.highKey)
	require.Equal(t, nodeRef(0), r.link)
	require.Equal(t, uint32(0), r.level)

	require.True(t, n.covers(tr, 3))
	require.False(t, n.covers(tr, 4))
	require.True(t, r.covers(tr, 100))

	// A bounded node passes its bound and link on to the new sibling.
	for k := 8; k <= 10; k++ {
		_, err := r.insertValue(tr, k, k)
		require.NoError(t, err)
	}
	r.bounded, r.highKey = true, 10
	r2, err := r.split(tr)
	require.NoError(t, err)
	require.Equal(t, []int{4, 5, 6}, nodeKeys(tr, r))
	require.Equal(t, []int{7, 8, 9, 10}, nodeKeys(tr, r2))
	require.True(t, r2.bounded)
	require.Equal(t, 10, r2.highKey)
	require.Equal(t, r2.id, r.link)
}

func TestNodeScanChild(t *testing.T) {
	tr := newTestTree(t, 4)
	children := make([]*node[int, int], 3)
	for i := range children {
		children[i] = newTestNode(t, tr, 0)
	}
	p := newTestNode(t, tr, 1)
	for i, k := range []int{10, 20, 30} {
		_, err := p.insertChild(tr, k, children[i].id)
		require.NoError(t, err)
	}

	for _, tc := range []struct {
		key   int
		child int
	}{
		{key: 0, child: 0},
		{key: 10, child: 0},
		{key: 11, child: 1},
		{key: 20, child: 1},
		{key: 30, child: 2},
		// The rightmost node of a level is unbounded, so keys beyond its
		// largest separator go to its last child.
		{key: 99, child: 2},
	} {
		next, s := p.scanChild(tr, tc.key)
		require.Equal(t, stepDescend, s)
		require.Equal(t, children[tc.child].id, next, "key %d", tc.key)
	}

	sib := newTestNode(t, tr, 1)
	p.bounded, p.link = true, sib.id
	next, s := p.scanChild(tr, 31)
	require.Equal(t, stepMoveRight, s)
	require.Equal(t, sib.id, next)
	require.Equal(t, "move-right", s.String())
}

func TestNodePlaceSeparator(t *testing.T) {
	tr := newTestTree(t, 2)
	left := newTestNode(t, tr, 0)
	other := newTestNode(t, tr, 0)
	for k := 1; k <= 5; k++ {
		_, err := left.insertValue(tr, k, k)
		require.NoError(t, err)
	}
	_, err := other.insertValue(tr, 10, 10)
	require.NoError(t, err)

	p := newTestNode(t, tr, 1)
	_, err = p.insertChild(tr, 5, left.id)
	require.NoError(t, err)
	_, err = p.insertChild(tr, 10, other.id)
	require.NoError(t, err)

	right, err := left.split(tr)
	require.NoError(t, err)
	st, err := p.placeSeparator(tr, left, right)
	require.NoError(t, err)
	require.Equal(t, safe, st)
	require.Equal(t, []int{2, 5, 10}, nodeKeys(tr, p))

	var kids []nodeRef
	for s := p.head; s != 0; s = tr.field(s).next {
		kids = append(kids, tr.field(s).child)
	}
	require.Equal(t, []nodeRef{left.id, right.id, other.id}, kids)

	stranger := newTestNode(t, tr, 0)
	_, err = p.placeSeparator(tr, stranger, right)
	require.Error(t, err)
}

func TestPathAncestor(t *testing.T) {
	tr := newTestTree(t, 2)
	l2 := newTestNode(t, tr, 2)
	l1a := newTestNode(t, tr, 1)
	l1b := newTestNode(t, tr, 1)

	var p path[int, int]
	require.Nil(t, p.ancestor(1))
	p.push(l2, stepDescend)
	p.push(l1a, stepMoveRight)
	p.push(l1b, stepDescend)
	require.Equal(t, l1b, p.ancestor(1))
	require.Equal(t, l2, p.ancestor(2))
	require.Nil(t, p.ancestor(3))
}
