// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package blink provides a concurrent, in-memory ordered index implemented as
// a B-link tree (Lehman and Yao's B+-tree variant).
//
// Every node carries a high key and a link to its right sibling. A split
// moves the upper half of a node into a new right sibling before the parent
// learns about it, so a traversal that was routed to the old node can always
// recover by following right links. As a consequence readers never hold more
// than one node latch, and never hold it for longer than it takes to scan one
// node, while writers hold at most two latches at a time.
//
// Nodes and fields are allocated from arenas and refer to each other by
// index; nothing is ever freed because the tree does not support deletion.
//
//	t, err := blink.New[int, string](&blink.Options{FanOut: 3})
//	if err != nil {
//		return err
//	}
//	if err := t.Insert(5, "five"); err != nil && !errors.Is(err, blink.ErrDuplicateKey) {
//		return err
//	}
//	v, ok := t.Search(5)
package blink // import "github.com/cockroachdb/blink"

import (
	"cmp"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/blink/internal/arena"
	"github.com/cockroachdb/blink/internal/latch"
	"github.com/cockroachdb/errors"
)

// Compare returns -1, 0, or +1 depending on whether a is 'less than',
// 'equal to' or 'greater than' b.
type Compare[K any] func(a, b K) int

// Tree is a concurrent B-link tree mapping keys of type K to values of type
// V. All methods are safe for concurrent use.
type Tree[K, V any] struct {
	cmp       Compare[K]
	opts      *Options
	maxFields int

	nodes  *arena.Arena[node[K, V]]
	fields *arena.Arena[field[K, V]]

	// root is only stored while rootLatch is held (and the old root's latch
	// is held); it may be loaded at any time.
	root      atomic.Uint32
	rootLatch latch.Latch

	size    atomic.Int64
	metrics treeMetrics
}

// New returns an empty tree ordering keys with cmp.Compare. A nil opts uses
// DefaultOptions. The options are validated and an error marked with
// ErrInvalidConfig is returned if they are rejected, notably if FanOut is 0.
func New[K cmp.Ordered, V any](opts *Options) (*Tree[K, V], error) {
	return NewFunc[K, V](cmp.Compare[K], opts)
}

// NewFunc is like New but orders keys with the supplied comparison function.
func NewFunc[K, V any](compare Compare[K], opts *Options) (*Tree[K, V], error) {
	if compare == nil {
		return nil, errors.Mark(errors.New("blink: nil compare function"), ErrInvalidConfig)
	}
	if opts == nil {
		opts = DefaultOptions()
	} else {
		opts = opts.Clone().EnsureDefaults()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	t := &Tree[K, V]{
		cmp:       compare,
		opts:      opts,
		maxFields: 2 * opts.FanOut,
		nodes:     arena.New[node[K, V]](opts.ArenaChunkSize),
		fields:    arena.New[field[K, V]](opts.ArenaChunkSize),
	}
	id, root, err := t.nodes.Alloc()
	if err != nil {
		return nil, err
	}
	root.id = id
	t.root.Store(uint32(id))
	return t, nil
}

func (t *Tree[K, V]) node(id nodeRef) *node[K, V] {
	return t.nodes.Get(id)
}

func (t *Tree[K, V]) field(id fieldRef) *field[K, V] {
	return t.fields.Get(id)
}

func (t *Tree[K, V]) rootNode() *node[K, V] {
	return t.node(nodeRef(t.root.Load()))
}

// Options returns the options the tree was created with, after defaults were
// applied. The returned value must not be modified.
func (t *Tree[K, V]) Options() *Options {
	return t.opts
}

// Search returns the value stored under key. The boolean result is false if
// the key is absent; absence is not an error.
func (t *Tree[K, V]) Search(key K) (V, bool) {
	t.metrics.searches.Add(1)
	n := t.descend(key, nil)
	for {
		var next nodeRef
		var v V
		var found bool
		t.read(n, func() {
			if !n.covers(t, key) {
				next = n.link
				return
			}
			v, found = n.find(t, key)
		})
		if next == 0 {
			return v, found
		}
		t.metrics.moveRights.Add(1)
		n = t.node(next)
	}
}

// HasKey returns true if key is present in the tree.
func (t *Tree[K, V]) HasKey(key K) bool {
	_, ok := t.Search(key)
	return ok
}

// Size returns the number of keys stored in the tree.
func (t *Tree[K, V]) Size() int {
	return int(t.size.Load())
}

// Empty returns true if the tree holds no keys.
func (t *Tree[K, V]) Empty() bool {
	return t.Size() == 0
}

// Height returns the number of levels in the tree. A tree whose root is a
// leaf has height 1.
func (t *Tree[K, V]) Height() int {
	return int(t.rootNode().level) + 1
}

// Remove is not supported: the tree defines no deletion semantics. It always
// returns an error marked with ErrUnsupported and leaves the tree unchanged.
func (t *Tree[K, V]) Remove(key K) error {
	return errors.Mark(errors.New("blink: remove is not implemented"), ErrUnsupported)
}

// Metrics returns a snapshot of the tree's metrics.
func (t *Tree[K, V]) Metrics() *Metrics {
	m := &Metrics{}
	m.Size = t.Size()
	m.Height = t.Height()
	m.Nodes = t.nodes.Len()
	m.Inserts.Count = t.metrics.inserts.Load()
	m.Inserts.Duplicates = t.metrics.duplicates.Load()
	m.Searches = t.metrics.searches.Load()
	m.Splits.Leaf = t.metrics.leafSplits.Load()
	m.Splits.Internal = t.metrics.innerSplits.Load()
	m.Splits.RootGrowths = t.metrics.rootGrowths.Load()
	m.MoveRights = t.metrics.moveRights.Load()
	m.LatchWaits = t.metrics.latchWaits.Load()
	return m
}

// acquire takes n's latch for modification. An uncontended latch is taken
// without reading the clock.
func (t *Tree[K, V]) acquire(n *node[K, V]) {
	if n.latch.TryAcquire() {
		return
	}
	t.noteLatchWait(n.latch.Acquire())
}

// release frees n's latch.
func (t *Tree[K, V]) release(n *node[K, V]) {
	n.latch.Release()
}

// read runs fn against a quiescent n.
func (t *Tree[K, V]) read(n *node[K, V], fn func()) {
	t.noteLatchWait(n.latch.Read(fn))
}

func (t *Tree[K, V]) noteLatchWait(waited time.Duration) {
	if waited == 0 {
		return
	}
	t.metrics.latchWaits.Add(1)
	if h := t.opts.LatchWaitLatency; h != nil {
		h.Observe(waited.Seconds())
	}
}
