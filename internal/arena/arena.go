// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package arena implements an append-only store of values addressed by
// stable uint32 indices. Items are never moved or freed once allocated, so a
// *T obtained from an Arena stays valid for the lifetime of the Arena.
package arena

import (
	"math"
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/blink/internal/invariants"
	"github.com/cockroachdb/errors"
)

// Index addresses an item in an Arena. The zero Index is reserved as a kind
// of nil pointer and never refers to an allocated item.
type Index uint32

// ErrArenaFull is returned by Alloc when the index space is exhausted.
var ErrArenaFull = errors.New("allocation failed because arena is full")

// Arena hands out items from fixed-size chunks. Allocation is lock-free
// except when a new chunk must be added; lookups never lock.
type Arena[T any] struct {
	n     atomic.Uint64
	shift uint32
	mask  uint32

	// chunks is replaced wholesale (copy-on-write) when it grows, so a
	// reader that loaded it can index it without synchronization.
	chunks atomic.Pointer[[][]T]
	mu     sync.Mutex
}

// New returns an Arena that grows by chunkSize items at a time. chunkSize
// must be a power of two.
func New[T any](chunkSize int) *Arena[T] {
	if chunkSize <= 0 || bits.OnesCount(uint(chunkSize)) != 1 {
		panic(errors.AssertionFailedf("arena chunk size %d is not a power of two", chunkSize))
	}
	a := &Arena[T]{
		shift: uint32(bits.TrailingZeros(uint(chunkSize))),
		mask:  uint32(chunkSize - 1),
	}
	chunks := [][]T{make([]T, chunkSize)}
	a.chunks.Store(&chunks)
	return a
}

// Alloc reserves a new zeroed item and returns its index along with a
// pointer to it. The caller is responsible for publishing the index to other
// goroutines only after it has finished initializing the item.
func (a *Arena[T]) Alloc() (Index, *T, error) {
	// Don't hand out index 0 in order to reserve it as nil.
	idx := a.n.Add(1)
	if idx > math.MaxUint32 {
		return 0, nil, ErrArenaFull
	}
	c := int(idx >> a.shift)
	chunks := *a.chunks.Load()
	if c >= len(chunks) {
		chunks = a.grow(c)
	}
	return Index(idx), &chunks[c][uint32(idx)&a.mask], nil
}

func (a *Arena[T]) grow(c int) [][]T {
	a.mu.Lock()
	defer a.mu.Unlock()
	cur := *a.chunks.Load()
	if c < len(cur) {
		return cur
	}
	next := make([][]T, c+1)
	copy(next, cur)
	size := int(a.mask) + 1
	for i := len(cur); i <= c; i++ {
		next[i] = make([]T, size)
	}
	a.chunks.Store(&next)
	return next
}

// Get returns a pointer to the item at index i, or nil for the zero Index.
func (a *Arena[T]) Get(i Index) *T {
	if i == 0 {
		return nil
	}
	chunks := *a.chunks.Load()
	c := int(uint32(i) >> a.shift)
	invariants.CheckBounds(c, len(chunks))
	return &chunks[c][uint32(i)&a.mask]
}

// Len returns the number of items allocated so far.
func (a *Arena[T]) Len() int {
	n := a.n.Load()
	if n > math.MaxUint32 {
		n = math.MaxUint32
	}
	return int(n)
}
