// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package arena

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type item struct {
	a, b uint64
}

func TestArenaAllocGet(t *testing.T) {
	a := New[item](4)
	require.Nil(t, a.Get(0))
	require.Equal(t, 0, a.Len())
	require.Len(t, *a.chunks.Load(), 1)

	var ptrs []*item
	for i := 1; i <= 10; i++ {
		idx, p, err := a.Alloc()
		require.NoError(t, err)
		require.Equal(t, Index(i), idx)
		require.Equal(t, item{}, *p)
		p.a, p.b = uint64(i), uint64(i*i)
		ptrs = append(ptrs, p)
	}
	require.Equal(t, 10, a.Len())
	// Index 0 is reserved, so 10 items span three chunks of four.
	require.Len(t, *a.chunks.Load(), 3)

	// Growing must not move previously allocated items.
	for i, p := range ptrs {
		got := a.Get(Index(i + 1))
		require.True(t, got == p)
		require.Equal(t, item{a: uint64(i + 1), b: uint64((i + 1) * (i + 1))}, *got)
	}
}

func TestArenaChunkSize(t *testing.T) {
	for _, size := range []int{0, -1, 3, 100} {
		require.Panics(t, func() { New[item](size) }, "size %d", size)
	}
	require.NotPanics(t, func() { New[item](1) })
}

func TestArenaFull(t *testing.T) {
	// The last representable index lands in a chunk far beyond the current
	// directory, so use a zero-sized element type to keep the test cheap.
	b := New[struct{}](1 << 16)
	b.n.Store(1<<32 - 2)
	idx, p, err := b.Alloc()
	require.NoError(t, err)
	require.Equal(t, Index(1<<32-1), idx)
	require.NotNil(t, p)

	_, _, err = b.Alloc()
	require.ErrorIs(t, err, ErrArenaFull)
	_, _, err = b.Alloc()
	require.ErrorIs(t, err, ErrArenaFull)
	require.Equal(t, 1<<32-1, b.Len())
}

func TestArenaConcurrent(t *testing.T) {
	const (
		workers = 8
		perG    = 5000
	)
	a := New[item](64)
	var wg sync.WaitGroup
	results := make([][]Index, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				idx, p, err := a.Alloc()
				if err != nil {
					t.Error(err)
					return
				}
				p.a = uint64(w)
				p.b = uint64(i)
				results[w] = append(results[w], idx)
			}
		}(w)
	}
	wg.Wait()

	seen := make(map[Index]bool, workers*perG)
	for w, idxs := range results {
		require.Len(t, idxs, perG)
		for i, idx := range idxs {
			require.False(t, seen[idx], "index %d handed out twice", idx)
			seen[idx] = true
			require.Equal(t, item{a: uint64(w), b: uint64(i)}, *a.Get(idx))
		}
	}
	require.Equal(t, workers*perG, a.Len())
}
