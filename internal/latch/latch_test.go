// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package latch

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/crlib/testutils/leaktest"
	"github.com/stretchr/testify/require"
)

func TestLatchBasic(t *testing.T) {
	var l Latch
	require.False(t, l.Held())
	require.Zero(t, l.Acquire())
	require.True(t, l.Held())
	require.False(t, l.TryAcquire())
	l.Release()
	require.False(t, l.Held())
	require.True(t, l.TryAcquire())
	l.Release()
	require.Zero(t, l.WaitUntilFree())

	var ran bool
	require.Zero(t, l.Read(func() { ran = true }))
	require.True(t, ran)
}

func TestLatchReleaseFree(t *testing.T) {
	var l Latch
	require.Panics(t, l.Release)
}

func TestLatchReadWaitsForWriter(t *testing.T) {
	defer leaktest.AfterTest(t)()

	var l Latch
	l.Acquire()

	var state int
	state = 1

	done := make(chan time.Duration)
	go func() {
		var seen int
		waited := l.Read(func() { seen = state })
		if seen != 2 {
			t.Errorf("reader observed state %d while the latch was held", seen)
		}
		done <- waited
	}()

	// Give the reader a chance to block.
	time.Sleep(10 * time.Millisecond)
	state = 2
	l.Release()
	// The wait is only non-zero if the reader got to block, which the sleep
	// above makes likely but cannot guarantee.
	require.GreaterOrEqual(t, <-done, time.Duration(0))
}

func TestLatchAcquireWaits(t *testing.T) {
	defer leaktest.AfterTest(t)()

	var l Latch
	l.Acquire()
	acquired := make(chan struct{})
	go func() {
		l.Acquire()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second Acquire succeeded while the latch was held")
	case <-time.After(10 * time.Millisecond):
	}
	l.Release()
	<-acquired
	require.True(t, l.Held())
	l.Release()
}

// TestLatchStress hammers a latch from many writers and readers. Writers
// temporarily break an invariant (a == b) while holding the latch; readers
// must never observe the broken state.
func TestLatchStress(t *testing.T) {
	defer leaktest.AfterTest(t)()

	const (
		writers = 8
		readers = 8
		iters   = 2000
	)
	var l Latch
	var a, b int
	var broken atomic.Int64
	var reads atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iters; j++ {
				if j%2 == 0 {
					l.Acquire()
				} else {
					for !l.TryAcquire() {
						runtime.Gosched()
					}
				}
				a++
				runtime.Gosched()
				b++
				l.Release()
			}
		}()
	}
	stop := make(chan struct{})
	var rwg sync.WaitGroup
	for i := 0; i < readers; i++ {
		rwg.Add(1)
		go func() {
			defer rwg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				l.Read(func() {
					if a != b {
						broken.Add(1)
					}
				})
				reads.Add(1)
			}
		}()
	}
	wg.Wait()
	close(stop)
	rwg.Wait()

	require.Zero(t, broken.Load())
	require.Greater(t, reads.Load(), int64(0))
	require.Equal(t, writers*iters, a)
	require.Equal(t, writers*iters, b)
	require.False(t, l.Held())
}
