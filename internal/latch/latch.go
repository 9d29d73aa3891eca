// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package latch implements the short-lived, per-node mutual exclusion used by
// the B-link tree.
//
// A Latch is either free or held for modification. A writer acquires it and
// may then mutate the protected state without holding any mutex. A reader
// never acquires it: Read waits until the latch is free and then runs a
// function while keeping writers out, so a reader observes the protected
// state only between modifications and never holds more than one latch.
package latch

import (
	"sync"
	"time"

	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
)

// Latch is a binary free/held state guarded by a mutex, with a condition
// variable that wakes waiters when the state returns to free. The zero value
// is a free latch. A Latch must not be copied after first use.
type Latch struct {
	mu   sync.Mutex
	cond sync.Cond
	held bool
}

// waitLocked blocks until the latch is free. l.mu must be held. Returns how
// long the caller was blocked (zero if the latch was already free).
func (l *Latch) waitLocked() time.Duration {
	if !l.held {
		return 0
	}
	if l.cond.L == nil {
		l.cond.L = &l.mu
	}
	start := crtime.NowMono()
	for l.held {
		l.cond.Wait()
	}
	return start.Elapsed()
}

// Acquire blocks until the latch is free and then takes it. It returns the
// time spent blocked.
func (l *Latch) Acquire() time.Duration {
	l.mu.Lock()
	waited := l.waitLocked()
	l.held = true
	l.mu.Unlock()
	return waited
}

// TryAcquire takes the latch if it is free and reports whether it did.
func (l *Latch) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return false
	}
	l.held = true
	return true
}

// Release frees the latch and wakes every waiter. Releasing a free latch is
// a programming error and panics.
func (l *Latch) Release() {
	l.mu.Lock()
	if !l.held {
		l.mu.Unlock()
		panic(errors.AssertionFailedf("latch: release of a free latch"))
	}
	l.held = false
	// cond.L is only set once somebody has waited.
	if l.cond.L != nil {
		l.cond.Broadcast()
	}
	l.mu.Unlock()
}

// WaitUntilFree blocks until the latch is free without taking it. The latch
// may be taken by another goroutine as soon as WaitUntilFree returns.
func (l *Latch) WaitUntilFree() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.waitLocked()
}

// Read waits until the latch is free and calls fn while no writer can take
// the latch. fn must not block on other latches. It returns the time spent
// blocked before fn ran.
func (l *Latch) Read(fn func()) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	waited := l.waitLocked()
	fn()
	return waited
}

// Held reports whether the latch is currently held. The answer may be stale
// by the time the caller looks at it; it is meant for assertions.
func (l *Latch) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}
