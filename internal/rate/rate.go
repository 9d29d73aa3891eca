// Copyright 2023 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package rate provides the rate limiter that paces benchmark workers.
package rate // import "github.com/cockroachdb/blink/internal/rate"

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/tokenbucket"
)

// A Limiter controls how frequently operations are allowed to happen. It
// implements a token bucket of size burst, initially full and refilled at r
// tokens per second. A Limiter with a non-positive rate never blocks.
//
// Limiter is safe for concurrent use.
type Limiter struct {
	mu struct {
		sync.Mutex
		tb    tokenbucket.TokenBucket
		rate  float64
		burst float64
	}
	sleepFn func(ctx context.Context, d time.Duration) error
}

// NewLimiter returns a new Limiter that allows operations up to rate r and
// permits bursts of at most b tokens.
func NewLimiter(r float64, b float64) *Limiter {
	l := &Limiter{sleepFn: sleep}
	l.mu.tb.Init(tokenbucket.TokensPerSecond(r), tokenbucket.Tokens(b))
	l.mu.rate = r
	l.mu.burst = b
	return l
}

// NewLimiterWithCustomTime is like NewLimiter but reads the current time and
// sleeps through the given functions (useful for testing).
func NewLimiterWithCustomTime(
	r float64, b float64, nowFn func() time.Time, sleepFn func(d time.Duration),
) *Limiter {
	l := &Limiter{
		sleepFn: func(ctx context.Context, d time.Duration) error {
			sleepFn(d)
			return ctx.Err()
		},
	}
	l.mu.tb.InitWithNowFn(tokenbucket.TokensPerSecond(r), tokenbucket.Tokens(b), nowFn)
	l.mu.rate = r
	l.mu.burst = b
	return l
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until n tokens are available or ctx is done. If n is more than
// the burst, the token bucket goes into debt, delaying future operations.
func (l *Limiter) Wait(ctx context.Context, n float64) error {
	for {
		l.mu.Lock()
		if l.mu.rate <= 0 {
			l.mu.Unlock()
			return nil
		}
		ok, d := l.mu.tb.TryToFulfill(tokenbucket.Tokens(n))
		l.mu.Unlock()
		if ok {
			return nil
		}
		if err := l.sleepFn(ctx, d); err != nil {
			return err
		}
	}
}

// Rate returns the current rate limit.
func (l *Limiter) Rate() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mu.rate
}

// SetRate updates the rate limit.
func (l *Limiter) SetRate(r float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mu.tb.UpdateConfig(tokenbucket.TokensPerSecond(r), tokenbucket.Tokens(l.mu.burst))
	l.mu.rate = r
}
