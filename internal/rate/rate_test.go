// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterWait(t *testing.T) {
	now := time.Unix(0, 0)
	var slept time.Duration
	l := NewLimiterWithCustomTime(10, 1,
		func() time.Time { return now },
		func(d time.Duration) {
			slept += d
			now = now.Add(d)
		})
	ctx := context.Background()

	// The bucket starts full.
	require.NoError(t, l.Wait(ctx, 1))
	require.Zero(t, slept)

	for i := 0; i < 10; i++ {
		require.NoError(t, l.Wait(ctx, 1))
	}
	require.InDelta(t, time.Second, slept, float64(time.Millisecond))

	l.SetRate(100)
	require.Equal(t, 100.0, l.Rate())
	slept = 0
	for i := 0; i < 10; i++ {
		require.NoError(t, l.Wait(ctx, 1))
	}
	require.InDelta(t, 100*time.Millisecond, slept, float64(time.Millisecond))
}

func TestLimiterUnlimited(t *testing.T) {
	l := NewLimiter(0, 1)
	for i := 0; i < 1000; i++ {
		require.NoError(t, l.Wait(context.Background(), 1))
	}
}

func TestLimiterCanceled(t *testing.T) {
	l := NewLimiter(0.001, 1)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, l.Wait(ctx, 1))
	cancel()
	require.ErrorIs(t, l.Wait(ctx, 1), context.Canceled)
}
