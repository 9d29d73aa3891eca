// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package randvar

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestParse(t *testing.T) {
	for _, spec := range []string{"", "abc", "uniform:", "zipf:10-", "poisson:1-2", "10-1"} {
		_, err := Parse(spec)
		require.Error(t, err, "%q", spec)
	}

	v, err := Parse("7")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		require.Equal(t, uint64(7), v.Uint64())
	}

	v, err = Parse("seq:3-5")
	require.NoError(t, err)
	var got []uint64
	for i := 0; i < 7; i++ {
		got = append(got, v.Uint64())
	}
	require.Equal(t, []uint64{3, 4, 5, 3, 4, 5, 3}, got)

	f := NewFlag("uniform:1-10")
	require.Equal(t, "uniform:1-10", f.String())
	require.NoError(t, f.Set("ZIPF:1-100"))
	require.IsType(t, &Zipf{}, f.Static)
	require.Error(t, f.Set("bogus"))
	require.Equal(t, "ZIPF:1-100", f.String())
}

func TestUniform(t *testing.T) {
	u := NewUniform(rand.New(rand.NewSource(1)), 10, 20)
	seen := make(map[uint64]bool)
	for i := 0; i < 10000; i++ {
		v := u.Uint64()
		require.GreaterOrEqual(t, v, uint64(10))
		require.LessOrEqual(t, v, uint64(20))
		seen[v] = true
	}
	require.Len(t, seen, 11)
}

func TestZipf(t *testing.T) {
	_, err := NewZipf(nil, 5, 4, 0.5)
	require.Error(t, err)
	_, err = NewZipf(nil, 1, 10, 1)
	require.Error(t, err)

	z, err := NewZipf(rand.New(rand.NewSource(1)), 1, 1000, defaultTheta)
	require.NoError(t, err)
	counts := make([]int, 1001)
	const draws = 100000
	for i := 0; i < draws; i++ {
		v := z.Uint64()
		require.GreaterOrEqual(t, v, uint64(1))
		require.LessOrEqual(t, v, uint64(1000))
		counts[v]++
	}
	// The distribution is heavily skewed towards the minimum.
	require.Greater(t, counts[1], counts[2])
	require.Greater(t, counts[2], counts[500])
	require.Greater(t, counts[1], draws/20)
}
