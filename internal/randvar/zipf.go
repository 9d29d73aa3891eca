// Copyright 2017 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package randvar

import (
	"math"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/rand"
)

// defaultTheta is the skew used by YCSB's zipfian generator.
const defaultTheta = 0.99

// Zipf draws values in [min, max] with probability proportional to
// 1/rank^theta, using the rejection-free method of Gray et al., "Quickly
// Generating Billion-Record Synthetic Databases", SIGMOD 1994. Unlike
// rand.Zipf it supports any theta other than 1.
type Zipf struct {
	theta float64
	min   uint64
	span  float64
	alpha float64
	zetaN float64
	eta   float64
	half  float64

	mu struct {
		sync.Mutex
		rng *rand.Rand
	}
}

// NewZipf constructs a Zipf generator. Returns an error if min > max or theta
// is negative or exactly 1.
func NewZipf(rng *rand.Rand, min, max uint64, theta float64) (*Zipf, error) {
	if min > max {
		return nil, errors.Newf("zipf: min %d > max %d", min, max)
	}
	if theta < 0 || theta == 1 {
		return nil, errors.Newf("zipf: theta %g must be >= 0 and != 1", theta)
	}
	n := max - min + 1
	zeta2 := zeta(2, theta)
	z := &Zipf{
		theta: theta,
		min:   min,
		span:  float64(n),
		alpha: 1 / (1 - theta),
		zetaN: zeta(n, theta),
		half:  1 + math.Pow(0.5, theta),
	}
	z.eta = (1 - math.Pow(2/z.span, 1-theta)) / (1 - zeta2/z.zetaN)
	z.mu.rng = ensureRand(rng)
	return z, nil
}

// zeta computes 1/1^theta + 1/2^theta + ... + 1/n^theta.
func zeta(n uint64, theta float64) float64 {
	var sum float64
	for i := uint64(1); i <= n; i++ {
		sum += 1 / math.Pow(float64(i), theta)
	}
	return sum
}

// Uint64 draws a new value between min and max.
func (z *Zipf) Uint64() uint64 {
	z.mu.Lock()
	u := z.mu.rng.Float64()
	z.mu.Unlock()

	uz := u * z.zetaN
	switch {
	case uz < 1:
		return z.min
	case uz < z.half:
		return z.min + 1
	}
	v := z.min + uint64(z.span*math.Pow(z.eta*u-z.eta+1, z.alpha))
	if max := z.min + uint64(z.span) - 1; v > max {
		v = max
	}
	return v
}
