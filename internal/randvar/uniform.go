// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package randvar

import (
	"sync"

	"golang.org/x/exp/rand"
)

// Uniform is a random number generator that generates draws from a uniform
// distribution over [min, max].
type Uniform struct {
	min, max uint64
	mu       struct {
		sync.Mutex
		rng *rand.Rand
	}
}

// NewUniform constructs a new Uniform generator. A nil rng is replaced by a
// time-seeded one.
func NewUniform(rng *rand.Rand, min, max uint64) *Uniform {
	g := &Uniform{min: min, max: max}
	g.mu.rng = ensureRand(rng)
	return g
}

// Uint64 returns a random value between min and max inclusive.
func (g *Uniform) Uint64() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.max-g.min == ^uint64(0) {
		return g.mu.rng.Uint64()
	}
	return g.mu.rng.Uint64n(g.max-g.min+1) + g.min
}
