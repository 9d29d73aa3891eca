// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/swiss"
)

// nextKey draws a key from the --keys distribution, scrambled if requested.
func nextKey() uint64 {
	k := keys.Uint64()
	if scramble {
		return scrambleKey(k)
	}
	return k
}

// scrambleKey maps k to a pseudo-random key, so that dense or skewed key
// ranges spread over the whole key space.
func scrambleKey(k uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], k)
	return xxhash.Sum64(buf[:])
}

// keySet is a shadow copy of the keys successfully inserted into the tree,
// used by --verify.
type keySet struct {
	mu struct {
		sync.Mutex
		m swiss.Map[uint64, uint64]
	}
}

func newKeySet() *keySet {
	s := &keySet{}
	s.mu.m.Init(1024)
	return s
}

// add records an insert the tree accepted. It returns false if the key had
// already been accepted before, which means the tree stored a duplicate.
func (s *keySet) add(key, value uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mu.m.Get(key); ok {
		return false
	}
	s.mu.m.Put(key, value)
	return true
}

func (s *keySet) get(key uint64) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mu.m.Get(key)
}

func (s *keySet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mu.m.Len()
}
