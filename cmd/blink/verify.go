// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// verifyTree checks that t holds exactly the keys in s, with their values,
// in ascending order.
func verifyTree(t *tree, s *keySet) error {
	if t.Size() != s.len() {
		return errors.Newf("tree holds %d keys, %d were inserted", t.Size(), s.len())
	}
	var n int
	var prev uint64
	for k, v := range t.All() {
		if n > 0 && k <= prev {
			return errors.Newf("key %d follows %d", k, prev)
		}
		want, ok := s.get(k)
		if !ok {
			return errors.Newf("key %d was never inserted", k)
		}
		if v != want {
			return errors.Newf("key %d: value %d, inserted %d", k, v, want)
		}
		if got, ok := t.Search(k); !ok || got != v {
			return errors.Newf("key %d: search returned %d, %t", k, got, ok)
		}
		prev = k
		n++
	}
	if n != s.len() {
		return errors.Newf("scan visited %d keys, %d were inserted", n, s.len())
	}
	fmt.Printf("verified %d keys\n", n)
	return nil
}
