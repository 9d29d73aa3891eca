// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import "github.com/cockroachdb/errors"

// ErrDuplicateKey means that an insert found the key already present. The
// insert is a no-op.
var ErrDuplicateKey = errors.New("blink: duplicate key")

// ErrUnsupported means that the requested operation is not implemented by the
// tree.
var ErrUnsupported = errors.New("blink: unsupported operation")

// ErrInvalidConfig means that the options passed to the tree constructor were
// rejected. No tree is created.
var ErrInvalidConfig = errors.New("blink: invalid options")

// MarkCorruptionError marks given error as a corruption error.
func MarkCorruptionError(err error) error {
	if errors.Is(err, ErrCorruption) {
		return err
	}
	return errors.Mark(err, ErrCorruption)
}

// ErrCorruption is a marker for errors reporting a violation of the tree's
// structural invariants, as found by a consistency check.
var ErrCorruption = errors.New("blink: corruption")

// CorruptionErrorf formats according to a format specifier and returns
// the string as an error value that is marked as a corruption error.
func CorruptionErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrCorruption)
}
