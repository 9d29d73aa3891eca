// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package blink

import (
	"github.com/cockroachdb/blink/internal/arena"
	"github.com/cockroachdb/blink/internal/base"
)

// The errors below are markers. Errors returned by the tree may carry them via
// errors.Mark from github.com/cockroachdb/errors, which the standard library's
// errors.Is does not see: test for them with github.com/cockroachdb/errors.Is.

// ErrDuplicateKey is returned by Insert when the key is already present. The
// tree is left unchanged.
var ErrDuplicateKey = base.ErrDuplicateKey

// ErrUnsupported is returned by operations the tree does not implement, such
// as Remove.
var ErrUnsupported = base.ErrUnsupported

// ErrInvalidConfig is returned by New when the options fail validation.
var ErrInvalidConfig = base.ErrInvalidConfig

// ErrCorruption is a marker for errors returned by Check.
var ErrCorruption = base.ErrCorruption

// ErrArenaFull is returned by Insert when the tree cannot allocate any more
// nodes or fields.
var ErrArenaFull = arena.ErrArenaFull

// Logger defines an interface for writing log messages.
type Logger = base.Logger

// DefaultLogger logs to the Go stdlib logs.
type DefaultLogger = base.DefaultLogger
