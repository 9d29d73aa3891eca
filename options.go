// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package blink

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/cockroachdb/blink/internal/base"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultFanOut is the fan-out factor used when no Options are supplied.
	DefaultFanOut = 64
	// MaxFanOut bounds the fan-out factor. Nodes are scanned linearly, so
	// very wide nodes only make every operation slower.
	MaxFanOut = 1 << 16

	defaultArenaChunkSize = 1024
)

// Options holds the optional parameters for configuring a Tree. The zero
// value is not valid: FanOut must be set explicitly. Use DefaultOptions for a
// ready-made configuration.
type Options struct {
	// FanOut is the fan-out factor k. A node holds at most 2k fields before it
	// must be split. It must be positive; a zero FanOut is a configuration
	// error and is never defaulted.
	FanOut int

	// ArenaChunkSize is the number of nodes (and fields) allocated at a time
	// by the tree's arenas. It must be a power of two. The default is 1024.
	ArenaChunkSize int

	// Logger used to write log messages.
	//
	// The default logger uses the Go standard library log package.
	Logger Logger

	// EventListener provides hooks to listening to significant tree events
	// such as node splits and root growth.
	EventListener *EventListener

	// LatchWaitLatency, if set, observes the number of seconds an operation
	// spent blocked waiting for a node latch to become free. Uncontended latch
	// operations are not observed.
	LatchWaitLatency prometheus.Histogram
}

// DefaultOptions returns a new Options object with the default values set.
func DefaultOptions() *Options {
	o := &Options{FanOut: DefaultFanOut}
	o.EnsureDefaults()
	return o
}

// EnsureDefaults ensures that the default values for all options are set if a
// valid value was not already specified. FanOut is deliberately left alone.
func (o *Options) EnsureDefaults() *Options {
	if o.ArenaChunkSize == 0 {
		o.ArenaChunkSize = defaultArenaChunkSize
	}
	if o.Logger == nil {
		o.Logger = base.DefaultLogger{}
	}
	if o.EventListener == nil {
		o.EventListener = &EventListener{}
	}
	o.EventListener.EnsureDefaults(o.Logger)
	return o
}

// Clone creates a shallow-copy of the supplied options.
func (o *Options) Clone() *Options {
	n := &Options{}
	if o != nil {
		*n = *o
		if o.EventListener != nil {
			el := *o.EventListener
			n.EventListener = &el
		}
	}
	return n
}

// Validate verifies that the options are mutually consistent. Errors are
// marked with ErrInvalidConfig.
func (o *Options) Validate() error {
	// Note that we can presume Options.EnsureDefaults has been called, so there
	// is no need to check for zero values other than FanOut.

	var buf strings.Builder
	if o.FanOut <= 0 {
		fmt.Fprintf(&buf, "FanOut (%d) must be > 0\n", o.FanOut)
	} else if o.FanOut > MaxFanOut {
		fmt.Fprintf(&buf, "FanOut (%d) must be <= %d\n", o.FanOut, MaxFanOut)
	}
	if o.ArenaChunkSize < 0 || bits.OnesCount(uint(o.ArenaChunkSize)) != 1 {
		fmt.Fprintf(&buf, "ArenaChunkSize (%d) must be a power of two\n", o.ArenaChunkSize)
	}
	if buf.Len() == 0 {
		return nil
	}
	return errors.Mark(errors.New(strings.TrimSuffix(buf.String(), "\n")), ErrInvalidConfig)
}

// String returns a description of the options, one per line.
func (o *Options) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "[Options]\n")
	fmt.Fprintf(&buf, "  fan_out=%d\n", o.FanOut)
	fmt.Fprintf(&buf, "  node_capacity=%d\n", 2*o.FanOut)
	fmt.Fprintf(&buf, "  arena_chunk_size=%d\n", o.ArenaChunkSize)
	fmt.Fprintf(&buf, "  latch_wait_latency=%t\n", o.LatchWaitLatency != nil)
	return buf.String()
}
