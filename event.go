// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package blink

import "github.com/cockroachdb/redact"

// SplitInfo contains the info for a node split event.
type SplitInfo struct {
	// Level is the level of the node that split. Leaves are level 0.
	Level int
	// Left and Right are the number of fields retained by the original node
	// and moved to the new right sibling, respectively.
	Left, Right int
	// Root is true if the node that split was the root of the tree.
	Root bool
}

func (i SplitInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i SplitInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	kind := redact.SafeString("internal")
	if i.Level == 0 {
		kind = "leaf"
	}
	w.Printf("%s node split at L%d: %d + %d fields", kind, redact.Safe(i.Level),
		redact.Safe(i.Left), redact.Safe(i.Right))
	if i.Root {
		w.SafeString(" (root)")
	}
}

// RootGrowthInfo contains the info for a root growth event.
type RootGrowthInfo struct {
	// Height is the height of the tree after the new root was installed.
	Height int
}

func (i RootGrowthInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i RootGrowthInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("root grown: height %d", redact.Safe(i.Height))
}

// DuplicateKeyInfo contains the info for a rejected duplicate insert.
type DuplicateKeyInfo struct {
	// Key is the key that was already present. It is user data and is
	// redacted when formatted.
	Key interface{}
}

func (i DuplicateKeyInfo) String() string {
	return redact.StringWithoutMarkers(i)
}

// SafeFormat implements redact.SafeFormatter.
func (i DuplicateKeyInfo) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("duplicate key %v ignored", i.Key)
}

// EventListener contains a set of functions that will be invoked when various
// significant tree events occur. Note that the functions should not run for
// an excessive amount of time as they are invoked synchronously while node
// latches are held. Implementations may not call back into the tree.
type EventListener struct {
	// NodeSplit is invoked after a node has been split, before the new
	// separator is installed in the parent.
	NodeSplit func(SplitInfo)

	// RootGrowth is invoked after a new, taller root has been published.
	RootGrowth func(RootGrowthInfo)

	// DuplicateKey is invoked when Insert rejects a key that is already
	// present.
	DuplicateKey func(DuplicateKeyInfo)
}

// EnsureDefaults ensures that duplicate keys are logged by default and that
// the other callbacks are non-nil.
func (l *EventListener) EnsureDefaults(logger Logger) {
	if l.NodeSplit == nil {
		l.NodeSplit = func(info SplitInfo) {}
	}
	if l.RootGrowth == nil {
		l.RootGrowth = func(info RootGrowthInfo) {}
	}
	if l.DuplicateKey == nil {
		if logger != nil {
			l.DuplicateKey = func(info DuplicateKeyInfo) {
				logger.Infof("%s", info)
			}
		} else {
			l.DuplicateKey = func(info DuplicateKeyInfo) {}
		}
	}
}

// MakeLoggingEventListener creates an EventListener that logs all events to
// the specified logger.
func MakeLoggingEventListener(logger Logger) EventListener {
	if logger == nil {
		logger = DefaultLogger{}
	}
	return EventListener{
		NodeSplit: func(info SplitInfo) {
			logger.Infof("%s", info)
		},
		RootGrowth: func(info RootGrowthInfo) {
			logger.Infof("%s", info)
		},
		DuplicateKey: func(info DuplicateKeyInfo) {
			logger.Infof("%s", info)
		},
	}
}

// TeeEventListener wraps two EventListeners, forwarding all events to both.
func TeeEventListener(a, b EventListener) EventListener {
	a.EnsureDefaults(nil)
	b.EnsureDefaults(nil)
	return EventListener{
		NodeSplit: func(info SplitInfo) {
			a.NodeSplit(info)
			b.NodeSplit(info)
		},
		RootGrowth: func(info RootGrowthInfo) {
			a.RootGrowth(info)
			b.RootGrowth(info)
		},
		DuplicateKey: func(info DuplicateKeyInfo) {
			a.DuplicateKey(info)
			b.DuplicateKey(info)
		},
	}
}
