// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package blink

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/blink/internal/base"
	"github.com/cockroachdb/crlib/crstrings"
	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

// parseKeys returns the integer keys listed in a datadriven input, any number
// per line.
func parseKeys(t *testing.T, input string) []int {
	var keys []int
	for _, line := range crstrings.Lines(input) {
		for _, f := range strings.Fields(line) {
			k, err := strconv.Atoi(f)
			require.NoError(t, err)
			keys = append(keys, k)
		}
	}
	return keys
}

func TestTreeDataDriven(t *testing.T) {
	var tr *Tree[int, string]
	var log base.InMemLogger
	datadriven.RunTest(t, "testdata/tree", func(t *testing.T, td *datadriven.TestData) string {
		switch td.Cmd {
		case "new":
			var fanOut int
			td.ScanArgs(t, "fan-out", &fanOut)
			log.Reset()
			el := MakeLoggingEventListener(&log)
			var err error
			tr, err = New[int, string](&Options{
				FanOut:        fanOut,
				Logger:        &log,
				EventListener: &el,
			})
			if err != nil {
				require.True(t, errors.Is(err, ErrInvalidConfig))
				return err.Error()
			}
			return ""

		case "insert":
			log.Reset()
			for _, k := range parseKeys(t, td.Input) {
				if err := tr.Insert(k, fmt.Sprintf("v%d", k)); err != nil {
					require.True(t, errors.Is(err, ErrDuplicateKey))
				}
			}
			return log.String()

		case "search":
			var buf strings.Builder
			for _, k := range parseKeys(t, td.Input) {
				if v, ok := tr.Search(k); ok {
					fmt.Fprintf(&buf, "%d: %s\n", k, v)
				} else {
					fmt.Fprintf(&buf, "%d: not found\n", k)
				}
			}
			return buf.String()

		case "scan":
			var start int
			limit := -1
			td.ScanArgs(t, "start", &start)
			td.MaybeScanArgs(t, "limit", &limit)
			var buf strings.Builder
			tr.Scan(start, func(k int, v string) bool {
				if limit == 0 {
					return false
				}
				limit--
				fmt.Fprintf(&buf, "%d: %s\n", k, v)
				return true
			})
			return buf.String()

		case "remove":
			var buf strings.Builder
			for _, k := range parseKeys(t, td.Input) {
				err := tr.Remove(k)
				require.True(t, errors.Is(err, ErrUnsupported))
				fmt.Fprintf(&buf, "%d: %v\n", k, err)
			}
			return buf.String()

		case "print":
			return tr.String()

		case "check":
			if err := tr.Check(); err != nil {
				return err.Error()
			}
			return "ok"

		default:
			return fmt.Sprintf("unknown command: %s", td.Cmd)
		}
	})
}
