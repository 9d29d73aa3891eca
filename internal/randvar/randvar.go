// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package randvar provides the random variables that drive the blink
// benchmark's key choice.
package randvar // import "github.com/cockroachdb/blink/internal/randvar"

import (
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/rand"
)

// Static models a random variable that pulls from a distribution with static
// bounds.
type Static interface {
	Uint64() uint64
}

// NewRand creates a new random number generator seeded with the current
// time.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
}

func ensureRand(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return NewRand()
}

// Sequential returns min, min+1, ... max and then wraps around to min. It is
// safe for concurrent use.
type Sequential struct {
	min, span uint64
	next      atomic.Uint64
}

// NewSequential constructs a Sequential variable over [min, max].
func NewSequential(min, max uint64) *Sequential {
	return &Sequential{min: min, span: max - min + 1}
}

// Uint64 returns the next value of the sequence.
func (s *Sequential) Uint64() uint64 {
	v := s.next.Add(1) - 1
	if s.span != 0 {
		v %= s.span
	}
	return s.min + v
}

var specRE = regexp.MustCompile(`^(?:(uniform|zipf|seq):)?(\d+)(?:-(\d+))?$`)

// Parse parses the specification of a random variable:
// [<type>:]<min>[-<max>]. The type is one of "uniform", "zipf" or "seq" and
// defaults to uniform. If max is omitted the variable is the constant min.
func Parse(spec string) (Static, error) {
	m := specRE.FindStringSubmatch(strings.ToLower(spec))
	if m == nil {
		return nil, errors.Newf("invalid random variable spec: %q", spec)
	}
	min, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid random variable spec: %q", spec)
	}
	max := min
	if m[3] != "" {
		if max, err = strconv.ParseUint(m[3], 10, 64); err != nil {
			return nil, errors.Wrapf(err, "invalid random variable spec: %q", spec)
		}
	}
	if min > max {
		return nil, errors.Newf("invalid random variable spec: %q: min %d > max %d", spec, min, max)
	}
	switch m[1] {
	case "", "uniform":
		return NewUniform(nil, min, max), nil
	case "zipf":
		return NewZipf(nil, min, max, defaultTheta)
	default:
		return NewSequential(min, max), nil
	}
}

// Flag provides a command line flag interface for specifying static random
// variables.
type Flag struct {
	Static
	spec string
}

// NewFlag creates a new Flag initialized with the specified spec.
func NewFlag(spec string) *Flag {
	f := &Flag{}
	if err := f.Set(spec); err != nil {
		panic(err)
	}
	return f
}

func (f *Flag) String() string {
	return f.spec
}

// Type implements the pflag.Value interface.
func (f *Flag) Type() string {
	return "randvar"
}

// Set implements the pflag.Value interface.
func (f *Flag) Set(spec string) error {
	s, err := Parse(spec)
	if err != nil {
		return err
	}
	f.spec = spec
	f.Static = s
	return nil
}
