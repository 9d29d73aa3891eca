// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/blink"
	"github.com/cockroachdb/blink/internal/base"
	"github.com/cockroachdb/blink/internal/rate"
	"github.com/cockroachdb/errors"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"golang.org/x/sync/errgroup"
)

const (
	minLatency = 100 * time.Nanosecond
	maxLatency = 10 * time.Second
)

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(minLatency.Nanoseconds(), maxLatency.Nanoseconds(), 1)
}

type namedHistogram struct {
	name string
	mu   struct {
		sync.Mutex
		current *hdrhistogram.Histogram
	}
}

func newNamedHistogram(name string) *namedHistogram {
	w := &namedHistogram{name: name}
	w.mu.current = newHistogram()
	return w
}

func (w *namedHistogram) Record(elapsed time.Duration) {
	if elapsed < minLatency {
		elapsed = minLatency
	} else if elapsed > maxLatency {
		elapsed = maxLatency
	}

	w.mu.Lock()
	err := w.mu.current.RecordValue(elapsed.Nanoseconds())
	w.mu.Unlock()

	if err != nil {
		// The value is clamped to the histogram's range above, so this cannot
		// happen.
		panic(fmt.Sprintf(`%s: recording value: %s`, w.name, err))
	}
}

func (w *namedHistogram) tick(fn func(h *hdrhistogram.Histogram)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	h := w.mu.current
	w.mu.current = newHistogram()
	fn(h)
}

type histogramTick struct {
	// Name is the name given to the histograms represented by this tick.
	Name string
	// Hist is the merged result of the represented histograms for this tick.
	// Hist.TotalCount() is the number of operations that occurred for this tick.
	Hist *hdrhistogram.Histogram
	// Cumulative is the merged result of the represented histograms for all
	// time.
	Cumulative *hdrhistogram.Histogram
	// Elapsed is the amount of time since the last tick.
	Elapsed time.Duration
}

type histogramRegistry struct {
	mu struct {
		sync.Mutex
		registered []*namedHistogram
	}

	start      time.Time
	cumulative map[string]*hdrhistogram.Histogram
	prevTick   map[string]time.Time
	// throughput holds the total ops/sec of every tick, for plotting.
	throughput []float64
}

func newHistogramRegistry() *histogramRegistry {
	return &histogramRegistry{
		start:      time.Now(),
		cumulative: make(map[string]*hdrhistogram.Histogram),
		prevTick:   make(map[string]time.Time),
	}
}

func (w *histogramRegistry) Register(name string) *namedHistogram {
	hist := newNamedHistogram(name)

	w.mu.Lock()
	w.mu.registered = append(w.mu.registered, hist)
	w.mu.Unlock()

	return hist
}

func (w *histogramRegistry) Tick(fn func(histogramTick)) {
	w.mu.Lock()
	registered := append([]*namedHistogram(nil), w.mu.registered...)
	w.mu.Unlock()

	merged := make(map[string]*hdrhistogram.Histogram)
	var names []string
	for _, hist := range registered {
		hist.tick(func(h *hdrhistogram.Histogram) {
			if m, ok := merged[hist.name]; ok {
				m.Merge(h)
			} else {
				merged[hist.name] = h
				names = append(names, hist.name)
			}
		})
	}

	now := time.Now()
	sort.Strings(names)
	var opsPerSec float64
	for _, name := range names {
		mergedHist := merged[name]
		if _, ok := w.cumulative[name]; !ok {
			w.cumulative[name] = newHistogram()
		}
		w.cumulative[name].Merge(mergedHist)

		prevTick, ok := w.prevTick[name]
		if !ok {
			prevTick = w.start
		}
		w.prevTick[name] = now
		tick := histogramTick{
			Name:       name,
			Hist:       mergedHist,
			Cumulative: w.cumulative[name],
			Elapsed:    now.Sub(prevTick),
		}
		opsPerSec += float64(mergedHist.TotalCount()) / tick.Elapsed.Seconds()
		fn(tick)
	}
	w.throughput = append(w.throughput, opsPerSec)
}

func ms(v int64) float64 {
	return time.Duration(v).Seconds() * 1000
}

// printTick prints one line per histogram for the last interval, with a
// header every 20 ticks.
func (w *histogramRegistry) printTick(elapsed time.Duration, i int) {
	if i%20 == 0 {
		fmt.Println("____optype__elapsed_____ops/sec__p50(ms)__p95(ms)__p99(ms)_pMax(ms)")
	}
	w.Tick(func(tick histogramTick) {
		h := tick.Hist
		fmt.Printf("%10s %8s %11.1f %8.3f %8.3f %8.3f %8.3f\n",
			tick.Name,
			time.Duration(elapsed.Seconds()+0.5)*time.Second,
			float64(h.TotalCount())/tick.Elapsed.Seconds(),
			ms(h.ValueAtQuantile(50)),
			ms(h.ValueAtQuantile(95)),
			ms(h.ValueAtQuantile(99)),
			ms(h.ValueAtQuantile(100)))
	})
}

// printSummary renders the cumulative histograms as a table.
func (w *histogramRegistry) printSummary(elapsed time.Duration) {
	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{"optype", "ops", "ops/sec", "avg(ms)", "p50(ms)", "p95(ms)", "p99(ms)", "pMax(ms)"})
	w.Tick(func(tick histogramTick) {
		h := tick.Cumulative
		tbl.Append([]string{
			tick.Name,
			fmt.Sprintf("%d", h.TotalCount()),
			fmt.Sprintf("%.1f", float64(h.TotalCount())/elapsed.Seconds()),
			fmt.Sprintf("%.3f", h.Mean()/1e6),
			fmt.Sprintf("%.3f", ms(h.ValueAtQuantile(50))),
			fmt.Sprintf("%.3f", ms(h.ValueAtQuantile(95))),
			fmt.Sprintf("%.3f", ms(h.ValueAtQuantile(99))),
			fmt.Sprintf("%.3f", ms(h.ValueAtQuantile(100))),
		})
	})
	tbl.Render()
}

// plotThroughput returns an ASCII chart of the per-tick throughput.
func (w *histogramRegistry) plotThroughput() string {
	if len(w.throughput) == 0 {
		return ""
	}
	return asciigraph.Plot(w.throughput,
		asciigraph.Height(10),
		asciigraph.Caption("ops/sec"))
}

type tree = blink.Tree[uint64, uint64]

// workload is a benchmark: init starts the workers in g, which must return
// once ctx is done; tick and done report progress.
type workload struct {
	init func(ctx context.Context, t *tree, g *errgroup.Group)
	tick func(elapsed time.Duration, i int)
	done func(elapsed time.Duration) error
}

// opBudget hands out the operations allowed by --num-ops and paces them per
// --max-ops-per-sec.
type opBudget struct {
	limiter *rate.Limiter
	issued  atomic.Uint64
}

func newOpBudget() *opBudget {
	return &opBudget{limiter: rate.NewLimiter(maxOpsPerSec, 1)}
}

// next blocks until the next operation may run. It returns false once the
// budget is exhausted or ctx is done.
func (b *opBudget) next(ctx context.Context) bool {
	if numOps > 0 && b.issued.Add(1) > numOps {
		return false
	}
	return b.limiter.Wait(ctx, 1) == nil
}

func newTree() (*tree, prometheus.Histogram, error) {
	latchWaits := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "blink",
		Name:      "latch_wait_seconds",
		Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
	})
	opts := &blink.Options{
		FanOut:           fanOut,
		LatchWaitLatency: latchWaits,
	}
	if verbose {
		el := blink.MakeLoggingEventListener(nil)
		opts.EventListener = &el
	} else {
		// Duplicates are expected with random keys; don't log each one.
		opts.Logger = base.NoopLogger{}
	}
	t, err := blink.New[uint64, uint64](opts)
	return t, latchWaits, err
}

func runTest(w workload) error {
	t, latchWaits, err := newTree()
	if err != nil {
		return err
	}
	fmt.Printf("concurrency %d\n%s", concurrency, t.Options())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	w.init(gCtx, t, g)

	workersDone := make(chan error, 1)
	go func() {
		workersDone <- g.Wait()
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	start := time.Now()
	for i := 0; ; i++ {
		select {
		case <-ticker.C:
			w.tick(time.Since(start), i)
			continue
		case <-ctx.Done():
			cancel()
			err = <-workersDone
		case err = <-workersDone:
		}
		break
	}
	elapsed := time.Since(start)
	if err != nil {
		return err
	}
	if err := w.done(elapsed); err != nil {
		return err
	}

	fmt.Printf("\n%s", t.Metrics().String())
	metric := &dto.Metric{}
	if err := latchWaits.Write(metric); err != nil {
		return err
	}
	if h := metric.GetHistogram(); h.GetSampleCount() > 0 {
		fmt.Printf("latch wait: %d waits, avg %.3fms\n",
			h.GetSampleCount(), 1000*h.GetSampleSum()/float64(h.GetSampleCount()))
	}
	if err := t.Check(); err != nil {
		return errors.Wrap(err, "tree check failed")
	}
	return nil
}
