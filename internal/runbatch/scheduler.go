// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/matt-FFFFFF/ncmbatch/internal/ctxlog"
	"github.com/matt-FFFFFF/ncmbatch/internal/progress"
	"github.com/matt-FFFFFF/ncmbatch/internal/workitem"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ErrDrained is the cause recorded for items left in the queue after a drain request.
var ErrDrained = errors.New("drain requested")

// ProcessFunc turns one item into its output artifact.
// It must honour ctx cancellation; the scheduler never abandons a running call.
type ProcessFunc func(ctx context.Context, item workitem.Item) (Output, error)

// Slot is a point-in-time view of one worker.
type Slot struct {
	Index  int
	Active *workitem.Item // nil when the slot is idle
}

// Scheduler runs batches of items with a fixed number of slots.
// A Scheduler runs one batch at a time; concurrent calls to Run are serialised.
type Scheduler struct {
	parallelism int
	reporter    progress.Reporter
	limiter     *rate.Limiter
	itemTimeout time.Duration
	drain       <-chan struct{}

	runMu sync.Mutex
	mu    sync.Mutex
	slots []Slot
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithParallelism sets the maximum number of items in flight. Values below one mean one.
func WithParallelism(n int) Option {
	return func(s *Scheduler) {
		s.parallelism = n
	}
}

// WithReporter sends progress events to r.
func WithReporter(r progress.Reporter) Option {
	return func(s *Scheduler) {
		s.reporter = r
	}
}

// WithRateLimit limits how many items may start per second. Zero or less disables the limit.
func WithRateLimit(perSecond float64) Option {
	return func(s *Scheduler) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}

		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithItemTimeout gives every item its own deadline. Zero or less disables it.
func WithItemTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.itemTimeout = d
	}
}

// WithDrain stops dispatching new items once ch is closed. Items already running finish normally.
func WithDrain(ch <-chan struct{}) Option {
	return func(s *Scheduler) {
		s.drain = ch
	}
}

// New creates a Scheduler. Without options it processes items one at a time.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{parallelism: 1}

	for _, opt := range opts {
		opt(s)
	}

	if s.parallelism < 1 {
		s.parallelism = 1
	}

	if s.reporter == nil {
		s.reporter = progress.NewNullReporter()
	}

	return s
}

// Parallelism returns the configured number of slots.
func (s *Scheduler) Parallelism() int {
	return s.parallelism
}

// Run processes every item and returns once all of them reached a terminal state.
// Per-item failures never abort the batch.
func Run(ctx context.Context, items []workitem.Item, parallelism int, process ProcessFunc) Counters {
	return New(WithParallelism(parallelism)).Run(ctx, items, process).Counters
}

// Run processes every item and returns the counters, per-item results and elapsed time.
// An empty batch returns immediately without starting any worker.
func (s *Scheduler) Run(ctx context.Context, items []workitem.Item, process ProcessFunc) *Outcome {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if len(items) == 0 {
		return &Outcome{Results: Results{}}
	}

	start := time.Now()
	n := min(s.parallelism, len(items))
	logger := ctxlog.Logger(ctx).
		With("runnableType", "Scheduler").
		With("parallelism", n)

	s.resetSlots(n)
	reportRunStarted(s.reporter, len(items), n)
	logger.Debug("batch starting", "items", len(items))

	queue := make(chan int)
	results := make(chan *Result, n)

	var g errgroup.Group

	g.Go(func() error {
		s.feed(ctx, items, queue, results)
		return nil
	})

	for slot := range n {
		g.Go(func() error {
			for i := range queue {
				results <- s.runItem(ctx, slot, i, items[i], process)
			}

			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
	}()

	out := &Outcome{Results: make(Results, len(items))}

	for r := range results {
		out.Counters.add(r)
		out.Results[r.Index] = r
		reportItemFinished(s.reporter, r)

		logger.Debug("item finished",
			"item", r.Item.String(),
			"slot", r.Slot,
			"status", r.Status.String(),
			"error", r.Error)
	}

	out.Elapsed = time.Since(start)
	reportRunFinished(s.reporter, out.Counters, out.Elapsed)
	logger.Debug("batch finished",
		"success", out.Counters.Success,
		"failure", out.Counters.Failure,
		"elapsed", out.Elapsed)

	return out
}

// Slots returns a snapshot of the slots of the current or last run.
func (s *Scheduler) Slots() []Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Slot, len(s.slots))
	for i, sl := range s.slots {
		out[i] = Slot{Index: sl.Index}

		if sl.Active != nil {
			item := *sl.Active
			out[i].Active = &item
		}
	}

	return out
}

// feed hands item indices to the workers in queue order.
// Whatever is left when it stops is recorded as not dispatched.
func (s *Scheduler) feed(ctx context.Context, items []workitem.Item, queue chan<- int, results chan<- *Result) {
	var stop error

	i := 0

loop:
	for ; i < len(items); i++ {
		if stop = s.stopCause(ctx); stop != nil {
			break loop
		}

		if stop = s.pace(ctx); stop != nil {
			break loop
		}

		select {
		case queue <- i:
		case <-ctx.Done():
			stop = ctx.Err()
			break loop
		case <-s.drain:
			stop = ErrDrained
			break loop
		}
	}

	close(queue)

	for ; i < len(items); i++ {
		results <- &Result{
			Index:  i,
			Slot:   progress.NoSlot,
			Item:   items[i],
			Status: ResultStatusNotDispatched,
			Error:  fmt.Errorf("%w: %w", ErrNotDispatched, stop),
		}
	}
}

func (s *Scheduler) stopCause(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.drain:
		return ErrDrained
	default:
		return nil
	}
}

// pace blocks until the rate limiter allows another item to start.
func (s *Scheduler) pace(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}

	r := s.limiter.Reserve()

	d := r.Delay()
	if d == 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	case <-s.drain:
		r.Cancel()
		return ErrDrained
	}
}

func (s *Scheduler) runItem(ctx context.Context, slot, index int, item workitem.Item, process ProcessFunc) *Result {
	s.setActive(slot, &item)
	reportItemStarted(s.reporter, slot, item)

	itemCtx := progress.WithOutput(ctx, outputReporter(s.reporter, slot, item))

	if s.itemTimeout > 0 {
		var cancel context.CancelFunc

		itemCtx, cancel = context.WithTimeout(itemCtx, s.itemTimeout)
		defer cancel()
	}

	start := time.Now()
	out, err := safeProcess(itemCtx, process, item)

	res := &Result{
		Index:    index,
		Slot:     slot,
		Item:     item,
		Duration: time.Since(start),
		Status:   ResultStatusSuccess,
		Output:   out,
	}

	if err != nil {
		res.Status = ResultStatusError
		res.Error = err
		res.Output = Output{}
	}

	s.setActive(slot, nil)

	return res
}

// safeProcess converts a panic in process into an *ItemPanicError.
func safeProcess(ctx context.Context, process ProcessFunc, item workitem.Item) (out Output, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.Error(ctx, "item processing panicked", "item", item.String(), "panic", r)

			out = Output{}
			err = &ItemPanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	return process(ctx, item)
}

func (s *Scheduler) resetSlots(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots = make([]Slot, n)
	for i := range s.slots {
		s.slots[i].Index = i
	}
}

func (s *Scheduler) setActive(slot int, item *workitem.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[slot].Active = item
}
