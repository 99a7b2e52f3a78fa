package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type queue[T any] []T

func (q *queue[T]) Len() int { return len(*q) }

func (q *queue[T]) Pop() T {
	old := *q
	x := old[0]
	*q = old[1:]
	return x
}

func (q *queue[T]) Push(t T) {
	*q = append(*q, t)
}

type request[T any] struct {
	name string
	fn   Work[T]
	c    chan Result[T]
	ctx  context.Context
}

// Scheduler runs submitted work on a fixed number of workers, in
// submission order.
type Scheduler[T any] struct {
	free       int
	pending    *queue[request[T]]
	submit     chan request[T]
	released   chan struct{}
	closing    chan struct{}
	stopped    chan struct{}
	mainCtx    context.Context
	mainCancel context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func New[T any](workers int) *Scheduler[T] {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler[T]{
		free:       workers,
		pending:    &queue[request[T]]{},
		submit:     make(chan request[T]),
		released:   make(chan struct{}, workers),
		closing:    make(chan struct{}),
		stopped:    make(chan struct{}),
		mainCtx:    ctx,
		mainCancel: cancel,
	}
	go s.run()
	return s
}

// Submit queues w under name and returns its future immediately.
func (s *Scheduler[T]) Submit(name string, w Work[T]) *Future[T] {
	c := make(chan Result[T], 1)
	ctx, cancel := context.WithCancel(s.mainCtx)

	select {
	case <-s.mainCtx.Done():
		c <- Result[T]{Name: name, Err: context.Canceled}
	case s.submit <- request[T]{name: name, fn: w, c: c, ctx: ctx}:
	}
	return newFuture(name, c, cancel)
}

// Close cancels all work, fails what is still queued and waits for running
// work to return. It is safe to call more than once.
func (s *Scheduler[T]) Close() {
	s.once.Do(func() {
		s.mainCancel()
		close(s.closing)
		<-s.stopped
	})
}

func (s *Scheduler[T]) run() {
	defer close(s.stopped)
	for {
		select {
		case r := <-s.submit:
			s.pending.Push(r)
			s.dispatch()
		case <-s.released:
			s.free++
			s.dispatch()
		case <-s.closing:
			for s.pending.Len() > 0 {
				r := s.pending.Pop()
				r.c <- Result[T]{Name: r.name, Err: context.Canceled}
			}
			s.wg.Wait()
			return
		}
	}
}

// dispatch starts queued work while workers are free.
func (s *Scheduler[T]) dispatch() {
	for s.free > 0 && s.pending.Len() > 0 {
		r := s.pending.Pop()
		s.free--
		s.wg.Add(1)
		go s.work(r)
	}
}

func (s *Scheduler[T]) work(r request[T]) {
	started := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			zap.S().Named("scheduler").Errorw("work panicked", "work", r.name, "panic", rec)
			r.c <- Result[T]{Name: r.name, Err: fmt.Errorf("work %s panicked: %v", r.name, rec), Duration: time.Since(started)}
		}
		s.released <- struct{}{}
		s.wg.Done()
	}()

	v, err := r.fn(r.ctx)
	r.c <- Result[T]{Name: r.name, Data: v, Err: err, Duration: time.Since(started)}
}

// Collect waits for every future and returns the results in the order of
// futures. When ctx ends first, the remaining futures are stopped and
// ctx.Err() is returned with the results gathered so far.
func Collect[T any](ctx context.Context, futures ...*Future[T]) ([]Result[T], error) {
	out := make([]Result[T], 0, len(futures))
	for i, f := range futures {
		select {
		case r := <-f.C():
			out = append(out, r)
		case <-ctx.Done():
			for _, rest := range futures[i:] {
				rest.Stop()
			}
			return out, ctx.Err()
		}
	}
	return out, nil
}
