package scheduler

import (
	"context"
	"time"
)

// Work is one unit of work. It must return when ctx is cancelled.
type Work[T any] func(ctx context.Context) (T, error)

// Result is what a Work produced, tagged with the name it was submitted
// under.
type Result[T any] struct {
	Name     string
	Data     T
	Err      error
	Duration time.Duration
}

// Future delivers exactly one Result.
type Future[T any] struct {
	name   string
	input  chan Result[T]
	cancel context.CancelFunc
}

func newFuture[T any](name string, input chan Result[T], cancel context.CancelFunc) *Future[T] {
	return &Future[T]{name: name, input: input, cancel: cancel}
}

func (f *Future[T]) Name() string {
	return f.name
}

func (f *Future[T]) C() <-chan Result[T] {
	return f.input
}

// Stop cancels the work's context. The result is still delivered.
func (f *Future[T]) Stop() {
	f.cancel()
}
