package harness

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/threagile/editor-e2e/pkg/modeldiff"
	"github.com/threagile/editor-e2e/pkg/snapshot"
)

// Action is one side-effecting interaction with the editor. It returns once
// the visible effects of the interaction have settled.
type Action func(ctx context.Context) error

// SnapshotFunc captures the current model.
type SnapshotFunc func(ctx context.Context) (snapshot.Snapshot, error)

// Gateway is the boundary to the driven editor. Each test group owns its own
// Gateway; implementations are not expected to be safe for concurrent use.
type Gateway interface {
	// FetchSnapshot returns the model as it is at call time.
	FetchSnapshot(ctx context.Context) (snapshot.Snapshot, error)
	// PerformUIMutation runs action against the editor.
	PerformUIMutation(ctx context.Context, action Action) error
}

// WithMutation captures before, runs mutate, captures after and applies
// assertion, in that order. Nothing is retried and errors from the callbacks
// are returned as they are.
func WithMutation(ctx context.Context, beforeFn SnapshotFunc, mutateFn Action, afterFn SnapshotFunc, assertion modeldiff.Assertion) error {
	_, _, err := withMutation(ctx, beforeFn, mutateFn, afterFn, assertion)
	return err
}

func withMutation(ctx context.Context, beforeFn SnapshotFunc, mutateFn Action, afterFn SnapshotFunc, assertion modeldiff.Assertion) (before, after snapshot.Snapshot, err error) {
	before, err = beforeFn(ctx)
	if err != nil {
		return
	}
	if err = mutateFn(ctx); err != nil {
		return
	}
	after, err = afterFn(ctx)
	if err != nil {
		return
	}
	if assertion != nil {
		err = assertion(before, after)
	}
	return
}

// Outcome describes one finished step.
type Outcome struct {
	Step     string
	Before   snapshot.Snapshot
	After    snapshot.Snapshot
	Err      error
	Started  time.Time
	Duration time.Duration
}

// Observer receives every step outcome, failed or not.
type Observer func(Outcome)

// Harness pairs actions and assertions against one Gateway.
type Harness struct {
	gw        Gateway
	observers []Observer
}

func New(gw Gateway) *Harness {
	return &Harness{gw: gw}
}

// Observe registers o for every following step.
func (h *Harness) Observe(o Observer) *Harness {
	h.observers = append(h.observers, o)
	return h
}

// Gateway returns the gateway the harness is bound to.
func (h *Harness) Gateway() Gateway {
	return h.gw
}

// Snapshot fetches the current model.
func (h *Harness) Snapshot(ctx context.Context) (snapshot.Snapshot, error) {
	return h.gw.FetchSnapshot(ctx)
}

// Expect performs action through the gateway and checks every assertion
// against the snapshots taken around it.
func (h *Harness) Expect(ctx context.Context, step string, action Action, assertions ...modeldiff.Assertion) error {
	started := time.Now()
	before, after, err := withMutation(ctx, h.gw.FetchSnapshot, h.perform(action), h.gw.FetchSnapshot, modeldiff.All(assertions...))
	h.notify(Outcome{Step: step, Before: before, After: after, Err: err, Started: started, Duration: time.Since(started)})
	return err
}

// Roundtrip is a mutation that is undone afterwards.
type Roundtrip struct {
	Mutate Action
	// Check runs against the initial and the mutated snapshot. Nil skips it.
	Check   modeldiff.Assertion
	Undo    Action
	Options []modeldiff.Option
}

// ExpectRestored keeps the initial snapshot, runs the mutation and its
// check, undoes it and requires the final snapshot to equal the initial one.
func (h *Harness) ExpectRestored(ctx context.Context, step string, rt Roundtrip) error {
	started := time.Now()
	initial, mutated, err := withMutation(ctx, h.gw.FetchSnapshot, h.perform(rt.Mutate), h.gw.FetchSnapshot, rt.Check)
	if err != nil {
		h.notify(Outcome{Step: step, Before: initial, After: mutated, Err: err, Started: started, Duration: time.Since(started)})
		return err
	}

	kept := func(context.Context) (snapshot.Snapshot, error) { return initial, nil }
	restored := func(initial, final snapshot.Snapshot) error {
		return modeldiff.AssertRestored(initial, final, rt.Options...)
	}
	_, final, err := withMutation(ctx, kept, h.perform(rt.Undo), h.gw.FetchSnapshot, restored)
	h.notify(Outcome{Step: step, Before: initial, After: final, Err: err, Started: started, Duration: time.Since(started)})
	return err
}

func (h *Harness) perform(action Action) Action {
	return func(ctx context.Context) error {
		return h.gw.PerformUIMutation(ctx, action)
	}
}

func (h *Harness) notify(o Outcome) {
	if o.Err != nil {
		zap.S().Named("harness").Debugw("step failed", "step", o.Step, "error", o.Err, "duration", o.Duration)
	} else {
		zap.S().Named("harness").Debugw("step passed", "step", o.Step, "duration", o.Duration)
	}
	for _, obs := range h.observers {
		obs(o)
	}
}
