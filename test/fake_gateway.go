package test

import (
	"context"
	"fmt"
	"sync"

	"github.com/threagile/editor-e2e/pkg/harness"
	"github.com/threagile/editor-e2e/pkg/snapshot"
)

// FakeGateway is an in-memory harness.Gateway. Mutation helpers record an
// undo entry so Undo behaves like the editor's undo manager.
type FakeGateway struct {
	mu        sync.Mutex
	model     any
	history   []any
	mutations int
	failNext  error
	// FetchErr, when set, is returned by every FetchSnapshot call.
	FetchErr error
}

// NewFakeGateway creates a gateway serving model. It panics when model is
// not JSON-compatible.
func NewFakeGateway(model any) *FakeGateway {
	root, err := snapshot.Normalize(model)
	if err != nil {
		panic(err)
	}
	return &FakeGateway{model: root}
}

func (f *FakeGateway) FetchSnapshot(ctx context.Context) (snapshot.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FetchErr != nil {
		return snapshot.Snapshot{}, f.FetchErr
	}
	return snapshot.New(f.model)
}

func (f *FakeGateway) PerformUIMutation(ctx context.Context, action harness.Action) error {
	f.mu.Lock()
	f.mutations++
	err := f.failNext
	f.failNext = nil
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return action(ctx)
}

// Mutations returns how many actions went through PerformUIMutation.
func (f *FakeGateway) Mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutations
}

// FailNextMutation makes the next PerformUIMutation return err without
// running its action.
func (f *FakeGateway) FailNextMutation(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext = err
}

// Set replaces the value at p.
func (f *FakeGateway) Set(p snapshot.Path, v any) harness.Action {
	return f.mutate(func(root any) (any, error) {
		nv, err := snapshot.Normalize(v)
		if err != nil {
			return nil, err
		}
		return setAt(root, p, nv)
	})
}

// Append adds v to the sequence at p, creating it when missing.
func (f *FakeGateway) Append(p snapshot.Path, v any) harness.Action {
	return f.mutate(func(root any) (any, error) {
		nv, err := snapshot.Normalize(v)
		if err != nil {
			return nil, err
		}
		cur, _ := snapshot.Resolve(root, p)
		list, _ := cur.([]any)
		return setAt(root, p, append(append([]any{}, list...), nv))
	})
}

// Delete removes the mapping key or sequence item at p.
func (f *FakeGateway) Delete(p snapshot.Path) harness.Action {
	return f.mutate(func(root any) (any, error) {
		if len(p) == 0 {
			return nil, fmt.Errorf("cannot delete the root")
		}
		parent, ok := snapshot.Resolve(root, p.Parent())
		if !ok {
			return nil, fmt.Errorf("path %s does not resolve", p.Parent())
		}
		switch c := parent.(type) {
		case map[string]any:
			key, _ := p.Last().(string)
			if _, found := c[key]; !found {
				return nil, fmt.Errorf("path %s does not resolve", p)
			}
			delete(c, key)
			return root, nil
		case []any:
			idx, isInt := p.Last().(int)
			if !isInt || idx < 0 || idx >= len(c) {
				return nil, fmt.Errorf("path %s does not resolve", p)
			}
			list := append(append([]any{}, c[:idx]...), c[idx+1:]...)
			return setAt(root, p.Parent(), list)
		default:
			return nil, fmt.Errorf("path %s does not resolve", p)
		}
	})
}

// RenameKey moves the entry old of the mapping at parent to renamed.
func (f *FakeGateway) RenameKey(parent snapshot.Path, old, renamed string) harness.Action {
	return f.mutate(func(root any) (any, error) {
		cur, _ := snapshot.Resolve(root, parent)
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("path %s is not a mapping", parent)
		}
		v, found := m[old]
		if !found {
			return nil, fmt.Errorf("key %q not found at %s", old, parent)
		}
		delete(m, old)
		m[renamed] = v
		return root, nil
	})
}

// Undo reverts the last mutation made through a helper.
func (f *FakeGateway) Undo() harness.Action {
	return func(context.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		if len(f.history) == 0 {
			return nil
		}
		f.model = f.history[len(f.history)-1]
		f.history = f.history[:len(f.history)-1]
		return nil
	}
}

func (f *FakeGateway) mutate(fn func(root any) (any, error)) harness.Action {
	return func(context.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		saved, err := snapshot.Normalize(f.model)
		if err != nil {
			return err
		}
		work, err := snapshot.Normalize(f.model)
		if err != nil {
			return err
		}
		root, err := fn(work)
		if err != nil {
			return err
		}
		f.history = append(f.history, saved)
		f.model = root
		return nil
	}
}

func setAt(root any, p snapshot.Path, v any) (any, error) {
	if len(p) == 0 {
		return v, nil
	}
	parent, ok := snapshot.Resolve(root, p.Parent())
	if !ok {
		return nil, fmt.Errorf("path %s does not resolve", p.Parent())
	}
	switch c := parent.(type) {
	case map[string]any:
		key, isString := p.Last().(string)
		if !isString {
			return nil, fmt.Errorf("path %s: mapping needs a string key", p)
		}
		c[key] = v
	case []any:
		idx, isInt := p.Last().(int)
		if !isInt || idx < 0 || idx >= len(c) {
			return nil, fmt.Errorf("path %s: index out of range", p)
		}
		c[idx] = v
	default:
		return nil, fmt.Errorf("path %s: parent is not a collection", p)
	}
	return root, nil
}

var _ harness.Gateway = (*FakeGateway)(nil)
