package modeldiff

import (
	"fmt"

	"github.com/threagile/editor-e2e/pkg/errors"
	"github.com/threagile/editor-e2e/pkg/snapshot"
)

// Change is the expected effect of one mutation: the direction the value at
// Path moves in, and for element checks the element concerned.
type Change struct {
	Path      snapshot.Path
	Direction Direction
	Element   any
}

// Evaluate checks the change against a before/after pair.
func (c Change) Evaluate(before, after snapshot.Snapshot) error {
	switch c.Direction {
	case DirectionIncreased:
		return AssertIncreased(before, after, c.Path)
	case DirectionDecreased:
		return AssertDecreased(before, after, c.Path)
	case DirectionUnchanged:
		return AssertUnchanged(before, after, c.Path)
	case DirectionElementPresent:
		return AssertElementPresent(after, c.Path, c.Element)
	case DirectionElementAbsent:
		return AssertElementAbsent(after, c.Path, c.Element)
	default:
		return fmt.Errorf("unknown change direction %q", c.Direction)
	}
}

// Assertion inspects a before/after pair and returns nil on success.
type Assertion func(before, after snapshot.Snapshot) error

func Increased(p snapshot.Path) Assertion {
	return Change{Path: p, Direction: DirectionIncreased}.Evaluate
}

func Decreased(p snapshot.Path) Assertion {
	return Change{Path: p, Direction: DirectionDecreased}.Evaluate
}

func Unchanged(p snapshot.Path) Assertion {
	return Change{Path: p, Direction: DirectionUnchanged}.Evaluate
}

// DecreasedBy expects exactly n elements to be removed at p.
func DecreasedBy(p snapshot.Path, n int) Assertion {
	return func(before, after snapshot.Snapshot) error {
		return AssertDecreasedBy(before, after, p, n)
	}
}

// Contains checks the after snapshot only.
func Contains(p snapshot.Path, element any) Assertion {
	return Change{Path: p, Direction: DirectionElementPresent, Element: element}.Evaluate
}

// NotContains checks the after snapshot only.
func NotContains(p snapshot.Path, element any) Assertion {
	return Change{Path: p, Direction: DirectionElementAbsent, Element: element}.Evaluate
}

// Equals expects the value at p to be want after the mutation.
func Equals(p snapshot.Path, want any) Assertion {
	return func(_, after snapshot.Snapshot) error {
		return AssertValue(after, p, want)
	}
}

// HasKey expects the mapping at p to have key after the mutation.
func HasKey(p snapshot.Path, key string) Assertion {
	return func(_, after snapshot.Snapshot) error {
		return AssertKeyPresent(after, p, key)
	}
}

// KeysRemovedSubset expects every key left in the mapping at p to have been
// there before the mutation.
func KeysRemovedSubset(p snapshot.Path) Assertion {
	return func(before, after snapshot.Snapshot) error {
		initial := make(map[string]struct{})
		for _, k := range before.Keys(p) {
			initial[k] = struct{}{}
		}
		var diffs []errors.Difference
		for _, k := range after.Keys(p) {
			if _, ok := initial[k]; ok {
				continue
			}
			v, _ := after.Resolve(p.Append(k))
			diffs = append(diffs, errors.Difference{Path: p.Append(k).String(), After: v, Kind: "added"})
		}
		if len(diffs) > 0 {
			return errors.NewSnapshotDifferenceError(diffs)
		}
		return nil
	}
}

// UnchangedExcept expects the whole model to be equal apart from the
// subtrees at paths.
func UnchangedExcept(paths ...snapshot.Path) Assertion {
	return func(before, after snapshot.Snapshot) error {
		return AssertRestored(before, after, Excluding(paths...))
	}
}

// All runs every assertion in order and stops at the first failure.
func All(assertions ...Assertion) Assertion {
	return func(before, after snapshot.Snapshot) error {
		for _, a := range assertions {
			if err := a(before, after); err != nil {
				return err
			}
		}
		return nil
	}
}
