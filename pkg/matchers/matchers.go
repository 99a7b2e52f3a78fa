// Package matchers provides gomega matchers over editor model snapshots.
//
//	Expect(after).To(matchers.HaveLength(tags, 3))
//	Expect(after).To(matchers.ResolveTo(title, "foo"))
//	Expect(after).To(matchers.BeAbsentAt(links.Append("link1")))
//	Expect(final).To(matchers.BeRestoredFrom(initial))
//
// The actual value may be a snapshot.Snapshot or any JSON-compatible value.
package matchers

import (
	"fmt"

	"github.com/onsi/gomega/format"
	"github.com/onsi/gomega/types"

	"github.com/threagile/editor-e2e/pkg/modeldiff"
	"github.com/threagile/editor-e2e/pkg/snapshot"
)

func toSnapshot(actual any) (snapshot.Snapshot, error) {
	switch v := actual.(type) {
	case snapshot.Snapshot:
		return v, nil
	case *snapshot.Snapshot:
		if v == nil {
			return snapshot.Snapshot{}, fmt.Errorf("expected a snapshot, got nil")
		}
		return *v, nil
	default:
		s, err := snapshot.New(actual)
		if err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("expected a snapshot or JSON-compatible value, got %T: %w", actual, err)
		}
		return s, nil
	}
}

// HaveLength succeeds when the collection at p has n elements.
func HaveLength(p snapshot.Path, n int) types.GomegaMatcher {
	return &lengthMatcher{path: p, expected: n}
}

type lengthMatcher struct {
	path     snapshot.Path
	expected int
	actual   int
}

func (m *lengthMatcher) Match(actual any) (bool, error) {
	s, err := toSnapshot(actual)
	if err != nil {
		return false, err
	}
	m.actual = modeldiff.LengthOf(s, m.path)
	return m.actual == m.expected, nil
}

func (m *lengthMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("Expected length at '%s' to be %d, got %d", m.path, m.expected, m.actual)
}

func (m *lengthMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("Expected length at '%s' not to be %d", m.path, m.expected)
}

// ResolveTo succeeds when p resolves to a value equal to expected.
func ResolveTo(p snapshot.Path, expected any) types.GomegaMatcher {
	return &resolveMatcher{path: p, expected: expected}
}

type resolveMatcher struct {
	path     snapshot.Path
	expected any
	err      error
}

func (m *resolveMatcher) Match(actual any) (bool, error) {
	s, err := toSnapshot(actual)
	if err != nil {
		return false, err
	}
	m.err = modeldiff.AssertValue(s, m.path, m.expected)
	return m.err == nil, nil
}

func (m *resolveMatcher) FailureMessage(actual any) string {
	return m.err.Error()
}

func (m *resolveMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("Expected path '%s' not to resolve to\n%s", m.path, format.Object(m.expected, 1))
}

// BeAbsentAt succeeds when p does not resolve.
func BeAbsentAt(p snapshot.Path) types.GomegaMatcher {
	return &absentMatcher{path: p}
}

type absentMatcher struct {
	path  snapshot.Path
	value any
}

func (m *absentMatcher) Match(actual any) (bool, error) {
	s, err := toSnapshot(actual)
	if err != nil {
		return false, err
	}
	v, ok := s.Resolve(m.path)
	m.value = v
	return !ok, nil
}

func (m *absentMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("Expected path '%s' to be absent, but it resolves to\n%s", m.path, format.Object(m.value, 1))
}

func (m *absentMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("Expected path '%s' to resolve, but it is absent", m.path)
}

// BeRestoredFrom succeeds when the actual snapshot equals initial.
func BeRestoredFrom(initial snapshot.Snapshot, opts ...modeldiff.Option) types.GomegaMatcher {
	return &restoredMatcher{initial: initial, opts: opts}
}

type restoredMatcher struct {
	initial snapshot.Snapshot
	opts    []modeldiff.Option
	err     error
}

func (m *restoredMatcher) Match(actual any) (bool, error) {
	s, err := toSnapshot(actual)
	if err != nil {
		return false, err
	}
	m.err = modeldiff.AssertRestored(m.initial, s, m.opts...)
	return m.err == nil, nil
}

func (m *restoredMatcher) FailureMessage(actual any) string {
	return m.err.Error()
}

func (m *restoredMatcher) NegatedFailureMessage(actual any) string {
	return "Expected the model to differ from the initial snapshot, but it was restored"
}
