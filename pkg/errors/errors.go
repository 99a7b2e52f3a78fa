// Package errors defines the typed failures raised while verifying editor
// model snapshots.
//
// Harness-level kinds (length comparison, membership, value mismatch and
// snapshot difference) always end the current test step. ScriptError belongs
// to the gateway layer and PreconditionError to the scenario runner; neither
// is produced by the harness itself. ResourceNotFoundError is returned by the
// run journal.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// LengthComparisonError is raised when an expected monotonic length change
// at a path did not happen.
type LengthComparisonError struct {
	Path      string
	Direction string
	Before    int
	After     int
}

func NewLengthComparisonError(path, direction string, before, after int) *LengthComparisonError {
	return &LengthComparisonError{Path: path, Direction: direction, Before: before, After: after}
}

func (e *LengthComparisonError) Error() string {
	return fmt.Sprintf("expected length at path '%s' to be %s, but it was not (before: %d, after: %d)", e.Path, e.Direction, e.Before, e.After)
}

// ElementNotFoundError is raised when a collection does not contain the
// expected element.
type ElementNotFoundError struct {
	Path    string
	Element any
	Actual  any
}

func NewElementNotFoundError(path string, element, actual any) *ElementNotFoundError {
	return &ElementNotFoundError{Path: path, Element: element, Actual: actual}
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element %v not found at path '%s' (actual: %v)", e.Element, e.Path, e.Actual)
}

// ElementStillPresentError is raised when an element expected to be removed
// can still be resolved.
type ElementStillPresentError struct {
	Path    string
	Element any
}

func NewElementStillPresentError(path string, element any) *ElementStillPresentError {
	return &ElementStillPresentError{Path: path, Element: element}
}

func (e *ElementStillPresentError) Error() string {
	return fmt.Sprintf("expected element %v to be removed at path '%s', but it still exists", e.Element, e.Path)
}

// ValueMismatchError is raised when a resolved value differs from the
// expected one.
type ValueMismatchError struct {
	Path     string
	Expected any
	Actual   any
	Absent   bool
}

func NewValueMismatchError(path string, expected, actual any, absent bool) *ValueMismatchError {
	return &ValueMismatchError{Path: path, Expected: expected, Actual: actual, Absent: absent}
}

func (e *ValueMismatchError) Error() string {
	if e.Absent {
		return fmt.Sprintf("expected %v at path '%s', but the path does not resolve", e.Expected, e.Path)
	}
	return fmt.Sprintf("expected %v at path '%s', got %v", e.Expected, e.Path, e.Actual)
}

// Difference is one differing location between two snapshots.
type Difference struct {
	Path   string `json:"path"`
	Before any    `json:"before,omitempty"`
	After  any    `json:"after,omitempty"`
	// Kind is one of "added", "removed" or "changed".
	Kind string `json:"kind"`
}

func (d Difference) String() string {
	switch d.Kind {
	case "added":
		return fmt.Sprintf("%s: added %v", d.Path, d.After)
	case "removed":
		return fmt.Sprintf("%s: removed %v", d.Path, d.Before)
	default:
		return fmt.Sprintf("%s: %v -> %v", d.Path, d.Before, d.After)
	}
}

// SnapshotDifferenceError is raised when a snapshot expected to be restored
// differs from the initial one.
type SnapshotDifferenceError struct {
	Differences []Difference
}

func NewSnapshotDifferenceError(diffs []Difference) *SnapshotDifferenceError {
	return &SnapshotDifferenceError{Differences: diffs}
}

func (e *SnapshotDifferenceError) Error() string {
	lines := make([]string, 0, len(e.Differences))
	for _, d := range e.Differences {
		lines = append(lines, d.String())
	}
	return fmt.Sprintf("model was not restored, %d difference(s):\n  %s", len(e.Differences), strings.Join(lines, "\n  "))
}

// Paths returns the differing paths in report order.
func (e *SnapshotDifferenceError) Paths() []string {
	paths := make([]string, 0, len(e.Differences))
	for _, d := range e.Differences {
		paths = append(paths, d.Path)
	}
	return paths
}

// ScriptError wraps a JS_ERROR envelope returned by an editor script.
type ScriptError struct {
	Script  string
	Message string
	Stack   string
}

func NewScriptError(script, message, stack string) *ScriptError {
	return &ScriptError{Script: script, Message: message, Stack: stack}
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %q failed: %s", e.Script, e.Message)
}

// PreconditionError is raised when the editor UI is not in the state a step
// starts from, before anything was changed.
type PreconditionError struct {
	Element  string
	Expected any
	Actual   any
}

func NewPreconditionError(element string, expected, actual any) *PreconditionError {
	return &PreconditionError{Element: element, Expected: expected, Actual: actual}
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("unexpected initial state of '%s' (expected: %v, actual: %v)", e.Element, e.Expected, e.Actual)
}

// ResourceNotFoundError is returned by the run journal for unknown records.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func NewRunNotFoundError(id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: "run", ID: id}
}

func NewSnapshotNotFoundError(id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: "snapshot", ID: id}
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// RunInProgressError is returned when a run is started while another one is
// still executing.
type RunInProgressError struct {
	ID string
}

func NewRunInProgressError(id string) *RunInProgressError {
	return &RunInProgressError{ID: id}
}

func (e *RunInProgressError) Error() string {
	return fmt.Sprintf("run %s is still in progress", e.ID)
}

func IsRunInProgressError(err error) bool {
	var e *RunInProgressError
	return errors.As(err, &e)
}

func IsLengthComparisonError(err error) bool {
	var e *LengthComparisonError
	return errors.As(err, &e)
}

func IsElementNotFoundError(err error) bool {
	var e *ElementNotFoundError
	return errors.As(err, &e)
}

func IsElementStillPresentError(err error) bool {
	var e *ElementStillPresentError
	return errors.As(err, &e)
}

func IsValueMismatchError(err error) bool {
	var e *ValueMismatchError
	return errors.As(err, &e)
}

func IsSnapshotDifferenceError(err error) bool {
	var e *SnapshotDifferenceError
	return errors.As(err, &e)
}

func IsPreconditionError(err error) bool {
	var e *PreconditionError
	return errors.As(err, &e)
}

func IsScriptError(err error) bool {
	var e *ScriptError
	return errors.As(err, &e)
}

// IsAssertionError reports whether err is a model verification failure as
// opposed to a failure of the driving layer.
func IsAssertionError(err error) bool {
	return IsLengthComparisonError(err) ||
		IsElementNotFoundError(err) ||
		IsElementStillPresentError(err) ||
		IsValueMismatchError(err) ||
		IsSnapshotDifferenceError(err)
}
