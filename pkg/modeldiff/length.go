package modeldiff

import (
	"strconv"

	"github.com/threagile/editor-e2e/pkg/errors"
	"github.com/threagile/editor-e2e/pkg/snapshot"
)

// Direction is the expected effect of a mutation on the value at a path.
type Direction string

const (
	DirectionIncreased      Direction = "increased"
	DirectionDecreased      Direction = "decreased"
	DirectionUnchanged      Direction = "unchanged"
	DirectionElementPresent Direction = "element-present"
	DirectionElementAbsent  Direction = "element-absent"
)

// LengthOf returns the element count of the mapping or sequence at p.
// Anything else, including an unresolved path, counts as 0.
func LengthOf(s snapshot.Snapshot, p snapshot.Path) int {
	v, ok := s.Resolve(p)
	if !ok {
		return 0
	}
	switch c := v.(type) {
	case map[string]any:
		return len(c)
	case []any:
		return len(c)
	default:
		return 0
	}
}

// AssertIncreased fails unless the collection at p grew.
func AssertIncreased(before, after snapshot.Snapshot, p snapshot.Path) error {
	b, a := LengthOf(before, p), LengthOf(after, p)
	if a > b {
		return nil
	}
	return errors.NewLengthComparisonError(p.String(), string(DirectionIncreased), b, a)
}

// AssertDecreased fails unless the collection at p shrank.
func AssertDecreased(before, after snapshot.Snapshot, p snapshot.Path) error {
	b, a := LengthOf(before, p), LengthOf(after, p)
	if a < b {
		return nil
	}
	return errors.NewLengthComparisonError(p.String(), string(DirectionDecreased), b, a)
}

// AssertUnchanged fails when the length at p changed.
func AssertUnchanged(before, after snapshot.Snapshot, p snapshot.Path) error {
	b, a := LengthOf(before, p), LengthOf(after, p)
	if a == b {
		return nil
	}
	return errors.NewLengthComparisonError(p.String(), string(DirectionUnchanged), b, a)
}

// AssertDecreasedBy fails unless exactly n elements were removed at p.
func AssertDecreasedBy(before, after snapshot.Snapshot, p snapshot.Path, n int) error {
	b, a := LengthOf(before, p), LengthOf(after, p)
	if b-a == n {
		return nil
	}
	return errors.NewLengthComparisonError(p.String(), "decreased by "+strconv.Itoa(n), b, a)
}
