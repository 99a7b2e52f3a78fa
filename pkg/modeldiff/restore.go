package modeldiff

import (
	"encoding/json"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/threagile/editor-e2e/pkg/errors"
	"github.com/threagile/editor-e2e/pkg/snapshot"
)

type compareOptions struct {
	excluded    []snapshot.Path
	strictOrder bool
}

// Option tunes RestoredEquals, Differences and AssertRestored.
type Option func(*compareOptions)

// Excluding drops the subtrees rooted at paths from the comparison.
// Sequence indices in excluded paths refer to the compared (sorted) order
// unless StrictOrder is set. snapshot.Wildcard matches any key or index.
func Excluding(paths ...snapshot.Path) Option {
	return func(o *compareOptions) {
		o.excluded = append(o.excluded, paths...)
	}
}

// StrictOrder makes sequence order significant.
func StrictOrder() Option {
	return func(o *compareOptions) {
		o.strictOrder = true
	}
}

// RestoredEquals reports whether final is structurally equal to initial.
// Mapping order never matters; sequence order is ignored unless StrictOrder
// is given.
func RestoredEquals(initial, final snapshot.Snapshot, opts ...Option) bool {
	return cmp.Equal(initial.Root(), final.Root(), cmpOptions(opts)...)
}

// Differences lists every location where final differs from initial.
func Differences(initial, final snapshot.Snapshot, opts ...Option) []errors.Difference {
	r := &diffReporter{}
	cmpOpts := append(cmpOptions(opts), cmp.Reporter(r))
	cmp.Equal(initial.Root(), final.Root(), cmpOpts...)
	return r.diffs
}

// AssertRestored fails with a SnapshotDifferenceError naming every differing
// path when final is not equal to initial.
func AssertRestored(initial, final snapshot.Snapshot, opts ...Option) error {
	diffs := Differences(initial, final, opts...)
	if len(diffs) == 0 {
		return nil
	}
	return errors.NewSnapshotDifferenceError(diffs)
}

func cmpOptions(opts []Option) []cmp.Option {
	o := &compareOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var out []cmp.Option
	if !o.strictOrder {
		out = append(out, cmpopts.SortSlices(func(a, b any) bool {
			return canonical(a) < canonical(b)
		}))
	}
	if len(o.excluded) > 0 {
		excluded := o.excluded
		out = append(out, cmp.FilterPath(func(p cmp.Path) bool {
			sp := toSnapshotPath(p)
			for _, e := range excluded {
				if sp.MatchesPrefix(e) {
					return true
				}
			}
			return false
		}, cmp.Ignore()))
	}
	return out
}

// canonical orders values by their JSON encoding, which sorts mapping keys.
func canonical(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func toSnapshotPath(p cmp.Path) snapshot.Path {
	var out snapshot.Path
	for _, ps := range p {
		switch s := ps.(type) {
		case cmp.MapIndex:
			out = append(out, s.Key().String())
		case cmp.SliceIndex:
			ix, iy := s.SplitKeys()
			if ix < 0 {
				ix = iy
			}
			out = append(out, ix)
		}
	}
	return out
}

type diffReporter struct {
	path  cmp.Path
	diffs []errors.Difference
}

func (r *diffReporter) PushStep(ps cmp.PathStep) {
	r.path = append(r.path, ps)
}

func (r *diffReporter) PopStep() {
	r.path = r.path[:len(r.path)-1]
}

func (r *diffReporter) Report(rs cmp.Result) {
	if rs.Equal() {
		return
	}
	vx, vy := r.path.Last().Values()
	d := errors.Difference{
		Path: toSnapshotPath(r.path).String(),
		Kind: "changed",
	}
	switch {
	case !vx.IsValid():
		d.Kind = "added"
		d.After = vy.Interface()
	case !vy.IsValid():
		d.Kind = "removed"
		d.Before = vx.Interface()
	default:
		d.Before = vx.Interface()
		d.After = vy.Interface()
	}
	r.diffs = append(r.diffs, d)
}
