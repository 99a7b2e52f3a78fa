// Package modeldiff compares editor model snapshots taken before and after a
// UI mutation.
//
// # Lengths
//
// LengthOf is total: a mapping or sequence yields its size, every other
// outcome (scalar, null, unresolved path) yields 0. The length assertions
// are built on it:
//
//	AssertIncreased(before, after, p)   LengthOf(after) >  LengthOf(before)
//	AssertDecreased(before, after, p)   LengthOf(after) <  LengthOf(before)
//	AssertUnchanged(before, after, p)   LengthOf(after) == LengthOf(before)
//
// # Membership
//
// AssertElementPresent looks the element up in the collection at a path.
// AssertElementAbsent walks the path and treats any structural failure on
// the way as proof that the element was removed, so removing an ancestor
// (the whole asset, the whole link) satisfies it as well.
//
// # Restoration
//
// Undo scenarios keep the initial snapshot and compare it with the final one
// using go-cmp. Sequences are compared as multisets unless StrictOrder is
// given, and Excluding drops subtrees that are expected to differ:
//
//	initial ──delete──▶ after ──undo──▶ final
//	   │                  │               │
//	   │   UnchangedExcept(deleted paths) │
//	   └──────────────────┘               │
//	   └──────────── AssertRestored ──────┘
//
// Every differing path is reported in the resulting SnapshotDifferenceError.
//
// # Assertions
//
// Assertion values pair with harness.WithMutation:
//
//	modeldiff.All(
//	    modeldiff.Increased(tags),
//	    modeldiff.Contains(tags, "c"),
//	)
package modeldiff
