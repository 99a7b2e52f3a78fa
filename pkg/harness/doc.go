// Package harness sequences UI mutations and model assertions.
//
// Every check follows the same four steps and never interleaves them:
//
//	beforeFn() ──▶ mutateFn() ──▶ afterFn() ──▶ assertion(before, after)
//
// Nothing here waits, polls or retries. The driving layer behind the
// Gateway is expected to return from PerformUIMutation only once the
// mutation has settled, and its errors (element not interactable, timeouts,
// script failures) are handed back to the caller untouched.
//
// # Gateway
//
// The harness depends on exactly two operations of the driven editor:
//
//	FetchSnapshot(ctx)          current model, never cached
//	PerformUIMutation(ctx, fn)  run fn against the editor
//
// A Gateway is owned by one test group. Parallel groups use separate
// gateways (separate browser sessions); the harness keeps no global state.
//
// # Undo checks
//
// ExpectRestored keeps the initial snapshot for the whole roundtrip:
//
//	initial ──Mutate──▶ mutated        Check(initial, mutated)
//	initial ──Undo────▶ final          AssertRestored(initial, final)
//
// # Observers
//
// Observers see every Outcome, including failures. The run journal uses this
// to persist step results without the harness knowing about storage.
package harness
