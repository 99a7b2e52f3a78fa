// Package scenario runs data-driven editor checks described in a YAML
// catalogue.
//
// A catalogue holds groups. A group owns one browser session: the setup
// opens the example model, focuses a cell and optionally renames it, then
// the steps run in order against that state.
//
//	┌──────────┐   setup    ┌──────────────────────────┐
//	│ Group    │───────────▶│ open example             │
//	└────┬─────┘            │ setup clicks             │
//	     │                  │ focus label | style      │
//	     │                  │ rename (key must exist)  │
//	     │                  │ first edge               │
//	     │                  └──────────────────────────┘
//	     │ steps
//	     ▼
//	┌──────────┐  Expect / ExpectRestored  ┌──────────┐
//	│ Runner   │──────────────────────────▶│ harness  │
//	└──────────┘                           └──────────┘
//
// Step kinds and what they check:
//
//	kind         interaction                         model check
//	──────────── ─────────────────────────────────── ─────────────────────────────
//	edit         edit button, fill, apply            entity key exists, value set
//	edit_key     edit button, fill, apply            new key exists, count same
//	select       pick option by visible text         value equals option
//	toggle       click checkbox                      value is the negated state
//	remove_tag   click the tag's remove mark         shorter, element absent
//	add_tag      open the tag list, click option     longer, element present
//	delete       click chain                         shorter
//	delete_undo  select shapes|edges, delete, undo   shorter, then fully restored
//	labels       none                                UI list shows the texts
//	table        none                                UI table rows equal texts
//
// Precondition fields (marked, previous, was_checked) are checked before
// the interaction and fail with errors.PreconditionError. A failed step
// does not stop its group.
package scenario
