// Package snapshot holds immutable captures of the threat model that the
// diagram editor keeps in sync with the drawing, and the total accessor used
// to read them.
//
// # Snapshots
//
// A Snapshot is whatever `editorUi.editor.graph.model.threagile.toJSON()`
// returned at one instant, decoded as plain JSON:
//
//	{
//	  "technical_assets": {
//	    "foo": {"type": "external-entity", "tags": ["a", "b"]}
//	  },
//	  "communication_links": {...},
//	  "data_assets": {...},
//	  "trust_boundaries": {...}
//	}
//
// Snapshots are never mutated. A test step fetches a fresh one from the
// gateway every time it needs the current state.
//
// # Paths
//
// A Path is an ordered list of keys and indices:
//
//	snapshot.P("technical_assets", "foo", "tags", 2)
//	snapshot.MustParsePath(`technical_assets.foo.tags[2]`)
//	snapshot.MustParsePath(`communication_links["Customer Traffic"]`)
//
// # Absent
//
// Resolve is total. A missing mapping key, an out of range or non-int
// sequence index, or stepping into a scalar all produce the Absent result
// (second return value false). An empty list or map is a found value, which
// lets callers compare lengths before any element exists:
//
//	┌───────────────────────────────────┬──────────────┐
//	│ Path (tags = [])                  │ Resolve      │
//	├───────────────────────────────────┼──────────────┤
//	│ technical_assets.foo.tags         │ [], true     │
//	│ technical_assets.foo.tags[0]      │ nil, false   │
//	│ technical_assets.bar.tags         │ nil, false   │
//	│ technical_assets.foo.type.x       │ nil, false   │
//	└───────────────────────────────────┴──────────────┘
package snapshot
