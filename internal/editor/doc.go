// Package editor drives the threagile diagram editor through its in-page
// JavaScript API and exposes it as a harness.Gateway.
//
// # Scripts
//
// Every interaction with the graph is a self-contained script evaluated in
// the page. Each script returns the same envelope:
//
//	{ status, data, message, stack, id, value, count, ids, selectedCount }
//
// Status values:
//
//	Success, Success_*   done; the suffix qualifies how (Success_toJSON,
//	                     Success_NoShapesFound, ...)
//	Warning              nothing to do (empty selection, empty undo history);
//	                     logged, not an error
//	JS_ERROR             the script threw; returned as *errors.ScriptError
//
// Script catalogue:
//
//	ready             editorUi and its threagile model exist
//	get-model         model.threagile.toJSON(), falling back to the object
//	select-shapes     select vertices whose style contains a fragment
//	select-edges      select every edge
//	delete-selection  editorUi.actions.get("delete")
//	undo              editor.undoManager.undo()
//	focus-label       select and scroll to the vertex with a label
//	focus-style       select and scroll to the first vertex with a style
//	focus-first-edge  select the first edge of a cell
//	focus-cell        select a cell by id
//	open-example      click an example button in the page or its frame
//	active-value      read the focused input
//	fill-active       replace the focused input's value
//
// # Gateway
//
//	┌──────────────┐  FetchSnapshot      ┌──────────┐  Eval   ┌─────────┐
//	│ harness      │────────────────────▶│ Gateway  │────────▶│ Driver  │
//	│              │  PerformUIMutation  │          │  Click  │         │
//	└──────────────┘────────────────────▶└──────────┘────────▶└─────────┘
//
// FetchSnapshot never caches. PerformUIMutation waits Options.Settle after
// the action so the editor has applied the change to its model before the
// next snapshot is read. WaitReady polls the ready script with exponential
// backoff until Options.ReadyTimeout.
package editor
