package editor

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Script names, used as labels in errors and logs.
const (
	ScriptReady           = "ready"
	ScriptGetModel        = "get-model"
	ScriptSelectShapes    = "select-shapes"
	ScriptSelectEdges     = "select-edges"
	ScriptDeleteSelection = "delete-selection"
	ScriptUndo            = "undo"
	ScriptFocusLabel      = "focus-label"
	ScriptFocusStyle      = "focus-style"
	ScriptFocusFirstEdge  = "focus-first-edge"
	ScriptFocusCell       = "focus-cell"
	ScriptOpenExample     = "open-example"
	ScriptActiveValue     = "active-value"
	ScriptFillActive      = "fill-active"
)

// Every script is an expression evaluating to a result envelope. Thrown
// errors are caught and reported as status JS_ERROR.
const envelope = `/* modelcheck:%s */ (() => {
	try {
		var editorUi = window.editorUi;
		%s
	} catch (err) {
		return { status: "JS_ERROR", message: String(err), stack: (err && err.stack) ? String(err.stack) : "" };
	}
})()`

const requireGraph = `if (!editorUi || !editorUi.editor || !editorUi.editor.graph || !editorUi.editor.graph.model) { throw new Error("editorUi graph/model not found"); }
		var graph = editorUi.editor.graph;
		var model = graph.model;`

// eachVertex iterates the cells of every layer; body sees `cell`.
const eachCell = `var root = model.getRoot();
		var layers = model.getChildCount(root);
		for (var i = 0; i < layers; i++) {
			var layer = model.getChildAt(root, i);
			var cells = model.getChildCount(layer);
			for (var j = 0; j < cells; j++) {
				var cell = model.getChildAt(layer, j);
				if (cell == null) { continue; }
				%s
			}
		}`

var scriptName = regexp.MustCompile(`^/\* modelcheck:([a-z-]+) \*/`)

// ScriptName returns the name of a script built by this package, or "" for
// any other expression.
func ScriptName(expr string) string {
	m := scriptName.FindStringSubmatch(expr)
	if m == nil {
		return ""
	}
	return m[1]
}

func script(name, body string) string {
	return fmt.Sprintf(envelope, name, body)
}

func jsValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

func readyScript() string {
	return script(ScriptReady, `var ready = !!(editorUi && editorUi.editor && editorUi.editor.graph && editorUi.editor.graph.model && editorUi.editor.graph.model.threagile);
		return { status: ready ? "Success" : "NotReady" };`)
}

func getModelScript() string {
	return script(ScriptGetModel, requireGraph+`
		var threagile = model.threagile;
		if (!threagile || typeof threagile.toJSON !== "function") {
			if (typeof threagile === "object" && threagile !== null) {
				return { status: "Success_DirectObject", data: JSON.parse(JSON.stringify(threagile)) };
			}
			throw new Error("threagile.toJSON() not available");
		}
		return { status: "Success_toJSON", data: threagile.toJSON() };`)
}

func selectShapesScript(styleFragment string) string {
	return script(ScriptSelectShapes, requireGraph+`
		var fragment = `+jsValue(styleFragment)+`;
		var found = []; var ids = [];
		`+fmt.Sprintf(eachCell, `if (cell.vertex) {
					var style = model.getStyle(cell);
					if (style && style.indexOf(fragment) !== -1) { found.push(cell); ids.push(String(cell.id)); }
				}`)+`
		if (found.length === 0) { return { status: "Success_NoShapesFound", count: 0, ids: [], selectedCount: 0 }; }
		graph.setSelectionCells(found);
		return { status: "Success", count: found.length, ids: ids, selectedCount: graph.getSelectionCount() };`)
}

func selectEdgesScript() string {
	return script(ScriptSelectEdges, requireGraph+`
		var found = []; var ids = [];
		`+fmt.Sprintf(eachCell, `if (model.isEdge(cell)) { found.push(cell); ids.push(String(cell.id)); }`)+`
		if (found.length === 0) { return { status: "Success_NoEdgesFound", count: 0, ids: [], selectedCount: 0 }; }
		graph.setSelectionCells(found);
		return { status: "Success", count: found.length, ids: ids, selectedCount: graph.getSelectionCount() };`)
}

func deleteSelectionScript() string {
	return script(ScriptDeleteSelection, requireGraph+`
		var selected = graph.getSelectionCount();
		if (selected === 0) { return { status: "Warning", message: "No cells were selected for deletion." }; }
		var action = editorUi.actions.get("delete");
		if (!action || typeof action.funct !== "function") { throw new Error("delete action not found"); }
		action.funct();
		return { status: "Success", count: selected, message: "Deleted " + selected + " selected cell(s)." };`)
}

func undoScript() string {
	return script(ScriptUndo, `var undoManager = editorUi && editorUi.editor && editorUi.editor.undoManager;
		if (!undoManager) { throw new Error("undoManager not found"); }
		if (undoManager.indexOfNextAdd === 0) { return { status: "Warning", message: "Nothing in the undo history." }; }
		undoManager.undo();
		return { status: "Success", message: "Undo operation performed." };`)
}

func focusLabelScript(label string) string {
	return script(ScriptFocusLabel, requireGraph+`
		var wanted = `+jsValue(label)+`;
		`+fmt.Sprintf(eachCell, `if (cell.vertex && graph.convertValueToString(cell) === wanted) {
					graph.setSelectionCell(cell);
					graph.scrollCellToVisible(cell);
					return { status: "Success", id: String(cell.id) };
				}`)+`
		throw new Error("no vertex labelled " + wanted);`)
}

func focusStyleScript(styleFragment string) string {
	return script(ScriptFocusStyle, requireGraph+`
		var fragment = `+jsValue(styleFragment)+`;
		`+fmt.Sprintf(eachCell, `if (cell.vertex && cell.style && cell.style.indexOf(fragment) !== -1) {
					graph.setSelectionCell(cell);
					graph.scrollCellToVisible(cell);
					return { status: "Success", id: String(cell.id) };
				}`)+`
		throw new Error("no vertex with style containing " + fragment);`)
}

func focusFirstEdgeScript(cellID string) string {
	return script(ScriptFocusFirstEdge, requireGraph+`
		var source = model.getCell(`+jsValue(cellID)+`);
		if (!source) { throw new Error("cell not found"); }
		var edges = model.getEdges(source);
		if (!edges || edges.length === 0) { throw new Error("cell has no edges"); }
		graph.setSelectionCell(edges[0]);
		graph.scrollCellToVisible(edges[0]);
		return { status: "Success", id: String(edges[0].id) };`)
}

func focusCellScript(cellID string) string {
	return script(ScriptFocusCell, requireGraph+`
		var cell = model.getCell(`+jsValue(cellID)+`);
		if (!cell) { throw new Error("cell not found"); }
		graph.setSelectionCell(cell);
		graph.scrollCellToVisible(cell);
		return { status: "Success", id: String(cell.id) };`)
}

// openExampleScript clicks the example button, looked up first in the main
// document and then inside the first frame.
func openExampleScript(selector string) string {
	return script(ScriptOpenExample, `var selector = `+jsValue(selector)+`;
		var button = document.querySelector(selector);
		if (!button) {
			var frame = document.querySelector("iframe");
			var doc = frame && (frame.contentDocument || (frame.contentWindow && frame.contentWindow.document));
			button = doc && doc.querySelector(selector);
		}
		if (!button) { throw new Error("example button " + selector + " not found"); }
		button.click();
		return { status: "Success" };`)
}

func activeValueScript() string {
	return script(ScriptActiveValue, `var el = document.activeElement;
		if (!el || el === document.body) { throw new Error("no focused element"); }
		if (typeof el.select === "function") { el.select(); }
		return { status: "Success", value: el.value !== undefined ? String(el.value) : String(el.textContent || "") };`)
}

func fillActiveScript(text string) string {
	return script(ScriptFillActive, `var el = document.activeElement;
		if (!el || el === document.body) { throw new Error("no focused element"); }
		var text = `+jsValue(text)+`;
		if (el.value !== undefined) { el.value = text; } else { el.textContent = text; }
		el.dispatchEvent(new Event("input", { bubbles: true }));
		el.dispatchEvent(new Event("change", { bubbles: true }));
		return { status: "Success", value: text };`)
}
