/*
Package main provides the end-to-end suite of modelcheck: the scenario
catalogue run as Ginkgo tests against a real editor in a real browser.

# Package Structure

	test/e2e/
	├── main.go          Entry point: flags, config, EditorHost setup, Ginkgo runner
	├── tests.go         Ginkgo tests (example model, undo roundtrip, one It per group)
	├── doc.go           This file
	└── infra/           Editor hosting
	    ├── infra.go     EditorHost interface + modes
	    ├── local.go     LocalEditorHost (statics served by internal/server)
	    ├── external.go  ExternalEditorHost (editor managed elsewhere)
	    └── wait.go      Reachability polling with exponential backoff

# EditorHost

EditorHost is the central abstraction for where the editor runs:

	type EditorHost interface {
	    Start(ctx) (url, error)
	    Stop() error
	}

Two implementations:
  - LocalEditorHost: serves --statics-folder on --server-port in-process (default).
  - ExternalEditorHost: no-op; the editor already answers at --editor-url.

Selected via the --infra-mode flag ("local" or "external"). Every other flag
is a modelcheck configuration flag, so the suite honors the same config file
and MODELCHECK_* variables as the CLI.

# Tests

The catalogue tests are registered from main after the catalogue is loaded:
one It per selected group, each in its own browser session. A group fails
when its setup or any of its steps failed.

# Running

	go run ./test/e2e --statics-folder ../threagile-editor
	go run ./test/e2e --infra-mode external --editor-url http://0.0.0.0:8000/indexTests.html
	go run ./test/e2e --groups technical-asset --browser-headless=false
*/
package main
