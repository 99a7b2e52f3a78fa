// Package config defines the configuration of the modelcheck tool.
//
// Configuration is organized into sections (Editor, Browser, Runner, Store,
// Server) with defaults declared as struct tags and applied by
// creasty/defaults.
//
// # Configuration Structure
//
//	Configuration
//	├── Editor         - page hosting the editor, settle delay
//	├── Browser        - browser automation library and window
//	├── Runner         - scenario catalogue and parallelism
//	├── Store          - run journal database
//	├── Server         - HTTP server for statics and the runs API
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Editor Configuration
//
//	┌──────────────┬──────────────────────────────────────┬──────────────────────────────────┐
//	│ Field        │ Default                              │ Description                      │
//	├──────────────┼──────────────────────────────────────┼──────────────────────────────────┤
//	│ URL          │ "http://0.0.0.0:8000/indexTests.html"│ Page hosting the editor          │
//	│ Settle       │ 500ms                                │ Wait after every UI mutation     │
//	│ ReadyTimeout │ 30s                                  │ Wait for editorUi to exist       │
//	└──────────────┴──────────────────────────────────────┴──────────────────────────────────┘
//
// # Browser Configuration
//
//	┌───────────┬─────────┬────────────────────────────────────────────┐
//	│ Field     │ Default │ Description                                │
//	├───────────┼─────────┼────────────────────────────────────────────┤
//	│ Driver    │ "rod"   │ "rod" or "chromedp"                        │
//	│ RemoteURL │ ""      │ DevTools URL of a running browser (hidden) │
//	│ ExecPath  │ ""      │ Browser binary, empty downloads/finds one  │
//	│ Headless  │ true    │ Run without a window                       │
//	│ Width     │ 1854    │ Window width                               │
//	│ Height    │ 1011    │ Window height                              │
//	│ Timeout   │ 10s     │ Element wait timeout                       │
//	└───────────┴─────────┴────────────────────────────────────────────┘
//
// # Runner, Store and Server Configuration
//
//	┌───────────────────────┬─────────────────────┬───────────────────────────────────┐
//	│ Field                 │ Default             │ Description                       │
//	├───────────────────────┼─────────────────────┼───────────────────────────────────┤
//	│ Runner.Catalog        │ ""                  │ Scenario file, empty is built-in  │
//	│ Runner.Groups         │ []                  │ Groups to run, empty is all       │
//	│ Runner.Workers        │ 1                   │ Groups run in parallel            │
//	│ Store.Path            │ "modelcheck.duckdb" │ Run journal (":memory:" allowed)  │
//	│ Server.Mode           │ "dev"               │ "dev" or "prod" (gin mode)        │
//	│ Server.Port           │ 8000                │ HTTP listen port                  │
//	│ Server.StaticsFolder  │ ""                  │ Editor statics to serve           │
//	└───────────────────────┴─────────────────────┴───────────────────────────────────┘
//
// # Loading
//
// Load merges, later sources winning:
//
//	defaults ──▶ YAML file ──▶ MODELCHECK_* env ──▶ command line flags
//
// Nested keys map to environment variables by upper-casing and replacing
// dots with underscores: runner.workers is MODELCHECK_RUNNER_WORKERS.
//
//	fs := cmd.Flags()
//	config.RegisterFlags(fs, config.NewConfigurationWithDefaults())
//	cfg, err := config.Load(fs, configFile)
//
// # Debug Logging
//
// All fields are tagged with `debugmap:"visible"` or `debugmap:"hidden"`.
// DebugMap() returns nested maps suitable for structured logging, masking
// hidden values:
//
//	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())
package config
