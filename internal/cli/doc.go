// Package cli implements the modelcheck command line.
//
// Every command shares the configuration flags of the config package and a
// --config file. Configuration and logging are set up in the root command's
// PersistentPreRunE, before any command runs.
//
//	┌──────────┬──────────────────────────────────────────────────────┐
//	│ Command  │ Description                                          │
//	├──────────┼──────────────────────────────────────────────────────┤
//	│ run      │ Run scenario groups, journal and print the results   │
//	│ snapshot │ Print the model held by the editor                   │
//	│ diff     │ Compare two model snapshots                          │
//	│ serve    │ Host the editor statics and the run API              │
//	│ report   │ Show journaled runs, optionally as xlsx              │
//	│ config   │ Print the effective configuration                    │
//	│ remote   │ Start, inspect and stop runs on a modelcheck server  │
//	└──────────┴──────────────────────────────────────────────────────┘
//
// # Exit Codes
//
//   - 0: success
//   - 1: a run failed or the compared models differ
//   - 2: the command itself failed (configuration, files, browser)
package cli
