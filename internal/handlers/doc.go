// Package handlers implements the HTTP API of modelcheck.
//
// Handlers expose the run journal and let a client start or stop a run of
// the editor suite. They delegate to the services layer and focus on
// request validation, response formatting, and HTTP semantics.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Parameter binding and pagination                             │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion                                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│          RunService (journal reads) │ Suite (execution)         │
//	└─────────────────────────────────────────────────────────────────┘
//
// The Handler implements v1.ServerInterface and is registered with:
//
//	v1.RegisterHandlers(router, handler)
//
// # API Endpoints
//
//	┌────────┬──────────────────────────────────┬──────────────────────────────┐
//	│ Method │ Endpoint                         │ Description                  │
//	├────────┼──────────────────────────────────┼──────────────────────────────┤
//	│ GET    │ /groups                          │ Scenario groups of catalogue │
//	│ GET    │ /runs                            │ List runs (paginated)        │
//	│ POST   │ /runs                            │ Start a run in background    │
//	│ GET    │ /runs/current                    │ Run in progress              │
//	│ DELETE │ /runs/current                    │ Cancel the run in progress   │
//	│ GET    │ /runs/{id}                       │ Get a run                    │
//	│ DELETE │ /runs/{id}                       │ Delete a finished run        │
//	│ GET    │ /runs/{id}/steps                 │ Journaled steps (paginated)  │
//	│ GET    │ /runs/{id}/snapshots             │ Snapshot metadata            │
//	│ GET    │ /runs/{id}/snapshots/{g}/{label} │ Raw model JSON               │
//	└────────┴──────────────────────────────────┴──────────────────────────────┘
//
// # Pagination
//
// List endpoints take page (default 1) and pageSize (default 20, max 100).
// Responses carry page, pageCount and total.
//
// # Error Handling
//
//	┌──────────────────────────────┬────────────────┐
//	│ Error                        │ HTTP Status    │
//	├──────────────────────────────┼────────────────┤
//	│ Invalid query or body        │ 400            │
//	│ Unknown group                │ 400            │
//	│ ResourceNotFoundError        │ 404            │
//	│ No run in progress           │ 404            │
//	│ RunInProgressError           │ 409            │
//	│ Deleting the current run     │ 409            │
//	│ Anything else                │ 500            │
//	└──────────────────────────────┴────────────────┘
//
// Error bodies are {"error": "message"}.
package handlers
