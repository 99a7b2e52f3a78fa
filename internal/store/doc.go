// Package store implements the run journal on top of DuckDB.
//
// Every scenario run, every step it executed and selected model snapshots
// are recorded so runs can be listed, compared and exported after the
// browser is gone.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├─────────────────────────────────────────────────────────────────┤
//	│      RunStore       │      StepStore      │    SnapshotStore    │
//	│         ▼           │         ▼           │         ▼           │
//	│       runs          │       steps         │     snapshots       │
//	├─────────────────────┴─────────────────────┴─────────────────────┤
//	│              QueryInterceptor (debug logs every query)          │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Tables
//
// Created by migrations (internal/store/migrations/sql/):
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  runs              │  One row per run, status and step counts    │
//	│  steps             │  One row per executed step, changes as JSON │
//	│  snapshots         │  Model JSON per run, group and label        │
//	│  schema_migrations │  Migration version tracking                 │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// # Initialization Flow
//
//	db, _ := store.NewDB(cfg.Store.Path)   // ":memory:" for tests
//	migrations.Run(ctx, db)                 // idempotent
//	st := store.NewStore(db)
//
// # RunStore
//
// Methods:
//   - Create(ctx, run) → error
//   - Finish(ctx, run) → error (status, counts, error, finished_at)
//   - Get(ctx, id) → *models.Run, ResourceNotFoundError when unknown
//   - List(ctx, opts...) / Count(ctx, opts...)
//   - Delete(ctx, id) → removes the run, its steps and snapshots in one
//     transaction
//
// # StepStore
//
// Steps are append-only. Insert sets the generated id. The changes column
// holds the JSON encoding of the step's []errors.Difference.
//
// # SnapshotStore
//
// Save upserts by (run, group, label). List returns metadata only; Get
// returns the data.
//
// # List Options
//
// List and Count take functional options that modify the squirrel query
// builder:
//
//	steps, err := st.Steps().List(ctx,
//	    store.ByRun(runID),
//	    store.ByGroups("technical-asset"),
//	    store.ByOutcomes("failed", "error"),
//	    store.WithLimit(50),
//	    store.WithOffset(100),
//	)
//
//	┌──────────────────┬──────────────────────────────────────────┐
//	│  Option          │  Applies to                              │
//	├──────────────────┼──────────────────────────────────────────┤
//	│  ByRun           │  steps, snapshots                        │
//	│  ByGroups        │  steps, snapshots                        │
//	│  ByOutcomes      │  steps                                   │
//	│  ByStatus        │  runs                                    │
//	│  WithSort        │  runs (started, finished, status,        │
//	│                  │  passed, failed)                         │
//	│  WithLimit       │  all                                     │
//	│  WithOffset      │  all                                     │
//	└──────────────────┴──────────────────────────────────────────┘
package store
