// Package services implements the application layer of modelcheck: running
// scenario catalogues and reading back the run journal.
//
// # Service Dependency Graph
//
//	CLI (cmd/modelcheck)     Handlers (HTTP /api/v1)
//	    │                        │
//	    ▼                        ▼
//	Services Layer
//	    ├── Suite ─────────► Store, Scheduler, SessionFactory, scenario.Runner
//	    │     └── Journal ─► Store
//	    └── RunService ────► Store
//
// # Suite
//
// Suite executes a list of scenario groups as one run. Every group is one
// unit of work on the scheduler and owns a fresh browser session, so groups
// never share editor state:
//
//	Run(ctx, groups)
//	    │
//	    ├── runs.Create(status=running)
//	    ├── for each group: scheduler.Submit(group)
//	    │       ├── SessionFactory(ctx) → browser.Driver
//	    │       ├── editor.NewGateway(driver)
//	    │       ├── scenario.Runner.Run(group) ──OnStep──► Journal.Record
//	    │       ├── Journal.SaveSnapshot("final")
//	    │       └── driver.Close()
//	    ├── scheduler.Collect(futures)
//	    └── runs.Finish(passed|failed|canceled)
//
// Run states:
//
//	┌─────────┐      ┌────────┐
//	│ running │─────►│ passed │   every step passed
//	└─────────┘  │   └────────┘
//	             │   ┌────────┐
//	             ├──►│ failed │   a step failed or a group could not start
//	             │   └────────┘
//	             │   ┌──────────┐
//	             └──►│ canceled │ ctx ended or Stop() was called
//	                 └──────────┘
//
// Key behaviors:
//   - Only one run executes at a time (RunInProgressError otherwise)
//   - Run blocks; Start runs in the background and is canceled by Stop
//   - A browser that fails to start fails its group only
//   - A canceled run is still journaled
//
// # Journal
//
// Journal turns scenario.StepResult into models.Step rows, classifying the
// error with models.OutcomeOf:
//
//	┌────────────────────────────┬──────────────┐
//	│  Error                     │  Outcome     │
//	├────────────────────────────┼──────────────┤
//	│  nil                       │  passed      │
//	│  assertion kinds           │  failed      │
//	│  PreconditionError         │  precondition│
//	│  anything else             │  error       │
//	└────────────────────────────┴──────────────┘
//
// Journal writes use a context detached from cancellation and only log
// their failures.
//
// # RunService
//
// RunService is a stateless facade over the store for the API and the
// report command: List (status filter, sort, pagination, total count),
// Get, Delete, Steps (group and outcome filters), Snapshots and Snapshot.
//
//	srv := services.NewRunService(st)
//	result, err := srv.Steps(ctx, runID, services.StepListParams{
//	    Outcomes: []string{"failed", "error"},
//	    Limit:    50,
//	})
//
// # Thread Safety
//
// Suite guards the current run with a mutex; Current returns a copy.
// RunService holds no state.
package services
