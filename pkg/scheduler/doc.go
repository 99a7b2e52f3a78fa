// Package scheduler runs named units of work on a fixed pool of workers and
// hands back a Future per unit.
//
// The suite service uses it to run scenario groups in parallel, one browser
// session per group, with the pool size bounding how many browsers are open
// at once.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                           Scheduler[T]                              │
//	│                                                                     │
//	│   free worker slots: N                                              │
//	│                                                                     │
//	│                        ┌─────────────┐                              │
//	│                        │  dispatch() │──▶ go work(r) while free > 0 │
//	│                        └──────┬──────┘                              │
//	│                               │                                     │
//	│  ┌────────────────────────────┴────────────────────────────┐        │
//	│  │                    Pending Queue                        │        │
//	│  │  [group-a] [group-b] [group-c] ...                      │        │
//	│  └─────────────────────────────────────────────────────────┘        │
//	│                               ▲                                     │
//	│                        Submit(name, fn)                             │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Event Loop
//
//	for {
//	    select {
//	    case r := <-s.submit:     // new work
//	        s.pending.Push(r)
//	        s.dispatch()
//	    case <-s.released:        // a worker finished
//	        s.free++
//	        s.dispatch()
//	    case <-s.closing:         // Close()
//	        fail pending work with context.Canceled
//	        s.wg.Wait()
//	        return
//	    }
//	}
//
// Work runs in submission order. A panicking work function is recovered and
// reported through its Result; the worker slot is released either way.
//
// # Cancellation
//
// Every unit gets a context derived from the scheduler's:
//
//   - Future.Stop() cancels one unit
//   - Scheduler.Close() cancels all of them, fails queued units with
//     context.Canceled and waits for running units to return
//   - Submit after Close yields a Result carrying context.Canceled
//
// # Usage Example
//
//	sched := scheduler.New[scenario.GroupResult](2)
//	defer sched.Close()
//
//	var futures []*scheduler.Future[scenario.GroupResult]
//	for _, g := range groups {
//	    futures = append(futures, sched.Submit(g.Name, runGroup(g)))
//	}
//	results, err := scheduler.Collect(ctx, futures...)
package scheduler
