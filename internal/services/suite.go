package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/threagile/editor-e2e/internal/browser"
	"github.com/threagile/editor-e2e/internal/editor"
	"github.com/threagile/editor-e2e/internal/models"
	"github.com/threagile/editor-e2e/internal/scenario"
	"github.com/threagile/editor-e2e/internal/store"
	srvErrors "github.com/threagile/editor-e2e/pkg/errors"
	"github.com/threagile/editor-e2e/pkg/scheduler"
)

// SessionFactory opens a new browser session. Every group gets its own.
type SessionFactory func(ctx context.Context) (browser.Driver, error)

// NewBrowserSessions opens sessions with browser.New.
func NewBrowserSessions(opts browser.Options) SessionFactory {
	return func(ctx context.Context) (browser.Driver, error) {
		return browser.New(ctx, opts)
	}
}

type SuiteOptions struct {
	// Workers bounds the number of groups, and browsers, running at once.
	Workers  int
	Driver   string
	Editor   editor.Options
	Defaults scenario.Defaults
}

// Report is the outcome of a finished run.
type Report struct {
	Run    models.Run
	Groups []scenario.GroupResult
}

// Suite runs scenario groups in parallel and journals every step. One run
// executes at a time.
type Suite struct {
	store    *store.Store
	sessions SessionFactory
	opts     SuiteOptions

	mu      sync.Mutex
	current *models.Run
	cancel  context.CancelFunc
}

func NewSuite(st *store.Store, sessions SessionFactory, opts SuiteOptions) *Suite {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Suite{store: st, sessions: sessions, opts: opts}
}

// Run executes groups and blocks until every group finished or ctx ends.
// A canceled run is still journaled with status canceled.
func (s *Suite) Run(ctx context.Context, groups []scenario.Group) (*Report, error) {
	ctx, run, err := s.begin(ctx, groups)
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, run, groups), nil
}

// Start executes groups in the background and returns the created run.
func (s *Suite) Start(groups []scenario.Group) (*models.Run, error) {
	ctx, run, err := s.begin(context.Background(), groups)
	if err != nil {
		return nil, err
	}
	started := *run
	go s.execute(ctx, run, groups)
	return &started, nil
}

// Stop cancels the current run, if any.
func (s *Suite) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Current returns a copy of the executing run, or nil.
func (s *Suite) Current() *models.Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	run := *s.current
	return &run
}

func (s *Suite) begin(ctx context.Context, groups []scenario.Group) (context.Context, *models.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return nil, nil, srvErrors.NewRunInProgressError(s.current.ID)
	}

	run := &models.Run{
		ID:        uuid.NewString(),
		Status:    models.RunStatusRunning,
		Driver:    s.opts.Driver,
		EditorURL: s.opts.Editor.URL,
		StartedAt: time.Now().UTC(),
	}
	for _, g := range groups {
		run.Groups = append(run.Groups, g.Name)
	}
	if err := s.store.Runs().Create(ctx, run); err != nil {
		return nil, nil, fmt.Errorf("failed to create run: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	current := *run
	s.current = &current
	s.cancel = cancel
	return ctx, run, nil
}

func (s *Suite) execute(ctx context.Context, run *models.Run, groups []scenario.Group) *Report {
	log := zap.S().Named("suite").With("run", run.ID)
	log.Infow("run started", "groups", run.Groups, "workers", s.opts.Workers)

	sched := scheduler.New[scenario.GroupResult](s.opts.Workers)
	futures := make([]*scheduler.Future[scenario.GroupResult], 0, len(groups))
	for _, g := range groups {
		futures = append(futures, sched.Submit(g.Name, s.groupWork(run.ID, g)))
	}

	results, err := scheduler.Collect(ctx, futures...)
	sched.Close()
	if err == nil {
		err = ctx.Err()
	}

	report := &Report{}
	for _, r := range results {
		if r.Err != nil {
			report.Groups = append(report.Groups, scenario.GroupResult{Group: r.Name, Err: r.Err})
			continue
		}
		report.Groups = append(report.Groups, r.Data)
	}

	for _, g := range report.Groups {
		if g.Err != nil {
			run.Failed++
		}
		for _, st := range g.Steps {
			if st.Passed() {
				run.Passed++
			} else {
				run.Failed++
			}
		}
	}

	finished := time.Now().UTC()
	run.FinishedAt = &finished
	switch {
	case err != nil:
		run.Status = models.RunStatusCanceled
		run.Error = err.Error()
	case run.Failed > 0:
		run.Status = models.RunStatusFailed
	default:
		run.Status = models.RunStatusPassed
	}

	if err := s.store.Runs().Finish(context.WithoutCancel(ctx), run); err != nil {
		log.Errorw("failed to record run result", "error", err)
	}
	log.Infow("run finished", "status", run.Status, "passed", run.Passed, "failed", run.Failed, "duration", run.Duration())

	s.mu.Lock()
	s.cancel()
	s.current = nil
	s.cancel = nil
	s.mu.Unlock()

	report.Run = *run
	return report
}

// groupWork runs one group in its own browser session.
func (s *Suite) groupWork(runID string, g scenario.Group) scheduler.Work[scenario.GroupResult] {
	return func(ctx context.Context) (scenario.GroupResult, error) {
		journal := NewJournal(s.store, runID, g.Name)

		driver, err := s.sessions(ctx)
		if err != nil {
			err = fmt.Errorf("failed to open browser session: %w", err)
			journal.RecordFailure(ctx, "browser", err)
			return scenario.GroupResult{Group: g.Name, Err: err}, nil
		}
		defer func() {
			if err := driver.Close(); err != nil {
				zap.S().Named("suite").Warnw("failed to close browser session", "group", g.Name, "error", err)
			}
		}()

		gw := editor.NewGateway(driver, s.opts.Editor)
		res := scenario.NewRunner(gw, s.opts.Defaults).OnStep(journal.Record(ctx)).Run(ctx, g)
		if res.Err != nil {
			name := "setup"
			if len(res.Steps) > 0 {
				name = "interrupted"
			}
			journal.RecordFailure(ctx, name, res.Err)
		}

		if snap, err := gw.FetchSnapshot(context.WithoutCancel(ctx)); err == nil {
			journal.SaveSnapshot(ctx, "final", snap)
		} else {
			zap.S().Named("suite").Debugw("no final snapshot", "group", g.Name, "error", err)
		}
		return res, nil
	}
}
