package services_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/threagile/editor-e2e/internal/browser"
	"github.com/threagile/editor-e2e/internal/editor"
	"github.com/threagile/editor-e2e/internal/models"
	"github.com/threagile/editor-e2e/internal/scenario"
	"github.com/threagile/editor-e2e/internal/services"
	"github.com/threagile/editor-e2e/internal/store"
	"github.com/threagile/editor-e2e/internal/store/migrations"
	srvErrors "github.com/threagile/editor-e2e/pkg/errors"
	"github.com/threagile/editor-e2e/pkg/snapshot"
	"github.com/threagile/editor-e2e/test"
)

const catalog = `
defaults: {apply: "//dialog/apply"}
groups:
  - name: web
    steps:
      - name: toggle out of scope
        kind: toggle
        xpath: //out-of-scope
        was_checked: true
        path: technical_assets.web.out_of_scope
  - name: wrong-start
    steps:
      - name: toggle out of scope
        kind: toggle
        xpath: //out-of-scope
        was_checked: false
        path: technical_assets.web.out_of_scope
`

func newStore(ctx context.Context) (*store.Store, *sql.DB) {
	db, err := store.NewDB(":memory:")
	Expect(err).NotTo(HaveOccurred())
	Expect(migrations.Run(ctx, db)).To(Succeed())
	return store.NewStore(db), db
}

func groups() []scenario.Group {
	c, err := scenario.Parse([]byte(catalog))
	Expect(err).NotTo(HaveOccurred())
	return c.Groups
}

// fakeSessions hands out one fake editor page per group.
type fakeSessions struct {
	mu      sync.Mutex
	drivers []*test.FakeDriver
}

func (f *fakeSessions) open(ctx context.Context) (browser.Driver, error) {
	d := test.NewFakeDriver(map[string]any{
		"technical_assets": map[string]any{
			"web": map[string]any{"id": "web", "out_of_scope": true},
		},
	})
	d.Checkbox("//out-of-scope", snapshot.P("technical_assets", "web", "out_of_scope"), true)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.drivers = append(f.drivers, d)
	return d, nil
}

var _ = Describe("Suite", func() {
	var (
		ctx      context.Context
		st       *store.Store
		db       *sql.DB
		sessions *fakeSessions
		opts     services.SuiteOptions
	)

	BeforeEach(func() {
		ctx = context.Background()
		st, db = newStore(ctx)
		sessions = &fakeSessions{}
		opts = services.SuiteOptions{
			Workers:  2,
			Driver:   "rod",
			Editor:   editor.Options{URL: "http://localhost:8000/indexTests.html"},
			Defaults: scenario.Defaults{Apply: "//dialog/apply"},
		}
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Context("Run", func() {
		// Given two groups, one starting from the wrong UI state
		// When the suite runs them in parallel
		// Then the run should be failed and every step journaled
		It("should run every group in its own session and journal the steps", func() {
			suite := services.NewSuite(st, sessions.open, opts)

			report, err := suite.Run(ctx, groups())

			Expect(err).NotTo(HaveOccurred())
			Expect(report.Run.Status).To(Equal(models.RunStatusFailed))
			Expect(report.Run.Passed).To(Equal(1))
			Expect(report.Run.Failed).To(Equal(1))
			Expect(report.Groups).To(HaveLen(2))
			Expect(report.Groups[0].Group).To(Equal("web"))
			Expect(report.Groups[1].Failed()).To(BeTrue())

			Expect(sessions.drivers).To(HaveLen(2))
			for _, d := range sessions.drivers {
				Expect(d.Closed()).To(BeTrue())
			}

			run, err := st.Runs().Get(ctx, report.Run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Status).To(Equal(models.RunStatusFailed))
			Expect(run.Groups).To(Equal([]string{"web", "wrong-start"}))
			Expect(run.Finished()).To(BeTrue())

			steps, err := st.Steps().List(ctx, store.ByRun(run.ID), store.ByGroups("wrong-start"))
			Expect(err).NotTo(HaveOccurred())
			Expect(steps).To(HaveLen(1))
			Expect(steps[0].Outcome).To(Equal(models.StepOutcomePrecondition))
			Expect(steps[0].Error).To(ContainSubstring("unexpected initial state"))

			passed, err := st.Steps().List(ctx, store.ByRun(run.ID), store.ByGroups("web"))
			Expect(err).NotTo(HaveOccurred())
			Expect(passed[0].Outcome).To(Equal(models.StepOutcomePassed))
			Expect(passed[0].Changes).To(HaveLen(1))
			Expect(passed[0].Changes[0].Path).To(Equal("technical_assets.web.out_of_scope"))

			snaps, err := st.Snapshots().List(ctx, store.ByRun(run.ID))
			Expect(err).NotTo(HaveOccurred())
			Expect(snaps).To(HaveLen(2))
			final, err := st.Snapshots().Get(ctx, run.ID, "web", "final")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(final.Data)).To(ContainSubstring(`"out_of_scope":false`))
		})

		It("should pass when every step passes", func() {
			suite := services.NewSuite(st, sessions.open, opts)

			report, err := suite.Run(ctx, groups()[:1])

			Expect(err).NotTo(HaveOccurred())
			Expect(report.Run.Status).To(Equal(models.RunStatusPassed))
			Expect(suite.Current()).To(BeNil())
		})

		It("should fail a group whose browser does not start", func() {
			// Given a browser that cannot be launched
			broken := func(context.Context) (browser.Driver, error) {
				return nil, errors.New("chrome not found")
			}
			suite := services.NewSuite(st, broken, opts)

			// When
			report, err := suite.Run(ctx, groups()[:1])

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Run.Status).To(Equal(models.RunStatusFailed))
			Expect(report.Run.Failed).To(Equal(1))
			Expect(report.Groups[0].Err).To(MatchError(ContainSubstring("chrome not found")))

			steps, err := st.Steps().List(ctx, store.ByRun(report.Run.ID))
			Expect(err).NotTo(HaveOccurred())
			Expect(steps).To(HaveLen(1))
			Expect(steps[0].Name).To(Equal("browser"))
			Expect(steps[0].Outcome).To(Equal(models.StepOutcomeError))
		})
	})

	Context("Start and Stop", func() {
		var release chan struct{}

		BeforeEach(func() {
			release = make(chan struct{})
		})

		blocking := func(ctx context.Context) (browser.Driver, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-release:
				return nil, errors.New("released")
			}
		}

		It("should allow one run at a time", func() {
			suite := services.NewSuite(st, blocking, opts)

			run, err := suite.Start(groups())
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Status).To(Equal(models.RunStatusRunning))
			Expect(suite.Current()).NotTo(BeNil())
			Expect(suite.Current().ID).To(Equal(run.ID))

			_, err = suite.Start(groups())
			Expect(srvErrors.IsRunInProgressError(err)).To(BeTrue())

			close(release)
			Eventually(suite.Current, 2*time.Second).Should(BeNil())
		})

		It("should record a stopped run as canceled", func() {
			suite := services.NewSuite(st, blocking, opts)
			run, err := suite.Start(groups())
			Expect(err).NotTo(HaveOccurred())

			suite.Stop()

			Eventually(suite.Current, 2*time.Second).Should(BeNil())
			stored, err := st.Runs().Get(ctx, run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(models.RunStatusCanceled))
			Expect(stored.Error).To(Equal(context.Canceled.Error()))
		})
	})
})
