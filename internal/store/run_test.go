package store_test

import (
	"context"
	"database/sql"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/threagile/editor-e2e/internal/models"
	"github.com/threagile/editor-e2e/internal/store"
	"github.com/threagile/editor-e2e/internal/store/migrations"
	srvErrors "github.com/threagile/editor-e2e/pkg/errors"
)

func newTestStore(ctx context.Context) (*store.Store, *sql.DB) {
	db, err := store.NewDB(":memory:")
	Expect(err).NotTo(HaveOccurred())
	Expect(migrations.Run(ctx, db)).To(Succeed())
	return store.NewStore(db), db
}

func newRun(id string, started time.Time) *models.Run {
	return &models.Run{
		ID:        id,
		Status:    models.RunStatusRunning,
		Groups:    []string{"technical-asset", "data-asset"},
		Driver:    "rod",
		EditorURL: "http://0.0.0.0:8000/indexTests.html",
		StartedAt: started,
	}
}

var _ = Describe("RunStore", func() {
	var (
		ctx     context.Context
		s       *store.Store
		db      *sql.DB
		started time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		s, db = newTestStore(ctx)
		started = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Context("Get", func() {
		// Given an empty journal
		// When we get a run
		// Then it should return a not found error
		It("should return ResourceNotFoundError for unknown runs", func() {
			_, err := s.Runs().Get(ctx, "missing")

			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})

		// Given a created run
		// When we get it
		// Then every field should round trip
		It("should return a created run", func() {
			Expect(s.Runs().Create(ctx, newRun("r1", started))).To(Succeed())

			run, err := s.Runs().Get(ctx, "r1")

			Expect(err).NotTo(HaveOccurred())
			Expect(run.Status).To(Equal(models.RunStatusRunning))
			Expect(run.Groups).To(Equal([]string{"technical-asset", "data-asset"}))
			Expect(run.Driver).To(Equal("rod"))
			Expect(run.StartedAt.Equal(started)).To(BeTrue())
			Expect(run.Finished()).To(BeFalse())
			Expect(run.Error).To(BeEmpty())
		})
	})

	Context("Finish", func() {
		It("should record the final status and counts", func() {
			// Arrange
			Expect(s.Runs().Create(ctx, newRun("r1", started))).To(Succeed())
			finished := started.Add(90 * time.Second)

			// Act
			err := s.Runs().Finish(ctx, &models.Run{
				ID:         "r1",
				Status:     models.RunStatusFailed,
				Passed:     40,
				Failed:     2,
				FinishedAt: &finished,
			})

			// Assert
			Expect(err).NotTo(HaveOccurred())
			run, err := s.Runs().Get(ctx, "r1")
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Status).To(Equal(models.RunStatusFailed))
			Expect(run.Passed).To(Equal(40))
			Expect(run.Failed).To(Equal(2))
			Expect(run.Finished()).To(BeTrue())
			Expect(run.Duration()).To(Equal(90 * time.Second))
		})

		It("should fail for unknown runs", func() {
			err := s.Runs().Finish(ctx, &models.Run{ID: "missing", Status: models.RunStatusPassed})

			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})
	})

	Context("List", func() {
		BeforeEach(func() {
			for i, id := range []string{"r1", "r2", "r3"} {
				Expect(s.Runs().Create(ctx, newRun(id, started.Add(time.Duration(i)*time.Minute)))).To(Succeed())
			}
			Expect(s.Runs().Finish(ctx, &models.Run{ID: "r2", Status: models.RunStatusPassed, Passed: 5})).To(Succeed())
		})

		It("should list newest first", func() {
			runs, err := s.Runs().List(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(3))
			Expect(runs[0].ID).To(Equal("r3"))
			Expect(runs[2].ID).To(Equal("r1"))
		})

		It("should filter by status and count", func() {
			runs, err := s.Runs().List(ctx, store.ByStatus(string(models.RunStatusPassed)))
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(1))
			Expect(runs[0].ID).To(Equal("r2"))

			count, err := s.Runs().Count(ctx, store.ByStatus(string(models.RunStatusRunning)))
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))
		})

		It("should paginate and sort", func() {
			runs, err := s.Runs().List(ctx,
				store.WithSort([]store.SortParam{{Field: "passed", Desc: true}}),
				store.WithLimit(1),
				store.WithOffset(0),
			)

			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(1))
			Expect(runs[0].ID).To(Equal("r2"))
		})
	})

	Context("Delete", func() {
		It("should remove the run with its steps and snapshots", func() {
			// Arrange
			Expect(s.Runs().Create(ctx, newRun("r1", started))).To(Succeed())
			Expect(s.Steps().Insert(ctx, &models.Step{
				RunID: "r1", Group: "g", Name: "s", Kind: "edit",
				Outcome: models.StepOutcomePassed, StartedAt: started,
			})).To(Succeed())
			Expect(s.Snapshots().Save(ctx, models.SavedSnapshot{
				RunID: "r1", Group: "g", Label: "final", Data: []byte(`{}`),
			})).To(Succeed())

			// Act
			Expect(s.Runs().Delete(ctx, "r1")).To(Succeed())

			// Assert
			_, err := s.Runs().Get(ctx, "r1")
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
			count, err := s.Steps().Count(ctx, store.ByRun("r1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
			_, err = s.Snapshots().Get(ctx, "r1", "g", "final")
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})

		It("should fail for unknown runs", func() {
			Expect(srvErrors.IsResourceNotFoundError(s.Runs().Delete(ctx, "missing"))).To(BeTrue())
		})
	})
})
