package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/threagile/editor-e2e/internal/models"
	"github.com/threagile/editor-e2e/internal/store"
	srvErrors "github.com/threagile/editor-e2e/pkg/errors"
)

var _ = Describe("StepStore", func() {
	var (
		ctx     context.Context
		s       *store.Store
		db      *sql.DB
		started time.Time
	)

	step := func(group, name string, outcome models.StepOutcome) *models.Step {
		return &models.Step{
			RunID:     "r1",
			Group:     group,
			Name:      name,
			Kind:      "edit",
			Outcome:   outcome,
			StartedAt: started,
			Duration:  1500 * time.Millisecond,
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		s, db = newTestStore(ctx)
		started = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		Expect(s.Runs().Create(ctx, newRun("r1", started))).To(Succeed())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Context("Insert", func() {
		// Given a failed step with recorded changes
		// When it is inserted and listed
		// Then the error and changes should round trip
		It("should store errors and changes", func() {
			// Arrange
			st := step("technical-asset", "description", models.StepOutcomeFailed)
			st.Error = "expected foo at path 'technical_assets.foo.description', got bar"
			st.Changes = []srvErrors.Difference{
				{Path: "technical_assets.foo.description", Kind: "changed", Before: "bar", After: "baz"},
			}

			// Act
			Expect(s.Steps().Insert(ctx, st)).To(Succeed())

			// Assert
			Expect(st.ID).To(BeNumerically(">", 0))
			steps, err := s.Steps().List(ctx, store.ByRun("r1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(steps).To(HaveLen(1))
			Expect(steps[0].ID).To(Equal(st.ID))
			Expect(steps[0].Outcome).To(Equal(models.StepOutcomeFailed))
			Expect(steps[0].Error).To(Equal(st.Error))
			Expect(steps[0].Duration).To(Equal(1500 * time.Millisecond))
			Expect(steps[0].Changes).To(HaveLen(1))
			Expect(steps[0].Changes[0].Path).To(Equal("technical_assets.foo.description"))
			Expect(steps[0].Changes[0].After).To(Equal("baz"))
		})

		It("should store steps without changes", func() {
			Expect(s.Steps().Insert(ctx, step("g", "labels", models.StepOutcomePassed))).To(Succeed())

			steps, err := s.Steps().List(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(steps[0].Changes).To(BeEmpty())
			Expect(steps[0].Error).To(BeEmpty())
		})
	})

	Context("List", func() {
		BeforeEach(func() {
			Expect(s.Steps().Insert(ctx, step("technical-asset", "a", models.StepOutcomePassed))).To(Succeed())
			Expect(s.Steps().Insert(ctx, step("technical-asset", "b", models.StepOutcomeFailed))).To(Succeed())
			Expect(s.Steps().Insert(ctx, step("data-asset", "c", models.StepOutcomeError))).To(Succeed())
			Expect(s.Steps().Insert(ctx, step("data-asset", "d", models.StepOutcomePassed))).To(Succeed())
		})

		It("should keep insertion order", func() {
			steps, err := s.Steps().List(ctx)

			Expect(err).NotTo(HaveOccurred())
			names := []string{}
			for _, st := range steps {
				names = append(names, st.Name)
			}
			Expect(names).To(Equal([]string{"a", "b", "c", "d"}))
		})

		It("should combine group and outcome filters", func() {
			steps, err := s.Steps().List(ctx,
				store.ByGroups("data-asset"),
				store.ByOutcomes(string(models.StepOutcomeFailed), string(models.StepOutcomeError)),
			)

			Expect(err).NotTo(HaveOccurred())
			Expect(steps).To(HaveLen(1))
			Expect(steps[0].Name).To(Equal("c"))
		})

		It("should ignore empty filters", func() {
			count, err := s.Steps().Count(ctx, store.ByGroups(), store.ByOutcomes())

			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(4))
		})

		It("should paginate", func() {
			steps, err := s.Steps().List(ctx, store.WithLimit(2), store.WithOffset(2))

			Expect(err).NotTo(HaveOccurred())
			Expect(steps).To(HaveLen(2))
			Expect(steps[0].Name).To(Equal("c"))
		})
	})

	Context("Concurrent writes", func() {
		// Given several groups journaling in parallel
		// When all goroutines insert steps simultaneously
		// Then every insert should succeed with a distinct id
		It("should handle concurrent inserts from multiple goroutines", func() {
			const numGoroutines = 10
			const stepsPerGoroutine = 10
			var wg sync.WaitGroup
			errs := make(chan error, numGoroutines*stepsPerGoroutine)
			ids := make(chan int64, numGoroutines*stepsPerGoroutine)

			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(idx int) {
					defer wg.Done()
					for j := 0; j < stepsPerGoroutine; j++ {
						st := step(fmt.Sprintf("group-%d", idx), fmt.Sprintf("step-%d", j), models.StepOutcomePassed)
						if err := s.Steps().Insert(ctx, st); err != nil {
							errs <- fmt.Errorf("goroutine %d, step %d: %w", idx, j, err)
							return
						}
						ids <- st.ID
					}
				}(i)
			}

			wg.Wait()
			close(errs)
			close(ids)

			var all []error
			for err := range errs {
				all = append(all, err)
			}
			Expect(all).To(BeEmpty(), "Expected no errors from concurrent inserts, got: %v", all)

			seen := map[int64]bool{}
			for id := range ids {
				Expect(seen).NotTo(HaveKey(id))
				seen[id] = true
			}
			count, err := s.Steps().Count(ctx, store.ByRun("r1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(numGoroutines * stepsPerGoroutine))
		})
	})
})
