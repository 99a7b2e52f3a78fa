package handlers_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/threagile/editor-e2e/api/v1"
	"github.com/threagile/editor-e2e/internal/browser"
	"github.com/threagile/editor-e2e/internal/handlers"
	"github.com/threagile/editor-e2e/internal/models"
	"github.com/threagile/editor-e2e/internal/scenario"
	"github.com/threagile/editor-e2e/internal/services"
	"github.com/threagile/editor-e2e/internal/store"
	"github.com/threagile/editor-e2e/internal/store/migrations"
	srvErrors "github.com/threagile/editor-e2e/pkg/errors"
)

const catalog = `
defaults: {apply: "//dialog/apply"}
groups:
  - name: technical-asset
    steps:
      - {name: toggle, kind: toggle, xpath: //toggle, path: technical_assets.foo.out_of_scope}
  - name: data-asset
    steps:
      - {name: toggle, kind: toggle, xpath: //toggle, path: data_assets.foo.x}
      - {name: delete, kind: delete, clicks: [//delete], path: data_assets}
`

var _ = Describe("Run handlers", func() {
	var (
		ctx     context.Context
		db      *sql.DB
		st      *store.Store
		router  *gin.Engine
		release chan struct{}
		suite   *services.Suite
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())
		st = store.NewStore(db)

		started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		for i, id := range []string{"r1", "r2"} {
			Expect(st.Runs().Create(ctx, &models.Run{
				ID: id, Status: models.RunStatusRunning, Groups: []string{"technical-asset"},
				StartedAt: started.Add(time.Duration(i) * time.Hour),
			})).To(Succeed())
		}
		Expect(st.Runs().Finish(ctx, &models.Run{ID: "r1", Status: models.RunStatusFailed, Passed: 3, Failed: 1})).To(Succeed())
		Expect(st.Steps().Insert(ctx, &models.Step{
			RunID: "r1", Group: "technical-asset", Name: "description", Kind: "edit",
			Outcome: models.StepOutcomeFailed, Error: "expected Browser",
			Changes:   []srvErrors.Difference{{Path: "technical_assets.foo.description", Kind: "changed", Before: "a", After: "b"}},
			StartedAt: started,
		})).To(Succeed())
		Expect(st.Snapshots().Save(ctx, models.SavedSnapshot{
			RunID: "r1", Group: "technical-asset", Label: "final", Data: []byte(`{"technical_assets":{}}`),
		})).To(Succeed())

		release = make(chan struct{})
		blocking := func(ctx context.Context) (browser.Driver, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-release:
				return nil, context.Canceled
			}
		}
		suite = services.NewSuite(st, blocking, services.SuiteOptions{Workers: 1})

		c, err := scenario.Parse([]byte(catalog))
		Expect(err).NotTo(HaveOccurred())

		router = gin.New()
		v1.RegisterHandlers(router.Group("/api/v1"), handlers.New(services.NewRunService(st), suite, c))
	})

	AfterEach(func() {
		suite.Stop()
		Eventually(suite.Current, 2*time.Second).Should(BeNil())
		db.Close()
	})

	It("should list the catalogue groups", func() {
		w := do(http.MethodGet, "/api/v1/groups", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var groups []v1.Group
		Expect(json.Unmarshal(w.Body.Bytes(), &groups)).To(Succeed())
		Expect(groups).To(Equal([]v1.Group{{Name: "technical-asset", Steps: 1}, {Name: "data-asset", Steps: 2}}))
	})

	Describe("GET /runs", func() {
		It("should page runs newest first", func() {
			w := do(http.MethodGet, "/api/v1/runs?pageSize=1", "")

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp v1.RunListResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Total).To(Equal(2))
			Expect(resp.PageCount).To(Equal(2))
			Expect(resp.Runs).To(HaveLen(1))
			Expect(resp.Runs[0].Id).To(Equal("r2"))
		})

		It("should return an empty page past the last one", func() {
			// Given a page number far beyond any row offset
			w := do(http.MethodGet, "/api/v1/runs?pageSize=100&page=9223372036854775807", "")

			// Then the request succeeds with no runs
			Expect(w.Code).To(Equal(http.StatusOK))
			var resp v1.RunListResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Total).To(Equal(2))
			Expect(resp.Runs).To(BeEmpty())
		})

		It("should filter by status", func() {
			w := do(http.MethodGet, "/api/v1/runs?status=failed", "")

			var resp v1.RunListResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Total).To(Equal(1))
			Expect(resp.Runs[0].Id).To(Equal("r1"))
			Expect(resp.Runs[0].Failed).To(Equal(1))
			Expect(resp.Runs[0].DurationMs).NotTo(BeNil())
		})
	})

	Describe("GET /runs/{id}", func() {
		It("should return the run", func() {
			w := do(http.MethodGet, "/api/v1/runs/r1", "")

			Expect(w.Code).To(Equal(http.StatusOK))
			var run v1.Run
			Expect(json.Unmarshal(w.Body.Bytes(), &run)).To(Succeed())
			Expect(run.Status).To(Equal("failed"))
		})

		It("should return 404 for unknown runs", func() {
			w := do(http.MethodGet, "/api/v1/runs/missing", "")

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("GET /runs/{id}/steps", func() {
		It("should return steps with their changes", func() {
			w := do(http.MethodGet, "/api/v1/runs/r1/steps?outcome=failed", "")

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp v1.StepListResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Total).To(Equal(1))
			Expect(*resp.Steps[0].Error).To(Equal("expected Browser"))
			Expect(resp.Steps[0].Changes).To(ConsistOf(v1.Change{
				Path: "technical_assets.foo.description", Kind: "changed", Before: "a", After: "b",
			}))
		})

		It("should return 404 for unknown runs", func() {
			Expect(do(http.MethodGet, "/api/v1/runs/missing/steps", "").Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("snapshots", func() {
		It("should list and return snapshots", func() {
			w := do(http.MethodGet, "/api/v1/runs/r1/snapshots", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			var infos []v1.SnapshotInfo
			Expect(json.Unmarshal(w.Body.Bytes(), &infos)).To(Succeed())
			Expect(infos).To(HaveLen(1))
			Expect(infos[0].Label).To(Equal("final"))

			w = do(http.MethodGet, "/api/v1/runs/r1/snapshots/technical-asset/final", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"technical_assets":{}}`))
		})

		It("should return 404 for unknown snapshots", func() {
			Expect(do(http.MethodGet, "/api/v1/runs/r1/snapshots/technical-asset/initial", "").Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("POST /runs", func() {
		It("should start a run of the selected groups", func() {
			w := do(http.MethodPost, "/api/v1/runs", `{"groups":["data-asset"]}`)

			Expect(w.Code).To(Equal(http.StatusAccepted))
			var run v1.Run
			Expect(json.Unmarshal(w.Body.Bytes(), &run)).To(Succeed())
			Expect(run.Status).To(Equal("running"))
			Expect(run.Groups).To(Equal([]string{"data-asset"}))

			w = do(http.MethodGet, "/api/v1/runs/current", "")
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should run the whole catalogue without a body", func() {
			w := do(http.MethodPost, "/api/v1/runs", "")

			Expect(w.Code).To(Equal(http.StatusAccepted))
			var run v1.Run
			Expect(json.Unmarshal(w.Body.Bytes(), &run)).To(Succeed())
			Expect(run.Groups).To(Equal([]string{"technical-asset", "data-asset"}))
		})

		It("should reject unknown groups", func() {
			w := do(http.MethodPost, "/api/v1/runs", `{"groups":["nope"]}`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring(`unknown scenario group \"nope\"`))
		})

		It("should refuse a second run", func() {
			Expect(do(http.MethodPost, "/api/v1/runs", "").Code).To(Equal(http.StatusAccepted))

			Expect(do(http.MethodPost, "/api/v1/runs", "").Code).To(Equal(http.StatusConflict))
		})
	})

	Describe("current run", func() {
		It("should return 404 when nothing runs", func() {
			Expect(do(http.MethodGet, "/api/v1/runs/current", "").Code).To(Equal(http.StatusNotFound))
		})

		It("should stop the current run", func() {
			Expect(do(http.MethodPost, "/api/v1/runs", "").Code).To(Equal(http.StatusAccepted))

			Expect(do(http.MethodDelete, "/api/v1/runs/current", "").Code).To(Equal(http.StatusAccepted))

			Eventually(func() int {
				return do(http.MethodGet, "/api/v1/runs/current", "").Code
			}, 2*time.Second).Should(Equal(http.StatusNotFound))
		})
	})

	Describe("DELETE /runs/{id}", func() {
		It("should delete a finished run", func() {
			Expect(do(http.MethodDelete, "/api/v1/runs/r1", "").Code).To(Equal(http.StatusNoContent))

			Expect(do(http.MethodGet, "/api/v1/runs/r1", "").Code).To(Equal(http.StatusNotFound))
		})

		It("should return 404 for unknown runs", func() {
			Expect(do(http.MethodDelete, "/api/v1/runs/missing", "").Code).To(Equal(http.StatusNotFound))
		})
	})
})
