package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/threagile/editor-e2e/api/v1"
	"github.com/threagile/editor-e2e/pkg/client"
	srvErrors "github.com/threagile/editor-e2e/pkg/errors"
)

var _ = Describe("Client", func() {
	var (
		ctx     context.Context
		srv     *httptest.Server
		c       *client.Client
		current *v1.Run
		started []string
		query   string
	)

	BeforeEach(func() {
		ctx = context.Background()
		current = nil
		started = nil

		router := gin.New()
		api := router.Group("/api/v1")
		api.POST("/runs", func(ctx *gin.Context) {
			if current != nil {
				ctx.JSON(http.StatusConflict, gin.H{"error": "run r1 is still in progress"})
				return
			}
			var req v1.StartRunRequest
			_ = ctx.ShouldBindJSON(&req)
			started = req.Groups
			current = &v1.Run{Id: "r1", Status: "running", Groups: req.Groups, StartedAt: time.Now()}
			ctx.JSON(http.StatusAccepted, current)
		})
		api.GET("/runs/current", func(ctx *gin.Context) {
			if current == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "no run in progress"})
				return
			}
			ctx.JSON(http.StatusOK, current)
		})
		api.DELETE("/runs/current", func(ctx *gin.Context) {
			current = nil
			ctx.Status(http.StatusAccepted)
		})
		api.GET("/runs/:id", func(ctx *gin.Context) {
			if ctx.Param("id") != "r1" {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "run missing not found"})
				return
			}
			ctx.JSON(http.StatusOK, v1.Run{Id: "r1", Status: "passed", Passed: 3})
		})
		api.GET("/runs/:id/steps", func(ctx *gin.Context) {
			query = ctx.Request.URL.RawQuery
			ctx.JSON(http.StatusOK, v1.StepListResponse{
				Steps: []v1.Step{{Id: 1, Group: "technical-asset", Name: "toggle", Outcome: "passed"}},
				Page:  1, PageCount: 1, Total: 1,
			})
		})

		srv = httptest.NewServer(router)
		var err error
		c, err = client.NewClient(srv.URL + "/")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		srv.Close()
	})

	It("should reject a relative server url", func() {
		_, err := client.NewClient("localhost")

		Expect(err).To(MatchError(ContainSubstring("invalid server url")))
	})

	// Given no run in progress
	// When we start one, read it back and stop it
	// Then the client should follow the run through its lifecycle
	It("should start, follow and stop a run", func() {
		run, err := c.StartRun(ctx, "technical-asset")
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Id).To(Equal("r1"))
		Expect(started).To(Equal([]string{"technical-asset"}))

		cur, err := c.CurrentRun(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(cur).NotTo(BeNil())
		Expect(cur.Status).To(Equal("running"))

		Expect(c.StopCurrentRun(ctx)).To(Succeed())

		cur, err = c.CurrentRun(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(cur).To(BeNil())
	})

	It("should map a conflict to RunInProgressError", func() {
		_, err := c.StartRun(ctx)
		Expect(err).NotTo(HaveOccurred())

		_, err = c.StartRun(ctx)

		Expect(srvErrors.IsRunInProgressError(err)).To(BeTrue())
	})

	It("should map a missing run to ResourceNotFoundError", func() {
		_, err := c.GetRun(ctx, "missing")

		Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		Expect(err).To(MatchError("run missing not found"))
	})

	It("should get a run", func() {
		run, err := c.GetRun(ctx, "r1")

		Expect(err).NotTo(HaveOccurred())
		Expect(run.Passed).To(Equal(3))
	})

	It("should page through steps", func() {
		steps, err := c.ListRunSteps(ctx, "r1", 2, 50)

		Expect(err).NotTo(HaveOccurred())
		Expect(steps.Steps).To(HaveLen(1))
		Expect(query).To(Equal("page=2&pageSize=50"))
	})
})
