package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/threagile/editor-e2e/api/v1"
	"github.com/threagile/editor-e2e/internal/services"
	srvErrors "github.com/threagile/editor-e2e/pkg/errors"
)

// ListGroups returns the scenario groups of the catalogue
// (GET /groups)
func (h *Handler) ListGroups(c *gin.Context) {
	groups := make([]v1.Group, 0, len(h.catalog.Groups))
	for _, g := range h.catalog.Groups {
		groups = append(groups, v1.Group{Name: g.Name, Steps: len(g.Steps)})
	}
	c.JSON(http.StatusOK, groups)
}

// ListRuns returns journaled runs, newest first
// (GET /runs)
func (h *Handler) ListRuns(c *gin.Context, params v1.ListRunsParams) {
	page, pageSize, offset := paginate(params.Page, params.PageSize)

	result, err := h.runSrv.List(c.Request.Context(), services.RunListParams{
		Statuses: params.Status,
		Sort:     v1.ParseSort(params.Sort),
		Limit:    uint64(pageSize),
		Offset:   offset,
	})
	if err != nil {
		zap.S().Named("run_handler").Errorw("failed to list runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}

	runs := make([]v1.Run, 0, len(result.Runs))
	for _, r := range result.Runs {
		runs = append(runs, v1.NewRunFromModel(r))
	}

	c.JSON(http.StatusOK, v1.RunListResponse{
		Runs:      runs,
		Page:      page,
		PageCount: pageCount(result.Total, pageSize),
		Total:     result.Total,
	})
}

// StartRun starts a run of the requested groups in the background
// (POST /runs)
func (h *Handler) StartRun(c *gin.Context) {
	var req v1.StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	groups, err := h.catalog.Select(req.Groups...)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run, err := h.suite.Start(groups)
	if err != nil {
		if srvErrors.IsRunInProgressError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		zap.S().Named("run_handler").Errorw("failed to start run", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start run"})
		return
	}

	c.JSON(http.StatusAccepted, v1.NewRunFromModel(*run))
}

// GetCurrentRun returns the executing run
// (GET /runs/current)
func (h *Handler) GetCurrentRun(c *gin.Context) {
	run := h.suite.Current()
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run in progress"})
		return
	}
	c.JSON(http.StatusOK, v1.NewRunFromModel(*run))
}

// StopCurrentRun cancels the executing run
// (DELETE /runs/current)
func (h *Handler) StopCurrentRun(c *gin.Context) {
	h.suite.Stop()
	c.Status(http.StatusAccepted)
}

// GetRun returns one run
// (GET /runs/{id})
func (h *Handler) GetRun(c *gin.Context, id string) {
	run, err := h.runSrv.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "failed to get run", err)
		return
	}
	c.JSON(http.StatusOK, v1.NewRunFromModel(*run))
}

// DeleteRun removes a run and everything journaled for it
// (DELETE /runs/{id})
func (h *Handler) DeleteRun(c *gin.Context, id string) {
	if current := h.suite.Current(); current != nil && current.ID == id {
		c.JSON(http.StatusConflict, gin.H{"error": srvErrors.NewRunInProgressError(id).Error()})
		return
	}
	if err := h.runSrv.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "failed to delete run", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListRunSteps returns the journaled steps of a run
// (GET /runs/{id}/steps)
func (h *Handler) ListRunSteps(c *gin.Context, id string, params v1.ListRunStepsParams) {
	page, pageSize, offset := paginate(params.Page, params.PageSize)

	result, err := h.runSrv.Steps(c.Request.Context(), id, services.StepListParams{
		Groups:   params.Group,
		Outcomes: params.Outcome,
		Limit:    uint64(pageSize),
		Offset:   offset,
	})
	if err != nil {
		h.fail(c, "failed to list steps", err)
		return
	}

	steps := make([]v1.Step, 0, len(result.Steps))
	for _, s := range result.Steps {
		steps = append(steps, v1.NewStepFromModel(s))
	}

	c.JSON(http.StatusOK, v1.StepListResponse{
		Steps:     steps,
		Page:      page,
		PageCount: pageCount(result.Total, pageSize),
		Total:     result.Total,
	})
}

// ListRunSnapshots lists the snapshots kept for a run
// (GET /runs/{id}/snapshots)
func (h *Handler) ListRunSnapshots(c *gin.Context, id string) {
	snaps, err := h.runSrv.Snapshots(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "failed to list snapshots", err)
		return
	}
	out := make([]v1.SnapshotInfo, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, v1.NewSnapshotInfoFromModel(s))
	}
	c.JSON(http.StatusOK, out)
}

// GetRunSnapshot returns the model JSON of a snapshot
// (GET /runs/{id}/snapshots/{group}/{label})
func (h *Handler) GetRunSnapshot(c *gin.Context, id, group, label string) {
	snap, err := h.runSrv.Snapshot(c.Request.Context(), id, group, label)
	if err != nil {
		h.fail(c, "failed to get snapshot", err)
		return
	}
	c.Data(http.StatusOK, "application/json", snap.Data)
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	if srvErrors.IsResourceNotFoundError(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	zap.S().Named("run_handler").Errorw(msg, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
