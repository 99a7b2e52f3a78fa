package services

import (
	"context"

	"github.com/threagile/editor-e2e/internal/models"
	"github.com/threagile/editor-e2e/internal/store"
)

// RunService reads the run journal.
type RunService struct {
	store *store.Store
}

func NewRunService(st *store.Store) *RunService {
	return &RunService{store: st}
}

type RunListParams struct {
	Statuses []string
	Sort     []store.SortParam
	Limit    uint64
	Offset   uint64
}

type RunListResult struct {
	Runs  []models.Run
	Total int
}

func (s *RunService) List(ctx context.Context, params RunListParams) (*RunListResult, error) {
	opts := []store.ListOption{store.ByStatus(params.Statuses...)}
	if len(params.Sort) > 0 {
		opts = append(opts, store.WithSort(params.Sort))
	}
	if params.Limit > 0 {
		opts = append(opts, store.WithLimit(params.Limit))
	}
	if params.Offset > 0 {
		opts = append(opts, store.WithOffset(params.Offset))
	}

	runs, err := s.store.Runs().List(ctx, opts...)
	if err != nil {
		return nil, err
	}

	// Get total count without pagination
	total, err := s.store.Runs().Count(ctx, store.ByStatus(params.Statuses...))
	if err != nil {
		return nil, err
	}

	return &RunListResult{Runs: runs, Total: total}, nil
}

func (s *RunService) Get(ctx context.Context, id string) (*models.Run, error) {
	return s.store.Runs().Get(ctx, id)
}

func (s *RunService) Delete(ctx context.Context, id string) error {
	return s.store.Runs().Delete(ctx, id)
}

type StepListParams struct {
	Groups   []string
	Outcomes []string
	Limit    uint64
	Offset   uint64
}

type StepListResult struct {
	Steps []models.Step
	Total int
}

// Steps lists the journaled steps of a run. Unknown runs yield a
// ResourceNotFoundError.
func (s *RunService) Steps(ctx context.Context, runID string, params StepListParams) (*StepListResult, error) {
	if _, err := s.store.Runs().Get(ctx, runID); err != nil {
		return nil, err
	}

	filters := []store.ListOption{
		store.ByRun(runID),
		store.ByGroups(params.Groups...),
		store.ByOutcomes(params.Outcomes...),
	}
	opts := append([]store.ListOption{}, filters...)
	if params.Limit > 0 {
		opts = append(opts, store.WithLimit(params.Limit))
	}
	if params.Offset > 0 {
		opts = append(opts, store.WithOffset(params.Offset))
	}

	steps, err := s.store.Steps().List(ctx, opts...)
	if err != nil {
		return nil, err
	}
	total, err := s.store.Steps().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	return &StepListResult{Steps: steps, Total: total}, nil
}

// Snapshots lists the snapshot labels kept for a run.
func (s *RunService) Snapshots(ctx context.Context, runID string) ([]models.SavedSnapshot, error) {
	return s.store.Snapshots().List(ctx, store.ByRun(runID))
}

func (s *RunService) Snapshot(ctx context.Context, runID, group, label string) (*models.SavedSnapshot, error) {
	return s.store.Snapshots().Get(ctx, runID, group, label)
}
