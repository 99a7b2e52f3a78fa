package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/threagile/editor-e2e/internal/models"
	"github.com/threagile/editor-e2e/internal/scenario"
	"github.com/threagile/editor-e2e/internal/store"
	"github.com/threagile/editor-e2e/pkg/snapshot"
)

// Journal records the steps and snapshots of one group of one run. Journal
// failures are logged and never fail a step.
type Journal struct {
	store *store.Store
	runID string
	group string
}

func NewJournal(st *store.Store, runID, group string) *Journal {
	return &Journal{store: st, runID: runID, group: group}
}

// Record returns a step callback for scenario.Runner.OnStep.
func (j *Journal) Record(ctx context.Context) func(scenario.StepResult) {
	return func(r scenario.StepResult) {
		step := &models.Step{
			RunID:     j.runID,
			Group:     j.group,
			Name:      r.Step,
			Kind:      string(r.Kind),
			Outcome:   models.OutcomeOf(r.Err),
			Changes:   r.Changes,
			StartedAt: r.Started,
			Duration:  r.Duration,
		}
		if r.Err != nil {
			step.Error = r.Err.Error()
		}
		j.insert(ctx, step)
	}
}

// RecordFailure journals a failure outside of any catalogue step, such as a
// browser that did not start or a failed group setup.
func (j *Journal) RecordFailure(ctx context.Context, name string, err error) {
	j.insert(ctx, &models.Step{
		RunID:     j.runID,
		Group:     j.group,
		Name:      name,
		Kind:      "setup",
		Outcome:   models.OutcomeOf(err),
		Error:     err.Error(),
		StartedAt: time.Now(),
	})
}

// SaveSnapshot stores snap under label.
func (j *Journal) SaveSnapshot(ctx context.Context, label string, snap snapshot.Snapshot) {
	data, err := snap.MarshalJSON()
	if err == nil {
		err = j.store.Snapshots().Save(context.WithoutCancel(ctx), models.SavedSnapshot{
			RunID: j.runID,
			Group: j.group,
			Label: label,
			Data:  data,
		})
	}
	if err != nil {
		zap.S().Named("journal").Errorw("failed to save snapshot", "run", j.runID, "group", j.group, "label", label, "error", err)
	}
}

func (j *Journal) insert(ctx context.Context, step *models.Step) {
	if err := j.store.Steps().Insert(context.WithoutCancel(ctx), step); err != nil {
		zap.S().Named("journal").Errorw("failed to journal step", "run", j.runID, "group", j.group, "step", step.Name, "error", err)
	}
}
