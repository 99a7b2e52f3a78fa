package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/threagile/editor-e2e/internal/models"
)

// StepStore persists step records. Steps are never updated.
type StepStore struct {
	db QueryInterceptor
}

func NewStepStore(db QueryInterceptor) *StepStore {
	return &StepStore{db: db}
}

// Insert stores step and sets its ID.
func (s *StepStore) Insert(ctx context.Context, step *models.Step) error {
	changes, err := json.Marshal(step.Changes)
	if err != nil {
		return fmt.Errorf("failed to encode changes of step %s: %w", step.Name, err)
	}
	if step.Changes == nil {
		changes = []byte("[]")
	}
	return s.db.QueryRowContext(ctx, queryInsertStep,
		step.RunID,
		step.Group,
		step.Name,
		step.Kind,
		string(step.Outcome),
		nullString(step.Error),
		string(changes),
		step.StartedAt.UTC(),
		step.Duration.Milliseconds(),
	).Scan(&step.ID)
}

// List returns steps in the order they were recorded.
func (s *StepStore) List(ctx context.Context, opts ...ListOption) ([]models.Step, error) {
	builder := sq.Select(
		"id",
		"run_id",
		"group_name",
		"name",
		"kind",
		"outcome",
		"error",
		"changes",
		"started_at",
		"duration_ms",
	).From("steps").OrderBy("id")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []models.Step
	for rows.Next() {
		var (
			step             models.Step
			outcome, changes string
			errMsg           sql.NullString
			durationMs       int64
		)
		err := rows.Scan(
			&step.ID,
			&step.RunID,
			&step.Group,
			&step.Name,
			&step.Kind,
			&outcome,
			&errMsg,
			&changes,
			&step.StartedAt,
			&durationMs,
		)
		if err != nil {
			return nil, err
		}
		step.Outcome = models.StepOutcome(outcome)
		step.Error = errMsg.String
		step.Duration = time.Duration(durationMs) * time.Millisecond
		if err := json.Unmarshal([]byte(changes), &step.Changes); err != nil {
			return nil, fmt.Errorf("step %d: bad changes: %w", step.ID, err)
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

func (s *StepStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From("steps")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}
