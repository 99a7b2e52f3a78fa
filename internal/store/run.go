package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/threagile/editor-e2e/internal/models"
	srvErrors "github.com/threagile/editor-e2e/pkg/errors"
)

// RunStore persists runs.
type RunStore struct {
	db QueryInterceptor
}

func NewRunStore(db QueryInterceptor) *RunStore {
	return &RunStore{db: db}
}

// Create inserts a new run.
func (s *RunStore) Create(ctx context.Context, run *models.Run) error {
	groups, err := json.Marshal(run.Groups)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, queryInsertRun,
		run.ID, string(run.Status), string(groups), run.Driver, run.EditorURL, run.StartedAt.UTC())
	return err
}

// Finish records the final state of a run.
func (s *RunStore) Finish(ctx context.Context, run *models.Run) error {
	finished := time.Now().UTC()
	if run.FinishedAt != nil {
		finished = run.FinishedAt.UTC()
	}
	res, err := s.db.ExecContext(ctx, queryFinishRun,
		string(run.Status), nullString(run.Error), run.Passed, run.Failed, finished, run.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return srvErrors.NewRunNotFoundError(run.ID)
	}
	return nil
}

func (s *RunStore) Get(ctx context.Context, id string) (*models.Run, error) {
	runs, err := s.List(ctx, func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Eq{"id": id})
	})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, srvErrors.NewRunNotFoundError(id)
	}
	return &runs[0], nil
}

// List returns runs. WithSort orders come first, then newest first.
func (s *RunStore) List(ctx context.Context, opts ...ListOption) ([]models.Run, error) {
	builder := sq.Select(
		"id",
		"status",
		"group_names",
		"driver",
		"editor_url",
		"error",
		"started_at",
		"finished_at",
		"passed",
		"failed",
	).From("runs")

	for _, opt := range opts {
		builder = opt(builder)
	}
	builder = builder.OrderBy("started_at DESC", "id")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		var (
			run                       models.Run
			status, groups            string
			driver, editorURL, errMsg sql.NullString
			finished                  sql.NullTime
		)
		err := rows.Scan(
			&run.ID,
			&status,
			&groups,
			&driver,
			&editorURL,
			&errMsg,
			&run.StartedAt,
			&finished,
			&run.Passed,
			&run.Failed,
		)
		if err != nil {
			return nil, err
		}
		if run.Status, err = models.ParseRunStatus(status); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(groups), &run.Groups); err != nil {
			return nil, fmt.Errorf("run %s: bad group list: %w", run.ID, err)
		}
		run.Driver = driver.String
		run.EditorURL = editorURL.String
		run.Error = errMsg.String
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *RunStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From("runs")

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

// Delete removes a run with its steps and snapshots.
func (s *RunStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, queryDeleteRunSteps, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, queryDeleteRunSnapshots, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, queryDeleteRun, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return srvErrors.NewRunNotFoundError(id)
	}
	return tx.Commit()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
