package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/threagile/editor-e2e/internal/models"
	srvErrors "github.com/threagile/editor-e2e/pkg/errors"
)

// SnapshotStore keeps model snapshots as JSON blobs, one per run, group and
// label.
type SnapshotStore struct {
	db QueryInterceptor
}

func NewSnapshotStore(db QueryInterceptor) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Save stores or replaces a snapshot.
func (s *SnapshotStore) Save(ctx context.Context, snap models.SavedSnapshot) error {
	_, err := s.db.ExecContext(ctx, queryUpsertSnapshot, snap.RunID, snap.Group, snap.Label, snap.Data)
	return err
}

func (s *SnapshotStore) Get(ctx context.Context, runID, group, label string) (*models.SavedSnapshot, error) {
	row := s.db.QueryRowContext(ctx, queryGetSnapshot, runID, group, label)

	var snap models.SavedSnapshot
	err := row.Scan(&snap.RunID, &snap.Group, &snap.Label, &snap.Data, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewSnapshotNotFoundError(fmt.Sprintf("%s/%s/%s", runID, group, label))
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// List returns snapshot metadata without the data.
func (s *SnapshotStore) List(ctx context.Context, opts ...ListOption) ([]models.SavedSnapshot, error) {
	builder := sq.Select("run_id", "group_name", "label", "created_at").
		From("snapshots").
		OrderBy("created_at", "group_name", "label")

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

	var snaps []models.SavedSnapshot
	for rows.Next() {
		var snap models.SavedSnapshot
		if err := rows.Scan(&snap.RunID, &snap.Group, &snap.Label, &snap.CreatedAt); err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}
