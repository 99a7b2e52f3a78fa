package store

import "database/sql"

// Store provides access to all storage repositories.
type Store struct {
	db        *sql.DB
	runs      *RunStore
	steps     *StepStore
	snapshots *SnapshotStore
}

// NewStore expects a database migrated with migrations.Run.
func NewStore(db *sql.DB) *Store {
	qi := NewQueryInterceptor(db)
	return &Store{
		db:        db,
		runs:      NewRunStore(qi),
		steps:     NewStepStore(qi),
		snapshots: NewSnapshotStore(qi),
	}
}

func (s *Store) Runs() *RunStore {
	return s.runs
}

func (s *Store) Steps() *StepStore {
	return s.steps
}

func (s *Store) Snapshots() *SnapshotStore {
	return s.snapshots
}

func (s *Store) Close() error {
	return s.db.Close()
}
