package models

import "time"

// SavedSnapshot is a model snapshot kept in the journal, as JSON.
type SavedSnapshot struct {
	RunID     string
	Group     string
	Label     string
	Data      []byte
	CreatedAt time.Time
}
