package models

import (
	"fmt"
	"time"
)

type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusPassed   RunStatus = "passed"
	RunStatusFailed   RunStatus = "failed"
	RunStatusCanceled RunStatus = "canceled"
)

func ParseRunStatus(s string) (RunStatus, error) {
	switch RunStatus(s) {
	case RunStatusRunning, RunStatusPassed, RunStatusFailed, RunStatusCanceled:
		return RunStatus(s), nil
	default:
		return "", fmt.Errorf("invalid run status: %s", s)
	}
}

// Run is one execution of a set of scenario groups.
type Run struct {
	ID        string
	Status    RunStatus
	Groups    []string
	Driver    string
	EditorURL string
	// Error is set when the run could not finish, as opposed to failed steps.
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
	Passed     int
	Failed     int
}

func (r Run) Finished() bool {
	return r.FinishedAt != nil
}

// Duration is the elapsed time of a finished run, or zero.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
