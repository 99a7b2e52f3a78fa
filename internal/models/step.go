package models

import (
	"time"

	"github.com/threagile/editor-e2e/pkg/errors"
)

// StepOutcome classifies a finished step.
type StepOutcome string

const (
	// StepOutcomePassed - every assertion held
	StepOutcomePassed StepOutcome = "passed"
	// StepOutcomeFailed - a model assertion failed
	StepOutcomeFailed StepOutcome = "failed"
	// StepOutcomePrecondition - the UI was not in the expected initial state
	StepOutcomePrecondition StepOutcome = "precondition"
	// StepOutcomeError - the browser or an editor script failed
	StepOutcomeError StepOutcome = "error"
)

func (o StepOutcome) Value() string {
	return string(o)
}

// OutcomeOf maps a step error to its outcome.
func OutcomeOf(err error) StepOutcome {
	switch {
	case err == nil:
		return StepOutcomePassed
	case errors.IsAssertionError(err):
		return StepOutcomeFailed
	case errors.IsPreconditionError(err):
		return StepOutcomePrecondition
	default:
		return StepOutcomeError
	}
}

// Step is the journal record of one scenario step.
type Step struct {
	ID        int64
	RunID     string
	Group     string
	Name      string
	Kind      string
	Outcome   StepOutcome
	Error     string
	Changes   []errors.Difference
	StartedAt time.Time
	Duration  time.Duration
}
