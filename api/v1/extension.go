package v1

import (
	"strings"

	"github.com/threagile/editor-e2e/internal/models"
	"github.com/threagile/editor-e2e/internal/store"
)

// NewRunFromModel converts a models.Run to an API Run.
func NewRunFromModel(r models.Run) Run {
	run := Run{
		Id:         r.ID,
		Status:     string(r.Status),
		Groups:     r.Groups,
		Driver:     r.Driver,
		EditorUrl:  r.EditorURL,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Passed:     r.Passed,
		Failed:     r.Failed,
	}
	if run.Groups == nil {
		run.Groups = []string{}
	}
	if r.Error != "" {
		run.Error = &r.Error
	}
	if r.Finished() {
		ms := r.Duration().Milliseconds()
		run.DurationMs = &ms
	}
	return run
}

// NewStepFromModel converts a models.Step to an API Step.
func NewStepFromModel(s models.Step) Step {
	step := Step{
		Id:         s.ID,
		Group:      s.Group,
		Name:       s.Name,
		Kind:       s.Kind,
		Outcome:    string(s.Outcome),
		Changes:    make([]Change, 0, len(s.Changes)),
		StartedAt:  s.StartedAt,
		DurationMs: s.Duration.Milliseconds(),
	}
	if s.Error != "" {
		step.Error = &s.Error
	}
	for _, d := range s.Changes {
		step.Changes = append(step.Changes, Change{Path: d.Path, Kind: d.Kind, Before: d.Before, After: d.After})
	}
	return step
}

func NewSnapshotInfoFromModel(s models.SavedSnapshot) SnapshotInfo {
	return SnapshotInfo{Group: s.Group, Label: s.Label, CreatedAt: s.CreatedAt}
}

// ParseSort converts "field" and "-field" sort params to store sort params.
func ParseSort(params []string) []store.SortParam {
	var result []store.SortParam
	for _, p := range params {
		for _, field := range strings.Split(p, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			desc := strings.HasPrefix(field, "-")
			result = append(result, store.SortParam{Field: strings.TrimPrefix(field, "-"), Desc: desc})
		}
	}
	return result
}
