// Package v1 holds the wire types and routes of the /api/v1 runs API.
package v1

import "time"

type Run struct {
	Id         string     `json:"id"`
	Status     string     `json:"status"`
	Groups     []string   `json:"groups"`
	Driver     string     `json:"driver,omitempty"`
	EditorUrl  string     `json:"editorUrl,omitempty"`
	Error      *string    `json:"error,omitempty"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	DurationMs *int64     `json:"durationMs,omitempty"`
	Passed     int        `json:"passed"`
	Failed     int        `json:"failed"`
}

type RunListResponse struct {
	Runs      []Run `json:"runs"`
	Page      int   `json:"page"`
	PageCount int   `json:"pageCount"`
	Total     int   `json:"total"`
}

type Change struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Before any    `json:"before,omitempty"`
	After  any    `json:"after,omitempty"`
}

type Step struct {
	Id         int64     `json:"id"`
	Group      string    `json:"group"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	Outcome    string    `json:"outcome"`
	Error      *string   `json:"error,omitempty"`
	Changes    []Change  `json:"changes"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMs int64     `json:"durationMs"`
}

type StepListResponse struct {
	Steps     []Step `json:"steps"`
	Page      int    `json:"page"`
	PageCount int    `json:"pageCount"`
	Total     int    `json:"total"`
}

type SnapshotInfo struct {
	Group     string    `json:"group"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}

type Group struct {
	Name  string `json:"name"`
	Steps int    `json:"steps"`
}

type StartRunRequest struct {
	// Groups to run. Empty runs the whole catalogue.
	Groups []string `json:"groups"`
}

type ListRunsParams struct {
	Page     int      `form:"page"`
	PageSize int      `form:"pageSize"`
	Status   []string `form:"status"`
	// Sort fields, "-" prefix for descending: "-started,failed".
	Sort []string `form:"sort"`
}

type ListRunStepsParams struct {
	Page     int      `form:"page"`
	PageSize int      `form:"pageSize"`
	Group    []string `form:"group"`
	Outcome  []string `form:"outcome"`
}
