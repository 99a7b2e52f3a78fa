package store

import (
	sq "github.com/Masterminds/squirrel"
)

// ListOption narrows or orders a List or Count query.
type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func ByRun(id string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Eq{"run_id": id})
	}
}

func ByGroups(groups ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(groups) == 0 {
			return b
		}
		return b.Where(sq.Eq{"group_name": groups})
	}
}

// ByOutcomes filters steps.
func ByOutcomes(outcomes ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(outcomes) == 0 {
			return b
		}
		return b.Where(sq.Eq{"outcome": outcomes})
	}
}

// ByStatus filters runs.
func ByStatus(statuses ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(statuses) == 0 {
			return b
		}
		return b.Where(sq.Eq{"status": statuses})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}

type SortParam struct {
	Field string
	Desc  bool
}

var apiFieldToDBColumn = map[string]string{
	"started":  "started_at",
	"finished": "finished_at",
	"status":   "status",
	"passed":   "passed",
	"failed":   "failed",
}

// WithSort orders runs by API field names. Unknown fields are skipped; the
// run id breaks ties.
func WithSort(sorts []SortParam) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		var orderClauses []string
		for _, s := range sorts {
			col, ok := apiFieldToDBColumn[s.Field]
			if !ok {
				continue
			}
			if s.Desc {
				orderClauses = append(orderClauses, col+" DESC")
			} else {
				orderClauses = append(orderClauses, col+" ASC")
			}
		}
		orderClauses = append(orderClauses, "id")
		return b.OrderBy(orderClauses...)
	}
}
