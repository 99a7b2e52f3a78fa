package handlers

import (
	"math"

	v1 "github.com/threagile/editor-e2e/api/v1"
	"github.com/threagile/editor-e2e/internal/scenario"
	"github.com/threagile/editor-e2e/internal/services"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// maxPage bounds the row offset.
	maxPage = math.MaxInt32
)

type Handler struct {
	runSrv  *services.RunService
	suite   *services.Suite
	catalog *scenario.Catalog
}

func New(runSrv *services.RunService, suite *services.Suite, catalog *scenario.Catalog) *Handler {
	return &Handler{
		runSrv:  runSrv,
		suite:   suite,
		catalog: catalog,
	}
}

var _ v1.ServerInterface = (*Handler)(nil)

// paginate clamps page and page size and returns the row offset.
func paginate(page, pageSize int) (int, int, uint64) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize, uint64(page-1) * uint64(pageSize)
}

func pageCount(total, pageSize int) int {
	n := (total + pageSize - 1) / pageSize
	if n == 0 {
		n = 1
	}
	return n
}
