package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/video-task-dashboard/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// GetPaginationParams extracts and validates pagination parameters from the request
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPageSize)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}
	// keep (page-1)*limit within int
	if page > math.MaxInt/limit {
		page = math.MaxInt / limit
	}

	offset := (page - 1) * limit

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: offset,
	}
}

// Paginate returns the page of items selected by params
func Paginate[T any](items []T, params PaginationParams) []T {
	if params.Offset < 0 || params.Offset >= len(items) || params.Limit <= 0 {
		return []T{}
	}
	end := len(items)
	if params.Limit < end-params.Offset {
		end = params.Offset + params.Limit
	}
	return items[params.Offset:end]
}
