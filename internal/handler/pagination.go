package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// TotalCountHeader carries the number of matches before pagination.
	TotalCountHeader = "X-Total-Count"
)

// Pagination is the page a list request asked for. A zero Limit means the
// client did not paginate and every match is returned.
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip.
func (p Pagination) Offset() int {
	if p.Limit == 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// parsePagination reads the optional page and limit query parameters.
func parsePagination(c *gin.Context) (Pagination, error) {
	pageStr, hasPage := c.GetQuery("page")
	limitStr, hasLimit := c.GetQuery("limit")
	if !hasPage && !hasLimit {
		return Pagination{}, nil
	}

	p := Pagination{Page: 1, Limit: defaultPageSize}
	if hasPage {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return Pagination{}, fmt.Errorf("page must be a positive integer")
		}
		p.Page = page
	}
	if hasLimit {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > maxPageSize {
			return Pagination{}, fmt.Errorf("limit must be between 1 and %d", maxPageSize)
		}
		p.Limit = limit
	}
	return p, nil
}
