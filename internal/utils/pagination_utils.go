package utils

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mindwell-server/internal/schemas"
)

const (
	defaultOffset = 0
	defaultLimit  = 10
	maxLimit      = 100
)

// ParsePaginationParams reads offset and limit from the query string, falling
// back to the defaults when a parameter is missing or malformed. Limit is
// capped at maxLimit.
func ParsePaginationParams(c *gin.Context) (int, int) {
	offset := defaultOffset
	if value, err := strconv.Atoi(c.Query(OffsetParamKey)); err == nil && value >= 0 {
		offset = value
	}

	limit := defaultLimit
	if value, err := strconv.Atoi(c.Query(LimitParamKey)); err == nil && value > 0 {
		limit = value
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return offset, limit
}

// WritePaginatedResponse sends the records of the current page together with
// the pagination metadata.
func WritePaginatedResponse(c *gin.Context, records interface{}, offset, limit, count int) {
	response := &schemas.PaginatedResponse{
		Records: records,
		Pagination: schemas.Pagination{
			Offset:  offset,
			Limit:   limit,
			Records: count,
		},
	}

	WriteAndLogResponse(c, response, http.StatusOK)
}
