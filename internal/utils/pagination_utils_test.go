package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paginationContext(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/mood-logs?"+query, nil)
	return c
}

func TestParsePaginationParams(t *testing.T) {
	cases := []struct {
		name   string
		query  string
		offset int
		limit  int
	}{
		{"Defaults", "", 0, 10},
		{"Explicit", "offset=20&limit=5", 20, 5},
		{"MalformedFallsBack", "offset=abc&limit=-3", 0, 10},
		{"LimitCapped", "limit=1000", 0, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			offset, limit := ParsePaginationParams(paginationContext(tc.query))
			assert.Equal(t, tc.offset, offset)
			assert.Equal(t, tc.limit, limit)
		})
	}
}
