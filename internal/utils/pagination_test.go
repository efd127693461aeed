package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query string
		want  PaginationParams
	}{
		{"", PaginationParams{Page: 1, Limit: 20, Offset: 0}},
		{"?page=3&limit=10", PaginationParams{Page: 3, Limit: 10, Offset: 20}},
		{"?page=0&limit=1000", PaginationParams{Page: 1, Limit: 20, Offset: 0}},
		{"?page=abc", PaginationParams{Page: 1, Limit: 20, Offset: 0}},
	}

	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/"+tc.query, nil)
		assert.Equal(t, tc.want, GetPaginationParams(c), tc.query)
	}
}

func TestPaginationResponse(t *testing.T) {
	p := NewPaginationParams(2, 5)
	assert.Equal(t, PaginationResponse{Page: 2, Limit: 5, Total: 42}, p.Response(42))
}
