package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/acmgbench/varbench/internal/testutil"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) *Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return &resp
}

// ========== 响应助手测试 ==========

func TestSuccess(t *testing.T) {
	assert := testutil.NewAssertHelper(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	success(c, gin.H{"hello": "world"})

	assert.Equal(http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(0, resp.Code)
	assert.Equal("success", resp.Message)
	assert.NotNil(resp.Data)
}

func TestCreated(t *testing.T) {
	assert := testutil.NewAssertHelper(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	created(c, gin.H{"id": "x"})

	assert.Equal(http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(0, resp.Code)
	assert.Equal("created", resp.Message)
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		write      func(c *gin.Context)
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "bad request",
			write:      func(c *gin.Context) { badRequest(c, errors.New("missing field")) },
			wantStatus: http.StatusBadRequest,
			wantMsg:    "missing field",
		},
		{
			name:       "not found",
			write:      func(c *gin.Context) { notFound(c, "model not found") },
			wantStatus: http.StatusNotFound,
			wantMsg:    "model not found",
		},
		{
			name:       "internal error",
			write:      func(c *gin.Context) { errorResponse(c, errors.New("boom")) },
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := testutil.NewAssertHelper(t)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			tt.write(c)

			assert.Equal(tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(-1, resp.Code)
			assert.Equal(tt.wantMsg, resp.Message)
		})
	}
}

// ========== 分页参数测试 ==========

func TestGetPagination(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{name: "defaults", query: "", wantPage: 1, wantSize: 20},
		{name: "explicit", query: "?page=3&size=50", wantPage: 3, wantSize: 50},
		{name: "zero page falls back", query: "?page=0&size=10", wantPage: 1, wantSize: 10},
		{name: "oversized capped", query: "?page=2&size=500", wantPage: 2, wantSize: 20},
		{name: "garbage falls back", query: "?page=abc&size=xyz", wantPage: 1, wantSize: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)

			page, size := getPagination(c)
			if page != tt.wantPage || size != tt.wantSize {
				t.Errorf("getPagination() = (%d, %d), want (%d, %d)", page, size, tt.wantPage, tt.wantSize)
			}
		})
	}
}

// ========== 用户上下文测试 ==========

func TestGetUserID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	if got := getUserID(c); got != "" {
		t.Errorf("getUserID() on empty context = %q, want empty", got)
	}

	c.Set("user_id", "user-1")
	if got := getUserID(c); got != "user-1" {
		t.Errorf("getUserID() = %q, want user-1", got)
	}
}
