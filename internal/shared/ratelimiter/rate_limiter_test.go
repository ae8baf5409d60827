package ratelimiter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// TestKeyedLimiter_Allow はキーごとに独立してバーストが消費されることを検証します。
func TestKeyedLimiter_Allow(t *testing.T) {
	t.Parallel()

	// 補充なし（rps=0）、バースト2
	kl := NewKeyedLimiter(0, 2)

	assert.True(t, kl.Allow("a"))
	assert.True(t, kl.Allow("a"))
	assert.False(t, kl.Allow("a"), "burst exhausted for key a")

	assert.True(t, kl.Allow("b"), "key b has its own budget")
}

// TestMiddleware は上限超過時に429を返すことを検証します。
func TestMiddleware(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Middleware(NewKeyedLimiter(0, 1)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "Too many requests")
}
