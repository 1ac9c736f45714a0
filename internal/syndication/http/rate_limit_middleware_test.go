package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRateLimitedRouter(rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := gin.New()
	router.GET("/content/:contentId",
		ContentRateLimitMiddleware(rps, burst, logger),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		},
	)
	return router
}

func TestContentRateLimitMiddleware_AllowsWithinBurst(t *testing.T) {
	router := setupRateLimitedRouter(1, 3)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/content/S1", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestContentRateLimitMiddleware_BlocksBeyondBurst(t *testing.T) {
	router := setupRateLimitedRouter(1, 2)

	var lastCode int
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/content/S1", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		router.ServeHTTP(w, req)
		lastCode = w.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}

func TestContentRateLimitMiddleware_IndependentPerIP(t *testing.T) {
	router := setupRateLimitedRouter(1, 1)

	first := httptest.NewRecorder()
	reqA, _ := http.NewRequest(http.MethodGet, "/content/S1", nil)
	reqA.RemoteAddr = "10.0.0.3:1234"
	router.ServeHTTP(first, reqA)
	assert.Equal(t, http.StatusOK, first.Code)

	// Exhausted for the first IP.
	second := httptest.NewRecorder()
	router.ServeHTTP(second, reqA)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// A different IP still gets through.
	third := httptest.NewRecorder()
	reqB, _ := http.NewRequest(http.MethodGet, "/content/S1", nil)
	reqB.RemoteAddr = "10.0.0.4:1234"
	router.ServeHTTP(third, reqB)
	assert.Equal(t, http.StatusOK, third.Code)
}
