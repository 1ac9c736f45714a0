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

func corsTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateCORSMiddleware_DisabledReturnsNil(t *testing.T) {
	middleware := createCORSMiddleware(false, "https://example.com", corsTestLogger())
	assert.Nil(t, middleware)
}

func TestCreateCORSMiddleware_EnabledWithoutOriginsReturnsNil(t *testing.T) {
	middleware := createCORSMiddleware(true, "", corsTestLogger())
	assert.Nil(t, middleware)
}

func TestCreateCORSMiddleware_ParsesCommaSeparatedOrigins(t *testing.T) {
	middleware := createCORSMiddleware(
		true,
		"https://widget.justicehub.org,https://embed.example.org",
		corsTestLogger(),
	)
	assert.NotNil(t, middleware)
}

func TestParseOrigins(t *testing.T) {
	t.Run("CommaSeparated", func(t *testing.T) {
		origins := parseOrigins("https://a.example.org,https://b.example.org")
		assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, origins)
	})

	t.Run("TrimsWhitespace", func(t *testing.T) {
		origins := parseOrigins(" https://a.example.org , https://b.example.org ")
		assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, origins)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Nil(t, parseOrigins(""))
	})
}

func TestCORSIntegration_HeadersAddedWhenEnabled(t *testing.T) {
	middleware := createCORSMiddleware(true, "https://widget.justicehub.org", corsTestLogger())

	router := gin.New()
	router.Use(middleware)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "https://widget.justicehub.org")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://widget.justicehub.org", w.Header().Get("Access-Control-Allow-Origin"))
}
