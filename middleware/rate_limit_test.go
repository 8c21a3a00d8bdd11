package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterBlocksHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	var handled int
	router.GET("/ping", RateLimiterMiddleware(RateLimiterConfig{
		RequestsPerSecond: 1,
		Burst:             1,
	}), func(c *gin.Context) {
		handled++
		c.Status(http.StatusOK)
	})

	var denied int
	for range 5 {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		router.ServeHTTP(w, req)

		if w.Code == http.StatusTooManyRequests {
			denied++
		}
	}

	if denied == 0 {
		t.Fatal("expected at least one denied request")
	}
	if handled != 5-denied {
		t.Fatalf("handler ran %d times for %d denied requests", handled, denied)
	}
}
