package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetVisitors() {
	mu.Lock()
	visitors = make(map[string]*visitor)
	mu.Unlock()
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	resetVisitors()

	e := echo.New()
	handler := RateLimiter()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	rateLimited := false
	for i := 0; i < 30; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.100:12345"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, handler(c))
		if rec.Code == http.StatusTooManyRequests {
			rateLimited = true
			break
		}
	}

	assert.True(t, rateLimited)
}

func TestRateLimiterTracksIPsSeparately(t *testing.T) {
	resetVisitors()

	e := echo.New()
	handler := RateLimiter()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// Exhaust the burst for the first IP
	for i := 0; i < 30; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1000"
		c := e.NewContext(req, httptest.NewRecorder())
		require.NoError(t, handler(c))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1000"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterHonorsForwardedFor(t *testing.T) {
	resetVisitors()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Equal(t, "203.0.113.7", getIP(c))
}
