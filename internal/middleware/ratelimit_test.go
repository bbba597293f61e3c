package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
	"yt-blindpicks/internal/test"
)

func callFrom(h http.Handler, addr string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = addr
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiterMiddleware(rate.Every(time.Hour), 2, test.NewLogger())
	h := rl.Middleware(okHandler)

	assert.Equal(t, http.StatusOK, callFrom(h, "10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, callFrom(h, "10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, callFrom(h, "10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, callFrom(h, "10.0.0.2:1000"))
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiterMiddleware(rate.Every(time.Hour), 1, test.NewLogger())
	rl.now = func() time.Time { return now }
	h := rl.Middleware(okHandler)

	assert.Equal(t, http.StatusOK, callFrom(h, "10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, callFrom(h, "10.0.0.2:1000"))
	assert.Equal(t, 2, rl.tracked())

	// 10.0.0.2 stays active while 10.0.0.1 goes quiet.
	now = now.Add(6 * time.Minute)
	assert.Equal(t, http.StatusTooManyRequests, callFrom(h, "10.0.0.2:1001"))

	now = now.Add(6 * time.Minute)
	assert.Equal(t, http.StatusOK, callFrom(h, "10.0.0.3:1000"))
	assert.Equal(t, 2, rl.tracked())

	// An evicted client starts over with a full burst.
	assert.Equal(t, http.StatusOK, callFrom(h, "10.0.0.1:1001"))
	assert.Equal(t, 3, rl.tracked())
}
