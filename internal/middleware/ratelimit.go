package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Clients idle for longer than this lose their limiter.
const defaultIdleTTL = 10 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterMiddleware holds one limiter per client address.
type RateLimiterMiddleware struct {
	clients map[string]*client
	mu      sync.Mutex
	// Rate is the number of events per second.
	rate rate.Limit
	// Burst is the burst size.
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
	log       logrus.FieldLogger
}

// NewRateLimiterMiddleware creates a new RateLimiterMiddleware.
func NewRateLimiterMiddleware(r rate.Limit, b int, logger logrus.FieldLogger) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		clients: make(map[string]*client),
		rate:    r,
		burst:   b,
		idleTTL: defaultIdleTTL,
		now:     time.Now,
		log:     logger,
	}
}

// Middleware is the actual middleware handler.
func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := clientIP(r)

		if !rl.limiterFor(addr).Allow() {
			rl.log.WithField("client", addr).Warn("rate limit exceeded")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiterMiddleware) limiterFor(addr string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		rl.sweep(now)
	}

	c, ok := rl.clients[addr]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[addr] = c
	}
	c.lastSeen = now
	return c.limiter
}

// sweep drops idle clients. Callers hold rl.mu.
func (rl *RateLimiterMiddleware) sweep(now time.Time) {
	for addr, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.idleTTL {
			delete(rl.clients, addr)
		}
	}
	rl.lastSweep = now
}

// tracked reports how many clients currently hold a limiter.
func (rl *RateLimiterMiddleware) tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
