package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an unused per-client limiter is retained.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter keeps one token bucket per client IP.
type ipRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	interval  time.Duration
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// newIPRateLimiter allows perMinute requests per client per minute, bursting
// to the same number. Zero or negative disables limiting and returns nil.
func newIPRateLimiter(perMinute int) *ipRateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &ipRateLimiter{
		clients:  make(map[string]*clientLimiter),
		interval: time.Minute / time.Duration(perMinute),
		burst:    perMinute,
		now:      time.Now,
	}
}

// Allow reports whether a request from key may proceed.
func (l *ipRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rate.Every(l.interval), l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// RetryAfter is the interval at which a single token is replenished.
func (l *ipRateLimiter) RetryAfter() time.Duration {
	if l.interval < time.Second {
		return time.Second
	}
	return l.interval
}

func (l *ipRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < limiterIdleTTL {
		return
	}
	l.lastSweep = now
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > limiterIdleTTL {
			delete(l.clients, key)
		}
	}
}

// clientIP is the remote address, or behind a trusted proxy the last
// X-Forwarded-For hop, which is the one the proxy appended. Earlier hops
// come from the client and are ignored.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
		if last := strings.TrimSpace(hops[len(hops)-1]); last != "" {
			return last
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
