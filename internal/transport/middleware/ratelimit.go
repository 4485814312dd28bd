package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultLimiterIdleTTL is how long a client's bucket survives without
// requests before it is dropped.
const DefaultLimiterIdleTTL = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client address. Buckets
// idle for longer than the TTL are swept on later lookups so the map only
// holds recently active clients.
type IPRateLimiter struct {
	ips       map[string]*ipLimiter
	mu        sync.Mutex
	r         rate.Limit
	b         int
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type LimiterOption func(*IPRateLimiter)

func WithIdleTTL(ttl time.Duration) LimiterOption {
	return func(i *IPRateLimiter) {
		if ttl > 0 {
			i.ttl = ttl
		}
	}
}

func WithLimiterClock(now func() time.Time) LimiterOption {
	return func(i *IPRateLimiter) {
		if now != nil {
			i.now = now
		}
	}
}

func NewIPRateLimiter(r rate.Limit, b int, opts ...LimiterOption) *IPRateLimiter {
	i := &IPRateLimiter{
		ips: make(map[string]*ipLimiter),
		r:   r,
		b:   b,
		ttl: DefaultLimiterIdleTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.lastSweep = i.now()
	return i
}

func (i *IPRateLimiter) GetLimiter(key string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if now.Sub(i.lastSweep) >= i.ttl {
		i.sweep(now)
	}

	entry, exists := i.ips[key]
	if !exists {
		entry = &ipLimiter{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter
}

// Len reports how many client buckets are currently held.
func (i *IPRateLimiter) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}

// sweep must be called with mu held.
func (i *IPRateLimiter) sweep(now time.Time) {
	for key, entry := range i.ips {
		if now.Sub(entry.lastSeen) > i.ttl {
			delete(i.ips, key)
		}
	}
	i.lastSweep = now
}

// RateLimitByIP throttles PIN submissions per client. It must run after
// chi's RealIP so proxied requests are keyed by the real address.
func RateLimitByIP(limiter *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.GetLimiter(clientIP(r)).Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"success":false,"message":"Too many requests, please slow down","code":"RATE_LIMITED"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
