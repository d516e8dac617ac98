package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the per-client limiter.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained refill rate.
	RequestsPerSecond float64
	// Burst is how many requests a client may issue at once.
	Burst int
}

// limiterEntryTTL controls when idle client buckets are dropped.
const limiterEntryTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces a token-bucket limit per client IP. Over-limit
// requests get 429 with the same JSON envelope the API uses for errors.
func RateLimiter(cfg RateLimitConfig) func(http.Handler) http.Handler {
	var (
		mu      sync.Mutex
		clients = make(map[string]*limiterEntry)
		swept   = time.Now()
	)

	take := func(ip string) bool {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		if now.Sub(swept) > limiterEntryTTL {
			for key, entry := range clients {
				if now.Sub(entry.lastSeen) > limiterEntryTTL {
					delete(clients, key)
				}
			}
			swept = now
		}

		entry, ok := clients[ip]
		if !ok {
			entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)}
			clients[ip] = entry
		}
		entry.lastSeen = now
		return entry.limiter.Allow()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !take(clientIP(r)) {
				w.Header().Set("Retry-After", "1")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"code":    http.StatusTooManyRequests,
					"message": "rate limit exceeded",
				})
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr. X-Forwarded-For is untrusted
// and deliberately ignored; honoring it would let clients reset their own
// bucket per request.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
