package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterIdleTTL       = 10 * time.Minute
)

// SubmitLimiter is a per-client token bucket guarding the submission routes
// so a double-clicking browser cannot flood the automation webhook.
type SubmitLimiter struct {
	mu      sync.Mutex
	clients map[string]*tokenBucket
	perSec  float64
	burst   float64
	now     func() time.Time
}

type tokenBucket struct {
	tokens float64
	seen   time.Time
}

// NewSubmitLimiter allows perMinute submissions per client with the given burst.
func NewSubmitLimiter(perMinute float64, burst int) *SubmitLimiter {
	if burst < 1 {
		burst = 1
	}
	return &SubmitLimiter{
		clients: make(map[string]*tokenBucket),
		perSec:  perMinute / 60,
		burst:   float64(burst),
		now:     time.Now,
	}
}

// Allow takes one token from client's bucket. The second value is how long
// to wait before the next token is available.
func (l *SubmitLimiter) Allow(client string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.clients[client]
	if !ok {
		b = &tokenBucket{tokens: l.burst, seen: now}
		l.clients[client] = b
	}
	b.tokens = min(l.burst, b.tokens+now.Sub(b.seen).Seconds()*l.perSec)
	b.seen = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if l.perSec <= 0 {
		return false, time.Minute
	}
	wait := time.Duration((1 - b.tokens) / l.perSec * float64(time.Second))
	return false, wait
}

// Sweep drops buckets idle since before cutoff and returns how many remain.
func (l *SubmitLimiter) Sweep(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for client, b := range l.clients {
		if b.seen.Before(cutoff) {
			delete(l.clients, client)
		}
	}
	return len(l.clients)
}

// Run sweeps idle buckets until ctx is done.
func (l *SubmitLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep(l.now().Add(-limiterIdleTTL))
		}
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
func (l *SubmitLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := l.Allow(clientIP(r))
		if !ok {
			seconds := int(wait.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"too many submissions, try again shortly"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP prefers X-Real-Ip, which chi's RealIP middleware sets.
func clientIP(r *http.Request) string {
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
