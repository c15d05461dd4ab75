package httpapi

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/platform/config"
)

// ipLimiter keeps one token bucket per client IP.
type ipLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
	now         func() time.Time
}

func (l *ipLimiter) get(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}
	actual, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rate, l.burst))
	l.maybeCleanup()
	return actual.(*rate.Limiter)
}

// maybeCleanup drops limiters whose bucket has refilled, at most every five minutes.
func (l *ipLimiter) maybeCleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastCleanup) < 5*time.Minute {
		return
	}
	l.lastCleanup = now
	l.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).TokensAt(now) >= float64(l.burst) {
			l.limiters.Delete(key)
		}
		return true
	})
}

// clientIP expects middleware.RealIP to have run, so RemoteAddr is either host:port or a
// bare address taken from X-Forwarded-For / X-Real-IP.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// NewIPRateLimitMiddleware limits each client IP to cfg.Requests per cfg.Window with cfg.Burst.
// Rejected requests get 429 RATE_LIMITED with a Retry-After header.
func NewIPRateLimitMiddleware(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	l := &ipLimiter{
		rate:        rate.Limit(float64(cfg.Requests) / cfg.Window.Seconds()),
		burst:       cfg.Burst,
		lastCleanup: time.Now(),
		now:         time.Now,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if key == "" {
				zerolog.Ctx(r.Context()).Warn().Msg("rate limit: no client address, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			lim := l.get(key)
			if !lim.Allow() {
				res := lim.Reserve()
				delay := res.Delay()
				res.Cancel()
				retryAfter := max(int(delay.Seconds()), 1)

				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				zerolog.Ctx(r.Context()).Warn().
					Str("client_ip", key).
					Int("retry_after", retryAfter).
					Msg("rate limit exceeded")
				writeError(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", map[string]any{
					"retryAfterSeconds": retryAfter,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
