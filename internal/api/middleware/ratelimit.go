package middleware

import (
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/votaciones-campus/api/internal/api/handler/v1/response"
)

var errTooManyAttempts = errors.New("too many login attempts, try again later")

const purgeThreshold = 4096

type window struct {
	count int
	ends  time.Time
}

// RateLimiter counts requests per client IP in fixed windows. State is local to
// the process.
type RateLimiter struct {
	limit  int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	clients map[string]*window
}

func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		period:  period,
		now:     time.Now,
		clients: make(map[string]*window),
	}
}

// Allow records one attempt for key and reports whether it is within the limit.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.clients) >= purgeThreshold {
		l.purge(now)
	}

	w, ok := l.clients[key]
	if !ok || now.After(w.ends) {
		w = &window{ends: now.Add(l.period)}
		l.clients[key] = w
	}

	w.count++
	return w.count <= l.limit
}

func (l *RateLimiter) purge(now time.Time) {
	for key, w := range l.clients {
		if now.After(w.ends) {
			delete(l.clients, key)
		}
	}
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !l.Allow(ctx.ClientIP()) {
			response.RenderErr(ctx, response.ErrTooManyRequests(errTooManyAttempts))
			return
		}

		ctx.Next()
	}
}
