package middleware

import (
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"
)

// RateLimiter throttles updates per Telegram user with a token bucket.
// Buckets live for the lifetime of the process.
type RateLimiter struct {
	limiters map[int64]*rate.Limiter
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	logger   *zap.Logger
}

// NewRateLimiter creates a limiter allowing perSecond updates with the given burst
func NewRateLimiter(perSecond float64, burst int, logger *zap.Logger) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[int64]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		logger:   logger,
	}
}

// Allow reports whether userID may send another update now
func (l *RateLimiter) Allow(userID int64) bool {
	l.mu.Lock()
	limiter, exists := l.limiters[userID]
	if !exists {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[userID] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}

// Middleware drops updates over the limit without replying
func (l *RateLimiter) Middleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			who := Sender(c)
			if !l.Allow(who.UserID) {
				l.logger.Warn("Rate limit exceeded", zap.Int64("user_id", who.UserID))
				return nil
			}
			return next(c)
		}
	}
}
