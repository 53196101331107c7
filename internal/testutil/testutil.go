package testutil

import (
	"sync"
	"time"

	"github.com/FireKid846/TG-bot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// Clock is a manually advanced time source
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock frozen at now
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the current fake time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NewTestBotConfig creates a default document at a fixed time
func NewTestBotConfig() *domain.BotConfig {
	return domain.DefaultBotConfig(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), domain.DefaultCooldown)
}

// NewTestUser creates a Telegram identity
func NewTestUser(userID int64, username string) domain.Identity {
	return domain.Identity{UserID: userID, Username: username}
}
