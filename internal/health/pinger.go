package health

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger periodically requests the bot's public URL so the hosting
// platform does not suspend it for inactivity. With no URL it only logs.
type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *zap.Logger
}

// NewPinger creates a pinger. A nil client uses a 30 second timeout.
func NewPinger(url string, interval time.Duration, client *http.Client, logger *zap.Logger) *Pinger {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Pinger{
		url:      url,
		interval: interval,
		client:   client,
		logger:   logger,
	}
}

// Run pings every interval until ctx is cancelled
func (p *Pinger) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Ping(ctx)
		}
	}
}

// Ping performs a single keep-alive and reports whether it succeeded
func (p *Pinger) Ping(ctx context.Context) bool {
	if p.url == "" {
		p.logger.Info("Keep-alive ping (no external URL configured)")
		return true
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.logger.Warn("Self-ping error", zap.Error(err))
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("Self-ping error", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Warn("Self-ping failed", zap.Int("status", resp.StatusCode))
		return false
	}

	p.logger.Debug("Self-ping successful", zap.String("url", p.url))
	return true
}
