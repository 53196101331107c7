package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StatsReport is the statistics summary shown to operators
type StatsReport struct {
	Status            string
	MessagesForwarded int
	KeywordsTriggered int
	Channels          int
	Groups            int
	Keywords          int
	DaysSinceReset    int
}

// StatsService handles statistics reporting and resets
type StatsService struct {
	configs *ConfigService
	now     func() time.Time
	logger  *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(configs *ConfigService, logger *zap.Logger) *StatsService {
	return &StatsService{
		configs: configs,
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock replaces the time source, for tests
func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

// Report summarizes the current document
func (s *StatsService) Report(ctx context.Context) (*StatsReport, error) {
	doc, err := s.configs.Load(ctx)
	if err != nil {
		return nil, err
	}

	days := 0
	if last := doc.Statistics.LastReset; !last.IsZero() {
		days = int(s.now().Sub(last) / (24 * time.Hour))
		if days < 0 {
			days = 0
		}
	}

	return &StatsReport{
		Status:            doc.Status(),
		MessagesForwarded: doc.Statistics.MessagesForwarded,
		KeywordsTriggered: doc.Statistics.KeywordsTriggered,
		Channels:          len(doc.Channels),
		Groups:            len(doc.Groups),
		Keywords:          len(doc.Keywords),
		DaysSinceReset:    days,
	}, nil
}

// Reset zeroes the counters
func (s *StatsService) Reset(ctx context.Context) error {
	s.logger.Info("Resetting statistics")

	if err := s.configs.ResetStatistics(ctx); err != nil {
		s.logger.Error("Failed to reset statistics", zap.Error(err))
		return err
	}

	s.logger.Info("Statistics reset completed")
	return nil
}
