package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/FireKid846/TG-bot/internal/domain"
	"github.com/FireKid846/TG-bot/internal/repository"

	"go.uber.org/zap"
)

// ConfigService loads, mutates and persists the bot config document.
//
// Mutations run as load, mutate, save with no lock held across the
// sequence: two handlers updating the document at the same time can lose
// one of the updates. Operators are few, so last writer wins.
type ConfigService struct {
	local           repository.ConfigRepository
	mirror          repository.Mirror
	tags            *TagGenerator
	defaultCooldown int
	now             func() time.Time
	logger          *zap.Logger

	observersMu sync.RWMutex
	observers   []func(doc *domain.BotConfig)
}

// ConfigOption customizes a ConfigService
type ConfigOption func(*ConfigService)

// WithMirror enables remote mirroring of every saved document
func WithMirror(mirror repository.Mirror) ConfigOption {
	return func(s *ConfigService) { s.mirror = mirror }
}

// WithTagGenerator replaces the random tag source
func WithTagGenerator(tags *TagGenerator) ConfigOption {
	return func(s *ConfigService) { s.tags = tags }
}

// WithClock replaces the time source
func WithClock(now func() time.Time) ConfigOption {
	return func(s *ConfigService) { s.now = now }
}

// NewConfigService creates a new config service
func NewConfigService(local repository.ConfigRepository, defaultCooldown int, logger *zap.Logger, opts ...ConfigOption) *ConfigService {
	s := &ConfigService{
		local:           local,
		tags:            NewTagGenerator(nil),
		defaultCooldown: defaultCooldown,
		now:             time.Now,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the current document. A reachable mirror always wins and
// refreshes the local copy; otherwise the local copy is used; otherwise a
// default document is created and saved.
func (s *ConfigService) Load(ctx context.Context) (*domain.BotConfig, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.notify(doc)
	return doc, nil
}

func (s *ConfigService) load(ctx context.Context) (*domain.BotConfig, error) {
	if doc := s.loadFromMirror(ctx); doc != nil {
		return doc, nil
	}

	data, err := s.local.Load(ctx)
	switch {
	case err == nil:
		doc, decodeErr := s.decode(data)
		if decodeErr == nil {
			return doc, nil
		}
		s.logger.Warn("Local config is corrupt, recreating defaults", zap.Error(decodeErr))
	case errors.Is(err, repository.ErrNotFound):
		s.logger.Info("No config found, creating defaults")
	default:
		return nil, fmt.Errorf("loading config: %w", err)
	}

	doc := domain.DefaultBotConfig(s.now(), s.defaultCooldown)
	if err := s.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *ConfigService) loadFromMirror(ctx context.Context) *domain.BotConfig {
	if s.mirror == nil {
		return nil
	}

	snapshot, err := s.mirror.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Config mirror unreachable, using local copy", zap.Error(err))
		}
		return nil
	}

	doc, err := s.decode(snapshot.Content)
	if err != nil {
		s.logger.Warn("Mirrored config is corrupt, using local copy",
			zap.String("revision", snapshot.Revision),
			zap.Error(err),
		)
		return nil
	}

	data, err := encode(doc)
	if err == nil {
		err = s.local.Save(ctx, data)
	}
	if err != nil {
		s.logger.Warn("Failed to refresh local config from mirror", zap.Error(err))
	}
	return doc
}

// Save writes the document locally, then mirrors it before returning so
// the next Load sees this revision. Mirror failures are logged and never
// retried; they do not fail the save.
func (s *ConfigService) Save(ctx context.Context, doc *domain.BotConfig) error {
	data, err := encode(doc)
	if err != nil {
		return err
	}
	if err := s.local.Save(ctx, data); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if s.mirror != nil {
		if err := s.mirror.Push(ctx, data); err != nil {
			s.logger.Warn("Config mirror sync failed", zap.Error(err))
		}
	}
	return nil
}

// OnLoad registers fn to run with every document Load returns
func (s *ConfigService) OnLoad(fn func(doc *domain.BotConfig)) {
	s.observersMu.Lock()
	defer s.observersMu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *ConfigService) notify(doc *domain.BotConfig) {
	s.observersMu.RLock()
	defer s.observersMu.RUnlock()
	for _, fn := range s.observers {
		fn(doc)
	}
}

// Update loads the document, applies fn and saves the result.
// Nothing is saved when fn returns an error.
func (s *ConfigService) Update(ctx context.Context, fn func(doc *domain.BotConfig) error) (*domain.BotConfig, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SetMonitoring turns keyword monitoring on or off
func (s *ConfigService) SetMonitoring(ctx context.Context, active bool) error {
	_, err := s.Update(ctx, func(doc *domain.BotConfig) error {
		doc.MonitoringActive = active
		return nil
	})
	return err
}

// SetPrefix changes the command prefix
func (s *ConfigService) SetPrefix(ctx context.Context, prefix string) error {
	if prefix == "" {
		return domain.ErrEmptyPrefix
	}
	_, err := s.Update(ctx, func(doc *domain.BotConfig) error {
		doc.CommandPrefix = prefix
		return nil
	})
	return err
}

// SetDestination sets the group matches are forwarded to
func (s *ConfigService) SetDestination(ctx context.Context, group string) error {
	if err := domain.ValidateHandle(group); err != nil {
		return err
	}
	_, err := s.Update(ctx, func(doc *domain.BotConfig) error {
		doc.DestinationGroup = &group
		return nil
	})
	return err
}

// SetCooldown sets the forwarding cooldown in minutes
func (s *ConfigService) SetCooldown(ctx context.Context, minutes int) error {
	if err := domain.ValidateCooldown(minutes); err != nil {
		return err
	}
	_, err := s.Update(ctx, func(doc *domain.BotConfig) error {
		doc.Cooldown = minutes
		return nil
	})
	return err
}

// AddSource registers a channel or group under a fresh tag and returns the tag
func (s *ConfigService) AddSource(ctx context.Context, kind domain.SourceKind, name string) (string, error) {
	if err := domain.ValidateHandle(name); err != nil {
		return "", err
	}

	var tag string
	_, err := s.Update(ctx, func(doc *domain.BotConfig) error {
		collection := doc.Collection(kind)
		tag = s.tags.Unique(collection)
		collection[tag] = domain.Source{Name: name, AddedDate: s.now().UTC()}
		return nil
	})
	if err != nil {
		return "", err
	}
	return tag, nil
}

// RemoveSource deletes a channel or group by its displayed or bare tag
func (s *ConfigService) RemoveSource(ctx context.Context, kind domain.SourceKind, input string) (domain.Source, error) {
	tag := kind.StripTag(strings.TrimSpace(input))

	var removed domain.Source
	_, err := s.Update(ctx, func(doc *domain.BotConfig) error {
		collection := doc.Collection(kind)
		src, exists := collection[tag]
		if !exists {
			return domain.ErrNotFound
		}
		removed = src
		delete(collection, tag)
		return nil
	})
	if err != nil {
		return domain.Source{}, err
	}
	return removed, nil
}

// SetKeywords replaces the keyword list with the comma separated input
func (s *ConfigService) SetKeywords(ctx context.Context, input string) ([]string, error) {
	keywords := domain.ParseKeywords(input)
	_, err := s.Update(ctx, func(doc *domain.BotConfig) error {
		doc.Keywords = keywords
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keywords, nil
}

// RemoveKeyword deletes an exact keyword match
func (s *ConfigService) RemoveKeyword(ctx context.Context, word string) error {
	word = strings.TrimSpace(word)
	_, err := s.Update(ctx, func(doc *domain.BotConfig) error {
		if !doc.HasKeyword(word) {
			return domain.ErrNotFound
		}
		kept := make([]string, 0, len(doc.Keywords))
		for _, k := range doc.Keywords {
			if k != word {
				kept = append(kept, k)
			}
		}
		doc.Keywords = kept
		return nil
	})
	return err
}

// PutUser stores a credential, replacing any existing one for username
func (s *ConfigService) PutUser(ctx context.Context, username, passwordHash string) error {
	if username == "" {
		return domain.ErrEmptyUsername
	}
	_, err := s.Update(ctx, func(doc *domain.BotConfig) error {
		doc.Users[username] = passwordHash
		return nil
	})
	return err
}

// ResetStatistics zeroes the counters and restarts the reporting period
func (s *ConfigService) ResetStatistics(ctx context.Context) error {
	_, err := s.Update(ctx, func(doc *domain.BotConfig) error {
		doc.Statistics = domain.Statistics{LastReset: s.now().UTC()}
		return nil
	})
	return err
}

func (s *ConfigService) decode(data []byte) (*domain.BotConfig, error) {
	var doc domain.BotConfig
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	doc.Normalize(s.defaultCooldown)
	return &doc, nil
}

func encode(doc *domain.BotConfig) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}
