package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPrefix   = "/"
	DefaultCooldown = 2
	MinCooldown     = 1
	MaxCooldown     = 60
)

// BotConfig is the single persisted document holding all bot configuration
type BotConfig struct {
	Users            map[string]string `json:"users"`
	Keywords         []string          `json:"keywords"`
	Channels         map[string]Source `json:"channels"`
	Groups           map[string]Source `json:"groups"`
	DestinationGroup *string           `json:"destination_group"`
	Cooldown         int               `json:"cooldown"`
	MonitoringActive bool              `json:"monitoring_active"`
	CommandPrefix    string            `json:"command_prefix"`
	Statistics       Statistics        `json:"statistics"`
}

// Source is a watched channel or group
type Source struct {
	Name      string    `json:"name"`
	AddedDate time.Time `json:"added_date"`
}

// Statistics holds forwarding counters maintained by the monitoring pipeline
type Statistics struct {
	MessagesForwarded int       `json:"messages_forwarded"`
	KeywordsTriggered int       `json:"keywords_triggered"`
	LastReset         time.Time `json:"last_reset"`
}

// DefaultBotConfig returns the document written on first start
func DefaultBotConfig(now time.Time, cooldown int) *BotConfig {
	if ValidateCooldown(cooldown) != nil {
		cooldown = DefaultCooldown
	}
	return &BotConfig{
		Users:         map[string]string{BootstrapUsername: HashPassword(BootstrapPassword)},
		Keywords:      []string{},
		Channels:      map[string]Source{},
		Groups:        map[string]Source{},
		Cooldown:      cooldown,
		CommandPrefix: DefaultPrefix,
		Statistics:    Statistics{LastReset: now.UTC()},
	}
}

// Normalize fills fields an older or hand-edited document may lack
func (c *BotConfig) Normalize(defaultCooldown int) {
	if len(c.Users) == 0 {
		c.Users = map[string]string{BootstrapUsername: HashPassword(BootstrapPassword)}
	}
	if c.Keywords == nil {
		c.Keywords = []string{}
	}
	if c.Channels == nil {
		c.Channels = map[string]Source{}
	}
	if c.Groups == nil {
		c.Groups = map[string]Source{}
	}
	if ValidateCooldown(c.Cooldown) != nil {
		if ValidateCooldown(defaultCooldown) != nil {
			defaultCooldown = DefaultCooldown
		}
		c.Cooldown = defaultCooldown
	}
	if c.CommandPrefix == "" {
		c.CommandPrefix = DefaultPrefix
	}
}

// Collection returns the tag map for the given source kind
func (c *BotConfig) Collection(kind SourceKind) map[string]Source {
	if kind == KindGroup {
		return c.Groups
	}
	return c.Channels
}

// Destination returns the forwarding target or "Not set"
func (c *BotConfig) Destination() string {
	if c.DestinationGroup == nil || *c.DestinationGroup == "" {
		return "Not set"
	}
	return *c.DestinationGroup
}

// Status returns the monitoring state as displayed to operators
func (c *BotConfig) Status() string {
	if c.MonitoringActive {
		return "Active"
	}
	return "Inactive"
}

// HasKeyword reports whether word is an exact keyword match
func (c *BotConfig) HasKeyword(word string) bool {
	for _, k := range c.Keywords {
		if k == word {
			return true
		}
	}
	return false
}

// SourceKind distinguishes watched channels from watched groups
type SourceKind string

const (
	KindChannel SourceKind = "channel"
	KindGroup   SourceKind = "group"
)

// TagPrefix returns the two-letter prefix shown in front of tags
func (k SourceKind) TagPrefix() string {
	if k == KindGroup {
		return "GR"
	}
	return "CH"
}

// Title returns the capitalized kind name used in replies
func (k SourceKind) Title() string {
	if k == KindGroup {
		return "Group"
	}
	return "Channel"
}

// DisplayTag returns tag with its collection prefix
func (k SourceKind) DisplayTag(tag string) string {
	return k.TagPrefix() + tag
}

// StripTag removes a leading collection prefix from user input
func (k SourceKind) StripTag(input string) string {
	return strings.TrimPrefix(input, k.TagPrefix())
}

// TaggedSource is a source together with its tag, for ordered listings
type TaggedSource struct {
	Tag string
	Source
}

// SortedSources returns the collection ordered by date added, then tag
func SortedSources(sources map[string]Source) []TaggedSource {
	list := make([]TaggedSource, 0, len(sources))
	for tag, src := range sources {
		list = append(list, TaggedSource{Tag: tag, Source: src})
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].AddedDate.Equal(list[j].AddedDate) {
			return list[i].AddedDate.Before(list[j].AddedDate)
		}
		return list[i].Tag < list[j].Tag
	})
	return list
}

// ValidateCooldown checks that minutes is within 1..60
func ValidateCooldown(minutes int) error {
	if minutes < MinCooldown || minutes > MaxCooldown {
		return ErrInvalidCooldown
	}
	return nil
}

// ParseCooldown parses operator input into a valid cooldown
func ParseCooldown(input string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, ErrInvalidCooldown
	}
	if err := ValidateCooldown(minutes); err != nil {
		return 0, err
	}
	return minutes, nil
}

// ValidateHandle checks that a channel or group name starts with @
func ValidateHandle(name string) error {
	if !strings.HasPrefix(name, "@") {
		return ErrInvalidHandle
	}
	return nil
}

// ParseKeywords splits comma separated input, trimming and dropping empties
// and repeats. Order of first appearance is kept.
func ParseKeywords(input string) []string {
	parts := strings.Split(input, ",")
	words := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		w := strings.TrimSpace(p)
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}
