package service

import (
	"math/rand/v2"
	"strings"

	"github.com/FireKid846/TG-bot/internal/domain"
)

const (
	tagAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	tagLength   = 5
)

// TagGenerator draws short random identifiers for watched sources
type TagGenerator struct {
	intn func(n int) int
}

// NewTagGenerator creates a generator. A nil intn uses math/rand.
func NewTagGenerator(intn func(n int) int) *TagGenerator {
	if intn == nil {
		intn = rand.IntN
	}
	return &TagGenerator{intn: intn}
}

// New returns a random tag
func (g *TagGenerator) New() string {
	var b strings.Builder
	b.Grow(tagLength)
	for i := 0; i < tagLength; i++ {
		b.WriteByte(tagAlphabet[g.intn(len(tagAlphabet))])
	}
	return b.String()
}

// Unique redraws until the tag is not already used in existing
func (g *TagGenerator) Unique(existing map[string]domain.Source) string {
	for {
		tag := g.New()
		if _, taken := existing[tag]; !taken {
			return tag
		}
	}
}
