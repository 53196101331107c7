package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no persisted document exists yet
var ErrNotFound = errors.New("config not found")

// ConfigRepository persists the encoded config document locally
type ConfigRepository interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Snapshot is the mirrored document together with its revision marker
type Snapshot struct {
	Content  []byte
	Revision string
}

// Mirror keeps a remote copy of the config document across redeploys
type Mirror interface {
	Fetch(ctx context.Context) (*Snapshot, error)
	Push(ctx context.Context, data []byte) error
}
