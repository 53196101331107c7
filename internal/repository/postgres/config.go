package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/FireKid846/TG-bot/internal/repository"
)

// ConfigRepo implements repository.ConfigRepository on a single-row table
type ConfigRepo struct {
	db *sql.DB
}

// NewConfigRepo creates a new config repository
func NewConfigRepo(db *sql.DB) *ConfigRepo {
	return &ConfigRepo{db: db}
}

// Load returns the stored document
func (r *ConfigRepo) Load(ctx context.Context) ([]byte, error) {
	var document []byte
	query := `SELECT document FROM bot_config WHERE id = 1`
	err := r.db.QueryRowContext(ctx, query).Scan(&document)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return document, nil
}

// Save replaces the stored document
func (r *ConfigRepo) Save(ctx context.Context, data []byte) error {
	query := `
		INSERT INTO bot_config (id, document, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id)
		DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, string(data))
	return err
}
