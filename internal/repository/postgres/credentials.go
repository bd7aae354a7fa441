package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtroode/tourdesk/internal/model"
)

var _ model.TokenStore = (*CredentialsRepository)(nil)

// CredentialsRepository persists the credentials of one profile in the sessions table.
// Each operation is a single statement, so both tokens always change together.
type CredentialsRepository struct {
	db      *Connection
	profile string
}

func NewCredentialsRepository(db *Connection, profile string) *CredentialsRepository {
	return &CredentialsRepository{db: db, profile: profile}
}

func (r *CredentialsRepository) Get(ctx context.Context) (model.Credentials, error) {
	const query = `
        SELECT access_token, refresh_token
        FROM sessions WHERE profile = $1
    `
	var creds model.Credentials
	err := r.db.QueryRowContext(ctx, query, r.profile).Scan(&creds.AccessToken, &creds.RefreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Credentials{}, nil
		}
		return model.Credentials{}, fmt.Errorf("failed to get credentials: %w", err)
	}
	return creds, nil
}

func (r *CredentialsRepository) Set(ctx context.Context, creds model.Credentials) error {
	const query = `
        INSERT INTO sessions (profile, access_token, refresh_token, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        ON CONFLICT (profile) DO UPDATE
        SET access_token = EXCLUDED.access_token,
            refresh_token = EXCLUDED.refresh_token,
            updated_at = NOW()
    `
	if _, err := r.db.ExecContext(ctx, query, r.profile, creds.AccessToken, creds.RefreshToken); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

func (r *CredentialsRepository) Clear(ctx context.Context) error {
	const query = `DELETE FROM sessions WHERE profile = $1`
	if _, err := r.db.ExecContext(ctx, query, r.profile); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}
