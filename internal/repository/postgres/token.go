package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/recipe-server/internal/model"
)

var _ model.TokenStore = (*TokenRepository)(nil)

type TokenRepository struct {
	db *Connection
}

func NewTokenRepository(db *Connection) *TokenRepository {
	return &TokenRepository{
		db: db,
	}
}

// GetOrCreate stores token unless the user already has one, in which case the
// existing token is returned.
func (r *TokenRepository) GetOrCreate(ctx context.Context, token model.AuthToken) (model.AuthToken, error) {
	query := `
		WITH ins AS (
			INSERT INTO auth_tokens (key, user_id, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id) DO NOTHING
			RETURNING key, user_id, created_at
		)
		SELECT key, user_id, created_at FROM ins
		UNION ALL
		SELECT t.key, t.user_id, t.created_at
		FROM auth_tokens t
		WHERE NOT EXISTS (SELECT 1 FROM ins) AND t.user_id = $2
		LIMIT 1`

	var saved model.AuthToken
	for attempt := 0; attempt < 2; attempt++ {
		err := r.db.conn(ctx).QueryRow(ctx, query, token.Key, token.UserID, token.CreatedAt).
			Scan(&saved.Key, &saved.UserID, &saved.CreatedAt)
		if err == nil {
			return saved, nil
		}
		// A concurrent insert committed after this statement's snapshot; retry sees it.
		if !errors.Is(err, pgx.ErrNoRows) {
			return model.AuthToken{}, fmt.Errorf("failed to get or create token: %w", err)
		}
	}

	return model.AuthToken{}, fmt.Errorf("failed to get or create token: %w", pgx.ErrNoRows)
}

// GetActiveUserID resolves a token key to its user, provided the user is active.
func (r *TokenRepository) GetActiveUserID(ctx context.Context, key string) (int64, error) {
	query := `SELECT u.id FROM auth_tokens t JOIN users u ON u.id = t.user_id
			  WHERE t.key = $1 AND u.is_active`

	var userID int64
	err := r.db.conn(ctx).QueryRow(ctx, query, key).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrNotFound
		}
		return 0, fmt.Errorf("failed to get token: %w", err)
	}

	return userID, nil
}
