package model

import (
	"context"
	"time"
)

// TokenManager signs and verifies bearer tokens.
type TokenManager interface {
	Sign(userID int64, key string, issuedAt time.Time) (string, error)
	Parse(token string) (userID int64, key string, err error)
}

// TokenStore persists the single token key issued to each user.
type TokenStore interface {
	GetOrCreate(ctx context.Context, token AuthToken) (AuthToken, error)
	GetActiveUserID(ctx context.Context, key string) (int64, error)
}

// TokenCache remembers which user a token key resolves to.
type TokenCache interface {
	Get(ctx context.Context, key string) (userID int64, ok bool, err error)
	Set(ctx context.Context, key string, userID int64) error
}

type AuthToken struct {
	Key       string
	UserID    int64
	CreatedAt time.Time
}
