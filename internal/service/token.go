package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/recipe-server/internal/logger"
	"github.com/dtroode/recipe-server/internal/metrics"
	"github.com/dtroode/recipe-server/internal/model"
)

// Token issues one long-lived bearer token per user and resolves tokens back
// to users. Logging in again returns the same token.
type Token struct {
	manager model.TokenManager
	store   model.TokenStore
	cache   model.TokenCache
	logger  *logger.Logger
}

// NewToken accepts a nil cache.
func NewToken(manager model.TokenManager, store model.TokenStore, cache model.TokenCache, logger *logger.Logger) *Token {
	return &Token{
		manager: manager,
		store:   store,
		cache:   cache,
		logger:  logger,
	}
}

func (s *Token) Issue(ctx context.Context, userID int64) (string, error) {
	stored, err := s.store.GetOrCreate(ctx, model.AuthToken{
		Key:       uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("Token service: failed to store token",
			"user_id", userID,
			"error", err.Error())
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	token, err := s.manager.Sign(stored.UserID, stored.Key, stored.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return token, nil
}

// GetUserID returns ErrUnauthenticated for any token that does not resolve to
// an active user.
func (s *Token) GetUserID(ctx context.Context, token string) (int64, error) {
	claimedID, key, err := s.manager.Parse(token)
	if err != nil {
		s.logger.Debug("Token service: invalid token",
			"error", err.Error())
		return 0, model.ErrUnauthenticated
	}

	userID, err := s.lookup(ctx, key)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return 0, model.ErrUnauthenticated
		}
		return 0, err
	}

	if userID != claimedID {
		s.logger.Warn("Token service: token user mismatch",
			"claimed_user_id", claimedID,
			"user_id", userID)
		return 0, model.ErrUnauthenticated
	}

	return userID, nil
}

func (s *Token) lookup(ctx context.Context, key string) (int64, error) {
	if s.cache != nil {
		userID, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.TokenCacheLookups.WithLabelValues("error").Inc()
			s.logger.Warn("Token service: cache lookup failed",
				"error", err.Error())
		case ok:
			metrics.TokenCacheLookups.WithLabelValues("hit").Inc()
			return userID, nil
		default:
			metrics.TokenCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	userID, err := s.store.GetActiveUserID(ctx, key)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to resolve token: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, userID); err != nil {
			s.logger.Warn("Token service: cache store failed",
				"error", err.Error())
		}
	}

	return userID, nil
}
