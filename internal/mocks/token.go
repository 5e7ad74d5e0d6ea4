package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/recipe-server/internal/model"
)

// TokenManager is a mock type for the model.TokenManager type.
type TokenManager struct {
	mock.Mock
}

func NewTokenManager(t testingT) *TokenManager {
	m := &TokenManager{}
	register(&m.Mock, t)
	return m
}

func (_m *TokenManager) Sign(userID int64, key string, issuedAt time.Time) (string, error) {
	ret := _m.Called(userID, key, issuedAt)
	return ret.String(0), ret.Error(1)
}

func (_m *TokenManager) Parse(token string) (int64, string, error) {
	ret := _m.Called(token)
	return ret.Get(0).(int64), ret.String(1), ret.Error(2)
}

// TokenStore is a mock type for the model.TokenStore type.
type TokenStore struct {
	mock.Mock
}

func NewTokenStore(t testingT) *TokenStore {
	m := &TokenStore{}
	register(&m.Mock, t)
	return m
}

func (_m *TokenStore) GetOrCreate(ctx context.Context, token model.AuthToken) (model.AuthToken, error) {
	ret := _m.Called(ctx, token)
	return ret.Get(0).(model.AuthToken), ret.Error(1)
}

func (_m *TokenStore) GetActiveUserID(ctx context.Context, key string) (int64, error) {
	ret := _m.Called(ctx, key)
	return ret.Get(0).(int64), ret.Error(1)
}

// TokenCache is a mock type for the model.TokenCache type.
type TokenCache struct {
	mock.Mock
}

func NewTokenCache(t testingT) *TokenCache {
	m := &TokenCache{}
	register(&m.Mock, t)
	return m
}

func (_m *TokenCache) Get(ctx context.Context, key string) (int64, bool, error) {
	ret := _m.Called(ctx, key)
	return ret.Get(0).(int64), ret.Bool(1), ret.Error(2)
}

func (_m *TokenCache) Set(ctx context.Context, key string, userID int64) error {
	ret := _m.Called(ctx, key, userID)
	return ret.Error(0)
}
