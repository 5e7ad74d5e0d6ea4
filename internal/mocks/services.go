package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/recipe-server/internal/model"
)

// UserService is a mock type for the handler.UserService type.
type UserService struct {
	mock.Mock
}

func NewUserService(t testingT) *UserService {
	m := &UserService{}
	register(&m.Mock, t)
	return m
}

func (_m *UserService) CreateUser(ctx context.Context, params model.CreateUserParams) (model.User, error) {
	ret := _m.Called(ctx, params)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	ret := _m.Called(ctx, email, password)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserService) GetProfile(ctx context.Context, userID int64) (model.User, error) {
	ret := _m.Called(ctx, userID)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserService) UpdateProfile(ctx context.Context, userID int64, params model.UpdateUserParams) (model.User, error) {
	ret := _m.Called(ctx, userID, params)
	return ret.Get(0).(model.User), ret.Error(1)
}

// TokenService is a mock type for the handler.TokenService and
// middleware.Authenticator types.
type TokenService struct {
	mock.Mock
}

func NewTokenService(t testingT) *TokenService {
	m := &TokenService{}
	register(&m.Mock, t)
	return m
}

func (_m *TokenService) Issue(ctx context.Context, userID int64) (string, error) {
	ret := _m.Called(ctx, userID)
	return ret.String(0), ret.Error(1)
}

func (_m *TokenService) GetUserID(ctx context.Context, token string) (int64, error) {
	ret := _m.Called(ctx, token)
	return ret.Get(0).(int64), ret.Error(1)
}

// CatalogService is a mock type for the handler.CatalogService type.
type CatalogService struct {
	mock.Mock
}

func NewCatalogService(t testingT) *CatalogService {
	m := &CatalogService{}
	register(&m.Mock, t)
	return m
}

func (_m *CatalogService) List(ctx context.Context, ownerID int64, filter model.CatalogFilter) ([]model.CatalogItem, error) {
	ret := _m.Called(ctx, ownerID, filter)
	items, _ := ret.Get(0).([]model.CatalogItem)
	return items, ret.Error(1)
}

func (_m *CatalogService) Get(ctx context.Context, ownerID, id int64) (model.CatalogItem, error) {
	ret := _m.Called(ctx, ownerID, id)
	return ret.Get(0).(model.CatalogItem), ret.Error(1)
}

func (_m *CatalogService) Create(ctx context.Context, ownerID int64, name string) (model.CatalogItem, error) {
	ret := _m.Called(ctx, ownerID, name)
	return ret.Get(0).(model.CatalogItem), ret.Error(1)
}

func (_m *CatalogService) Rename(ctx context.Context, ownerID, id int64, name string) (model.CatalogItem, error) {
	ret := _m.Called(ctx, ownerID, id, name)
	return ret.Get(0).(model.CatalogItem), ret.Error(1)
}

func (_m *CatalogService) Delete(ctx context.Context, ownerID, id int64) error {
	ret := _m.Called(ctx, ownerID, id)
	return ret.Error(0)
}

// RecipeService is a mock type for the handler.RecipeService type.
type RecipeService struct {
	mock.Mock
}

func NewRecipeService(t testingT) *RecipeService {
	m := &RecipeService{}
	register(&m.Mock, t)
	return m
}

func (_m *RecipeService) List(ctx context.Context, ownerID int64, filter model.RecipeFilter) ([]model.Recipe, error) {
	ret := _m.Called(ctx, ownerID, filter)
	recipes, _ := ret.Get(0).([]model.Recipe)
	return recipes, ret.Error(1)
}

func (_m *RecipeService) Get(ctx context.Context, ownerID, id int64) (model.Recipe, error) {
	ret := _m.Called(ctx, ownerID, id)
	return ret.Get(0).(model.Recipe), ret.Error(1)
}

func (_m *RecipeService) Create(ctx context.Context, ownerID int64, params model.CreateRecipeParams) (model.Recipe, error) {
	ret := _m.Called(ctx, ownerID, params)
	return ret.Get(0).(model.Recipe), ret.Error(1)
}

func (_m *RecipeService) Update(ctx context.Context, ownerID, id int64, params model.UpdateRecipeParams) (model.Recipe, error) {
	ret := _m.Called(ctx, ownerID, id, params)
	return ret.Get(0).(model.Recipe), ret.Error(1)
}

func (_m *RecipeService) Delete(ctx context.Context, ownerID, id int64) error {
	ret := _m.Called(ctx, ownerID, id)
	return ret.Error(0)
}

func (_m *RecipeService) UploadImage(ctx context.Context, ownerID, id int64, upload model.ImageUpload) (model.Recipe, error) {
	ret := _m.Called(ctx, ownerID, id, upload)
	return ret.Get(0).(model.Recipe), ret.Error(1)
}
