package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/recipe-server/internal/logger"
	"github.com/dtroode/recipe-server/internal/model"
)

const (
	msgEmailTaken   = "user with this email already exists."
	msgPasswordLong = "Ensure this field has no more than 72 bytes."
)

type User struct {
	store  model.UserStore
	hasher model.PasswordHasher
	logger *logger.Logger
}

func NewUser(store model.UserStore, hasher model.PasswordHasher, logger *logger.Logger) *User {
	return &User{
		store:  store,
		hasher: hasher,
		logger: logger,
	}
}

// CreateUser registers an active, non-staff account.
func (s *User) CreateUser(ctx context.Context, params model.CreateUserParams) (model.User, error) {
	email := model.NormalizeEmail(params.Email)
	if email == "" {
		return model.User{}, model.NewValidationError("email", msgFieldBlank)
	}

	s.logger.Debug("User service: creating user",
		"email", email)

	_, err := s.store.GetByEmail(ctx, email)
	if err == nil {
		s.logger.Info("User service: email already taken",
			"email", email)
		return model.User{}, model.NewValidationError("email", msgEmailTaken)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := s.hashPassword(params.Password)
	if err != nil {
		return model.User{}, err
	}

	user, err := s.store.Create(ctx, model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         params.Name,
		IsActive:     true,
		IsStaff:      params.IsStaff,
		IsSuperuser:  params.IsSuperuser,
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return model.User{}, model.NewValidationError("email", msgEmailTaken)
		}
		s.logger.Error("User service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User service: user created",
		"user_id", user.ID)
	return user, nil
}

// CreateSuperuser registers an account with staff and superuser flags set.
func (s *User) CreateSuperuser(ctx context.Context, params model.CreateUserParams) (model.User, error) {
	params.IsStaff = true
	params.IsSuperuser = true
	return s.CreateUser(ctx, params)
}

// Authenticate returns ErrInvalidCredentials for unknown emails, wrong
// passwords and inactive accounts alike.
func (s *User) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.store.GetByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		s.logger.Info("User service: wrong password",
			"user_id", user.ID)
		return model.User{}, model.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Info("User service: inactive user tried to authenticate",
			"user_id", user.ID)
		return model.User{}, model.ErrInvalidCredentials
	}

	return user, nil
}

func (s *User) GetProfile(ctx context.Context, userID int64) (model.User, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile changes the name and, when a non-empty password is given, the password.
func (s *User) UpdateProfile(ctx context.Context, userID int64, params model.UpdateUserParams) (model.User, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Password != nil && *params.Password != "" {
		hash, err := s.hashPassword(*params.Password)
		if err != nil {
			return model.User{}, err
		}
		user.PasswordHash = hash
	}

	updated, err := s.store.Update(ctx, user)
	if err != nil {
		s.logger.Error("User service: failed to update user",
			"user_id", userID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return updated, nil
}

func (s *User) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", model.NewValidationError("password", msgPasswordLong)
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}
