package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/recipe-server/internal/api/http/render"
	"github.com/dtroode/recipe-server/internal/logger"
	"github.com/dtroode/recipe-server/internal/model"
)

// UserService defines registration, login and profile operations.
type UserService interface {
	CreateUser(ctx context.Context, params model.CreateUserParams) (model.User, error)
	Authenticate(ctx context.Context, email, password string) (model.User, error)
	GetProfile(ctx context.Context, userID int64) (model.User, error)
	UpdateProfile(ctx context.Context, userID int64, params model.UpdateUserParams) (model.User, error)
}

// TokenService issues bearer tokens.
type TokenService interface {
	Issue(ctx context.Context, userID int64) (string, error)
}

// User handles the /api/user endpoints.
type User struct {
	userService    UserService
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(userService UserService, tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{
		userService:    userService,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Create registers a user and responds with its public fields.
func (h *User) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := render.Decode(r, &req); err != nil {
		badJSON(w, err)
		return
	}
	if err := validateRequest(req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), model.CreateUserParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("User handler: user registered",
		"user_id", user.ID)
	render.JSON(w, http.StatusCreated, newUserResponse(user))
}

// Token exchanges credentials for the user's bearer token.
func (h *User) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := render.Decode(r, &req); err != nil {
		badJSON(w, err)
		return
	}
	if err := validateRequest(req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, err := h.tokenService.Issue(r.Context(), user.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	render.JSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *User) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrUnauthenticated)
		return
	}

	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	render.JSON(w, http.StatusOK, newUserResponse(user))
}

// PatchMe updates the fields present in the body.
func (h *User) PatchMe(w http.ResponseWriter, r *http.Request) {
	h.updateMe(w, r, true)
}

// PutMe requires name.
func (h *User) PutMe(w http.ResponseWriter, r *http.Request) {
	h.updateMe(w, r, false)
}

func (h *User) updateMe(w http.ResponseWriter, r *http.Request, partial bool) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrUnauthenticated)
		return
	}

	var req updateUserRequest
	if err := render.Decode(r, &req); err != nil {
		badJSON(w, err)
		return
	}
	if err := validateRequest(req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if !partial {
		if err := requireFields(map[string]bool{"name": req.Name != nil}); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}
	if req.Password != nil && *req.Password != "" && len([]rune(*req.Password)) < 8 {
		writeError(w, h.logger, model.NewValidationError("password", "Ensure this field has at least 8 characters."))
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, model.UpdateUserParams{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	render.JSON(w, http.StatusOK, newUserResponse(user))
}
